package models

type RankTier string

const (
	RankGeneral    RankTier = "general"
	RankColonel    RankTier = "colonel"
	RankMajor      RankTier = "major"
	RankCaptain    RankTier = "captain"
	RankLieutenant RankTier = "lieutenant"
	RankSergeant   RankTier = "sergeant"
	RankCorporal   RankTier = "corporal"
	RankPrivate    RankTier = "private"
)

// LookupKey is the string-catalog key holding the tier's display title.
func (t RankTier) LookupKey() string {
	return "rank." + string(t)
}
