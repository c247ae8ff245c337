package services

import "github.com/Dosada05/ladder-stats/models"

// StringLookup resolves a descriptor key to display text.
type StringLookup interface {
	Lookup(key string) string
}

// CountryNamer resolves a country code to its display name.
type CountryNamer interface {
	CountryName(code string) string
}

// Localizer is the string collaborator used by the composing services.
type Localizer interface {
	StringLookup
	CountryNamer
}

// optionPair names the two descriptors of one encoded option field.
// Values below 3 include low, values above 1 include high, so 2 yields both.
type optionPair struct {
	low, high string
}

var (
	rulesOption  = optionPair{low: "4th", high: "LHTR"}
	luckOption   = optionPair{low: "random", high: "ll"}
	modeOption   = optionPair{low: "pbem", high: "online"}
	escortOption = optionPair{low: "off", high: "on"}
	mapOption    = optionPair{low: "1941", high: "1942"}
)

// fifthEditionRules replaces the rules field on the special ladder.
const fifthEditionRules = "5th"

type OptionsDecoder struct {
	lookup                    StringLookup
	specialRulesCompetitionID int
}

// NewOptionsDecoder creates a decoder. specialRulesCompetitionID is the ladder whose rules
// always decode to the 5th edition descriptor; 0 disables the carve-out.
func NewOptionsDecoder(lookup StringLookup, specialRulesCompetitionID int) *OptionsDecoder {
	return &OptionsDecoder{lookup: lookup, specialRulesCompetitionID: specialRulesCompetitionID}
}

func (d *OptionsDecoder) Decode(flags models.OptionFlags, competitionID int) models.OptionSet {
	set := models.OptionSet{
		Luck:   d.decodeField(luckOption, flags.Luck),
		Mode:   d.decodeField(modeOption, flags.Mode),
		Escort: d.decodeField(escortOption, flags.Escort),
		Map:    d.decodeField(mapOption, flags.Map),
	}
	// TODO: legacy carve-out for one ladder's ruleset; confirm with the ladder admins before changing.
	if d.specialRulesCompetitionID != 0 && competitionID == d.specialRulesCompetitionID {
		set.Rules = []models.OptionDescriptor{d.descriptor(fifthEditionRules)}
	} else {
		set.Rules = d.decodeField(rulesOption, flags.Rules)
	}
	return set
}

func (d *OptionsDecoder) decodeField(pair optionPair, value int) []models.OptionDescriptor {
	descriptors := make([]models.OptionDescriptor, 0, 2)
	if value < 3 {
		descriptors = append(descriptors, d.descriptor(pair.low))
	}
	if value > 1 {
		descriptors = append(descriptors, d.descriptor(pair.high))
	}
	return descriptors
}

func (d *OptionsDecoder) descriptor(name string) models.OptionDescriptor {
	desc := name
	if d.lookup != nil {
		desc = d.lookup.Lookup(name)
	}
	return models.OptionDescriptor{Name: name, Description: desc}
}
