package services

import "github.com/Dosada05/ladder-stats/models"

type rankThreshold struct {
	above float64 // exclusive lower bound
	tier  models.RankTier
}

// rankThresholds is ordered by strictly decreasing bound; the first match wins.
var rankThresholds = []rankThreshold{
	{above: 1600, tier: models.RankGeneral},
	{above: 1400, tier: models.RankColonel},
	{above: 1200, tier: models.RankMajor},
	{above: 1000, tier: models.RankCaptain},
	{above: 800, tier: models.RankLieutenant},
	{above: 600, tier: models.RankSergeant},
	{above: 400, tier: models.RankCorporal},
}

// RankFor maps a rating to its rank tier. Ratings at or below the lowest bound are Private.
func RankFor(rating float64) models.RankTier {
	for _, t := range rankThresholds {
		if rating > t.above {
			return t.tier
		}
	}
	return models.RankPrivate
}
