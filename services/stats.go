package services

import (
	"math"

	"github.com/Dosada05/ladder-stats/models"
)

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// NewWinStats computes win/loss percentages rounded to one decimal.
// With no games played the win share is 0 and the loss share 100.
func NewWinStats(wins, losses int) models.WinStats {
	ws := models.WinStats{Matches: wins + losses, Wins: wins, Losses: losses}
	if ws.Matches <= 0 {
		ws.WinPercent = 0
		ws.LossPercent = 100
		return ws
	}
	total := float64(ws.Matches)
	ws.WinPercent = roundTenth(float64(wins) / total * 100)
	ws.LossPercent = roundTenth(float64(losses) / total * 100)
	return ws
}

// KarmaPercent is the share of positive votes among positive and negative ones.
// Neutral votes never count; a player with no decisive votes gets 100.
func KarmaPercent(positive, negative int) float64 {
	switch {
	case positive > 0:
		return roundTenth(float64(positive) / float64(positive+negative) * 100)
	case negative > 0:
		return 0
	default:
		return 100
	}
}
