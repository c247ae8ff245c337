package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/repositories"
)

func validateMaxStatus(s models.GlobalStatus) error {
	if !s.Valid() {
		return ErrInvalidStatusFilter
	}
	return nil
}

// identityDirectory annotates records with display names and countries.
type identityDirectory struct {
	accountRepo repositories.AccountRepository
	logger      *slog.Logger
}

func (d identityDirectory) resolve(ctx context.Context, ids []int) (map[int]models.Identity, error) {
	identities, err := d.accountRepo.ListIdentities(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player identities: %w", err)
	}
	return identities, nil
}

// lookup returns the identity for id, or a placeholder when the account has no ladder profile.
func (d identityDirectory) lookup(ctx context.Context, identities map[int]models.Identity, id int) models.Identity {
	if identity, ok := identities[id]; ok {
		return identity
	}
	if d.logger != nil {
		d.logger.WarnContext(ctx, "identity missing for account", slog.Int("account_id", id))
	}
	return models.Identity{AccountID: id, DisplayName: fmt.Sprintf("Player %d (details missing)", id)}
}

func matchParticipantIDs(matches []*models.Match) []int {
	ids := make([]int, 0, len(matches)*2)
	for _, m := range matches {
		ids = append(ids, m.WinnerID, m.LoserID)
	}
	return ids
}

func challengeParticipantIDs(challenges []*models.Challenge) []int {
	ids := make([]int, 0, len(challenges)*2)
	for _, c := range challenges {
		ids = append(ids, c.ChallengerID, c.ChallengedID)
	}
	return ids
}

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
