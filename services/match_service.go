package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/repositories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MatchService composes a player's match history and resolves challenge outcomes.
type MatchService struct {
	matchRepo     repositories.MatchRepository
	challengeRepo repositories.ChallengeRepository
	identities    identityDirectory
	logger        *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	challengeRepo repositories.ChallengeRepository,
	accountRepo repositories.AccountRepository,
	logger *slog.Logger,
) *MatchService {
	logger = defaultLogger(logger)
	return &MatchService{
		matchRepo:     matchRepo,
		challengeRepo: challengeRepo,
		identities:    identityDirectory{accountRepo: accountRepo, logger: logger},
		logger:        logger,
	}
}

// History returns the player's matches in a competition, newest first.
// The side filter keeps matches the player played on that side: won with it, or lost against the opposite side.
func (s *MatchService) History(ctx context.Context, playerID, competitionID int, filter models.SideFilter) (_ []models.MatchRecord, err error) {
	ctx, span := tracer.Start(ctx, "MatchService.History", trace.WithAttributes(
		attribute.Int("player_id", playerID),
		attribute.Int("competition_id", competitionID),
		attribute.String("side", string(filter)),
	))
	defer func() { endSpan(span, err) }()

	if playerID <= 0 {
		return nil, ErrInvalidPlayerID
	}
	if competitionID <= 0 {
		return nil, ErrInvalidCompetitionID
	}
	if filter == "" {
		filter = models.SideFilterBoth
	}
	if !filter.Valid() {
		return nil, ErrInvalidSideFilter
	}

	var side *models.Side
	if sd, ok := filter.Side(); ok {
		side = &sd
	}

	matches, err := s.matchRepo.ListByAccount(ctx, playerID, competitionID, side)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of player %d: %w", playerID, err)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchDate.After(matches[j].MatchDate)
	})

	identities, err := s.identities.resolve(ctx, matchParticipantIDs(matches))
	if err != nil {
		return nil, err
	}

	records := make([]models.MatchRecord, 0, len(matches))
	for _, m := range matches {
		winner := s.identities.lookup(ctx, identities, m.WinnerID)
		loser := s.identities.lookup(ctx, identities, m.LoserID)
		records = append(records, models.MatchRecord{
			Match:         *m,
			WinnerName:    winner.DisplayName,
			WinnerCountry: winner.Country,
			LoserName:     loser.DisplayName,
			LoserCountry:  loser.Country,
			SideName:      m.Side.Name(),
		})
	}
	return records, nil
}

// Outcome resolves the match result of a completed challenge from playerID's point of view.
func (s *MatchService) Outcome(ctx context.Context, playerID, challengeID int) (_ *models.Outcome, err error) {
	ctx, span := tracer.Start(ctx, "MatchService.Outcome", trace.WithAttributes(
		attribute.Int("player_id", playerID),
		attribute.Int("challenge_id", challengeID),
	))
	defer func() { endSpan(span, err) }()

	if playerID <= 0 {
		return nil, ErrInvalidPlayerID
	}

	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge %d: %w", challengeID, err)
	}
	if !challenge.Involves(playerID) {
		return nil, ErrChallengeNotFound
	}
	if challenge.Status != models.ChallengeStatusCompleted {
		return nil, ErrChallengeNotResolved
	}
	return s.OutcomeFor(ctx, playerID, challenge)
}

// OutcomeFor resolves the outcome of an already loaded completed challenge.
// A completed challenge without a reported match yields an Unreported outcome, never nil.
func (s *MatchService) OutcomeFor(ctx context.Context, playerID int, challenge *models.Challenge) (*models.Outcome, error) {
	match, err := s.matchRepo.FindBetween(ctx, challenge.CompetitionID, challenge.ChallengerID, challenge.ChallengedID, challenge.ChallengeDate)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			s.logger.WarnContext(ctx, "completed challenge has no reported match",
				slog.Int("challenge_id", challenge.ID), slog.Int("competition_id", challenge.CompetitionID))
			return &models.Outcome{Axis: models.ResultUnreported, Allies: models.ResultUnreported}, nil
		}
		return nil, fmt.Errorf("failed to resolve outcome of challenge %d: %w", challenge.ID, err)
	}
	return outcomeOf(match, playerID), nil
}

func outcomeOf(m *models.Match, playerID int) *models.Outcome {
	matchID := m.ID
	o := &models.Outcome{MatchID: &matchID, PlayerWon: m.WinnerID == playerID}
	if m.Side == models.SideAxis {
		o.Axis, o.Allies = models.ResultWon, models.ResultLost
	} else {
		o.Axis, o.Allies = models.ResultLost, models.ResultWon
	}

	switch playerID {
	case m.WinnerID:
		side := m.Side
		o.PlayerSide = &side
	case m.LoserID:
		side := m.Side.Opposite()
		o.PlayerSide = &side
	}
	return o
}
