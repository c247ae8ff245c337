package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/repositories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ActivePlayersReader is implemented by StandingsService and its cached decorator.
type ActivePlayersReader interface {
	ActivePlayers(ctx context.Context, competitionID int, maxStatus models.GlobalStatus) ([]models.ActivePlayer, error)
}

// StandingsService answers competition-wide questions: who plays and who leads.
type StandingsService struct {
	participationRepo repositories.ParticipationRepository
	competitionRepo   repositories.CompetitionRepository
	karma             *KarmaService
	decoder           *OptionsDecoder
	lookup            StringLookup
}

func NewStandingsService(
	participationRepo repositories.ParticipationRepository,
	competitionRepo repositories.CompetitionRepository,
	karma *KarmaService,
	decoder *OptionsDecoder,
	lookup StringLookup,
) *StandingsService {
	return &StandingsService{
		participationRepo: participationRepo,
		competitionRepo:   competitionRepo,
		karma:             karma,
		decoder:           decoder,
		lookup:            lookup,
	}
}

// Competitions returns the competitions the ladder currently hosts.
func (s *StandingsService) Competitions(ctx context.Context) ([]models.Competition, error) {
	competitions, err := s.competitionRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	result := make([]models.Competition, 0, len(competitions))
	for _, c := range competitions {
		result = append(result, *c)
	}
	return result, nil
}

// Competition returns one hosted competition.
func (s *StandingsService) Competition(ctx context.Context, competitionID int) (models.Competition, error) {
	if competitionID <= 0 {
		return models.Competition{}, ErrInvalidCompetitionID
	}
	c, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return models.Competition{}, ErrCompetitionNotFound
		}
		return models.Competition{}, fmt.Errorf("failed to get competition %d: %w", competitionID, err)
	}
	return *c, nil
}

// ActivePlayers lists the active participants of a competition ordered by name,
// each with decoded options, rank and karma.
func (s *StandingsService) ActivePlayers(ctx context.Context, competitionID int, maxStatus models.GlobalStatus) (_ []models.ActivePlayer, err error) {
	ctx, span := tracer.Start(ctx, "StandingsService.ActivePlayers", trace.WithAttributes(
		attribute.Int("competition_id", competitionID),
		attribute.Int("max_status", int(maxStatus)),
	))
	defer func() { endSpan(span, err) }()

	if competitionID <= 0 {
		return nil, ErrInvalidCompetitionID
	}
	if err := validateMaxStatus(maxStatus); err != nil {
		return nil, err
	}

	rows, err := s.participationRepo.ListByCompetition(ctx, competitionID, models.LocalStatusActive, maxStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of competition %d: %w", competitionID, err)
	}

	players := make([]models.ActivePlayer, 0, len(rows))
	for _, row := range rows {
		player := *row
		player.Decoded = s.decoder.Decode(player.Options, competitionID)
		player.Rank = RankFor(player.Rating)
		player.RankTitle = lookupOrKey(s.lookup, player.Rank.LookupKey())

		karma, err := s.karma.Aggregate(ctx, player.AccountID)
		if err != nil {
			return nil, err
		}
		player.Karma = karma
		players = append(players, player)
	}
	return players, nil
}

// IsTopPlayer reports whether playerID holds the highest rating of the competition.
// On an exact rating tie the storage adapter's ordering picks one row (lowest account id for postgres).
func (s *StandingsService) IsTopPlayer(ctx context.Context, playerID, competitionID int) (bool, error) {
	if playerID <= 0 {
		return false, ErrInvalidPlayerID
	}
	if competitionID <= 0 {
		return false, ErrInvalidCompetitionID
	}

	topID, err := s.participationRepo.TopRated(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get top player of competition %d: %w", competitionID, err)
	}
	return topID == playerID, nil
}

func lookupOrKey(lookup StringLookup, key string) string {
	if lookup == nil {
		return key
	}
	return lookup.Lookup(key)
}
