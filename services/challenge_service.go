package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/repositories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OutcomeResolver attaches the match result to a completed challenge.
type OutcomeResolver interface {
	OutcomeFor(ctx context.Context, playerID int, challenge *models.Challenge) (*models.Outcome, error)
}

type ChallengeService struct {
	challengeRepo   repositories.ChallengeRepository
	competitionRepo repositories.CompetitionRepository
	outcomes        OutcomeResolver
	identities      identityDirectory
}

func NewChallengeService(
	challengeRepo repositories.ChallengeRepository,
	competitionRepo repositories.CompetitionRepository,
	accountRepo repositories.AccountRepository,
	outcomes OutcomeResolver,
	logger *slog.Logger,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo:   challengeRepo,
		competitionRepo: competitionRepo,
		outcomes:        outcomes,
		identities:      identityDirectory{accountRepo: accountRepo, logger: defaultLogger(logger)},
	}
}

// Challenges lists the player's challenges. With a nil competitionID the result is the
// concatenation over every hosted competition in catalog order, each part newest first.
// currentOnly keeps open and in-progress challenges; otherwise only cancelled ones are dropped.
func (s *ChallengeService) Challenges(ctx context.Context, playerID int, competitionID *int, currentOnly bool) (_ []models.ChallengeRecord, err error) {
	attrs := []attribute.KeyValue{attribute.Int("player_id", playerID), attribute.Bool("current_only", currentOnly)}
	if competitionID != nil {
		attrs = append(attrs, attribute.Int("competition_id", *competitionID))
	}
	ctx, span := tracer.Start(ctx, "ChallengeService.Challenges", trace.WithAttributes(attrs...))
	defer func() { endSpan(span, err) }()

	if playerID <= 0 {
		return nil, ErrInvalidPlayerID
	}

	competitionIDs, err := s.competitionScope(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	statusBelow := models.ChallengeStatusCancelled
	if currentOnly {
		statusBelow = models.ChallengeStatusCompleted
	}

	challenges := make([]*models.Challenge, 0)
	for _, compID := range competitionIDs {
		part, err := s.challengeRepo.ListByAccount(ctx, playerID, compID, statusBelow)
		if err != nil {
			return nil, fmt.Errorf("failed to list challenges of player %d in competition %d: %w", playerID, compID, err)
		}
		sort.SliceStable(part, func(i, j int) bool {
			return part[i].ChallengeDate.After(part[j].ChallengeDate)
		})
		challenges = append(challenges, part...)
	}

	identities, err := s.identities.resolve(ctx, challengeParticipantIDs(challenges))
	if err != nil {
		return nil, err
	}

	records := make([]models.ChallengeRecord, 0, len(challenges))
	for _, c := range challenges {
		challenger := s.identities.lookup(ctx, identities, c.ChallengerID)
		challenged := s.identities.lookup(ctx, identities, c.ChallengedID)
		record := models.ChallengeRecord{
			Challenge:         *c,
			ChallengerName:    challenger.DisplayName,
			ChallengerCountry: challenger.Country,
			ChallengedName:    challenged.DisplayName,
			ChallengedCountry: challenged.Country,
		}
		if c.Status == models.ChallengeStatusCompleted {
			outcome, err := s.outcomes.OutcomeFor(ctx, playerID, c)
			if err != nil {
				return nil, err
			}
			record.Outcome = outcome
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *ChallengeService) competitionScope(ctx context.Context, competitionID *int) ([]int, error) {
	if competitionID != nil {
		if *competitionID <= 0 {
			return nil, ErrInvalidCompetitionID
		}
		return []int{*competitionID}, nil
	}

	competitions, err := s.competitionRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	ids := make([]int, 0, len(competitions))
	for _, c := range competitions {
		ids = append(ids, c.ID)
	}
	return ids, nil
}
