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

// KarmaService aggregates peer ratings into a reputation score and finds
// finished challenges a player still has to rate.
type KarmaService struct {
	ratingRepo    repositories.RatingRepository
	challengeRepo repositories.ChallengeRepository
	identities    identityDirectory
}

func NewKarmaService(
	ratingRepo repositories.RatingRepository,
	challengeRepo repositories.ChallengeRepository,
	accountRepo repositories.AccountRepository,
	logger *slog.Logger,
) *KarmaService {
	return &KarmaService{
		ratingRepo:    ratingRepo,
		challengeRepo: challengeRepo,
		identities:    identityDirectory{accountRepo: accountRepo, logger: defaultLogger(logger)},
	}
}

// Aggregate counts the votes received by playerID and derives the karma percentage.
func (s *KarmaService) Aggregate(ctx context.Context, playerID int) (summary models.KarmaSummary, err error) {
	ctx, span := tracer.Start(ctx, "KarmaService.Aggregate", trace.WithAttributes(attribute.Int("player_id", playerID)))
	defer func() { endSpan(span, err) }()

	if playerID <= 0 {
		return summary, ErrInvalidPlayerID
	}

	counts, err := s.ratingRepo.CountByValue(ctx, playerID)
	if err != nil {
		return summary, fmt.Errorf("failed to aggregate karma for player %d: %w", playerID, err)
	}

	// Missing buckets read as zero.
	summary.NumNegative = counts[models.VoteNegative]
	summary.NumNeutral = counts[models.VoteNeutral]
	summary.NumPositive = counts[models.VotePositive]
	summary.Karma = KarmaPercent(summary.NumPositive, summary.NumNegative)
	return summary, nil
}

// Ratings lists every rating received by playerID, newest first, with the rater's name.
func (s *KarmaService) Ratings(ctx context.Context, playerID int) (_ []models.KarmaRating, err error) {
	ctx, span := tracer.Start(ctx, "KarmaService.Ratings", trace.WithAttributes(attribute.Int("player_id", playerID)))
	defer func() { endSpan(span, err) }()

	if playerID <= 0 {
		return nil, ErrInvalidPlayerID
	}

	ratings, err := s.ratingRepo.ListByRated(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings of player %d: %w", playerID, err)
	}

	raterIDs := make([]int, 0, len(ratings))
	for _, r := range ratings {
		raterIDs = append(raterIDs, r.RaterID)
	}
	identities, err := s.identities.resolve(ctx, raterIDs)
	if err != nil {
		return nil, err
	}

	result := make([]models.KarmaRating, 0, len(ratings))
	for _, r := range ratings {
		result = append(result, models.KarmaRating{
			Rating:    *r,
			RaterName: s.identities.lookup(ctx, identities, r.RaterID).DisplayName,
		})
	}
	return result, nil
}

// UnresolvedObligations returns the finished challenges involving playerID that the player
// has not rated yet, oldest first.
func (s *KarmaService) UnresolvedObligations(ctx context.Context, playerID int) (_ []models.Obligation, err error) {
	ctx, span := tracer.Start(ctx, "KarmaService.UnresolvedObligations", trace.WithAttributes(attribute.Int("player_id", playerID)))
	defer func() { endSpan(span, err) }()

	if playerID <= 0 {
		return nil, ErrInvalidPlayerID
	}

	challenges, err := s.challengeRepo.ListFinishedByAccount(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished challenges of player %d: %w", playerID, err)
	}
	rated, err := s.ratingRepo.RatedChallengeIDs(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings given by player %d: %w", playerID, err)
	}

	pending := make([]*models.Challenge, 0, len(challenges))
	for _, c := range challenges {
		if _, done := rated[c.ID]; !done {
			pending = append(pending, c)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].ChallengeDate.Before(pending[j].ChallengeDate)
	})

	identities, err := s.identities.resolve(ctx, challengeParticipantIDs(pending))
	if err != nil {
		return nil, err
	}

	obligations := make([]models.Obligation, 0, len(pending))
	for _, c := range pending {
		obligations = append(obligations, models.Obligation{
			ChallengeID:    c.ID,
			CompetitionID:  c.CompetitionID,
			ChallengerID:   c.ChallengerID,
			ChallengedID:   c.ChallengedID,
			ChallengerName: s.identities.lookup(ctx, identities, c.ChallengerID).DisplayName,
			ChallengedName: s.identities.lookup(ctx, identities, c.ChallengedID).DisplayName,
			ChallengeDate:  c.ChallengeDate,
		})
	}
	return obligations, nil
}
