package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/repositories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	maxRecentPosts = 50
	// profileFanOut bounds concurrent per-competition composition inside one profile read.
	profileFanOut = 4
)

// ProfileReader is implemented by ProfileService and its cached decorator.
type ProfileReader interface {
	Profile(ctx context.Context, playerID int, competitionID *int, maxStatus models.GlobalStatus) (*models.PlayerProfile, error)
}

// ProfileService is the entry point composing a full player profile.
type ProfileService struct {
	accountRepo       repositories.AccountRepository
	participationRepo repositories.ParticipationRepository
	postRepo          repositories.PostRepository
	karma             *KarmaService
	matches           *MatchService
	challenges        *ChallengeService
	standings         *StandingsService
	decoder           *OptionsDecoder
	localizer         Localizer
	recentPostsLimit  int
	logger            *slog.Logger
}

type ProfileServiceDeps struct {
	AccountRepo       repositories.AccountRepository
	ParticipationRepo repositories.ParticipationRepository
	PostRepo          repositories.PostRepository
	Karma             *KarmaService
	Matches           *MatchService
	Challenges        *ChallengeService
	Standings         *StandingsService
	Decoder           *OptionsDecoder
	Localizer         Localizer
	RecentPostsLimit  int
	Logger            *slog.Logger
}

func NewProfileService(deps ProfileServiceDeps) *ProfileService {
	limit := deps.RecentPostsLimit
	if limit <= 0 || limit > maxRecentPosts {
		limit = 10
	}
	return &ProfileService{
		accountRepo:       deps.AccountRepo,
		participationRepo: deps.ParticipationRepo,
		postRepo:          deps.PostRepo,
		karma:             deps.Karma,
		matches:           deps.Matches,
		challenges:        deps.Challenges,
		standings:         deps.Standings,
		decoder:           deps.Decoder,
		localizer:         deps.Localizer,
		recentPostsLimit:  limit,
		logger:            defaultLogger(deps.Logger),
	}
}

// Profile composes the player's profile. It returns (nil, nil) when the identity lookup under
// maxStatus yields no row or more than one row.
func (s *ProfileService) Profile(ctx context.Context, playerID int, competitionID *int, maxStatus models.GlobalStatus) (_ *models.PlayerProfile, err error) {
	attrs := []attribute.KeyValue{attribute.Int("player_id", playerID), attribute.Int("max_status", int(maxStatus))}
	if competitionID != nil {
		attrs = append(attrs, attribute.Int("competition_id", *competitionID))
	}
	ctx, span := tracer.Start(ctx, "ProfileService.Profile", trace.WithAttributes(attrs...))
	defer func() { endSpan(span, err) }()

	if playerID <= 0 {
		return nil, ErrInvalidPlayerID
	}
	if competitionID != nil && *competitionID <= 0 {
		return nil, ErrInvalidCompetitionID
	}
	if err := validateMaxStatus(maxStatus); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindByID(ctx, playerID, maxStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to look up player %d: %w", playerID, err)
	}
	if len(accounts) != 1 {
		if len(accounts) > 1 {
			s.logger.WarnContext(ctx, "ambiguous account lookup", slog.Int("player_id", playerID), slog.Int("rows", len(accounts)))
		}
		return nil, nil
	}

	profile := &models.PlayerProfile{GlobalAccount: *accounts[0]}
	profile.CountryName = s.countryName(profile.Country)

	profile.Karma, err = s.karma.Aggregate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	participations, err := s.participationRepo.ListByAccount(ctx, playerID, competitionID, models.LocalStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations of player %d: %w", playerID, err)
	}

	profile.Competitions = make([]models.CompetitionStats, len(participations))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(profileFanOut)
	for i, p := range participations {
		g.Go(func() error {
			stats, err := s.competitionStats(gCtx, *p)
			if err != nil {
				return err
			}
			profile.Competitions[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) competitionStats(ctx context.Context, p models.Participation) (models.CompetitionStats, error) {
	compID := p.CompetitionID
	stats := models.CompetitionStats{
		Participation: p,
		Overall:       NewWinStats(p.Wins, p.Losses),
		Allies:        NewWinStats(p.AlliesWins, p.AlliesLosses),
		Axis:          NewWinStats(p.AxisWins, p.AxisLosses),
		Decoded:       s.decoder.Decode(p.Options, compID),
		Rank:          RankFor(p.Rating),
	}
	stats.RankTitle = lookupOrKey(s.localizer, stats.Rank.LookupKey())

	var err error
	if stats.TopPlayer, err = s.standings.IsTopPlayer(ctx, p.AccountID, compID); err != nil {
		return stats, err
	}
	if stats.PlayedMatches, err = s.matches.History(ctx, p.AccountID, compID, models.SideFilterBoth); err != nil {
		return stats, err
	}
	if stats.Challenges, err = s.challenges.Challenges(ctx, p.AccountID, &compID, true); err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *ProfileService) countryName(code string) string {
	if s.localizer == nil {
		return code
	}
	return s.localizer.CountryName(code)
}

// RecentPosts passes through the player's latest forum posts. A non-positive limit uses the
// configured default; limits above 50 are capped.
func (s *ProfileService) RecentPosts(ctx context.Context, playerID, limit int) ([]models.RecentPost, error) {
	if playerID <= 0 {
		return nil, ErrInvalidPlayerID
	}
	if limit <= 0 {
		limit = s.recentPostsLimit
	}
	if limit > maxRecentPosts {
		limit = maxRecentPosts
	}

	posts, err := s.postRepo.ListRecentByAccount(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts of player %d: %w", playerID, err)
	}
	result := make([]models.RecentPost, 0, len(posts))
	for _, p := range posts {
		result = append(result, *p)
	}
	return result, nil
}
