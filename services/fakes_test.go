package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/repositories"
)

// fakeLadder is an in-memory ladder database. Each repository view below mirrors
// the filtering and ordering of the postgres queries.
type fakeLadder struct {
	mu             sync.Mutex
	accounts       []models.GlobalAccount
	competitions   []models.Competition
	participations []models.Participation
	matches        []models.Match
	challenges     []models.Challenge
	ratings        []models.Rating
	posts          []models.RecentPost

	err   error
	calls map[string]int
}

func newFakeLadder() *fakeLadder {
	return &fakeLadder{calls: make(map[string]int)}
}

func (f *fakeLadder) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeLadder) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

type fakeAccounts struct{ *fakeLadder }

func (f fakeAccounts) FindByID(ctx context.Context, id int, maxStatus models.GlobalStatus) ([]*models.GlobalAccount, error) {
	if err := f.record("accounts.FindByID"); err != nil {
		return nil, err
	}
	var out []*models.GlobalAccount
	for i := range f.accounts {
		a := f.accounts[i]
		if a.ID == id && a.Status <= maxStatus {
			out = append(out, &a)
		}
	}
	return out, nil
}

func (f fakeAccounts) ListIdentities(ctx context.Context, ids []int) (map[int]models.Identity, error) {
	if err := f.record("accounts.ListIdentities"); err != nil {
		return nil, err
	}
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make(map[int]models.Identity)
	for _, a := range f.accounts {
		if wanted[a.ID] {
			out[a.ID] = models.Identity{AccountID: a.ID, DisplayName: a.DisplayName, Country: a.Country}
		}
	}
	return out, nil
}

type fakeCompetitions struct{ *fakeLadder }

func (f fakeCompetitions) ListActive(ctx context.Context) ([]*models.Competition, error) {
	if err := f.record("competitions.ListActive"); err != nil {
		return nil, err
	}
	out := make([]*models.Competition, 0, len(f.competitions))
	for i := range f.competitions {
		c := f.competitions[i]
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeCompetitions) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	if err := f.record("competitions.GetByID"); err != nil {
		return nil, err
	}
	for _, c := range f.competitions {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, repositories.ErrCompetitionNotFound
}

type fakeParticipations struct{ *fakeLadder }

func (f fakeParticipations) ListByAccount(ctx context.Context, accountID int, competitionID *int, status models.LocalStatus) ([]*models.Participation, error) {
	if err := f.record("participations.ListByAccount"); err != nil {
		return nil, err
	}
	out := make([]*models.Participation, 0)
	for i := range f.participations {
		p := f.participations[i]
		if p.AccountID != accountID || p.Status != status {
			continue
		}
		if competitionID != nil && p.CompetitionID != *competitionID {
			continue
		}
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompetitionID < out[j].CompetitionID })
	return out, nil
}

func (f fakeParticipations) ListByCompetition(ctx context.Context, competitionID int, status models.LocalStatus, maxStatus models.GlobalStatus) ([]*models.ActivePlayer, error) {
	if err := f.record("participations.ListByCompetition"); err != nil {
		return nil, err
	}
	out := make([]*models.ActivePlayer, 0)
	for _, p := range f.participations {
		if p.CompetitionID != competitionID || p.Status != status {
			continue
		}
		for _, a := range f.accounts {
			if a.ID == p.AccountID && a.Status <= maxStatus {
				out = append(out, &models.ActivePlayer{
					Participation: p,
					DisplayName:   a.DisplayName,
					Country:       a.Country,
					GlobalStatus:  a.Status,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (f fakeParticipations) TopRated(ctx context.Context, competitionID int) (int, error) {
	if err := f.record("participations.TopRated"); err != nil {
		return 0, err
	}
	var best *models.Participation
	for i := range f.participations {
		p := &f.participations[i]
		if p.CompetitionID != competitionID {
			continue
		}
		if best == nil || p.Rating > best.Rating || (p.Rating == best.Rating && p.AccountID < best.AccountID) {
			best = p
		}
	}
	if best == nil {
		return 0, repositories.ErrParticipationNotFound
	}
	return best.AccountID, nil
}

type fakeMatches struct{ *fakeLadder }

func (f fakeMatches) ListByAccount(ctx context.Context, accountID, competitionID int, side *models.Side) ([]*models.Match, error) {
	if err := f.record("matches.ListByAccount"); err != nil {
		return nil, err
	}
	out := make([]*models.Match, 0)
	for i := range f.matches {
		m := f.matches[i]
		if m.CompetitionID != competitionID || (m.WinnerID != accountID && m.LoserID != accountID) {
			continue
		}
		if side != nil {
			wonWithSide := m.Side == *side && m.WinnerID == accountID
			lostWithSide := m.Side == side.Opposite() && m.LoserID == accountID
			if !wonWithSide && !lostWithSide {
				continue
			}
		}
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchDate.After(out[j].MatchDate) })
	return out, nil
}

func (f fakeMatches) FindBetween(ctx context.Context, competitionID, accountA, accountB int, since time.Time) (*models.Match, error) {
	if err := f.record("matches.FindBetween"); err != nil {
		return nil, err
	}
	var best *models.Match
	for i := range f.matches {
		m := &f.matches[i]
		pair := (m.WinnerID == accountA && m.LoserID == accountB) || (m.WinnerID == accountB && m.LoserID == accountA)
		if m.CompetitionID != competitionID || !pair || m.MatchDate.Before(since) {
			continue
		}
		if best == nil || m.MatchDate.Before(best.MatchDate) {
			best = m
		}
	}
	if best == nil {
		return nil, repositories.ErrMatchNotFound
	}
	m := *best
	return &m, nil
}

type fakeChallenges struct{ *fakeLadder }

func (f fakeChallenges) GetByID(ctx context.Context, id int) (*models.Challenge, error) {
	if err := f.record("challenges.GetByID"); err != nil {
		return nil, err
	}
	for _, c := range f.challenges {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, repositories.ErrChallengeNotFound
}

func (f fakeChallenges) ListByAccount(ctx context.Context, accountID, competitionID int, statusBelow models.ChallengeStatus) ([]*models.Challenge, error) {
	if err := f.record("challenges.ListByAccount"); err != nil {
		return nil, err
	}
	out := make([]*models.Challenge, 0)
	for i := range f.challenges {
		c := f.challenges[i]
		if c.CompetitionID != competitionID || c.Status >= statusBelow {
			continue
		}
		if c.ChallengerID != accountID && c.ChallengedID != accountID {
			continue
		}
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChallengeDate.After(out[j].ChallengeDate) })
	return out, nil
}

func (f fakeChallenges) ListFinishedByAccount(ctx context.Context, accountID int) ([]*models.Challenge, error) {
	if err := f.record("challenges.ListFinishedByAccount"); err != nil {
		return nil, err
	}
	out := make([]*models.Challenge, 0)
	for i := range f.challenges {
		c := f.challenges[i]
		if c.Status <= models.ChallengeStatusInProgress {
			continue
		}
		if c.ChallengerID != accountID && c.ChallengedID != accountID {
			continue
		}
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChallengeDate.Before(out[j].ChallengeDate) })
	return out, nil
}

type fakeRatings struct{ *fakeLadder }

func (f fakeRatings) CountByValue(ctx context.Context, ratedID int) (map[int]int, error) {
	if err := f.record("ratings.CountByValue"); err != nil {
		return nil, err
	}
	counts := make(map[int]int)
	for _, r := range f.ratings {
		if r.RatedID == ratedID {
			counts[r.Value]++
		}
	}
	return counts, nil
}

func (f fakeRatings) ListByRated(ctx context.Context, ratedID int) ([]*models.Rating, error) {
	if err := f.record("ratings.ListByRated"); err != nil {
		return nil, err
	}
	out := make([]*models.Rating, 0)
	for i := range f.ratings {
		r := f.ratings[i]
		if r.RatedID == ratedID {
			out = append(out, &r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RatingDate.After(out[j].RatingDate) })
	return out, nil
}

func (f fakeRatings) RatedChallengeIDs(ctx context.Context, raterID int) (map[int]struct{}, error) {
	if err := f.record("ratings.RatedChallengeIDs"); err != nil {
		return nil, err
	}
	out := make(map[int]struct{})
	for _, r := range f.ratings {
		if r.RaterID == raterID {
			out[r.ChallengeID] = struct{}{}
		}
	}
	return out, nil
}

type fakePosts struct {
	*fakeLadder
	lastLimit int
}

func (f *fakePosts) ListRecentByAccount(ctx context.Context, accountID, limit int) ([]*models.RecentPost, error) {
	if err := f.record("posts.ListRecentByAccount"); err != nil {
		return nil, err
	}
	f.lastLimit = limit
	out := make([]*models.RecentPost, 0)
	for i := range f.posts {
		p := f.posts[i]
		if p.UserID == accountID && len(out) < limit {
			out = append(out, &p)
		}
	}
	return out, nil
}

// fakeLocalizer answers lookups from a map and echoes unknown keys.
type fakeLocalizer map[string]string

func (l fakeLocalizer) Lookup(key string) string {
	if v, ok := l[key]; ok {
		return v
	}
	return key
}

func (l fakeLocalizer) CountryName(code string) string {
	return "country:" + strings.ToUpper(code)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC)
}

// testServices wires every service over one fake ladder.
type testServices struct {
	ladder     *fakeLadder
	posts      *fakePosts
	karma      *KarmaService
	matches    *MatchService
	challenges *ChallengeService
	standings  *StandingsService
	profiles   *ProfileService
	decoder    *OptionsDecoder
}

func newTestServices(ladder *fakeLadder) *testServices {
	logger := discardLogger()
	localizer := fakeLocalizer{"rank.general": "General", "rank.major": "Major", "ll": "Low luck"}
	accounts := fakeAccounts{ladder}
	posts := &fakePosts{fakeLadder: ladder}

	decoder := NewOptionsDecoder(localizer, 6)
	karma := NewKarmaService(fakeRatings{ladder}, fakeChallenges{ladder}, accounts, logger)
	matches := NewMatchService(fakeMatches{ladder}, fakeChallenges{ladder}, accounts, logger)
	challenges := NewChallengeService(fakeChallenges{ladder}, fakeCompetitions{ladder}, accounts, matches, logger)
	standings := NewStandingsService(fakeParticipations{ladder}, fakeCompetitions{ladder}, karma, decoder, localizer)
	profiles := NewProfileService(ProfileServiceDeps{
		AccountRepo:       accounts,
		ParticipationRepo: fakeParticipations{ladder},
		PostRepo:          posts,
		Karma:             karma,
		Matches:           matches,
		Challenges:        challenges,
		Standings:         standings,
		Decoder:           decoder,
		Localizer:         localizer,
		RecentPostsLimit:  3,
		Logger:            logger,
	})
	return &testServices{
		ladder:     ladder,
		posts:      posts,
		karma:      karma,
		matches:    matches,
		challenges: challenges,
		standings:  standings,
		profiles:   profiles,
		decoder:    decoder,
	}
}
