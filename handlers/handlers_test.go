package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/ladder-stats/middleware"
	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

type stubCatalog struct {
	competitions []models.Competition
	topID        int
	err          error
}

func (s *stubCatalog) Competitions(ctx context.Context) ([]models.Competition, error) {
	return s.competitions, s.err
}

func (s *stubCatalog) IsTopPlayer(ctx context.Context, playerID, competitionID int) (bool, error) {
	return playerID == s.topID, s.err
}

type stubPlayers struct {
	gotStatus models.GlobalStatus
	err       error
}

func (s *stubPlayers) ActivePlayers(ctx context.Context, competitionID int, maxStatus models.GlobalStatus) ([]models.ActivePlayer, error) {
	s.gotStatus = maxStatus
	if s.err != nil {
		return nil, s.err
	}
	if !maxStatus.Valid() {
		return nil, services.ErrInvalidStatusFilter
	}
	return []models.ActivePlayer{{DisplayName: "Rommel"}}, nil
}

type stubPlayerServices struct {
	profile        *models.PlayerProfile
	gotCompetition *int
	gotSide        models.SideFilter
	gotCurrent     bool
	gotLimit       int
	outcomeErr     error
}

func (s *stubPlayerServices) Profile(ctx context.Context, playerID int, competitionID *int, maxStatus models.GlobalStatus) (*models.PlayerProfile, error) {
	s.gotCompetition = competitionID
	return s.profile, nil
}

func (s *stubPlayerServices) RecentPosts(ctx context.Context, playerID, limit int) ([]models.RecentPost, error) {
	s.gotLimit = limit
	return []models.RecentPost{{ID: 1, Subject: "gg"}}, nil
}

func (s *stubPlayerServices) History(ctx context.Context, playerID, competitionID int, filter models.SideFilter) ([]models.MatchRecord, error) {
	s.gotSide = filter
	if filter != "" && !filter.Valid() {
		return nil, services.ErrInvalidSideFilter
	}
	return []models.MatchRecord{}, nil
}

func (s *stubPlayerServices) Outcome(ctx context.Context, playerID, challengeID int) (*models.Outcome, error) {
	if s.outcomeErr != nil {
		return nil, s.outcomeErr
	}
	return &models.Outcome{Axis: models.ResultWon, Allies: models.ResultLost}, nil
}

func (s *stubPlayerServices) Challenges(ctx context.Context, playerID int, competitionID *int, currentOnly bool) ([]models.ChallengeRecord, error) {
	s.gotCompetition = competitionID
	s.gotCurrent = currentOnly
	return []models.ChallengeRecord{}, nil
}

func (s *stubPlayerServices) Aggregate(ctx context.Context, playerID int) (models.KarmaSummary, error) {
	return models.KarmaSummary{NumPositive: 2, NumNegative: 1, Karma: 66.7}, nil
}

func (s *stubPlayerServices) Ratings(ctx context.Context, playerID int) ([]models.KarmaRating, error) {
	return []models.KarmaRating{}, nil
}

func (s *stubPlayerServices) UnresolvedObligations(ctx context.Context, playerID int) ([]models.Obligation, error) {
	return []models.Obligation{{ChallengeID: 100 + playerID}}, nil
}

func newTestRouter(catalog *stubCatalog, players *stubPlayers, ps *stubPlayerServices) chi.Router {
	ch := NewCompetitionHandler(catalog, players, models.DefaultMaxGlobalStatus)
	ph := NewPlayerHandler(PlayerHandlerDeps{
		Profiles:         ps,
		Posts:            ps,
		Matches:          ps,
		Challenges:       ps,
		Karma:            ps,
		DefaultMaxStatus: models.DefaultMaxGlobalStatus,
	})
	oh := NewObligationHandler(ps)

	r := chi.NewRouter()
	r.Get("/competitions", ch.ListCompetitions)
	r.Get("/competitions/{competitionID}/players", ch.ListPlayers)
	r.Get("/competitions/{competitionID}/top/{playerID}", ch.IsTopPlayer)
	r.Get("/players/{playerID}", ph.GetProfile)
	r.Get("/players/{playerID}/matches", ph.ListMatches)
	r.Get("/players/{playerID}/challenges", ph.ListChallenges)
	r.Get("/players/{playerID}/challenges/{challengeID}/outcome", ph.GetChallengeOutcome)
	r.Get("/players/{playerID}/karma", ph.GetKarma)
	r.Get("/players/{playerID}/posts", ph.ListPosts)
	r.Get("/me/obligations", oh.ListMine)
	return r
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %q", rec.Body.String())
	}
	return rec, body
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	return do(t, h, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestStatusCodes(t *testing.T) {
	ps := &stubPlayerServices{profile: &models.PlayerProfile{GlobalAccount: models.GlobalAccount{ID: 42}}}
	router := newTestRouter(&stubCatalog{topID: 42}, &stubPlayers{}, ps)

	tests := []struct {
		target string
		want   int
		key    string
	}{
		{"/competitions", http.StatusOK, "competitions"},
		{"/competitions/6/players", http.StatusOK, "players"},
		{"/competitions/6/players?max_status=7", http.StatusBadRequest, "error"},
		{"/competitions/6/players?max_status=x", http.StatusBadRequest, "error"},
		{"/competitions/abc/players", http.StatusBadRequest, "error"},
		{"/competitions/6/top/42", http.StatusOK, "top_player"},
		{"/players/42", http.StatusOK, "profile"},
		{"/players/0", http.StatusBadRequest, "error"},
		{"/players/42?competition=nope", http.StatusBadRequest, "error"},
		{"/players/42/matches?competition=6&side=axis", http.StatusOK, "matches"},
		{"/players/42/matches?competition=6&side=up", http.StatusBadRequest, "error"},
		{"/players/42/matches", http.StatusBadRequest, "error"},
		{"/players/42/challenges?current=maybe", http.StatusBadRequest, "error"},
		{"/players/42/challenges/9/outcome", http.StatusOK, "outcome"},
		{"/players/42/karma", http.StatusOK, "karma"},
		{"/players/42/posts?limit=5", http.StatusOK, "posts"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec, body := get(t, router, tt.target)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if _, ok := body[tt.key]; !ok {
				t.Errorf("body has no %q key: %s", tt.key, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestGetProfileNotFound(t *testing.T) {
	router := newTestRouter(&stubCatalog{}, &stubPlayers{}, &stubPlayerServices{})

	rec, _ := get(t, router, "/players/42")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestQueryParametersReachServices(t *testing.T) {
	players := &stubPlayers{}
	ps := &stubPlayerServices{profile: &models.PlayerProfile{}}
	router := newTestRouter(&stubCatalog{}, players, ps)

	get(t, router, "/competitions/6/players")
	if players.gotStatus != models.DefaultMaxGlobalStatus {
		t.Errorf("default status = %d", players.gotStatus)
	}
	get(t, router, "/competitions/6/players?max_status=3")
	if players.gotStatus != models.GlobalStatusDeleted {
		t.Errorf("status = %d, want 3", players.gotStatus)
	}

	get(t, router, "/players/42/challenges?competition=6&current=true")
	if ps.gotCompetition == nil || *ps.gotCompetition != 6 || !ps.gotCurrent {
		t.Errorf("challenges got competition %v current %v", ps.gotCompetition, ps.gotCurrent)
	}
	get(t, router, "/players/42/challenges")
	if ps.gotCompetition != nil || ps.gotCurrent {
		t.Errorf("challenges got competition %v current %v", ps.gotCompetition, ps.gotCurrent)
	}

	get(t, router, "/players/42/posts")
	if ps.gotLimit != 0 {
		t.Errorf("limit = %d, want 0 for the default", ps.gotLimit)
	}
}

func TestOutcomeErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrChallengeNotFound, http.StatusNotFound},
		{services.ErrChallengeNotResolved, http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		router := newTestRouter(&stubCatalog{}, &stubPlayers{}, &stubPlayerServices{outcomeErr: tt.err})
		rec, _ := get(t, router, "/players/42/challenges/9/outcome")
		if rec.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}

func TestServerErrorHidesDetails(t *testing.T) {
	router := newTestRouter(&stubCatalog{err: errors.New("pq: password authentication failed")}, &stubPlayers{}, &stubPlayerServices{})

	rec, body := get(t, router, "/competitions")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var msg string
	_ = json.Unmarshal(body["error"], &msg)
	if msg != "the server encountered a problem and could not process your request" {
		t.Errorf("error message = %q", msg)
	}
}

func TestListMineUsesAuthenticatedPlayer(t *testing.T) {
	router := newTestRouter(&stubCatalog{}, &stubPlayers{}, &stubPlayerServices{})

	req := httptest.NewRequest(http.MethodGet, "/me/obligations", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), jwt.MapClaims{"user_id": float64(42)}))
	rec, body := do(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var obligations []models.Obligation
	if err := json.Unmarshal(body["obligations"], &obligations); err != nil {
		t.Fatal(err)
	}
	if len(obligations) != 1 || obligations[0].ChallengeID != 142 {
		t.Errorf("obligations = %+v", obligations)
	}

	rec, _ = get(t, router, "/me/obligations")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("without claims status = %d, want 401", rec.Code)
	}
}
