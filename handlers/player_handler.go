package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/services"
)

type MatchReader interface {
	History(ctx context.Context, playerID, competitionID int, filter models.SideFilter) ([]models.MatchRecord, error)
	Outcome(ctx context.Context, playerID, challengeID int) (*models.Outcome, error)
}

type ChallengeLister interface {
	Challenges(ctx context.Context, playerID int, competitionID *int, currentOnly bool) ([]models.ChallengeRecord, error)
}

type KarmaReader interface {
	Aggregate(ctx context.Context, playerID int) (models.KarmaSummary, error)
	Ratings(ctx context.Context, playerID int) ([]models.KarmaRating, error)
	UnresolvedObligations(ctx context.Context, playerID int) ([]models.Obligation, error)
}

type PostReader interface {
	RecentPosts(ctx context.Context, playerID, limit int) ([]models.RecentPost, error)
}

type PlayerHandler struct {
	profiles         services.ProfileReader
	posts            PostReader
	matches          MatchReader
	challenges       ChallengeLister
	karma            KarmaReader
	defaultMaxStatus models.GlobalStatus
}

type PlayerHandlerDeps struct {
	Profiles         services.ProfileReader
	Posts            PostReader
	Matches          MatchReader
	Challenges       ChallengeLister
	Karma            KarmaReader
	DefaultMaxStatus models.GlobalStatus
}

func NewPlayerHandler(deps PlayerHandlerDeps) *PlayerHandler {
	return &PlayerHandler{
		profiles:         deps.Profiles,
		posts:            deps.Posts,
		matches:          deps.Matches,
		challenges:       deps.Challenges,
		karma:            deps.Karma,
		defaultMaxStatus: deps.DefaultMaxStatus,
	}
}

// GetProfile godoc
// @Summary Профиль игрока
// @Description Global identity, karma and per-competition statistics. Returns 404 when the account is unknown,
// @Description ambiguous or above the status threshold.
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Param competition query int false "Limit to one competition"
// @Param max_status query int false "Highest global account status to include (0-3)"
// @Success 200 {object} map[string]interface{} "profile"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /players/{playerID} [get]
func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	competitionID, err := optionalIntQuery(r, "competition")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	maxStatus, err := maxStatusQuery(r, h.defaultMaxStatus)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profiles.Profile(r.Context(), playerID, competitionID, maxStatus)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if profile == nil {
		notFoundResponse(w, r)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary Match history in one competition, newest first
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Param competition query int true "Competition ID"
// @Param side query string false "axis, allies or both" Enums(axis, allies, both)
// @Success 200 {object} map[string]interface{} "matches"
// @Failure 400 {object} map[string]string
// @Router /players/{playerID}/matches [get]
func (h *PlayerHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	competitionID, err := optionalIntQuery(r, "competition")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if competitionID == nil {
		badRequestResponse(w, r, errors.New("competition query parameter is required"))
		return
	}

	side := models.SideFilter(r.URL.Query().Get("side"))
	matches, err := h.matches.History(r.Context(), playerID, *competitionID, side)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListChallenges godoc
// @Summary Вызовы игрока
// @Description Without competition, challenges of every hosted competition are concatenated in catalog order.
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Param competition query int false "Competition ID"
// @Param current query bool false "Only open and in-progress challenges"
// @Success 200 {object} map[string]interface{} "challenges"
// @Failure 400 {object} map[string]string
// @Router /players/{playerID}/challenges [get]
func (h *PlayerHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	competitionID, err := optionalIntQuery(r, "competition")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	current, err := boolQuery(r, "current", false)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	challenges, err := h.challenges.Challenges(r.Context(), playerID, competitionID, current)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenges": challenges}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetChallengeOutcome godoc
// @Summary Result of a completed challenge from the player's point of view
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Param challengeID path int true "Challenge ID"
// @Success 200 {object} map[string]interface{} "outcome"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Challenge not completed"
// @Router /players/{playerID}/challenges/{challengeID}/outcome [get]
func (h *PlayerHandler) GetChallengeOutcome(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	challengeID, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matches.Outcome(r.Context(), playerID, challengeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetKarma godoc
// @Summary Karma summary
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} map[string]interface{} "karma"
// @Router /players/{playerID}/karma [get]
func (h *PlayerHandler) GetKarma(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	karma, err := h.karma.Aggregate(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"karma": karma}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListRatings godoc
// @Summary Ratings received, newest first
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} map[string]interface{} "ratings"
// @Router /players/{playerID}/ratings [get]
func (h *PlayerHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ratings, err := h.karma.Ratings(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ratings": ratings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPosts godoc
// @Summary Последние сообщения игрока на форуме
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Param limit query int false "At most 50"
// @Success 200 {object} map[string]interface{} "posts"
// @Router /players/{playerID}/posts [get]
func (h *PlayerHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	limit, err := optionalIntQuery(r, "limit")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	posts, err := h.posts.RecentPosts(r.Context(), playerID, n)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"posts": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
