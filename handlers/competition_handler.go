package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/ladder-stats/models"
	"github.com/Dosada05/ladder-stats/services"
)

// CompetitionCatalog is the part of StandingsService that is never cached.
type CompetitionCatalog interface {
	Competitions(ctx context.Context) ([]models.Competition, error)
	IsTopPlayer(ctx context.Context, playerID, competitionID int) (bool, error)
}

type CompetitionHandler struct {
	catalog          CompetitionCatalog
	players          services.ActivePlayersReader
	defaultMaxStatus models.GlobalStatus
}

func NewCompetitionHandler(catalog CompetitionCatalog, players services.ActivePlayersReader, defaultMaxStatus models.GlobalStatus) *CompetitionHandler {
	return &CompetitionHandler{
		catalog:          catalog,
		players:          players,
		defaultMaxStatus: defaultMaxStatus,
	}
}

// ListCompetitions godoc
// @Summary Список активных соревнований
// @Tags competitions
// @Produce json
// @Success 200 {object} map[string]interface{} "competitions"
// @Failure 500 {object} map[string]string
// @Router /competitions [get]
func (h *CompetitionHandler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.catalog.Competitions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"competitions": competitions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPlayers godoc
// @Summary Active players of a competition
// @Description Ordered by display name, with decoded options, rank and karma.
// @Tags competitions
// @Produce json
// @Param competitionID path int true "Competition ID"
// @Param max_status query int false "Highest global account status to include (0-3)"
// @Success 200 {object} map[string]interface{} "players"
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /competitions/{competitionID}/players [get]
func (h *CompetitionHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	maxStatus, err := maxStatusQuery(r, h.defaultMaxStatus)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.players.ActivePlayers(r.Context(), competitionID, maxStatus)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// IsTopPlayer godoc
// @Summary Является ли игрок лидером рейтинга
// @Tags competitions
// @Produce json
// @Param competitionID path int true "Competition ID"
// @Param playerID path int true "Player ID"
// @Success 200 {object} map[string]interface{} "top_player"
// @Failure 400 {object} map[string]string
// @Router /competitions/{competitionID}/top/{playerID} [get]
func (h *CompetitionHandler) IsTopPlayer(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	top, err := h.catalog.IsTopPlayer(r.Context(), playerID, competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"top_player": top}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
