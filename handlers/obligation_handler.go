package handlers

import (
	"net/http"

	"github.com/Dosada05/ladder-stats/middleware"
)

type ObligationHandler struct {
	karma KarmaReader
}

func NewObligationHandler(karma KarmaReader) *ObligationHandler {
	return &ObligationHandler{karma: karma}
}

// ListMine godoc
// @Summary Finished challenges the current player still has to rate
// @Tags me
// @Produce json
// @Success 200 {object} map[string]interface{} "obligations"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /me/obligations [get]
func (h *ObligationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	obligations, err := h.karma.UnresolvedObligations(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"obligations": obligations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
