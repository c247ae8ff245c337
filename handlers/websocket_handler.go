package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Dosada05/ladder-stats/live"
	"github.com/Dosada05/ladder-stats/models"
	"github.com/gorilla/websocket"
)

type CompetitionLookup interface {
	Competition(ctx context.Context, competitionID int) (models.Competition, error)
}

type WebSocketHandler struct {
	hub          *live.Hub
	competitions CompetitionLookup
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(hub *live.Hub, competitions CompetitionLookup, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub:          hub,
		competitions: competitions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		logger: logger,
	}
}

// ServeWs subscribes the client to standings updates of one competition.
// Clients connect to /ws/competitions/{competitionID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.competitions.Competition(r.Context(), competitionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("failed to upgrade websocket connection", slog.Int("competition_id", competitionID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.CompetitionRoom(competitionID))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
