package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/ladder-stats/docs" // swagger spec
	"github.com/Dosada05/ladder-stats/handlers"
	"github.com/Dosada05/ladder-stats/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	competitionHandler *handlers.CompetitionHandler,
	playerHandler *handlers.PlayerHandler,
	obligationHandler *handlers.ObligationHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket connections outlive the request timeout.
	router.Get("/ws/competitions/{competitionID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		r.Route("/competitions", func(r chi.Router) {
			r.Get("/", competitionHandler.ListCompetitions)
			r.Get("/{competitionID}/players", competitionHandler.ListPlayers)
			r.Get("/{competitionID}/top/{playerID}", competitionHandler.IsTopPlayer)
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/", playerHandler.GetProfile)
			r.Get("/matches", playerHandler.ListMatches)
			r.Get("/challenges", playerHandler.ListChallenges)
			r.Get("/challenges/{challengeID}/outcome", playerHandler.GetChallengeOutcome)
			r.Get("/karma", playerHandler.GetKarma)
			r.Get("/ratings", playerHandler.ListRatings)
			r.Get("/posts", playerHandler.ListPosts)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret, opts.Logger))
			r.Get("/me/obligations", obligationHandler.ListMine)
		})
	})
}
