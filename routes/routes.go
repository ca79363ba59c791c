package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/middleware"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.Logging(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", tournamentHandler.Health)
	router.Get("/ws", webSocketHandler.ServeWs)

	authenticate := middleware.Authenticate([]byte(opts.JWTSecret))
	adminOnly := middleware.Authorize(middleware.RoleAdmin)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Post("/auth/login", authHandler.Login)

		r.Route("/players", func(r chi.Router) {
			r.Get("/count", tournamentHandler.CountPlayers)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, adminOnly)
				r.Post("/", tournamentHandler.RegisterPlayer)
				r.Delete("/", tournamentHandler.ClearPlayers)
			})
		})

		r.Get("/standings", tournamentHandler.Standings)
		r.Get("/pairings", tournamentHandler.SwissPairings)

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", tournamentHandler.ListMatches)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, adminOnly)
				r.Post("/", tournamentHandler.RecordMatch)
				r.Delete("/", tournamentHandler.ClearMatches)
			})
		})

		r.With(authenticate, adminOnly).Post("/rounds/archive", tournamentHandler.ArchiveRound)
	})
}
