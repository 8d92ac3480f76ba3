package routes

import (
	"net/http"

	_ "github.com/Dosada05/cricket-scorer/docs"
	"github.com/Dosada05/cricket-scorer/handlers"
	"github.com/Dosada05/cricket-scorer/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	wsHandler *handlers.WebSocketHandler,
	jwtSecret string,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			// Публичный просмотр сетки
			r.Get("/matches", tournamentHandler.ListMatches)

			r.With(authenticate).Post("/bracket", tournamentHandler.GenerateBracket)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/scorecard", matchHandler.GetScorecard)

			// Ведение счёта: только организатор или назначенный скорер
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/innings", matchHandler.StartInnings)
				r.Post("/deliveries", matchHandler.RecordDelivery)
				r.Post("/resolve-tie", matchHandler.ResolveTie)
			})
		})
	})

	router.Route("/ws", func(r chi.Router) {
		r.Get("/matches/{matchID}", wsHandler.ServeMatch)
		r.Get("/tournaments/{tournamentID}", wsHandler.ServeTournament)
	})
}
