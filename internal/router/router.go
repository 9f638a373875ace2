package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"satinsights-backend/internal/handlers"
	"satinsights-backend/internal/middleware"
	"satinsights-backend/internal/websocket"
)

func New(
	sessionAuth *middleware.SessionAuth,
	guard *middleware.InFlightGuard,
	sessionHandler *handlers.SessionHandler,
	chatHandler *handlers.ChatHandler,
	satelliteHandler *handlers.SatelliteHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Start)

			r.Group(func(r chi.Router) {
				r.Use(sessionAuth.Middleware)
				r.Get("/me", sessionHandler.Get)
				r.Delete("/me", sessionHandler.End)
			})
		})

		// ──── Chat Routes ────
		r.Route("/chat", func(r chi.Router) {
			r.Get("/suggestions", chatHandler.Suggestions) // Public

			r.Group(func(r chi.Router) {
				r.Use(sessionAuth.Middleware)
				r.Get("/messages", chatHandler.History)

				r.Group(func(r chi.Router) {
					r.Use(guard.Middleware)
					r.Post("/messages", chatHandler.Ask)
					r.Post("/suggestions/{index}", chatHandler.AskSuggestion)
				})
			})
		})

		// ──── Satellite Data Routes ────
		r.Route("/satellite", func(r chi.Router) {
			r.Get("/supported-formats", satelliteHandler.SupportedFormats) // Public
			r.Post("/preview", satelliteHandler.Preview)                   // Public

			r.Group(func(r chi.Router) {
				r.Use(sessionAuth.Middleware)
				r.Use(guard.Middleware)
				r.Post("/summarize", satelliteHandler.Summarize)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
