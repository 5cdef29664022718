// Package router assembles the HTTP surface of the appointment assistant.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/northledger/advisor-agent/internal/http/handlers"
	httpmiddleware "github.com/northledger/advisor-agent/internal/http/middleware"
	"github.com/northledger/advisor-agent/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *handlers.ChatHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec and burst per IP on the public chat endpoints.
	// Zero disables rate limiting.
	ChatRateLimit float64
	ChatRateBurst int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/chat", func(chat chi.Router) {
		if cfg.ChatRateLimit > 0 {
			chat.Use(httpmiddleware.RateLimit(cfg.ChatRateLimit, cfg.ChatRateBurst))
		}
		chat.Post("/start", cfg.ChatHandler.StartSession)
		chat.Get("/ws", cfg.ChatHandler.HandleWebSocket)
		chat.Post("/{sessionID}/message", cfg.ChatHandler.PostMessage)
		chat.Get("/{sessionID}", cfg.ChatHandler.GetSession)
	})

	return r
}
