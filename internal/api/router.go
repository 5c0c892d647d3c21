// internal/api/router.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"portfolio-tracker/internal/api/handler"
	"portfolio-tracker/internal/service"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// RouterConfig carries the dependencies NewRouter wires together.
type RouterConfig struct {
	AuthService        service.AuthService
	PortfolioService   service.PortfolioService
	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	portfolioHandler := handler.NewPortfolioHandler(cfg.PortfolioService, cfg.Logger)
	requireAuth := handler.RequireAuth(cfg.AuthService, cfg.Logger)

	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{
			"message": "Welcome to Stock Portfolio Tracker API",
			"version": Version,
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "healthy"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	r.Route("/api/portfolio", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/stocks", portfolioHandler.AddStock)
		r.Get("/stocks", portfolioHandler.ListStocks)
		r.Get("/stocks/{stockID}", portfolioHandler.GetStock)
		r.Put("/stocks/{stockID}", portfolioHandler.UpdateStock)
		r.Delete("/stocks/{stockID}", portfolioHandler.DeleteStock)
		r.Get("/summary", portfolioHandler.Summary)
	})

	return r
}

func writeJSON(w http.ResponseWriter, payload map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
