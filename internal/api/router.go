package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/carbon-portfolio/internal/api/handlers"
	"github.com/wonny/carbon-portfolio/pkg/config"
	"github.com/wonny/carbon-portfolio/pkg/logger"
	"github.com/wonny/carbon-portfolio/pkg/redis"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	portfolioHandler *handlers.PortfolioHandler,
	healthHandler *handlers.HealthHandler,
	cfg *config.Config,
	limiter *redis.RateLimiter,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/portfolio", portfolioHandler.GetPositions).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/summary", portfolioHandler.GetSummary).Methods(http.MethodGet)

	// Preflight requests are answered by corsMiddleware before routing.
	api.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	api.Use(rateLimitMiddleware(cfg.API, limiter, log))

	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))
	r.Use(corsMiddleware(cfg.API.AllowedOrigins))

	return r
}
