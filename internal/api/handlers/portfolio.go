package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/carbon-portfolio/internal/contracts"
	"github.com/wonny/carbon-portfolio/internal/portfolio"
	"github.com/wonny/carbon-portfolio/pkg/logger"
)

// PortfolioService is what the portfolio endpoints need from the service layer
type PortfolioService interface {
	Positions(ctx context.Context, opts portfolio.SummaryOptions) ([]contracts.Position, error)
	Summary(ctx context.Context, opts portfolio.SummaryOptions) (contracts.PortfolioSummary, error)
}

// PortfolioHandler handles the carbon portfolio endpoints
type PortfolioHandler struct {
	service PortfolioService
	logger  *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(service PortfolioService, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
		logger:  log,
	}
}

// statusOptions reads the optional ?status= filter.
// An absent or empty value means no filter; anything else is matched verbatim.
func statusOptions(r *http.Request) portfolio.SummaryOptions {
	status := r.URL.Query().Get("status")
	if status == "" {
		return portfolio.SummaryOptions{}
	}
	return portfolio.WithStatus(contracts.PositionStatus(status))
}

// GetPositions returns the positions as a JSON array
// GET /api/portfolio[?status=available]
func (h *PortfolioHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.Positions(r.Context(), statusOptions(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list positions")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve portfolio positions")
		return
	}

	respondJSON(w, http.StatusOK, positions)
}

// GetSummary returns totals and the weighted average price
// GET /api/portfolio/summary[?status=available|retired]
func (h *PortfolioHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	opts := statusOptions(r)

	summary, err := h.service.Summary(r.Context(), opts)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute portfolio summary")
		respondError(w, http.StatusInternalServerError, "Failed to compute portfolio summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
