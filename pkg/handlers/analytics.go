package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// AnalyticsHandler handles the predictive analytics HTTP endpoints.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// RegisterRoutes registers the analytics handler's routes on the given mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/analytics/predict/default-risk/{borrowerId}", authMiddleware.RequireAuth(h.PredictDefaultRisk))
	mux.HandleFunc("GET /api/analytics/predict/non-accrual-risk/{borrowerId}", authMiddleware.RequireAuth(h.PredictNonAccrualRisk))
	mux.HandleFunc("GET /api/analytics/loan-restructuring/{loanId}", authMiddleware.RequireAuth(h.LoanRestructuring))
	mux.HandleFunc("GET /api/analytics/crop-yield-risk/{borrowerId}", authMiddleware.RequireAuth(h.CropYieldRisk))
	mux.HandleFunc("GET /api/analytics/market-price-impact/{commodity}", authMiddleware.RequireAuth(h.MarketPriceImpact))
}

// PredictDefaultRisk handles GET /api/analytics/predict/default-risk/{borrowerId}?time_horizon=
func (h *AnalyticsHandler) PredictDefaultRisk(w http.ResponseWriter, r *http.Request) {
	horizon := r.URL.Query().Get("time_horizon")
	p, err := h.analyticsService.PredictDefaultRisk(r.Context(), r.PathValue("borrowerId"), horizon)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, p); err != nil {
		h.logger.Error("Failed to encode default probability", zap.Error(err))
	}
}

// PredictNonAccrualRisk handles GET /api/analytics/predict/non-accrual-risk/{borrowerId}
func (h *AnalyticsHandler) PredictNonAccrualRisk(w http.ResponseWriter, r *http.Request) {
	a, err := h.analyticsService.PredictNonAccrualRisk(r.Context(), r.PathValue("borrowerId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, a); err != nil {
		h.logger.Error("Failed to encode non-accrual prediction", zap.Error(err))
	}
}

// LoanRestructuring handles GET /api/analytics/loan-restructuring/{loanId}
func (h *AnalyticsHandler) LoanRestructuring(w http.ResponseWriter, r *http.Request) {
	plan, err := h.analyticsService.RestructuringOptions(r.Context(), r.PathValue("loanId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, plan); err != nil {
		h.logger.Error("Failed to encode restructuring plan", zap.Error(err))
	}
}

// CropYieldRisk handles GET /api/analytics/crop-yield-risk/{borrowerId}?season=
func (h *AnalyticsHandler) CropYieldRisk(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	a, err := h.analyticsService.CropYieldRisk(r.Context(), r.PathValue("borrowerId"), season)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, a); err != nil {
		h.logger.Error("Failed to encode crop yield assessment", zap.Error(err))
	}
}

// MarketPriceImpact handles GET /api/analytics/market-price-impact/{commodity}
func (h *AnalyticsHandler) MarketPriceImpact(w http.ResponseWriter, r *http.Request) {
	m, err := h.analyticsService.MarketPriceImpact(r.Context(), r.PathValue("commodity"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, m); err != nil {
		h.logger.Error("Failed to encode market price impact", zap.Error(err))
	}
}
