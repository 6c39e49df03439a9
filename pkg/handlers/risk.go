package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// HighRiskFarmersResponse for GET /api/risk/high-risk-farmers.
type HighRiskFarmersResponse struct {
	Threshold float64                    `json:"threshold"`
	Farmers   []*services.HighRiskFarmer `json:"farmers"`
	Total     int                        `json:"total"`
}

// RiskHandler handles the risk assessment HTTP endpoints. All scoring is
// delegated to the risk service; this layer only parses parameters.
type RiskHandler struct {
	riskService services.RiskService
	logger      *zap.Logger
}

// NewRiskHandler creates a new risk handler.
func NewRiskHandler(riskService services.RiskService, logger *zap.Logger) *RiskHandler {
	return &RiskHandler{
		riskService: riskService,
		logger:      logger,
	}
}

// RegisterRoutes registers the risk handler's routes on the given mux.
func (h *RiskHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/risk/default/{borrowerId}", authMiddleware.RequireAuth(h.DefaultRisk))
	mux.HandleFunc("GET /api/risk/non-accrual/{borrowerId}", authMiddleware.RequireAuth(h.NonAccrualRisk))
	mux.HandleFunc("GET /api/risk/collateral/{loanId}", authMiddleware.RequireAuth(h.CollateralSufficiency))
	mux.HandleFunc("GET /api/risk/high-risk-farmers", authMiddleware.RequireAuth(h.HighRiskFarmers))
}

// DefaultRisk handles GET /api/risk/default/{borrowerId}
func (h *RiskHandler) DefaultRisk(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.riskService.DefaultRisk(r.Context(), r.PathValue("borrowerId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, assessment); err != nil {
		h.logger.Error("Failed to encode default risk assessment", zap.Error(err))
	}
}

// NonAccrualRisk handles GET /api/risk/non-accrual/{borrowerId}
func (h *RiskHandler) NonAccrualRisk(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.riskService.NonAccrualRisk(r.Context(), r.PathValue("borrowerId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, assessment); err != nil {
		h.logger.Error("Failed to encode non-accrual assessment", zap.Error(err))
	}
}

// CollateralSufficiency handles GET /api/risk/collateral/{loanId}.
// market_conditions defaults to stable when absent.
func (h *RiskHandler) CollateralSufficiency(w http.ResponseWriter, r *http.Request) {
	market := r.URL.Query().Get("market_conditions")
	assessment, err := h.riskService.CollateralSufficiency(r.Context(), r.PathValue("loanId"), market)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, assessment); err != nil {
		h.logger.Error("Failed to encode collateral assessment", zap.Error(err))
	}
}

// HighRiskFarmers handles GET /api/risk/high-risk-farmers?threshold=
func (h *RiskHandler) HighRiskFarmers(w http.ResponseWriter, r *http.Request) {
	threshold := 0.0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "threshold must be a number"); werr != nil {
				h.logger.Error("Failed to write error response", zap.Error(werr))
			}
			return
		}
		threshold = v
	}

	farmers, err := h.riskService.HighRiskFarmers(r.Context(), threshold)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if threshold <= 0 {
		threshold = 70
	}
	if err := WriteJSON(w, http.StatusOK, HighRiskFarmersResponse{
		Threshold: threshold,
		Farmers:   farmers,
		Total:     len(farmers),
	}); err != nil {
		h.logger.Error("Failed to encode high-risk farmers", zap.Error(err))
	}
}
