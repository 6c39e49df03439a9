package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// LoanListResponse for the loan listing endpoints.
type LoanListResponse struct {
	Loans []*models.Loan `json:"loans"`
	Total int            `json:"total"`
}

// PaymentListResponse for GET /api/loans/{id}/payments.
type PaymentListResponse struct {
	LoanID   string            `json:"loan_id"`
	Payments []*models.Payment `json:"payments"`
	Total    int               `json:"total"`
}

// CollateralListResponse for GET /api/loans/{id}/collateral.
type CollateralListResponse struct {
	LoanID     string               `json:"loan_id"`
	Collateral []*models.Collateral `json:"collateral"`
	TotalValue float64              `json:"total_value"`
}

// LoanHandler handles loan portfolio HTTP requests.
type LoanHandler struct {
	lendingService services.LendingService
	logger         *zap.Logger
}

// NewLoanHandler creates a new loan handler.
func NewLoanHandler(lendingService services.LendingService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{
		lendingService: lendingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the loan handler's routes on the given mux.
func (h *LoanHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/loans", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/loans/active", authMiddleware.RequireAuth(h.ListActive))
	mux.HandleFunc("GET /api/loans/summary", authMiddleware.RequireAuth(h.Summary))
	mux.HandleFunc("GET /api/loans/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("GET /api/loans/{id}/payments", authMiddleware.RequireAuth(h.Payments))
	mux.HandleFunc("GET /api/loans/{id}/collateral", authMiddleware.RequireAuth(h.Collateral))
}

// List handles GET /api/loans
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.lendingService.ListLoans(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, LoanListResponse{Loans: loans, Total: len(loans)}); err != nil {
		h.logger.Error("Failed to encode loan list", zap.Error(err))
	}
}

// ListActive handles GET /api/loans/active
func (h *LoanHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	loans, err := h.lendingService.ListActiveLoans(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, LoanListResponse{Loans: loans, Total: len(loans)}); err != nil {
		h.logger.Error("Failed to encode active loan list", zap.Error(err))
	}
}

// Summary handles GET /api/loans/summary
func (h *LoanHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.lendingService.LoanSummary(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, summary); err != nil {
		h.logger.Error("Failed to encode loan summary", zap.Error(err))
	}
}

// Get handles GET /api/loans/{id}
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.lendingService.GetLoan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, loan); err != nil {
		h.logger.Error("Failed to encode loan", zap.Error(err))
	}
}

// Payments handles GET /api/loans/{id}/payments
func (h *LoanHandler) Payments(w http.ResponseWriter, r *http.Request) {
	loanID := r.PathValue("id")
	payments, err := h.lendingService.GetLoanPayments(r.Context(), loanID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, PaymentListResponse{
		LoanID:   loanID,
		Payments: payments,
		Total:    len(payments),
	}); err != nil {
		h.logger.Error("Failed to encode payment list", zap.Error(err))
	}
}

// Collateral handles GET /api/loans/{id}/collateral
func (h *LoanHandler) Collateral(w http.ResponseWriter, r *http.Request) {
	loanID := r.PathValue("id")
	items, err := h.lendingService.GetLoanCollateral(r.Context(), loanID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	total := 0.0
	for _, c := range items {
		total += c.Value
	}
	if err := WriteJSON(w, http.StatusOK, CollateralListResponse{
		LoanID:     loanID,
		Collateral: items,
		TotalValue: total,
	}); err != nil {
		h.logger.Error("Failed to encode collateral list", zap.Error(err))
	}
}
