package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// BorrowerListResponse for GET /api/borrowers.
type BorrowerListResponse struct {
	Borrowers []*models.Borrower `json:"borrowers"`
	Total     int                `json:"total"`
}

// BorrowerHandler handles borrower HTTP requests.
type BorrowerHandler struct {
	lendingService services.LendingService
	logger         *zap.Logger
}

// NewBorrowerHandler creates a new borrower handler.
func NewBorrowerHandler(lendingService services.LendingService, logger *zap.Logger) *BorrowerHandler {
	return &BorrowerHandler{
		lendingService: lendingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the borrower handler's routes on the given mux.
func (h *BorrowerHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/borrowers", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/borrowers/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("GET /api/borrowers/{id}/loans", authMiddleware.RequireAuth(h.Loans))
}

// List handles GET /api/borrowers
func (h *BorrowerHandler) List(w http.ResponseWriter, r *http.Request) {
	borrowers, err := h.lendingService.ListBorrowers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, BorrowerListResponse{Borrowers: borrowers, Total: len(borrowers)}); err != nil {
		h.logger.Error("Failed to encode borrower list", zap.Error(err))
	}
}

// Get handles GET /api/borrowers/{id}
func (h *BorrowerHandler) Get(w http.ResponseWriter, r *http.Request) {
	borrower, err := h.lendingService.GetBorrower(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, borrower); err != nil {
		h.logger.Error("Failed to encode borrower", zap.Error(err))
	}
}

// Loans handles GET /api/borrowers/{id}/loans
func (h *BorrowerHandler) Loans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.lendingService.GetBorrowerLoans(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, LoanListResponse{Loans: loans, Total: len(loans)}); err != nil {
		h.logger.Error("Failed to encode borrower loans", zap.Error(err))
	}
}
