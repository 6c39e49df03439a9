package handlers

import (
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/models"
)

func newLoanTestMux() (*http.ServeMux, *stubLendingService) {
	mux := http.NewServeMux()
	lending := &stubLendingService{}
	NewLoanHandler(lending, zap.NewNop()).RegisterRoutes(mux, newTestAuthMiddleware())
	return mux, lending
}

func TestLoanHandler_List(t *testing.T) {
	mux, _ := newLoanTestMux()

	var response LoanListResponse
	rec := doRequest(t, mux, http.MethodGet, "/api/loans", &response)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if response.Total != 2 || len(response.Loans) != 2 {
		t.Errorf("expected 2 loans, got total=%d len=%d", response.Total, len(response.Loans))
	}
}

func TestLoanHandler_ListActive(t *testing.T) {
	mux, _ := newLoanTestMux()

	var response LoanListResponse
	rec := doRequest(t, mux, http.MethodGet, "/api/loans/active", &response)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if response.Total != 1 || response.Loans[0].Status != models.LoanStatusActive {
		t.Errorf("expected single active loan, got %+v", response)
	}
}

func TestLoanHandler_Summary(t *testing.T) {
	mux, _ := newLoanTestMux()

	var summary models.LoanSummary
	rec := doRequest(t, mux, http.MethodGet, "/api/loans/summary", &summary)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if summary.TotalLoans != 2 || summary.TotalAmount != 170000 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestLoanHandler_Get(t *testing.T) {
	mux, lending := newLoanTestMux()

	var loan models.Loan
	rec := doRequest(t, mux, http.MethodGet, "/api/loans/L001", &loan)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if loan.LoanID != "L001" {
		t.Errorf("expected loan L001, got %q", loan.LoanID)
	}
	if lending.lastID != "L001" {
		t.Errorf("expected service called with L001, got %q", lending.lastID)
	}
}

func TestLoanHandler_Get_NotFound(t *testing.T) {
	mux, _ := newLoanTestMux()

	rec := doRequest(t, mux, http.MethodGet, "/api/loans/L999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestLoanHandler_Get_InvalidID(t *testing.T) {
	mux, _ := newLoanTestMux()

	rec := doRequest(t, mux, http.MethodGet, "/api/loans/x1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestLoanHandler_List_ServiceFailure(t *testing.T) {
	mux := http.NewServeMux()
	lending := &stubLendingService{listErr: errors.New("connection reset")}
	NewLoanHandler(lending, zap.NewNop()).RegisterRoutes(mux, newTestAuthMiddleware())

	rec := doRequest(t, mux, http.MethodGet, "/api/loans", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}

func TestLoanHandler_Payments(t *testing.T) {
	mux, _ := newLoanTestMux()

	var response PaymentListResponse
	rec := doRequest(t, mux, http.MethodGet, "/api/loans/L001/payments", &response)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if response.LoanID != "L001" || response.Total != 1 {
		t.Errorf("unexpected payment response: %+v", response)
	}
}

func TestLoanHandler_Collateral_SumsTotalValue(t *testing.T) {
	mux, _ := newLoanTestMux()

	var response CollateralListResponse
	rec := doRequest(t, mux, http.MethodGet, "/api/loans/L001/collateral", &response)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if response.TotalValue != 75000 {
		t.Errorf("expected total value 75000, got %v", response.TotalValue)
	}
}
