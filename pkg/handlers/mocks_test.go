package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/apperrors"
	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/config"
	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/risk"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// newTestAuthMiddleware returns a middleware with verification disabled,
// so every request is authenticated as "local-dev".
func newTestAuthMiddleware() *auth.Middleware {
	cfg := &config.AuthConfig{EnableVerification: false, TestSubject: "local-dev"}
	return auth.NewMiddleware(auth.NewAuthService(cfg, zap.NewNop()), zap.NewNop())
}

// doRequest serves req through mux and decodes the JSON body into out
// when out is non-nil.
func doRequest(t *testing.T, mux *http.ServeMux, method, target string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if out != nil && rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec
}

type stubLendingService struct {
	lastID  string
	listErr error
}

var _ services.LendingService = (*stubLendingService)(nil)

func (s *stubLendingService) GetLoan(_ context.Context, loanID string) (*models.Loan, error) {
	s.lastID = loanID
	switch loanID {
	case "L001":
		return &models.Loan{LoanID: "L001", BorrowerID: "B001", LoanAmount: 50000, Status: models.LoanStatusActive}, nil
	case "x1":
		return nil, fmt.Errorf("loan ID %q: %w", loanID, apperrors.ErrInvalidID)
	default:
		return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
	}
}

func (s *stubLendingService) ListLoans(context.Context) ([]*models.Loan, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []*models.Loan{{LoanID: "L001"}, {LoanID: "L002"}}, nil
}

func (s *stubLendingService) ListActiveLoans(context.Context) ([]*models.Loan, error) {
	return []*models.Loan{{LoanID: "L001", Status: models.LoanStatusActive}}, nil
}

func (s *stubLendingService) LoanSummary(context.Context) (*models.LoanSummary, error) {
	return &models.LoanSummary{TotalLoans: 2, TotalAmount: 170000}, nil
}

func (s *stubLendingService) GetLoanPayments(_ context.Context, loanID string) ([]*models.Payment, error) {
	s.lastID = loanID
	return []*models.Payment{{PaymentID: "P001", LoanID: loanID}}, nil
}

func (s *stubLendingService) GetLoanCollateral(_ context.Context, loanID string) ([]*models.Collateral, error) {
	s.lastID = loanID
	return []*models.Collateral{
		{CollateralID: "C001", LoanID: loanID, Value: 50000},
		{CollateralID: "C002", LoanID: loanID, Value: 25000},
	}, nil
}

func (s *stubLendingService) GetBorrower(_ context.Context, borrowerID string) (*models.Borrower, error) {
	s.lastID = borrowerID
	if borrowerID != "B001" {
		return nil, fmt.Errorf("borrower %s: %w", borrowerID, apperrors.ErrNotFound)
	}
	return &models.Borrower{BorrowerID: "B001", FirstName: "John", LastName: "Farmer", CreditScore: 750}, nil
}

func (s *stubLendingService) ListBorrowers(context.Context) ([]*models.Borrower, error) {
	return []*models.Borrower{{BorrowerID: "B001"}, {BorrowerID: "B002"}}, nil
}

func (s *stubLendingService) GetBorrowerLoans(_ context.Context, borrowerID string) ([]*models.Loan, error) {
	s.lastID = borrowerID
	return []*models.Loan{{LoanID: "L001", BorrowerID: borrowerID}}, nil
}

type stubRiskService struct {
	lastMarket    string
	lastThreshold float64
}

var _ services.RiskService = (*stubRiskService)(nil)

func (s *stubRiskService) DefaultRisk(_ context.Context, borrowerID string) (*risk.DefaultRiskAssessment, error) {
	if borrowerID == "B999" {
		return nil, fmt.Errorf("borrower %s: %w", borrowerID, apperrors.ErrNotFound)
	}
	return &risk.DefaultRiskAssessment{BorrowerID: borrowerID, RiskScore: 40, RiskLevel: risk.LevelLow}, nil
}

func (s *stubRiskService) NonAccrualRisk(_ context.Context, borrowerID string) (*risk.NonAccrualAssessment, error) {
	return &risk.NonAccrualAssessment{BorrowerID: borrowerID, RiskScore: 45, RiskLevel: risk.LevelMedium}, nil
}

func (s *stubRiskService) CollateralSufficiency(_ context.Context, loanID, market string) (*risk.CollateralAssessment, error) {
	s.lastMarket = market
	return &risk.CollateralAssessment{LoanID: loanID, Sufficient: true, LoanToValueRatio: 0.6667}, nil
}

func (s *stubRiskService) HighRiskFarmers(_ context.Context, threshold float64) ([]*services.HighRiskFarmer, error) {
	s.lastThreshold = threshold
	return []*services.HighRiskFarmer{{BorrowerID: "B002", RiskScore: 95, RiskLevel: risk.LevelHigh}}, nil
}

type stubAnalyticsService struct {
	lastHorizon string
	lastSeason  string
}

var _ services.AnalyticsService = (*stubAnalyticsService)(nil)

func (s *stubAnalyticsService) PredictDefaultRisk(_ context.Context, borrowerID, horizon string) (*risk.DefaultProbability, error) {
	s.lastHorizon = horizon
	return &risk.DefaultProbability{BorrowerID: borrowerID, TimeHorizon: horizon, DefaultProbability: 0.28}, nil
}

func (s *stubAnalyticsService) PredictNonAccrualRisk(_ context.Context, borrowerID string) (*risk.NonAccrualAssessment, error) {
	return &risk.NonAccrualAssessment{BorrowerID: borrowerID, RiskScore: 45}, nil
}

func (s *stubAnalyticsService) RestructuringOptions(_ context.Context, loanID string) (*risk.RestructuringPlan, error) {
	return &risk.RestructuringPlan{LoanID: loanID, CurrentMonthlyPayment: 909.59}, nil
}

func (s *stubAnalyticsService) CropYieldRisk(_ context.Context, borrowerID, season string) (*risk.CropYieldAssessment, error) {
	s.lastSeason = season
	return &risk.CropYieldAssessment{BorrowerID: borrowerID, Season: season, RiskScore: 60}, nil
}

func (s *stubAnalyticsService) MarketPriceImpact(_ context.Context, commodity string) (*risk.MarketPriceImpact, error) {
	if commodity == "tulips" {
		return nil, fmt.Errorf("commodity %q: %w", commodity, apperrors.ErrNotFound)
	}
	return &risk.MarketPriceImpact{Commodity: commodity, ImpactScore: 71}, nil
}

type stubAuditService struct {
	actions []*models.AuditEntry
}

var _ services.AuditService = (*stubAuditService)(nil)

func (s *stubAuditService) RecordToolCall(context.Context, string, string, string, string, string) uuid.UUID {
	return uuid.Nil
}

func (s *stubAuditService) RecordRecommendation(context.Context, uuid.UUID, *models.AIRecommendation) {
}

func (s *stubAuditService) RecordAction(_ context.Context, entry *models.AuditEntry) {
	s.actions = append(s.actions, entry)
}

func (s *stubAuditService) Recommendations(context.Context, uuid.UUID) ([]*models.AIRecommendation, error) {
	return nil, nil
}
