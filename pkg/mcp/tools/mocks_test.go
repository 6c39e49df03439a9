package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/agrilend/agrilend-engine/pkg/apperrors"
	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/risk"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// stubLendingService serves canned portfolio data and records the last
// ID it was asked for. Unknown IDs produce a not-found error so error
// mapping can be exercised through the server.
type stubLendingService struct {
	lastID string
}

var _ services.LendingService = (*stubLendingService)(nil)

func (s *stubLendingService) GetLoan(_ context.Context, loanID string) (*models.Loan, error) {
	s.lastID = loanID
	if loanID != "L001" {
		return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
	}
	return &models.Loan{LoanID: "L001", BorrowerID: "B001", LoanAmount: 50000, Status: models.LoanStatusActive}, nil
}
func (s *stubLendingService) ListLoans(context.Context) ([]*models.Loan, error) {
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
	return []*models.Borrower{{BorrowerID: "B001"}}, nil
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

// callTool runs a tools/call round trip through the server and returns
// the first text content plus the result's isError flag.
func callTool(t *testing.T, s *server.MCPServer, name, arguments string) (string, bool) {
	t.Helper()

	if arguments == "" {
		arguments = "{}"
	}
	request := fmt.Sprintf(
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":%q,"arguments":%s},"id":1}`,
		name, arguments)

	raw := s.HandleMessage(context.Background(), []byte(request))
	resultBytes, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Error != nil {
		t.Fatalf("unexpected JSON-RPC error: %s", response.Error.Message)
	}
	if len(response.Result.Content) == 0 {
		t.Fatal("expected content in response")
	}
	return response.Result.Content[0].Text, response.Result.IsError
}

// listToolNames runs tools/list and returns the registered tool names.
func listToolNames(t *testing.T, s *server.MCPServer) map[string]bool {
	t.Helper()

	raw := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	resultBytes, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	names := make(map[string]bool, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		names[tool.Name] = true
	}
	return names
}
