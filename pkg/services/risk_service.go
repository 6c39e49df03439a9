package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/repositories"
	"github.com/agrilend/agrilend-engine/pkg/risk"
)

// HighRiskFarmer pairs a borrower with their computed default risk for
// portfolio screening endpoints.
type HighRiskFarmer struct {
	BorrowerID   string  `json:"borrower_id"`
	BorrowerName string  `json:"borrower_name"`
	RiskScore    float64 `json:"risk_score"`
	RiskLevel    string  `json:"risk_level"`
}

// RiskService loads lending entities and runs the risk engine over them.
// It is the only path to the scoring formulas; REST handlers, MCP tools,
// and the OpenAI bridge all dispatch here.
type RiskService interface {
	DefaultRisk(ctx context.Context, borrowerID string) (*risk.DefaultRiskAssessment, error)
	NonAccrualRisk(ctx context.Context, borrowerID string) (*risk.NonAccrualAssessment, error)
	CollateralSufficiency(ctx context.Context, loanID, marketConditions string) (*risk.CollateralAssessment, error)
	HighRiskFarmers(ctx context.Context, threshold float64) ([]*HighRiskFarmer, error)
}

type riskService struct {
	borrowers  repositories.BorrowerRepository
	loans      repositories.LoanRepository
	payments   repositories.PaymentRepository
	collateral repositories.CollateralRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewRiskService creates a RiskService over the lending repositories.
func NewRiskService(
	borrowers repositories.BorrowerRepository,
	loans repositories.LoanRepository,
	payments repositories.PaymentRepository,
	collateral repositories.CollateralRepository,
	logger *zap.Logger,
) RiskService {
	return &riskService{
		borrowers:  borrowers,
		loans:      loans,
		payments:   payments,
		collateral: collateral,
		logger:     logger.Named("risk-service"),
		now:        time.Now,
	}
}

var _ RiskService = (*riskService)(nil)

// loadBorrowerHistory fetches the borrower plus their loans and payments.
// The three reads are independent queries; a concurrent write between them
// is tolerated (the assessment is a point-in-time heuristic, not a ledger).
func (s *riskService) loadBorrowerHistory(ctx context.Context, borrowerID string) (*models.Borrower, []*models.Loan, []*models.Payment, error) {
	id, err := normalizeBorrowerID(borrowerID)
	if err != nil {
		return nil, nil, nil, err
	}

	borrower, err := s.borrowers.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	loans, err := s.loans.ListByBorrower(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	payments, err := s.payments.ListByBorrower(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return borrower, loans, payments, nil
}

func (s *riskService) DefaultRisk(ctx context.Context, borrowerID string) (*risk.DefaultRiskAssessment, error) {
	borrower, loans, payments, err := s.loadBorrowerHistory(ctx, borrowerID)
	if err != nil {
		return nil, err
	}

	a := risk.ScoreDefaultRisk(borrower, loans, payments)
	s.logger.Debug("Computed default risk",
		zap.String("borrower_id", a.BorrowerID),
		zap.Float64("score", a.RiskScore),
		zap.String("level", a.RiskLevel))
	return a, nil
}

func (s *riskService) NonAccrualRisk(ctx context.Context, borrowerID string) (*risk.NonAccrualAssessment, error) {
	borrower, loans, payments, err := s.loadBorrowerHistory(ctx, borrowerID)
	if err != nil {
		return nil, err
	}

	a := risk.ScoreNonAccrualRisk(borrower, loans, payments, s.now())
	s.logger.Debug("Computed non-accrual risk",
		zap.String("borrower_id", a.BorrowerID),
		zap.Float64("score", a.RiskScore),
		zap.Float64("recovery_probability", a.RecoveryProbability))
	return a, nil
}

func (s *riskService) CollateralSufficiency(ctx context.Context, loanID, marketConditions string) (*risk.CollateralAssessment, error) {
	id, err := normalizeLoanID(loanID)
	if err != nil {
		return nil, err
	}

	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.collateral.ListByLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	return risk.EvaluateCollateral(loan, items, marketConditions), nil
}

// HighRiskFarmers scores every borrower and returns those at or above the
// threshold, highest risk first. A zero threshold defaults to the high
// bucket boundary.
func (s *riskService) HighRiskFarmers(ctx context.Context, threshold float64) ([]*HighRiskFarmer, error) {
	if threshold <= 0 {
		threshold = 70
	}

	borrowers, err := s.borrowers.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*HighRiskFarmer, 0)
	for _, b := range borrowers {
		loans, err := s.loans.ListByBorrower(ctx, b.BorrowerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load loans for %s: %w", b.BorrowerID, err)
		}
		payments, err := s.payments.ListByBorrower(ctx, b.BorrowerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load payments for %s: %w", b.BorrowerID, err)
		}

		a := risk.ScoreDefaultRisk(b, loans, payments)
		if a.RiskScore >= threshold {
			result = append(result, &HighRiskFarmer{
				BorrowerID:   b.BorrowerID,
				BorrowerName: b.FullName(),
				RiskScore:    a.RiskScore,
				RiskLevel:    a.RiskLevel,
			})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RiskScore > result[j].RiskScore
	})
	return result, nil
}
