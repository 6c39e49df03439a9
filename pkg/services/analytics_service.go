package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/apperrors"
	"github.com/agrilend/agrilend-engine/pkg/repositories"
	"github.com/agrilend/agrilend-engine/pkg/risk"
)

// AnalyticsService exposes the predictive variants of the risk engine:
// probability projections, restructuring plans, and the commodity/crop
// lookups.
type AnalyticsService interface {
	PredictDefaultRisk(ctx context.Context, borrowerID, timeHorizon string) (*risk.DefaultProbability, error)
	PredictNonAccrualRisk(ctx context.Context, borrowerID string) (*risk.NonAccrualAssessment, error)
	RestructuringOptions(ctx context.Context, loanID string) (*risk.RestructuringPlan, error)
	CropYieldRisk(ctx context.Context, borrowerID, season string) (*risk.CropYieldAssessment, error)
	MarketPriceImpact(ctx context.Context, commodity string) (*risk.MarketPriceImpact, error)
}

type analyticsService struct {
	riskService RiskService
	borrowers   repositories.BorrowerRepository
	loans       repositories.LoanRepository
	logger      *zap.Logger

	// rng backs the intentionally non-deterministic crop yield score.
	// Guarded by mu: rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAnalyticsService creates an AnalyticsService on top of the risk
// service and repositories.
func NewAnalyticsService(
	riskService RiskService,
	borrowers repositories.BorrowerRepository,
	loans repositories.LoanRepository,
	logger *zap.Logger,
) AnalyticsService {
	return &analyticsService{
		riskService: riskService,
		borrowers:   borrowers,
		loans:       loans,
		logger:      logger.Named("analytics-service"),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var _ AnalyticsService = (*analyticsService)(nil)

func (s *analyticsService) PredictDefaultRisk(ctx context.Context, borrowerID, timeHorizon string) (*risk.DefaultProbability, error) {
	assessment, err := s.riskService.DefaultRisk(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return risk.ProjectDefaultProbability(assessment, timeHorizon), nil
}

func (s *analyticsService) PredictNonAccrualRisk(ctx context.Context, borrowerID string) (*risk.NonAccrualAssessment, error) {
	return s.riskService.NonAccrualRisk(ctx, borrowerID)
}

func (s *analyticsService) RestructuringOptions(ctx context.Context, loanID string) (*risk.RestructuringPlan, error) {
	id, err := normalizeLoanID(loanID)
	if err != nil {
		return nil, err
	}
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return risk.BuildRestructuringPlan(loan), nil
}

func (s *analyticsService) CropYieldRisk(ctx context.Context, borrowerID, season string) (*risk.CropYieldAssessment, error) {
	id, err := normalizeBorrowerID(borrowerID)
	if err != nil {
		return nil, err
	}
	borrower, err := s.borrowers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return risk.ScoreCropYieldRisk(borrower, season, s.rng), nil
}

func (s *analyticsService) MarketPriceImpact(_ context.Context, commodity string) (*risk.MarketPriceImpact, error) {
	impact, ok := risk.ScoreMarketPriceImpact(commodity)
	if !ok {
		return nil, fmt.Errorf("commodity %q: %w", commodity, apperrors.ErrNotFound)
	}
	return impact, nil
}
