package risk

import (
	"fmt"
	"math"

	"github.com/agrilend/agrilend-engine/pkg/models"
)

// Market condition values accepted by collateral evaluation.
const (
	MarketStable    = "stable"
	MarketDeclining = "declining"
	MarketImproving = "improving"
)

// marketMultipliers adjust collateral value for current market conditions
// before the loan-to-value ratio is computed.
var marketMultipliers = map[string]float64{
	MarketStable:    1.0,
	MarketDeclining: 0.8,
	MarketImproving: 1.1,
}

// ltvSufficiencyThreshold is the industry-standard loan-to-value ceiling:
// a loan is considered sufficiently collateralized when LTV <= 0.8.
const ltvSufficiencyThreshold = 0.8

// CollateralAssessment is the result of evaluating collateral sufficiency
// for a single loan.
type CollateralAssessment struct {
	LoanID                  string  `json:"loan_id"`
	LoanAmount              float64 `json:"loan_amount"`
	CollateralValue         float64 `json:"collateral_value"`
	AdjustedCollateralValue float64 `json:"adjusted_collateral_value"`
	MarketConditions        string  `json:"market_conditions"`
	LoanToValueRatio        float64 `json:"loan_to_value_ratio"`
	Sufficient              bool    `json:"sufficient"`
	Assessment              string  `json:"assessment"`
	CollateralCount         int     `json:"collateral_count"`
}

// EvaluateCollateral computes the loan-to-value ratio for a loan against its
// pledged collateral, with a market-condition multiplier applied to the
// collateral value. LTV is monotonically increasing in loan amount and
// monotonically decreasing in collateral value. Unknown market conditions
// are treated as stable.
func EvaluateCollateral(loan *models.Loan, items []*models.Collateral, marketConditions string) *CollateralAssessment {
	multiplier, ok := marketMultipliers[marketConditions]
	if !ok {
		marketConditions = MarketStable
		multiplier = marketMultipliers[MarketStable]
	}

	total := 0.0
	for _, c := range items {
		total += c.Value
	}
	adjusted := total * multiplier

	a := &CollateralAssessment{
		LoanID:                  loan.LoanID,
		LoanAmount:              loan.LoanAmount,
		CollateralValue:         total,
		AdjustedCollateralValue: adjusted,
		MarketConditions:        marketConditions,
		CollateralCount:         len(items),
	}

	if adjusted <= 0 {
		a.LoanToValueRatio = 0
		a.Sufficient = false
		a.Assessment = "No collateral on record for this loan"
		return a
	}

	a.LoanToValueRatio = round4(loan.LoanAmount / adjusted)
	a.Sufficient = a.LoanToValueRatio <= ltvSufficiencyThreshold

	switch ltv := a.LoanToValueRatio; {
	case ltv <= 0.5:
		a.Assessment = fmt.Sprintf("Collateral is highly sufficient (LTV %.2f)", ltv)
	case ltv <= ltvSufficiencyThreshold:
		a.Assessment = fmt.Sprintf("Collateral meets the standard threshold (LTV %.2f)", ltv)
	case ltv <= 1.0:
		a.Assessment = fmt.Sprintf("Collateral is below the standard threshold (LTV %.2f)", ltv)
	default:
		a.Assessment = fmt.Sprintf("Collateral is insufficient to cover the loan (LTV %.2f)", ltv)
	}

	return a
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
