package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrilend/agrilend-engine/pkg/models"
)

func collateralItems(values ...float64) []*models.Collateral {
	items := make([]*models.Collateral, 0, len(values))
	for i, v := range values {
		items = append(items, &models.Collateral{
			CollateralID: "C00" + string(rune('1'+i)),
			LoanID:       "L002",
			Type:         "Equipment",
			Value:        v,
		})
	}
	return items
}

func TestEvaluateCollateral_InsufficientScenario(t *testing.T) {
	// L002: $40k of collateral against a $50k loan under stable market
	// conditions gives LTV 1.25 and an insufficient assessment.
	loan := &models.Loan{LoanID: "L002", LoanAmount: 50000}

	a := EvaluateCollateral(loan, collateralItems(25000, 15000), MarketStable)

	assert.Equal(t, 1.25, a.LoanToValueRatio)
	assert.False(t, a.Sufficient)
	assert.Contains(t, a.Assessment, "insufficient")
	assert.Equal(t, 40000.0, a.CollateralValue)
	assert.Equal(t, 2, a.CollateralCount)
}

func TestEvaluateCollateral_SufficiencyThreshold(t *testing.T) {
	loan := &models.Loan{LoanID: "L001", LoanAmount: 40000}

	tests := []struct {
		name       string
		collateral float64
		sufficient bool
	}{
		{"well covered", 100000, true},
		{"exactly at threshold", 50000, true},  // LTV 0.8
		{"just under threshold", 49000, false}, // LTV ~0.816
		{"uncovered", 30000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := EvaluateCollateral(loan, collateralItems(tt.collateral), MarketStable)
			assert.Equal(t, tt.sufficient, a.Sufficient)
		})
	}
}

func TestEvaluateCollateral_MarketMultipliers(t *testing.T) {
	loan := &models.Loan{LoanID: "L001", LoanAmount: 80000}
	items := collateralItems(100000)

	stable := EvaluateCollateral(loan, items, MarketStable)
	declining := EvaluateCollateral(loan, items, MarketDeclining)
	improving := EvaluateCollateral(loan, items, MarketImproving)

	assert.Equal(t, 0.8, stable.LoanToValueRatio)
	assert.Equal(t, 1.0, declining.LoanToValueRatio)   // 80000 / 80000
	assert.InDelta(t, 0.7273, improving.LoanToValueRatio, 0.0001)

	assert.True(t, stable.Sufficient)
	assert.False(t, declining.Sufficient)
	assert.True(t, improving.Sufficient)
}

func TestEvaluateCollateral_UnknownMarketDefaultsToStable(t *testing.T) {
	loan := &models.Loan{LoanID: "L001", LoanAmount: 50000}
	a := EvaluateCollateral(loan, collateralItems(100000), "sideways")

	assert.Equal(t, MarketStable, a.MarketConditions)
	assert.Equal(t, 0.5, a.LoanToValueRatio)
}

func TestEvaluateCollateral_NoCollateral(t *testing.T) {
	loan := &models.Loan{LoanID: "L009", LoanAmount: 50000}
	a := EvaluateCollateral(loan, nil, MarketStable)

	assert.False(t, a.Sufficient)
	assert.Contains(t, a.Assessment, "No collateral")
}

func TestEvaluateCollateral_Monotonicity(t *testing.T) {
	items := collateralItems(60000)

	// LTV strictly increases with loan amount, collateral held fixed.
	prev := -1.0
	for _, amount := range []float64{10000, 30000, 60000, 90000} {
		a := EvaluateCollateral(&models.Loan{LoanID: "L001", LoanAmount: amount}, items, MarketStable)
		assert.Greater(t, a.LoanToValueRatio, prev)
		prev = a.LoanToValueRatio
	}

	// LTV strictly decreases as collateral value grows, loan held fixed.
	loan := &models.Loan{LoanID: "L001", LoanAmount: 60000}
	prev = 1e9
	for _, value := range []float64{20000, 40000, 80000, 160000} {
		a := EvaluateCollateral(loan, collateralItems(value), MarketStable)
		assert.Less(t, a.LoanToValueRatio, prev)
		prev = a.LoanToValueRatio
	}
}
