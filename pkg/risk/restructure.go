package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/agrilend/agrilend-engine/pkg/models"
)

// RestructuringOption is a single candidate rate/term combination with its
// computed payment and savings relative to the current terms.
type RestructuringOption struct {
	Description     string  `json:"description"`
	InterestRate    float64 `json:"interest_rate"`
	TermMonths      int     `json:"term_months"`
	MonthlyPayment  float64 `json:"monthly_payment"`
	MonthlySavings  float64 `json:"monthly_savings"`
	TotalInterest   float64 `json:"total_interest"`
	TotalCostChange float64 `json:"total_cost_change"`
}

// RestructuringPlan is the ranked set of options for a loan.
type RestructuringPlan struct {
	LoanID                string                `json:"loan_id"`
	CurrentRate           float64               `json:"current_rate"`
	CurrentTermMonths     int                   `json:"current_term_months"`
	CurrentMonthlyPayment float64               `json:"current_monthly_payment"`
	Options               []RestructuringOption `json:"options"`
}

// MonthlyPayment computes the standard level-payment amortization formula
// P*r*(1+r)^n / ((1+r)^n - 1) for principal P, annual rate in percent, and
// n monthly periods. A zero rate degrades to straight principal division.
func MonthlyPayment(principal, annualRatePct float64, months int) float64 {
	if months <= 0 || principal <= 0 {
		return 0
	}
	r := annualRatePct / 100 / 12
	if r == 0 {
		return round2(principal / float64(months))
	}
	factor := math.Pow(1+r, float64(months))
	return round2(principal * r * factor / (factor - 1))
}

// BuildRestructuringPlan evaluates rate reductions and term extensions for
// a loan and ranks the options by monthly savings, highest first. Options
// that do not reduce the monthly payment are still listed so the officer
// sees the full trade-off space.
func BuildRestructuringPlan(loan *models.Loan) *RestructuringPlan {
	current := MonthlyPayment(loan.LoanAmount, loan.InterestRate, loan.TermMonths)

	plan := &RestructuringPlan{
		LoanID:                loan.LoanID,
		CurrentRate:           loan.InterestRate,
		CurrentTermMonths:     loan.TermMonths,
		CurrentMonthlyPayment: current,
	}

	type candidate struct {
		label     string
		rateDelta float64
		extraTerm int
	}
	candidates := []candidate{
		{label: "Rate reduction of 0.5%", rateDelta: -0.5},
		{label: "Rate reduction of 1.0%", rateDelta: -1.0},
		{label: "Term extension of 12 months", extraTerm: 12},
		{label: "Term extension of 24 months", extraTerm: 24},
		{label: "Rate reduction of 0.5% with 12 month extension", rateDelta: -0.5, extraTerm: 12},
	}

	currentTotalInterest := current*float64(loan.TermMonths) - loan.LoanAmount

	for _, c := range candidates {
		rate := loan.InterestRate + c.rateDelta
		if rate < 0 {
			rate = 0
		}
		term := loan.TermMonths + c.extraTerm

		payment := MonthlyPayment(loan.LoanAmount, rate, term)
		totalInterest := payment*float64(term) - loan.LoanAmount

		plan.Options = append(plan.Options, RestructuringOption{
			Description:     fmt.Sprintf("%s (%.2f%% over %d months)", c.label, rate, term),
			InterestRate:    rate,
			TermMonths:      term,
			MonthlyPayment:  payment,
			MonthlySavings:  round2(current - payment),
			TotalInterest:   round2(totalInterest),
			TotalCostChange: round2(totalInterest - currentTotalInterest),
		})
	}

	sort.Slice(plan.Options, func(i, j int) bool {
		return plan.Options[i].MonthlySavings > plan.Options[j].MonthlySavings
	})

	return plan
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
