package risk

import (
	"fmt"

	"github.com/agrilend/agrilend-engine/pkg/models"
)

// DefaultRiskAssessment is the result of scoring a borrower's default risk.
type DefaultRiskAssessment struct {
	BorrowerID      string   `json:"borrower_id"`
	BorrowerName    string   `json:"borrower_name,omitempty"`
	RiskScore       float64  `json:"risk_score"`
	RiskLevel       string   `json:"risk_level"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// DefaultProbability is the horizon-scaled probability variant used by the
// predictive analytics endpoints.
type DefaultProbability struct {
	BorrowerID         string  `json:"borrower_id"`
	TimeHorizon        string  `json:"time_horizon"`
	DefaultProbability float64 `json:"default_probability"`
	RiskLevel          string  `json:"risk_level"`
}

const (
	defaultRiskBase       = 50.0
	maxLatePaymentPenalty = 25.0
	smallFarmAcres        = 50.0
	smallFarmPenalty      = 10.0
)

// ScoreDefaultRisk computes a borrower's default risk on a 0-100 scale.
//
// Base 50, adjusted by credit score band, late-payment history, total
// loan-to-income ratio, and farm size, then clamped. A borrower with no
// loans scores 0 with an explanatory factor rather than an error.
func ScoreDefaultRisk(borrower *models.Borrower, loans []*models.Loan, payments []*models.Payment) *DefaultRiskAssessment {
	a := &DefaultRiskAssessment{
		BorrowerID:   borrower.BorrowerID,
		BorrowerName: borrower.FullName(),
	}

	if len(loans) == 0 {
		a.RiskScore = 0
		a.RiskLevel = LevelLow
		a.Factors = []string{"No loans found for borrower"}
		a.Recommendations = []string{"No loan history to assess"}
		return a
	}

	score := defaultRiskBase

	// Credit score band
	switch cs := borrower.CreditScore; {
	case cs >= 750:
		score -= 15
		a.Factors = append(a.Factors, fmt.Sprintf("Excellent credit score (%d)", cs))
	case cs >= 700:
		score -= 10
		a.Factors = append(a.Factors, fmt.Sprintf("Good credit score (%d)", cs))
	case cs >= 650:
		score -= 5
		a.Factors = append(a.Factors, fmt.Sprintf("Fair credit score (%d)", cs))
	case cs < 600:
		score += 20
		a.Factors = append(a.Factors, fmt.Sprintf("Poor credit score (%d)", cs))
		a.Recommendations = append(a.Recommendations, "Consider credit counseling before extending additional credit")
	default: // 600-649
		score += 10
		a.Factors = append(a.Factors, fmt.Sprintf("Below average credit score (%d)", cs))
	}

	// Late payment history: +5 per late payment, contribution capped
	lateCount := countLatePayments(payments)
	if lateCount > 0 {
		penalty := float64(lateCount) * 5
		if penalty > maxLatePaymentPenalty {
			penalty = maxLatePaymentPenalty
		}
		score += penalty
		a.Factors = append(a.Factors, fmt.Sprintf("%d late payment(s) on record", lateCount))
		a.Recommendations = append(a.Recommendations, "Set up automatic payments to avoid further late payments")
	}

	// Total loan amount relative to income
	totalLoanAmount := 0.0
	for _, l := range loans {
		totalLoanAmount += l.LoanAmount
	}
	switch ratio := loanToIncomeRatio(totalLoanAmount, borrower.Income); {
	case ratio > 5:
		score += 25
		a.Factors = append(a.Factors, fmt.Sprintf("Very high loan-to-income ratio (%.1f)", ratio))
		a.Recommendations = append(a.Recommendations, "Total debt exceeds safe lending limits relative to income")
	case ratio > 3:
		score += 15
		a.Factors = append(a.Factors, fmt.Sprintf("High loan-to-income ratio (%.1f)", ratio))
	case ratio > 2:
		score += 5
		a.Factors = append(a.Factors, fmt.Sprintf("Elevated loan-to-income ratio (%.1f)", ratio))
	}

	// Small farms have less production capacity to absorb a bad season.
	if borrower.FarmSize > 0 && borrower.FarmSize < smallFarmAcres {
		score += smallFarmPenalty
		a.Factors = append(a.Factors, fmt.Sprintf("Small farm size (%.0f acres)", borrower.FarmSize))
	}

	a.RiskScore = ClampScore(score)
	a.RiskLevel = LevelForScore(a.RiskScore)

	switch a.RiskLevel {
	case LevelHigh:
		a.Recommendations = append(a.Recommendations, "Schedule an immediate portfolio review with the borrower")
	case LevelMedium:
		a.Recommendations = append(a.Recommendations, "Monitor payment activity monthly")
	default:
		a.Recommendations = append(a.Recommendations, "Standard monitoring is sufficient")
	}

	return a
}

// ProjectDefaultProbability converts a default risk assessment into a
// probability over the given time horizon. Unknown horizons are treated as
// medium-term.
func ProjectDefaultProbability(a *DefaultRiskAssessment, horizon string) *DefaultProbability {
	if _, ok := horizonMultipliers[horizon]; !ok {
		horizon = HorizonMediumTerm
	}
	p := ClampProbability(a.RiskScore / 100 * HorizonMultiplier(horizon))
	return &DefaultProbability{
		BorrowerID:         a.BorrowerID,
		TimeHorizon:        horizon,
		DefaultProbability: p,
		RiskLevel:          LevelForScore(p * 100),
	}
}

func countLatePayments(payments []*models.Payment) int {
	n := 0
	for _, p := range payments {
		if p.IsLate() {
			n++
		}
	}
	return n
}

// loanToIncomeRatio treats zero or negative income as the worst band.
func loanToIncomeRatio(totalLoanAmount, income float64) float64 {
	if income <= 0 {
		if totalLoanAmount > 0 {
			return 99
		}
		return 0
	}
	return totalLoanAmount / income
}
