package models

import "time"

// Loan status values.
const (
	LoanStatusActive    = "Active"
	LoanStatusPending   = "Pending"
	LoanStatusClosed    = "Closed"
	LoanStatusDefaulted = "Defaulted"
)

// Payment status values.
const (
	PaymentStatusOnTime = "On Time"
	PaymentStatusLate   = "Late"
)

// Loan represents a loan row. Loan IDs follow the format L<number>.
type Loan struct {
	LoanID       string    `json:"loan_id"`
	BorrowerID   string    `json:"borrower_id"`
	LoanAmount   float64   `json:"loan_amount"`
	InterestRate float64   `json:"interest_rate"`
	TermMonths   int       `json:"term_months"`
	StartDate    time.Time `json:"start_date"`
	Status       string    `json:"status"`
	LoanType     string    `json:"loan_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// BorrowerName is populated on read for display; "Unknown" when the
	// borrower row is missing.
	BorrowerName string `json:"borrower_name,omitempty"`
}

// Payment represents a single loan payment.
type Payment struct {
	PaymentID   string    `json:"payment_id"`
	LoanID      string    `json:"loan_id"`
	PaymentDate time.Time `json:"payment_date"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
}

// IsLate reports whether the payment was recorded late.
func (p *Payment) IsLate() bool {
	return p.Status == PaymentStatusLate
}

// Collateral represents an item pledged against a loan.
type Collateral struct {
	CollateralID string  `json:"collateral_id"`
	LoanID       string  `json:"loan_id"`
	Type         string  `json:"collateral_type,omitempty"`
	Description  string  `json:"description,omitempty"`
	Value        float64 `json:"value"`
}

// LoanSummary aggregates portfolio-level figures for reporting endpoints.
type LoanSummary struct {
	TotalLoans      int     `json:"total_loans"`
	ActiveLoans     int     `json:"active_loans"`
	DefaultedLoans  int     `json:"defaulted_loans"`
	TotalAmount     float64 `json:"total_amount"`
	ActiveAmount    float64 `json:"active_amount"`
	AvgInterestRate float64 `json:"avg_interest_rate"`
	DefaultRatePct  float64 `json:"default_rate_pct"`
	AvgLoanAmount   float64 `json:"avg_loan_amount"`
	TotalBorrowers  int     `json:"total_borrowers"`
}
