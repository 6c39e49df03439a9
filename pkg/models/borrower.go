// Package models defines the lending domain entities persisted in SQL Server.
package models

import "time"

// Borrower represents a farm borrower row.
// Borrower IDs follow the format B<number> (e.g. "B001").
type Borrower struct {
	BorrowerID        string    `json:"borrower_id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Address           string    `json:"address,omitempty"`
	CreditScore       int       `json:"credit_score"`
	Income            float64   `json:"income"`
	FarmSize          float64   `json:"farm_size"`
	FarmType          string    `json:"farm_type,omitempty"`
	DebtToIncomeRatio float64   `json:"debt_to_income_ratio"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FullName returns the borrower's display name.
func (b *Borrower) FullName() string {
	if b.FirstName == "" && b.LastName == "" {
		return "Unknown"
	}
	if b.FirstName == "" {
		return b.LastName
	}
	if b.LastName == "" {
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}
