package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrilend/agrilend-engine/pkg/apperrors"
	"github.com/agrilend/agrilend-engine/pkg/database"
	"github.com/agrilend/agrilend-engine/pkg/models"
)

// LoanRepository provides read access to loan rows.
type LoanRepository interface {
	GetByID(ctx context.Context, loanID string) (*models.Loan, error)
	List(ctx context.Context) ([]*models.Loan, error)
	ListActive(ctx context.Context) ([]*models.Loan, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]*models.Loan, error)
	Summary(ctx context.Context) (*models.LoanSummary, error)
}

type loanRepository struct {
	db *database.DB
}

// NewLoanRepository creates a SQL Server backed LoanRepository.
func NewLoanRepository(db *database.DB) LoanRepository {
	return &loanRepository{db: db}
}

var _ LoanRepository = (*loanRepository)(nil)

// loanSelect joins the borrower for display. Loans may reference a missing
// borrower; the COALESCE keeps such rows readable as "Unknown".
const loanSelect = `
	SELECT l.loan_id, l.borrower_id, l.loan_amount, l.interest_rate, l.term_months,
	       l.start_date, l.status, l.loan_type, l.created_at, l.updated_at,
	       COALESCE(NULLIF(LTRIM(RTRIM(CONCAT(b.first_name, ' ', b.last_name))), ''), 'Unknown') AS borrower_name
	FROM Loans l
	LEFT JOIN Borrowers b ON b.borrower_id = l.borrower_id`

func (r *loanRepository) GetByID(ctx context.Context, loanID string) (*models.Loan, error) {
	row := r.db.QueryRowContext(ctx, loanSelect+` WHERE l.loan_id = @p1`, loanID)
	l, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan %s: %w", loanID, err)
	}
	return l, nil
}

func (r *loanRepository) List(ctx context.Context) ([]*models.Loan, error) {
	return r.queryLoans(ctx, loanSelect+` ORDER BY l.loan_id`)
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*models.Loan, error) {
	return r.queryLoans(ctx, loanSelect+` WHERE l.status = @p1 ORDER BY l.loan_id`, models.LoanStatusActive)
}

func (r *loanRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]*models.Loan, error) {
	return r.queryLoans(ctx, loanSelect+` WHERE l.borrower_id = @p1 ORDER BY l.loan_id`, borrowerID)
}

func (r *loanRepository) Summary(ctx context.Context) (*models.LoanSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'Active' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'Defaulted' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(loan_amount), 0),
		       COALESCE(SUM(CASE WHEN status = 'Active' THEN loan_amount ELSE 0 END), 0),
		       COALESCE(AVG(interest_rate), 0),
		       COALESCE(AVG(loan_amount), 0),
		       COUNT(DISTINCT borrower_id)
		FROM Loans`

	var s models.LoanSummary
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.TotalLoans, &s.ActiveLoans, &s.DefaultedLoans,
		&s.TotalAmount, &s.ActiveAmount, &s.AvgInterestRate,
		&s.AvgLoanAmount, &s.TotalBorrowers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute loan summary: %w", err)
	}

	if s.TotalLoans > 0 {
		s.DefaultRatePct = float64(s.DefaultedLoans) / float64(s.TotalLoans) * 100
	}
	return &s, nil
}

func (r *loanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]*models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loan row iteration failed: %w", err)
	}
	return loans, nil
}

func scanLoan(s scanner) (*models.Loan, error) {
	var l models.Loan
	var startDate sql.NullTime
	var loanType sql.NullString

	err := s.Scan(
		&l.LoanID, &l.BorrowerID, &l.LoanAmount, &l.InterestRate, &l.TermMonths,
		&startDate, &l.Status, &loanType, &l.CreatedAt, &l.UpdatedAt, &l.BorrowerName,
	)
	if err != nil {
		return nil, err
	}

	l.StartDate = startDate.Time
	l.LoanType = loanType.String
	return &l, nil
}
