package repositories

import (
	"context"
	"fmt"

	"github.com/agrilend/agrilend-engine/pkg/database"
	"github.com/agrilend/agrilend-engine/pkg/models"
)

// PaymentRepository provides read access to payment rows.
type PaymentRepository interface {
	ListByLoan(ctx context.Context, loanID string) ([]*models.Payment, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]*models.Payment, error)
}

type paymentRepository struct {
	db *database.DB
}

// NewPaymentRepository creates a SQL Server backed PaymentRepository.
func NewPaymentRepository(db *database.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

var _ PaymentRepository = (*paymentRepository)(nil)

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*models.Payment, error) {
	query := `
		SELECT payment_id, loan_id, payment_date, amount, status
		FROM Payments
		WHERE loan_id = @p1
		ORDER BY payment_date`
	return r.queryPayments(ctx, query, loanID)
}

// ListByBorrower returns all payments across a borrower's loans; this is
// the primary signal for the risk engine.
func (r *paymentRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]*models.Payment, error) {
	query := `
		SELECT p.payment_id, p.loan_id, p.payment_date, p.amount, p.status
		FROM Payments p
		JOIN Loans l ON l.loan_id = p.loan_id
		WHERE l.borrower_id = @p1
		ORDER BY p.payment_date`
	return r.queryPayments(ctx, query, borrowerID)
}

func (r *paymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.PaymentID, &p.LoanID, &p.PaymentDate, &p.Amount, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payment row iteration failed: %w", err)
	}
	return payments, nil
}
