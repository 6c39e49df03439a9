// Package repositories provides data access for the lending schema.
// All queries are parameterized; IDs are normalized by callers before lookup.
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

// BorrowerRepository provides read access to borrower rows.
type BorrowerRepository interface {
	GetByID(ctx context.Context, borrowerID string) (*models.Borrower, error)
	List(ctx context.Context) ([]*models.Borrower, error)
}

type borrowerRepository struct {
	db *database.DB
}

// NewBorrowerRepository creates a SQL Server backed BorrowerRepository.
func NewBorrowerRepository(db *database.DB) BorrowerRepository {
	return &borrowerRepository{db: db}
}

var _ BorrowerRepository = (*borrowerRepository)(nil)

const borrowerColumns = `borrower_id, first_name, last_name, email, phone, address,
	credit_score, income, farm_size, farm_type, debt_to_income_ratio, created_at, updated_at`

func (r *borrowerRepository) GetByID(ctx context.Context, borrowerID string) (*models.Borrower, error) {
	query := fmt.Sprintf(`SELECT %s FROM Borrowers WHERE borrower_id = @p1`, borrowerColumns)

	row := r.db.QueryRowContext(ctx, query, borrowerID)
	b, err := scanBorrower(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("borrower %s: %w", borrowerID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get borrower %s: %w", borrowerID, err)
	}
	return b, nil
}

func (r *borrowerRepository) List(ctx context.Context) ([]*models.Borrower, error) {
	query := fmt.Sprintf(`SELECT %s FROM Borrowers ORDER BY borrower_id`, borrowerColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	defer rows.Close()

	var borrowers []*models.Borrower
	for rows.Next() {
		b, err := scanBorrower(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan borrower row: %w", err)
		}
		borrowers = append(borrowers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("borrower row iteration failed: %w", err)
	}
	return borrowers, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBorrower(s scanner) (*models.Borrower, error) {
	var b models.Borrower
	var email, phone, address, farmType sql.NullString
	var creditScore sql.NullInt64
	var income, farmSize, dti sql.NullFloat64

	err := s.Scan(
		&b.BorrowerID, &b.FirstName, &b.LastName, &email, &phone, &address,
		&creditScore, &income, &farmSize, &farmType, &dti, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Email = email.String
	b.Phone = phone.String
	b.Address = address.String
	b.FarmType = farmType.String
	b.CreditScore = int(creditScore.Int64)
	b.Income = income.Float64
	b.FarmSize = farmSize.Float64
	b.DebtToIncomeRatio = dti.Float64
	return &b, nil
}
