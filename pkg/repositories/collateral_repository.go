package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agrilend/agrilend-engine/pkg/database"
	"github.com/agrilend/agrilend-engine/pkg/models"
)

// CollateralRepository provides read access to collateral rows.
type CollateralRepository interface {
	ListByLoan(ctx context.Context, loanID string) ([]*models.Collateral, error)
}

type collateralRepository struct {
	db *database.DB
}

// NewCollateralRepository creates a SQL Server backed CollateralRepository.
func NewCollateralRepository(db *database.DB) CollateralRepository {
	return &collateralRepository{db: db}
}

var _ CollateralRepository = (*collateralRepository)(nil)

func (r *collateralRepository) ListByLoan(ctx context.Context, loanID string) ([]*models.Collateral, error) {
	query := `
		SELECT collateral_id, loan_id, collateral_type, description, value
		FROM Collateral
		WHERE loan_id = @p1
		ORDER BY collateral_id`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collateral: %w", err)
	}
	defer rows.Close()

	var items []*models.Collateral
	for rows.Next() {
		var c models.Collateral
		var ctype, description sql.NullString
		if err := rows.Scan(&c.CollateralID, &c.LoanID, &ctype, &description, &c.Value); err != nil {
			return nil, fmt.Errorf("failed to scan collateral row: %w", err)
		}
		c.Type = ctype.String
		c.Description = description.String
		items = append(items, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collateral row iteration failed: %w", err)
	}
	return items, nil
}
