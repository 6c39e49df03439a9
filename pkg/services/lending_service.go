// Package services implements the application logic between HTTP/MCP
// entrypoints and the repositories.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/apperrors"
	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/repositories"
	"github.com/agrilend/agrilend-engine/pkg/risk"
)

// LendingService provides read access to the lending portfolio. All
// identifiers are normalized (trimmed, uppercased) and validated before
// lookup.
type LendingService interface {
	GetLoan(ctx context.Context, loanID string) (*models.Loan, error)
	ListLoans(ctx context.Context) ([]*models.Loan, error)
	ListActiveLoans(ctx context.Context) ([]*models.Loan, error)
	LoanSummary(ctx context.Context) (*models.LoanSummary, error)
	GetLoanPayments(ctx context.Context, loanID string) ([]*models.Payment, error)
	GetLoanCollateral(ctx context.Context, loanID string) ([]*models.Collateral, error)

	GetBorrower(ctx context.Context, borrowerID string) (*models.Borrower, error)
	ListBorrowers(ctx context.Context) ([]*models.Borrower, error)
	GetBorrowerLoans(ctx context.Context, borrowerID string) ([]*models.Loan, error)
}

type lendingService struct {
	borrowers  repositories.BorrowerRepository
	loans      repositories.LoanRepository
	payments   repositories.PaymentRepository
	collateral repositories.CollateralRepository
	logger     *zap.Logger
}

// NewLendingService creates a LendingService over the lending repositories.
func NewLendingService(
	borrowers repositories.BorrowerRepository,
	loans repositories.LoanRepository,
	payments repositories.PaymentRepository,
	collateral repositories.CollateralRepository,
	logger *zap.Logger,
) LendingService {
	return &lendingService{
		borrowers:  borrowers,
		loans:      loans,
		payments:   payments,
		collateral: collateral,
		logger:     logger.Named("lending-service"),
	}
}

var _ LendingService = (*lendingService)(nil)

// normalizeLoanID validates and normalizes a loan identifier.
func normalizeLoanID(loanID string) (string, error) {
	if !risk.ValidLoanID(loanID) {
		return "", fmt.Errorf("loan id %q: %w", loanID, apperrors.ErrInvalidID)
	}
	return risk.NormalizeID(loanID), nil
}

// normalizeBorrowerID validates and normalizes a borrower identifier.
func normalizeBorrowerID(borrowerID string) (string, error) {
	if !risk.ValidBorrowerID(borrowerID) {
		return "", fmt.Errorf("borrower id %q: %w", borrowerID, apperrors.ErrInvalidID)
	}
	return risk.NormalizeID(borrowerID), nil
}

func (s *lendingService) GetLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	id, err := normalizeLoanID(loanID)
	if err != nil {
		return nil, err
	}
	return s.loans.GetByID(ctx, id)
}

func (s *lendingService) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	return s.loans.List(ctx)
}

func (s *lendingService) ListActiveLoans(ctx context.Context) ([]*models.Loan, error) {
	return s.loans.ListActive(ctx)
}

func (s *lendingService) LoanSummary(ctx context.Context) (*models.LoanSummary, error) {
	return s.loans.Summary(ctx)
}

func (s *lendingService) GetLoanPayments(ctx context.Context, loanID string) ([]*models.Payment, error) {
	id, err := normalizeLoanID(loanID)
	if err != nil {
		return nil, err
	}
	// Verify the loan exists so an unknown ID is a not-found, not an
	// empty payment list.
	if _, err := s.loans.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.payments.ListByLoan(ctx, id)
}

func (s *lendingService) GetLoanCollateral(ctx context.Context, loanID string) ([]*models.Collateral, error) {
	id, err := normalizeLoanID(loanID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loans.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.collateral.ListByLoan(ctx, id)
}

func (s *lendingService) GetBorrower(ctx context.Context, borrowerID string) (*models.Borrower, error) {
	id, err := normalizeBorrowerID(borrowerID)
	if err != nil {
		return nil, err
	}
	return s.borrowers.GetByID(ctx, id)
}

func (s *lendingService) ListBorrowers(ctx context.Context) ([]*models.Borrower, error) {
	return s.borrowers.List(ctx)
}

func (s *lendingService) GetBorrowerLoans(ctx context.Context, borrowerID string) ([]*models.Loan, error) {
	id, err := normalizeBorrowerID(borrowerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.borrowers.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.loans.ListByBorrower(ctx, id)
}
