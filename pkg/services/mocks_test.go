package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agrilend/agrilend-engine/pkg/apperrors"
	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/repositories"
)

// mockBorrowerRepo implements repositories.BorrowerRepository for testing.
type mockBorrowerRepo struct {
	borrowers []*models.Borrower
	getErr    error
	listErr   error
}

var _ repositories.BorrowerRepository = (*mockBorrowerRepo)(nil)

func (m *mockBorrowerRepo) GetByID(_ context.Context, borrowerID string) (*models.Borrower, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, b := range m.borrowers {
		if b.BorrowerID == borrowerID {
			return b, nil
		}
	}
	return nil, fmt.Errorf("borrower %s: %w", borrowerID, apperrors.ErrNotFound)
}

func (m *mockBorrowerRepo) List(_ context.Context) ([]*models.Borrower, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.borrowers, nil
}

// mockLoanRepo implements repositories.LoanRepository for testing.
type mockLoanRepo struct {
	loans   []*models.Loan
	summary *models.LoanSummary
	getErr  error
	listErr error
}

var _ repositories.LoanRepository = (*mockLoanRepo)(nil)

func (m *mockLoanRepo) GetByID(_ context.Context, loanID string) (*models.Loan, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, l := range m.loans {
		if l.LoanID == loanID {
			return l, nil
		}
	}
	return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
}

func (m *mockLoanRepo) List(_ context.Context) ([]*models.Loan, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.loans, nil
}

func (m *mockLoanRepo) ListActive(_ context.Context) ([]*models.Loan, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*models.Loan
	for _, l := range m.loans {
		if l.Status == models.LoanStatusActive {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLoanRepo) ListByBorrower(_ context.Context, borrowerID string) ([]*models.Loan, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*models.Loan
	for _, l := range m.loans {
		if l.BorrowerID == borrowerID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLoanRepo) Summary(_ context.Context) (*models.LoanSummary, error) {
	if m.summary == nil {
		return &models.LoanSummary{}, nil
	}
	return m.summary, nil
}

// mockPaymentRepo implements repositories.PaymentRepository for testing.
type mockPaymentRepo struct {
	payments   map[string][]*models.Payment // keyed by loan ID
	byBorrower map[string][]*models.Payment // keyed by borrower ID
	listErr    error
}

var _ repositories.PaymentRepository = (*mockPaymentRepo)(nil)

func (m *mockPaymentRepo) ListByLoan(_ context.Context, loanID string) ([]*models.Payment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.payments[loanID], nil
}

func (m *mockPaymentRepo) ListByBorrower(_ context.Context, borrowerID string) ([]*models.Payment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.byBorrower[borrowerID], nil
}

// mockCollateralRepo implements repositories.CollateralRepository for testing.
type mockCollateralRepo struct {
	items   map[string][]*models.Collateral // keyed by loan ID
	listErr error
}

var _ repositories.CollateralRepository = (*mockCollateralRepo)(nil)

func (m *mockCollateralRepo) ListByLoan(_ context.Context, loanID string) ([]*models.Collateral, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items[loanID], nil
}

// mockConversationRepo implements repositories.ConversationRepository
// for testing.
type mockConversationRepo struct {
	conversations   []*models.MCPConversation
	recommendations []*models.AIRecommendation
	createErr       error
}

var _ repositories.ConversationRepository = (*mockConversationRepo)(nil)

func (m *mockConversationRepo) CreateConversation(_ context.Context, conv *models.MCPConversation) error {
	if m.createErr != nil {
		return m.createErr
	}
	if conv.ConversationID == uuid.Nil {
		conv.ConversationID = uuid.New()
	}
	m.conversations = append(m.conversations, conv)
	return nil
}

func (m *mockConversationRepo) CreateRecommendation(_ context.Context, rec *models.AIRecommendation) error {
	if m.createErr != nil {
		return m.createErr
	}
	if rec.RecommendationID == uuid.Nil {
		rec.RecommendationID = uuid.New()
	}
	m.recommendations = append(m.recommendations, rec)
	return nil
}

func (m *mockConversationRepo) ListRecommendations(_ context.Context, conversationID uuid.UUID) ([]*models.AIRecommendation, error) {
	var result []*models.AIRecommendation
	for _, r := range m.recommendations {
		if r.ConversationID == conversationID {
			result = append(result, r)
		}
	}
	return result, nil
}

// mockAuditRepo implements repositories.AuditRepository for testing.
type mockAuditRepo struct {
	entries   []*models.AuditEntry
	createErr error
}

var _ repositories.AuditRepository = (*mockAuditRepo)(nil)

func (m *mockAuditRepo) Create(_ context.Context, entry *models.AuditEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}
