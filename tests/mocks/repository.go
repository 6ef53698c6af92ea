package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, entries []*domain.PaymentSchedule) error {
	args := m.Called(ctx, loan, entries)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByCode(ctx context.Context, loanCode string) (*domain.Loan, error) {
	args := m.Called(ctx, loanCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListAll(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetSchedule(ctx context.Context, loanCode string) ([]*domain.PaymentSchedule, error) {
	args := m.Called(ctx, loanCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentSchedule), args.Error(1)
}

func (m *MockLoanRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.UpcomingInstallment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UpcomingInstallment), args.Error(1)
}

type MockTxRepos struct {
	mock.Mock
}

func (m *MockTxRepos) GetEntryForUpdate(ctx context.Context, id uuid.UUID) (*domain.PaymentSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSchedule), args.Error(1)
}

func (m *MockTxRepos) GetLoanForUpdate(ctx context.Context, loanCode string) (*domain.Loan, error) {
	args := m.Called(ctx, loanCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockTxRepos) GetActiveLoanForUpdate(ctx context.Context, ownerID uuid.UUID, loanCode string) (*domain.Loan, error) {
	args := m.Called(ctx, ownerID, loanCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockTxRepos) GetSchedule(ctx context.Context, loanCode string) ([]*domain.PaymentSchedule, error) {
	args := m.Called(ctx, loanCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentSchedule), args.Error(1)
}

func (m *MockTxRepos) NextPending(ctx context.Context, loanCode string) (*domain.PaymentSchedule, error) {
	args := m.Called(ctx, loanCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSchedule), args.Error(1)
}

func (m *MockTxRepos) UpdateEntryStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTxRepos) MarkAllPaid(ctx context.Context, loanCode string) error {
	args := m.Called(ctx, loanCode)
	return args.Error(0)
}

func (m *MockTxRepos) UpdateLoan(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

// MockUnitOfWork executes the transaction body against its Tx mock, so
// service tests exercise the real in-transaction logic.
type MockUnitOfWork struct {
	mock.Mock
	Tx *MockTxRepos
}

func (m *MockUnitOfWork) WithinTx(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}
