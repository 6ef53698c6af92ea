package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/loanworks/loan-engine/internal/domain"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Update updates a user's verification state and credentials
	Update(ctx context.Context, user *domain.User) error
}

// LoanRepository defines the interface for loan data operations outside of
// state-mutating transactions.
type LoanRepository interface {
	// CreateWithSchedule atomically reserves the next loan code, inserts the
	// loan, and bulk-inserts its full payment schedule. The reserved code is
	// written back into the loan and every entry.
	CreateWithSchedule(ctx context.Context, loan *domain.Loan, entries []*domain.PaymentSchedule) error

	// GetByCode retrieves a loan by its human-readable code
	GetByCode(ctx context.Context, loanCode string) (*domain.Loan, error)

	// ListByOwner retrieves all loans belonging to a user
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error)

	// ListAll retrieves every loan (admin view)
	ListAll(ctx context.Context) ([]*domain.Loan, error)

	// GetSchedule retrieves a loan's schedule ordered by installment number
	GetSchedule(ctx context.Context, loanCode string) ([]*domain.PaymentSchedule, error)

	// ListDueBetween retrieves pending installments of active loans with a
	// due date inside the window (reminder scan).
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.UpcomingInstallment, error)
}

// TxRepos exposes the row-locking operations available inside a transaction.
// Get*ForUpdate methods take write locks so preconditions can be verified
// and updated atomically.
type TxRepos interface {
	GetEntryForUpdate(ctx context.Context, id uuid.UUID) (*domain.PaymentSchedule, error)
	GetLoanForUpdate(ctx context.Context, loanCode string) (*domain.Loan, error)
	GetActiveLoanForUpdate(ctx context.Context, ownerID uuid.UUID, loanCode string) (*domain.Loan, error)
	GetSchedule(ctx context.Context, loanCode string) ([]*domain.PaymentSchedule, error)

	// NextPending returns the earliest pending entry of a loan, or nil when
	// none remain.
	NextPending(ctx context.Context, loanCode string) (*domain.PaymentSchedule, error)

	UpdateEntryStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkAllPaid(ctx context.Context, loanCode string) error
	UpdateLoan(ctx context.Context, loan *domain.Loan) error
}

// UnitOfWork runs a function within a single database transaction. The
// transaction commits iff fn returns nil.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx TxRepos) error) error
}
