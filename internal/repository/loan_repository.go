package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loanworks/loan-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	id, loan_code, user_id, amount, tenure_months, interest_rate,
	monthly_installment, total_interest, total_payable, status,
	amount_paid, amount_remaining, next_due_date,
	foreclosure_date, foreclosure_discount, final_settlement_amount, created_at
`

const scheduleColumns = `
	id, loan_code, installment_number, due_date,
	principal_component, interest_component, remaining_balance, status, created_at
`

func (r *loanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, entries []*domain.PaymentSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Loan codes come from a dedicated sequence so concurrent originations
	// can never race on "last code + 1".
	var seq int64
	if err = tx.GetContext(ctx, &seq, `SELECT nextval('loan_code_seq')`); err != nil {
		return err
	}
	loan.LoanCode = fmt.Sprintf("LOAN%03d", seq)
	for _, entry := range entries {
		entry.LoanCode = loan.LoanCode
	}

	insertLoan := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = tx.ExecContext(ctx, insertLoan,
		loan.ID,
		loan.LoanCode,
		loan.UserID,
		loan.Amount,
		loan.TenureMonths,
		loan.InterestRate,
		loan.MonthlyInstallment,
		loan.TotalInterest,
		loan.TotalPayable,
		loan.Status,
		loan.AmountPaid,
		loan.AmountRemaining,
		loan.NextDueDate,
		loan.ForeclosureDate,
		loan.ForeclosureDiscount,
		loan.FinalSettlementAmount,
		loan.CreatedAt,
	)
	if err != nil {
		return err
	}

	insertEntry := `
		INSERT INTO payment_schedule (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, entry := range entries {
		_, err = tx.ExecContext(ctx, insertEntry,
			entry.ID,
			entry.LoanCode,
			entry.InstallmentNumber,
			entry.DueDate,
			entry.PrincipalComponent,
			entry.InterestComponent,
			entry.RemainingBalance,
			entry.Status,
			entry.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetByCode(ctx context.Context, loanCode string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_code = $1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, loanCode); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY created_at`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, ownerID); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListAll(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) GetSchedule(ctx context.Context, loanCode string) ([]*domain.PaymentSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM payment_schedule
		WHERE loan_code = $1
		ORDER BY installment_number
	`

	var entries []*domain.PaymentSchedule
	if err := r.db.SelectContext(ctx, &entries, query, loanCode); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *loanRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.UpcomingInstallment, error) {
	query := `
		SELECT s.loan_code, s.installment_number, s.due_date,
		       s.principal_component + s.interest_component AS amount
		FROM payment_schedule s
		JOIN loans l ON l.loan_code = s.loan_code
		WHERE s.status = $1 AND l.status = $2 AND s.due_date BETWEEN $3 AND $4
		ORDER BY s.due_date, s.loan_code
	`

	var due []*domain.UpcomingInstallment
	err := r.db.SelectContext(ctx, &due, query, domain.ScheduleStatusPending, domain.LoanStatusActive, from, to)
	if err != nil {
		return nil, err
	}
	return due, nil
}
