package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loanworks/loan-engine/internal/domain"
)

type unitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) WithinTx(ctx context.Context, fn func(tx TxRepos) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = fn(&txRepos{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// txRepos runs the locking reads and derived-field writes of payment
// application and foreclosure inside one transaction.
type txRepos struct {
	tx *sqlx.Tx
}

func (t *txRepos) GetEntryForUpdate(ctx context.Context, id uuid.UUID) (*domain.PaymentSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM payment_schedule
		WHERE id = $1
		FOR UPDATE
	`

	var entry domain.PaymentSchedule
	if err := t.tx.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (t *txRepos) GetLoanForUpdate(ctx context.Context, loanCode string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_code = $1 FOR UPDATE`

	var loan domain.Loan
	if err := t.tx.GetContext(ctx, &loan, query, loanCode); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (t *txRepos) GetActiveLoanForUpdate(ctx context.Context, ownerID uuid.UUID, loanCode string) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE loan_code = $1 AND user_id = $2 AND status = $3
		FOR UPDATE
	`

	var loan domain.Loan
	if err := t.tx.GetContext(ctx, &loan, query, loanCode, ownerID, domain.LoanStatusActive); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (t *txRepos) GetSchedule(ctx context.Context, loanCode string) ([]*domain.PaymentSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM payment_schedule
		WHERE loan_code = $1
		ORDER BY installment_number
	`

	var entries []*domain.PaymentSchedule
	if err := t.tx.SelectContext(ctx, &entries, query, loanCode); err != nil {
		return nil, err
	}
	return entries, nil
}

func (t *txRepos) NextPending(ctx context.Context, loanCode string) (*domain.PaymentSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM payment_schedule
		WHERE loan_code = $1 AND status = $2
		ORDER BY installment_number
		LIMIT 1
	`

	var entry domain.PaymentSchedule
	err := t.tx.GetContext(ctx, &entry, query, loanCode, domain.ScheduleStatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (t *txRepos) UpdateEntryStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE payment_schedule SET status = $2 WHERE id = $1`

	_, err := t.tx.ExecContext(ctx, query, id, status)
	return err
}

func (t *txRepos) MarkAllPaid(ctx context.Context, loanCode string) error {
	query := `UPDATE payment_schedule SET status = $2 WHERE loan_code = $1`

	_, err := t.tx.ExecContext(ctx, query, loanCode, domain.ScheduleStatusPaid)
	return err
}

func (t *txRepos) UpdateLoan(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET status = $2, amount_paid = $3, amount_remaining = $4, next_due_date = $5,
		    foreclosure_date = $6, foreclosure_discount = $7, final_settlement_amount = $8
		WHERE loan_code = $1
	`

	_, err := t.tx.ExecContext(ctx, query,
		loan.LoanCode,
		loan.Status,
		loan.AmountPaid,
		loan.AmountRemaining,
		loan.NextDueDate,
		loan.ForeclosureDate,
		loan.ForeclosureDiscount,
		loan.FinalSettlementAmount,
	)
	return err
}
