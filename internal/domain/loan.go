package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive = "ACTIVE"
	LoanStatusClosed = "CLOSED"
)

// Loan represents a serviced loan. Installment and total fields are derived
// once at origination and never recomputed; foreclosure fields stay null
// unless the loan is settled early.
type Loan struct {
	ID                    uuid.UUID           `json:"id" db:"id"`
	LoanCode              string              `json:"loan_id" db:"loan_code"`
	UserID                uuid.UUID           `json:"user_id" db:"user_id"`
	Amount                decimal.Decimal     `json:"amount" db:"amount"`
	TenureMonths          int                 `json:"tenure" db:"tenure_months"`
	InterestRate          decimal.Decimal     `json:"interest_rate" db:"interest_rate"`
	MonthlyInstallment    decimal.Decimal     `json:"monthly_installment" db:"monthly_installment"`
	TotalInterest         decimal.Decimal     `json:"total_interest" db:"total_interest"`
	TotalPayable          decimal.Decimal     `json:"total_payable" db:"total_payable"`
	Status                string              `json:"status" db:"status"`
	AmountPaid            decimal.Decimal     `json:"amount_paid" db:"amount_paid"`
	AmountRemaining       decimal.Decimal     `json:"amount_remaining" db:"amount_remaining"`
	NextDueDate           *time.Time          `json:"next_due_date" db:"next_due_date"`
	ForeclosureDate       *time.Time          `json:"foreclosure_date,omitempty" db:"foreclosure_date"`
	ForeclosureDiscount   decimal.NullDecimal `json:"foreclosure_discount,omitempty" db:"foreclosure_discount"`
	FinalSettlementAmount decimal.NullDecimal `json:"final_settlement_amount,omitempty" db:"final_settlement_amount"`
	CreatedAt             time.Time           `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	Amount       decimal.Decimal `json:"amount" validate:"required,gt=0"`
	TenureMonths int             `json:"tenure" validate:"required,gt=0"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0"`
}

type CreateLoanResponse struct {
	Loan     *Loan              `json:"loan"`
	Schedule []*PaymentSchedule `json:"payment_schedule"`
}

// LoanSummary is the per-loan view returned by list endpoints.
type LoanSummary struct {
	LoanCode           string          `json:"loan_id"`
	Amount             decimal.Decimal `json:"amount"`
	TenureMonths       int             `json:"tenure"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TotalPayable       decimal.Decimal `json:"total_payable"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	AmountRemaining    decimal.Decimal `json:"amount_remaining"`
	NextDueDate        *time.Time      `json:"next_due_date"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Summary projects a loan into its list view.
func (l *Loan) Summary() *LoanSummary {
	return &LoanSummary{
		LoanCode:           l.LoanCode,
		Amount:             l.Amount,
		TenureMonths:       l.TenureMonths,
		MonthlyInstallment: l.MonthlyInstallment,
		TotalPayable:       l.TotalPayable,
		AmountPaid:         l.AmountPaid,
		AmountRemaining:    l.AmountRemaining,
		NextDueDate:        l.NextDueDate,
		Status:             l.Status,
		CreatedAt:          l.CreatedAt,
	}
}

// SettlementResult is returned by a foreclosure that actually closes the loan.
type SettlementResult struct {
	LoanCode              string          `json:"loan_id"`
	ForeclosureDiscount   decimal.Decimal `json:"foreclosure_discount"`
	FinalSettlementAmount decimal.Decimal `json:"final_settlement_amount"`
	ForeclosureDate       time.Time       `json:"foreclosure_date"`
	Status                string          `json:"status"`
}

// SettlementQuote is the read-only foreclosure preview. Its discount base is
// the principal-tracked remaining amount, not the remaining interest used by
// the closing settlement; the two figures diverge on purpose.
type SettlementQuote struct {
	TotalPaid             decimal.Decimal `json:"total_paid"`
	RemainingBalance      decimal.Decimal `json:"remaining_balance"`
	ForeclosureDiscount   decimal.Decimal `json:"foreclosure_discount"`
	FinalSettlementAmount decimal.Decimal `json:"final_settlement_amount"`
}
