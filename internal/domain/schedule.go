package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ScheduleStatusPending = "PENDING"
	ScheduleStatusPaid    = "PAID"
)

// PaymentSchedule is one installment of a loan's amortization schedule.
// Entries are bulk-inserted at origination and immutable afterward except
// for the status transition PENDING -> PAID.
type PaymentSchedule struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	LoanCode           string          `json:"loan_id" db:"loan_code"`
	InstallmentNumber  int             `json:"installment_number" db:"installment_number"`
	DueDate            time.Time       `json:"due_date" db:"due_date"`
	PrincipalComponent decimal.Decimal `json:"principal_component" db:"principal_component"`
	InterestComponent  decimal.Decimal `json:"interest_component" db:"interest_component"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance" db:"remaining_balance"`
	Status             string          `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}

type ScheduleResponse struct {
	LoanCode string             `json:"loan_id"`
	Schedule []*PaymentSchedule `json:"payment_schedule"`
}

// UpcomingInstallment is the reminder projection used by the scheduler.
type UpcomingInstallment struct {
	LoanCode          string          `json:"loan_id" db:"loan_code"`
	InstallmentNumber int             `json:"installment_number" db:"installment_number"`
	DueDate           time.Time       `json:"due_date" db:"due_date"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
}
