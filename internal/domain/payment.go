package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayInstallmentRequest struct {
	PaymentID string `json:"payment_id" validate:"required,uuid"`
}

// PaymentReceipt describes the loan state right after one installment was
// applied.
type PaymentReceipt struct {
	EntryID           uuid.UUID       `json:"payment_id"`
	LoanCode          string          `json:"loan_id"`
	InstallmentNumber int             `json:"installment_number"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	LoanAmountPaid    decimal.Decimal `json:"loan_amount_paid"`
	AmountRemaining   decimal.Decimal `json:"amount_remaining"`
	NextDueDate       *time.Time      `json:"next_due_date"`
	LoanStatus        string          `json:"loan_status"`
}
