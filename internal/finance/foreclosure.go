package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-engine/internal/domain"
)

// Flat discount applied on early payoff. The settlement and the preview
// apply it to different bases (remaining interest vs. remaining principal);
// both figures are user-facing and intentionally not reconciled.
var foreclosureDiscountRate = decimal.New(5, -2)

// Settlement is the closing computation used when a loan is actually
// foreclosed.
type Settlement struct {
	TotalPaid         decimal.Decimal
	RemainingBalance  decimal.Decimal
	RemainingInterest decimal.Decimal
	Discount          decimal.Decimal
	FinalSettlement   decimal.Decimal
}

// SettleAt computes the foreclosure settlement as of a given date. Every
// schedule entry whose due date has elapsed counts as paid, regardless of its
// status; the remaining balance is measured against the total payable.
func SettleAt(loan *domain.Loan, schedule []*domain.PaymentSchedule, asOf time.Time) *Settlement {
	var totalPaid, interestPaid decimal.Decimal
	for _, entry := range schedule {
		if entry.DueDate.After(asOf) {
			continue
		}
		totalPaid = totalPaid.Add(entry.PrincipalComponent).Add(entry.InterestComponent)
		interestPaid = interestPaid.Add(entry.InterestComponent)
	}

	remainingBalance := loan.TotalPayable.Sub(totalPaid)
	remainingInterest := loan.TotalInterest.Sub(interestPaid)
	discount := remainingInterest.Mul(foreclosureDiscountRate).Round(2)

	return &Settlement{
		TotalPaid:         totalPaid,
		RemainingBalance:  remainingBalance,
		RemainingInterest: remainingInterest,
		Discount:          discount,
		FinalSettlement:   remainingBalance.Sub(discount).Round(2),
	}
}

// QuoteSettlement computes the read-only foreclosure preview. Unlike SettleAt
// it discounts the principal-tracked remaining amount: before any payment the
// base is the full principal, afterwards the loan's amount_remaining.
func QuoteSettlement(loan *domain.Loan) *domain.SettlementQuote {
	remaining := loan.AmountRemaining
	if loan.AmountPaid.IsZero() {
		remaining = loan.Amount
	}

	discount := remaining.Mul(foreclosureDiscountRate).Round(2)
	return &domain.SettlementQuote{
		TotalPaid:             loan.AmountPaid,
		RemainingBalance:      remaining,
		ForeclosureDiscount:   discount,
		FinalSettlementAmount: remaining.Sub(discount).Round(2),
	}
}
