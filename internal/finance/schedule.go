package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-engine/pkg/utils"
)

// Installment is one generated amortization row, before it is persisted as a
// schedule entry.
type Installment struct {
	Number    int
	DueDate   time.Time
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Balance   decimal.Decimal
}

// BuildSchedule materializes the amortization plan for a loan. The running
// balance is reduced by the rounded principal component each month, so the
// stored components always sum back to the principal. The final installment's
// principal is forced to close the balance to exactly zero, absorbing the
// rounding drift of the preceding months. Due dates advance by one calendar
// month per installment from the origination date.
func BuildSchedule(principal, emi, annualRatePercent decimal.Decimal, startDate time.Time, tenureMonths int) []*Installment {
	rate := MonthlyRate(annualRatePercent)
	balance := principal

	installments := make([]*Installment, 0, tenureMonths)
	for i := 1; i <= tenureMonths; i++ {
		interest := balance.Mul(rate).Round(2)
		principalPart := emi.Sub(interest)
		if i == tenureMonths {
			principalPart = balance
		}
		balance = balance.Sub(principalPart)

		installments = append(installments, &Installment{
			Number:    i,
			DueDate:   utils.AddMonths(startDate, i),
			Principal: principalPart,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return installments
}
