// Package finance implements the loan financial engine: EMI computation,
// amortization schedule generation, and foreclosure settlement math. All
// arithmetic is fixed-point decimal; persisted amounts are rounded half-up
// to 2 decimal places.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-engine/pkg/errors"
)

var (
	one          = decimal.NewFromInt(1)
	monthsInYear = decimal.NewFromInt(12)
	hundred      = decimal.NewFromInt(100)
)

// Terms holds the origination-time figures of a loan. They are derived once
// and immutable for the life of the loan.
type Terms struct {
	MonthlyInstallment decimal.Decimal
	TotalInterest      decimal.Decimal
	TotalPayable       decimal.Decimal
}

// MonthlyRate converts an annual percentage rate to a monthly fraction:
// r% per year -> r/1200 per month.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(monthsInYear)
}

// ComputeEMI calculates the equated monthly installment for a loan using the
// standard amortization formula EMI = P*i*(1+i)^n / ((1+i)^n - 1). A zero
// rate degenerates to P/n. Total interest is EMI*n - P; the legacy practice
// of adding a second flat P*r/100 term on top double-counts interest and is
// not carried over.
func ComputeEMI(principal decimal.Decimal, tenureMonths int, annualRatePercent decimal.Decimal) (*Terms, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, errors.WrapValidation("loan amount must be positive")
	}
	if tenureMonths <= 0 {
		return nil, errors.WrapValidation("tenure must be a positive number of months")
	}
	if annualRatePercent.IsNegative() {
		return nil, errors.WrapValidation("interest rate must not be negative")
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	rate := MonthlyRate(annualRatePercent)

	var emi decimal.Decimal
	if rate.IsZero() {
		emi = principal.Div(n).Round(2)
	} else {
		factor := one.Add(rate).Pow(n)
		emi = principal.Mul(rate).Mul(factor).Div(factor.Sub(one)).Round(2)
	}

	totalInterest := emi.Mul(n).Sub(principal).Round(2)
	return &Terms{
		MonthlyInstallment: emi,
		TotalInterest:      totalInterest,
		TotalPayable:       principal.Add(totalInterest).Round(2),
	}, nil
}
