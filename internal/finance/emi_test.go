package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-engine/pkg/errors"
)

func TestComputeEMI(t *testing.T) {
	tests := []struct {
		name          string
		principal     string
		tenureMonths  int
		annualRate    string
		wantEMI       string
		wantInterest  string
		wantPayable   string
		wantErrorCode string
	}{
		{
			name:         "standard twelve month loan",
			principal:    "120000",
			tenureMonths: 12,
			annualRate:   "10",
			wantEMI:      "10549.91",
			wantInterest: "6598.92",
			wantPayable:  "126598.92",
		},
		{
			name:         "zero rate degenerates to straight division",
			principal:    "120000",
			tenureMonths: 12,
			annualRate:   "0",
			wantEMI:      "10000",
			wantInterest: "0",
			wantPayable:  "120000",
		},
		{
			name:         "single installment",
			principal:    "5000",
			tenureMonths: 1,
			annualRate:   "12",
			wantEMI:      "5050",
			wantInterest: "50",
			wantPayable:  "5050",
		},
		{
			name:         "long tenure",
			principal:    "500000",
			tenureMonths: 60,
			annualRate:   "8.5",
			wantEMI:      "10258.27",
			wantInterest: "115496.20",
			wantPayable:  "615496.20",
		},
		{
			name:          "rejects zero principal",
			principal:     "0",
			tenureMonths:  12,
			annualRate:    "10",
			wantErrorCode: errors.ErrCodeValidation,
		},
		{
			name:          "rejects negative principal",
			principal:     "-100",
			tenureMonths:  12,
			annualRate:    "10",
			wantErrorCode: errors.ErrCodeValidation,
		},
		{
			name:          "rejects zero tenure",
			principal:     "120000",
			tenureMonths:  0,
			annualRate:    "10",
			wantErrorCode: errors.ErrCodeValidation,
		},
		{
			name:          "rejects negative rate",
			principal:     "120000",
			tenureMonths:  12,
			annualRate:    "-1",
			wantErrorCode: errors.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := ComputeEMI(
				decimal.RequireFromString(tt.principal),
				tt.tenureMonths,
				decimal.RequireFromString(tt.annualRate),
			)

			if tt.wantErrorCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrorCode, errors.CodeOf(err))
				assert.Nil(t, terms)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.wantEMI).Equal(terms.MonthlyInstallment),
				"EMI: want %s, got %s", tt.wantEMI, terms.MonthlyInstallment)
			assert.True(t, decimal.RequireFromString(tt.wantInterest).Equal(terms.TotalInterest),
				"interest: want %s, got %s", tt.wantInterest, terms.TotalInterest)
			assert.True(t, decimal.RequireFromString(tt.wantPayable).Equal(terms.TotalPayable),
				"payable: want %s, got %s", tt.wantPayable, terms.TotalPayable)
		})
	}
}

func TestComputeEMI_PayableConsistency(t *testing.T) {
	// Total payable must always be principal plus interest, and interest
	// must be the rounded installment times tenure minus principal.
	principal := decimal.NewFromInt(250000)
	terms, err := ComputeEMI(principal, 36, decimal.RequireFromString("11.5"))
	require.NoError(t, err)

	n := decimal.NewFromInt(36)
	assert.True(t, terms.TotalInterest.Equal(terms.MonthlyInstallment.Mul(n).Sub(principal)))
	assert.True(t, terms.TotalPayable.Equal(principal.Add(terms.TotalInterest)))
}

func TestMonthlyRate(t *testing.T) {
	rate := MonthlyRate(decimal.NewFromInt(12))
	assert.True(t, decimal.RequireFromString("0.01").Equal(rate))

	assert.True(t, MonthlyRate(decimal.Zero).IsZero())
}
