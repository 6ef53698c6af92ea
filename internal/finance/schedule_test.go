package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedule(t *testing.T) {
	principal := decimal.NewFromInt(120000)
	rate := decimal.NewFromInt(10)
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	terms, err := ComputeEMI(principal, 12, rate)
	require.NoError(t, err)

	schedule := BuildSchedule(principal, terms.MonthlyInstallment, rate, start, 12)
	require.Len(t, schedule, 12)

	t.Run("first installment components", func(t *testing.T) {
		first := schedule[0]
		assert.Equal(t, 1, first.Number)
		assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), first.DueDate)
		assert.True(t, decimal.RequireFromString("1000").Equal(first.Interest),
			"interest: got %s", first.Interest)
		assert.True(t, decimal.RequireFromString("9549.91").Equal(first.Principal),
			"principal: got %s", first.Principal)
		assert.True(t, decimal.RequireFromString("110450.09").Equal(first.Balance),
			"balance: got %s", first.Balance)
	})

	t.Run("numbering and due dates advance monthly", func(t *testing.T) {
		for i, inst := range schedule {
			assert.Equal(t, i+1, inst.Number)
			assert.Equal(t, time.Date(2026, time.Month(2+i), 15, 0, 0, 0, 0, time.UTC), inst.DueDate)
		}
	})

	t.Run("principal components sum to the loan amount", func(t *testing.T) {
		sum := decimal.Zero
		for _, inst := range schedule {
			sum = sum.Add(inst.Principal)
		}
		assert.True(t, principal.Equal(sum), "sum of principal components: got %s", sum)
	})

	t.Run("final installment closes the balance", func(t *testing.T) {
		last := schedule[len(schedule)-1]
		assert.True(t, last.Balance.IsZero(), "final balance: got %s", last.Balance)
	})

	t.Run("balance decreases monotonically", func(t *testing.T) {
		prev := principal
		for _, inst := range schedule {
			assert.True(t, inst.Balance.LessThan(prev),
				"installment %d balance %s not below %s", inst.Number, inst.Balance, prev)
			prev = inst.Balance
		}
	})
}

func TestBuildSchedule_ZeroRate(t *testing.T) {
	principal := decimal.NewFromInt(12000)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	terms, err := ComputeEMI(principal, 12, decimal.Zero)
	require.NoError(t, err)

	schedule := BuildSchedule(principal, terms.MonthlyInstallment, decimal.Zero, start, 12)
	require.Len(t, schedule, 12)

	for _, inst := range schedule {
		assert.True(t, inst.Interest.IsZero())
		assert.True(t, decimal.NewFromInt(1000).Equal(inst.Principal))
	}
	assert.True(t, schedule[11].Balance.IsZero())
}

func TestBuildSchedule_MonthEndClamping(t *testing.T) {
	// A loan originated on Jan 31 must not skip February: due dates clamp
	// to the last day of shorter months.
	principal := decimal.NewFromInt(30000)
	rate := decimal.NewFromInt(12)
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	terms, err := ComputeEMI(principal, 3, rate)
	require.NoError(t, err)

	schedule := BuildSchedule(principal, terms.MonthlyInstallment, rate, start, 3)
	require.Len(t, schedule, 3)

	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), schedule[0].DueDate)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), schedule[1].DueDate)
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), schedule[2].DueDate)
}
