package accounting_test

import (
	"testing"

	"github.com/obralink/cashbox-backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEvenWithRemainder(t *testing.T) {
	tests := []struct {
		name  string
		total string
		count int
		want  []string
	}{
		{
			name:  "even split",
			total: "3500000",
			count: 10,
			want:  []string{"350000", "350000", "350000", "350000", "350000", "350000", "350000", "350000", "350000", "350000"},
		},
		{
			name:  "last part absorbs remainder",
			total: "100",
			count: 3,
			want:  []string{"33.33", "33.33", "33.34"},
		},
		{
			name:  "single part",
			total: "99.99",
			count: 1,
			want:  []string{"99.99"},
		},
		{
			name:  "zero total",
			total: "0",
			count: 4,
			want:  []string{"0", "0", "0", "0"},
		},
		{
			name:  "sub-cent total keeps every part non-negative",
			total: "0.05",
			count: 10,
			want:  []string{"0", "0", "0", "0", "0", "0", "0", "0", "0", "0.05"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			parts, err := accounting.SplitEvenWithRemainder(total, tt.count)
			require.NoError(t, err)
			require.Len(t, parts, tt.count)

			sum := decimal.Zero
			for i, p := range parts {
				assert.True(t, p.Equal(decimal.RequireFromString(tt.want[i])), "part %d: got %s want %s", i, p, tt.want[i])
				sum = sum.Add(p)
			}
			assert.True(t, sum.Equal(total), "parts must sum to total exactly: got %s want %s", sum, total)
		})
	}
}

func TestSplitEvenWithRemainder_Errors(t *testing.T) {
	_, err := accounting.SplitEvenWithRemainder(decimal.NewFromInt(100), 0)
	assert.Error(t, err)

	_, err = accounting.SplitEvenWithRemainder(decimal.NewFromInt(100), -1)
	assert.Error(t, err)

	_, err = accounting.SplitEvenWithRemainder(decimal.NewFromInt(-100), 2)
	assert.Error(t, err)
}

func TestFeeSplit(t *testing.T) {
	admin, project, err := accounting.FeeSplit(decimal.NewFromInt(100000), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, admin.Equal(decimal.NewFromInt(10000)), "admin share: %s", admin)
	assert.True(t, project.Equal(decimal.NewFromInt(90000)), "project share: %s", project)

	// Shares always sum back to the original amount, even with awkward percentages.
	amount := decimal.RequireFromString("99.99")
	admin, project, err = accounting.FeeSplit(amount, decimal.RequireFromString("12.5"))
	require.NoError(t, err)
	assert.True(t, admin.Add(project).Equal(amount))

	// Sub-cent amounts at the maximum fee must not push the project share negative.
	amount = decimal.RequireFromString("0.005")
	admin, project, err = accounting.FeeSplit(amount, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.False(t, admin.IsNegative())
	assert.False(t, project.IsNegative())
	assert.True(t, admin.Add(project).Equal(amount))
}

func TestFeeSplit_Errors(t *testing.T) {
	_, _, err := accounting.FeeSplit(decimal.Zero, decimal.NewFromInt(10))
	assert.Error(t, err)

	_, _, err = accounting.FeeSplit(decimal.NewFromInt(100), decimal.NewFromInt(101))
	assert.Error(t, err)

	_, _, err = accounting.FeeSplit(decimal.NewFromInt(100), decimal.NewFromInt(-1))
	assert.Error(t, err)
}
