package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// amountPlaces is the number of decimal places installment amounts are
// rounded to for ARS/USD.
const amountPlaces = 2

// SplitEvenWithRemainder divides total into count equal parts rounded to two
// decimal places, with the last part absorbing the rounding remainder so the
// parts always sum to total exactly.
func SplitEvenWithRemainder(total decimal.Decimal, count int) ([]decimal.Decimal, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("total must not be negative, got %s", total.String())
	}

	// Round each part down so the remainder absorbed by the last part is
	// never negative, even for sub-cent totals.
	per := total.Div(decimal.NewFromInt(int64(count))).RoundDown(amountPlaces)
	parts := make([]decimal.Decimal, count)
	allocated := decimal.Zero
	for i := 0; i < count-1; i++ {
		parts[i] = per
		allocated = allocated.Add(per)
	}
	parts[count-1] = total.Sub(allocated)
	return parts, nil
}

// FeeSplit computes the admin share and project share of an incoming payment
// given an admin fee percentage (0..100). The project share takes whatever is
// left after rounding the admin share, so both always sum to amount exactly.
func FeeSplit(amount decimal.Decimal, feePercent decimal.Decimal) (adminShare, projectShare decimal.Decimal, err error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("amount must be positive, got %s", amount.String())
	}
	if feePercent.IsNegative() || feePercent.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("fee percent must be between 0 and 100, got %s", feePercent.String())
	}

	// Round the admin share down so the project remainder is never negative,
	// even for sub-cent amounts at high fee percentages.
	adminShare = amount.Mul(feePercent).Div(decimal.NewFromInt(100)).RoundDown(amountPlaces)
	projectShare = amount.Sub(adminShare)
	return adminShare, projectShare, nil
}
