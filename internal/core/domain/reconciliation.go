package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationEpsilon is the tolerance below which a stored/expected
// difference is considered rounding noise rather than drift.
var ReconciliationEpsilon = decimal.RequireFromString("0.01")

// ReconciliationDiscrepancy describes one currency bucket of an account whose
// stored aggregate diverges from what the movement ledger implies.
type ReconciliationDiscrepancy struct {
	AccountID string          `json:"accountID"`
	Currency  Currency        `json:"currency"`
	Stored    decimal.Decimal `json:"stored"`
	Expected  decimal.Decimal `json:"expected"`
	Delta     decimal.Decimal `json:"delta"` // stored - expected
}

// ReconciliationReport is the outcome of reconciling one account.
type ReconciliationReport struct {
	AccountID     string                      `json:"accountID"`
	CheckedAt     time.Time                   `json:"checkedAt"`
	Discrepancies []ReconciliationDiscrepancy `json:"discrepancies"`
	Corrected     bool                        `json:"corrected"` // True when aggregates were rederived from the ledger
}

// Consistent reports whether no discrepancy was found.
func (r ReconciliationReport) Consistent() bool {
	return len(r.Discrepancies) == 0
}
