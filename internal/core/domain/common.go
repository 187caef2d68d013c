package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is an ISO-4217 style currency code. The ledger only operates in the
// currencies the business actually uses.
type Currency string

const (
	ARS Currency = "ARS"
	USD Currency = "USD"
)

// SupportedCurrencies lists every currency the ledger accepts.
var SupportedCurrencies = []Currency{ARS, USD}

// IsSupported reports whether c is one of the ledger currencies.
func (c Currency) IsSupported() bool {
	for _, sc := range SupportedCurrencies {
		if c == sc {
			return true
		}
	}
	return false
}

// CurrencyAmounts maps a currency to a decimal amount. Used for per-currency
// balances and aggregates instead of parallel suffixed fields.
type CurrencyAmounts map[Currency]decimal.Decimal

// Get returns the amount for the currency, defaulting to zero.
func (ca CurrencyAmounts) Get(c Currency) decimal.Decimal {
	if ca == nil {
		return decimal.Zero
	}
	if v, ok := ca[c]; ok {
		return v
	}
	return decimal.Zero
}

// Add returns a copy of ca with amount added to the currency bucket.
func (ca CurrencyAmounts) Add(c Currency, amount decimal.Decimal) CurrencyAmounts {
	out := make(CurrencyAmounts, len(ca)+1)
	for k, v := range ca {
		out[k] = v
	}
	out[c] = out.Get(c).Add(amount)
	return out
}

// AuditFields holds standard creation/modification metadata embedded in every aggregate.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
