package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind identifies which cash box an account row represents.
type AccountKind string

const (
	KindMaster  AccountKind = "MASTER"
	KindAdmin   AccountKind = "ADMIN"
	KindProject AccountKind = "PROJECT"
)

// Account is a cash-box row. Per-currency aggregates live in account_balances.
type Account struct {
	AccountID      string      `db:"account_id"`
	Kind           AccountKind `db:"kind"`
	ProjectID      *string     `db:"project_id"` // Nullable; set for PROJECT accounts
	Name           string      `db:"name"`
	LastMovementAt *time.Time  `db:"last_movement_at"` // Nullable
	IsActive       bool        `db:"is_active"`
	AuditFields
}

// AccountBalance is one per-currency aggregate row of an account.
// Invariant enforced by the ledger: balance = total_income - total_expenses.
type AccountBalance struct {
	AccountID     string          `db:"account_id"`
	Currency      string          `db:"currency"`
	Balance       decimal.Decimal `db:"balance"`
	TotalIncome   decimal.Decimal `db:"total_income"`
	TotalExpenses decimal.Decimal `db:"total_expenses"`
}
