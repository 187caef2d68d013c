package domain

import "time"

// AccountKind identifies which cash box an account represents.
type AccountKind string

const (
	// MasterAccount is the organization-wide cash box.
	MasterAccount AccountKind = "MASTER"
	// AdminAccount collects administration fees split off incoming payments.
	AdminAccount AccountKind = "ADMIN"
	// ProjectAccount is the per-project cash box.
	ProjectAccount AccountKind = "PROJECT"
)

// Account is a cash box tracked per currency. Its aggregates (balance,
// total income, total expenses) are a cache derived from the movement ledger;
// the invariant balance = totalIncome - totalExpenses must hold per currency.
// Accounts are mutated only through movement application and are never deleted,
// only archived together with their owning project.
type Account struct {
	AccountID      string          `json:"accountID"`   // Primary Key (UUID)
	Kind           AccountKind     `json:"kind"`        // MASTER, ADMIN or PROJECT
	ProjectID      *string         `json:"projectID"`   // Set only for PROJECT accounts
	Name           string          `json:"name"`        // Display name
	Balance        CurrencyAmounts `json:"balance"`     // Derived cache, per currency
	TotalIncome    CurrencyAmounts `json:"totalIncome"` // Derived cache, per currency
	TotalExpenses  CurrencyAmounts `json:"totalExpenses"`
	LastMovementAt *time.Time      `json:"lastMovementAt"` // Nil until the first movement
	IsActive       bool            `json:"isActive"`       // False once archived
	AuditFields
}
