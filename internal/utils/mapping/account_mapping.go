package mapping

import (
	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/obralink/cashbox-backend/internal/models"
)

// ToModelAccount converts a domain Account to its account row. Per-currency
// aggregates live in account_balances rows and are persisted separately.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Kind:           models.AccountKind(d.Kind),
		ProjectID:      d.ProjectID,
		Name:           d.Name,
		LastMovementAt: d.LastMovementAt,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount combines an account row with its balance rows into a domain Account.
func ToDomainAccount(m models.Account, balances []models.AccountBalance) domain.Account {
	acc := domain.Account{
		AccountID:      m.AccountID,
		Kind:           domain.AccountKind(m.Kind),
		ProjectID:      m.ProjectID,
		Name:           m.Name,
		Balance:        domain.CurrencyAmounts{},
		TotalIncome:    domain.CurrencyAmounts{},
		TotalExpenses:  domain.CurrencyAmounts{},
		LastMovementAt: m.LastMovementAt,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	for _, b := range balances {
		c := domain.Currency(b.Currency)
		acc.Balance[c] = b.Balance
		acc.TotalIncome[c] = b.TotalIncome
		acc.TotalExpenses[c] = b.TotalExpenses
	}
	return acc
}
