package mapping_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/obralink/cashbox-backend/internal/models"
	"github.com/obralink/cashbox-backend/internal/utils/mapping"
)

func TestToModelAccount(t *testing.T) {
	projectID := "proj-1"
	now := time.Now().UTC()
	d := domain.Account{
		AccountID: "acc-1",
		Kind:      domain.ProjectAccount,
		ProjectID: &projectID,
		Name:      "Obra Norte",
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: "user-1",
		},
	}

	m := mapping.ToModelAccount(d)
	assert.Equal(t, "acc-1", m.AccountID)
	assert.Equal(t, models.KindProject, m.Kind)
	assert.Equal(t, &projectID, m.ProjectID)
	assert.Equal(t, "Obra Norte", m.Name)
	assert.True(t, m.IsActive)
	assert.Equal(t, now, m.CreatedAt)
}

func TestToDomainAccount(t *testing.T) {
	m := models.Account{
		AccountID: "acc-2",
		Kind:      models.KindMaster,
		Name:      "Caja Master",
		IsActive:  true,
	}
	balances := []models.AccountBalance{
		{AccountID: "acc-2", Currency: "ARS", Balance: decimal.NewFromInt(100), TotalIncome: decimal.NewFromInt(150), TotalExpenses: decimal.NewFromInt(50)},
		{AccountID: "acc-2", Currency: "USD", Balance: decimal.NewFromInt(20), TotalIncome: decimal.NewFromInt(20), TotalExpenses: decimal.Zero},
	}

	d := mapping.ToDomainAccount(m, balances)
	assert.Equal(t, domain.MasterAccount, d.Kind)
	assert.True(t, d.Balance.Get(domain.ARS).Equal(decimal.NewFromInt(100)))
	assert.True(t, d.TotalIncome.Get(domain.ARS).Equal(decimal.NewFromInt(150)))
	assert.True(t, d.TotalExpenses.Get(domain.ARS).Equal(decimal.NewFromInt(50)))
	assert.True(t, d.Balance.Get(domain.USD).Equal(decimal.NewFromInt(20)))
}
