package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a project row owning a cash-box account and an installment schedule.
type Project struct {
	ProjectID         string          `db:"project_id"`
	Name              string          `db:"name"`
	ClientName        string          `db:"client_name"`
	Currency          string          `db:"currency"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	DownPaymentAmount decimal.Decimal `db:"down_payment_amount"`
	InstallmentsCount int             `db:"installments_count"`
	AdminFeePercent   decimal.Decimal `db:"admin_fee_percent"`
	StartDate         time.Time       `db:"start_date"`
	Status            string          `db:"status"`
	AccountID         string          `db:"account_id"`
	AuditFields
}
