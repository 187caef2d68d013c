package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one row of a project's payment schedule.
type Installment struct {
	InstallmentID string          `db:"installment_id"`
	ProjectID     string          `db:"project_id"`
	Number        int             `db:"number"` // 0 = down payment
	Amount        decimal.Decimal `db:"amount"`
	Currency      string          `db:"currency"`
	DueDate       time.Time       `db:"due_date"`
	Status        string          `db:"status"`
	PaidAmount    decimal.Decimal `db:"paid_amount"`
	PaidDate      *time.Time      `db:"paid_date"` // Nullable
	AuditFields
}

// ContractorPayment is an obligation row towards a project contractor.
type ContractorPayment struct {
	ContractorPaymentID string          `db:"contractor_payment_id"`
	ProjectID           string          `db:"project_id"`
	ProjectContractorID string          `db:"project_contractor_id"`
	Amount              decimal.Decimal `db:"amount"`
	Currency            string          `db:"currency"`
	Status              string          `db:"status"`
	PaymentType         string          `db:"payment_type"`
	PaymentDate         *time.Time      `db:"payment_date"` // Nullable
	Description         string          `db:"description"`
	AuditFields
}
