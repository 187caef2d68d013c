package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a master-level borrowing row.
type Loan struct {
	LoanID            string          `db:"loan_id"`
	Borrower          string          `db:"borrower"`
	Principal         decimal.Decimal `db:"principal"`
	Currency          string          `db:"currency"`
	InstallmentsCount int             `db:"installments_count"`
	StartDate         time.Time       `db:"start_date"`
	Status            string          `db:"status"`
	Description       string          `db:"description"`
	AuditFields
}

// LoanInstallment is one repayment row of a loan schedule.
type LoanInstallment struct {
	LoanInstallmentID string          `db:"loan_installment_id"`
	LoanID            string          `db:"loan_id"`
	Number            int             `db:"number"`
	Amount            decimal.Decimal `db:"amount"`
	Currency          string          `db:"currency"`
	DueDate           time.Time       `db:"due_date"`
	Status            string          `db:"status"`
	PaidAmount        decimal.Decimal `db:"paid_amount"`
	PaidDate          *time.Time      `db:"paid_date"` // Nullable
	AuditFields
}
