package models

import "github.com/shopspring/decimal"

// MovementType classifies a ledger entry row.
type MovementType string

const (
	Income           MovementType = "INCOME"
	Expense          MovementType = "EXPENSE"
	Transfer         MovementType = "TRANSFER"
	LoanDisbursement MovementType = "LOAN_DISBURSEMENT"
	LoanRepayment    MovementType = "LOAN_REPAYMENT"
)

// Movement is an append-only ledger row. Rows are never updated or deleted.
type Movement struct {
	MovementID           string          `db:"movement_id"`
	Type                 MovementType    `db:"type"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             string          `db:"currency"`
	SourceAccountID      *string         `db:"source_account_id"`      // Nullable
	DestinationAccountID *string         `db:"destination_account_id"` // Nullable
	InstallmentID        *string         `db:"installment_id"`         // Nullable
	ContractorPaymentID  *string         `db:"contractor_payment_id"`  // Nullable
	LoanInstallmentID    *string         `db:"loan_installment_id"`    // Nullable
	SourcePaymentID      *string         `db:"source_payment_id"`      // Nullable
	Description          string          `db:"description"`
	AuditFields
}
