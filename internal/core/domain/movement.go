package domain

import "github.com/shopspring/decimal"

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementIncome           MovementType = "INCOME"
	MovementExpense          MovementType = "EXPENSE"
	MovementTransfer         MovementType = "TRANSFER"
	MovementLoanDisbursement MovementType = "LOAN_DISBURSEMENT"
	MovementLoanRepayment    MovementType = "LOAN_REPAYMENT"
)

// Movement is an immutable, append-only ledger entry recording money flowing
// into, out of, or between cash boxes. For INCOME exactly the destination is
// set, for EXPENSE exactly the source; TRANSFER sets both. Movements are the
// source of truth account aggregates reconcile against and are never updated
// or deleted.
type Movement struct {
	MovementID           string          `json:"movementID"` // Primary Key (UUID)
	Type                 MovementType    `json:"type"`
	Amount               decimal.Decimal `json:"amount"` // Always positive
	Currency             Currency        `json:"currency"`
	SourceAccountID      *string         `json:"sourceAccountID"`      // Nil for INCOME
	DestinationAccountID *string         `json:"destinationAccountID"` // Nil for EXPENSE
	InstallmentID        *string         `json:"installmentID"`        // Set when driven by an installment payment
	ContractorPaymentID  *string         `json:"contractorPaymentID"`  // Set when driven by a contractor payment
	LoanInstallmentID    *string         `json:"loanInstallmentID"`    // Set when driven by a loan repayment
	SourcePaymentID      *string         `json:"sourcePaymentID"`      // Groups linked movements of one incoming payment
	Description          string          `json:"description"`
	AuditFields
}
