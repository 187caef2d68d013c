package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanActive    LoanStatus = "ACTIVE"
	LoanRepaid    LoanStatus = "REPAID"
	LoanCancelled LoanStatus = "CANCELLED"
)

// Loan is a master-level borrowing against project cash. Disbursement moves
// money out of the master cash box; repayments flow back through loan
// installments. The reconciliation invariant is
// outstanding = principal - sum(repayments).
type Loan struct {
	LoanID            string          `json:"loanID"` // Primary Key (UUID)
	Borrower          string          `json:"borrower"`
	Principal         decimal.Decimal `json:"principal"`
	Currency          Currency        `json:"currency"`
	InstallmentsCount int             `json:"installmentsCount"`
	StartDate         time.Time       `json:"startDate"`
	Status            LoanStatus      `json:"status"`
	Description       string          `json:"description"`
	AuditFields
}

// LoanInstallment mirrors a project Installment for loan repayments.
type LoanInstallment struct {
	LoanInstallmentID string            `json:"loanInstallmentID"` // Primary Key (UUID)
	LoanID            string            `json:"loanID"`
	Number            int               `json:"number"` // 1..N, loans have no down payment
	Amount            decimal.Decimal   `json:"amount"`
	Currency          Currency          `json:"currency"`
	DueDate           time.Time         `json:"dueDate"`
	Status            InstallmentStatus `json:"status"`
	PaidAmount        decimal.Decimal   `json:"paidAmount"`
	PaidDate          *time.Time        `json:"paidDate"`
	AuditFields
}

// RemainingAmount returns how much of the installment is still due.
func (li LoanInstallment) RemainingAmount() decimal.Decimal {
	return li.Amount.Sub(li.PaidAmount)
}
