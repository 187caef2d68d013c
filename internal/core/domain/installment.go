package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is the payment state of a single installment.
type InstallmentStatus string

const (
	InstallmentPending   InstallmentStatus = "PENDING"
	InstallmentPartial   InstallmentStatus = "PARTIAL"
	InstallmentPaid      InstallmentStatus = "PAID"
	InstallmentOverdue   InstallmentStatus = "OVERDUE"
	InstallmentCancelled InstallmentStatus = "CANCELLED"
)

// IsTerminal reports whether no further payments may be applied.
func (s InstallmentStatus) IsTerminal() bool {
	return s == InstallmentPaid || s == InstallmentCancelled
}

// Installment is one entry of a project's payment schedule. Number 0 is the
// down payment, 1..N the monthly installments. PaidAmount never exceeds Amount
// and never decreases.
type Installment struct {
	InstallmentID string            `json:"installmentID"` // Primary Key (UUID)
	ProjectID     string            `json:"projectID"`
	Number        int               `json:"number"` // 0 = down payment
	Amount        decimal.Decimal   `json:"amount"`
	Currency      Currency          `json:"currency"`
	DueDate       time.Time         `json:"dueDate"`
	Status        InstallmentStatus `json:"status"`
	PaidAmount    decimal.Decimal   `json:"paidAmount"`
	PaidDate      *time.Time        `json:"paidDate"` // Set when fully paid
	AuditFields
}

// RemainingAmount returns how much is still due.
func (i Installment) RemainingAmount() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// DeriveInstallmentStatus computes the status from paid amount, total amount
// and due date. CANCELLED is sticky and never rederived.
func DeriveInstallmentStatus(current InstallmentStatus, amount, paidAmount decimal.Decimal, dueDate time.Time, now time.Time) InstallmentStatus {
	if current == InstallmentCancelled {
		return InstallmentCancelled
	}
	if paidAmount.GreaterThanOrEqual(amount) {
		return InstallmentPaid
	}
	// Overdue once the due date has passed, comparing calendar dates in UTC.
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	if due.Before(today) {
		return InstallmentOverdue
	}
	if paidAmount.GreaterThan(decimal.Zero) {
		return InstallmentPartial
	}
	return InstallmentPending
}
