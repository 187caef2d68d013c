package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractorPaymentStatus is the settlement state of a contractor payment.
type ContractorPaymentStatus string

const (
	ContractorPaymentPending   ContractorPaymentStatus = "PENDING"
	ContractorPaymentPaid      ContractorPaymentStatus = "PAID"
	ContractorPaymentCancelled ContractorPaymentStatus = "CANCELLED"
)

// IsTerminal reports whether the payment can no longer be settled.
func (s ContractorPaymentStatus) IsTerminal() bool {
	return s == ContractorPaymentPaid || s == ContractorPaymentCancelled
}

// ContractorPaymentType classifies what the payment compensates.
type ContractorPaymentType string

const (
	ContractorAdvance    ContractorPaymentType = "ADVANCE"
	ContractorProgress   ContractorPaymentType = "PROGRESS"
	ContractorFinal      ContractorPaymentType = "FINAL"
	ContractorAdjustment ContractorPaymentType = "ADJUSTMENT"
)

// ContractorPayment is an obligation to a contractor working on a project.
// Once PAID its amount is immutable and must be reflected in the project
// account's total expenses for its currency.
type ContractorPayment struct {
	ContractorPaymentID string                  `json:"contractorPaymentID"` // Primary Key (UUID)
	ProjectID           string                  `json:"projectID"`
	ProjectContractorID string                  `json:"projectContractorID"`
	Amount              decimal.Decimal         `json:"amount"`
	Currency            Currency                `json:"currency"`
	Status              ContractorPaymentStatus `json:"status"`
	PaymentType         ContractorPaymentType   `json:"paymentType"`
	PaymentDate         *time.Time              `json:"paymentDate"` // Set when marked paid
	Description         string                  `json:"description"`
	AuditFields
}
