package dto

import (
	"time"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyPaymentRequest defines an incoming payment against an installment or a
// contractor payment.
type ApplyPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required,currency"`
	Method      string          `json:"method"`    // Free-form intake metadata (cash, transfer, ...)
	Reference   string          `json:"reference"` // External payment reference, used to link split movements
	Description string          `json:"description"`
}

// MovementResponse defines the data returned for a ledger entry.
type MovementResponse struct {
	MovementID           string          `json:"movementID"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	SourceAccountID      *string         `json:"sourceAccountID,omitempty"`
	DestinationAccountID *string         `json:"destinationAccountID,omitempty"`
	InstallmentID        *string         `json:"installmentID,omitempty"`
	ContractorPaymentID  *string         `json:"contractorPaymentID,omitempty"`
	LoanInstallmentID    *string         `json:"loanInstallmentID,omitempty"`
	SourcePaymentID      *string         `json:"sourcePaymentID,omitempty"`
	Description          string          `json:"description"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// InstallmentPaymentResponse is returned after applying a payment to an installment.
type InstallmentPaymentResponse struct {
	Installment InstallmentResponse `json:"installment"`
	Movement    MovementResponse    `json:"movement"`
}

// DistributionResponse is returned after applying a payment split between the
// project and admin accounts.
type DistributionResponse struct {
	Installment     InstallmentResponse `json:"installment"`
	ProjectMovement MovementResponse    `json:"projectMovement"`
	AdminMovement   MovementResponse    `json:"adminMovement"`
}

// ContractorPaymentResponse defines the data returned for a contractor payment.
type ContractorPaymentResponse struct {
	ContractorPaymentID string          `json:"contractorPaymentID"`
	ProjectID           string          `json:"projectID"`
	ProjectContractorID string          `json:"projectContractorID"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Status              string          `json:"status"`
	PaymentType         string          `json:"paymentType"`
	PaymentDate         *time.Time      `json:"paymentDate,omitempty"`
	Description         string          `json:"description"`
}

// ContractorSettlementResponse is returned after marking a contractor payment paid.
type ContractorSettlementResponse struct {
	ContractorPayment ContractorPaymentResponse `json:"contractorPayment"`
	Movement          MovementResponse          `json:"movement"`
}

// CreateContractorPaymentRequest registers a pending obligation towards a contractor.
type CreateContractorPaymentRequest struct {
	ProjectContractorID string          `json:"projectContractorID" binding:"required"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	Currency            string          `json:"currency" binding:"required,currency"`
	PaymentType         string          `json:"paymentType" binding:"required,oneof=ADVANCE PROGRESS FINAL ADJUSTMENT"`
	Description         string          `json:"description"`
}

// ToMovementResponse converts a domain.Movement to MovementResponse DTO.
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:           m.MovementID,
		Type:                 string(m.Type),
		Amount:               m.Amount,
		Currency:             string(m.Currency),
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		InstallmentID:        m.InstallmentID,
		ContractorPaymentID:  m.ContractorPaymentID,
		LoanInstallmentID:    m.LoanInstallmentID,
		SourcePaymentID:      m.SourcePaymentID,
		Description:          m.Description,
		CreatedAt:            m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements to response DTOs.
func ToMovementResponses(ms []domain.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(ms))
	for i := range ms {
		responses[i] = ToMovementResponse(&ms[i])
	}
	return responses
}

// ToContractorPaymentResponse converts a domain.ContractorPayment to its DTO.
func ToContractorPaymentResponse(p *domain.ContractorPayment) ContractorPaymentResponse {
	return ContractorPaymentResponse{
		ContractorPaymentID: p.ContractorPaymentID,
		ProjectID:           p.ProjectID,
		ProjectContractorID: p.ProjectContractorID,
		Amount:              p.Amount,
		Currency:            string(p.Currency),
		Status:              string(p.Status),
		PaymentType:         string(p.PaymentType),
		PaymentDate:         p.PaymentDate,
		Description:         p.Description,
	}
}
