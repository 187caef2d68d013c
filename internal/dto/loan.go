package dto

import (
	"time"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines a master-level loan disbursement with its
// repayment schedule.
type CreateLoanRequest struct {
	Borrower          string          `json:"borrower" binding:"required"`
	Principal         decimal.Decimal `json:"principal" binding:"required"`
	Currency          string          `json:"currency" binding:"required,currency"`
	InstallmentsCount int             `json:"installmentsCount" binding:"required,min=1"`
	StartDate         time.Time       `json:"startDate" binding:"required"`
	Description       string          `json:"description"`
}

// LoanInstallmentResponse defines one repayment schedule entry.
type LoanInstallmentResponse struct {
	LoanInstallmentID string          `json:"loanInstallmentID"`
	LoanID            string          `json:"loanID"`
	Number            int             `json:"number"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	DueDate           time.Time       `json:"dueDate"`
	Status            string          `json:"status"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	PaidDate          *time.Time      `json:"paidDate,omitempty"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID            string                    `json:"loanID"`
	Borrower          string                    `json:"borrower"`
	Principal         decimal.Decimal           `json:"principal"`
	Currency          string                    `json:"currency"`
	InstallmentsCount int                       `json:"installmentsCount"`
	StartDate         time.Time                 `json:"startDate"`
	Status            string                    `json:"status"`
	Description       string                    `json:"description"`
	Installments      []LoanInstallmentResponse `json:"installments,omitempty"`
}

// LoanRepaymentResponse is returned after repaying a loan installment.
type LoanRepaymentResponse struct {
	Installment LoanInstallmentResponse `json:"installment"`
	Movement    MovementResponse        `json:"movement"`
}

// ToLoanInstallmentResponse converts a domain.LoanInstallment to its DTO.
func ToLoanInstallmentResponse(li *domain.LoanInstallment) LoanInstallmentResponse {
	return LoanInstallmentResponse{
		LoanInstallmentID: li.LoanInstallmentID,
		LoanID:            li.LoanID,
		Number:            li.Number,
		Amount:            li.Amount,
		Currency:          string(li.Currency),
		DueDate:           li.DueDate,
		Status:            string(li.Status),
		PaidAmount:        li.PaidAmount,
		PaidDate:          li.PaidDate,
	}
}

// ToLoanResponse converts a domain.Loan and optional schedule to LoanResponse DTO.
func ToLoanResponse(l *domain.Loan, installments []domain.LoanInstallment) LoanResponse {
	resp := LoanResponse{
		LoanID:            l.LoanID,
		Borrower:          l.Borrower,
		Principal:         l.Principal,
		Currency:          string(l.Currency),
		InstallmentsCount: l.InstallmentsCount,
		StartDate:         l.StartDate,
		Status:            string(l.Status),
		Description:       l.Description,
	}
	if len(installments) > 0 {
		resp.Installments = make([]LoanInstallmentResponse, len(installments))
		for i := range installments {
			resp.Installments[i] = ToLoanInstallmentResponse(&installments[i])
		}
	}
	return resp
}
