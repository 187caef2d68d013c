package dto

import (
	"time"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest defines the data needed to create a project with its
// cash-box account and installment schedule.
type CreateProjectRequest struct {
	Name              string          `json:"name" binding:"required"`
	ClientName        string          `json:"clientName" binding:"required"`
	Currency          string          `json:"currency" binding:"required,currency"`
	TotalAmount       decimal.Decimal `json:"totalAmount" binding:"required"`
	DownPaymentAmount decimal.Decimal `json:"downPaymentAmount"`
	InstallmentsCount int             `json:"installmentsCount" binding:"min=0"`
	AdminFeePercent   decimal.Decimal `json:"adminFeePercent"`
	StartDate         time.Time       `json:"startDate" binding:"required"`
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse struct {
	ProjectID         string          `json:"projectID"`
	Name              string          `json:"name"`
	ClientName        string          `json:"clientName"`
	Currency          string          `json:"currency"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	DownPaymentAmount decimal.Decimal `json:"downPaymentAmount"`
	InstallmentsCount int             `json:"installmentsCount"`
	AdminFeePercent   decimal.Decimal `json:"adminFeePercent"`
	StartDate         time.Time       `json:"startDate"`
	Status            string          `json:"status"`
	AccountID         string          `json:"accountID"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// InstallmentResponse defines the data returned for one schedule entry.
type InstallmentResponse struct {
	InstallmentID string          `json:"installmentID"`
	ProjectID     string          `json:"projectID"`
	Number        int             `json:"number"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	DueDate       time.Time       `json:"dueDate"`
	Status        string          `json:"status"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PaidDate      *time.Time      `json:"paidDate,omitempty"`
}

// ListProjectsParams holds pagination parameters for project listings.
type ListProjectsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListProjectsResponse wraps a paginated project listing.
type ListProjectsResponse struct {
	Projects  []ProjectResponse `json:"projects"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListInstallmentsResponse wraps a project's schedule.
type ListInstallmentsResponse struct {
	Installments []InstallmentResponse `json:"installments"`
}

// ToProjectResponse converts a domain.Project to ProjectResponse DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:         p.ProjectID,
		Name:              p.Name,
		ClientName:        p.ClientName,
		Currency:          string(p.Currency),
		TotalAmount:       p.TotalAmount,
		DownPaymentAmount: p.DownPaymentAmount,
		InstallmentsCount: p.InstallmentsCount,
		AdminFeePercent:   p.AdminFeePercent,
		StartDate:         p.StartDate,
		Status:            string(p.Status),
		AccountID:         p.AccountID,
		CreatedAt:         p.CreatedAt,
	}
}

// ToInstallmentResponse converts a domain.Installment to InstallmentResponse DTO.
func ToInstallmentResponse(i *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID: i.InstallmentID,
		ProjectID:     i.ProjectID,
		Number:        i.Number,
		Amount:        i.Amount,
		Currency:      string(i.Currency),
		DueDate:       i.DueDate,
		Status:        string(i.Status),
		PaidAmount:    i.PaidAmount,
		PaidDate:      i.PaidDate,
	}
}

// ToInstallmentResponses converts a schedule to its response DTOs.
func ToInstallmentResponses(installments []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(installments))
	for i := range installments {
		responses[i] = ToInstallmentResponse(&installments[i])
	}
	return responses
}
