package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "ACTIVE"
	ProjectArchived ProjectStatus = "ARCHIVED"
)

// Project owns a cash-box account and an installment schedule. Archiving a
// project soft-archives its account; neither is ever deleted.
type Project struct {
	ProjectID         string          `json:"projectID"` // Primary Key (UUID)
	Name              string          `json:"name"`
	ClientName        string          `json:"clientName"`
	Currency          Currency        `json:"currency"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	DownPaymentAmount decimal.Decimal `json:"downPaymentAmount"`
	InstallmentsCount int             `json:"installmentsCount"`
	AdminFeePercent   decimal.Decimal `json:"adminFeePercent"` // 0..100
	StartDate         time.Time       `json:"startDate"`
	Status            ProjectStatus   `json:"status"`
	AccountID         string          `json:"accountID"` // The project's cash-box account
	AuditFields
}
