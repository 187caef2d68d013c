package mapping

import (
	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/obralink/cashbox-backend/internal/models"
)

// ToModelProject converts a domain Project to a project row.
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:         d.ProjectID,
		Name:              d.Name,
		ClientName:        d.ClientName,
		Currency:          string(d.Currency),
		TotalAmount:       d.TotalAmount,
		DownPaymentAmount: d.DownPaymentAmount,
		InstallmentsCount: d.InstallmentsCount,
		AdminFeePercent:   d.AdminFeePercent,
		StartDate:         d.StartDate,
		Status:            string(d.Status),
		AccountID:         d.AccountID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a project row to a domain Project.
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:         m.ProjectID,
		Name:              m.Name,
		ClientName:        m.ClientName,
		Currency:          domain.Currency(m.Currency),
		TotalAmount:       m.TotalAmount,
		DownPaymentAmount: m.DownPaymentAmount,
		InstallmentsCount: m.InstallmentsCount,
		AdminFeePercent:   m.AdminFeePercent,
		StartDate:         m.StartDate,
		Status:            domain.ProjectStatus(m.Status),
		AccountID:         m.AccountID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
