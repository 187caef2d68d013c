package mapping

import (
	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/obralink/cashbox-backend/internal/models"
)

// ToModelInstallment converts a domain Installment to a schedule row.
func ToModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID: d.InstallmentID,
		ProjectID:     d.ProjectID,
		Number:        d.Number,
		Amount:        d.Amount,
		Currency:      string(d.Currency),
		DueDate:       d.DueDate,
		Status:        string(d.Status),
		PaidAmount:    d.PaidAmount,
		PaidDate:      d.PaidDate,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInstallment converts a schedule row to a domain Installment.
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID: m.InstallmentID,
		ProjectID:     m.ProjectID,
		Number:        m.Number,
		Amount:        m.Amount,
		Currency:      domain.Currency(m.Currency),
		DueDate:       m.DueDate,
		Status:        domain.InstallmentStatus(m.Status),
		PaidAmount:    m.PaidAmount,
		PaidDate:      m.PaidDate,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstallmentSlice converts a slice of schedule rows to domain Installments.
func ToDomainInstallmentSlice(ms []models.Installment) []domain.Installment {
	ds := make([]domain.Installment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstallment(m)
	}
	return ds
}

// ToModelContractorPayment converts a domain ContractorPayment to its row.
func ToModelContractorPayment(d domain.ContractorPayment) models.ContractorPayment {
	return models.ContractorPayment{
		ContractorPaymentID: d.ContractorPaymentID,
		ProjectID:           d.ProjectID,
		ProjectContractorID: d.ProjectContractorID,
		Amount:              d.Amount,
		Currency:            string(d.Currency),
		Status:              string(d.Status),
		PaymentType:         string(d.PaymentType),
		PaymentDate:         d.PaymentDate,
		Description:         d.Description,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainContractorPayment converts a row to a domain ContractorPayment.
func ToDomainContractorPayment(m models.ContractorPayment) domain.ContractorPayment {
	return domain.ContractorPayment{
		ContractorPaymentID: m.ContractorPaymentID,
		ProjectID:           m.ProjectID,
		ProjectContractorID: m.ProjectContractorID,
		Amount:              m.Amount,
		Currency:            domain.Currency(m.Currency),
		Status:              domain.ContractorPaymentStatus(m.Status),
		PaymentType:         domain.ContractorPaymentType(m.PaymentType),
		PaymentDate:         m.PaymentDate,
		Description:         m.Description,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}
