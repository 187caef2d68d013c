package mapping

import (
	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/obralink/cashbox-backend/internal/models"
)

// ToModelLoan converts a domain Loan to a loan row.
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:            d.LoanID,
		Borrower:          d.Borrower,
		Principal:         d.Principal,
		Currency:          string(d.Currency),
		InstallmentsCount: d.InstallmentsCount,
		StartDate:         d.StartDate,
		Status:            string(d.Status),
		Description:       d.Description,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a loan row to a domain Loan.
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:            m.LoanID,
		Borrower:          m.Borrower,
		Principal:         m.Principal,
		Currency:          domain.Currency(m.Currency),
		InstallmentsCount: m.InstallmentsCount,
		StartDate:         m.StartDate,
		Status:            domain.LoanStatus(m.Status),
		Description:       m.Description,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLoanInstallment converts a domain LoanInstallment to its row.
func ToModelLoanInstallment(d domain.LoanInstallment) models.LoanInstallment {
	return models.LoanInstallment{
		LoanInstallmentID: d.LoanInstallmentID,
		LoanID:            d.LoanID,
		Number:            d.Number,
		Amount:            d.Amount,
		Currency:          string(d.Currency),
		DueDate:           d.DueDate,
		Status:            string(d.Status),
		PaidAmount:        d.PaidAmount,
		PaidDate:          d.PaidDate,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoanInstallment converts a row to a domain LoanInstallment.
func ToDomainLoanInstallment(m models.LoanInstallment) domain.LoanInstallment {
	return domain.LoanInstallment{
		LoanInstallmentID: m.LoanInstallmentID,
		LoanID:            m.LoanID,
		Number:            m.Number,
		Amount:            m.Amount,
		Currency:          domain.Currency(m.Currency),
		DueDate:           m.DueDate,
		Status:            domain.InstallmentStatus(m.Status),
		PaidAmount:        m.PaidAmount,
		PaidDate:          m.PaidDate,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanInstallmentSlice converts loan installment rows to domain objects.
func ToDomainLoanInstallmentSlice(ms []models.LoanInstallment) []domain.LoanInstallment {
	ds := make([]domain.LoanInstallment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoanInstallment(m)
	}
	return ds
}
