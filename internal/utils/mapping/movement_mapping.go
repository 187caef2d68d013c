package mapping

import (
	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/obralink/cashbox-backend/internal/models"
)

// ToModelMovement converts a domain Movement to a ledger row.
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:           d.MovementID,
		Type:                 models.MovementType(d.Type),
		Amount:               d.Amount,
		Currency:             string(d.Currency),
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		InstallmentID:        d.InstallmentID,
		ContractorPaymentID:  d.ContractorPaymentID,
		LoanInstallmentID:    d.LoanInstallmentID,
		SourcePaymentID:      d.SourcePaymentID,
		Description:          d.Description,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMovement converts a ledger row to a domain Movement.
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:           m.MovementID,
		Type:                 domain.MovementType(m.Type),
		Amount:               m.Amount,
		Currency:             domain.Currency(m.Currency),
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		InstallmentID:        m.InstallmentID,
		ContractorPaymentID:  m.ContractorPaymentID,
		LoanInstallmentID:    m.LoanInstallmentID,
		SourcePaymentID:      m.SourcePaymentID,
		Description:          m.Description,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMovementSlice converts a slice of ledger rows to domain Movements.
func ToDomainMovementSlice(ms []models.Movement) []domain.Movement {
	ds := make([]domain.Movement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}
