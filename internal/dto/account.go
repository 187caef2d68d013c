package dto

import (
	"time"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyAmountsResponse is the JSON shape of a per-currency amount map.
type CurrencyAmountsResponse map[string]decimal.Decimal

// AccountResponse defines the data returned for a cash-box account.
type AccountResponse struct {
	AccountID      string                  `json:"accountID"`
	Kind           string                  `json:"kind"`
	ProjectID      *string                 `json:"projectID,omitempty"`
	Name           string                  `json:"name"`
	Balance        CurrencyAmountsResponse `json:"balance"`
	TotalIncome    CurrencyAmountsResponse `json:"totalIncome"`
	TotalExpenses  CurrencyAmountsResponse `json:"totalExpenses"`
	LastMovementAt *time.Time              `json:"lastMovementAt,omitempty"`
	IsActive       bool                    `json:"isActive"`
}

// BalanceResponse defines the balance of one account in one currency.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListMovementsResponse wraps a paginated ledger listing.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ListMovementsParams holds pagination parameters for ledger listings.
type ListMovementsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ReconciliationDiscrepancyResponse is one reported aggregate divergence.
type ReconciliationDiscrepancyResponse struct {
	Currency string          `json:"currency"`
	Stored   decimal.Decimal `json:"stored"`
	Expected decimal.Decimal `json:"expected"`
	Delta    decimal.Decimal `json:"delta"`
}

// ReconciliationReportResponse is returned by the reconcile operation.
type ReconciliationReportResponse struct {
	AccountID     string                              `json:"accountID"`
	CheckedAt     time.Time                           `json:"checkedAt"`
	Consistent    bool                                `json:"consistent"`
	Corrected     bool                                `json:"corrected"`
	Discrepancies []ReconciliationDiscrepancyResponse `json:"discrepancies"`
}

func toCurrencyAmountsResponse(ca domain.CurrencyAmounts) CurrencyAmountsResponse {
	out := make(CurrencyAmountsResponse, len(ca))
	for c, v := range ca {
		out[string(c)] = v
	}
	return out
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Kind:           string(acc.Kind),
		ProjectID:      acc.ProjectID,
		Name:           acc.Name,
		Balance:        toCurrencyAmountsResponse(acc.Balance),
		TotalIncome:    toCurrencyAmountsResponse(acc.TotalIncome),
		TotalExpenses:  toCurrencyAmountsResponse(acc.TotalExpenses),
		LastMovementAt: acc.LastMovementAt,
		IsActive:       acc.IsActive,
	}
}

// ToReconciliationReportResponse converts a domain report to its DTO.
func ToReconciliationReportResponse(r *domain.ReconciliationReport) ReconciliationReportResponse {
	discrepancies := make([]ReconciliationDiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationDiscrepancyResponse{
			Currency: string(d.Currency),
			Stored:   d.Stored,
			Expected: d.Expected,
			Delta:    d.Delta,
		}
	}
	return ReconciliationReportResponse{
		AccountID:     r.AccountID,
		CheckedAt:     r.CheckedAt,
		Consistent:    r.Consistent(),
		Corrected:     r.Corrected,
		Discrepancies: discrepancies,
	}
}
