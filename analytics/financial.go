package analytics

import (
	"github.com/samukadias/contract-management-system/model"
)

// FinancialSummary aggregates the financial fields of active contracts.
type FinancialSummary struct {
	TotalContractValue float64 `json:"total_contract_value"`
	TotalBilled        float64 `json:"total_billed"`
	TotalToBill        float64 `json:"total_to_bill"`
	TotalCanceled      float64 `json:"total_canceled"`
	BillingPercentage  float64 `json:"billing_percentage"`
}

// Summarize computes the financial summary over active contracts.
// BillingPercentage is 0 when no contract value exists, never NaN.
func Summarize(contracts []model.Contract) FinancialSummary {
	var s FinancialSummary
	for _, c := range contracts {
		if !c.IsActive() {
			continue
		}
		s.TotalContractValue += c.ValorContrato
		s.TotalBilled += c.ValorFaturado
		s.TotalToBill += c.ValorAFaturar
		s.TotalCanceled += c.ValorCancelado
	}
	s.BillingPercentage = ratio(s.TotalBilled, s.TotalContractValue)
	return s
}

// ratio returns a/b as a percentage, 0 when b is 0
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b * 100
}
