package analytics

import (
	"time"

	"github.com/samukadias/contract-management-system/model"
)

// ProfitableBilledFactor is the heuristic threshold for classifying a
// single contract as profitable: billed value must exceed this multiple
// of the canceled value. Not a strict financial rule.
const ProfitableBilledFactor = 1.2

// IsProfitable reports whether a contract's billed value exceeds 120%
// of its canceled value.
func IsProfitable(c model.Contract) bool {
	return c.ValorFaturado > c.ValorCancelado*ProfitableBilledFactor
}

// HealthReport aggregates the portfolio health indicators over active
// contracts. The traffic-light thresholds applied by the presentation
// layer: profitability/efficiency >=80 good, >=60 warn; cancellation
// <=10 good, <=20 warn; risk count 0 good, <=3 warn.
type HealthReport struct {
	TotalContracts      int     `json:"total_contracts"`
	ProfitableContracts int     `json:"profitable_contracts"`
	RiskContracts       int     `json:"risk_contracts"`
	TotalContractValue  float64 `json:"total_contract_value"`
	TotalBilled         float64 `json:"total_billed"`
	TotalCanceled       float64 `json:"total_canceled"`
	BillingEfficiency   float64 `json:"billing_efficiency"`
	CancellationRate    float64 `json:"cancellation_rate"`
	ProfitabilityRate   float64 `json:"profitability_rate"`
}

// BuildHealth computes the health report for active contracts at the
// given reference time. Risk contracts are those expiring within 60
// days; contracts without an end date never count as at risk.
func BuildHealth(contracts []model.Contract, ref time.Time) HealthReport {
	var r HealthReport
	for _, c := range contracts {
		if !c.IsActive() {
			continue
		}
		r.TotalContracts++
		r.TotalContractValue += c.ValorContrato
		r.TotalBilled += c.ValorFaturado
		r.TotalCanceled += c.ValorCancelado

		if IsProfitable(c) {
			r.ProfitableContracts++
		}
		if ExpiringSoon(DaysUntilExpiry(c.DataFimEfetividade, ref)) {
			r.RiskContracts++
		}
	}

	r.BillingEfficiency = ratio(r.TotalBilled, r.TotalContractValue)
	r.CancellationRate = ratio(r.TotalCanceled, r.TotalContractValue)
	if r.TotalContracts > 0 {
		r.ProfitabilityRate = float64(r.ProfitableContracts) / float64(r.TotalContracts) * 100
	}
	return r
}
