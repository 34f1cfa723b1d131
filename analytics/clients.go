package analytics

import (
	"sort"

	"github.com/samukadias/contract-management-system/model"
)

// SemCliente is the sentinel group for active contracts with no client name
const SemCliente = "Sem Cliente"

// ClientStat is the per-client rollup used by the client ranking views.
type ClientStat struct {
	Cliente     string  `json:"cliente"`
	Contracts   int     `json:"contracts"`
	TotalValue  float64 `json:"total_value"`
	TotalBilled float64 `json:"total_billed"`
	AvgValue    float64 `json:"avg_value"`
	BillingRate float64 `json:"billing_rate"`
}

// TopClients groups active contracts by client and ranks them by total
// contract value descending. Ties break by client name so the ranking
// is deterministic. limit <= 0 returns every client.
func TopClients(contracts []model.Contract, limit int) []ClientStat {
	groups := make(map[string]*ClientStat)
	for _, c := range contracts {
		if !c.IsActive() {
			continue
		}
		name := c.Cliente
		if name == "" {
			name = SemCliente
		}
		g, ok := groups[name]
		if !ok {
			g = &ClientStat{Cliente: name}
			groups[name] = g
		}
		g.Contracts++
		g.TotalValue += c.ValorContrato
		g.TotalBilled += c.ValorFaturado
	}

	stats := make([]ClientStat, 0, len(groups))
	for _, g := range groups {
		if g.Contracts > 0 {
			g.AvgValue = g.TotalValue / float64(g.Contracts)
		}
		g.BillingRate = ratio(g.TotalBilled, g.TotalValue)
		stats = append(stats, *g)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalValue != stats[j].TotalValue {
			return stats[i].TotalValue > stats[j].TotalValue
		}
		return stats[i].Cliente < stats[j].Cliente
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// ClientProfitability is the per-client profitability rollup.
type ClientProfitability struct {
	Cliente       string  `json:"cliente"`
	Contracts     int     `json:"contracts"`
	TotalValue    float64 `json:"total_value"`
	TotalBilled   float64 `json:"total_billed"`
	TotalCanceled float64 `json:"total_canceled"`
	Profit        float64 `json:"profit"`
	Margin        float64 `json:"margin"`
}

// ProfitabilityByClient groups active contracts by client, computes
// profit (billed minus canceled) and margin, and ranks by profit
// descending. limit <= 0 returns every client.
func ProfitabilityByClient(contracts []model.Contract, limit int) []ClientProfitability {
	groups := make(map[string]*ClientProfitability)
	for _, c := range contracts {
		if !c.IsActive() {
			continue
		}
		name := c.Cliente
		if name == "" {
			name = SemCliente
		}
		g, ok := groups[name]
		if !ok {
			g = &ClientProfitability{Cliente: name}
			groups[name] = g
		}
		g.Contracts++
		g.TotalValue += c.ValorContrato
		g.TotalBilled += c.ValorFaturado
		g.TotalCanceled += c.ValorCancelado
	}

	stats := make([]ClientProfitability, 0, len(groups))
	for _, g := range groups {
		g.Profit = g.TotalBilled - g.TotalCanceled
		g.Margin = ratio(g.Profit, g.TotalValue)
		stats = append(stats, *g)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Profit != stats[j].Profit {
			return stats[i].Profit > stats[j].Profit
		}
		return stats[i].Cliente < stats[j].Cliente
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}
