package analytics

import (
	"time"

	"github.com/samukadias/contract-management-system/model"
)

// DashboardStats are the top-level counters shown on the main dashboard.
// Value totals span the full record set; expiry windows only count
// active contracts with an end date.
type DashboardStats struct {
	Total       int     `json:"total"`
	Active      int     `json:"active"`
	Expired     int     `json:"expired"`
	Expiring    int     `json:"expiring"` // active, 0-60 days out
	Urgent      int     `json:"urgent"`   // active, 0-30 days out
	TotalValue  float64 `json:"total_value"`
	TotalBilled float64 `json:"total_billed"`
}

// BuildDashboard computes the dashboard counters at the reference time.
func BuildDashboard(contracts []model.Contract, ref time.Time) DashboardStats {
	var s DashboardStats
	for _, c := range contracts {
		s.Total++
		s.TotalValue += c.ValorContrato
		s.TotalBilled += c.ValorFaturado

		switch c.Status {
		case model.StatusAtivo:
			s.Active++
			days := DaysUntilExpiry(c.DataFimEfetividade, ref)
			if ExpiringSoon(days) {
				s.Expiring++
			}
			if UrgentWindow(days) {
				s.Urgent++
			}
		case model.StatusExpirado:
			s.Expired++
		}
	}
	return s
}
