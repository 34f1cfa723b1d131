// Package analytics computes the derived fields and aggregate views
// layered on top of raw contract records: expiry classification,
// financial summaries, per-client rollups, health indicators and
// workflow-stage conformance.
//
// Every function is a pure transform over the records it receives plus
// an explicit reference time, so results are deterministic and
// repeatable for a given snapshot. Nothing here reads the clock, caches
// results or writes back to the store.
package analytics

import (
	"time"
)

// Expiry bucket labels (status_vencimento)
const (
	VencimentoVencido = "Vencido"
	VencimentoUrgente = "Urgente"
	VencimentoAtencao = "Atenção"
	VencimentoAviso   = "Aviso"
	VencimentoNormal  = "Normal"
)

// DaysUntilExpiry returns the whole-day difference between the contract
// end date and the reference date. Time-of-day components are ignored.
// Returns nil when the contract has no end date.
func DaysUntilExpiry(end *time.Time, ref time.Time) *int {
	if end == nil {
		return nil
	}
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	r := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(r).Hours() / 24)
	return &days
}

// ClassifyExpiry maps days-until-expiry to an urgency bucket. Boundary
// days (exactly 30, 60, 90) fall into the higher-urgency bucket.
// Returns "" when days is nil: contracts without an end date carry no
// bucket and are excluded from every expiry aggregate.
func ClassifyExpiry(days *int) string {
	if days == nil {
		return ""
	}
	switch d := *days; {
	case d < 0:
		return VencimentoVencido
	case d <= 30:
		return VencimentoUrgente
	case d <= 60:
		return VencimentoAtencao
	case d <= 90:
		return VencimentoAviso
	default:
		return VencimentoNormal
	}
}

// ExpiringSoon reports whether the contract falls in the 0-60 day window
// used by the dashboard "expiring" card and the risk count. Overdue
// contracts are excluded.
func ExpiringSoon(days *int) bool {
	return days != nil && *days >= 0 && *days <= 60
}

// UrgentWindow reports whether the contract falls in the 0-30 day window
// used by the dashboard "urgent" card.
func UrgentWindow(days *int) bool {
	return days != nil && *days >= 0 && *days <= 30
}
