package analytics

import (
	"sort"
	"time"

	"github.com/samukadias/contract-management-system/model"
)

// EnrichedContract is a contract plus its transient derived fields.
type EnrichedContract struct {
	model.Contract

	DaysUntilExpiry  *int   `json:"days_until_expiry"`
	StatusVencimento string `json:"status_vencimento"`
	ExpectedStage    string `json:"expected_stage,omitempty"`
	OnTime           *bool  `json:"on_time,omitempty"`
}

// Enrich computes the derived fields for a single contract at the given
// reference time. The input record is not modified.
func Enrich(c model.Contract, ref time.Time) EnrichedContract {
	days := DaysUntilExpiry(c.DataFimEfetividade, ref)
	expected, onTime := StageConformance(c, days)

	return EnrichedContract{
		Contract:         c,
		DaysUntilExpiry:  days,
		StatusVencimento: ClassifyExpiry(days),
		ExpectedStage:    expected,
		OnTime:           onTime,
	}
}

// EnrichAll enriches every contract in the slice, preserving order.
func EnrichAll(contracts []model.Contract, ref time.Time) []EnrichedContract {
	enriched := make([]EnrichedContract, 0, len(contracts))
	for _, c := range contracts {
		enriched = append(enriched, Enrich(c, ref))
	}
	return enriched
}

// ExpiryBuckets groups active contracts by urgency bucket. Contracts
// without an end date appear in no bucket.
type ExpiryBuckets struct {
	Vencido []EnrichedContract `json:"vencido"`
	Urgente []EnrichedContract `json:"urgente"`
	Atencao []EnrichedContract `json:"atencao"`
	Aviso   []EnrichedContract `json:"aviso"`
	Normal  []EnrichedContract `json:"normal"`
}

// BucketByExpiry classifies active contracts into expiry buckets, each
// bucket sorted by days until expiry ascending.
func BucketByExpiry(contracts []model.Contract, ref time.Time) ExpiryBuckets {
	var buckets ExpiryBuckets

	for _, c := range contracts {
		if !c.IsActive() || c.DataFimEfetividade == nil {
			continue
		}
		e := Enrich(c, ref)
		switch e.StatusVencimento {
		case VencimentoVencido:
			buckets.Vencido = append(buckets.Vencido, e)
		case VencimentoUrgente:
			buckets.Urgente = append(buckets.Urgente, e)
		case VencimentoAtencao:
			buckets.Atencao = append(buckets.Atencao, e)
		case VencimentoAviso:
			buckets.Aviso = append(buckets.Aviso, e)
		case VencimentoNormal:
			buckets.Normal = append(buckets.Normal, e)
		}
	}

	for _, b := range [][]EnrichedContract{
		buckets.Vencido, buckets.Urgente, buckets.Atencao, buckets.Aviso, buckets.Normal,
	} {
		sort.SliceStable(b, func(i, j int) bool {
			return *b[i].DaysUntilExpiry < *b[j].DaysUntilExpiry
		})
	}

	return buckets
}
