package analytics

import (
	"testing"

	"github.com/samukadias/contract-management-system/model"
)

func TestEnrich(t *testing.T) {
	contract := model.Contract{
		ID:                 "c-1",
		Cliente:            "Alfa",
		Status:             model.StatusAtivo,
		TipoTratativa:      model.TratativaProrrogacao,
		Etapa:              "6. Aguardo Recebimento da Minuta Contratual do Cliente (60 a 30)",
		DataFimEfetividade: daysFrom(refDate, 45),
	}

	e := Enrich(contract, refDate)

	if e.DaysUntilExpiry == nil || *e.DaysUntilExpiry != 45 {
		t.Fatalf("Expected 45 days until expiry, got %v", e.DaysUntilExpiry)
	}
	if e.StatusVencimento != VencimentoAtencao {
		t.Errorf("Expected '%s', got '%s'", VencimentoAtencao, e.StatusVencimento)
	}
	if e.ExpectedStage != contract.Etapa {
		t.Errorf("Expected stage '%s', got '%s'", contract.Etapa, e.ExpectedStage)
	}
	if e.OnTime == nil || !*e.OnTime {
		t.Error("Expected contract to be on time")
	}
	// The underlying record is carried unchanged
	if e.ID != "c-1" || e.Cliente != "Alfa" {
		t.Error("Expected enriched contract to carry the original record")
	}
}

func TestEnrichNoEndDate(t *testing.T) {
	e := Enrich(model.Contract{Status: model.StatusAtivo}, refDate)

	if e.DaysUntilExpiry != nil {
		t.Error("Expected nil days without an end date")
	}
	if e.StatusVencimento != "" {
		t.Errorf("Expected empty classification, got '%s'", e.StatusVencimento)
	}
	if e.ExpectedStage != "" || e.OnTime != nil {
		t.Error("Expected no stage expectation without an end date")
	}
}

func TestEnrichAllPreservesOrder(t *testing.T) {
	contracts := []model.Contract{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}

	enriched := EnrichAll(contracts, refDate)
	if len(enriched) != 3 {
		t.Fatalf("Expected 3 enriched contracts, got %d", len(enriched))
	}
	for i, id := range []string{"a", "b", "c"} {
		if enriched[i].ID != id {
			t.Errorf("Expected id '%s' at index %d, got '%s'", id, i, enriched[i].ID)
		}
	}
}

func TestBucketByExpiry(t *testing.T) {
	contracts := []model.Contract{
		{ID: "overdue", Status: model.StatusAtivo, DataFimEfetividade: daysFrom(refDate, -3)},
		{ID: "urgent-late", Status: model.StatusAtivo, DataFimEfetividade: daysFrom(refDate, 25)},
		{ID: "urgent-soon", Status: model.StatusAtivo, DataFimEfetividade: daysFrom(refDate, 5)},
		{ID: "attention", Status: model.StatusAtivo, DataFimEfetividade: daysFrom(refDate, 60)},
		{ID: "warning", Status: model.StatusAtivo, DataFimEfetividade: daysFrom(refDate, 75)},
		{ID: "normal", Status: model.StatusAtivo, DataFimEfetividade: daysFrom(refDate, 180)},
		{ID: "no-date", Status: model.StatusAtivo},
		{ID: "inactive", Status: model.StatusEncerrado, DataFimEfetividade: daysFrom(refDate, 10)},
	}

	buckets := BucketByExpiry(contracts, refDate)

	if len(buckets.Vencido) != 1 || buckets.Vencido[0].ID != "overdue" {
		t.Errorf("Expected 1 overdue contract, got %d", len(buckets.Vencido))
	}
	if len(buckets.Urgente) != 2 {
		t.Fatalf("Expected 2 urgent contracts, got %d", len(buckets.Urgente))
	}
	// Sorted ascending by days inside each bucket
	if buckets.Urgente[0].ID != "urgent-soon" || buckets.Urgente[1].ID != "urgent-late" {
		t.Error("Expected urgent bucket sorted by days ascending")
	}
	if len(buckets.Atencao) != 1 || buckets.Atencao[0].ID != "attention" {
		t.Errorf("Expected boundary day 60 in atenção bucket")
	}
	if len(buckets.Aviso) != 1 || buckets.Aviso[0].ID != "warning" {
		t.Errorf("Expected 1 aviso contract, got %d", len(buckets.Aviso))
	}
	if len(buckets.Normal) != 1 || buckets.Normal[0].ID != "normal" {
		t.Errorf("Expected 1 normal contract, got %d", len(buckets.Normal))
	}

	total := len(buckets.Vencido) + len(buckets.Urgente) + len(buckets.Atencao) +
		len(buckets.Aviso) + len(buckets.Normal)
	if total != 6 {
		t.Errorf("Expected 6 bucketed contracts (no-date and inactive excluded), got %d", total)
	}
}
