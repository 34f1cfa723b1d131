package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/analytics"
	"github.com/samukadias/contract-management-system/model"
	"github.com/samukadias/contract-management-system/service"
)

func newAnalysisRouter(t *testing.T) (*gin.Engine, *service.ContractStore) {
	t.Helper()

	store := service.NewContractStore(newTestDB(t))
	handler := NewAnalysisHandler(store)

	router := gin.New()
	router.Use(testIdentity())
	router.GET("/dashboard", handler.Dashboard)
	router.GET("/analysis/health", handler.Health)
	router.GET("/analysis/clients", handler.Clients)
	router.GET("/analysis/profitability", handler.Profitability)
	router.GET("/analysis/expiry", handler.Expiry)
	router.GET("/stage-control", handler.StageControl)
	return router, store
}

func seedPortfolio(t *testing.T, store *service.ContractStore) {
	t.Helper()

	in20 := time.Now().AddDate(0, 0, 20)
	in45 := time.Now().AddDate(0, 0, 45)
	in200 := time.Now().AddDate(0, 0, 200)

	contracts := []model.Contract{
		{
			Cliente: "ACME", Contrato: "CT-1", AnalistaResponsavel: "Ana",
			DataFimEfetividade: &in20,
			ValorContrato:      1000, ValorFaturado: 500, ValorCancelado: 100,
			TipoTratativa: model.TratativaProrrogacao,
			Etapa:         "7. Análise Jurídica da Prodesp da Minuta do Cliente (30 a 15)",
		},
		{
			Cliente: "ACME", Contrato: "CT-2", AnalistaResponsavel: "Ana",
			DataFimEfetividade: &in45,
			ValorContrato:      2000, ValorFaturado: 100, ValorCancelado: 500,
		},
		{
			Cliente: "Beta", Contrato: "CT-3", AnalistaResponsavel: "Bia",
			DataFimEfetividade: &in200,
			ValorContrato:      5000, ValorFaturado: 4000,
			TipoTratativa: model.TratativaRenovacao,
			Etapa:         "0. Sem Status (<190)",
		},
		{
			Cliente: "Gama", Contrato: "CT-4", AnalistaResponsavel: "Bia",
			Status:        model.StatusExpirado,
			ValorContrato: 9999,
		},
	}

	for i := range contracts {
		seedContract(t, store, contracts[i])
	}
}

func TestDashboard(t *testing.T) {
	router, store := newAnalysisRouter(t)
	seedPortfolio(t, store)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Stats     analytics.DashboardStats   `json:"stats"`
		Financial analytics.FinancialSummary `json:"financial"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Stats.Total != 4 || resp.Stats.Active != 3 || resp.Stats.Expired != 1 {
		t.Errorf("Unexpected counters: %+v", resp.Stats)
	}
	// Expiring window (0-60) catches the 20 and 45 day contracts
	if resp.Stats.Expiring != 2 || resp.Stats.Urgent != 1 {
		t.Errorf("Unexpected expiry windows: %+v", resp.Stats)
	}
	// Value totals span all contracts, including the expired one
	if resp.Stats.TotalValue != 17999 {
		t.Errorf("Expected total value 17999, got %f", resp.Stats.TotalValue)
	}
	// Financial summary spans active contracts only
	if resp.Financial.TotalContractValue != 8000 {
		t.Errorf("Expected active contract value 8000, got %f", resp.Financial.TotalContractValue)
	}
}

func TestHealth(t *testing.T) {
	router, store := newAnalysisRouter(t)
	seedPortfolio(t, store)

	req := httptest.NewRequest("GET", "/analysis/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var report analytics.HealthReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if report.TotalContracts != 3 {
		t.Errorf("Expected 3 active contracts, got %d", report.TotalContracts)
	}
	// CT-1 (500 > 120) and CT-3 (4000 > 0) are profitable, CT-2 (100 < 600) is not
	if report.ProfitableContracts != 2 {
		t.Errorf("Expected 2 profitable contracts, got %d", report.ProfitableContracts)
	}
	// CT-1 and CT-2 are inside the 60-day risk window
	if report.RiskContracts != 2 {
		t.Errorf("Expected 2 risk contracts, got %d", report.RiskContracts)
	}
}

func TestClientsRanking(t *testing.T) {
	router, store := newAnalysisRouter(t)
	seedPortfolio(t, store)

	req := httptest.NewRequest("GET", "/analysis/clients?limit=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Clients []analytics.ClientStat `json:"clients"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Clients) != 1 {
		t.Fatalf("Expected 1 client with limit=1, got %d", len(resp.Clients))
	}
	// Beta (5000) outranks ACME (3000); the expired Gama contract is excluded
	if resp.Clients[0].Cliente != "Beta" {
		t.Errorf("Expected Beta first, got '%s'", resp.Clients[0].Cliente)
	}
}

func TestProfitabilityRanking(t *testing.T) {
	router, store := newAnalysisRouter(t)
	seedPortfolio(t, store)

	req := httptest.NewRequest("GET", "/analysis/profitability", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Clients []analytics.ClientProfitability `json:"clients"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Clients) != 2 {
		t.Fatalf("Expected 2 active clients, got %d", len(resp.Clients))
	}
	// Beta profit 4000 outranks ACME profit 0 (600 billed - 600 canceled)
	if resp.Clients[0].Cliente != "Beta" || resp.Clients[0].Profit != 4000 {
		t.Errorf("Unexpected top profitability: %+v", resp.Clients[0])
	}
	if resp.Clients[1].Profit != 0 {
		t.Errorf("Expected ACME profit 0, got %f", resp.Clients[1].Profit)
	}
}

func TestExpiryBuckets(t *testing.T) {
	router, store := newAnalysisRouter(t)
	seedPortfolio(t, store)

	req := httptest.NewRequest("GET", "/analysis/expiry", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var buckets analytics.ExpiryBuckets
	if err := json.Unmarshal(w.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(buckets.Urgente) != 1 || buckets.Urgente[0].Contrato != "CT-1" {
		t.Errorf("Expected CT-1 in Urgente, got %+v", buckets.Urgente)
	}
	if len(buckets.Atencao) != 1 || buckets.Atencao[0].Contrato != "CT-2" {
		t.Errorf("Expected CT-2 in Atenção, got %+v", buckets.Atencao)
	}
	if len(buckets.Normal) != 1 || buckets.Normal[0].Contrato != "CT-3" {
		t.Errorf("Expected CT-3 in Normal, got %+v", buckets.Normal)
	}
	// The expired Gama contract has no end date and is not active
	if len(buckets.Vencido) != 0 {
		t.Errorf("Expected empty Vencido bucket, got %+v", buckets.Vencido)
	}
}

func TestStageControl(t *testing.T) {
	router, store := newAnalysisRouter(t)
	seedPortfolio(t, store)

	req := httptest.NewRequest("GET", "/stage-control", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Contracts []analytics.EnrichedContract `json:"contracts"`
		Total     int                          `json:"total"`
		Late      int                          `json:"late"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Only the PRORROGAÇÃO and RENOVAÇÃO contracts are tracked
	if resp.Total != 2 {
		t.Fatalf("Expected 2 tracked contracts, got %d", resp.Total)
	}
	for _, e := range resp.Contracts {
		if e.ExpectedStage == "" || e.OnTime == nil {
			t.Errorf("Expected stage conformance computed for %s", e.Contrato)
		}
	}
	// CT-1 at 20 days should be in stage 7 (30 a 15) and on time;
	// CT-3 at 200 days matches its recorded stage 0
	if resp.Late != 0 {
		t.Errorf("Expected no late contracts, got %d", resp.Late)
	}
}

func TestAnalysisClienteScoping(t *testing.T) {
	router, store := newAnalysisRouter(t)
	seedPortfolio(t, store)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("X-Test-Perfil", model.PerfilCliente)
	req.Header.Set("X-Test-Cliente", "ACME")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Stats analytics.DashboardStats `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Stats.Total != 2 {
		t.Errorf("Expected CLIENTE to see 2 contracts, got %d", resp.Stats.Total)
	}
}
