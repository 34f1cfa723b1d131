package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/model"
	"github.com/samukadias/contract-management-system/service"
)

func newTermRouter(t *testing.T) (*gin.Engine, *service.TermoStore) {
	t.Helper()

	store := service.NewTermoStore(newTestDB(t))
	handler := NewTermHandler(store)

	router := gin.New()
	router.Use(testIdentity())
	router.GET("/termos", handler.List)
	router.POST("/termos", handler.Create)
	router.GET("/termos/:id", handler.Get)
	router.PUT("/termos/:id", handler.Update)
	router.DELETE("/termos/:id", handler.Delete)
	return router, store
}

func TestTermCreateAndGet(t *testing.T) {
	router, _ := newTermRouter(t)

	body := `{"numero_tc":"TC-2026-01","contrato_associado_pd":"CT-1","valor_total":5000,"area_demandante":"TI"}`
	req := httptest.NewRequest("POST", "/termos", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Email", "ana@example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created model.TermoConfirmacao
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected generated id")
	}
	if created.CreatedBy != "ana@example.com" {
		t.Errorf("Expected created_by stamped, got '%s'", created.CreatedBy)
	}

	req = httptest.NewRequest("GET", "/termos/"+created.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
}

func TestTermCreateRequiresNumeroTC(t *testing.T) {
	router, _ := newTermRouter(t)

	req := httptest.NewRequest("POST", "/termos", bytes.NewBufferString(`{"valor_total":100}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestTermUpdatePreservesAudit(t *testing.T) {
	router, store := newTermRouter(t)

	termo := &model.TermoConfirmacao{
		NumeroTC:  "TC-1",
		CreatedBy: "original@example.com",
	}
	if err := store.Create(context.Background(), termo); err != nil {
		t.Fatalf("Failed to seed termo: %v", err)
	}

	body := `{"numero_tc":"TC-1","valor_total":9000,"created_by":"spoofed@example.com"}`
	req := httptest.NewRequest("PUT", "/termos/"+termo.ID, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated model.TermoConfirmacao
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if updated.ValorTotal != 9000 {
		t.Errorf("Expected updated valor_total, got %f", updated.ValorTotal)
	}
	if updated.CreatedBy != "original@example.com" {
		t.Errorf("Expected created_by preserved, got '%s'", updated.CreatedBy)
	}
}

func TestTermDelete(t *testing.T) {
	router, store := newTermRouter(t)

	termo := &model.TermoConfirmacao{NumeroTC: "TC-1"}
	if err := store.Create(context.Background(), termo); err != nil {
		t.Fatalf("Failed to seed termo: %v", err)
	}

	req := httptest.NewRequest("DELETE", "/termos/"+termo.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/termos/"+termo.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
}

func TestTermListOrdering(t *testing.T) {
	router, store := newTermRouter(t)

	for _, tc := range []string{"TC-1", "TC-2"} {
		if err := store.Create(context.Background(), &model.TermoConfirmacao{NumeroTC: tc}); err != nil {
			t.Fatalf("Failed to seed termo: %v", err)
		}
	}

	req := httptest.NewRequest("GET", "/termos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Termos []model.TermoConfirmacao `json:"termos"`
		Total  int                      `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Expected 2 termos, got %d", resp.Total)
	}
}
