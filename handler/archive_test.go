package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/config"
	"github.com/samukadias/contract-management-system/service"
)

func newArchiveRouter(storage *service.ObjectStorage) *gin.Engine {
	handler := NewArchiveHandler(storage)

	router := gin.New()
	router.GET("/archives", handler.List)
	router.GET("/archives/url", handler.DownloadURL)
	router.DELETE("/archives", handler.Delete)
	return router
}

func TestArchiveEndpointsWithoutStorage(t *testing.T) {
	router := newArchiveRouter(nil)

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"list", "GET", "/archives"},
		{"download url", "GET", "/archives/url?object=imports/2026-01-01/a.csv"},
		{"delete", "DELETE", "/archives?object=imports/2026-01-01/a.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusServiceUnavailable {
				t.Errorf("Expected status 503 without storage, got %d", w.Code)
			}
		})
	}
}

func TestArchiveRequiresObjectName(t *testing.T) {
	storage, err := service.NewObjectStorage(&config.StorageConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "contract-data",
	})
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	router := newArchiveRouter(storage)

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"download url", "GET", "/archives/url"},
		{"delete", "DELETE", "/archives"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400 without object parameter, got %d", w.Code)
			}
		})
	}
}
