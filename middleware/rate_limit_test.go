package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/config"
	"github.com/samukadias/contract-management-system/model"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.Use(RateLimit(5, time.Minute)) // 5 requests per minute
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	// First 5 requests succeed
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, w.Code)
		}
	}

	// 6th request should be rate limited
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
}

func TestRateLimitDifferentIPs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(2, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	// Exhaust the budget for one IP
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	// A different IP has its own budget
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.2")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Different IP should not be rate limited, got %d", w.Code)
	}
}

func TestRateLimitKeyedByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	// Simulate two authenticated users behind the same IP
	router.Use(func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-Test-User"))
		c.Next()
	})
	router.Use(RateLimit(2, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	// Exhaust one user's budget
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Test-User", "user-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	// Another user on the same IP is unaffected
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Test-User", "user-2")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Different user on same IP should not be rate limited, got %d", w.Code)
	}
}

func TestRateLimitAfterAuthKeysByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.AuthConfig{JWTSecret: "test-secret-key", TokenExpireHours: 1}

	// The limiter runs after the auth middleware, as wired in main, so
	// it sees the authenticated user id rather than only the IP
	router := gin.New()
	router.Use(AuthMiddleware(cfg))
	router.Use(RateLimit(2, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	token := func(id, email string) string {
		tok, _, err := GenerateToken(&model.User{
			ID: id, Email: email, Perfil: model.PerfilAnalista,
		}, cfg)
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}
		return tok
	}
	anaToken := token("user-ana", "ana@example.com")
	biaToken := token("user-bia", "bia@example.com")

	// Exhaust one user's budget from a shared IP
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("Authorization", "Bearer "+anaToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	// A second user behind the same IP keeps a separate budget
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("Authorization", "Bearer "+biaToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Second user on shared IP should not be rate limited, got %d", w.Code)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	if !limiter.Allow("a") || !limiter.Allow("a") {
		t.Error("Expected first two requests to be allowed")
	}
	if limiter.Allow("a") {
		t.Error("Expected third request to be denied")
	}
	if !limiter.Allow("b") {
		t.Error("Expected a different key to have its own budget")
	}
}
