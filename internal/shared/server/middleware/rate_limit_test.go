package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/cover-letters", RateLimit(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func post(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cover-letters", nil)
	req.RemoteAddr = remoteAddr
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRateLimitBurstThenReject(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(RateLimitRule{Rate: 1, Burst: 2}, func() time.Time { return now })
	r := limitedRouter(limiter)

	for i := 0; i < 2; i++ {
		if resp := post(r, "10.0.0.1:1234"); resp.Code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, resp.Code)
		}
	}
	if resp := post(r, "10.0.0.1:1234"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("request 3 expected 429, got %d", resp.Code)
	}

	// Other clients and unlimited routes are unaffected.
	if resp := post(r, "10.0.0.2:1234"); resp.Code != http.StatusOK {
		t.Fatalf("other client expected 200, got %d", resp.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	health := httptest.NewRecorder()
	r.ServeHTTP(health, req)
	if health.Code != http.StatusOK {
		t.Fatalf("health expected 200, got %d", health.Code)
	}

	now = now.Add(time.Second)
	if resp := post(r, "10.0.0.1:1234"); resp.Code != http.StatusOK {
		t.Fatalf("after refill expected 200, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(RateLimitRule{Rate: 0.2, Burst: 1}, func() time.Time { return now })
	r := limitedRouter(limiter)

	if resp := post(r, "10.0.0.1:1234"); resp.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp.Code)
	}
	resp := post(r, "10.0.0.1:1234")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "5" {
		t.Fatalf("expected Retry-After 5, got %q", got)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "rate_limited" {
		t.Fatalf("expected error=rate_limited")
	}
	if payload["retryAfterMs"] != float64(5000) {
		t.Fatalf("expected retryAfterMs 5000, got %v", payload["retryAfterMs"])
	}
}

func TestRateLimitDisabledRule(t *testing.T) {
	limiter := NewRateLimiter(RateLimitRule{}, nil)
	for i := 0; i < 10; i++ {
		if ok, _ := limiter.Allow("k"); !ok {
			t.Fatalf("expected disabled limiter to allow request %d", i+1)
		}
	}
}
