package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestReadiness_Degraded(t *testing.T) {
	h := NewReadinessHandler(map[string]Check{
		"mongodb": func(ctx context.Context) error { return nil },
		"redis":   func(ctx context.Context) error { return errors.New("connection refused") },
	})
	c, rec := newContext(http.MethodGet, "/health/ready", "", nil)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["mongodb"].Status != "ok" || resp.Dependencies["redis"].Error != "connection refused" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestReadiness_OK(t *testing.T) {
	h := NewReadinessHandler(map[string]Check{
		"mongodb": func(ctx context.Context) error { return nil },
	})
	c, rec := newContext(http.MethodGet, "/health/ready", "", nil)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
