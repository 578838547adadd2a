// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/scubaduck/internal/catalog"
	"github.com/tomtom215/scubaduck/internal/engine"
	"github.com/tomtom215/scubaduck/internal/samplecache"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cat, err := catalog.Load(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("Load(TEST): %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	exec := engine.NewExecutor(cat.DB(), 4)
	cache := samplecache.New(64, 0)
	handler := NewHandler(cat, exec, cache, nil)
	router := NewRouter(handler, DefaultChiMiddlewareConfig())
	return router.SetupChi()
}

func TestRouterHealthLive(t *testing.T) {
	h := newTestRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRouterTables(t *testing.T) {
	h := newTestRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "events") {
		t.Errorf("body = %q, want it to mention the events table", rec.Body.String())
	}
}

func TestRouterQuery(t *testing.T) {
	h := newTestRouter(t)
	body := strings.NewReader(`{"table":"events","graph_type":"samples","columns":["user","value"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/query", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"sql"`) {
		t.Errorf("body = %q, want it to contain the compiled sql field", rec.Body.String())
	}
}

func TestRouterQueryMissingTableIsBadRequest(t *testing.T) {
	h := newTestRouter(t)
	body := strings.NewReader(`{"graph_type":"samples"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/query", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouterQueryInvalidGraphTypeIsBadRequest(t *testing.T) {
	h := newTestRouter(t)
	body := strings.NewReader(`{"table":"events","graph_type":"bogus"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/query", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouterUnknownTableIs404(t *testing.T) {
	h := newTestRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/columns?table=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
