package application

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/knap/internal/config"
	"github.com/eugenenazirov/knap/internal/solver"
	"github.com/eugenenazirov/knap/internal/storage"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	cfg.InitialItems = []storage.Item{{ID: "rope", Size: 3, Worth: 9}, {ID: "axe", Size: 5, Worth: 4}}
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	items, err := app.storage.GetItems()
	if err != nil {
		t.Fatalf("GetItems returned error: %v", err)
	}
	if !slices.Equal(items, cfg.InitialItems) {
		t.Fatalf("expected items %v, got %v", cfg.InitialItems, items)
	}
	if app.server == nil || app.router == nil || app.handler == nil || app.solver == nil || app.metrics == nil {
		t.Fatalf("expected server, router, handler, solver, and metrics to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewAppliesCapacityLimit(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.MaxCapacity = 10

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/solve", bytes.NewReader([]byte(`{"capacity": 11}`)))
	rec := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 above the configured capacity, got %d", rec.Code)
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewReturnsErrorForInvalidItems(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.InitialItems = nil

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for an empty catalog")
	}
}

func TestBuildRootHandlerRoutes(t *testing.T) {
	cfg := baseTestConfig(":0")
	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	root := app.server.Handler

	solveReq := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(`{"capacity": 50, "strategy": "greedy"}`))
	root.ServeHTTP(httptest.NewRecorder(), solveReq)

	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics endpoint to respond 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `knap_solves_total{outcome="succeeded",strategy="greedy"} 1`) {
		t.Fatalf("expected the greedy solve to be counted, got:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for the root path, got %d", rec.Code)
	}
}

func TestBuildRootHandlerWithoutMetrics(t *testing.T) {
	root := BuildRootHandler(http.NotFoundHandler(), nil)

	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when metrics are not mounted, got %d", rec.Code)
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		InitialItems:         storage.DefaultItems(),
		MaxCapacity:          solver.DefaultMaxCapacity,
		MaxTableCells:        solver.DefaultMaxTableCells,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
