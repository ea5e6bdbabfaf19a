package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "CART_STORAGE", "CART_KEY", "CATALOG_SOURCE", "STOCK_SOURCE", "FETCH_TIMEOUT", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.CartKey != "@RocketShoes:cart" {
		t.Errorf("unexpected cart key %s", cfg.CartKey)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.FetchTimeout)
	}
	if !cfg.NeedsRedis() || !cfg.NeedsMySQL() {
		t.Error("expected default setup to use both redis and mysql")
	}
	if cfg.OTLPEndpoint != "" {
		t.Errorf("expected tracing disabled, got %s", cfg.OTLPEndpoint)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CART_STORAGE", SourceFile)
	t.Setenv("CATALOG_SOURCE", SourceAPI)
	t.Setenv("STOCK_SOURCE", SourceAPI)
	t.Setenv("FETCH_TIMEOUT", "250ms")

	cfg := Load()
	if cfg.NeedsRedis() || cfg.NeedsMySQL() {
		t.Error("expected api + file setup to need neither redis nor mysql")
	}
	if cfg.FetchTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.FetchTimeout)
	}

	t.Setenv("FETCH_TIMEOUT", "3")
	if got := Load().FetchTimeout; got != 3*time.Second {
		t.Errorf("expected 3s, got %s", got)
	}

	t.Setenv("FETCH_TIMEOUT", "soon")
	if got := Load().FetchTimeout; got != 5*time.Second {
		t.Errorf("expected fallback 5s, got %s", got)
	}
}
