package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("FORECAST_HORIZON", "")
	t.Setenv("MODEL_LOG_TRANSFORMED", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("MAX_FORECAST_HORIZON", "")

	cfg := FromEnv()
	if cfg.Horizon != 6 {
		t.Errorf("Horizon: got %d, want 6", cfg.Horizon)
	}
	if cfg.MaxHorizon != 50 {
		t.Errorf("MaxHorizon: got %d, want 50", cfg.MaxHorizon)
	}
	if cfg.LogTransformed {
		t.Error("LogTransformed should default to false")
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr: got %q, want :8080", cfg.Addr())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FORECAST_HORIZON", "11")
	t.Setenv("MODEL_LOG_TRANSFORMED", "true")
	t.Setenv("HTTP_PORT", ":9090")
	t.Setenv("POSTGRES_ENABLED", "not-a-bool")
	t.Setenv("MAX_FORECAST_HORIZON", "20")

	cfg := FromEnv()
	if cfg.MaxHorizon != 20 {
		t.Errorf("MaxHorizon: got %d, want 20", cfg.MaxHorizon)
	}
	if cfg.Horizon != 11 {
		t.Errorf("Horizon: got %d, want 11", cfg.Horizon)
	}
	if !cfg.LogTransformed {
		t.Error("LogTransformed should be true")
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr: got %q, want :9090", cfg.Addr())
	}
	if cfg.PostgresEnabled {
		t.Error("unparseable bool should fall back to false")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "sales", PostgresSSLMode: "disable",
	}
	want := "host=db port=5433 user=u password=p dbname=sales sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
