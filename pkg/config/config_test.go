package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}
	if cfg.Backend.CoreURL != "http://backend.test:8080" {
		t.Fatalf("unexpected core url %q", cfg.Backend.CoreURL)
	}
	if cfg.Checkout.FreeShippingThreshold != "10000" || cfg.Checkout.ShippingFee != "6000" {
		t.Fatalf("unexpected shipping defaults %+v", cfg.Checkout)
	}
	if got := cfg.Watcher.PollInterval; got != 5*time.Second {
		t.Fatalf("expected default poll interval 5s, got %v", got)
	}
	if cfg.Storage.UsesSQL() {
		t.Fatal("expected redis storage by default")
	}
	if len(cfg.App.CORSOrigins) != 2 {
		t.Fatalf("expected default cors origins, got %v", cfg.App.CORSOrigins)
	}
	if cfg.Auth.LoginWindow != 0 {
		t.Fatalf("expected login throttling off by default, got window %v", cfg.Auth.LoginWindow)
	}
	if cfg.Auth.RegisterWindow != 10*time.Minute {
		t.Fatalf("expected register window 10m, got %v", cfg.Auth.RegisterWindow)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_SQLStorageBuildsDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "sql")
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "vitalix")
	t.Setenv(EnvDBName, "storefront")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.DSN != "postgres://vitalix@db.internal:5432/storefront?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", cfg.DB.DSN)
	}
}

func TestLoad_SQLStorageRequiresDatabase(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "sql")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when sql storage has no database settings")
	}
}

func TestLoad_RejectsUnknownOrderFormat(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvBackendOrderFormat, "xml")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid order format to fail")
	}
}

func TestLoad_RejectsRelativeBackendURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvBackendInventoryURL, "/inventario")

	if _, err := Load(); err == nil {
		t.Fatal("expected relative backend url to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvBackendInventoryURL, "http://inventory.test:8000")
	t.Setenv(EnvBackendCoreURL, "http://backend.test:8080")
	t.Setenv(EnvBackendOrderFormat, "flat")
	t.Setenv(EnvStorageDriver, "redis")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvDBDSN, "")
	t.Setenv(EnvDBHost, "")
	t.Setenv(EnvDBUser, "")
	t.Setenv(EnvDBName, "")
}
