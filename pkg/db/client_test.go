package db

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, _ := conn.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(&models.KVEntry{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestPingAndDialect(t *testing.T) {
	client := NewFromGorm(newTestDB(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Dialect() != "sqlite" {
		t.Fatalf("unexpected dialect %q", client.Dialect())
	}
}

func TestNewOpensSQLiteFromConfig(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "storefront.db")
	client, err := New(context.Background(), config.DBConfig{DSN: dsn, Driver: config.DBDriverSQLite, MaxOpenConns: 1}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer client.Close()
	if client.Dialect() != config.DBDriverSQLite {
		t.Fatalf("unexpected dialect %q", client.Dialect())
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatalf("expected error without dsn")
	}
}
