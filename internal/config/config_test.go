package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("DBMaxConns = %d, want 10", cfg.DBMaxConns)
	}
	if cfg.JWTExpiryHrs != 24 {
		t.Errorf("JWTExpiryHrs = %d, want 24", cfg.JWTExpiryHrs)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false, want true by default")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded without JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error = %v, want mention of JWT_SECRET", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("PORT", "9999")
	os.Setenv("DB_NAME", "remed_test")
	defer func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("PORT")
		os.Unsetenv("DB_NAME")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.DBName != "remed_test" {
		t.Errorf("DBName = %q, want remed_test", cfg.DBName)
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "s3cret",
		DBName:     "remed",
	}
	got := cfg.DatabaseURL()
	for _, want := range []string{"postgres://", "app:s3cret@db.internal:5433", "/remed", "sslmode=disable"} {
		if !strings.Contains(got, want) {
			t.Errorf("DatabaseURL() = %q, missing %q", got, want)
		}
	}
}
