package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("expected port 3000, got %q", cfg.Port)
	}
	if cfg.ScanLimit != 3 {
		t.Errorf("expected scan limit 3, got %d", cfg.ScanLimit)
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Errorf("expected postgres driver, got %q", cfg.StoreDriver)
	}
	if cfg.JWTTTL != 15*time.Minute {
		t.Errorf("expected 15m jwt ttl, got %v", cfg.JWTTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS origin, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", ":8080")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("SCAN_LIMIT", "5")
	t.Setenv("PUBLIC_BASE_URL", "https://verify.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("BAN_DURATION", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != ":8080" {
		t.Errorf("expected addr :8080, got %q", cfg.Addr())
	}
	if cfg.StoreDriver != DriverMemory {
		t.Errorf("expected memory driver, got %q", cfg.StoreDriver)
	}
	if cfg.ScanLimit != 5 {
		t.Errorf("expected scan limit 5, got %d", cfg.ScanLimit)
	}
	if cfg.PublicBaseURL != "https://verify.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.PublicBaseURL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.BanDuration != time.Hour {
		t.Errorf("expected 1h ban duration, got %v", cfg.BanDuration)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safekart.yaml")
	content := "store_driver: mongo\nmongo_uri: mongodb://localhost:27017\nscan_limit: 7\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreDriver != DriverMongo || cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ScanLimit != 7 {
		t.Errorf("expected scan limit 7, got %d", cfg.ScanLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_ConfigFileLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safekart.yaml")
	content := "cors_origins:\n  - https://admin.example.com\n  - https://shop.example.com\ntrust_proxy: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"https://admin.example.com", "https://shop.example.com"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("expected CORS origins %v, got %v", want, cfg.CORSOrigins)
	}
	for i := range want {
		if cfg.CORSOrigins[i] != want[i] {
			t.Errorf("origin %d: expected %q, got %q", i, want[i], cfg.CORSOrigins[i])
		}
	}
	if !cfg.TrustProxy {
		t.Error("expected trust_proxy from file to be applied")
	}
}

func TestLoad_TrustProxyDefaultsOff(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TRUST_PROXY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TrustProxy {
		t.Error("expected proxy headers to be untrusted by default")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "3000",
			StoreDriver:    DriverMemory,
			ScanLimit:      3,
			RateLimitRPS:   5,
			RateLimitBurst: 10,
			BanStrikes:     5,
			BanDuration:    time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "memory store", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "sqlite" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.StoreDriver = DriverPostgres }, wantErr: true},
		{name: "mongo without uri", mutate: func(c *Config) { c.StoreDriver = DriverMongo }, wantErr: true},
		{name: "zero scan limit", mutate: func(c *Config) { c.ScanLimit = 0 }, wantErr: true},
		{name: "protected logs without secret", mutate: func(c *Config) { c.ProtectLogs = true }, wantErr: true},
		{name: "admin hash without secret", mutate: func(c *Config) { c.AdminPasswordHash = "$2a$10$x" }, wantErr: true},
		{name: "admin with secret", mutate: func(c *Config) {
			c.AdminPasswordHash = "$2a$10$x"
			c.JWTSecret = "secret"
		}},
		{name: "no rate", mutate: func(c *Config) { c.RateLimitRPS = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
