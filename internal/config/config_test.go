package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadRequiresCommissionPolicy(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COMMISSION_POLICY", "")
	os.Unsetenv("COMMISSION_POLICY")

	if _, err := Load(); err == nil {
		t.Fatal("missing COMMISSION_POLICY must fail")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COMMISSION_POLICY", " Fixed ")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Commission.Policy != "fixed" {
		t.Fatalf("policy = %q", cfg.Commission.Policy)
	}
	if cfg.Commission.Rate.String() != "0.5" || cfg.Commission.Threshold.String() != "2500" {
		t.Fatalf("commission defaults = %+v", cfg.Commission)
	}
	if cfg.ShopTimezone != "America/Lima" || cfg.JWTTTL() != 8*time.Hour || cfg.Addr() != ":8080" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.S3.Enabled() {
		t.Fatalf("origins = %v, s3 = %v", cfg.CORSOrigins, cfg.S3.Enabled())
	}
}
