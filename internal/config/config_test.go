package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Domain != DefaultDomain {
		t.Fatalf("domain=%q", cfg.Site.Domain)
	}
	if cfg.Roster.CacheTTL != 6*time.Hour {
		t.Fatalf("cache ttl=%v", cfg.Roster.CacheTTL)
	}
	if cfg.Fetch.MaxRetries != 3 {
		t.Fatalf("max retries=%d", cfg.Fetch.MaxRetries)
	}
	if len(cfg.Site.SkipDirs) == 0 || cfg.Site.SkipDirs[0] != ".git" {
		t.Fatalf("skip dirs=%v", cfg.Site.SkipDirs)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BL_SITE_ROOT", "/srv/site")
	t.Setenv("BL_SITE_DOMAIN", "https://www.example.com/")
	t.Setenv("BL_FETCH_MAX_RETRIES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Root != "/srv/site" {
		t.Fatalf("root=%q", cfg.Site.Root)
	}
	if cfg.Site.Domain != "https://www.example.com" {
		t.Fatalf("domain=%q", cfg.Site.Domain)
	}
	if cfg.Fetch.MaxRetries != 5 {
		t.Fatalf("max retries=%d", cfg.Fetch.MaxRetries)
	}
}

func TestLoadRejectsBadDomain(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BL_SITE_DOMAIN", "betlegendpicks.com")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for domain without scheme")
	}
}
