package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raysh454/paydash/internal/cli"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Payments.APIBase != "http://localhost:8089/api/payments" {
		t.Errorf("unexpected api base %q", cfg.Payments.APIBase)
	}
	if cfg.Payments.HistoryBase != "http://localhost:8089/api/payments/history" {
		t.Errorf("unexpected history base %q", cfg.Payments.HistoryBase)
	}
	if cfg.PageSize != 10 || cfg.SessionTTL != 2*time.Hour {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paydash.yaml")
	content := "api_base: http://file:1/api/payments\npage_size: 20\ntimezone: Europe/Paris\nsession_ttl: 30m\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PAYDASH_PAGE_SIZE", "50")
	t.Setenv("PAYDASH_STATS_BASE", "http://stats:2/s")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Payments.APIBase != "http://file:1/api/payments" {
		t.Errorf("file value lost: %q", cfg.Payments.APIBase)
	}
	if cfg.Payments.StatsBase != "http://stats:2/s" {
		t.Errorf("env value lost: %q", cfg.Payments.StatsBase)
	}
	if cfg.PageSize != 50 {
		t.Errorf("env must override file, got page size %d", cfg.PageSize)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("unexpected ttl %s", cfg.SessionTTL)
	}
	if cfg.Location().String() != "Europe/Paris" {
		t.Errorf("unexpected location %s", cfg.Location())
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PAYDASH_PAGE_SIZE", "7")
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for page size 7")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestApplyArgs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyArgs(&cli.CLIArgs{ListenAddr: ":9999", APIBase: "http://other/api/payments/"})
	if cfg.ListenAddr != ":9999" {
		t.Errorf("listen addr not applied")
	}
	if cfg.Payments.HistoryBase != "http://other/api/payments/history" {
		t.Errorf("derived bases must follow api base, got %q", cfg.Payments.HistoryBase)
	}
	cfg.ApplyArgs(nil)
}
