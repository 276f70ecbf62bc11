package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.KRX.LookbackDays != 14 {
		t.Fatalf("expected 14-day lookback, got %d", c.KRX.LookbackDays)
	}
	if c.Treasury.MinInterval != 13*time.Second {
		t.Fatalf("expected 13s treasury pacing, got %v", c.Treasury.MinInterval)
	}
	if c.Ranking.TopN != 3 || c.Ranking.PerSector != 2 {
		t.Fatalf("unexpected ranking defaults: %d/%d", c.Ranking.TopN, c.Ranking.PerSector)
	}
	if len(c.Ranking.Sectors) != 11 {
		t.Fatalf("expected 11 default sectors, got %d", len(c.Ranking.Sectors))
	}
	if !c.FundFirst() {
		t.Fatalf("fund-type lookup should default to first")
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9999\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsBadTopN(t *testing.T) {
	path := writeConfig(t, "environment: test\nranking:\n  top_n: 12\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected top_n validation error")
	}
}

func TestLoadRejectsDuplicateSector(t *testing.T) {
	path := writeConfig(t, `environment: test
ranking:
  sectors:
    - key: technology
      proxy: XLK
    - key: technology
      proxy: XLF
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected duplicate sector error")
	}
}

func TestLoadWithEnvOverridesCredentials(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("FINNHUB_API_KEY", "fh-test-key")
	t.Setenv("KRX_AUTH_KEY", "krx-test-key")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.Finnhub.APIKey != "fh-test-key" || c.KRX.AuthKey != "krx-test-key" {
		t.Fatalf("env overrides not applied")
	}
}

func TestFundFirstExplicitFalse(t *testing.T) {
	path := writeConfig(t, "environment: test\nkrx:\n  fund_first: false\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.FundFirst() {
		t.Fatalf("expected equity-type lookup first")
	}
}
