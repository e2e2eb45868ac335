package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathReadsProviderSection(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".deepsearch.yaml")
	content := `providers:
  exa:
    api_key: "exa-key"
  firecrawl:
    api_key: "fc-key"
    base_url: "http://localhost:3002"
defaults:
  num_results: 15
  language: "de"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Providers.Exa.APIKey != "exa-key" {
		t.Fatalf("unexpected exa key: %q", cfg.Providers.Exa.APIKey)
	}
	if cfg.Providers.Firecrawl.BaseURL != "http://localhost:3002" {
		t.Fatalf("unexpected firecrawl base url: %q", cfg.Providers.Firecrawl.BaseURL)
	}
	if cfg.Defaults.NumResults != 15 {
		t.Fatalf("unexpected num_results: %d", cfg.Defaults.NumResults)
	}
	if cfg.Defaults.Language != "de" {
		t.Fatalf("unexpected language: %q", cfg.Defaults.Language)
	}
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Defaults.NumResults != 10 || cfg.Defaults.Language != "en" {
		t.Fatalf("unexpected defaults: %+v", cfg.Defaults)
	}
}

func TestEnvOverridesFileCredentials(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".deepsearch.yaml")
	content := `providers:
  perplexity:
    api_key: "from-file"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PERPLEXITY_API_KEY", "from-env")

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Providers.Perplexity.APIKey != "from-env" {
		t.Fatalf("env should win, got %q", cfg.Providers.Perplexity.APIKey)
	}
}
