package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is resolved once at startup and treated as read-only afterwards.
// No component outside this package reads environment state directly.
type Config struct {
	Providers ProviderConfig `yaml:"providers"`
	Defaults  DefaultsConfig `yaml:"defaults"`
	Logging   LoggingConfig  `yaml:"logging"`
}

type ProviderConfig struct {
	Exa        ProviderCredentials `yaml:"exa,omitempty"`
	Firecrawl  ProviderCredentials `yaml:"firecrawl,omitempty"`
	Perplexity ProviderCredentials `yaml:"perplexity,omitempty"`
}

type ProviderCredentials struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type DefaultsConfig struct {
	// NumResults is the per-provider result count used when a tool call
	// does not supply one.
	NumResults int    `yaml:"num_results"`
	Language   string `yaml:"language"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			NumResults: 10,
			Language:   "en",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigPath returns the yaml config location. DEEPSEARCH_CONFIG overrides
// the default path next to the executable.
func ConfigPath() string {
	if p := os.Getenv("DEEPSEARCH_CONFIG"); p != "" {
		return p
	}
	execPath, err := os.Executable()
	if err != nil {
		return ".deepsearch.yaml"
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return filepath.Join(filepath.Dir(execPath), ".deepsearch.yaml")
}

// Load reads the yaml config (a missing file is fine) and then resolves
// credential env vars. This is the single configuration-resolution step;
// the returned value is never mutated after load.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if cfg.Defaults.NumResults <= 0 {
		cfg.Defaults.NumResults = 10
	}
	if cfg.Defaults.Language == "" {
		cfg.Defaults.Language = "en"
	}

	return cfg, nil
}

// applyEnv lets environment variables win over file values, matching how
// credentials are usually provided when the plugin runs under a host.
func applyEnv(cfg *Config) {
	if v := os.Getenv("EXA_API_KEY"); v != "" {
		cfg.Providers.Exa.APIKey = v
	}
	if v := os.Getenv("FIRECRAWL_API_KEY"); v != "" {
		cfg.Providers.Firecrawl.APIKey = v
	}
	if v := os.Getenv("PERPLEXITY_API_KEY"); v != "" {
		cfg.Providers.Perplexity.APIKey = v
	}
}
