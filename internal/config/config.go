package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EngineElasticsearch = "elasticsearch"
	EngineRipgrep       = "ripgrep"

	defaultIndexName      = "dataobj"
	defaultRipgrepBinary  = "rg"
	defaultRipgrepTimeout = 60 * time.Second
	defaultLogLevel       = "info"
)

// ErrInvalidEngine is returned when search.engine names an unknown backend.
var ErrInvalidEngine = errors.New("invalid search engine")

var ValidEngines = map[string]bool{
	"":                  true,
	EngineElasticsearch: true,
	EngineRipgrep:       true,
}

type ElasticsearchConfig struct {
	Addresses []string `yaml:"addresses" json:"addresses"`
	Username  string   `yaml:"username"  json:"username"`
	Password  string   `yaml:"password"  json:"password"`
	APIKey    string   `yaml:"api_key"   json:"api_key"`
}

// Enabled reports whether a hosted index has been configured at all.
func (es ElasticsearchConfig) Enabled() bool {
	for _, addr := range es.Addresses {
		if strings.TrimSpace(addr) != "" {
			return true
		}
	}
	return false
}

type RipgrepConfig struct {
	Binary  string        `yaml:"binary"  json:"binary"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

type SearchConfig struct {
	Engine        string              `yaml:"engine"        json:"engine"`
	IndexName     string              `yaml:"index_name"    json:"index_name"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch" json:"elasticsearch"`
	Ripgrep       RipgrepConfig       `yaml:"ripgrep"       json:"ripgrep"`
}

type Config struct {
	DataDir  string       `yaml:"data_dir"  json:"data_dir"`
	LogLevel string       `yaml:"log_level" json:"log_level"`
	Search   SearchConfig `yaml:"search"    json:"search"`
}

// Default returns a configuration populated with the built-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.ensureDefaults()
	return cfg
}

func (cfg *Config) ensureDefaults() {
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = defaultLogLevel
	}
	cfg.Search.Engine = strings.ToLower(strings.TrimSpace(cfg.Search.Engine))
	if strings.TrimSpace(cfg.Search.IndexName) == "" {
		cfg.Search.IndexName = defaultIndexName
	}
	if strings.TrimSpace(cfg.Search.Ripgrep.Binary) == "" {
		cfg.Search.Ripgrep.Binary = defaultRipgrepBinary
	}
	if cfg.Search.Ripgrep.Timeout <= 0 {
		cfg.Search.Ripgrep.Timeout = defaultRipgrepTimeout
	}
}

// Validate checks the search settings for combinations that can never work.
func (cfg *Config) Validate() error {
	if _, ok := ValidEngines[cfg.Search.Engine]; !ok {
		return fmt.Errorf(
			"%w: %q. Please choose from '%s' or '%s'.",
			ErrInvalidEngine,
			cfg.Search.Engine,
			EngineElasticsearch,
			EngineRipgrep,
		)
	}

	if cfg.Search.Engine == EngineElasticsearch && !cfg.Search.Elasticsearch.Enabled() {
		return &ConfigInitError{
			Key: "search.elasticsearch.addresses",
			msg: "is required when search.engine is 'elasticsearch'",
		}
	}

	return nil
}

// Load reads the config file under home. An empty file yields the defaults.
func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes a YAML document into a validated Config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ensureDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides copies values set on v (bound flags or NOTESEARCH_* env vars)
// over the values read from the config file.
func (cfg *Config) ApplyOverrides(v *viper.Viper) error {
	if v == nil {
		return nil
	}

	if v.IsSet("data_dir") {
		cfg.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("engine") {
		cfg.Search.Engine = v.GetString("engine")
	}
	if v.IsSet("index_name") {
		cfg.Search.IndexName = v.GetString("index_name")
	}
	if v.IsSet("es_addresses") {
		cfg.Search.Elasticsearch.Addresses = v.GetStringSlice("es_addresses")
	}
	if v.IsSet("rg_binary") {
		cfg.Search.Ripgrep.Binary = v.GetString("rg_binary")
	}
	if v.IsSet("rg_timeout") {
		cfg.Search.Ripgrep.Timeout = v.GetDuration("rg_timeout")
	}

	cfg.ensureDefaults()
	return cfg.Validate()
}

// Save writes cfg back to the config file under home.
func (cfg *Config) Save(home string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(GetConfigPath(home), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
