package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/notesearch/internal/config"
)

func writeConfig(t *testing.T, home string, cfgData map[string]any) {
	t.Helper()

	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(cfgData)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Search.IndexName != "dataobj" {
		t.Fatalf("expected default index name, got %q", cfg.Search.IndexName)
	}
	if cfg.Search.Ripgrep.Binary != "rg" {
		t.Fatalf("expected default rg binary, got %q", cfg.Search.Ripgrep.Binary)
	}
	if cfg.Search.Ripgrep.Timeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", cfg.Search.Ripgrep.Timeout)
	}
	if cfg.Search.Engine != "" {
		t.Fatalf("expected no engine by default, got %q", cfg.Search.Engine)
	}

	var initErr *config.ConfigInitError
	if err := cfg.RequireDataDir(); !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError for missing data_dir, got %v", err)
	}
}

func TestLoadAcceptsSupportedEngines(t *testing.T) {
	engines := []string{"ripgrep", "elasticsearch", "Elasticsearch", ""}

	for _, engine := range engines {
		engine := engine
		t.Run(engine, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, map[string]any{
				"data_dir": filepath.Join(home, "data"),
				"search": map[string]any{
					"engine":     engine,
					"index_name": "notes",
					"elasticsearch": map[string]any{
						"addresses": []string{"http://localhost:9200"},
					},
					"ripgrep": map[string]any{
						"timeout": "5s",
					},
				},
			})

			cfg, err := config.Load(home)
			if err != nil {
				t.Fatalf("expected load to succeed for engine %q: %v", engine, err)
			}
			if cfg.Search.IndexName != "notes" {
				t.Fatalf("expected index name notes, got %q", cfg.Search.IndexName)
			}
			if cfg.Search.Ripgrep.Timeout != 5*time.Second {
				t.Fatalf("expected 5s timeout, got %s", cfg.Search.Ripgrep.Timeout)
			}
		})
	}
}

func TestLoadRejectsUnsupportedEngine(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"data_dir": filepath.Join(home, "data"),
		"search":   map[string]any{"engine": "whoosh"},
	})

	_, err := config.Load(home)
	if !errors.Is(err, config.ErrInvalidEngine) {
		t.Fatalf("expected ErrInvalidEngine, got %v", err)
	}
}

func TestLoadRequiresAddressesForElasticsearch(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"data_dir": filepath.Join(home, "data"),
		"search":   map[string]any{"engine": "elasticsearch"},
	})

	_, err := config.Load(home)
	var initErr *config.ConfigInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError, got %v", err)
	}
	if initErr.Key != "search.elasticsearch.addresses" {
		t.Fatalf("unexpected key %q", initErr.Key)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()

	v := viper.New()
	v.Set("data_dir", "/tmp/notes")
	v.Set("engine", "ripgrep")
	v.Set("rg_binary", "/usr/local/bin/rg")
	v.Set("rg_timeout", "2s")

	if err := cfg.ApplyOverrides(v); err != nil {
		t.Fatalf("ApplyOverrides returned error: %v", err)
	}

	if cfg.DataDir != "/tmp/notes" {
		t.Fatalf("expected data dir override, got %q", cfg.DataDir)
	}
	if cfg.Search.Engine != config.EngineRipgrep {
		t.Fatalf("expected engine override, got %q", cfg.Search.Engine)
	}
	if cfg.Search.Ripgrep.Binary != "/usr/local/bin/rg" {
		t.Fatalf("expected binary override, got %q", cfg.Search.Ripgrep.Binary)
	}
	if cfg.Search.Ripgrep.Timeout != 2*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.Search.Ripgrep.Timeout)
	}

	bad := viper.New()
	bad.Set("engine", "sphinx")
	if err := cfg.ApplyOverrides(bad); !errors.Is(err, config.ErrInvalidEngine) {
		t.Fatalf("expected ErrInvalidEngine from override, got %v", err)
	}
}

func TestSaveRoundTripsSearchSettings(t *testing.T) {
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}

	cfg := config.Default()
	cfg.DataDir = filepath.Join(home, "data")
	cfg.Search.Engine = config.EngineElasticsearch
	cfg.Search.Elasticsearch.Addresses = []string{"http://es:9200"}
	cfg.Search.Ripgrep.Timeout = 90 * time.Second

	if err := cfg.Save(home); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Search.Engine != config.EngineElasticsearch {
		t.Fatalf("expected engine to persist, got %q", loaded.Search.Engine)
	}
	if loaded.Search.Ripgrep.Timeout != 90*time.Second {
		t.Fatalf("expected timeout to persist, got %s", loaded.Search.Ripgrep.Timeout)
	}
	if len(loaded.Search.Elasticsearch.Addresses) != 1 {
		t.Fatalf("expected addresses to persist, got %v", loaded.Search.Elasticsearch.Addresses)
	}
}
