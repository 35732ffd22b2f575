package state

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Paintersrp/notesearch/internal/config"
	"github.com/Paintersrp/notesearch/internal/pathutil"
	"github.com/Paintersrp/notesearch/internal/search"
)

type State struct {
	Config *config.Config
	Home   string
	Logger *slog.Logger
	Search *search.Service
}

// NewState loads the config file, applies overrides from v and wires the
// search service.
func NewState(v *viper.Viper) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home, v)
	if err != nil {
		return nil, err
	}

	return FromConfig(cfg, home, os.Stderr)
}

// FromConfig builds a State around an already loaded config. Logs go to w.
func FromConfig(cfg *config.Config, home string, w io.Writer) (*State, error) {
	cfg.DataDir = pathutil.ExpandHome(cfg.DataDir, home)
	if err := cfg.RequireDataDir(); err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.LogLevel, w)
	svc, err := search.NewService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure search: %w", err)
	}

	return &State{
		Config: cfg,
		Home:   home,
		Logger: logger,
		Search: svc,
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string, v *viper.Viper) (*config.Config, error) {
	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyOverrides(v); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewLogger returns a text logger at the named level. Unknown levels fall
// back to info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
