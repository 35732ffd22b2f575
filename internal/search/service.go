package search

import (
	"context"
	"log/slog"

	"github.com/Paintersrp/notesearch/internal/config"
	"github.com/Paintersrp/notesearch/internal/ripgrep"
)

// EngineKind names a search backend.
type EngineKind int

const (
	EngineHosted EngineKind = iota + 1
	EngineLocalScan
)

func (k EngineKind) String() string {
	switch k {
	case EngineHosted:
		return config.EngineElasticsearch
	case EngineLocalScan:
		return config.EngineRipgrep
	default:
		return "none"
	}
}

// SelectEngine picks the backend for a query. The hosted engine wins when
// configured; otherwise the local scan is used when configured or when rg is
// installed. ok is false when neither applies.
func SelectEngine(cfg config.SearchConfig, rgAvailable bool) (EngineKind, bool) {
	switch {
	case cfg.Engine == config.EngineElasticsearch:
		return EngineHosted, true
	case cfg.Engine == config.EngineRipgrep || rgAvailable:
		return EngineLocalScan, true
	default:
		return 0, false
	}
}

// Engine answers free-text queries.
type Engine interface {
	Search(ctx context.Context, q Query) ([]Result, error)
}

// Service is the entry point used by the command layer.
type Service struct {
	cfg    config.SearchConfig
	hosted *ElasticEngine
	local  *RipgrepEngine
	logger *slog.Logger
}

// NewService wires both engines from cfg.
func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	hosted, err := NewElasticEngine(cfg.Search, logger)
	if err != nil {
		return nil, err
	}

	runner := ripgrep.NewRunner(cfg.Search.Ripgrep.Binary, cfg.Search.Ripgrep.Timeout, logger)
	local := NewRipgrepEngine(runner, cfg.DataDir, logger)

	return NewServiceWithEngines(cfg.Search, hosted, local, logger), nil
}

// NewServiceWithEngines assembles a Service from prebuilt engines.
func NewServiceWithEngines(
	cfg config.SearchConfig,
	hosted *ElasticEngine,
	local *RipgrepEngine,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, hosted: hosted, local: local, logger: logger}
}

func (s *Service) engine(kind EngineKind) Engine {
	if kind == EngineHosted {
		return s.hosted
	}
	return s.local
}

// Engine reports which backend a query would use right now.
func (s *Service) Engine() (EngineKind, bool) {
	return SelectEngine(s.cfg, s.local.Available())
}

// AddToIndex stores doc in the hosted index. It returns false when there is no
// hosted backend.
func (s *Service) AddToIndex(ctx context.Context, doc Indexable) (bool, error) {
	return s.hosted.Index(ctx, doc)
}

// RemoveFromIndex deletes the note with id from the hosted index.
func (s *Service) RemoveFromIndex(ctx context.Context, id int) error {
	return s.hosted.Remove(ctx, id)
}

// Search answers q with the selected engine. Without any usable engine it
// returns no results.
func (s *Service) Search(ctx context.Context, q Query) ([]Result, error) {
	kind, ok := s.Engine()
	if !ok {
		s.logger.Warn("no search backend configured and ripgrep not found")
		return []Result{}, nil
	}

	s.logger.Debug("searching", "engine", kind.String(), "strict", q.Strict)
	return s.engine(kind).Search(ctx, q)
}

// SearchFrontmatterTags lists notes with their front-matter tags, optionally
// restricted to notes carrying tag.
func (s *Service) SearchFrontmatterTags(ctx context.Context, tag string) ([]Result, error) {
	return s.local.FrontmatterTags(ctx, tag)
}

// QueryTags returns every tag used across the notes.
func (s *Service) QueryTags(ctx context.Context) ([]string, error) {
	return s.local.QueryTags(ctx)
}
