package search

import (
	"context"
	"testing"

	"github.com/Paintersrp/notesearch/internal/config"
)

func TestSelectEngine(t *testing.T) {
	tests := []struct {
		name     string
		engine   string
		rg       bool
		wantKind EngineKind
		wantOK   bool
	}{
		{"hosted ignores rg", config.EngineElasticsearch, true, EngineHosted, true},
		{"hosted without rg", config.EngineElasticsearch, false, EngineHosted, true},
		{"ripgrep configured", config.EngineRipgrep, false, EngineLocalScan, true},
		{"unset with rg installed", "", true, EngineLocalScan, true},
		{"unset without rg", "", false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := SelectEngine(config.SearchConfig{Engine: tt.engine}, tt.rg)
			if kind != tt.wantKind || ok != tt.wantOK {
				t.Fatalf("SelectEngine = (%v, %v), want (%v, %v)", kind, ok, tt.wantKind, tt.wantOK)
			}
		})
	}
}

func TestServiceDispatchesToHostedEngine(t *testing.T) {
	cluster := &fakeCluster{searchBody: twoHits}
	hosted := newTestElastic(t, cluster)
	runner := &fakeRunner{available: true}

	svc := NewServiceWithEngines(
		config.SearchConfig{Engine: config.EngineElasticsearch},
		hosted,
		newTestEngine(runner),
		nil,
	)

	results, err := svc.Search(context.Background(), Query{Text: "hello"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected hosted results, got %+v", results)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("ripgrep should not run when the hosted engine is selected")
	}

	ok, err := svc.AddToIndex(context.Background(), fakeDoc{id: 3, fields: map[string]any{"title": "t"}})
	if err != nil || !ok {
		t.Fatalf("AddToIndex = %v, %v", ok, err)
	}
	if err := svc.RemoveFromIndex(context.Background(), 3); err != nil {
		t.Fatalf("RemoveFromIndex returned error: %v", err)
	}
}

func TestServiceDispatchesToLocalEngine(t *testing.T) {
	runner := &fakeRunner{available: true, outputs: map[string]string{
		"hello": stream(begin("5-foo-My_Note.md"), match("hello world")),
	}}
	hosted, err := NewElasticEngine(config.SearchConfig{}, nil)
	if err != nil {
		t.Fatalf("NewElasticEngine returned error: %v", err)
	}

	for _, engine := range []string{config.EngineRipgrep, ""} {
		svc := NewServiceWithEngines(config.SearchConfig{Engine: engine}, hosted, newTestEngine(runner), nil)

		results, err := svc.Search(context.Background(), Query{Text: "hello", Strict: true})
		if err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if len(results) != 1 || results[0].ID != 5 {
			t.Fatalf("expected local results for engine %q, got %+v", engine, results)
		}
	}

	svc := NewServiceWithEngines(config.SearchConfig{Engine: config.EngineRipgrep}, hosted, newTestEngine(runner), nil)
	ok, err := svc.AddToIndex(context.Background(), fakeDoc{id: 1})
	if ok || err != nil {
		t.Fatalf("AddToIndex without hosted backend should be skipped, got %v %v", ok, err)
	}
	if err := svc.RemoveFromIndex(context.Background(), 1); err != nil {
		t.Fatalf("RemoveFromIndex without hosted backend returned %v", err)
	}
}

func TestServiceWithoutAnyBackend(t *testing.T) {
	hosted, err := NewElasticEngine(config.SearchConfig{}, nil)
	if err != nil {
		t.Fatalf("NewElasticEngine returned error: %v", err)
	}
	svc := NewServiceWithEngines(config.SearchConfig{}, hosted, newTestEngine(&fakeRunner{}), nil)

	if _, ok := svc.Engine(); ok {
		t.Fatalf("expected no engine to be selected")
	}

	results, err := svc.Search(context.Background(), Query{Text: "x"})
	if err != nil || len(results) != 0 {
		t.Fatalf("expected empty results, got %v err=%v", results, err)
	}

	notes, err := svc.SearchFrontmatterTags(context.Background(), "")
	if err != nil || len(notes) != 0 {
		t.Fatalf("expected no tagged notes, got %v err=%v", notes, err)
	}

	tags, err := svc.QueryTags(context.Background())
	if err != nil || len(tags) != 0 {
		t.Fatalf("expected no tags, got %v err=%v", tags, err)
	}
}

func TestNewServiceBuildsEngines(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Search.Ripgrep.Binary = "definitely-not-ripgrep-binary"

	svc, err := NewService(cfg, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	if svc.hosted.Configured() {
		t.Fatalf("hosted engine should not be configured by default")
	}
	if svc.local.Available() {
		t.Fatalf("missing rg binary should be unavailable")
	}
}
