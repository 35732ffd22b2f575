package fzf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/notesearch/internal/search"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		in   search.Result
		want string
	}{
		{
			name: "matches and tags",
			in:   search.Result{ID: 3, Title: "Plan", Matches: []string{"a", "b"}, Tags: []string{"go", "work"}},
			want: "3 Plan (2) [Tags: go, work]",
		},
		{
			name: "no matches",
			in:   search.Result{ID: 8, Title: "Idea"},
			want: "8 Idea [No tags]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.in); got != tt.want {
				t.Fatalf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreviewMarkdownReadsNote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1-01-01-2024-Plan.md")
	if err := os.WriteFile(path, []byte("# Plan\nbody"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	got := PreviewMarkdown(search.Result{ID: 1, Title: "Plan", Path: path})
	if got != "# Plan\nbody" {
		t.Fatalf("expected note content, got %q", got)
	}
}

func TestPreviewMarkdownFallsBackToMatches(t *testing.T) {
	got := PreviewMarkdown(search.Result{
		ID:      2,
		Title:   "Gone",
		Path:    filepath.Join(t.TempDir(), "missing.md"),
		Matches: []string{"first hit", "second hit"},
		Tags:    []string{"x"},
	})

	for _, want := range []string{"# Gone", "- first hit", "- second hit", "_tags: x_"} {
		if !strings.Contains(got, want) {
			t.Fatalf("preview %q missing %q", got, want)
		}
	}
}

func TestPickWithoutResults(t *testing.T) {
	if _, err := NewFinder(nil, "").Pick(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestRenderPreviewIsCached(t *testing.T) {
	f := NewFinder([]search.Result{{ID: 1, Title: "Plan", Matches: []string{"ship it"}}}, "")

	if got := f.renderPreview(-1, 80, 20); got != "" {
		t.Fatalf("expected empty preview for no selection, got %q", got)
	}

	first := f.renderPreview(0, 80, 20)
	if !strings.Contains(first, "ship") {
		t.Fatalf("preview missing match text: %q", first)
	}
	if f.previews.Len() != 1 {
		t.Fatalf("expected one cached preview, got %d", f.previews.Len())
	}

	if again := f.renderPreview(0, 80, 20); again != first {
		t.Fatalf("expected cached preview to be reused")
	}
	f.renderPreview(0, 120, 20)
	if f.previews.Len() != 2 {
		t.Fatalf("expected a new entry for a new width, got %d", f.previews.Len())
	}
}
