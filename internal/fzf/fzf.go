package fzf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/notesearch/internal/cache"
	"github.com/Paintersrp/notesearch/internal/search"
)

const previewCacheSize = 64

// ErrNoSelection is returned when the picker is closed without a choice.
var ErrNoSelection = errors.New("no result selected")

// Finder lets the user pick one search result with a markdown preview.
type Finder struct {
	Header   string
	Query    string
	results  []search.Result
	labels   []string
	previews *cache.LRU[previewKey, string]
}

type previewKey struct {
	index int
	width int
}

func NewFinder(results []search.Result, header string) *Finder {
	labels := make([]string, len(results))
	for i, r := range results {
		labels[i] = Label(r)
	}
	return &Finder{
		Header:   header,
		results:  results,
		labels:   labels,
		previews: cache.NewLRU[previewKey, string](previewCacheSize),
	}
}

// Pick runs the fuzzy finder and returns the chosen result.
func (f *Finder) Pick() (search.Result, error) {
	if len(f.results) == 0 {
		return search.Result{}, ErrNoSelection
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if f.Query != "" {
		options = append(options, fuzzyfinder.WithQuery(f.Query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := fuzzyfinder.Find(f.results, func(i int) string {
		return f.labels[i]
	}, options...)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return search.Result{}, ErrNoSelection
	}
	if err != nil {
		return search.Result{}, fmt.Errorf("error selecting result: %w", err)
	}

	return f.results[idx], nil
}

// Label is the single-line entry shown for a result in the finder list.
func Label(r search.Result) string {
	label := fmt.Sprintf("%d %s", r.ID, r.Title)

	if n := len(r.Matches); n > 0 {
		label = fmt.Sprintf("%s (%d)", label, n)
	}

	if len(r.Tags) == 0 {
		return label + " [No tags]"
	}
	return fmt.Sprintf("%s [Tags: %s]", label, strings.Join(r.Tags, ", "))
}

// PreviewMarkdown returns the note body when it can be read, otherwise a
// markdown summary of the matched lines.
func PreviewMarkdown(r search.Result) string {
	if r.Path != "" {
		if content, err := os.ReadFile(r.Path); err == nil {
			return string(content)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	for _, m := range r.Matches {
		fmt.Fprintf(&b, "- %s\n", m)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "\n_tags: %s_\n", strings.Join(r.Tags, ", "))
	}
	return b.String()
}

func (f *Finder) renderPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	wrap := w - 4
	if wrap < 20 {
		wrap = 20
	}

	return f.previews.GetOrCompute(previewKey{i, wrap}, func() string {
		return renderMarkdown(PreviewMarkdown(f.results[i]), wrap)
	})
}

func renderMarkdown(md string, wrap int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "Error creating renderer"
	}

	markdown, err := r.Render(md)
	if err != nil {
		return "Error rendering markdown"
	}

	return markdown
}
