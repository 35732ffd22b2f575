package search

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Paintersrp/notesearch/internal/constants"
	"github.com/Paintersrp/notesearch/internal/ripgrep"
)

// Runner executes the line-search utility. *ripgrep.Runner satisfies it.
type Runner interface {
	Available() bool
	Run(ctx context.Context, args ...string) ([]byte, error)
}

var errMatchBeforeBegin = errors.New("search: ripgrep match event before any begin event")

// RipgrepEngine answers queries by scanning the notes directory with rg.
type RipgrepEngine struct {
	runner Runner
	dir    string
	logger *slog.Logger
}

func NewRipgrepEngine(runner Runner, dataDir string, logger *slog.Logger) *RipgrepEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &RipgrepEngine{runner: runner, dir: dataDir, logger: logger}
}

// Available reports whether the rg binary can be run.
func (e *RipgrepEngine) Available() bool {
	return e != nil && e.runner != nil && e.runner.Available()
}

func fullTextArgs(query, dir string) []string {
	return []string{
		"--no-config",
		"-i",
		"-t", constants.NoteFileType,
		"--json",
		"-e", query,
		dir,
	}
}

func frontmatterArgs(dir string) []string {
	return []string{
		"--no-config",
		"-U", "-o",
		"-t", constants.NoteFileType,
		"--json",
		"-e", FrontmatterPattern,
		dir,
	}
}

func embeddedTagArgs(dir string) []string {
	return []string{
		"--no-config",
		"-U", "-i", "-o",
		"-t", constants.NoteFileType,
		"--no-heading", "--with-filename",
		"-e", EmbeddedPattern,
		dir,
	}
}

// run executes rg. ok is false when rg is unavailable, which callers turn into
// an empty result rather than an error.
func (e *RipgrepEngine) run(ctx context.Context, mode string, args []string) (out []byte, ok bool, err error) {
	if !e.Available() {
		e.logger.Debug("ripgrep unavailable, returning no results", "mode", mode)
		return nil, false, nil
	}

	out, err = e.runner.Run(ctx, args...)
	if err != nil {
		if errors.Is(err, ripgrep.ErrNotFound) {
			e.logger.Debug("ripgrep unavailable, returning no results", "mode", mode, "err", err)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("search: ripgrep %s: %w", mode, err)
	}
	return out, true, nil
}

// Search runs a case-insensitive full-text query. Results are ordered by
// descending match count; files with equal counts keep discovery order.
func (e *RipgrepEngine) Search(ctx context.Context, q Query) ([]Result, error) {
	out, ok, err := e.run(ctx, "full-text", fullTextArgs(q.Text, e.dir))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Result{}, nil
	}

	return aggregateMatches(ripgrep.NewStream(out))
}

func aggregateMatches(s *ripgrep.Stream) ([]Result, error) {
	hits := newHitBuilder()
	var current *Result
	for s.Next() {
		ev := s.Event()
		switch ev.Kind {
		case ripgrep.KindBegin:
			current = hits.begin(ev.ID, ev.Title, ev.Path)
		case ripgrep.KindMatch:
			if current == nil {
				return nil, errMatchBeforeBegin
			}
			current.Matches = append(current.Matches, ev.Text)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	results := hits.results()
	sort.SliceStable(results, func(i, j int) bool {
		return len(results[i].Matches) > len(results[j].Matches)
	})
	return results, nil
}

// FrontmatterTags lists notes with their front-matter tags. When tag is not
// empty only notes carrying that tag are returned.
func (e *RipgrepEngine) FrontmatterTags(ctx context.Context, tag string) ([]Result, error) {
	out, ok, err := e.run(ctx, "front-matter tags", frontmatterArgs(e.dir))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Result{}, nil
	}

	results, err := aggregateFrontmatterTags(ripgrep.NewRawStream(out))
	if err != nil {
		return nil, err
	}

	if tag == "" {
		return results, nil
	}

	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.HasTag(tag) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func aggregateFrontmatterTags(s *ripgrep.Stream) ([]Result, error) {
	hits := newHitBuilder()
	current, started := 0, false
	for s.Next() {
		ev := s.Event()
		switch ev.Kind {
		case ripgrep.KindBegin:
			hits.begin(ev.ID, ev.Title, ev.Path)
			current, started = ev.ID, true
		case ripgrep.KindMatch:
			if !started {
				return nil, errMatchBeforeBegin
			}
			block := ev.Text
			if len(ev.Submatches) > 0 {
				block = strings.Join(ev.Submatches, "\n")
			}
			hits.addTags(current, ParseFrontmatterTags(block)...)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	results := hits.results()
	for i := range results {
		results[i].Matches = nil
	}
	return results, nil
}

// EmbeddedTags returns every #tag# found in note bodies.
func (e *RipgrepEngine) EmbeddedTags(ctx context.Context) ([]string, error) {
	out, ok, err := e.run(ctx, "embedded tags", embeddedTagArgs(e.dir))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}

	set := make(tagSet)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		set.add(ParseEmbeddedTag(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("search: read embedded tags: %w", err)
	}
	return set.sorted(), nil
}

// QueryTags returns the tag vocabulary: embedded tags plus every front-matter
// tag, sorted and without duplicates.
func (e *RipgrepEngine) QueryTags(ctx context.Context) ([]string, error) {
	embedded, err := e.EmbeddedTags(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := e.FrontmatterTags(ctx, "")
	if err != nil {
		return nil, err
	}

	set := make(tagSet)
	set.add(embedded...)
	for _, n := range notes {
		set.add(n.Tags...)
	}
	return set.sorted(), nil
}
