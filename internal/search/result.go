// Package search answers full-text and tag queries over the notes directory
// using either a hosted Elasticsearch index or a local ripgrep scan.
package search

import "sort"

// Query is a free-text search request. Strict only affects the hosted engine.
type Query struct {
	Text   string
	Strict bool
}

// Result is the backend-agnostic shape of a matching note.
type Result struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Matches []string `json:"matches,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Path    string   `json:"path,omitempty"`
}

// HasTag reports whether tag is one of the result's tags.
func (r Result) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type tagSet map[string]struct{}

func (s tagSet) add(tags ...string) {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		s[tag] = struct{}{}
	}
}

func (s tagSet) sorted() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// hitBuilder accumulates results per note id in discovery order.
type hitBuilder struct {
	order []int
	byID  map[int]*Result
	tags  map[int]tagSet
}

func newHitBuilder() *hitBuilder {
	return &hitBuilder{
		byID: make(map[int]*Result),
		tags: make(map[int]tagSet),
	}
}

// begin starts, or restarts, the entry for a note and returns it.
func (b *hitBuilder) begin(id int, title, path string) *Result {
	if _, ok := b.byID[id]; !ok {
		b.order = append(b.order, id)
	}
	r := &Result{ID: id, Title: title, Path: path, Matches: []string{}}
	b.byID[id] = r
	b.tags[id] = make(tagSet)
	return r
}

func (b *hitBuilder) addTags(id int, tags ...string) {
	b.tags[id].add(tags...)
}

func (b *hitBuilder) results() []Result {
	out := make([]Result, 0, len(b.order))
	for _, id := range b.order {
		r := *b.byID[id]
		if set := b.tags[id]; len(set) > 0 {
			r.Tags = set.sorted()
		}
		out = append(out, r)
	}
	return out
}
