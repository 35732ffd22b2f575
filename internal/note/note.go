// Package note reads the note files the search backends operate on.
package note

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/notesearch/internal/constants"
)

// SearchableFields lists the note fields projected into the hosted index.
var SearchableFields = []string{"title", "content", "tags"}

var frontMatterRe = regexp.MustCompile(`(?ms)^---\s*\n(.*?)\n---\s*\n?`)

// Note is a single note file and its front matter.
type Note struct {
	ID      int      `yaml:"id"`
	Title   string   `yaml:"title"`
	Desc    string   `yaml:"desc"`
	Type    string   `yaml:"type"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
	Content string   `yaml:"-"`
	Path    string   `yaml:"-"`
}

// Load reads the note at path. The id and title fall back to the filename
// when the front matter does not carry them.
func Load(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	id, title, err := ParseFilename(path)
	if err != nil {
		return nil, err
	}

	n := &Note{}
	fm, body := splitFrontMatter(data)
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, n); err != nil {
			return nil, fmt.Errorf("parse front matter of %s: %w", path, err)
		}
	}

	if n.ID == 0 {
		n.ID = id
	}
	if strings.TrimSpace(n.Title) == "" {
		n.Title = title
	}
	n.Content = string(body)
	n.Path = filepath.Clean(path)
	return n, nil
}

// DocumentID is the key the note is stored under in the hosted index.
func (n *Note) DocumentID() int {
	return n.ID
}

// Searchable projects the fields in SearchableFields into a flat document.
func (n *Note) Searchable() map[string]any {
	doc := make(map[string]any, len(SearchableFields))
	for _, field := range SearchableFields {
		switch field {
		case "title":
			doc[field] = n.Title
		case "content":
			doc[field] = PlainText([]byte(n.Content))
		case "tags":
			tags := n.Tags
			if tags == nil {
				tags = []string{}
			}
			doc[field] = tags
		}
	}
	return doc
}

// Walk returns every note file under dir in lexical order.
func Walk(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error walking the path %q: %w", path, err)
		}
		if !d.IsDir() && IsNote(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// IsNote reports whether path carries the note extension.
// ErrNoteNotFound is returned by FindByID when no note carries the id.
var ErrNoteNotFound = errors.New("note not found")

// FindByID returns the path of the note whose filename starts with id.
// Files that do not follow the naming convention are skipped.
func FindByID(dir string, id int) (string, error) {
	paths, err := Walk(dir)
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		got, _, err := ParseFilename(path)
		if err != nil {
			continue
		}
		if got == id {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: id %d", ErrNoteNotFound, id)
}

func IsNote(path string) bool {
	return strings.EqualFold(filepath.Ext(path), constants.NoteExt)
}

func splitFrontMatter(data []byte) ([]byte, []byte) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if len(loc) < 4 || loc[0] != 0 {
		return nil, data
	}
	return data[loc[2]:loc[3]], data[loc[1]:]
}
