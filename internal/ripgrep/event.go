package ripgrep

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Paintersrp/notesearch/internal/note"
)

// Kind classifies a decoded rg event.
type Kind int

const (
	KindDiscard Kind = iota
	KindBegin
	KindMatch
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindMatch:
		return "match"
	default:
		return "discard"
	}
}

// Event is one normalized line of rg --json output. Begin events carry the
// note identity, match events the trimmed line text.
type Event struct {
	Kind       Kind
	Path       string
	ID         int
	Title      string
	Text       string
	Submatches []string
}

// structuralPrefixes mark front-matter fields that are never search content.
var structuralPrefixes = []string{"tags: [", "title:"}

var errMissingField = errors.New("missing field")

type arbitraryData struct {
	Text  *string `json:"text"`
	Bytes string  `json:"bytes"`
}

func (d *arbitraryData) value() (string, error) {
	if d == nil {
		return "", errMissingField
	}
	if d.Text != nil {
		return *d.Text, nil
	}
	if d.Bytes != "" {
		raw, err := base64.StdEncoding.DecodeString(d.Bytes)
		if err != nil {
			return "", fmt.Errorf("decode bytes: %w", err)
		}
		return string(raw), nil
	}
	return "", errMissingField
}

type message struct {
	Type string `json:"type"`
	Data struct {
		Path       *arbitraryData `json:"path"`
		Lines      *arbitraryData `json:"lines"`
		Submatches []struct {
			Match arbitraryData `json:"match"`
		} `json:"submatches"`
	} `json:"data"`
}

// ParseEvent decodes one rg --json line. Match lines that are front-matter
// title or inline tag fields are discarded.
func ParseEvent(line []byte) (Event, error) {
	ev, err := DecodeEvent(line)
	if err != nil || ev.Kind != KindMatch {
		return ev, err
	}

	for _, prefix := range structuralPrefixes {
		if strings.HasPrefix(ev.Text, prefix) {
			return Event{Kind: KindDiscard}, nil
		}
	}
	return ev, nil
}

// DecodeEvent decodes one rg --json line without filtering match content.
// A begin event whose path does not follow the note filename convention is
// an error.
func DecodeEvent(line []byte) (Event, error) {
	var msg message
	if err := json.Unmarshal(line, &msg); err != nil {
		return Event{}, fmt.Errorf("ripgrep: decode event: %w", err)
	}

	switch msg.Type {
	case "begin":
		path, err := msg.Data.Path.value()
		if err != nil {
			return Event{}, fmt.Errorf("ripgrep: begin event path: %w", err)
		}
		id, title, err := note.ParseFilename(path)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindBegin, Path: path, ID: id, Title: title}, nil

	case "match":
		text, err := msg.Data.Lines.value()
		if err != nil {
			return Event{}, fmt.Errorf("ripgrep: match event lines: %w", err)
		}
		ev := Event{Kind: KindMatch, Text: strings.TrimSpace(text)}
		if path, err := msg.Data.Path.value(); err == nil {
			ev.Path = path
		}
		for _, sub := range msg.Data.Submatches {
			if s, err := sub.Match.value(); err == nil {
				ev.Submatches = append(ev.Submatches, s)
			}
		}
		return ev, nil

	default:
		return Event{Kind: KindDiscard}, nil
	}
}
