package ripgrep

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Paintersrp/notesearch/internal/note"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "begin",
			line: `{"type":"begin","data":{"path":{"text":"/data/5-foo-My_Note.md"}}}`,
			want: Event{Kind: KindBegin, Path: "/data/5-foo-My_Note.md", ID: 5, Title: "My Note"},
		},
		{
			name: "begin with bytes path",
			line: `{"type":"begin","data":{"path":{"bytes":"OC1hLUJ5dGVzLm1k"}}}`,
			want: Event{Kind: KindBegin, Path: "8-a-Bytes.md", ID: 8, Title: "Bytes"},
		},
		{
			name: "match is trimmed",
			line: `{"type":"match","data":{"path":{"text":"5-foo-My_Note.md"},"lines":{"text":"  hello world\n"},"line_number":3,"submatches":[{"match":{"text":"hello"},"start":2,"end":7}]}}`,
			want: Event{Kind: KindMatch, Path: "5-foo-My_Note.md", Text: "hello world", Submatches: []string{"hello"}},
		},
		{
			name: "title field discarded",
			line: `{"type":"match","data":{"lines":{"text":"title: hello\n"}}}`,
			want: Event{Kind: KindDiscard},
		},
		{
			name: "inline tag field discarded",
			line: `{"type":"match","data":{"lines":{"text":"tags: [hello]\n"}}}`,
			want: Event{Kind: KindDiscard},
		},
		{
			name: "block tags marker kept",
			line: `{"type":"match","data":{"lines":{"text":"tags:\n"}}}`,
			want: Event{Kind: KindMatch, Text: "tags:"},
		},
		{
			name: "end discarded",
			line: `{"type":"end","data":{"path":{"text":"5-foo-My_Note.md"},"stats":{}}}`,
			want: Event{Kind: KindDiscard},
		},
		{
			name: "summary discarded",
			line: `{"type":"summary","data":{"elapsed_total":{"secs":0,"nanos":1}}}`,
			want: Event{Kind: KindDiscard},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvent([]byte(tt.line))
			if err != nil {
				t.Fatalf("ParseEvent returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseEvent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeEventKeepsStructuralLines(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"match","data":{"lines":{"text":"title: x\ntags:\n- a\n"}}}`))
	if err != nil {
		t.Fatalf("DecodeEvent returned error: %v", err)
	}
	if ev.Kind != KindMatch || ev.Text != "title: x\ntags:\n- a" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestParseEventErrors(t *testing.T) {
	_, err := ParseEvent([]byte(`{"type":"begin","data":{"path":{"text":"/data/readme.md"}}}`))
	if !errors.Is(err, note.ErrMalformedFilename) {
		t.Fatalf("expected ErrMalformedFilename, got %v", err)
	}

	if _, err := ParseEvent([]byte(`{"type":"begin","data":{}}`)); err == nil {
		t.Fatalf("expected error for begin without path")
	}

	if _, err := ParseEvent([]byte(`{"type":"match","data":{}}`)); err == nil {
		t.Fatalf("expected error for match without lines")
	}

	if _, err := ParseEvent([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestStream(t *testing.T) {
	output := []byte(`{"type":"begin","data":{"path":{"text":"5-foo-My_Note.md"}}}
{"type":"match","data":{"lines":{"text":"hello world\n"}}}
{"type":"match","data":{"lines":{"text":"title: hello\n"}}}

{"type":"end","data":{"path":{"text":"5-foo-My_Note.md"}}}
`)

	s := NewStream(output)
	var kinds []Kind
	for s.Next() {
		kinds = append(kinds, s.Event().Kind)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if !reflect.DeepEqual(kinds, []Kind{KindBegin, KindMatch}) {
		t.Fatalf("unexpected kinds %v", kinds)
	}

	raw := NewRawStream(output)
	count := 0
	for raw.Next() {
		count++
	}
	if count != 3 {
		t.Fatalf("raw stream yielded %d events, want 3", count)
	}
}

func TestStreamStopsOnError(t *testing.T) {
	output := []byte(`{"type":"begin","data":{"path":{"text":"5-foo-My_Note.md"}}}
{"type":"begin","data":{"path":{"text":"notes.md"}}}
{"type":"match","data":{"lines":{"text":"never reached\n"}}}
`)

	s := NewStream(output)
	if !s.Next() {
		t.Fatalf("expected first event")
	}
	if s.Next() {
		t.Fatalf("expected stream to stop at malformed filename")
	}
	if !errors.Is(s.Err(), note.ErrMalformedFilename) {
		t.Fatalf("expected ErrMalformedFilename, got %v", s.Err())
	}
	if s.Next() {
		t.Fatalf("stream should stay stopped after an error")
	}
}
