package views

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Paintersrp/notesearch/internal/search"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0AF"))
	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666"))
	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD"))
	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

// Printer writes search output, styled only when Styled is set.
type Printer struct {
	Out    io.Writer
	Styled bool
}

// NewPrinter styles output when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{Out: w, Styled: IsTerminal(w)}
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.Styled {
		return s
	}
	return style.Render(s)
}

// Results prints one block per result: a heading line, then each match.
func (p *Printer) Results(results []search.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(p.Out, p.render(emptyStyle, "No results."))
		return err
	}

	var b strings.Builder
	for _, r := range results {
		b.WriteString(p.render(idStyle, fmt.Sprintf("[%d]", r.ID)))
		b.WriteString(" ")
		b.WriteString(p.render(titleStyle, r.Title))
		if len(r.Matches) > 0 {
			b.WriteString(" ")
			b.WriteString(p.render(countStyle, fmt.Sprintf("(%d)", len(r.Matches))))
		}
		if len(r.Tags) > 0 {
			b.WriteString(" ")
			b.WriteString(p.render(tagStyle, strings.Join(r.Tags, ", ")))
		}
		b.WriteString("\n")

		for _, m := range r.Matches {
			b.WriteString("  ")
			b.WriteString(p.render(matchStyle, m))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(p.Out, b.String())
	return err
}

// Tags prints one tag per line.
func (p *Printer) Tags(tags []string) error {
	if len(tags) == 0 {
		_, err := fmt.Fprintln(p.Out, p.render(emptyStyle, "No tags."))
		return err
	}

	for _, tag := range tags {
		if _, err := fmt.Fprintln(p.Out, p.render(tagStyle, tag)); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ResultsMarkdown lays results out as a markdown document.
func ResultsMarkdown(query string, results []search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Results for `%s`\n\n", query)
	if len(results) == 0 {
		b.WriteString("_No results._\n")
		return b.String()
	}

	for _, r := range results {
		fmt.Fprintf(&b, "## %s\n\n", r.Title)
		fmt.Fprintf(&b, "id `%d`", r.ID)
		if len(r.Tags) > 0 {
			fmt.Fprintf(&b, " · tags: %s", strings.Join(r.Tags, ", "))
		}
		b.WriteString("\n\n")
		for _, m := range r.Matches {
			fmt.Fprintf(&b, "> %s\n>\n", m)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders md with glamour. Unstyled printers get the raw text.
func (p *Printer) Markdown(md string) error {
	if !p.Styled {
		_, err := io.WriteString(p.Out, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(p.Out, out)
	return err
}
