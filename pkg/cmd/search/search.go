/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notesearch/internal/fzf"
	"github.com/Paintersrp/notesearch/internal/note"
	searchsvc "github.com/Paintersrp/notesearch/internal/search"
	"github.com/Paintersrp/notesearch/internal/state"
	"github.com/Paintersrp/notesearch/internal/views"
)

var writeClipboard = clipboard.WriteAll

var pickResult = func(results []searchsvc.Result, header string) (searchsvc.Result, error) {
	return fzf.NewFinder(results, header).Pick()
}

type options struct {
	strict      bool
	interactive bool
	copy        bool
	pretty      bool
	json        bool
}

func NewCmdSearch(s *state.State) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search note contents.",
		Long: heredoc.Doc(`
			Search runs a full-text query over the notes directory and prints every
			matching note with the lines that matched, most matches first.

			With an Elasticsearch backend, --strict keeps only notes whose highlighted
			text contains the query literally. The ripgrep backend is always literal
			and case-insensitive.

			Examples:
			  notesearch search kubernetes
			  notesearch search "weekly review" --strict
			  notesearch search deploy -i --copy
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), s, strings.Join(args, " "), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Only keep literal matches (elasticsearch)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Pick one result with a fuzzy finder")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy the path of the first or picked note")
	cmd.Flags().BoolVarP(&opts.pretty, "pretty", "p", false, "Render results as markdown")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print results as JSON")
	cmd.MarkFlagsMutuallyExclusive("pretty", "json")

	return cmd
}

func run(ctx context.Context, s *state.State, query string, opts options, out io.Writer) error {
	if s == nil || s.Search == nil {
		return errors.New("search is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := s.Search.Search(ctx, searchsvc.Query{Text: query, Strict: opts.strict})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if opts.interactive {
		picked, err := pickResult(results, fmt.Sprintf("Results for %q", query))
		if errors.Is(err, fzf.ErrNoSelection) {
			fmt.Fprintln(out, "No result selected")
			return nil
		}
		if err != nil {
			return err
		}
		results = []searchsvc.Result{picked}
	}

	p := views.NewPrinter(out)
	switch {
	case opts.json:
		err = p.JSON(results)
	case opts.pretty:
		err = p.Markdown(views.ResultsMarkdown(query, results))
	default:
		err = p.Results(results)
	}
	if err != nil {
		return err
	}

	if opts.copy && len(results) > 0 {
		return copyPath(s, results[0])
	}
	return nil
}

func copyPath(s *state.State, r searchsvc.Result) error {
	path := r.Path
	if path == "" {
		found, err := note.FindByID(s.Config.DataDir, r.ID)
		if err != nil {
			return err
		}
		path = found
	}

	if err := writeClipboard(path); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	s.Logger.Info("copied note path", "path", path)
	return nil
}
