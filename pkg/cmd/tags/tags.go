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
package tags

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notesearch/internal/state"
	"github.com/Paintersrp/notesearch/internal/views"
)

func NewCmdTags(s *state.State) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List every tag used across the notes.",
		Long: heredoc.Doc(`
			List the union of front-matter tags and embedded #tag# markers found
			in the notes directory, sorted and without duplicates.

			Examples:
			  notesearch tags
			  notesearch tags notes project
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTags(cmd.Context(), s, asJSON, cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print output as JSON")
	cmd.AddCommand(newCmdNotes(s, &asJSON))

	return cmd
}

func newCmdNotes(s *state.State, asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "notes [tag]",
		Short: "List notes with their front-matter tags.",
		Long: heredoc.Doc(`
			List every note that declares tags in its front matter, together with
			those tags. Given a tag, only notes carrying it are listed.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := ""
			if len(args) == 1 {
				tag = args[0]
			}
			return runNotes(cmd.Context(), s, tag, *asJSON, cmd.OutOrStdout())
		},
	}
}

func runTags(ctx context.Context, s *state.State, asJSON bool, out io.Writer) error {
	if s == nil || s.Search == nil {
		return errors.New("search is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tags, err := s.Search.QueryTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect tags: %w", err)
	}

	p := views.NewPrinter(out)
	if asJSON {
		return p.JSON(tags)
	}
	return p.Tags(tags)
}

func runNotes(ctx context.Context, s *state.State, tag string, asJSON bool, out io.Writer) error {
	if s == nil || s.Search == nil {
		return errors.New("search is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := s.Search.SearchFrontmatterTags(ctx, tag)
	if err != nil {
		return fmt.Errorf("failed to search front matter: %w", err)
	}

	p := views.NewPrinter(out)
	if asJSON {
		return p.JSON(results)
	}
	return p.Results(results)
}
