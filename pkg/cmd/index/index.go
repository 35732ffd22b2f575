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
package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notesearch/internal/note"
	"github.com/Paintersrp/notesearch/internal/state"
	"github.com/Paintersrp/notesearch/internal/watch"
)

// errNoIndex is returned when an index command runs without a reachable
// hosted index.
var errNoIndex = errors.New(
	"no Elasticsearch index is configured or reachable; set search.engine to elasticsearch",
)

func NewCmdIndex(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Maintain the Elasticsearch index.",
		Long: heredoc.Doc(`
			Keep the hosted search index in step with the notes directory.
			These commands do nothing useful with the ripgrep backend, which
			always scans the files directly.

			Examples:
			  notesearch index add ~/notes/12-03-09-2024-Reading_List.md
			  notesearch index remove 12
			  notesearch index rebuild
			  notesearch index watch
		`),
	}

	cmd.AddCommand(
		newCmdAdd(s),
		newCmdRemove(s),
		newCmdRebuild(s),
		newCmdWatch(s),
	)

	return cmd
}

func newCmdAdd(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "add [file]...",
		Short: "Index one or more note files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), s.Search, args, cmd.OutOrStdout())
		},
	}
}

func newCmdRemove(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [id]...",
		Short: "Remove notes from the index by id.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), s.Search, args, cmd.OutOrStdout())
		},
	}
}

func newCmdRebuild(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Index every note in the notes directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebuild(cmd.Context(), s.Search, s.Config.DataDir, cmd.OutOrStdout())
		},
	}
}

func newCmdWatch(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Update the index as notes change on disk.",
		Long: heredoc.Doc(`
			Watch the notes directory and index notes as they are written,
			removing them again when they are deleted or renamed. Runs until
			interrupted.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watch.New(s.Config.DataDir, s.Search, s.Logger)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", s.Config.DataDir, err)
			}
			defer w.Close()

			s.Logger.Info("watching notes", "dir", s.Config.DataDir)
			return w.Run(cmd.Context())
		},
	}
}

func runAdd(ctx context.Context, idx watch.Indexer, paths []string, out io.Writer) error {
	for _, path := range paths {
		n, err := note.Load(path)
		if err != nil {
			return err
		}

		ok, err := idx.AddToIndex(ctx, n)
		if err != nil {
			return err
		}
		if !ok {
			return errNoIndex
		}
		fmt.Fprintf(out, "Indexed %d %s\n", n.ID, n.Title)
	}
	return nil
}

func runRemove(ctx context.Context, idx watch.Indexer, args []string, out io.Writer) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid note id %q", arg)
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		if err := idx.RemoveFromIndex(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d\n", id)
	}
	return nil
}

func runRebuild(ctx context.Context, idx watch.Indexer, dir string, out io.Writer) error {
	paths, err := note.Walk(dir)
	if err != nil {
		return err
	}

	indexed, skipped := 0, 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := note.Load(path)
		if errors.Is(err, note.ErrMalformedFilename) {
			skipped++
			continue
		}
		if err != nil {
			return err
		}

		ok, err := idx.AddToIndex(ctx, n)
		if err != nil {
			return err
		}
		if !ok {
			return errNoIndex
		}
		indexed++
	}

	fmt.Fprintf(out, "Indexed %d notes", indexed)
	if skipped > 0 {
		fmt.Fprintf(out, ", skipped %d without an id", skipped)
	}
	fmt.Fprintln(out)
	return nil
}
