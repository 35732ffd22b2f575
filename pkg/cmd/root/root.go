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
package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/notesearch/internal/constants"
	"github.com/Paintersrp/notesearch/internal/state"
	"github.com/Paintersrp/notesearch/pkg/cmd/index"
	"github.com/Paintersrp/notesearch/pkg/cmd/search"
	"github.com/Paintersrp/notesearch/pkg/cmd/tags"
)

// NewCmdRoot builds the command tree. s is filled in before any subcommand
// runs, once flags and environment overrides are known.
func NewCmdRoot(s *state.State) *cobra.Command {
	return newCmdRoot(s, viper.GetViper(), func(v *viper.Viper) (*state.State, error) {
		return state.NewState(v)
	})
}

func newCmdRoot(
	s *state.State,
	v *viper.Viper,
	load func(*viper.Viper) (*state.State, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notesearch",
		Aliases: []string{"ns"},
		Short:   "Full-text and tag search over a directory of markdown notes.",
		Long: heredoc.Doc(`
			notesearch finds notes by their content and tags. Queries go to an
			Elasticsearch index when one is configured, and otherwise to a live
			ripgrep scan of the notes directory.

			Examples:
			  notesearch search "release checklist"
			  notesearch tags
			  notesearch tags notes project
			  notesearch index rebuild
		`),
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := load(v)
			if err != nil {
				return err
			}
			*s = *loaded
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("data-dir", "", "Notes directory (overrides data_dir)")
	flags.String("engine", "", "Search backend: elasticsearch or ripgrep")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("index", "", "Elasticsearch index name")
	flags.StringSlice("es-address", nil, "Elasticsearch address (repeatable)")
	flags.String("rg", "", "Path to the ripgrep binary")
	flags.Duration("timeout", 0, "ripgrep timeout, e.g. 30s")

	v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	v.BindPFlag("engine", flags.Lookup("engine"))
	v.BindPFlag("log_level", flags.Lookup("log-level"))
	v.BindPFlag("index_name", flags.Lookup("index"))
	v.BindPFlag("es_addresses", flags.Lookup("es-address"))
	v.BindPFlag("rg_binary", flags.Lookup("rg"))
	v.BindPFlag("rg_timeout", flags.Lookup("timeout"))

	cmd.AddCommand(
		search.NewCmdSearch(s),
		tags.NewCmdTags(s),
		index.NewCmdIndex(s),
	)

	return cmd
}
