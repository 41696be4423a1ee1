package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ethbook/util"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find contacts by name or Ethereum identity",
	Long: `Find contacts matching the query, best match first. Lookups go through
the search index, which tolerates one typo and understands unicode names; when
the index has nothing, a looser fuzzy match over all contacts takes over.

A stale index is rebuilt automatically before searching.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		u := appUI()
		query := strings.Join(args, " ")

		b, src, paths, err := openBook()
		if err != nil {
			u.Error("Couldn't open the contact book: %s", err)
			return
		}
		defer src.Close()

		idx, err := openIndex(u, b, src, paths)
		if err != nil {
			u.Error("Couldn't open the contact index: %s", err)
			return
		}
		defer idx.Close()

		hits, err := util.SearchContacts(query, idx, b.ListAll())
		if err != nil {
			u.Error("Searching failed: %s", err)
			return
		}

		writeJSONIfRequested(u, util.DisplaySearchResults(u, query, hits))
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
