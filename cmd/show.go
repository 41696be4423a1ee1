package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ethbook/util"
)

var showCmd = &cobra.Command{
	Use:   "show <contact>",
	Short: "Show one contact's full card",
	Long: `Show a single contact with all stored fields and the Ethereum identity
block. The contact may be referenced by id, by exact name, or by anything
close enough for the search to resolve; several candidates prompt a choice.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		u := appUI()
		ref := strings.Join(args, " ")

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

		c, err := util.ResolveContact(u, b, idx, ref)
		if err != nil {
			u.Error("%s", err)
			return
		}

		writeJSONIfRequested(u, util.DisplayContact(u, c))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
