package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/ethbook/common"
	"github.com/tranvictor/ethbook/util"
)

var (
	listWalletOnly bool
	listEnsOnly    bool
	listEthOnly    bool
	listGrouped    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts, optionally filtered by Ethereum identity",
	Long: `List all contacts in the book, sorted by display name.

The filter flags narrow the listing down to contacts carrying a particular
kind of Ethereum identity. --grouped renders one table with the wallet, ens
and identity-less contacts in separate blocks.`,
	Run: func(cmd *cobra.Command, args []string) {
		u := appUI()

		set := 0
		for _, f := range []bool{listWalletOnly, listEnsOnly, listEthOnly} {
			if f {
				set++
			}
		}
		if set > 1 {
			u.Error("--wallet, --ens and --eth are mutually exclusive")
			return
		}

		b, src, _, err := openBook()
		if err != nil {
			u.Error("Couldn't open the contact book: %s", err)
			return
		}
		defer src.Close()

		var contacts []common.Contact
		switch {
		case listWalletOnly:
			contacts = b.ListWithWallet()
		case listEnsOnly:
			contacts = b.ListWithEns()
		case listEthOnly:
			contacts = b.ListWithEitherEthField()
		default:
			contacts = b.ListAll()
		}

		if listGrouped {
			writeJSONIfRequested(u, util.DisplayGroupedContactList(u, contacts))
		} else {
			writeJSONIfRequested(u, util.DisplayContactList(u, contacts))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listWalletOnly, "wallet", false, "only contacts with a wallet address")
	listCmd.Flags().BoolVar(&listEnsOnly, "ens", false, "only contacts with an ENS name")
	listCmd.Flags().BoolVar(&listEthOnly, "eth", false, "only contacts with any Ethereum identity")
	listCmd.Flags().BoolVarP(&listGrouped, "grouped", "g", false, "group the listing by identity class")
}
