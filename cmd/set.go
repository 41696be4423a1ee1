package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ethbook/book"
	"github.com/tranvictor/ethbook/common"
	"github.com/tranvictor/ethbook/ui"
	"github.com/tranvictor/ethbook/util"
)

var setAddrCmd = &cobra.Command{
	Use:   "set-addr <contact> <0xaddress>",
	Short: "Attach a wallet address to a contact",
	Long: `Attach a wallet address to a contact. The address must be a valid
0x-prefixed hex address; it is validated before anything is written and shown
in EIP-55 checksum form afterwards. An existing identity must be confirmed
before it is replaced.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runSetCommand(args, func(u ui.UI, b *book.Book, c common.Contact, value string) bool {
			if !common.IsWalletAddress(value) {
				u.Error("'%s' is not a valid wallet address", value)
				return false
			}
			if !confirmIdentityOverwrite(u, c, "address") {
				u.Warn("Aborted, nothing was changed")
				return false
			}
			ok, err := b.SetWalletAddress(c.ID, value)
			if err != nil {
				u.Error("Attaching the address failed: %s", err)
				return false
			}
			if !ok {
				u.Error("Contact %s has no name row to carry an identity", c.ID)
				return false
			}
			u.Success("Attached %s to %s", common.ChecksumAddress(value), c.DisplayName)
			return true
		})
	},
}

var setEnsCmd = &cobra.Command{
	Use:   "set-ens <contact> <name.eth>",
	Short: "Attach an ENS name to a contact",
	Long: `Attach an ENS name to a contact. The name is written to the same
identity slot a wallet address would use, so setting one replaces the other.
The value is stored as typed; no on-chain resolution happens.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runSetCommand(args, func(u ui.UI, b *book.Book, c common.Contact, value string) bool {
			if !confirmIdentityOverwrite(u, c, "ENS name") {
				u.Warn("Aborted, nothing was changed")
				return false
			}
			ok, err := b.SetEnsName(c.ID, value)
			if err != nil {
				u.Error("Attaching the ENS name failed: %s", err)
				return false
			}
			if !ok {
				u.Error("Contact %s has no name row to carry an identity", c.ID)
				return false
			}
			u.Success("Attached %s to %s", value, c.DisplayName)
			return true
		})
	},
}

var setFallbackCmd = &cobra.Command{
	Use:   "set-fallback <contact> <name.eth>",
	Short: "Store an ENS fallback in preferences",
	Long: `Store an ENS name for a contact in the preference store instead of the
identity slot. The fallback shows up whenever the contact has no ENS name of
its own, which makes it useful for contacts whose slot is taken by a wallet
address.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runSetCommand(args, func(u ui.UI, b *book.Book, c common.Contact, value string) bool {
			if err := b.SaveEnsOverride(c.ID, value); err != nil {
				u.Error("Saving the ENS fallback failed: %s", err)
				return false
			}
			u.Success("Saved ENS fallback %s for %s", value, c.DisplayName)
			return true
		})
	},
}

// runSetCommand resolves the contact reference from all but the last arg,
// applies the mutation, and re-reads the contact so the final card reflects
// what was actually stored (including precedence between the identity slot
// and the preference fallback).
func runSetCommand(args []string, apply func(ui.UI, *book.Book, common.Contact, string) bool) {
	u := appUI()
	value := strings.TrimSpace(args[len(args)-1])
	ref := strings.Join(args[:len(args)-1], " ")

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

	if !apply(u, b, c, value) {
		return
	}

	updated, err := b.GetByID(c.ID)
	if err != nil {
		return
	}
	if strings.Contains(value, ".") && updated.EnsName.UnwrapOr("") != value {
		u.Warn("The identity slot's ENS name still takes precedence over the saved fallback")
	}
	writeJSONIfRequested(u, util.DisplayContact(u, updated))
}

// confirmIdentityOverwrite shows the identity currently occupying the slot
// and asks before replacing it. Contacts with an empty slot pass through.
func confirmIdentityOverwrite(u ui.UI, c common.Contact, what string) bool {
	current := c.EthAddress.Alt(c.EnsName).UnwrapOr("")
	if current == "" {
		return true
	}
	u.Critical("Contact %s currently carries '%s'", c.DisplayName, current)
	return u.Confirm(fmt.Sprintf("Replace it with the new %s?", what), false)
}

func init() {
	rootCmd.AddCommand(setAddrCmd)
	rootCmd.AddCommand(setEnsCmd)
	rootCmd.AddCommand(setFallbackCmd)
}
