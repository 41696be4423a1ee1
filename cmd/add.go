package cmd

import (
	"fmt"
	"strings"

	fn "github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/tranvictor/ethbook/book"
	"github.com/tranvictor/ethbook/common"
	"github.com/tranvictor/ethbook/util"
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new contact interactively",
	Long: `Add a contact through a short interactive flow. Phone, email and the
Ethereum identity are optional; a typed identity is classified as a wallet
address or an ENS name automatically and stored accordingly.

The name can be given as arguments to skip the first prompt:

	ethbook add Alice Nguyen`,
	Run: func(cmd *cobra.Command, args []string) {
		u := appUI()

		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			u.Info("Name")
			name = strings.TrimSpace(u.Ask(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("a contact needs a name")
				}
				return nil
			}))
		}

		u.Info("Phone (optional)")
		phone := strings.TrimSpace(u.Ask(nil))

		u.Info("Email (optional)")
		email := strings.TrimSpace(u.Ask(nil))

		u.Info("Wallet address or ENS name (optional)")
		identity := strings.TrimSpace(u.Ask(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil
			}
			if common.Classify(s).Kind == common.AuxOther {
				return fmt.Errorf("enter a 0x wallet address or an ENS name, or leave empty")
			}
			return nil
		}))

		p := book.CreateParams{DisplayName: name}
		if phone != "" {
			p.Phone = fn.Some(phone)
		}
		if email != "" {
			p.Email = fn.Some(email)
		}
		switch common.Classify(identity).Kind {
		case common.AuxAddress:
			p.EthAddress = fn.Some(identity)
			u.Interpret(fmt.Sprintf("wallet address (%s)", common.ChecksumAddress(identity)))
		case common.AuxEns:
			p.EnsName = fn.Some(identity)
			u.Interpret(fmt.Sprintf("ens name (%s)", identity))
		default:
			u.Interpret("no Ethereum identity")
		}

		u.Critical("About to create this contact:")
		preview := [][2]string{{"Name", name}}
		if phone != "" {
			preview = append(preview, [2]string{"Phone", phone})
		}
		if email != "" {
			preview = append(preview, [2]string{"Email", email})
		}
		p.EthAddress.WhenSome(func(addr string) {
			preview = append(preview, [2]string{"Address", common.ChecksumAddress(addr)})
		})
		p.EnsName.WhenSome(func(ens string) {
			preview = append(preview, [2]string{"ENS", ens})
		})
		u.KeyValue(preview)

		if !u.Confirm("Create this contact?", true) {
			u.Warn("Aborted, nothing was created")
			return
		}

		b, src, _, err := openBook()
		if err != nil {
			u.Error("Couldn't open the contact book: %s", err)
			return
		}
		defer src.Close()

		id, err := b.CreateContact(p)
		if err != nil {
			u.Error("Creating the contact failed: %s", err)
			return
		}
		u.Success("Created contact %s with id %s", name, id)

		// Read the contact back so the card reflects what was actually stored.
		created, err := b.GetByID(id)
		if err != nil {
			return
		}
		writeJSONIfRequested(u, util.DisplayContact(u, created))
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
