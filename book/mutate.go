package book

import (
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/tranvictor/ethbook/common"
)

// SetWalletAddress validates the address format and writes it to the
// contact's auxiliary slot. A malformed address returns
// common.ErrInvalidAddress before any store access, so callers can tell
// bad input from a failed write. (false, nil) means the contact has no
// name row to update; this path never creates one.
func (b *Book) SetWalletAddress(id, address string) (bool, error) {
	if !common.IsWalletAddress(address) {
		return false, fmt.Errorf("%q: %w", address, common.ErrInvalidAddress)
	}
	ok, err := b.source.UpdateAuxValue(id, address)
	if err != nil {
		return false, fmt.Errorf("writing wallet address of contact %s: %w", id, err)
	}
	return ok, nil
}

// SetEnsName writes an ENS name to the contact's auxiliary slot, the same
// slot SetWalletAddress uses. There is no format validation on this path,
// and the preference store is not touched: SaveEnsOverride is the separate
// entry point for that. The two persistence mechanisms stay independent.
func (b *Book) SetEnsName(id, ensName string) (bool, error) {
	ok, err := b.source.UpdateAuxValue(id, ensName)
	if err != nil {
		return false, fmt.Errorf("writing ens name of contact %s: %w", id, err)
	}
	return ok, nil
}

// SaveEnsOverride persists an ENS fallback in the preference store only.
// The relational source is not touched.
func (b *Book) SaveEnsOverride(id, ensName string) error {
	if err := b.prefs.SetEnsOverride(id, ensName); err != nil {
		return fmt.Errorf("saving ens override of contact %s: %w", id, err)
	}
	return nil
}

// CreateParams carries the fields of a new contact. DisplayName is the
// only required field.
type CreateParams struct {
	DisplayName string
	Phone       fn.Option[string]
	Email       fn.Option[string]
	EthAddress  fn.Option[string]
	EnsName     fn.Option[string]
}

// CreateContact inserts the base record (name, phone, email rows) as one
// atomic batch, then attaches the Ethereum identity with two follow-up
// writes: the aux slot gets the address if given, otherwise the ENS name;
// an ENS name is additionally saved as a preference store override whether
// or not the aux write happened or succeeded.
//
// The follow-ups are separate, best-effort writes. When one fails the
// contact still exists and its id is still returned; the failure is only
// logged. Callers that need certainty about the Ethereum fields should read
// the contact back.
func (b *Book) CreateContact(p CreateParams) (string, error) {
	id, err := b.source.CreateContact(p.DisplayName, p.Phone.UnwrapOr(""), p.Email.UnwrapOr(""))
	if err != nil {
		return "", fmt.Errorf("creating contact %q: %w", p.DisplayName, err)
	}

	aux := p.EthAddress.Alt(p.EnsName)
	if aux.IsSome() {
		ok, err := b.source.UpdateAuxValue(id, aux.UnwrapOr(""))
		if err != nil {
			b.logger.Warn("attaching eth identity to new contact failed", "id", id, "err", err)
		} else if !ok {
			b.logger.Warn("new contact has no name row to carry its eth identity", "id", id)
		}
	}

	p.EnsName.WhenSome(func(name string) {
		if err := b.prefs.SetEnsOverride(id, name); err != nil {
			b.logger.Warn("saving ens override for new contact failed", "id", id, "err", err)
		}
	})

	return id, nil
}
