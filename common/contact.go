package common

import (
	"sort"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Contact is one reconciled contact record. It is a plain value: construct
// it fully, then treat it as immutable. Two contacts built from the same
// underlying rows compare equal with ==.
//
// DisplayName is the only field where "absent" and "empty" collapse into ""
// (the sources themselves never distinguish the two for names). Every other
// optional field keeps the distinction via fn.Option.
type Contact struct {
	ID          string
	DisplayName string

	Phone    fn.Option[string]
	Email    fn.Option[string]
	PhotoURI fn.Option[string]

	// EthAddress, when present, is a 0x-prefixed 40 hex digit string.
	// EnsName, when present, contains at least one dot. A single aux
	// column yields at most one of the two; both can be set only when
	// EnsName came from the preference store instead.
	EthAddress fn.Option[string]
	EnsName    fn.Option[string]
}

// HasEthAddress reports whether the contact carries a non-blank wallet address.
func (c Contact) HasEthAddress() bool {
	return strings.TrimSpace(c.EthAddress.UnwrapOr("")) != ""
}

// HasEns reports whether the contact carries a non-blank ENS name.
func (c Contact) HasEns() bool {
	return strings.TrimSpace(c.EnsName.UnwrapOr("")) != ""
}

// HasEitherEthField reports whether at least one Ethereum identity field is set.
func (c Contact) HasEitherEthField() bool {
	return c.HasEthAddress() || c.HasEns()
}

// SortContacts orders contacts by display name, case insensitively,
// ascending. The sort is stable so contacts with equal folded names keep
// their source order.
func SortContacts(contacts []Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].DisplayName) < strings.ToLower(contacts[j].DisplayName)
	})
}
