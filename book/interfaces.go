// Package book implements the contact reconciliation core: it merges raw
// rows from a relational contact source with ENS overrides from a flat
// preference store into immutable Contact values, and owns the mutation
// entry points for the two Ethereum identity fields.
//
// Production code wires the SQLite source and the JSON file preference
// store from packages db and prefs. Tests inject the in-memory fakes from
// the same packages so every reconciliation rule can be exercised without
// touching disk.
//
// The core is deliberately dumb about concurrency: it adds no locking and
// no caching, so a Book is as safe under concurrent callers as the two
// stores it was built from.
package book

import (
	"github.com/tranvictor/ethbook/common"
)

// ContactSource is the relational side of a contact book: one row per
// record kind per contact, all in one table, discriminated by RowKind.
// The name row doubles as the carrier of the Ethereum identity slot
// (its auxiliary column).
type ContactSource interface {
	// ListDataRows returns every row of the requested kinds in a single
	// pass, ordered by contact id ascending so callers can accumulate
	// per contact while streaming.
	ListDataRows(kinds ...common.RowKind) ([]common.DataRow, error)

	// ContactHeader fetches the display name and photo of one contact.
	// Returns common.ErrNotFound when the id has no record at all.
	ContactHeader(id string) (common.Header, error)

	// FieldValue reads the primary value of the contact's row of the
	// given kind (phone or email). ok is false when the row is absent.
	FieldValue(id string, kind common.RowKind) (string, bool, error)

	// AuxValue reads the auxiliary slot of the contact's name row.
	// ok is false when the contact has no name row.
	AuxValue(id string) (string, bool, error)

	// UpdateAuxValue overwrites the auxiliary slot of the contact's name
	// row. Returns false when the contact has no name row to update; no
	// row is created on this path.
	UpdateAuxValue(id, value string) (bool, error)

	// CreateContact inserts a new contact with its name, phone and email
	// rows as one atomic batch and returns the new id. An empty phone or
	// email skips that row.
	CreateContact(displayName, phone, email string) (string, error)
}

// PreferenceStore is the flat key-value side: it holds ENS fallbacks
// keyed by contact id, independent from the relational source. It never
// supplies wallet addresses.
type PreferenceStore interface {
	// EnsOverride returns the stored ENS fallback for the contact.
	// ok is false when none was ever saved.
	EnsOverride(id string) (string, bool)

	// SetEnsOverride persists the ENS fallback, durable after return.
	SetEnsOverride(id, value string) error
}
