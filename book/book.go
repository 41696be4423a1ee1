package book

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/tranvictor/ethbook/common"
)

// Book reconciles the two stores into one consistent contact view. It holds
// no state of its own beyond the injected collaborators, so a single Book
// can serve a whole process.
type Book struct {
	source ContactSource
	prefs  PreferenceStore
	logger *log.Logger
}

type Option func(*Book)

// WithLogger routes the book's diagnostics to l instead of discarding them.
func WithLogger(l *log.Logger) Option {
	return func(b *Book) {
		b.logger = l
	}
}

func NewBook(source ContactSource, prefs PreferenceStore, opts ...Option) *Book {
	b := &Book{
		source: source,
		prefs:  prefs,
		logger: common.SilentLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// tempContact is the scratch record one contact accumulates into during a
// listing scan. It never leaves the package: finalize converts it into a
// Contact and the scratch map is discarded with the scan.
type tempContact struct {
	id          string
	named       bool
	displayName string
	phone       fn.Option[string]
	email       fn.Option[string]
	photoURI    fn.Option[string]
	aux         common.AuxValue
}

func (tc *tempContact) absorb(row common.DataRow) {
	switch row.Kind {
	case common.RowName:
		// At most one name row per contact; if the source hands over
		// more, the first one wins.
		if !tc.named {
			tc.named = true
			tc.displayName = row.Value
			tc.aux = common.Classify(row.Aux)
		}
	case common.RowPhone:
		tc.phone = fn.Some(row.Value)
	case common.RowEmail:
		tc.email = fn.Some(row.Value)
	case common.RowPhoto:
		if row.PhotoURI != "" {
			tc.photoURI = fn.Some(row.PhotoURI)
		}
	}
}

// finalize turns accumulated scratch into the immutable Contact, applying
// the ENS precedence rule: the classified aux column wins, the preference
// store override only fills the gap. The aux column is the only source of
// wallet addresses.
func (b *Book) finalize(tc *tempContact) common.Contact {
	c := common.Contact{
		ID:          tc.id,
		DisplayName: tc.displayName,
		Phone:       tc.phone,
		Email:       tc.email,
		PhotoURI:    tc.photoURI,
	}
	switch tc.aux.Kind {
	case common.AuxAddress:
		c.EthAddress = fn.Some(tc.aux.Raw)
	case common.AuxEns:
		c.EnsName = fn.Some(tc.aux.Raw)
	}
	if c.EnsName.IsNone() {
		if override, ok := b.prefs.EnsOverride(tc.id); ok {
			c.EnsName = fn.Some(override)
		}
	}
	return c
}

// ListAll returns every contact, sorted by display name case insensitively.
// Any source failure, permission denial included, degrades to an empty
// result with a warning: listing favors partial functionality over failing
// the caller. Contacts without a name row still list with an empty display
// name, and their preference lookup still happens.
func (b *Book) ListAll() []common.Contact {
	rows, err := b.source.ListDataRows(common.AllRowKinds...)
	if err != nil {
		b.logger.Warn("listing contact rows failed, returning no contacts", "err", err)
		return []common.Contact{}
	}

	order := []string{}
	scratch := map[string]*tempContact{}
	for _, row := range rows {
		tc, seen := scratch[row.ContactID]
		if !seen {
			tc = &tempContact{id: row.ContactID}
			scratch[row.ContactID] = tc
			order = append(order, row.ContactID)
		}
		tc.absorb(row)
	}

	contacts := make([]common.Contact, 0, len(order))
	for _, id := range order {
		contacts = append(contacts, b.finalize(scratch[id]))
	}
	common.SortContacts(contacts)
	return contacts
}

// GetByID looks up one contact. The header is the existence check: a
// missing record and a record with an empty display name both report
// common.ErrNotFound. For any id it succeeds on, the result is field for
// field identical to the ListAll entry for the same id.
func (b *Book) GetByID(id string) (common.Contact, error) {
	header, err := b.source.ContactHeader(id)
	if err != nil {
		return common.Contact{}, fmt.Errorf("looking up contact %s: %w", id, err)
	}
	if header.DisplayName == "" {
		return common.Contact{}, fmt.Errorf("contact %s has no display name: %w", id, common.ErrNotFound)
	}

	c := common.Contact{ID: id, DisplayName: header.DisplayName}
	if header.PhotoURI != "" {
		c.PhotoURI = fn.Some(header.PhotoURI)
	}

	phone, ok, err := b.source.FieldValue(id, common.RowPhone)
	if err != nil {
		return common.Contact{}, fmt.Errorf("reading contact %s phone: %w", id, err)
	}
	if ok {
		c.Phone = fn.Some(phone)
	}

	email, ok, err := b.source.FieldValue(id, common.RowEmail)
	if err != nil {
		return common.Contact{}, fmt.Errorf("reading contact %s email: %w", id, err)
	}
	if ok {
		c.Email = fn.Some(email)
	}

	aux, ok, err := b.source.AuxValue(id)
	if err != nil {
		return common.Contact{}, fmt.Errorf("reading contact %s aux field: %w", id, err)
	}
	if ok {
		switch v := common.Classify(aux); v.Kind {
		case common.AuxAddress:
			c.EthAddress = fn.Some(v.Raw)
		case common.AuxEns:
			c.EnsName = fn.Some(v.Raw)
		}
	}
	if c.EnsName.IsNone() {
		if override, ok := b.prefs.EnsOverride(id); ok {
			c.EnsName = fn.Some(override)
		}
	}
	return c, nil
}

// ListWithWallet returns the contacts carrying a wallet address.
func (b *Book) ListWithWallet() []common.Contact {
	return b.filter(common.Contact.HasEthAddress)
}

// ListWithEns returns the contacts carrying an ENS name, whichever store
// it came from.
func (b *Book) ListWithEns() []common.Contact {
	return b.filter(common.Contact.HasEns)
}

// ListWithEitherEthField returns the contacts carrying at least one of the
// two Ethereum identity fields.
func (b *Book) ListWithEitherEthField() []common.Contact {
	return b.filter(common.Contact.HasEitherEthField)
}

// Filters are plain predicates over ListAll. There is no separate query
// path, so they inherit its ordering and its degrade-to-empty behavior.
func (b *Book) filter(keep func(common.Contact) bool) []common.Contact {
	all := b.ListAll()
	result := make([]common.Contact, 0, len(all))
	for _, c := range all {
		if keep(c) {
			result = append(result, c)
		}
	}
	return result
}
