package util

import (
	"fmt"
	"strings"

	"github.com/tranvictor/ethbook/bleve"
	"github.com/tranvictor/ethbook/book"
	"github.com/tranvictor/ethbook/common"
	"github.com/tranvictor/ethbook/db"
	"github.com/tranvictor/ethbook/ui"
)

// SearchHit is one matched contact with its match score. Scores from the
// indexed path and the fuzzy path use different scales, so they are only
// comparable within a single result set.
type SearchHit struct {
	Contact common.Contact
	Score   int
}

// identitySlot returns the single identity string used for search entries and
// candidate labels. The wallet address wins when both fields are populated.
func identitySlot(c common.Contact) string {
	return c.EthAddress.Alt(c.EnsName).UnwrapOr("")
}

// RefreshIndex rebuilds idx from contacts when its recorded generation no
// longer matches gen. A spinner is shown since reindexing a large book takes
// a moment. No-op when the index is already fresh.
func RefreshIndex(u ui.UI, idx *bleve.Index, gen string, contacts []common.Contact) error {
	if !idx.Stale(gen) {
		return nil
	}
	stop := u.Spinner("Rebuilding search index...")
	defer stop()
	entries := make(map[string]bleve.IndexEntry, len(contacts))
	for _, c := range contacts {
		entries[c.ID] = bleve.NewIndexEntry(c.DisplayName, identitySlot(c))
	}
	return idx.Reindex(gen, entries)
}

// SearchContacts searches the book for input, best match first. The bleve
// index is consulted first; when it yields nothing (e.g. a heavily misspelled
// name) the fuzzy matcher over all contacts serves as fallback.
func SearchContacts(input string, idx *bleve.Index, contacts []common.Contact) ([]SearchHit, error) {
	byID := make(map[string]common.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}

	descs, scores, err := idx.Search(input)
	if err != nil {
		return nil, fmt.Errorf("searching contact index: %w", err)
	}
	var hits []SearchHit
	for i, desc := range descs {
		c, ok := byID[desc.ID]
		if !ok {
			// index entry with no backing contact, skip
			continue
		}
		hits = append(hits, SearchHit{Contact: c, Score: scores[i]})
	}
	if len(hits) > 0 {
		return hits, nil
	}

	fuzzyDescs, fuzzyScores := db.GetContacts(input, contacts)
	for i, desc := range fuzzyDescs {
		c, ok := byID[desc.ID]
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{Contact: c, Score: fuzzyScores[i]})
	}
	return hits, nil
}

// ResolveContact resolves what the user typed into exactly one contact.
// Resolution order: contact id, exact display name (case-insensitive), then
// search. When several candidates remain the user picks one interactively.
func ResolveContact(u ui.UI, b *book.Book, idx *bleve.Index, ref string) (common.Contact, error) {
	if c, err := b.GetByID(ref); err == nil {
		return c, nil
	}

	contacts := b.ListAll()
	var nameMatches []common.Contact
	for _, c := range contacts {
		if strings.EqualFold(c.DisplayName, ref) {
			nameMatches = append(nameMatches, c)
		}
	}
	if len(nameMatches) == 1 {
		return nameMatches[0], nil
	}
	if len(nameMatches) > 1 {
		return chooseContact(u, ref, nameMatches), nil
	}

	hits, err := SearchContacts(ref, idx, contacts)
	if err != nil {
		return common.Contact{}, err
	}
	switch len(hits) {
	case 0:
		return common.Contact{}, fmt.Errorf("No contact is found with '%s'", ref)
	case 1:
		return hits[0].Contact, nil
	}
	candidates := make([]common.Contact, len(hits))
	for i, h := range hits {
		candidates[i] = h.Contact
	}
	return chooseContact(u, ref, candidates), nil
}

func chooseContact(u ui.UI, ref string, candidates []common.Contact) common.Contact {
	options := make([]string, len(candidates))
	for i, c := range candidates {
		label := c.DisplayName
		if slot := identitySlot(c); slot != "" {
			label = fmt.Sprintf("%s (%s)", c.DisplayName, slot)
		}
		options[i] = label
	}
	picked := u.Choose(fmt.Sprintf("Which contact did you mean by '%s'?", ref), options)
	return candidates[picked]
}
