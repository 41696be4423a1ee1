package util

import "github.com/tranvictor/ethbook/ui"

// Identity class labels used in ContactDisplay.Identity and as group captions
// in the grouped listing. A contact with both a wallet address and an ENS name
// is classed as a wallet contact since the address is the stronger identity.
const (
	IdentityWallet = "wallet"
	IdentityEns    = "ens"
	IdentityNone   = "none"
)

// ContactDisplay is the human-readable view-model for a single contact.
// StyledText values serialize to JSON as plain strings while the Severity
// annotation drives terminal coloring via u.Style.
type ContactDisplay struct {
	ID       string        `json:"id"`
	Name     ui.StyledText `json:"name"` // serializes as string
	Phone    string        `json:"phone,omitempty"`
	Email    string        `json:"email,omitempty"`
	Photo    string        `json:"photo,omitempty"`
	Eth      ui.StyledText `json:"eth_address"` // serializes as string
	Ens      ui.StyledText `json:"ens_name"`    // serializes as string
	Identity string        `json:"identity"`    // "wallet" | "ens" | "none"
}

// ContactListDisplay is the view-model for a contact listing.
type ContactListDisplay struct {
	Total    int              `json:"total"`
	Contacts []ContactDisplay `json:"contacts"`
}

// SearchHitDisplay pairs one matched contact with its rank and match score.
// The score scale differs between the indexed and the fuzzy search paths, so
// scores are only comparable within a single result set.
type SearchHitDisplay struct {
	Rank    int            `json:"rank"`
	Score   int            `json:"score"`
	Contact ContactDisplay `json:"contact"`
}

// SearchDisplay is the view-model for the results of one search query.
type SearchDisplay struct {
	Query string             `json:"query"`
	Hits  []SearchHitDisplay `json:"hits"`
}
