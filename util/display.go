package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tranvictor/ethbook/common"
	"github.com/tranvictor/ethbook/ui"
)

// ── Severity helpers ─────────────────────────────────────────────────────────

// styledName wraps a contact's display name in a plain StyledText. Names that
// somehow reach the display layer empty are rendered as a red placeholder so
// the defect is visible instead of producing a blank table cell.
func styledName(c common.Contact) ui.StyledText {
	name := strings.TrimSpace(c.DisplayName)
	if name == "" {
		return ui.StyledText{Text: "(no name)", Severity: ui.SeverityError}
	}
	return ui.StyledText{Text: name, Severity: ui.SeverityInfo}
}

// styledEth wraps a contact's wallet address in a StyledText.
// Present addresses are Success (green) and shown in EIP-55 checksum form;
// absent ones carry empty text and are rendered as "-" by the print phase.
func styledEth(c common.Contact) ui.StyledText {
	addr := strings.TrimSpace(c.EthAddress.UnwrapOr(""))
	if addr == "" {
		return ui.StyledText{Text: "", Severity: ui.SeverityInfo}
	}
	return ui.StyledText{Text: common.ChecksumAddress(addr), Severity: ui.SeveritySuccess}
}

// styledEns wraps a contact's ENS name in a StyledText.
// ENS names are Warn (yellow) since they are stored pointers that have not
// been resolved on-chain; absent ones carry empty text.
func styledEns(c common.Contact) ui.StyledText {
	name := strings.TrimSpace(c.EnsName.UnwrapOr(""))
	if name == "" {
		return ui.StyledText{Text: "", Severity: ui.SeverityInfo}
	}
	return ui.StyledText{Text: name, Severity: ui.SeverityWarn}
}

// identityKind classifies a contact for grouping and JSON output.
// The wallet address wins when both identity fields are populated.
func identityKind(c common.Contact) string {
	switch {
	case c.HasEthAddress():
		return IdentityWallet
	case c.HasEns():
		return IdentityEns
	default:
		return IdentityNone
	}
}

// ── Build phase (pure: no UI side-effects) ──────────────────────────────────

func buildContactDisplay(c common.Contact) ContactDisplay {
	return ContactDisplay{
		ID:       c.ID,
		Name:     styledName(c),
		Phone:    c.Phone.UnwrapOr(""),
		Email:    c.Email.UnwrapOr(""),
		Photo:    c.PhotoURI.UnwrapOr(""),
		Eth:      styledEth(c),
		Ens:      styledEns(c),
		Identity: identityKind(c),
	}
}

func buildContactListDisplay(contacts []common.Contact) *ContactListDisplay {
	d := &ContactListDisplay{
		Total:    len(contacts),
		Contacts: make([]ContactDisplay, 0, len(contacts)),
	}
	for _, c := range contacts {
		d.Contacts = append(d.Contacts, buildContactDisplay(c))
	}
	return d
}

func buildSearchDisplay(query string, hits []SearchHit) *SearchDisplay {
	d := &SearchDisplay{Query: query}
	for i, h := range hits {
		d.Hits = append(d.Hits, SearchHitDisplay{
			Rank:    i + 1,
			Score:   h.Score,
			Contact: buildContactDisplay(h.Contact),
		})
	}
	return d
}

// ── Print phase (reads only from the display struct, colours via u.Style) ────

// cellOrDash renders a StyledText table cell, substituting "-" for empty text
// so optional columns stay scannable.
func cellOrDash(u ui.UI, t ui.StyledText) string {
	if t.Text == "" {
		return "-"
	}
	return u.Style(t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// contactListRow returns the [name, phone, email, address, ens] cells shared
// by the flat and the grouped listing tables.
func contactListRow(u ui.UI, d ContactDisplay) []string {
	return []string{
		u.Style(d.Name),
		orDash(d.Phone),
		orDash(d.Email),
		cellOrDash(u, d.Eth),
		cellOrDash(u, d.Ens),
	}
}

func printContactCard(u ui.UI, d *ContactDisplay) {
	base := [][]string{
		{"ID", d.ID},
		{"Name", u.Style(d.Name)},
		{"Phone", orDash(d.Phone)},
		{"Email", orDash(d.Email)},
	}
	if d.Photo != "" {
		base = append(base, []string{"Photo", d.Photo})
	}
	identity := [][]string{
		{"Address", cellOrDash(u, d.Eth)},
		{"ENS", cellOrDash(u, d.Ens)},
	}
	u.TableWithGroups(nil, [][][]string{base, identity})
}

func printContactTable(u ui.UI, d *ContactListDisplay) {
	if d.Total == 0 {
		u.Warn("No contacts to show")
		return
	}
	rows := make([][]string, len(d.Contacts))
	for i, c := range d.Contacts {
		rows[i] = contactListRow(u, c)
	}
	u.Table([]string{"Name", "Phone", "Email", "Address", "ENS"}, rows)
	u.Info("%d contact(s)", d.Total)
}

// printContactGroups renders the listing as one table where each identity
// class (wallet, ens, none) forms its own group separated by a divider. The
// class caption appears only in the first row of each group; subsequent rows
// in the same group have an empty identity cell.
func printContactGroups(u ui.UI, d *ContactListDisplay) {
	if d.Total == 0 {
		u.Warn("No contacts to show")
		return
	}
	captions := map[string]string{
		IdentityWallet: "Wallet",
		IdentityEns:    "ENS",
		IdentityNone:   "No identity",
	}
	var groups [][][]string
	for _, kind := range []string{IdentityWallet, IdentityEns, IdentityNone} {
		var group [][]string
		for _, c := range d.Contacts {
			if c.Identity != kind {
				continue
			}
			caption := ""
			if len(group) == 0 {
				caption = captions[kind]
			}
			group = append(group, append([]string{caption}, contactListRow(u, c)...))
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	u.TableWithGroups([]string{"Identity", "Name", "Phone", "Email", "Address", "ENS"}, groups)
	u.Info("%d contact(s)", d.Total)
}

func printSearchResults(u ui.UI, d *SearchDisplay) {
	if len(d.Hits) == 0 {
		u.Warn("No contacts matched '%s'", d.Query)
		return
	}
	u.Section("Search results")
	rows := make([][]string, len(d.Hits))
	for i, h := range d.Hits {
		rows[i] = []string{
			fmt.Sprintf("%d", h.Rank),
			u.Style(h.Contact.Name),
			cellOrDash(u, h.Contact.Eth),
			cellOrDash(u, h.Contact.Ens),
		}
	}
	u.Table([]string{"#", "Name", "Address", "ENS"}, rows)
}

// ── Public API ───────────────────────────────────────────────────────────────

// DisplayContact builds the view-model for a single contact and renders it as
// a bordered card: basic fields on top, the Ethereum identity block below.
func DisplayContact(u ui.UI, c common.Contact) *ContactDisplay {
	d := buildContactDisplay(c)
	printContactCard(u, &d)
	return &d
}

// DisplayContactList builds the view-model for a contact listing and renders
// it as a single flat table.
func DisplayContactList(u ui.UI, contacts []common.Contact) *ContactListDisplay {
	d := buildContactListDisplay(contacts)
	printContactTable(u, d)
	return d
}

// DisplayGroupedContactList builds the same view-model as DisplayContactList
// but renders contacts grouped by identity class, wallet contacts first.
func DisplayGroupedContactList(u ui.UI, contacts []common.Contact) *ContactListDisplay {
	d := buildContactListDisplay(contacts)
	printContactGroups(u, d)
	return d
}

// DisplaySearchResults builds the view-model for one query's hits and renders
// them as a ranked table. hits are assumed to be ordered best first.
func DisplaySearchResults(u ui.UI, query string, hits []SearchHit) *SearchDisplay {
	d := buildSearchDisplay(query, hits)
	printSearchResults(u, d)
	return d
}

// WriteJSON writes v to path as indented JSON. Failures are reported through
// u rather than returned since JSON output is best-effort alongside the
// terminal rendering.
func WriteJSON(u ui.UI, path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		u.Error("Writing to json file failed: %s", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		u.Error("Writing to json file failed: %s", err)
	}
}
