package book_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/tranvictor/ethbook/book"
	"github.com/tranvictor/ethbook/common"
	"github.com/tranvictor/ethbook/db"
	"github.com/tranvictor/ethbook/prefs"
)

const (
	addrA = "0x63825c174ab367968ec60f061753d3bbd36a0d8f"
	addrB = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
)

func newTestBook() (*book.Book, *db.Mem, *prefs.Mem) {
	src := db.NewMem()
	pr := prefs.NewMem()
	return book.NewBook(src, pr), src, pr
}

// ---------------------------------------------------------------------------
// Listing and reconciliation
// ---------------------------------------------------------------------------

func TestListAllSortsByDisplayNameCaseInsensitively(t *testing.T) {
	b, src, _ := newTestBook()
	src.Add("bob", "", "", "")
	src.Add("Alice", "", "", "")
	src.Add("charlie", "", "", "")

	contacts := b.ListAll()
	if len(contacts) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(contacts))
	}
	wantOrder := []string{"Alice", "bob", "charlie"}
	for i, want := range wantOrder {
		if contacts[i].DisplayName != want {
			t.Errorf("position %d: want %q, got %q", i, want, contacts[i].DisplayName)
		}
	}
}

func TestListAllClassifiesAuxColumn(t *testing.T) {
	b, src, _ := newTestBook()
	withAddr := src.Add("Alice", "+1-555-0100", "alice@example.com", addrA)
	withEns := src.Add("Bob", "", "", "bob.eth")
	withJunk := src.Add("Carol", "", "", "met at devcon")
	withNothing := src.Add("Dave", "", "", "")

	byID := map[string]common.Contact{}
	for _, c := range b.ListAll() {
		byID[c.ID] = c
	}

	if c := byID[withAddr]; c.EthAddress.UnwrapOr("") != addrA || c.EnsName.IsSome() {
		t.Errorf("address aux: want EthAddress only, got %+v", c)
	}
	if c := byID[withEns]; c.EnsName.UnwrapOr("") != "bob.eth" || c.EthAddress.IsSome() {
		t.Errorf("ens aux: want EnsName only, got %+v", c)
	}
	if c := byID[withJunk]; c.EthAddress.IsSome() || c.EnsName.IsSome() {
		t.Errorf("junk aux: want neither field, got %+v", c)
	}
	if c := byID[withNothing]; c.EthAddress.IsSome() || c.EnsName.IsSome() {
		t.Errorf("empty aux: want neither field, got %+v", c)
	}

	if c := byID[withAddr]; c.Phone.UnwrapOr("") != "+1-555-0100" || c.Email.UnwrapOr("") != "alice@example.com" {
		t.Errorf("plain fields: want phone and email carried over, got %+v", c)
	}
}

// Store-derived ENS beats the preference store override.
func TestEnsPrecedence(t *testing.T) {
	b, src, pr := newTestBook()
	id := src.Add("Alice", "", "", "a.eth")
	if err := pr.SetEnsOverride(id, "b.eth"); err != nil {
		t.Fatalf("SetEnsOverride: %s", err)
	}

	contacts := b.ListAll()
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	if got := contacts[0].EnsName.UnwrapOr(""); got != "a.eth" {
		t.Errorf("EnsName: want a.eth (store wins over override), got %q", got)
	}
}

// The override fills the gap when the aux column holds an address, giving
// a contact with both Ethereum fields populated.
func TestEnsOverrideFallback(t *testing.T) {
	b, src, pr := newTestBook()
	id := src.Add("Alice", "", "", addrA)
	if err := pr.SetEnsOverride(id, "c.eth"); err != nil {
		t.Fatalf("SetEnsOverride: %s", err)
	}

	c, err := b.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %s", err)
	}
	if got := c.EthAddress.UnwrapOr(""); got != addrA {
		t.Errorf("EthAddress: want %q, got %q", addrA, got)
	}
	if got := c.EnsName.UnwrapOr(""); got != "c.eth" {
		t.Errorf("EnsName: want c.eth from override, got %q", got)
	}
}

func TestListAllDegradesToEmptyOnSourceFailure(t *testing.T) {
	logBuf := bytes.Buffer{}
	src := db.NewMem()
	src.Add("Alice", "", "", "")
	src.ListErr = common.ErrPermissionDenied
	b := book.NewBook(src, prefs.NewMem(), book.WithLogger(common.NewLogger(&logBuf)))

	contacts := b.ListAll()
	if len(contacts) != 0 {
		t.Errorf("expected empty listing on permission denial, got %d contacts", len(contacts))
	}
	if !strings.Contains(logBuf.String(), "listing contact rows failed") {
		t.Errorf("expected a warning about the failed listing, got %q", logBuf.String())
	}
}

// A contact with only a phone row still lists, nameless, and its preference
// lookup still happens.
func TestListAllIncludesContactsWithoutNameRow(t *testing.T) {
	b, src, pr := newTestBook()
	id := src.AllocID()
	src.AddRow(common.DataRow{ContactID: id, Kind: common.RowPhone, Value: "+1-555-0199"})
	if err := pr.SetEnsOverride(id, "ghost.eth"); err != nil {
		t.Fatalf("SetEnsOverride: %s", err)
	}

	contacts := b.ListAll()
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	c := contacts[0]
	if c.DisplayName != "" {
		t.Errorf("DisplayName: want empty, got %q", c.DisplayName)
	}
	if got := c.Phone.UnwrapOr(""); got != "+1-555-0199" {
		t.Errorf("Phone: want +1-555-0199, got %q", got)
	}
	if got := c.EnsName.UnwrapOr(""); got != "ghost.eth" {
		t.Errorf("EnsName: want ghost.eth from override, got %q", got)
	}
	if c.EthAddress.IsSome() {
		t.Errorf("EthAddress: want none, got %q", c.EthAddress.UnwrapOr(""))
	}
}

// ---------------------------------------------------------------------------
// Point lookup
// ---------------------------------------------------------------------------

// Every contact a point lookup succeeds on must be field for field equal to
// its bulk listing entry.
func TestGetByIDMatchesListing(t *testing.T) {
	b, src, pr := newTestBook()
	src.Add("Alice", "+1-555-0100", "alice@example.com", addrA)
	src.Add("Bob", "", "bob@example.com", "bob.eth")
	withBoth := src.Add("Carol", "+1-555-0102", "", addrB)
	if err := pr.SetEnsOverride(withBoth, "carol.eth"); err != nil {
		t.Fatalf("SetEnsOverride: %s", err)
	}
	src.Add("Dave", "", "", "")

	for _, want := range b.ListAll() {
		got, err := b.GetByID(want.ID)
		if err != nil {
			t.Fatalf("GetByID(%s): %s", want.ID, err)
		}
		if got != want {
			t.Errorf("contact %s:\n  listing: %+v\n   lookup: %+v", want.ID, want, got)
		}
	}
}

func TestGetByIDNotFound(t *testing.T) {
	b, src, _ := newTestBook()
	src.Add("Alice", "", "", "")

	_, err := b.GetByID("999")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing id: want ErrNotFound, got %v", err)
	}

	// The header is the existence check: rows without a display name
	// report not found even though the listing includes them.
	nameless := src.AllocID()
	src.AddRow(common.DataRow{ContactID: nameless, Kind: common.RowEmail, Value: "x@example.com"})
	_, err = b.GetByID(nameless)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("nameless id: want ErrNotFound, got %v", err)
	}
}

func TestGetByIDPropagatesStoreFailure(t *testing.T) {
	b, src, _ := newTestBook()
	id := src.Add("Alice", "", "", "")
	src.HeaderErr = common.ErrPermissionDenied

	_, err := b.GetByID(id)
	if !errors.Is(err, common.ErrPermissionDenied) {
		t.Errorf("want ErrPermissionDenied, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Filtered views
// ---------------------------------------------------------------------------

func TestFilters(t *testing.T) {
	b, src, pr := newTestBook()
	walletOnly := src.Add("Alice", "", "", addrA)
	ensOnly := src.Add("Bob", "", "", "bob.eth")
	both := src.Add("Carol", "", "", addrB)
	if err := pr.SetEnsOverride(both, "carol.eth"); err != nil {
		t.Fatalf("SetEnsOverride: %s", err)
	}
	src.Add("Dave", "", "", "just a note")

	assertIDs(t, "ListWithWallet", b.ListWithWallet(), walletOnly, both)
	assertIDs(t, "ListWithEns", b.ListWithEns(), ensOnly, both)
	assertIDs(t, "ListWithEitherEthField", b.ListWithEitherEthField(), walletOnly, ensOnly, both)

	// The filters partition along ListAll: every filtered contact appears
	// in the either-view, and the either-view holds nothing more than the
	// union of the two narrow views.
	either := map[string]bool{}
	for _, c := range b.ListWithEitherEthField() {
		either[c.ID] = true
	}
	for _, c := range append(b.ListWithWallet(), b.ListWithEns()...) {
		if !either[c.ID] {
			t.Errorf("contact %s in a narrow filter but not in the either view", c.ID)
		}
		delete(either, c.ID)
	}
	if len(either) != 0 {
		t.Errorf("either view holds contacts outside the union: %v", either)
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestSetWalletAddress(t *testing.T) {
	b, src, _ := newTestBook()
	id := src.Add("Alice", "", "", "")

	ok, err := b.SetWalletAddress(id, addrA)
	if err != nil {
		t.Fatalf("SetWalletAddress: %s", err)
	}
	if !ok {
		t.Fatalf("SetWalletAddress: want true")
	}

	c, err := b.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %s", err)
	}
	if got := c.EthAddress.UnwrapOr(""); got != addrA {
		t.Errorf("EthAddress: want %q stored as given, got %q", addrA, got)
	}
}

// A malformed address is rejected before any store access.
func TestSetWalletAddressValidatesBeforeWriting(t *testing.T) {
	b, src, _ := newTestBook()
	id := src.Add("Alice", "", "", "")

	bad := []string{
		"not an address",
		"0x1234",
		"63825c174ab367968ec60f061753d3bbd36a0d8f",
		" " + addrA,
		"",
	}
	for _, addr := range bad {
		ok, err := b.SetWalletAddress(id, addr)
		if ok || !errors.Is(err, common.ErrInvalidAddress) {
			t.Errorf("SetWalletAddress(%q): want (false, ErrInvalidAddress), got (%v, %v)", addr, ok, err)
		}
	}
	if src.UpdateCalls != 0 {
		t.Errorf("want zero store writes for rejected addresses, got %d", src.UpdateCalls)
	}
}

// A valid address against a contact with no name row is a quiet miss, not
// an error, and never creates the missing row.
func TestSetWalletAddressWithoutNameRow(t *testing.T) {
	b, src, _ := newTestBook()
	id := src.AllocID()
	src.AddRow(common.DataRow{ContactID: id, Kind: common.RowPhone, Value: "+1-555-0199"})

	ok, err := b.SetWalletAddress(id, addrA)
	if err != nil {
		t.Fatalf("SetWalletAddress: %s", err)
	}
	if ok {
		t.Errorf("want false when no name row exists")
	}
	if src.UpdateCalls != 1 {
		t.Errorf("want exactly one attempted write, got %d", src.UpdateCalls)
	}
	for _, row := range src.Rows {
		if row.Kind == common.RowName {
			t.Errorf("no name row should have been created, found %+v", row)
		}
	}
}

// SetEnsName skips validation and leaves the preference store alone.
func TestSetEnsNameWritesAuxOnly(t *testing.T) {
	b, src, pr := newTestBook()
	id := src.Add("Alice", "", "", addrA)

	ok, err := b.SetEnsName(id, "alice.eth")
	if err != nil || !ok {
		t.Fatalf("SetEnsName: want (true, nil), got (%v, %v)", ok, err)
	}
	if len(pr.Values) != 0 {
		t.Errorf("SetEnsName must not touch the preference store, got %v", pr.Values)
	}

	c, err := b.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %s", err)
	}
	if got := c.EnsName.UnwrapOr(""); got != "alice.eth" {
		t.Errorf("EnsName: want alice.eth, got %q", got)
	}
	if c.EthAddress.IsSome() {
		t.Errorf("aux column was overwritten, address should be gone, got %q", c.EthAddress.UnwrapOr(""))
	}

	// No validation on this path: even a dotless string is written.
	ok, err = b.SetEnsName(id, "not-an-ens")
	if err != nil || !ok {
		t.Fatalf("SetEnsName(junk): want (true, nil), got (%v, %v)", ok, err)
	}
}

func TestSaveEnsOverrideWritesPrefsOnly(t *testing.T) {
	b, src, pr := newTestBook()
	id := src.Add("Alice", "", "", "")

	if err := b.SaveEnsOverride(id, "alice.eth"); err != nil {
		t.Fatalf("SaveEnsOverride: %s", err)
	}
	if got := pr.Values[prefs.EnsKey(id)]; got != "alice.eth" {
		t.Errorf("prefs: want alice.eth under %q, got %v", prefs.EnsKey(id), pr.Values)
	}
	if src.UpdateCalls != 0 {
		t.Errorf("SaveEnsOverride must not touch the relational source")
	}

	pr.Err = errors.New("disk full")
	if err := b.SaveEnsOverride(id, "x.eth"); err == nil {
		t.Errorf("want the store failure surfaced")
	}
}

// ---------------------------------------------------------------------------
// Contact creation
// ---------------------------------------------------------------------------

func TestCreateContact(t *testing.T) {
	b, _, pr := newTestBook()

	id, err := b.CreateContact(book.CreateParams{
		DisplayName: "Alice",
		Phone:       fn.Some("+1-555-0100"),
		EthAddress:  fn.Some(addrA),
	})
	if err != nil {
		t.Fatalf("CreateContact: %s", err)
	}

	c, err := b.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %s", err)
	}
	want := common.Contact{
		ID:          id,
		DisplayName: "Alice",
		Phone:       fn.Some("+1-555-0100"),
		EthAddress:  fn.Some(addrA),
	}
	if c != want {
		t.Errorf("created contact:\n  want %+v\n   got %+v", want, c)
	}
	if len(pr.Values) != 0 {
		t.Errorf("no ens given, prefs should stay empty, got %v", pr.Values)
	}
}

// When both identity fields are supplied the address takes the aux slot and
// the ENS name still lands in the preference store.
func TestCreateContactAddressWinsAuxSlot(t *testing.T) {
	b, _, pr := newTestBook()

	id, err := b.CreateContact(book.CreateParams{
		DisplayName: "Alice",
		EthAddress:  fn.Some(addrA),
		EnsName:     fn.Some("alice.eth"),
	})
	if err != nil {
		t.Fatalf("CreateContact: %s", err)
	}

	c, err := b.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %s", err)
	}
	if got := c.EthAddress.UnwrapOr(""); got != addrA {
		t.Errorf("EthAddress: want %q in the aux slot, got %q", addrA, got)
	}
	if got := c.EnsName.UnwrapOr(""); got != "alice.eth" {
		t.Errorf("EnsName: want alice.eth via the override, got %q", got)
	}
	if got := pr.Values[prefs.EnsKey(id)]; got != "alice.eth" {
		t.Errorf("prefs: want alice.eth persisted, got %v", pr.Values)
	}
}

func TestCreateContactFailsOnBatchFailure(t *testing.T) {
	b, src, _ := newTestBook()
	src.CreateErr = common.ErrPermissionDenied

	id, err := b.CreateContact(book.CreateParams{DisplayName: "Alice"})
	if id != "" || !errors.Is(err, common.ErrPermissionDenied) {
		t.Errorf("want (\"\", ErrPermissionDenied), got (%q, %v)", id, err)
	}
}

// The identity follow-ups are best effort: their failures are logged, the
// creation still reports success, and the later steps still run.
func TestCreateContactPartialSuccess(t *testing.T) {
	logBuf := bytes.Buffer{}
	src := db.NewMem()
	pr := prefs.NewMem()
	b := book.NewBook(src, pr, book.WithLogger(common.NewLogger(&logBuf)))

	src.UpdateErr = errors.New("locked")
	id, err := b.CreateContact(book.CreateParams{
		DisplayName: "Alice",
		EthAddress:  fn.Some(addrA),
		EnsName:     fn.Some("alice.eth"),
	})
	if err != nil {
		t.Fatalf("CreateContact: want success despite aux failure, got %s", err)
	}
	if id == "" {
		t.Fatalf("want the new id back")
	}
	if !strings.Contains(logBuf.String(), "attaching eth identity") {
		t.Errorf("expected a warning about the failed aux write, got %q", logBuf.String())
	}
	if got := pr.Values[prefs.EnsKey(id)]; got != "alice.eth" {
		t.Errorf("ens override must still be written after the aux failure, got %v", pr.Values)
	}

	// Same shape when only the preference write fails.
	logBuf.Reset()
	src.UpdateErr = nil
	pr.Err = errors.New("read-only file system")
	id, err = b.CreateContact(book.CreateParams{
		DisplayName: "Bob",
		EnsName:     fn.Some("bob.eth"),
	})
	if err != nil || id == "" {
		t.Fatalf("CreateContact: want success despite prefs failure, got (%q, %v)", id, err)
	}
	if !strings.Contains(logBuf.String(), "saving ens override") {
		t.Errorf("expected a warning about the failed override write, got %q", logBuf.String())
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func assertIDs(t *testing.T, label string, got []common.Contact, wantIDs ...string) {
	t.Helper()
	if len(got) != len(wantIDs) {
		t.Errorf("%s: want %d contacts, got %d", label, len(wantIDs), len(got))
		return
	}
	gotIDs := map[string]bool{}
	for _, c := range got {
		gotIDs[c.ID] = true
	}
	for _, id := range wantIDs {
		if !gotIDs[id] {
			t.Errorf("%s: missing contact %s", label, id)
		}
	}
}
