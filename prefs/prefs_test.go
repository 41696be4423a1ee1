package prefs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tranvictor/ethbook/prefs"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store := prefs.NewFileStore(path)

	if _, ok := store.EnsOverride("7"); ok {
		t.Fatalf("empty store: expected no override for contact 7")
	}

	if err := store.SetEnsOverride("7", "vitalik.eth"); err != nil {
		t.Fatalf("SetEnsOverride: %s", err)
	}

	got, ok := store.EnsOverride("7")
	if !ok || got != "vitalik.eth" {
		t.Errorf("EnsOverride: want (vitalik.eth, true), got (%q, %v)", got, ok)
	}

	// A fresh store over the same file sees the persisted value.
	reopened := prefs.NewFileStore(path)
	got, ok = reopened.EnsOverride("7")
	if !ok || got != "vitalik.eth" {
		t.Errorf("reopened EnsOverride: want (vitalik.eth, true), got (%q, %v)", got, ok)
	}
}

// The on-disk key layout is "ENS_" + contact id. Existing deployments hold
// data under these keys, so the layout is load-bearing, not cosmetic.
func TestFileStoreKeyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store := prefs.NewFileStore(path)

	if err := store.SetEnsOverride("42", "satoshi.eth"); err != nil {
		t.Fatalf("SetEnsOverride: %s", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading prefs file: %s", err)
	}
	var stored struct {
		Data map[string]string `json:"Data"`
	}
	if err := json.Unmarshal(content, &stored); err != nil {
		t.Fatalf("unmarshal prefs file: %s", err)
	}

	if got, ok := stored.Data["ENS_42"]; !ok || got != "satoshi.eth" {
		t.Errorf("want key %q = %q on disk, got %v", "ENS_42", "satoshi.eth", stored.Data)
	}
	if prefs.EnsKey("42") != "ENS_42" {
		t.Errorf("EnsKey: want ENS_42, got %q", prefs.EnsKey("42"))
	}
}

func TestFileStoreCorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("seeding corrupt file: %s", err)
	}

	store := prefs.NewFileStore(path)
	if _, ok := store.EnsOverride("7"); ok {
		t.Errorf("corrupt file: expected reads to degrade to absent")
	}

	// Writing after a corrupt load replaces the file with valid content.
	if err := store.SetEnsOverride("7", "a.eth"); err != nil {
		t.Fatalf("SetEnsOverride after corrupt load: %s", err)
	}
	got, ok := store.EnsOverride("7")
	if !ok || got != "a.eth" {
		t.Errorf("after rewrite: want (a.eth, true), got (%q, %v)", got, ok)
	}
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.json")
	store := prefs.NewFileStore(path)

	if err := store.SetEnsOverride("1", "x.eth"); err != nil {
		t.Fatalf("SetEnsOverride into missing dir: %s", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected prefs file to exist: %s", err)
	}
}

func TestMemMirrorsKeyLayout(t *testing.T) {
	m := prefs.NewMem()
	if err := m.SetEnsOverride("9", "nick.eth"); err != nil {
		t.Fatalf("SetEnsOverride: %s", err)
	}
	if got, ok := m.Values["ENS_9"]; !ok || got != "nick.eth" {
		t.Errorf("want Values[ENS_9] = nick.eth, got %v", m.Values)
	}
	got, ok := m.EnsOverride("9")
	if !ok || got != "nick.eth" {
		t.Errorf("EnsOverride: want (nick.eth, true), got (%q, %v)", got, ok)
	}
}
