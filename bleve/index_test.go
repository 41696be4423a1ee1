package bleve

import (
	"testing"
)

func seededIndex(t *testing.T) *Index {
	t.Helper()

	ix, err := OpenMemOnly()
	if err != nil {
		t.Fatalf("OpenMemOnly: %v", err)
	}
	t.Cleanup(func() { ix.Close() })

	entries := map[string]IndexEntry{
		"1": NewIndexEntry("Vitalik Buterin", "vitalik.eth"),
		"2": NewIndexEntry("Nick Johnson", "0xb8c2c29ee19d8307cb7255e1cd9cbde883a267d5"),
		"3": NewIndexEntry("Satoshi", ""),
	}
	if err := ix.Reindex("gen-1", entries); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	return ix
}

func TestSearchByName(t *testing.T) {
	ix := seededIndex(t)

	results, scores, err := ix.Search("vitalik")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected hits for 'vitalik'")
	}
	if results[0].ID != "1" {
		t.Errorf("best hit: want contact 1, got %s (%q)", results[0].ID, results[0].Name)
	}
	if results[0].Name != "Vitalik Buterin" || results[0].Eth != "vitalik.eth" {
		t.Errorf("stored fields: got %+v", results[0])
	}
	if len(scores) != len(results) {
		t.Errorf("want one score per hit, got %d scores for %d hits", len(scores), len(results))
	}
}

func TestSearchByEnsFragment(t *testing.T) {
	ix := seededIndex(t)

	results, _, err := ix.Search("vitalik.eth")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 || results[0].ID != "1" {
		t.Fatalf("want contact 1 for its ens name, got %+v", results)
	}
}

// The fuzzy half of the disjunction tolerates one edit.
func TestSearchToleratesTypo(t *testing.T) {
	ix := seededIndex(t)

	results, _, err := ix.Search("satosi")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	found := false
	for _, r := range results {
		if r.ID == "3" {
			found = true
		}
	}
	if !found {
		t.Errorf("want contact 3 among hits for 'satosi', got %+v", results)
	}
}

func TestSearchNormalizesComposition(t *testing.T) {
	ix, err := OpenMemOnly()
	if err != nil {
		t.Fatalf("OpenMemOnly: %v", err)
	}
	defer ix.Close()

	// "é" as e + combining acute; the entry normalizes it to NFC.
	decomposed := "Amélie"
	if err := ix.Reindex("gen-1", map[string]IndexEntry{
		"7": NewIndexEntry(decomposed, ""),
	}); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	// Query with the precomposed form.
	results, _, err := ix.Search("Amélie")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 || results[0].ID != "7" {
		t.Errorf("want the decomposed entry to match the precomposed query, got %+v", results)
	}
}

func TestStalenessTracksGeneration(t *testing.T) {
	ix, err := OpenMemOnly()
	if err != nil {
		t.Fatalf("OpenMemOnly: %v", err)
	}
	defer ix.Close()

	if !ix.Stale("gen-1") {
		t.Errorf("fresh index should be stale against any real generation")
	}
	if err := ix.Reindex("gen-1", map[string]IndexEntry{
		"1": NewIndexEntry("Alice", ""),
	}); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if ix.Stale("gen-1") {
		t.Errorf("index should be fresh right after reindexing at gen-1")
	}
	if !ix.Stale("gen-2") {
		t.Errorf("index should be stale against a newer generation")
	}
}

func TestOpenPersistsMetaAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	ix, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := ix.Reindex("gen-42", map[string]IndexEntry{
		"1": NewIndexEntry("Alice", "alice.eth"),
	}); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if err := ix.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if reopened.Stale("gen-42") {
		t.Errorf("reopened index should remember its generation")
	}
	results, _, err := reopened.Search("alice")
	if err != nil {
		t.Fatalf("Search after reopen: %v", err)
	}
	if len(results) == 0 || results[0].ID != "1" {
		t.Errorf("want the persisted entry back, got %+v", results)
	}
}
