// Package bleve maintains the full-text contact index used by search. The
// index is a cache over reconciled contacts: it carries the generation
// token of the contact database snapshot it was built from, so consumers
// can tell with one read whether it needs rebuilding.
package bleve

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"golang.org/x/text/unicode/norm"
)

// ContactDesc is one search hit: the indexed name and rendered Ethereum
// identity of a contact. The contact id is the bleve document id.
type ContactDesc struct {
	ID   string
	Name string
	Eth  string
}

// IndexEntry is what gets indexed per contact. Text is the NFC-normalized
// concatenation of every searchable fragment, so display names typed with
// different composition forms still match.
type IndexEntry struct {
	Name string `json:"name"`
	Eth  string `json:"eth"`
	Text string `json:"text"`
}

// NewIndexEntry builds the indexed form of one contact's searchable fields.
func NewIndexEntry(name, eth string) IndexEntry {
	name = norm.NFC.String(name)
	eth = norm.NFC.String(eth)
	return IndexEntry{
		Name: name,
		Eth:  eth,
		Text: name + " " + eth,
	}
}

type indexMeta struct {
	Generation string
}

// Index wraps a bleve index together with its staleness sidecar. It is not
// safe for concurrent use; the CLI opens it per invocation.
type Index struct {
	index    bleve.Index
	metaPath string
	meta     indexMeta
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName

	defaultMapping := bleve.NewDocumentMapping()
	defaultMapping.AddFieldMappingsAt("name", textFieldMapping)
	defaultMapping.AddFieldMappingsAt("text", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", defaultMapping)

	indexMapping.TypeField = "type"
	indexMapping.DefaultAnalyzer = "en"

	return indexMapping
}

// Open loads the contact index under dir, creating an empty one when none
// exists yet. A missing or corrupt sidecar reads as generation "", which
// makes the index stale against any real token and forces a rebuild.
func Open(dir string) (*Index, error) {
	ix := &Index{
		metaPath: filepath.Join(dir, "contacts.meta.json"),
	}
	content, err := os.ReadFile(ix.metaPath)
	if err == nil {
		// WARNING: swallow error here
		json.Unmarshal(content, &ix.meta)
	}

	indexPath := filepath.Join(dir, "contacts.bleve")
	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		ix.meta.Generation = ""
		index, err = bleve.New(indexPath, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("opening contact index: %w", err)
	}
	ix.index = index
	return ix, nil
}

// OpenMemOnly builds a throwaway in-memory index for tests. Its sidecar is
// kept in memory too.
func OpenMemOnly() (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("opening in-memory contact index: %w", err)
	}
	return &Index{index: index}, nil
}

func (ix *Index) Close() error {
	return ix.index.Close()
}

// Stale reports whether the index was built from a different contact
// database snapshot than generation.
func (ix *Index) Stale(generation string) bool {
	return ix.meta.Generation != generation
}

// Reindex rebuilds the index from the given entries, keyed by contact id,
// and records the generation they came from. Entries are written in
// batches of 1000.
func (ix *Index) Reindex(generation string, entries map[string]IndexEntry) error {
	batch := ix.index.NewBatch()
	batchCount := 0
	for id, entry := range entries {
		if err := batch.Index(id, entry); err != nil {
			return fmt.Errorf("indexing contact %s: %w", id, err)
		}
		batchCount++

		if batchCount >= 1000 {
			if err := ix.index.Batch(batch); err != nil {
				return fmt.Errorf("writing index batch: %w", err)
			}
			batch = ix.index.NewBatch()
			batchCount = 0
		}
	}
	// flush the last batch
	if batchCount > 0 {
		if err := ix.index.Batch(batch); err != nil {
			return fmt.Errorf("writing index batch: %w", err)
		}
	}

	ix.meta.Generation = generation
	return ix.persistMeta()
}

func (ix *Index) persistMeta() error {
	if ix.metaPath == "" {
		return nil
	}
	jsonData, err := json.MarshalIndent(ix.meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ix.metaPath, jsonData, 0644)
}

// Search runs input against the index as a disjunction of an exact phrase
// match and a fuzziness-1 match, returning hits best first with their
// scores scaled to integers.
func (ix *Index) Search(input string) ([]ContactDesc, []int, error) {
	input = norm.NFC.String(input)
	matchQuery := bleve.NewMatchPhraseQuery(input)
	fuzzyQuery := bleve.NewFuzzyQuery(input)
	fuzzyQuery.Fuzziness = 1
	query := bleve.NewDisjunctionQuery(matchQuery, fuzzyQuery)
	request := bleve.NewSearchRequest(query)

	searchResults, err := ix.index.Search(request)
	if err != nil {
		return nil, nil, fmt.Errorf("searching contact index: %w", err)
	}

	results := []ContactDesc{}
	resultScores := []int{}
	for _, searchResult := range searchResults.Hits {
		doc, err := ix.index.Document(searchResult.ID)
		if err != nil {
			continue
		}
		desc := ContactDesc{ID: searchResult.ID}
		for _, field := range doc.Fields {
			switch field.Name() {
			case "name":
				desc.Name = string(field.Value())
			case "eth":
				desc.Eth = string(field.Value())
			}
		}
		results = append(results, desc)
		resultScores = append(resultScores, int(searchResult.Score*1000000))
	}
	return results, resultScores, nil
}
