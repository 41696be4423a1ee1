package cmd

import (
	"fmt"

	"github.com/tranvictor/ethbook/bleve"
	"github.com/tranvictor/ethbook/book"
	"github.com/tranvictor/ethbook/common"
	"github.com/tranvictor/ethbook/config"
	"github.com/tranvictor/ethbook/db"
	"github.com/tranvictor/ethbook/prefs"
	"github.com/tranvictor/ethbook/ui"
	"github.com/tranvictor/ethbook/util"
)

// appUI returns the terminal UI for command output, honoring --no-color.
// Commands construct it inside Run so flag parsing has already happened.
func appUI() ui.UI {
	return ui.NewTerminalUI(config.NoColor)
}

// openBook opens the contact store and the preference store at the configured
// paths and wires them into a book. The caller owns closing the source.
func openBook() (*book.Book, *db.SQLiteSource, config.Paths, error) {
	paths, err := config.Resolve()
	if err != nil {
		return nil, nil, config.Paths{}, err
	}
	src, err := db.NewSQLiteSource(paths.DBPath)
	if err != nil {
		return nil, nil, config.Paths{}, fmt.Errorf("opening contact db: %w", err)
	}
	store := prefs.NewFileStore(paths.PrefsPath)
	b := book.NewBook(src, store, book.WithLogger(common.NewLogger(nil)))
	return b, src, paths, nil
}

// openIndex opens the search index and brings it up to date with the book's
// current generation. The caller owns closing the index.
func openIndex(u ui.UI, b *book.Book, src *db.SQLiteSource, paths config.Paths) (*bleve.Index, error) {
	idx, err := bleve.Open(paths.IndexDir)
	if err != nil {
		return nil, fmt.Errorf("opening contact index: %w", err)
	}
	gen, err := src.Generation()
	if err != nil {
		idx.Close()
		return nil, fmt.Errorf("reading book generation: %w", err)
	}
	if err := util.RefreshIndex(u, idx, gen, b.ListAll()); err != nil {
		idx.Close()
		return nil, fmt.Errorf("refreshing contact index: %w", err)
	}
	return idx, nil
}

// writeJSONIfRequested mirrors the command's result to --json-output when the
// flag is set. Display structs serialize with plain strings, no ANSI codes.
func writeJSONIfRequested(u ui.UI, v any) {
	if config.JSONOutputFile == "" {
		return
	}
	util.WriteJSON(u, config.JSONOutputFile, v)
}
