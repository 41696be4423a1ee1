// Package db implements the relational side of the contact book. The
// production source is SQLiteSource, one SQLite file holding every contact
// as discriminated data rows. Mem mirrors its contracts in memory for
// tests, and FuzzySource flattens reconciled contacts for fuzzy matching.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/tranvictor/ethbook/common"
)

// schema keeps the row model deliberately flat: one anchor row per contact
// and one data row per record kind, discriminated by the numeric RowKind.
// The kind numbering is persisted, so constants in common/rows.go may be
// appended to but never reordered.
const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS data_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	contact_id INTEGER NOT NULL REFERENCES contacts(id),
	kind INTEGER NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	aux TEXT NOT NULL DEFAULT '',
	photo_uri TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS data_rows_by_contact ON data_rows(contact_id, kind);

CREATE UNIQUE INDEX IF NOT EXISTS data_rows_one_name_per_contact
	ON data_rows(contact_id) WHERE kind = 0;

CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteSource is the production contact source. Concurrent use is as safe
// as database/sql makes it; the source itself keeps no state besides the
// pool handle.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the contact database at path, creating the file
// and the schema when missing. ":memory:" gives a throwaway database for
// tests.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening contact database: %w", err)
	}
	if err = sqldb.Ping(); err != nil {
		sqldb.Close()
		return nil, wrapSQLiteErr("opening contact database", err)
	}
	if _, err = sqldb.Exec(schema); err != nil {
		sqldb.Close()
		return nil, wrapSQLiteErr("creating contact schema", err)
	}
	s := &SQLiteSource{db: sqldb}
	if err = s.ensureGeneration(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) ListDataRows(kinds ...common.RowKind) ([]common.DataRow, error) {
	if len(kinds) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(kinds))
	args := make([]any, len(kinds))
	for i, k := range kinds {
		placeholders[i] = "?"
		args[i] = int(k)
	}
	query := fmt.Sprintf(`
		SELECT contact_id, kind, value, aux, photo_uri
		FROM data_rows
		WHERE kind IN (%s)
		ORDER BY contact_id ASC, id ASC
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapSQLiteErr("listing data rows", err)
	}
	defer rows.Close()

	var result []common.DataRow
	for rows.Next() {
		var (
			contactID int64
			kind      int
			row       common.DataRow
		)
		if err := rows.Scan(&contactID, &kind, &row.Value, &row.Aux, &row.PhotoURI); err != nil {
			return nil, fmt.Errorf("scanning data row: %w", err)
		}
		row.ContactID = strconv.FormatInt(contactID, 10)
		row.Kind = common.RowKind(kind)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapSQLiteErr("listing data rows", err)
	}
	return result, nil
}

func (s *SQLiteSource) ContactHeader(id string) (common.Header, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM contacts WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return common.Header{}, fmt.Errorf("contact %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return common.Header{}, wrapSQLiteErr("fetching contact header", err)
	}

	header := common.Header{}
	err = s.db.QueryRow(`
		SELECT value FROM data_rows
		WHERE contact_id = ? AND kind = ?
		ORDER BY id ASC LIMIT 1
	`, id, int(common.RowName)).Scan(&header.DisplayName)
	if err != nil && err != sql.ErrNoRows {
		return common.Header{}, wrapSQLiteErr("fetching contact name", err)
	}

	err = s.db.QueryRow(`
		SELECT photo_uri FROM data_rows
		WHERE contact_id = ? AND kind = ?
		ORDER BY id ASC LIMIT 1
	`, id, int(common.RowPhoto)).Scan(&header.PhotoURI)
	if err != nil && err != sql.ErrNoRows {
		return common.Header{}, wrapSQLiteErr("fetching contact photo", err)
	}

	return header, nil
}

func (s *SQLiteSource) FieldValue(id string, kind common.RowKind) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value FROM data_rows
		WHERE contact_id = ? AND kind = ?
		ORDER BY id ASC LIMIT 1
	`, id, int(kind)).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapSQLiteErr("fetching contact field", err)
	}
	return value, true, nil
}

func (s *SQLiteSource) AuxValue(id string) (string, bool, error) {
	var aux string
	err := s.db.QueryRow(`
		SELECT aux FROM data_rows
		WHERE contact_id = ? AND kind = ?
		ORDER BY id ASC LIMIT 1
	`, id, int(common.RowName)).Scan(&aux)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapSQLiteErr("fetching contact aux field", err)
	}
	return aux, true, nil
}

func (s *SQLiteSource) UpdateAuxValue(id, value string) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE data_rows SET aux = ?
		WHERE contact_id = ? AND kind = ?
	`, value, id, int(common.RowName))
	if err != nil {
		return false, wrapSQLiteErr("updating contact aux field", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating contact aux field: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	if err := s.bumpGeneration(s.db); err != nil {
		return true, err
	}
	return true, nil
}

func (s *SQLiteSource) CreateContact(displayName, phone, email string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", wrapSQLiteErr("creating contact", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO contacts DEFAULT VALUES`)
	if err != nil {
		return "", wrapSQLiteErr("creating contact", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("creating contact: %w", err)
	}

	if _, err = tx.Exec(`
		INSERT INTO data_rows (contact_id, kind, value) VALUES (?, ?, ?)
	`, id, int(common.RowName), displayName); err != nil {
		return "", wrapSQLiteErr("creating contact name row", err)
	}
	if phone != "" {
		if _, err = tx.Exec(`
			INSERT INTO data_rows (contact_id, kind, value) VALUES (?, ?, ?)
		`, id, int(common.RowPhone), phone); err != nil {
			return "", wrapSQLiteErr("creating contact phone row", err)
		}
	}
	if email != "" {
		if _, err = tx.Exec(`
			INSERT INTO data_rows (contact_id, kind, value) VALUES (?, ?, ?)
		`, id, int(common.RowEmail), email); err != nil {
			return "", wrapSQLiteErr("creating contact email row", err)
		}
	}
	if err = s.bumpGeneration(tx); err != nil {
		return "", err
	}
	if err = tx.Commit(); err != nil {
		return "", wrapSQLiteErr("creating contact", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Generation returns the store's write generation token. Every mutation
// replaces it with a fresh uuid, so consumers like the search index can
// tell whether their snapshot is stale with one cheap read.
func (s *SQLiteSource) Generation() (string, error) {
	var generation string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'generation'`).Scan(&generation)
	if err != nil {
		return "", wrapSQLiteErr("reading store generation", err)
	}
	return generation, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *SQLiteSource) bumpGeneration(e execer) error {
	_, err := e.Exec(`
		INSERT INTO meta (key, value) VALUES ('generation', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, uuid.NewString())
	if err != nil {
		return wrapSQLiteErr("bumping store generation", err)
	}
	return nil
}

func (s *SQLiteSource) ensureGeneration() error {
	_, err := s.db.Exec(`
		INSERT INTO meta (key, value) VALUES ('generation', ?)
		ON CONFLICT(key) DO NOTHING
	`, uuid.NewString())
	if err != nil {
		return wrapSQLiteErr("seeding store generation", err)
	}
	return nil
}

// wrapSQLiteErr converts sqlite authorization failures into the shared
// permission sentinel so callers can match them with errors.Is. Everything
// else is wrapped with the operation name only.
func wrapSQLiteErr(op string, err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code {
		case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly, sqlite3.ErrCantOpen:
			return fmt.Errorf("%s: %v: %w", op, err, common.ErrPermissionDenied)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
