// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps converted collections in a SQLite database so that
// cards can be listed and re-exported by tag without re-reading the
// SuperMemo export.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sm2anki/internal/anki"
	"github.com/pdiddy/sm2anki/pkg/types"
)

const (
	dbFile            = "sm2anki.db"
	defaultMaxResults = 1000
)

// Store manages the catalog database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog at cfg.CatalogDir/sm2anki.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			media_dir TEXT,
			indexed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
			id INTEGER NOT NULL,
			parent INTEGER,
			type TEXT,
			title TEXT,
			PRIMARY KEY (collection, id)
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			record_id INTEGER NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			tags TEXT NOT NULL,
			PRIMARY KEY (collection, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_record ON cards(collection, record_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from indexing one collection.
type IngestSummary struct {
	Records int
	Cards   int
	Updated bool
}

// Ingest stores the records of a collection and its exported cards under
// name, replacing whatever was stored under that name before. The media
// directory recorded is the one exp renders sound paths with. Nothing is
// written if exporting fails.
func (s *Store) Ingest(ctx context.Context, name string, records *types.Collection, exp *anki.Exporter, w io.Writer) (IngestSummary, error) {
	cards, err := exp.Cards(ctx)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("exporting %s: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM collections WHERE name = ?`, name,
	).Scan(&existing); err != nil {
		return IngestSummary{}, fmt.Errorf("checking collection: %w", err)
	}

	// Delete children explicitly; cascades depend on the connection pragma.
	for _, stmt := range []string{
		`DELETE FROM cards WHERE collection = ?`,
		`DELETE FROM records WHERE collection = ?`,
		`DELETE FROM collections WHERE name = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, name); err != nil {
			return IngestSummary{}, fmt.Errorf("clearing collection %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO collections (name, media_dir, indexed_at) VALUES (?, ?, ?)`,
		name, exp.MediaDir(), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return IngestSummary{}, fmt.Errorf("inserting collection: %w", err)
	}

	recStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (collection, id, parent, type, title) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing record insert: %w", err)
	}
	defer recStmt.Close()

	for _, r := range records.Records() {
		var parent sql.NullInt64
		if p, err := r.Parent(); err == nil {
			parent = sql.NullInt64{Int64: int64(p), Valid: true}
		}
		if _, err := recStmt.ExecContext(ctx, name, r.ID, parent, r.Info[types.KeyType], r.Info[types.KeyTitle]); err != nil {
			return IngestSummary{}, fmt.Errorf("inserting element #%d: %w", r.ID, err)
		}
	}

	cardStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (collection, position, record_id, question, answer, tags) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing card insert: %w", err)
	}
	defer cardStmt.Close()

	for i, c := range cards {
		if _, err := cardStmt.ExecContext(ctx, name, i, c.RecordID, c.Question, c.Answer, c.Tags); err != nil {
			return IngestSummary{}, fmt.Errorf("inserting card for element #%d: %w", c.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing: %w", err)
	}

	summary := IngestSummary{
		Records: records.Len(),
		Cards:   len(cards),
		Updated: existing > 0,
	}
	verb := "indexed"
	if summary.Updated {
		verb = "updated"
	}
	fmt.Fprintf(w, "%s %s (%d elements, %d cards)\n", verb, name, summary.Records, summary.Cards)
	return summary, nil
}

// QueryOptions filters Cards.
type QueryOptions struct {
	// Collection restricts results to one collection; empty means all.
	Collection string
	// Tag matches cards carrying this exact tag, case included.
	Tag string
	// MaxResults caps the result count; 0 uses the store default.
	MaxResults int
}

// Cards returns stored cards in collection and export order.
func (s *Store) Cards(ctx context.Context, opts QueryOptions) ([]types.Card, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var where []string
	var args []any
	if opts.Collection != "" {
		where = append(where, "collection = ?")
		args = append(args, opts.Collection)
	}
	if opts.Tag != "" {
		where = append(where, "instr(' ' || tags || ' ', ' ' || ? || ' ') > 0")
		args = append(args, opts.Tag)
	}

	query := `SELECT record_id, question, answer, tags FROM cards`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY collection, position LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []types.Card
	for rows.Next() {
		var c types.Card
		if err := rows.Scan(&c.RecordID, &c.Question, &c.Answer, &c.Tags); err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		c.Line = c.Question + "\t" + c.Answer + "\t" + c.Tags
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// CollectionInfo describes one stored collection.
type CollectionInfo struct {
	Name      string
	MediaDir  string
	IndexedAt string
	Records   int
	Cards     int
}

// Collections lists stored collections by name.
func (s *Store) Collections(ctx context.Context) ([]CollectionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, c.media_dir, c.indexed_at,
			(SELECT count(*) FROM records r WHERE r.collection = c.name),
			(SELECT count(*) FROM cards k WHERE k.collection = c.name)
		FROM collections c
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var out []CollectionInfo
	for rows.Next() {
		var ci CollectionInfo
		if err := rows.Scan(&ci.Name, &ci.MediaDir, &ci.IndexedAt, &ci.Records, &ci.Cards); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}
