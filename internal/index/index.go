// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a SQLite full-text index over the library so
// titles and abstracts can be searched without an arXiv round trip.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

const authorSep = "; "

// Index is the SQLite-backed search index.
type Index struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the index database at cfg.Path, creating the
// schema if it does not exist.
func Open(cfg types.IndexConfig) (*Index, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	ix := &Index{db: db, maxResults: maxResults}
	if err := ix.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return ix, nil
}

// Close releases the database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) createSchema() error {
	if _, err := ix.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		version INTEGER,
		title TEXT,
		authors TEXT,
		summary TEXT,
		url TEXT,
		published TEXT
	)`); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := ix.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists != 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE papers_fts USING fts5(title, authors, summary, content=papers, content_rowid=rowid)`,
		`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
			INSERT INTO papers_fts(rowid, title, authors, summary) VALUES (new.rowid, new.title, new.authors, new.summary);
		END`,
		`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
			INSERT INTO papers_fts(papers_fts, rowid, title, authors, summary) VALUES('delete', old.rowid, old.title, old.authors, old.summary);
		END`,
		`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
			INSERT INTO papers_fts(papers_fts, rowid, title, authors, summary) VALUES('delete', old.rowid, old.title, old.authors, old.summary);
			INSERT INTO papers_fts(rowid, title, authors, summary) VALUES (new.rowid, new.title, new.authors, new.summary);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := ix.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Reindex replaces the index contents with the given records.
func (ix *Index) Reindex(ctx context.Context, records []types.PrePrint) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, version, title, authors, summary, url, published)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var version sql.NullInt64
		if r.Version != nil {
			version = sql.NullInt64{Int64: int64(*r.Version), Valid: true}
		}
		_, err := stmt.ExecContext(ctx, r.ID, version, r.Title,
			strings.Join(r.Authors, authorSep), r.Summary, r.URL,
			r.Published.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("indexing %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Hit is one search result with its FTS rank (more negative is more
// relevant, per SQLite's bm25).
type Hit struct {
	types.PrePrint
	Rank float64
}

// Search runs an FTS5 match over title, authors, and summary. A
// maxResults of zero uses the index default.
func (ix *Index) Search(ctx context.Context, query string, maxResults int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if maxResults <= 0 {
		maxResults = ix.maxResults
	}

	rows, err := ix.db.QueryContext(ctx,
		`SELECT p.id, p.version, p.title, p.authors, p.summary, p.url, p.published, papers_fts.rank
		 FROM papers_fts
		 JOIN papers p ON p.rowid = papers_fts.rowid
		 WHERE papers_fts MATCH ?
		 ORDER BY papers_fts.rank
		 LIMIT ?`, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			h         Hit
			version   sql.NullInt64
			authors   string
			published string
		)
		if err := rows.Scan(&h.ID, &version, &h.Title, &authors, &h.Summary, &h.URL, &published, &h.Rank); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if version.Valid {
			v := int(version.Int64)
			h.Version = &v
		}
		if authors != "" {
			h.Authors = strings.Split(authors, authorSep)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, published); parseErr == nil {
			h.Published = t
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
