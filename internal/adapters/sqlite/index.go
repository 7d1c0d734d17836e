package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

const schemaVersion = "1"

// Index implements ports.SnapshotIndex using SQLite
type Index struct {
	db     *sql.DB
	dbPath string
}

// Ensure Index implements SnapshotIndex
var _ ports.SnapshotIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open opens or creates the index database at dbPath
func (idx *Index) Open(dbPath string) error {
	idx.dbPath = dbPath

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// WAL lets the CLI read while the TUI writes
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	if idx.versionMismatch() {
		if _, err := db.Exec(`
			DROP TABLE IF EXISTS ideas;
			DROP TABLE IF EXISTS snapshots;
		`); err != nil {
			db.Close()
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS snapshots (
			title TEXT PRIMARY KEY,
			idea_count INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			last_modified INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS ideas (
			title TEXT NOT NULL REFERENCES snapshots(title) ON DELETE CASCADE,
			node_id TEXT NOT NULL,
			label TEXT NOT NULL,
			PRIMARY KEY (title, node_id)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_modified ON snapshots(last_modified);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the database file path
func (idx *Index) Path() string {
	return idx.dbPath
}

// NeedsRebuild returns true if the index has never been synced
func (idx *Index) NeedsRebuild() bool {
	var lastSync string
	err := idx.db.QueryRow(`SELECT value FROM meta WHERE key = 'last_sync_time'`).Scan(&lastSync)
	return err != nil
}

// versionMismatch reports whether an existing database was written by a
// different schema version
func (idx *Index) versionMismatch() bool {
	var version string
	err := idx.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		// No meta table yet: fresh database
		return false
	}
	return version != schemaVersion
}

// Upsert replaces everything indexed under the snapshot's title
func (idx *Index) Upsert(s domain.Snapshot) error {
	tx, err := idx.beginTx()
	if err != nil {
		return err
	}
	if err := tx.upsertSnapshot(s); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Remove drops a snapshot and its ideas
func (idx *Index) Remove(title string) error {
	tx, err := idx.beginTx()
	if err != nil {
		return err
	}
	if err := tx.removeSnapshot(title); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Search returns ideas whose label contains query, then snapshots whose
// title does. Matching is case-insensitive for ASCII. Newest snapshots come
// first.
func (idx *Index) Search(query string, limit int) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := idx.db.Query(`
		SELECT hit.title, hit.node_id, hit.label FROM (
			SELECT i.title AS title, i.node_id AS node_id, i.label AS label,
				s.last_modified AS modified, 0 AS kind
			FROM ideas i JOIN snapshots s ON s.title = i.title
			WHERE i.label LIKE ? ESCAPE '\'
			UNION ALL
			SELECT s.title, '', s.title, s.last_modified, 1
			FROM snapshots s
			WHERE s.title LIKE ? ESCAPE '\'
		) AS hit
		ORDER BY hit.kind, hit.modified DESC, hit.title, hit.node_id
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var h domain.SearchHit
		if err := rows.Scan(&h.Title, &h.NodeID, &h.Label); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}

	return hits, rows.Err()
}

// Stats counts indexed snapshots and ideas
func (idx *Index) Stats() (*domain.IndexStats, error) {
	var stats domain.IndexStats
	err := idx.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM snapshots), (SELECT COUNT(*) FROM ideas)
	`).Scan(&stats.Snapshots, &stats.Ideas)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// escapeLike escapes LIKE wildcards so query matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
