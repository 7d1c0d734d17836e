package sqlite

import (
	"database/sql"

	"ideagraph/internal/domain"
)

// indexTx groups index writes so a reader never sees half a snapshot
type indexTx struct {
	tx *sql.Tx
}

// beginTx starts a new transaction
func (idx *Index) beginTx() (*indexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}

// upsertSnapshot replaces the snapshot row and all of its ideas
func (t *indexTx) upsertSnapshot(s domain.Snapshot) error {
	if err := t.removeSnapshot(s.Title); err != nil {
		return err
	}

	_, err := t.tx.Exec(`
		INSERT INTO snapshots (title, idea_count, created_at, last_modified)
		VALUES (?, ?, ?, ?)
	`, s.Title, s.IdeaCount, s.CreatedAt.UnixMilli(), s.LastModified.UnixMilli())
	if err != nil {
		return err
	}

	stmt, err := t.tx.Prepare(`INSERT OR REPLACE INTO ideas (title, node_id, label) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, n := range s.Nodes {
		if _, err := stmt.Exec(s.Title, n.ID, n.Label); err != nil {
			return err
		}
	}
	return nil
}

// removeSnapshot deletes a snapshot row and its ideas
func (t *indexTx) removeSnapshot(title string) error {
	if _, err := t.tx.Exec(`DELETE FROM ideas WHERE title = ?`, title); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM snapshots WHERE title = ?`, title)
	return err
}

// clear empties both data tables and returns how many snapshots were dropped
func (t *indexTx) clear() (int, error) {
	var count int
	if err := t.tx.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count); err != nil {
		return 0, err
	}
	if _, err := t.tx.Exec(`DELETE FROM ideas`); err != nil {
		return 0, err
	}
	if _, err := t.tx.Exec(`DELETE FROM snapshots`); err != nil {
		return 0, err
	}
	return count, nil
}

// markSynced records the rebuild time
func (t *indexTx) markSynced(unix int64) error {
	_, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`, unix)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
