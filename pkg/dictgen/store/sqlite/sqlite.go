package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/dictgen/pkg/dictgen/internalerr"
	"github.com/cognicore/dictgen/pkg/dictgen/model"
	"github.com/cognicore/dictgen/pkg/dictgen/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates
// the export schema when missing.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	locale TEXT NOT NULL,
	sources TEXT,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	max_count INTEGER NOT NULL DEFAULT 0,
	unigram_count INTEGER NOT NULL DEFAULT 0,
	bigram_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS unigrams (
	run_id TEXT NOT NULL,
	word TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, word),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS bigrams (
	run_id TEXT NOT NULL,
	word TEXT NOT NULL,
	next TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, word, next),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_bigrams_rank ON bigrams(run_id, word, count DESC);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveModel writes the run row and every unigram and bigram in one transaction
func (s *sqliteStore) SaveModel(ctx context.Context, run store.Run, m *model.Model) error {
	if run.ID == "" || m == nil {
		return internalerr.ErrInvalidInput
	}

	sources, err := json.Marshal(run.Sources)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const runStmt = `
INSERT INTO runs (id, created_at, locale, sources, total_tokens, max_count, unigram_count, bigram_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err = tx.ExecContext(ctx, runStmt,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Locale,
		string(sources),
		run.TotalTokens,
		run.MaxCount,
		run.Unigrams,
		run.Bigrams,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("run %s: %w", run.ID, internalerr.ErrDuplicate)
		}
		return err
	}

	if err := insertCounts(ctx, tx, run.ID, m); err != nil {
		return err
	}

	return tx.Commit()
}

func insertCounts(ctx context.Context, tx *sql.Tx, runID string, m *model.Model) error {
	uniStmt, err := tx.PrepareContext(ctx, `INSERT INTO unigrams (run_id, word, count) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer uniStmt.Close()

	biStmt, err := tx.PrepareContext(ctx, `INSERT INTO bigrams (run_id, word, next, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer biStmt.Close()

	for _, u := range m.Ranked() {
		if _, err := uniStmt.ExecContext(ctx, runID, u.Word, u.Count); err != nil {
			return err
		}
		for _, b := range u.TopBigrams(0) {
			if _, err := biStmt.ExecContext(ctx, runID, u.Word, b.Word, b.Count); err != nil {
				return err
			}
		}
	}
	return nil
}

// Runs returns all exported runs ordered by ID
func (s *sqliteStore) Runs(ctx context.Context) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, locale, sources, total_tokens, max_count, unigram_count, bigram_count
FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var (
			r         store.Run
			createdAt string
			sources   sql.NullString
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.Locale, &sources, &r.TotalTokens, &r.MaxCount, &r.Unigrams, &r.Bigrams); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		if sources.Valid && sources.String != "" {
			if err := json.Unmarshal([]byte(sources.String), &r.Sources); err != nil {
				return nil, err
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// UnigramCount returns the exported count of word in a run
func (s *sqliteStore) UnigramCount(ctx context.Context, runID, word string) (int64, bool, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM unigrams WHERE run_id=? AND word=?`, runID, word).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// TopBigrams returns the k most frequent successors of word in a run.
// k <= 0 returns all of them.
func (s *sqliteStore) TopBigrams(ctx context.Context, runID, word string, k int) ([]model.Bigram, error) {
	query := `SELECT next, count FROM bigrams WHERE run_id=? AND word=? ORDER BY count DESC, next ASC`
	args := []any{runID, word}
	if k > 0 {
		query += ` LIMIT ?`
		args = append(args, k)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Bigram
	for rows.Next() {
		var b model.Bigram
		if err := rows.Scan(&b.Word, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
