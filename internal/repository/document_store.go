package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);
	CREATE TABLE IF NOT EXISTS store_revision (
		id    INTEGER PRIMARY KEY CHECK (id = 1),
		value INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO store_revision (id, value) VALUES (1, 0);
	CREATE TABLE IF NOT EXISTS store_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`

const epochKey = "epoch"

// Document is a raw stored JSON document.
type Document struct {
	ID   string
	Body json.RawMessage
}

// DocumentStore keeps JSON documents grouped in named collections. Every
// write bumps a store-wide revision number. Revisions restart at 0 in a new
// database, so each database also carries a random epoch written once by
// Migrate.
type DocumentStore struct {
	db *sql.DB

	mu    sync.Mutex
	epoch string
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Migrate creates the schema and the store epoch if they do not exist.
func (s *DocumentStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate document store: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO store_meta (key, value) VALUES (?, ?)`,
		epochKey, uuid.NewString(),
	); err != nil {
		return fmt.Errorf("migrate store epoch: %w", err)
	}
	return nil
}

func (s *DocumentStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func bumpRevision(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE store_revision SET value = value + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}
	return nil
}

// Get decodes the document into dest.
func (s *DocumentStore) Get(ctx context.Context, collection, id string, dest any) error {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("query Get %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal([]byte(body), dest); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// Put inserts or overwrites a document.
func (s *DocumentStore) Put(ctx context.Context, collection, id string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	const query = `
		INSERT INTO documents (collection, id, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`

	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		if _, err := tx.ExecContext(ctx, query, collection, id, string(body), now); err != nil {
			return fmt.Errorf("exec Put %s/%s: %w", collection, id, err)
		}
		return bumpRevision(ctx, tx)
	})
}

// Remove deletes a document. Removing a missing document is a no-op.
func (s *DocumentStore) Remove(ctx context.Context, collection, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
		if err != nil {
			return fmt.Errorf("exec Remove %s/%s: %w", collection, id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return bumpRevision(ctx, tx)
	})
}

// List returns every document of a collection ordered by id.
func (s *DocumentStore) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ? ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("query List %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan List %s row: %w", collection, err)
		}
		docs = append(docs, Document{ID: id, Body: json.RawMessage(body)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate List %s: %w", collection, err)
	}
	return docs, nil
}

// ReplaceCollections atomically replaces the content of every given
// collection. Collections not present in the map are left untouched.
func (s *DocumentStore) ReplaceCollections(ctx context.Context, collections map[string][]Document) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		for name, docs := range collections {
			if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, name); err != nil {
				return fmt.Errorf("clear %s: %w", name, err)
			}
			for _, d := range docs {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO documents (collection, id, body, updated_at) VALUES (?, ?, ?, ?)`,
					name, d.ID, string(d.Body), now,
				); err != nil {
					return fmt.Errorf("insert %s/%s: %w", name, d.ID, err)
				}
			}
		}
		return bumpRevision(ctx, tx)
	})
}

// Epoch identifies this database. It never changes once Migrate wrote it.
func (s *DocumentStore) Epoch(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != "" {
		return s.epoch, nil
	}

	var epoch string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key = ?`, epochKey).Scan(&epoch)
	if err != nil {
		return "", fmt.Errorf("query Epoch: %w", err)
	}
	s.epoch = epoch
	return epoch, nil
}

// Revision returns the store-wide write counter.
func (s *DocumentStore) Revision(ctx context.Context) (int64, error) {
	var rev int64
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM store_revision WHERE id = 1`).Scan(&rev); err != nil {
		return 0, fmt.Errorf("query Revision: %w", err)
	}
	return rev, nil
}
