package vectorstore

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/careerguide/careerguide/embedding"
	"github.com/careerguide/careerguide/errors"
)

// SQLiteStore keeps documents in a SQLite database, with embedding
// vectors stored as little-endian float32 blobs. Durability comes from
// SQLite itself; similarity search is brute-force cosine over all rows,
// which is fine at resume-index scale.
type SQLiteStore struct {
	mu       sync.RWMutex
	db       *sql.DB
	version  int64
	embedder embedding.Provider
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	embedding  BLOB NOT NULL,
	created_at TEXT NOT NULL
);`

// OpenSQLite opens (creating if needed) a SQLite-backed store at path.
func OpenSQLite(path string, embedder embedding.Provider) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to open sqlite database",
			errors.WithMetadata("path", path))
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to ensure schema")
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		db.Close()
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to count documents")
	}

	return &SQLiteStore{db: db, version: count, embedder: embedder}, nil
}

// Insert embeds text and appends it as a new row.
func (s *SQLiteStore) Insert(ctx context.Context, text string) (int64, error) {
	vecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return 0, errors.Wrap(err, "failed to embed document")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents(id, content, embedding, created_at) VALUES(?, ?, ?, ?)`,
		uuid.New().String(), text, encodeVector(vecs[0]), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to insert document")
	}

	s.version++
	return s.version, nil
}

// Retrieve embeds the query and scans all rows for the top-k cosine
// matches.
func (s *SQLiteStore) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed query")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, content, embedding, created_at FROM documents ORDER BY rowid`)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to query documents")
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			doc     Document
			blob    []byte
			created string
		)
		if err := rows.Scan(&doc.ID, &doc.Text, &blob, &created); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to scan document row")
		}
		if doc.Vector, err = decodeVector(blob); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			doc.AddedAt = t
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "document scan failed")
	}

	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeStoreUnavailable, "no documents indexed")
	}
	return rankByCosine(docs, vecs[0], k), nil
}

// Len returns the number of indexed documents.
func (s *SQLiteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(s.version)
}

// Version returns the current store version.
func (s *SQLiteStore) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
