package vectorstore

import (
	"context"
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careerguide/careerguide/embedding"
	"github.com/careerguide/careerguide/errors"
)

// SnapshotStore keeps documents and vectors in memory and persists the
// full state as a single gob-encoded artifact after every insert. The
// artifact is written to a temp file and renamed into place, so readers
// never observe a half-written snapshot.
type SnapshotStore struct {
	mu       sync.RWMutex
	docs     []Document
	version  int64
	path     string
	embedder embedding.Provider
}

// snapshotState is the serialized form of the store.
type snapshotState struct {
	Dimension int
	Version   int64
	Documents []Document
}

// OpenSnapshot opens a snapshot store backed by the artifact at path,
// loading existing state when the file is present.
func OpenSnapshot(path string, embedder embedding.Provider) (*SnapshotStore, error) {
	s := &SnapshotStore{path: path, embedder: embedder}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to open snapshot",
			errors.WithMetadata("path", path))
	}
	defer f.Close()

	var state snapshotState
	if err := gob.NewDecoder(f).Decode(&state); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to decode snapshot",
			errors.WithMetadata("path", path))
	}
	s.docs = state.Documents
	s.version = state.Version
	if s.version == 0 {
		s.version = int64(len(state.Documents))
	}
	return s, nil
}

// Insert embeds text, appends it and persists the snapshot.
func (s *SnapshotStore) Insert(ctx context.Context, text string) (int64, error) {
	vecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return 0, errors.Wrap(err, "failed to embed document")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = append(s.docs, Document{
		ID:      uuid.New().String(),
		Text:    text,
		Vector:  vecs[0],
		AddedAt: time.Now().UTC(),
	})
	s.version++

	if err := s.save(); err != nil {
		// Roll back so memory never diverges from disk.
		s.docs = s.docs[:len(s.docs)-1]
		s.version--
		return 0, err
	}
	return s.version, nil
}

// save writes the snapshot atomically. Callers hold the write lock.
func (s *SnapshotStore) save() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to create snapshot temp file")
	}
	defer os.Remove(tmp.Name())

	state := snapshotState{
		Dimension: s.embedder.Dimension(),
		Version:   s.version,
		Documents: s.docs,
	}
	if err := gob.NewEncoder(tmp).Encode(&state); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to encode snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to flush snapshot")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to replace snapshot",
			errors.WithMetadata("path", s.path))
	}
	return nil
}

// Retrieve embeds the query and returns the top-k documents by cosine
// similarity.
func (s *SnapshotStore) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed query")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return nil, errors.New(errors.ErrCodeStoreUnavailable, "no documents indexed")
	}
	return rankByCosine(s.docs, vecs[0], k), nil
}

// Len returns the number of indexed documents.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Version returns the current store version.
func (s *SnapshotStore) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Close is a no-op for the snapshot store.
func (s *SnapshotStore) Close() error {
	return nil
}

var _ Store = (*SnapshotStore)(nil)
