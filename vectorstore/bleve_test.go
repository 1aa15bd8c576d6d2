package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/careerguide/careerguide/errors"
)

func newTestBleve(t *testing.T) *BleveStore {
	t.Helper()
	store, err := OpenBleve(filepath.Join(t.TempDir(), "resume_index.bleve"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBleveInsertRetrieve(t *testing.T) {
	store := newTestBleve(t)
	ctx := context.Background()

	text := "Site reliability engineer, prometheus and grafana dashboards"
	if _, err := store.Insert(ctx, text); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, "Marketing manager for consumer brands"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	results, err := store.Retrieve(ctx, "prometheus reliability engineer", 4)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one match")
	}
	if results[0].Text != text {
		t.Errorf("expected SRE resume first, got %q", results[0].Text)
	}
	if results[0].Score <= 0 {
		t.Errorf("expected positive score, got %f", results[0].Score)
	}
}

func TestBleveVersioning(t *testing.T) {
	store := newTestBleve(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		version, err := store.Insert(ctx, "resume text")
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if version != int64(i) {
			t.Errorf("expected version %d, got %d", i, version)
		}
	}
	if store.Len() != 3 {
		t.Errorf("expected 3 documents, got %d", store.Len())
	}
}

func TestBleveRetrieveEmpty(t *testing.T) {
	store := newTestBleve(t)

	_, err := store.Retrieve(context.Background(), "anything", 4)
	if !errors.Is(err, errors.ErrCodeStoreUnavailable) {
		t.Errorf("expected STORE_UNAVAILABLE, got %v", err)
	}
}

func TestBleveReopenKeepsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume_index.bleve")
	store, err := OpenBleve(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Insert(ctx, "embedded systems engineer, rust and c"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := OpenBleve(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	if reopened.Len() != 1 {
		t.Errorf("expected 1 document after reopen, got %d", reopened.Len())
	}
	results, err := reopened.Retrieve(ctx, "rust embedded engineer", 4)
	if err != nil {
		t.Fatalf("retrieve after reopen failed: %v", err)
	}
	if len(results) == 0 {
		t.Error("expected match after reopen")
	}
}
