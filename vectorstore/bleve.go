package vectorstore

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"

	"github.com/careerguide/careerguide/errors"
)

// BleveStore indexes documents for lexical BM25 retrieval. It needs no
// embedding provider, which makes it the store of choice for deployments
// without an embedding API. Scores are BM25 relevance, not cosine
// similarity. Durability is the bleve index directory at path.
type BleveStore struct {
	mu      sync.RWMutex
	index   bleve.Index
	version int64
}

// bleveDocument is the indexed representation of a resume document.
type bleveDocument struct {
	Text    string    `json:"text"`
	AddedAt time.Time `json:"added_at"`
}

// OpenBleve opens (creating if needed) a bleve-backed store at path.
func OpenBleve(path string) (*BleveStore, error) {
	var index bleve.Index
	var err error

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		index, err = bleve.New(path, buildIndexMapping())
	} else {
		index, err = bleve.Open(path)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to open bleve index",
			errors.WithMetadata("path", path))
	}

	count, err := index.DocCount()
	if err != nil {
		index.Close()
		return nil, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to count documents")
	}

	return &BleveStore{index: index, version: int64(count)}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	textFieldMapping.Store = true

	dateFieldMapping := bleve.NewDateTimeFieldMapping()

	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	docMapping.AddFieldMappingsAt("added_at", dateFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// Insert indexes the text as a new document. Bleve persists each index
// mutation itself, so no separate snapshot step is needed.
func (s *BleveStore) Insert(ctx context.Context, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := bleveDocument{Text: text, AddedAt: time.Now().UTC()}
	if err := s.index.Index(uuid.New().String(), doc); err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrCodePersistence, "failed to index document")
	}
	s.version++
	return s.version, nil
}

// Retrieve runs a BM25 match query and returns the top-k documents.
func (s *BleveStore) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.version == 0 {
		return nil, errors.New(errors.ErrCodeStoreUnavailable, "no documents indexed")
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("text")

	searchReq := bleve.NewSearchRequestOptions(matchQuery, k, 0, false)
	searchReq.Fields = []string{"text"}

	searchResult, err := s.index.SearchInContext(ctx, searchReq)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeInternal, "search failed")
	}

	results := make([]Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		r := Result{Score: float32(hit.Score)}
		r.ID = hit.ID
		if text, ok := hit.Fields["text"].(string); ok {
			r.Text = text
		}
		results = append(results, r)
	}
	return results, nil
}

// Len returns the number of indexed documents.
func (s *BleveStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(s.version)
}

// Version returns the current store version.
func (s *BleveStore) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Close closes the underlying index.
func (s *BleveStore) Close() error {
	return s.index.Close()
}

var _ Store = (*BleveStore)(nil)
