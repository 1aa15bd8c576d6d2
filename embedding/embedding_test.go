package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careerguide/careerguide/errors"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	embedder := NewMockEmbedder(64)

	a, err := embedder.Embed(context.Background(), []string{"golang backend engineer"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	b, _ := embedder.Embed(context.Background(), []string{"golang backend engineer"})

	if len(a[0]) != 64 {
		t.Errorf("expected dimension 64, got %d", len(a[0]))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatal("mock embedder should be deterministic")
		}
	}
}

func TestMockEmbedderSimilarity(t *testing.T) {
	embedder := NewMockEmbedder(64)
	vecs, err := embedder.Embed(context.Background(), []string{
		"golang engineer with kubernetes experience",
		"golang engineer with docker experience",
		"pastry chef specializing in croissants",
	})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	related := cosine(vecs[0], vecs[1])
	unrelated := cosine(vecs[0], vecs[2])
	if related <= unrelated {
		t.Errorf("related texts should score higher: related=%f unrelated=%f", related, unrelated)
	}
}

func TestMockEmbedderNormalized(t *testing.T) {
	embedder := NewMockEmbedder(32)
	vecs, _ := embedder.Embed(context.Background(), []string{"some resume text"})

	var sum float64
	for _, v := range vecs[0] {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Errorf("expected unit vector, squared norm %f", sum)
	}
}

func TestGoogleEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req googleEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": map[string]interface{}{"values": []float32{0.1, 0.2, 0.3}},
		})
	}))
	defer srv.Close()

	embedder := NewGoogleEmbedder(GoogleConfig{APIKey: "test", BaseURL: srv.URL})
	vecs, err := embedder.Embed(context.Background(), []string{"resume text"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vecs) != 1 || len(vecs[0]) != 3 {
		t.Errorf("unexpected result shape: %v", vecs)
	}
}

func TestGoogleEmbedderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	embedder := NewGoogleEmbedder(GoogleConfig{APIKey: "test", BaseURL: srv.URL})
	_, err := embedder.Embed(context.Background(), []string{"resume text"})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !errors.Is(err, errors.ErrCodeEmbedding) {
		t.Errorf("expected EMBEDDING code, got %v", err)
	}
}

func TestOpenAIEmbedderOrdering(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Return results out of order; the embedder must restore order.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{2}, "index": 1},
				{"embedding": []float32{1}, "index": 0},
			},
		})
	}))
	defer srv.Close()

	embedder := NewOpenAIEmbedder(OpenAIConfig{APIKey: "test", BaseURL: srv.URL})
	vecs, err := embedder.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if vecs[0][0] != 1 || vecs[1][0] != 2 {
		t.Errorf("results not restored to request order: %v", vecs)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	embedder := NewGoogleEmbedder(GoogleConfig{APIKey: "test"})
	vecs, err := embedder.Embed(context.Background(), nil)
	if err != nil || vecs != nil {
		t.Errorf("empty input should be a no-op, got %v, %v", vecs, err)
	}
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
