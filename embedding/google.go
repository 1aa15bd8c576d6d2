package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/careerguide/careerguide/errors"
)

// GoogleEmbedder generates embeddings using the Gemini embedContent API.
type GoogleEmbedder struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// GoogleConfig configures the Google embedder.
type GoogleConfig struct {
	APIKey  string
	Model   string // default: text-embedding-004
	BaseURL string // default: https://generativelanguage.googleapis.com/v1beta
}

// NewGoogleEmbedder creates a new Google embedding provider.
func NewGoogleEmbedder(cfg GoogleConfig) *GoogleEmbedder {
	model := cfg.Model
	if model == "" {
		model = "text-embedding-004"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GoogleEmbedder{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type googleEmbedRequest struct {
	Model   string             `json:"model"`
	Content googleEmbedContent `json:"content"`
}

type googleEmbedContent struct {
	Parts []googleEmbedPart `json:"parts"`
}

type googleEmbedPart struct {
	Text string `json:"text"`
}

type googleEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// Embed generates embeddings for the given texts. The embedContent
// endpoint takes one text per call.
func (e *GoogleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	for i, text := range texts {
		reqBody := googleEmbedRequest{
			Model: "models/" + e.model,
			Content: googleEmbedContent{
				Parts: []googleEmbedPart{{Text: text}},
			},
		}

		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeEmbedding, "failed to marshal embed request")
		}

		url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", e.baseURL, e.model, e.apiKey)
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeEmbedding, "failed to create embed request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := e.client.Do(req)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeEmbedding, "embedding request failed")
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeEmbedding, "failed to read embed response")
		}

		if resp.StatusCode != http.StatusOK {
			return nil, errors.Newf(errors.ErrCodeEmbedding, "google embedding error (status %d): %s", resp.StatusCode, string(body))
		}

		var embedResp googleEmbedResponse
		if err := json.Unmarshal(body, &embedResp); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeEmbedding, "failed to parse embed response")
		}

		results[i] = embedResp.Embedding.Values
	}

	return results, nil
}

// Dimension returns the embedding dimension for the model.
func (e *GoogleEmbedder) Dimension() int {
	switch e.model {
	case "text-embedding-004", "embedding-001":
		return 768
	default:
		return 768
	}
}
