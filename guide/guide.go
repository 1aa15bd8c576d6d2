// Package guide answers career questions about an indexed resume.
//
// It retrieves the most relevant resume passages, composes them with the
// user's question into a fixed prompt and parses the model output into
// discrete suggestions. Generation failures degrade into a normal
// response whose single suggestion carries the failure text; the chat
// contract stays 200 for everything except retrieval-side faults.
package guide

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/careerguide/careerguide/errors"
	"github.com/careerguide/careerguide/llm"
	"github.com/careerguide/careerguide/logging"
	"github.com/careerguide/careerguide/vectorstore"
)

// Response is the chat answer returned to the client.
type Response struct {
	Title       string   `json:"title"`
	Suggestions []string `json:"suggestions"`
}

const (
	// TitleSuggestions is the title of a successful answer.
	TitleSuggestions = "AI Suggestions"
	// TitleError is the title when no resume has been indexed.
	TitleError = "Error"

	// noResumeMessage is the instruction shown before the first upload.
	noResumeMessage = "Please upload a resume first."

	// failurePrefix marks a generation failure absorbed into the answer.
	failurePrefix = "Gemini API call failed: "
)

// promptTemplate mirrors the deployed career-guide prompt. The {context}
// and {question} placeholders are substituted verbatim.
const promptTemplate = `You are an AI Career Guide.
Given the candidate's resume, answer the user query.

**Rules:**
- Limit the answer to 10 bullet points (max 300 words).
- Prioritize the most impactful changes only.
- Return output in bullet points, separated by '||' for each point.

Context: {context}
Question: {question}`

// Guide orchestrates retrieval-augmented question answering.
type Guide struct {
	store     vectorstore.Store
	generator llm.Provider
	logger    *logging.Logger
	topK      int
	timeout   time.Duration
}

// Config configures a Guide.
type Config struct {
	Store     vectorstore.Store
	Generator llm.Provider
	Logger    *logging.Logger
	TopK      int           // default vectorstore.DefaultTopK
	Timeout   time.Duration // deadline for the model call, default 60s
}

// New creates a Guide.
func New(cfg Config) *Guide {
	topK := cfg.TopK
	if topK <= 0 {
		topK = vectorstore.DefaultTopK
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New()
	}
	return &Guide{
		store:     cfg.Store,
		generator: cfg.Generator,
		logger:    logger.WithComponent("guide"),
		topK:      topK,
		timeout:   timeout,
	}
}

// Answer produces suggestions for the query. Retrieval faults (for
// example an embedding API outage) propagate as errors; generation
// failures degrade into the response body.
func (g *Guide) Answer(ctx context.Context, query string) (Response, error) {
	if g.store.Len() == 0 {
		return Response{Title: TitleError, Suggestions: []string{noResumeMessage}}, nil
	}

	results, err := g.store.Retrieve(ctx, query, g.topK)
	if err != nil {
		if errors.Is(err, errors.ErrCodeStoreUnavailable) {
			// Store emptied is not reachable through the append-only API,
			// but the contract is the same either way.
			return Response{Title: TitleError, Suggestions: []string{noResumeMessage}}, nil
		}
		return Response{}, errors.Wrap(err, "retrieval failed")
	}

	contexts := make([]string, len(results))
	for i, r := range results {
		contexts[i] = r.Text
	}
	prompt := composePrompt(strings.Join(contexts, "\n\n"), query)

	genCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.generator.Generate(genCtx, prompt)
	if err != nil {
		g.logger.Warn("generation failed", map[string]interface{}{"error": err.Error()})
		return Response{
			Title:       TitleSuggestions,
			Suggestions: []string{failurePrefix + err.Error()},
		}, nil
	}

	return Response{Title: TitleSuggestions, Suggestions: splitSuggestions(raw)}, nil
}

// composePrompt substitutes the placeholders in the prompt template.
func composePrompt(context, question string) string {
	return strings.NewReplacer(
		"{context}", context,
		"{question}", question,
	).Replace(promptTemplate)
}

// bulletMarkers are trimmed from suggestion edges: hyphens, bullet dots
// and the Latin-1 mojibake of a bullet dot ("â€¢") that some encodings
// produce.
const bulletMarkers = "-•*â€¢"

// splitSuggestions splits raw model output on the '||' delimiter, trims
// whitespace and bullet markers, and drops empty segments. A response
// without the delimiter becomes a single suggestion; the model does not
// always follow the formatting instruction.
func splitSuggestions(raw string) []string {
	segments := strings.Split(raw, "||")
	suggestions := make([]string, 0, len(segments))
	for _, seg := range segments {
		trimmed := strings.TrimFunc(seg, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune(bulletMarkers, r)
		})
		if trimmed == "" {
			continue
		}
		suggestions = append(suggestions, trimmed)
	}
	return suggestions
}
