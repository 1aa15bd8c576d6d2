package llm

import (
	"context"
	"sync"
)

// MockProvider is a mock generator for testing.
type MockProvider struct {
	mu         sync.Mutex
	response   string
	err        error
	lastPrompt string
	callCount  int

	// GenerateFunc can be set for custom behavior.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

// NewMockProvider creates a new mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// SetResponse sets the response text.
func (p *MockProvider) SetResponse(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.response = text
}

// SetError sets an error to return.
func (p *MockProvider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// LastPrompt returns the prompt from the most recent Generate call.
func (p *MockProvider) LastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPrompt
}

// CallCount returns the number of Generate calls made.
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// Generate implements the Provider interface.
func (p *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	p.callCount++
	p.lastPrompt = prompt
	fn := p.GenerateFunc
	response, err := p.response, p.err
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	if err != nil {
		return "", err
	}
	return response, nil
}
