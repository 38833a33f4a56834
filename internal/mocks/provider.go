package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-tutor/internal/generation"
)

// MockProvider implements generation.Provider for testing
type MockProvider struct {
	// NameValue is returned by Name
	NameValue string

	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, prompt string, params generation.Params) (string, error)

	// Default response values
	Text string
	Err  error

	// Call tracking for verification
	GenerateCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// Prompts contains all prompts passed to Generate calls
		Prompts []string

		// Params contains all sampling parameters passed to Generate calls
		Params []generation.Params
	}
}

var _ generation.Provider = (*MockProvider)(nil)

// Name implements the generation.Provider interface
func (m *MockProvider) Name() string {
	return m.NameValue
}

// Generate implements the generation.Provider interface
func (m *MockProvider) Generate(ctx context.Context, prompt string, params generation.Params) (string, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Prompts = append(m.GenerateCalls.Prompts, prompt)
	m.GenerateCalls.Params = append(m.GenerateCalls.Params, params)
	m.GenerateCalls.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt, params)
	}
	return m.Text, m.Err
}

// CallCount returns how many times Generate was called.
func (m *MockProvider) CallCount() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// LastPrompt returns the prompt of the most recent Generate call.
func (m *MockProvider) LastPrompt() string {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	if len(m.GenerateCalls.Prompts) == 0 {
		return ""
	}
	return m.GenerateCalls.Prompts[len(m.GenerateCalls.Prompts)-1]
}

// NewMockProviderWithText creates a MockProvider that returns text
func NewMockProviderWithText(name, text string) *MockProvider {
	return &MockProvider{NameValue: name, Text: text}
}

// NewMockProviderWithError creates a MockProvider that returns err
func NewMockProviderWithError(name string, err error) *MockProvider {
	return &MockProvider{NameValue: name, Err: err}
}

// MockTextGenerator implements generation.TextGenerator for testing
type MockTextGenerator struct {
	GenerateFn func(ctx context.Context, prompt string, params generation.Params) (generation.Result, error)

	Result generation.Result
	Err    error

	mu      sync.Mutex
	prompts []string
}

var _ generation.TextGenerator = (*MockTextGenerator)(nil)

// Generate implements the generation.TextGenerator interface
func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, params generation.Params) (generation.Result, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt, params)
	}
	return m.Result, m.Err
}

// Prompts returns every prompt received, in call order.
func (m *MockTextGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
