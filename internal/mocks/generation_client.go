package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-study/internal/generation"
)

// GenerateCall records the arguments of one Generate call.
type GenerateCall struct {
	Text     string
	MCQCount int
}

// IncrementCall records the arguments of one GenerateIncrement call.
type IncrementCall struct {
	Text string
	Kind generation.Kind
}

// MockGenerationClient implements generation.Client for testing
type MockGenerationClient struct {
	// GenerateFn allows test cases to script the Generate behavior
	GenerateFn func(ctx context.Context, text string, mcqCount int) (string, error)

	// GenerateIncrementFn allows test cases to script the GenerateIncrement behavior
	GenerateIncrementFn func(ctx context.Context, text string, kind generation.Kind) (string, error)

	// Default response values
	Response string
	Err      error
	Model    string

	// mu protects the call tracking state for concurrent callers
	mu             sync.Mutex
	generateCalls  []GenerateCall
	incrementCalls []IncrementCall
}

// Generate implements the generation.Client interface
func (m *MockGenerationClient) Generate(ctx context.Context, text string, mcqCount int) (string, error) {
	m.mu.Lock()
	m.generateCalls = append(m.generateCalls, GenerateCall{Text: text, MCQCount: mcqCount})
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, text, mcqCount)
	}
	return m.Response, m.Err
}

// GenerateIncrement implements the generation.Client interface
func (m *MockGenerationClient) GenerateIncrement(
	ctx context.Context,
	text string,
	kind generation.Kind,
) (string, error) {
	m.mu.Lock()
	m.incrementCalls = append(m.incrementCalls, IncrementCall{Text: text, Kind: kind})
	m.mu.Unlock()

	if m.GenerateIncrementFn != nil {
		return m.GenerateIncrementFn(ctx, text, kind)
	}
	return m.Response, m.Err
}

// ModelName implements the generation.Client interface
func (m *MockGenerationClient) ModelName() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GenerateCalls returns a copy of the recorded Generate calls in call order.
func (m *MockGenerationClient) GenerateCalls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GenerateCall(nil), m.generateCalls...)
}

// IncrementCalls returns a copy of the recorded GenerateIncrement calls in call order.
func (m *MockGenerationClient) IncrementCalls() []IncrementCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]IncrementCall(nil), m.incrementCalls...)
}

// Reset clears recorded calls.
func (m *MockGenerationClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateCalls = nil
	m.incrementCalls = nil
}
