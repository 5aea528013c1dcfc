// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/kairoscv/resume-extractor/internal/llm"
)

// MockLLMClient implements llm.Client for testing. Unset funcs return
// empty results.
type MockLLMClient struct {
	GenerateContentFunc      func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc         func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateFromDocumentFunc func(ctx context.Context, prompt string, document []byte, mimeType string, tier llm.ModelTier) (string, error)
	GetModelFunc             func(tier llm.ModelTier) string
	CloseFunc                func() error

	mu      sync.Mutex
	prompts []string
}

func (m *MockLLMClient) record(prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
}

// Prompts returns every prompt the mock has received, in call order.
func (m *MockLLMClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Calls returns how many generate calls the mock has received.
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(prompt)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) GenerateFromDocument(ctx context.Context, prompt string, document []byte, mimeType string, tier llm.ModelTier) (string, error) {
	m.record(prompt)
	if m.GenerateFromDocumentFunc != nil {
		return m.GenerateFromDocumentFunc(ctx, prompt, document, mimeType, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
