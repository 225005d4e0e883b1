// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"groundqa/internal/domain"
)

// MockEmbedder is a test embedder that returns predictable embeddings.
type MockEmbedder struct {
	mu    sync.Mutex
	calls map[string]int

	Embeddings map[string][]float64

	// Default is returned for texts missing from Embeddings.
	Default []float64

	// FailOn causes Embed to return an error when the input text matches.
	FailOn map[string]bool
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		calls:      make(map[string]int),
		Embeddings: make(map[string][]float64),
		FailOn:     make(map[string]bool),
		Default:    []float64{0.1, 0.2, 0.3},
	}
}

func (m *MockEmbedder) Name() string { return "mock" }

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[text]++

	if m.FailOn[text] {
		return nil, fmt.Errorf("%w: mock embedding failure for: %s", domain.ErrProvider, text)
	}
	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}
	return m.Default, nil
}

// Calls returns how many times text was embedded.
func (m *MockEmbedder) Calls(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[text]
}

// TotalCalls returns the number of Embed calls across all texts.
func (m *MockEmbedder) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}
