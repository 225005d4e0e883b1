package testutil

import (
	"context"
	"fmt"
	"sync"

	"groundqa/internal/domain"
)

// MockCompleter records completion requests and returns a canned reply.
type MockCompleter struct {
	mu       sync.Mutex
	requests []domain.CompletionRequest

	Reply string
	Fail  bool
}

func NewMockCompleter(reply string) *MockCompleter {
	return &MockCompleter{Reply: reply}
}

func (m *MockCompleter) Name() string { return "mock" }

func (m *MockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.Fail {
		return "", fmt.Errorf("%w: mock completion failure", domain.ErrProvider)
	}
	return m.Reply, nil
}

// Requests returns a copy of every request received so far.
func (m *MockCompleter) Requests() []domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CompletionRequest(nil), m.requests...)
}
