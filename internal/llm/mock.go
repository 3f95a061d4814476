package llm

import (
	"context"
	"errors"
	"sync"
)

// MockClient is an in-memory stand-in for Client in tests. Replies are served
// in FIFO order and every prompt is recorded for assertions.
type MockClient struct {
	mu      sync.Mutex
	replies []MockReply
	Prompts []string
}

// MockReply is one canned completion outcome.
type MockReply struct {
	Text string
	Err  error
}

// NewMockClient creates a mock that serves the given replies in order.
func NewMockClient(replies ...MockReply) *MockClient {
	return &MockClient{replies: replies}
}

// Complete pops the next canned reply. It fails once the queue is exhausted,
// which catches tests that trigger more completions than they expect.
func (m *MockClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if len(m.replies) == 0 {
		return "", errors.New("mock: no replies left")
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// Ping always succeeds.
func (m *MockClient) Ping(ctx context.Context) error {
	return nil
}
