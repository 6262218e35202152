package api

import (
	"context"
	"sync"

	"github.com/diogo/chaindocs/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	URL       string
	AskVal    *models.AskResponse
	AskErr    error
	HealthVal *models.HealthStatus
	HealthErr error
	// AskFunc overrides AskVal/AskErr when set
	AskFunc func(ctx context.Context, query string) (*models.AskResponse, error)

	mu      sync.Mutex
	queries []string
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Ask(ctx context.Context, query string) (*models.AskResponse, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.AskFunc != nil {
		return m.AskFunc(ctx, query)
	}
	return m.AskVal, m.AskErr
}

func (m *MockClient) Health(ctx context.Context) (*models.HealthStatus, error) {
	return m.HealthVal, m.HealthErr
}

func (m *MockClient) BaseURL() string {
	if m.URL == "" {
		return models.DefaultHost
	}
	return m.URL
}

// Queries returns every query passed to Ask, in order
func (m *MockClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}
