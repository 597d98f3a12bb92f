package core

import (
	"context"
	"strings"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type executedQuery struct {
	Query  string
	Params map[string]any
}

type MockDriver struct {
	mu       sync.Mutex
	Executed []executedQuery
	// FailOn makes any query containing it return Err.
	FailOn       string
	Err          error
	IndicesBuilt bool
	MockResult   neo4j.EagerResult
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if m.Err != nil && (m.FailOn == "" || strings.Contains(query, m.FailOn)) {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	m.IndicesBuilt = true
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

// queries returns the executed queries that contain fragment.
func (m *MockDriver) queries(fragment string) []executedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []executedQuery
	for _, q := range m.Executed {
		if strings.Contains(q.Query, fragment) {
			out = append(out, q)
		}
	}
	return out
}
