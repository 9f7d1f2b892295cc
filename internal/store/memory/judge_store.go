// Package memory provides an in-memory judge store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/eventra/judge-scout/internal/scout"
)

// JudgeStore keeps judges in a map keyed by name.
type JudgeStore struct {
	mu     sync.RWMutex
	judges map[string]scout.Judge
}

// NewJudgeStore constructs a JudgeStore.
func NewJudgeStore() *JudgeStore {
	return &JudgeStore{judges: make(map[string]scout.Judge)}
}

// Upsert replaces the record with the judge's name.
func (s *JudgeStore) Upsert(_ context.Context, judge scout.Judge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.judges[judge.Name] = judge
	return nil
}

// List returns all judges ordered by relevance descending.
func (s *JudgeStore) List(_ context.Context) ([]scout.Judge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]scout.Judge, 0, len(s.judges))
	for _, judge := range s.judges {
		out = append(out, judge)
	}
	// Alphabetical first so ties in the stable relevance sort stay
	// deterministic across runs.
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	scout.SortByRelevance(out)
	return out, nil
}

// Len reports the number of stored judges.
func (s *JudgeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.judges)
}
