package scout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	raws  []RawProfile
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) ([]RawProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raws, nil
}

type fakeStore struct {
	mu      sync.Mutex
	judges  map[string]Judge
	failFor map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{judges: make(map[string]Judge), failFor: make(map[string]error)}
}

func (s *fakeStore) Upsert(_ context.Context, judge Judge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[judge.Name]; ok {
		return err
	}
	s.judges[judge.Name] = judge
	return nil
}

func (s *fakeStore) List(_ context.Context) ([]Judge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Judge, 0, len(s.judges))
	for _, j := range s.judges {
		out = append(out, j)
	}
	return out, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.judges)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ScrapeEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, _ string, payload any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	if ev, ok := payload.(ScrapeEvent); ok {
		p.events = append(p.events, ev)
	}
	return "fake-1", nil
}

func (p *fakePublisher) last(t *testing.T) ScrapeEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.events)
	return p.events[len(p.events)-1]
}

func TestFinder_Success_SortedAndPersisted(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{raws: []RawProfile{
		{Name: "Low", Status: "offline", Price: "$1.00"},
		{Name: "High", Status: "online", Price: "$2.00", Location: "Austin, TX"},
	}}
	store := newFakeStore()
	pub := &fakePublisher{}
	finder := NewFinder(extractor, store, pub, nil, zap.NewNop())

	judges := finder.FindCandidates(context.Background(), "technology")

	require.Len(t, judges, 2)
	require.Equal(t, "High", judges[0].Name)
	require.Equal(t, 95, judges[0].RelevanceScore)
	require.Equal(t, float64(120), judges[0].HourlyRate)
	require.Equal(t, "Low", judges[1].Name)
	require.Equal(t, 80, judges[1].RelevanceScore)

	require.Equal(t, 2, store.count())
	event := pub.last(t)
	require.False(t, event.Fallback)
	require.Equal(t, 2, event.Candidates)
	require.Equal(t, "technology", event.Topic)
}

func TestFinder_EmptyResultIsNotFallback(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{}
	store := newFakeStore()
	pub := &fakePublisher{}
	finder := NewFinder(extractor, store, pub, nil, zap.NewNop())

	judges := finder.FindCandidates(context.Background(), "underwater-basket-weaving")

	require.NotNil(t, judges)
	require.Empty(t, judges)
	require.Zero(t, store.count())
	event := pub.last(t)
	require.False(t, event.Fallback)
	require.Zero(t, event.Candidates)
}

func TestFinder_ExtractionFailureReturnsFallbackPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "connection", err: ErrConnection},
		{name: "navigation", err: ErrNavigation},
		{name: "structure timeout", err: ErrStructureTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			extractor := &fakeExtractor{err: tc.err}
			store := newFakeStore()
			pub := &fakePublisher{}
			finder := NewFinder(extractor, store, pub, nil, zap.NewNop())

			judges := finder.FindCandidates(context.Background(), "machine-learning")

			require.Equal(t, FallbackJudges("machine-learning"), judges)
			require.Len(t, judges, 2)
			require.Equal(t, "Tony DiNitto", judges[0].Name)
			require.Equal(t, Unavailable, judges[0].Availability)
			require.Equal(t, float64(300), judges[0].HourlyRate)
			require.Equal(t, 85, judges[0].RelevanceScore)
			require.Equal(t, "MACHINE LEARNING", judges[0].Expertise)
			require.Equal(t, "Expert Backup", judges[1].Name)
			require.Equal(t, Available, judges[1].Availability)
			require.Empty(t, judges[1].Location)

			// Fallback data is synthetic; it must not be persisted.
			require.Zero(t, store.count())
			event := pub.last(t)
			require.True(t, event.Fallback)
			require.Equal(t, 2, event.Candidates)
		})
	}
}

func TestFinder_PersistenceFailureDoesNotAffectResult(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{raws: []RawProfile{
		{Name: "Keeps", Status: "online"},
		{Name: "Fails", Status: "online"},
	}}
	store := newFakeStore()
	store.failFor["Fails"] = errors.New("connection reset")
	finder := NewFinder(extractor, store, nil, nil, zap.NewNop())

	judges := finder.FindCandidates(context.Background(), "technology")

	require.Len(t, judges, 2)
	require.Equal(t, 1, store.count())
}

func TestFinder_PublishFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{raws: []RawProfile{{Name: "X"}}}
	pub := &fakePublisher{err: errors.New("broker down")}
	finder := NewFinder(extractor, newFakeStore(), pub, nil, zap.NewNop())

	judges := finder.FindCandidates(context.Background(), "technology")
	require.Len(t, judges, 1)
}

func TestFinder_NilStoreAndPublisher(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{raws: []RawProfile{{Name: "X", Status: "online"}}}
	finder := NewFinder(extractor, nil, nil, nil, nil)

	judges := finder.FindCandidates(context.Background(), "technology")
	require.Len(t, judges, 1)
	require.Equal(t, 90, judges[0].RelevanceScore)
}

type fixedScorer struct{}

func (fixedScorer) Score(_ RawProfile) int { return 42 }

func TestFinder_CustomScorer(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{raws: []RawProfile{{Name: "X", Status: "online"}}}
	finder := NewFinder(extractor, nil, nil, fixedScorer{}, zap.NewNop())

	judges := finder.FindCandidates(context.Background(), "technology")
	require.Equal(t, 42, judges[0].RelevanceScore)
}
