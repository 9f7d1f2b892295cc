package scout

import "context"

// Extractor obtains raw candidate profiles for a topic from the remote
// directory. Implementations own the browser session (or HTTP client) for the
// duration of the call and must release it on every exit path.
type Extractor interface {
	Extract(ctx context.Context, topic string) ([]RawProfile, error)
}

// JudgeStore persists scored judges keyed by name.
type JudgeStore interface {
	// Upsert inserts or fully replaces the record with the judge's name.
	Upsert(ctx context.Context, judge Judge) error
	// List returns all stored judges ordered by relevance descending.
	List(ctx context.Context) ([]Judge, error)
}

// Publisher pushes pipeline completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// SnapshotStore archives rendered listing HTML and returns a URI.
type SnapshotStore interface {
	Put(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Scorer assigns a relevance score to a raw profile. The default heuristic is
// additive over the presence and location tokens; alternative strategies plug
// in here.
type Scorer interface {
	Score(raw RawProfile) int
}
