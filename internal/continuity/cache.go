package continuity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/phrazzld/scry-tutor/internal/domain"
)

// CachedTracker memoizes continuity contexts per learner for a bounded time.
// Failed lookups are not cached.
type CachedTracker struct {
	tracker *Tracker
	cache   *expirable.LRU[uuid.UUID, Context]
	logger  *slog.Logger
}

var _ Lookup = (*CachedTracker)(nil)

// NewCachedTracker wraps tracker with an LRU of size entries that expire after ttl.
func NewCachedTracker(tracker *Tracker, size int, ttl time.Duration, logger *slog.Logger) (*CachedTracker, error) {
	if tracker == nil {
		return nil, errors.New("tracker cannot be nil")
	}
	if size <= 0 {
		size = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedTracker{
		tracker: tracker,
		cache:   expirable.NewLRU[uuid.UUID, Context](size, nil, ttl),
		logger:  logger.With("component", "continuity_cache"),
	}, nil
}

// GetContinuityContext returns the cached context or computes and caches it.
func (c *CachedTracker) GetContinuityContext(ctx context.Context, learnerID uuid.UUID) Context {
	if cached, ok := c.cache.Get(learnerID); ok {
		c.logger.DebugContext(ctx, "continuity cache hit", "learner_id", learnerID)
		return cloneContext(cached)
	}

	result, err := c.tracker.lookup(ctx, learnerID)
	if err != nil {
		c.tracker.logger.WarnContext(ctx, "continuity lookup failed, continuing without previous vocabulary",
			"learner_id", learnerID,
			"error", err)
		return Empty()
	}
	c.cache.Add(learnerID, result)
	return cloneContext(result)
}

// Invalidate drops the cached context for the learner. Call it after a lesson
// is saved or shared.
func (c *CachedTracker) Invalidate(learnerID uuid.UUID) {
	if c.cache.Remove(learnerID) {
		c.logger.Debug("continuity cache invalidated", "learner_id", learnerID)
	}
}

// Len returns the number of cached learners.
func (c *CachedTracker) Len() int {
	return c.cache.Len()
}

func cloneContext(in Context) Context {
	out := in
	out.PreviousVocabulary = append(make([]domain.VocabularyRef, 0, len(in.PreviousVocabulary)), in.PreviousVocabulary...)
	return out
}
