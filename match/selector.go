package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/qamatch/ai"
	"github.com/poiesic/qamatch/core"
	"github.com/poiesic/qamatch/scoring"
	"github.com/poiesic/qamatch/storage"
)

// DefaultThreshold is the largest distance still reported with high confidence.
const DefaultThreshold = 0.8

const defaultBatchSize = 16

// Selector finds the candidate question closest to a query.
// It is safe for concurrent use once constructed.
type Selector struct {
	candidates []core.Candidate
	embedder   ai.SentenceEmbedder
	threshold  float64
	poolSize   int
	batchSize  int
	cache      storage.VectorCache
	namespace  string
	progress   io.Writer
	logger     *slog.Logger

	warmMu  sync.Mutex
	mu      sync.RWMutex
	vectors [][]float32 // by candidate index; nil until warmed
}

// Option configures a Selector.
type Option func(*Selector) error

// WithThreshold sets the confidence threshold.
// Default is DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(s *Selector) error {
		if threshold < 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
		}
		s.threshold = threshold
		return nil
	}
}

// WithPoolSize sets the number of concurrent warm-up workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Selector) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}
		s.poolSize = size
		return nil
	}
}

// WithBatchSize sets how many questions one warm-up task embeds at once.
func WithBatchSize(size int) Option {
	return func(s *Selector) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		s.batchSize = size
		return nil
	}
}

// WithCache enables a persistent vector cache.
func WithCache(cache storage.VectorCache) Option {
	return func(s *Selector) error {
		s.cache = cache
		return nil
	}
}

// WithCacheNamespace overrides the cache namespace.
// Default is the embedder fingerprint.
func WithCacheNamespace(namespace string) Option {
	return func(s *Selector) error {
		if namespace != "" {
			s.namespace = namespace
		}
		return nil
	}
}

// WithProgress reports warm-up progress to w.
func WithProgress(w io.Writer) Option {
	return func(s *Selector) error {
		s.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSelector creates a selector over candidates. The list is used as given;
// candidate i must have Index i.
func NewSelector(candidates []core.Candidate, embedder ai.SentenceEmbedder, opts ...Option) (*Selector, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if err := core.ValidateCandidates(candidates); err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	s := &Selector{
		candidates: candidates,
		embedder:   embedder,
		threshold:  DefaultThreshold,
		poolSize:   poolSize,
		batchSize:  defaultBatchSize,
		namespace:  embedder.Fingerprint(),
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "selector")

	return s, nil
}

// Threshold returns the confidence threshold.
func (s *Selector) Threshold() float64 { return s.threshold }

// Candidates returns the candidate list. Callers must not modify it.
func (s *Selector) Candidates() []core.Candidate { return s.candidates }

// Warmed reports whether every candidate vector is available.
func (s *Selector) Warmed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vectors != nil
}

// Warm computes the sentence vector of every candidate question. Vectors
// found in the cache are reused; the rest are embedded in batches on a worker
// pool and written back to the cache. Calling Warm again is a no-op.
func (s *Selector) Warm(ctx context.Context) error {
	s.warmMu.Lock()
	defer s.warmMu.Unlock()

	if s.Warmed() {
		return nil
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	var tracker *ProgressTracker
	if s.progress != nil {
		tracker = NewProgressTracker(s.progress, len(s.candidates), s.batchSize)
		tracker.Start()
		defer tracker.Finish()
	}

	vectors := make([][]float32, len(s.candidates))
	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for start := 0; start < len(s.candidates); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		batch := s.candidates[start:min(start+s.batchSize, len(s.candidates))]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.warmBatch(ctx, batch, vectors, tracker); err != nil {
				fail(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		s.logger.Error("warm-up failed", "err", firstErr)
		return firstErr
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim || dim == 0 {
			return fmt.Errorf("%w: %w: candidate %d has dimension %d, candidate 0 has %d",
				core.ErrEncoding, ai.ErrUnexpectedDimension, i, len(v), dim)
		}
	}

	s.mu.Lock()
	s.vectors = vectors
	s.mu.Unlock()

	s.logger.Info("candidate vectors ready", "count", len(vectors), "dimension", dim)
	return nil
}

// warmBatch fills vectors for batch. Each task writes disjoint indices.
func (s *Selector) warmBatch(ctx context.Context, batch []core.Candidate, vectors [][]float32, tracker *ProgressTracker) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var missing []core.Candidate
	for _, c := range batch {
		if vec, ok := s.cached(ctx, c); ok {
			vectors[c.Index] = vec
			continue
		}
		missing = append(missing, c)
	}
	if tracker != nil {
		tracker.Cached(len(batch) - len(missing))
	}
	if len(missing) == 0 {
		return nil
	}

	texts := make([]string, len(missing))
	for i, c := range missing {
		texts[i] = c.Question
	}
	embedded, err := s.embedder.EmbedSentences(ctx, texts)
	if err != nil {
		return wrapEncoding(fmt.Errorf("embedding candidates %d..%d: %w",
			missing[0].Index, missing[len(missing)-1].Index, err))
	}
	if len(embedded) != len(missing) {
		return fmt.Errorf("%w: %w: got %d vectors for %d questions",
			core.ErrEncoding, ai.ErrUnexpectedResponseLength, len(embedded), len(missing))
	}

	for i, c := range missing {
		vectors[c.Index] = embedded[i]
		s.store(ctx, c, embedded[i])
	}
	if tracker != nil {
		tracker.Embedded(len(missing))
	}
	return nil
}

// cached looks c up in the cache. Cache failures are logged and treated as misses.
func (s *Selector) cached(ctx context.Context, c core.Candidate) ([]float32, bool) {
	if s.cache == nil {
		return nil, false
	}
	vec, err := s.cache.Get(ctx, storage.Key{Namespace: s.namespace, ID: c.ID})
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("vector cache read failed", "index", c.Index, "err", err)
		}
		return nil, false
	}
	return vec, true
}

func (s *Selector) store(ctx context.Context, c core.Candidate, vec []float32) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, storage.Key{Namespace: s.namespace, ID: c.ID}, vec); err != nil {
		s.logger.Warn("vector cache write failed", "index", c.Index, "err", err)
	}
}

// BestMatch returns the candidate closest to query.
func (s *Selector) BestMatch(ctx context.Context, query string) (*core.MatchResult, error) {
	return s.BestMatchWithMonitor(ctx, query, nil)
}

// BestMatchWithMonitor is BestMatch with stage callbacks.
func (s *Selector) BestMatchWithMonitor(ctx context.Context, query string, monitor SelectMonitor) (*core.MatchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	scored, err := s.score(ctx, query, monitor)
	if err != nil {
		return nil, err
	}

	best := 0
	for i := 1; i < len(scored); i++ {
		if scored[i].Distance < scored[best].Distance {
			best = i
		}
	}

	winner := scored[best]
	result := &core.MatchResult{
		Confidence: core.ConfidenceFor(winner.Distance, s.threshold),
		Question:   winner.Candidate.Question,
		Answer:     winner.Candidate.Answer,
		Index:      winner.Candidate.Index,
		Distance:   winner.Distance,
	}
	s.logger.Debug("matched query",
		"index", result.Index, "distance", result.Distance, "confidence", result.Confidence.String())

	monitor.Finish(result)
	return result, nil
}

// Rank returns the k candidates closest to query, nearest first. Equal
// distances keep list order. k <= 0 or k beyond the list returns every
// candidate.
func (s *Selector) Rank(ctx context.Context, query string, k int) ([]core.ScoredCandidate, error) {
	scored, err := s.score(ctx, query, &noopMonitor{})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(scored, func(a, b core.ScoredCandidate) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})

	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// score embeds query once and measures its distance to every candidate in list order.
func (s *Selector) score(ctx context.Context, query string, monitor SelectMonitor) ([]core.ScoredCandidate, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	monitor.Start(query)

	if err := s.Warm(ctx); err != nil {
		return nil, err
	}

	qvec, err := s.embedder.EmbedSentence(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, wrapEncoding(err)
	}
	monitor.AfterQueryEmbedding(qvec)

	s.mu.RLock()
	vectors := s.vectors
	s.mu.RUnlock()

	scored := make([]core.ScoredCandidate, len(s.candidates))
	for i, c := range s.candidates {
		d, err := scoring.Distance(vectors[i], qvec)
		if err != nil {
			return nil, fmt.Errorf("%w: candidate %d: %w", core.ErrEncoding, i, err)
		}
		scored[i] = core.ScoredCandidate{Candidate: c, Distance: d}
		monitor.Scored(c, d)
	}
	return scored, nil
}

func wrapEncoding(err error) error {
	if errors.Is(err, core.ErrEncoding) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrEncoding, err)
}
