// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qamatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/qamatch/ai"
	"github.com/poiesic/qamatch/ai/openai"
	"github.com/poiesic/qamatch/ai/tei"
	"github.com/poiesic/qamatch/core"
	"github.com/poiesic/qamatch/dataset"
	"github.com/poiesic/qamatch/head"
	"github.com/poiesic/qamatch/match"
	"github.com/poiesic/qamatch/scoring"
	"github.com/poiesic/qamatch/storage"
	"github.com/poiesic/qamatch/storage/badger"
)

// Matcher answers free-text questions from a fixed question/answer database.
type Matcher struct {
	selector *match.Selector
	scorer   *scoring.PairScorer
	embedder ai.SentenceEmbedder
	cache    storage.VectorCache
	logger   *slog.Logger
}

// Option configures a Matcher.
type Option func(*matcherOptions)

type matcherOptions struct {
	datasetPath string
	datasetOpts []dataset.Option
	candidates  []core.Candidate
	weightsPath string
	head        *head.Head
	aiConfig    *ai.Config
	tokens      ai.TokenEmbedder
	encoderName string
	sentences   ai.SentenceEmbedder
	cachePath   string
	selectOpts  []match.Option
	logger      *slog.Logger
}

// WithDatasetPath sets the candidate CSV file. Default is "db.csv".
func WithDatasetPath(path string) Option {
	return func(o *matcherOptions) {
		o.datasetPath = path
	}
}

// WithDatasetOptions passes loader options through to dataset.Load.
func WithDatasetOptions(opts ...dataset.Option) Option {
	return func(o *matcherOptions) {
		o.datasetOpts = append(o.datasetOpts, opts...)
	}
}

// WithCandidates supplies the candidate list directly; no file is read.
func WithCandidates(candidates []core.Candidate) Option {
	return func(o *matcherOptions) {
		o.candidates = candidates
	}
}

// WithWeightsPath sets the PyTorch state dict of the head. Default is "model.pt".
func WithWeightsPath(path string) Option {
	return func(o *matcherOptions) {
		o.weightsPath = path
	}
}

// WithHead supplies an already constructed head.
func WithHead(h *head.Head) Option {
	return func(o *matcherOptions) {
		o.head = h
	}
}

// WithAIConfig sets the encoder configuration. Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *matcherOptions) {
		o.aiConfig = cfg
	}
}

// WithTokenEmbedder replaces the HTTP token encoder.
func WithTokenEmbedder(tokens ai.TokenEmbedder) Option {
	return func(o *matcherOptions) {
		o.tokens = tokens
	}
}

// WithEncoderName names the token encoder supplied with WithTokenEmbedder.
// The name becomes part of the embedder fingerprint and therefore of the cache
// namespace. Without it the token embedder must provide Fingerprint() string.
func WithEncoderName(name string) Option {
	return func(o *matcherOptions) {
		o.encoderName = name
	}
}

// WithSentenceEmbedder replaces the whole encoder and head stack.
func WithSentenceEmbedder(e ai.SentenceEmbedder) Option {
	return func(o *matcherOptions) {
		o.sentences = e
	}
}

// WithCachePath enables the persistent vector cache at path.
func WithCachePath(path string) Option {
	return func(o *matcherOptions) {
		o.cachePath = path
	}
}

// WithThreshold sets the confidence threshold.
func WithThreshold(threshold float64) Option {
	return func(o *matcherOptions) {
		o.selectOpts = append(o.selectOpts, match.WithThreshold(threshold))
	}
}

// WithPoolSize sets the number of warm-up workers.
func WithPoolSize(size int) Option {
	return func(o *matcherOptions) {
		o.selectOpts = append(o.selectOpts, match.WithPoolSize(size))
	}
}

// WithCacheNamespace stores cached vectors under namespace instead of the
// embedder fingerprint.
func WithCacheNamespace(namespace string) Option {
	return func(o *matcherOptions) {
		o.selectOpts = append(o.selectOpts, match.WithCacheNamespace(namespace))
	}
}

// WithProgress reports warm-up progress to w.
func WithProgress(w io.Writer) Option {
	return func(o *matcherOptions) {
		o.selectOpts = append(o.selectOpts, match.WithProgress(w))
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *matcherOptions) {
		o.logger = logger
	}
}

// NewMatcher loads the candidate database and the model, connects to the
// encoder and computes every candidate vector. Data problems fail with
// core.ErrDataLoad before any model is touched; model problems fail with
// core.ErrModelLoad.
func NewMatcher(ctx context.Context, opts ...Option) (*Matcher, error) {
	o := &matcherOptions{
		datasetPath: "db.csv",
		weightsPath: "model.pt",
		aiConfig:    ai.DefaultConfig(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	logger := o.logger.With("component", "matcher")

	candidates := o.candidates
	if candidates == nil {
		loaded, err := dataset.Load(o.datasetPath, o.datasetOpts...)
		if err != nil {
			return nil, err
		}
		candidates = loaded
	} else if err := core.ValidateCandidates(candidates); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDataLoad, err)
	}
	logger.Info("candidate database loaded", "count", len(candidates))

	embedder, err := o.buildEmbedder()
	if err != nil {
		return nil, err
	}
	logger.Info("sentence embedder ready", "fingerprint", embedder.Fingerprint())

	m := &Matcher{
		scorer:   scoring.NewPairScorer(embedder),
		embedder: embedder,
		logger:   logger,
	}

	selectOpts := append([]match.Option{match.WithLogger(o.logger)}, o.selectOpts...)
	if o.cachePath != "" {
		cache, err := badger.NewVectorCache(o.cachePath)
		if err != nil {
			return nil, err
		}
		m.cache = cache
		selectOpts = append(selectOpts, match.WithCache(cache))
	}

	m.selector, err = match.NewSelector(candidates, embedder, selectOpts...)
	if err != nil {
		m.Close()
		return nil, err
	}
	if err := m.selector.Warm(ctx); err != nil {
		m.Close()
		return nil, err
	}

	return m, nil
}

func (o *matcherOptions) buildEmbedder() (ai.SentenceEmbedder, error) {
	if o.sentences != nil {
		return o.sentences, nil
	}

	if o.tokens == nil && o.aiConfig.Backend == ai.BackendOpenAI {
		return openai.NewSentenceEmbedder(o.aiConfig)
	}

	h := o.head
	if h == nil {
		weights, err := head.Load(o.weightsPath)
		if err != nil {
			return nil, err
		}
		if h, err = head.New(weights); err != nil {
			return nil, err
		}
	}

	tokens := o.tokens
	encoder := o.encoderName
	if tokens == nil {
		var err error
		if tokens, err = tei.NewTokenEmbedder(o.aiConfig); err != nil {
			return nil, err
		}
		if encoder == "" {
			encoder = "tei:" + o.aiConfig.EmbeddingModel
		}
	} else if encoder == "" {
		fp, ok := tokens.(interface{ Fingerprint() string })
		if !ok || fp.Fingerprint() == "" {
			return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, ErrEncoderNameRequired)
		}
		encoder = fp.Fingerprint()
	}

	return head.NewSentenceEmbedder(tokens, h, encoder)
}

// GetBestMatch returns the stored question closest to query, its answer and
// the confidence flag. Invalid queries and encoder failures are errors, never
// a low confidence result.
func (m *Matcher) GetBestMatch(ctx context.Context, query string) (*core.MatchResult, error) {
	return m.selector.BestMatch(ctx, query)
}

// Rank returns the k candidates closest to query.
func (m *Matcher) Rank(ctx context.Context, query string, k int) ([]core.ScoredCandidate, error) {
	return m.selector.Rank(ctx, query, k)
}

// Score returns the distance between two arbitrary strings.
func (m *Matcher) Score(ctx context.Context, a, b string) (float64, error) {
	return m.scorer.Score(ctx, a, b)
}

// Threshold returns the confidence threshold in use.
func (m *Matcher) Threshold() float64 {
	return m.selector.Threshold()
}

// Fingerprint identifies the vector space; it is also the cache namespace.
func (m *Matcher) Fingerprint() string {
	return m.embedder.Fingerprint()
}

// Candidates returns the loaded candidate list.
func (m *Matcher) Candidates() []core.Candidate {
	return m.selector.Candidates()
}

// Close releases the vector cache.
func (m *Matcher) Close() error {
	if m.cache == nil {
		return nil
	}
	if err := m.cache.Close(); err != nil {
		m.logger.Error("error closing vector cache", "err", err)
		return err
	}
	return nil
}
