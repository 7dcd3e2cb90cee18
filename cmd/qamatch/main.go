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

package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/qamatch"
	"github.com/poiesic/qamatch/config"
	"github.com/poiesic/qamatch/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// runner carries the output streams and the configuration loaded by the
// Before hook into the command actions.
type runner struct {
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
}

func newApp(stdout, stderr io.Writer) *cli.App {
	r := &runner{stdout: stdout, stderr: stderr}
	return &cli.App{
		Name:      "qamatch",
		Usage:     "Match questions against a curated question/answer database",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a qamatch.yaml file (defaults to ./qamatch.yaml when present)",
			},
		},
		Before: r.before,
		Commands: []*cli.Command{
			{
				Name:      "match",
				Usage:     "Print the confidence, question and answer of the closest candidate",
				ArgsUsage: "QUERY...",
				Action:    r.matchCommand,
				Flags:     matcherFlags(),
			},
			{
				Name:      "score",
				Usage:     "Print the distance between two strings",
				ArgsUsage: "A B",
				Action:    r.scoreCommand,
				Flags:     matcherFlags(),
			},
			{
				Name:      "rank",
				Usage:     "Print the closest candidates with their distances",
				ArgsUsage: "QUERY...",
				Action:    r.rankCommand,
				Flags: append(matcherFlags(),
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"n"},
						Usage:   "Number of candidates to print (0 prints all)",
						Value:   5,
					},
				),
			},
			{
				Name:   "warm",
				Usage:  "Precompute candidate vectors into the cache",
				Action: r.warmCommand,
				Flags:  matcherFlags(),
			},
			{
				Name:      "init",
				Usage:     "Write a configuration file with defaults and the given flags",
				ArgsUsage: "[PATH]",
				Action:    r.initCommand,
				Flags: append(matcherFlags(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				),
			},
			{
				Name:   "cache-purge",
				Usage:  "Remove cached candidate vectors",
				Action: r.cachePurgeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to the BadgerDB vector cache directory",
					},
					&cli.StringFlag{
						Name:  "namespace",
						Usage: "Only purge vectors of this embedder fingerprint",
					},
				},
			},
		},
	}
}

func matcherFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the question/answer CSV file",
		},
		&cli.StringFlag{
			Name:  "db-encoding",
			Usage: "Encoding of the CSV file (windows-1252, utf-8)",
		},
		&cli.StringFlag{
			Name:  "weights",
			Usage: "Path to the PyTorch state dict of the head",
		},
		&cli.StringFlag{
			Name:  "embedding-backend",
			Usage: "Encoder backend (tei, openai)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.StringFlag{
			Name:  "truncation",
			Usage: "Handling of inputs longer than the encoder limit (reject, truncate)",
		},
		&cli.StringFlag{
			Name:  "cache",
			Usage: "Path to the BadgerDB vector cache directory",
		},
		&cli.StringFlag{
			Name:  "namespace",
			Usage: "Cache namespace (defaults to the embedder fingerprint)",
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Maximum distance reported with confidence 1",
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Number of warm-up workers",
		},
	}
}

func (r *runner) before(c *cli.Context) error {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	if err := setupLogger(r.stderr, level); err != nil {
		return err
	}
	cfg.Logging.Level = level
	r.cfg = cfg
	return nil
}

// applyFlags overrides config values with the flags given on the command line.
func (r *runner) applyFlags(c *cli.Context) *config.Config {
	cfg := *r.cfg
	if c.IsSet("db") {
		cfg.Dataset.Path = c.String("db")
	}
	if c.IsSet("db-encoding") {
		cfg.Dataset.Encoding = c.String("db-encoding")
	}
	if c.IsSet("weights") {
		cfg.Model.Weights = c.String("weights")
	}
	if c.IsSet("embedding-backend") {
		cfg.Embedding.Backend = c.String("embedding-backend")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("truncation") {
		cfg.Embedding.Truncation = c.String("truncation")
	}
	if c.IsSet("cache") {
		cfg.Cache.Path = c.String("cache")
	}
	if c.IsSet("namespace") {
		cfg.Cache.Namespace = c.String("namespace")
	}
	if c.IsSet("threshold") {
		cfg.Match.Threshold = c.Float64("threshold")
	}
	if c.IsSet("pool-size") {
		cfg.Match.PoolSize = c.Int("pool-size")
	}
	return &cfg
}

func (r *runner) openMatcher(c *cli.Context, extra ...qamatch.Option) (*qamatch.Matcher, error) {
	cfg := r.applyFlags(c)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	aiConfig, err := cfg.AIConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	datasetOpts, err := cfg.DatasetOptions()
	if err != nil {
		return nil, err
	}

	opts := []qamatch.Option{
		qamatch.WithDatasetPath(cfg.Dataset.Path),
		qamatch.WithDatasetOptions(datasetOpts...),
		qamatch.WithWeightsPath(cfg.Model.Weights),
		qamatch.WithAIConfig(aiConfig),
		qamatch.WithThreshold(cfg.Match.Threshold),
	}
	if cfg.Match.PoolSize > 0 {
		opts = append(opts, qamatch.WithPoolSize(cfg.Match.PoolSize))
	}
	if cfg.Cache.Path != "" {
		opts = append(opts, qamatch.WithCachePath(cfg.Cache.Path))
	}
	if cfg.Cache.Namespace != "" {
		opts = append(opts, qamatch.WithCacheNamespace(cfg.Cache.Namespace))
	}
	opts = append(opts, extra...)

	slog.Debug("opening matcher",
		"db", cfg.Dataset.Path,
		"backend", aiConfig.Backend,
		"embedding_host", aiConfig.EmbeddingHost,
		"embedding_model", aiConfig.EmbeddingModel,
		"cache", cfg.Cache.Path)

	return qamatch.NewMatcher(c.Context, opts...)
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("a query is required")
	}
	return query, nil
}

func (r *runner) matchCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}

	m, err := r.openMatcher(c)
	if err != nil {
		return err
	}
	defer m.Close()

	result, err := m.GetBestMatch(c.Context, query)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	fmt.Fprintln(r.stdout, result.Confidence)
	fmt.Fprintln(r.stdout, result.Question)
	fmt.Fprintln(r.stdout, result.Answer)
	return nil
}

func (r *runner) scoreCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("score takes exactly two arguments, got %d", c.NArg())
	}

	m, err := r.openMatcher(c)
	if err != nil {
		return err
	}
	defer m.Close()

	distance, err := m.Score(c.Context, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("score failed: %w", err)
	}

	fmt.Fprintf(r.stdout, "%.6f\n", distance)
	return nil
}

func (r *runner) rankCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	if c.Int("top") < 0 {
		return fmt.Errorf("top must not be negative")
	}

	m, err := r.openMatcher(c)
	if err != nil {
		return err
	}
	defer m.Close()

	ranked, err := m.Rank(c.Context, query, c.Int("top"))
	if err != nil {
		return fmt.Errorf("rank failed: %w", err)
	}

	for i, sc := range ranked {
		fmt.Fprintf(r.stdout, "%d\t%.6f\t%s\n", i+1, sc.Distance, sc.Candidate.Question)
	}
	return nil
}

func (r *runner) warmCommand(c *cli.Context) error {
	cfg := r.applyFlags(c)
	if cfg.Cache.Path == "" {
		return fmt.Errorf("cache path is required (--cache or cache.path)")
	}

	fmt.Fprintf(r.stderr, "Database: %s\n", cfg.Dataset.Path)
	fmt.Fprintf(r.stderr, "Cache: %s\n", cfg.Cache.Path)
	fmt.Fprintln(r.stderr)

	m, err := r.openMatcher(c, qamatch.WithProgress(r.stderr))
	if err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}
	defer m.Close()

	namespace := cfg.Cache.Namespace
	if namespace == "" {
		namespace = m.Fingerprint()
	}
	fmt.Fprintf(r.stdout, "Cached %d candidates under namespace %s\n", len(m.Candidates()), namespace)
	return nil
}

func (r *runner) initCommand(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("init takes at most one path, got %d", c.NArg())
	}
	path := config.FileName
	if c.NArg() == 1 {
		path = c.Args().First()
	}

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := r.applyFlags(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(r.stdout, "Wrote %s\n", path)
	return nil
}

func (r *runner) cachePurgeCommand(c *cli.Context) error {
	path := r.cfg.Cache.Path
	if c.IsSet("cache") {
		path = c.String("cache")
	}
	if path == "" {
		return fmt.Errorf("cache path is required (--cache or cache.path)")
	}

	cache, err := badger.NewVectorCache(path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()

	namespace := c.String("namespace")
	if err := cache.Purge(c.Context, namespace); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	remaining, err := cache.Count(c.Context)
	if err != nil {
		return fmt.Errorf("failed to count cached vectors: %w", err)
	}
	if namespace == "" {
		namespace = "*"
	}
	fmt.Fprintf(r.stdout, "Purged namespace %s, %d vectors remain\n", namespace, remaining)
	return nil
}

func setupLogger(w io.Writer, levelStr string) error {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
