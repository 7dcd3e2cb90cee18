package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/qamatch/ai"
	"github.com/poiesic/qamatch/dataset"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by LoadFromDir.
const FileName = "qamatch.yaml"

// Config holds all configuration for the matcher.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Model     ModelConfig     `yaml:"model"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Match     MatchConfig     `yaml:"match"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatasetConfig describes the candidate database file.
type DatasetConfig struct {
	Path     string `yaml:"path"`
	Encoding string `yaml:"encoding"` // "windows-1252" or "utf-8"
	Header   string `yaml:"header"`   // "present", "absent" or "auto"
}

// ModelConfig locates the fine-tuned head.
type ModelConfig struct {
	Weights string `yaml:"weights"` // PyTorch state dict
}

// EmbeddingConfig holds encoder connection settings.
type EmbeddingConfig struct {
	Backend           string        `yaml:"backend"` // "tei" or "openai"
	Host              string        `yaml:"host"`
	Model             string        `yaml:"model"`
	APIKeyEnv         string        `yaml:"api_key_env"` // Environment variable holding the API token
	TokenDimension    int           `yaml:"token_dimension"`
	MaxSequenceLength int           `yaml:"max_sequence_length"`
	Truncation        string        `yaml:"truncation"` // "reject" or "truncate"
	BatchSize         int           `yaml:"batch_size"`
	Timeout           time.Duration `yaml:"timeout"`
}

// MatchConfig holds selection settings.
type MatchConfig struct {
	Threshold float64 `yaml:"threshold"`
	PoolSize  int     `yaml:"pool_size"` // 0 picks a size from the CPU count
}

// CacheConfig holds the vector cache location. An empty path disables the cache.
type CacheConfig struct {
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"` // Defaults to the embedder fingerprint
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Dataset: DatasetConfig{
			Path:     "db.csv",
			Encoding: string(dataset.EncodingWindows1252),
			Header:   "present",
		},
		Model: ModelConfig{
			Weights: "model.pt",
		},
		Embedding: EmbeddingConfig{
			Backend:           string(aiDefaults.Backend),
			Host:              aiDefaults.EmbeddingHost,
			Model:             aiDefaults.EmbeddingModel,
			APIKeyEnv:         "QAMATCH_API_TOKEN",
			TokenDimension:    aiDefaults.TokenDimension,
			MaxSequenceLength: aiDefaults.MaxSequenceLength,
			Truncation:        string(aiDefaults.Truncation),
			BatchSize:         aiDefaults.BatchSize,
			Timeout:           aiDefaults.Timeout,
		},
		Match: MatchConfig{
			Threshold: 0.8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for qamatch.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".qamatch", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings that are not covered by ai.Config.Validate.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("config: dataset.path is required")
	}
	if _, err := dataset.ParseEncoding(c.Dataset.Encoding); err != nil {
		return fmt.Errorf("config: dataset.encoding: %w", err)
	}
	if _, err := c.headerOption(); err != nil {
		return err
	}
	if c.Model.Weights == "" && c.Embedding.Backend != string(ai.BackendOpenAI) {
		return fmt.Errorf("config: model.weights is required for the %q backend", c.Embedding.Backend)
	}
	if c.Match.Threshold < 0 {
		return fmt.Errorf("config: match.threshold must be non-negative")
	}
	if c.Match.PoolSize < 0 {
		return fmt.Errorf("config: match.pool_size must be non-negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logging.level %q", c.Logging.Level)
	}
	_, err := c.AIConfig()
	return err
}

// AIConfig builds the encoder configuration. The API token is read from the
// environment variable named by embedding.api_key_env.
func (c *Config) AIConfig() (*ai.Config, error) {
	e := c.Embedding
	opts := []ai.ConfigOption{
		ai.WithBackend(ai.Backend(e.Backend)),
		ai.WithEmbeddingHost(e.Host),
		ai.WithEmbeddingModel(e.Model),
		ai.WithTokenDimension(e.TokenDimension),
		ai.WithMaxSequenceLength(e.MaxSequenceLength),
		ai.WithTruncation(ai.TruncationPolicy(e.Truncation)),
		ai.WithBatchSize(e.BatchSize),
		ai.WithTimeout(e.Timeout),
	}
	if e.APIKeyEnv != "" {
		if token := os.Getenv(e.APIKeyEnv); token != "" {
			opts = append(opts, ai.WithAPIToken(token))
		}
	}

	cfg := ai.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DatasetOptions converts the dataset section into loader options.
func (c *Config) DatasetOptions() ([]dataset.Option, error) {
	enc, err := dataset.ParseEncoding(c.Dataset.Encoding)
	if err != nil {
		return nil, fmt.Errorf("config: dataset.encoding: %w", err)
	}
	opts := []dataset.Option{dataset.WithEncoding(enc)}

	header, err := c.headerOption()
	if err != nil {
		return nil, err
	}
	if header != nil {
		opts = append(opts, header)
	}
	return opts, nil
}

func (c *Config) headerOption() (dataset.Option, error) {
	switch strings.ToLower(c.Dataset.Header) {
	case "":
		return nil, nil
	case "auto", "detect":
		return dataset.WithHeaderDetection(), nil
	case "present", "true", "yes":
		return dataset.WithHeader(true), nil
	case "absent", "false", "no":
		return dataset.WithHeader(false), nil
	}
	return nil, fmt.Errorf("config: unknown dataset.header %q", c.Dataset.Header)
}
