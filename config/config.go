// Package config loads engine configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emberchat/recall/core"
)

// Duration parses YAML values like "10s" or "48h" via time.ParseDuration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Embedder backends.
const (
	EmbedderMock = "mock"
	EmbedderONNX = "onnx"
)

// Store backends.
const (
	StoreChromem = "chromem"
	StoreHNSW    = "hnsw"
)

// EmbedderConfig selects and tunes the embedding backend.
type EmbedderConfig struct {
	// Backend is "mock" or "onnx".
	Backend string `yaml:"backend"`

	// Dimensions is the embedding vector width.
	Dimensions int `yaml:"dimensions"`

	// ModelPath points to the ONNX model file (onnx backend only).
	ModelPath string `yaml:"model_path"`

	// TokenizerPath points to the WordPiece vocabulary file.
	TokenizerPath string `yaml:"tokenizer_path"`

	// LibraryPath points to the onnxruntime shared library.
	LibraryPath string `yaml:"library_path"`

	// CacheEntries enables a read-through embedding cache when positive.
	CacheEntries int `yaml:"cache_entries"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	// Backend is "chromem" or "hnsw".
	Backend string `yaml:"backend"`
}

// SearchConfig tunes the search coordinator.
type SearchConfig struct {
	// Oversample multiplies the per-facet candidate fetch.
	Oversample int `yaml:"oversample"`

	// FacetTimeout bounds each per-facet embed+query, e.g. "10s".
	FacetTimeout Duration `yaml:"facet_timeout"`
}

// TrajectoryConfig tunes the trajectory analyzer lookback.
type TrajectoryConfig struct {
	Window     Duration `yaml:"window"`
	MaxSamples int      `yaml:"max_samples"`
}

// Config is the full engine configuration.
type Config struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Store      StoreConfig      `yaml:"store"`
	Search     SearchConfig     `yaml:"search"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`

	// Profiles maps profile name to facet weights. Each entry is
	// validated into a core.WeightingProfile at load time.
	Profiles map[string]map[string]float64 `yaml:"profiles"`

	profiles map[string]*core.WeightingProfile
}

// Default returns a configuration usable without any file.
func Default() *Config {
	return &Config{
		Embedder: EmbedderConfig{
			Backend:    EmbedderMock,
			Dimensions: 384,
		},
		Store: StoreConfig{
			Backend: StoreChromem,
		},
		Search: SearchConfig{
			Oversample:   2,
			FacetTimeout: Duration(10 * time.Second),
		},
		Trajectory: TrajectoryConfig{
			Window:     Duration(7 * 24 * time.Hour),
			MaxSamples: 10,
		},
		profiles: map[string]*core.WeightingProfile{},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Profile returns a named, validated weighting profile.
func (c *Config) Profile(name string) (*core.WeightingProfile, bool) {
	p, ok := c.profiles[name]
	return p, ok
}

// ProfileNames lists the configured profile names.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	return names
}

func (c *Config) validate() error {
	switch c.Embedder.Backend {
	case EmbedderMock, EmbedderONNX:
	default:
		return fmt.Errorf("unknown embedder backend %q", c.Embedder.Backend)
	}
	if c.Embedder.Dimensions <= 0 {
		return fmt.Errorf("embedder dimensions must be positive, got %d", c.Embedder.Dimensions)
	}
	if c.Embedder.Backend == EmbedderONNX && c.Embedder.ModelPath == "" {
		return fmt.Errorf("onnx backend requires model_path")
	}

	switch c.Store.Backend {
	case StoreChromem, StoreHNSW:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Search.Oversample <= 0 {
		return fmt.Errorf("search oversample must be positive, got %d", c.Search.Oversample)
	}
	if c.Search.FacetTimeout <= 0 {
		return fmt.Errorf("search facet_timeout must be positive, got %s", c.Search.FacetTimeout)
	}

	if c.Trajectory.Window <= 0 {
		return fmt.Errorf("trajectory window must be positive, got %s", c.Trajectory.Window)
	}
	if c.Trajectory.MaxSamples <= 0 {
		return fmt.Errorf("trajectory max_samples must be positive, got %d", c.Trajectory.MaxSamples)
	}

	c.profiles = make(map[string]*core.WeightingProfile, len(c.Profiles))
	for name, weights := range c.Profiles {
		byFacet := make(map[core.Facet]float64, len(weights))
		for facet, w := range weights {
			byFacet[core.Facet(facet)] = w
		}
		profile, err := core.NewWeightingProfile(name, byFacet)
		if err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		c.profiles[name] = profile
	}
	return nil
}
