// Package config loads and validates the optional .arena YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the configuration file name; the directory containing it is
// the config root for everything beneath it.
const File = ".arena"

// Default values applied when the configuration omits a field.
const (
	DefaultTimeout      = 5 * time.Minute
	DefaultMaxOutput    = 1 << 20 // 1 MB
	DefaultOpponent     = "random"
	DefaultSummaryLine  = 3
	DefaultHistoryLimit = 20
)

// DefaultVariants is the variant list used when none is configured.
var DefaultVariants = []string{"random", "alphabeta", "agent"}

// Config holds the parsed .arena configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int           `yaml:"version"`
	Evaluator    string        `yaml:"evaluator"`  // program path or bare PATH name
	RawTimeout   string        `yaml:"timeout"`    // per invocation, e.g. "5m", "30s"
	RawMaxOutput int           `yaml:"max_output"` // bytes per captured stream
	Batch        BatchConfig   `yaml:"batch"`
	Eval         EvalConfig    `yaml:"eval"`
	Store        StoreConfig   `yaml:"store"`
	History      HistoryConfig `yaml:"history"`
}

// BatchConfig defines the matchups a batch run drives.
type BatchConfig struct {
	Variants []string `yaml:"variants"` // default: [random, alphabeta, agent]
	Opponent string   `yaml:"opponent"` // black side, default: random
}

// EvalConfig controls how the evaluator is invoked and read.
type EvalConfig struct {
	SummaryLine int      `yaml:"summary_line"` // 1-indexed stdout line to extract (default: 3)
	Args        []string `yaml:"args"`         // extra flags appended to every invocation
}

// StoreConfig selects where run records are kept.
type StoreConfig struct {
	Backend string `yaml:"backend"` // disk, memory, sqlite (default: disk)
	Path    string `yaml:"path"`    // directory (disk) or database file (sqlite)
}

// HistoryConfig controls run listings.
type HistoryConfig struct {
	Limit int `yaml:"limit"` // default: 20
}

// Timeout returns the configured per-invocation timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured output cap or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// Variants returns the configured variant list, falling back to defaults.
func (c *Config) Variants() []string {
	if len(c.Batch.Variants) > 0 {
		return c.Batch.Variants
	}
	return DefaultVariants
}

// Opponent returns the configured black side, falling back to "random".
func (c *Config) Opponent() string {
	if c.Batch.Opponent != "" {
		return c.Batch.Opponent
	}
	return DefaultOpponent
}

// SummaryLine returns the 1-indexed stdout line to extract, falling back to 3.
func (c *Config) SummaryLine() int {
	if c.Eval.SummaryLine > 0 {
		return c.Eval.SummaryLine
	}
	return DefaultSummaryLine
}

// StoreBackend returns the configured store backend, falling back to disk.
func (c *Config) StoreBackend() string {
	if c.Store.Backend != "" {
		return c.Store.Backend
	}
	return "disk"
}

// StorePath returns the configured store location, falling back to a
// backend-appropriate name. Relative paths are resolved against the
// config root by the caller.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.StoreBackend() == "sqlite" {
		return ".arena.db"
	}
	return ".arena-runs"
}

// HistoryLimit returns the configured listing limit, falling back to 20.
func (c *Config) HistoryLimit() int {
	if c.History.Limit > 0 {
		return c.History.Limit
	}
	return DefaultHistoryLimit
}

// LoadResult holds the parsed config and the discovered config root.
type LoadResult struct {
	Config *Config
	Root   string // directory containing .arena; falls back to workspace
}

// Load reads the nearest .arena file at or above workspace. The config
// root is the directory containing it. If no .arena file exists, a
// default Config is returned with the workspace as root.
func Load(workspace string) (*LoadResult, error) {
	root, err := findRoot(workspace)
	if err != nil {
		// No .arena found; use workspace as root with defaults.
		ws, absErr := filepath.Abs(workspace)
		if absErr != nil {
			ws = workspace
		}
		return &LoadResult{Config: &Config{}, Root: ws}, nil
	}

	path := filepath.Join(root, File)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", File, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", File, err)
	}
	return &LoadResult{Config: cfg, Root: root}, nil
}

// findRoot walks upward from dir looking for a directory containing .arena.
func findRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, File)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found", File)
		}
		dir = parent
	}
}
