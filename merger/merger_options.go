package merger

import (
	"context"
	"fmt"

	"github.com/erraggy/xmlmerge/document"
)

// Option is a function that configures a merge operation
type Option func(*mergeConfig) error

// mergeConfig holds configuration for a merge operation
type mergeConfig struct {
	// Input sources (exactly 2 in total, files first)
	filePaths []string
	docs      []*document.Document

	ctx context.Context

	// Configuration options (nil means use default from DefaultConfig)
	properties         []string
	strategy           *MergeStrategy
	order              *OrderMode
	mergeChildren      *bool
	ignoreCase         *bool
	trimSpace          *bool
	collisionReport    *bool
	preserveWhitespace *bool
}

// MergeWithOptions merges two XML documents using functional options.
// This provides a flexible, extensible API that combines input source
// selection and configuration in a single function call.
//
// Example:
//
//	result, err := merger.MergeWithOptions(
//	    merger.WithFilePaths("a.xml", "b.xml"),
//	    merger.WithProperties("id", "lang"),
//	    merger.WithStrategy(merger.StrategyAcceptLeft),
//	)
func MergeWithOptions(opts ...Option) (*MergeResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("merger: invalid options: %w", err)
	}

	defaults := DefaultConfig()
	m := New(MergerConfig{
		Properties:         propertiesOrDefault(cfg.properties, defaults.Properties),
		Strategy:           valueOrDefault(cfg.strategy, defaults.Strategy),
		Order:              valueOrDefault(cfg.order, defaults.Order),
		MergeChildren:      valueOrDefault(cfg.mergeChildren, defaults.MergeChildren),
		IgnoreCase:         valueOrDefault(cfg.ignoreCase, defaults.IgnoreCase),
		TrimSpace:          valueOrDefault(cfg.trimSpace, defaults.TrimSpace),
		CollisionReport:    valueOrDefault(cfg.collisionReport, defaults.CollisionReport),
		PreserveWhitespace: valueOrDefault(cfg.preserveWhitespace, defaults.PreserveWhitespace),
	})
	// Fail on configuration before touching any input.
	if err := m.validate(); err != nil {
		return nil, err
	}

	docs := make([]*document.Document, 0, 2)
	n := len(cfg.filePaths)
	for i, path := range cfg.filePaths {
		res, err := document.ParseWithOptions(
			document.WithFilePath(path),
			document.WithContext(cfg.ctx),
			document.WithPreserveWhitespace(m.config.PreserveWhitespace),
		)
		if err != nil {
			return nil, fmt.Errorf("merger: failed to parse %s (%d of %d): %w", path, i+1, n, err)
		}
		docs = append(docs, res.Document)
	}
	docs = append(docs, cfg.docs...)

	return m.Merge(docs[0], docs[1])
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*mergeConfig, error) {
	cfg := &mergeConfig{
		ctx: context.Background(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	total := len(cfg.filePaths) + len(cfg.docs)
	if total != 2 {
		return nil, fmt.Errorf("exactly 2 documents are required for merging, got %d", total)
	}

	return cfg, nil
}

func valueOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr == nil {
		return defaultVal
	}
	return *ptr
}

// propertiesOrDefault treats a nil list as unset. An explicitly empty list is
// kept so the merge reports the missing property list.
func propertiesOrDefault(props, defaultVal []string) []string {
	if props == nil {
		return defaultVal
	}
	return props
}

// WithFilePaths specifies file paths (or afs URLs) as input sources.
// File inputs come before documents given with WithDocuments.
func WithFilePaths(paths ...string) Option {
	return func(cfg *mergeConfig) error {
		cfg.filePaths = append(cfg.filePaths, paths...)
		return nil
	}
}

// WithDocuments specifies already-loaded documents as input sources
func WithDocuments(docs ...*document.Document) Option {
	return func(cfg *mergeConfig) error {
		for i, d := range docs {
			if d == nil || d.Root == nil {
				return fmt.Errorf("document %d is nil", i)
			}
		}
		cfg.docs = append(cfg.docs, docs...)
		return nil
	}
}

// WithContext sets the context used when loading file inputs
func WithContext(ctx context.Context) Option {
	return func(cfg *mergeConfig) error {
		if ctx == nil {
			return fmt.Errorf("context cannot be nil")
		}
		cfg.ctx = ctx
		return nil
	}
}

// WithPreserveWhitespace keeps whitespace-only text when loading file inputs
// Default: false
func WithPreserveWhitespace(enabled bool) Option {
	return func(cfg *mergeConfig) error {
		cfg.preserveWhitespace = &enabled
		return nil
	}
}

// WithConfig applies an entire MergerConfig struct
// This is useful for reusing existing configurations or loading from files
func WithConfig(config MergerConfig) Option {
	return func(cfg *mergeConfig) error {
		cfg.properties = config.Properties
		cfg.strategy = &config.Strategy
		cfg.order = &config.Order
		cfg.mergeChildren = &config.MergeChildren
		cfg.ignoreCase = &config.IgnoreCase
		cfg.trimSpace = &config.TrimSpace
		cfg.collisionReport = &config.CollisionReport
		cfg.preserveWhitespace = &config.PreserveWhitespace
		return nil
	}
}

// WithProperties sets the match property expressions.
// Calling it with no arguments requests an empty list, which fails the merge
// with a missing property list error.
// Default: "id"
func WithProperties(properties ...string) Option {
	return func(cfg *mergeConfig) error {
		cfg.properties = append(make([]string, 0, len(properties)), properties...)
		return nil
	}
}

// WithStrategy sets which side wins on conflicting attributes
// Default: StrategyAcceptRight
func WithStrategy(strategy MergeStrategy) Option {
	return func(cfg *mergeConfig) error {
		cfg.strategy = &strategy
		return nil
	}
}

// WithOrder sets the output record order
// Default: OrderDocument
func WithOrder(order OrderMode) Option {
	return func(cfg *mergeConfig) error {
		cfg.order = &order
		return nil
	}
}

// WithMergeChildren enables or disables child concatenation for matched records
// Default: true
func WithMergeChildren(enabled bool) Option {
	return func(cfg *mergeConfig) error {
		cfg.mergeChildren = &enabled
		return nil
	}
}

// WithIgnoreCase enables case-insensitive key comparison
// Default: false
func WithIgnoreCase(enabled bool) Option {
	return func(cfg *mergeConfig) error {
		cfg.ignoreCase = &enabled
		return nil
	}
}

// WithTrimSpace enables trimming of key values
// Default: false
func WithTrimSpace(enabled bool) Option {
	return func(cfg *mergeConfig) error {
		cfg.trimSpace = &enabled
		return nil
	}
}

// WithCollisionReport enables detailed attribute conflict reporting
// Default: false
func WithCollisionReport(enabled bool) Option {
	return func(cfg *mergeConfig) error {
		cfg.collisionReport = &enabled
		return nil
	}
}
