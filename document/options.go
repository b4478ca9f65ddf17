package document

import (
	"context"
	"fmt"
	"io"

	"github.com/erraggy/xmlmerge/internal/options"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	ctx                context.Context
	preserveWhitespace bool
	maxFileSize        int64

	// Source identification
	sourceName *string // Override SourcePath in the result
}

// ParseWithOptions loads an XML document using functional options.
//
// Example:
//
//	result, err := document.ParseWithOptions(
//	    document.WithFilePath("left.xml"),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("document: invalid options: %w", err)
	}

	l := NewLoader()
	l.PreserveWhitespace = cfg.preserveWhitespace
	l.MaxFileSize = cfg.maxFileSize

	name := ""
	if cfg.sourceName != nil {
		name = *cfg.sourceName
	}

	var result *ParseResult
	switch {
	case cfg.filePath != nil:
		result, err = l.Parse(cfg.ctx, *cfg.filePath)
	case cfg.reader != nil:
		result, err = l.ParseReader(cfg.reader, name)
	case cfg.bytes != nil:
		result, err = l.ParseBytes(cfg.bytes, name)
	default:
		// Should never reach here due to validation in applyOptions
		return nil, fmt.Errorf("document: no input source specified")
	}
	if err != nil {
		return nil, err
	}

	if cfg.sourceName != nil {
		result.SourcePath = *cfg.sourceName
		result.Document.SourcePath = *cfg.sourceName
	}
	return result, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		ctx: context.Background(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"document: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"document: must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a local path or afs URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("document: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("document: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithContext sets the context used for file and URL access
func WithContext(ctx context.Context) Option {
	return func(cfg *parseConfig) error {
		if ctx == nil {
			return fmt.Errorf("document: context cannot be nil")
		}
		cfg.ctx = ctx
		return nil
	}
}

// WithPreserveWhitespace keeps whitespace-only text between elements
// Default: false
func WithPreserveWhitespace(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.preserveWhitespace = enabled
		return nil
	}
}

// WithMaxFileSize limits the accepted input size in bytes (0 uses DefaultMaxFileSize)
func WithMaxFileSize(size int64) Option {
	return func(cfg *parseConfig) error {
		if size < 0 {
			return fmt.Errorf("document: maxFileSize cannot be negative")
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithSourceName overrides the SourcePath reported in the result
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = &name
		return nil
	}
}
