// Package config loads xmlmerge settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/xmlmerge/internal/options"
	"github.com/erraggy/xmlmerge/merger"
	"github.com/erraggy/xmlmerge/xmlerrors"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v4"
)

// Format identifies a configuration file syntax.
type Format string

const (
	// FormatYAML is selected by the .yaml and .yml extensions
	FormatYAML Format = "yaml"
	// FormatTOML is selected by the .toml extension
	FormatTOML Format = "toml"
)

// File holds the settings read from a configuration file. Nil fields were
// not set in the file and leave the corresponding setting unchanged.
type File struct {
	Properties         []string `yaml:"properties" toml:"properties"`
	Output             *string  `yaml:"output" toml:"output"`
	Strategy           *string  `yaml:"strategy" toml:"strategy"`
	Order              *string  `yaml:"order" toml:"order"`
	MergeChildren      *bool    `yaml:"merge_children" toml:"merge_children"`
	IgnoreCase         *bool    `yaml:"ignore_case" toml:"ignore_case"`
	TrimSpace          *bool    `yaml:"trim_space" toml:"trim_space"`
	CollisionReport    *bool    `yaml:"collision_report" toml:"collision_report"`
	PreserveWhitespace *bool    `yaml:"preserve_whitespace" toml:"preserve_whitespace"`

	// Path is the file the settings were loaded from.
	Path string `yaml:"-" toml:"-"`
}

// FormatOf returns the format selected by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", &xmlerrors.ConfigError{
			Option:  "config",
			Value:   path,
			Message: "unsupported config file extension",
			Valid:   []string{".yaml", ".yml", ".toml"},
		}
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &xmlerrors.ConfigError{Option: "config", Value: path, Message: "cannot read config file", Cause: err}
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, &xmlerrors.ConfigError{Option: "config", Value: path, Message: "invalid config file", Cause: err}
	}
	f.Path = path
	return f, nil
}

// Parse decodes and validates configuration data in the given format.
// Unknown keys are rejected.
func Parse(data []byte, format Format) (*File, error) {
	f := &File{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: failed to parse YAML: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				keys := make([]string, 0, len(strict.Errors))
				for _, e := range strict.Errors {
					keys = append(keys, strings.Join(e.Key(), "."))
				}
				return nil, fmt.Errorf("config: unknown keys in TOML: %s", strings.Join(keys, ", "))
			}
			return nil, fmt.Errorf("config: failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unknown format %q", format)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks enumerated values. An explicitly empty property list is
// allowed here and reported by the merger.
func (f *File) Validate() error {
	if f.Strategy != nil {
		if err := options.ValidateOneOf("strategy", *f.Strategy, merger.ValidStrategies()); err != nil {
			return err
		}
	}
	if f.Order != nil {
		if err := options.ValidateOneOf("order", *f.Order, merger.ValidOrderModes()); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the settings present in f into cfg.
func (f *File) Apply(cfg *merger.MergerConfig) {
	if f == nil {
		return
	}
	if f.Properties != nil {
		cfg.Properties = f.Properties
	}
	if f.Strategy != nil && *f.Strategy != "" {
		cfg.Strategy = merger.MergeStrategy(*f.Strategy)
	}
	if f.Order != nil && *f.Order != "" {
		cfg.Order = merger.OrderMode(*f.Order)
	}
	if f.MergeChildren != nil {
		cfg.MergeChildren = *f.MergeChildren
	}
	if f.IgnoreCase != nil {
		cfg.IgnoreCase = *f.IgnoreCase
	}
	if f.TrimSpace != nil {
		cfg.TrimSpace = *f.TrimSpace
	}
	if f.CollisionReport != nil {
		cfg.CollisionReport = *f.CollisionReport
	}
	if f.PreserveWhitespace != nil {
		cfg.PreserveWhitespace = *f.PreserveWhitespace
	}
}
