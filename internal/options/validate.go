// Package options provides shared utilities for option validation across packages.
package options

import (
	"fmt"
	"slices"

	"github.com/erraggy/xmlmerge/xmlerrors"
)

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// noSourceMsg is the error message when no source is specified.
// multiSourceMsg is the error message when multiple sources are specified.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}
	if sourceCount == 0 {
		return fmt.Errorf("%s", noSourceMsg)
	}
	if sourceCount > 1 {
		return fmt.Errorf("%s", multiSourceMsg)
	}
	return nil
}

// ValidateOneOf returns a *xmlerrors.ConfigError when value is not one of
// valid. An empty value is accepted and means "use the default".
func ValidateOneOf(option, value string, valid []string) error {
	if value == "" || slices.Contains(valid, value) {
		return nil
	}
	return &xmlerrors.ConfigError{
		Option:  option,
		Value:   value,
		Message: "unknown value",
		Valid:   valid,
	}
}
