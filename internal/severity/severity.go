// Package severity provides severity level constants for the structured
// warnings reported by the merger and document packages.
//
// The levels used by xmlmerge:
//   - SeverityInfo: Informational notices about choices made (attribute overrides, root mismatch)
//   - SeverityWarning: Records that could not take part in matching (missing properties, duplicates)
//   - SeverityError: Reserved for issues that make an input unusable
//   - SeverityCritical: Reserved for issues that would lose data silently
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

import "fmt"

// Severity indicates the severity level of a reported issue.
type Severity int

const (
	// SeverityError indicates an issue that makes an input unusable.
	SeverityError Severity = iota

	// SeverityWarning indicates a record or value that was skipped or replaced
	// and that the user probably wants to look at.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo

	// SeverityCritical indicates data that could not be carried into the output.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Parse converts a level name back to a Severity.
func Parse(s string) (Severity, error) {
	switch s {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return 0, fmt.Errorf("severity: unknown level %q", s)
	}
}

// MarshalText encodes the level by name so JSON and YAML reports stay readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a level name.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
