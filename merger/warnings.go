package merger

import (
	"fmt"
	"strings"

	"github.com/erraggy/xmlmerge/internal/severity"
)

// WarningCategory identifies the type of warning.
type WarningCategory string

const (
	// WarnPropertyNotFound indicates a record lacks a match property and was passed through unmatched.
	WarnPropertyNotFound WarningCategory = "property_not_found"
	// WarnDuplicateKey indicates a later record replaced an earlier one with the same key.
	WarnDuplicateKey WarningCategory = "duplicate_key"
	// WarnRootMismatch indicates the two documents have different root tags.
	WarnRootMismatch WarningCategory = "root_mismatch"
	// WarnRecordTagMismatch indicates matched records have different tags.
	WarnRecordTagMismatch WarningCategory = "record_tag_mismatch"
)

// MergeWarning represents a structured warning from the merger package.
// It provides detailed context about non-fatal issues encountered during merging.
type MergeWarning struct {
	// Category identifies the type of warning.
	Category WarningCategory `json:"category" yaml:"category"`
	// Path identifies the affected record (tag and key, when known).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Message is a human-readable description.
	Message string `json:"message" yaml:"message"`
	// SourceFile is the file that triggered the warning.
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	// Line is the 1-based line number (0 if unknown).
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
	// Severity indicates warning severity.
	Severity severity.Severity `json:"severity" yaml:"severity"`
	// Context provides additional details.
	Context map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
}

// String returns the warning message.
func (w *MergeWarning) String() string {
	return w.Message
}

// HasLocation returns true if source location information is available.
func (w *MergeWarning) HasLocation() bool {
	return w.Line > 0
}

// Location returns an IDE-friendly location string.
func (w *MergeWarning) Location() string {
	if w.Line <= 0 {
		if w.SourceFile != "" {
			return w.SourceFile
		}
		return w.Path
	}
	if w.SourceFile != "" {
		return fmt.Sprintf("%s:%d", w.SourceFile, w.Line)
	}
	return fmt.Sprintf("%d", w.Line)
}

// NewPropertyNotFoundWarning creates a warning for a record missing match properties.
// path locates the record, e.g. "catalog/item[2]".
func NewPropertyNotFoundWarning(path, tag string, missing []string, sourceFile string, line int) *MergeWarning {
	return &MergeWarning{
		Category:   WarnPropertyNotFound,
		Path:       path,
		Message:    fmt.Sprintf("<%s> has no value for %s; passed through unmatched", tag, strings.Join(missing, ", ")),
		SourceFile: sourceFile,
		Line:       line,
		Severity:   severity.SeverityWarning,
		Context: map[string]any{
			"missing": missing,
		},
	}
}

// NewDuplicateKeyWarning creates a warning when a key repeats within one document.
func NewDuplicateKeyWarning(key, sourceFile string, firstLine, line int) *MergeWarning {
	msg := fmt.Sprintf("duplicate key [%s]: later record replaces the earlier one", key)
	if firstLine > 0 {
		msg = fmt.Sprintf("duplicate key [%s]: replaces the record at line %d", key, firstLine)
	}
	return &MergeWarning{
		Category:   WarnDuplicateKey,
		Path:       fmt.Sprintf("[%s]", key),
		Message:    msg,
		SourceFile: sourceFile,
		Line:       line,
		Severity:   severity.SeverityWarning,
		Context: map[string]any{
			"key":        key,
			"first_line": firstLine,
		},
	}
}

// NewRootMismatchWarning creates a warning when the documents' root tags differ.
func NewRootMismatchWarning(leftRoot, rightRoot, rightFile string) *MergeWarning {
	return &MergeWarning{
		Category:   WarnRootMismatch,
		Message:    fmt.Sprintf("root <%s> differs from <%s>; output uses <%s>", rightRoot, leftRoot, leftRoot),
		SourceFile: rightFile,
		Severity:   severity.SeverityInfo,
		Context: map[string]any{
			"left_root":  leftRoot,
			"right_root": rightRoot,
		},
	}
}

// NewRecordTagMismatchWarning creates a warning when matched records have different tags.
func NewRecordTagMismatchWarning(key, leftTag, rightTag, rightFile string, line int) *MergeWarning {
	return &MergeWarning{
		Category:   WarnRecordTagMismatch,
		Path:       fmt.Sprintf("%s[%s]", leftTag, key),
		Message:    fmt.Sprintf("key [%s] matches <%s> and <%s>; merged record uses <%s>", key, leftTag, rightTag, leftTag),
		SourceFile: rightFile,
		Line:       line,
		Severity:   severity.SeverityInfo,
		Context: map[string]any{
			"left_tag":  leftTag,
			"right_tag": rightTag,
		},
	}
}

// MergeWarnings is a collection of MergeWarning.
type MergeWarnings []*MergeWarning

// Strings returns the warning messages.
func (ws MergeWarnings) Strings() []string {
	result := make([]string, len(ws))
	for i, w := range ws {
		if w == nil {
			continue
		}
		result[i] = w.String()
	}
	return result
}

// ByCategory filters warnings by category.
func (ws MergeWarnings) ByCategory(cat WarningCategory) MergeWarnings {
	var result MergeWarnings
	for _, w := range ws {
		if w.Category == cat {
			result = append(result, w)
		}
	}
	return result
}

// BySeverity filters warnings by severity.
func (ws MergeWarnings) BySeverity(sev severity.Severity) MergeWarnings {
	var result MergeWarnings
	for _, w := range ws {
		if w.Severity == sev {
			result = append(result, w)
		}
	}
	return result
}

// Summary returns a formatted summary of warnings.
func (ws MergeWarnings) Summary() string {
	if len(ws) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d warning(s):\n", len(ws))
	for _, w := range ws {
		sb.WriteString("  - ")
		if loc := w.Location(); loc != "" && w.HasLocation() {
			sb.WriteString(loc)
			sb.WriteString(": ")
		}
		sb.WriteString(w.String())
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
