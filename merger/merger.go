package merger

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/erraggy/xmlmerge/document"
	"github.com/erraggy/xmlmerge/internal/options"
	"github.com/erraggy/xmlmerge/internal/xpath"
	"github.com/erraggy/xmlmerge/xmlerrors"
	"github.com/minio/highwayhash"
	"golang.org/x/text/cases"
)

// mergerLogger is used for diagnostics in merger functions.
// Tests can replace this with a discard logger to suppress expected output.
var mergerLogger = slog.Default()

// SetLogger replaces the logger used for merge diagnostics. A nil logger
// restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	mergerLogger = l
}

// MergeStrategy defines which side wins when a matched record carries the
// same attribute on both sides with different values.
type MergeStrategy string

const (
	// StrategyAcceptLeft keeps values from the first document when attributes conflict
	StrategyAcceptLeft MergeStrategy = "accept-left"
	// StrategyAcceptRight keeps values from the second document when attributes conflict (overwrites)
	StrategyAcceptRight MergeStrategy = "accept-right"
)

// ValidStrategies returns all valid merge strategy strings
func ValidStrategies() []string {
	return []string{
		string(StrategyAcceptLeft),
		string(StrategyAcceptRight),
	}
}

// IsValidStrategy checks if a strategy string is valid
func IsValidStrategy(strategy string) bool {
	switch MergeStrategy(strategy) {
	case StrategyAcceptLeft, StrategyAcceptRight:
		return true
	default:
		return false
	}
}

// OrderMode controls the order of records in the merged document.
type OrderMode string

const (
	// OrderDocument emits records in the first document's order, merging
	// matched records in place, followed by records only in the second document.
	OrderDocument OrderMode = "document"
	// OrderGrouped emits matched records first, then records only in the
	// first document, then records only in the second document.
	OrderGrouped OrderMode = "grouped"
)

// ValidOrderModes returns all valid order mode strings
func ValidOrderModes() []string {
	return []string{string(OrderDocument), string(OrderGrouped)}
}

// IsValidOrderMode checks if an order mode string is valid
func IsValidOrderMode(mode string) bool {
	switch OrderMode(mode) {
	case OrderDocument, OrderGrouped:
		return true
	default:
		return false
	}
}

// DefaultProperty is the match property used when none is given.
const DefaultProperty = "id"

// MergerConfig configures how documents are merged
type MergerConfig struct {
	// Properties are the property expressions whose values form a record's key
	Properties []string
	// Strategy decides which side wins on conflicting attribute values
	Strategy MergeStrategy
	// Order controls the output record order
	Order OrderMode
	// MergeChildren concatenates both sides' children for matched records.
	// When false, only the preferred side's children are kept.
	MergeChildren bool
	// IgnoreCase compares key values using Unicode case folding
	IgnoreCase bool
	// TrimSpace trims surrounding whitespace of key values before comparing
	TrimSpace bool
	// CollisionReport enables detailed attribute conflict reporting
	CollisionReport bool
	// PreserveWhitespace keeps whitespace-only text between elements when
	// MergeWithOptions loads file inputs
	PreserveWhitespace bool
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() MergerConfig {
	return MergerConfig{
		Properties:    []string{DefaultProperty},
		Strategy:      StrategyAcceptRight,
		Order:         OrderDocument,
		MergeChildren: true,
	}
}

// Merger joins the records of two XML documents on their match properties.
//
// Concurrency: Merger instances are not safe for concurrent use.
// Create separate Merger instances for concurrent operations.
type Merger struct {
	config MergerConfig
	paths  []*xpath.Path
	folder cases.Caser
}

// New creates a new Merger instance with the provided configuration
func New(config MergerConfig) *Merger {
	return &Merger{config: config}
}

// Stats counts records by how they were handled.
type Stats struct {
	// LeftRecords and RightRecords are the record counts of the inputs
	LeftRecords  int `json:"left_records" yaml:"left_records"`
	RightRecords int `json:"right_records" yaml:"right_records"`
	// Matched is the number of keys present in both documents
	Matched int `json:"matched" yaml:"matched"`
	// LeftOnly and RightOnly count records passed through unchanged, keyless included
	LeftOnly  int `json:"left_only" yaml:"left_only"`
	RightOnly int `json:"right_only" yaml:"right_only"`
	// Keyless counts records missing at least one match property
	Keyless int `json:"keyless" yaml:"keyless"`
	// Duplicates counts records replaced by a later record with the same key
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	// Output is the number of records in the merged document
	Output int `json:"output" yaml:"output"`
}

// MergeResult contains the merged document and metadata
type MergeResult struct {
	// Document is the merged document
	Document *document.Document
	// Stats contains record counts
	Stats Stats
	// Warnings contains non-fatal issues encountered during merging
	Warnings []string
	// StructuredWarnings contains detailed warning information with context
	StructuredWarnings MergeWarnings
	// CollisionCount is the number of attributes whose values differed between matched records
	CollisionCount int
	// CollisionDetails contains detailed conflict analysis (when CollisionReport is enabled)
	CollisionDetails *CollisionReport
	// LeftSource and RightSource are the source paths of the inputs
	LeftSource  string
	RightSource string
}

// AddWarning adds a structured warning and populates the Warnings slice.
func (r *MergeResult) AddWarning(w *MergeWarning) {
	r.StructuredWarnings = append(r.StructuredWarnings, w)
	r.Warnings = append(r.Warnings, w.String())
}

// fingerprintKey is the fixed HighwayHash key; fingerprints are for
// comparing outputs, not for authentication.
var fingerprintKey = []byte("xmlmerge-output-fingerprint-key!")

// Fingerprint returns a 64-bit HighwayHash of the serialized merged document.
// Two results with the same fingerprint serialize to the same bytes.
func (r *MergeResult) Fingerprint() (uint64, error) {
	data, err := document.Marshal(r.Document)
	if err != nil {
		return 0, fmt.Errorf("merger: failed to serialize merged document: %w", err)
	}
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, fmt.Errorf("merger: failed to create hash: %w", err)
	}
	_, _ = h.Write(data)
	return h.Sum64(), nil
}

// WriteResult serializes the merged document and writes it to outputPath.
//
// The write is atomic: the document is written to a temporary file in the
// same directory and renamed over outputPath, so a failure never leaves a
// partial output. Failures are *xmlerrors.OutputWriteError.
func WriteResult(result *MergeResult, outputPath string) error {
	if result == nil || result.Document == nil {
		return &xmlerrors.OutputWriteError{Path: outputPath, Op: "marshal", Cause: fmt.Errorf("no merged document")}
	}
	return document.WriteFile(result.Document, outputPath)
}

// validate checks the configuration and compiles the property expressions.
func (m *Merger) validate() error {
	if len(m.config.Properties) == 0 {
		return &xmlerrors.MissingPropertyListError{}
	}
	if m.config.Strategy == "" {
		m.config.Strategy = StrategyAcceptRight
	}
	if m.config.Order == "" {
		m.config.Order = OrderDocument
	}
	if err := options.ValidateOneOf("strategy", string(m.config.Strategy), ValidStrategies()); err != nil {
		return err
	}
	if err := options.ValidateOneOf("order", string(m.config.Order), ValidOrderModes()); err != nil {
		return err
	}
	paths, err := xpath.ParseAll(m.config.Properties)
	if err != nil {
		return &xmlerrors.ConfigError{Option: "properties", Message: "invalid property expression", Cause: err}
	}
	m.paths = paths
	if m.config.IgnoreCase {
		m.folder = cases.Fold()
	}
	return nil
}

// Merge joins the records of docA and docB.
//
// Records whose keys appear in both documents are merged into one record;
// all other records are copied to the output unchanged. The inputs are not
// modified.
func (m *Merger) Merge(docA, docB *document.Document) (*MergeResult, error) {
	if docA == nil || docA.Root == nil {
		return nil, fmt.Errorf("merger: first document is nil")
	}
	if docB == nil || docB.Root == nil {
		return nil, fmt.Errorf("merger: second document is nil")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	result := &MergeResult{
		Warnings:           make([]string, 0),
		StructuredWarnings: make(MergeWarnings, 0),
		LeftSource:         docA.SourcePath,
		RightSource:        docB.SourcePath,
	}
	if m.config.CollisionReport {
		result.CollisionDetails = NewCollisionReport()
	}

	left := m.buildIndex(docA, result)
	right := m.buildIndex(docB, result)
	result.Stats.LeftRecords = len(docA.Records())
	result.Stats.RightRecords = len(docB.Records())

	out := &document.Document{Root: m.mergeRoots(docA, docB, result)}

	var matched, leftSide, rightSide []*document.Node
	for _, s := range left.slots {
		if s.entry == nil {
			leftSide = append(leftSide, s.keyless.Clone())
			result.Stats.LeftOnly++
			continue
		}
		if r, ok := right.byKey[s.entry.key]; ok {
			merged := m.mergeRecords(s.entry, r, result)
			result.Stats.Matched++
			if m.config.Order == OrderGrouped {
				matched = append(matched, merged)
			} else {
				leftSide = append(leftSide, merged)
			}
			continue
		}
		leftSide = append(leftSide, s.entry.record.Clone())
		result.Stats.LeftOnly++
	}
	for _, s := range right.slots {
		if s.entry == nil {
			rightSide = append(rightSide, s.keyless.Clone())
			result.Stats.RightOnly++
			continue
		}
		if _, ok := left.byKey[s.entry.key]; ok {
			continue
		}
		rightSide = append(rightSide, s.entry.record.Clone())
		result.Stats.RightOnly++
	}

	for _, group := range [][]*document.Node{matched, leftSide, rightSide} {
		for _, rec := range group {
			out.Root.AppendChild(rec)
		}
	}
	result.Stats.Output = len(matched) + len(leftSide) + len(rightSide)
	result.Document = out

	mergerLogger.Debug("merge complete",
		"matched", result.Stats.Matched,
		"left_only", result.Stats.LeftOnly,
		"right_only", result.Stats.RightOnly,
		"keyless", result.Stats.Keyless,
		"duplicates", result.Stats.Duplicates,
		"collisions", result.CollisionCount)

	return result, nil
}

// preferRight reports whether the second document wins conflicts.
func (m *Merger) preferRight() bool {
	return m.config.Strategy != StrategyAcceptLeft
}

// mergeRoots builds the output root: the first document's tag and
// attributes plus the second document's attributes missing on the first.
// Root children other than records (text, comments) are not carried over.
func (m *Merger) mergeRoots(docA, docB *document.Document, result *MergeResult) *document.Node {
	root := document.NewElement(docA.Root.Name, slices.Clone(docA.Root.Attrs)...)
	for _, attr := range docB.Root.Attrs {
		if _, ok := root.Attr(attr.Name); !ok {
			root.Attrs = append(root.Attrs, attr)
		}
	}
	if docA.Root.Name != docB.Root.Name {
		result.AddWarning(NewRootMismatchWarning(docA.Root.Name, docB.Root.Name, docB.SourcePath))
	}
	return root
}

// mergeRecords combines two records that share a key.
func (m *Merger) mergeRecords(left, right *indexEntry, result *MergeResult) *document.Node {
	a, b := left.record, right.record
	out := &document.Node{
		Kind:  document.ElementNode,
		Name:  a.Name,
		Attrs: slices.Clone(a.Attrs),
		Line:  a.Line,
	}
	if a.Name != b.Name {
		result.AddWarning(NewRecordTagMismatchWarning(left.displayKey(), a.Name, b.Name, result.RightSource, b.Line))
	}

	for _, attr := range b.Attrs {
		current, ok := out.Attr(attr.Name)
		if !ok {
			out.Attrs = append(out.Attrs, attr)
			continue
		}
		if current == attr.Value {
			continue
		}
		result.CollisionCount++
		resolution := "kept-left"
		if m.preferRight() {
			out.SetAttr(attr.Name, attr.Value)
			resolution = "kept-right"
		}
		if result.CollisionDetails != nil {
			result.CollisionDetails.AddEvent(CollisionEvent{
				Key:         left.displayKey(),
				Attribute:   attr.Name,
				LeftValue:   current,
				RightValue:  attr.Value,
				LeftSource:  result.LeftSource,
				LeftLine:    a.Line,
				RightSource: result.RightSource,
				RightLine:   b.Line,
				Strategy:    m.config.Strategy,
				Resolution:  resolution,
			})
		}
	}

	switch {
	case m.config.MergeChildren:
		out.Children = append(cloneNodes(a.Children), cloneNodes(b.Children)...)
	case m.preferRight():
		out.Children = cloneNodes(b.Children)
	default:
		out.Children = cloneNodes(a.Children)
	}
	return out
}

func cloneNodes(nodes []*document.Node) []*document.Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*document.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
