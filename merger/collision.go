package merger

import (
	"fmt"
	"strings"
)

// CollisionReport provides detailed analysis of the attribute conflicts
// resolved while merging matched records
type CollisionReport struct {
	TotalCollisions  int              `json:"total_collisions" yaml:"total_collisions"`
	ResolvedByAccept int              `json:"resolved_by_accept" yaml:"resolved_by_accept"`
	KeptLeft         int              `json:"kept_left" yaml:"kept_left"`
	KeptRight        int              `json:"kept_right" yaml:"kept_right"`
	Events           []CollisionEvent `json:"events" yaml:"events"`
}

// CollisionEvent represents one attribute whose value differed between the
// two records of a matched key
type CollisionEvent struct {
	Key         string        `json:"key" yaml:"key"`
	Attribute   string        `json:"attribute" yaml:"attribute"`
	LeftValue   string        `json:"left_value" yaml:"left_value"`
	RightValue  string        `json:"right_value" yaml:"right_value"`
	LeftSource  string        `json:"left_source,omitempty" yaml:"left_source,omitempty"`
	LeftLine    int           `json:"left_line,omitempty" yaml:"left_line,omitempty"` // 1-based line of the left record (0 if unknown)
	RightSource string        `json:"right_source,omitempty" yaml:"right_source,omitempty"`
	RightLine   int           `json:"right_line,omitempty" yaml:"right_line,omitempty"` // 1-based line of the right record (0 if unknown)
	Strategy    MergeStrategy `json:"strategy" yaml:"strategy"`
	Resolution  string        `json:"resolution" yaml:"resolution"` // "kept-left" or "kept-right"
}

// String formats the event as a single line.
func (e CollisionEvent) String() string {
	return fmt.Sprintf("[%s] @%s: %q vs %q (%s)", e.Key, e.Attribute, e.LeftValue, e.RightValue, e.Resolution)
}

// NewCollisionReport creates an empty collision report
func NewCollisionReport() *CollisionReport {
	return &CollisionReport{
		Events: make([]CollisionEvent, 0),
	}
}

// AddEvent adds a collision event to the report and updates counters
func (r *CollisionReport) AddEvent(event CollisionEvent) {
	r.Events = append(r.Events, event)
	r.TotalCollisions++

	switch event.Resolution {
	case "kept-left":
		r.KeptLeft++
		r.ResolvedByAccept++
	case "kept-right":
		r.KeptRight++
		r.ResolvedByAccept++
	}
}

// GetByResolution returns events with a specific resolution type
func (r *CollisionReport) GetByResolution(resolution string) []CollisionEvent {
	var filtered []CollisionEvent
	for _, event := range r.Events {
		if event.Resolution == resolution {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// GetByKey returns the events of one record key
func (r *CollisionReport) GetByKey(key string) []CollisionEvent {
	var filtered []CollisionEvent
	for _, event := range r.Events {
		if event.Key == key {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// Summary returns a formatted text report of all events.
func (r *CollisionReport) Summary() string {
	if r == nil || r.TotalCollisions == 0 {
		return "no attribute collisions"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d attribute collision(s) (kept-left: %d, kept-right: %d):", r.TotalCollisions, r.KeptLeft, r.KeptRight)
	for _, e := range r.Events {
		sb.WriteString("\n  - ")
		sb.WriteString(e.String())
	}
	return sb.String()
}
