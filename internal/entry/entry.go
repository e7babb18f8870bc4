// Package entry defines the journal data model read by the filter, sort and
// sectioning engine: entries, streams and their enumerations.
//
// Values in this package are plain snapshots. Nothing here mutates an entry
// after it has been constructed by its owner (the journal store or a test).
package entry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entry is a single user-authored journal record.
type Entry struct {
	ID         string     // ID is assigned once at creation and never changes.
	Title      string     // Title is empty when the entry has none.
	Content    string     // Content is HTML-like markup.
	Status     Status     // Status is one of the canonical statuses.
	Priority   Priority   // Priority is the raw 0-4 ordinal.
	Type       string     // Type is empty when the entry is untyped.
	Rating     float64    // Rating is on the internal 0-10 scale, 0 when unrated.
	DueDate    *time.Time // DueDate is nil when unset. Day granularity.
	EntryDate  *time.Time // EntryDate is nil when unset. Day granularity.
	CreatedAt  time.Time  // CreatedAt is the creation timestamp.
	IsArchived bool
	IsPinned   bool
	StreamID   string // StreamID is empty for Inbox entries.
	PhotoCount *int   // PhotoCount is nil when the owner did not record a count.
}

// HasType reports whether the entry carries a type.
func (e *Entry) HasType() bool {
	return e.Type != ""
}

// InInbox reports whether the entry is not assigned to a stream.
func (e *Entry) InInbox() bool {
	return e.StreamID == ""
}

// Priority is an entry priority, 0 (none) through 4 (highest).
type Priority int

// Priority bounds.
const (
	MinPriority Priority = 0
	MaxPriority Priority = 4
)

var priorityLabels = [...]string{"None", "Low", "Medium", "High", "Urgent"} //nolint:gochecknoglobals // lookup table

// AllPriorities lists every priority level from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{0, 1, 2, 3, 4}
}

// Valid reports whether p is within the supported range.
func (p Priority) Valid() bool {
	return p >= MinPriority && p <= MaxPriority
}

// Label returns the display label for p.
func (p Priority) Label() string {
	if !p.Valid() {
		return fmt.Sprintf("P%d", int(p))
	}

	return priorityLabels[p]
}

// PriorityCategory is the coarse display grouping of priorities.
type PriorityCategory string

// Priority categories. Display only; the engine compares raw ordinals.
const (
	PriorityCategoryLow    PriorityCategory = "low"
	PriorityCategoryMedium PriorityCategory = "medium"
	PriorityCategoryHigh   PriorityCategory = "high"
)

// Category maps p onto one of the three display categories.
func (p Priority) Category() PriorityCategory {
	switch {
	case p >= 3:
		return PriorityCategoryHigh
	case p == 2:
		return PriorityCategoryMedium
	default:
		return PriorityCategoryLow
	}
}

// ParsePriority parses a decimal priority level.
func ParsePriority(s string) (Priority, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}

	p := Priority(n)
	if !p.Valid() {
		return 0, fmt.Errorf("%w: %q (must be 0-4)", ErrInvalidPriority, s)
	}

	return p, nil
}

// Date layout used for day-granularity fields.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date (2006-01-02) or an RFC3339 timestamp.
// Bare dates are interpreted in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD or RFC3339)", ErrInvalidDate, s)
}
