// Package filter decides which entries a stream view shows.
//
// [Apply] is the per-entry predicate over every filter dimension, [MatchesSearch]
// is the free-text pass run after it, and [Summarize] reports which dimensions
// are actively narrowing for badge display. The no-op rules of [Summarize]
// mirror the ones [Apply] uses, so a dimension is reported active exactly when
// it can exclude an entry.
package filter

import (
	"slices"
	"time"

	"github.com/calvinalkan/streamview/internal/duedate"
	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/markup"
	"github.com/calvinalkan/streamview/internal/rating"
)

// StreamViewFilter holds the filter settings of one stream or special view.
//
// Empty multi-select slices mean "no constraint", never "show nothing". Nil
// pointers mean the dimension is unset.
type StreamViewFilter struct {
	Statuses   []entry.Status   `json:"statuses,omitempty"`
	Priorities []entry.Priority `json:"priorities,omitempty"`
	Types      []string         `json:"types,omitempty"`

	// RatingMin and RatingMax bound the internal 0-10 rating, inclusive.
	RatingMin *float64 `json:"rating_min,omitempty"`
	RatingMax *float64 `json:"rating_max,omitempty"`

	// RatingOp is the single-operator rating variant used by the slider UI.
	RatingOp *RatingCondition `json:"rating_op,omitempty"`

	HasPhotos *bool `json:"has_photos,omitempty"`

	DueDatePreset duedate.Preset `json:"due_date_preset,omitempty"`
	DueDateStart  *time.Time     `json:"due_date_start,omitempty"` // only read for the custom preset
	DueDateEnd    *time.Time     `json:"due_date_end,omitempty"`   // only read for the custom preset

	EntryDateStart *time.Time `json:"entry_date_start,omitempty"`
	EntryDateEnd   *time.Time `json:"entry_date_end,omitempty"`

	ShowArchived bool `json:"show_archived,omitempty"`
}

// Default returns the filter a fresh view starts with: everything except
// archived entries.
func Default() StreamViewFilter {
	return StreamViewFilter{DueDatePreset: duedate.PresetAll}
}

// RatingOp is the comparison of a [RatingCondition].
type RatingOp string

// Rating operators.
const (
	RatingAtLeast RatingOp = ">="
	RatingAtMost  RatingOp = "<="
	RatingEqual   RatingOp = "="
)

// RatingCondition compares the entry rating against Value, which is given in
// the UI units of the scale in effect.
type RatingCondition struct {
	Op    RatingOp `json:"op"`
	Value float64  `json:"value"`
}

// IsNoop reports whether the condition sits at the slider's rest position:
// ">=" at the scale minimum or "<=" at the scale maximum. Such a condition is
// never applied even though it would exclude unrated entries.
func (c RatingCondition) IsNoop(scale entry.RatingScale) bool {
	switch c.Op {
	case RatingAtLeast:
		return c.Value == scale.Min()
	case RatingAtMost:
		return c.Value == scale.Max()
	default:
		return false
	}
}

func (c RatingCondition) matches(r float64, scale entry.RatingScale) bool {
	v := rating.ToInternal(c.Value, scale)

	switch c.Op {
	case RatingAtLeast:
		return r >= v
	case RatingAtMost:
		return r <= v
	case RatingEqual:
		return r == v
	default:
		return true
	}
}

// Context carries the collaborator data [Apply] needs besides the entry.
type Context struct {
	// AttachmentCounts is the authoritative attachment count per entry id.
	// Entries missing from the map fall back to Entry.PhotoCount, then to
	// scanning the content markup.
	AttachmentCounts map[string]int

	// RatingScale interprets RatingOp values. Empty means stars.
	RatingScale entry.RatingScale

	// Now anchors relative due-date windows.
	Now time.Time
}

func (c Context) scale() entry.RatingScale {
	if c.RatingScale == "" {
		return entry.ScaleStars
	}

	return c.RatingScale
}

// PhotoCount returns the number of attachments of e.
func (c Context) PhotoCount(e *entry.Entry) int {
	if n, ok := c.AttachmentCounts[e.ID]; ok {
		return n
	}

	if e.PhotoCount != nil {
		return *e.PhotoCount
	}

	return markup.CountAttachments(e.Content)
}

// Apply reports whether e passes f. Dimensions are checked in a fixed order
// and evaluation stops at the first failing one.
func Apply(e *entry.Entry, f *StreamViewFilter, ctx Context) bool {
	if !f.ShowArchived && e.IsArchived {
		return false
	}

	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, e.Status) {
		return false
	}

	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, e.Priority) {
		return false
	}

	if len(f.Types) > 0 && (!e.HasType() || !slices.Contains(f.Types, e.Type)) {
		return false
	}

	if f.RatingMin != nil && e.Rating < *f.RatingMin {
		return false
	}

	if f.RatingMax != nil && e.Rating > *f.RatingMax {
		return false
	}

	if f.RatingOp != nil && !f.RatingOp.IsNoop(ctx.scale()) && !f.RatingOp.matches(e.Rating, ctx.scale()) {
		return false
	}

	if f.HasPhotos != nil && (ctx.PhotoCount(e) > 0) != *f.HasPhotos {
		return false
	}

	if !duedate.MatchesPreset(e.DueDate, f.DueDatePreset, f.DueDateStart, f.DueDateEnd, ctx.Now) {
		return false
	}

	return duedate.MatchesEntryDateRange(e.EntryDate, f.EntryDateStart, f.EntryDateEnd, ctx.Now.Location())
}

// Entries returns the entries passing f and then the search query, in input
// order. The result is a new slice; entries is not modified.
func Entries(entries []entry.Entry, f *StreamViewFilter, ctx Context, query string) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))

	search := NewSearch(query)

	for i := range entries {
		if Apply(&entries[i], f, ctx) && search.Matches(&entries[i]) {
			out = append(out, entries[i])
		}
	}

	return out
}
