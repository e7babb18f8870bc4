package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/streamview/internal/duedate"
	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/rating"
)

// Category is the display state of one filter dimension.
type Category struct {
	IsActive bool   `json:"is_active"`
	Badge    string `json:"badge,omitempty"` // empty when inactive
}

// Summary is the per-dimension activity of a filter.
type Summary struct {
	Status    Category `json:"status"`
	Priority  Category `json:"priority"`
	Type      Category `json:"type"`
	Rating    Category `json:"rating"`
	Photos    Category `json:"photos"`
	DueDate   Category `json:"due_date"`
	EntryDate Category `json:"entry_date"`
	Archived  Category `json:"archived"`

	ActiveCount      int  `json:"active_count"`
	HasActiveFilters bool `json:"has_active_filters"`
}

// SummaryContext holds the options currently valid for the view.
type SummaryContext struct {
	// AvailableStatuses defaults to every status when nil.
	AvailableStatuses []entry.Status

	// AvailableTypes is the stream's type list. When nil the universe of
	// types is unknown and any non-empty selection counts as active.
	AvailableTypes []string

	// RatingScale formats rating badges. Empty means stars.
	RatingScale entry.RatingScale
}

const badgeDateLayout = "Jan 2"

// Summarize reports which dimensions of f are actively narrowing.
//
// A multi-select dimension is active when the selection, restricted to the
// currently available options, is neither empty nor the full option set.
// Each dimension is judged on its own.
func Summarize(f *StreamViewFilter, ctx SummaryContext) Summary {
	scale := ctx.RatingScale
	if scale == "" {
		scale = entry.ScaleStars
	}

	statuses := ctx.AvailableStatuses
	if statuses == nil {
		statuses = entry.AllStatuses()
	}

	s := Summary{
		Status:    multiSelect(f.Statuses, statuses, true, entry.Status.Label),
		Priority:  multiSelect(f.Priorities, entry.AllPriorities(), true, entry.Priority.Label),
		Type:      multiSelect(f.Types, ctx.AvailableTypes, ctx.AvailableTypes != nil, func(t string) string { return t }),
		Rating:    ratingCategory(f, scale),
		Photos:    photosCategory(f.HasPhotos),
		DueDate:   dueDateCategory(f),
		EntryDate: rangeCategory(f.EntryDateStart, f.EntryDateEnd),
	}

	if f.ShowArchived {
		s.Archived = Category{IsActive: true, Badge: "Showing"}
	}

	for _, c := range []Category{s.Status, s.Priority, s.Type, s.Rating, s.Photos, s.DueDate, s.EntryDate, s.Archived} {
		if c.IsActive {
			s.ActiveCount++
		}
	}

	s.HasActiveFilters = s.ActiveCount > 0

	return s
}

func multiSelect[T comparable](selected, available []T, universeKnown bool, label func(T) string) Category {
	valid := make([]T, 0, len(selected))
	seen := make(map[T]struct{}, len(selected))

	allowed := make(map[T]struct{}, len(available))
	for _, a := range available {
		allowed[a] = struct{}{}
	}

	for _, v := range selected {
		if _, dup := seen[v]; dup {
			continue
		}

		seen[v] = struct{}{}

		if _, ok := allowed[v]; universeKnown && !ok {
			continue
		}

		valid = append(valid, v)
	}

	if len(valid) == 0 || (universeKnown && len(valid) == len(allowed)) {
		return Category{}
	}

	if len(valid) == 1 {
		return Category{IsActive: true, Badge: label(valid[0])}
	}

	return Category{IsActive: true, Badge: fmt.Sprintf("%d selected", len(valid))}
}

func ratingCategory(f *StreamViewFilter, scale entry.RatingScale) Category {
	var parts []string

	switch {
	case f.RatingMin != nil && f.RatingMax != nil:
		parts = append(parts, rating.Format(*f.RatingMin, scale)+"–"+rating.Format(*f.RatingMax, scale))
	case f.RatingMin != nil:
		parts = append(parts, "≥ "+rating.Format(*f.RatingMin, scale))
	case f.RatingMax != nil:
		parts = append(parts, "≤ "+rating.Format(*f.RatingMax, scale))
	}

	if op := f.RatingOp; op != nil && !op.IsNoop(scale) {
		symbol := string(op.Op)

		switch op.Op {
		case RatingAtLeast:
			symbol = "≥"
		case RatingAtMost:
			symbol = "≤"
		}

		parts = append(parts, symbol+" "+rating.Format(rating.ToInternal(op.Value, scale), scale))
	}

	if len(parts) == 0 {
		return Category{}
	}

	return Category{IsActive: true, Badge: strings.Join(parts, ", ")}
}

func photosCategory(hasPhotos *bool) Category {
	switch {
	case hasPhotos == nil:
		return Category{}
	case *hasPhotos:
		return Category{IsActive: true, Badge: "With photos"}
	default:
		return Category{IsActive: true, Badge: "Without photos"}
	}
}

func dueDateCategory(f *StreamViewFilter) Category {
	switch f.DueDatePreset {
	case "", duedate.PresetAll:
		return Category{}
	case duedate.PresetCustom:
		return rangeCategory(f.DueDateStart, f.DueDateEnd)
	case duedate.PresetOverdue, duedate.PresetToday, duedate.PresetThisWeek, duedate.PresetNextWeek,
		duedate.PresetHasDueDate, duedate.PresetNoDueDate:
		return Category{IsActive: true, Badge: f.DueDatePreset.Label()}
	default:
		// Unknown presets match everything in the predicate.
		return Category{}
	}
}

func rangeCategory(start, end *time.Time) Category {
	switch {
	case start != nil && end != nil:
		return Category{IsActive: true, Badge: start.Format(badgeDateLayout) + " – " + end.Format(badgeDateLayout)}
	case start != nil:
		return Category{IsActive: true, Badge: "From " + start.Format(badgeDateLayout)}
	case end != nil:
		return Category{IsActive: true, Badge: "Until " + end.Format(badgeDateLayout)}
	default:
		return Category{}
	}
}
