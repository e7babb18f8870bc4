// Package duedate resolves relative due-date windows ("today", "this week",
// ...) and explicit date ranges against an injected "now".
//
// All comparisons are made at day granularity: every timestamp is moved into
// now's location and truncated to midnight before it is compared. Weeks start
// on Sunday.
package duedate

import (
	"errors"
	"fmt"
	"time"
)

// Preset names a due-date window.
type Preset string

// Due-date presets.
const (
	PresetAll        Preset = "all"
	PresetOverdue    Preset = "overdue"
	PresetToday      Preset = "today"
	PresetThisWeek   Preset = "this_week"
	PresetNextWeek   Preset = "next_week"
	PresetHasDueDate Preset = "has_due_date"
	PresetNoDueDate  Preset = "no_due_date"
	PresetCustom     Preset = "custom"
)

var presetLabels = map[Preset]string{ //nolint:gochecknoglobals // lookup table
	PresetAll:        "All",
	PresetOverdue:    "Overdue",
	PresetToday:      "Today",
	PresetThisWeek:   "This Week",
	PresetNextWeek:   "Next Week",
	PresetHasDueDate: "Has Due Date",
	PresetNoDueDate:  "No Due Date",
	PresetCustom:     "Custom",
}

// Label returns the display label of p.
func (p Preset) Label() string {
	if label, ok := presetLabels[p]; ok {
		return label
	}

	return string(p)
}

// ErrInvalidPreset is returned by [ParsePreset] for unknown names.
var ErrInvalidPreset = errors.New("invalid due date preset")

// ParsePreset validates a preset name. Empty means [PresetAll].
func ParsePreset(s string) (Preset, error) {
	if s == "" {
		return PresetAll, nil
	}

	p := Preset(s)
	if _, ok := presetLabels[p]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidPreset, s)
	}

	return p, nil
}

const daysPerWeek = 7

// Midnight truncates t to the start of its day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Window is an inclusive time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside w, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WeekWindow returns the Sunday-to-Saturday week containing now.
func WeekWindow(now time.Time) Window {
	today := Midnight(now, now.Location())
	start := today.AddDate(0, 0, -int(today.Weekday()))

	return weekFrom(start)
}

// NextWeekWindow returns the week after [WeekWindow].
func NextWeekWindow(now time.Time) Window {
	return weekFrom(WeekWindow(now).Start.AddDate(0, 0, daysPerWeek))
}

func weekFrom(start time.Time) Window {
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, daysPerWeek).Add(-time.Nanosecond),
	}
}

// MatchesPreset reports whether an entry due on due passes preset. customStart
// and customEnd are only consulted for [PresetCustom]. Unknown presets match
// everything.
func MatchesPreset(due *time.Time, preset Preset, customStart, customEnd *time.Time, now time.Time) bool {
	loc := now.Location()
	today := Midnight(now, loc)

	switch preset {
	case PresetHasDueDate:
		return due != nil
	case PresetNoDueDate:
		return due == nil
	case PresetCustom:
		if customStart == nil && customEnd == nil {
			return true
		}

		return due != nil && inRange(Midnight(*due, loc), customStart, customEnd, loc)
	case PresetOverdue, PresetToday, PresetThisWeek, PresetNextWeek:
		if due == nil {
			return false
		}
	default:
		return true
	}

	day := Midnight(*due, loc)

	switch preset {
	case PresetOverdue:
		return day.Before(today)
	case PresetToday:
		return day.Equal(today)
	case PresetThisWeek:
		return WeekWindow(now).Contains(day)
	default:
		return NextWeekWindow(now).Contains(day)
	}
}

// MatchesEntryDateRange is the two-sided inclusive range test for entry
// dates. With both bounds unset everything matches, including entries without
// a date. With any bound set, an entry without a date never matches.
func MatchesEntryDateRange(date, start, end *time.Time, loc *time.Location) bool {
	if start == nil && end == nil {
		return true
	}

	if date == nil {
		return false
	}

	return inRange(Midnight(*date, loc), start, end, loc)
}

func inRange(day time.Time, start, end *time.Time, loc *time.Location) bool {
	if start != nil && day.Before(Midnight(*start, loc)) {
		return false
	}

	if end != nil && day.After(Midnight(*end, loc)) {
		return false
	}

	return true
}

// Bucket is the due-date section an entry falls into.
type Bucket string

// Buckets in display order.
const (
	BucketOverdue  Bucket = "overdue"
	BucketToday    Bucket = "today"
	BucketThisWeek Bucket = "this_week"
	BucketNextWeek Bucket = "next_week"
	BucketLater    Bucket = "later"
	BucketNone     Bucket = "none"
)

// Buckets returns every bucket in display order.
func Buckets() []Bucket {
	return []Bucket{BucketOverdue, BucketToday, BucketThisWeek, BucketNextWeek, BucketLater, BucketNone}
}

var bucketLabels = map[Bucket]string{ //nolint:gochecknoglobals // lookup table
	BucketOverdue:  "Overdue",
	BucketToday:    "Today",
	BucketThisWeek: "This Week",
	BucketNextWeek: "Next Week",
	BucketLater:    "Later",
	BucketNone:     "No Due Date",
}

// Label returns the display label of b.
func (b Bucket) Label() string {
	return bucketLabels[b]
}

// BucketOf places due into exactly one bucket. Today wins over this week,
// and "this week" only holds the days after today.
func BucketOf(due *time.Time, now time.Time) Bucket {
	if due == nil {
		return BucketNone
	}

	loc := now.Location()
	today := Midnight(now, loc)
	day := Midnight(*due, loc)

	switch {
	case day.Before(today):
		return BucketOverdue
	case day.Equal(today):
		return BucketToday
	case WeekWindow(now).Contains(day):
		return BucketThisWeek
	case NextWeekWindow(now).Contains(day):
		return BucketNextWeek
	default:
		return BucketLater
	}
}
