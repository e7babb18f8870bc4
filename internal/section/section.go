// Package section groups sorted entries into labeled, counted sections.
//
// Grouping always sorts first, so entries inside a section appear in the
// same relative order a flat list with the same sort options would show.
// Sections are never empty: a bucket without entries is not emitted.
package section

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/calvinalkan/streamview/internal/duedate"
	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/rating"
	"github.com/calvinalkan/streamview/internal/sorting"
)

// Section is one labeled bucket of entries.
type Section struct {
	Key   string        `json:"key"`
	Label string        `json:"label"`
	Data  []entry.Entry `json:"-"`
	Count int           `json:"count"`
}

// Dimension is what entries are grouped by.
type Dimension string

// Grouping dimensions.
const (
	DimStatus   Dimension = "status"
	DimType     Dimension = "type"
	DimStream   Dimension = "stream"
	DimPriority Dimension = "priority"
	DimRating   Dimension = "rating"
	DimDueDate  Dimension = "due_date"
)

// Dimensions lists every grouping dimension.
func Dimensions() []Dimension {
	return []Dimension{DimStatus, DimType, DimStream, DimPriority, DimRating, DimDueDate}
}

// ErrInvalidDimension is returned by [ParseDimension].
var ErrInvalidDimension = errors.New("invalid group dimension")

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	if !slices.Contains(Dimensions(), d) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}

	return d, nil
}

// Options controls grouping.
type Options struct {
	Sort    sorting.Options
	Streams entry.StreamIndex // Streams names stream sections.
	Now     time.Time         // Now anchors due-date buckets.

	// Scale labels rating sections in UI units. Empty keeps "N / 10".
	Scale entry.RatingScale
}

// Labels shown for entries without a value in the grouped dimension.
const (
	LabelInbox    = "Inbox"
	LabelNoType   = "No Type"
	LabelUnrated  = "Unrated"
	keyNone       = ""
	ratingBuckets = 10
)

// Group dispatches to the grouping function for dim. Unknown dimensions
// yield a single section holding every entry.
func Group(dim Dimension, entries []entry.Entry, opts Options) []Section {
	switch dim {
	case DimStatus:
		return ByStatus(entries, opts)
	case DimType:
		return ByType(entries, opts)
	case DimStream:
		return ByStream(entries, opts)
	case DimPriority:
		return ByPriority(entries, opts)
	case DimRating:
		return ByRating(entries, opts)
	case DimDueDate:
		return ByDueDate(entries, opts)
	default:
		sorted := sorting.Sort(entries, opts.Sort, opts.Streams)
		if len(sorted) == 0 {
			return []Section{}
		}

		return []Section{{Key: "all", Label: "All", Data: sorted, Count: len(sorted)}}
	}
}

// ByStatus groups by status in canonical status order.
func ByStatus(entries []entry.Entry, opts Options) []Section {
	order := make([]string, 0, len(entry.AllStatuses()))
	for _, s := range entry.AllStatuses() {
		order = append(order, string(s))
	}

	return bucket(entries, opts, fixed(order),
		func(e *entry.Entry) string { return string(e.Status) },
		func(key string) string { return entry.Status(key).Label() },
	)
}

// ByPriority groups by priority level, highest first.
func ByPriority(entries []entry.Entry, opts Options) []Section {
	var order []string

	for p := entry.MaxPriority; p >= entry.MinPriority; p-- {
		order = append(order, strconv.Itoa(int(p)))
	}

	return bucket(entries, opts, fixed(order),
		func(e *entry.Entry) string { return strconv.Itoa(int(e.Priority)) },
		func(key string) string {
			n, _ := strconv.Atoi(key)

			return entry.Priority(n).Label()
		},
	)
}

// ByRating groups by whole internal rating points, highest first, with
// unrated entries last.
func ByRating(entries []entry.Entry, opts Options) []Section {
	order := make([]string, 0, ratingBuckets+1)
	for r := ratingBuckets; r >= 1; r-- {
		order = append(order, strconv.Itoa(r))
	}

	order = append(order, keyNone)

	return bucket(entries, opts, fixed(order),
		func(e *entry.Entry) string {
			if e.Rating <= 0 {
				return keyNone
			}

			// Fractions below one point still count as rated.
			return strconv.Itoa(max(1, int(math.Floor(e.Rating))))
		},
		func(key string) string {
			if key == keyNone {
				return LabelUnrated
			}

			if opts.Scale == "" {
				return key + " / 10"
			}

			n, _ := strconv.Atoi(key)

			return rating.Format(float64(n), opts.Scale)
		},
	)
}

// ByDueDate groups into relative due-date buckets anchored at opts.Now.
func ByDueDate(entries []entry.Entry, opts Options) []Section {
	order := make([]string, 0, len(duedate.Buckets()))
	for _, b := range duedate.Buckets() {
		order = append(order, string(b))
	}

	return bucket(entries, opts, fixed(order),
		func(e *entry.Entry) string { return string(duedate.BucketOf(e.DueDate, opts.Now)) },
		func(key string) string { return duedate.Bucket(key).Label() },
	)
}

// ByType groups by entry type in first-seen order.
func ByType(entries []entry.Entry, opts Options) []Section {
	return bucket(entries, opts, firstSeen,
		func(e *entry.Entry) string { return e.Type },
		func(key string) string {
			if key == keyNone {
				return LabelNoType
			}

			return key
		},
	)
}

// ByStream groups by stream in first-seen order. Unassigned entries and
// entries of unknown streams share the Inbox section.
func ByStream(entries []entry.Entry, opts Options) []Section {
	return bucket(entries, opts, firstSeen,
		func(e *entry.Entry) string {
			if _, ok := opts.Streams.Get(e.StreamID); !ok {
				return keyNone
			}

			return e.StreamID
		},
		func(key string) string {
			if key == keyNone {
				return LabelInbox
			}

			return opts.Streams.Name(key)
		},
	)
}

// orderFunc turns the keys seen (in first-seen order) into section order.
type orderFunc func(seen []string) []string

func firstSeen(seen []string) []string {
	return seen
}

// fixed orders sections canonically. Keys outside canonical trail in
// first-seen order.
func fixed(canonical []string) orderFunc {
	return func(seen []string) []string {
		out := make([]string, 0, len(seen))

		for _, k := range canonical {
			if slices.Contains(seen, k) {
				out = append(out, k)
			}
		}

		for _, k := range seen {
			if !slices.Contains(canonical, k) {
				out = append(out, k)
			}
		}

		return out
	}
}

func bucket(entries []entry.Entry, opts Options, order orderFunc, keyOf func(*entry.Entry) string, labelOf func(string) string) []Section {
	sorted := sorting.Sort(entries, opts.Sort, opts.Streams)

	var seen []string

	buckets := make(map[string][]entry.Entry)

	for i := range sorted {
		k := keyOf(&sorted[i])
		if _, ok := buckets[k]; !ok {
			seen = append(seen, k)
		}

		buckets[k] = append(buckets[k], sorted[i])
	}

	sections := make([]Section, 0, len(seen))

	for _, k := range order(seen) {
		data := buckets[k]
		sections = append(sections, Section{Key: k, Label: labelOf(k), Data: data, Count: len(data)})
	}

	return sections
}

// Refilter keeps only the entries passing keep, recomputes counts and drops
// sections left empty. The input sections are not modified.
func Refilter(sections []Section, keep func(*entry.Entry) bool) []Section {
	out := make([]Section, 0, len(sections))

	for _, s := range sections {
		var data []entry.Entry

		for i := range s.Data {
			if keep(&s.Data[i]) {
				data = append(data, s.Data[i])
			}
		}

		if len(data) == 0 {
			continue
		}

		out = append(out, Section{Key: s.Key, Label: s.Label, Data: data, Count: len(data)})
	}

	return out
}

// Total returns the number of entries across sections.
func Total(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += s.Count
	}

	return n
}
