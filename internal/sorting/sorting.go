// Package sorting orders entries for display.
//
// Every mode maps entries to a totally ordered key. Entries without a key
// value (no due date, no title, ...) always sort after entries that have one,
// in both directions. Pinned-first partitioning is applied before the key and
// is never reversed by the order. Remaining ties are broken by entry ID so the
// same input always yields the same output.
package sorting

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/calvinalkan/streamview/internal/entry"
)

// Mode is the sort key.
type Mode string

// Sort modes.
const (
	ModeDate     Mode = "date"
	ModeTitle    Mode = "title"
	ModeStatus   Mode = "status"
	ModePriority Mode = "priority"
	ModeRating   Mode = "rating"
	ModeDueDate  Mode = "due_date"
	ModeStream   Mode = "stream"
	ModeType     Mode = "type"
)

// Modes lists every sort mode.
func Modes() []Mode {
	return []Mode{ModeDate, ModeTitle, ModeStatus, ModePriority, ModeRating, ModeDueDate, ModeStream, ModeType}
}

// Order is the sort direction.
type Order string

// Sort orders.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Parse errors.
var (
	ErrInvalidMode  = errors.New("invalid sort mode")
	ErrInvalidOrder = errors.New("invalid sort order")
)

// ParseMode validates a sort mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !slices.Contains(Modes(), m) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}

	return m, nil
}

// ParseOrder validates an order name.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(s)); o {
	case Asc, Desc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q (want asc or desc)", ErrInvalidOrder, s)
	}
}

// Options selects how entries are ordered.
type Options struct {
	Mode        Mode  `json:"mode"`
	Order       Order `json:"order"`
	PinnedFirst bool  `json:"pinned_first"`
}

// Lookup resolves stream names for the stream mode.
type Lookup interface {
	Name(streamID string) string
}

// Sort returns a sorted copy of entries. entries itself is not modified.
// streams may be nil when the mode does not need stream names.
func Sort(entries []entry.Entry, opts Options, streams Lookup) []entry.Entry {
	out := slices.Clone(entries)
	if out == nil {
		out = []entry.Entry{}
	}

	compare := newComparator(opts, streams)
	slices.SortFunc(out, func(a, b entry.Entry) int {
		return compare(&a, &b)
	})

	return out
}

type comparator struct {
	opts     Options
	streams  Lookup
	collator *collate.Collator
}

func newComparator(opts Options, streams Lookup) func(a, b *entry.Entry) int {
	c := &comparator{
		opts:     opts,
		streams:  streams,
		collator: collate.New(language.Und, collate.IgnoreCase),
	}

	return c.compare
}

func (c *comparator) compare(a, b *entry.Entry) int {
	if c.opts.PinnedFirst && a.IsPinned != b.IsPinned {
		if a.IsPinned {
			return -1
		}

		return 1
	}

	aMissing, bMissing := c.missing(a), c.missing(b)

	switch {
	case aMissing && !bMissing:
		return 1
	case !aMissing && bMissing:
		return -1
	case !aMissing:
		r := c.key(a, b)
		if c.opts.Order == Desc {
			r = -r
		}

		if r != 0 {
			return r
		}
	}

	return strings.Compare(a.ID, b.ID)
}

func (c *comparator) missing(e *entry.Entry) bool {
	switch c.opts.Mode {
	case ModeTitle:
		return strings.TrimSpace(e.Title) == ""
	case ModeRating:
		return e.Rating == 0
	case ModeDueDate:
		return e.DueDate == nil
	case ModeStream:
		return c.streamName(e) == ""
	case ModeType:
		return !e.HasType()
	default:
		return false
	}
}

// key compares a and b by the mode's key in ascending order. Both values are
// known to be present.
func (c *comparator) key(a, b *entry.Entry) int {
	switch c.opts.Mode {
	case ModeTitle:
		return c.collator.CompareString(strings.TrimSpace(a.Title), strings.TrimSpace(b.Title))
	case ModeStatus:
		return cmp.Compare(a.Status.Rank(), b.Status.Rank())
	case ModePriority:
		return cmp.Compare(a.Priority, b.Priority)
	case ModeRating:
		return cmp.Compare(a.Rating, b.Rating)
	case ModeDueDate:
		return a.DueDate.Compare(*b.DueDate)
	case ModeStream:
		return c.collator.CompareString(c.streamName(a), c.streamName(b))
	case ModeType:
		return c.collator.CompareString(a.Type, b.Type)
	default:
		if r := effectiveDate(a).Compare(effectiveDate(b)); r != 0 {
			return r
		}

		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// effectiveDate is the entry date, falling back to the creation time.
func effectiveDate(e *entry.Entry) time.Time {
	if e.EntryDate != nil {
		return *e.EntryDate
	}

	return e.CreatedAt
}

func (c *comparator) streamName(e *entry.Entry) string {
	if e.StreamID == "" || c.streams == nil {
		return ""
	}

	return c.streams.Name(e.StreamID)
}
