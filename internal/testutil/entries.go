package testutil

import (
	"time"

	"github.com/calvinalkan/streamview/internal/entry"
)

// EntryBuilder builds test entries with readable defaults.
type EntryBuilder struct {
	e entry.Entry
}

// NewEntry starts an untitled todo entry with the given id, created at
// 2024-01-01 UTC.
func NewEntry(id string) *EntryBuilder {
	return &EntryBuilder{e: entry.Entry{
		ID:        id,
		Status:    entry.StatusTodo,
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func (b *EntryBuilder) Title(s string) *EntryBuilder {
	b.e.Title = s

	return b
}

func (b *EntryBuilder) Content(s string) *EntryBuilder {
	b.e.Content = s

	return b
}

func (b *EntryBuilder) Status(s entry.Status) *EntryBuilder {
	b.e.Status = s

	return b
}

func (b *EntryBuilder) Priority(p entry.Priority) *EntryBuilder {
	b.e.Priority = p

	return b
}

func (b *EntryBuilder) Type(s string) *EntryBuilder {
	b.e.Type = s

	return b
}

func (b *EntryBuilder) Rating(r float64) *EntryBuilder {
	b.e.Rating = r

	return b
}

func (b *EntryBuilder) Due(s string) *EntryBuilder {
	b.e.DueDate = Date(s)

	return b
}

func (b *EntryBuilder) On(s string) *EntryBuilder {
	b.e.EntryDate = Date(s)

	return b
}

func (b *EntryBuilder) Created(t time.Time) *EntryBuilder {
	b.e.CreatedAt = t

	return b
}

func (b *EntryBuilder) Stream(id string) *EntryBuilder {
	b.e.StreamID = id

	return b
}

func (b *EntryBuilder) Archived() *EntryBuilder {
	b.e.IsArchived = true

	return b
}

func (b *EntryBuilder) Pinned() *EntryBuilder {
	b.e.IsPinned = true

	return b
}

func (b *EntryBuilder) Photos(n int) *EntryBuilder {
	b.e.PhotoCount = &n

	return b
}

// Build returns the entry.
func (b *EntryBuilder) Build() entry.Entry {
	return b.e
}

// IDs returns the ids of entries in order.
func IDs(entries []entry.Entry) []string {
	ids := make([]string, 0, len(entries))
	for i := range entries {
		ids = append(ids, entries[i].ID)
	}

	return ids
}
