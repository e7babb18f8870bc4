// Package view composes filtering, sorting and sectioning over a journal
// snapshot and memoizes each stage.
//
// The pipeline is filter, then sort, then group. Sorting does not depend on
// the filter, so the engine sorts the whole snapshot once per sort option and
// filters the sorted list, which yields the same order as sorting the
// filtered list. Results handed out are always fresh copies; callers may
// modify them.
package view

import (
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/filter"
	"github.com/calvinalkan/streamview/internal/section"
	"github.com/calvinalkan/streamview/internal/sorting"
)

// Snapshot is one consistent read of the journal.
type Snapshot struct {
	// Version identifies the snapshot content. Zero means unknown; the engine
	// then computes it with [Fingerprint].
	Version          uint64
	Entries          []entry.Entry
	Streams          []entry.Stream
	AttachmentCounts map[string]int
}

// Special scopes. Any other scope value is a stream id.
const (
	ScopeAll   = "all"
	ScopeInbox = "inbox"
)

// Request describes one view query.
type Request struct {
	// Scope restricts entries to a stream, the inbox (entries without a known
	// stream) or everything. Empty means [ScopeAll].
	Scope  string
	Filter filter.StreamViewFilter
	Query  string
	Sort   sorting.Options

	// Now anchors relative due-date filters and buckets. Zero means the
	// current time.
	Now time.Time
}

func (r Request) normalized() Request {
	if r.Scope == "" {
		r.Scope = ScopeAll
	}

	if r.Now.IsZero() {
		r.Now = time.Now()
	}

	return r
}

// Counter counts memo lookups of one stage.
type Counter struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Stats reports memo effectiveness per stage.
type Stats struct {
	Sorted   Counter `json:"sorted"`
	Filtered Counter `json:"filtered"`
	Sections Counter `json:"sections"`
}

// maxMemo bounds each stage's memo. A full stage is reset, not evicted.
const maxMemo = 64

type sortKey struct {
	version uint64
	sort    sorting.Options
}

type filterKey struct {
	sortKey

	scope  string
	filter uint64
	day    string
}

type listKey struct {
	filterKey

	query string
}

type sectionKey struct {
	filterKey

	dim section.Dimension
}

// Engine is safe for concurrent use.
type Engine struct {
	log zerolog.Logger

	mu       sync.Mutex
	snap     Snapshot
	streams  entry.StreamIndex
	sorted   map[sortKey][]entry.Entry
	filtered map[listKey][]entry.Entry
	sections map[sectionKey][]section.Section
	stats    Stats
}

// New returns an engine serving snap.
func New(snap Snapshot, log zerolog.Logger) *Engine {
	e := &Engine{log: log}
	e.Replace(snap)

	return e
}

// Replace swaps the snapshot. Memos survive when the version is unchanged.
func (e *Engine) Replace(snap Snapshot) {
	if snap.Version == 0 {
		snap.Version = Fingerprint(&snap)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.Version == snap.Version && e.sorted != nil {
		return
	}

	e.snap = snap
	e.streams = entry.NewStreamIndex(snap.Streams)
	e.sorted = make(map[sortKey][]entry.Entry)
	e.filtered = make(map[listKey][]entry.Entry)
	e.sections = make(map[sectionKey][]section.Section)

	e.log.Debug().
		Uint64("version", snap.Version).
		Int("entries", len(snap.Entries)).
		Int("streams", len(snap.Streams)).
		Msg("snapshot loaded")
}

// Streams returns the stream index of the current snapshot.
func (e *Engine) Streams() entry.StreamIndex {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.streams
}

// List returns the entries of req, filtered, searched and sorted.
func (e *Engine) List(req Request) []entry.Entry {
	req = req.normalized()

	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.list(req, req.Query))
}

// Sections returns the entries of req grouped by dim.
//
// Sections are built from the filtered list without the search query, which
// is applied afterwards with [section.Refilter]. Searching therefore never
// reorders sections, it only shrinks or hides them.
func (e *Engine) Sections(req Request, dim section.Dimension) []section.Section {
	req = req.normalized()

	e.mu.Lock()
	defer e.mu.Unlock()

	key := sectionKey{filterKey: e.filterKey(req), dim: dim}

	grouped, ok := e.sections[key]
	if ok {
		e.stats.Sections.Hits++
	} else {
		e.stats.Sections.Misses++
		e.log.Debug().Str("stage", "sections").Str("dim", string(dim)).Msg("memo miss")

		grouped = section.Group(dim, e.list(req, ""), section.Options{
			Sort:    req.Sort,
			Streams: e.streams,
			Now:     req.Now,
			Scale:   e.labelScale(req.Scope),
		})

		if len(e.sections) >= maxMemo {
			clear(e.sections)
		}

		e.sections[key] = grouped
	}

	search := filter.NewSearch(req.Query)
	if search.Empty() {
		return cloneSections(grouped)
	}

	return section.Refilter(grouped, search.Matches)
}

// Summary reports the active filter dimensions of req for badge display.
func (e *Engine) Summary(req Request) filter.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := filter.SummaryContext{RatingScale: e.scale(req.Scope)}

	if s, ok := e.streams.Get(req.Scope); ok {
		ctx.AvailableStatuses = s.AllowedStatuses()
		if len(s.Types) > 0 {
			ctx.AvailableTypes = s.Types
		}
	}

	return filter.Summarize(&req.Filter, ctx)
}

// Stats returns memo hit and miss counts since the engine was created.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stats
}

// list returns the memoized filtered list. Callers hold mu and must not
// modify the result.
func (e *Engine) list(req Request, query string) []entry.Entry {
	key := listKey{filterKey: e.filterKey(req), query: query}

	if out, ok := e.filtered[key]; ok {
		e.stats.Filtered.Hits++

		return out
	}

	e.stats.Filtered.Misses++
	e.log.Debug().Str("stage", "filter").Str("scope", req.Scope).Str("query", query).Msg("memo miss")

	sorted := e.sortedEntries(req.Sort)
	ctx := filter.Context{
		AttachmentCounts: e.snap.AttachmentCounts,
		RatingScale:      e.scale(req.Scope),
		Now:              req.Now,
	}
	search := filter.NewSearch(query)

	out := make([]entry.Entry, 0, len(sorted))

	for i := range sorted {
		en := &sorted[i]
		if e.inScope(en, req.Scope) && filter.Apply(en, &req.Filter, ctx) && search.Matches(en) {
			out = append(out, *en)
		}
	}

	if len(e.filtered) >= maxMemo {
		clear(e.filtered)
	}

	e.filtered[key] = out

	return out
}

func (e *Engine) sortedEntries(opts sorting.Options) []entry.Entry {
	key := sortKey{version: e.snap.Version, sort: opts}

	if out, ok := e.sorted[key]; ok {
		e.stats.Sorted.Hits++

		return out
	}

	e.stats.Sorted.Misses++
	e.log.Debug().Str("stage", "sort").Str("mode", string(opts.Mode)).Str("order", string(opts.Order)).Msg("memo miss")

	out := sorting.Sort(e.snap.Entries, opts, e.streams)

	if len(e.sorted) >= maxMemo {
		clear(e.sorted)
	}

	e.sorted[key] = out

	return out
}

func (e *Engine) filterKey(req Request) filterKey {
	return filterKey{
		sortKey: sortKey{version: e.snap.Version, sort: req.Sort},
		scope:   req.Scope,
		filter:  FilterFingerprint(&req.Filter),
		day:     req.Now.Format(time.DateOnly) + " " + req.Now.Location().String(),
	}
}

func (e *Engine) inScope(en *entry.Entry, scope string) bool {
	switch scope {
	case ScopeAll:
		return true
	case ScopeInbox:
		_, ok := e.streams.Get(en.StreamID)

		return !ok
	default:
		return en.StreamID == scope
	}
}

// scale is the rating scale rating-operator filters are read in.
func (e *Engine) scale(scope string) entry.RatingScale {
	if s, ok := e.streams.Get(scope); ok {
		return s.Scale()
	}

	return entry.ScaleStars
}

// labelScale is the scale rating sections are labeled in. Mixed scopes keep
// the internal scale.
func (e *Engine) labelScale(scope string) entry.RatingScale {
	if s, ok := e.streams.Get(scope); ok {
		return s.Scale()
	}

	return ""
}

func cloneSections(in []section.Section) []section.Section {
	out := make([]section.Section, len(in))
	for i, s := range in {
		s.Data = slices.Clone(s.Data)
		out[i] = s
	}

	return out
}

// Fingerprint hashes the content of snap, ignoring its Version. Equal
// content gives equal fingerprints.
func Fingerprint(snap *Snapshot) uint64 {
	d := xxhash.New()
	enc := json.NewEncoder(d)

	// Plain structs, string-keyed maps and times always encode.
	_ = enc.Encode(snap.Entries)
	_ = enc.Encode(snap.Streams)
	_ = enc.Encode(snap.AttachmentCounts)

	return d.Sum64()
}

// FilterFingerprint hashes the canonical JSON form of f.
func FilterFingerprint(f *filter.StreamViewFilter) uint64 {
	b, _ := json.Marshal(f)

	return xxhash.Sum64(b)
}
