package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/streamview/internal/duedate"
	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/filter"
	"github.com/calvinalkan/streamview/internal/journal"
	"github.com/calvinalkan/streamview/internal/rating"
	"github.com/calvinalkan/streamview/internal/sorting"
	"github.com/calvinalkan/streamview/internal/view"
)

// View flag errors.
var (
	ErrInvalidPhotos   = errors.New("invalid --photos value (want yes, no or any)")
	ErrInvalidRatingOp = errors.New("invalid --rating value (want [>=|<=|=]N)")
	ErrDueRangePreset  = errors.New("--due-from and --due-to need --due custom")
)

// viewFlags are the filter and sort flags shared by ls, sections, filters,
// browse and view save.
type viewFlags struct {
	fs *flag.FlagSet

	stream     string
	saved      string
	statuses   []string
	priorities []string
	types      []string
	ratingMin  float64
	ratingMax  float64
	ratingOp   string
	photos     string
	due        string
	dueFrom    string
	dueTo      string
	from       string
	to         string
	archived   bool
	search     string

	sort        string
	order       string
	pinnedFirst bool
}

func addViewFlags(fs *flag.FlagSet) *viewFlags {
	v := &viewFlags{fs: fs}

	fs.StringVarP(&v.stream, "stream", "s", view.ScopeAll, "Scope: stream id, 'inbox' or 'all'")
	fs.StringVar(&v.saved, "view", "", "Start from a saved view's filter")
	fs.StringSliceVar(&v.statuses, "status", nil, "Only these statuses (repeatable, comma-separated)")
	fs.StringSliceVarP(&v.priorities, "priority", "p", nil, "Only these priorities 0-4")
	fs.StringSliceVar(&v.types, "type", nil, "Only these entry types")
	fs.Float64Var(&v.ratingMin, "rating-min", 0, "Minimum rating in the stream's scale")
	fs.Float64Var(&v.ratingMax, "rating-max", 0, "Maximum rating in the stream's scale")
	fs.StringVar(&v.ratingOp, "rating", "", "Rating condition, e.g. '>=3', '<=7', '=4' or '4'")
	fs.StringVar(&v.photos, "photos", "", "yes, no or any")
	fs.StringVar(&v.due, "due", "", "Due preset: "+presetNames())
	fs.StringVar(&v.dueFrom, "due-from", "", "Custom due range start (YYYY-MM-DD)")
	fs.StringVar(&v.dueTo, "due-to", "", "Custom due range end (YYYY-MM-DD)")
	fs.StringVar(&v.from, "from", "", "Entry date on or after (YYYY-MM-DD)")
	fs.StringVar(&v.to, "to", "", "Entry date on or before (YYYY-MM-DD)")
	fs.BoolVar(&v.archived, "archived", false, "Include archived entries")
	fs.StringVarP(&v.search, "search", "q", "", "Free-text search over title and content")

	fs.StringVar(&v.sort, "sort", "", "Sort mode: "+modeNames()+" (default from config)")
	fs.StringVar(&v.order, "order", "", "asc or desc (default from config)")
	fs.BoolVar(&v.pinnedFirst, "pinned-first", false, "Put pinned entries first (default from config)")

	return v
}

func presetNames() string {
	names := []string{
		string(duedate.PresetAll), string(duedate.PresetOverdue), string(duedate.PresetToday),
		string(duedate.PresetThisWeek), string(duedate.PresetNextWeek), string(duedate.PresetHasDueDate),
		string(duedate.PresetNoDueDate), string(duedate.PresetCustom),
	}

	return joinNames(names)
}

func modeNames() string {
	modes := sorting.Modes()
	names := make([]string, 0, len(modes))

	for _, m := range modes {
		names = append(names, string(m))
	}

	return joinNames(names)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

// request builds the view request. The saved view, when named, replaces the
// default filter and explicit flags are layered on top of it.
func (v *viewFlags) request(ctx context.Context, app *App, j *journal.Journal, streams entry.StreamIndex) (view.Request, error) {
	base := filter.Default()

	if v.saved != "" {
		saved, err := j.LoadView(ctx, v.saved)
		if err != nil {
			return view.Request{}, err
		}

		base = saved
	}

	f, err := v.filter(base, app.location(), scaleOf(streams, v.scope(streams)))
	if err != nil {
		return view.Request{}, err
	}

	opts, err := v.sortOptions(app)
	if err != nil {
		return view.Request{}, err
	}

	return view.Request{
		Scope:  v.scope(streams),
		Filter: f,
		Query:  v.search,
		Sort:   opts,
		Now:    app.Now(),
	}, nil
}

// scope returns --stream, or the saved view's name when it names a scope and
// --stream was not given.
func (v *viewFlags) scope(streams entry.StreamIndex) string {
	if v.fs.Changed("stream") || v.saved == "" {
		return v.stream
	}

	if _, ok := streams.Get(v.saved); ok || v.saved == view.ScopeAll || v.saved == view.ScopeInbox {
		return v.saved
	}

	return v.stream
}

func (v *viewFlags) sortOptions(app *App) (sorting.Options, error) {
	opts := app.Config.SortOptions()

	if v.sort != "" {
		mode, err := sorting.ParseMode(v.sort)
		if err != nil {
			return sorting.Options{}, err
		}

		opts.Mode = mode
	}

	if v.order != "" {
		order, err := sorting.ParseOrder(v.order)
		if err != nil {
			return sorting.Options{}, err
		}

		opts.Order = order
	}

	if v.fs.Changed("pinned-first") {
		opts.PinnedFirst = v.pinnedFirst
	}

	return opts, nil
}

// filter overlays the changed flags onto base. Rating bounds are given in
// the UI units of scale.
func (v *viewFlags) filter(base filter.StreamViewFilter, loc *time.Location, scale entry.RatingScale) (filter.StreamViewFilter, error) {
	f := base

	if v.fs.Changed("status") {
		f.Statuses = nil

		for _, raw := range v.statuses {
			s, err := entry.ParseStatus(raw)
			if err != nil {
				return f, err
			}

			f.Statuses = append(f.Statuses, s)
		}
	}

	if v.fs.Changed("priority") {
		f.Priorities = nil

		for _, raw := range v.priorities {
			p, err := entry.ParsePriority(raw)
			if err != nil {
				return f, err
			}

			f.Priorities = append(f.Priorities, p)
		}
	}

	if v.fs.Changed("type") {
		f.Types = v.types
	}

	if v.fs.Changed("rating-min") {
		r := rating.ToInternal(v.ratingMin, scale)
		f.RatingMin = &r
	}

	if v.fs.Changed("rating-max") {
		r := rating.ToInternal(v.ratingMax, scale)
		f.RatingMax = &r
	}

	if v.fs.Changed("rating") {
		cond, err := parseRatingCondition(v.ratingOp)
		if err != nil {
			return f, err
		}

		f.RatingOp = cond
	}

	if v.fs.Changed("photos") {
		photos, err := parsePhotos(v.photos)
		if err != nil {
			return f, err
		}

		f.HasPhotos = photos
	}

	if err := v.dueFilter(&f, loc); err != nil {
		return f, err
	}

	if v.fs.Changed("from") {
		d, err := optionalDate(v.from, loc)
		if err != nil {
			return f, err
		}

		f.EntryDateStart = d
	}

	if v.fs.Changed("to") {
		d, err := optionalDate(v.to, loc)
		if err != nil {
			return f, err
		}

		f.EntryDateEnd = d
	}

	if v.fs.Changed("archived") {
		f.ShowArchived = v.archived
	}

	return f, nil
}

func (v *viewFlags) dueFilter(f *filter.StreamViewFilter, loc *time.Location) error {
	ranged := v.fs.Changed("due-from") || v.fs.Changed("due-to")

	if v.fs.Changed("due") {
		preset, err := duedate.ParsePreset(v.due)
		if err != nil {
			return err
		}

		if ranged && preset != duedate.PresetCustom {
			return ErrDueRangePreset
		}

		f.DueDatePreset = preset
	} else if ranged {
		f.DueDatePreset = duedate.PresetCustom
	}

	if v.fs.Changed("due-from") {
		d, err := optionalDate(v.dueFrom, loc)
		if err != nil {
			return err
		}

		f.DueDateStart = d
	}

	if v.fs.Changed("due-to") {
		d, err := optionalDate(v.dueTo, loc)
		if err != nil {
			return err
		}

		f.DueDateEnd = d
	}

	return nil
}

// optionalDate parses s, treating an empty value as "clear".
func optionalDate(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil //nolint:nilnil // empty clears the bound
	}

	t, err := entry.ParseDate(s, loc)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// parseRatingCondition parses "[>=|<=|=]N". A bare number means "=", an
// empty value clears the condition.
func parseRatingCondition(s string) (*filter.RatingCondition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil //nolint:nilnil // empty clears the condition
	}

	op := filter.RatingEqual

	for _, candidate := range []filter.RatingOp{filter.RatingAtLeast, filter.RatingAtMost, filter.RatingEqual} {
		if rest, ok := strings.CutPrefix(s, string(candidate)); ok {
			op = candidate
			s = rest

			break
		}
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRatingOp, s)
	}

	return &filter.RatingCondition{Op: op, Value: value}, nil
}

func parsePhotos(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		yes := true

		return &yes, nil
	case "no", "false":
		no := false

		return &no, nil
	case "any", "":
		return nil, nil //nolint:nilnil // any means unset
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhotos, s)
	}
}
