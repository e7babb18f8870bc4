package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/streamview/internal/config"
	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/journal"
	"github.com/calvinalkan/streamview/internal/view"
)

// App is what every command needs besides its own flags.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Stdin  io.Reader

	// Now is the clock for due-date windows and new entries.
	Now func() time.Time
}

// newLogger writes human-readable diagnostics to w.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}

	return zerolog.New(output).With().Timestamp().Logger().Level(level)
}

func (a *App) location() *time.Location {
	return a.Now().Location()
}

func (a *App) journal() (*journal.Journal, error) {
	return journal.Open(a.Config.JournalDirAbs, journal.Options{
		Location: a.location(),
		Now:      a.Now,
	})
}

// load reads the journal and reports unreadable files as warnings.
func (a *App) load(ctx context.Context, o *IO) (*journal.Journal, view.Snapshot, error) {
	j, err := a.journal()
	if err != nil {
		return nil, view.Snapshot{}, err
	}

	snap, issues, err := j.Load(ctx)
	if err != nil {
		return nil, view.Snapshot{}, fmt.Errorf("loading journal: %w", err)
	}

	for _, issue := range issues {
		o.Warn(issue.Error(), "fix the file or remove it")
	}

	a.Log.Debug().
		Str("dir", j.Dir()).
		Int("entries", len(snap.Entries)).
		Int("streams", len(snap.Streams)).
		Int("issues", len(issues)).
		Msg("journal loaded")

	return j, snap, nil
}

// engine loads the journal into a fresh view engine.
func (a *App) engine(ctx context.Context, o *IO) (*journal.Journal, *view.Engine, error) {
	j, snap, err := a.load(ctx, o)
	if err != nil {
		return nil, nil, err
	}

	return j, view.New(snap, a.Log), nil
}

// logStats reports memo effectiveness at debug level.
func (a *App) logStats(eng *view.Engine) {
	stats := eng.Stats()

	a.Log.Debug().
		Int("sorted_hits", stats.Sorted.Hits).
		Int("sorted_misses", stats.Sorted.Misses).
		Int("filtered_hits", stats.Filtered.Hits).
		Int("filtered_misses", stats.Filtered.Misses).
		Int("sections_hits", stats.Sections.Hits).
		Int("sections_misses", stats.Sections.Misses).
		Msg("view memo")
}

// scaleOf returns the rating scale shown for entries of stream id.
func scaleOf(streams entry.StreamIndex, id string) entry.RatingScale {
	if s, ok := streams.Get(id); ok {
		return s.Scale()
	}

	return entry.ScaleStars
}
