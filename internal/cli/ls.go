package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/rating"
)

const defaultLimit = 100

var errNegativeLimit = errors.New("--limit must be non-negative")

// LsCmd returns the ls command.
func LsCmd(app *App) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	vf := addViewFlags(fs)
	fs.Int("limit", defaultLimit, "Maximum entries to show (0 for all)")
	fs.Int("offset", 0, "Skip first N entries")
	fs.Bool("json", false, "Print entries as JSON")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List entries",
		Long: `List entries of a stream view, filtered and sorted.

Filters combine with AND. Empty multi-select flags mean no constraint.
Archived entries are hidden unless --archived is given.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execLs(ctx, o, app, fs, vf)
		},
	}
}

func execLs(ctx context.Context, o *IO, app *App, fs *flag.FlagSet, vf *viewFlags) error {
	limit, _ := fs.GetInt("limit")
	offset, _ := fs.GetInt("offset")
	asJSON, _ := fs.GetBool("json")

	if limit < 0 || offset < 0 {
		return errNegativeLimit
	}

	j, eng, err := app.engine(ctx, o)
	if err != nil {
		return err
	}

	req, err := vf.request(ctx, app, j, eng.Streams())
	if err != nil {
		return err
	}

	entries := eng.List(req)
	app.logStats(eng)

	entries = page(entries, offset, limit)

	if asJSON {
		return writeJSON(o, toJSONEntries(entries, eng.Streams()))
	}

	for i := range entries {
		o.Println(formatEntryLine(&entries[i], eng.Streams()))
	}

	return nil
}

func page(entries []entry.Entry, offset, limit int) []entry.Entry {
	if offset >= len(entries) {
		return nil
	}

	entries = entries[offset:]

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	return entries
}

// formatEntryLine renders one entry as
// "id [status] title (P3, due 2024-03-15, 4★, stream: Work) *".
func formatEntryLine(e *entry.Entry, streams entry.StreamIndex) string {
	var builder strings.Builder

	builder.WriteString(e.ID)
	builder.WriteString(" [")
	builder.WriteString(string(e.Status))
	builder.WriteString("] ")

	if e.Title == "" {
		builder.WriteString("(untitled)")
	} else {
		builder.WriteString(e.Title)
	}

	var details []string

	if e.Priority > 0 {
		details = append(details, fmt.Sprintf("P%d", e.Priority))
	}

	if e.DueDate != nil {
		details = append(details, "due "+e.DueDate.Format(entry.DateLayout))
	}

	if e.Rating > 0 {
		details = append(details, rating.Format(e.Rating, scaleOf(streams, e.StreamID)))
	}

	if e.Type != "" {
		details = append(details, "type: "+e.Type)
	}

	if name := streams.Name(e.StreamID); name != "" {
		details = append(details, "stream: "+name)
	}

	if len(details) > 0 {
		builder.WriteString(" (")
		builder.WriteString(strings.Join(details, ", "))
		builder.WriteString(")")
	}

	if e.IsArchived {
		builder.WriteString(" [archived]")
	}

	if e.IsPinned {
		builder.WriteString(" *")
	}

	return builder.String()
}

// jsonEntry is the machine-readable form of an entry.
type jsonEntry struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	Priority   int      `json:"priority"`
	Type       string   `json:"type,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
	RatingUI   *float64 `json:"rating_ui,omitempty"`
	DueDate    string   `json:"due_date,omitempty"`
	EntryDate  string   `json:"entry_date,omitempty"`
	CreatedAt  string   `json:"created_at"`
	Archived   bool     `json:"archived,omitempty"`
	Pinned     bool     `json:"pinned,omitempty"`
	StreamID   string   `json:"stream_id,omitempty"`
	StreamName string   `json:"stream_name,omitempty"`
}

func toJSONEntries(entries []entry.Entry, streams entry.StreamIndex) []jsonEntry {
	out := make([]jsonEntry, 0, len(entries))

	for i := range entries {
		e := &entries[i]

		je := jsonEntry{
			ID:         e.ID,
			Title:      e.Title,
			Status:     string(e.Status),
			Priority:   int(e.Priority),
			Type:       e.Type,
			Rating:     e.Rating,
			DueDate:    jsonDate(e.DueDate),
			EntryDate:  jsonDate(e.EntryDate),
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
			Archived:   e.IsArchived,
			Pinned:     e.IsPinned,
			StreamID:   e.StreamID,
			StreamName: streams.Name(e.StreamID),
		}

		if e.Rating > 0 {
			ui := rating.FromInternal(e.Rating, scaleOf(streams, e.StreamID))
			je.RatingUI = &ui
		}

		out = append(out, je)
	}

	return out
}

func jsonDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(entry.DateLayout)
}

func writeJSON(o *IO, v any) error {
	enc := json.NewEncoder(o.Out())
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	return nil
}
