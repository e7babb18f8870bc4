package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/journal"
	"github.com/calvinalkan/streamview/internal/rating"
)

var (
	errTitleRequired = errors.New("title is required")
	errEmptyValue    = errors.New("empty value not allowed")
	errNoStdin       = errors.New("no stdin to read content from")
)

// AddCmd returns the add command.
func AddCmd(app *App) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("content", "m", "", "Entry content markup ('-' reads stdin)")
	fs.StringP("stream", "s", "", "Stream id (empty for inbox)")
	fs.String("status", string(entry.StatusTodo), "Status")
	fs.IntP("priority", "p", 0, "Priority 0-4")
	fs.StringP("type", "t", "", "Entry type, one of the stream's types when it lists any")
	fs.Float64("rating", 0, "Rating in the stream's scale (0 for unrated)")
	fs.String("due", "", "Due date (YYYY-MM-DD)")
	fs.String("date", "", "Entry date (YYYY-MM-DD)")
	fs.Bool("pin", false, "Pin the entry")

	return &Command{
		Flags: fs,
		Usage: "add <title> [flags]",
		Short: "Add an entry, prints ID",
		Long: `Add a new journal entry. Prints the entry ID on success.

If --stream is given, the stream must exist in streams.json.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execAdd(ctx, o, app, fs, args)
		},
	}
}

func execAdd(ctx context.Context, o *IO, app *App, fs *flag.FlagSet, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return errTitleRequired
	}

	for _, name := range []string{"stream", "status", "type"} {
		v, _ := fs.GetString(name)
		if fs.Changed(name) && strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: --%s", errEmptyValue, name)
		}
	}

	statusRaw, _ := fs.GetString("status")

	status, err := entry.ParseStatus(statusRaw)
	if err != nil {
		return err
	}

	priorityRaw, _ := fs.GetInt("priority")

	priority := entry.Priority(priorityRaw)
	if !priority.Valid() {
		return fmt.Errorf("%w: %d (must be 0-4)", entry.ErrInvalidPriority, priorityRaw)
	}

	content, err := addContent(app, fs)
	if err != nil {
		return err
	}

	due, err := dateFlag(app, fs, "due")
	if err != nil {
		return err
	}

	date, err := dateFlag(app, fs, "date")
	if err != nil {
		return err
	}

	j, err := app.journal()
	if err != nil {
		return err
	}

	streamID, _ := fs.GetString("stream")
	typ, _ := fs.GetString("type")
	pinned, _ := fs.GetBool("pin")
	ui, _ := fs.GetFloat64("rating")

	internal := 0.0

	if ui != 0 {
		streams, issues, streamsErr := j.Streams(ctx)
		if streamsErr != nil {
			return streamsErr
		}

		for _, issue := range issues {
			o.Warn(issue.Error(), "fix streams.json")
		}

		internal = rating.ToInternal(ui, scaleOf(entry.NewStreamIndex(streams), streamID))
	}

	created, err := j.CreateEntry(ctx, journal.NewEntry{
		Title:     title,
		Content:   content,
		Status:    status,
		Priority:  priority,
		Type:      typ,
		Rating:    internal,
		DueDate:   due,
		EntryDate: date,
		StreamID:  streamID,
		Pinned:    pinned,
	})
	if err != nil {
		return err
	}

	app.Log.Debug().Str("id", created.ID).Str("stream", created.StreamID).Msg("entry created")

	o.Println(created.ID)

	return nil
}

func addContent(app *App, fs *flag.FlagSet) (string, error) {
	content, _ := fs.GetString("content")
	if content != "-" {
		return content, nil
	}

	if app.Stdin == nil {
		return "", errNoStdin
	}

	data, err := io.ReadAll(app.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return strings.TrimRight(string(data), "\n"), nil
}

func dateFlag(app *App, fs *flag.FlagSet, name string) (*time.Time, error) {
	raw, _ := fs.GetString(name)

	d, err := optionalDate(raw, app.location())
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}

	return d, nil
}
