package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/streamview/internal/filter"
)

// FiltersCmd returns the filters command.
func FiltersCmd(app *App) *Command {
	fs := flag.NewFlagSet("filters", flag.ContinueOnError)
	vf := addViewFlags(fs)
	fs.Bool("json", false, "Print the summary as JSON")

	return &Command{
		Flags: fs,
		Usage: "filters [flags]",
		Short: "Show which filters are active",
		Long: `Show the active filter dimensions of a view with their badges.

A dimension is active when it can exclude an entry. Selecting every status a
stream allows, or a rating condition at the end of the scale, is not active.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execFilters(ctx, o, app, fs, vf)
		},
	}
}

func execFilters(ctx context.Context, o *IO, app *App, fs *flag.FlagSet, vf *viewFlags) error {
	asJSON, _ := fs.GetBool("json")

	j, eng, err := app.engine(ctx, o)
	if err != nil {
		return err
	}

	req, err := vf.request(ctx, app, j, eng.Streams())
	if err != nil {
		return err
	}

	summary := eng.Summary(req)

	if asJSON {
		return writeJSON(o, summary)
	}

	printSummary(o, &summary)

	return nil
}

func printSummary(o *IO, s *filter.Summary) {
	rows := []struct {
		name string
		c    filter.Category
	}{
		{"status", s.Status},
		{"priority", s.Priority},
		{"type", s.Type},
		{"rating", s.Rating},
		{"photos", s.Photos},
		{"due", s.DueDate},
		{"date", s.EntryDate},
		{"archived", s.Archived},
	}

	for _, row := range rows {
		if row.c.IsActive {
			o.Printf("%-9s %s\n", row.name+":", row.c.Badge)
		}
	}

	if !s.HasActiveFilters {
		o.Println("no active filters")

		return
	}

	o.Printf("%d active\n", s.ActiveCount)
}
