package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

var (
	errViewAction     = errors.New("unknown view action (want save, show, ls or rm)")
	errViewNameNeeded = errors.New("view name is required")
)

// ViewCmd returns the view command, which manages saved view filters.
func ViewCmd(app *App) *Command {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	vf := addViewFlags(fs)
	fs.Bool("json", false, "Print the filter as JSON (show)")

	return &Command{
		Flags: fs,
		Usage: "view <save|show|ls|rm> [name] [flags]",
		Short: "Manage saved view filters",
		Long: `Manage saved view filters.

  save <name>   Save the filter built from the given flags under name
  show <name>   Print a saved filter and its active badges
  ls            List saved view names
  rm <name>     Delete a saved view

Name a view after a stream id, 'all' or 'inbox' to make it that scope's
default. Use it with --view on ls, sections, filters and browse.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execView(ctx, o, app, fs, vf, args)
		},
	}
}

func execView(ctx context.Context, o *IO, app *App, fs *flag.FlagSet, vf *viewFlags, args []string) error {
	if len(args) == 0 {
		return errViewAction
	}

	action, rest := args[0], args[1:]

	if action == "ls" {
		return execViewList(ctx, o, app)
	}

	if len(rest) == 0 || rest[0] == "" {
		return fmt.Errorf("%w: view %s", errViewNameNeeded, action)
	}

	name := rest[0]

	switch action {
	case "save":
		return execViewSave(ctx, o, app, vf, name)
	case "show":
		asJSON, _ := fs.GetBool("json")

		return execViewShow(ctx, o, app, vf, name, asJSON)
	case "rm":
		j, err := app.journal()
		if err != nil {
			return err
		}

		if err := j.DeleteView(ctx, name); err != nil {
			return err
		}

		o.Println("deleted", name)

		return nil
	default:
		return fmt.Errorf("%w: %s", errViewAction, action)
	}
}

func execViewList(ctx context.Context, o *IO, app *App) error {
	j, err := app.journal()
	if err != nil {
		return err
	}

	names, err := j.ListViews(ctx)
	if err != nil {
		return err
	}

	for _, name := range names {
		o.Println(name)
	}

	return nil
}

func execViewSave(ctx context.Context, o *IO, app *App, vf *viewFlags, name string) error {
	j, eng, err := app.engine(ctx, o)
	if err != nil {
		return err
	}

	// Rating bounds are read in the scale of the stream the view is named after.
	if !vf.fs.Changed("stream") {
		vf.stream = name
	}

	req, err := vf.request(ctx, app, j, eng.Streams())
	if err != nil {
		return err
	}

	if err := j.SaveView(ctx, name, req.Filter); err != nil {
		return err
	}

	app.Log.Debug().Str("view", name).Msg("view saved")

	o.Println("saved", name)

	return nil
}

func execViewShow(ctx context.Context, o *IO, app *App, vf *viewFlags, name string, asJSON bool) error {
	j, eng, err := app.engine(ctx, o)
	if err != nil {
		return err
	}

	vf.saved = name

	req, err := vf.request(ctx, app, j, eng.Streams())
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(o, req.Filter)
	}

	o.Printf("view %s (scope %s)\n", name, req.Scope)

	summary := eng.Summary(req)
	printSummary(o, &summary)

	return nil
}
