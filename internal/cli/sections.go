package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/section"
)

// SectionsCmd returns the sections command.
func SectionsCmd(app *App) *Command {
	fs := flag.NewFlagSet("sections", flag.ContinueOnError)
	vf := addViewFlags(fs)
	fs.String("by", "", "Group dimension: "+dimensionNames()+" (default from config group_by, else status)")
	fs.Bool("json", false, "Print sections as JSON")

	return &Command{
		Flags: fs,
		Usage: "sections [flags]",
		Short: "List entries grouped into sections",
		Long: `List entries of a stream view grouped by one dimension.

Sections follow a fixed order for status, priority, rating and due date, and
first appearance in the sorted list for type and stream. Empty sections are
never shown. Within a section, entries keep the sort order.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execSections(ctx, o, app, fs, vf)
		},
	}
}

func dimensionNames() string {
	dims := section.Dimensions()
	names := make([]string, 0, len(dims))

	for _, d := range dims {
		names = append(names, string(d))
	}

	return joinNames(names)
}

func groupDimension(app *App, fs *flag.FlagSet) (section.Dimension, error) {
	by, _ := fs.GetString("by")
	if by == "" {
		by = app.Config.GroupBy
	}

	if by == "" {
		return section.DimStatus, nil
	}

	return section.ParseDimension(by)
}

type jsonSection struct {
	Key     string      `json:"key"`
	Label   string      `json:"label"`
	Count   int         `json:"count"`
	Entries []jsonEntry `json:"entries"`
}

func execSections(ctx context.Context, o *IO, app *App, fs *flag.FlagSet, vf *viewFlags) error {
	dim, err := groupDimension(app, fs)
	if err != nil {
		return err
	}

	asJSON, _ := fs.GetBool("json")

	j, eng, err := app.engine(ctx, o)
	if err != nil {
		return err
	}

	req, err := vf.request(ctx, app, j, eng.Streams())
	if err != nil {
		return err
	}

	sections := eng.Sections(req, dim)
	app.logStats(eng)

	if asJSON {
		out := make([]jsonSection, 0, len(sections))
		for _, s := range sections {
			out = append(out, jsonSection{
				Key:     s.Key,
				Label:   s.Label,
				Count:   s.Count,
				Entries: toJSONEntries(s.Data, eng.Streams()),
			})
		}

		return writeJSON(o, out)
	}

	printSections(o, sections, eng.Streams())

	return nil
}

func printSections(o *IO, sections []section.Section, streams entry.StreamIndex) {
	for i, s := range sections {
		if i > 0 {
			o.Println()
		}

		o.Printf("## %s (%d)\n", s.Label, s.Count)

		for k := range s.Data {
			o.Println(formatEntryLine(&s.Data[k], streams))
		}
	}
}
