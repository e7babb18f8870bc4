package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/journal"
	"github.com/calvinalkan/streamview/internal/section"
	"github.com/calvinalkan/streamview/internal/sorting"
	"github.com/calvinalkan/streamview/internal/view"
)

const browsePrompt = "sv> "

// BrowseCmd returns the browse command.
func BrowseCmd(app *App) *Command {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	vf := addViewFlags(fs)
	fs.String("by", "", "Start grouped by this dimension")

	return &Command{
		Flags: fs,
		Usage: "browse [flags]",
		Short: "Explore a view interactively",
		Long: `Open an interactive prompt over one view. Flags set the starting view.

Each command changes the view and prints it again. Results are cached between
commands, so switching back and forth between sorts or groupings is cheap.
Type 'help' at the prompt for commands.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execBrowse(ctx, o, app, fs, vf)
		},
	}
}

// lineReader is the prompt source: liner on a terminal, plain lines otherwise.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

type plainReader struct {
	scanner *bufio.Scanner
}

func (r *plainReader) Prompt(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return r.scanner.Text(), nil
}

func (r *plainReader) AppendHistory(string) {}

func (r *plainReader) Close() error { return nil }

type browser struct {
	app *App
	o   *IO
	j   *journal.Journal
	eng *view.Engine
	req view.Request
	dim section.Dimension // empty shows a flat list
}

func execBrowse(ctx context.Context, o *IO, app *App, fs *flag.FlagSet, vf *viewFlags) error {
	j, eng, err := app.engine(ctx, o)
	if err != nil {
		return err
	}

	req, err := vf.request(ctx, app, j, eng.Streams())
	if err != nil {
		return err
	}

	b := &browser{app: app, o: o, j: j, eng: eng, req: req}

	if by, _ := fs.GetString("by"); by != "" {
		dim, dimErr := section.ParseDimension(by)
		if dimErr != nil {
			return dimErr
		}

		b.dim = dim
	}

	reader := b.newReader()
	defer func() { _ = reader.Close() }()

	b.show()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, promptErr := reader.Prompt(browsePrompt)
		if promptErr != nil {
			if errors.Is(promptErr, liner.ErrPromptAborted) || errors.Is(promptErr, io.EOF) {
				break
			}

			return fmt.Errorf("reading input: %w", promptErr)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		reader.AppendHistory(line)

		quit, cmdErr := b.exec(ctx, line)
		if cmdErr != nil {
			o.ErrPrintln("error:", cmdErr)

			continue
		}

		if quit {
			break
		}
	}

	b.saveHistory(reader)
	app.logStats(eng)

	return nil
}

func (b *browser) newReader() lineReader {
	if f, ok := b.app.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) && liner.TerminalSupported() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		state.SetCompleter(completeBrowse)

		if hf, err := os.Open(b.historyFile()); err == nil {
			_, _ = state.ReadHistory(hf)
			_ = hf.Close()
		}

		return state
	}

	in := b.app.Stdin
	if in == nil {
		in = strings.NewReader("")
	}

	return &plainReader{scanner: bufio.NewScanner(in)}
}

func (b *browser) historyFile() string {
	return filepath.Join(b.j.Dir(), ".browse_history")
}

func (b *browser) saveHistory(reader lineReader) {
	state, ok := reader.(*liner.State)
	if !ok {
		return
	}

	if f, err := os.Create(b.historyFile()); err == nil {
		_, _ = state.WriteHistory(f)
		_ = f.Close()
	}
}

var browseCommands = []string{ //nolint:gochecknoglobals // completion table
	"ls", "group", "flat", "sort", "order", "pinned", "stream",
	"search", "filters", "reload", "help", "quit", "exit",
}

func completeBrowse(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range browseCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

var (
	errBrowseUsage   = errors.New("usage")
	errBrowseUnknown = errors.New("unknown command")
)

// exec runs one prompt line. It reports whether the loop should end.
func (b *browser) exec(ctx context.Context, line string) (bool, error) {
	if query, ok := strings.CutPrefix(line, "/"); ok {
		b.req.Query = query
		b.show()

		return false, nil
	}

	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		b.printHelp()

		return false, nil
	case "ls":
	case "flat":
		b.dim = ""
	case "group":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: group <%s>", errBrowseUsage, dimensionNames())
		}

		dim, err := section.ParseDimension(args[0])
		if err != nil {
			return false, err
		}

		b.dim = dim
	case "sort":
		if err := b.setSort(args); err != nil {
			return false, err
		}
	case "order":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: order <asc|desc>", errBrowseUsage)
		}

		order, err := sorting.ParseOrder(args[0])
		if err != nil {
			return false, err
		}

		b.req.Sort.Order = order
	case "pinned":
		switch strings.ToLower(strings.Join(args, "")) {
		case "on", "yes", "true":
			b.req.Sort.PinnedFirst = true
		case "off", "no", "false":
			b.req.Sort.PinnedFirst = false
		default:
			return false, fmt.Errorf("%w: pinned <on|off>", errBrowseUsage)
		}
	case "stream":
		b.req.Scope = view.ScopeAll
		if len(args) > 0 {
			b.req.Scope = args[0]
		}
	case "search":
		b.req.Query = strings.Join(args, " ")
	case "filters":
		summary := b.eng.Summary(b.req)
		printSummary(b.o, &summary)

		return false, nil
	case "reload":
		if err := b.reload(ctx); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("%w: %s (type 'help' for commands)", errBrowseUnknown, cmd)
	}

	b.show()

	return false, nil
}

func (b *browser) setSort(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: sort <%s> [asc|desc]", errBrowseUsage, modeNames())
	}

	mode, err := sorting.ParseMode(args[0])
	if err != nil {
		return err
	}

	b.req.Sort.Mode = mode

	if len(args) == 2 {
		order, orderErr := sorting.ParseOrder(args[1])
		if orderErr != nil {
			return orderErr
		}

		b.req.Sort.Order = order
	}

	return nil
}

// reload rereads the journal. An unchanged journal keeps the cached views.
func (b *browser) reload(ctx context.Context) error {
	snap, issues, err := b.j.Load(ctx)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		b.o.ErrPrintln("warning:", issue.Error())
	}

	b.eng.Replace(snap)

	return nil
}

func (b *browser) show() {
	b.req.Now = b.app.Now()

	b.o.Printf("== %s, %s %s\n", streamLabel(b.eng.Streams(), b.req.Scope), b.req.Sort.Mode, b.req.Sort.Order)

	if b.dim != "" {
		sections := b.eng.Sections(b.req, b.dim)
		printSections(b.o, sections, b.eng.Streams())
		b.o.Printf("-- %d entries in %d sections\n", section.Total(sections), len(sections))

		return
	}

	entries := b.eng.List(b.req)
	for i := range entries {
		b.o.Println(formatEntryLine(&entries[i], b.eng.Streams()))
	}

	b.o.Printf("-- %d entries\n", len(entries))
}

func (b *browser) printHelp() {
	b.o.Println(`Commands:
  ls                        Show the current view again
  group <dim>               Group into sections (` + dimensionNames() + `)
  flat                      Stop grouping
  sort <mode> [asc|desc]    Change the sort mode
  order <asc|desc>          Change the sort direction
  pinned <on|off>           Toggle pinned entries first
  stream [id|inbox|all]     Change the scope (no argument means all)
  /text, search [text]      Search title and content (empty clears)
  filters                   Show active filters
  reload                    Reread the journal from disk
  quit                      Leave`)
}

// streamLabel names scope for display.
func streamLabel(streams entry.StreamIndex, scope string) string {
	if name := streams.Name(scope); name != "" {
		return name
	}

	return scope
}
