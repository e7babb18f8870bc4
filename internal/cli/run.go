package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/streamview/internal/config"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// Global flag errors.
var (
	ErrFlagRequiresArg = errors.New("flag requires an argument")
	ErrUnknownFlag     = errors.New("unknown flag")
)

// nowEnv pins the clock, for reproducible due-date windows.
const nowEnv = "SV_NOW"

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. The first signal received cancels the command's context.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) < minArgs {
		printUsage(out, nil)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == helpFlag {
		printUsage(out, nil)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:    flags.workDir,
		ConfigPath:         flags.configPath,
		JournalDirOverride: flags.journalDir,
		Env:                env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	now, err := clock(env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	level := cfg.Level()
	if flags.verbose {
		level = zerolog.DebugLevel
	}

	app := &App{
		Config: &cfg,
		Log:    newLogger(errOut, level),
		Stdin:  in,
		Now:    now,
	}

	commands := allCommands(app)

	name := flags.remaining[0]

	var cmd *Command

	for _, c := range commands {
		if c.Name() == name {
			cmd = c

			break
		}
	}

	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				app.Log.Debug().Msg("interrupted")
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	o := NewIO(out, errOut)

	if code := cmd.Run(ctx, o, flags.remaining[1:]); code != 0 {
		return code
	}

	return o.Finish()
}

func allCommands(app *App) []*Command {
	return []*Command{
		LsCmd(app),
		SectionsCmd(app),
		FiltersCmd(app),
		AddCmd(app),
		ViewCmd(app),
		BrowseCmd(app),
		PrintConfigCmd(app.Config),
	}
}

// clock returns time.Now unless SV_NOW pins it to a fixed instant,
// given as RFC 3339 or as a bare date in the local zone.
func clock(env map[string]string) (func() time.Time, error) {
	raw := env[nowEnv]
	if raw == "" {
		return time.Now, nil
	}

	fixed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		fixed, err = time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", nowEnv, raw, err)
		}
	}

	return func() time.Time { return fixed }, nil
}

type globalFlags struct {
	workDir    string
	configPath string
	journalDir string
	verbose    bool
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok && after != "" {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --journal-dir flag
	if arg == "--journal-dir" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.journalDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--journal-dir="); ok {
		flags.journalDir = after

		return consumedOne, nil
	}

	if arg == "-v" || arg == "--verbose" {
		flags.verbose = true

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

// printUsage prints global help. A nil commands slice lists every command
// with a placeholder app, which is enough for names and short help.
func printUsage(writer io.Writer, commands []*Command) {
	if commands == nil {
		cfg := config.Default()
		commands = allCommands(&App{Config: &cfg, Log: zerolog.Nop(), Now: time.Now})
	}

	fprintln(writer, `sv - filter, sort and group journal entries

Usage: sv [options] <command> [args]

Options:
  -C, --cwd <dir>            Run as if started in <dir>
  -c, --config <file>        Use specified config file
      --journal-dir <dir>    Override the journal directory
  -v, --verbose              Log debug diagnostics to stderr
  -h, --help                 Show help

Commands:`)

	for _, c := range commands {
		fprintln(writer, c.HelpLine())
	}

	fprintln(writer, `
Run 'sv <command> --help' for command flags.`)
}
