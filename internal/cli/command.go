package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one sv subcommand.
type Command struct {
	// Flags holds the command's own flags. Global flags are parsed by [Run]
	// before the command name.
	Flags *flag.FlagSet

	// Usage is shown after "sv" in help, starting with the command name.
	// Examples: "ls [flags]", "view save <name> [flags]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-26s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "sv <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: sv", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")
		o.Printf("%s", c.Flags.FlagUsages())
	}
}

// Run parses flags and executes the command. Returns exit code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.printHelpTo(o)

		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return 0
}

// printHelpTo writes usage to stderr so a failed parse leaves stdout empty.
func (c *Command) printHelpTo(o *IO) {
	o.ErrPrintln("Usage: sv", c.Usage)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.ErrPrintln()
		o.ErrPrintln("Flags:")
		o.ErrPrintln(strings.TrimRight(c.Flags.FlagUsages(), "\n"))
	}
}
