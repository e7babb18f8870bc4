package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/streamview/internal/cli"
)

func TestRunUsage(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		args []string
	}{
		{name: "no command", args: []string{}},
		{name: "long help", args: []string{"--help"}},
		{name: "short help", args: []string{"-h"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)

			out := c.MustRun(tt.args...)
			cli.AssertContains(t, out, "sv - filter, sort and group journal entries")
			cli.AssertContains(t, out, "--journal-dir <dir>")

			for _, cmd := range []string{"ls [flags]", "sections [flags]", "filters [flags]", "add <title> [flags]", "view <save|show|ls|rm>", "browse [flags]", "print-config"} {
				cli.AssertContains(t, out, cmd)
			}
		})
	}
}

func TestRunCommandHelp(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	out := c.MustRun("ls", "--help")
	cli.AssertContains(t, out, "Usage: sv ls [flags]")
	cli.AssertContains(t, out, "--status strings")
	cli.AssertContains(t, out, "--pinned-first")
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		args       []string
		env        map[string]string
		wantStderr string
	}{
		{name: "unknown command", args: []string{"dance"}, wantStderr: "unknown command: dance"},
		{name: "unknown global flag", args: []string{"--loud", "ls"}, wantStderr: "unknown flag: --loud"},
		{name: "config flag without value", args: []string{"-c"}, wantStderr: "flag requires an argument: -c"},
		{name: "missing explicit config", args: []string{"-c", "nope.json", "ls"}, wantStderr: "config file not found"},
		{name: "bad clock", args: []string{"ls"}, env: map[string]string{"SV_NOW": "noon"}, wantStderr: "invalid SV_NOW"},
		{name: "flag parse error prints usage", args: []string{"ls", "--limit", "many"}, wantStderr: "Usage: sv ls [flags]"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			for k, v := range tt.env {
				c.Env[k] = v
			}

			cli.AssertContains(t, c.MustFail(tt.args...), tt.wantStderr)
		})
	}
}

func TestRunJournalDirOverride(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	other := t.TempDir()

	id := c.MustRun("--journal-dir", other, "add", "Elsewhere")

	if _, err := os.Stat(filepath.Join(other, "entries", id+".md")); err != nil {
		t.Fatalf("entry not written to override dir: %v", err)
	}

	if diff := cmp.Diff("", c.MustRun("ls")); diff != "" {
		t.Errorf("default journal should be empty (-want +got):\n%s", diff)
	}

	cli.AssertContains(t, c.MustRun("--journal-dir="+other, "ls"), "Elsewhere")
}

func TestRunCancelsOnSignal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	var out, errOut bytes.Buffer

	// browse stops at the next prompt once the context is cancelled.
	code := cli.Run(bytes.NewBufferString("ls\nls\nls\n"), &out, &errOut,
		[]string{"sv", "--cwd", dir, "browse"}, map[string]string{"SV_NOW": cli.TestNow}, sigCh)

	if diff := cmp.Diff(0, code); diff != "" {
		t.Errorf("exit code (-want +got):\n%s\nstderr: %s", diff, errOut.String())
	}
}

func TestPrintConfig(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	out := c.MustRun("print-config")
	cli.AssertContains(t, out, `"journal_dir": ".journal"`)
	cli.AssertContains(t, out, `"sort": "date"`)
	cli.AssertContains(t, out, "journal_dir="+c.JournalDir())
	cli.AssertContains(t, out, "(defaults only)")

	c.WriteFile("../.sv.json", `{"sort": "title", /* trailing comma ok */}`)

	out = c.MustRun("print-config")
	cli.AssertContains(t, out, `"sort": "title"`)
	cli.AssertContains(t, out, "project_config=")
}
