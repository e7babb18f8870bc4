package cli_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/calvinalkan/streamview/internal/cli"
)

func TestAddCommand(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	seedJournal(c)

	id := c.MustRun("add", "Buy", "seeds", "--stream", "home", "--type", "chore", "--rating", "3",
		"--due", "2024-03-20", "--date", "2024-03-14", "-p", "2", "--pin", "-m", "<p>beans</p>")

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("id %q is not a uuid: %v", id, err)
	}

	if diff := cmp.Diff(uuid.Version(7), parsed.Version()); diff != "" {
		t.Errorf("uuid version (-want +got):\n%s", diff)
	}

	content := c.ReadEntry(id)
	cli.AssertContains(t, content, "title: Buy seeds")
	cli.AssertContains(t, content, "rating: 6")
	cli.AssertContains(t, content, "2024-03-20")
	cli.AssertContains(t, content, "created: 2024-03-14T09:30:00Z")
	cli.AssertContains(t, content, "<p>beans</p>")

	out := c.MustRun("ls", "--stream", "home", "--type", "chore")
	cli.AssertContains(t, out, id+" [todo] Buy seeds (P2, due 2024-03-20, 3★, type: chore, stream: Home) *")
}

func TestAddReadsContentFromStdin(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, stderr, code := c.RunWithInput("<p>from a pipe</p>\n", "add", "Piped", "-m", "-")
	if code != 0 {
		t.Fatalf("add failed: %s", stderr)
	}

	cli.AssertContains(t, c.ReadEntry(ids(stdout)[0]), "<p>from a pipe</p>")

	cli.AssertContains(t, c.MustRun("ls", "-q", "pipe"), "Piped")
}

func TestAddRatingInDecimalStream(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	seedJournal(c)

	id := c.MustRun("add", "Ship it", "--stream", "work", "--rating", "8.5")

	cli.AssertContains(t, c.ReadEntry(id), "rating: 8.5")
}

func TestAddErrors(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{name: "no title", args: []string{"add"}, wantStderr: "title is required"},
		{name: "blank title", args: []string{"add", "  "}, wantStderr: "title is required"},
		{name: "unknown stream", args: []string{"add", "x", "--stream", "nope"}, wantStderr: "unknown stream"},
		{name: "empty stream", args: []string{"add", "x", "--stream", ""}, wantStderr: "empty value not allowed: --stream"},
		{name: "bad status", args: []string{"add", "x", "--status", "later"}, wantStderr: "invalid status"},
		{name: "bad priority", args: []string{"add", "x", "-p", "5"}, wantStderr: "invalid priority"},
		{name: "bad due", args: []string{"add", "x", "--due", "soon"}, wantStderr: "--due: invalid date"},
		{name: "rating out of range", args: []string{"add", "x", "--rating", "6"}, wantStderr: "rating must be between 0 and 10"},
		{name: "type not in stream", args: []string{"add", "x", "-s", "home", "-t", "errand"}, wantStderr: "type not allowed in stream"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			seedJournal(c)

			cli.AssertContains(t, c.MustFail(tt.args...), tt.wantStderr)
		})
	}
}
