package cli_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/streamview/internal/cli"
)

// seedJournal writes two streams, six entries and attachment counts.
// TestNow is Thursday 2024-03-14.
func seedJournal(c *cli.CLI) {
	c.WriteFile("streams.json", `[
		// work rates on 0-10 in tenths
		{"id": "work", "name": "Work", "statuses": ["todo", "in_progress", "done"], "rating_scale": "decimal"},
		{"id": "home", "name": "Home", "types": ["chore", "idea"]},
	]`)
	c.WriteFile("attachments.json", `{"w2": 2}`)

	c.WriteEntry("w1", []string{
		"title: Write report", "status: todo", "priority: 3", "stream: work", "rating: 7",
		"due_date: 2024-03-10", "entry_date: 2024-03-01", "created: 2024-03-01T10:00:00Z",
	}, "<p>quarterly numbers</p>")
	c.WriteEntry("w2", []string{
		"title: Review budget", "status: done", "priority: 1", "stream: work",
		"entry_date: 2024-03-05", "created: 2024-03-05T10:00:00Z",
	}, "")
	c.WriteEntry("h1", []string{
		"title: Fix fence", "status: in_progress", "type: chore", "stream: home", "rating: 8",
		"due_date: 2024-03-15", "entry_date: 2024-03-12", "created: 2024-03-12T10:00:00Z", "pinned: true",
	}, "")
	c.WriteEntry("h2", []string{
		"title: Garden ideas", "status: todo", "type: idea", "stream: home",
		"entry_date: 2024-03-13", "created: 2024-03-13T10:00:00Z",
	}, "<p>tomatoes after the frost</p>")
	c.WriteEntry("i1", []string{
		"title: Loose note", "status: new", "entry_date: 2024-03-14", "created: 2024-03-14T08:00:00Z",
	}, "")
	c.WriteEntry("a1", []string{
		"title: Old plan", "status: done", "stream: work", "archived: true",
		"entry_date: 2024-02-01", "created: 2024-02-01T10:00:00Z",
	}, "")
}

// ids returns the first field of every entry line in out.
func ids(out string) []string {
	result := []string{}

	for line := range strings.SplitSeq(out, "\n") {
		if line == "" || strings.HasPrefix(line, "##") || strings.HasPrefix(line, "==") || strings.HasPrefix(line, "--") {
			continue
		}

		result = append(result, strings.Fields(line)[0])
	}

	return result
}

func TestLsCommand(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		args []string
		want []string
	}{
		{name: "default hides archived, pinned first then newest", args: []string{"ls"}, want: []string{"h1", "i1", "h2", "w2", "w1"}},
		{name: "status filter", args: []string{"ls", "--status", "todo"}, want: []string{"h2", "w1"}},
		{name: "several statuses", args: []string{"ls", "--status", "todo,new"}, want: []string{"i1", "h2", "w1"}},
		{name: "stream scope", args: []string{"ls", "--stream", "work"}, want: []string{"w2", "w1"}},
		{name: "inbox scope", args: []string{"ls", "--stream", "inbox"}, want: []string{"i1"}},
		{name: "archived shown on request", args: []string{"ls", "--stream", "work", "--archived"}, want: []string{"w2", "w1", "a1"}},
		{name: "priority filter", args: []string{"ls", "-p", "1,3"}, want: []string{"w2", "w1"}},
		{name: "type filter skips untyped", args: []string{"ls", "--type", "chore"}, want: []string{"h1"}},
		{name: "rating condition in stars", args: []string{"ls", "--stream", "home", "--rating", ">=4"}, want: []string{"h1"}},
		{name: "rating at scale minimum is ignored", args: []string{"ls", "--stream", "home", "--rating", ">=1"}, want: []string{"h1", "h2"}},
		{name: "rating min in decimal scale", args: []string{"ls", "--stream", "work", "--rating-min", "7"}, want: []string{"w1"}},
		{name: "photos from attachment counts", args: []string{"ls", "--photos", "yes"}, want: []string{"w2"}},
		{name: "overdue", args: []string{"ls", "--due", "overdue"}, want: []string{"w1"}},
		{name: "no due date", args: []string{"ls", "--due", "no_due_date"}, want: []string{"i1", "h2", "w2"}},
		{name: "custom due range implied by bounds", args: []string{"ls", "--due-from", "2024-03-11"}, want: []string{"h1"}},
		{name: "entry date range", args: []string{"ls", "--from", "2024-03-05", "--to", "2024-03-12"}, want: []string{"h1", "w2"}},
		{name: "search title", args: []string{"ls", "-q", "fence"}, want: []string{"h1"}},
		{name: "search content ignores markup", args: []string{"ls", "-q", "FROST"}, want: []string{"h2"}},
		{name: "search with no hits", args: []string{"ls", "-q", "zebra"}, want: nil},
		{
			name: "title sort ascending without pinned",
			args: []string{"ls", "--sort", "title", "--order", "asc", "--pinned-first=false"},
			want: []string{"h1", "h2", "i1", "w2", "w1"},
		},
		{name: "priority sort breaks ties by id", args: []string{"ls", "--sort", "priority"}, want: []string{"h1", "w1", "w2", "h2", "i1"}},
		{name: "rating sort puts unrated last", args: []string{"ls", "--sort", "rating", "--order", "asc"}, want: []string{"h1", "w1", "h2", "i1", "w2"}},
		{name: "limit and offset", args: []string{"ls", "--offset", "1", "--limit", "2"}, want: []string{"i1", "h2"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			seedJournal(c)

			got := ids(c.MustRun(tt.args...))
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLsLineFormat(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	seedJournal(c)

	out := c.MustRun("ls")

	cli.AssertContains(t, out, "h1 [in_progress] Fix fence (due 2024-03-15, 4★, type: chore, stream: Home) *")
	cli.AssertContains(t, out, "w1 [todo] Write report (P3, due 2024-03-10, 7, stream: Work)")
	cli.AssertContains(t, out, "i1 [new] Loose note")
	cli.AssertNotContains(t, out, "Old plan")
}

func TestLsJSON(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	seedJournal(c)

	var got []map[string]any

	require.NoError(t, json.Unmarshal([]byte(c.MustRun("ls", "--stream", "home", "--json")), &got))
	require.Len(t, got, 2)

	if diff := cmp.Diff("h1", got[0]["id"]); diff != "" {
		t.Errorf("first id (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(4.0, got[0]["rating_ui"]); diff != "" {
		t.Errorf("rating_ui (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff("Home", got[1]["stream_name"]); diff != "" {
		t.Errorf("stream_name (-want +got):\n%s", diff)
	}
}

func TestLsErrors(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{name: "bad status", args: []string{"ls", "--status", "someday"}, wantStderr: "invalid status"},
		{name: "bad priority", args: []string{"ls", "-p", "9"}, wantStderr: "invalid priority"},
		{name: "bad sort", args: []string{"ls", "--sort", "size"}, wantStderr: "invalid sort mode"},
		{name: "bad photos", args: []string{"ls", "--photos", "maybe"}, wantStderr: "invalid --photos"},
		{name: "bad rating", args: []string{"ls", "--rating", ">>3"}, wantStderr: "invalid --rating"},
		{name: "bounds need custom preset", args: []string{"ls", "--due", "today", "--due-to", "2024-03-20"}, wantStderr: "need --due custom"},
		{name: "bad date", args: []string{"ls", "--from", "yesterday"}, wantStderr: "invalid date"},
		{name: "negative limit", args: []string{"ls", "--limit", "-1"}, wantStderr: "--limit must be non-negative"},
		{name: "unknown flag", args: []string{"ls", "--colour"}, wantStderr: "unknown flag"},
		{name: "unknown saved view", args: []string{"ls", "--view", "nope"}, wantStderr: "view not found"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			seedJournal(c)

			cli.AssertContains(t, c.MustFail(tt.args...), tt.wantStderr)
		})
	}
}

func TestLsWarnsAboutBadFilesButListsTheRest(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	seedJournal(c)
	c.WriteFile("entries/broken.md", "no frontmatter here\n")

	stdout, stderr, code := c.Run("ls", "--stream", "work")

	if diff := cmp.Diff(1, code); diff != "" {
		t.Errorf("exit code (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"w2", "w1"}, ids(stdout)); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}

	cli.AssertContains(t, stderr, "warning:")
	cli.AssertContains(t, stderr, "broken.md")
}

func TestLsOnMissingJournalPrintsNothing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if diff := cmp.Diff("", c.MustRun("ls")); diff != "" {
		t.Errorf("stdout (-want +got):\n%s", diff)
	}
}
