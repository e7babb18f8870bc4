package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/streamview/internal/cli"
)

func TestViewLifecycle(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	seedJournal(c)

	if diff := cmp.Diff("", c.MustRun("view", "ls")); diff != "" {
		t.Errorf("initial list (-want +got):\n%s", diff)
	}

	cli.AssertContains(t, c.MustRun("view", "save", "todo", "--status", "todo"), "saved todo")
	cli.AssertContains(t, c.MustRun("view", "save", "work", "--status", "done", "--rating-min", "5"), "saved work")

	if diff := cmp.Diff("todo\nwork", c.MustRun("view", "ls")); diff != "" {
		t.Errorf("list (-want +got):\n%s", diff)
	}

	// A view named after a stream scopes to it; other names keep the default scope.
	if diff := cmp.Diff([]string{"h2", "w1"}, ids(c.MustRun("ls", "--view", "todo"))); diff != "" {
		t.Errorf("ls --view todo (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{}, ids(c.MustRun("ls", "--view", "work"))); diff != "" {
		t.Errorf("ls --view work (-want +got):\n%s", diff)
	}

	// Flags layer over the saved filter.
	if diff := cmp.Diff([]string{"w2"}, ids(c.MustRun("ls", "--view", "work", "--rating-min", "0"))); diff != "" {
		t.Errorf("ls --view work with override (-want +got):\n%s", diff)
	}

	out := c.MustRun("view", "show", "work")
	cli.AssertContains(t, out, "view work (scope work)")
	cli.AssertContains(t, out, "status:   Done")
	cli.AssertContains(t, out, "rating:   ≥ 5")
	cli.AssertContains(t, out, "2 active")

	var saved struct {
		Statuses  []string `json:"statuses"`
		RatingMin *float64 `json:"rating_min"`
	}

	require.NoError(t, json.Unmarshal([]byte(c.MustRun("view", "show", "work", "--json")), &saved))

	if diff := cmp.Diff([]string{"done"}, saved.Statuses); diff != "" {
		t.Errorf("saved statuses (-want +got):\n%s", diff)
	}

	require.NotNil(t, saved.RatingMin)

	if diff := cmp.Diff(5.0, *saved.RatingMin); diff != "" {
		t.Errorf("saved rating min, decimal scale (-want +got):\n%s", diff)
	}

	cli.AssertContains(t, c.MustRun("view", "rm", "work"), "deleted work")
	cli.AssertContains(t, c.MustFail("view", "show", "work"), "view not found")

	if diff := cmp.Diff("todo", c.MustRun("view", "ls")); diff != "" {
		t.Errorf("list after rm (-want +got):\n%s", diff)
	}
}

func TestViewErrors(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{name: "no action", args: []string{"view"}, wantStderr: "unknown view action"},
		{name: "bad action", args: []string{"view", "rename", "x"}, wantStderr: "unknown view action"},
		{name: "save without name", args: []string{"view", "save"}, wantStderr: "view name is required"},
		{name: "rm missing", args: []string{"view", "rm", "ghost"}, wantStderr: "view not found"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)

			cli.AssertContains(t, c.MustFail(tt.args...), tt.wantStderr)
		})
	}
}
