package section_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/filter"
	"github.com/calvinalkan/streamview/internal/section"
	"github.com/calvinalkan/streamview/internal/sorting"
	"github.com/calvinalkan/streamview/internal/testutil"
)

type shape struct {
	Key   string
	Label string
	IDs   []string
}

func shapes(sections []section.Section) []shape {
	out := make([]shape, 0, len(sections))
	for _, s := range sections {
		out = append(out, shape{Key: s.Key, Label: s.Label, IDs: testutil.IDs(s.Data)})
	}

	return out
}

func byTitle() section.Options {
	return section.Options{
		Sort: sorting.Options{Mode: sorting.ModeTitle, Order: sorting.Asc},
		Streams: entry.NewStreamIndex([]entry.Stream{
			{ID: "s1", Name: "Work"},
			{ID: "s2", Name: "Garden"},
		}),
		Now: testutil.Now(),
	}
}

// ten entries, two per status for todo and done, one for the rest.
func ten() []entry.Entry {
	return []entry.Entry{
		testutil.NewEntry("01").Title("a").Status(entry.StatusDone).Build(),
		testutil.NewEntry("02").Title("b").Status(entry.StatusTodo).Build(),
		testutil.NewEntry("03").Title("c").Status(entry.StatusWaiting).Build(),
		testutil.NewEntry("04").Title("d").Status(entry.StatusNew).Build(),
		testutil.NewEntry("05").Title("e").Status(entry.StatusTodo).Build(),
		testutil.NewEntry("06").Title("f").Status(entry.StatusInReview).Build(),
		testutil.NewEntry("07").Title("g").Status(entry.StatusDone).Build(),
		testutil.NewEntry("08").Title("h").Status(entry.StatusOnHold).Build(),
		testutil.NewEntry("09").Title("i").Status(entry.StatusInProgress).Build(),
		testutil.NewEntry("10").Title("j").Status(entry.StatusClosed).Build(),
	}
}

func Test_ByStatus_Orders_Sections_Canonically_And_Counts_Entries(t *testing.T) {
	t.Parallel()

	got := section.ByStatus(ten(), byTitle())

	want := []shape{
		{Key: "new", Label: "New", IDs: []string{"04"}},
		{Key: "todo", Label: "To Do", IDs: []string{"02", "05"}},
		{Key: "in_progress", Label: "In Progress", IDs: []string{"09"}},
		{Key: "in_review", Label: "In Review", IDs: []string{"06"}},
		{Key: "waiting", Label: "Waiting", IDs: []string{"03"}},
		{Key: "on_hold", Label: "On Hold", IDs: []string{"08"}},
		{Key: "done", Label: "Done", IDs: []string{"01", "07"}},
		{Key: "closed", Label: "Closed", IDs: []string{"10"}},
	}

	if diff := cmp.Diff(want, shapes(got)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}

	for _, s := range got {
		assert.Equal(t, len(s.Data), s.Count, s.Key)
	}

	assert.Equal(t, 10, section.Total(got))
}

func Test_ByStatus_Drops_Section_When_Filter_Excludes_Its_Status(t *testing.T) {
	t.Parallel()

	var keep []entry.Status

	for _, s := range entry.AllStatuses() {
		if s != entry.StatusWaiting {
			keep = append(keep, s)
		}
	}

	f := filter.StreamViewFilter{Statuses: keep}
	filtered := filter.Entries(ten(), &f, filter.Context{Now: testutil.Now()}, "")
	require.Len(t, filtered, 9)

	got := section.ByStatus(filtered, byTitle())

	for _, s := range got {
		assert.NotEqual(t, string(entry.StatusWaiting), s.Key)
		assert.NotZero(t, s.Count)
	}

	assert.Len(t, got, 7)
	assert.Equal(t, 9, section.Total(got))
}

func Test_Group_Returns_Empty_When_No_Entries(t *testing.T) {
	t.Parallel()

	for _, dim := range append(section.Dimensions(), "bogus") {
		got := section.Group(dim, nil, byTitle())
		assert.Empty(t, got, dim)
	}
}

func Test_Group_Keeps_Sort_Order_Inside_Sections(t *testing.T) {
	t.Parallel()

	clock := testutil.NewClock()
	entries := []entry.Entry{
		testutil.NewEntry("p1").Type("bug").Priority(1).Created(clock.Next()).Build(),
		testutil.NewEntry("p2").Type("idea").Priority(4).Created(clock.Next()).Build(),
		testutil.NewEntry("p3").Type("bug").Priority(3).Created(clock.Next()).Build(),
		testutil.NewEntry("p4").Type("bug").Priority(3).Created(clock.Next()).Pinned().Build(),
		testutil.NewEntry("p5").Type("idea").Priority(0).Created(clock.Next()).Build(),
	}

	opts := byTitle()
	opts.Sort = sorting.Options{Mode: sorting.ModePriority, Order: sorting.Desc, PinnedFirst: true}

	flat := testutil.IDs(sorting.Sort(entries, opts.Sort, opts.Streams))

	for _, dim := range section.Dimensions() {
		for _, s := range section.Group(dim, entries, opts) {
			ids := testutil.IDs(s.Data)

			var sub []string

			for _, id := range flat {
				if slices.Contains(ids, id) {
					sub = append(sub, id)
				}
			}

			if diff := cmp.Diff(sub, ids); diff != "" {
				t.Fatalf("%s/%s order differs from flat sort (-flat +section):\n%s", dim, s.Key, diff)
			}
		}
	}
}

func Test_ByType_Uses_First_Seen_Order_With_No_Type_Label(t *testing.T) {
	t.Parallel()

	entries := []entry.Entry{
		testutil.NewEntry("1").Title("d").Type("idea").Build(),
		testutil.NewEntry("2").Title("a").Type("bug").Build(),
		testutil.NewEntry("3").Title("b").Build(),
		testutil.NewEntry("4").Title("c").Type("idea").Build(),
	}

	want := []shape{
		{Key: "bug", Label: "bug", IDs: []string{"2"}},
		{Key: "", Label: section.LabelNoType, IDs: []string{"3"}},
		{Key: "idea", Label: "idea", IDs: []string{"4", "1"}},
	}

	if diff := cmp.Diff(want, shapes(section.ByType(entries, byTitle()))); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func Test_ByStream_Puts_Unknown_And_Unassigned_Streams_In_Inbox(t *testing.T) {
	t.Parallel()

	entries := []entry.Entry{
		testutil.NewEntry("1").Title("a").Stream("s2").Build(),
		testutil.NewEntry("2").Title("b").Build(),
		testutil.NewEntry("3").Title("c").Stream("s1").Build(),
		testutil.NewEntry("4").Title("d").Stream("gone").Build(),
		testutil.NewEntry("5").Title("e").Stream("s2").Build(),
	}

	want := []shape{
		{Key: "s2", Label: "Garden", IDs: []string{"1", "5"}},
		{Key: "", Label: section.LabelInbox, IDs: []string{"2", "4"}},
		{Key: "s1", Label: "Work", IDs: []string{"3"}},
	}

	if diff := cmp.Diff(want, shapes(section.ByStream(entries, byTitle()))); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func Test_ByPriority_Orders_Highest_First(t *testing.T) {
	t.Parallel()

	entries := []entry.Entry{
		testutil.NewEntry("1").Title("a").Priority(0).Build(),
		testutil.NewEntry("2").Title("b").Priority(4).Build(),
		testutil.NewEntry("3").Title("c").Priority(2).Build(),
	}

	want := []shape{
		{Key: "4", Label: "Urgent", IDs: []string{"2"}},
		{Key: "2", Label: "Medium", IDs: []string{"3"}},
		{Key: "0", Label: "None", IDs: []string{"1"}},
	}

	if diff := cmp.Diff(want, shapes(section.ByPriority(entries, byTitle()))); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func Test_ByRating_Buckets_Whole_Points_With_Unrated_Last(t *testing.T) {
	t.Parallel()

	entries := []entry.Entry{
		testutil.NewEntry("1").Title("a").Build(),
		testutil.NewEntry("2").Title("b").Rating(9.5).Build(),
		testutil.NewEntry("3").Title("c").Rating(0.4).Build(),
		testutil.NewEntry("4").Title("d").Rating(10).Build(),
		testutil.NewEntry("5").Title("e").Rating(9).Build(),
	}

	want := []shape{
		{Key: "10", Label: "10 / 10", IDs: []string{"4"}},
		{Key: "9", Label: "9 / 10", IDs: []string{"2", "5"}},
		{Key: "1", Label: "1 / 10", IDs: []string{"3"}},
		{Key: "", Label: section.LabelUnrated, IDs: []string{"1"}},
	}

	if diff := cmp.Diff(want, shapes(section.ByRating(entries, byTitle()))); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func Test_ByRating_Labels_Use_UI_Units_When_Scale_Is_Set(t *testing.T) {
	t.Parallel()

	entries := []entry.Entry{
		testutil.NewEntry("1").Title("a").Rating(8).Build(),
		testutil.NewEntry("2").Title("b").Rating(9).Build(),
		testutil.NewEntry("3").Title("c").Build(),
	}

	opts := byTitle()
	opts.Scale = entry.ScaleStars

	want := []shape{
		{Key: "9", Label: "4.5★", IDs: []string{"2"}},
		{Key: "8", Label: "4★", IDs: []string{"1"}},
		{Key: "", Label: section.LabelUnrated, IDs: []string{"3"}},
	}

	if diff := cmp.Diff(want, shapes(section.ByRating(entries, opts))); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func Test_ByDueDate_Buckets_Relative_To_Now(t *testing.T) {
	t.Parallel()

	// Now is Thursday 2024-03-14; the week runs Sunday 10th to Saturday 16th.
	entries := []entry.Entry{
		testutil.NewEntry("1").Title("a").Due("2024-04-30").Build(),
		testutil.NewEntry("2").Title("b").Build(),
		testutil.NewEntry("3").Title("c").Due("2024-03-16").Build(),
		testutil.NewEntry("4").Title("d").Due("2024-03-14").Build(),
		testutil.NewEntry("5").Title("e").Due("2024-03-13").Build(),
		testutil.NewEntry("6").Title("f").Due("2024-03-17").Build(),
	}

	want := []shape{
		{Key: "overdue", Label: "Overdue", IDs: []string{"5"}},
		{Key: "today", Label: "Today", IDs: []string{"4"}},
		{Key: "this_week", Label: "This Week", IDs: []string{"3"}},
		{Key: "next_week", Label: "Next Week", IDs: []string{"6"}},
		{Key: "later", Label: "Later", IDs: []string{"1"}},
		{Key: "none", Label: "No Due Date", IDs: []string{"2"}},
	}

	if diff := cmp.Diff(want, shapes(section.ByDueDate(entries, byTitle()))); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func Test_Refilter_Recounts_And_Drops_Empty_Sections(t *testing.T) {
	t.Parallel()

	sections := section.ByStatus(ten(), byTitle())

	got := section.Refilter(sections, func(e *entry.Entry) bool {
		return e.Status == entry.StatusTodo || e.ID == "07"
	})

	want := []shape{
		{Key: "todo", Label: "To Do", IDs: []string{"02", "05"}},
		{Key: "done", Label: "Done", IDs: []string{"07"}},
	}

	if diff := cmp.Diff(want, shapes(got)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 1, got[1].Count)
	assert.Equal(t, 10, section.Total(sections), "input untouched")
}

func Test_ParseDimension_Rejects_Unknown(t *testing.T) {
	t.Parallel()

	_, err := section.ParseDimension("colour")
	require.ErrorIs(t, err, section.ErrInvalidDimension)

	d, err := section.ParseDimension("due_date")
	require.NoError(t, err)
	assert.Equal(t, section.DimDueDate, d)
}
