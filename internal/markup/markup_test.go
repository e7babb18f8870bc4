package markup_test

import (
	"testing"

	"github.com/calvinalkan/streamview/internal/markup"
)

func Test_PlainText_Strips_Tags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Empty", input: "", want: ""},
		{name: "PlainPassThrough", input: "  just   text ", want: "just text"},
		{name: "Paragraphs", input: "<p>Hello</p><p>World</p>", want: "Hello World"},
		{name: "InlineKeepsWords", input: "<p>bo<b>ld</b> move</p>", want: "bold move"},
		{name: "Entities", input: "<p>fish &amp; chips</p>", want: "fish & chips"},
		{name: "DropsScript", input: "<p>a</p><script>alert(1)</script><p>b</p>", want: "a b"},
		{name: "LineBreak", input: "one<br>two", want: "one two"},
		{name: "AttributesNotText", input: `<img src="x.png" alt="cat">caption`, want: "caption"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := markup.PlainText(testCase.input); got != testCase.want {
				t.Errorf("PlainText(%q)=%q, want %q", testCase.input, got, testCase.want)
			}
		})
	}
}

func Test_CountAttachments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  int
	}{
		{name: "NoMarkup", input: "plain words", want: 0},
		{name: "NoImages", input: "<p>hi</p>", want: 0},
		{name: "OneImage", input: `<p><img src="a.jpg"></p>`, want: 1},
		{name: "ImageWithoutSource", input: `<img>`, want: 0},
		{name: "TwoDistinctIDs", input: `<img data-attachment-id="a" src="1"><img data-attachment-id="b" src="2">`, want: 2},
		{name: "DuplicateID", input: `<img data-attachment-id="a"><figure data-attachment-id="a"></figure>`, want: 1},
		{name: "Mixed", input: `<img data-attachment-id="a"><img src="b.png">`, want: 2},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := markup.CountAttachments(testCase.input); got != testCase.want {
				t.Errorf("CountAttachments(%q)=%d, want %d", testCase.input, got, testCase.want)
			}
		})
	}
}
