package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contains []string
		absent   []string
	}{
		{
			name:     "emphasis",
			in:       "**bold** and *italic*",
			contains: []string{"<strong>bold</strong>", "<em>italic</em>"},
		},
		{
			name:     "heading",
			in:       "# Title",
			contains: []string{"<h1>Title</h1>"},
		},
		{
			name:     "strikethrough",
			in:       "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "single newline becomes line break",
			in:       "first\nsecond",
			contains: []string{"<br"},
		},
		{
			name:     "fenced code keeps language class",
			in:       "```go\nfmt.Println(1)\n```",
			contains: []string{"<pre>", `class="language-go"`},
		},
		{
			name: "table",
			in:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{
				"<table>",
				"<th>a</th>",
				"<td>1</td>",
			},
		},
		{
			name:     "task list checkbox",
			in:       "- [x] done\n- [ ] todo",
			contains: []string{`type="checkbox"`, "checked"},
		},
		{
			name:     "image",
			in:       "![cat](https://example.com/cat.png)",
			contains: []string{`src="https://example.com/cat.png"`, `alt="cat"`},
		},
		{
			name:     "script content is removed",
			in:       `<script>alert("pwn")</script>`,
			contains: []string{},
			absent:   []string{"<script", "alert"},
		},
		{
			name:     "event handler attributes are stripped",
			in:       `<p onclick="steal()">hi</p>`,
			contains: []string{"<p>hi</p>"},
			absent:   []string{"onclick", "steal"},
		},
		{
			name:     "javascript links are stripped",
			in:       "[click](javascript:alert(1))",
			contains: []string{"click"},
			absent:   []string{"javascript:"},
		},
		{
			name:     "https links survive",
			in:       "[site](https://example.com)",
			contains: []string{`href="https://example.com"`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(Render(tc.in))
			for _, want := range tc.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Render(%q) = %q, missing %q", tc.in, got, want)
				}
			}
			for _, bad := range tc.absent {
				if strings.Contains(got, bad) {
					t.Errorf("Render(%q) = %q, must not contain %q", tc.in, got, bad)
				}
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(""); got != "" {
		t.Errorf("Render(\"\") = %q, want empty", got)
	}
}
