// Package markdown converts stored Markdown into sanitized HTML for display.
// Sanitization is the sole defense against stored XSS: markup outside the
// allow-list is removed, not escaped.
package markdown

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md     = newConverter()
	policy = newPolicy()
)

// newConverter builds the Markdown engine: GitHub-style tables, strikethrough,
// and task lists, with single newlines rendered as line breaks. Raw HTML is
// passed through untouched so the sanitizer stage sees it.
func newConverter() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
}

// newPolicy builds the HTML allow-list. Everything outside it is stripped.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "strong", "em", "u", "s", "del", "ins",
		"ul", "ol", "li",
		"blockquote", "code", "pre",
		"a", "img",
		"table", "thead", "tbody", "tr", "th", "td",
		"hr", "div", "span",
	)
	p.AllowAttrs("href", "title", "target").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("class").OnElements("code", "pre", "div", "span")

	// Checkboxes emitted by the task-list extension.
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")

	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	return p
}

// Render converts Markdown text to sanitized HTML. Empty input maps to an
// empty string. The result is recomputed on every call, never cached.
func Render(text string) template.HTML {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
