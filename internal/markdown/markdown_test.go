package markdown_test

import (
	"testing"

	"github.com/janos-ssg/janos/internal/markdown"
	"github.com/stretchr/testify/require"
)

func TestConvert_Heading(t *testing.T) {
	out, err := markdown.Convert([]byte("# About"), markdown.DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, out, "<h1>About</h1>")
}

func TestConvert_FencedCodeLanguageClass(t *testing.T) {
	out, err := markdown.Convert([]byte("```go\nfmt.Println(1)\n```"), markdown.DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, out, `class="language-go"`)
}

func TestConvert_GFMTable(t *testing.T) {
	body := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := markdown.Convert([]byte(body), markdown.DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, out, "<table>")
}

func TestConvert_StrikethroughAndTaskList(t *testing.T) {
	out, err := markdown.Convert([]byte("~~gone~~\n\n- [x] done\n- [ ] todo\n"), markdown.DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, out, "<del>gone</del>")
	require.Contains(t, out, `type="checkbox"`)
}

func TestConvert_RawHTMLPassthroughToggle(t *testing.T) {
	body := "<div class=\"raw\">hi</div>"

	passthrough, err := markdown.Convert([]byte(body), markdown.Options{AllowRawHTML: true})
	require.NoError(t, err)
	require.Contains(t, passthrough, `<div class="raw">`)

	stripped, err := markdown.Convert([]byte(body), markdown.Options{AllowRawHTML: false})
	require.NoError(t, err)
	require.NotContains(t, stripped, `<div class="raw">`)
}

func TestConvert_Autolink(t *testing.T) {
	out, err := markdown.Convert([]byte("See <https://example.com>."), markdown.DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, out, `href="https://example.com"`)
}
