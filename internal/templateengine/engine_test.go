package templateengine_test

import (
	"testing"
	"time"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/templateengine"
	"github.com/janos-ssg/janos/internal/vfs"
	"github.com/stretchr/testify/require"
)

func TestEngine_RenderSubstitutesData(t *testing.T) {
	store := vfs.NewStore()
	loader := templateengine.NewVirtualLoader(store, "_layouts")
	engine := templateengine.New(loader, "html")

	out, err := engine.Render(`<h1>{{ .Title }}</h1>`, map[string]any{"Title": "Hello"})
	require.NoError(t, err)
	require.Equal(t, "<h1>Hello</h1>", out)
}

func TestEngine_RenderFileResolvesFromLayoutsDir(t *testing.T) {
	store := vfs.NewStore()
	store.Set("_layouts/base.html", vfs.New("_layouts/base.html", []byte(`<main>{{ .content }}</main>`)))
	loader := templateengine.NewVirtualLoader(store, "_layouts")
	engine := templateengine.New(loader, "html")

	out, err := engine.RenderFile("base.html", map[string]any{"content": "body text"})
	require.NoError(t, err)
	require.Equal(t, "<main>body text</main>", out)
}

func TestEngine_IncludeRendersPartial(t *testing.T) {
	store := vfs.NewStore()
	store.Set("_layouts/footer.html", vfs.New("_layouts/footer.html", []byte(`<footer>{{ .Year }}</footer>`)))
	loader := templateengine.NewVirtualLoader(store, "_layouts")
	engine := templateengine.New(loader, "html")

	out, err := engine.Render(`<body>{{ include "footer.html" . }}</body>`, map[string]any{"Year": 2026})
	require.NoError(t, err)
	require.Equal(t, "<body><footer>2026</footer></body>", out)
}

func TestRegisterBuiltinFilters_DateFormatsMomentTokens(t *testing.T) {
	store := vfs.NewStore()
	loader := templateengine.NewVirtualLoader(store, "_layouts")
	engine := templateengine.New(loader, "html")
	templateengine.RegisterBuiltinFilters(engine)

	out, err := engine.Render(`{{ date .When "YYYY-MM-DD" }}`, map[string]any{
		"When": time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "2026-03-05", out)
}

func TestFormatDate_AllTokens(t *testing.T) {
	tm := time.Date(2026, 7, 30, 9, 5, 3, 0, time.UTC)
	require.Equal(t, "2026/07/30", templateengine.FormatDate(tm, "YYYY/MM/DD"))
	require.Equal(t, "Thu, Jul 30 '26", templateengine.FormatDate(tm, "ddd, MMM D 'YY"))
	require.Equal(t, "09:05:03", templateengine.FormatDate(tm, "HH:mm:ss"))
}

func TestReadingTime_SpecialCases(t *testing.T) {
	require.Equal(t, "less than 1 min read", templateengine.ReadingTime("", 200))
	require.Equal(t, "1 min read", templateengine.ReadingTime(wordsOf(150), 200))
	require.Equal(t, "2 min read", templateengine.ReadingTime(wordsOf(201), 200))
}

func wordsOf(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "word "
	}
	return s
}

func TestSlug_MatchesTagSlugRule(t *testing.T) {
	require.Equal(t, "hello-world", templateengine.Slug("Hello, World!"))
}

var _ pipelinectx.TemplateEngine = (*templateengine.Engine)(nil)
