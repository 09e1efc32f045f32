package stageerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPluginError_WrapsStageAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := Plugin("permalinks", cause)

	require.Equal(t, KindPlugin, err.Kind)
	require.True(t, err.IsFatal())
	require.Equal(t, "permalinks", err.Stage)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "permalinks")
	require.Contains(t, err.Error(), "boom")
}

func TestFrontmatterAndFetch_AreWarnings(t *testing.T) {
	fm := Frontmatter("posts/a.md", errors.New("missing closing delimiter"))
	require.Equal(t, KindFrontmatter, fm.Kind)
	require.False(t, fm.IsFatal())

	fe := Fetch("webmention timeout", errors.New("deadline exceeded"))
	require.Equal(t, KindFetch, fe.Kind)
	require.False(t, fe.IsFatal())
}

func TestConfigAndEngineNotFound_AreFatal(t *testing.T) {
	require.True(t, Config("missing site.title").IsFatal())
	require.True(t, EngineNotFound(".njk").IsFatal())
}

func TestAs_MatchesKind(t *testing.T) {
	err := LayoutNotFound("about.html", "post")
	se, ok := As(err, KindLayoutNotFound)
	require.True(t, ok)
	require.Same(t, err, se)

	_, ok = As(err, KindFetch)
	require.False(t, ok)

	_, ok = As(errors.New("plain"), KindFetch)
	require.False(t, ok)
}

func TestCLIAdapter_ExitCodes(t *testing.T) {
	a := NewCLIAdapter(false, nil)
	require.Equal(t, 0, a.ExitCodeFor(nil))
	require.Equal(t, 2, a.ExitCodeFor(Config("bad config")))
	require.Equal(t, 3, a.ExitCodeFor(EngineNotFound(".njk")))
	require.Equal(t, 4, a.ExitCodeFor(Plugin("tags", errors.New("x"))))
	require.Equal(t, 1, a.ExitCodeFor(errors.New("unclassified")))
}

func TestCLIAdapter_FormatError_NamesStage(t *testing.T) {
	a := NewCLIAdapter(false, nil)
	msg := a.FormatError(Plugin("webmentions", errors.New("timeout")))
	require.Contains(t, msg, "webmentions")
}
