package stages_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/janos-ssg/janos/internal/stages"
	"github.com/stretchr/testify/require"
)

func TestCompositeLoader_MergesContentAndLayouts(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "_src")
	layoutsDir := filepath.Join(root, "_layouts")
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "blog"), 0o755))
	require.NoError(t, os.MkdirAll(layoutsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "blog", "post.md"), []byte("# hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(layoutsDir, "base.html"), []byte("<html></html>"), 0o644))

	loader := stages.NewCompositeLoader(layoutsDir)
	store, err := loader.Load(srcDir)
	require.NoError(t, err)

	_, ok := store.Get("blog/post.md")
	require.True(t, ok)
	_, ok = store.Get("_layouts/base.html")
	require.True(t, ok)
}
