package vfs_test

import (
	"testing"

	"github.com/janos-ssg/janos/internal/vfs"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := vfs.NewStore()
	f := vfs.New("posts/a.md", []byte("hello"))
	s.Set(f.Path, f)

	got, ok := s.Get("posts/a.md")
	require.True(t, ok)
	require.Same(t, f, got)

	s.Delete("posts/a.md")
	_, ok = s.Get("posts/a.md")
	require.False(t, ok)
}

func TestStore_Rename_UpdatesKeyAndPath(t *testing.T) {
	s := vfs.NewStore()
	f := vfs.New("about.md", []byte("# About"))
	s.Set(f.Path, f)

	renamed, ok := s.Rename("about.md", "about/index.html")
	require.True(t, ok)
	require.Equal(t, "about/index.html", renamed.Path)

	_, ok = s.Get("about.md")
	require.False(t, ok)
	got, ok := s.Get("about/index.html")
	require.True(t, ok)
	require.Same(t, f, got)
}

func TestStore_KeysPreserveInsertionOrder(t *testing.T) {
	s := vfs.NewStore()
	for _, p := range []string{"c.md", "a.md", "b.md"} {
		s.Set(p, vfs.New(p, nil))
	}
	require.Equal(t, []string{"c.md", "a.md", "b.md"}, s.Keys())

	s.Delete("a.md")
	require.Equal(t, []string{"c.md", "b.md"}, s.Keys())
}

func TestFile_Clone_DeepCopiesMetadata(t *testing.T) {
	f := vfs.New("p.md", []byte("x"))
	f.Metadata["tags"] = []any{map[string]any{"name": "Go"}}

	clone := f.Clone()
	tags := clone.Metadata["tags"].([]any)
	tagMap := tags[0].(map[string]any)
	tagMap["name"] = "Mutated"

	origTags := f.Metadata["tags"].([]any)
	origTagMap := origTags[0].(map[string]any)
	require.Equal(t, "Go", origTagMap["name"])
}
