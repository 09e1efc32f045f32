package stages

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/janos-ssg/janos/internal/vfs"
)

// excludedDirNames are never descended into by the loader.
var excludedDirNames = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

// FileLoader walks a source tree into a file store.
// It is the Driver's default Loader collaborator.
type FileLoader struct{}

// NewFileLoader creates a FileLoader.
func NewFileLoader() *FileLoader { return &FileLoader{} }

// Load walks sourceDir and populates a Store keyed by the forward-slash,
// sourceDir-relative path of each discovered file.
func (l *FileLoader) Load(sourceDir string) (*vfs.Store, error) {
	store := vfs.NewStore()

	err := filepath.WalkDir(sourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != sourceDir {
				return filepath.SkipDir
			}
			if excludedDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", path, err)
		}
		key := NormalizeKey(rel)

		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		f := vfs.New(key, contents)
		f.SourcePath = key
		store.Set(key, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source tree %s: %w", sourceDir, err)
	}
	return store, nil
}

// NormalizeKey converts an OS-native relative path to the forward-slash,
// no-leading-slash, dot-segment-free key form every File Store entry uses
//.
func NormalizeKey(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "/")
	segments := strings.Split(p, "/")
	out := segments[:0]
	for _, s := range segments {
		if s == "" || s == "." {
			continue
		}
		if s == ".." {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			continue
		}
		out = append(out, s)
	}
	return strings.Join(out, "/")
}

// FileWriter writes every file in the store to outputDir, skipping files
// still keyed under the source or layouts trees.
type FileWriter struct {
	// SkipPrefixes lists key prefixes never written (sourceDir/layoutsDir
	// relative names, already stripped of the sourceDir root by the loader
	// only when they are content; layout files keep their "_layouts/"
	// prefix as their store key for the lifetime of the build).
	SkipPrefixes []string
}

// NewFileWriter creates a FileWriter that skips the given key prefixes.
func NewFileWriter(skipPrefixes ...string) *FileWriter {
	return &FileWriter{SkipPrefixes: skipPrefixes}
}

// Write emits every file whose key does not start with a skip prefix.
func (w *FileWriter) Write(store *vfs.Store, outputDir string) (int, error) {
	count := 0
	for _, f := range store.Files() {
		if w.skip(f.Path) {
			continue
		}
		dest := filepath.Join(outputDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return count, fmt.Errorf("creating output directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(dest, f.Contents, 0o644); err != nil {
			return count, fmt.Errorf("writing %s: %w", dest, err)
		}
		count++
	}
	return count, nil
}

func (w *FileWriter) skip(key string) bool {
	for _, prefix := range w.SkipPrefixes {
		if prefix == "" {
			continue
		}
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			return true
		}
	}
	return false
}
