package stages

import (
	"encoding/base64"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/vfs"
)

// InlineSourceStage inlines small, internal script/stylesheet/image
// references directly into the HTML that references them. This is
// a best-effort structural transform (token-based, not line-oriented
// regex) over internal references below a size gate; open
// question, correctness here is measured by absence of corruption and by
// the size-gate behavior, not by bit-exact output.
type InlineSourceStage struct {
	MaxSize int
}

// NewInlineSourceStage creates an InlineSourceStage with the default size gate.
func NewInlineSourceStage() *InlineSourceStage {
	return &InlineSourceStage{MaxSize: 50000}
}

func (s *InlineSourceStage) Name() string { return "inline-source" }

var cssURLRe = regexp.MustCompile(`url\(([^)]+)\)`)

var imageMIMEByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".avif": "image/avif",
}

func (s *InlineSourceStage) Process(store *vfs.Store, ctx *pipelinectx.Context) error {
	maxSize := s.MaxSize
	if maxSize <= 0 {
		maxSize = 50000
	}

	for _, f := range store.Files() {
		if !strings.HasSuffix(f.Path, ".html") {
			continue
		}
		out, changed := s.inline(f.Path, f.Contents, store, maxSize)
		if changed {
			f.Contents = out
		}
	}
	ctx.Metric.IncFilesProcessed(s.Name(), store.Len())
	return nil
}

func (s *InlineSourceStage) inline(path string, content []byte, store *vfs.Store, maxSize int) ([]byte, bool) {
	var out strings.Builder
	changed := false
	z := html.NewTokenizer(strings.NewReader(string(content)))
	skippingScript := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()

		if skippingScript {
			if tt == html.EndTagToken && tok.Data == "script" {
				skippingScript = false
			}
			continue
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.Data {
			case "script":
				if src, data, ok := s.resolveInlineable(tok, "src", path, store, maxSize); ok {
					out.WriteString(`<script type="text/javascript">`)
					out.Write(data)
					out.WriteString(`</script>`)
					changed = true
					_ = src
					if tt == html.StartTagToken {
						skippingScript = true
					}
					continue
				}
			case "link":
				if isStylesheetLink(tok) {
					if _, data, ok := s.resolveInlineable(tok, "href", path, store, maxSize); ok {
						out.WriteString(`<style>`)
						out.Write(data)
						out.WriteString(`</style>`)
						changed = true
						continue
					}
				}
			case "img":
				if rewritten, ok := s.rewriteImgToken(&tok, path, store, maxSize); ok {
					out.WriteString(rewritten)
					changed = true
					continue
				}
			case "style":
				// handled via text-token url() rewriting below; fall through.
			}
		case html.TextToken:
			if strings.Contains(tok.Data, "url(") {
				rewritten := s.rewriteCSSURLs(tok.Data, path, store, maxSize)
				if rewritten != tok.Data {
					out.WriteString(rewritten)
					changed = true
					continue
				}
			}
		}

		out.WriteString(tok.String())
	}

	return []byte(out.String()), changed
}

func isStylesheetLink(tok html.Token) bool {
	for _, a := range tok.Attr {
		if a.Key == "rel" && a.Val == "stylesheet" {
			return true
		}
	}
	return false
}

// resolveInlineable reads attrKey off tok, resolves it relative to path
// against the file store, and returns its bytes if it is internal and
// under maxSize.
func (s *InlineSourceStage) resolveInlineable(tok html.Token, attrKey, path string, store *vfs.Store, maxSize int) (string, []byte, bool) {
	ref := attrValue(tok, attrKey)
	if ref == "" || isExternalRef(ref) {
		return "", nil, false
	}
	target, ok := resolveRef(ref, path)
	if !ok {
		return "", nil, false
	}
	f, ok := store.Get(target)
	if !ok || len(f.Contents) > maxSize {
		return "", nil, false
	}
	return ref, f.Contents, true
}

func (s *InlineSourceStage) rewriteImgToken(tok *html.Token, path string, store *vfs.Store, maxSize int) (string, bool) {
	ref := attrValue(*tok, "src")
	if ref == "" || isExternalRef(ref) {
		return "", false
	}
	target, ok := resolveRef(ref, path)
	if !ok {
		return "", false
	}
	f, ok := store.Get(target)
	if !ok || len(f.Contents) > maxSize {
		return "", false
	}
	mime, ok := imageMIMEByExt[extOf(target)]
	if !ok {
		return "", false
	}
	dataURI := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(f.Contents)
	for i, a := range tok.Attr {
		if a.Key == "src" {
			tok.Attr[i].Val = dataURI
		}
	}
	return tok.String(), true
}

func (s *InlineSourceStage) rewriteCSSURLs(text, path string, store *vfs.Store, maxSize int) string {
	return cssURLRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := strings.Trim(cssURLRe.FindStringSubmatch(m)[1], `'" `)
		if inner == "" || isExternalRef(inner) {
			return m
		}
		target, ok := resolveRef(inner, path)
		if !ok {
			return m
		}
		f, ok := store.Get(target)
		if !ok || len(f.Contents) > maxSize {
			return m
		}
		mime, ok := imageMIMEByExt[extOf(target)]
		if !ok {
			return m
		}
		return "url(data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(f.Contents) + ")"
	})
}

func attrValue(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isExternalRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "//") ||
		strings.HasPrefix(ref, "data:")
}

func resolveRef(ref, fromPath string) (string, bool) {
	if strings.HasPrefix(ref, "/") {
		return NormalizeKey(ref), true
	}
	return NormalizeKey(Directory(fromPath) + "/" + ref), true
}

func extOf(path string) string {
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		return path[idx:]
	}
	return ""
}
