package templateengine

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/slug"
)

// dateTokenRe matches the longest run of a known moment.js-style token at
// each position; order matters (longest literal match first).
var dateTokens = []string{
	"YYYY", "YY", "MMMM", "MMM", "MM", "M",
	"DD", "D", "dddd", "ddd", "HH", "H",
	"mm", "m", "ss", "s", "ZZ", "Z",
}
var dateTokenRe = regexp.MustCompile(strings.Join(quoteTokens(dateTokens), "|"))

func quoteTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = regexp.QuoteMeta(t)
	}
	return out
}

// FormatDate renders t using moment.js-style tokens:
// YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd, ddd, HH, H, mm, m, ss, s, Z, ZZ.
func FormatDate(t time.Time, format string) string {
	return dateTokenRe.ReplaceAllStringFunc(format, func(tok string) string {
		switch tok {
		case "YYYY":
			return fmt.Sprintf("%04d", t.Year())
		case "YY":
			return fmt.Sprintf("%02d", t.Year()%100)
		case "MMMM":
			return t.Month().String()
		case "MMM":
			return t.Month().String()[:3]
		case "MM":
			return fmt.Sprintf("%02d", int(t.Month()))
		case "M":
			return strconv.Itoa(int(t.Month()))
		case "DD":
			return fmt.Sprintf("%02d", t.Day())
		case "D":
			return strconv.Itoa(t.Day())
		case "dddd":
			return t.Weekday().String()
		case "ddd":
			return t.Weekday().String()[:3]
		case "HH":
			return fmt.Sprintf("%02d", t.Hour())
		case "H":
			return strconv.Itoa(t.Hour())
		case "mm":
			return fmt.Sprintf("%02d", t.Minute())
		case "m":
			return strconv.Itoa(t.Minute())
		case "ss":
			return fmt.Sprintf("%02d", t.Second())
		case "s":
			return strconv.Itoa(t.Second())
		case "ZZ":
			return t.Format("-0700")
		case "Z":
			return t.Format("-07:00")
		}
		return tok
	})
}

// ReadingTime is the readingTime filter: strip HTML tags, count
// whitespace-separated tokens, divide by wordsPerMinute (default 200),
// round up, and render the special-cased 0/1/N messages.
func ReadingTime(content string, wordsPerMinute int) string {
	if wordsPerMinute <= 0 {
		wordsPerMinute = 200
	}
	text := stripTagsRe.ReplaceAllString(content, " ")
	text = html.UnescapeString(text)
	words := strings.Fields(text)
	minutes := 0
	if len(words) > 0 {
		minutes = (len(words) + wordsPerMinute - 1) / wordsPerMinute
	}
	switch minutes {
	case 0:
		return "less than 1 min read"
	case 1:
		return "1 min read"
	default:
		return fmt.Sprintf("%d min read", minutes)
	}
}

var stripTagsRe = regexp.MustCompile(`<[^>]*>`)

// Slug is the slug filter, reusing the tag-slugging rule.
func Slug(s string) string { return slug.Tag(s) }

// RegisterBuiltinFilters installs date, readingTime, and slug onto engine.
func RegisterBuiltinFilters(engine pipelinectx.TemplateEngine) {
	engine.RegisterFilter("date", func(value any, args ...any) (any, error) {
		t, ok := value.(time.Time)
		if !ok {
			return "", fmt.Errorf("date filter: value is not a time.Time")
		}
		format := "YYYY-MM-DD"
		if len(args) > 0 {
			if f, ok := args[0].(string); ok {
				format = f
			}
		}
		return FormatDate(t, format), nil
	})
	engine.RegisterFilter("readingTime", func(value any, args ...any) (any, error) {
		content, _ := value.(string)
		wpm := 200
		if len(args) > 0 {
			if n, ok := args[0].(int); ok {
				wpm = n
			}
		}
		return ReadingTime(content, wpm), nil
	})
	engine.RegisterFilter("slug", func(value any, args ...any) (any, error) {
		s, _ := value.(string)
		return Slug(s), nil
	})
}
