// Package stageerrors provides the typed error kinds the pipeline and its
// stages use to classify failures: which ones are recovered locally as
// warnings, and which ones abort the build.
package stageerrors

import "fmt"

// Kind classifies a pipeline error for routing and logging purposes.
type Kind string

const (
	// KindConfig is a validation failure in the config loader. Fatal at construction.
	KindConfig Kind = "config"
	// KindFrontmatter is an unclosed frontmatter block or irrecoverable syntax.
	// Recovered locally as a warning; the file keeps its unparsed body.
	KindFrontmatter Kind = "frontmatter"
	// KindTemplate is a render failure (missing variable, filter panic, ...).
	// Recovered locally as an error log; the file keeps its pre-render body.
	KindTemplate Kind = "template"
	// KindLayoutNotFound means no candidate layout path resolved. Recovered as a warning.
	KindLayoutNotFound Kind = "layout_not_found"
	// KindPlugin is any stage-internal failure not covered by a more specific kind.
	// Wraps the stage name and cause; fatal to the pipeline.
	KindPlugin Kind = "plugin"
	// KindFileProcessing is a per-file failure inside a stage; re-raised as
	// KindPlugin unless the stage declares it recoverable.
	KindFileProcessing Kind = "file_processing"
	// KindEngineNotFound means no template engine is registered for a file extension.
	KindEngineNotFound Kind = "engine_not_found"
	// KindFetch is a network failure (webmentions, image codec calls). Recovered locally.
	KindFetch Kind = "fetch"
)

// Severity indicates whether an error aborts the pipeline or is merely logged.
type Severity string

const (
	SeverityFatal   Severity = "fatal"
	SeverityWarning Severity = "warning"
)

// Error is the pipeline's structured error type. All stage and config
// failures are expressed as *Error so the driver and CLI can route them
// consistently.
type Error struct {
	Kind     Kind
	Severity Severity
	Stage    string // populated for KindPlugin / KindFileProcessing
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Stage != "" && e.Cause != nil {
		return fmt.Sprintf("%s: stage %q: %s: %v", e.Kind, e.Stage, e.Message, e.Cause)
	}
	if e.Stage != "" {
		return fmt.Sprintf("%s: stage %q: %s", e.Kind, e.Stage, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsFatal reports whether the error should abort the pipeline.
func (e *Error) IsFatal() bool { return e.Severity == SeverityFatal }

// New creates a fatal Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Severity: SeverityFatal, Message: message}
}

// Warning creates a warning-severity Error of the given kind.
func Warning(kind Kind, message string) *Error {
	return &Error{Kind: kind, Severity: SeverityWarning, Message: message}
}

// Wrap creates a fatal Error wrapping cause.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Severity: SeverityFatal, Message: message, Cause: cause}
}

// WrapWarning creates a warning-severity Error wrapping cause.
func WrapWarning(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Severity: SeverityWarning, Message: message, Cause: cause}
}

// Config builds a KindConfig error (fatal at construction time).
func Config(message string) *Error {
	return New(KindConfig, message)
}

// Frontmatter builds a KindFrontmatter warning carrying a file path and cause.
func Frontmatter(path string, cause error) *Error {
	return WrapWarning(cause, KindFrontmatter, fmt.Sprintf("%s: frontmatter parse failed", path))
}

// Template builds a KindTemplate warning (render failure, file keeps pre-render body).
func Template(path string, cause error) *Error {
	return WrapWarning(cause, KindTemplate, fmt.Sprintf("%s: template render failed", path))
}

// LayoutNotFound builds a KindLayoutNotFound warning.
func LayoutNotFound(path, layout string) *Error {
	return Warning(KindLayoutNotFound, fmt.Sprintf("%s: layout %q not found", path, layout))
}

// EngineNotFound builds a KindEngineNotFound fatal error (no engine for extension).
func EngineNotFound(ext string) *Error {
	return New(KindEngineNotFound, fmt.Sprintf("no template engine registered for extension %q", ext))
}

// Fetch builds a KindFetch warning (network failure, cache value retained).
func Fetch(what string, cause error) *Error {
	return WrapWarning(cause, KindFetch, what)
}

// Plugin wraps a stage-internal failure, fatal to the pipeline, carrying the stage name.
func Plugin(stage string, cause error) *Error {
	return &Error{Kind: KindPlugin, Severity: SeverityFatal, Stage: stage, Message: "stage failed", Cause: cause}
}

// FileProcessing wraps a per-file failure inside a stage.
func FileProcessing(stage, path string, cause error) *Error {
	return &Error{Kind: KindFileProcessing, Severity: SeverityFatal, Stage: stage,
		Message: fmt.Sprintf("file %q failed", path), Cause: cause}
}

// As reports whether err is a *Error of the given kind, returning it if so.
func As(err error, kind Kind) (*Error, bool) {
	se, ok := err.(*Error)
	if !ok || se == nil {
		return nil, false
	}
	return se, se.Kind == kind
}
