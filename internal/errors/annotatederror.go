// Package errors provides error annotation with slog attributes and source
// locations. It re-exports the standard library helpers so that callers only
// need a single errors import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
)

// AnnotatedError carries a message, an optional cause, slog attributes, and the
// source location where it was created.
type AnnotatedError struct {
	msg         string
	cause       error
	annotations []slog.Attr
	file        string
	line        int
}

// NewSentinel creates an error intended to be declared as a package-level
// sentinel and matched with [Is].
func NewSentinel(msg string) *AnnotatedError {
	return newAnnotated(msg, nil, nil, 2) //nolint:mnd // skip newAnnotated and NewSentinel frames.
}

// Wrap annotates err with a message and optional slog attributes. The source
// location of the Wrap call is recorded for logging with [SlogError].
func Wrap(err error, msg string, annotations ...slog.Attr) *AnnotatedError {
	return newAnnotated(msg, err, annotations, 2) //nolint:mnd // skip newAnnotated and Wrap frames.
}

// DecoratePanic converts a recovered panic value into an error pointing at the
// recover site.
func DecoratePanic(recovered any) *AnnotatedError {
	return newAnnotated(fmt.Sprintf("panic: %v", recovered), nil, nil, 2) //nolint:mnd // skip two frames.
}

func newAnnotated(msg string, cause error, annotations []slog.Attr, skip int) *AnnotatedError {
	file := "unknown"
	line := 0
	if _, callerFile, callerLine, ok := runtime.Caller(skip); ok {
		file = filepath.Base(callerFile)
		line = callerLine
	}
	return &AnnotatedError{
		msg:         msg,
		cause:       cause,
		annotations: annotations,
		file:        file,
		line:        line,
	}
}

func (e *AnnotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *AnnotatedError) Unwrap() error {
	return e.cause
}

// SlogError renders err as a structured "error" attribute containing the
// message, the annotations collected from the whole error chain, and the
// source location of the outermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		annotations []slog.Attr
		source      string
	)
	for unwrapped := err; unwrapped != nil; unwrapped = stderrors.Unwrap(unwrapped) {
		var annotated *AnnotatedError
		if !stderrors.As(unwrapped, &annotated) {
			break
		}
		annotations = append(annotations, annotated.annotations...)
		if source == "" && annotated.line != 0 {
			source = fmt.Sprintf("%s:%d", annotated.file, annotated.line)
		}
		unwrapped = annotated
	}

	attrs := []any{slog.String("msg", err.Error())}
	if len(annotations) > 0 {
		annotationArgs := make([]any, 0, len(annotations))
		for _, attr := range annotations {
			annotationArgs = append(annotationArgs, attr)
		}
		attrs = append(attrs, slog.Group("annotations", annotationArgs...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// New re-exports [errors.New].
func New(msg string) error {
	return stderrors.New(msg) //nolint:err113 // deliberate re-export.
}

// Is re-exports [errors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As re-exports [errors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap re-exports [errors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join re-exports [errors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
