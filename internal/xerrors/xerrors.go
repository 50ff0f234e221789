// Package xerrors provides error constructors that capture the call stack
// at the point of creation. The captured program counters feed two sinks:
// the logger's stacktrace enrichment, and the diagnostic "stack" field on
// JSON error responses when the server runs outside production mode.
package xerrors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

type withStack struct {
	err error
	pcs []uintptr
}

func (w *withStack) Error() string       { return w.err.Error() }
func (w *withStack) Unwrap() error       { return w.err }
func (w *withStack) StackPCs() []uintptr { return w.pcs }

func captureStack(skip int) []uintptr {
	const maxDepth = 64
	pcs := make([]uintptr, maxDepth)
	// 2 skips runtime.Callers and captureStack itself
	n := runtime.Callers(2+skip, pcs)
	return pcs[:n]
}

func withStackSkip(err error, skip int) error {
	if err == nil {
		return nil
	}
	return &withStack{err: err, pcs: captureStack(skip)}
}

func New(msg string) error             { return withStackSkip(errors.New(msg), 2) }
func Newf(f string, args ...any) error { return withStackSkip(fmt.Errorf(f, args...), 2) }

// WithStack annotates err with the caller's stack. Returns nil for nil.
func WithStack(err error) error { return withStackSkip(err, 2) }

// EnsureTrace attaches a stack only if no error in the chain carries one
// already, so wrap points closest to the failure win.
func EnsureTrace(err error) error {
	if err == nil {
		return nil
	}
	if len(StackPCs(err)) > 0 {
		return err
	}
	return withStackSkip(err, 2)
}

type wrapped struct {
	err error
	msg string
}

func (w *wrapped) Error() string { return w.msg + ": " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrapped{err: err, msg: msg}
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrapped{err: err, msg: fmt.Sprintf(format, args...)}
}

// StackPCs returns the program counters captured anywhere in err's chain,
// or nil if no error in the chain carries a stack.
func StackPCs(err error) []uintptr {
	type hasStack interface{ StackPCs() []uintptr }
	var hs hasStack
	if errors.As(err, &hs) && hs != nil {
		return hs.StackPCs()
	}
	return nil
}

// RenderStack formats a captured stack as "func\n\tfile:line" lines,
// matching the shape of a runtime traceback. Empty string when err has
// no captured stack.
func RenderStack(err error) string {
	pcs := StackPCs(err)
	if len(pcs) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		fr, more := frames.Next()
		if fr.Function != "" {
			fmt.Fprintf(&b, "%s\n\t%s:%d\n", fr.Function, fr.File, fr.Line)
		}
		if !more {
			break
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
