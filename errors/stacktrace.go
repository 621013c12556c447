package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTracer is implemented by errors that carry a call stack. This is the
// interface of the github.com/pkg/errors wrappers.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

func matchesFunc(f errors.Frame, prefixes ...string) bool {
	fn := funcName(f)
	for _, prefix := range prefixes {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}

// funcName returns the name of this function, if known.
func funcName(f errors.Frame) string {
	// this looks a bit like magic, but follows example here:
	// https://github.com/pkg/errors/blob/v0.8.1/stack.go#L43-L50
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

func fileLine(f errors.Frame) (string, int) {
	// as this is where we get the pcs in the first place, it should be safe
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

// trimInternal removes the error creation internals from the stack trace so
// that it starts at the frame that called into this package.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && matchesFunc(st[0],
		// where we create errors
		"github.com/taurushq-io/taurus-protect-sdk-sub004/errors.Wrap",
		"github.com/taurushq-io/taurus-protect-sdk-sub004/errors.Wrapf",
		"github.com/taurushq-io/taurus-protect-sdk-sub004/errors.WithType",
		"github.com/taurushq-io/taurus-protect-sdk-sub004/errors.Field",
		// runtime is added on panics
		"runtime.",
		// goroutine boundaries
		"testing.tRunner",
	) {
		st = st[1:]
	}
	// trim out the outer wrappers as well
	for l := len(st) - 1; l > 0 && matchesFunc(st[l], "runtime.", "testing."); l-- {
		st = st[:l]
	}
	return st
}

func writeSimplified(st errors.StackTrace, w io.Writer) {
	for _, f := range st {
		fn := funcName(f)
		file, line := fileLine(f)
		if _, err := fmt.Fprintf(w, "%s\n\t%s:%d\n", fn, file, line); err != nil {
			// we don't care about such errors but let's not panic
			return
		}
	}
}

func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			if st := stackTrace(e); st != nil {
				writeSimplified(trimInternal(st), s)
			}
			fmt.Fprint(s, e.Error())
		} else {
			fmt.Fprint(s, e.Error())
			// Single line variant carries only the creation point.
			if st := trimInternal(stackTrace(e)); len(st) > 0 {
				file, line := fileLine(st[0])
				fmt.Fprintf(s, " [%s:%d]", trimBuildPath(file), line)
			}
		}
	case 's':
		fmt.Fprint(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// trimBuildPath drops the local build environment prefix from a source file
// path so that logged locations are stable between machines.
func trimBuildPath(file string) string {
	const hosted = "github.com/"
	if i := strings.Index(file, hosted); i != -1 {
		return file[i+len(hosted):]
	}
	return file
}
