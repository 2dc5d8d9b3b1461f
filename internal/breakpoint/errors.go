package breakpoint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingLocation is returned when an add request names neither a
	// line, a function nor a pattern
	ErrMissingLocation = errors.New("must specify either line number, regex or function, no breakpoint set")

	// ErrInvalidLine is returned for line numbers below one
	ErrInvalidLine = errors.New("line number must be positive")

	errEmptyPattern = errors.New("empty pattern")
)

// FunctionNotFoundError reports a function with no definition in a file
type FunctionNotFoundError struct {
	Function string
	File     string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("could not find function %q in %q", e.Function, e.File)
}

// AmbiguousFunctionError reports a function defined on more than one line
type AmbiguousFunctionError struct {
	Function string
	File     string
	Lines    []int
}

func (e *AmbiguousFunctionError) Error() string {
	lines := make([]string, len(e.Lines))
	for i, n := range e.Lines {
		lines[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("multiple definitions of %q in file %q on lines: [%s]",
		e.Function, e.File, strings.Join(lines, ", "))
}

// IndexRangeError reports a display index outside 1..Count
type IndexRangeError struct {
	Index    int
	Count    int
	TooLarge bool
}

func (e *IndexRangeError) Error() string {
	if e.TooLarge {
		return "bpnum > total number of breakpoints"
	}
	return "bpnum <= 0"
}

// FileAccessError wraps a failure to resolve or read a source file
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// PatternError reports a pattern that does not compile
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
