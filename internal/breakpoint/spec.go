package breakpoint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/re-centris/bpreg/internal/resolver"
	"github.com/re-centris/bpreg/internal/source"
)

// Header is the first row of every listing
var Header = []string{"Number", "Filename", "Line number", "Temporary", "Condition", "funcname"}

// Spec is one requested breakpoint. Its location is either a line number
// or a pattern; the fields cannot be changed after construction.
type Spec struct {
	filename  string
	line      int
	pattern   string
	temporary bool
	condition string
	funcname  string
}

// SpecOption sets optional metadata on a Spec
type SpecOption func(*Spec)

// Temporary marks the breakpoint as use-once
func Temporary(temporary bool) SpecOption {
	return func(s *Spec) {
		s.temporary = temporary
	}
}

// Condition attaches an opaque condition expression
func Condition(cond string) SpecOption {
	return func(s *Spec) {
		s.condition = cond
	}
}

// Funcname records the function name a line was resolved from
func Funcname(name string) SpecOption {
	return func(s *Spec) {
		s.funcname = name
	}
}

// NewLineSpec creates a breakpoint at a fixed 1-based line
func NewLineSpec(filename string, line int, opts ...SpecOption) (Spec, error) {
	if line < 1 {
		return Spec{}, ErrInvalidLine
	}
	return newSpec(filename, func(s *Spec) { s.line = line }, opts)
}

// NewPatternSpec creates a breakpoint on every line matching pattern. The
// pattern is checked here and expanded only when listing.
func NewPatternSpec(filename, pattern string, opts ...SpecOption) (Spec, error) {
	if pattern == "" {
		return Spec{}, &PatternError{Pattern: pattern, Err: errEmptyPattern}
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return Spec{}, &PatternError{Pattern: pattern, Err: err}
	}
	return newSpec(filename, func(s *Spec) { s.pattern = pattern }, opts)
}

func newSpec(filename string, location SpecOption, opts []SpecOption) (Spec, error) {
	abs, err := resolver.Normalize(filename)
	if err != nil {
		return Spec{}, err
	}

	s := Spec{filename: abs}
	location(&s)
	for _, opt := range opts {
		opt(&s)
	}
	return s, nil
}

// Filename returns the absolute path of the source file
func (s Spec) Filename() string { return s.filename }

// Line returns the line number, or 0 for pattern breakpoints
func (s Spec) Line() int { return s.line }

// Pattern returns the pattern, or "" for line breakpoints
func (s Spec) Pattern() string { return s.pattern }

// IsPattern reports whether the location is a pattern
func (s Spec) IsPattern() bool { return s.pattern != "" }

// Temporary reports whether the breakpoint is use-once
func (s Spec) Temporary() bool { return s.temporary }

// Condition returns the condition expression, if any
func (s Spec) Condition() string { return s.condition }

// Funcname returns the function name used to resolve the line, if any
func (s Spec) Funcname() string { return s.funcname }

// Location renders the line number or the pattern
func (s Spec) Location() string {
	if s.IsPattern() {
		return s.pattern
	}
	return strconv.Itoa(s.line)
}

// String returns file:location
func (s Spec) String() string {
	return fmt.Sprintf("%s:%s", s.filename, s.Location())
}

// Row renders the spec without its index column
func (s Spec) Row() []string {
	return []string{
		s.filename,
		s.Location(),
		strconv.FormatBool(s.temporary),
		s.condition,
		s.funcname,
	}
}

// Lines returns the concrete lines the spec stands for. A line spec
// returns its line; a pattern spec is matched against the current
// contents of the file read through r.
func (s Spec) Lines(r source.Reader) ([]int, error) {
	if !s.IsPattern() {
		return []int{s.line}, nil
	}

	re, err := regexp.Compile(s.pattern)
	if err != nil {
		return nil, &PatternError{Pattern: s.pattern, Err: err}
	}
	text, err := r.ReadSource(s.filename)
	if err != nil {
		return nil, &FileAccessError{Path: s.filename, Err: err}
	}

	var lines []int
	text = strings.TrimSuffix(text, "\n")
	for i, line := range strings.Split(text, "\n") {
		if re.MatchString(strings.TrimSuffix(line, "\r")) {
			lines = append(lines, i+1)
		}
	}
	return lines, nil
}
