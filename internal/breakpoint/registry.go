// Package breakpoint keeps an ordered list of breakpoint specifications
// and resolves function names and patterns to concrete lines.
package breakpoint

import (
	"strconv"

	"github.com/re-centris/bpreg/internal/common/logger"
	"github.com/re-centris/bpreg/internal/locator"
	"github.com/re-centris/bpreg/internal/resolver"
	"github.com/re-centris/bpreg/internal/source"
	"go.uber.org/zap"
)

// Finder locates function definitions in a file
type Finder interface {
	FindDefinitions(path, name string) ([]locator.Definition, error)
}

// AddRequest describes a breakpoint to add. When several locations are
// given the function name wins over the pattern, which wins over the line.
type AddRequest struct {
	FileRef   string
	Line      int // zero when absent
	Temporary bool
	Condition string
	Function  string
	Pattern   string
}

// Options contains the collaborators of a Registry. Nil fields get the
// default implementations.
type Options struct {
	Finder  Finder
	Modules resolver.ModuleResolver
	Reader  source.Reader
}

// Registry is an insertion-ordered list of breakpoints. Entries are
// addressed by their 1-based display index, which shifts on removal.
// A Registry belongs to one session and is not safe for concurrent use.
type Registry struct {
	specs   []Spec
	finder  Finder
	modules resolver.ModuleResolver
	reader  source.Reader
}

// NewRegistry creates an empty registry
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		finder:  opts.Finder,
		modules: opts.Modules,
		reader:  opts.Reader,
	}
	if r.finder == nil {
		r.finder = locator.New(locator.Options{})
	}
	if r.modules == nil {
		r.modules = resolver.NewSearchPathResolver(resolver.Options{})
	}
	if r.reader == nil {
		r.reader = source.FileReader{}
	}
	return r
}

// Add resolves req and appends the resulting breakpoint. On error the
// registry is left unchanged.
func (r *Registry) Add(req AddRequest) (Spec, error) {
	if req.Line == 0 && req.Function == "" && req.Pattern == "" {
		return Spec{}, ErrMissingLocation
	}
	if req.Function == "" && req.Pattern == "" && req.Line < 0 {
		return Spec{}, ErrInvalidLine
	}

	path, err := resolver.ResolveFile(req.FileRef, r.modules)
	if err != nil {
		return Spec{}, &FileAccessError{Path: req.FileRef, Err: err}
	}

	opts := []SpecOption{
		Temporary(req.Temporary),
		Condition(req.Condition),
		Funcname(req.Function),
	}

	var spec Spec
	switch {
	case req.Function != "":
		line, err := r.resolveFunction(path, req.Function)
		if err != nil {
			return Spec{}, err
		}
		spec, err = NewLineSpec(path, line, opts...)
		if err != nil {
			return Spec{}, err
		}
	case req.Pattern != "":
		spec, err = NewPatternSpec(path, req.Pattern, opts...)
		if err != nil {
			return Spec{}, err
		}
	default:
		spec, err = NewLineSpec(path, req.Line, opts...)
		if err != nil {
			return Spec{}, err
		}
	}

	r.specs = append(r.specs, spec)
	logger.Debug("Breakpoint added",
		zap.Int("number", len(r.specs)),
		zap.String("file", spec.Filename()),
		zap.String("location", spec.Location()))

	return spec, nil
}

// resolveFunction returns the single line defining name in path
func (r *Registry) resolveFunction(path, name string) (int, error) {
	defs, err := r.finder.FindDefinitions(path, name)
	if err != nil {
		return 0, &FileAccessError{Path: path, Err: err}
	}

	switch len(defs) {
	case 0:
		return 0, &FunctionNotFoundError{Function: name, File: path}
	case 1:
		return defs[0].Line, nil
	default:
		lines := make([]int, len(defs))
		for i, def := range defs {
			lines[i] = def.Line
		}
		return 0, &AmbiguousFunctionError{Function: name, File: path, Lines: lines}
	}
}

// Remove deletes the breakpoint at the 1-based display index and returns it
func (r *Registry) Remove(index int) (Spec, error) {
	if index > len(r.specs) {
		return Spec{}, &IndexRangeError{Index: index, Count: len(r.specs), TooLarge: true}
	}
	if index <= 0 {
		return Spec{}, &IndexRangeError{Index: index, Count: len(r.specs)}
	}

	removed := r.specs[index-1]
	r.specs = append(r.specs[:index-1], r.specs[index:]...)

	logger.Debug("Breakpoint removed",
		zap.Int("number", index),
		zap.String("file", removed.Filename()),
		zap.String("location", removed.Location()))

	return removed, nil
}

// Len returns the number of breakpoints
func (r *Registry) Len() int {
	return len(r.specs)
}

// Specs returns a copy of the breakpoints in display order
func (r *Registry) Specs() []Spec {
	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// List returns the display rows, header first. With verbose set every
// pattern breakpoint is followed by one row per line currently matching
// it, so those rows can change between calls if the file changes.
func (r *Registry) List(verbose bool) ([][]string, error) {
	rows := [][]string{append([]string(nil), Header...)}

	for i, spec := range r.specs {
		rows = append(rows, append([]string{strconv.Itoa(i + 1)}, spec.Row()...))
		if !verbose || !spec.IsPattern() {
			continue
		}

		lines, err := spec.Lines(r.reader)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			rows = append(rows, []string{
				"",
				"",
				strconv.Itoa(line),
				strconv.FormatBool(spec.Temporary()),
				spec.Condition(),
				spec.Funcname(),
			})
		}
	}

	return rows, nil
}
