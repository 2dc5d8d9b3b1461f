// Package resolver turns user file references into absolute paths. A
// reference is either a path (optionally starting with ~ or ~user) or a
// dotted module specifier looked up along a search path.
package resolver

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ErrModuleNotFound is returned when no search path contains the module
var ErrModuleNotFound = errors.New("module not found")

// ModuleResolver maps a logical module specifier to a file path
type ModuleResolver interface {
	Resolve(spec string) (string, error)
}

// Options contains options for SearchPathResolver
type Options struct {
	SearchPaths []string
	Extensions  []string
	PackageFile string
}

// SearchPathResolver resolves a.b.c to <dir>/a/b/c<ext> or
// <dir>/a/b/c/<package file>, trying each search path in order.
type SearchPathResolver struct {
	opts Options
}

// NewSearchPathResolver creates a resolver, filling unset options with
// the current directory, ".py" and "__init__.py".
func NewSearchPathResolver(opts Options) *SearchPathResolver {
	if len(opts.SearchPaths) == 0 {
		opts.SearchPaths = []string{"."}
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".py"}
	}
	if opts.PackageFile == "" {
		opts.PackageFile = "__init__.py"
	}
	return &SearchPathResolver{opts: opts}
}

// Resolve implements ModuleResolver
func (r *SearchPathResolver) Resolve(spec string) (string, error) {
	parts := strings.Split(spec, ".")
	for _, part := range parts {
		if part == "" || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("invalid module specifier %q", spec)
		}
	}
	rel := filepath.Join(parts...)

	for _, dir := range r.opts.SearchPaths {
		dir, err := ExpandHome(dir)
		if err != nil {
			return "", err
		}

		base := filepath.Join(dir, rel)
		for _, ext := range r.opts.Extensions {
			if IsFile(base + ext) {
				return base + ext, nil
			}
		}
		if candidate := filepath.Join(base, r.opts.PackageFile); IsFile(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrModuleNotFound, spec)
}

// ResolveFile expands ref, uses it when it names an existing file and
// otherwise asks modules to resolve it. The result is absolute and clean.
func ResolveFile(ref string, modules ModuleResolver) (string, error) {
	path, err := ExpandHome(ref)
	if err != nil {
		return "", err
	}

	if !IsFile(path) {
		if modules == nil {
			return "", fmt.Errorf("%s: %w", ref, os.ErrNotExist)
		}
		path, err = modules.Resolve(ref)
		if err != nil {
			return "", err
		}
	}

	return Normalize(path)
}

// ExpandHome replaces a leading ~ or ~user with the home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	name, rest := path[1:], ""
	if i := strings.IndexAny(name, `/\`); i >= 0 {
		name, rest = name[:i], name[i:]
	}

	var home string
	if name == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = dir
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			// ~unknown is left alone, like a shell would
			return path, nil
		}
		home = u.HomeDir
	}

	return home + rest, nil
}

// Normalize returns the absolute, cleaned form of path
func Normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// IsFile reports whether path exists and is not a directory
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
