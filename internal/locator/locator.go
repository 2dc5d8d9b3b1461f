// Package locator finds function definitions in source files by matching
// definition headers line by line. The match is purely syntactic: headers
// inside comments or string literals are reported too.
package locator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/re-centris/bpreg/internal/common/cache"
	"github.com/re-centris/bpreg/internal/common/logger"
	"go.uber.org/zap"
)

const maxLineSize = 1024 * 1024

// ErrEmptyName is returned when no function name is given
var ErrEmptyName = errors.New("function name must not be empty")

// Definition is one line that looks like a definition header
type Definition struct {
	Line int    // 1-based
	Text string // raw line without the trailing newline
}

// Options contains options for the locator
type Options struct {
	Languages *Languages
	CacheSize int
}

// Locator finds function definitions. It is safe for concurrent use.
type Locator struct {
	languages *Languages
	cache     *cache.Cache[cacheKey, []Definition]
}

// cacheKey identifies one version of a file so a rewritten file is
// scanned again. Inode and change time catch same-size rewrites that keep
// the modification time; they are zero where the platform lacks them.
type cacheKey struct {
	path       string
	size       int64
	modTime    int64
	inode      uint64
	changeTime int64
	language   string
	name       string
}

// New creates a new Locator
func New(opts Options) *Locator {
	languages := opts.Languages
	if languages == nil {
		languages = NewLanguages(Python.Name)
		languages.Register(Python)
	}
	return &Locator{
		languages: languages,
		cache:     cache.New[cacheKey, []Definition](opts.CacheSize),
	}
}

// Languages returns the language table used by the locator
func (l *Locator) Languages() *Languages {
	return l.languages
}

// FindDefinitions returns every line of path that matches a definition
// header for name, in file order.
func (l *Locator) FindDefinitions(path, name string) ([]Definition, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	lang := l.languages.ForFile(path)
	pattern, err := lang.definitionPattern(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	inode, changeTime := fileIdentity(info)
	key := cacheKey{
		path:       path,
		size:       info.Size(),
		modTime:    info.ModTime().UnixNano(),
		inode:      inode,
		changeTime: changeTime,
		language:   lang.Name,
		name:       name,
	}
	if defs, ok := l.cache.Get(key); ok {
		logger.Debug("Definition cache hit",
			zap.String("path", path),
			zap.String("function", name))
		return cloneDefinitions(defs), nil
	}

	defs, err := scanDefinitions(file, pattern.MatchString)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	l.cache.Set(key, defs)

	logger.Debug("Located function definitions",
		zap.String("path", path),
		zap.String("function", name),
		zap.String("language", lang.Name),
		zap.Int("matches", len(defs)))

	return cloneDefinitions(defs), nil
}

func scanDefinitions(r io.Reader, match func(string) bool) ([]Definition, error) {
	var defs []Definition

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if match(line) {
			defs = append(defs, Definition{Line: lineNum, Text: line})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}

func cloneDefinitions(defs []Definition) []Definition {
	if defs == nil {
		return nil
	}
	out := make([]Definition, len(defs))
	copy(out, defs)
	return out
}
