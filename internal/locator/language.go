package locator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Language describes how function definitions are introduced in one
// source language.
type Language struct {
	Name       string
	Keywords   []string
	Extensions []string
}

// Python is used when no language table is configured.
var Python = Language{
	Name:       "python",
	Keywords:   []string{"def", "async def"},
	Extensions: []string{".py", ".pyw"},
}

// definitionPattern builds the line-anchored header pattern for name:
// optional leading blanks, a keyword, blanks, the literal name, then a
// blank or an opening parenthesis.
func (lang Language) definitionPattern(name string) (*regexp.Regexp, error) {
	keywords := make([]string, 0, len(lang.Keywords))
	for _, kw := range lang.Keywords {
		words := strings.Fields(kw)
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		keywords = append(keywords, strings.Join(words, `[ \t]+`))
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("language %q has no definition keywords", lang.Name)
	}

	expr := `^[ \t]*(?:` + strings.Join(keywords, "|") + `)[ \t]+` + regexp.QuoteMeta(name) + `[ \t(]`
	return regexp.Compile(expr)
}

// Languages maintains the language table keyed by name and extension
type Languages struct {
	byName      map[string]Language
	byExtension map[string]string
	fallback    string
}

// NewLanguages creates an empty table. fallback names the language used
// for files whose extension is not registered.
func NewLanguages(fallback string) *Languages {
	return &Languages{
		byName:      make(map[string]Language),
		byExtension: make(map[string]string),
		fallback:    fallback,
	}
}

// Register adds or replaces a language. Later registrations win on
// shared extensions.
func (r *Languages) Register(lang Language) {
	r.byName[lang.Name] = lang
	for _, ext := range lang.Extensions {
		r.byExtension[strings.ToLower(ext)] = lang.Name
	}
}

// Get returns the language with the given name
func (r *Languages) Get(name string) (Language, bool) {
	lang, ok := r.byName[name]
	return lang, ok
}

// GetByExtension returns the language for the given file extension
func (r *Languages) GetByExtension(ext string) (Language, bool) {
	name, ok := r.byExtension[strings.ToLower(ext)]
	if !ok {
		return Language{}, false
	}
	return r.Get(name)
}

// Known reports whether path has a registered extension
func (r *Languages) Known(path string) bool {
	_, ok := r.GetByExtension(filepath.Ext(path))
	return ok
}

// ForFile picks the language for path, falling back to the default
// language and finally to Python.
func (r *Languages) ForFile(path string) Language {
	if lang, ok := r.GetByExtension(filepath.Ext(path)); ok {
		return lang
	}
	if lang, ok := r.Get(r.fallback); ok {
		return lang
	}
	return Python
}
