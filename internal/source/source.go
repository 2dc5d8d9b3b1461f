// Package source reads whole source files as UTF-8 text, honoring a coding
// declaration such as "# -*- coding: latin-1 -*-" on the first or second
// line.
package source

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	codingPattern = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)
	blankPattern  = regexp.MustCompile(`^[ \t\f]*(?:#.*)?$`)

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// encoding names that need no conversion, or that the IANA registry
// spells differently
var aliases = map[string]string{
	"utf-8-sig":   "utf-8",
	"utf8":        "utf-8",
	"latin-1":     "iso-8859-1",
	"latin1":      "iso-8859-1",
	"iso-latin-1": "iso-8859-1",
	"l1":          "iso-8859-1",
	"ascii":       "us-ascii",
	"646":         "us-ascii",
}

// Reader returns the decoded contents of a source file
type Reader interface {
	ReadSource(path string) (string, error)
}

// FileReader reads sources from the local file system
type FileReader struct{}

// ReadSource implements Reader
func (FileReader) ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// Decode converts data to UTF-8 using its coding declaration, if any
func Decode(data []byte) (string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return string(data[len(utf8BOM):]), nil
	}

	name := normalizeName(Coding(data))
	if name == "" || name == "utf-8" {
		return string(data), nil
	}

	if name == "us-ascii" {
		if i := bytes.IndexFunc(data, func(r rune) bool { return r >= 0x80 }); i >= 0 {
			return "", fmt.Errorf("decode %s: byte 0x%02x at offset %d out of range", name, data[i], i)
		}
		return string(data), nil
	}

	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(decoded), nil
}

// lookup resolves name in the IANA registry, then in the WHATWG index
// for labels such as cp1252 that IANA does not list. WHATWG maps the
// latin-1 names to windows-1252, so it is never consulted first.
func lookup(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err == nil && enc != nil {
		return enc, nil
	}
	enc, err = htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Coding returns the encoding named by a declaration on line one, or on
// line two when line one is blank or a comment. It returns "" when there
// is no declaration.
func Coding(data []byte) string {
	lines := bytes.SplitN(data, []byte("\n"), 3)
	for i, line := range lines {
		if i == 2 {
			break
		}
		line = bytes.TrimRight(line, "\r")
		if m := codingPattern.FindSubmatch(line); m != nil {
			return string(m[1])
		}
		if !blankPattern.Match(line) {
			break
		}
	}
	return ""
}

func normalizeName(name string) string {
	name = strings.ReplaceAll(strings.ToLower(name), "_", "-")
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}
