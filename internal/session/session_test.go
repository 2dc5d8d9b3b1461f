package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/re-centris/bpreg/internal/breakpoint"
)

const modSource = `import os

def foo():
    pass

def foo(a):
    pass

def bar(x):
    return x
`

func newTestSession(t *testing.T) (*Session, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	if err := os.WriteFile(path, []byte(modSource), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	return New(Options{Out: &out}), &out, path
}

func TestSession_AddAndList(t *testing.T) {
	s, out, path := newTestSession(t)

	commands := []string{
		"bpadd " + path + " 3",
		"bpadd " + path + ` -f bar -t -c "x > 1 and y"`,
		"bpadd " + path + " 2 --regex '^\\s+pass'",
	}
	for _, line := range commands {
		if err := s.Execute(line); err != nil {
			t.Fatalf("Execute(%q) error = %v", line, err)
		}
	}
	if out.Len() != 0 {
		t.Errorf("bpadd printed %q, want nothing", out.String())
	}

	specs := s.Registry().Specs()
	if len(specs) != 3 {
		t.Fatalf("got %d breakpoints, want 3", len(specs))
	}
	if specs[1].Line() != 9 || specs[1].Condition() != "x > 1 and y" || !specs[1].Temporary() {
		t.Errorf("second breakpoint = %s cond=%q temp=%v", specs[1], specs[1].Condition(), specs[1].Temporary())
	}
	if specs[2].Pattern() != `^\s+pass` {
		t.Errorf("third breakpoint pattern = %q", specs[2].Pattern())
	}

	if err := s.Execute("bplist -v"); err != nil {
		t.Fatalf("bplist error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if lines[0] != breakpoint.Title {
		t.Errorf("first line = %q, want %q", lines[0], breakpoint.Title)
	}
	// title, header, three entries, two expanded pattern rows
	if len(lines) != 7 {
		t.Fatalf("bplist -v printed %d lines:\n%s", len(lines), out.String())
	}
	if !strings.HasSuffix(lines[3], "bar") || !strings.Contains(lines[3], "x > 1 and y") {
		t.Errorf("function row = %q", lines[3])
	}
	if fields := strings.Fields(lines[5]); fields[0] != "4" {
		t.Errorf("first expanded row = %q, want line 4", lines[5])
	}
}

func TestSession_Remove(t *testing.T) {
	s, _, path := newTestSession(t)
	for _, line := range []string{"bpadd " + path + " 1", "bpadd " + path + " 2"} {
		if err := s.Execute(line); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		line    string
		wantMsg string
	}{
		{"bprm 3", "bpnum > total number of breakpoints"},
		{"bprm 0", "bpnum <= 0"},
		{"bprm -1", "bpnum <= 0"},
		{"bprm one", `invalid breakpoint number "one"`},
	}
	for _, tt := range tests {
		err := s.Execute(tt.line)
		if err == nil || err.Error() != tt.wantMsg {
			t.Errorf("Execute(%q) error = %v, want %q", tt.line, err, tt.wantMsg)
		}
	}
	if s.Registry().Len() != 2 {
		t.Fatalf("Len() = %d after failed removals, want 2", s.Registry().Len())
	}

	if err := s.Execute("bprm 1"); err != nil {
		t.Fatalf("bprm 1 error = %v", err)
	}
	if specs := s.Registry().Specs(); len(specs) != 1 || specs[0].Line() != 2 {
		t.Errorf("remaining = %v, want the line 2 breakpoint", specs)
	}
}

func TestSession_Errors(t *testing.T) {
	s, _, path := newTestSession(t)

	var amb *breakpoint.AmbiguousFunctionError
	if err := s.Execute("bpadd " + path + " -f foo"); !errors.As(err, &amb) {
		t.Errorf("ambiguous add error = %v", err)
	} else if !strings.Contains(err.Error(), "[3, 6]") {
		t.Errorf("ambiguous message = %q, want candidate lines", err.Error())
	}

	if err := s.Execute("bpadd " + path); !errors.Is(err, breakpoint.ErrMissingLocation) {
		t.Errorf("missing location error = %v", err)
	}
	if err := s.Execute("bpadd " + path + " 0"); !errors.Is(err, breakpoint.ErrInvalidLine) {
		t.Errorf("zero line error = %v", err)
	}
	if err := s.Execute("bpadd " + path + " x"); err == nil {
		t.Error("expected error for non-numeric line")
	}
	if err := s.Execute("bpadd"); err == nil {
		t.Error("expected error for missing file argument")
	}
	if err := s.Execute("bplist extra"); err == nil {
		t.Error("expected error for bplist argument")
	}
	if err := s.Execute(`bpadd "unterminated`); err == nil {
		t.Error("expected error for unbalanced quote")
	}

	var unknown *UnknownCommandError
	if err := s.Execute("bpdel 1"); !errors.As(err, &unknown) || unknown.Name != "bpdel" {
		t.Errorf("unknown command error = %v", err)
	}

	if s.Registry().Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Registry().Len())
	}
	if err := s.Execute("   "); err != nil {
		t.Errorf("blank line error = %v", err)
	}

	stats := s.Stats()
	if stats.Commands["bpadd"] != 5 || stats.Commands["unknown"] != 1 {
		t.Errorf("stats = %+v", stats.Commands)
	}
}

func TestSession_NegativeLine(t *testing.T) {
	s, _, path := newTestSession(t)

	if err := s.Execute("bpadd " + path + " -5 -f bar"); err != nil {
		t.Fatalf("negative line with function error = %v", err)
	}
	if err := s.Execute("bpadd " + path + " -5"); !errors.Is(err, breakpoint.ErrInvalidLine) {
		t.Errorf("negative line error = %v, want ErrInvalidLine", err)
	}
	if err := s.Execute("bpadd " + path + " -tc -2 4"); err != nil {
		t.Fatalf("negative condition error = %v", err)
	}

	specs := s.Registry().Specs()
	if len(specs) != 2 {
		t.Fatalf("got %d breakpoints, want 2", len(specs))
	}
	if specs[0].Line() != 9 || specs[0].Funcname() != "bar" {
		t.Errorf("first breakpoint = %s funcname=%q, want line 9 of bar", specs[0], specs[0].Funcname())
	}
	if specs[1].Line() != 4 || specs[1].Condition() != "-2" || !specs[1].Temporary() {
		t.Errorf("second breakpoint = %s cond=%q temp=%v", specs[1], specs[1].Condition(), specs[1].Temporary())
	}
}

func TestSession_FlagsDoNotLeak(t *testing.T) {
	s, _, path := newTestSession(t)

	if err := s.Execute("bpadd " + path + " 1 -t -c cond"); err != nil {
		t.Fatal(err)
	}
	if err := s.Execute("bpadd " + path + " 2"); err != nil {
		t.Fatal(err)
	}

	second := s.Registry().Specs()[1]
	if second.Temporary() || second.Condition() != "" {
		t.Errorf("second breakpoint inherited flags: temp=%v cond=%q", second.Temporary(), second.Condition())
	}
}

func TestSession_Help(t *testing.T) {
	s, out, _ := newTestSession(t)

	if err := s.Execute("help"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"bpadd", "bprm", "bplist"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("help output missing %s:\n%s", name, out.String())
		}
	}
}

func TestSession_Run(t *testing.T) {
	s, out, path := newTestSession(t)

	script := strings.Join([]string{
		"# set up",
		"bpadd " + path + " 1",
		"",
		"bprm 9",
		"bpadd " + path + " -f bar",
		"quit",
		"bpadd " + path + " 5",
	}, "\n")

	if err := s.Run(strings.NewReader(script), "", false); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Registry().Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Registry().Len())
	}
	if !strings.Contains(out.String(), "Error: bpnum > total number of breakpoints") {
		t.Errorf("output = %q, want removal error", out.String())
	}
}

func TestSession_RunStopOnError(t *testing.T) {
	s, out, path := newTestSession(t)

	script := "bpadd " + path + " -f nothere\nbpadd " + path + " 1\n"
	err := s.Run(strings.NewReader(script), "(bp) ", true)

	var nf *breakpoint.FunctionNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Run() error = %v, want FunctionNotFoundError", err)
	}
	if s.Registry().Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Registry().Len())
	}
	if !strings.HasPrefix(out.String(), "(bp) ") {
		t.Errorf("output = %q, want prompt", out.String())
	}
}
