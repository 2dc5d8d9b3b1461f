// Package session hosts one breakpoint registry behind a small command
// language (bpadd, bprm, bplist). Each command name maps to a cobra
// command factory; a fresh command is built per invocation so flags never
// leak between calls and arguments are validated before the handler runs.
package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
	"github.com/re-centris/bpreg/internal/breakpoint"
	"github.com/re-centris/bpreg/internal/common/logger"
	"github.com/re-centris/bpreg/internal/common/monitor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CommandFactory builds a command bound to a session
type CommandFactory func(s *Session) *cobra.Command

// UnknownCommandError reports a command name missing from the dispatch table
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q, try \"help\"", e.Name)
}

// Options contains options for a session
type Options struct {
	Registry *breakpoint.Registry
	Out      io.Writer
	Monitor  *monitor.Monitor
}

// Session owns a registry and dispatches command lines to it
type Session struct {
	id       string
	registry *breakpoint.Registry
	out      io.Writer
	log      *zap.Logger
	monitor  *monitor.Monitor
	commands map[string]CommandFactory
}

// New creates a session with the default command table
func New(opts Options) *Session {
	s := &Session{
		id:       uuid.NewString(),
		registry: opts.Registry,
		out:      opts.Out,
		monitor:  opts.Monitor,
	}
	if s.registry == nil {
		s.registry = breakpoint.NewRegistry(breakpoint.Options{})
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.monitor == nil {
		s.monitor = monitor.New()
	}
	s.log = logger.With(zap.String("session", s.id))

	s.commands = map[string]CommandFactory{
		"bpadd":  newAddCommand,
		"bprm":   newRemoveCommand,
		"bplist": newListCommand,
		"help":   newHelpCommand,
	}
	return s
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// Registry returns the session's breakpoint registry
func (s *Session) Registry() *breakpoint.Registry {
	return s.registry
}

// Stats returns the command statistics collected so far
func (s *Session) Stats() monitor.Stats {
	return s.monitor.GetStats()
}

// Commands returns the registered command names in sorted order
func (s *Session) Commands() []string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs one command line. Errors are returned, never printed.
func (s *Session) Execute(line string) error {
	words, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("parse command line: %w", err)
	}
	if len(words) == 0 {
		return nil
	}

	name := words[0]
	factory, ok := s.commands[name]
	if !ok {
		err := &UnknownCommandError{Name: name}
		s.monitor.Record("unknown", err)
		return err
	}

	cmd := factory(s)
	args := words[1:]
	if !cmd.DisableFlagParsing {
		args = positionalNegatives(cmd.Flags(), args)
	}
	cmd.SetArgs(args)
	cmd.SetOut(s.out)
	cmd.SetErr(s.out)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err = cmd.Execute()
	s.monitor.Record(name, err)
	if err != nil {
		s.log.Debug("Command failed",
			zap.String("command", name),
			zap.Error(err))
	}
	return err
}

// Run executes command lines from in until EOF, "quit" or "exit". Blank
// lines and lines starting with # are skipped. Failures are printed as
// "Error: <message>"; with stopOnError the first failure is also returned.
func (s *Session) Run(in io.Reader, prompt string, stopOnError bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt != "" {
			fmt.Fprint(s.out, prompt)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		if err := s.Execute(line); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			if stopOnError {
				return err
			}
		}
	}
	return scanner.Err()
}

// Close logs the session statistics
func (s *Session) Close() {
	s.monitor.Report(s.log)
}
