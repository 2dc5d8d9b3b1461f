package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/re-centris/bpreg/internal/breakpoint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var negativeNumber = regexp.MustCompile(`^-[0-9]+$`)

func newAddCommand(s *Session) *cobra.Command {
	var req breakpoint.AddRequest

	cmd := &cobra.Command{
		Use:   "bpadd FILE [LINE]",
		Short: "Add a breakpoint to the breakpoint list",
		Long: `Add a breakpoint by line number, function name (-f) or pattern (-r).
FILE is a path or a dotted module specifier. A function name takes
precedence over a pattern, and a pattern over a line number.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.FileRef = args[0]
			if len(args) == 2 {
				line, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid line number %q", args[1])
				}
				if line < 1 && req.Function == "" && req.Pattern == "" {
					return breakpoint.ErrInvalidLine
				}
				req.Line = line
			}

			_, err := s.registry.Add(req)
			return err
		},
	}

	cmd.Flags().BoolVarP(&req.Temporary, "temporary", "t", false, "Flag if breakpoint should only be used once")
	cmd.Flags().StringVarP(&req.Condition, "condition", "c", "", "Boolean condition to evaluate at breakpoint context")
	cmd.Flags().StringVarP(&req.Function, "funcname", "f", "", "Name of function in file")
	cmd.Flags().StringVarP(&req.Pattern, "regex", "r", "", "Regex that will be used to match lines for breakpoints")

	return cmd
}

func newRemoveCommand(s *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "bprm NUM",
		Short: "Remove a breakpoint from the breakpoint list",
		Args:  cobra.ExactArgs(1),
		// flag parsing would reject negative numbers
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid breakpoint number %q", args[0])
			}
			_, err = s.registry.Remove(num)
			return err
		},
	}
}

func newListCommand(s *Session) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bplist",
		Short: "List the breakpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := s.registry.List(verbose)
			if err != nil {
				return err
			}
			return breakpoint.Render(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show line numbers matching regex")
	return cmd
}

func newHelpCommand(s *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "List available commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range s.Commands() {
				fmt.Fprintf(out, "  %-8s %s\n", name, s.commands[name](s).Short)
			}
			fmt.Fprintln(out, "Use \"<command> --help\" for details.")
			return nil
		},
	}
}

// positionalNegatives moves negative numbers that are not flag values
// behind a "--" so pflag reads them as arguments instead of shorthand
// flags. Other words keep their relative order. args is returned as is
// when it holds no such number.
func positionalNegatives(flags *pflag.FlagSet, args []string) []string {
	var (
		options    []string
		positional []string
		found      bool
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case negativeNumber.MatchString(arg):
			positional = append(positional, arg)
			found = true
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			options = append(options, arg)
			if takesNextWord(flags, arg) && i+1 < len(args) {
				i++
				options = append(options, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	if !found {
		return args
	}
	return append(append(options, "--"), positional...)
}

// takesNextWord reports whether the flag word arg consumes the following
// word as its value
func takesNextWord(flags *pflag.FlagSet, arg string) bool {
	if strings.HasPrefix(arg, "--") {
		name := arg[2:]
		if strings.Contains(name, "=") {
			return false
		}
		flag := flags.Lookup(name)
		return flag != nil && flag.NoOptDefVal == ""
	}

	// shorthands may be combined (-tc COND) or carry the value (-cCOND)
	shorthands := arg[1:]
	for i, c := range shorthands {
		if c >= utf8.RuneSelf {
			return false
		}
		flag := flags.ShorthandLookup(string(c))
		if flag == nil {
			return false
		}
		if flag.NoOptDefVal == "" {
			return i == len(shorthands)-1
		}
	}
	return false
}
