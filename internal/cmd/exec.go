package cmd

import (
	"fmt"
	"os"

	"github.com/re-centris/bpreg/internal/common/logger"
	"github.com/re-centris/bpreg/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var execCmd = &cobra.Command{
	Use:   "exec SCRIPT...",
	Short: "Run breakpoint commands from files",
	Long: `Run the breakpoint commands in each SCRIPT line by line in one session.
Blank lines and lines starting with # are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().Bool("stop-on-error", false, "Abort on the first failing command")
}

func runExec(cmd *cobra.Command, args []string) error {
	stopOnError, err := cmd.Flags().GetBool("stop-on-error")
	if err != nil {
		return err
	}

	s := newSession(cfg, cmd.OutOrStdout())
	defer s.Close()

	for _, script := range args {
		if err := runScript(s, script, stopOnError); err != nil {
			return err
		}
		logger.Debug("Script finished",
			zap.String("session", s.ID()),
			zap.String("script", script))
	}
	return nil
}

// runScript feeds the lines of one file to the session
func runScript(s *session.Session, script string, stopOnError bool) error {
	f, err := os.Open(script)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	if err := s.Run(f, "", stopOnError); err != nil {
		return fmt.Errorf("%s: %w", script, err)
	}
	return nil
}
