package cmd

import (
	"github.com/re-centris/bpreg/internal/common/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive breakpoint session",
	Long: `Read breakpoint commands (bpadd, bprm, bplist, help) from standard
input until EOF, "quit" or "exit". Failed commands print an error and the
session continues.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().StringP("prompt", "p", "(bp) ", "Prompt printed before each command")

	viper.BindPFlag("shell.prompt", shellCmd.Flags().Lookup("prompt"))
}

func runShell(cmd *cobra.Command, args []string) error {
	s := newSession(cfg, cmd.OutOrStdout())
	defer s.Close()

	logger.Info("Session started", zap.String("session", s.ID()))

	return s.Run(cmd.InOrStdin(), cfg.Shell.Prompt, false)
}
