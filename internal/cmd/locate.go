package cmd

import (
	"fmt"

	"github.com/re-centris/bpreg/internal/common/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var locateCmd = &cobra.Command{
	Use:   "locate FUNC PATH...",
	Short: "Find function definitions",
	Long: `Scan files and directories for definitions of FUNC and print them as
path:line: text. Directories are walked recursively and only files with a
configured language extension are scanned.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)

	locateCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (0 uses all CPU cores)")

	viper.BindPFlag("locator.max_workers", locateCmd.Flags().Lookup("workers"))
}

func runLocate(cmd *cobra.Command, args []string) error {
	name, roots := args[0], args[1:]

	logger.Info("Starting definition scan",
		zap.String("function", name),
		zap.Strings("paths", roots))

	matches, err := newLocator(cfg).Scan(cmd.Context(), name, roots, cfg.Locator.MaxWorkers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range matches {
		fmt.Fprintf(out, "%s:%d: %s\n", m.Path, m.Line, m.Text)
	}

	logger.Info("Definition scan completed",
		zap.Int("definitions", len(matches)))

	return nil
}
