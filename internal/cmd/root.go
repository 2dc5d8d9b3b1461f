package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/re-centris/bpreg/internal/breakpoint"
	"github.com/re-centris/bpreg/internal/common/logger"
	"github.com/re-centris/bpreg/internal/config"
	"github.com/re-centris/bpreg/internal/locator"
	"github.com/re-centris/bpreg/internal/resolver"
	"github.com/re-centris/bpreg/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bpreg",
	Short: "Breakpoint registry",
	Long: `bpreg keeps a list of breakpoints for a set of source files. Breakpoints
are declared by line number, function name or pattern and resolved to
concrete lines in the files they name.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./bpreg.yaml or $HOME/.config/bpreg/bpreg.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	return logger.Init(logger.Options{
		Debug:       cfg.Log.Debug,
		OutputPaths: cfg.Log.OutputPaths,
	})
}

// newLocator builds a locator from the configured language table
func newLocator(c *config.Config) *locator.Locator {
	names := make([]string, 0, len(c.Locator.Languages))
	for name := range c.Locator.Languages {
		names = append(names, name)
	}
	sort.Strings(names)

	languages := locator.NewLanguages(c.Locator.DefaultLanguage)
	for _, name := range names {
		settings := c.Locator.Languages[name]
		languages.Register(locator.Language{
			Name:       name,
			Keywords:   settings.Keywords,
			Extensions: settings.Extensions,
		})
	}

	return locator.New(locator.Options{
		Languages: languages,
		CacheSize: c.Locator.CacheSize,
	})
}

// newSession wires a registry and a session from the configuration
func newSession(c *config.Config, out io.Writer) *session.Session {
	registry := breakpoint.NewRegistry(breakpoint.Options{
		Finder: newLocator(c),
		Modules: resolver.NewSearchPathResolver(resolver.Options{
			SearchPaths: c.Resolver.SearchPaths,
			Extensions:  c.Resolver.Extensions,
			PackageFile: c.Resolver.PackageFile,
		}),
	})

	return session.New(session.Options{
		Registry: registry,
		Out:      out,
	})
}
