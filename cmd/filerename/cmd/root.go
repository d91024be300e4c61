package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"filerename/internal/adapters/filesystem"
	"filerename/internal/config"
	"filerename/internal/logger"
)

var (
	configPath string
	logLevel   string

	cfg        *config.Config
	consoleLog *logger.ConsoleLogger
	fsys       = filesystem.New()
)

// errTasksFailed is returned when a run finished but left failed jobs behind
var errTasksFailed = errors.New("one or more files could not be renamed")

var rootCmd = &cobra.Command{
	Use:   "filerename",
	Short: "Batch-rename files with template markers",
	Long: `filerename renames every file in a directory whose name matches an
input template, building each new name from an output template.

Templates are regular expressions with markers:
  <<E>> / <<E|%03d>>      running number (output only)
  <<R|regex>> / <<R>>     copy the text matched by regex
  <<TS|yyyyMMdd>>         reformat a date found in the name
  <<CD>> / <<CD|yyyy>>    file creation date (output only)

Configuration is read from ` + config.DefaultConfigPath + ` (or $` + config.EnvConfigPath + `).
Flags override the configuration file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		consoleLog = logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ConfigPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}
