package cmd

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"filerename/internal/adapters/report"
	"filerename/internal/adapters/tui"
	"filerename/internal/application/commands"
	"filerename/internal/logger"
)

var previewFlags taskFlags

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview renames interactively and confirm before applying",
	Long: `Open an interactive list of every planned rename. Nothing changes on disk
until the plan is confirmed with enter, then y.

Example:
  filerename preview -p ~/Pictures -i 'IMG_<<TS|yyyyMMdd>>.jpg' -o '<<TS|yyyy-MM-dd>>.jpg'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return errors.New("preview needs an interactive terminal; use 'filerename run --dry' instead")
		}
		if err := mergeFlags(cmd, cfg, &previewFlags); err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd.Context(), cfg.Timeout)
		defer cancel()

		// Log lines would tear the alternate screen
		run := func(ctx context.Context, dryRun bool) ([]*commands.TaskResult, error) {
			return executeTasks(ctx, cfg, &previewFlags, dryRun, logger.NopLogger{})
		}
		app := tui.NewApp(ctx, run, cfg.Copy)

		if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
			return err
		}
		if !app.Applied() {
			return nil
		}

		results := app.Results()
		printResults(cmd.OutOrStdout(), results)
		if previewFlags.report != "" && len(results) > 0 {
			if err := report.Write(previewFlags.report, results); err != nil {
				consoleLog.Errorf("report: %v", err)
			}
		}
		if err := app.Err(); err != nil {
			return err
		}
		if anyFailed(results) {
			return errTasksFailed
		}
		return nil
	},
}

func init() {
	addTaskFlags(previewCmd, &previewFlags)
	rootCmd.AddCommand(previewCmd)
}
