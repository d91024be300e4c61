package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"filerename/internal/adapters/report"
	"filerename/internal/application"
	"filerename/internal/application/commands"
)

var runFlags taskFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rename matching files",
	Long: `Rename (or copy) every file under --path whose name matches the input
template. Several --input/--output pairs may be given; each pair is an
independent task and the tasks run concurrently.

Examples:
  filerename run -p ~/Pictures -i 'IMG_<<TS|yyyyMMdd_HHmmss>>.jpg' -o '<<TS|yyyy-MM-dd>>_<<E|%03d>>.jpg'
  filerename run -p . -r -i '<<R|[a-z]+>>.txt' -o '<<CD|yyyyMMdd>>_<<R>>.txt' --dry
  filerename run -p scans -i 'scan<<R|\d+>>.pdf' -o 'doc_<<R>>.pdf' --copy --collision enumerate
  filerename run -p . -i 'a.txt' -o 'b.txt' --report report.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mergeFlags(cmd, cfg, &runFlags); err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd.Context(), cfg.Timeout)
		defer cancel()

		results, err := executeTasks(ctx, cfg, &runFlags, runFlags.dryRun, consoleLog)
		printResults(cmd.OutOrStdout(), results)

		if runFlags.report != "" && len(results) > 0 {
			if werr := report.Write(runFlags.report, results); werr != nil {
				consoleLog.Errorf("report: %v", werr)
			} else {
				consoleLog.Infof("report written to %s", runFlags.report)
			}
		}

		if err != nil {
			return err
		}
		if anyFailed(results) {
			return errTasksFailed
		}
		return nil
	},
}

// printResults writes one summary line per task and one line per failed job
func printResults(w io.Writer, results []*commands.TaskResult) {
	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	for _, r := range results {
		if r == nil {
			continue
		}
		line := ok
		if r.Status == application.TaskFailure || r.Count(application.JobFailed) > 0 {
			line = bad
		}
		line.Fprintln(w, r.Summary())
		for _, j := range r.Jobs {
			switch {
			case j.Err != nil:
				fmt.Fprintf(w, "  %s %s: %v\n", bad.Sprint("✗"), j.Source, j.Err)
			case j.Unchanged:
				dim.Fprintf(w, "  = %s (unchanged)\n", j.Source)
			case j.DryRun:
				fmt.Fprintf(w, "  %s -> %s\n", j.Source, j.Target)
			}
		}
	}
}

func init() {
	addTaskFlags(runCmd, &runFlags)
	runCmd.Flags().BoolVarP(&runFlags.dryRun, "dry", "d", false, "only print the planned renames")
	rootCmd.AddCommand(runCmd)
}
