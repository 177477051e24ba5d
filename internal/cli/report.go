package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjbreeze/kanonizo/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Inspect recorded prioritization runs",
		Long: `Without arguments, list all recorded runs newest first. With a run id,
print that run's full emission order together with the history statistics
snapshotted when it was produced.

Example:
  kanonizo report --db runs.db
  kanonizo report --db runs.db 0195f7a2-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command, args []string) error {
	setupLogging(opts.RootOptions)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if len(args) == 0 {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return formatter.SuccessWith(runs, renderRunList(runs))
	}

	run, err := st.GetRun(ctx, args[0])
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load run %s", args[0]), err)
	}
	return formatter.SuccessWith(run, renderRun(run))
}

func renderRunList(runs []store.Run) string {
	if len(runs) == 0 {
		return "no recorded runs\n"
	}
	var b strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&b, "%s  %s  root=%s group_size=%d ranking=%s\n",
			r.ID, r.CreatedAt.UTC().Format(time.RFC3339), r.ProjectRoot, r.GroupSize, r.Ranking)
	}
	return b.String()
}

func renderRun(run *store.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s (%s) root=%s group_size=%d ranking=%s\n",
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.ProjectRoot, run.GroupSize, run.Ranking)
	for _, rt := range run.Tests {
		last := "never"
		if rt.LastFailure >= 0 {
			last = fmt.Sprintf("%d", rt.LastFailure)
		}
		fmt.Fprintf(&b, "%4d. %s  executions=%d failures=%d last_failure=%s\n",
			rt.Seq, rt.TestName, rt.Executions, rt.Failures, last)
	}
	return b.String()
}
