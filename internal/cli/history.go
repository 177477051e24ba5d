package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjbreeze/kanonizo/internal/config"
	"github.com/zjbreeze/kanonizo/internal/history"
	"github.com/zjbreeze/kanonizo/internal/model"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	ConfigFile string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <class::method>...",
		Short: "Query execution-history statistics for tests",
		Long: `Load the configured history log and print the aggregate statistics
for each named test: execution count, failure count and the distance to
the most recent failure (0 means the last run failed).

Tests absent from the log report zero executions and no failures.

Example:
  kanonizo history --config kanonizo.yaml com.example.FooTest::testBar`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "path to YAML configuration (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// testStats is the JSON payload per queried test.
type testStats struct {
	Test        string `json:"test"`
	Executions  int    `json:"executions"`
	Failures    int    `json:"failures"`
	HasFailed   bool   `json:"has_failed"`
	LastFailure int    `json:"last_failure"` // -1 when never failed
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command, args []string) error {
	setupLogging(opts.RootOptions)

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	reg := model.NewTestRegistry()
	h := history.NewStore()
	if err := h.Init(reg, cfg.HistoryFile); err != nil {
		if history.IsConfigError(err) {
			return WrapExitError(ExitCommandError, "history log not usable", err)
		}
		return WrapExitError(ExitFailure, "history log malformed", err)
	}

	stats := make([]testStats, 0, len(args))
	for _, raw := range args {
		tc, err := reg.Resolve(raw)
		if err != nil {
			return WrapExitError(ExitCommandError, "bad test name", err)
		}
		stats = append(stats, testStats{
			Test:        tc.Name(),
			Executions:  h.ExecutionCount(tc),
			Failures:    h.FailureCount(tc),
			HasFailed:   h.HasFailed(tc),
			LastFailure: snapshotLastFailure(h, tc),
		})
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	return formatter.SuccessWith(stats, renderStats(stats))
}

func renderStats(stats []testStats) string {
	var b strings.Builder
	for _, s := range stats {
		last := "never"
		if s.LastFailure >= 0 {
			last = fmt.Sprintf("%d", s.LastFailure)
		}
		fmt.Fprintf(&b, "%s: executions=%d failures=%d last_failure=%s\n",
			s.Test, s.Executions, s.Failures, last)
	}
	return b.String()
}
