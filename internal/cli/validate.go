package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjbreeze/kanonizo/internal/config"
	"github.com/zjbreeze/kanonizo/internal/faultpred"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	ConfigFile string
	CheckTool  bool

	// Runner overrides tool invocation during prerequisite checks (for
	// testing). Nil uses os/exec.
	Runner faultpred.CommandRunner
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return newValidateCommand(&ValidateOptions{RootOptions: rootOpts})
}

// newValidateCommand builds the command around pre-seeded options; tests
// use it to inject a scripted tool runner.
func newValidateCommand(opts *ValidateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and run preconditions",
		Long: `Validate the configuration file against the schema, check that the
configured input files are readable, and optionally verify that the
external fault-prediction tool is installed and runnable.

Example:
  kanonizo validate --config kanonizo.yaml
  kanonizo validate --config kanonizo.yaml --check-tool`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "path to YAML configuration (required)")
	cmd.Flags().BoolVar(&opts.CheckTool, "check-tool", false, "verify the fault-prediction tool is runnable")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// validateResult is the JSON payload of a validation run.
type validateResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		_ = formatter.Error("CONFIG_INVALID", err.Error(), nil)
		return WrapExitError(ExitFailure, "configuration invalid", err)
	}

	var issues []string
	for _, f := range []struct{ label, path string }{
		{"history file", cfg.HistoryFile},
		{"coverage file", cfg.CoverageFile},
		{"candidates file", cfg.CandidatesFile},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			issues = append(issues, fmt.Sprintf("%s %s is not readable: %v", f.label, f.path, err))
		}
	}

	if opts.CheckTool {
		if cfg.ProjectRoot == "" {
			issues = append(issues, "project root must be set to run the fault-prediction tool")
		}
		if err := faultpred.CheckInstallation(ctx, opts.Runner); err != nil {
			issues = append(issues, err.Error())
		}
	}

	result := validateResult{Valid: len(issues) == 0, Issues: issues}
	if !result.Valid {
		var b strings.Builder
		for _, issue := range issues {
			fmt.Fprintf(&b, "FAIL %s\n", issue)
		}
		if err := formatter.SuccessWith(result, b.String()); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
	}
	return formatter.SuccessWith(result, "configuration valid\n")
}
