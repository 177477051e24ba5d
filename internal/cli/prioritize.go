package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjbreeze/kanonizo/internal/config"
	"github.com/zjbreeze/kanonizo/internal/engine"
	"github.com/zjbreeze/kanonizo/internal/faultpred"
	"github.com/zjbreeze/kanonizo/internal/model"
	"github.com/zjbreeze/kanonizo/internal/store"
)

// PrioritizeOptions holds flags for the prioritize command.
type PrioritizeOptions struct {
	*RootOptions
	ConfigFile string
	Database   string

	// Provider overrides the fault-signal provider (for testing).
	// If nil, the schwa subprocess adapter is used and its installation
	// prerequisites are checked up front.
	Provider faultpred.Provider

	// IDGen overrides the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGen store.RunIDGenerator

	// Now overrides the clock used for run timestamps (for testing).
	Now func() time.Time
}

// NewPrioritizeCommand creates the prioritize command.
func NewPrioritizeCommand(rootOpts *RootOptions) *cobra.Command {
	return newPrioritizeCommand(&PrioritizeOptions{RootOptions: rootOpts})
}

// newPrioritizeCommand builds the command around pre-seeded options;
// tests use it to inject a canned provider and fixed ids.
func newPrioritizeCommand(opts *PrioritizeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prioritize",
		Short: "Order the candidate tests by fault relevance",
		Long: `Order the candidate test suite so that tests covering the most
fault-prone source files run first.

The fault ranking comes from the external schwa analysis; tests are
selected in ranked waves of group_size fault units, with tests no fault
unit touches appended in input order. When --db is given the emitted
ordering is persisted for later reporting.

Example:
  kanonizo prioritize --config kanonizo.yaml
  kanonizo prioritize --config kanonizo.yaml --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrioritize(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "path to YAML configuration (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run persistence")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// prioritizeResult is the JSON payload of a successful run.
type prioritizeResult struct {
	RunID string   `json:"run_id,omitempty"`
	Tests []string `json:"tests"`
}

func runPrioritize(opts *PrioritizeOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	provider := opts.Provider
	if provider == nil {
		// Real tool run: prerequisites block the algorithm up front.
		if cfg.ProjectRoot == "" {
			return NewExitError(ExitCommandError, "project root must be set to run the fault-prediction tool")
		}
		if err := faultpred.CheckInstallation(ctx, nil); err != nil {
			return WrapExitError(ExitCommandError, "fault-prediction tool prerequisites not met", err)
		}
		provider = &faultpred.Schwa{
			Extension: cfg.SourceExtension,
			Direction: cfg.Ranking,
		}
	}

	p, err := loadPipeline(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "initialization failed", err)
	}
	slog.Info("pipeline ready",
		"candidates", len(p.candidates),
		"classes", p.classes.Len(),
		"history", cfg.HistoryFile != "")

	units, err := provider.Rank(ctx, cfg.ProjectRoot)
	if err != nil {
		if !faultpred.IsToolError(err) {
			return WrapExitError(ExitCommandError, "fault ranking failed", err)
		}
		// No signal available: proceed with an empty ranking so every
		// test is emitted through the fallback wave.
		slog.Warn("fault-prediction tool produced no usable ranking, falling back to input order", "error", err)
		units = nil
	}
	slog.Info("fault ranking loaded", "units", len(units))

	eng, err := engine.NewFaultEngine(engine.Config{
		Coverage:        p.coverage,
		Classes:         p.classes,
		ProjectRoot:     cfg.ProjectRoot,
		SourceExtension: cfg.SourceExtension,
		GroupSize:       cfg.GroupSize,
		Comparator:      comparatorFor(cfg, p.coverage),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "engine configuration invalid", err)
	}
	eng.Init(units)

	ordered, err := engine.Drain(eng, engine.NewCandidateList(p.candidates))
	if err != nil {
		return WrapExitError(ExitCommandError, "selection failed", err)
	}

	result := prioritizeResult{Tests: make([]string, len(ordered))}
	for i, tc := range ordered {
		result.Tests[i] = tc.Name()
	}

	if opts.Database != "" {
		result.RunID, err = persistRun(ctx, opts, cfg, p, ordered)
		if err != nil {
			return WrapExitError(ExitCommandError, "persisting run", err)
		}
		slog.Info("run recorded", "id", result.RunID, "db", opts.Database)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	return formatter.SuccessWith(result, renderOrdering(result))
}

// comparatorFor maps the configured secondary objective onto a comparator.
// Config validation already rejected unknown names.
func comparatorFor(cfg *config.Config, cov model.CoverageIndex) engine.Comparator {
	switch cfg.SecondaryObjective {
	case "greedy":
		return engine.Greedy(cov)
	case "name":
		return engine.ByName()
	default:
		return nil
	}
}

func persistRun(ctx context.Context, opts *PrioritizeOptions, cfg *config.Config, p *pipeline, ordered []*model.TestCase) (string, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	idGen := opts.IDGen
	if idGen == nil {
		idGen = store.UUIDv7Generator{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	run := store.Run{
		ID:          idGen.Generate(),
		CreatedAt:   now(),
		ProjectRoot: cfg.ProjectRoot,
		GroupSize:   cfg.GroupSize,
		Ranking:     string(cfg.Ranking),
	}
	for _, tc := range ordered {
		run.Tests = append(run.Tests, store.RunTest{
			TestName:    tc.Name(),
			Executions:  p.history.ExecutionCount(tc),
			Failures:    p.history.FailureCount(tc),
			LastFailure: snapshotLastFailure(p.history, tc),
		})
	}
	if err := st.RecordRun(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func renderOrdering(result prioritizeResult) string {
	var b strings.Builder
	for i, name := range result.Tests {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	if result.RunID != "" {
		fmt.Fprintf(&b, "recorded as run %s\n", result.RunID)
	}
	return b.String()
}

// setupLogging configures slog based on the verbose flag.
func setupLogging(opts *RootOptions) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
