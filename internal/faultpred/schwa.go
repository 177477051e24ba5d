package faultpred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ToolError reports a failed or unusable run of the external analysis
// tool. Callers should treat it as "no signal available" and proceed with
// an empty ranking; it is never a reason to abort the run.
type ToolError struct {
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fault-prediction tool: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("fault-prediction tool: %s", e.Message)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// IsToolError reports whether err came from a failed tool run.
func IsToolError(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}

// CommandRunner starts an external process and waits for it, streaming
// stdout into w. A non-nil error is returned for a non-zero exit code.
// Abstracted so tests can run the adapter without process execution.
type CommandRunner func(ctx context.Context, w io.Writer, name string, args ...string) error

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, w io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = w
	return cmd.Run()
}

// Schwa runs the schwa defect-prediction tool over the project root and
// parses its JSON report into a fault ranking.
//
// Invocation contract: `schwa <root> -j` writes a document with a
// `children` collection, each entry exposing a file `path` and a numeric
// `prob`. Exit code 0 signals success. Entries that are not source files
// are filtered out, and the survivors are sorted in the configured
// direction.
type Schwa struct {
	// Extension identifies production source files, e.g. ".java".
	Extension string

	// Direction controls which probability end ranks first.
	Direction Direction

	// Runner defaults to ExecRunner.
	Runner CommandRunner
}

// schwaRoot mirrors the tool's JSON report.
type schwaRoot struct {
	Children []FaultUnit `json:"children"`
}

// Rank implements Provider. Tool failures and unparseable output are
// returned as *ToolError.
func (s *Schwa) Rank(ctx context.Context, projectRoot string) ([]FaultUnit, error) {
	runner := s.Runner
	if runner == nil {
		runner = ExecRunner
	}

	out, err := os.CreateTemp("", "schwa-json-output-*.tmp")
	if err != nil {
		return nil, &ToolError{Message: "creating output file", Err: err}
	}
	defer os.Remove(out.Name())
	defer out.Close()

	if err := runner(ctx, out, "schwa", projectRoot, "-j"); err != nil {
		return nil, &ToolError{Message: "running schwa", Err: err}
	}

	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return nil, &ToolError{Message: "rewinding output file", Err: err}
	}
	var root schwaRoot
	if err := json.NewDecoder(out).Decode(&root); err != nil {
		return nil, &ToolError{Message: "parsing schwa output", Err: err}
	}

	units := FilterSource(root.Children, s.Extension)
	SortUnits(units, s.Direction)
	return units, nil
}

// CheckInstallation verifies the tool prerequisites: python3 on the path
// and schwa runnable either directly or as `python3 -m schwa`. Returns a
// descriptive error suitable for blocking the run up front.
func CheckInstallation(ctx context.Context, runner CommandRunner) error {
	if runner == nil {
		runner = ExecRunner
	}
	if err := runner(ctx, io.Discard, "python3", "--version"); err != nil {
		return fmt.Errorf("python3 is not installed or not executable on the system path: %w", err)
	}
	if err := runner(ctx, io.Discard, "schwa", "-h"); err != nil {
		if err := runner(ctx, io.Discard, "python3", "-m", "schwa", "-h"); err != nil {
			return fmt.Errorf("schwa is not installed; install it from https://github.com/andrefreitas/schwa: %w", err)
		}
	}
	return nil
}
