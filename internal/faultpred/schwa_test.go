package faultpred

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner fakes tool invocations by command name.
type scriptedRunner struct {
	output string // written to w when the schwa report is requested
	fail   map[string]bool
	calls  []string
}

func (r *scriptedRunner) run(ctx context.Context, w io.Writer, name string, args ...string) error {
	key := name
	if len(args) > 0 && args[0] == "-m" {
		key = name + " -m " + args[1]
	}
	r.calls = append(r.calls, key)
	if r.fail[key] {
		return errors.New("exit status 1")
	}
	if name == "schwa" && len(args) == 2 && args[1] == "-j" {
		fmt.Fprint(w, r.output)
	}
	return nil
}

func TestSchwa_Rank_ParsesFiltersAndSorts(t *testing.T) {
	runner := &scriptedRunner{
		output: `{"children": [
			{"path": "src/Low.java", "prob": 0.2},
			{"path": "docs/notes.md", "prob": 0.99},
			{"path": "src/High.java", "prob": 0.8}
		]}`,
	}
	s := &Schwa{Extension: ".java", Direction: DirectionDescending, Runner: runner.run}

	units, err := s.Rank(context.Background(), "/project")
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "src/High.java", units[0].Path)
	assert.Equal(t, "src/Low.java", units[1].Path)
}

func TestSchwa_Rank_ToolFailure(t *testing.T) {
	runner := &scriptedRunner{fail: map[string]bool{"schwa": true}}
	s := &Schwa{Extension: ".java", Direction: DirectionDescending, Runner: runner.run}

	_, err := s.Rank(context.Background(), "/project")
	require.Error(t, err)
	assert.True(t, IsToolError(err))
}

func TestSchwa_Rank_UnparseableOutput(t *testing.T) {
	runner := &scriptedRunner{output: "this is not json"}
	s := &Schwa{Extension: ".java", Direction: DirectionDescending, Runner: runner.run}

	_, err := s.Rank(context.Background(), "/project")
	require.Error(t, err)
	assert.True(t, IsToolError(err), "unparseable output degrades, it does not crash")
}

func TestCheckInstallation_AllPresent(t *testing.T) {
	runner := &scriptedRunner{}
	assert.NoError(t, CheckInstallation(context.Background(), runner.run))
}

func TestCheckInstallation_MissingPython(t *testing.T) {
	runner := &scriptedRunner{fail: map[string]bool{"python3": true}}
	err := CheckInstallation(context.Background(), runner.run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "python3")
}

func TestCheckInstallation_SchwaViaModuleFallback(t *testing.T) {
	runner := &scriptedRunner{fail: map[string]bool{"schwa": true}}
	assert.NoError(t, CheckInstallation(context.Background(), runner.run))
	assert.Contains(t, runner.calls, "python3 -m schwa")
}

func TestCheckInstallation_SchwaMissingEverywhere(t *testing.T) {
	runner := &scriptedRunner{fail: map[string]bool{"schwa": true, "python3 -m schwa": true}}
	err := CheckInstallation(context.Background(), runner.run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schwa is not installed")
}
