package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjbreeze/kanonizo/internal/faultpred"
	"github.com/zjbreeze/kanonizo/internal/store"
	"github.com/zjbreeze/kanonizo/internal/testutil"
)

// fixture is an on-disk project with a config file, coverage dump,
// candidate list and history log, mirroring the inputs a real run sees.
type fixture struct {
	dir        string
	configPath string
	units      []faultpred.FaultUnit
}

// newFixture builds the reference scenario: fault ranking [F1, F2], test
// t1 covers F1, t2 covers F2, t3 covers nothing.
func newFixture(t *testing.T, extraConfig string) *fixture {
	t.Helper()
	dir := t.TempDir()

	srcDir := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	for _, name := range []string{"F1", "F2"} {
		content := fmt.Sprintf("package com.example;\n\npublic class %s {}\n", name)
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name+".java"), []byte(content), 0o644))
	}

	coverage := `{
		"classes": {
			"com.example.F1": [1, 2],
			"com.example.F2": [1, 2]
		},
		"tests": {
			"com.example.F1Test::t1": {"com.example.F1": [1]},
			"com.example.F2Test::t2": {"com.example.F2": [2]},
			"com.example.OtherTest::t3": {}
		}
	}`
	coveragePath := filepath.Join(dir, "coverage.json")
	require.NoError(t, os.WriteFile(coveragePath, []byte(coverage), 0o644))

	candidates := "com.example.F1Test::t1\ncom.example.F2Test::t2\ncom.example.OtherTest::t3\n"
	candidatesPath := filepath.Join(dir, "tests.txt")
	require.NoError(t, os.WriteFile(candidatesPath, []byte(candidates), 0o644))

	historyPath := testutil.WriteHistoryLog(t,
		testutil.HistoryRow(1, "com.example.F1Test::t1", 120, "fail"),
		testutil.HistoryRow(2, "com.example.F1Test::t1", 100, "pass"),
		testutil.HistoryRow(3, "com.example.F1Test::t1", 90, "fail"),
	)

	configYAML := fmt.Sprintf(`
history_file: %s
project_root: %s
coverage_file: %s
candidates_file: %s
group_size: 1
%s`, historyPath, dir, coveragePath, candidatesPath, extraConfig)
	configPath := filepath.Join(dir, "kanonizo.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o644))

	return &fixture{
		dir:        dir,
		configPath: configPath,
		units: []faultpred.FaultUnit{
			{Path: filepath.Join("src", "F1.java"), Prob: 0.9},
			{Path: filepath.Join("src", "F2.java"), Prob: 0.4},
		},
	}
}

func executePrioritize(t *testing.T, opts *PrioritizeOptions, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newPrioritizeCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestPrioritize_TextOutput(t *testing.T) {
	fx := newFixture(t, "")
	opts := &PrioritizeOptions{
		RootOptions: &RootOptions{Format: "text"},
		Provider:    faultpred.Static{Units: fx.units},
	}

	buf, err := executePrioritize(t, opts, "--config", fx.configPath)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "prioritize_ordering", buf.Bytes())
}

func TestPrioritize_JSONOutput(t *testing.T) {
	fx := newFixture(t, "")
	opts := &PrioritizeOptions{
		RootOptions: &RootOptions{Format: "json"},
		Provider:    faultpred.Static{Units: fx.units},
	}

	buf, err := executePrioritize(t, opts, "--config", fx.configPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	tests, ok := data["tests"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{
		"t1(com.example.F1Test)",
		"t2(com.example.F2Test)",
		"t3(com.example.OtherTest)",
	}, tests)
}

func TestPrioritize_ToolFailureFallsBackToInputOrder(t *testing.T) {
	fx := newFixture(t, "")
	opts := &PrioritizeOptions{
		RootOptions: &RootOptions{Format: "json"},
		Provider:    failingProvider{},
	}

	buf, err := executePrioritize(t, opts, "--config", fx.configPath)
	require.NoError(t, err, "a failed tool run degrades, it does not abort")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	tests := data["tests"].([]interface{})
	assert.Equal(t, []interface{}{
		"t1(com.example.F1Test)",
		"t2(com.example.F2Test)",
		"t3(com.example.OtherTest)",
	}, tests, "fallback preserves candidate input order")
}

func TestPrioritize_SecondaryObjectiveFromConfig(t *testing.T) {
	fx := newFixture(t, "secondary_objective: name\n")
	opts := &PrioritizeOptions{
		RootOptions: &RootOptions{Format: "json"},
		// Empty ranking: only the fallback wave, sorted by name.
		Provider: faultpred.Static{},
	}

	buf, err := executePrioritize(t, opts, "--config", fx.configPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	tests := data["tests"].([]interface{})
	assert.Equal(t, []interface{}{
		"t1(com.example.F1Test)",
		"t2(com.example.F2Test)",
		"t3(com.example.OtherTest)",
	}, tests)
}

func TestPrioritize_PersistsRun(t *testing.T) {
	fx := newFixture(t, "")
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	opts := &PrioritizeOptions{
		RootOptions: &RootOptions{Format: "json"},
		Provider:    faultpred.Static{Units: fx.units},
		IDGen:       store.NewFixedGenerator("run-0001"),
		Now:         func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) },
	}

	_, err := executePrioritize(t, opts, "--config", fx.configPath, "--db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.GetRun(context.Background(), "run-0001")
	require.NoError(t, err)
	require.Len(t, run.Tests, 3)
	assert.Equal(t, "t1(com.example.F1Test)", run.Tests[0].TestName)
	assert.Equal(t, 3, run.Tests[0].Executions, "history stats snapshotted at emission")
	assert.Equal(t, 2, run.Tests[0].Failures)
	assert.Equal(t, 0, run.Tests[0].LastFailure)
	assert.Equal(t, -1, run.Tests[1].LastFailure, "never-failed sentinel persists as -1")
}

func TestPrioritize_MissingConfigFile(t *testing.T) {
	opts := &PrioritizeOptions{
		RootOptions: &RootOptions{Format: "text"},
		Provider:    faultpred.Static{},
	}

	_, err := executePrioritize(t, opts, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPrioritize_MissingCoverageFile(t *testing.T) {
	fx := newFixture(t, "")
	// Point the config at a coverage file that does not exist.
	content, err := os.ReadFile(fx.configPath)
	require.NoError(t, err)
	broken := bytes.Replace(content, []byte("coverage.json"), []byte("gone.json"), 1)
	require.NoError(t, os.WriteFile(fx.configPath, broken, 0o644))

	opts := &PrioritizeOptions{
		RootOptions: &RootOptions{Format: "text"},
		Provider:    faultpred.Static{},
	}
	_, err = executePrioritize(t, opts, "--config", fx.configPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// failingProvider simulates an unusable tool run.
type failingProvider struct{}

func (failingProvider) Rank(ctx context.Context, projectRoot string) ([]faultpred.FaultUnit, error) {
	return nil, &faultpred.ToolError{Message: "exit status 1"}
}
