// Package config defines the immutable run configuration: YAML file
// loading, CUE schema validation and the up-front precondition checks
// that block a misconfigured run before any algorithm starts.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/zjbreeze/kanonizo/internal/faultpred"
)

//go:embed schema.cue
var schemaCUE string

// weightEpsilon bounds the float tolerance for the weight-sum check.
const weightEpsilon = 1e-6

// Weights control how much influence each repository signal has on a
// file's fault probability. The three values must sum to 1.
type Weights struct {
	Revisions float64 `json:"revisions" yaml:"revisions"`
	Authors   float64 `json:"authors" yaml:"authors"`
	Fixes     float64 `json:"fixes" yaml:"fixes"`
}

// Sum returns the combined weight.
func (w Weights) Sum() float64 {
	return w.Revisions + w.Authors + w.Fixes
}

// Config is the immutable configuration a run is constructed with.
type Config struct {
	HistoryFile        string              `json:"history_file" yaml:"history_file"`
	ProjectRoot        string              `json:"project_root" yaml:"project_root"`
	CoverageFile       string              `json:"coverage_file" yaml:"coverage_file"`
	CandidatesFile     string              `json:"candidates_file" yaml:"candidates_file"`
	SourceExtension    string              `json:"source_extension" yaml:"source_extension"`
	GroupSize          int                 `json:"group_size" yaml:"group_size"`
	Ranking            faultpred.Direction `json:"ranking" yaml:"ranking"`
	SecondaryObjective string              `json:"secondary_objective" yaml:"secondary_objective"`
	Weights            Weights             `json:"weights" yaml:"weights"`
}

// Default returns the configuration defaults applied underneath a loaded
// file. The weight split mirrors the fault-prediction tool's own defaults.
func Default() Config {
	return Config{
		SourceExtension:    ".java",
		GroupSize:          1,
		Ranking:            faultpred.DirectionDescending,
		SecondaryObjective: "",
		Weights:            Weights{Revisions: 0.3, Authors: 0.2, Fixes: 0.5},
	}
}

// Load reads a YAML configuration file, applies defaults, validates it
// against the embedded CUE schema and runs the precondition checks.
// Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file read; used by tests and embedded setups.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validateSchema(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateSchema unifies the configuration with #Config from the embedded
// schema and reports any constraint violation.
func (c *Config) validateSchema() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return fmt.Errorf("config schema has no #Config definition")
	}

	unified := def.Unify(ctx.Encode(c))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config does not satisfy schema: %w", err)
	}
	return nil
}

// Validate runs the precondition checks that the schema cannot express.
// Violations block the run up front; they are not recoverable mid-run.
func (c *Config) Validate() error {
	if diff := math.Abs(c.Weights.Sum() - 1); diff > weightEpsilon {
		return fmt.Errorf("feature weights must sum to 1: revisions=%v authors=%v fixes=%v sum=%v",
			c.Weights.Revisions, c.Weights.Authors, c.Weights.Fixes, c.Weights.Sum())
	}
	if c.GroupSize < 1 {
		return fmt.Errorf("group size must be at least 1, got %d", c.GroupSize)
	}
	switch c.Ranking {
	case faultpred.DirectionAscending, faultpred.DirectionDescending:
	default:
		return fmt.Errorf("ranking must be %q or %q, got %q",
			faultpred.DirectionAscending, faultpred.DirectionDescending, c.Ranking)
	}
	return nil
}
