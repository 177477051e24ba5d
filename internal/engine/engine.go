package engine

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zjbreeze/kanonizo/internal/faultpred"
	"github.com/zjbreeze/kanonizo/internal/model"
)

// ErrNoCandidates is returned by SelectNext when the candidate pool is
// already empty.
var ErrNoCandidates = errors.New("engine: no candidates left to select")

// Config carries the collaborators and parameters a FaultEngine is
// constructed with. All fields except Comparator are required.
type Config struct {
	// Coverage answers line coverage queries for tests and source units.
	Coverage model.CoverageIndex

	// Classes resolves fully-qualified names to registered production
	// units. A lookup miss means the path is a test or non-source file.
	Classes *model.ClassRegistry

	// ProjectRoot is the directory fault-unit paths are relative to.
	ProjectRoot string

	// SourceExtension identifies source files, e.g. ".java".
	SourceExtension string

	// GroupSize is the number of fault units batched per wave, minimum 1.
	GroupSize int

	// Comparator is the optional secondary objective.
	Comparator Comparator
}

// FaultEngine emits tests in fault-relevance order.
//
// State: the pending ranking, the current wave, and the collaborators from
// Config. The ranking and wave are mutated only inside SelectNext and
// reach a permanent empty state once all candidates have been emitted.
// Not safe for concurrent use.
type FaultEngine struct {
	cfg       Config
	remaining []faultpred.FaultUnit
	pending   []*model.TestCase
}

// NewFaultEngine validates cfg and creates an engine with an empty
// ranking. Call Init with the fault ranking before selection.
func NewFaultEngine(cfg Config) (*FaultEngine, error) {
	if cfg.Coverage == nil {
		return nil, errors.New("engine: coverage index is required")
	}
	if cfg.Classes == nil {
		return nil, errors.New("engine: class registry is required")
	}
	if cfg.GroupSize < 1 {
		return nil, fmt.Errorf("engine: group size must be at least 1, got %d", cfg.GroupSize)
	}
	return &FaultEngine{cfg: cfg}, nil
}

// Init installs the fault ranking, most relevant first. An empty ranking
// is valid: the engine then runs in fallback-only mode and emits
// candidates in input order.
func (e *FaultEngine) Init(units []faultpred.FaultUnit) {
	e.remaining = slices.Clone(units)
	e.pending = nil
}

// SelectNext returns the next test in fault-relevance order and removes it
// from candidates.
//
// If the current wave is empty it refills: the next GroupSize fault units
// are consumed from the ranking and every candidate covering any of them
// joins the wave, without duplicates. Once the ranking is exhausted the
// terminal wave holds all remaining candidates in input order. The
// optional secondary objective sorts each wave before extraction.
func (e *FaultEngine) SelectNext(candidates *CandidateList) (*model.TestCase, error) {
	if candidates.Len() == 0 {
		return nil, ErrNoCandidates
	}

	for len(e.pending) == 0 {
		if len(e.remaining) > 0 {
			n := min(e.cfg.GroupSize, len(e.remaining))
			group := e.remaining[:n]
			e.remaining = e.remaining[n:]
			e.pending = e.coveringTests(candidates, group)
		} else {
			// Fallback wave: every remaining candidate, input order.
			e.pending = slices.Clone(candidates.Tests())
		}
		if e.cfg.Comparator != nil {
			slices.SortStableFunc(e.pending, e.cfg.Comparator)
		}
	}

	next := e.pending[0]
	e.pending = slices.Delete(e.pending, 0, 1)
	candidates.Remove(next)
	return next, nil
}

// coveringTests unions, without duplicates, the candidates whose covered
// lines intersect any grouped unit's owned lines.
func (e *FaultEngine) coveringTests(candidates *CandidateList, group []faultpred.FaultUnit) []*model.TestCase {
	var wave []*model.TestCase
	seen := make(map[*model.TestCase]struct{})
	for _, unit := range group {
		cut, ok := e.resolveUnit(unit.Path)
		if !ok {
			// Not a registered production unit (e.g. the path is itself
			// a test); contributes no tests to this wave.
			continue
		}
		owned := e.cfg.Coverage.LinesIn(cut)
		if len(owned) == 0 {
			continue
		}
		for _, tc := range candidates.Tests() {
			if _, dup := seen[tc]; dup {
				continue
			}
			if e.cfg.Coverage.LinesCovered(tc).Intersects(owned) {
				seen[tc] = struct{}{}
				wave = append(wave, tc)
			}
		}
	}
	return wave
}

// resolveUnit maps a ranked file path to a registered source unit: the
// package comes from the file's package declaration, the class name from
// the filename.
func (e *FaultEngine) resolveUnit(path string) (*model.ClassUnderTest, bool) {
	full := filepath.Join(e.cfg.ProjectRoot, path)
	pkg, err := readPackageDecl(full)
	if err != nil {
		slog.Warn("skipping fault unit, source file unreadable", "path", full, "error", err)
		return nil, false
	}
	name := strings.TrimSuffix(filepath.Base(path), e.cfg.SourceExtension)
	fqn := name
	if pkg != "" {
		fqn = pkg + "." + name
	}
	return e.cfg.Classes.Get(fqn)
}

// readPackageDecl scans a source file for its package declaration and
// returns the declared package, "" for the default package.
func readPackageDecl(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "package "); ok {
			return strings.TrimSpace(strings.TrimSuffix(rest, ";")), nil
		}
	}
	return "", scanner.Err()
}
