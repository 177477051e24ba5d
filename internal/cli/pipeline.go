package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/zjbreeze/kanonizo/internal/config"
	"github.com/zjbreeze/kanonizo/internal/history"
	"github.com/zjbreeze/kanonizo/internal/model"
)

// pipeline holds the initialized collaborators a prioritization run is
// driven with. Everything here is built once, during the blocking
// initialization phase; the selection phase is pure in-memory work.
type pipeline struct {
	cfg        *config.Config
	tests      *model.TestRegistry
	classes    *model.ClassRegistry
	coverage   *model.StaticCoverage
	candidates []*model.TestCase
	history    *history.Store
}

// loadPipeline reads the coverage dump, the candidate list and, when
// configured, the history log.
func loadPipeline(cfg *config.Config) (*pipeline, error) {
	p := &pipeline{
		cfg:     cfg,
		tests:   model.NewTestRegistry(),
		classes: model.NewClassRegistry(),
		history: history.NewStore(),
	}

	if cfg.CoverageFile == "" {
		return nil, fmt.Errorf("no coverage file configured")
	}
	cov, err := model.LoadCoverageFile(cfg.CoverageFile, p.tests, p.classes)
	if err != nil {
		return nil, err
	}
	p.coverage = cov

	if cfg.CandidatesFile == "" {
		return nil, fmt.Errorf("no candidates file configured")
	}
	p.candidates, err = loadCandidates(cfg.CandidatesFile, p.tests)
	if err != nil {
		return nil, err
	}

	if cfg.HistoryFile != "" {
		if err := p.history.Init(p.tests, cfg.HistoryFile); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// loadCandidates reads the candidate test list: one raw "class::method"
// per line, in execution-discovery order. Blank lines and '#' comments
// are skipped.
func loadCandidates(path string, reg *model.TestRegistry) ([]*model.TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidates file: %w", err)
	}
	defer f.Close()

	var tests []*model.TestCase
	seen := make(map[*model.TestCase]struct{})
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		tc, err := reg.Resolve(raw)
		if err != nil {
			return nil, fmt.Errorf("candidates file %s line %d: %w", path, line, err)
		}
		if _, dup := seen[tc]; dup {
			continue
		}
		seen[tc] = struct{}{}
		tests = append(tests, tc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading candidates file: %w", err)
	}
	if len(tests) == 0 {
		return nil, fmt.Errorf("candidates file %s lists no tests", path)
	}
	return tests, nil
}

// snapshotLastFailure maps the history query into the persisted column;
// the infinite "never failed" sentinel becomes -1.
func snapshotLastFailure(h *history.Store, tc *model.TestCase) int {
	t := h.TimeSinceLastFailure(tc)
	if t == history.InfiniteTime {
		return -1
	}
	return t
}
