package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/zjbreeze/kanonizo/internal/model"
)

// Column layout of the historical execution log. One data row per observed
// execution; the header row is skipped.
const (
	colProjectID = iota
	colVersionID
	colNumRevisions
	colRevisionID
	colTestName
	colTestRuntime
	colTestOutcome
	colTestStackTrace

	columnCount
)

// outcomePass is the only outcome value treated as a passing run; any
// other value is a failure.
const outcomePass = "pass"

// InfiniteTime is the sentinel returned by TimeSinceLastFailure for tests
// that are unknown or have never failed.
const InfiniteTime = math.MaxInt

// Execution is one historical recorded run of a test.
type Execution struct {
	// Duration is the recorded runtime in the log's time units.
	Duration int64

	// Passed is false for any outcome other than "pass".
	Passed bool

	// FailureCause is an opaque reference to the recorded failure detail.
	// The current log format carries the detail undecoded, so this is
	// always empty; kept as an extension point for a structured
	// representation.
	FailureCause string
}

// Store holds the per-test execution histories parsed from a history log.
//
// Histories are mutated only during Init and read-only afterwards. Index 0
// of a history is the most recent execution, higher indices are older.
// Not safe for concurrent mutation; drive it from a single loop.
type Store struct {
	histories map[*model.TestCase][]Execution
}

// NewStore creates an empty store. Call Init before querying.
func NewStore() *Store {
	return &Store{histories: make(map[*model.TestCase][]Execution)}
}

// Init loads the history log at path, resolving test identities through
// reg. An empty or unreadable path is a configuration error raised before
// any parsing. A malformed numeric field aborts the whole load.
func (s *Store) Init(reg *model.TestRegistry, path string) error {
	if path == "" {
		return configError("history-based prioritization requires a history file; none configured", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return configError(fmt.Sprintf("history file %s is not readable", path), err)
	}
	defer f.Close()
	return s.load(reg, f)
}

// load parses the tabular log from r. Split out from Init so tests can
// feed records without touching the filesystem.
func (s *Store) load(reg *model.TestRegistry, r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columnCount

	// Header row.
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return parseError(0, "reading header row", err)
	}

	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return parseError(row, "reading record", err)
		}

		tc, err := reg.Resolve(record[colTestName])
		if err != nil {
			return parseError(row, "resolving test identity", err)
		}

		revision, err := strconv.Atoi(record[colRevisionID])
		if err != nil {
			return parseError(row, fmt.Sprintf("revision id %q is not numeric", record[colRevisionID]), err)
		}
		// Revision 0 marks an invalid/unassigned revision; the record is
		// skipped entirely.
		idx := abs(revision)
		if idx == 0 {
			continue
		}

		runtime, err := strconv.ParseInt(record[colTestRuntime], 10, 64)
		if err != nil {
			return parseError(row, fmt.Sprintf("runtime %q is not numeric", record[colTestRuntime]), err)
		}

		// The stack-trace field is not decoded in this version; failures
		// carry no structured cause.
		exec := Execution{
			Duration: runtime,
			Passed:   record[colTestOutcome] == outcomePass,
		}

		hist := s.histories[tc]
		at := min(idx, len(hist))
		s.histories[tc] = slices.Insert(hist, at, exec)
	}
}

// ExecutionCount returns the number of recorded executions, 0 if the test
// is unknown.
func (s *Store) ExecutionCount(tc *model.TestCase) int {
	return len(s.histories[tc])
}

// FailureCount returns the number of recorded failing executions, 0 if the
// test is unknown.
func (s *Store) FailureCount(tc *model.TestCase) int {
	n := 0
	for _, ex := range s.histories[tc] {
		if !ex.Passed {
			n++
		}
	}
	return n
}

// HasFailed reports whether any recorded execution failed.
func (s *Store) HasFailed(tc *model.TestCase) bool {
	for _, ex := range s.histories[tc] {
		if !ex.Passed {
			return true
		}
	}
	return false
}

// TimeSinceLastFailure returns the distance from the most-recent end to
// the first failing execution: 0 means the last run failed. Returns
// InfiniteTime if the test is unknown or has never failed.
func (s *Store) TimeSinceLastFailure(tc *model.TestCase) int {
	for i, ex := range s.histories[tc] {
		if !ex.Passed {
			return i
		}
	}
	return InfiniteTime
}

// Executions returns the recorded history for a test, most recent first.
// The returned slice must not be mutated.
func (s *Store) Executions(tc *model.TestCase) []Execution {
	return s.histories[tc]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
