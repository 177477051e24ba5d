package engine

import (
	"strings"

	"github.com/zjbreeze/kanonizo/internal/model"
)

// Comparator is a secondary objective: a deterministic total order applied
// to a wave before extraction. Negative means a ranks before b.
type Comparator func(a, b *model.TestCase) int

// ByName orders tests lexicographically by canonical name. Mostly useful
// as a deterministic tie-break in tests and reports.
func ByName() Comparator {
	return func(a, b *model.TestCase) int {
		return strings.Compare(a.Name(), b.Name())
	}
}

// Greedy orders tests by descending covered-line count, so the test
// exercising the most code in the wave runs first. Ties fall back to the
// canonical name to keep the order total and deterministic.
func Greedy(cov model.CoverageIndex) Comparator {
	byName := ByName()
	return func(a, b *model.TestCase) int {
		na, nb := len(cov.LinesCovered(a)), len(cov.LinesCovered(b))
		switch {
		case na > nb:
			return -1
		case na < nb:
			return 1
		default:
			return byName(a, b)
		}
	}
}
