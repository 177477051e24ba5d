package engine

import (
	"slices"

	"github.com/zjbreeze/kanonizo/internal/model"
)

// CandidateList is the ordered pool of tests awaiting emission. The order
// is the input order and is preserved across removals; the fallback wave
// relies on it.
type CandidateList struct {
	tests []*model.TestCase
}

// NewCandidateList builds a pool from tests in their given order.
func NewCandidateList(tests []*model.TestCase) *CandidateList {
	return &CandidateList{tests: slices.Clone(tests)}
}

// Len returns the number of tests still awaiting emission.
func (c *CandidateList) Len() int {
	return len(c.tests)
}

// Tests returns the remaining tests in their current order. The returned
// slice must not be mutated.
func (c *CandidateList) Tests() []*model.TestCase {
	return c.tests
}

// Contains reports whether tc is still in the pool.
func (c *CandidateList) Contains(tc *model.TestCase) bool {
	return slices.Contains(c.tests, tc)
}

// Remove deletes tc from the pool, preserving the order of the rest.
func (c *CandidateList) Remove(tc *model.TestCase) {
	for i, t := range c.tests {
		if t == tc {
			c.tests = slices.Delete(c.tests, i, i+1)
			return
		}
	}
}
