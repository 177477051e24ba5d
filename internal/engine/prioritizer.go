package engine

import "github.com/zjbreeze/kanonizo/internal/model"

// Prioritizer is the base contract shared by prioritization algorithms:
// pull one test at a time from the candidate pool until it is empty.
//
// Implementations remove the returned test from the pool. Across repeated
// calls until the pool is empty, every original candidate is returned
// exactly once.
type Prioritizer interface {
	SelectNext(candidates *CandidateList) (*model.TestCase, error)
}

// Drain drives a prioritizer until the candidate pool is empty and
// returns the full emission order.
func Drain(p Prioritizer, candidates *CandidateList) ([]*model.TestCase, error) {
	ordered := make([]*model.TestCase, 0, candidates.Len())
	for candidates.Len() > 0 {
		tc, err := p.SelectNext(candidates)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, tc)
	}
	return ordered, nil
}
