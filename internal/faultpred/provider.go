package faultpred

import (
	"context"
	"slices"
	"strings"
)

// FaultUnit is a source file paired with an externally computed
// probability of containing a defect.
type FaultUnit struct {
	// Path is the file path relative to the project root.
	Path string `json:"path"`

	// Prob is the normalized fault probability reported by the tool.
	Prob float64 `json:"prob"`
}

// Direction selects which probability end is ranked first.
type Direction string

const (
	// DirectionDescending ranks the highest fault probability first.
	DirectionDescending Direction = "descending"

	// DirectionAscending ranks the lowest fault probability first. This
	// mirrors the ordering some tool contracts document; it is exposed
	// as configuration rather than decided here.
	DirectionAscending Direction = "ascending"
)

// Provider produces the fault ranking once per run, most relevant first.
type Provider interface {
	Rank(ctx context.Context, projectRoot string) ([]FaultUnit, error)
}

// Static returns a canned ranking, already ordered. It backs deterministic
// engine tests and config setups that bypass the external tool.
type Static struct {
	Units []FaultUnit
}

// Rank implements Provider. The slice is copied so callers may consume it
// destructively.
func (s Static) Rank(ctx context.Context, projectRoot string) ([]FaultUnit, error) {
	return slices.Clone(s.Units), nil
}

// FilterSource keeps only units whose path ends in the source-file
// extension, dropping test artifacts and non-source entries.
func FilterSource(units []FaultUnit, ext string) []FaultUnit {
	kept := make([]FaultUnit, 0, len(units))
	for _, u := range units {
		if strings.HasSuffix(u.Path, ext) {
			kept = append(kept, u)
		}
	}
	return kept
}

// SortUnits orders units by probability in the given direction. The sort
// is stable so equal probabilities keep the tool's reported order.
func SortUnits(units []FaultUnit, dir Direction) {
	slices.SortStableFunc(units, func(a, b FaultUnit) int {
		switch {
		case a.Prob < b.Prob:
			if dir == DirectionAscending {
				return -1
			}
			return 1
		case a.Prob > b.Prob:
			if dir == DirectionAscending {
				return 1
			}
			return -1
		default:
			return 0
		}
	})
}
