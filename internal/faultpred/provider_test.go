package faultpred

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_RankReturnsCopy(t *testing.T) {
	s := Static{Units: []FaultUnit{{Path: "a.java", Prob: 0.9}, {Path: "b.java", Prob: 0.4}}}

	got, err := s.Rank(context.Background(), "/root")
	require.NoError(t, err)
	require.Len(t, got, 2)

	got[0].Path = "mutated"
	assert.Equal(t, "a.java", s.Units[0].Path, "callers may consume the ranking destructively")
}

func TestFilterSource(t *testing.T) {
	units := []FaultUnit{
		{Path: "src/Main.java", Prob: 0.9},
		{Path: "src/MainTest.txt", Prob: 0.8},
		{Path: "README.md", Prob: 0.7},
		{Path: "src/Util.java", Prob: 0.1},
	}

	kept := FilterSource(units, ".java")
	require.Len(t, kept, 2)
	assert.Equal(t, "src/Main.java", kept[0].Path)
	assert.Equal(t, "src/Util.java", kept[1].Path)
}

func TestSortUnits(t *testing.T) {
	mk := func() []FaultUnit {
		return []FaultUnit{
			{Path: "low.java", Prob: 0.1},
			{Path: "high.java", Prob: 0.9},
			{Path: "mid.java", Prob: 0.5},
		}
	}

	desc := mk()
	SortUnits(desc, DirectionDescending)
	assert.Equal(t, []string{"high.java", "mid.java", "low.java"}, paths(desc))

	asc := mk()
	SortUnits(asc, DirectionAscending)
	assert.Equal(t, []string{"low.java", "mid.java", "high.java"}, paths(asc))
}

func TestSortUnits_StableOnTies(t *testing.T) {
	units := []FaultUnit{
		{Path: "first.java", Prob: 0.5},
		{Path: "second.java", Prob: 0.5},
		{Path: "third.java", Prob: 0.5},
	}
	SortUnits(units, DirectionDescending)
	assert.Equal(t, []string{"first.java", "second.java", "third.java"}, paths(units))
}

func paths(units []FaultUnit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Path
	}
	return out
}
