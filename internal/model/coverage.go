package model

// Line identifies one executable line inside a source unit.
type Line struct {
	Class  string // fully-qualified name of the owning unit
	Number int
}

// LineSet is a set of lines keyed by identity.
type LineSet map[Line]struct{}

// NewLineSet builds a set from a slice of lines.
func NewLineSet(lines ...Line) LineSet {
	s := make(LineSet, len(lines))
	for _, l := range lines {
		s[l] = struct{}{}
	}
	return s
}

// Intersects reports whether any line is present in both sets.
func (s LineSet) Intersects(other LineSet) bool {
	// Iterate the smaller set.
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for l := range small {
		if _, ok := large[l]; ok {
			return true
		}
	}
	return false
}

// CoverageIndex is the boundary to the external coverage engine.
//
// LinesCovered answers which lines a test executes; LinesIn answers which
// lines a source unit owns. Both are total: unknown tests or units yield
// an empty set.
type CoverageIndex interface {
	LinesCovered(tc *TestCase) LineSet
	LinesIn(cut *ClassUnderTest) LineSet
}

// StaticCoverage is an in-memory CoverageIndex, populated either from a
// coverage dump file or directly by tests.
type StaticCoverage struct {
	covered map[*TestCase]LineSet
	owned   map[*ClassUnderTest]LineSet
}

// NewStaticCoverage creates an empty index.
func NewStaticCoverage() *StaticCoverage {
	return &StaticCoverage{
		covered: make(map[*TestCase]LineSet),
		owned:   make(map[*ClassUnderTest]LineSet),
	}
}

// AddCovered records lines executed by a test.
func (c *StaticCoverage) AddCovered(tc *TestCase, lines ...Line) {
	set, ok := c.covered[tc]
	if !ok {
		set = make(LineSet)
		c.covered[tc] = set
	}
	for _, l := range lines {
		set[l] = struct{}{}
	}
}

// AddOwned records lines owned by a source unit.
func (c *StaticCoverage) AddOwned(cut *ClassUnderTest, lines ...Line) {
	set, ok := c.owned[cut]
	if !ok {
		set = make(LineSet)
		c.owned[cut] = set
	}
	for _, l := range lines {
		set[l] = struct{}{}
	}
}

// LinesCovered implements CoverageIndex.
func (c *StaticCoverage) LinesCovered(tc *TestCase) LineSet {
	return c.covered[tc]
}

// LinesIn implements CoverageIndex.
func (c *StaticCoverage) LinesIn(cut *ClassUnderTest) LineSet {
	return c.owned[cut]
}
