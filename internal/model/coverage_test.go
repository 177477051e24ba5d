package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSet_Intersects(t *testing.T) {
	a := NewLineSet(Line{Class: "Foo", Number: 1}, Line{Class: "Foo", Number: 2})
	b := NewLineSet(Line{Class: "Foo", Number: 2}, Line{Class: "Bar", Number: 9})
	c := NewLineSet(Line{Class: "Baz", Number: 1})

	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))
	assert.False(t, a.Intersects(c))
	assert.False(t, a.Intersects(nil))
	assert.False(t, LineSet(nil).Intersects(a))
}

func TestStaticCoverage_UnknownIsEmpty(t *testing.T) {
	cov := NewStaticCoverage()
	tc := &TestCase{Class: "Foo", Method: "m"}
	cut := &ClassUnderTest{Name: "Foo"}

	assert.Empty(t, cov.LinesCovered(tc))
	assert.Empty(t, cov.LinesIn(cut))
}

func TestLoadCoverageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.json")
	dump := `{
		"classes": {
			"com.example.Foo": [1, 2, 3],
			"Bare": [10]
		},
		"tests": {
			"com.example.FooTest::testOne": {"com.example.Foo": [1, 2]},
			"BareTest::testTwo": {"Bare": [10]}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o644))

	tests := NewTestRegistry()
	classes := NewClassRegistry()
	cov, err := LoadCoverageFile(path, tests, classes)
	require.NoError(t, err)

	foo, ok := classes.Get("com.example.Foo")
	require.True(t, ok)
	assert.Equal(t, "com.example", foo.Package)
	assert.Equal(t, "Foo", foo.Name)
	assert.Len(t, cov.LinesIn(foo), 3)

	bare, ok := classes.Get("Bare")
	require.True(t, ok)
	assert.Equal(t, "", bare.Package)

	tc, ok := tests.Lookup("testOne(com.example.FooTest)")
	require.True(t, ok)
	assert.True(t, cov.LinesCovered(tc).Intersects(cov.LinesIn(foo)))
	assert.False(t, cov.LinesCovered(tc).Intersects(cov.LinesIn(bare)))
}

func TestLoadCoverageFile_Errors(t *testing.T) {
	tests := NewTestRegistry()
	classes := NewClassRegistry()

	_, err := LoadCoverageFile(filepath.Join(t.TempDir(), "missing.json"), tests, classes)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadCoverageFile(bad, tests, classes)
	assert.Error(t, err)
}
