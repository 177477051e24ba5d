// Package testutil provides shared fixtures for prioritization tests: an
// on-disk fake project with registries and a static coverage index, and a
// history-log builder.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjbreeze/kanonizo/internal/model"
)

// SourceExtension is the source-file extension fixtures are written with.
const SourceExtension = ".java"

// Project is an on-disk fake project: source files with package
// declarations, identity registries, and a static coverage index.
type Project struct {
	Dir      string
	Tests    *model.TestRegistry
	Classes  *model.ClassRegistry
	Coverage *model.StaticCoverage
}

// NewProject creates an empty project rooted in a fresh temp directory.
func NewProject(t *testing.T) *Project {
	t.Helper()
	return &Project{
		Dir:      t.TempDir(),
		Tests:    model.NewTestRegistry(),
		Classes:  model.NewClassRegistry(),
		Coverage: model.NewStaticCoverage(),
	}
}

// AddClass writes a source file under the project root, registers the
// production unit and records its owned lines. Returns the path relative
// to the root, as fault rankings reference it.
func (p *Project) AddClass(t *testing.T, pkg, name string, lines ...int) string {
	t.Helper()
	rel := filepath.Join("src", name+SourceExtension)
	full := filepath.Join(p.Dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))

	var src strings.Builder
	if pkg != "" {
		fmt.Fprintf(&src, "package %s;\n\n", pkg)
	}
	fmt.Fprintf(&src, "public class %s {}\n", name)
	require.NoError(t, os.WriteFile(full, []byte(src.String()), 0o644))

	cut := p.Classes.Register(pkg, name)
	for _, n := range lines {
		p.Coverage.AddOwned(cut, model.Line{Class: cut.FQN(), Number: n})
	}
	return rel
}

// AddTestFile writes a source file without registering a production unit,
// modelling a path the fault ranking may report but no registry knows.
func (p *Project) AddTestFile(t *testing.T, pkg, name string) string {
	t.Helper()
	rel := filepath.Join("src", name+SourceExtension)
	full := filepath.Join(p.Dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	content := fmt.Sprintf("package %s;\n\npublic class %s {}\n", pkg, name)
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return rel
}

// AddTest resolves a raw "class::method" test name and records the lines
// it covers in the named unit.
func (p *Project) AddTest(t *testing.T, raw, classFQN string, lines ...int) *model.TestCase {
	t.Helper()
	tc, err := p.Tests.Resolve(raw)
	require.NoError(t, err)
	for _, n := range lines {
		p.Coverage.AddCovered(tc, model.Line{Class: classFQN, Number: n})
	}
	return tc
}
