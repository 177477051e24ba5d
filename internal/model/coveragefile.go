package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// coverageDump is the on-disk shape of a coverage dump produced by the
// instrumentation engine.
//
//	{
//	  "classes": {"com.example.Foo": [1, 2, 3]},
//	  "tests":   {"com.example.FooTest::testBar": {"com.example.Foo": [1, 2]}}
//	}
type coverageDump struct {
	Classes map[string][]int            `json:"classes"`
	Tests   map[string]map[string][]int `json:"tests"`
}

// LoadCoverageFile reads a coverage dump and materializes it as a
// StaticCoverage index. Every class key is registered as a production unit
// in the class registry; every test key is resolved through the test
// registry.
func LoadCoverageFile(path string, tests *TestRegistry, classes *ClassRegistry) (*StaticCoverage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading coverage file: %w", err)
	}

	var dump coverageDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("parsing coverage file %s: %w", path, err)
	}

	cov := NewStaticCoverage()
	for fqn, nums := range dump.Classes {
		pkg, name := splitFQN(fqn)
		cut := classes.Register(pkg, name)
		for _, n := range nums {
			cov.AddOwned(cut, Line{Class: cut.FQN(), Number: n})
		}
	}
	for raw, perClass := range dump.Tests {
		tc, err := tests.Resolve(raw)
		if err != nil {
			return nil, fmt.Errorf("coverage file %s: %w", path, err)
		}
		for fqn, nums := range perClass {
			for _, n := range nums {
				cov.AddCovered(tc, Line{Class: canonicalize(fqn), Number: n})
			}
		}
	}
	return cov, nil
}

// splitFQN splits "package.Name" at the last dot. A name without a dot is
// a default-package class.
func splitFQN(fqn string) (pkg, name string) {
	idx := strings.LastIndex(fqn, ".")
	if idx < 0 {
		return "", fqn
	}
	return fqn[:idx], fqn[idx+1:]
}
