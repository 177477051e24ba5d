package model

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// NameSeparator splits the class part from the method part in raw test
// names as they appear in history logs and candidate lists ("Class::method").
const NameSeparator = "::"

// TestCase is the canonical identity of a single test method.
//
// Instances are created only by a TestRegistry; two lookups with equal
// canonical names return the same pointer, so identities can be used as
// map keys and compared with ==.
type TestCase struct {
	Class  string
	Method string
}

// Name returns the canonical "method(class)" form.
func (tc *TestCase) Name() string {
	return tc.Method + "(" + tc.Class + ")"
}

func (tc *TestCase) String() string {
	return tc.Name()
}

// SplitRawName splits a raw "class::method" string into its parts.
// Returns an error if the separator is missing or either part is empty.
func SplitRawName(raw string) (class, method string, err error) {
	idx := strings.Index(raw, NameSeparator)
	if idx < 0 {
		return "", "", fmt.Errorf("test name %q: missing %q separator", raw, NameSeparator)
	}
	class = raw[:idx]
	method = raw[idx+len(NameSeparator):]
	if class == "" || method == "" {
		return "", "", fmt.Errorf("test name %q: empty class or method", raw)
	}
	return class, method, nil
}

// CanonicalName derives the canonical "method(class)" identity string from
// a raw "class::method" name. The result is NFC-normalized.
func CanonicalName(raw string) (string, error) {
	class, method, err := SplitRawName(raw)
	if err != nil {
		return "", err
	}
	return canonicalize(method + "(" + class + ")"), nil
}

// canonicalize applies Unicode NFC normalization so that canonically-equal
// identifiers map to the same registry key.
func canonicalize(name string) string {
	return norm.NFC.String(name)
}

// TestRegistry resolves canonical test names to shared TestCase identities.
//
// Thread-safety: lookups may run concurrently; the registry is typically
// populated once during initialization and read-only afterwards.
type TestRegistry struct {
	mu    sync.Mutex
	cases map[string]*TestCase
}

// NewTestRegistry creates an empty registry.
func NewTestRegistry() *TestRegistry {
	return &TestRegistry{cases: make(map[string]*TestCase)}
}

// Resolve returns the identity for a raw "class::method" name, creating it
// on first sight. Equal canonical names always resolve to the same identity.
func (r *TestRegistry) Resolve(raw string) (*TestCase, error) {
	class, method, err := SplitRawName(raw)
	if err != nil {
		return nil, err
	}
	key := canonicalize(method + "(" + class + ")")

	r.mu.Lock()
	defer r.mu.Unlock()
	if tc, ok := r.cases[key]; ok {
		return tc, nil
	}
	tc := &TestCase{Class: canonicalize(class), Method: canonicalize(method)}
	r.cases[key] = tc
	return tc, nil
}

// Lookup returns the identity for a canonical "method(class)" name, or
// (nil, false) if the test was never registered.
func (r *TestRegistry) Lookup(canonical string) (*TestCase, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tc, ok := r.cases[canonicalize(canonical)]
	return tc, ok
}

// Len returns the number of registered tests.
func (r *TestRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cases)
}
