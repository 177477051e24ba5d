package model

import "sync"

// ClassUnderTest is the identity of a production source unit.
//
// Like TestCase, instances are created only by a ClassRegistry and
// compared by pointer.
type ClassUnderTest struct {
	Package string
	Name    string
}

// FQN returns the fully-qualified "package.Name" form, or just the class
// name when the unit lives in the default package.
func (c *ClassUnderTest) FQN() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

func (c *ClassUnderTest) String() string {
	return c.FQN()
}

// ClassRegistry resolves fully-qualified names to shared ClassUnderTest
// identities. Only production units are registered: a lookup miss means
// the path belongs to a test class or a non-source artifact.
type ClassRegistry struct {
	mu      sync.Mutex
	classes map[string]*ClassUnderTest
}

// NewClassRegistry creates an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]*ClassUnderTest)}
}

// Register returns the identity for pkg.name, creating it on first sight.
func (r *ClassRegistry) Register(pkg, name string) *ClassUnderTest {
	cut := &ClassUnderTest{Package: canonicalize(pkg), Name: canonicalize(name)}
	key := cut.FQN()

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.classes[key]; ok {
		return existing
	}
	r.classes[key] = cut
	return cut
}

// Get returns the identity for a fully-qualified name, or (nil, false) if
// no production unit with that name is registered.
func (r *ClassRegistry) Get(fqn string) (*ClassUnderTest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cut, ok := r.classes[canonicalize(fqn)]
	return cut, ok
}

// Len returns the number of registered units.
func (r *ClassRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.classes)
}
