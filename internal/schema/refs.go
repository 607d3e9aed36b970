package schema

import (
	"fmt"
	"slices"
	"strings"
)

// RefTracker tracks $ref references to other struct schemas.
type RefTracker struct {
	refs map[string]bool // Set of referenced struct names
}

// NewRefTracker creates a new RefTracker.
func NewRefTracker() *RefTracker {
	return &RefTracker{
		refs: make(map[string]bool),
	}
}

// AddRef records a reference to another struct.
func (rt *RefTracker) AddRef(typeName string) {
	rt.refs[typeName] = true
}

// GetRefs returns all recorded references, sorted.
func (rt *RefTracker) GetRefs() []string {
	refs := make([]string, 0, len(rt.refs))
	for ref := range rt.refs {
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs
}

// HasRef checks if a struct is referenced.
func (rt *RefTracker) HasRef(typeName string) bool {
	return rt.refs[typeName]
}

// GetRefPath returns the $ref path for a struct name: the sibling schema
// file.
func (rt *RefTracker) GetRefPath(typeName string) string {
	return GetSchemaFilename(typeName)
}

// CycleError reports structs that reference each other by value or pointer.
type CycleError struct {
	Types []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Types, " -> "))
}

// DependencyGraph tracks references between structs for ordering generation.
type DependencyGraph struct {
	dependencies map[string][]string // struct -> structs it references
}

// NewDependencyGraph creates a new DependencyGraph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependencies: make(map[string][]string),
	}
}

// AddDependency records that 'from' references 'to'. Self references, as in
// linked lists, need no ordering and are not recorded.
func (dg *DependencyGraph) AddDependency(from, to string) {
	if from == to || slices.Contains(dg.dependencies[from], to) {
		return
	}
	dg.dependencies[from] = append(dg.dependencies[from], to)
}

// GetDependencies returns the structs that 'typeName' references.
func (dg *DependencyGraph) GetDependencies(typeName string) []string {
	return dg.dependencies[typeName]
}

// TopologicalSort returns types in order of dependencies (dependencies first),
// otherwise keeping the given order. It returns a *CycleError if structs
// reference each other.
func (dg *DependencyGraph) TopologicalSort(types []string) ([]string, error) {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	visited := make(map[string]bool)
	inProgress := make(map[string]bool)
	var result []string

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		if visited[name] {
			return nil
		}
		path = append(path, name)
		if inProgress[name] {
			start := slices.Index(path, name)
			return &CycleError{Types: path[start:]}
		}

		inProgress[name] = true

		for _, dep := range dg.dependencies[name] {
			// Only visit dependencies that are in our type set
			if typeSet[dep] {
				if err := visit(dep, path); err != nil {
					return err
				}
			}
		}

		inProgress[name] = false
		visited[name] = true
		result = append(result, name)
		return nil
	}

	for _, t := range types {
		if err := visit(t, nil); err != nil {
			return nil, err
		}
	}

	return result, nil
}
