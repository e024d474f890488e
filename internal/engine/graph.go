// Package engine is the recompute/invalidation side of the dependency
// protocol: it consumes the dependency edges a formula context reports
// while compiling and answers "what needs re-evaluation" when an
// independent changes.
package engine

import (
	"sort"

	"caliper/internal/formula"
)

// edge stores the aggregate-context snapshot recorded with a dependency.
type edge struct {
	aggFnIndices []int
}

// Graph tracks dependent->independent edges between formulas and the
// names/resources they reference. It implements formula.Tracker, so a
// formula.Context wired to a Graph feeds it automatically during
// compilation.
type Graph struct {
	// independent -> dependent -> edge data
	dependents map[formula.DependencySpec]map[formula.DependencySpec]edge
	// dependent -> independents (reverse index, for detaching)
	precedents map[formula.DependencySpec]map[formula.DependencySpec]struct{}

	dirty map[formula.DependencySpec]struct{}
	// dependents of the random source, re-evaluated unconditionally
	volatile map[formula.DependencySpec]struct{}

	namespaceEpoch int
}

func NewGraph() *Graph {
	return &Graph{
		dependents: make(map[formula.DependencySpec]map[formula.DependencySpec]edge),
		precedents: make(map[formula.DependencySpec]map[formula.DependencySpec]struct{}),
		dirty:      make(map[formula.DependencySpec]struct{}),
		volatile:   make(map[formula.DependencySpec]struct{}),
	}
}

// RegisterDependency records one edge. Implements formula.Tracker.
func (g *Graph) RegisterDependency(dep formula.Dependency) {
	ind, dpt := dep.Independent, dep.Dependent

	if g.dependents[ind] == nil {
		g.dependents[ind] = make(map[formula.DependencySpec]edge)
	}
	g.dependents[ind][dpt] = edge{aggFnIndices: append([]int(nil), dep.AggFnIndices...)}

	if g.precedents[dpt] == nil {
		g.precedents[dpt] = make(map[formula.DependencySpec]struct{})
	}
	g.precedents[dpt][ind] = struct{}{}

	if ind == formula.RandomSpec {
		g.volatile[dpt] = struct{}{}
	}
}

// InvalidateDependent marks one dependent as needing recomputation.
// Implements formula.Tracker; the cases list and forceAggregate flag
// matter to hosts with selective caches, which this engine does not
// keep, so both are accepted and ignored here.
func (g *Graph) InvalidateDependent(dependent formula.DependencySpec, dep formula.Dependency, cases []int, forceAggregate bool) {
	g.dirty[dependent] = struct{}{}
}

// InvalidateNamespace marks every known dependent dirty: the set of
// resolvable names changed, so any formula may now resolve differently.
// Implements formula.Tracker.
func (g *Graph) InvalidateNamespace() {
	g.namespaceEpoch++
	for dpt := range g.precedents {
		g.dirty[dpt] = struct{}{}
	}
}

// NamespaceEpoch counts namespace invalidations seen so far.
func (g *Graph) NamespaceEpoch() int {
	return g.namespaceEpoch
}

// Touch reports that an independent changed and propagates dirtiness to
// every transitive dependent. Returns the dependents marked dirty by
// this call, in deterministic order.
func (g *Graph) Touch(independent formula.DependencySpec) []formula.DependencySpec {
	var marked []formula.DependencySpec
	queue := []formula.DependencySpec{independent}
	seen := map[formula.DependencySpec]struct{}{independent: {}}

	for len(queue) > 0 {
		ind := queue[0]
		queue = queue[1:]
		for dpt := range g.dependents[ind] {
			if _, ok := seen[dpt]; ok {
				continue
			}
			seen[dpt] = struct{}{}
			g.dirty[dpt] = struct{}{}
			marked = append(marked, dpt)
			// a dependent may itself be an independent for others
			queue = append(queue, dpt)
		}
	}
	sortSpecs(marked)
	return marked
}

// Dirty returns the dependents currently needing recomputation,
// including volatile ones, in deterministic order.
func (g *Graph) Dirty() []formula.DependencySpec {
	set := make(map[formula.DependencySpec]struct{}, len(g.dirty)+len(g.volatile))
	for s := range g.dirty {
		set[s] = struct{}{}
	}
	for s := range g.volatile {
		set[s] = struct{}{}
	}
	out := make([]formula.DependencySpec, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sortSpecs(out)
	return out
}

// IsVolatile reports whether a dependent references the random source.
func (g *Graph) IsVolatile(dependent formula.DependencySpec) bool {
	_, ok := g.volatile[dependent]
	return ok
}

// MarkClean clears the dirty flag after a dependent was recomputed.
// Volatile dependents stay dirty-on-demand: they reappear in Dirty.
func (g *Graph) MarkClean(dependent formula.DependencySpec) {
	delete(g.dirty, dependent)
}

// Detach removes every edge owned by a dependent, ahead of
// recompilation re-reporting its dependencies from scratch.
func (g *Graph) Detach(dependent formula.DependencySpec) {
	for ind := range g.precedents[dependent] {
		if deps, ok := g.dependents[ind]; ok {
			delete(deps, dependent)
			if len(deps) == 0 {
				delete(g.dependents, ind)
			}
		}
	}
	delete(g.precedents, dependent)
	delete(g.volatile, dependent)
	delete(g.dirty, dependent)
}

// AggregateIndices returns the aggregate-context snapshot recorded for
// an edge, or nil when the edge does not exist.
func (g *Graph) AggregateIndices(independent, dependent formula.DependencySpec) []int {
	if deps, ok := g.dependents[independent]; ok {
		if e, ok := deps[dependent]; ok {
			return append([]int(nil), e.aggFnIndices...)
		}
	}
	return nil
}

// DependentsOf returns the direct dependents of an independent, in
// deterministic order.
func (g *Graph) DependentsOf(independent formula.DependencySpec) []formula.DependencySpec {
	deps := g.dependents[independent]
	out := make([]formula.DependencySpec, 0, len(deps))
	for dpt := range deps {
		out = append(out, dpt)
	}
	sortSpecs(out)
	return out
}

func sortSpecs(specs []formula.DependencySpec) {
	sort.Slice(specs, func(i, j int) bool {
		a, b := specs[i], specs[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Name < b.Name
	})
}
