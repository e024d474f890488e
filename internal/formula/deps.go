package formula

// DepType classifies one endpoint of a dependency edge.
type DepType int

const (
	// DepUnresolved marks a name that matched no scope at compile time.
	DepUnresolved DepType = iota
	// DepSpecial marks an implicit resource such as the random source.
	DepSpecial
	// DepAttribute marks a data attribute owned by the host.
	DepAttribute
	// DepVar marks a bound variable from the environment or instance scope.
	DepVar
)

func (t DepType) String() string {
	switch t {
	case DepUnresolved:
		return "unresolved"
	case DepSpecial:
		return "special"
	case DepAttribute:
		return "attribute"
	case DepVar:
		return "var"
	default:
		return "unknown"
	}
}

// DependencySpec identifies one endpoint (dependent or independent) of
// a dependency edge.
type DependencySpec struct {
	Type DepType
	ID   string
	Name string
}

// RandomSpec is the independent endpoint every nondeterministic function
// call depends on, so re-evaluation can be forced.
var RandomSpec = DependencySpec{Type: DepSpecial, ID: "random", Name: "random"}

// Dependency is one recorded edge from a dependent formula to an
// independent name or resource. Dependent and AggFnIndices have
// defaults applied by Context.RegisterDependency when left zero: the
// context's owner spec and the current aggregate-index snapshot.
type Dependency struct {
	Dependent    DependencySpec
	Independent  DependencySpec
	AggFnIndices []int
}

// Tracker receives dependency events discovered during compilation and
// evaluation. A recompute/invalidation engine implements it; the core
// only emits RegisterDependency and InvalidateNamespace, while
// InvalidateDependent travels the other direction, from the engine to a
// context that caches results.
type Tracker interface {
	// RegisterDependency records an edge. Defaults are already applied
	// by the time a tracker sees the dependency.
	RegisterDependency(dep Dependency)

	// InvalidateDependent tells a dependent that one of its
	// dependencies changed. Cases lists affected case indices when the
	// change is partial; forceAggregate requests invalidation of
	// aggregate caches regardless of the edge's aggregate positions.
	InvalidateDependent(dependent DependencySpec, dep Dependency, cases []int, forceAggregate bool)

	// InvalidateNamespace signals that the resolvable-name space itself
	// changed (a variable was added, removed or renamed), independent
	// of any value-level dependency.
	InvalidateNamespace()
}

// NoopTracker is the base Tracker: every hook is a no-op. Engines embed
// it and override the hooks they care about.
type NoopTracker struct{}

func (NoopTracker) RegisterDependency(Dependency) {}

func (NoopTracker) InvalidateDependent(DependencySpec, Dependency, []int, bool) {}

func (NoopTracker) InvalidateNamespace() {}
