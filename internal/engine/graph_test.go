package engine_test

import (
	"testing"

	"caliper/internal/engine"
	"caliper/internal/formula"
	"caliper/internal/formula/functions"
	"caliper/internal/value"
)

func attrSpec(id, name string) formula.DependencySpec {
	return formula.DependencySpec{Type: formula.DepAttribute, ID: id, Name: name}
}

func unresolvedSpec(name string) formula.DependencySpec {
	return formula.DependencySpec{Type: formula.DepUnresolved, ID: name, Name: name}
}

func TestContextFeedsGraph(t *testing.T) {
	g := engine.NewGraph()
	ctx := formula.NewContext(functions.NewRegistry(), g)
	ctx.Owner = attrSpec("a1", "speed")
	ctx.Logf = t.Logf

	f, err := formula.New("distance / elapsed")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := f.Compile(ctx); err != nil {
		t.Fatalf("compile: %v", err)
	}

	// both unresolved names became edges pointing back at the owner
	for _, name := range []string{"distance", "elapsed"} {
		deps := g.DependentsOf(unresolvedSpec(name))
		if len(deps) != 1 || deps[0] != ctx.Owner {
			t.Fatalf("%s dependents = %v, want [%v]", name, deps, ctx.Owner)
		}
	}
}

func TestTouchPropagatesTransitively(t *testing.T) {
	g := engine.NewGraph()

	a := attrSpec("a1", "base")
	b := attrSpec("a2", "derived")
	c := attrSpec("a3", "doublyDerived")

	g.RegisterDependency(formula.Dependency{Dependent: b, Independent: a})
	g.RegisterDependency(formula.Dependency{Dependent: c, Independent: b})

	marked := g.Touch(a)
	if len(marked) != 2 {
		t.Fatalf("touch marked %v, want both dependents", marked)
	}

	dirty := g.Dirty()
	if len(dirty) != 2 {
		t.Fatalf("dirty = %v, want 2 entries", dirty)
	}

	g.MarkClean(b)
	g.MarkClean(c)
	if got := g.Dirty(); len(got) != 0 {
		t.Fatalf("dirty after cleaning = %v, want empty", got)
	}
}

func TestVolatileDependentsAlwaysDirty(t *testing.T) {
	g := engine.NewGraph()
	ctx := formula.NewContext(functions.NewRegistry(), g)
	ctx.Owner = attrSpec("a1", "jitter")
	ctx.Logf = t.Logf

	f, err := formula.New("random(5, 10)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := f.Compile(ctx); err != nil {
		t.Fatalf("compile: %v", err)
	}

	if !g.IsVolatile(ctx.Owner) {
		t.Fatal("owner not marked volatile after compiling a random call")
	}

	// volatile dependents survive MarkClean: they always need recompute
	g.MarkClean(ctx.Owner)
	dirty := g.Dirty()
	if len(dirty) != 1 || dirty[0] != ctx.Owner {
		t.Fatalf("dirty = %v, want the volatile owner", dirty)
	}
}

func TestInvalidateDependentMarksDirty(t *testing.T) {
	g := engine.NewGraph()

	dpt := attrSpec("a1", "speed")
	g.InvalidateDependent(dpt, formula.Dependency{}, nil, false)

	dirty := g.Dirty()
	if len(dirty) != 1 || dirty[0] != dpt {
		t.Fatalf("dirty = %v, want [%v]", dirty, dpt)
	}
}

func TestInvalidateNamespaceMarksAllDependents(t *testing.T) {
	g := engine.NewGraph()

	a := attrSpec("a1", "x")
	b := attrSpec("a2", "y")
	ind := unresolvedSpec("shared")
	g.RegisterDependency(formula.Dependency{Dependent: a, Independent: ind})
	g.RegisterDependency(formula.Dependency{Dependent: b, Independent: ind})

	g.InvalidateNamespace()
	if g.NamespaceEpoch() != 1 {
		t.Fatalf("epoch = %d, want 1", g.NamespaceEpoch())
	}
	if got := g.Dirty(); len(got) != 2 {
		t.Fatalf("dirty = %v, want both dependents", got)
	}
}

func TestDetachRemovesEdges(t *testing.T) {
	g := engine.NewGraph()

	dpt := attrSpec("a1", "speed")
	ind := unresolvedSpec("distance")
	g.RegisterDependency(formula.Dependency{Dependent: dpt, Independent: ind, AggFnIndices: []int{0}})

	if got := g.AggregateIndices(ind, dpt); len(got) != 1 || got[0] != 0 {
		t.Fatalf("aggregate indices %v, want [0]", got)
	}

	g.Detach(dpt)
	if deps := g.DependentsOf(ind); len(deps) != 0 {
		t.Fatalf("dependents after detach = %v, want empty", deps)
	}
	if g.AggregateIndices(ind, dpt) != nil {
		t.Fatal("edge data survived detach")
	}
	if marked := g.Touch(ind); len(marked) != 0 {
		t.Fatalf("touch after detach marked %v", marked)
	}
}

func TestRecompileAfterDetachRebuildsEdges(t *testing.T) {
	g := engine.NewGraph()
	ctx := formula.NewContext(functions.NewRegistry(), g)
	ctx.Owner = attrSpec("a1", "speed")
	ctx.Logf = t.Logf
	ctx.Vars = map[string]value.Value{"elapsed": value.Num(10)}

	compile := func(src string) {
		t.Helper()
		f, err := formula.New(src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if err := f.Compile(ctx); err != nil {
			t.Fatalf("compile: %v", err)
		}
	}

	compile("distance / elapsed")
	if deps := g.DependentsOf(unresolvedSpec("distance")); len(deps) != 1 {
		t.Fatalf("distance dependents = %v", deps)
	}

	// the host edits the formula: detach, then recompile reports fresh edges
	g.Detach(ctx.Owner)
	compile("odometer / elapsed")

	if deps := g.DependentsOf(unresolvedSpec("distance")); len(deps) != 0 {
		t.Fatalf("stale distance edge survived: %v", deps)
	}
	if deps := g.DependentsOf(unresolvedSpec("odometer")); len(deps) != 1 {
		t.Fatalf("odometer dependents = %v", deps)
	}
}
