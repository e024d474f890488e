package functions

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"caliper/internal/value"
)

// Category classifies a function for documentation and autocompletion.
type Category int

const (
	CategoryArithmetic Category = iota
	CategoryConversion
	CategoryDateTime
	CategoryStatistical
	CategoryRandom
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryArithmetic:
		return "arithmetic"
	case CategoryConversion:
		return "conversion"
	case CategoryDateTime:
		return "date/time"
	case CategoryStatistical:
		return "statistical"
	case CategoryRandom:
		return "random"
	default:
		return "other"
	}
}

// Unbounded marks a function that accepts any number of arguments at or
// above its minimum.
const Unbounded = -1

// Spec describes a function signature: argument-count bounds, category,
// and whether calls are nondeterministic or aggregate over a collection.
// MaxArgs is informative metadata; only MinArgs is enforced at call time.
type Spec struct {
	MinArgs     int
	MaxArgs     int // Unbounded if unlimited
	Category    Category
	IsRandom    bool
	IsAggregate bool
}

// Func is a complete function: signature metadata plus implementation.
type Func struct {
	Name string
	Spec Spec
	Call func(args []value.Value) (value.Value, error)
}

// RandomSource supplies uniform draws in [0,1). Swappable for tests.
type RandomSource interface {
	Float64() float64
}

type defaultRandom struct{}

func (defaultRandom) Float64() float64 { return rand.Float64() }

// Registry holds the builtin and host-math function tables. It is
// populated once during construction and read-only afterwards, so a
// single Registry is safely shared across concurrent evaluations.
type Registry struct {
	mu sync.RWMutex

	builtins map[string]*Func
	hostMath map[string]*Func
	specs    map[string]Spec // append-only union of both tables

	rng RandomSource
}

// NewRegistry builds a registry with the full builtin and host-math
// function set. Registration happens here, explicitly, rather than in
// package init functions, so construction order is visible to callers.
func NewRegistry() *Registry {
	r := &Registry{
		builtins: make(map[string]*Func),
		hostMath: make(map[string]*Func),
		specs:    make(map[string]Spec),
		rng:      defaultRandom{},
	}
	registerConversions(r)
	registerArithmetic(r)
	registerRandom(r)
	registerGeo(r)
	registerDate(r)
	registerAggregates(r)
	registerHostMath(r)
	return r
}

// SetRandomSource replaces the random source. Call before sharing the
// registry across evaluations.
func (r *Registry) SetRandomSource(src RandomSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng = src
}

func (r *Registry) random() float64 {
	r.mu.RLock()
	src := r.rng
	r.mu.RUnlock()
	return src.Float64()
}

// RegisterBuiltin adds a builtin function. Panics on duplicate names or
// invalid metadata, mirroring the contract that registration happens
// once at process start.
func (r *Registry) RegisterBuiltin(f Func) {
	r.register(r.builtins, f)
}

// RegisterHostMath adds a host-math function. Same contract as
// RegisterBuiltin; the table is consulted after builtins.
func (r *Registry) RegisterHostMath(f Func) {
	r.register(r.hostMath, f)
}

func (r *Registry) register(table map[string]*Func, f Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.Name == "" {
		panic("functions: registering a function with no name")
	}
	if f.Call == nil {
		panic(fmt.Sprintf("functions: %s has no implementation", f.Name))
	}
	if f.Spec.MaxArgs != Unbounded && f.Spec.MinArgs > f.Spec.MaxArgs {
		panic(fmt.Sprintf("functions: %s has MinArgs %d > MaxArgs %d",
			f.Name, f.Spec.MinArgs, f.Spec.MaxArgs))
	}
	if _, exists := table[f.Name]; exists {
		panic(fmt.Sprintf("functions: %s is already registered", f.Name))
	}
	fn := f
	table[f.Name] = &fn
	r.specs[f.Name] = f.Spec
}

// LookupBuiltin finds a builtin function by name. Returns nil if not found.
func (r *Registry) LookupBuiltin(name string) *Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtins[name]
}

// LookupHostMath finds a host-math function by name. Returns nil if not found.
func (r *Registry) LookupHostMath(name string) *Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hostMath[name]
}

// Spec returns the signature metadata for a registered name.
func (r *Registry) Spec(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	return s, ok
}

// Names returns every registered function name in sorted order. Used by
// autocompletion and documentation surfaces.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
