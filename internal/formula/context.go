package formula

import (
	"log"
	"math"
	"strings"

	"caliper/internal/ast"
	"caliper/internal/formula/functions"
	"caliper/internal/token"
	"caliper/internal/value"
)

// Compiled is a reusable executable artifact produced from one
// expression node. It is invoked with the compile-time context (instance
// variables and function tables) and a per-call evaluation scope
// (environment variables), and may be re-invoked with different
// evaluation scopes without recompilation.
type Compiled func(c *Context, e *EvalScope) (value.Value, error)

// EvalScope carries the environment variables supplied for one
// evaluation. The table is owned by the caller and never mutated here.
type EvalScope struct {
	Vars map[string]value.Value
}

// Lookup returns the environment value bound to name.
func (e *EvalScope) Lookup(name string) (value.Value, bool) {
	if e == nil || e.Vars == nil {
		return value.Value{}, false
	}
	v, ok := e.Vars[name]
	return v, ok
}

// Context is the compilation/evaluation context for formulas. It
// resolves identifiers and function names across the layered scopes,
// tracks aggregate-function nesting, and reports discovered
// dependencies to its Tracker.
//
// A Context owns mutable per-pass state (the function context stack)
// and must not be shared across concurrent compilations. The function
// registry it references is read-only and freely shared.
type Context struct {
	// Owner identifies the formula this context compiles on behalf of;
	// it is the default dependent endpoint of recorded dependencies.
	Owner DependencySpec

	// Vars is the instance-variable scope: longer-lived bindings owned
	// by the caller. Readable at compile and evaluation time.
	Vars map[string]value.Value

	// EnvNames lists the environment-variable names that evaluation
	// scopes will supply. Compilation needs the names; the values
	// arrive per call in an EvalScope.
	EnvNames map[string]struct{}

	// Registry provides the builtin and host-math function tables.
	Registry *functions.Registry

	// Client holds caller-registered functions, consulted after the
	// builtin and host-math scopes.
	Client map[string]functions.Func

	// Tracker receives dependency events. Defaults to NoopTracker.
	Tracker Tracker

	// Logf receives non-fatal diagnostics (stack imbalance).
	Logf func(format string, args ...interface{})

	stack FunctionContextStack
}

// NewContext creates a context over the given registry. The tracker may
// be nil, in which case dependency events are dropped.
func NewContext(reg *functions.Registry, tracker Tracker) *Context {
	if tracker == nil {
		tracker = NoopTracker{}
	}
	c := &Context{
		Registry: reg,
		Tracker:  tracker,
		Logf:     log.Printf,
	}
	c.stack.logf = func(format string, args ...interface{}) {
		c.Logf(format, args...)
	}
	return c
}

// constantValue resolves the fixed constant scope: pi/π and e.
func constantValue(name string) (value.Value, bool) {
	switch name {
	case "pi", "π":
		return value.Num(math.Pi), true
	case "e":
		return value.Num(math.E), true
	}
	return value.Value{}, false
}

// CompileVariable resolves an identifier on the compile path. The
// priority order is constants, then the environment scope, then the
// instance scope. An identifier matching no scope does not abort
// compilation: a dependency on the unresolved name is recorded and the
// returned artifact raises UnresolvedIdentifierError if ever invoked.
func (c *Context) CompileVariable(name string) Compiled {
	if v, ok := constantValue(name); ok {
		return func(*Context, *EvalScope) (value.Value, error) {
			return v, nil
		}
	}
	if _, ok := c.EnvNames[name]; ok {
		return func(_ *Context, e *EvalScope) (value.Value, error) {
			v, ok := e.Lookup(name)
			if !ok {
				return value.Value{}, &UnresolvedIdentifierError{Name: name}
			}
			return v, nil
		}
	}
	if _, ok := c.Vars[name]; ok {
		return func(cc *Context, _ *EvalScope) (value.Value, error) {
			v, ok := cc.Vars[name]
			if !ok {
				return value.Value{}, &UnresolvedIdentifierError{Name: name}
			}
			return v, nil
		}
	}

	c.RegisterDependency(Dependency{
		Independent: DependencySpec{Type: DepUnresolved, ID: name, Name: name},
	})
	return func(*Context, *EvalScope) (value.Value, error) {
		return value.Value{}, &UnresolvedIdentifierError{Name: name}
	}
}

// EvaluateVariable resolves an identifier immediately, using the same
// priority order as CompileVariable. There is no later phase to defer
// to, so an unresolved name raises at once.
func (c *Context) EvaluateVariable(name string, e *EvalScope) (value.Value, error) {
	if v, ok := constantValue(name); ok {
		return v, nil
	}
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	if v, ok := c.Vars[name]; ok {
		return v, nil
	}
	return value.Value{}, &UnresolvedIdentifierError{Name: name}
}

// lookupFunction resolves a function name across the builtin, host-math
// and client scopes, first match wins.
func (c *Context) lookupFunction(name string) *functions.Func {
	if fn := c.Registry.LookupBuiltin(name); fn != nil {
		return fn
	}
	if fn := c.Registry.LookupHostMath(name); fn != nil {
		return fn
	}
	if fn, ok := c.Client[name]; ok {
		return &fn
	}
	return nil
}

// FunctionSpec returns the signature metadata for a resolvable function
// name, searching the same scopes as call resolution.
func (c *Context) FunctionSpec(name string) (functions.Spec, bool) {
	if fn := c.lookupFunction(name); fn != nil {
		return fn.Spec, true
	}
	return functions.Spec{}, false
}

// checkArity validates the argument count against the resolved spec.
// Only the minimum is enforced; the declared maximum is metadata.
func checkArity(name string, spec functions.Spec, got int) error {
	if got < spec.MinArgs {
		return &ArityError{Name: name, Got: got, Min: spec.MinArgs, Max: spec.MaxArgs}
	}
	return nil
}

// CompileFunctionCall resolves a function name and produces an artifact
// that evaluates the argument artifacts in order and applies the
// function. Arity violations surface immediately; an unresolved name
// compiles to an artifact that raises UnresolvedFunctionError when
// invoked, so one bad call does not prevent the rest of the tree from
// compiling.
func (c *Context) CompileFunctionCall(name string, args []Compiled) (Compiled, error) {
	fn := c.lookupFunction(name)
	if fn == nil {
		return func(*Context, *EvalScope) (value.Value, error) {
			return value.Value{}, &UnresolvedFunctionError{Name: name}
		}, nil
	}
	if err := checkArity(name, fn.Spec, len(args)); err != nil {
		return nil, err
	}
	if fn.Spec.IsRandom {
		c.RegisterDependency(Dependency{Independent: RandomSpec})
	}
	call := fn.Call
	return func(cc *Context, e *EvalScope) (value.Value, error) {
		vals := make([]value.Value, len(args))
		for i, arg := range args {
			v, err := arg(cc, e)
			if err != nil {
				return value.Value{}, err
			}
			vals[i] = v
		}
		return call(vals)
	}, nil
}

// EvaluateFunctionCall resolves and applies a function immediately.
// Unresolved names and arity violations both raise at once.
func (c *Context) EvaluateFunctionCall(name string, args []value.Value) (value.Value, error) {
	fn := c.lookupFunction(name)
	if fn == nil {
		return value.Value{}, &UnresolvedFunctionError{Name: name}
	}
	if err := checkArity(name, fn.Spec, len(args)); err != nil {
		return value.Value{}, err
	}
	if fn.Spec.IsRandom {
		c.RegisterDependency(Dependency{Independent: RandomSpec})
	}
	return fn.Call(args)
}

// BeginFunctionContext pushes a function onto the context stack as
// compilation enters its argument list.
func (c *Context) BeginFunctionContext(name string) {
	spec, _ := c.FunctionSpec(name)
	c.stack.Begin(FunctionContext{Name: name, IsAggregate: spec.IsAggregate})
}

// EndFunctionContext pops the matching entry on exit from a function's
// argument list. Reports false (and logs) on a mismatch.
func (c *Context) EndFunctionContext(name string) bool {
	return c.stack.End(FunctionContext{Name: name})
}

// AggregateIndices returns the stack positions of the aggregate
// functions enclosing the current node, in push order.
func (c *Context) AggregateIndices() []int {
	return c.stack.AggregateIndices()
}

// RegisterDependency applies defaults to dep and forwards it to the
// tracker. The independent spec must be set by the caller; a zero
// dependent spec defaults to the context owner, nil aggregate indices
// default to the current stack snapshot.
func (c *Context) RegisterDependency(dep Dependency) {
	if dep.Dependent == (DependencySpec{}) {
		dep.Dependent = c.Owner
	}
	if dep.AggFnIndices == nil {
		dep.AggFnIndices = c.stack.AggregateIndices()
	}
	c.Tracker.RegisterDependency(dep)
}

// InvalidateNamespace broadcasts that the resolvable-name space changed.
func (c *Context) InvalidateNamespace() {
	c.Tracker.InvalidateNamespace()
}

// Compile walks an expression tree and produces one artifact for the
// whole tree, using the node-level compile operations above.
func (c *Context) Compile(node ast.Expr) (Compiled, error) {
	switch n := node.(type) {
	case *ast.NumberLit:
		v := value.Num(n.Value)
		return func(*Context, *EvalScope) (value.Value, error) { return v, nil }, nil

	case *ast.StringLit:
		v := value.Str(n.Value)
		return func(*Context, *EvalScope) (value.Value, error) { return v, nil }, nil

	case *ast.BoolLit:
		v := value.Bool(n.Value)
		return func(*Context, *EvalScope) (value.Value, error) { return v, nil }, nil

	case *ast.Ident:
		return c.CompileVariable(n.Name), nil

	case *ast.CallExpr:
		c.BeginFunctionContext(n.Name)
		args := make([]Compiled, len(n.Args))
		for i, argNode := range n.Args {
			arg, err := c.Compile(argNode)
			if err != nil {
				c.EndFunctionContext(n.Name)
				return nil, err
			}
			args[i] = arg
		}
		c.EndFunctionContext(n.Name)
		return c.CompileFunctionCall(n.Name, args)

	case *ast.UnaryExpr:
		x, err := c.Compile(n.X)
		if err != nil {
			return nil, err
		}
		op := n.Op
		return func(cc *Context, e *EvalScope) (value.Value, error) {
			v, err := x(cc, e)
			if err != nil {
				return value.Value{}, err
			}
			return applyUnary(op, v)
		}, nil

	case *ast.BinaryExpr:
		left, err := c.Compile(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.Compile(n.Right)
		if err != nil {
			return nil, err
		}
		op := n.Op
		if op == token.AndAnd || op == token.OrOr {
			return func(cc *Context, e *EvalScope) (value.Value, error) {
				l, err := left(cc, e)
				if err != nil {
					return value.Value{}, err
				}
				lb := value.ToBool(l)
				if op == token.AndAnd && !lb {
					return value.Bool(false), nil
				}
				if op == token.OrOr && lb {
					return value.Bool(true), nil
				}
				r, err := right(cc, e)
				if err != nil {
					return value.Value{}, err
				}
				return value.Bool(value.ToBool(r)), nil
			}, nil
		}
		return func(cc *Context, e *EvalScope) (value.Value, error) {
			l, err := left(cc, e)
			if err != nil {
				return value.Value{}, err
			}
			r, err := right(cc, e)
			if err != nil {
				return value.Value{}, err
			}
			return applyBinary(op, l, r)
		}, nil
	}
	return nil, &UnresolvedFunctionError{Name: "<unknown node>"}
}

// Evaluate walks an expression tree and computes an immediate value,
// the direct-interpretation counterpart of Compile. Resolution rules
// are shared; only error timing differs.
func (c *Context) Evaluate(node ast.Expr, e *EvalScope) (value.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLit:
		return value.Num(n.Value), nil

	case *ast.StringLit:
		return value.Str(n.Value), nil

	case *ast.BoolLit:
		return value.Bool(n.Value), nil

	case *ast.Ident:
		return c.EvaluateVariable(n.Name, e)

	case *ast.CallExpr:
		c.BeginFunctionContext(n.Name)
		args := make([]value.Value, len(n.Args))
		for i, argNode := range n.Args {
			v, err := c.Evaluate(argNode, e)
			if err != nil {
				c.EndFunctionContext(n.Name)
				return value.Value{}, err
			}
			args[i] = v
		}
		c.EndFunctionContext(n.Name)
		return c.EvaluateFunctionCall(n.Name, args)

	case *ast.UnaryExpr:
		v, err := c.Evaluate(n.X, e)
		if err != nil {
			return value.Value{}, err
		}
		return applyUnary(n.Op, v)

	case *ast.BinaryExpr:
		if n.Op == token.AndAnd || n.Op == token.OrOr {
			l, err := c.Evaluate(n.Left, e)
			if err != nil {
				return value.Value{}, err
			}
			lb := value.ToBool(l)
			if n.Op == token.AndAnd && !lb {
				return value.Bool(false), nil
			}
			if n.Op == token.OrOr && lb {
				return value.Bool(true), nil
			}
			r, err := c.Evaluate(n.Right, e)
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(value.ToBool(r)), nil
		}
		l, err := c.Evaluate(n.Left, e)
		if err != nil {
			return value.Value{}, err
		}
		r, err := c.Evaluate(n.Right, e)
		if err != nil {
			return value.Value{}, err
		}
		return applyBinary(n.Op, l, r)
	}
	return value.Value{}, &UnresolvedFunctionError{Name: "<unknown node>"}
}

func applyUnary(op token.Kind, v value.Value) (value.Value, error) {
	switch op {
	case token.Minus:
		n, err := value.ToNumber(v)
		if err != nil {
			return value.Value{}, err
		}
		return value.Num(-n), nil
	case token.Bang:
		return value.Bool(!value.ToBool(v)), nil
	}
	return value.Value{}, &UnresolvedFunctionError{Name: op.String()}
}

func applyBinary(op token.Kind, l, r value.Value) (value.Value, error) {
	switch op {
	case token.Plus:
		// '+' concatenates as soon as either side is a string
		if l.Kind == value.KindString || r.Kind == value.KindString {
			return value.Str(value.ToString(l) + value.ToString(r)), nil
		}
		return numericOp(l, r, func(a, b float64) float64 { return a + b })
	case token.Minus:
		return numericOp(l, r, func(a, b float64) float64 { return a - b })
	case token.Star:
		return numericOp(l, r, func(a, b float64) float64 { return a * b })
	case token.Slash:
		return numericOp(l, r, func(a, b float64) float64 { return a / b })
	case token.Percent:
		return numericOp(l, r, math.Mod)
	case token.Caret:
		return numericOp(l, r, math.Pow)
	case token.Eq:
		return value.Bool(value.Equal(l, r)), nil
	case token.NotEq:
		return value.Bool(!value.Equal(l, r)), nil
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		cmp, err := compare(l, r)
		if err != nil {
			return value.Value{}, err
		}
		switch op {
		case token.Lt:
			return value.Bool(cmp < 0), nil
		case token.LtEq:
			return value.Bool(cmp <= 0), nil
		case token.Gt:
			return value.Bool(cmp > 0), nil
		default:
			return value.Bool(cmp >= 0), nil
		}
	}
	return value.Value{}, &UnresolvedFunctionError{Name: op.String()}
}

func numericOp(l, r value.Value, fn func(a, b float64) float64) (value.Value, error) {
	a, err := value.ToNumber(l)
	if err != nil {
		return value.Value{}, err
	}
	b, err := value.ToNumber(r)
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(fn(a, b)), nil
}

// compare orders two values: numerically when both coerce to numbers,
// lexicographically otherwise.
func compare(l, r value.Value) (int, error) {
	a, aerr := value.ToNumber(l)
	b, berr := value.ToNumber(r)
	if aerr == nil && berr == nil {
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return strings.Compare(value.ToString(l), value.ToString(r)), nil
}
