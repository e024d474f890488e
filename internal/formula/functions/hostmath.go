package functions

import (
	"math"

	"caliper/internal/value"
)

// registerHostMath populates the host-math table from the platform math
// library. These resolve after builtins, so a builtin of the same name
// shadows its host-math counterpart.
func registerHostMath(r *Registry) {
	unary := []struct {
		name string
		fn   func(float64) float64
	}{
		{"abs", math.Abs},
		{"acos", math.Acos},
		{"asin", math.Asin},
		{"atan", math.Atan},
		{"cbrt", math.Cbrt},
		{"ceil", math.Ceil},
		{"cos", math.Cos},
		{"exp", math.Exp},
		{"floor", math.Floor},
		{"sin", math.Sin},
		{"sqrt", math.Sqrt},
		{"tan", math.Tan},
	}
	for _, u := range unary {
		fn := u.fn
		r.RegisterHostMath(Func{
			Name: u.name,
			Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryArithmetic},
			Call: func(args []value.Value) (value.Value, error) {
				x, err := value.ToNumber(args[0])
				if err != nil {
					return value.Value{}, err
				}
				return value.Num(fn(x)), nil
			},
		})
	}

	binary := []struct {
		name string
		fn   func(float64, float64) float64
	}{
		{"atan2", math.Atan2},
		{"hypot", math.Hypot},
		{"pow", math.Pow},
	}
	for _, b := range binary {
		fn := b.fn
		r.RegisterHostMath(Func{
			Name: b.name,
			Spec: Spec{MinArgs: 2, MaxArgs: 2, Category: CategoryArithmetic},
			Call: func(args []value.Value) (value.Value, error) {
				x, err := value.ToNumber(args[0])
				if err != nil {
					return value.Value{}, err
				}
				y, err := value.ToNumber(args[1])
				if err != nil {
					return value.Value{}, err
				}
				return value.Num(fn(x, y)), nil
			},
		})
	}

	r.RegisterHostMath(Func{
		Name: "max",
		Spec: Spec{MinArgs: 1, MaxArgs: Unbounded, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			return fold(args, math.Inf(-1), math.Max)
		},
	})
	r.RegisterHostMath(Func{
		Name: "min",
		Spec: Spec{MinArgs: 1, MaxArgs: Unbounded, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			return fold(args, math.Inf(1), math.Min)
		},
	})
	r.RegisterHostMath(Func{
		Name: "sign",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			x, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			switch {
			case x > 0:
				return value.Num(1), nil
			case x < 0:
				return value.Num(-1), nil
			default:
				return value.Num(0), nil
			}
		},
	})
}

func fold(args []value.Value, init float64, fn func(float64, float64) float64) (value.Value, error) {
	acc := init
	for _, arg := range args {
		n, err := value.ToNumber(arg)
		if err != nil {
			return value.Value{}, err
		}
		acc = fn(acc, n)
	}
	return value.Num(acc), nil
}
