package functions

import (
	"fmt"
	"math"

	"caliper/internal/value"
)

func registerArithmetic(r *Registry) {
	registerFrac(r)
	registerIsFinite(r)
	registerLn(r)
	registerLog(r)
	registerRound(r)
	registerTrunc(r)
}

func registerFrac(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "frac",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			x, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			return value.Num(x - math.Trunc(x)), nil
		},
	})
}

func registerIsFinite(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "isFinite",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			x, err := value.ToNumber(args[0])
			if err != nil {
				return value.Bool(false), nil
			}
			return value.Bool(!math.IsNaN(x) && !math.IsInf(x, 0)), nil
		},
	})
}

func registerLn(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "ln",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			x, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			return value.Num(math.Log(x)), nil
		},
	})
}

// log is the base-10 logarithm, distinct from ln.
func registerLog(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "log",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			x, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			return value.Num(math.Log(x) / math.Ln10), nil
		},
	})
}

// round(x) rounds to the nearest integer; round(x, n) to the nearest
// multiple of 10^-n, with n truncated toward an integer first.
func registerRound(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "round",
		Spec: Spec{MinArgs: 1, MaxArgs: 2, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			x, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			if len(args) < 2 {
				return value.Num(math.Round(x)), nil
			}
			n, err := value.ToNumber(args[1])
			if err != nil {
				return value.Value{}, err
			}
			scale := math.Pow(10, math.Trunc(n))
			if scale == 0 || math.IsInf(scale, 0) {
				return value.Value{}, fmt.Errorf("round: invalid decimal count %g", n)
			}
			return value.Num(math.Round(x*scale) / scale), nil
		},
	})
}

// trunc takes the integer part toward zero: ceil for negative input,
// floor for non-negative.
func registerTrunc(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "trunc",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryArithmetic},
		Call: func(args []value.Value) (value.Value, error) {
			x, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			if x < 0 {
				return value.Num(math.Ceil(x)), nil
			}
			return value.Num(math.Floor(x)), nil
		},
	})
}
