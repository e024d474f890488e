package functions

import (
	"fmt"

	"caliper/internal/value"
)

// random() draws from [0,1); random(max) from [0,max); random(min,max)
// from [min,max). The form is selected by argument count. Every call is
// flagged nondeterministic so resolution registers a dependency on the
// implicit random source.
func registerRandom(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "random",
		Spec: Spec{MinArgs: 0, MaxArgs: 2, Category: CategoryRandom, IsRandom: true},
		Call: func(args []value.Value) (value.Value, error) {
			draw := r.random()
			switch len(args) {
			case 0:
				return value.Num(draw), nil
			case 1:
				max, err := value.ToNumber(args[0])
				if err != nil {
					return value.Value{}, err
				}
				return value.Num(draw * max), nil
			default:
				min, err := value.ToNumber(args[0])
				if err != nil {
					return value.Value{}, err
				}
				max, err := value.ToNumber(args[1])
				if err != nil {
					return value.Value{}, err
				}
				if max < min {
					return value.Value{}, fmt.Errorf("random: min %g exceeds max %g", min, max)
				}
				return value.Num(min + draw*(max-min)), nil
			}
		},
	})
}
