package functions

import "caliper/internal/value"

// Aggregate functions summarize a collection of values. They are marked
// IsAggregate so compilation tracks their nesting in the function
// context stack and dependency edges carry the aggregate positions.
func registerAggregates(r *Registry) {
	registerCount(r)
	registerSum(r)
	registerMean(r)
}

func registerCount(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "count",
		Spec: Spec{MinArgs: 0, MaxArgs: Unbounded, Category: CategoryStatistical, IsAggregate: true},
		Call: func(args []value.Value) (value.Value, error) {
			n := 0
			for _, arg := range args {
				if arg.Kind != value.KindInvalid {
					n++
				}
			}
			return value.Num(float64(n)), nil
		},
	})
}

func registerSum(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "sum",
		Spec: Spec{MinArgs: 1, MaxArgs: Unbounded, Category: CategoryStatistical, IsAggregate: true},
		Call: func(args []value.Value) (value.Value, error) {
			total := 0.0
			for _, arg := range args {
				n, err := value.ToNumber(arg)
				if err != nil {
					return value.Value{}, err
				}
				total += n
			}
			return value.Num(total), nil
		},
	})
}

func registerMean(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "mean",
		Spec: Spec{MinArgs: 1, MaxArgs: Unbounded, Category: CategoryStatistical, IsAggregate: true},
		Call: func(args []value.Value) (value.Value, error) {
			total := 0.0
			for _, arg := range args {
				n, err := value.ToNumber(arg)
				if err != nil {
					return value.Value{}, err
				}
				total += n
			}
			return value.Num(total / float64(len(args))), nil
		},
	})
}
