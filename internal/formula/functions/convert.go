package functions

import "caliper/internal/value"

func registerConversions(r *Registry) {
	registerBoolean(r)
	registerNumber(r)
	registerString(r)
}

func registerBoolean(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "boolean",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryConversion},
		Call: func(args []value.Value) (value.Value, error) {
			return value.Bool(value.ToBool(args[0])), nil
		},
	})
}

func registerNumber(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "number",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryConversion},
		Call: func(args []value.Value) (value.Value, error) {
			x, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			return value.Num(x), nil
		},
	})
}

func registerString(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "string",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryConversion},
		Call: func(args []value.Value) (value.Value, error) {
			return value.Str(value.ToString(args[0])), nil
		},
	})
}
