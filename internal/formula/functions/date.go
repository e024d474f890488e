package functions

import (
	"time"

	"caliper/internal/value"
)

func registerDate(r *Registry) {
	registerSecondsToDate(r)
	registerMonth(r)
}

// secondsToDate converts epoch seconds to a date string.
func registerSecondsToDate(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "secondsToDate",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryDateTime},
		Call: func(args []value.Value) (value.Value, error) {
			secs, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			t := time.Unix(int64(secs), 0)
			return value.Str(t.Format("1/2/2006")), nil
		},
	})
}

// month returns the English month name for a date value or for epoch
// seconds. Numeric input is scaled to milliseconds because date
// arithmetic downstream is millisecond-based.
func registerMonth(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "month",
		Spec: Spec{MinArgs: 1, MaxArgs: 1, Category: CategoryDateTime},
		Call: func(args []value.Value) (value.Value, error) {
			if args[0].Kind == value.KindDate {
				return value.Str(args[0].Date.Month().String()), nil
			}
			secs, err := value.ToNumber(args[0])
			if err != nil {
				return value.Value{}, err
			}
			t := time.UnixMilli(int64(secs * 1000))
			return value.Str(t.Month().String()), nil
		},
	})
}
