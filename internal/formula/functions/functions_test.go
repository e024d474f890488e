package functions_test

import (
	"math"
	"testing"
	"time"

	"caliper/internal/formula/functions"
	"caliper/internal/value"
)

func callBuiltin(t *testing.T, r *functions.Registry, name string, args ...value.Value) value.Value {
	t.Helper()
	fn := r.LookupBuiltin(name)
	if fn == nil {
		t.Fatalf("builtin %q not found", name)
	}
	v, err := fn.Call(args)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return v
}

func callHostMath(t *testing.T, r *functions.Registry, name string, args ...value.Value) value.Value {
	t.Helper()
	fn := r.LookupHostMath(name)
	if fn == nil {
		t.Fatalf("host-math function %q not found", name)
	}
	v, err := fn.Call(args)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return v
}

func wantNum(t *testing.T, got value.Value, want, eps float64) {
	t.Helper()
	if got.Kind != value.KindNumber {
		t.Fatalf("expected a number, got kind %d (%s)", got.Kind, got.String())
	}
	if math.Abs(got.Num-want) > eps {
		t.Fatalf("got %g, want %g (tolerance %g)", got.Num, want, eps)
	}
}

func TestRound(t *testing.T) {
	r := functions.NewRegistry()

	wantNum(t, callBuiltin(t, r, "round", value.Num(3.14159), value.Num(2)), 3.14, 1e-12)
	wantNum(t, callBuiltin(t, r, "round", value.Num(2.5)), 3, 0)
	wantNum(t, callBuiltin(t, r, "round", value.Num(-1.4)), -1, 0)
	// the decimal count is truncated toward an integer first
	wantNum(t, callBuiltin(t, r, "round", value.Num(3.14159), value.Num(2.9)), 3.14, 1e-12)
}

func TestTruncAndFrac(t *testing.T) {
	r := functions.NewRegistry()

	// integer part toward zero: ceil for negative input
	wantNum(t, callBuiltin(t, r, "trunc", value.Num(-2.7)), -2, 0)
	wantNum(t, callBuiltin(t, r, "trunc", value.Num(2.7)), 2, 0)
	wantNum(t, callBuiltin(t, r, "frac", value.Num(-2.7)), -0.7, 1e-12)
	wantNum(t, callBuiltin(t, r, "frac", value.Num(2.25)), 0.25, 1e-12)
}

func TestLogarithms(t *testing.T) {
	r := functions.NewRegistry()

	wantNum(t, callBuiltin(t, r, "log", value.Num(100)), 2, 1e-12)
	wantNum(t, callBuiltin(t, r, "ln", value.Num(math.E)), 1, 1e-12)
}

func TestConversions(t *testing.T) {
	r := functions.NewRegistry()

	if got := callBuiltin(t, r, "boolean", value.Num(0)); got.Bool {
		t.Fatal("boolean(0) = true, want false")
	}
	if got := callBuiltin(t, r, "boolean", value.Str("yes")); !got.Bool {
		t.Fatal(`boolean("yes") = false, want true`)
	}
	wantNum(t, callBuiltin(t, r, "number", value.Str("12.5")), 12.5, 0)
	if got := callBuiltin(t, r, "string", value.Num(3.5)); got.Str != "3.5" {
		t.Fatalf("string(3.5) = %q, want %q", got.Str, "3.5")
	}

	fn := r.LookupBuiltin("number")
	if _, err := fn.Call([]value.Value{value.Str("not a number")}); err == nil {
		t.Fatal(`number("not a number") should fail`)
	}
}

func TestIsFinite(t *testing.T) {
	r := functions.NewRegistry()

	if got := callBuiltin(t, r, "isFinite", value.Num(1)); !got.Bool {
		t.Fatal("isFinite(1) = false")
	}
	if got := callBuiltin(t, r, "isFinite", value.Num(math.Inf(1))); got.Bool {
		t.Fatal("isFinite(+Inf) = true")
	}
	if got := callBuiltin(t, r, "isFinite", value.Str("oops")); got.Bool {
		t.Fatal(`isFinite("oops") = true`)
	}
}

type fixedRandom struct{ v float64 }

func (f fixedRandom) Float64() float64 { return f.v }

func TestRandomForms(t *testing.T) {
	r := functions.NewRegistry()
	r.SetRandomSource(fixedRandom{v: 0.5})

	wantNum(t, callBuiltin(t, r, "random"), 0.5, 0)
	wantNum(t, callBuiltin(t, r, "random", value.Num(8)), 4, 0)
	wantNum(t, callBuiltin(t, r, "random", value.Num(5), value.Num(10)), 7.5, 0)

	spec, ok := r.Spec("random")
	if !ok || !spec.IsRandom {
		t.Fatalf("random spec %+v, want IsRandom", spec)
	}

	// draws stay inside the half-open interval with the real source
	r2 := functions.NewRegistry()
	for i := 0; i < 100; i++ {
		got := callBuiltin(t, r2, "random", value.Num(5), value.Num(10))
		if got.Num < 5 || got.Num >= 10 {
			t.Fatalf("random(5, 10) = %g, outside [5,10)", got.Num)
		}
	}
}

func TestGreatCircleDistance(t *testing.T) {
	r := functions.NewRegistry()

	// pole-to-equator quarter arc
	got := callBuiltin(t, r, "greatCircleDistance",
		value.Num(0), value.Num(0), value.Num(0), value.Num(90))
	wantNum(t, got, 10007.5, 0.1)

	// zero distance for identical points
	got = callBuiltin(t, r, "greatCircleDistance",
		value.Num(48.85), value.Num(2.35), value.Num(48.85), value.Num(2.35))
	wantNum(t, got, 0, 1e-9)
}

func TestDateFunctions(t *testing.T) {
	r := functions.NewRegistry()

	secs := 1720000000.0 // mid-2024, away from month boundaries in any zone
	wantMonth := time.UnixMilli(int64(secs * 1000)).Month().String()
	if got := callBuiltin(t, r, "month", value.Num(secs)); got.Str != wantMonth {
		t.Fatalf("month(%g) = %q, want %q", secs, got.Str, wantMonth)
	}

	d := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := callBuiltin(t, r, "month", value.Date(d)); got.Str != "March" {
		t.Fatalf("month(date) = %q, want March", got.Str)
	}

	wantDate := time.Unix(int64(secs), 0).Format("1/2/2006")
	if got := callBuiltin(t, r, "secondsToDate", value.Num(secs)); got.Str != wantDate {
		t.Fatalf("secondsToDate(%g) = %q, want %q", secs, got.Str, wantDate)
	}
}

func TestAggregates(t *testing.T) {
	r := functions.NewRegistry()

	wantNum(t, callBuiltin(t, r, "sum", value.Num(1), value.Num(2), value.Num(3)), 6, 0)
	wantNum(t, callBuiltin(t, r, "mean", value.Num(2), value.Num(4)), 3, 0)
	wantNum(t, callBuiltin(t, r, "count", value.Num(1), value.Str("a")), 2, 0)

	for _, name := range []string{"count", "sum", "mean"} {
		spec, ok := r.Spec(name)
		if !ok {
			t.Fatalf("%s has no spec", name)
		}
		if !spec.IsAggregate {
			t.Fatalf("%s not marked aggregate", name)
		}
		if spec.MaxArgs != functions.Unbounded {
			t.Fatalf("%s MaxArgs = %d, want Unbounded", name, spec.MaxArgs)
		}
	}
}

func TestHostMathTable(t *testing.T) {
	r := functions.NewRegistry()

	wantNum(t, callHostMath(t, r, "sqrt", value.Num(64)), 8, 0)
	wantNum(t, callHostMath(t, r, "pow", value.Num(2), value.Num(10)), 1024, 0)
	wantNum(t, callHostMath(t, r, "max", value.Num(3), value.Num(9), value.Num(-2)), 9, 0)
	wantNum(t, callHostMath(t, r, "min", value.Num(3), value.Num(9), value.Num(-2)), -2, 0)
	wantNum(t, callHostMath(t, r, "sign", value.Num(-7)), -1, 0)
	wantNum(t, callHostMath(t, r, "abs", value.Num(-7)), 7, 0)
}

func TestRegistryMetadata(t *testing.T) {
	r := functions.NewRegistry()

	names := r.Names()
	if len(names) == 0 {
		t.Fatal("registry has no names")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}

	spec, ok := r.Spec("greatCircleDistance")
	if !ok {
		t.Fatal("greatCircleDistance has no spec")
	}
	if spec.MinArgs != 4 || spec.MaxArgs != 4 {
		t.Fatalf("greatCircleDistance bounds %d..%d, want 4..4", spec.MinArgs, spec.MaxArgs)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	r := functions.NewRegistry()

	defer func() {
		if recover() == nil {
			t.Fatal("duplicate registration did not panic")
		}
	}()
	r.RegisterBuiltin(functions.Func{
		Name: "round",
		Spec: functions.Spec{MinArgs: 1, MaxArgs: 1},
		Call: func(args []value.Value) (value.Value, error) { return value.Value{}, nil },
	})
}
