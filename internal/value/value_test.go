package value_test

import (
	"math"
	"testing"
	"time"

	"caliper/internal/value"
)

func TestToNumber(t *testing.T) {
	cases := []struct {
		in   value.Value
		want float64
	}{
		{value.Num(2.5), 2.5},
		{value.Str("42"), 42},
		{value.Str("  3.5 "), 3.5},
		{value.Str(""), 0},
		{value.Bool(true), 1},
		{value.Bool(false), 0},
	}
	for _, tc := range cases {
		got, err := value.ToNumber(tc.in)
		if err != nil {
			t.Fatalf("ToNumber(%v): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ToNumber(%v) = %g, want %g", tc.in, got, tc.want)
		}
	}

	if _, err := value.ToNumber(value.Str("nope")); err == nil {
		t.Fatal(`ToNumber("nope") succeeded`)
	}

	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := value.ToNumber(value.Date(d))
	if err != nil {
		t.Fatalf("ToNumber(date): %v", err)
	}
	if got != float64(d.Unix()) {
		t.Fatalf("ToNumber(date) = %g, want %d", got, d.Unix())
	}
}

func TestToBool(t *testing.T) {
	truthy := []value.Value{value.Num(1), value.Num(-0.5), value.Str("x"), value.Bool(true)}
	for _, v := range truthy {
		if !value.ToBool(v) {
			t.Fatalf("ToBool(%v) = false", v)
		}
	}
	falsy := []value.Value{value.Num(0), value.Num(math.NaN()), value.Str(""), value.Bool(false), {}}
	for _, v := range falsy {
		if value.ToBool(v) {
			t.Fatalf("ToBool(%v) = true", v)
		}
	}
}

func TestEqual(t *testing.T) {
	if !value.Equal(value.Num(3), value.Str("3")) {
		t.Fatal(`3 != "3" under cross-kind comparison`)
	}
	if !value.Equal(value.Bool(true), value.Num(1)) {
		t.Fatal("true != 1 under cross-kind comparison")
	}
	if value.Equal(value.Str("a"), value.Str("b")) {
		t.Fatal(`"a" == "b"`)
	}
	if !value.Equal(value.Str("a"), value.Str("a")) {
		t.Fatal(`"a" != "a"`)
	}
}

func TestStringRendering(t *testing.T) {
	if got := value.Num(2.5).String(); got != "2.5" {
		t.Fatalf("Num(2.5).String() = %q", got)
	}
	if got := value.Num(3).String(); got != "3" {
		t.Fatalf("Num(3).String() = %q", got)
	}
	if got := value.Bool(true).String(); got != "true" {
		t.Fatalf("Bool(true).String() = %q", got)
	}
}
