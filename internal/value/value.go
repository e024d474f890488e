package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the type of a value at runtime.
type Kind int

const (
	KindInvalid Kind = iota
	KindNumber
	KindString
	KindBool
	KindDate
)

// Value is a universal value for formula evaluation.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
	Date time.Time
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindDate:
		return v.Date.Format("1/2/2006")
	default:
		return "<invalid>"
	}
}

// Helpers

func Num(v float64) Value {
	return Value{Kind: KindNumber, Num: v}
}

func Str(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func Bool(v bool) Value {
	return Value{Kind: KindBool, Bool: v}
}

func Date(t time.Time) Value {
	return Value{Kind: KindDate, Date: t}
}

// ToNumber coerces a value to a float64. Strings are parsed as decimal
// numbers, booleans map to 0/1, dates convert to epoch seconds.
func ToNumber(v Value) (float64, error) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to a number", v.Str)
		}
		return n, nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case KindDate:
		return float64(v.Date.Unix()), nil
	default:
		return 0, fmt.Errorf("cannot convert %s to a number", v.String())
	}
}

// ToBool coerces a value to a boolean. Zero, NaN, the empty string and
// the zero date are false; everything else is true.
func ToBool(v Value) bool {
	switch v.Kind {
	case KindNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case KindString:
		return v.Str != ""
	case KindBool:
		return v.Bool
	case KindDate:
		return !v.Date.IsZero()
	default:
		return false
	}
}

// ToString coerces a value to its display string.
func ToString(v Value) string {
	return v.String()
}

// Equal compares two values, coercing across number/string/bool kinds
// the way comparison operators in formulas do.
func Equal(a, b Value) bool {
	if a.Kind == b.Kind {
		switch a.Kind {
		case KindNumber:
			return a.Num == b.Num
		case KindString:
			return a.Str == b.Str
		case KindBool:
			return a.Bool == b.Bool
		case KindDate:
			return a.Date.Equal(b.Date)
		default:
			return false
		}
	}
	an, aerr := ToNumber(a)
	bn, berr := ToNumber(b)
	if aerr == nil && berr == nil {
		return an == bn
	}
	return ToString(a) == ToString(b)
}
