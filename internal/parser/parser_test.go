package parser_test

import (
	"testing"

	"caliper/internal/ast"
	"caliper/internal/parser"
)

func parse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, errs := parser.Parse(src)
	if len(errs) > 0 {
		t.Fatalf("parse %q: %v", src, errs)
	}
	return expr
}

func TestPrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-a + b", "((-a) + b)"},
		{"a < b && c < d", "((a < b) && (c < d))"},
		{"a || b && c", "(a || (b && c))"},
		{"!a == b", "((!a) == b)"},
		{"a = b", "(a == b)"},
	}
	for _, tc := range cases {
		got := ast.Print(parse(t, tc.src))
		if got != tc.want {
			t.Fatalf("%q parsed as %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestCalls(t *testing.T) {
	expr := parse(t, "round(mean(x, y), 2)")
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", expr)
	}
	if call.Name != "round" || len(call.Args) != 2 {
		t.Fatalf("call = %s/%d args", call.Name, len(call.Args))
	}
	inner, ok := call.Args[0].(*ast.CallExpr)
	if !ok || inner.Name != "mean" || len(inner.Args) != 2 {
		t.Fatalf("inner call mis-parsed: %#v", call.Args[0])
	}

	empty := parse(t, "random()")
	if c, ok := empty.(*ast.CallExpr); !ok || len(c.Args) != 0 {
		t.Fatalf("random() parsed as %#v", empty)
	}
}

func TestLiterals(t *testing.T) {
	if n, ok := parse(t, "2.5e3").(*ast.NumberLit); !ok || n.Value != 2500 {
		t.Fatalf("number literal mis-parsed")
	}
	if s, ok := parse(t, `"hi"`).(*ast.StringLit); !ok || s.Value != "hi" {
		t.Fatalf("string literal mis-parsed")
	}
	if b, ok := parse(t, "true").(*ast.BoolLit); !ok || !b.Value {
		t.Fatalf("bool literal mis-parsed")
	}
}

func TestErrors(t *testing.T) {
	for _, src := range []string{"1 +", "round(1,", ")", "a b"} {
		_, errs := parser.Parse(src)
		if len(errs) == 0 {
			t.Fatalf("%q parsed without errors", src)
		}
	}
}

func TestPrintIsStableUnderWhitespace(t *testing.T) {
	a := ast.Print(parse(t, "sum( x ,y )+1"))
	b := ast.Print(parse(t, "sum(x, y) + 1"))
	if a != b {
		t.Fatalf("normalized prints differ: %q vs %q", a, b)
	}
}
