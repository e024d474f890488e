package ast

import (
	"strconv"
	"strings"

	"caliper/internal/token"
)

// Print renders an expression in a canonical, fully parenthesized form.
// Two formulas that differ only in whitespace or redundant parentheses
// print identically, so the output is usable as an interning key.
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

func printExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *NumberLit:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *StringLit:
		b.WriteString(strconv.Quote(n.Value))
	case *BoolLit:
		if n.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *Ident:
		b.WriteString(n.Name)
	case *CallExpr:
		b.WriteString(n.Name)
		b.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, arg)
		}
		b.WriteByte(')')
	case *UnaryExpr:
		b.WriteByte('(')
		b.WriteString(opString(n.Op))
		printExpr(b, n.X)
		b.WriteByte(')')
	case *BinaryExpr:
		b.WriteByte('(')
		printExpr(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(opString(n.Op))
		b.WriteByte(' ')
		printExpr(b, n.Right)
		b.WriteByte(')')
	default:
		b.WriteString("<unknown>")
	}
}

func opString(k token.Kind) string {
	switch k {
	case token.Plus:
		return "+"
	case token.Minus:
		return "-"
	case token.Star:
		return "*"
	case token.Slash:
		return "/"
	case token.Percent:
		return "%"
	case token.Caret:
		return "^"
	case token.Bang:
		return "!"
	case token.AndAnd:
		return "&&"
	case token.OrOr:
		return "||"
	case token.Eq:
		return "=="
	case token.NotEq:
		return "!="
	case token.Lt:
		return "<"
	case token.LtEq:
		return "<="
	case token.Gt:
		return ">"
	case token.GtEq:
		return ">="
	default:
		return "?"
	}
}
