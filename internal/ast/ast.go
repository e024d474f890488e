package ast

import "caliper/internal/token"

// Basic interfaces

type Node interface {
	Pos() token.Position
}

// Expr is a formula expression node. Formulas are single expressions;
// there are no statements.
type Expr interface {
	Node
	exprNode()
}

// Literals

type NumberLit struct {
	Value  float64
	Lexeme string // original spelling, kept for normalized printing
	LitPos token.Position
}

func (n *NumberLit) Pos() token.Position { return n.LitPos }
func (n *NumberLit) exprNode()           {}

type StringLit struct {
	Value  string
	LitPos token.Position
}

func (s *StringLit) Pos() token.Position { return s.LitPos }
func (s *StringLit) exprNode()           {}

type BoolLit struct {
	Value  bool
	LitPos token.Position
}

func (b *BoolLit) Pos() token.Position { return b.LitPos }
func (b *BoolLit) exprNode()           {}

// Ident is a bare name: a variable, constant, or attribute reference.
type Ident struct {
	Name    string
	NamePos token.Position
}

func (i *Ident) Pos() token.Position { return i.NamePos }
func (i *Ident) exprNode()           {}

// CallExpr is a function invocation with positional arguments.
type CallExpr struct {
	Name    string
	NamePos token.Position
	Args    []Expr
}

func (c *CallExpr) Pos() token.Position { return c.NamePos }
func (c *CallExpr) exprNode()           {}

type UnaryExpr struct {
	Op    token.Kind // Minus or Bang
	OpPos token.Position
	X     Expr
}

func (u *UnaryExpr) Pos() token.Position { return u.OpPos }
func (u *UnaryExpr) exprNode()           {}

type BinaryExpr struct {
	Op    token.Kind
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Pos() token.Position { return b.Left.Pos() }
func (b *BinaryExpr) exprNode()           {}
