package parser

import (
	"fmt"
	"strconv"

	"caliper/internal/ast"
	"caliper/internal/lexer"
	"caliper/internal/token"
)

// Parser builds an expression tree from a token stream. The grammar is
// plain arithmetic with comparisons, boolean connectives and function
// calls; there are no statements.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// init cur/peek
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf("%d:%d: ", pos.Line, pos.Column) + fmt.Sprintf(format, args...)
	p.errors = append(p.errors, msg)
}

func (p *Parser) expect(kind token.Kind) token.Token {
	if p.cur.Kind != kind {
		p.errorf(p.cur.Pos, "expected %s, got %s (%q)", kind, p.cur.Kind, p.cur.Lexeme)
	}
	tok := p.cur
	p.nextToken()
	return tok
}

// Parse parses source text into a single expression. Lexer errors are
// folded into the parser's error list.
func Parse(src string) (ast.Expr, []string) {
	l := lexer.New(src)
	p := New(l)
	expr := p.ParseExpr()
	if p.cur.Kind != token.EOF {
		p.errorf(p.cur.Pos, "unexpected trailing input %q", p.cur.Lexeme)
	}
	errs := append([]string{}, l.Errors()...)
	errs = append(errs, p.errors...)
	return expr, errs
}

// Precedence levels, lowest first.
const (
	precLowest = iota
	precOr     // ||
	precAnd    // &&
	precEqual  // == !=
	precCompare
	precSum     // + -
	precProduct // * / %
	precPower   // ^
)

func precedenceOf(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precOr
	case token.AndAnd:
		return precAnd
	case token.Eq, token.NotEq:
		return precEqual
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precCompare
	case token.Plus, token.Minus:
		return precSum
	case token.Star, token.Slash, token.Percent:
		return precProduct
	case token.Caret:
		return precPower
	default:
		return precLowest
	}
}

func (p *Parser) ParseExpr() ast.Expr {
	return p.parseBinary(precLowest)
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		prec := precedenceOf(p.cur.Kind)
		if prec <= minPrec {
			return left
		}
		op := p.cur.Kind
		p.nextToken()

		// '^' binds right to left so 2^3^2 is 2^(3^2)
		var right ast.Expr
		if op == token.Caret {
			right = p.parseBinary(prec - 1)
		} else {
			right = p.parseBinary(prec)
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Kind {
	case token.Minus, token.Bang:
		opTok := p.cur
		p.nextToken()
		x := p.parseUnary()
		return &ast.UnaryExpr{Op: opTok.Kind, OpPos: opTok.Pos, X: x}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Kind {
	case token.Number:
		tok := p.cur
		p.nextToken()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid number %q", tok.Lexeme)
		}
		return &ast.NumberLit{Value: v, Lexeme: tok.Lexeme, LitPos: tok.Pos}

	case token.String:
		tok := p.cur
		p.nextToken()
		return &ast.StringLit{Value: tok.Lexeme, LitPos: tok.Pos}

	case token.True, token.False:
		tok := p.cur
		p.nextToken()
		return &ast.BoolLit{Value: tok.Kind == token.True, LitPos: tok.Pos}

	case token.Ident:
		tok := p.cur
		p.nextToken()
		if p.cur.Kind == token.LParen {
			return p.parseCall(tok)
		}
		return &ast.Ident{Name: tok.Lexeme, NamePos: tok.Pos}

	case token.LParen:
		p.nextToken()
		expr := p.ParseExpr()
		p.expect(token.RParen)
		return expr

	default:
		p.errorf(p.cur.Pos, "unexpected token %s (%q)", p.cur.Kind, p.cur.Lexeme)
		tok := p.cur
		p.nextToken()
		return &ast.Ident{Name: tok.Lexeme, NamePos: tok.Pos}
	}
}

func (p *Parser) parseCall(name token.Token) ast.Expr {
	call := &ast.CallExpr{Name: name.Lexeme, NamePos: name.Pos}
	p.expect(token.LParen)

	if p.cur.Kind == token.RParen {
		p.nextToken()
		return call
	}

	call.Args = append(call.Args, p.ParseExpr())
	for p.cur.Kind == token.Comma {
		p.nextToken()
		call.Args = append(call.Args, p.ParseExpr())
	}
	p.expect(token.RParen)
	return call
}
