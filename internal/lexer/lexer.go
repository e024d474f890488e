package lexer

import (
	"fmt"
	"unicode"

	"caliper/internal/token"
)

// Lexer turns formula source text into a token stream.
type Lexer struct {
	input []rune

	pos int

	ch   rune
	line int
	col  int

	errors []string
}

func New(input string) *Lexer {
	l := &Lexer{
		input: []rune(input),
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := token.Position{
		Line:   l.line,
		Column: l.col,
	}

	ch := l.ch

	// EOF
	if ch == 0 {
		return token.Token{
			Kind:   token.EOF,
			Lexeme: "",
			Pos:    pos,
		}
	}

	// Numbers, including a leading decimal point (".5")
	if isDigit(ch) || (ch == '.' && isDigit(l.peekChar())) {
		lit := l.readNumber()
		return token.Token{
			Kind:   token.Number,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Identifiers / keywords
	if isLetter(ch) {
		lit := l.readIdentifier()
		kind := token.LookupIdent(lit)
		return token.Token{
			Kind:   kind,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Strings, single- or double-quoted
	if ch == '"' || ch == '\'' {
		delim := ch
		l.readChar() // consume opening quote
		lit, ok := l.readString(delim, pos)
		if !ok {
			return token.Token{Kind: token.Illegal, Lexeme: "", Pos: pos}
		}
		return token.Token{
			Kind:   token.String,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Single- and two-character tokens
	var kind token.Kind
	var lexeme string

	switch ch {
	case ',':
		kind = token.Comma
		lexeme = ","
	case '(':
		kind = token.LParen
		lexeme = "("
	case ')':
		kind = token.RParen
		lexeme = ")"
	case '+':
		kind = token.Plus
		lexeme = "+"
	case '-':
		kind = token.Minus
		lexeme = "-"
	case '*':
		kind = token.Star
		lexeme = "*"
	case '/':
		kind = token.Slash
		lexeme = "/"
	case '%':
		kind = token.Percent
		lexeme = "%"
	case '^':
		kind = token.Caret
		lexeme = "^"
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.NotEq
			lexeme = "!="
		} else {
			kind = token.Bang
			lexeme = "!"
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			kind = token.AndAnd
			lexeme = "&&"
		} else {
			l.errorf(pos, "unexpected character '&'")
			kind = token.Illegal
			lexeme = "&"
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			kind = token.OrOr
			lexeme = "||"
		} else {
			l.errorf(pos, "unexpected character '|'")
			kind = token.Illegal
			lexeme = "|"
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.Eq
			lexeme = "=="
		} else {
			// a bare '=' in formula text means comparison
			kind = token.Eq
			lexeme = "="
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.LtEq
			lexeme = "<="
		} else {
			kind = token.Lt
			lexeme = "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.GtEq
			lexeme = ">="
		} else {
			kind = token.Gt
			lexeme = ">"
		}
	default:
		l.errorf(pos, fmt.Sprintf("unexpected character %q", string(ch)))
		kind = token.Illegal
		lexeme = string(ch)
	}

	l.readChar()
	return token.Token{
		Kind:   kind,
		Lexeme: lexeme,
		Pos:    pos,
	}
}

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos++
		l.col++
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos - 1
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[start : l.pos-1])
}

func (l *Lexer) readNumber() string {
	start := l.pos - 1
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar() // consume 'e'
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return string(l.input[start : l.pos-1])
}

func (l *Lexer) readString(delimiter rune, pos token.Position) (string, bool) {
	var out []rune
	for {
		ch := l.ch
		if ch == 0 {
			l.errorf(pos, "unterminated string literal")
			return "", false
		}
		if ch == delimiter {
			l.readChar() // consume closing quote
			return string(out), true
		}
		if ch == '\\' {
			l.readChar()
			esc, ok := l.readEscape(pos)
			if !ok {
				return "", false
			}
			out = append(out, esc)
			continue
		}
		out = append(out, ch)
		l.readChar()
	}
}

func (l *Lexer) readEscape(pos token.Position) (rune, bool) {
	ch := l.ch
	l.readChar()
	switch ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	default:
		l.errorf(pos, fmt.Sprintf("invalid escape sequence \\%s", string(ch)))
		return 0, false
	}
}

func (l *Lexer) errorf(pos token.Position, msg string) {
	l.errors = append(l.errors, fmt.Sprintf("%d:%d: %s", pos.Line, pos.Column, msg))
}

func (l *Lexer) Errors() []string {
	return l.errors
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
