package formula

import (
	"fmt"
	"strings"

	"caliper/internal/ast"
	"caliper/internal/parser"
	"caliper/internal/value"
)

// Formula ties a parsed expression tree to its compiled artifact. The
// artifact is produced once and re-evaluated with different evaluation
// scopes; the host owns the Formula and decides when to recompile.
type Formula struct {
	Source string
	Root   ast.Expr

	compiled Compiled
}

// New parses formula source text. Parse errors are joined into a single
// error value.
func New(src string) (*Formula, error) {
	root, errs := parser.Parse(src)
	if len(errs) > 0 {
		return nil, fmt.Errorf("parse %q: %s", src, strings.Join(errs, "; "))
	}
	return &Formula{Source: src, Root: root}, nil
}

// Key returns the canonical rendering of the expression tree, usable
// for interning: formulas differing only in whitespace share a key.
func (f *Formula) Key() string {
	return ast.Print(f.Root)
}

// Compile produces the reusable artifact. Dependencies discovered
// during the pass are reported through the context's tracker.
func (f *Formula) Compile(c *Context) error {
	compiled, err := c.Compile(f.Root)
	if err != nil {
		return err
	}
	f.compiled = compiled
	return nil
}

// Evaluate runs the compiled artifact, or falls back to direct
// interpretation when Compile has not been called.
func (f *Formula) Evaluate(c *Context, e *EvalScope) (value.Value, error) {
	if f.compiled != nil {
		return f.compiled(c, e)
	}
	return c.Evaluate(f.Root, e)
}
