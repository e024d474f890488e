package formula

// FunctionContext records one function enclosing the node currently
// being compiled. Stack order equals lexical nesting order.
type FunctionContext struct {
	Name        string
	IsAggregate bool
}

// FunctionContextStack tracks nested function invocation context during
// a single compilation pass. It is owned by one Context and must not be
// shared across concurrent passes.
type FunctionContextStack struct {
	entries []FunctionContext
	logf    func(format string, args ...interface{})
}

// Begin pushes a function context.
func (s *FunctionContextStack) Begin(fc FunctionContext) {
	s.entries = append(s.entries, fc)
}

// End pops the top entry if its name matches fc. A mismatch is a
// bookkeeping bug in the caller, not a formula-authoring error: it is
// logged, the stack is left unchanged, and End reports false.
func (s *FunctionContextStack) End(fc FunctionContext) bool {
	n := len(s.entries)
	if n == 0 || s.entries[n-1].Name != fc.Name {
		if s.logf != nil {
			s.logf("formula: ending function context %q does not match stack top", fc.Name)
		}
		return false
	}
	s.entries = s.entries[:n-1]
	return true
}

// Depth returns the number of entries on the stack.
func (s *FunctionContextStack) Depth() int {
	return len(s.entries)
}

// AggregateIndices returns, in push order, the stack positions whose
// entries are aggregate functions. Empty when no aggregate encloses the
// current node.
func (s *FunctionContextStack) AggregateIndices() []int {
	var indices []int
	for i, fc := range s.entries {
		if fc.IsAggregate {
			indices = append(indices, i)
		}
	}
	return indices
}
