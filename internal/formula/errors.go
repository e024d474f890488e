package formula

import "fmt"

// UnresolvedIdentifierError reports an identifier that matched none of
// the constant, environment or instance scopes.
type UnresolvedIdentifierError struct {
	Name string
}

func (e *UnresolvedIdentifierError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// UnresolvedFunctionError reports a function name that matched none of
// the builtin, host-math or client scopes.
type UnresolvedFunctionError struct {
	Name string
}

func (e *UnresolvedFunctionError) Error() string {
	return fmt.Sprintf("undefined function %q", e.Name)
}

// ArityError reports a call with fewer arguments than the resolved
// function's declared minimum. Max carries the informative upper bound
// (functions.Unbounded if unlimited); it is reported but not enforced.
type ArityError struct {
	Name string
	Got  int
	Min  int
	Max  int
}

func (e *ArityError) Error() string {
	if e.Min == 1 {
		return fmt.Sprintf("%s requires at least 1 argument, got %d", e.Name, e.Got)
	}
	return fmt.Sprintf("%s requires at least %d arguments, got %d", e.Name, e.Min, e.Got)
}
