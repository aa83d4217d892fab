package analyzer

import "fmt"

// Analysis errors are fatal to the pass that raised them; callers correct the
// input and re-run analysis on a fresh tree.

// ShadowingError reports a declaration whose name already resolves somewhere
// in the enclosing scope chain.
type ShadowingError struct {
	Name string
}

func (e *ShadowingError) Error() string {
	return fmt.Sprintf("analyzer: declaration of %q shadows an enclosing binding", e.Name)
}

// UnknownVariableError reports an unresolvable reference under strict mode.
// The default permissive policy records the name instead of failing.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("analyzer: unknown variable %q", e.Name)
}

// InvalidAssignmentError reports an assignment to a pseudo-variable.
type InvalidAssignmentError struct {
	Name string
}

func (e *InvalidAssignmentError) Error() string {
	return fmt.Sprintf("analyzer: cannot assign to %q", e.Name)
}
