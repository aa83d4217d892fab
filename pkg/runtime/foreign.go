package runtime

import "errors"

// ErrNoForeignEvaluator is returned by the default evaluator; hosts that
// support the escape hatch install their own.
var ErrNoForeignEvaluator = errors.New("runtime: no foreign evaluator configured")

// ForeignEvaluator runs a foreign code block's verbatim target-language text.
// The locals map exposes every variable visible to the current activation as a
// like-named argument of the evaluated text. Implementations are the
// designated unsafe, unsandboxed escape out of the dialect.
type ForeignEvaluator interface {
	EvaluateForeign(source string, locals map[string]Value) (Value, error)
}

// UnconfiguredForeignEvaluator fails every evaluation.
type UnconfiguredForeignEvaluator struct{}

func (UnconfiguredForeignEvaluator) EvaluateForeign(string, map[string]Value) (Value, error) {
	return nil, ErrNoForeignEvaluator
}

// ForeignFunc adapts a plain function to the ForeignEvaluator interface;
// tests and embedding hosts use it to intercept foreign code blocks.
type ForeignFunc func(source string, locals map[string]Value) (Value, error)

func (f ForeignFunc) EvaluateForeign(source string, locals map[string]Value) (Value, error) {
	return f(source, locals)
}
