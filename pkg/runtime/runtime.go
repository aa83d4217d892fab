// Package runtime provides the value model, call-frame contexts, and the
// message-send host the interpreter evaluates against.
package runtime

// Runtime bundles the ambient pieces an evaluation session needs: the
// dispatcher that performs message sends, the global namespace classes and
// well-known values live in, and the escape hatch for foreign code blocks.
type Runtime struct {
	Dispatcher Dispatcher
	Globals    *Namespace
	Foreign    ForeignEvaluator
}

// NewRuntime wires the reference configuration: a CoreDispatcher over a fresh
// namespace and a foreign evaluator that rejects every escape.
func NewRuntime() *Runtime {
	globals := NewNamespace()
	return &Runtime{
		Dispatcher: NewCoreDispatcher(globals),
		Globals:    globals,
		Foreign:    UnconfiguredForeignEvaluator{},
	}
}
