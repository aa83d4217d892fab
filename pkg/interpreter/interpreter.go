// Package interpreter evaluates analyzed trees directly, in continuation
// style: Interpret never returns a value, it passes one to a continuation,
// and the work in between is captured as discrete deferrable units. Run
// drains those units eagerly; Debugger executes them one Advance at a time.
package interpreter

import (
	"fmt"

	"github.com/rs/zerolog"

	"quill/compiler-go/pkg/ast"
	"quill/compiler-go/pkg/runtime"
)

// Continuation receives a node's computed value and owns the remainder of
// the computation.
type Continuation func(runtime.Value)

// unit is one deferred step of evaluation.
type unit func()

// Interpreter is one evaluation session over an analyzed tree. It is not
// safe for concurrent use; a session owns its context chain exclusively.
type Interpreter struct {
	rt     *runtime.Runtime
	logger zerolog.Logger

	root *runtime.Context

	// pending is the single-slot scheduler: at most one deferred unit
	// exists at a time, and executing it either finishes the session or
	// leaves the next unit in its place.
	pending unit

	halted      bool
	returnValue runtime.Value
	lastValue   runtime.Value
	err         error
	steps       int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger routes evaluation tracing to the given logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// New creates a session bound to the given host runtime; a nil runtime gets
// the bundled reference configuration.
func New(rt *runtime.Runtime, opts ...Option) *Interpreter {
	if rt == nil {
		rt = runtime.NewRuntime()
	}
	interp := &Interpreter{
		rt:        rt,
		logger:    zerolog.Nop(),
		root:      runtime.NewContext(nil, "doIt"),
		lastValue: runtime.NilValue{},
	}
	for _, opt := range opts {
		opt(interp)
	}
	return interp
}

// Runtime is the host runtime this session dispatches through.
func (i *Interpreter) Runtime() *runtime.Runtime { return i.rt }

// RootContext is the session's outermost frame. Callers seed receivers and
// method arguments into it before interpreting.
func (i *Interpreter) RootContext() *runtime.Context { return i.root }

// LastValue is the most recently computed value.
func (i *Interpreter) LastValue() runtime.Value { return i.lastValue }

// Err is the session's sticky error, nil while evaluation is healthy.
func (i *Interpreter) Err() error { return i.err }

// Steps is the number of units executed so far.
func (i *Interpreter) Steps() int { return i.steps }

// Pending reports whether a deferred unit is waiting.
func (i *Interpreter) Pending() bool { return i.pending != nil }

// Interpret begins evaluating node, deferring the first unit of work; k
// receives the final value once the last unit has run. Nothing evaluates
// until Step or Run drains the schedule.
func (i *Interpreter) Interpret(node ast.Node, k Continuation) {
	i.halted = false
	i.returnValue = nil
	i.lastValue = runtime.NilValue{}
	i.err = nil
	i.steps = 0
	i.schedule(func() { i.eval(node, i.root, k) })
}

// Step executes exactly one deferred unit and reports whether one ran.
func (i *Interpreter) Step() bool {
	if i.err != nil || i.pending == nil {
		return false
	}
	next := i.pending
	i.pending = nil
	next()
	i.steps++
	return true
}

// Run interprets node to completion and answers its value.
func (i *Interpreter) Run(node ast.Node) (runtime.Value, error) {
	i.logger.Debug().Str("node", ast.Describe(node)).Msg("interpret")
	final := runtime.Value(runtime.NilValue{})
	i.Interpret(node, func(v runtime.Value) { final = v })
	for i.Step() {
	}
	if i.err != nil {
		return nil, i.err
	}
	return final, nil
}

func (i *Interpreter) schedule(u unit) { i.pending = u }

// deliver hands a value to a continuation. Once the session is unwinding,
// the return value replaces whatever the local computation produced, so the
// value that escaped rides the continuation chain to the top.
func (i *Interpreter) deliver(k Continuation, v runtime.Value) {
	if i.err != nil {
		return
	}
	if i.halted {
		v = i.returnValue
	}
	i.lastValue = v
	k(v)
}

// resume defers the continuation of a completed dispatch, making the value
// handoff its own step. The result is observable before the next unit runs.
func (i *Interpreter) resume(k Continuation, v runtime.Value) {
	i.lastValue = v
	i.schedule(func() { i.deliver(k, v) })
}

// halt raises the should-return flag; every evaluator checks it after each
// sub-step and short-circuits, which unwinds block activations and the
// enclosing method's remaining statements without host-level control flow.
func (i *Interpreter) halt(v runtime.Value) {
	i.halted = true
	i.returnValue = v
}

func (i *Interpreter) fail(err error) {
	if i.err == nil {
		i.err = err
		i.pending = nil
	}
}

// eval evaluates one node in a context. Once the session is unwinding it
// skips evaluation entirely and passes the escaping value along.
func (i *Interpreter) eval(node ast.Node, ctx *runtime.Context, k Continuation) {
	if i.err != nil {
		return
	}
	if i.halted {
		i.deliver(k, i.returnValue)
		return
	}
	switch n := node.(type) {
	case *ast.Literal:
		i.deliver(k, literalValue(n))
	case *ast.Variable:
		i.evalVariable(n, ctx, k)
	case *ast.ClassReference:
		i.evalClassReference(n, k)
	case *ast.Block:
		i.evalBlock(n, ctx, k)
	case *ast.Sequence:
		i.evalSequence(n.Temporaries, n.Statements, ctx, k)
	case *ast.BlockSequence:
		i.evalSequence(n.Temporaries, n.Statements, ctx, k)
	case *ast.Method:
		i.evalMethod(n, ctx, k)
	case *ast.Assignment:
		i.evalAssignment(n, ctx, k)
	case *ast.Return:
		i.evalReturn(n, ctx, k)
	case *ast.Send:
		i.evalSend(n, ctx, k)
	case *ast.Cascade:
		i.evalCascade(n, ctx, k)
	case *ast.DynamicArray:
		i.evalDynamicArray(n, ctx, k)
	case *ast.DynamicDictionary:
		i.evalDynamicDictionary(n, ctx, k)
	case *ast.ForeignCodeBlock:
		i.evalForeignCode(n, ctx, k)
	default:
		i.fail(fmt.Errorf("interpreter: unsupported node %T", node))
	}
}

// evalChild evaluates a sub-node. Leaf kinds evaluate inline; anything
// compound is deferred, so entering it is one step. Block literals count as
// leaves: creating the closure does no evaluation work.
func (i *Interpreter) evalChild(node ast.Node, ctx *runtime.Context, k Continuation) {
	switch node.(type) {
	case *ast.Literal, *ast.Variable, *ast.ClassReference, *ast.Block:
		i.eval(node, ctx, k)
	default:
		i.schedule(func() { i.eval(node, ctx, k) })
	}
}

// evalEach evaluates expressions left to right and hands the collected
// values on.
func (i *Interpreter) evalEach(exprs []ast.Expression, ctx *runtime.Context, k func([]runtime.Value)) {
	values := make([]runtime.Value, 0, len(exprs))
	var step func(runtime.Value)
	step = func(v runtime.Value) {
		values = append(values, v)
		if len(values) == len(exprs) {
			k(values)
			return
		}
		i.evalChild(exprs[len(values)], ctx, step)
	}
	if len(exprs) == 0 {
		k(values)
		return
	}
	i.evalChild(exprs[0], ctx, step)
}
