package interpreter

import (
	"fmt"

	"quill/compiler-go/pkg/ast"
	"quill/compiler-go/pkg/runtime"
	"quill/compiler-go/pkg/scope"
)

// evalSequence evaluates statements left to right, threading each value into
// the next step; the sequence's value is the last statement's. Declared
// temporaries are bound first so closures created here write them in this
// activation rather than their own.
func (i *Interpreter) evalSequence(temps []string, stmts []ast.Statement, ctx *runtime.Context, k Continuation) {
	for _, name := range temps {
		ctx.DefineLocal(name, runtime.NilValue{})
	}
	if len(stmts) == 0 {
		i.deliver(k, runtime.NilValue{})
		return
	}
	var step func(idx int, last runtime.Value)
	step = func(idx int, last runtime.Value) {
		if i.halted || idx == len(stmts) {
			i.deliver(k, last)
			return
		}
		i.evalChild(stmts[idx], ctx, func(v runtime.Value) { step(idx+1, v) })
	}
	step(0, runtime.NilValue{})
}

// evalMethod runs a method body in a fresh activation chained to the current
// frame, so seeded receivers and arguments stay visible. The method answers
// its first statement's value unless a return escapes first.
func (i *Interpreter) evalMethod(n *ast.Method, ctx *runtime.Context, k Continuation) {
	activation := runtime.NewContext(ctx, n.Selector)
	if n.Body == nil || len(n.Body.Statements) == 0 {
		i.deliver(k, runtime.NilValue{})
		return
	}
	for _, name := range n.Body.Temporaries {
		activation.DefineLocal(name, runtime.NilValue{})
	}
	stmts := n.Body.Statements
	answer := runtime.Value(runtime.NilValue{})
	var step func(idx int)
	step = func(idx int) {
		if i.halted || idx == len(stmts) {
			i.deliver(k, answer)
			return
		}
		i.evalChild(stmts[idx], activation, func(v runtime.Value) {
			if idx == 0 {
				answer = v
			}
			step(idx + 1)
		})
	}
	step(0)
}

// evalAssignment writes through the target's resolved binding: instance
// variables into the receiver's slot, everything else into the local store.
// The assignment's value is the written value.
func (i *Interpreter) evalAssignment(n *ast.Assignment, ctx *runtime.Context, k Continuation) {
	i.evalChild(n.Right, ctx, func(v runtime.Value) {
		if i.halted {
			i.deliver(k, i.returnValue)
			return
		}
		if bindingKind(n.Left.Binding) == scope.BindingInstanceVariable {
			if err := runtime.WriteSlot(ctx.Receiver(), n.Left.Name, v); err != nil {
				i.fail(err)
				return
			}
		} else {
			ctx.WriteLocal(n.Left.Name, v)
		}
		i.deliver(k, v)
	})
}

// evalReturn computes the operand, raises the should-return flag, and passes
// the value on; the flag makes every enclosing evaluator short-circuit, which
// is what carries a non-local return past intermediate block activations.
func (i *Interpreter) evalReturn(n *ast.Return, ctx *runtime.Context, k Continuation) {
	if n.Value == nil {
		i.halt(runtime.NilValue{})
		i.deliver(k, i.returnValue)
		return
	}
	i.evalChild(n.Value, ctx, func(v runtime.Value) {
		if !i.halted {
			i.halt(v)
		}
		i.deliver(k, i.returnValue)
	})
}

// evalForeignCode hands the verbatim source to the host's foreign evaluator
// with every visible local exposed by name, then behaves like a return of the
// evaluated result. This is the unsandboxed escape hatch; failures end the
// session.
func (i *Interpreter) evalForeignCode(n *ast.ForeignCodeBlock, ctx *runtime.Context, k Continuation) {
	result, err := i.rt.Foreign.EvaluateForeign(n.Source, ctx.FlattenLocals())
	if err != nil {
		i.fail(fmt.Errorf("foreign code block: %w", err))
		return
	}
	i.halt(result)
	i.deliver(k, result)
}

func bindingKind(b scope.Binding) scope.BindingKind {
	if b == nil {
		return scope.BindingUnknown
	}
	return b.Kind()
}
