package interpreter

import (
	"fmt"

	"quill/compiler-go/pkg/ast"
	"quill/compiler-go/pkg/runtime"
	"quill/compiler-go/pkg/scope"
)

func literalValue(n *ast.Literal) runtime.Value {
	switch n.Kind {
	case ast.LiteralInteger:
		return runtime.IntegerValue{Val: n.Value.(int64)}
	case ast.LiteralFloat:
		return runtime.FloatValue{Val: n.Value.(float64)}
	case ast.LiteralString:
		return runtime.StringValue{Val: n.Value.(string)}
	case ast.LiteralSymbol:
		return runtime.SymbolValue{Val: string(n.Value.(ast.Symbol))}
	case ast.LiteralCharacter:
		return runtime.CharacterValue{Val: n.Value.(rune)}
	case ast.LiteralBoolean:
		return runtime.BooleanValue{Val: n.Value.(bool)}
	default:
		return runtime.NilValue{}
	}
}

// evalVariable reads through the node's resolved binding. Pseudo-variables
// come first: they never reach the local store. Unknown names fall from the
// local store to the global namespace to nil, matching their rendering as
// external references.
func (i *Interpreter) evalVariable(n *ast.Variable, ctx *runtime.Context, k Continuation) {
	switch n.Name {
	case "self", "super":
		i.deliver(k, ctx.Receiver())
		return
	case "true":
		i.deliver(k, runtime.BooleanValue{Val: true})
		return
	case "false":
		i.deliver(k, runtime.BooleanValue{Val: false})
		return
	case "nil", "thisContext":
		i.deliver(k, runtime.NilValue{})
		return
	}
	switch bindingKind(n.Binding) {
	case scope.BindingInstanceVariable:
		i.deliver(k, runtime.ReadSlot(ctx.Receiver(), n.Name))
	case scope.BindingUnknown:
		if ctx.HasLocal(n.Name) {
			i.deliver(k, ctx.ReadLocal(n.Name))
			return
		}
		if v, ok := i.rt.Globals.Lookup(n.Name); ok {
			i.deliver(k, v)
			return
		}
		i.deliver(k, runtime.NilValue{})
	default:
		i.deliver(k, ctx.ReadLocal(n.Name))
	}
}

// evalClassReference answers the named global directly, no scope chain
// involved; an unregistered name answers nil.
func (i *Interpreter) evalClassReference(n *ast.ClassReference, k Continuation) {
	if v, ok := i.rt.Globals.Lookup(n.Name); ok {
		i.deliver(k, v)
		return
	}
	i.deliver(k, runtime.NilValue{})
}

// evalBlock builds the closure without touching the body: the node, the
// defining activation, and an invoker the host dispatcher calls later.
func (i *Interpreter) evalBlock(n *ast.Block, ctx *runtime.Context, k Continuation) {
	block := &runtime.BlockValue{Node: n, Home: ctx}
	block.Invoke = i.invokeClosure
	i.deliver(k, block)
}

// invokeClosure activates a block closure: a fresh frame chained to the
// defining activation, parameters bound, and the body's first statement
// evaluated for its value. Multi-statement bodies arrive as one nested
// sequence, so the first statement is the whole body.
func (i *Interpreter) invokeClosure(block *runtime.BlockValue, args []runtime.Value) (runtime.Value, error) {
	n := block.Node
	ctx := runtime.NewContext(block.Home, block.Home.Selector())
	for idx, name := range n.Parameters {
		ctx.DefineLocal(name, args[idx])
	}
	if n.Body == nil || len(n.Body.Statements) == 0 {
		return runtime.NilValue{}, nil
	}
	for _, name := range n.Body.Temporaries {
		ctx.DefineLocal(name, runtime.NilValue{})
	}
	return i.evalNested(n.Body.Statements[0], ctx)
}

// evalNested drains a sub-evaluation inside a host dispatch. The pending slot
// is saved and restored around it, so from the outer schedule's point of view
// the whole invocation is part of the step that dispatched it.
func (i *Interpreter) evalNested(node ast.Statement, ctx *runtime.Context) (runtime.Value, error) {
	saved := i.pending
	i.pending = nil
	result := runtime.Value(runtime.NilValue{})
	i.evalChild(node, ctx, func(v runtime.Value) { result = v })
	for i.Step() {
	}
	i.pending = saved
	if i.err != nil {
		return nil, i.err
	}
	return result, nil
}

// evalSend evaluates receiver then arguments left to right, advances the
// program counter, and dispatches through the host runtime.
func (i *Interpreter) evalSend(n *ast.Send, ctx *runtime.Context, k Continuation) {
	if n.Receiver == nil {
		i.fail(fmt.Errorf("interpreter: send %q has no receiver", n.Selector))
		return
	}
	i.evalChild(n.Receiver, ctx, func(recv runtime.Value) {
		i.evalEach(n.Arguments, ctx, func(args []runtime.Value) {
			i.dispatch(recv, n.Selector, args, ctx, k)
		})
	})
}

func (i *Interpreter) dispatch(recv runtime.Value, selector string, args []runtime.Value, ctx *runtime.Context, k Continuation) {
	if i.halted {
		i.deliver(k, i.returnValue)
		return
	}
	ctx.AdvancePC()
	i.logger.Trace().Str("selector", selector).Int("pc", ctx.PC()).Msg("dispatch")
	result, err := i.rt.Dispatcher.Send(recv, selector, args)
	if err != nil {
		i.fail(err)
		return
	}
	i.resume(k, result)
}

// evalCascade evaluates the shared receiver exactly once, then sends each
// message to that value in order; all but the last run purely for effect and
// the cascade answers the last message's result.
func (i *Interpreter) evalCascade(n *ast.Cascade, ctx *runtime.Context, k Continuation) {
	if len(n.Messages) == 0 {
		i.fail(fmt.Errorf("interpreter: cascade without messages"))
		return
	}
	i.evalChild(n.Receiver, ctx, func(recv runtime.Value) {
		i.evalCascadeMessage(n, recv, ctx, 0, k)
	})
}

func (i *Interpreter) evalCascadeMessage(n *ast.Cascade, recv runtime.Value, ctx *runtime.Context, idx int, k Continuation) {
	if i.halted {
		i.deliver(k, i.returnValue)
		return
	}
	msg := n.Messages[idx]
	i.evalEach(msg.Arguments, ctx, func(args []runtime.Value) {
		if i.halted {
			i.deliver(k, i.returnValue)
			return
		}
		ctx.AdvancePC()
		result, err := i.rt.Dispatcher.Send(recv, msg.Selector, args)
		if err != nil {
			i.fail(err)
			return
		}
		if idx == len(n.Messages)-1 {
			i.resume(k, result)
			return
		}
		i.lastValue = result
		i.schedule(func() { i.evalCascadeMessage(n, recv, ctx, idx+1, k) })
	})
}

// evalDynamicArray evaluates elements left to right into an ordered array.
func (i *Interpreter) evalDynamicArray(n *ast.DynamicArray, ctx *runtime.Context, k Continuation) {
	i.evalEach(n.Elements, ctx, func(values []runtime.Value) {
		if i.halted {
			i.deliver(k, i.returnValue)
			return
		}
		i.deliver(k, &runtime.ArrayValue{Elements: values})
	})
}

// evalDynamicDictionary evaluates elements left to right and folds the
// resulting associations into a dictionary, later entries overwriting
// earlier ones with an equal key.
func (i *Interpreter) evalDynamicDictionary(n *ast.DynamicDictionary, ctx *runtime.Context, k Continuation) {
	i.evalEach(n.Elements, ctx, func(values []runtime.Value) {
		if i.halted {
			i.deliver(k, i.returnValue)
			return
		}
		dict := &runtime.DictionaryValue{}
		for _, v := range values {
			assoc, ok := v.(runtime.AssociationValue)
			if !ok {
				i.fail(fmt.Errorf("interpreter: dictionary entry is %s, want an association", v.Kind()))
				return
			}
			dict.AtPut(assoc.Key, assoc.Val)
		}
		i.deliver(k, dict)
	})
}
