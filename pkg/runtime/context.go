package runtime

import "sort"

// receiverLocal is the reserved local backing the receiver accessors.
const receiverLocal = "self"

// Context is the dynamic counterpart of a static scope: the mutable call
// frame of one method or block activation. It links to the activation it was
// created from, carries a program counter into the enclosing statement
// sequence, and stores current local values by name. Unlike a scope it
// performs no validation: it is a flat, permissive store, and reads of
// undeclared names fall through to nil so partially initialized debug frames
// stay usable.
type Context struct {
	outer    *Context
	locals   map[string]Value
	pc       int
	selector string
}

// NewContext creates the frame for one activation, linked to the frame it was
// created from (nil for a session's outermost frame).
func NewContext(outer *Context, selector string) *Context {
	return &Context{outer: outer, locals: make(map[string]Value), selector: selector}
}

// Outer is the activation this frame was created from.
func (c *Context) Outer() *Context { return c.outer }

// Selector is the message that created this activation.
func (c *Context) Selector() string { return c.selector }

// ReadLocal reads a name from this frame, then from the outer chain, and
// answers nil when no frame holds it.
func (c *Context) ReadLocal(name string) Value {
	for frame := c; frame != nil; frame = frame.outer {
		if value, ok := frame.locals[name]; ok {
			return value
		}
	}
	return NilValue{}
}

// HasLocal reports whether any frame in the chain holds the name, for callers
// that must distinguish an absent binding from a nil one.
func (c *Context) HasLocal(name string) bool {
	for frame := c; frame != nil; frame = frame.outer {
		if _, ok := frame.locals[name]; ok {
			return true
		}
	}
	return false
}

// WriteLocal updates the nearest frame already holding the name, so a block
// activation writes its method's temporaries in place; an unknown name is
// created in this frame.
func (c *Context) WriteLocal(name string, value Value) {
	for frame := c; frame != nil; frame = frame.outer {
		if _, ok := frame.locals[name]; ok {
			frame.locals[name] = value
			return
		}
	}
	c.locals[name] = value
}

// DefineLocal creates or replaces the name in this frame only, shadowing any
// outer frame. Activation setup uses it to bind parameters.
func (c *Context) DefineLocal(name string, value Value) {
	c.locals[name] = value
}

// Receiver reads the reserved "self" local through the frame chain.
func (c *Context) Receiver() Value { return c.ReadLocal(receiverLocal) }

// SetReceiver binds the reserved "self" local in this frame.
func (c *Context) SetReceiver(value Value) { c.DefineLocal(receiverLocal, value) }

// PC is the index of the activation's current statement in its enclosing
// sequence, zero for a fresh frame.
func (c *Context) PC() int { return c.pc }

func (c *Context) SetPC(pc int) { c.pc = pc }

// AdvancePC moves the program counter one statement forward.
func (c *Context) AdvancePC() { c.pc++ }

// Snapshot copies this frame's own bindings, without the outer chain.
func (c *Context) Snapshot() map[string]Value {
	out := make(map[string]Value, len(c.locals))
	for name, value := range c.locals {
		out[name] = value
	}
	return out
}

// FlattenLocals collects every visible binding, innermost frame winning, the
// environment a foreign code block is evaluated in.
func (c *Context) FlattenLocals() map[string]Value {
	out := map[string]Value{}
	var collect func(frame *Context)
	collect = func(frame *Context) {
		if frame == nil {
			return
		}
		collect(frame.outer)
		for name, value := range frame.locals {
			out[name] = value
		}
	}
	collect(c)
	return out
}

// Keys lists this frame's own local names in sorted order.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.locals))
	for name := range c.locals {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
