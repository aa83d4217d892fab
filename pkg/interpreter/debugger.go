package interpreter

import (
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"quill/compiler-go/pkg/ast"
	"quill/compiler-go/pkg/runtime"
)

// Debugger runs an interpreter session one step at a time. A fresh debugger
// holds a no-op deferred unit, so Advance before Interpret does nothing;
// once the final continuation has fired, further Advance calls are no-ops
// too.
type Debugger struct {
	interp  *Interpreter
	logger  zerolog.Logger
	session ulid.ULID
	done    bool
}

// NewDebugger creates a stepping session over the given host runtime;
// options apply to the underlying interpreter.
func NewDebugger(rt *runtime.Runtime, opts ...Option) *Debugger {
	interp := New(rt, opts...)
	return &Debugger{
		interp:  interp,
		logger:  interp.logger,
		session: ulid.Make(),
	}
}

// Session is the debug session's identifier, for correlating step logs.
func (d *Debugger) Session() ulid.ULID { return d.session }

// Interpreter exposes the underlying session, e.g. to seed its root context.
func (d *Debugger) Interpreter() *Interpreter { return d.interp }

// Context is the session's outermost frame, for seeding receivers and
// arguments before stepping begins.
func (d *Debugger) Context() *runtime.Context { return d.interp.RootContext() }

// Interpret begins a session over node, capturing only the first deferred
// step; nothing evaluates until Advance.
func (d *Debugger) Interpret(node ast.Node) {
	d.done = false
	d.interp.Interpret(node, func(runtime.Value) { d.done = true })
	d.logger.Debug().
		Stringer("session", d.session).
		Str("node", ast.Describe(node)).
		Msg("debug session started")
}

// Advance performs exactly one evaluation step and reports the session's
// sticky error state. Before a session begins, or after it ends, it is a
// safe no-op.
func (d *Debugger) Advance() error {
	if !d.interp.Step() {
		return d.interp.Err()
	}
	event := d.logger.Debug().
		Stringer("session", d.session).
		Int("step", d.interp.Steps()).
		Str("result", runtime.Print(d.interp.LastValue()))
	if err := d.interp.Err(); err != nil {
		event.AnErr("error", err)
	}
	event.Msg("advance")
	return d.interp.Err()
}

// Result is the most recently computed value, valid once at least one
// Advance has run.
func (d *Debugger) Result() runtime.Value { return d.interp.LastValue() }

// Done reports whether the final continuation has been invoked.
func (d *Debugger) Done() bool { return d.done }

// Err is the session's sticky error, nil while stepping is healthy.
func (d *Debugger) Err() error { return d.interp.Err() }
