package analyzer

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"quill/compiler-go/pkg/ast"
	"quill/compiler-go/pkg/scope"
)

// Analyzer resolves every variable reference in one parsed method, validating
// scoping rules and annotating the tree in place with the bindings, scopes,
// and per-method sets the code generator consumes. One analyzer runs one pass
// at a time; passes over different methods may run concurrently on separate
// analyzers.
type Analyzer struct {
	strict bool
	logger zerolog.Logger

	current scope.Scope
	method  *ast.Method
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStrictUnknowns makes an unresolvable variable reference fail the pass
// with UnknownVariableError instead of recording it as an implicit global.
func WithStrictUnknowns() Option {
	return func(a *Analyzer) { a.strict = true }
}

// WithLogger attaches a logger for per-pass trace output.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the single depth-first pass over node against class. The usual
// root is a Method; a bare statement or expression is analyzed inside a
// synthetic doIt frame so workspace expressions resolve the same way.
// Annotations land on the visited nodes; the returned error is one of the
// analysis error types and leaves the tree partially annotated.
func (a *Analyzer) Analyze(node ast.Node, class *Class) error {
	switch n := node.(type) {
	case *ast.Method:
		return a.analyzeMethod(n, class)
	case ast.Statement:
		wrapper := ast.NewMethod("doIt", nil, ast.NewSequence(nil, []ast.Statement{n}))
		return a.analyzeMethod(wrapper, class)
	default:
		return fmt.Errorf("analyzer: cannot analyze %s node", node.NodeType())
	}
}

// AnalyzeMethods analyzes a class's methods as independent concurrent passes.
// Scopes and annotations are per-method and the class descriptor is read-only,
// so the passes never share mutable state. The first error cancels the batch.
func AnalyzeMethods(methods []*ast.Method, class *Class, opts ...Option) error {
	var g errgroup.Group
	for _, method := range methods {
		method := method
		g.Go(func() error {
			return New(opts...).Analyze(method, class)
		})
	}
	return g.Wait()
}

func (a *Analyzer) analyzeMethod(method *ast.Method, class *Class) error {
	ms := scope.NewMethodScope(method.Selector)
	for _, name := range class.AllInstanceVariables() {
		ms.DefineInstanceVariable(name)
	}
	a.method = method
	a.current = ms
	defer func() {
		a.method = nil
		a.current = nil
	}()

	for _, param := range method.Parameters {
		if _, exists := ms.Lookup(param); exists {
			return &ShadowingError{Name: param}
		}
		ms.DefineArgument(param)
	}
	method.Scope = ms

	if method.Body != nil {
		if err := a.analyzeSequence(method.Body.Temporaries, method.Body.Statements); err != nil {
			return err
		}
	}
	a.logger.Debug().
		Str("selector", method.Selector).
		Str("class", class.DisplayName()).
		Strs("unknowns", ms.UnknownVariables()).
		Msg("analyzed method")
	return nil
}

func (a *Analyzer) analyzeNode(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Sequence:
		return a.analyzeSequence(n.Temporaries, n.Statements)
	case *ast.BlockSequence:
		return a.analyzeSequence(n.Temporaries, n.Statements)
	case *ast.Block:
		return a.analyzeBlock(n)
	case *ast.Assignment:
		return a.analyzeAssignment(n)
	case *ast.Return:
		return a.analyzeReturn(n)
	case *ast.Send:
		return a.analyzeSend(n)
	case *ast.Cascade:
		return a.analyzeCascade(n)
	case *ast.Variable:
		return a.resolveVariable(n)
	case *ast.ClassReference:
		n.Binding = scope.NewClassReferenceBinding(n.Name, a.current.Method())
		a.method.RecordClassReference(n.Name)
		return nil
	case *ast.DynamicArray:
		return a.analyzeExpressions(n.Elements)
	case *ast.DynamicDictionary:
		return a.analyzeExpressions(n.Elements)
	case *ast.ForeignCodeBlock, *ast.Literal:
		return nil
	default:
		return fmt.Errorf("analyzer: unexpected %s node inside a method body", node.NodeType())
	}
}

// analyzeSequence registers declared temporaries in the current scope (the
// method scope at top level, the nearest block scope otherwise) and walks the
// statements.
func (a *Analyzer) analyzeSequence(temporaries []string, statements []ast.Statement) error {
	for _, name := range temporaries {
		if _, exists := a.current.Lookup(name); exists {
			return &ShadowingError{Name: name}
		}
		a.current.DefineTemporary(name)
	}
	for _, stmt := range statements {
		if err := a.analyzeNode(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeBlock(block *ast.Block) error {
	bs := scope.NewBlockScope(a.current)
	outer := a.current
	a.current = bs
	defer func() { a.current = outer }()

	for _, param := range block.Parameters {
		if _, exists := bs.Lookup(param); exists {
			return &ShadowingError{Name: param}
		}
		bs.DefineArgument(param)
	}
	block.Scope = bs

	if block.Body == nil {
		return nil
	}
	return a.analyzeSequence(block.Body.Temporaries, block.Body.Statements)
}

func (a *Analyzer) analyzeAssignment(assign *ast.Assignment) error {
	if scope.IsPseudoVariable(assign.Left.Name) {
		return &InvalidAssignmentError{Name: assign.Left.Name}
	}
	if err := a.resolveVariable(assign.Left); err != nil {
		return err
	}
	return a.analyzeNode(assign.Right)
}

// analyzeReturn marks a return reached through a block scope as non-local on
// both the node and the enclosing method scope; the flag later forces
// unwinding past every intermediate block activation.
func (a *Analyzer) analyzeReturn(ret *ast.Return) error {
	if _, direct := a.current.(*scope.MethodScope); !direct {
		ret.NonLocal = true
		a.current.Method().MarkNonLocalReturn()
	}
	return a.analyzeNode(ret.Value)
}

func (a *Analyzer) analyzeSend(send *ast.Send) error {
	if send.Receiver == nil {
		return fmt.Errorf("analyzer: message send %q without a receiver outside a cascade", send.Selector)
	}
	a.method.RecordMessageSend(send.Selector)
	if err := a.analyzeNode(send.Receiver); err != nil {
		return err
	}
	return a.analyzeExpressions(send.Arguments)
}

// analyzeCascade analyzes the receiver expression exactly once, shares the
// analyzed node into every cascaded message's receiver slot, and analyzes only
// the selector and arguments of each message.
func (a *Analyzer) analyzeCascade(cascade *ast.Cascade) error {
	if err := a.analyzeNode(cascade.Receiver); err != nil {
		return err
	}
	for _, msg := range cascade.Messages {
		msg.Receiver = cascade.Receiver
		a.method.RecordMessageSend(msg.Selector)
		if err := a.analyzeExpressions(msg.Arguments); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeExpressions(exprs []ast.Expression) error {
	for _, expr := range exprs {
		if err := a.analyzeNode(expr); err != nil {
			return err
		}
	}
	return nil
}

// resolveVariable attaches a binding to one variable reference. Pseudo
// variables resolve outside the scope chain and are never recorded as
// unknowns; any other unresolvable name is recorded once per distinct name in
// the method scope, or fails the pass under strict mode.
func (a *Analyzer) resolveVariable(v *ast.Variable) error {
	method := a.current.Method()
	if scope.IsPseudoVariable(v.Name) {
		v.Binding = scope.NewUnknownBinding(v.Name, method)
		return nil
	}
	if binding, ok := a.current.Lookup(v.Name); ok {
		v.Binding = binding
		return nil
	}
	if a.strict {
		return &UnknownVariableError{Name: v.Name}
	}
	v.Binding = method.RecordUnknown(v.Name)
	a.logger.Debug().Str("name", v.Name).Str("selector", method.Selector()).Msg("recorded unknown variable")
	return nil
}
