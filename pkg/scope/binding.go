package scope

import "fmt"

// BindingKind identifies the classification of a resolved variable name.
type BindingKind uint8

const (
	BindingArgument BindingKind = iota
	BindingTemporary
	BindingInstanceVariable
	BindingClassReference
	BindingAlias
	BindingUnknown
)

func (k BindingKind) String() string {
	switch k {
	case BindingArgument:
		return "argument"
	case BindingTemporary:
		return "temporary"
	case BindingInstanceVariable:
		return "instance variable"
	case BindingClassReference:
		return "class reference"
	case BindingAlias:
		return "alias"
	case BindingUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("BindingKind(%d)", uint8(k))
	}
}

// Binding is the resolved classification and location of one variable name.
// Bindings are created during analysis, written once, and shared read-only by
// every later interpretation of the same tree. TargetExpr renders the binding
// as the JavaScript identifier expression the code generator emits for it.
type Binding interface {
	Name() string
	Home() Scope
	Kind() BindingKind
	TargetExpr() string
}

type ArgumentBinding struct {
	name string
	home Scope
}

func NewArgumentBinding(name string, home Scope) *ArgumentBinding {
	return &ArgumentBinding{name: name, home: home}
}

func (b *ArgumentBinding) Name() string       { return b.name }
func (b *ArgumentBinding) Home() Scope        { return b.home }
func (b *ArgumentBinding) Kind() BindingKind  { return BindingArgument }
func (b *ArgumentBinding) TargetExpr() string { return b.name }

type TemporaryBinding struct {
	name string
	home Scope
}

func NewTemporaryBinding(name string, home Scope) *TemporaryBinding {
	return &TemporaryBinding{name: name, home: home}
}

func (b *TemporaryBinding) Name() string       { return b.name }
func (b *TemporaryBinding) Home() Scope        { return b.home }
func (b *TemporaryBinding) Kind() BindingKind  { return BindingTemporary }
func (b *TemporaryBinding) TargetExpr() string { return b.name }

// InstanceVariableBinding reads and writes through the receiver's slot
// accessor rather than the activation's local store.
type InstanceVariableBinding struct {
	name string
	home Scope
}

func NewInstanceVariableBinding(name string, home Scope) *InstanceVariableBinding {
	return &InstanceVariableBinding{name: name, home: home}
}

func (b *InstanceVariableBinding) Name() string       { return b.name }
func (b *InstanceVariableBinding) Home() Scope        { return b.home }
func (b *InstanceVariableBinding) Kind() BindingKind  { return BindingInstanceVariable }
func (b *InstanceVariableBinding) TargetExpr() string { return "self._" + b.name }

// ClassReferenceBinding resolves a capitalized class name through the global
// namespace with a bare-name fallback, independent of the scope chain.
type ClassReferenceBinding struct {
	name string
	home Scope
}

func NewClassReferenceBinding(name string, home Scope) *ClassReferenceBinding {
	return &ClassReferenceBinding{name: name, home: home}
}

func (b *ClassReferenceBinding) Name() string       { return b.name }
func (b *ClassReferenceBinding) Home() Scope        { return b.home }
func (b *ClassReferenceBinding) Kind() BindingKind  { return BindingClassReference }
func (b *ClassReferenceBinding) TargetExpr() string { return "(global." + b.name + " || " + b.name + ")" }

// AliasBinding substitutes an arbitrary target expression for a name. The
// analyzer never creates aliases; the downstream translator introduces them
// when it rewrites variables during inlining.
type AliasBinding struct {
	name string
	expr string
	home Scope
}

func NewAliasBinding(name, expr string, home Scope) *AliasBinding {
	return &AliasBinding{name: name, expr: expr, home: home}
}

func (b *AliasBinding) Name() string       { return b.name }
func (b *AliasBinding) Home() Scope        { return b.home }
func (b *AliasBinding) Kind() BindingKind  { return BindingAlias }
func (b *AliasBinding) TargetExpr() string { return b.expr }

// UnknownBinding stands for a name that resolved nowhere in the scope chain
// and is treated as an external or global reference.
type UnknownBinding struct {
	name string
	home Scope
}

func NewUnknownBinding(name string, home Scope) *UnknownBinding {
	return &UnknownBinding{name: name, home: home}
}

func (b *UnknownBinding) Name() string       { return b.name }
func (b *UnknownBinding) Home() Scope        { return b.home }
func (b *UnknownBinding) Kind() BindingKind  { return BindingUnknown }
func (b *UnknownBinding) TargetExpr() string { return b.name }

// PseudoVariables is the fixed set of names the language resolves outside the
// scope chain. None of them is assignable.
var PseudoVariables = []string{"self", "super", "true", "false", "nil", "thisContext"}

func IsPseudoVariable(name string) bool {
	for _, pseudo := range PseudoVariables {
		if name == pseudo {
			return true
		}
	}
	return false
}
