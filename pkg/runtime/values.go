package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"quill/compiler-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindSymbol
	KindCharacter
	KindArray
	KindAssociation
	KindDictionary
	KindObject
	KindClass
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindCharacter:
		return "character"
	case KindArray:
		return "array"
	case KindAssociation:
		return "association"
	case KindDictionary:
		return "dictionary"
	case KindObject:
		return "object"
	case KindClass:
		return "class"
	case KindBlock:
		return "block"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BooleanValue struct {
	Val bool
}

func (v BooleanValue) Kind() Kind { return KindBoolean }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type SymbolValue struct {
	Val string
}

func (v SymbolValue) Kind() Kind { return KindSymbol }

type CharacterValue struct {
	Val rune
}

func (v CharacterValue) Kind() Kind { return KindCharacter }

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

type AssociationValue struct {
	Key Value
	Val Value
}

func (v AssociationValue) Kind() Kind { return KindAssociation }

// DictionaryValue keeps its pairs in insertion order.
type DictionaryValue struct {
	Pairs []AssociationValue
}

func (v *DictionaryValue) Kind() Kind { return KindDictionary }

// At looks a key up by value equality.
func (v *DictionaryValue) At(key Value) (Value, bool) {
	for _, pair := range v.Pairs {
		if ValueEquals(pair.Key, key) {
			return pair.Val, true
		}
	}
	return nil, false
}

// AtPut replaces the value of an existing key in place or appends a new pair.
func (v *DictionaryValue) AtPut(key, value Value) {
	for i, pair := range v.Pairs {
		if ValueEquals(pair.Key, key) {
			v.Pairs[i].Val = value
			return
		}
	}
	v.Pairs = append(v.Pairs, AssociationValue{Key: key, Val: value})
}

//-----------------------------------------------------------------------------
// Objects, classes, blocks
//-----------------------------------------------------------------------------

// ObjectValue is a plain instance: a class name plus named instance-variable
// slots.
type ObjectValue struct {
	Class string
	Slots map[string]Value
}

func (v *ObjectValue) Kind() Kind { return KindObject }

// SlotAt reads an instance-variable slot, nil-tolerant for partially
// initialized receivers.
func (v *ObjectValue) SlotAt(name string) Value {
	if v.Slots == nil {
		return NilValue{}
	}
	if val, ok := v.Slots[name]; ok {
		return val
	}
	return NilValue{}
}

// SetSlot writes an instance-variable slot.
func (v *ObjectValue) SetSlot(name string, value Value) {
	if v.Slots == nil {
		v.Slots = map[string]Value{}
	}
	v.Slots[name] = value
}

// ClassValue describes a class to the reference host: its name, superclass
// name, and instance-variable list.
type ClassValue struct {
	Name              string
	Superclass        string
	InstanceVariables []string
}

func (v *ClassValue) Kind() Kind { return KindClass }

// NewInstance builds an instance with every declared slot present and nil.
func (v *ClassValue) NewInstance() *ObjectValue {
	slots := make(map[string]Value, len(v.InstanceVariables))
	for _, name := range v.InstanceVariables {
		slots[name] = NilValue{}
	}
	return &ObjectValue{Class: v.Name, Slots: slots}
}

// BlockInvoker runs a block closure with the given arguments. The interpreter
// installs it when the closure is created, so the host can invoke blocks
// without depending on the evaluator.
type BlockInvoker func(block *BlockValue, args []Value) (Value, error)

// BlockValue is a block closure: the literal node, the activation it closed
// over, and the interpreter's invocation hook.
type BlockValue struct {
	Node   *ast.Block
	Home   *Context
	Invoke BlockInvoker
}

func (v *BlockValue) Kind() Kind { return KindBlock }

// NumArgs is the closure's declared parameter count.
func (v *BlockValue) NumArgs() int {
	if v.Node == nil {
		return 0
	}
	return len(v.Node.Parameters)
}

//-----------------------------------------------------------------------------
// Slot access on arbitrary receivers
//-----------------------------------------------------------------------------

// ReadSlot reads an instance-variable slot off any receiver, answering nil for
// receivers without slots so partially seeded debug frames stay usable.
func ReadSlot(receiver Value, name string) Value {
	if obj, ok := receiver.(*ObjectValue); ok {
		return obj.SlotAt(name)
	}
	return NilValue{}
}

// WriteSlot writes an instance-variable slot; only plain instances carry them.
func WriteSlot(receiver Value, name string, value Value) error {
	obj, ok := receiver.(*ObjectValue)
	if !ok {
		return fmt.Errorf("runtime: %s receiver has no instance variable %q", receiver.Kind(), name)
	}
	obj.SetSlot(name, value)
	return nil
}

//-----------------------------------------------------------------------------
// Equality and printing
//-----------------------------------------------------------------------------

// ValueEquals compares scalars by value and reference values by identity.
func ValueEquals(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BooleanValue:
		bv, ok := b.(BooleanValue)
		return ok && av.Val == bv.Val
	case IntegerValue:
		switch bv := b.(type) {
		case IntegerValue:
			return av.Val == bv.Val
		case FloatValue:
			return float64(av.Val) == bv.Val
		}
		return false
	case FloatValue:
		switch bv := b.(type) {
		case IntegerValue:
			return av.Val == float64(bv.Val)
		case FloatValue:
			return av.Val == bv.Val
		}
		return false
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case SymbolValue:
		bv, ok := b.(SymbolValue)
		return ok && av.Val == bv.Val
	case CharacterValue:
		bv, ok := b.(CharacterValue)
		return ok && av.Val == bv.Val
	case AssociationValue:
		bv, ok := b.(AssociationValue)
		return ok && ValueEquals(av.Key, bv.Key) && ValueEquals(av.Val, bv.Val)
	default:
		return a == b
	}
}

// Print renders a value the way the dialect's printString does.
func Print(v Value) string {
	switch val := v.(type) {
	case NilValue:
		return "nil"
	case BooleanValue:
		return strconv.FormatBool(val.Val)
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		return strconv.FormatFloat(val.Val, 'g', -1, 64)
	case StringValue:
		return "'" + val.Val + "'"
	case SymbolValue:
		return "#" + val.Val
	case CharacterValue:
		return "$" + string(val.Val)
	case *ArrayValue:
		parts := make([]string, len(val.Elements))
		for i, elem := range val.Elements {
			parts[i] = Print(elem)
		}
		return "{" + strings.Join(parts, ". ") + "}"
	case AssociationValue:
		return Print(val.Key) + "->" + Print(val.Val)
	case *DictionaryValue:
		parts := make([]string, len(val.Pairs))
		for i, pair := range val.Pairs {
			parts[i] = Print(pair)
		}
		return "a Dictionary(" + strings.Join(parts, " ") + ")"
	case *ObjectValue:
		return withArticle(val.Class)
	case *ClassValue:
		return val.Name
	case *BlockValue:
		return withArticle("Block")
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// DisplayString renders a value the way asString does: like Print, except
// strings and symbols render bare.
func DisplayString(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return val.Val
	case SymbolValue:
		return val.Val
	case CharacterValue:
		return string(val.Val)
	default:
		return Print(v)
	}
}

func withArticle(name string) string {
	if name == "" {
		return "an Object"
	}
	switch name[0] {
	case 'A', 'E', 'I', 'O', 'U':
		return "an " + name
	default:
		return "a " + name
	}
}

// SortedSlotNames lists an object's slot names in sorted order, for stable
// logs and tests.
func SortedSlotNames(obj *ObjectValue) []string {
	names := make([]string, 0, len(obj.Slots))
	for name := range obj.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
