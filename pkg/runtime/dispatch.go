package runtime

import (
	"fmt"
	"strings"
	"unicode"
)

// Dispatcher is the ambient message-send runtime the interpreter consumes:
// given an evaluated receiver, a selector, and evaluated arguments, it
// performs the dispatch and answers the result. Embedding hosts supply their
// own implementation; CoreDispatcher is the bundled reference host.
type Dispatcher interface {
	Send(receiver Value, selector string, args []Value) (Value, error)
}

// DoesNotUnderstandError reports a selector the receiver has no behaviour for.
type DoesNotUnderstandError struct {
	Receiver Value
	Selector string
}

func (e *DoesNotUnderstandError) Error() string {
	return fmt.Sprintf("runtime: %s does not understand %q", Print(e.Receiver), e.Selector)
}

// SelectorArity infers a selector's argument count from its shape: one per
// colon for keyword selectors, one for binary selectors, zero for unary.
func SelectorArity(selector string) int {
	if n := strings.Count(selector, ":"); n > 0 {
		return n
	}
	if selector == "" {
		return 0
	}
	first := rune(selector[0])
	if unicode.IsLetter(first) || first == '_' {
		return 0
	}
	return 1
}

// CoreDispatcher implements the dialect's basic protocol over the bundled
// value model: arithmetic and comparison, string and collection access,
// boolean and block control selectors, and class instantiation. Anything else
// answers DoesNotUnderstandError.
type CoreDispatcher struct {
	Globals *Namespace
}

func NewCoreDispatcher(globals *Namespace) *CoreDispatcher {
	return &CoreDispatcher{Globals: globals}
}

func (d *CoreDispatcher) Send(receiver Value, selector string, args []Value) (Value, error) {
	if want := SelectorArity(selector); len(args) != want {
		return nil, fmt.Errorf("runtime: selector %q takes %d arguments, got %d", selector, want, len(args))
	}
	if result, handled, err := d.sendUniversal(receiver, selector, args); handled {
		return result, err
	}

	var (
		result  Value
		handled bool
		err     error
	)
	switch recv := receiver.(type) {
	case IntegerValue, FloatValue:
		result, handled, err = sendNumeric(receiver, selector, args)
	case StringValue:
		result, handled, err = sendString(recv, selector, args)
	case BooleanValue:
		result, handled, err = sendBoolean(recv, selector, args)
	case CharacterValue:
		result, handled, err = sendCharacter(recv, selector)
	case *ArrayValue:
		result, handled, err = sendArray(recv, selector, args)
	case *DictionaryValue:
		result, handled, err = sendDictionary(recv, selector, args)
	case AssociationValue:
		result, handled = sendAssociation(recv, selector)
	case *BlockValue:
		result, handled, err = sendBlock(recv, selector, args)
	case *ClassValue:
		result, handled = sendClass(recv, selector)
	}
	if handled {
		return result, err
	}
	return nil, &DoesNotUnderstandError{Receiver: receiver, Selector: selector}
}

// sendUniversal handles the protocol every value answers.
func (d *CoreDispatcher) sendUniversal(receiver Value, selector string, args []Value) (Value, bool, error) {
	switch selector {
	case "printString":
		return StringValue{Val: Print(receiver)}, true, nil
	case "asString":
		return StringValue{Val: DisplayString(receiver)}, true, nil
	case "->":
		return AssociationValue{Key: receiver, Val: args[0]}, true, nil
	case "=":
		return BooleanValue{Val: ValueEquals(receiver, args[0])}, true, nil
	case "~=":
		return BooleanValue{Val: !ValueEquals(receiver, args[0])}, true, nil
	case "==":
		return BooleanValue{Val: receiver == args[0]}, true, nil
	case "~~":
		return BooleanValue{Val: receiver != args[0]}, true, nil
	case "isNil":
		_, isNil := receiver.(NilValue)
		return BooleanValue{Val: isNil}, true, nil
	case "notNil":
		_, isNil := receiver.(NilValue)
		return BooleanValue{Val: !isNil}, true, nil
	case "yourself":
		return receiver, true, nil
	case "class":
		return d.classOf(receiver), true, nil
	}
	return nil, false, nil
}

func (d *CoreDispatcher) classOf(receiver Value) Value {
	name := ClassNameOf(receiver)
	if d.Globals != nil {
		if class, ok := d.Globals.Lookup(name); ok {
			return class
		}
	}
	return &ClassValue{Name: name}
}

// ClassNameOf answers the dialect-level class name of a value.
func ClassNameOf(v Value) string {
	switch val := v.(type) {
	case NilValue:
		return "UndefinedObject"
	case BooleanValue:
		if val.Val {
			return "True"
		}
		return "False"
	case IntegerValue:
		return "Integer"
	case FloatValue:
		return "Float"
	case StringValue:
		return "String"
	case SymbolValue:
		return "Symbol"
	case CharacterValue:
		return "Character"
	case *ArrayValue:
		return "Array"
	case AssociationValue:
		return "Association"
	case *DictionaryValue:
		return "Dictionary"
	case *ObjectValue:
		if val.Class == "" {
			return "Object"
		}
		return val.Class
	case *ClassValue:
		return val.Name + " class"
	case *BlockValue:
		return "Block"
	default:
		return "Object"
	}
}

func sendNumeric(receiver Value, selector string, args []Value) (Value, bool, error) {
	switch selector {
	case "+", "-", "*", "/", "<", "<=", ">", ">=":
	default:
		return nil, false, nil
	}
	lhs, _ := numericOf(receiver)
	rhs, ok := numericOf(args[0])
	if !ok {
		return nil, true, fmt.Errorf("runtime: %s expects a number, got %s", selector, args[0].Kind())
	}

	switch selector {
	case "<":
		return BooleanValue{Val: lhs.float() < rhs.float()}, true, nil
	case "<=":
		return BooleanValue{Val: lhs.float() <= rhs.float()}, true, nil
	case ">":
		return BooleanValue{Val: lhs.float() > rhs.float()}, true, nil
	case ">=":
		return BooleanValue{Val: lhs.float() >= rhs.float()}, true, nil
	}

	if lhs.isInt && rhs.isInt {
		switch selector {
		case "+":
			return IntegerValue{Val: lhs.i + rhs.i}, true, nil
		case "-":
			return IntegerValue{Val: lhs.i - rhs.i}, true, nil
		case "*":
			return IntegerValue{Val: lhs.i * rhs.i}, true, nil
		case "/":
			if rhs.i == 0 {
				return nil, true, fmt.Errorf("runtime: division by zero")
			}
			if lhs.i%rhs.i == 0 {
				return IntegerValue{Val: lhs.i / rhs.i}, true, nil
			}
			return FloatValue{Val: float64(lhs.i) / float64(rhs.i)}, true, nil
		}
	}
	switch selector {
	case "+":
		return FloatValue{Val: lhs.float() + rhs.float()}, true, nil
	case "-":
		return FloatValue{Val: lhs.float() - rhs.float()}, true, nil
	case "*":
		return FloatValue{Val: lhs.float() * rhs.float()}, true, nil
	default:
		if rhs.float() == 0 {
			return nil, true, fmt.Errorf("runtime: division by zero")
		}
		return FloatValue{Val: lhs.float() / rhs.float()}, true, nil
	}
}

type numeric struct {
	isInt bool
	i     int64
	f     float64
}

func (n numeric) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

func numericOf(v Value) (numeric, bool) {
	switch val := v.(type) {
	case IntegerValue:
		return numeric{isInt: true, i: val.Val}, true
	case FloatValue:
		return numeric{f: val.Val}, true
	default:
		return numeric{}, false
	}
}

func sendString(receiver StringValue, selector string, args []Value) (Value, bool, error) {
	switch selector {
	case ",":
		other, ok := args[0].(StringValue)
		if !ok {
			return nil, true, fmt.Errorf("runtime: , expects a string, got %s", args[0].Kind())
		}
		return StringValue{Val: receiver.Val + other.Val}, true, nil
	case "size":
		return IntegerValue{Val: int64(len([]rune(receiver.Val)))}, true, nil
	case "at:":
		runes := []rune(receiver.Val)
		idx, err := collectionIndex(args[0], len(runes))
		if err != nil {
			return nil, true, err
		}
		return CharacterValue{Val: runes[idx]}, true, nil
	case "asSymbol":
		return SymbolValue{Val: receiver.Val}, true, nil
	case "isEmpty":
		return BooleanValue{Val: receiver.Val == ""}, true, nil
	}
	return nil, false, nil
}

func sendBoolean(receiver BooleanValue, selector string, args []Value) (Value, bool, error) {
	switch selector {
	case "not":
		return BooleanValue{Val: !receiver.Val}, true, nil
	case "ifTrue:":
		if !receiver.Val {
			return NilValue{}, true, nil
		}
		result, err := invokeBlockArg(selector, args[0], nil)
		return result, true, err
	case "ifFalse:":
		if receiver.Val {
			return NilValue{}, true, nil
		}
		result, err := invokeBlockArg(selector, args[0], nil)
		return result, true, err
	case "ifTrue:ifFalse:":
		chosen := args[0]
		if !receiver.Val {
			chosen = args[1]
		}
		result, err := invokeBlockArg(selector, chosen, nil)
		return result, true, err
	case "and:":
		if !receiver.Val {
			return BooleanValue{Val: false}, true, nil
		}
		result, err := invokeBlockArg(selector, args[0], nil)
		return result, true, err
	case "or:":
		if receiver.Val {
			return BooleanValue{Val: true}, true, nil
		}
		result, err := invokeBlockArg(selector, args[0], nil)
		return result, true, err
	}
	return nil, false, nil
}

func sendCharacter(receiver CharacterValue, selector string) (Value, bool, error) {
	switch selector {
	case "asInteger":
		return IntegerValue{Val: int64(receiver.Val)}, true, nil
	}
	return nil, false, nil
}

func sendArray(receiver *ArrayValue, selector string, args []Value) (Value, bool, error) {
	switch selector {
	case "size":
		return IntegerValue{Val: int64(len(receiver.Elements))}, true, nil
	case "isEmpty":
		return BooleanValue{Val: len(receiver.Elements) == 0}, true, nil
	case "at:":
		idx, err := collectionIndex(args[0], len(receiver.Elements))
		if err != nil {
			return nil, true, err
		}
		return receiver.Elements[idx], true, nil
	case "at:put:":
		idx, err := collectionIndex(args[0], len(receiver.Elements))
		if err != nil {
			return nil, true, err
		}
		receiver.Elements[idx] = args[1]
		return args[1], true, nil
	case "add:":
		receiver.Elements = append(receiver.Elements, args[0])
		return args[0], true, nil
	case "do:":
		block, ok := args[0].(*BlockValue)
		if !ok {
			return nil, true, fmt.Errorf("runtime: do: expects a block, got %s", args[0].Kind())
		}
		for _, elem := range receiver.Elements {
			if _, err := invokeBlock(block, []Value{elem}); err != nil {
				return nil, true, err
			}
		}
		return receiver, true, nil
	}
	return nil, false, nil
}

func sendDictionary(receiver *DictionaryValue, selector string, args []Value) (Value, bool, error) {
	switch selector {
	case "size":
		return IntegerValue{Val: int64(len(receiver.Pairs))}, true, nil
	case "at:":
		if value, ok := receiver.At(args[0]); ok {
			return value, true, nil
		}
		return nil, true, fmt.Errorf("runtime: key %s not found", Print(args[0]))
	case "at:ifAbsent:":
		if value, ok := receiver.At(args[0]); ok {
			return value, true, nil
		}
		result, err := invokeBlockArg(selector, args[1], nil)
		return result, true, err
	case "at:put:":
		receiver.AtPut(args[0], args[1])
		return args[1], true, nil
	case "includesKey:":
		_, ok := receiver.At(args[0])
		return BooleanValue{Val: ok}, true, nil
	case "keys":
		keys := make([]Value, len(receiver.Pairs))
		for i, pair := range receiver.Pairs {
			keys[i] = pair.Key
		}
		return &ArrayValue{Elements: keys}, true, nil
	}
	return nil, false, nil
}

func sendAssociation(receiver AssociationValue, selector string) (Value, bool) {
	switch selector {
	case "key":
		return receiver.Key, true
	case "value":
		return receiver.Val, true
	}
	return nil, false
}

func sendBlock(receiver *BlockValue, selector string, args []Value) (Value, bool, error) {
	switch selector {
	case "value", "value:", "value:value:", "value:value:value:":
		result, err := invokeBlock(receiver, args)
		return result, true, err
	case "numArgs":
		return IntegerValue{Val: int64(receiver.NumArgs())}, true, nil
	case "whileTrue:":
		body, ok := args[0].(*BlockValue)
		if !ok {
			return nil, true, fmt.Errorf("runtime: whileTrue: expects a block, got %s", args[0].Kind())
		}
		for {
			cond, err := invokeBlock(receiver, nil)
			if err != nil {
				return nil, true, err
			}
			flag, ok := cond.(BooleanValue)
			if !ok {
				return nil, true, fmt.Errorf("runtime: whileTrue: condition answered %s, want a boolean", cond.Kind())
			}
			if !flag.Val {
				return NilValue{}, true, nil
			}
			if _, err := invokeBlock(body, nil); err != nil {
				return nil, true, err
			}
		}
	}
	return nil, false, nil
}

func sendClass(receiver *ClassValue, selector string) (Value, bool) {
	switch selector {
	case "new":
		return receiver.NewInstance(), true
	case "name":
		return StringValue{Val: receiver.Name}, true
	}
	return nil, false
}

func invokeBlock(block *BlockValue, args []Value) (Value, error) {
	if block.Invoke == nil {
		return nil, fmt.Errorf("runtime: block closure has no invoker")
	}
	if len(args) != block.NumArgs() {
		return nil, fmt.Errorf("runtime: block expects %d arguments, got %d", block.NumArgs(), len(args))
	}
	return block.Invoke(block, args)
}

func invokeBlockArg(selector string, arg Value, args []Value) (Value, error) {
	block, ok := arg.(*BlockValue)
	if !ok {
		return nil, fmt.Errorf("runtime: %s expects a block, got %s", selector, arg.Kind())
	}
	return invokeBlock(block, args)
}

func collectionIndex(arg Value, size int) (int, error) {
	idx, ok := arg.(IntegerValue)
	if !ok {
		return 0, fmt.Errorf("runtime: index must be an integer, got %s", arg.Kind())
	}
	if idx.Val < 1 || idx.Val > int64(size) {
		return 0, fmt.Errorf("runtime: index %d out of bounds for size %d", idx.Val, size)
	}
	return int(idx.Val - 1), nil
}
