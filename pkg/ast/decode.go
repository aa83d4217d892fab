package ast

import (
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"
)

// Decode converts one parser-emitted JSON value into its typed node. The
// parser serializes every node as an object carrying a "type" discriminator
// plus the kind-specific fields declared on the node structs.
func Decode(data []byte) (Node, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	return DecodeNode(raw)
}

// DecodeMethod decodes a parser document whose root must be a Method node.
func DecodeMethod(data []byte) (*Method, error) {
	node, err := Decode(data)
	if err != nil {
		return nil, err
	}
	method, ok := node.(*Method)
	if !ok {
		return nil, fmt.Errorf("ast: document root is %s, want Method", node.NodeType())
	}
	return method, nil
}

// DecodeNode converts an already-unmarshaled JSON object into its typed node.
func DecodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	switch NodeType(typ) {
	case NodeSequence:
		temps := decodeStrings(node["temporaries"])
		stmts, err := decodeStatements(node["statements"])
		if err != nil {
			return nil, err
		}
		return NewSequence(temps, stmts), nil
	case NodeBlockSequence:
		temps := decodeStrings(node["temporaries"])
		stmts, err := decodeStatements(node["statements"])
		if err != nil {
			return nil, err
		}
		return NewBlockSequence(temps, stmts), nil
	case NodeMethod:
		selector, _ := node["selector"].(string)
		if selector == "" {
			return nil, fmt.Errorf("ast: method missing selector")
		}
		params := decodeStrings(node["parameters"])
		bodyRaw, ok := node["body"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: method %s missing body", selector)
		}
		bodyNode, err := DecodeNode(bodyRaw)
		if err != nil {
			return nil, err
		}
		body, ok := bodyNode.(*Sequence)
		if !ok {
			return nil, fmt.Errorf("ast: method %s body is %s, want Sequence", selector, bodyNode.NodeType())
		}
		return NewMethod(selector, params, body), nil
	case NodeBlock:
		params := decodeStrings(node["parameters"])
		bodyRaw, ok := node["body"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: block missing body")
		}
		bodyNode, err := DecodeNode(bodyRaw)
		if err != nil {
			return nil, err
		}
		body, ok := bodyNode.(*BlockSequence)
		if !ok {
			return nil, fmt.Errorf("ast: block body is %s, want BlockSequence", bodyNode.NodeType())
		}
		return NewBlock(params, body), nil
	case NodeAssignment:
		leftNode, err := decodeChild(node, "left")
		if err != nil {
			return nil, err
		}
		left, ok := leftNode.(*Variable)
		if !ok {
			return nil, fmt.Errorf("ast: assignment target is %s, want Variable", leftNode.NodeType())
		}
		right, err := decodeExpressionField(node, "right")
		if err != nil {
			return nil, err
		}
		return NewAssignment(left, right), nil
	case NodeReturn:
		value, err := decodeExpressionField(node, "value")
		if err != nil {
			return nil, err
		}
		return NewReturn(value), nil
	case NodeSend:
		selector, _ := node["selector"].(string)
		if selector == "" {
			return nil, fmt.Errorf("ast: send missing selector")
		}
		var receiver Expression
		if _, ok := node["receiver"].(map[string]any); ok {
			recv, err := decodeExpressionField(node, "receiver")
			if err != nil {
				return nil, err
			}
			receiver = recv
		}
		args, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, err
		}
		return NewSend(receiver, selector, args), nil
	case NodeCascade:
		receiver, err := decodeExpressionField(node, "receiver")
		if err != nil {
			return nil, err
		}
		rawMsgs, _ := node["messages"].([]any)
		if len(rawMsgs) == 0 {
			return nil, fmt.Errorf("ast: cascade without messages")
		}
		msgs := make([]*Send, 0, len(rawMsgs))
		for _, raw := range rawMsgs {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("ast: invalid cascade message %T", raw)
			}
			msgNode, err := DecodeNode(child)
			if err != nil {
				return nil, err
			}
			msg, ok := msgNode.(*Send)
			if !ok {
				return nil, fmt.Errorf("ast: cascade message is %s, want Send", msgNode.NodeType())
			}
			msgs = append(msgs, msg)
		}
		return NewCascade(receiver, msgs), nil
	case NodeVariable:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("ast: variable missing name")
		}
		return NewVariable(name), nil
	case NodeClassReference:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("ast: class reference missing name")
		}
		return NewClassReference(name), nil
	case NodeDynamicArray:
		elems, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, err
		}
		return NewDynamicArray(elems), nil
	case NodeDynamicDictionary:
		elems, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, err
		}
		return NewDynamicDictionary(elems), nil
	case NodeForeignCodeBlock:
		source, _ := node["source"].(string)
		return NewForeignCodeBlock(source), nil
	case NodeLiteral:
		return decodeLiteral(node)
	case "":
		return nil, fmt.Errorf("ast: node without type discriminator")
	default:
		return nil, fmt.Errorf("ast: unknown node type %q", typ)
	}
}

func decodeLiteral(node map[string]any) (*Literal, error) {
	kind, _ := node["kind"].(string)
	value := node["value"]
	switch LiteralKind(kind) {
	case LiteralInteger:
		num, ok := value.(float64)
		if !ok || num != math.Trunc(num) {
			return nil, fmt.Errorf("ast: invalid integer literal value %v", value)
		}
		return NewIntegerLiteral(int64(num)), nil
	case LiteralFloat:
		num, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("ast: invalid float literal value %v", value)
		}
		return NewFloatLiteral(num), nil
	case LiteralString:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("ast: invalid string literal value %v", value)
		}
		return NewStringLiteral(str), nil
	case LiteralSymbol:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("ast: invalid symbol literal value %v", value)
		}
		return NewSymbolLiteral(Symbol(str)), nil
	case LiteralCharacter:
		str, ok := value.(string)
		if !ok || utf8.RuneCountInString(str) != 1 {
			return nil, fmt.Errorf("ast: invalid character literal value %v", value)
		}
		r, _ := utf8.DecodeRuneInString(str)
		return NewCharacterLiteral(r), nil
	case LiteralBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("ast: invalid boolean literal value %v", value)
		}
		return NewBooleanLiteral(b), nil
	case LiteralNil:
		return NewNilLiteral(), nil
	default:
		return nil, fmt.Errorf("ast: unknown literal kind %q", kind)
	}
}

func decodeChild(node map[string]any, key string) (Node, error) {
	raw, ok := node[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("ast: missing %s node", key)
	}
	return DecodeNode(raw)
}

func decodeExpressionField(node map[string]any, key string) (Expression, error) {
	child, err := decodeChild(node, key)
	if err != nil {
		return nil, err
	}
	expr, ok := child.(Expression)
	if !ok {
		return nil, fmt.Errorf("ast: %s is %s, want an expression", key, child.NodeType())
	}
	return expr, nil
}

func decodeStatements(raw any) ([]Statement, error) {
	items, _ := raw.([]any)
	stmts := make([]Statement, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: invalid statement entry %T", item)
		}
		node, err := DecodeNode(child)
		if err != nil {
			return nil, err
		}
		stmt, ok := node.(Statement)
		if !ok {
			return nil, fmt.Errorf("ast: %s cannot appear in statement position", node.NodeType())
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func decodeExpressions(raw any) ([]Expression, error) {
	items, _ := raw.([]any)
	exprs := make([]Expression, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: invalid expression entry %T", item)
		}
		node, err := DecodeNode(child)
		if err != nil {
			return nil, err
		}
		expr, ok := node.(Expression)
		if !ok {
			return nil, fmt.Errorf("ast: %s cannot appear in expression position", node.NodeType())
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeStrings(raw any) []string {
	items, _ := raw.([]any)
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
