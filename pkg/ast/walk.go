package ast

import (
	"fmt"
	"sort"
	"strings"
)

// Children, in evaluation order, per node kind. Cascaded messages report the
// shared receiver only once, on the cascade itself.

func (s *Sequence) Children() []Node { return statementChildren(s.Statements) }

func (s *BlockSequence) Children() []Node { return statementChildren(s.Statements) }

func (m *Method) Children() []Node {
	if m.Body == nil {
		return nil
	}
	return []Node{m.Body}
}

func (b *Block) Children() []Node {
	if b.Body == nil {
		return nil
	}
	return []Node{b.Body}
}

func (a *Assignment) Children() []Node { return []Node{a.Left, a.Right} }

func (r *Return) Children() []Node { return []Node{r.Value} }

func (s *Send) Children() []Node {
	children := make([]Node, 0, len(s.Arguments)+1)
	if s.Receiver != nil {
		children = append(children, s.Receiver)
	}
	for _, arg := range s.Arguments {
		children = append(children, arg)
	}
	return children
}

func (c *Cascade) Children() []Node {
	children := make([]Node, 0, len(c.Messages)+1)
	children = append(children, c.Receiver)
	for _, msg := range c.Messages {
		for _, arg := range msg.Arguments {
			children = append(children, arg)
		}
	}
	return children
}

func (v *Variable) Children() []Node { return nil }

func (c *ClassReference) Children() []Node { return nil }

func (d *DynamicArray) Children() []Node { return expressionChildren(d.Elements) }

func (d *DynamicDictionary) Children() []Node { return expressionChildren(d.Elements) }

func (f *ForeignCodeBlock) Children() []Node { return nil }

func (l *Literal) Children() []Node { return nil }

func statementChildren(statements []Statement) []Node {
	children := make([]Node, len(statements))
	for i, stmt := range statements {
		children[i] = stmt
	}
	return children
}

func expressionChildren(expressions []Expression) []Node {
	children := make([]Node, len(expressions))
	for i, expr := range expressions {
		children[i] = expr
	}
	return children
}

// Walk calls fn on node and then on every descendant in evaluation order,
// pruning a subtree when fn returns false.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range node.Children() {
		Walk(child, fn)
	}
}

// Describe renders a node as a compact one-line tag for logs and step traces.
func Describe(node Node) string {
	switch n := node.(type) {
	case nil:
		return "<nil>"
	case *Method:
		return fmt.Sprintf("Method(%s)", n.Selector)
	case *Send:
		return fmt.Sprintf("Send(%s)", n.Selector)
	case *Cascade:
		return fmt.Sprintf("Cascade(%d messages)", len(n.Messages))
	case *Variable:
		return fmt.Sprintf("Variable(%s)", n.Name)
	case *ClassReference:
		return fmt.Sprintf("ClassReference(%s)", n.Name)
	case *Assignment:
		return fmt.Sprintf("Assignment(%s)", n.Left.Name)
	case *Block:
		if len(n.Parameters) == 0 {
			return "Block"
		}
		return fmt.Sprintf("Block(:%s)", strings.Join(n.Parameters, " :"))
	case *Literal:
		if n.Kind == LiteralNil {
			return "Literal(nil)"
		}
		return fmt.Sprintf("Literal(%v)", n.Value)
	default:
		return string(node.NodeType())
	}
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
