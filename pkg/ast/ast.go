package ast

import "quill/compiler-go/pkg/scope"

// NodeType identifies one of the closed set of node kinds the parser produces.
type NodeType string

const (
	NodeSequence          NodeType = "Sequence"
	NodeBlockSequence     NodeType = "BlockSequence"
	NodeMethod            NodeType = "Method"
	NodeBlock             NodeType = "Block"
	NodeAssignment        NodeType = "Assignment"
	NodeReturn            NodeType = "Return"
	NodeSend              NodeType = "Send"
	NodeCascade           NodeType = "Cascade"
	NodeVariable          NodeType = "Variable"
	NodeClassReference    NodeType = "ClassReference"
	NodeDynamicArray      NodeType = "DynamicArray"
	NodeDynamicDictionary NodeType = "DynamicDictionary"
	NodeForeignCodeBlock  NodeType = "ForeignCodeBlock"
	NodeLiteral           NodeType = "Literal"
)

type Node interface {
	NodeType() NodeType
	Children() []Node
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Sequence

// Sequence is an ordered run of statements plus the temporaries it declares.
// A sequence may itself appear in statement position: the parser represents a
// multi-statement block body as a block sequence whose single statement is a
// nested sequence.
type Sequence struct {
	nodeImpl
	statementMarker

	Temporaries []string    `json:"temporaries,omitempty"`
	Statements  []Statement `json:"statements"`
}

func NewSequence(temporaries []string, statements []Statement) *Sequence {
	return &Sequence{nodeImpl: newNodeImpl(NodeSequence), Temporaries: temporaries, Statements: statements}
}

// BlockSequence is the body of a block literal. Its temporaries register in
// the nearest block scope rather than the method scope.
type BlockSequence struct {
	nodeImpl
	statementMarker

	Temporaries []string    `json:"temporaries,omitempty"`
	Statements  []Statement `json:"statements"`
}

func NewBlockSequence(temporaries []string, statements []Statement) *BlockSequence {
	return &BlockSequence{nodeImpl: newNodeImpl(NodeBlockSequence), Temporaries: temporaries, Statements: statements}
}

// Method

// Method is the top-level analyzed unit: one method of a class, or a bare
// expression wrapped by the parser into a synthetic doIt method.
type Method struct {
	nodeImpl

	Selector   string    `json:"selector"`
	Parameters []string  `json:"parameters,omitempty"`
	Body       *Sequence `json:"body"`

	// Scope is attached by analysis.
	Scope *scope.MethodScope `json:"-"`

	classReferences map[string]struct{}
	messageSends    map[string]struct{}
}

func NewMethod(selector string, parameters []string, body *Sequence) *Method {
	return &Method{nodeImpl: newNodeImpl(NodeMethod), Selector: selector, Parameters: parameters, Body: body}
}

// RecordClassReference adds a class name to the method's referenced-class set.
func (m *Method) RecordClassReference(name string) {
	if m.classReferences == nil {
		m.classReferences = map[string]struct{}{}
	}
	m.classReferences[name] = struct{}{}
}

// RecordMessageSend adds a selector to the method's sent-message set.
func (m *Method) RecordMessageSend(selector string) {
	if m.messageSends == nil {
		m.messageSends = map[string]struct{}{}
	}
	m.messageSends[selector] = struct{}{}
}

// ClassReferences lists the class names the method body references, sorted.
func (m *Method) ClassReferences() []string { return sortedSet(m.classReferences) }

// MessageSends lists the selectors the method body sends, sorted.
func (m *Method) MessageSends() []string { return sortedSet(m.messageSends) }

// Block

// Block is a block literal. Evaluation produces a closure; the body is not
// evaluated until the closure is invoked.
type Block struct {
	nodeImpl
	expressionMarker
	statementMarker

	Parameters []string       `json:"parameters,omitempty"`
	Body       *BlockSequence `json:"body"`

	// Scope is attached by analysis.
	Scope *scope.BlockScope `json:"-"`
}

func NewBlock(parameters []string, body *BlockSequence) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Parameters: parameters, Body: body}
}

// Assignment

type Assignment struct {
	nodeImpl
	expressionMarker
	statementMarker

	Left  *Variable  `json:"left"`
	Right Expression `json:"right"`
}

func NewAssignment(left *Variable, right Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Left: left, Right: right}
}

// Return

type Return struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value"`

	// NonLocal is set by analysis when the return sits inside a block rather
	// than directly in the method body.
	NonLocal bool `json:"-"`
}

func NewReturn(value Expression) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Value: value}
}

// Send

type Send struct {
	nodeImpl
	expressionMarker
	statementMarker

	// Receiver is nil on a cascaded message until analysis shares the
	// cascade's receiver into it.
	Receiver  Expression   `json:"receiver,omitempty"`
	Selector  string       `json:"selector"`
	Arguments []Expression `json:"arguments,omitempty"`
}

func NewSend(receiver Expression, selector string, arguments []Expression) *Send {
	return &Send{nodeImpl: newNodeImpl(NodeSend), Receiver: receiver, Selector: selector, Arguments: arguments}
}

// Cascade

// Cascade is one receiver expression followed by several messages to it.
type Cascade struct {
	nodeImpl
	expressionMarker
	statementMarker

	Receiver Expression `json:"receiver"`
	Messages []*Send    `json:"messages"`
}

func NewCascade(receiver Expression, messages []*Send) *Cascade {
	return &Cascade{nodeImpl: newNodeImpl(NodeCascade), Receiver: receiver, Messages: messages}
}

// Variable

type Variable struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`

	// Binding is attached by analysis.
	Binding scope.Binding `json:"-"`
}

func NewVariable(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

// ClassReference

// ClassReference names a class; it resolves through the global namespace,
// never through the scope chain.
type ClassReference struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`

	// Binding is attached by analysis.
	Binding scope.Binding `json:"-"`
}

func NewClassReference(name string) *ClassReference {
	return &ClassReference{nodeImpl: newNodeImpl(NodeClassReference), Name: name}
}

// Dynamic collection literals

type DynamicArray struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewDynamicArray(elements []Expression) *DynamicArray {
	return &DynamicArray{nodeImpl: newNodeImpl(NodeDynamicArray), Elements: elements}
}

// DynamicDictionary holds association expressions whose evaluated pairs fold
// into an ordered dictionary.
type DynamicDictionary struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewDynamicDictionary(elements []Expression) *DynamicDictionary {
	return &DynamicDictionary{nodeImpl: newNodeImpl(NodeDynamicDictionary), Elements: elements}
}

// ForeignCodeBlock

// ForeignCodeBlock carries verbatim target-language statement text, the
// unsandboxed escape hatch evaluated outside the source dialect.
type ForeignCodeBlock struct {
	nodeImpl
	statementMarker

	Source string `json:"source"`
}

func NewForeignCodeBlock(source string) *ForeignCodeBlock {
	return &ForeignCodeBlock{nodeImpl: newNodeImpl(NodeForeignCodeBlock), Source: source}
}

// Literal

// Symbol is the payload of a #selector literal, distinct from a plain string.
type Symbol string

type LiteralKind string

const (
	LiteralInteger   LiteralKind = "Integer"
	LiteralFloat     LiteralKind = "Float"
	LiteralString    LiteralKind = "String"
	LiteralSymbol    LiteralKind = "Symbol"
	LiteralCharacter LiteralKind = "Character"
	LiteralBoolean   LiteralKind = "Boolean"
	LiteralNil       LiteralKind = "Nil"
)

// Literal is a self-evaluating constant. Value holds int64, float64, string,
// Symbol, rune, or bool according to Kind; nil literals carry no value.
type Literal struct {
	nodeImpl
	expressionMarker
	statementMarker

	Kind  LiteralKind `json:"kind"`
	Value any         `json:"value,omitempty"`
}

func NewLiteral(kind LiteralKind, value any) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Kind: kind, Value: value}
}

func NewIntegerLiteral(value int64) *Literal  { return NewLiteral(LiteralInteger, value) }
func NewFloatLiteral(value float64) *Literal  { return NewLiteral(LiteralFloat, value) }
func NewStringLiteral(value string) *Literal  { return NewLiteral(LiteralString, value) }
func NewSymbolLiteral(value Symbol) *Literal  { return NewLiteral(LiteralSymbol, value) }
func NewCharacterLiteral(value rune) *Literal { return NewLiteral(LiteralCharacter, value) }
func NewBooleanLiteral(value bool) *Literal   { return NewLiteral(LiteralBoolean, value) }
func NewNilLiteral() *Literal                 { return NewLiteral(LiteralNil, nil) }
