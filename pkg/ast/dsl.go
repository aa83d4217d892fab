package ast

// Variable and literal helpers.

func Var(name string) *Variable {
	return NewVariable(name)
}

func Self() *Variable {
	return NewVariable("self")
}

func ClassRef(name string) *ClassReference {
	return NewClassReference(name)
}

func Int(value int64) *Literal {
	return NewIntegerLiteral(value)
}

func Flt(value float64) *Literal {
	return NewFloatLiteral(value)
}

func Str(value string) *Literal {
	return NewStringLiteral(value)
}

func Sym(value string) *Literal {
	return NewSymbolLiteral(Symbol(value))
}

func Chr(value rune) *Literal {
	return NewCharacterLiteral(value)
}

func Bool(value bool) *Literal {
	return NewBooleanLiteral(value)
}

func Nil() *Literal {
	return NewNilLiteral()
}

// Statement and expression helpers.

func Seq(temporaries []string, statements ...Statement) *Sequence {
	return NewSequence(temporaries, statements)
}

func BlockSeq(temporaries []string, statements ...Statement) *BlockSequence {
	return NewBlockSequence(temporaries, statements)
}

func Meth(selector string, parameters []string, body *Sequence) *Method {
	return NewMethod(selector, parameters, body)
}

// DoIt wraps a bare expression into the synthetic unary method the parser
// produces for workspace evaluation.
func DoIt(statements ...Statement) *Method {
	return NewMethod("doIt", nil, NewSequence(nil, statements))
}

// Blk builds a block literal. A multi-statement body is nested into a single
// inner sequence, matching the shape the parser hands over.
func Blk(parameters []string, statements ...Statement) *Block {
	if len(statements) > 1 {
		statements = []Statement{NewSequence(nil, statements)}
	}
	return NewBlock(parameters, NewBlockSequence(nil, statements))
}

func Assign(left *Variable, right Expression) *Assignment {
	return NewAssignment(left, right)
}

func Ret(value Expression) *Return {
	return NewReturn(value)
}

func Snd(receiver Expression, selector string, arguments ...Expression) *Send {
	return NewSend(receiver, selector, arguments)
}

// Msg builds a cascaded message: a send with no receiver of its own until
// analysis shares the cascade's receiver into it.
func Msg(selector string, arguments ...Expression) *Send {
	return NewSend(nil, selector, arguments)
}

func Casc(receiver Expression, messages ...*Send) *Cascade {
	return NewCascade(receiver, messages)
}

func DynArr(elements ...Expression) *DynamicArray {
	return NewDynamicArray(elements)
}

func DynDict(elements ...Expression) *DynamicDictionary {
	return NewDynamicDictionary(elements)
}

func Foreign(source string) *ForeignCodeBlock {
	return NewForeignCodeBlock(source)
}
