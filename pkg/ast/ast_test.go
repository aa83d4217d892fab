package ast

import "testing"

func TestNodeTypes(t *testing.T) {
	cases := []struct {
		node Node
		want NodeType
	}{
		{Seq(nil), NodeSequence},
		{BlockSeq(nil), NodeBlockSequence},
		{Meth("doIt", nil, Seq(nil)), NodeMethod},
		{Blk(nil), NodeBlock},
		{Assign(Var("x"), Int(1)), NodeAssignment},
		{Ret(Nil()), NodeReturn},
		{Snd(Int(1), "+", Int(2)), NodeSend},
		{Casc(Var("r"), Msg("m1"), Msg("m2")), NodeCascade},
		{Var("x"), NodeVariable},
		{ClassRef("Point"), NodeClassReference},
		{DynArr(Int(1)), NodeDynamicArray},
		{DynDict(), NodeDynamicDictionary},
		{Foreign("return 1;"), NodeForeignCodeBlock},
		{Int(1), NodeLiteral},
	}
	for _, tc := range cases {
		if got := tc.node.NodeType(); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestMethodRecordSets(t *testing.T) {
	m := Meth("doIt", nil, Seq(nil))
	if refs := m.ClassReferences(); refs != nil {
		t.Fatalf("fresh method reports class references %v", refs)
	}
	m.RecordClassReference("Point")
	m.RecordClassReference("Array")
	m.RecordClassReference("Point")
	m.RecordMessageSend("x:y:")
	m.RecordMessageSend("printString")

	refs := m.ClassReferences()
	if len(refs) != 2 || refs[0] != "Array" || refs[1] != "Point" {
		t.Fatalf("unexpected class reference set %v", refs)
	}
	sends := m.MessageSends()
	if len(sends) != 2 || sends[0] != "printString" || sends[1] != "x:y:" {
		t.Fatalf("unexpected message send set %v", sends)
	}
}

func TestBlkNestsMultiStatementBodies(t *testing.T) {
	single := Blk(nil, Int(1))
	if len(single.Body.Statements) != 1 {
		t.Fatalf("single statement body reshaped: %#v", single.Body.Statements)
	}
	if _, ok := single.Body.Statements[0].(*Literal); !ok {
		t.Fatalf("single statement wrapped unnecessarily")
	}

	multi := Blk(nil, Assign(Var("x"), Int(1)), Var("x"))
	if len(multi.Body.Statements) != 1 {
		t.Fatalf("multi statement body not nested: %#v", multi.Body.Statements)
	}
	inner, ok := multi.Body.Statements[0].(*Sequence)
	if !ok {
		t.Fatalf("expected nested sequence, got %#v", multi.Body.Statements[0])
	}
	if len(inner.Statements) != 2 {
		t.Fatalf("nested sequence lost statements: %#v", inner.Statements)
	}
}

func TestChildrenEvaluationOrder(t *testing.T) {
	recv := Var("point")
	arg1 := Int(1)
	arg2 := Int(2)
	send := Snd(recv, "x:y:", arg1, arg2)

	children := send.Children()
	if len(children) != 3 {
		t.Fatalf("unexpected child count %d", len(children))
	}
	if children[0] != Node(recv) || children[1] != Node(arg1) || children[2] != Node(arg2) {
		t.Fatalf("children out of evaluation order: %#v", children)
	}
}

func TestCascadeChildrenReportSharedReceiverOnce(t *testing.T) {
	recv := Var("stream")
	cascade := Casc(recv, Msg("print:", Str("a")), Msg("print:", Str("b")), Msg("flush"))

	seen := 0
	Walk(cascade, func(n Node) bool {
		if n == Node(recv) {
			seen++
		}
		return true
	})
	if seen != 1 {
		t.Fatalf("shared receiver visited %d times, want 1", seen)
	}
}

func TestWalkPrunes(t *testing.T) {
	tree := Seq(nil, Snd(Int(1), "+", Int(2)), Var("x"))
	var visited []NodeType
	Walk(tree, func(n Node) bool {
		visited = append(visited, n.NodeType())
		return n.NodeType() != NodeSend
	})
	for _, typ := range visited {
		if typ == NodeLiteral {
			t.Fatalf("walk descended into a pruned subtree: %v", visited)
		}
	}
	if len(visited) != 3 {
		t.Fatalf("unexpected visit trace %v", visited)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		node Node
		want string
	}{
		{Snd(Int(1), "+", Int(2)), "Send(+)"},
		{Var("count"), "Variable(count)"},
		{ClassRef("Point"), "ClassReference(Point)"},
		{Int(42), "Literal(42)"},
		{Nil(), "Literal(nil)"},
		{Blk([]string{"each"}, Var("each")), "Block(:each)"},
		{Blk(nil, Int(1)), "Block"},
		{Meth("doIt", nil, Seq(nil)), "Method(doIt)"},
	}
	for _, tc := range cases {
		if got := Describe(tc.node); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
