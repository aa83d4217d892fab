package scope

import "testing"

func TestMethodScopeLookupOrder(t *testing.T) {
	method := NewMethodScope("total:")
	iv := method.DefineInstanceVariable("count")
	arg := method.DefineArgument("delta")
	tmp := method.DefineTemporary("sum")

	cases := []struct {
		name string
		want Binding
	}{
		{"delta", arg},
		{"sum", tmp},
		{"count", iv},
	}
	for _, tc := range cases {
		got, ok := method.Lookup(tc.name)
		if !ok {
			t.Fatalf("lookup %q failed", tc.name)
		}
		if got != tc.want {
			t.Fatalf("lookup %q resolved %#v, want %#v", tc.name, got, tc.want)
		}
	}
	if _, ok := method.Lookup("missing"); ok {
		t.Fatalf("expected miss for undeclared name")
	}
}

func TestBlockScopeResolvesNearestEnclosing(t *testing.T) {
	method := NewMethodScope("run")
	methodX := method.DefineTemporary("x")
	method.DefineTemporary("y")

	outer := NewBlockScope(method)
	outerX := outer.DefineArgument("x")

	inner := NewBlockScope(outer)

	got, ok := inner.Lookup("x")
	if !ok || got != outerX {
		t.Fatalf("inner lookup of x resolved %#v, want the outer block argument", got)
	}
	got, ok = outer.Lookup("x")
	if !ok || got != outerX {
		t.Fatalf("outer lookup of x resolved %#v, want its own argument", got)
	}
	got, ok = method.Lookup("x")
	if !ok || got != methodX {
		t.Fatalf("method lookup of x resolved %#v, want the method temporary", got)
	}
	if _, ok := inner.Lookup("z"); ok {
		t.Fatalf("expected miss to propagate through the whole chain")
	}
}

func TestBlockScopeChainTerminatesAtMethod(t *testing.T) {
	method := NewMethodScope("run")
	inner := NewBlockScope(NewBlockScope(method))
	if inner.Method() != method {
		t.Fatalf("block chain did not terminate at the method scope")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a block scope without an enclosing scope")
		}
	}()
	NewBlockScope(nil)
}

func TestBindingTargetExpressions(t *testing.T) {
	method := NewMethodScope("render")
	cases := []struct {
		binding Binding
		want    string
	}{
		{method.DefineArgument("anItem"), "anItem"},
		{method.DefineTemporary("total"), "total"},
		{method.DefineInstanceVariable("items"), "self._items"},
		{NewClassReferenceBinding("OrderedCollection", method), "(global.OrderedCollection || OrderedCollection)"},
		{NewAliasBinding("tmp", "receiver._cache", method), "receiver._cache"},
		{method.RecordUnknown("console"), "console"},
	}
	for _, tc := range cases {
		if got := tc.binding.TargetExpr(); got != tc.want {
			t.Fatalf("%s binding rendered %q, want %q", tc.binding.Kind(), got, tc.want)
		}
		if tc.binding.Home() != method {
			t.Fatalf("%s binding lost its home scope", tc.binding.Kind())
		}
	}
}

func TestRecordUnknownDeduplicates(t *testing.T) {
	method := NewMethodScope("log")
	first := method.RecordUnknown("console")
	method.RecordUnknown("window")
	again := method.RecordUnknown("console")

	if first != again {
		t.Fatalf("repeated unknown reference created a second binding")
	}
	names := method.UnknownVariables()
	if len(names) != 2 || names[0] != "console" || names[1] != "window" {
		t.Fatalf("unexpected unknown list %v", names)
	}
}

func TestUnknownsNotVisibleToLookup(t *testing.T) {
	method := NewMethodScope("log")
	method.RecordUnknown("console")
	if _, ok := method.Lookup("console"); ok {
		t.Fatalf("unknown names must not resolve through the scope chain")
	}
}

func TestPseudoVariables(t *testing.T) {
	for _, name := range []string{"self", "super", "true", "false", "nil", "thisContext"} {
		if !IsPseudoVariable(name) {
			t.Fatalf("%q not recognized as a pseudo-variable", name)
		}
	}
	if IsPseudoVariable("selfish") {
		t.Fatalf("prefix match must not count as a pseudo-variable")
	}
}

func TestNonLocalReturnFlag(t *testing.T) {
	method := NewMethodScope("detect:")
	if method.HasNonLocalReturn() {
		t.Fatalf("fresh method scope must not carry the flag")
	}
	method.MarkNonLocalReturn()
	if !method.HasNonLocalReturn() {
		t.Fatalf("flag did not stick")
	}
}
