package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/compiler-go/pkg/ast"
	"quill/compiler-go/pkg/runtime"
)

const counterDocument = `{
  "class": {
    "name": "Counter",
    "instanceVariables": ["count"],
    "superclass": {"name": "Model", "instanceVariables": ["id"]}
  },
  "method": {
    "type": "Method",
    "selector": "incrementBy:",
    "parameters": ["delta"],
    "body": {
      "type": "Sequence",
      "statements": [
        {
          "type": "Assignment",
          "left": {"type": "Variable", "name": "count"},
          "right": {
            "type": "Send",
            "receiver": {"type": "Variable", "name": "count"},
            "selector": "+",
            "arguments": [{"type": "Variable", "name": "delta"}]
          }
        }
      ]
    }
  },
  "receiver": {"count": 5},
  "locals": {"delta": 3}
}`

func TestParseDocumentMethod(t *testing.T) {
	doc, err := ParseDocument("counter.json", []byte(counterDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Method == nil || doc.Method.Selector != "incrementBy:" {
		t.Fatalf("unexpected method %+v", doc.Method)
	}
	if doc.Node != ast.Node(doc.Method) {
		t.Fatalf("node should be the decoded method")
	}
	if doc.Class == nil || doc.Class.Name != "Counter" || doc.Class.Superclass.Name != "Model" {
		t.Fatalf("unexpected class %+v", doc.Class)
	}
	class := doc.Class.Class()
	if class.Superclass == nil || class.Superclass.Name != "Model" {
		t.Fatalf("unexpected analyzer class %+v", class)
	}
}

func TestParseDocumentExpression(t *testing.T) {
	doc, err := ParseDocument("sum.json", []byte(`{
  "expression": {
    "type": "Send",
    "receiver": {"type": "Literal", "kind": "Integer", "value": 1},
    "selector": "+",
    "arguments": [{"type": "Literal", "kind": "Integer", "value": 2}]
  }
}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Method != nil {
		t.Fatalf("expression document should not carry a method")
	}
	send, ok := doc.Node.(*ast.Send)
	if !ok || send.Selector != "+" {
		t.Fatalf("unexpected node %#v", doc.Node)
	}
	if err := doc.Analyze(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseDocumentRequiresOneRoot(t *testing.T) {
	if _, err := ParseDocument("empty.json", []byte(`{}`)); err == nil || !strings.Contains(err.Error(), "neither method nor expression") {
		t.Fatalf("unexpected error %v", err)
	}
	both := `{
  "method": {"type": "Method", "selector": "run", "body": {"type": "Sequence", "statements": []}},
  "expression": {"type": "Literal", "kind": "Nil", "value": null}
}`
	if _, err := ParseDocument("both.json", []byte(both)); err == nil || !strings.Contains(err.Error(), "both method and expression") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	if err := os.WriteFile(path, []byte(counterDocument), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(doc.Path) {
		t.Fatalf("path %q should be absolute", doc.Path)
	}
	if doc.Method == nil || doc.Method.Selector != "incrementBy:" {
		t.Fatalf("unexpected method %+v", doc.Method)
	}
}

func TestDocumentSeed(t *testing.T) {
	doc, err := ParseDocument("counter.json", []byte(counterDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.Analyze(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := runtime.NewContext(nil, "doIt")
	globals := runtime.NewNamespace()
	if err := doc.Seed(ctx, globals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	receiver, ok := ctx.Receiver().(*runtime.ObjectValue)
	if !ok || receiver.Class != "Counter" {
		t.Fatalf("unexpected receiver %#v", ctx.Receiver())
	}
	if !runtime.ValueEquals(receiver.SlotAt("count"), runtime.IntegerValue{Val: 5}) {
		t.Fatalf("unexpected slot %#v", receiver.SlotAt("count"))
	}
	if _, ok := receiver.SlotAt("id").(runtime.NilValue); !ok {
		t.Fatalf("inherited slot should default to nil, got %#v", receiver.SlotAt("id"))
	}
	if !runtime.ValueEquals(ctx.ReadLocal("delta"), runtime.IntegerValue{Val: 3}) {
		t.Fatalf("unexpected local %#v", ctx.ReadLocal("delta"))
	}

	class, ok := globals.Lookup("Counter")
	if !ok {
		t.Fatalf("class should be registered as a global")
	}
	if cv, ok := class.(*runtime.ClassValue); !ok || cv.Superclass != "Model" {
		t.Fatalf("unexpected class global %#v", class)
	}
	if _, ok := globals.Lookup("Model"); !ok {
		t.Fatalf("superclass should be registered as a global")
	}
}

func TestSeedValueScalars(t *testing.T) {
	doc, err := ParseDocument("locals.json", []byte(`{
  "expression": {"type": "Variable", "name": "label"},
  "locals": {"label": "ready", "ratio": 0.5, "limit": 9, "armed": true, "missing": null}
}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := runtime.NewContext(nil, "doIt")
	if err := doc.Seed(ctx, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !runtime.ValueEquals(ctx.ReadLocal("label"), runtime.StringValue{Val: "ready"}) {
		t.Fatalf("unexpected label %#v", ctx.ReadLocal("label"))
	}
	if !runtime.ValueEquals(ctx.ReadLocal("ratio"), runtime.FloatValue{Val: 0.5}) {
		t.Fatalf("unexpected ratio %#v", ctx.ReadLocal("ratio"))
	}
	if !runtime.ValueEquals(ctx.ReadLocal("limit"), runtime.IntegerValue{Val: 9}) {
		t.Fatalf("unexpected limit %#v", ctx.ReadLocal("limit"))
	}
	if !runtime.ValueEquals(ctx.ReadLocal("armed"), runtime.BooleanValue{Val: true}) {
		t.Fatalf("unexpected armed %#v", ctx.ReadLocal("armed"))
	}
	if _, ok := ctx.ReadLocal("missing").(runtime.NilValue); !ok {
		t.Fatalf("unexpected missing %#v", ctx.ReadLocal("missing"))
	}
}

func TestSeedRejectsCompositeValues(t *testing.T) {
	doc, err := ParseDocument("bad.json", []byte(`{
  "expression": {"type": "Variable", "name": "xs"},
  "locals": {"xs": [1, 2]}
}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = doc.Seed(runtime.NewContext(nil, "doIt"), nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported seed") {
		t.Fatalf("unexpected error %v", err)
	}
}
