package driver

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"quill/compiler-go/pkg/analyzer"
	"quill/compiler-go/pkg/ast"
)

func analyzedMethod(t *testing.T, method *ast.Method, class *analyzer.Class) *ast.Method {
	t.Helper()
	if err := analyzer.New().Analyze(method, class); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return method
}

func TestNewReport(t *testing.T) {
	class := &analyzer.Class{Name: "Ledger", InstanceVariables: []string{"total"}}
	method := analyzedMethod(t, ast.Meth("register:", []string{"amount"}, ast.Seq(
		[]string{"next"},
		ast.Assign(ast.Var("next"), ast.Snd(ast.Var("total"), "+", ast.Var("amount"))),
		ast.Assign(ast.Var("total"), ast.Var("next")),
		ast.Snd(ast.ClassRef("Transcript"), "show:", ast.Var("unlogged")),
		ast.Snd(ast.Bool(true), "ifTrue:", ast.Blk(nil, ast.Ret(ast.Var("next")))),
	)), class)

	report, err := NewReport(method)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Selector != "register:" {
		t.Fatalf("unexpected selector %q", report.Selector)
	}
	if !reflect.DeepEqual(report.Arguments, []string{"amount"}) {
		t.Fatalf("unexpected arguments %v", report.Arguments)
	}
	if !reflect.DeepEqual(report.Temporaries, []string{"next"}) {
		t.Fatalf("unexpected temporaries %v", report.Temporaries)
	}
	if !reflect.DeepEqual(report.ClassReferences, []string{"Transcript"}) {
		t.Fatalf("unexpected class references %v", report.ClassReferences)
	}
	if !reflect.DeepEqual(report.MessageSends, []string{"+", "ifTrue:", "show:"}) {
		t.Fatalf("unexpected message sends %v", report.MessageSends)
	}
	if !reflect.DeepEqual(report.UnknownVariables, []string{"unlogged"}) {
		t.Fatalf("unexpected unknowns %v", report.UnknownVariables)
	}
	if !report.NonLocalReturn {
		t.Fatalf("block return should mark the method as non-local returning")
	}
	wantTargets := map[string]string{
		"amount": "amount",
		"next":   "next",
		"total":  "self._total",
	}
	if !reflect.DeepEqual(report.Targets, wantTargets) {
		t.Fatalf("unexpected targets %v", report.Targets)
	}
}

func TestNewReportRequiresAnalysis(t *testing.T) {
	method := ast.Meth("run", nil, ast.Seq(nil, ast.Int(1)))
	if _, err := NewReport(method); err == nil || !strings.Contains(err.Error(), "has not been analyzed") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestReportWriteJSON(t *testing.T) {
	method := analyzedMethod(t, ast.Meth("run", nil, ast.Seq(nil, ast.Int(1))), nil)
	report, err := NewReport(method)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"selector": "run"`) || !strings.Contains(out, `"nonLocalReturn": false`) {
		t.Fatalf("unexpected output %s", out)
	}
	if strings.Contains(out, "temporaries") {
		t.Fatalf("empty sets should be omitted: %s", out)
	}
}
