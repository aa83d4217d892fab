package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/compiler-go/pkg/runtime"
)

const chainDocument = `{
  "expression": {
    "type": "Send",
    "receiver": {
      "type": "Send",
      "receiver": {"type": "Literal", "kind": "Integer", "value": 1},
      "selector": "+",
      "arguments": [{"type": "Literal", "kind": "Integer", "value": 2}]
    },
    "selector": "+",
    "arguments": [{"type": "Literal", "kind": "Integer", "value": 4}]
  }
}`

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"--strict", "doc.json", "-v"})
	if err != nil {
		t.Fatalf("parseOptions returned error: %v", err)
	}
	if !opts.strict || !opts.verbose {
		t.Fatalf("unexpected options %+v", opts)
	}
	if len(opts.paths) != 1 || opts.paths[0] != "doc.json" {
		t.Fatalf("unexpected paths %v", opts.paths)
	}

	if _, err := parseOptions([]string{"--frobnicate"}); err == nil {
		t.Fatalf("expected unknown-flag error")
	}
}

func TestSinglePath(t *testing.T) {
	opts := &options{paths: []string{"a.json"}}
	path, err := opts.singlePath("run")
	if err != nil || path != "a.json" {
		t.Fatalf("unexpected result %q, %v", path, err)
	}
	opts = &options{}
	if _, err := opts.singlePath("run"); err == nil || !strings.Contains(err.Error(), "exactly one path") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestEvaluateDocument(t *testing.T) {
	path := writeDocument(t, chainDocument)
	value, err := evaluateDocument(path, &options{})
	if err != nil {
		t.Fatalf("evaluateDocument returned error: %v", err)
	}
	if got := runtime.Print(value); got != "7" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestEvaluateDocumentStrictUnknown(t *testing.T) {
	path := writeDocument(t, `{"expression": {"type": "Variable", "name": "mystery"}}`)
	if _, err := evaluateDocument(path, &options{strict: true}); err == nil || !strings.Contains(err.Error(), "unknown variable") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestAnalyzeDocument(t *testing.T) {
	path := writeDocument(t, `{
  "class": {"name": "Counter", "instanceVariables": ["count"]},
  "method": {
    "type": "Method",
    "selector": "reset",
    "body": {
      "type": "Sequence",
      "statements": [
        {
          "type": "Assignment",
          "left": {"type": "Variable", "name": "count"},
          "right": {"type": "Literal", "kind": "Integer", "value": 0}
        }
      ]
    }
  }
}`)
	report, err := analyzeDocument(path, &options{})
	if err != nil {
		t.Fatalf("analyzeDocument returned error: %v", err)
	}
	if report.Selector != "reset" {
		t.Fatalf("unexpected selector %q", report.Selector)
	}
	if report.Targets["count"] != "self._count" {
		t.Fatalf("unexpected targets %v", report.Targets)
	}
}

func TestAnalyzeDocumentRejectsExpressions(t *testing.T) {
	path := writeDocument(t, chainDocument)
	if _, err := analyzeDocument(path, &options{}); err == nil || !strings.Contains(err.Error(), "method document") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestStepDocumentDrainsOnEOF(t *testing.T) {
	path := writeDocument(t, chainDocument)
	var buf strings.Builder
	if err := stepDocument(path, &options{}, strings.NewReader(""), &buf); err != nil {
		t.Fatalf("stepDocument returned error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "session ") {
		t.Fatalf("missing session line in %q", out)
	}
	if !strings.Contains(out, "step 2: 3\n") {
		t.Fatalf("missing pause value in:\n%s", out)
	}
	if !strings.HasSuffix(out, "step 4: 7\nresult: 7\n") {
		t.Fatalf("unexpected tail in:\n%s", out)
	}
}

func TestStepDocumentQuits(t *testing.T) {
	path := writeDocument(t, chainDocument)
	var buf strings.Builder
	if err := stepDocument(path, &options{}, strings.NewReader("\n\nq\n"), &buf); err != nil {
		t.Fatalf("stepDocument returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "step 2: 3") {
		t.Fatalf("missing pause value in:\n%s", out)
	}
	if !strings.HasSuffix(out, "stopped after 2 step(s)\n") {
		t.Fatalf("unexpected tail in:\n%s", out)
	}
	if strings.Contains(out, "result:") {
		t.Fatalf("stopped session should not print a result:\n%s", out)
	}
}
