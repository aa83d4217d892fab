package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
name: core-suite
fixtures:
  - name: arithmetic-chain
    document: arithmetic_chain.json
    result: "7"
    steps: 4
    partial:
      after: 2
      result: "3"
    report:
      messageSends: ["+"]
      nonLocalReturn: false
  - name: shadowed-argument
    document: shadowed_argument.json
    strict: true
    error: shadows an enclosing binding
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manifest.Name != "core-suite" {
		t.Fatalf("unexpected name %q", manifest.Name)
	}
	if len(manifest.Fixtures) != 2 {
		t.Fatalf("unexpected fixture count %d", len(manifest.Fixtures))
	}

	first := manifest.Fixtures[0]
	if first.Name != "arithmetic-chain" || first.Result != "7" || first.Steps != 4 {
		t.Fatalf("unexpected fixture %+v", first)
	}
	if first.Partial == nil || first.Partial.After != 2 || first.Partial.Result != "3" {
		t.Fatalf("unexpected partial %+v", first.Partial)
	}
	if first.Report == nil || len(first.Report.MessageSends) != 1 || first.Report.MessageSends[0] != "+" {
		t.Fatalf("unexpected report %+v", first.Report)
	}
	if first.Report.NonLocalReturn == nil || *first.Report.NonLocalReturn {
		t.Fatalf("unexpected report flag %+v", first.Report.NonLocalReturn)
	}
	if first.Report.Arguments != nil {
		t.Fatalf("absent report fields should stay nil, got %v", first.Report.Arguments)
	}
	if got := manifest.DocumentPath(first); got != filepath.Join(filepath.Dir(path), "arithmetic_chain.json") {
		t.Fatalf("unexpected document path %q", got)
	}

	second := manifest.Fixtures[1]
	if !second.Strict || second.Error == "" || second.Result != "" {
		t.Fatalf("unexpected fixture %+v", second)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing name",
			content: "fixtures:\n  - name: a\n    document: a.json\n    result: \"1\"\n",
			want:    "name must be provided",
		},
		{
			name:    "no fixtures",
			content: "name: empty\n",
			want:    "at least one fixture",
		},
		{
			name:    "unnamed fixture",
			content: "name: s\nfixtures:\n  - document: a.json\n    result: \"1\"\n",
			want:    "must be named",
		},
		{
			name:    "duplicate names",
			content: "name: s\nfixtures:\n  - name: a\n    document: a.json\n    result: \"1\"\n  - name: a\n    document: b.json\n    result: \"2\"\n",
			want:    "defined twice",
		},
		{
			name:    "missing document",
			content: "name: s\nfixtures:\n  - name: a\n    result: \"1\"\n",
			want:    "missing document",
		},
		{
			name:    "result and error",
			content: "name: s\nfixtures:\n  - name: a\n    document: a.json\n    result: \"1\"\n    error: boom\n",
			want:    "both a result and an error",
		},
		{
			name:    "no expectation",
			content: "name: s\nfixtures:\n  - name: a\n    document: a.json\n",
			want:    "neither a result nor an error",
		},
		{
			name:    "bad partial",
			content: "name: s\nfixtures:\n  - name: a\n    document: a.json\n    result: \"1\"\n    partial:\n      after: 0\n      result: \"1\"\n",
			want:    "positive step count",
		},
		{
			name:    "report with error",
			content: "name: s\nfixtures:\n  - name: a\n    document: a.json\n    error: boom\n    report:\n      arguments: [x]\n",
			want:    "conflicts with an error expectation",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if !strings.Contains(verr.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", verr.Error(), tc.want)
			}
		})
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, "name: s\nfixtures:\n  - name: a\n    document: a.json\n    result: \"1\"\n    budget: 12\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected unknown-field error")
	}
}

func TestLoadManifestEmptyFile(t *testing.T) {
	path := writeManifest(t, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("unexpected error %v", err)
	}
}
