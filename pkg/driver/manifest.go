package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is a parsed fixture suite: an ordered list of documents with the
// behaviour expected of each when analyzed and interpreted.
type Manifest struct {
	Path     string
	Name     string
	Fixtures []*FixtureSpec
}

// FixtureSpec describes one fixture in a suite.
type FixtureSpec struct {
	Name     string
	Document string
	Strict   bool
	Result   string
	Steps    int
	Partial  *PartialSpec
	Report   *ReportSpec
	Error    string
}

// PartialSpec pins the debugger's intermediate result after a given number
// of steps.
type PartialSpec struct {
	After  int
	Result string
}

// ReportSpec lists the analysis facts a method fixture expects. Absent
// fields are not checked; an empty list asserts the set is empty.
type ReportSpec struct {
	Arguments        []string
	Temporaries      []string
	ClassReferences  []string
	MessageSends     []string
	UnknownVariables []string
	NonLocalReturn   *bool
}

// DocumentPath resolves the fixture's document relative to the manifest.
func (m *Manifest) DocumentPath(fixture *FixtureSpec) string {
	if filepath.IsAbs(fixture.Document) {
		return fixture.Document
	}
	return filepath.Join(filepath.Dir(m.Path), fixture.Document)
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses a fixture manifest from disk, returning it validated.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if len(m.Fixtures) == 0 {
		errs.Issues = append(errs.Issues, "at least one fixture must be defined")
	}

	seen := make(map[string]struct{}, len(m.Fixtures))
	for i, fixture := range m.Fixtures {
		label := fixture.Name
		if label == "" {
			label = fmt.Sprintf("fixtures[%d]", i)
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s must be named", label))
		}
		if _, dup := seen[fixture.Name]; dup && fixture.Name != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q defined twice", fixture.Name))
		}
		seen[fixture.Name] = struct{}{}

		if fixture.Document == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q missing document", label))
		}
		if fixture.Error != "" && fixture.Result != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q expects both a result and an error", label))
		}
		if fixture.Error == "" && fixture.Result == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q expects neither a result nor an error", label))
		}
		if fixture.Steps < 0 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q has negative steps", label))
		}
		if fixture.Partial != nil {
			if fixture.Partial.After <= 0 {
				errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q partial check needs a positive step count", label))
			}
			if fixture.Partial.Result == "" {
				errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q partial check needs an expected result", label))
			}
		}
		if fixture.Report != nil && fixture.Error != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q report check conflicts with an error expectation", label))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

type manifestFile struct {
	Name     string        `yaml:"name"`
	Fixtures []fixtureYAML `yaml:"fixtures"`
}

type fixtureYAML struct {
	Name     string       `yaml:"name"`
	Document string       `yaml:"document"`
	Strict   bool         `yaml:"strict"`
	Result   string       `yaml:"result"`
	Steps    int          `yaml:"steps"`
	Partial  *partialYAML `yaml:"partial"`
	Report   *reportYAML  `yaml:"report"`
	Error    string       `yaml:"error"`
}

type partialYAML struct {
	After  int    `yaml:"after"`
	Result string `yaml:"result"`
}

type reportYAML struct {
	Arguments        []string `yaml:"arguments"`
	Temporaries      []string `yaml:"temporaries"`
	ClassReferences  []string `yaml:"classReferences"`
	MessageSends     []string `yaml:"messageSends"`
	UnknownVariables []string `yaml:"unknownVariables"`
	NonLocalReturn   *bool    `yaml:"nonLocalReturn"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	manifest := &Manifest{
		Path:     path,
		Name:     strings.TrimSpace(mf.Name),
		Fixtures: make([]*FixtureSpec, 0, len(mf.Fixtures)),
	}
	for _, raw := range mf.Fixtures {
		spec := &FixtureSpec{
			Name:     strings.TrimSpace(raw.Name),
			Document: strings.TrimSpace(raw.Document),
			Strict:   raw.Strict,
			Result:   raw.Result,
			Steps:    raw.Steps,
			Error:    strings.TrimSpace(raw.Error),
		}
		if raw.Partial != nil {
			spec.Partial = &PartialSpec{After: raw.Partial.After, Result: raw.Partial.Result}
		}
		if raw.Report != nil {
			spec.Report = &ReportSpec{
				Arguments:        raw.Report.Arguments,
				Temporaries:      raw.Report.Temporaries,
				ClassReferences:  raw.Report.ClassReferences,
				MessageSends:     raw.Report.MessageSends,
				UnknownVariables: raw.Report.UnknownVariables,
				NonLocalReturn:   raw.Report.NonLocalReturn,
			}
		}
		manifest.Fixtures = append(manifest.Fixtures, spec)
	}
	return manifest
}
