package driver

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"quill/compiler-go/pkg/analyzer"
	"quill/compiler-go/pkg/interpreter"
	"quill/compiler-go/pkg/runtime"
)

// maxReplaySteps bounds a stepped replay so a looping fixture cannot hang
// the whole suite.
const maxReplaySteps = 10000

// Runner executes fixture manifests. Each fixture's document is analyzed,
// evaluated eagerly, and, when the fixture asks for it, replayed one step at
// a time to check the pause points.
type Runner struct {
	logger zerolog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger routes the runner's progress logging to the given logger.
func WithLogger(logger zerolog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SuiteError aggregates the failures from one manifest run.
type SuiteError struct {
	Name     string
	Failures []string
}

func (e *SuiteError) Error() string {
	return fmt.Sprintf("suite %s: %d fixture(s) failed:\n- %s", e.Name, len(e.Failures), strings.Join(e.Failures, "\n- "))
}

// RunManifest runs every fixture in the manifest and reports the failures
// together. A nil return means the whole suite passed.
func (r *Runner) RunManifest(manifest *Manifest) error {
	var failures []string
	for _, fixture := range manifest.Fixtures {
		if err := r.RunFixture(manifest, fixture); err != nil {
			r.logger.Debug().Str("fixture", fixture.Name).Err(err).Msg("fixture failed")
			failures = append(failures, fmt.Sprintf("%s: %v", fixture.Name, err))
			continue
		}
		r.logger.Debug().Str("fixture", fixture.Name).Msg("fixture passed")
	}
	if len(failures) > 0 {
		return &SuiteError{Name: manifest.Name, Failures: failures}
	}
	return nil
}

// RunFixture loads, analyzes, and evaluates one fixture, comparing the
// outcome against its expectations.
func (r *Runner) RunFixture(manifest *Manifest, fixture *FixtureSpec) error {
	doc, err := LoadDocument(manifest.DocumentPath(fixture))
	if err != nil {
		return err
	}

	var opts []analyzer.Option
	if fixture.Strict {
		opts = append(opts, analyzer.WithStrictUnknowns())
	}
	if err := doc.Analyze(opts...); err != nil {
		return r.checkFailure(fixture, err)
	}
	if fixture.Report != nil {
		if err := r.checkReport(doc, fixture.Report); err != nil {
			return err
		}
	}

	value, err := r.evaluate(doc)
	if err != nil {
		return r.checkFailure(fixture, err)
	}
	if fixture.Error != "" {
		return fmt.Errorf("expected a failure mentioning %q, got %s", fixture.Error, runtime.Print(value))
	}
	if got := runtime.Print(value); got != fixture.Result {
		return fmt.Errorf("result %s, want %s", got, fixture.Result)
	}
	if fixture.Steps > 0 || fixture.Partial != nil {
		return r.replay(doc, fixture)
	}
	return nil
}

func (r *Runner) evaluate(doc *Document) (runtime.Value, error) {
	rt := runtime.NewRuntime()
	interp := interpreter.New(rt, interpreter.WithLogger(r.logger))
	if err := doc.Seed(interp.RootContext(), rt.Globals); err != nil {
		return nil, err
	}
	return interp.Run(doc.Node)
}

// replay runs the document again under the debugger, checking the partial
// value at the requested pause point and the total step count.
func (r *Runner) replay(doc *Document, fixture *FixtureSpec) error {
	rt := runtime.NewRuntime()
	dbg := interpreter.NewDebugger(rt, interpreter.WithLogger(r.logger))
	if err := doc.Seed(dbg.Context(), rt.Globals); err != nil {
		return err
	}
	dbg.Interpret(doc.Node)

	if fixture.Partial != nil {
		for n := 0; n < fixture.Partial.After; n++ {
			if err := dbg.Advance(); err != nil {
				return fmt.Errorf("replay failed after %d steps: %w", dbg.Interpreter().Steps(), err)
			}
		}
		if got := runtime.Print(dbg.Result()); got != fixture.Partial.Result {
			return fmt.Errorf("partial result %s after %d steps, want %s", got, fixture.Partial.After, fixture.Partial.Result)
		}
	}

	for !dbg.Done() {
		if dbg.Interpreter().Steps() >= maxReplaySteps {
			return fmt.Errorf("replay exceeded %d steps", maxReplaySteps)
		}
		if err := dbg.Advance(); err != nil {
			return fmt.Errorf("replay failed after %d steps: %w", dbg.Interpreter().Steps(), err)
		}
	}
	if fixture.Steps > 0 {
		if got := dbg.Interpreter().Steps(); got != fixture.Steps {
			return fmt.Errorf("replay took %d steps, want %d", got, fixture.Steps)
		}
	}
	if got := runtime.Print(dbg.Result()); got != fixture.Result {
		return fmt.Errorf("replay result %s, want %s", got, fixture.Result)
	}
	return nil
}

// checkReport compares the analysis facts of a method document against the
// fixture's expectations.
func (r *Runner) checkReport(doc *Document, want *ReportSpec) error {
	if doc.Method == nil {
		return fmt.Errorf("report check requires a method document")
	}
	report, err := NewReport(doc.Method)
	if err != nil {
		return err
	}
	checks := []struct {
		field string
		got   []string
		want  []string
	}{
		{"arguments", report.Arguments, want.Arguments},
		{"temporaries", report.Temporaries, want.Temporaries},
		{"classReferences", report.ClassReferences, want.ClassReferences},
		{"messageSends", report.MessageSends, want.MessageSends},
		{"unknownVariables", report.UnknownVariables, want.UnknownVariables},
	}
	for _, check := range checks {
		if check.want == nil {
			continue
		}
		if !sameStrings(check.got, check.want) {
			return fmt.Errorf("report %s %v, want %v", check.field, check.got, check.want)
		}
	}
	if want.NonLocalReturn != nil && report.NonLocalReturn != *want.NonLocalReturn {
		return fmt.Errorf("report nonLocalReturn %t, want %t", report.NonLocalReturn, *want.NonLocalReturn)
	}
	return nil
}

func sameStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// checkFailure matches an analysis or evaluation error against the
// fixture's expectation. Expected failures pass; everything else surfaces.
func (r *Runner) checkFailure(fixture *FixtureSpec, err error) error {
	if fixture.Error == "" {
		return err
	}
	if strings.Contains(err.Error(), fixture.Error) {
		return nil
	}
	return fmt.Errorf("failure %q does not mention %q", err, fixture.Error)
}
