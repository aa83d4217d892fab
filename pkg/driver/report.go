package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"quill/compiler-go/pkg/ast"
)

// Report is the JSON summary of one analyzed method, the shape downstream
// translators consume: the aggregated sets, the unknown names, and every
// resolved name with its target rendering.
type Report struct {
	Selector         string            `json:"selector"`
	Arguments        []string          `json:"arguments,omitempty"`
	Temporaries      []string          `json:"temporaries,omitempty"`
	ClassReferences  []string          `json:"classReferences,omitempty"`
	MessageSends     []string          `json:"messageSends,omitempty"`
	UnknownVariables []string          `json:"unknownVariables,omitempty"`
	NonLocalReturn   bool              `json:"nonLocalReturn"`
	Targets          map[string]string `json:"targets,omitempty"`
}

// NewReport summarizes an analyzed method. The method must have been through
// analysis; an unannotated method has no scope to report on.
func NewReport(method *ast.Method) (*Report, error) {
	sc := method.Scope
	if sc == nil {
		return nil, fmt.Errorf("report: method %q has not been analyzed", method.Selector)
	}

	report := &Report{
		Selector:         method.Selector,
		ClassReferences:  method.ClassReferences(),
		MessageSends:     method.MessageSends(),
		UnknownVariables: sc.UnknownVariables(),
		NonLocalReturn:   sc.HasNonLocalReturn(),
		Targets:          map[string]string{},
	}
	for _, b := range sc.Arguments() {
		report.Arguments = append(report.Arguments, b.Name())
		report.Targets[b.Name()] = b.TargetExpr()
	}
	for _, b := range sc.Temporaries() {
		report.Temporaries = append(report.Temporaries, b.Name())
		report.Targets[b.Name()] = b.TargetExpr()
	}
	for _, b := range sc.InstanceVariables() {
		report.Targets[b.Name()] = b.TargetExpr()
	}
	return report, nil
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
