// Package driver loads analyzable documents and fixture manifests from disk
// and renders analysis reports, the glue between serialized trees and the
// analyzer/interpreter core.
package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"quill/compiler-go/pkg/analyzer"
	"quill/compiler-go/pkg/ast"
	"quill/compiler-go/pkg/runtime"
)

// ClassSpec describes the class a document's code belongs to, with its
// superclass chain inlined.
type ClassSpec struct {
	Name              string     `json:"name"`
	InstanceVariables []string   `json:"instanceVariables,omitempty"`
	Superclass        *ClassSpec `json:"superclass,omitempty"`
}

// Class converts the descriptor chain into the analyzer's class model.
func (s *ClassSpec) Class() *analyzer.Class {
	if s == nil {
		return nil
	}
	return &analyzer.Class{
		Name:              s.Name,
		InstanceVariables: s.InstanceVariables,
		Superclass:        s.Superclass.Class(),
	}
}

// Document is one serialized unit of analyzable code: a method or a bare
// expression, the class it belongs to, and scalar seeds for the evaluation
// frame.
type Document struct {
	Path   string
	Class  *ClassSpec
	Node   ast.Node
	Method *ast.Method

	receiverSlots map[string]any
	locals        map[string]any
}

type documentFile struct {
	Class      *ClassSpec      `json:"class,omitempty"`
	Method     json.RawMessage `json:"method,omitempty"`
	Expression json.RawMessage `json:"expression,omitempty"`
	Receiver   map[string]any  `json:"receiver,omitempty"`
	Locals     map[string]any  `json:"locals,omitempty"`
}

// LoadDocument reads and decodes a document from disk.
func LoadDocument(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("document: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("document: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", absPath, err)
	}
	return ParseDocument(absPath, data)
}

// ParseDocument decodes a document from raw JSON.
func ParseDocument(path string, data []byte) (*Document, error) {
	var raw documentFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("document: parse %s: %w", path, err)
	}
	if len(raw.Method) == 0 && len(raw.Expression) == 0 {
		return nil, fmt.Errorf("document: %s has neither method nor expression", path)
	}
	if len(raw.Method) > 0 && len(raw.Expression) > 0 {
		return nil, fmt.Errorf("document: %s has both method and expression", path)
	}

	doc := &Document{
		Path:          path,
		Class:         raw.Class,
		receiverSlots: raw.Receiver,
		locals:        raw.Locals,
	}
	if len(raw.Method) > 0 {
		method, err := ast.DecodeMethod(raw.Method)
		if err != nil {
			return nil, fmt.Errorf("document: %s: %w", path, err)
		}
		doc.Method = method
		doc.Node = method
		return doc, nil
	}
	node, err := ast.Decode(raw.Expression)
	if err != nil {
		return nil, fmt.Errorf("document: %s: %w", path, err)
	}
	doc.Node = node
	return doc, nil
}

// Analyze resolves the document's tree against its class.
func (d *Document) Analyze(opts ...analyzer.Option) error {
	return analyzer.New(opts...).Analyze(d.Node, d.Class.Class())
}

// Seed prepares an evaluation frame: the receiver is built from the class
// descriptor with its declared slots plus any seeded values, and each seeded
// local lands in the frame by name. Classes in the superclass chain are
// registered as globals so class references resolve.
func (d *Document) Seed(ctx *runtime.Context, globals *runtime.Namespace) error {
	if globals != nil {
		for spec := d.Class; spec != nil; spec = spec.Superclass {
			globals.DefineClass(&runtime.ClassValue{
				Name:              spec.Name,
				Superclass:        superclassName(spec),
				InstanceVariables: spec.InstanceVariables,
			})
		}
	}
	if d.Class != nil || len(d.receiverSlots) > 0 {
		receiver := &runtime.ObjectValue{Class: className(d.Class)}
		for _, name := range allInstanceVariables(d.Class) {
			receiver.SetSlot(name, runtime.NilValue{})
		}
		for name, seed := range d.receiverSlots {
			value, err := seedValue(seed)
			if err != nil {
				return fmt.Errorf("document: receiver slot %q: %w", name, err)
			}
			receiver.SetSlot(name, value)
		}
		ctx.SetReceiver(receiver)
	}
	for name, seed := range d.locals {
		value, err := seedValue(seed)
		if err != nil {
			return fmt.Errorf("document: local %q: %w", name, err)
		}
		ctx.DefineLocal(name, value)
	}
	return nil
}

func className(spec *ClassSpec) string {
	if spec == nil {
		return "Object"
	}
	return spec.Name
}

func superclassName(spec *ClassSpec) string {
	if spec == nil || spec.Superclass == nil {
		return ""
	}
	return spec.Superclass.Name
}

func allInstanceVariables(spec *ClassSpec) []string {
	if spec == nil {
		return nil
	}
	return append(allInstanceVariables(spec.Superclass), spec.InstanceVariables...)
}

// seedValue converts a decoded JSON scalar into a runtime value. Integral
// numbers become integers, matching the literal decoder.
func seedValue(seed any) (runtime.Value, error) {
	switch v := seed.(type) {
	case nil:
		return runtime.NilValue{}, nil
	case bool:
		return runtime.BooleanValue{Val: v}, nil
	case string:
		return runtime.StringValue{Val: v}, nil
	case float64:
		if v == float64(int64(v)) {
			return runtime.IntegerValue{Val: int64(v)}, nil
		}
		return runtime.FloatValue{Val: v}, nil
	default:
		return nil, fmt.Errorf("unsupported seed %T", seed)
	}
}
