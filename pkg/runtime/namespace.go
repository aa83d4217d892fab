package runtime

import "sort"

// Namespace is the host's class and global registry, keyed by name. Class
// references and implicit-global reads resolve against it. Sessions are
// single-threaded, so access is unsynchronized.
type Namespace struct {
	entries map[string]Value
}

func NewNamespace() *Namespace {
	return &Namespace{entries: make(map[string]Value)}
}

// Define inserts or replaces a named global.
func (n *Namespace) Define(name string, value Value) {
	n.entries[name] = value
}

// DefineClass registers a class under its own name.
func (n *Namespace) DefineClass(class *ClassValue) {
	n.entries[class.Name] = class
}

// Lookup resolves a named global.
func (n *Namespace) Lookup(name string) (Value, bool) {
	value, ok := n.entries[name]
	return value, ok
}

// Names lists the registered names in sorted order.
func (n *Namespace) Names() []string {
	names := make([]string, 0, len(n.entries))
	for name := range n.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
