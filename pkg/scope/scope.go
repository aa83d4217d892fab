package scope

// Scope is one node of the static scope chain: the names declared directly in
// one method or block, linked to the lexically enclosing scope. Scopes are
// built during analysis and read-only afterward.
type Scope interface {
	// Lookup resolves a name against this scope's own bindings (arguments,
	// then temporaries, then instance variables for a method scope) and on a
	// miss recurses into the outer scope. The second result reports whether
	// any enclosing scope bound the name.
	Lookup(name string) (Binding, bool)
	// OuterScope is the lexically enclosing scope, nil for a method scope.
	OuterScope() Scope
	// Method is the method scope terminating this scope's outer chain.
	Method() *MethodScope
	// DefineTemporary binds a declared temporary in this scope.
	DefineTemporary(name string) *TemporaryBinding
}

// MethodScope is the outermost scope of one analyzed method. Beyond arguments
// and temporaries it owns the receiver class's instance-variable bindings, the
// distinct ordered list of unknown names referenced under the permissive
// policy, and the non-local-return flag.
type MethodScope struct {
	selector string

	arguments    []*ArgumentBinding
	temporaries  []*TemporaryBinding
	instanceVars []*InstanceVariableBinding

	unknowns     []*UnknownBinding
	unknownIndex map[string]*UnknownBinding

	nonLocalReturn bool
}

func NewMethodScope(selector string) *MethodScope {
	return &MethodScope{selector: selector, unknownIndex: map[string]*UnknownBinding{}}
}

func (s *MethodScope) Selector() string { return s.selector }

func (s *MethodScope) OuterScope() Scope { return nil }

func (s *MethodScope) Method() *MethodScope { return s }

func (s *MethodScope) Lookup(name string) (Binding, bool) {
	for _, b := range s.arguments {
		if b.Name() == name {
			return b, true
		}
	}
	for _, b := range s.temporaries {
		if b.Name() == name {
			return b, true
		}
	}
	for _, b := range s.instanceVars {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

func (s *MethodScope) DefineArgument(name string) *ArgumentBinding {
	b := NewArgumentBinding(name, s)
	s.arguments = append(s.arguments, b)
	return b
}

func (s *MethodScope) DefineTemporary(name string) *TemporaryBinding {
	b := NewTemporaryBinding(name, s)
	s.temporaries = append(s.temporaries, b)
	return b
}

func (s *MethodScope) DefineInstanceVariable(name string) *InstanceVariableBinding {
	b := NewInstanceVariableBinding(name, s)
	s.instanceVars = append(s.instanceVars, b)
	return b
}

// RecordUnknown registers a permissively resolved name, once per distinct
// name: repeated references share the first binding.
func (s *MethodScope) RecordUnknown(name string) *UnknownBinding {
	if b, ok := s.unknownIndex[name]; ok {
		return b
	}
	b := NewUnknownBinding(name, s)
	s.unknowns = append(s.unknowns, b)
	s.unknownIndex[name] = b
	return b
}

// UnknownVariables lists the recorded unknown names in first-reference order.
func (s *MethodScope) UnknownVariables() []string {
	names := make([]string, len(s.unknowns))
	for i, b := range s.unknowns {
		names[i] = b.Name()
	}
	return names
}

func (s *MethodScope) MarkNonLocalReturn() { s.nonLocalReturn = true }

func (s *MethodScope) HasNonLocalReturn() bool { return s.nonLocalReturn }

// Arguments returns the method's argument bindings in declaration order.
func (s *MethodScope) Arguments() []*ArgumentBinding { return s.arguments }

// Temporaries returns the method-level temporary bindings in declaration order.
func (s *MethodScope) Temporaries() []*TemporaryBinding { return s.temporaries }

// InstanceVariables returns the receiver's slot bindings, inherited first.
func (s *MethodScope) InstanceVariables() []*InstanceVariableBinding { return s.instanceVars }

// BlockScope is the scope of one block literal. Its outer chain always
// terminates at a MethodScope.
type BlockScope struct {
	outer Scope

	arguments   []*ArgumentBinding
	temporaries []*TemporaryBinding
}

func NewBlockScope(outer Scope) *BlockScope {
	if outer == nil {
		panic("scope: block scope requires an enclosing scope")
	}
	return &BlockScope{outer: outer}
}

func (s *BlockScope) OuterScope() Scope { return s.outer }

func (s *BlockScope) Method() *MethodScope { return s.outer.Method() }

func (s *BlockScope) Lookup(name string) (Binding, bool) {
	for _, b := range s.arguments {
		if b.Name() == name {
			return b, true
		}
	}
	for _, b := range s.temporaries {
		if b.Name() == name {
			return b, true
		}
	}
	return s.outer.Lookup(name)
}

func (s *BlockScope) DefineArgument(name string) *ArgumentBinding {
	b := NewArgumentBinding(name, s)
	s.arguments = append(s.arguments, b)
	return b
}

func (s *BlockScope) DefineTemporary(name string) *TemporaryBinding {
	b := NewTemporaryBinding(name, s)
	s.temporaries = append(s.temporaries, b)
	return b
}

// Arguments returns the block's argument bindings in declaration order.
func (s *BlockScope) Arguments() []*ArgumentBinding { return s.arguments }

// Temporaries returns the block's temporary bindings in declaration order.
func (s *BlockScope) Temporaries() []*TemporaryBinding { return s.temporaries }
