package lower

import (
	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/koopa"
)

// BindingKind says what a name refers to.
type BindingKind int

const (
	BindConst BindingKind = iota // compile-time constant, always an Imm
	BindVar                      // local scalar variable
	BindParam                    // function parameter
	BindFunc                     // function name
)

func (k BindingKind) String() string {
	switch k {
	case BindConst:
		return "constant"
	case BindVar:
		return "variable"
	case BindParam:
		return "parameter"
	case BindFunc:
		return "function"
	}
	return "?"
}

// Binding is the current value of a name.
// Variables are rebound on assignment; without control flow the most
// recent operand is exactly the variable's value.
type Binding struct {
	Kind  BindingKind
	Value koopa.Operand
	Pos   ast.Pos
}

// Scope is one lexical level: the globals, a function's parameters and
// outermost block, or a nested block.
type Scope struct {
	parent *Scope
	decls  map[string]*Binding // Lazily allocated.
}

// NewScope creates a new, empty scope inside parent, which may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Parent returns s's parent scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Len returns the number of names declared in s.
func (s *Scope) Len() int { return len(s.decls) }

// Insert declares name in s. It returns the existing binding and false if
// name is already declared in this scope; outer declarations are shadowed.
func (s *Scope) Insert(name string, b Binding) (*Binding, bool) {
	if prev, ok := s.decls[name]; ok {
		return prev, false
	}
	if s.decls == nil {
		s.decls = make(map[string]*Binding)
	}
	s.decls[name] = &b
	return s.decls[name], true
}

// Lookup finds the innermost binding for name, walking outwards.
func (s *Scope) Lookup(name string) *Binding {
	for ; s != nil; s = s.parent {
		if b, ok := s.decls[name]; ok {
			return b
		}
	}
	return nil
}
