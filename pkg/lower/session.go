// Package lower translates a SysY AST into the three-address IR of
// package koopa.
//
// A Session walks the tree depth-first, left to right, and emits each
// instruction to its Emitter as soon as it is produced. All sequencing
// state (register numbers, block labels, scopes) lives in the Session, so
// independent compilations never share counters.
package lower

import (
	"context"
	"io"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/koopa"
)

var (
	// ErrUnsupported is returned for constructs that need opcodes the
	// printer does not lower yet (branches, calls, memory, data).
	ErrUnsupported = errors.New("unsupported construct")

	// ErrUndefined is returned when a name has no visible binding.
	ErrUndefined = errors.New("undefined name")

	// ErrNotConstant is returned when a const initializer or array
	// dimension cannot be folded at compile time.
	ErrNotConstant = errors.New("not a constant expression")
)

// Emitter receives instructions in program order. *koopa.Printer is the
// usual implementation.
type Emitter interface {
	Emit(koopa.Instruction) error
}

// Session holds the state of one compilation.
type Session struct {
	out    Emitter
	regs   *RegAllocator
	labels *LabelAllocator

	global *Scope
	scope  *Scope // innermost

	fn *funcState // nil outside function bodies

	emitted int
}

type funcState struct {
	name       string
	ret        ast.BasicType
	terminated bool // a ret has been emitted; the rest of the body is dead
	skipped    int  // block items dropped after the terminator
}

// NewSession creates a session emitting to out.
func NewSession(out Emitter) *Session {
	global := NewScope(nil)
	for _, name := range koopa.RuntimeFuncs {
		global.Insert(name, Binding{Kind: BindFunc})
	}

	return &Session{
		out:    out,
		regs:   NewRegAllocator(),
		labels: NewLabelAllocator(),
		global: global,
		scope:  global,
	}
}

// Lower compiles cu and writes the IR text to w. The runtime preamble is
// always written, even for a unit without functions.
func Lower(ctx context.Context, cu *ast.CompUnit, w io.Writer) error {
	p := koopa.NewPrinter(w)
	if err := p.WritePreamble(); err != nil {
		return err
	}
	return NewSession(p).LowerCompUnit(ctx, cu)
}

// Regs returns the session's register allocator.
func (s *Session) Regs() *RegAllocator { return s.regs }

// Labels returns the session's block label allocator.
func (s *Session) Labels() *LabelAllocator { return s.labels }

// Global returns the module scope.
func (s *Session) Global() *Scope { return s.global }

// Emitted returns the number of instructions emitted so far.
func (s *Session) Emitted() int { return s.emitted }

func (s *Session) emit(instr koopa.Instruction, pos ast.Pos) error {
	if err := s.out.Emit(instr.At(koopa.Pos{Line: pos.Line, Column: pos.Column})); err != nil {
		return err
	}
	s.emitted++
	return nil
}

func (s *Session) pushScope() {
	s.scope = NewScope(s.scope)
}

func (s *Session) popScope() {
	s.scope = s.scope.Parent()
}

func (s *Session) declare(name string, b Binding) error {
	prev, ok := s.scope.Insert(name, b)
	switch {
	case ok:
	case prev.Pos == (ast.Pos{}):
		return errors.New("%d:%d: %s redefined (runtime library %s)", b.Pos.Line, b.Pos.Column, name, prev.Kind)
	default:
		return errors.New("%d:%d: %s redefined (previous %s at %d:%d)",
			b.Pos.Line, b.Pos.Column, name, prev.Kind, prev.Pos.Line, prev.Pos.Column)
	}
	return nil
}

func unsupported(pos ast.Pos, what string) error {
	return errors.Wrap(ErrUnsupported, "%d:%d: %s", pos.Line, pos.Column, what)
}

// LowerCompUnit lowers every top-level definition in source order.
func (s *Session) LowerCompUnit(ctx context.Context, cu *ast.CompUnit) error {
	for _, def := range cu.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch def := def.(type) {
		case ast.FuncDef:
			if err := s.LowerFuncDef(ctx, def); err != nil {
				return errors.Wrap(err, "lower func %s", def.Name)
			}
		case ast.ConstDecl:
			if err := s.lowerConstDecl(def); err != nil {
				return err
			}
		case ast.VarDecl:
			if len(def.Defs) > 0 {
				d := def.Defs[0]
				return unsupported(d.Pos, "global variable "+d.Name)
			}
		default:
			return errors.New("unexpected top-level node %T", def)
		}
	}
	return nil
}

// LowerFuncDef emits one function: its signature, the implicit entry
// block, the body, and a closing brace.
func (s *Session) LowerFuncDef(ctx context.Context, fn ast.FuncDef) error {
	if err := s.declare(fn.Name, Binding{Kind: BindFunc, Pos: fn.Pos}); err != nil {
		return err
	}

	startReg, startLabel, startInstr := s.regs.NextRegID(), s.labels.NextLabelID(), s.emitted

	s.pushScope()
	defer s.popScope()

	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.IsArray {
			return unsupported(p.Pos, "array parameter "+p.Name)
		}
		v := ParamVar(p.Name)
		if err := s.declare(p.Name, Binding{Kind: BindParam, Value: v, Pos: p.Pos}); err != nil {
			return err
		}
		params = append(params, v.String()+": i32")
	}

	sig := "fun @" + fn.Name + "(" + strings.Join(params, ", ") + ")"
	if fn.Type.Type == ast.TypeInt {
		sig += ": i32"
	}
	sig += " {"

	s.fn = &funcState{name: fn.Name, ret: fn.Type.Type}
	defer func() { s.fn = nil }()

	if err := s.emit(koopa.NewMarker(koopa.FunctionBegin, sig), fn.Pos); err != nil {
		return err
	}
	if err := s.emit(koopa.NewMarker(koopa.Info, "%entry:"), fn.Body.Pos); err != nil {
		return err
	}

	// The body shares the parameters' scope.
	if err := s.lowerItems(ctx, fn.Body.Items); err != nil {
		return err
	}

	if !s.fn.terminated {
		ret := koopa.NewRet(koopa.Null())
		if fn.Type.Type == ast.TypeInt {
			ret = koopa.NewRet(koopa.Imm(0))
		}
		if err := s.emit(ret, fn.Body.Pos); err != nil {
			return err
		}
	}

	if err := s.emit(koopa.NewMarker(koopa.FunctionEnd, "}"), fn.Body.Pos); err != nil {
		return err
	}

	tlog.V("lower").Printw("lowered function",
		"name", fn.Name,
		"params", len(fn.Params),
		"regs", s.regs.NextRegID()-startReg,
		"blocks", s.labels.NextLabelID()-startLabel,
		"instrs", s.emitted-startInstr,
		"dead_items", s.fn.skipped)

	return nil
}
