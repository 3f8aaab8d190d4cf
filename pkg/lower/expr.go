package lower

import (
	"tlog.app/go/errors"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/koopa"
)

// binaryOpcodes maps the arithmetic and comparison operators to the single
// opcode each lowers to. && and || are expanded separately.
var binaryOpcodes = map[ast.BinaryOp]koopa.Opcode{
	ast.OpAdd: koopa.Add,
	ast.OpSub: koopa.Sub,
	ast.OpMul: koopa.Mul,
	ast.OpDiv: koopa.Div,
	ast.OpMod: koopa.Mod,
	ast.OpLt:  koopa.Lt,
	ast.OpGt:  koopa.Gt,
	ast.OpLe:  koopa.Le,
	ast.OpGe:  koopa.Ge,
	ast.OpEq:  koopa.Eq,
	ast.OpNe:  koopa.Ne,
}

// LowerExpr emits the instructions computing e and returns the operand
// holding its value. Literals and constants produce no instructions.
func (s *Session) LowerExpr(e ast.Expr) (koopa.Operand, error) {
	switch e := e.(type) {
	case ast.Number:
		return koopa.Imm(e.Value), nil

	case ast.Paren:
		return s.LowerExpr(e.Expr)

	case ast.LVal:
		return s.lowerLVal(e)

	case ast.Unary:
		return s.lowerUnary(e)

	case ast.Binary:
		return s.lowerBinary(e)

	case ast.Call:
		return koopa.Null(), unsupported(e.Pos, "call to "+e.Name)

	case nil:
		return koopa.Null(), errors.New("missing expression")

	default:
		return koopa.Null(), errors.New("unexpected expression %T", e)
	}
}

func (s *Session) lowerLVal(lv ast.LVal) (koopa.Operand, error) {
	if len(lv.Indices) > 0 {
		return koopa.Null(), unsupported(lv.Pos, "array access "+lv.Name)
	}

	b := s.scope.Lookup(lv.Name)
	if b == nil {
		return koopa.Null(), errors.Wrap(ErrUndefined, "%d:%d: %s", lv.Pos.Line, lv.Pos.Column, lv.Name)
	}
	if b.Kind == BindFunc {
		return koopa.Null(), errors.New("%d:%d: function %s used as a value", lv.Pos.Line, lv.Pos.Column, lv.Name)
	}

	return b.Value, nil
}

func (s *Session) lowerUnary(u ast.Unary) (koopa.Operand, error) {
	v, err := s.LowerExpr(u.Expr)
	if err != nil {
		return koopa.Null(), err
	}

	var instr koopa.Instruction
	switch u.Op {
	case ast.OpPlus:
		return v, nil
	case ast.OpNeg:
		instr = koopa.NewBinary(koopa.Sub, s.regs.Fresh(), koopa.Imm(0), v)
	case ast.OpNot:
		instr = koopa.NewBinary(koopa.Eq, s.regs.Fresh(), v, koopa.Imm(0))
	default:
		return koopa.Null(), errors.New("unknown unary operator %v", u.Op)
	}

	if err := s.emit(instr, u.Pos); err != nil {
		return koopa.Null(), err
	}
	return instr.Dest, nil
}

func (s *Session) lowerBinary(b ast.Binary) (koopa.Operand, error) {
	l, err := s.LowerExpr(b.Left)
	if err != nil {
		return koopa.Null(), err
	}
	r, err := s.LowerExpr(b.Right)
	if err != nil {
		return koopa.Null(), err
	}

	switch b.Op {
	case ast.OpAnd:
		return s.lowerLogical(koopa.And, l, r, b.Pos)
	case ast.OpOr:
		return s.lowerLogical(koopa.Or, l, r, b.Pos)
	}

	op, ok := binaryOpcodes[b.Op]
	if !ok {
		return koopa.Null(), errors.New("unknown binary operator %v", b.Op)
	}

	instr := koopa.NewBinary(op, s.regs.Fresh(), l, r)
	if err := s.emit(instr, b.Pos); err != nil {
		return koopa.Null(), err
	}
	return instr.Dest, nil
}

// lowerLogical combines two already evaluated operands. Both sides are
// always evaluated; there is no short circuit.
//
//	t1 = ne l, 0
//	t2 = ne r, 0
//	dest = and|or t1, t2
func (s *Session) lowerLogical(op koopa.Opcode, l, r koopa.Operand, pos ast.Pos) (koopa.Operand, error) {
	tmp := s.regs.FreshN(2)

	t1 := koopa.NewBinary(koopa.Ne, tmp[0], l, koopa.Imm(0))
	if err := s.emit(t1, pos); err != nil {
		return koopa.Null(), err
	}
	t2 := koopa.NewBinary(koopa.Ne, tmp[1], r, koopa.Imm(0))
	if err := s.emit(t2, pos); err != nil {
		return koopa.Null(), err
	}

	instr := koopa.NewBinary(op, s.regs.Fresh(), t1.Dest, t2.Dest)
	if err := s.emit(instr, pos); err != nil {
		return koopa.Null(), err
	}
	return instr.Dest, nil
}
