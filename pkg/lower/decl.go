package lower

import (
	"tlog.app/go/errors"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/koopa"
)

// lowerConstDecl folds each initializer and binds the name to the result.
// Nothing is emitted.
func (s *Session) lowerConstDecl(d ast.ConstDecl) error {
	for _, def := range d.Defs {
		if len(def.Dims) > 0 {
			return unsupported(def.Pos, "constant array "+def.Name)
		}
		if def.Init.IsList {
			return errors.New("%d:%d: scalar constant %s initialized with a list", def.Pos.Line, def.Pos.Column, def.Name)
		}

		v, err := s.Fold(def.Init.Expr)
		if err != nil {
			return errors.Wrap(err, "const %s", def.Name)
		}

		if err := s.declare(def.Name, Binding{Kind: BindConst, Value: koopa.Imm(v), Pos: def.Pos}); err != nil {
			return err
		}
	}
	return nil
}

// lowerVarDecl binds local scalars to the operand of their initializer,
// or to 0 when there is none. The name is in scope only after its
// initializer has been lowered.
func (s *Session) lowerVarDecl(d ast.VarDecl) error {
	for _, def := range d.Defs {
		if len(def.Dims) > 0 {
			return unsupported(def.Pos, "array "+def.Name)
		}

		val := koopa.Imm(0)
		if def.Init != nil {
			if def.Init.IsList {
				return errors.New("%d:%d: scalar %s initialized with a list", def.Pos.Line, def.Pos.Column, def.Name)
			}
			v, err := s.LowerExpr(def.Init.Expr)
			if err != nil {
				return err
			}
			val = v
		}

		if err := s.declare(def.Name, Binding{Kind: BindVar, Value: val, Pos: def.Pos}); err != nil {
			return err
		}
	}
	return nil
}

// Fold evaluates a constant expression with 32-bit wrapping arithmetic.
// Only literals and names bound by const declarations may appear.
func (s *Session) Fold(e ast.Expr) (int32, error) {
	switch e := e.(type) {
	case ast.Number:
		return e.Value, nil

	case ast.Paren:
		return s.Fold(e.Expr)

	case ast.LVal:
		if len(e.Indices) > 0 {
			return 0, errors.Wrap(ErrNotConstant, "%d:%d: %s[...]", e.Pos.Line, e.Pos.Column, e.Name)
		}
		b := s.scope.Lookup(e.Name)
		if b == nil {
			return 0, errors.Wrap(ErrUndefined, "%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Name)
		}
		if b.Kind != BindConst {
			return 0, errors.Wrap(ErrNotConstant, "%d:%d: %s %s", e.Pos.Line, e.Pos.Column, b.Kind, e.Name)
		}
		return b.Value.Value(), nil

	case ast.Unary:
		v, err := s.Fold(e.Expr)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case ast.OpPlus:
			return v, nil
		case ast.OpNeg:
			return -v, nil
		case ast.OpNot:
			return boolInt(v == 0), nil
		}
		return 0, errors.New("unknown unary operator %v", e.Op)

	case ast.Binary:
		l, err := s.Fold(e.Left)
		if err != nil {
			return 0, err
		}
		r, err := s.Fold(e.Right)
		if err != nil {
			return 0, err
		}
		return foldBinary(e.Op, l, r, e.Pos)

	case ast.Call:
		return 0, errors.Wrap(ErrNotConstant, "%d:%d: call to %s", e.Pos.Line, e.Pos.Column, e.Name)

	case nil:
		return 0, errors.New("missing expression")

	default:
		return 0, errors.New("unexpected expression %T", e)
	}
}

func foldBinary(op ast.BinaryOp, l, r int32, pos ast.Pos) (int32, error) {
	switch op {
	case ast.OpAdd:
		return l + r, nil
	case ast.OpSub:
		return l - r, nil
	case ast.OpMul:
		return l * r, nil
	case ast.OpDiv, ast.OpMod:
		if r == 0 {
			return 0, errors.New("%d:%d: division by zero in constant expression", pos.Line, pos.Column)
		}
		// MinInt32 / -1 wraps to MinInt32 in Go.
		if op == ast.OpDiv {
			return l / r, nil
		}
		return l % r, nil
	case ast.OpLt:
		return boolInt(l < r), nil
	case ast.OpGt:
		return boolInt(l > r), nil
	case ast.OpLe:
		return boolInt(l <= r), nil
	case ast.OpGe:
		return boolInt(l >= r), nil
	case ast.OpEq:
		return boolInt(l == r), nil
	case ast.OpNe:
		return boolInt(l != r), nil
	case ast.OpAnd:
		return boolInt(l != 0 && r != 0), nil
	case ast.OpOr:
		return boolInt(l != 0 || r != 0), nil
	}
	return 0, errors.New("unknown binary operator %v", op)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
