package lower

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/koopa"
)

// lowerItems lowers block items in order, dropping everything after the
// function's first ret.
func (s *Session) lowerItems(ctx context.Context, items []ast.BlockItem) error {
	for i, item := range items {
		if s.fn.terminated {
			s.fn.skipped += len(items) - i
			tlog.V("lower").Printw("unreachable items dropped", "func", s.fn.name, "count", len(items)-i)
			return nil
		}

		var err error
		switch item := item.(type) {
		case ast.ConstDecl:
			err = s.lowerConstDecl(item)
		case ast.VarDecl:
			err = s.lowerVarDecl(item)
		case ast.Stmt:
			err = s.LowerStmt(ctx, item)
		default:
			err = errors.New("unexpected block item %T", item)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// LowerStmt lowers one statement.
func (s *Session) LowerStmt(ctx context.Context, st ast.Stmt) error {
	if s.fn == nil {
		return errors.New("%d:%d: statement outside of a function", st.Position().Line, st.Position().Column)
	}

	switch st := st.(type) {
	case ast.Return:
		if s.fn.ret == ast.TypeVoid && st.Expr != nil {
			return errors.New("%d:%d: void function %s returns a value", st.Pos.Line, st.Pos.Column, s.fn.name)
		}

		val := koopa.Null()
		if st.Expr != nil {
			v, err := s.LowerExpr(st.Expr)
			if err != nil {
				return err
			}
			val = v
		}
		if err := s.emit(koopa.NewRet(val), st.Pos); err != nil {
			return err
		}
		s.fn.terminated = true
		return nil

	case ast.Assign:
		return s.lowerAssign(st)

	case ast.ExprStmt:
		if st.Expr == nil {
			return nil
		}
		// Evaluated only for its instructions; the value is dropped.
		_, err := s.LowerExpr(st.Expr)
		return err

	case ast.Block:
		if err := s.emit(koopa.NewMarker(koopa.Info, s.labels.Fresh()+":"), st.Pos); err != nil {
			return err
		}
		s.pushScope()
		defer s.popScope()
		return s.lowerItems(ctx, st.Items)

	case ast.If:
		return unsupported(st.Pos, "if statement")
	case ast.While:
		return unsupported(st.Pos, "while statement")
	case ast.Break:
		return unsupported(st.Pos, "break statement")
	case ast.Continue:
		return unsupported(st.Pos, "continue statement")

	default:
		return errors.New("unexpected statement %T", st)
	}
}

func (s *Session) lowerAssign(st ast.Assign) error {
	target := st.Target
	if len(target.Indices) > 0 {
		return unsupported(target.Pos, "array element assignment "+target.Name)
	}

	b := s.scope.Lookup(target.Name)
	if b == nil {
		return errors.Wrap(ErrUndefined, "%d:%d: %s", target.Pos.Line, target.Pos.Column, target.Name)
	}
	switch b.Kind {
	case BindVar, BindParam:
	default:
		return errors.New("%d:%d: cannot assign to %s %s", target.Pos.Line, target.Pos.Column, b.Kind, target.Name)
	}

	v, err := s.LowerExpr(st.Value)
	if err != nil {
		return err
	}
	b.Value = v

	tlog.V("lower").Printw("rebind", "name", target.Name, "value", v.String())

	return nil
}
