package parser

import (
	"fmt"
	"strconv"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/lexer"
)

// binaryOps maps operator tokens to AST operators.
var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.TokenOr:      ast.OpOr,
	lexer.TokenAnd:     ast.OpAnd,
	lexer.TokenEq:      ast.OpEq,
	lexer.TokenNe:      ast.OpNe,
	lexer.TokenLt:      ast.OpLt,
	lexer.TokenGt:      ast.OpGt,
	lexer.TokenLe:      ast.OpLe,
	lexer.TokenGe:      ast.OpGe,
	lexer.TokenPlus:    ast.OpAdd,
	lexer.TokenMinus:   ast.OpSub,
	lexer.TokenStar:    ast.OpMul,
	lexer.TokenSlash:   ast.OpDiv,
	lexer.TokenPercent: ast.OpMod,
}

// ParseExpression parses a single Exp.
func (p *Parser) ParseExpression() ast.Expr {
	return p.parseExpression()
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parseBinary(ast.PrecLOr)
}

// parseBinary parses one rung of LOrExp .. MulExp. Every rung is
// left-associative, so a loop at each level is enough.
func (p *Parser) parseBinary(prec int) ast.Expr {
	if prec > ast.PrecMul {
		return p.parseUnary()
	}

	left := p.parseBinary(prec + 1)
	if left == nil {
		return nil
	}

	for {
		op, ok := binaryOps[p.curToken.Type]
		if !ok || op.Precedence() != prec {
			return left
		}
		p.nextToken()

		right := p.parseBinary(prec + 1)
		if right == nil {
			return nil
		}
		left = ast.Binary{Pos: left.Position(), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.pos()
	var op ast.UnaryOp
	switch p.curToken.Type {
	case lexer.TokenPlus:
		op = ast.OpPlus
	case lexer.TokenMinus:
		op = ast.OpNeg
	case lexer.TokenNot:
		op = ast.OpNot
	default:
		return p.parsePrimary()
	}
	p.nextToken()

	operand := p.parseUnary()
	if operand == nil {
		return nil
	}
	return ast.Unary{Pos: pos, Op: op, Expr: operand}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos()

	switch p.curToken.Type {
	case lexer.TokenInt:
		return p.parseNumber()

	case lexer.TokenIdent:
		if p.peekTokenIs(lexer.TokenLParen) {
			return p.parseCall()
		}
		lval := ast.LVal{Pos: pos, Name: p.curToken.Literal}
		p.nextToken()
		for p.curTokenIs(lexer.TokenLBracket) {
			p.nextToken()
			idx := p.parseExpression()
			if idx == nil || !p.expect(lexer.TokenRBracket) {
				return nil
			}
			lval.Indices = append(lval.Indices, idx)
		}
		return lval

	case lexer.TokenLParen:
		p.nextToken()
		inner := p.parseExpression()
		if inner == nil || !p.expect(lexer.TokenRParen) {
			return nil
		}
		return ast.Paren{Pos: pos, Expr: inner}

	default:
		p.addError(fmt.Sprintf("unexpected token %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseCall() ast.Expr {
	call := ast.Call{Pos: p.pos(), Name: p.curToken.Literal}
	p.nextToken() // consume name
	p.nextToken() // consume '('

	if !p.curTokenIs(lexer.TokenRParen) {
		for {
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
			if !p.curTokenIs(lexer.TokenComma) {
				break
			}
			p.nextToken()
		}
	}
	if !p.expect(lexer.TokenRParen) {
		return nil
	}
	return call
}

// parseNumber converts a decimal, octal or hex literal. Literals up to
// 0xffffffff are accepted and wrap to int32, so 2147483648 stays
// representable as the operand of unary minus.
func (p *Parser) parseNumber() ast.Expr {
	pos := p.pos()
	lit := p.curToken.Literal
	v, err := strconv.ParseUint(lit, 0, 32)
	if err != nil {
		p.addError(fmt.Sprintf("invalid integer literal %q", lit))
		p.nextToken()
		return nil
	}
	p.nextToken()
	return ast.Number{Pos: pos, Value: int32(uint32(v))}
}
