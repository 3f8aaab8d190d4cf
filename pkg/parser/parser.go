// Package parser implements a recursive descent parser for SysY
package parser

import (
	"fmt"
	"strings"

	"tlog.app/go/errors"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/lexer"
)

// ErrSyntax is wrapped by Parse when the source does not match the grammar.
var ErrSyntax = errors.New("syntax error")

// Parser parses SysY source code into an AST
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a whole compilation unit from src.
func Parse(src string) (*ast.CompUnit, error) {
	p := New(lexer.New(src))
	cu := p.ParseCompUnit()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errors.Wrap(ErrSyntax, "%s", strings.Join(errs, "; "))
	}
	return cu, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.curToken.Type))
	return false
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{Line: p.curToken.Line, Column: p.curToken.Column}
}

// synchronize skips to the end of the current statement after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.TokenEOF) {
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
			return
		}
		if p.curTokenIs(lexer.TokenRBrace) {
			return
		}
		p.nextToken()
	}
}

// ParseCompUnit parses declarations and function definitions until EOF.
func (p *Parser) ParseCompUnit() *ast.CompUnit {
	cu := &ast.CompUnit{Pos: p.pos()}
	for !p.curTokenIs(lexer.TokenEOF) {
		before := p.curToken
		def := p.ParseDefinition()
		if def != nil {
			cu.Items = append(cu.Items, def)
		}
		if p.curToken == before {
			// no progress: drop the offending token
			p.nextToken()
		}
	}
	return cu
}

// ParseDefinition parses a top-level declaration or function definition.
func (p *Parser) ParseDefinition() ast.Definition {
	if p.curTokenIs(lexer.TokenConst) {
		return p.parseConstDecl()
	}

	start := p.pos()
	typ, ok := p.parseType(true)
	if !ok {
		return nil
	}

	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected identifier, got %s", p.curToken.Type))
		p.synchronize()
		return nil
	}

	if p.peekTokenIs(lexer.TokenLParen) {
		return p.parseFuncDef(start, typ)
	}

	if typ == ast.TypeVoid {
		p.addError("variables cannot have type void")
		p.synchronize()
		return nil
	}
	decl := p.parseVarDeclRest(start, typ)
	if decl == nil {
		return nil
	}
	return *decl
}

func (p *Parser) parseType(allowVoid bool) (ast.BasicType, bool) {
	switch {
	case p.curTokenIs(lexer.TokenInt_):
		p.nextToken()
		return ast.TypeInt, true
	case allowVoid && p.curTokenIs(lexer.TokenVoid):
		p.nextToken()
		return ast.TypeVoid, true
	}
	p.addError(fmt.Sprintf("expected type specifier, got %s", p.curToken.Type))
	p.synchronize()
	return 0, false
}

func (p *Parser) parseFuncDef(start ast.Pos, typ ast.BasicType) ast.Definition {
	fn := ast.FuncDef{
		Pos:  start,
		Type: ast.FuncType{Pos: start, Type: typ},
		Name: p.curToken.Literal,
	}
	p.nextToken() // consume name
	p.nextToken() // consume '('

	if !p.curTokenIs(lexer.TokenRParen) {
		for {
			param, ok := p.parseFuncFParam()
			if !ok {
				return nil
			}
			fn.Params = append(fn.Params, param)
			if !p.curTokenIs(lexer.TokenComma) {
				break
			}
			p.nextToken()
		}
	}
	if !p.expect(lexer.TokenRParen) {
		return nil
	}

	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
		return nil
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseFuncFParam() (ast.FuncFParam, bool) {
	param := ast.FuncFParam{Pos: p.pos()}
	typ, ok := p.parseType(false)
	if !ok {
		return param, false
	}
	param.Type = typ

	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected parameter name, got %s", p.curToken.Type))
		return param, false
	}
	param.Name = p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(lexer.TokenLBracket) {
		p.nextToken()
		if !p.expect(lexer.TokenRBracket) {
			return param, false
		}
		param.IsArray = true
		param.Dims = p.parseDims()
	}
	return param, true
}

// parseDims parses {"[" ConstExp "]"}.
func (p *Parser) parseDims() []ast.Expr {
	var dims []ast.Expr
	for p.curTokenIs(lexer.TokenLBracket) {
		p.nextToken()
		e := p.parseExpression()
		if e == nil || !p.expect(lexer.TokenRBracket) {
			return dims
		}
		dims = append(dims, e)
	}
	return dims
}

func (p *Parser) parseConstDecl() ast.Decl {
	decl := ast.ConstDecl{Pos: p.pos()}
	p.nextToken() // consume 'const'

	typ, ok := p.parseType(false)
	if !ok {
		return nil
	}
	decl.Type = typ

	for {
		def := ast.ConstDef{Pos: p.pos()}
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(fmt.Sprintf("expected identifier, got %s", p.curToken.Type))
			p.synchronize()
			return nil
		}
		def.Name = p.curToken.Literal
		p.nextToken()
		def.Dims = p.parseDims()

		if !p.expect(lexer.TokenAssign) {
			p.synchronize()
			return nil
		}
		init, ok := p.parseInitVal()
		if !ok {
			p.synchronize()
			return nil
		}
		def.Init = init
		decl.Defs = append(decl.Defs, def)

		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}

	if !p.expect(lexer.TokenSemicolon) {
		p.synchronize()
		return nil
	}
	return decl
}

// parseVarDeclRest parses the definitions of a var declaration whose type
// has already been consumed.
func (p *Parser) parseVarDeclRest(start ast.Pos, typ ast.BasicType) *ast.VarDecl {
	decl := &ast.VarDecl{Pos: start, Type: typ}

	for {
		def := ast.VarDef{Pos: p.pos()}
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(fmt.Sprintf("expected identifier, got %s", p.curToken.Type))
			p.synchronize()
			return nil
		}
		def.Name = p.curToken.Literal
		p.nextToken()
		def.Dims = p.parseDims()

		if p.curTokenIs(lexer.TokenAssign) {
			p.nextToken()
			init, ok := p.parseInitVal()
			if !ok {
				p.synchronize()
				return nil
			}
			def.Init = &init
		}
		decl.Defs = append(decl.Defs, def)

		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}

	if !p.expect(lexer.TokenSemicolon) {
		p.synchronize()
		return nil
	}
	return decl
}

func (p *Parser) parseInitVal() (ast.InitVal, bool) {
	init := ast.InitVal{Pos: p.pos()}
	if !p.curTokenIs(lexer.TokenLBrace) {
		init.Expr = p.parseExpression()
		return init, init.Expr != nil
	}

	init.IsList = true
	p.nextToken() // consume '{'
	if p.curTokenIs(lexer.TokenRBrace) {
		p.nextToken()
		return init, true
	}
	for {
		elem, ok := p.parseInitVal()
		if !ok {
			return init, false
		}
		init.List = append(init.List, elem)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return init, p.expect(lexer.TokenRBrace)
}

func (p *Parser) parseBlock() ast.Block {
	block := ast.Block{Pos: p.pos()}

	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		before := p.curToken
		item := p.parseBlockItem()
		if item != nil {
			block.Items = append(block.Items, item)
		}
		if p.curToken == before {
			p.nextToken()
		}
	}

	p.expect(lexer.TokenRBrace)

	return block
}

func (p *Parser) parseBlockItem() ast.BlockItem {
	switch p.curToken.Type {
	case lexer.TokenConst:
		decl := p.parseConstDecl()
		if decl == nil {
			return nil
		}
		return decl
	case lexer.TokenInt_:
		start := p.pos()
		p.nextToken()
		decl := p.parseVarDeclRest(start, ast.TypeInt)
		if decl == nil {
			return nil
		}
		return *decl
	default:
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		return stmt
	}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile:
		return p.parseWhileStatement()
	case lexer.TokenBreak, lexer.TokenContinue:
		pos := p.pos()
		isBreak := p.curTokenIs(lexer.TokenBreak)
		p.nextToken()
		if !p.expect(lexer.TokenSemicolon) {
			p.synchronize()
			return nil
		}
		if isBreak {
			return ast.Break{Pos: pos}
		}
		return ast.Continue{Pos: pos}
	case lexer.TokenSemicolon:
		pos := p.pos()
		p.nextToken()
		return ast.ExprStmt{Pos: pos}
	default:
		return p.parseExprOrAssign()
	}
}

func (p *Parser) parseReturnStatement() ast.Stmt {
	ret := ast.Return{Pos: p.pos()}
	p.nextToken() // consume 'return'

	if !p.curTokenIs(lexer.TokenSemicolon) {
		ret.Expr = p.parseExpression()
		if ret.Expr == nil {
			p.synchronize()
			return nil
		}
	}

	if !p.expect(lexer.TokenSemicolon) {
		p.synchronize()
		return nil
	}

	return ret
}

func (p *Parser) parseIfStatement() ast.Stmt {
	stmt := ast.If{Pos: p.pos()}
	p.nextToken() // consume 'if'

	if !p.expect(lexer.TokenLParen) {
		p.synchronize()
		return nil
	}
	stmt.Cond = p.parseExpression()
	if stmt.Cond == nil || !p.expect(lexer.TokenRParen) {
		p.synchronize()
		return nil
	}

	stmt.Then = p.parseStatement()
	if stmt.Then == nil {
		return nil
	}
	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken()
		stmt.Else = p.parseStatement()
		if stmt.Else == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	stmt := ast.While{Pos: p.pos()}
	p.nextToken() // consume 'while'

	if !p.expect(lexer.TokenLParen) {
		p.synchronize()
		return nil
	}
	stmt.Cond = p.parseExpression()
	if stmt.Cond == nil || !p.expect(lexer.TokenRParen) {
		p.synchronize()
		return nil
	}

	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseExprOrAssign parses "LVal = Exp ;" or "Exp ;". Both start with an
// expression; an '=' after a bare LVal turns it into an assignment.
func (p *Parser) parseExprOrAssign() ast.Stmt {
	pos := p.pos()
	e := p.parseExpression()
	if e == nil {
		p.synchronize()
		return nil
	}

	if p.curTokenIs(lexer.TokenAssign) {
		target, ok := e.(ast.LVal)
		if !ok {
			p.addError("left side of assignment is not an lvalue")
			p.synchronize()
			return nil
		}
		p.nextToken()
		value := p.parseExpression()
		if value == nil || !p.expect(lexer.TokenSemicolon) {
			p.synchronize()
			return nil
		}
		return ast.Assign{Pos: pos, Target: target, Value: value}
	}

	if !p.expect(lexer.TokenSemicolon) {
		p.synchronize()
		return nil
	}
	return ast.ExprStmt{Pos: pos, Expr: e}
}
