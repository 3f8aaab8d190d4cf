// Package ast defines the abstract syntax tree for SysY programs.
//
// The node set is closed: every kind implements an unexported marker method,
// and passes over the tree use exhaustive type switches. The tree is strictly
// owned top-down; nodes are never shared between parents.
package ast

// Pos is a source position. Nodes embed it so that Position is promoted.
// Pos has no String method: it would be promoted to every node.
type Pos struct {
	Line   int
	Column int
}

// Position returns the node's source position.
func (p Pos) Position() Pos { return p }

// Node is the base interface for all AST nodes
type Node interface {
	Position() Pos
	implNode()
}

// Expr is the interface for expression nodes
type Expr interface {
	Node
	implExpr()
}

// Stmt is the interface for statement nodes
type Stmt interface {
	BlockItem
	implStmt()
}

// BlockItem is a declaration or a statement inside a block.
type BlockItem interface {
	Node
	implBlockItem()
}

// Decl is a const or var declaration.
type Decl interface {
	BlockItem
	Definition
	implDecl()
}

// Definition is a top-level item of a compilation unit.
type Definition interface {
	Node
	implDefinition()
}

// BasicType is the SysY base type.
type BasicType int

const (
	TypeInt BasicType = iota
	TypeVoid
)

func (t BasicType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeVoid:
		return "void"
	}
	return "?"
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpAnd // &&
	OpOr  // ||
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/", "%", "<", ">", "<=", ">=", "==", "!=", "&&", "||"}
	if op >= 0 && int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Precedence levels of the expression grammar, loosest first.
const (
	PrecLOr = iota + 1
	PrecLAnd
	PrecEq
	PrecRel
	PrecAdd
	PrecMul
)

// Precedence returns the grammar level (LOrExp .. MulExp) of op.
func (op BinaryOp) Precedence() int {
	switch op {
	case OpOr:
		return PrecLOr
	case OpAnd:
		return PrecLAnd
	case OpEq, OpNe:
		return PrecEq
	case OpLt, OpGt, OpLe, OpGe:
		return PrecRel
	case OpAdd, OpSub:
		return PrecAdd
	case OpMul, OpDiv, OpMod:
		return PrecMul
	}
	return 0
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	OpPlus UnaryOp = iota // +
	OpNeg                 // -
	OpNot                 // !
)

func (op UnaryOp) String() string {
	names := []string{"+", "-", "!"}
	if op >= 0 && int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// --- Expressions ---

// Number is a decimal, octal or hex integer literal.
type Number struct {
	Pos
	Value int32
}

// LVal is a reference to a named value, optionally indexed.
type LVal struct {
	Pos
	Name    string
	Indices []Expr
}

// Paren is a parenthesized primary expression.
type Paren struct {
	Pos
	Expr Expr
}

// Unary represents a unary expression
type Unary struct {
	Pos
	Op   UnaryOp
	Expr Expr
}

// Binary is one rung of the LOr..Mul ladder: Left Op Right.
type Binary struct {
	Pos
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// FuncRParams are the actual arguments of a call.
type FuncRParams []Expr

// Call represents a function call
type Call struct {
	Pos
	Name string
	Args FuncRParams
}

// --- Statements ---

// Return represents a return statement
type Return struct {
	Pos
	Expr Expr // nil for bare return
}

// Assign stores Value into Target.
type Assign struct {
	Pos
	Target LVal
	Value  Expr
}

// ExprStmt evaluates an expression for its effects. Expr is nil for ";".
type ExprStmt struct {
	Pos
	Expr Expr
}

// Block represents a compound statement (block)
type Block struct {
	Pos
	Items []BlockItem
}

// If is a conditional statement. Else is nil when absent.
type If struct {
	Pos
	Cond Expr
	Then Stmt
	Else Stmt
}

// While is a loop statement.
type While struct {
	Pos
	Cond Expr
	Body Stmt
}

type Break struct{ Pos }

type Continue struct{ Pos }

// --- Declarations ---

// InitVal is either a single expression or a brace-enclosed list.
type InitVal struct {
	Pos
	Expr   Expr
	List   []InitVal
	IsList bool
}

// ConstDef binds Name to a compile-time value.
type ConstDef struct {
	Pos
	Name string
	Dims []Expr
	Init InitVal
}

// ConstDecl is "const int a = 1, b = 2;".
type ConstDecl struct {
	Pos
	Type BasicType
	Defs []ConstDef
}

// VarDef declares a variable. Init is nil when there is no initializer.
type VarDef struct {
	Pos
	Name string
	Dims []Expr
	Init *InitVal
}

// VarDecl is "int a, b = 2;".
type VarDecl struct {
	Pos
	Type BasicType
	Defs []VarDef
}

// --- Functions ---

// FuncType is the declared return type of a function.
type FuncType struct {
	Pos
	Type BasicType
}

// FuncFParam is a formal parameter. Array parameters carry IsArray and the
// dimensions after the first empty one.
type FuncFParam struct {
	Pos
	Type    BasicType
	Name    string
	IsArray bool
	Dims    []Expr
}

// FuncFParams is the formal parameter list.
type FuncFParams []FuncFParam

// FuncDef represents a function definition
type FuncDef struct {
	Pos
	Type   FuncType
	Name   string
	Params FuncFParams
	Body   Block
}

// CompUnit is a whole source file.
type CompUnit struct {
	Pos
	Items []Definition
}

// Marker methods for interface implementation
func (Number) implNode() {}
func (Number) implExpr() {}

func (LVal) implNode() {}
func (LVal) implExpr() {}

func (Paren) implNode() {}
func (Paren) implExpr() {}

func (Unary) implNode() {}
func (Unary) implExpr() {}

func (Binary) implNode() {}
func (Binary) implExpr() {}

func (Call) implNode() {}
func (Call) implExpr() {}

func (Return) implNode()      {}
func (Return) implBlockItem() {}
func (Return) implStmt()      {}

func (Assign) implNode()      {}
func (Assign) implBlockItem() {}
func (Assign) implStmt()      {}

func (ExprStmt) implNode()      {}
func (ExprStmt) implBlockItem() {}
func (ExprStmt) implStmt()      {}

func (Block) implNode()      {}
func (Block) implBlockItem() {}
func (Block) implStmt()      {}

func (If) implNode()      {}
func (If) implBlockItem() {}
func (If) implStmt()      {}

func (While) implNode()      {}
func (While) implBlockItem() {}
func (While) implStmt()      {}

func (Break) implNode()      {}
func (Break) implBlockItem() {}
func (Break) implStmt()      {}

func (Continue) implNode()      {}
func (Continue) implBlockItem() {}
func (Continue) implStmt()      {}

func (ConstDecl) implNode()       {}
func (ConstDecl) implBlockItem()  {}
func (ConstDecl) implDecl()       {}
func (ConstDecl) implDefinition() {}

func (VarDecl) implNode()       {}
func (VarDecl) implBlockItem()  {}
func (VarDecl) implDecl()       {}
func (VarDecl) implDefinition() {}

func (FuncDef) implNode()       {}
func (FuncDef) implDefinition() {}

func (CompUnit) implNode() {}

func (FuncType) implNode()   {}
func (FuncFParam) implNode() {}
func (ConstDef) implNode()   {}
func (VarDef) implNode()     {}
func (InitVal) implNode()    {}
