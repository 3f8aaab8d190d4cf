// Package ast provides the indented debug dump of a SysY tree
package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes a human-readable tree dump. Each level of nesting adds two
// spaces of indentation.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// Fprint dumps any node to w.
func Fprint(w io.Writer, n Node) {
	NewPrinter(w).PrintNode(n)
}

// PrintCompUnit dumps a complete program
func (p *Printer) PrintCompUnit(cu *CompUnit) {
	p.open("CompUnit")
	for _, def := range cu.Items {
		p.PrintNode(def)
	}
	p.close()
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}

func (p *Printer) open(format string, args ...any) {
	p.line(format+" {", args...)
	p.indent++
}

func (p *Printer) close() {
	p.indent--
	p.line("}")
}

// PrintNode dumps n and its subtree at the current depth.
func (p *Printer) PrintNode(n Node) {
	switch n := n.(type) {
	case CompUnit:
		p.PrintCompUnit(&n)
	case *CompUnit:
		p.PrintCompUnit(n)
	case FuncDef:
		p.printFuncDef(n)
	case FuncType:
		p.line("FuncType: %s", n.Type)
	case FuncFParam:
		p.printParam(n)
	case ConstDecl:
		p.open("ConstDecl %s", n.Type)
		for _, d := range n.Defs {
			p.PrintNode(d)
		}
		p.close()
	case ConstDef:
		p.open("ConstDef %s", n.Name)
		p.printDims(n.Dims)
		p.PrintNode(n.Init)
		p.close()
	case VarDecl:
		p.open("VarDecl %s", n.Type)
		for _, d := range n.Defs {
			p.PrintNode(d)
		}
		p.close()
	case VarDef:
		if n.Init == nil && len(n.Dims) == 0 {
			p.line("VarDef %s", n.Name)
			return
		}
		p.open("VarDef %s", n.Name)
		p.printDims(n.Dims)
		if n.Init != nil {
			p.PrintNode(*n.Init)
		}
		p.close()
	case InitVal:
		if !n.IsList {
			p.open("InitVal")
			p.PrintNode(n.Expr)
			p.close()
			return
		}
		p.open("InitList")
		for _, v := range n.List {
			p.PrintNode(v)
		}
		p.close()
	case Block:
		p.open("Block")
		for _, item := range n.Items {
			p.PrintNode(item)
		}
		p.close()
	case Return:
		if n.Expr == nil {
			p.line("Return")
			return
		}
		p.open("Return")
		p.PrintNode(n.Expr)
		p.close()
	case Assign:
		p.open("Assign")
		p.PrintNode(n.Target)
		p.PrintNode(n.Value)
		p.close()
	case ExprStmt:
		if n.Expr == nil {
			p.line("EmptyStmt")
			return
		}
		p.open("ExprStmt")
		p.PrintNode(n.Expr)
		p.close()
	case If:
		p.open("If")
		p.PrintNode(n.Cond)
		p.PrintNode(n.Then)
		if n.Else != nil {
			p.open("Else")
			p.PrintNode(n.Else)
			p.close()
		}
		p.close()
	case While:
		p.open("While")
		p.PrintNode(n.Cond)
		p.PrintNode(n.Body)
		p.close()
	case Break:
		p.line("Break")
	case Continue:
		p.line("Continue")
	case Number:
		p.line("Number: %d", n.Value)
	case LVal:
		if len(n.Indices) == 0 {
			p.line("LVal: %s", n.Name)
			return
		}
		p.open("LVal: %s", n.Name)
		for _, idx := range n.Indices {
			p.PrintNode(idx)
		}
		p.close()
	case Paren:
		p.open("Paren")
		p.PrintNode(n.Expr)
		p.close()
	case Unary:
		p.open("Unary %s", n.Op)
		p.PrintNode(n.Expr)
		p.close()
	case Binary:
		p.open("Binary %s", n.Op)
		p.PrintNode(n.Left)
		p.PrintNode(n.Right)
		p.close()
	case Call:
		p.open("Call %s", n.Name)
		for _, a := range n.Args {
			p.PrintNode(a)
		}
		p.close()
	case nil:
		p.line("<nil>")
	default:
		p.line("/* unknown node %T */", n)
	}
}

func (p *Printer) printFuncDef(f FuncDef) {
	p.open("FuncDef %s", f.Name)
	p.PrintNode(f.Type)
	if len(f.Params) > 0 {
		p.open("FuncFParams")
		for _, param := range f.Params {
			p.PrintNode(param)
		}
		p.close()
	}
	p.PrintNode(f.Body)
	p.close()
}

func (p *Printer) printParam(param FuncFParam) {
	if !param.IsArray {
		p.line("FuncFParam %s %s", param.Type, param.Name)
		return
	}
	p.open("FuncFParam %s %s[]", param.Type, param.Name)
	p.printDims(param.Dims)
	p.close()
}

func (p *Printer) printDims(dims []Expr) {
	for _, d := range dims {
		p.open("Dim")
		p.PrintNode(d)
		p.close()
	}
}
