package parser

import (
	"bytes"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/lexer"
)

// TestSpec represents a test case from parse.yaml
type TestSpec struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`
	Dump  string `yaml:"dump"`
}

// TestFile represents the parse.yaml file structure
type TestFile struct {
	Tests []TestSpec `yaml:"tests"`
}

func TestParseYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/parse.yaml")
	if err != nil {
		t.Fatalf("failed to read parse.yaml: %v", err)
	}

	var testFile TestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse parse.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			cu, err := Parse(tc.Input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			var buf bytes.Buffer
			ast.NewPrinter(&buf).PrintCompUnit(cu)
			if diff := cmp.Diff(tc.Dump, buf.String()); diff != "" {
				t.Errorf("dump mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// ignorePos compares trees by shape only.
var ignorePos = cmpopts.IgnoreTypes(ast.Pos{})

func parseDef(t *testing.T, input string) ast.Definition {
	t.Helper()
	p := New(lexer.New(input))
	def := p.ParseDefinition()
	if len(p.Errors()) > 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	if def == nil {
		t.Fatal("ParseDefinition returned nil")
	}
	return def
}

func TestEmptyFunction(t *testing.T) {
	def := parseDef(t, `int main() {}`)

	want := ast.FuncDef{
		Type: ast.FuncType{Type: ast.TypeInt},
		Name: "main",
		Body: ast.Block{},
	}
	if diff := cmp.Diff(want, def, ignorePos); diff != "" {
		t.Errorf("FuncDef mismatch (-want +got):\n%s", diff)
	}
}

func TestReturnStatement(t *testing.T) {
	def := parseDef(t, `int f() { return 42; }`)

	funDef, ok := def.(ast.FuncDef)
	if !ok {
		t.Fatalf("expected FuncDef, got %T", def)
	}
	if len(funDef.Body.Items) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(funDef.Body.Items))
	}

	want := ast.Return{Expr: ast.Number{Value: 42}}
	if diff := cmp.Diff(want, funDef.Body.Items[0], ignorePos); diff != "" {
		t.Errorf("Return mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryExpressions(t *testing.T) {
	tests := []struct {
		input string
		op    ast.BinaryOp
	}{
		{"6 + 2", ast.OpAdd},
		{"6 - 2", ast.OpSub},
		{"6 * 2", ast.OpMul},
		{"6 / 2", ast.OpDiv},
		{"6 % 2", ast.OpMod},
		{"6 < 2", ast.OpLt},
		{"6 > 2", ast.OpGt},
		{"6 <= 2", ast.OpLe},
		{"6 >= 2", ast.OpGe},
		{"6 == 2", ast.OpEq},
		{"6 != 2", ast.OpNe},
		{"6 && 2", ast.OpAnd},
		{"6 || 2", ast.OpOr},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(lexer.New(tt.input))
			e := p.ParseExpression()
			if len(p.Errors()) > 0 {
				t.Fatalf("parser errors: %v", p.Errors())
			}

			want := ast.Binary{Op: tt.op, Left: ast.Number{Value: 6}, Right: ast.Number{Value: 2}}
			if diff := cmp.Diff(want, e, ignorePos); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Multiplicative before additive
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"2 * 3 + 4", "((2 * 3) + 4)"},
		// Parentheses override precedence
		{"(1 + 2) * 3", "(((1 + 2)) * 3)"},
		// Left associativity
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 % 3", "((8 / 4) % 3)"},
		// Relational binds tighter than equality
		{"1 < 2 == 3 > 4", "((1 < 2) == (3 > 4))"},
		// && binds tighter than ||
		{"a || b && c", "(a || (b && c))"},
		// Unary binds tightest
		{"-a * !b", "((-a) * (!b))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(lexer.New(tt.input))
			e := p.ParseExpression()
			if len(p.Errors()) > 0 {
				t.Fatalf("parser errors: %v", p.Errors())
			}

			if actual := exprString(e); actual != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, actual)
			}
		})
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"0", 0},
		{"42", 42},
		{"052", 42},
		{"0x2a", 42},
		{"0X2A", 42},
		{"2147483647", 2147483647},
		{"2147483648", -2147483648},
		{"0xffffffff", -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(lexer.New(tt.input))
			e := p.ParseExpression()
			if len(p.Errors()) > 0 {
				t.Fatalf("parser errors: %v", p.Errors())
			}
			num, ok := e.(ast.Number)
			if !ok {
				t.Fatalf("expected Number, got %T", e)
			}
			if num.Value != tt.want {
				t.Errorf("expected %d, got %d", tt.want, num.Value)
			}
		})
	}
}

func TestAssignmentVersusExpression(t *testing.T) {
	def := parseDef(t, `void f() { a[1] = 2; a; g(); }`)
	body := def.(ast.FuncDef).Body

	want := []ast.BlockItem{
		ast.Assign{
			Target: ast.LVal{Name: "a", Indices: []ast.Expr{ast.Number{Value: 1}}},
			Value:  ast.Number{Value: 2},
		},
		ast.ExprStmt{Expr: ast.LVal{Name: "a"}},
		ast.ExprStmt{Expr: ast.Call{Name: "g"}},
	}
	if diff := cmp.Diff(want, body.Items, ignorePos); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedBlocks(t *testing.T) {
	def := parseDef(t, `int main() { { { } } return 0; }`)
	body := def.(ast.FuncDef).Body

	want := []ast.BlockItem{
		ast.Block{Items: []ast.BlockItem{ast.Block{}}},
		ast.Return{Expr: ast.Number{Value: 0}},
	}
	if diff := cmp.Diff(want, body.Items, ignorePos); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestPositions(t *testing.T) {
	cu, err := Parse("int main() {\n  return 1 + 2;\n}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	fn := cu.Items[0].(ast.FuncDef)
	if got := fn.Position(); got != (ast.Pos{Line: 1, Column: 1}) {
		t.Errorf("FuncDef at %v", got)
	}
	ret := fn.Body.Items[0].(ast.Return)
	if got := ret.Position(); got != (ast.Pos{Line: 2, Column: 3}) {
		t.Errorf("Return at %v", got)
	}
	bin := ret.Expr.(ast.Binary)
	if got := bin.Position(); got != (ast.Pos{Line: 2, Column: 10}) {
		t.Errorf("Binary at %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"missing semicolon", "int main() { return 1 }", "expected ;, got }"},
		{"assign to rvalue", "int main() { 1 = 2; }", "not an lvalue"},
		{"void variable", "void x;", "void"},
		{"literal too large", "int main() { return 4294967296; }", "invalid integer literal"},
		{"bad parameter list", "int main( { }", "expected type specifier"},
		{"stray operator", "int main() { return * 2; }", "unexpected token *"},
		{"unterminated block", "int main() { return 0;", "expected }, got EOF"},
		{"illegal character", "int main() { return 1 & 2; }", "ILLEGAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cu, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error, got %v", cu)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("expected ErrSyntax, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Errorf("error %q has no position", err)
			}
		})
	}
}

func TestErrorRecoveryTerminates(t *testing.T) {
	inputs := []string{
		"}}}}",
		"int",
		"const",
		"int main() { if ( }",
		"int f(int a[",
		"int main() { while (1) return",
		"((((",
	}
	for _, input := range inputs {
		p := New(lexer.New(input))
		p.ParseCompUnit()
		if len(p.Errors()) == 0 {
			t.Errorf("%q: expected errors", input)
		}
	}
}

func exprString(e ast.Expr) string {
	switch e := e.(type) {
	case ast.Number:
		return strconv.Itoa(int(e.Value))
	case ast.LVal:
		return e.Name
	case ast.Paren:
		return "(" + exprString(e.Expr) + ")"
	case ast.Unary:
		return "(" + e.Op.String() + exprString(e.Expr) + ")"
	case ast.Binary:
		return "(" + exprString(e.Left) + " " + e.Op.String() + " " + exprString(e.Right) + ")"
	default:
		return "?"
	}
}
