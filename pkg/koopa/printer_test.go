package koopa

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"rsc.io/diff"
)

func TestPrintProgram_Main(t *testing.T) {
	instrs := []Instruction{
		NewMarker(FunctionBegin, "fun @main(): i32 {"),
		NewMarker(Info, "%entry:"),
		NewBinary(Mul, Reg(0), Imm(2), Imm(3)),
		NewBinary(Add, Reg(1), Imm(1), Reg(0)),
		NewRet(Reg(1)),
		NewMarker(FunctionEnd, "}"),
	}

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	if err := p.PrintProgram(instrs); err != nil {
		t.Fatalf("PrintProgram: %v", err)
	}

	want := Preamble + `fun @main(): i32 {
%entry:
  %0 = mul 2, 3
  %1 = add 1, %0
  ret %1
}
`
	if got := buf.String(); got != want {
		t.Errorf("output mismatch:\n%s", diff.Format(got, want))
	}
}

func TestPrinter_PreambleOnce(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	prog := []Instruction{
		NewMarker(FunctionBegin, "fun @f() {"),
		NewMarker(Info, "%entry:"),
		NewRet(Null()),
		NewMarker(FunctionEnd, "}"),
	}
	if err := p.PrintProgram(prog); err != nil {
		t.Fatalf("first PrintProgram: %v", err)
	}
	if err := p.PrintProgram(prog); err != nil {
		t.Fatalf("second PrintProgram: %v", err)
	}
	if err := p.WritePreamble(); err != nil {
		t.Fatalf("WritePreamble: %v", err)
	}

	output := buf.String()
	if n := strings.Count(output, "decl @getint(): i32"); n != 1 {
		t.Errorf("preamble written %d times, want 1:\n%s", n, output)
	}
	if n := strings.Count(output, "fun @f() {"); n != 2 {
		t.Errorf("expected two function bodies, got %d", n)
	}
	if !strings.Contains(output, "}\n\nfun @f() {") {
		t.Errorf("expected blank line between functions, got:\n%s", output)
	}
}

func TestPrinter_PreambleBeforeFirstInstruction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	if err := p.Emit(NewMarker(FunctionBegin, "fun @main(): i32 {")); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "decl @getint(): i32\n") {
		t.Errorf("preamble should come first, got:\n%s", buf.String())
	}
}

func TestPrinter_PreambleLines(t *testing.T) {
	want := []string{
		"decl @getint(): i32",
		"decl @getch(): i32",
		"decl @getarray(*i32): i32",
		"decl @putint(i32)",
		"decl @putch(i32)",
		"decl @putarray(i32, *i32)",
		"decl @starttime()",
		"decl @stoptime()",
	}
	got := strings.Split(strings.TrimRight(Preamble, "\n"), "\n")
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("preamble mismatch:\n%s", diff.Format(strings.Join(got, "\n"), strings.Join(want, "\n")))
	}
}

func TestRuntimeFuncsMatchPreamble(t *testing.T) {
	lines := strings.Split(strings.TrimRight(Preamble, "\n"), "\n")
	if len(lines) != len(RuntimeFuncs) {
		t.Fatalf("%d decl lines, %d runtime funcs", len(lines), len(RuntimeFuncs))
	}
	for i, name := range RuntimeFuncs {
		if !strings.HasPrefix(lines[i], "decl @"+name+"(") {
			t.Errorf("line %d = %q, want decl of %s", i, lines[i], name)
		}
	}
}

func TestFormat_Binary(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{Eq, "  %2 = eq %1, 0\n"},
		{Ne, "  %2 = ne %1, 0\n"},
		{Add, "  %2 = add %1, 0\n"},
		{Sub, "  %2 = sub %1, 0\n"},
		{Mul, "  %2 = mul %1, 0\n"},
		{Div, "  %2 = div %1, 0\n"},
		{Mod, "  %2 = mod %1, 0\n"},
		{Or, "  %2 = or %1, 0\n"},
		{And, "  %2 = and %1, 0\n"},
		{Lt, "  %2 = lt %1, 0\n"},
		{Gt, "  %2 = gt %1, 0\n"},
		{Le, "  %2 = le %1, 0\n"},
		{Ge, "  %2 = ge %1, 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, err := Format(NewBinary(tt.op, Reg(2), Reg(1), Imm(0)))
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_Ret(t *testing.T) {
	got, err := Format(NewRet(Imm(0)))
	if err != nil || got != "  ret 0\n" {
		t.Errorf("ret with value: got %q, %v", got, err)
	}
	got, err = Format(NewRet(Null()))
	if err != nil || got != "  ret\n" {
		t.Errorf("bare ret: got %q, %v", got, err)
	}
}

func TestFormat_Markers(t *testing.T) {
	got, err := Format(NewMarker(Info, "%_b_0:"))
	if err != nil || got != "%_b_0:\n" {
		t.Errorf("info marker: got %q, %v", got, err)
	}
	got, err = Format(NewMarker(FunctionEnd, "}"))
	if err != nil || got != "}\n" {
		t.Errorf("function end: got %q, %v", got, err)
	}
}

func TestPrinter_ReservedOpcodes(t *testing.T) {
	for _, op := range Opcodes() {
		if !op.IsReserved() {
			continue
		}
		t.Run(op.String(), func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			err := p.Emit(Instruction{Op: op, Dest: Reg(0), Op1: Imm(1), Op2: Imm(2), Label: "L"})
			if !errors.Is(err, ErrNotLowered) {
				t.Fatalf("expected ErrNotLowered, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("reserved opcode wrote output: %q", buf.String())
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestPrinter_WriteError(t *testing.T) {
	p := NewPrinter(failingWriter{})
	if err := p.Emit(NewRet(Null())); err == nil {
		t.Fatal("expected write error")
	}
}
