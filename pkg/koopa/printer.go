package koopa

import (
	"fmt"
	"io"
	"strings"

	"tlog.app/go/errors"
)

// ErrNotLowered is returned for catalog members that have no textual form
// yet (branches, calls, memory and data directives).
var ErrNotLowered = errors.New("opcode not yet lowered")

// Preamble declares the SysY runtime library. It precedes every function.
const Preamble = `decl @getint(): i32
decl @getch(): i32
decl @getarray(*i32): i32
decl @putint(i32)
decl @putch(i32)
decl @putarray(i32, *i32)
decl @starttime()
decl @stoptime()

`

// RuntimeFuncs are the functions Preamble declares, in order.
var RuntimeFuncs = []string{"getint", "getch", "getarray", "putint", "putch", "putarray", "starttime", "stoptime"}

// Printer serializes instructions to a single sink, append-only.
// The runtime preamble is written exactly once, before the first
// instruction, no matter how many times the printer is used.
type Printer struct {
	w        io.Writer
	preamble bool
	funcs    int
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WritePreamble writes the runtime declarations if they have not been
// written to this sink yet.
func (p *Printer) WritePreamble() error {
	if p.preamble {
		return nil
	}
	p.preamble = true
	if _, err := io.WriteString(p.w, Preamble); err != nil {
		return errors.Wrap(err, "write preamble")
	}
	return nil
}

// Emit writes one instruction as one line of text.
func (p *Printer) Emit(instr Instruction) error {
	if instr.Op.IsReserved() || instr.Op < 0 || instr.Op >= numOpcodes {
		return errors.Wrap(ErrNotLowered, "%v at %v", instr.Op, instr.Pos)
	}

	if err := p.WritePreamble(); err != nil {
		return err
	}

	var err error
	switch {
	case instr.Op == FunctionBegin:
		if p.funcs > 0 {
			_, err = fmt.Fprintln(p.w)
		}
		p.funcs++
		if err == nil {
			_, err = fmt.Fprintln(p.w, instr.Label)
		}
	case instr.Op.IsMarker():
		_, err = fmt.Fprintln(p.w, instr.Label)
	case instr.Op == Ret:
		if instr.Op1.IsNull() {
			_, err = fmt.Fprintln(p.w, "  ret")
		} else {
			_, err = fmt.Fprintf(p.w, "  ret %s\n", instr.Op1)
		}
	case instr.Op.IsBinary():
		_, err = fmt.Fprintf(p.w, "  %s = %s %s, %s\n", instr.Dest, instr.Op, instr.Op1, instr.Op2)
	}
	if err != nil {
		return errors.Wrap(err, "write %v", instr.Op)
	}
	return nil
}

// PrintProgram writes a whole instruction stream.
func (p *Printer) PrintProgram(instrs []Instruction) error {
	if err := p.WritePreamble(); err != nil {
		return err
	}
	for _, instr := range instrs {
		if err := p.Emit(instr); err != nil {
			return err
		}
	}
	return nil
}

// Format renders a single implemented instruction without the preamble.
func Format(instr Instruction) (string, error) {
	var b strings.Builder
	p := &Printer{w: &b, preamble: true}
	if err := p.Emit(instr); err != nil {
		return "", err
	}
	return b.String(), nil
}
