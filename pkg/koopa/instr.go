package koopa

import "fmt"

// Opcode is a member of the closed instruction catalog.
type Opcode int

const (
	// Structural markers; only the Label is printed.
	FunctionBegin Opcode = iota
	FunctionEnd
	Info

	Ret // return / return op1

	// Binary operations: dest = op1 <op> op2
	Eq
	Ne
	Add
	Sub
	Mul
	Div
	Mod
	Or
	And
	Lt
	Gt
	Le
	Ge

	// Reserved for the machine-level stage. The lowering pass never emits
	// these and the printer rejects them with ErrNotLowered.
	Call      // call label
	Cmp       // cmp op1, op2
	Jmp       // jmp label
	Jeq       // if EQ: jmp label
	Jne       // if NE: jmp label
	Jle       // if LE: jmp label
	Jlt       // if LT: jmp label
	Jge       // if GE: jmp label
	Jgt       // if GT: jmp label
	Moveq     // if EQ: dest = op1 else: dest = op2
	Movne     // if NE: dest = op1 else: dest = op2
	Movle     // if LE: dest = op1 else: dest = op2
	Movlt     // if LT: dest = op1 else: dest = op2
	Movge     // if GE: dest = op1 else: dest = op2
	Movgt     // if GT: dest = op1 else: dest = op2
	Sal       // dest = op1 << op2
	Sar       // dest = op1 >> op2
	Store     // op1[op2] = op3
	Load      // dest = op1[op2]
	Label     // label:
	DataBegin // .data
	DataWord  // .word
	DataSpace // .space
	DataEnd
	PhiMov
	Noop

	numOpcodes
)

var opcodeNames = [numOpcodes]string{
	FunctionBegin: "function_begin",
	FunctionEnd:   "function_end",
	Info:          "info",
	Ret:           "ret",
	Eq:            "eq",
	Ne:            "ne",
	Add:           "add",
	Sub:           "sub",
	Mul:           "mul",
	Div:           "div",
	Mod:           "mod",
	Or:            "or",
	And:           "and",
	Lt:            "lt",
	Gt:            "gt",
	Le:            "le",
	Ge:            "ge",
	Call:          "call",
	Cmp:           "cmp",
	Jmp:           "jmp",
	Jeq:           "jeq",
	Jne:           "jne",
	Jle:           "jle",
	Jlt:           "jlt",
	Jge:           "jge",
	Jgt:           "jgt",
	Moveq:         "moveq",
	Movne:         "movne",
	Movle:         "movle",
	Movlt:         "movlt",
	Movge:         "movge",
	Movgt:         "movgt",
	Sal:           "sal",
	Sar:           "sar",
	Store:         "store",
	Load:          "load",
	Label:         "label",
	DataBegin:     "data_begin",
	DataWord:      "data_word",
	DataSpace:     "data_space",
	DataEnd:       "data_end",
	PhiMov:        "phi_mov",
	Noop:          "noop",
}

// String returns the mnemonic used in IR text.
func (op Opcode) String() string {
	if op >= 0 && op < numOpcodes {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", int(op))
}

// IsMarker reports whether op is a structural marker carrying only a label.
func (op Opcode) IsMarker() bool {
	return op == FunctionBegin || op == FunctionEnd || op == Info
}

// IsBinary reports whether op takes a destination and two operands.
func (op Opcode) IsBinary() bool {
	return op >= Eq && op <= Ge
}

// IsReserved reports whether op belongs to the catalog but has no
// lowering or printing rule yet.
func (op Opcode) IsReserved() bool {
	return op >= Call && op < numOpcodes
}

// Opcodes returns every member of the catalog in declaration order.
func Opcodes() []Opcode {
	ops := make([]Opcode, numOpcodes)
	for i := range ops {
		ops[i] = Opcode(i)
	}
	return ops
}

// Pos is a source position carried for diagnostics.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Instruction is one three-address IR instruction. Slots an opcode does
// not use hold Null operands and an empty label.
type Instruction struct {
	Op    Opcode
	Dest  Operand
	Op1   Operand
	Op2   Operand
	Op3   Operand
	Label string
	Pos   Pos
}

// NewMarker builds a FunctionBegin, FunctionEnd or Info instruction.
func NewMarker(op Opcode, label string) Instruction {
	return Instruction{Op: op, Label: label}
}

// NewBinary builds dest = op1 <op> op2.
func NewBinary(op Opcode, dest, op1, op2 Operand) Instruction {
	return Instruction{Op: op, Dest: dest, Op1: op1, Op2: op2}
}

// NewRet builds a return; pass Null() for a bare return.
func NewRet(val Operand) Instruction {
	return Instruction{Op: Ret, Op1: val}
}

// At returns a copy of i tagged with a source position.
func (i Instruction) At(pos Pos) Instruction {
	i.Pos = pos
	return i
}
