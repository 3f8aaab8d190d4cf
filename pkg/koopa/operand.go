// Package koopa defines the three-address IR emitted by the lowering pass:
// operands, the opcode catalog, instructions, and the textual printer.
// The concrete syntax follows Koopa IR as used by the SysY course toolchain.
package koopa

import "strconv"

// OperandKind tags an Operand.
type OperandKind int

const (
	KindNull OperandKind = iota
	KindVar
	KindImm
)

func (k OperandKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindVar:
		return "var"
	case KindImm:
		return "imm"
	}
	return "?"
}

// Operand is a value referenced by an instruction slot: a named register
// or storage location, a 32-bit immediate, or nothing.
// The zero value is Null.
type Operand struct {
	kind  OperandKind
	name  string
	value int32
}

// Var returns a register or storage operand. The name carries its sigil:
// '%' for function-local values, '@' for module globals.
func Var(name string) Operand {
	return Operand{kind: KindVar, name: name}
}

// Reg returns the local virtual register %n.
func Reg(n int) Operand {
	return Var("%" + strconv.Itoa(n))
}

// Imm returns an immediate operand.
func Imm(v int32) Operand {
	return Operand{kind: KindImm, value: v}
}

// Null returns the unused-slot operand.
func Null() Operand {
	return Operand{}
}

func (o Operand) Kind() OperandKind { return o.kind }

// Name returns the variable name including its sigil, or "" for non-vars.
func (o Operand) Name() string { return o.name }

// Value returns the immediate value, or 0 for non-immediates.
func (o Operand) Value() int32 { return o.value }

func (o Operand) IsVar() bool  { return o.kind == KindVar }
func (o Operand) IsImm() bool  { return o.kind == KindImm }
func (o Operand) IsNull() bool { return o.kind == KindNull }

// IsLocalVar reports whether o is a '%'-prefixed variable.
func (o Operand) IsLocalVar() bool {
	return o.IsVar() && len(o.name) > 0 && o.name[0] == '%'
}

// IsGlobalVar reports whether o is a '@'-prefixed variable.
func (o Operand) IsGlobalVar() bool {
	return o.IsVar() && len(o.name) > 0 && o.name[0] == '@'
}

// Equal reports whether both operands have the same tag and payload.
func (o Operand) Equal(p Operand) bool {
	if o.kind != p.kind {
		return false
	}
	switch o.kind {
	case KindVar:
		return o.name == p.name
	case KindImm:
		return o.value == p.value
	default:
		return true
	}
}

// String renders the operand as it appears in IR text.
func (o Operand) String() string {
	switch o.kind {
	case KindVar:
		return o.name
	case KindImm:
		return strconv.FormatInt(int64(o.value), 10)
	default:
		return ""
	}
}

// GoString makes test failures readable.
func (o Operand) GoString() string {
	switch o.kind {
	case KindVar:
		return "Var(" + o.name + ")"
	case KindImm:
		return "Imm(" + strconv.FormatInt(int64(o.value), 10) + ")"
	default:
		return "Null"
	}
}
