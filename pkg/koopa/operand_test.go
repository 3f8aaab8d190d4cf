package koopa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperandKinds(t *testing.T) {
	tests := []struct {
		name   string
		op     Operand
		kind   OperandKind
		local  bool
		global bool
		text   string
	}{
		{"register", Reg(3), KindVar, true, false, "%3"},
		{"param", Var("%x"), KindVar, true, false, "%x"},
		{"global", Var("@counter"), KindVar, false, true, "@counter"},
		{"imm", Imm(42), KindImm, false, false, "42"},
		{"negative imm", Imm(-7), KindImm, false, false, "-7"},
		{"null", Null(), KindNull, false, false, ""},
		{"zero value", Operand{}, KindNull, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.op.Kind())
			assert.Equal(t, tt.kind == KindVar, tt.op.IsVar())
			assert.Equal(t, tt.kind == KindImm, tt.op.IsImm())
			assert.Equal(t, tt.kind == KindNull, tt.op.IsNull())
			assert.Equal(t, tt.local, tt.op.IsLocalVar())
			assert.Equal(t, tt.global, tt.op.IsGlobalVar())
			assert.Equal(t, tt.text, tt.op.String())
		})
	}
}

func TestOperandEqual(t *testing.T) {
	assert.True(t, Null().Equal(Null()))
	assert.True(t, Imm(5).Equal(Imm(5)))
	assert.True(t, Var("%1").Equal(Reg(1)))

	assert.False(t, Imm(5).Equal(Imm(6)))
	assert.False(t, Var("%a").Equal(Var("@a")))
	assert.False(t, Imm(0).Equal(Null()), "zero immediate is not Null")
	assert.False(t, Var("0").Equal(Imm(0)), "tags must match")
}

func TestOperandImmExtremes(t *testing.T) {
	assert.Equal(t, "2147483647", Imm(2147483647).String())
	assert.Equal(t, "-2147483648", Imm(-2147483648).String())
}

func TestOperandGoString(t *testing.T) {
	assert.Equal(t, "Var(%2)", Reg(2).GoString())
	assert.Equal(t, "Imm(9)", Imm(9).GoString())
	assert.Equal(t, "Null", Null().GoString())
}
