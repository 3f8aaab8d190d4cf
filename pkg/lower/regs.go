// Register and block-label allocation for one lowering session.

package lower

import (
	"strconv"

	"github.com/sysyc/sysyc/pkg/koopa"
)

// RegAllocator hands out virtual registers %0, %1, ... in issue order.
// Numbers are never reused within a session, across functions included.
type RegAllocator struct {
	nextReg int // next available register ID
}

// NewRegAllocator creates a new register allocator.
func NewRegAllocator() *RegAllocator {
	return &RegAllocator{}
}

// Fresh allocates a fresh virtual register.
func (a *RegAllocator) Fresh() koopa.Operand {
	r := koopa.Reg(a.nextReg)
	a.nextReg++
	return r
}

// FreshN allocates n fresh virtual registers.
func (a *RegAllocator) FreshN(n int) []koopa.Operand {
	regs := make([]koopa.Operand, n)
	for i := 0; i < n; i++ {
		regs[i] = a.Fresh()
	}
	return regs
}

// NextRegID returns the next register ID that will be allocated.
func (a *RegAllocator) NextRegID() int {
	return a.nextReg
}

// ParamVar names the value of parameter name. Labels are %entry and
// %_b_N and registers are %N, so the p_ prefix never collides with either.
func ParamVar(name string) koopa.Operand {
	return koopa.Var("%p_" + name)
}

// LabelAllocator numbers the informational block labels %_b_N.
type LabelAllocator struct {
	nextLabel int
}

// NewLabelAllocator creates a new label allocator.
func NewLabelAllocator() *LabelAllocator {
	return &LabelAllocator{}
}

// Fresh returns the next block label name, without the trailing colon.
func (a *LabelAllocator) Fresh() string {
	l := "%_b_" + strconv.Itoa(a.nextLabel)
	a.nextLabel++
	return l
}

// NextLabelID returns the next label number that will be allocated.
func (a *LabelAllocator) NextLabelID() int {
	return a.nextLabel
}
