package arm

import (
	"github.com/colorfulnotion/dynarec/cpustate"
	"github.com/colorfulnotion/dynarec/ir"
)

// exitOnAbort leaves the block through the exit routine when rt is non-zero.
func (b *Backend) exitOnAbort(rt Reg) {
	b.e.Tst(rt, rt)
	b.e.BCond(COND_NE, b.tr.Exit)
}

// zeroExtend copies a narrow operand into the whole of rd.
func (b *Backend) zeroExtend(u *ir.Uop, rd Reg, src ir.Reg) {
	e := b.e
	switch src.Size() {
	case ir.SizeL:
		if hr(src) != rd {
			e.Mov(rd, hr(src))
		}
	case ir.SizeW:
		e.Uxth(rd, hr(src))
	case ir.SizeB:
		e.Uxtb(rd, hr(src))
	case ir.SizeBH:
		e.Ubfx(rd, hr(src), 8, 8)
	default:
		b.badWidth(u)
	}
}

func loadFuncArg(n Reg) lowerFunc {
	return func(b *Backend, u *ir.Uop) { b.zeroExtend(u, n, u.Src[0]) }
}

func loadFuncArgImm(n Reg) lowerFunc {
	return func(b *Backend, u *ir.Uop) { b.e.MovImm(n, u.Imm) }
}

func lowerCallFunc(b *Backend, u *ir.Uop) { b.e.BL(u.P) }

func lowerCallFuncResult(b *Backend, u *ir.Uop) {
	if !u.Dest.IsL() {
		b.badWidth(u)
	}
	b.e.BL(u.P)
	b.e.Mov(hr(u.Dest), R0)
}

// lowerCallInstructionFunc calls an interpreter handler with the fetched
// opcode word and leaves the block if it reports a fault.
func lowerCallInstructionFunc(b *Backend, u *ir.Uop) {
	b.e.MovImm(R0, u.Imm)
	b.e.BL(u.P)
	b.exitOnAbort(R0)
}

func lowerStorePtrImm(b *Backend, u *ir.Uop) {
	e := b.e
	e.MovImm(REG_TEMP, u.Imm)
	rn, off := b.base(u.P, 4095, REG_TEMP2)
	e.StrImm(REG_TEMP, rn, off)
}

func lowerStorePtrImm8(b *Backend, u *ir.Uop) {
	e := b.e
	e.MovImm(REG_TEMP, u.Imm&0xff)
	rn, off := b.base(u.P, 4095, REG_TEMP2)
	e.StrbImm(REG_TEMP, rn, off)
}

// lowerLoadSeg calls loadseg(selector, segment) and leaves on a fault.
func lowerLoadSeg(b *Backend, u *ir.Uop) {
	if !u.Src[0].IsW() && !u.Src[0].IsL() {
		b.badWidth(u)
	}
	b.zeroExtend(u, R0, u.Src[0])
	b.e.MovImm(R1, u.P)
	b.e.BL(b.syms.LoadSeg)
	b.exitOnAbort(R0)
}

func lowerJmp(b *Backend, u *ir.Uop) { b.e.B(u.P) }

func lowerJmpDest(b *Backend, u *ir.Uop) { u.Patch = b.e.BForward(COND_AL) }

func lowerNopBarrier(b *Backend, u *ir.Uop) {}

// fpuAvailable raises #NM through x86_int when CR0.EM or CR0.TS is set.
func (b *Backend) fpuAvailable(u *ir.Uop) {
	e := b.e
	e.LdrImm(REG_TEMP, REG_CPUSTATE, stateOff(cpustate.FieldCR0))
	e.TstImm(REG_TEMP, cpustate.CR0_EM|cpustate.CR0_TS)
	ok := e.BForward(COND_EQ)
	e.MovImm(REG_TEMP, u.Imm)
	e.StrImm(REG_TEMP, REG_CPUSTATE, stateOff(cpustate.FieldOldPC))
	e.MovImm(R0, INT_VECTOR_DEVICE_NA)
	e.BL(b.syms.X86Int)
	e.B(b.tr.Exit)
	e.SetJumpDest(ok)
}

func lowerFPEnter(b *Backend, u *ir.Uop) { b.fpuAvailable(u) }

// lowerMMXEnter also switches the x87 stack into MMX mode: every tag valid,
// TOP zero.
func lowerMMXEnter(b *Backend, u *ir.Uop) {
	e := b.e
	b.fpuAvailable(u)
	e.MovImm(REG_TEMP, 0x01010101)
	e.StrImm(REG_TEMP, REG_CPUSTATE, int32(cpustate.Tag(0)))
	e.StrImm(REG_TEMP, REG_CPUSTATE, int32(cpustate.Tag(4)))
	e.MovImm(REG_TEMP, 0)
	e.StrImm(REG_TEMP, REG_CPUSTATE, stateOff(cpustate.FieldTOP))
	e.MovImm(REG_TEMP, 1)
	e.StrbImm(REG_TEMP, REG_CPUSTATE, stateOff(cpustate.FieldIsMMX))
}
