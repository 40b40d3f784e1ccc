package arm

import (
	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/colorfulnotion/dynarec/log"
)

func badOffset(what string, off int32) {
	dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGRangeExceeded, "%s offset %d", what, off)
}

func (e *Emitter) memImm12(op uint32, what string, rt, rn Reg, off int32) {
	if !fitsImm12(off) {
		badOffset(what, off)
	}
	mag, up := splitOffset(off)
	e.emit(uint32(COND_AL) | op | up | uint32(rn)<<16 | uint32(rt)<<12 | mag)
}

func (e *Emitter) LdrImm(rt, rn Reg, off int32)  { e.memImm12(OPCODE_LDR_IMM, "LDR", rt, rn, off) }
func (e *Emitter) StrImm(rt, rn Reg, off int32)  { e.memImm12(OPCODE_STR_IMM, "STR", rt, rn, off) }
func (e *Emitter) LdrbImm(rt, rn Reg, off int32) { e.memImm12(OPCODE_LDRB_IMM, "LDRB", rt, rn, off) }
func (e *Emitter) StrbImm(rt, rn Reg, off int32) { e.memImm12(OPCODE_STRB_IMM, "STRB", rt, rn, off) }

// LdrPost is LDR rt, [rn], #off.
func (e *Emitter) LdrPost(rt, rn Reg, off int32) { e.memImm12(OPCODE_LDR_POST, "LDR", rt, rn, off) }

// StrPreWB is STR rt, [rn, #off]!.
func (e *Emitter) StrPreWB(rt, rn Reg, off int32) { e.memImm12(OPCODE_STR_PRE, "STR", rt, rn, off) }

func (e *Emitter) memHalf(op uint32, what string, rt, rn Reg, off int32) {
	if !fitsImm8(off) {
		badOffset(what, off)
	}
	mag, up := splitOffset(off)
	e.emit(uint32(COND_AL) | op | up | uint32(rn)<<16 | uint32(rt)<<12 | (mag&0xf0)<<4 | mag&0xf)
}

func (e *Emitter) LdrhImm(rt, rn Reg, off int32) { e.memHalf(OPCODE_LDRH_IMM, "LDRH", rt, rn, off) }
func (e *Emitter) StrhImm(rt, rn Reg, off int32) { e.memHalf(OPCODE_STRH_IMM, "STRH", rt, rn, off) }

func memReg(op uint32, rt, rn, rm Reg, shift uint32) uint32 {
	return uint32(COND_AL) | op | uint32(rn)<<16 | uint32(rt)<<12 | (shift&31)<<7 | uint32(rm)
}

// LdrReg is LDR rt, [rn, rm, LSL #shift].
func (e *Emitter) LdrReg(rt, rn, rm Reg, shift uint32) { e.emit(memReg(OPCODE_LDR_REG, rt, rn, rm, shift)) }
func (e *Emitter) StrReg(rt, rn, rm Reg)               { e.emit(memReg(OPCODE_STR_REG, rt, rn, rm, 0)) }
func (e *Emitter) LdrbReg(rt, rn, rm Reg)              { e.emit(memReg(OPCODE_LDRB_REG, rt, rn, rm, 0)) }
func (e *Emitter) StrbReg(rt, rn, rm Reg)              { e.emit(memReg(OPCODE_STRB_REG, rt, rn, rm, 0)) }

func (e *Emitter) LdrhReg(rt, rn, rm Reg) {
	e.emit(uint32(COND_AL) | OPCODE_LDRH_REG | OFFSET_UP | uint32(rn)<<16 | uint32(rt)<<12 | uint32(rm))
}

func (e *Emitter) StrhReg(rt, rn, rm Reg) {
	e.emit(uint32(COND_AL) | OPCODE_STRH_REG | OFFSET_UP | uint32(rn)<<16 | uint32(rt)<<12 | uint32(rm))
}

// Stmdb is STMDB rn!, {mask}.
func (e *Emitter) Stmdb(rn Reg, mask uint32) {
	e.emit(uint32(COND_AL) | OPCODE_STMDB_WB | uint32(rn)<<16 | mask&0xffff)
}

// Ldmia is LDMIA rn!, {mask}.
func (e *Emitter) Ldmia(rn Reg, mask uint32) {
	e.emit(uint32(COND_AL) | OPCODE_LDMIA_WB | uint32(rn)<<16 | mask&0xffff)
}
