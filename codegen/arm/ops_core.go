package arm

import (
	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/colorfulnotion/dynarec/log"
)

func dpReg(op uint32, rd, rn, rm Reg, shiftType, shift uint32) uint32 {
	return uint32(COND_AL) | op | uint32(rn)<<16 | uint32(rd)<<12 | (shift&31)<<7 | shiftType | uint32(rm)
}

func dpRegShiftReg(op uint32, rd, rn, rm Reg, shiftType uint32, rs Reg) uint32 {
	return uint32(COND_AL) | op | uint32(rn)<<16 | uint32(rd)<<12 | uint32(rs)<<8 | shiftType | SHIFT_BY_REG | uint32(rm)
}

func dpImm(cond Cond, op uint32, rd, rn Reg, enc uint32) uint32 {
	return uint32(cond) | op | DP_IMM | uint32(rn)<<16 | uint32(rd)<<12 | enc
}

// scratch picks a materialization register that is none of the operands.
func scratch(regs ...Reg) Reg {
	for _, r := range regs {
		if r == REG_TEMP {
			return REG_TEMP2
		}
	}
	return REG_TEMP
}

func badImm(what string, imm uint32) {
	dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGBadImmediate, "%s #%#x", what, imm)
}

// ---- moves ----

func (e *Emitter) Mov(rd, rm Reg) { e.emit(dpReg(OPCODE_MOV, rd, 0, rm, SHIFT_LSL, 0)) }

func (e *Emitter) MovLSL(rd, rm Reg, shift uint32) {
	e.emit(dpReg(OPCODE_MOV, rd, 0, rm, SHIFT_LSL, shift))
}

func (e *Emitter) MovLSR(rd, rm Reg, shift uint32) {
	if shift == 0 || shift > 31 {
		badImm("LSR", shift)
	}
	e.emit(dpReg(OPCODE_MOV, rd, 0, rm, SHIFT_LSR, shift))
}

func (e *Emitter) MovASR(rd, rm Reg, shift uint32) {
	if shift == 0 || shift > 31 {
		badImm("ASR", shift)
	}
	e.emit(dpReg(OPCODE_MOV, rd, 0, rm, SHIFT_ASR, shift))
}

func (e *Emitter) MovROR(rd, rm Reg, shift uint32) {
	if shift == 0 || shift > 31 {
		badImm("ROR", shift)
	}
	e.emit(dpReg(OPCODE_MOV, rd, 0, rm, SHIFT_ROR, shift))
}

// MOV rd, rm, <shift> rs
func (e *Emitter) MovLSLReg(rd, rm, rs Reg) {
	e.emit(dpRegShiftReg(OPCODE_MOV, rd, 0, rm, SHIFT_LSL, rs))
}
func (e *Emitter) MovLSRReg(rd, rm, rs Reg) {
	e.emit(dpRegShiftReg(OPCODE_MOV, rd, 0, rm, SHIFT_LSR, rs))
}
func (e *Emitter) MovASRReg(rd, rm, rs Reg) {
	e.emit(dpRegShiftReg(OPCODE_MOV, rd, 0, rm, SHIFT_ASR, rs))
}
func (e *Emitter) MovRORReg(rd, rm, rs Reg) {
	e.emit(dpRegShiftReg(OPCODE_MOV, rd, 0, rm, SHIFT_ROR, rs))
}

func (e *Emitter) Movw(rd Reg, imm uint32) {
	if imm > 0xffff {
		badImm("MOVW", imm)
	}
	e.emit(uint32(COND_AL) | OPCODE_MOVW | (imm>>12)<<16 | uint32(rd)<<12 | imm&0xfff)
}

func (e *Emitter) Movt(rd Reg, imm uint32) {
	if imm > 0xffff {
		badImm("MOVT", imm)
	}
	e.emit(uint32(COND_AL) | OPCODE_MOVT | (imm>>12)<<16 | uint32(rd)<<12 | imm&0xfff)
}

// MovImm loads any 32-bit constant: a rotated immediate, its complement via
// MVN, or MOVW with MOVT when the top half is non-zero.
func (e *Emitter) MovImm(rd Reg, imm uint32) {
	if enc, ok := EncodeImm(imm); ok {
		e.emit(dpImm(COND_AL, OPCODE_MOV, rd, 0, enc))
	} else if enc, ok := EncodeImm(^imm); ok {
		e.emit(dpImm(COND_AL, OPCODE_MVN, rd, 0, enc))
	} else {
		e.Movw(rd, imm&0xffff)
		if imm>>16 != 0 {
			e.Movt(rd, imm>>16)
		}
	}
}

// ---- arithmetic and logic ----

func (e *Emitter) Add(rd, rn, rm Reg) { e.emit(dpReg(OPCODE_ADD, rd, rn, rm, SHIFT_LSL, 0)) }
func (e *Emitter) Sub(rd, rn, rm Reg) { e.emit(dpReg(OPCODE_SUB, rd, rn, rm, SHIFT_LSL, 0)) }
func (e *Emitter) And(rd, rn, rm Reg) { e.emit(dpReg(OPCODE_AND, rd, rn, rm, SHIFT_LSL, 0)) }
func (e *Emitter) Orr(rd, rn, rm Reg) { e.emit(dpReg(OPCODE_ORR, rd, rn, rm, SHIFT_LSL, 0)) }
func (e *Emitter) Eor(rd, rn, rm Reg) { e.emit(dpReg(OPCODE_EOR, rd, rn, rm, SHIFT_LSL, 0)) }
func (e *Emitter) Bic(rd, rn, rm Reg) { e.emit(dpReg(OPCODE_BIC, rd, rn, rm, SHIFT_LSL, 0)) }

// AluLSL is rd = rn <op> (rm << shift) for any data-processing opcode.
func (e *Emitter) AluLSL(op uint32, rd, rn, rm Reg, shift uint32) {
	e.emit(dpReg(op, rd, rn, rm, SHIFT_LSL, shift))
}

// AluLSR is rd = rn <op> (rm >> shift).
func (e *Emitter) AluLSR(op uint32, rd, rn, rm Reg, shift uint32) {
	if shift == 0 || shift > 31 {
		badImm("LSR", shift)
	}
	e.emit(dpReg(op, rd, rn, rm, SHIFT_LSR, shift))
}

func (e *Emitter) AddLSL(rd, rn, rm Reg, shift uint32) { e.AluLSL(OPCODE_ADD, rd, rn, rm, shift) }
func (e *Emitter) OrrLSL(rd, rn, rm Reg, shift uint32) { e.AluLSL(OPCODE_ORR, rd, rn, rm, shift) }

// aluImm emits rd = rn <op> imm, trying the alternative opcode on the
// transformed immediate before materializing it in a scratch register.
func (e *Emitter) aluImm(op, altOp uint32, alt func(uint32) uint32, rd, rn Reg, imm uint32) {
	if enc, ok := EncodeImm(imm); ok {
		e.emit(dpImm(COND_AL, op, rd, rn, enc))
		return
	}
	if alt != nil {
		if enc, ok := EncodeImm(alt(imm)); ok {
			e.emit(dpImm(COND_AL, altOp, rd, rn, enc))
			return
		}
	}
	tmp := scratch(rn)
	e.MovImm(tmp, imm)
	e.emit(dpReg(op, rd, rn, tmp, SHIFT_LSL, 0))
}

func neg(v uint32) uint32 { return -v }
func not(v uint32) uint32 { return ^v }

func (e *Emitter) AddImm(rd, rn Reg, imm uint32) { e.aluImm(OPCODE_ADD, OPCODE_SUB, neg, rd, rn, imm) }
func (e *Emitter) SubImm(rd, rn Reg, imm uint32) { e.aluImm(OPCODE_SUB, OPCODE_ADD, neg, rd, rn, imm) }
func (e *Emitter) AndImm(rd, rn Reg, imm uint32) { e.aluImm(OPCODE_AND, OPCODE_BIC, not, rd, rn, imm) }
func (e *Emitter) BicImm(rd, rn Reg, imm uint32) { e.aluImm(OPCODE_BIC, OPCODE_AND, not, rd, rn, imm) }
func (e *Emitter) OrrImm(rd, rn Reg, imm uint32) { e.aluImm(OPCODE_ORR, 0, nil, rd, rn, imm) }
func (e *Emitter) EorImm(rd, rn Reg, imm uint32) { e.aluImm(OPCODE_EOR, 0, nil, rd, rn, imm) }

// RsbImm is rd = imm - rn. imm must be encodable.
func (e *Emitter) RsbImm(rd, rn Reg, imm uint32) {
	enc, ok := EncodeImm(imm)
	if !ok {
		badImm("RSB", imm)
	}
	e.emit(dpImm(COND_AL, OPCODE_RSB, rd, rn, enc))
}

// OrrCondImm is a conditional ORR with an encodable immediate.
func (e *Emitter) OrrCondImm(cond Cond, rd, rn Reg, imm uint32) {
	enc, ok := EncodeImm(imm)
	if !ok {
		badImm("ORR", imm)
	}
	e.emit(dpImm(cond, OPCODE_ORR, rd, rn, enc))
}

// ---- compares ----

func (e *Emitter) Cmp(rn, rm Reg) { e.emit(dpReg(OPCODE_CMP|DP_S, 0, rn, rm, SHIFT_LSL, 0)) }
func (e *Emitter) Tst(rn, rm Reg) { e.emit(dpReg(OPCODE_TST|DP_S, 0, rn, rm, SHIFT_LSL, 0)) }

// CmpLSL compares rn with rm << shift.
func (e *Emitter) CmpLSL(rn, rm Reg, shift uint32) {
	e.emit(dpReg(OPCODE_CMP|DP_S, 0, rn, rm, SHIFT_LSL, shift))
}

func (e *Emitter) CmpImm(rn Reg, imm uint32) {
	if enc, ok := EncodeImm(imm); ok {
		e.emit(dpImm(COND_AL, OPCODE_CMP|DP_S, 0, rn, enc))
	} else if enc, ok := EncodeImm(-imm); ok {
		e.emit(dpImm(COND_AL, OPCODE_CMN|DP_S, 0, rn, enc))
	} else {
		tmp := scratch(rn)
		e.MovImm(tmp, imm)
		e.Cmp(rn, tmp)
	}
}

func (e *Emitter) TstImm(rn Reg, imm uint32) {
	if enc, ok := EncodeImm(imm); ok {
		e.emit(dpImm(COND_AL, OPCODE_TST|DP_S, 0, rn, enc))
	} else {
		tmp := scratch(rn)
		e.MovImm(tmp, imm)
		e.Tst(rn, tmp)
	}
}

// ---- bitfields and extends ----

func (e *Emitter) Ubfx(rd, rn Reg, lsb, width uint32) {
	if width == 0 || lsb+width > 32 {
		badImm("UBFX", lsb<<8|width)
	}
	e.emit(uint32(COND_AL) | OPCODE_UBFX | (width-1)<<16 | uint32(rd)<<12 | lsb<<7 | uint32(rn))
}

func (e *Emitter) Sbfx(rd, rn Reg, lsb, width uint32) {
	if width == 0 || lsb+width > 32 {
		badImm("SBFX", lsb<<8|width)
	}
	e.emit(uint32(COND_AL) | OPCODE_SBFX | (width-1)<<16 | uint32(rd)<<12 | lsb<<7 | uint32(rn))
}

// Bfi inserts the low width bits of rn into rd at lsb.
func (e *Emitter) Bfi(rd, rn Reg, lsb, width uint32) {
	if width == 0 || lsb+width > 32 {
		badImm("BFI", lsb<<8|width)
	}
	e.emit(uint32(COND_AL) | OPCODE_BFI | (lsb+width-1)<<16 | uint32(rd)<<12 | lsb<<7 | uint32(rn))
}

func (e *Emitter) Uxtb(rd, rm Reg) { e.emit(uint32(COND_AL) | OPCODE_UXTB | uint32(rd)<<12 | uint32(rm)) }
func (e *Emitter) Uxth(rd, rm Reg) { e.emit(uint32(COND_AL) | OPCODE_UXTH | uint32(rd)<<12 | uint32(rm)) }
func (e *Emitter) Sxtb(rd, rm Reg) { e.emit(uint32(COND_AL) | OPCODE_SXTB | uint32(rd)<<12 | uint32(rm)) }
func (e *Emitter) Sxth(rd, rm Reg) { e.emit(uint32(COND_AL) | OPCODE_SXTH | uint32(rd)<<12 | uint32(rm)) }

func (e *Emitter) Nop() { e.emit(uint32(COND_AL) | OPCODE_NOP) }
