package arm

// neon3 encodes a three-register D form: Dd = Dn op Dm.
func neon3(op uint32, size uint32, d, n, m VReg) uint32 {
	vdn, dbit := vd(d)
	vnn, nbit := vd(n)
	vmn, mbit := vd(m)
	return op | dbit<<22 | size<<20 | vnn<<16 | vdn<<12 | nbit<<7 | mbit<<5 | vmn
}

// neon2 encodes a two-register miscellaneous form (size at bits 18..19).
func neon2(op uint32, size uint32, d, m VReg) uint32 {
	vdn, dbit := vd(d)
	vmn, mbit := vd(m)
	return op | dbit<<22 | size<<18 | vdn<<12 | mbit<<5 | vmn
}

// Neon3 emits an integer or float three-register op on D registers.
func (e *Emitter) Neon3(op, size uint32, d, n, m VReg) { e.emit(neon3(op, size, d, n, m)) }

func (e *Emitter) Vand(d, n, m VReg) { e.emit(neon3(OPCODE_VAND, 0, d, n, m)) }
func (e *Emitter) Vbic(d, n, m VReg) { e.emit(neon3(OPCODE_VBIC, 0, d, n, m)) }
func (e *Emitter) Vorr(d, n, m VReg) { e.emit(neon3(OPCODE_VORR, 0, d, n, m)) }
func (e *Emitter) Veor(d, n, m VReg) { e.emit(neon3(OPCODE_VEOR, 0, d, n, m)) }

// VmullS16 is VMULL.S16 Qd, Dn, Dm with Qd given by its low D register.
func (e *Emitter) VmullS16(qd VReg, n, m VReg) { e.emit(neon3(OPCODE_VMULL_S, NEON_SIZE_16, qd, n, m)) }

// VpaddI32 adds adjacent pairs of Dn:Dm.
func (e *Emitter) VpaddI32(d, n, m VReg) { e.emit(neon3(OPCODE_VPADD_I, NEON_SIZE_32, d, n, m)) }

func neonShift(op uint32, imm6 uint32, l uint32, d, m VReg) uint32 {
	vdn, dbit := vd(d)
	vmn, mbit := vd(m)
	return op | dbit<<22 | (imm6&0x3f)<<16 | vdn<<12 | l | mbit<<5 | vmn
}

// VshlImm shifts each element of esize bits left by shift (1..esize-1).
func (e *Emitter) VshlImm(esize uint32, d, m VReg, shift uint32) {
	if shift == 0 || shift >= esize {
		badImm("VSHL", shift)
	}
	if esize == 64 {
		e.emit(neonShift(OPCODE_VSHL_IMM, shift, NEON_SHIFT_L, d, m))
		return
	}
	e.emit(neonShift(OPCODE_VSHL_IMM, esize+shift, 0, d, m))
}

func (e *Emitter) vshr(op uint32, esize uint32, d, m VReg, shift uint32) {
	if shift == 0 || shift > esize {
		badImm("VSHR", shift)
	}
	if esize == 64 {
		e.emit(neonShift(op, 64-shift, NEON_SHIFT_L, d, m))
		return
	}
	e.emit(neonShift(op, 2*esize-shift, 0, d, m))
}

// VshrUImm is a logical right shift of each element by 1..esize.
func (e *Emitter) VshrUImm(esize uint32, d, m VReg, shift uint32) {
	e.vshr(OPCODE_VSHR_U_IMM, esize, d, m, shift)
}

// VshrSImm is an arithmetic right shift of each element by 1..esize.
func (e *Emitter) VshrSImm(esize uint32, d, m VReg, shift uint32) {
	e.vshr(OPCODE_VSHR_S_IMM, esize, d, m, shift)
}

// VshrnI32 narrows each 32-bit element of Qm (low D register given) to 16 bits after shifting right.
func (e *Emitter) VshrnI32(d VReg, qm VReg, shift uint32) {
	if shift == 0 || shift > 16 {
		badImm("VSHRN", shift)
	}
	e.emit(neonShift(OPCODE_VSHRN, 32-shift, 0, d, qm))
}

// Vzip interleaves Dd and Dm in place; esize is 8 or 16.
func (e *Emitter) Vzip(size uint32, d, m VReg) { e.emit(neon2(OPCODE_VZIP, size, d, m)) }

// Vtrn transposes element pairs of Dd and Dm in place.
func (e *Emitter) Vtrn(size uint32, d, m VReg) { e.emit(neon2(OPCODE_VTRN, size, d, m)) }

// VqmovnS narrows the signed elements of Qm with saturation; size is the result element size.
func (e *Emitter) VqmovnS(size uint32, d, qm VReg) { e.emit(neon2(OPCODE_VQMOVN_S, size, d, qm)) }

// Vqmovun narrows signed elements of Qm to unsigned with saturation.
func (e *Emitter) Vqmovun(size uint32, d, qm VReg) { e.emit(neon2(OPCODE_VQMOVUN, size, d, qm)) }

// Vdup32 broadcasts lane 0 of Dm to both lanes of Dd.
func (e *Emitter) Vdup32(d, m VReg) {
	vdn, dbit := vd(d)
	vmn, mbit := vd(m)
	e.emit(OPCODE_VDUP_32 | dbit<<22 | vdn<<12 | mbit<<5 | vmn)
}

// NeonUnaryF32 emits a two-register float/int conversion or estimate.
func (e *Emitter) NeonUnaryF32(op uint32, d, m VReg) {
	vdn, dbit := vd(d)
	vmn, mbit := vd(m)
	e.emit(op | dbit<<22 | vdn<<12 | mbit<<5 | vmn)
}
