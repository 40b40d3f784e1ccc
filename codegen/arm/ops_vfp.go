package arm

// VFP double-precision data processing: Dd = Dn op Dm.
func vfp3(op uint32, d, n, m VReg) uint32 {
	vdn, dbit := vd(d)
	vnn, nbit := vd(n)
	vmn, mbit := vd(m)
	return op | dbit<<22 | vnn<<16 | vdn<<12 | nbit<<7 | mbit<<5 | vmn
}

// vfp2 is Dd = op(Dm).
func vfp2(op uint32, d, m VReg) uint32 { return vfp3(op, d, 0, m) }

func (e *Emitter) VaddF64(d, n, m VReg) { e.emit(vfp3(OPCODE_VADD_F64, d, n, m)) }
func (e *Emitter) VsubF64(d, n, m VReg) { e.emit(vfp3(OPCODE_VSUB_F64, d, n, m)) }
func (e *Emitter) VmulF64(d, n, m VReg) { e.emit(vfp3(OPCODE_VMUL_F64, d, n, m)) }
func (e *Emitter) VdivF64(d, n, m VReg) { e.emit(vfp3(OPCODE_VDIV_F64, d, n, m)) }
func (e *Emitter) VsqrtF64(d, m VReg)   { e.emit(vfp2(OPCODE_VSQRT_F64, d, m)) }
func (e *Emitter) VabsF64(d, m VReg)    { e.emit(vfp2(OPCODE_VABS_F64, d, m)) }
func (e *Emitter) VnegF64(d, m VReg)    { e.emit(vfp2(OPCODE_VNEG_F64, d, m)) }
func (e *Emitter) VmovF64(d, m VReg)    { e.emit(vfp2(OPCODE_VMOV_F64, d, m)) }

// vfp3S is the single-precision form: Sd = Sn op Sm.
func vfp3S(op uint32, d, n, m SReg) uint32 {
	vdn, dbit := sd(d)
	vnn, nbit := sd(n)
	vmn, mbit := sd(m)
	return op | dbit<<22 | vnn<<16 | vdn<<12 | nbit<<7 | mbit<<5 | vmn
}

func (e *Emitter) VdivF32(d, n, m SReg) { e.emit(vfp3S(OPCODE_VDIV_F32, d, n, m)) }
func (e *Emitter) VsqrtF32(d, m SReg)   { e.emit(vfp3S(OPCODE_VSQRT_F32, d, 0, m)) }

// VcmpF64 compares Dd with Dm into FPSCR flags; VMRS APSR moves them to the CPSR.
func (e *Emitter) VcmpF64(d, m VReg) { e.emit(vfp2(OPCODE_VCMP_F64, d, m)) }

// VcmpZeroF64 compares Dd with +0.0.
func (e *Emitter) VcmpZeroF64(d VReg) { e.emit(vfp2(OPCODE_VCMPZ_F64, d, 0)) }

func (e *Emitter) VmrsAPSR()     { e.emit(OPCODE_VMRS_APSR) }
func (e *Emitter) Vmrs(rt Reg)   { e.emit(OPCODE_VMRS | uint32(rt)<<12) }
func (e *Emitter) Vmsr(rt Reg)   { e.emit(OPCODE_VMSR | uint32(rt)<<12) }

func cvtSD(op uint32, s SReg, m VReg) uint32 {
	vdn, dbit := sd(s)
	vmn, mbit := vd(m)
	return op | dbit<<22 | vdn<<12 | mbit<<5 | vmn
}

func cvtDS(op uint32, d VReg, s SReg) uint32 {
	vdn, dbit := vd(d)
	vmn, mbit := sd(s)
	return op | dbit<<22 | vdn<<12 | mbit<<5 | vmn
}

// VcvtS32F64 converts Dm to a signed word in Sd, rounding toward zero.
func (e *Emitter) VcvtS32F64(s SReg, m VReg) { e.emit(cvtSD(OPCODE_VCVT_S32_F64, s, m)) }

// VcvtrS32F64 converts Dm to a signed word in Sd using the FPSCR rounding mode.
func (e *Emitter) VcvtrS32F64(s SReg, m VReg) { e.emit(cvtSD(OPCODE_VCVTR_S32_F64, s, m)) }

// VcvtF64S32 converts the signed word in Sm to Dd.
func (e *Emitter) VcvtF64S32(d VReg, s SReg) { e.emit(cvtDS(OPCODE_VCVT_F64_S32, d, s)) }

// VcvtF64F32 widens Sm to Dd.
func (e *Emitter) VcvtF64F32(d VReg, s SReg) { e.emit(cvtDS(OPCODE_VCVT_F64_F32, d, s)) }

// VcvtF32F64 narrows Dm to Sd.
func (e *Emitter) VcvtF32F64(s SReg, m VReg) { e.emit(cvtSD(OPCODE_VCVT_F32_F64, s, m)) }

func (e *Emitter) vfpMem(op uint32, what string, vdn, dbit uint32, rn Reg, off int32) {
	if !fitsVFPOffset(off) {
		badOffset(what, off)
	}
	mag, up := splitOffset(off)
	e.emit(op | up | dbit<<22 | uint32(rn)<<16 | vdn<<12 | mag>>2)
}

func (e *Emitter) VldrD(d VReg, rn Reg, off int32) {
	vdn, dbit := vd(d)
	e.vfpMem(OPCODE_VLDR_D, "VLDR", vdn, dbit, rn, off)
}

func (e *Emitter) VstrD(d VReg, rn Reg, off int32) {
	vdn, dbit := vd(d)
	e.vfpMem(OPCODE_VSTR_D, "VSTR", vdn, dbit, rn, off)
}

func (e *Emitter) VldrS(s SReg, rn Reg, off int32) {
	vdn, dbit := sd(s)
	e.vfpMem(OPCODE_VLDR_S, "VLDR", vdn, dbit, rn, off)
}

func (e *Emitter) VstrS(s SReg, rn Reg, off int32) {
	vdn, dbit := sd(s)
	e.vfpMem(OPCODE_VSTR_S, "VSTR", vdn, dbit, rn, off)
}

// VmovSR is VMOV Sn, Rt.
func (e *Emitter) VmovSR(s SReg, rt Reg) {
	vn, nbit := sd(s)
	e.emit(OPCODE_VMOV_S_R | vn<<16 | uint32(rt)<<12 | nbit<<7)
}

// VmovRS is VMOV Rt, Sn.
func (e *Emitter) VmovRS(rt Reg, s SReg) {
	vn, nbit := sd(s)
	e.emit(OPCODE_VMOV_R_S | vn<<16 | uint32(rt)<<12 | nbit<<7)
}

// VmovDRR is VMOV Dm, Rt, Rt2 (Rt is the low word).
func (e *Emitter) VmovDRR(d VReg, rt, rt2 Reg) {
	vmn, mbit := vd(d)
	e.emit(OPCODE_VMOV_D_RR | uint32(rt2)<<16 | uint32(rt)<<12 | mbit<<5 | vmn)
}

// VmovRRD is VMOV Rt, Rt2, Dm.
func (e *Emitter) VmovRRD(rt, rt2 Reg, d VReg) {
	vmn, mbit := vd(d)
	e.emit(OPCODE_VMOV_RR_D | uint32(rt2)<<16 | uint32(rt)<<12 | mbit<<5 | vmn)
}

// VmovRD0 is VMOV.32 Rt, Dn[0].
func (e *Emitter) VmovRD0(rt Reg, d VReg) {
	vn, nbit := vd(d)
	e.emit(OPCODE_VMOV_R_D0 | vn<<16 | uint32(rt)<<12 | nbit<<7)
}
