package arm

import (
	"github.com/colorfulnotion/dynarec/cpustate"
	"github.com/colorfulnotion/dynarec/ir"
	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/colorfulnotion/dynarec/log"
)

// Register allocator support: moving values between host registers and
// guest state, either at a fixed host address or in the spill frame.

// stateRel returns the offset of p from the CPU state base when p lies
// inside the state and reach covers it.
func (b *Backend) stateRel(p uint32, reach int32) (int32, bool) {
	if !cpustate.Contains(b.syms.CPUState, p) {
		return 0, false
	}
	off := int32(p - b.syms.CPUState)
	return off, off <= reach
}

// base returns a register and offset addressing p. Addresses outside the
// state are materialized into tmp.
func (b *Backend) base(p uint32, reach int32, tmp Reg) (Reg, int32) {
	if off, ok := b.stateRel(p, reach); ok {
		return REG_CPUSTATE, off
	}
	b.emitter().MovImm(tmp, p)
	return tmp, 0
}

func (b *Backend) vfpBase(p uint32, tmp Reg) (Reg, int32) {
	if off, ok := b.stateRel(p, 1020); ok && off&3 == 0 {
		return REG_CPUSTATE, off
	}
	b.emitter().MovImm(tmp, p)
	return tmp, 0
}

// DirectRead8 zero-extends the byte at p into r.
func (b *Backend) DirectRead8(r Reg, p uint32) {
	rn, off := b.base(p, 4095, r)
	b.emitter().LdrbImm(r, rn, off)
}

// DirectRead16 zero-extends the halfword at p into r.
func (b *Backend) DirectRead16(r Reg, p uint32) {
	rn, off := b.base(p, 255, r)
	b.emitter().LdrhImm(r, rn, off)
}

func (b *Backend) DirectRead32(r Reg, p uint32) {
	rn, off := b.base(p, 4095, r)
	b.emitter().LdrImm(r, rn, off)
}

// DirectRead64 loads the 64-bit value at p into a D register.
func (b *Backend) DirectRead64(v VReg, p uint32) {
	rn, off := b.vfpBase(p, REG_TEMP)
	b.emitter().VldrD(v, rn, off)
}

func (b *Backend) DirectReadDouble(v VReg, p uint32) { b.DirectRead64(v, p) }

func (b *Backend) DirectWrite8(r Reg, p uint32) {
	rn, off := b.base(p, 4095, scratch(r))
	b.emitter().StrbImm(r, rn, off)
}

func (b *Backend) DirectWrite16(r Reg, p uint32) {
	rn, off := b.base(p, 255, scratch(r))
	b.emitter().StrhImm(r, rn, off)
}

func (b *Backend) DirectWrite32(r Reg, p uint32) {
	rn, off := b.base(p, 4095, scratch(r))
	b.emitter().StrImm(r, rn, off)
}

func (b *Backend) DirectWrite64(v VReg, p uint32) {
	rn, off := b.vfpBase(p, REG_TEMP)
	b.emitter().VstrD(v, rn, off)
}

func (b *Backend) DirectWriteDouble(v VReg, p uint32) { b.DirectWrite64(v, p) }

// stSlot leaves in REG_TEMP the address of physical x87 register
// (TOP + idx) & 7, with TOP taken from the frame's TOP difference.
func (b *Backend) stSlot(idx int) {
	e := b.emitter()
	e.LdrImm(REG_TEMP, REG_HOST_SP, STACK_TOP_DIFF)
	if idx != 0 {
		e.AddImm(REG_TEMP, REG_TEMP, uint32(idx))
	}
	e.AndImm(REG_TEMP, REG_TEMP, 7)
	e.AddLSL(REG_TEMP, REG_CPUSTATE, REG_TEMP, 3)
}

// DirectReadST loads x87 register idx, relative to the block's TOP, from the
// 8-entry array at p.
func (b *Backend) DirectReadST(v VReg, p uint32, idx int) {
	off, ok := b.stateRel(p, 1020-7*8)
	if !ok {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGRangeExceeded, "st array %#08x", p)
	}
	b.stSlot(idx)
	b.emitter().VldrD(v, REG_TEMP, off)
}

func (b *Backend) DirectWriteST(v VReg, p uint32, idx int) {
	off, ok := b.stateRel(p, 1020-7*8)
	if !ok {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGRangeExceeded, "st array %#08x", p)
	}
	b.stSlot(idx)
	b.emitter().VstrD(v, REG_TEMP, off)
}

func spillOffset(slot int) int32 {
	if slot < 0 || slot >= STACK_SPILL_SLOTS {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGRangeExceeded, "spill slot %d", slot)
	}
	return int32(STACK_SPILL_BASE + slot*8)
}

// ReadStack and WriteStack move a core register to and from a spill slot.
func (b *Backend) ReadStack(r Reg, slot int)  { b.emitter().LdrImm(r, REG_HOST_SP, spillOffset(slot)) }
func (b *Backend) WriteStack(r Reg, slot int) { b.emitter().StrImm(r, REG_HOST_SP, spillOffset(slot)) }

func (b *Backend) ReadStackDouble(v VReg, slot int)  { b.emitter().VldrD(v, REG_HOST_SP, spillOffset(slot)) }
func (b *Backend) WriteStackDouble(v VReg, slot int) { b.emitter().VstrD(v, REG_HOST_SP, spillOffset(slot)) }

func (b *Backend) resetRegs() {
	b.regs = append(b.regs[:0], HostRegs...)
	b.fpRegs = append(b.fpRegs[:0], HostFPRegs...)
}

// HostRegs returns the allocation state of the core register table for the
// block being compiled.
func (b *Backend) HostRegs() []HostReg { return append([]HostReg(nil), b.regs...) }

// HostFPRegs is HostRegs for the D register table.
func (b *Backend) HostFPRegs() []HostReg { return append([]HostReg(nil), b.fpRegs...) }

func mark(tab []HostReg, num int, on bool) {
	for i := range tab {
		if tab[i].Num == num {
			tab[i].Allocated = on
			return
		}
	}
}

func firstFree(tab []HostReg) (int, bool) {
	for i := range tab {
		if !tab[i].Allocated {
			tab[i].Allocated = true
			return tab[i].Num, true
		}
	}
	return 0, false
}

// claim marks the host registers a uop names as allocated.
func (b *Backend) claim(u *ir.Uop) {
	regs := [4]ir.Reg{u.Dest, u.Src[0], u.Src[1], u.Src[2]}
	for _, r := range regs {
		switch {
		case !r.Valid():
		case r.IsD() || r.IsQ():
			mark(b.fpRegs, r.Host(), true)
		default:
			mark(b.regs, r.Host(), true)
		}
	}
}

// AllocReg hands out the first free core register of the table.
func (b *Backend) AllocReg() (Reg, bool) {
	n, ok := firstFree(b.regs)
	return Reg(n), ok
}

// AllocFPReg hands out the first free D register of the table.
func (b *Backend) AllocFPReg() (VReg, bool) {
	n, ok := firstFree(b.fpRegs)
	return VReg(n), ok
}

func (b *Backend) FreeReg(r Reg)    { mark(b.regs, int(r), false) }
func (b *Backend) FreeFPReg(v VReg) { mark(b.fpRegs, int(v), false) }
