package arm

import (
	"github.com/colorfulnotion/dynarec/codeblock"
	"github.com/colorfulnotion/dynarec/cpustate"
	"github.com/colorfulnotion/dynarec/log"
)

// Trampoline register convention: R0 address, R1 data (S0/D0 for single,
// quad and double data). Loads return the value in R0 (S0/D0); every routine
// returns the abort flag in R1, zero when the access completed.

const (
	memRoutineSize = 4 * 20
	fpRoundSize    = 4 * 30
	gpfExitSize    = 4 * 8
)

func (b *Backend) buildTrampolines() {
	for m := MemByte; m < NumMemSizes; m++ {
		b.tr.Load[m] = b.buildLoadRoutine(m)
	}
	for m := MemByte; m < NumMemSizes; m++ {
		b.tr.Store[m] = b.buildStoreRoutine(m)
	}
	b.tr.FPRound = b.buildFPRoundRoutine()
	b.tr.GPF, b.tr.Exit = b.buildGPFAndExit()
}

func (b *Backend) readMem(m MemSize) uint32 {
	switch m {
	case MemSingle:
		return b.syms.ReadMem[MemLong]
	case MemDouble:
		return b.syms.ReadMem[MemQuad]
	}
	return b.syms.ReadMem[m]
}

func (b *Backend) writeMem(m MemSize) uint32 {
	switch m {
	case MemSingle:
		return b.syms.WriteMem[MemLong]
	case MemDouble:
		return b.syms.WriteMem[MemQuad]
	}
	return b.syms.WriteMem[m]
}

// lookup translates the address in R0 through table into rt and branches to
// the slow path on a misaligned address or a missing entry.
func (b *Backend) lookup(m MemSize, rt, rtab Reg, table uint32) []codeblock.PatchSite {
	e := b.e
	var slow []codeblock.PatchSite
	e.MovLSR(rt, R0, 12)
	e.MovImm(rtab, table)
	e.LdrReg(rt, rtab, rt, 2)
	if w := m.bytes(); w > 1 {
		e.TstImm(R0, w-1)
		slow = append(slow, e.BForward(COND_NE))
	}
	e.CmpImm(rt, 0xffffffff)
	slow = append(slow, e.BForward(COND_EQ))
	return slow
}

// buildLoadRoutine reads directly on a lookup hit, otherwise calls the
// slow-path reader with LR saved on the stack.
func (b *Backend) buildLoadRoutine(m MemSize) uint32 {
	e := b.e
	e.Alloc(memRoutineSize)
	entry := e.Addr()

	slow := b.lookup(m, R1, R2, b.syms.ReadLookup2)
	switch m {
	case MemByte:
		e.LdrbReg(R0, R1, R0)
	case MemWord:
		e.LdrhReg(R0, R1, R0)
	case MemLong:
		e.LdrReg(R0, R1, R0, 0)
	case MemQuad, MemDouble:
		e.Add(R1, R1, R0)
		e.VldrD(REG_D_TEMP, R1, 0)
	case MemSingle:
		e.Add(R1, R1, R0)
		e.VldrS(S0, R1, 0)
	}
	e.MovImm(R1, 0)
	e.MovPC(REG_LR)

	for _, s := range slow {
		e.SetJumpDest(s)
	}
	e.StrPreWB(REG_LR, REG_HOST_SP, -4)
	e.BL(b.readMem(m))
	switch m {
	case MemQuad, MemDouble:
		e.VmovDRR(REG_D_TEMP, R0, R1)
	case MemSingle:
		e.VmovSR(S0, R0)
	}
	e.LdrbImm(R1, REG_CPUSTATE, stateOff(cpustate.FieldAbrt))
	e.LdrPost(REG_PC, REG_HOST_SP, 4)

	log.Trace(log.TrampolineMonitoring, "load routine", "size", m.String(), "entry", entry)
	return entry
}

// buildStoreRoutine mirrors buildLoadRoutine through writelookup2. The slow
// path passes 64-bit data in R2:R3 as the calling convention requires.
func (b *Backend) buildStoreRoutine(m MemSize) uint32 {
	e := b.e
	e.Alloc(memRoutineSize)
	entry := e.Addr()

	slow := b.lookup(m, R2, R3, b.syms.WriteLookup2)
	switch m {
	case MemByte:
		e.StrbReg(R1, R2, R0)
	case MemWord:
		e.StrhReg(R1, R2, R0)
	case MemLong:
		e.StrReg(R1, R2, R0)
	case MemQuad, MemDouble:
		e.Add(R2, R2, R0)
		e.VstrD(REG_D_TEMP, R2, 0)
	case MemSingle:
		e.Add(R2, R2, R0)
		e.VstrS(S0, R2, 0)
	}
	e.MovImm(R1, 0)
	e.MovPC(REG_LR)

	for _, s := range slow {
		e.SetJumpDest(s)
	}
	switch m {
	case MemQuad, MemDouble:
		e.VmovRRD(R2, R3, REG_D_TEMP)
	case MemSingle:
		e.VmovRS(R1, S0)
	}
	e.StrPreWB(REG_LR, REG_HOST_SP, -4)
	e.BL(b.writeMem(m))
	e.LdrbImm(R1, REG_CPUSTATE, stateOff(cpustate.FieldAbrt))
	e.LdrPost(REG_PC, REG_HOST_SP, 4)

	log.Trace(log.TrampolineMonitoring, "store routine", "size", m.String(), "entry", entry)
	return entry
}

// buildFPRoundRoutine converts D0 to a signed word in S0 using the x87
// rounding control in NewFPControl. Only round-to-nearest and chop have a
// direct conversion; up and down switch FPSCR.RMode around a VCVTR and put
// the saved FPSCR back. The routine must not straddle a page: the jump
// table is addressed PC-relative.
func (b *Backend) buildFPRoundRoutine() uint32 {
	e := b.e
	e.Alloc(fpRoundSize)
	entry := e.Addr()

	e.Mov(R2, REG_LR)
	e.LdrImm(R3, REG_CPUSTATE, stateOff(cpustate.FieldNewFPControl))
	e.LdrPCTable(R3)
	e.Nop()
	var table [4]slot
	for i := range table {
		table[i] = e.reserve()
	}

	table[0].set(e.Addr())
	e.VcvtrS32F64(S0, REG_D_TEMP)
	e.MovPC(R2)

	directed := []struct {
		idx   int
		rmode uint32
	}{{1, FPSCR_RMODE_RM}, {2, FPSCR_RMODE_RP}}
	for _, d := range directed {
		table[d.idx].set(e.Addr())
		e.Vmrs(R3)
		e.StrImm(R3, REG_CPUSTATE, stateOff(cpustate.FieldOldFPControl))
		e.BicImm(R3, R3, FPSCR_RMODE_MASK)
		e.OrrImm(R3, R3, d.rmode)
		e.Vmsr(R3)
		e.VcvtrS32F64(S0, REG_D_TEMP)
		e.LdrImm(R3, REG_CPUSTATE, stateOff(cpustate.FieldOldFPControl))
		e.Vmsr(R3)
		e.MovPC(R2)
	}

	table[3].set(e.Addr())
	e.VcvtS32F64(S0, REG_D_TEMP)
	e.MovPC(R2)

	log.Trace(log.TrampolineMonitoring, "fp round routine", "entry", entry)
	return entry
}

// buildGPFAndExit raises #GP(0) and falls through into the block exit,
// which unwinds the prologue frame and returns to the dispatcher.
func (b *Backend) buildGPFAndExit() (uint32, uint32) {
	e := b.e
	e.Alloc(gpfExitSize)
	gpf := e.Addr()
	e.MovImm(R0, 0)
	e.MovImm(R1, 0)
	e.BL(b.syms.X86GPF)

	exit := e.Addr()
	e.AddImm(REG_HOST_SP, REG_HOST_SP, STACK_FRAME_SIZE)
	e.Ldmia(REG_HOST_SP, REG_MASK_R4_R11|REG_MASK_PC)

	log.Trace(log.TrampolineMonitoring, "gpf and exit", "gpf", gpf, "exit", exit)
	return gpf, exit
}
