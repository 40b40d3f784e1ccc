package arm

import (
	"fmt"

	"github.com/colorfulnotion/dynarec/codeblock"
	"github.com/colorfulnotion/dynarec/config"
	"github.com/colorfulnotion/dynarec/cpustate"
	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/colorfulnotion/dynarec/ir"
	"github.com/colorfulnotion/dynarec/log"
)

// Symbols are the host addresses generated code calls or reads.
type Symbols struct {
	CPUState     uint32
	ReadLookup2  uint32
	WriteLookup2 uint32
	ReadMem      [4]uint32 // byte, word, long, quad
	WriteMem     [4]uint32
	X86GPF       uint32
	X86Int       uint32
	LoadSeg      uint32
	FRound64     uint32 // int64 fround64(double), value in D0, result in R0:R1
	FILD64       uint32 // double fild64(int64), value in R0:R1, result in D0
}

// SymbolsFromConfig resolves every required symbol of cfg.
func SymbolsFromConfig(cfg *config.Config) (Symbols, error) {
	var s Symbols
	targets := map[string]*uint32{
		config.SymCPUState:     &s.CPUState,
		config.SymReadLookup2:  &s.ReadLookup2,
		config.SymWriteLookup2: &s.WriteLookup2,
		config.SymReadMemB:     &s.ReadMem[0],
		config.SymReadMemW:     &s.ReadMem[1],
		config.SymReadMemL:     &s.ReadMem[2],
		config.SymReadMemQ:     &s.ReadMem[3],
		config.SymWriteMemB:    &s.WriteMem[0],
		config.SymWriteMemW:    &s.WriteMem[1],
		config.SymWriteMemL:    &s.WriteMem[2],
		config.SymWriteMemQ:    &s.WriteMem[3],
		config.SymX86GPF:       &s.X86GPF,
		config.SymX86Int:       &s.X86Int,
		config.SymLoadSeg:      &s.LoadSeg,
		config.SymFRound64:     &s.FRound64,
		config.SymFILD64:       &s.FILD64,
	}
	for _, name := range config.RequiredSymbols {
		v, err := cfg.Symbol(name)
		if err != nil {
			return s, err
		}
		*targets[name] = v
	}
	return s, nil
}

// MemSize selects a load/store trampoline.
type MemSize int

const (
	MemByte MemSize = iota
	MemWord
	MemLong
	MemQuad
	MemSingle
	MemDouble
	NumMemSizes
)

var memSizeNames = [NumMemSizes]string{"byte", "word", "long", "quad", "single", "double"}

func (m MemSize) String() string { return memSizeNames[m] }

// bytes is the access width, used for the alignment test.
func (m MemSize) bytes() uint32 {
	switch m {
	case MemByte:
		return 1
	case MemWord:
		return 2
	case MemLong, MemSingle:
		return 4
	}
	return 8
}

// Trampolines are the entry points of the shared helper routines.
type Trampolines struct {
	Load    [NumMemSizes]uint32
	Store   [NumMemSizes]uint32
	FPRound uint32
	GPF     uint32
	Exit    uint32
}

type lowerFunc func(b *Backend, u *ir.Uop)

// Backend is the ARM32 code generator. One block is compiled at a time.
type Backend struct {
	cfg   *config.Config
	arena *codeblock.Arena
	syms  Symbols
	tramp *codeblock.Page
	tr    Trampolines

	e     *Emitter
	block *codeblock.Block

	regs   []HostReg
	fpRegs []HostReg
}

// NewBackend checks the host FPU and the CPU state layout and builds the
// trampolines into a page taken from arena.
func NewBackend(cfg *config.Config, arena *codeblock.Arena, syms Symbols) (be *Backend, err error) {
	defer dynerrors.Recover(&err)
	if err := cpustate.Validate(); err != nil {
		return nil, err
	}
	if fpscr := cfg.HostFPSCR(); fpscr&FPSCR_RMODE_MASK != FPSCR_RMODE_RN {
		dynerrors.Fatalf(log.TrampolineMonitoring, dynerrors.ErrGHostFPUMode, "fpscr %#08x", fpscr)
	}
	if room := arena.PageSize() - JMP_LEN_BYTES; room <= fpRoundSize || room <= memRoutineSize {
		dynerrors.Fatalf(log.TrampolineMonitoring, dynerrors.ErrGTrampolineLayout, "page size %d", arena.PageSize())
	}
	be = &Backend{cfg: cfg, arena: arena, syms: syms}
	be.resetRegs()
	be.tramp = arena.Allocate(nil, codeblock.OwnerShared)
	be.e = NewEmitter(arena, be.tramp, codeblock.OwnerShared, true)
	be.buildTrampolines()
	size := be.e.Emitted()
	be.e.Finish()
	arena.CleanPages(be.tramp)
	be.e = nil
	log.Debug(log.TrampolineMonitoring, "trampolines built", "base", be.tramp.Base, "bytes", size)
	return be, nil
}

// Trampolines returns the helper entry points. They do not change after
// NewBackend returns.
func (b *Backend) Trampolines() Trampolines { return b.tr }

// TrampolinePage is the first page holding the helper routines.
func (b *Backend) TrampolinePage() *codeblock.Page { return b.tramp }

func (b *Backend) Symbols() Symbols { return b.syms }

// Prologue starts native code for block on a fresh page: save callee-saved
// registers, reserve the spill frame, point REG_CPUSTATE at the guest state
// and, for x87 blocks, record the TOP difference.
func (b *Backend) Prologue(block *codeblock.Block) {
	if block.Head != nil {
		b.arena.Free(block.Head)
	}
	block.Head = b.arena.Allocate(nil, block.Nr())
	b.block = block
	b.resetRegs()
	b.e = NewEmitter(b.arena, block.Head, block.Nr(), b.cfg.AssertPatches)
	e := b.e

	e.Stmdb(REG_HOST_SP, REG_MASK_R4_R11|REG_MASK_LR)
	e.SubImm(REG_HOST_SP, REG_HOST_SP, STACK_FRAME_SIZE)
	e.MovImm(REG_CPUSTATE, b.syms.CPUState)
	if block.Has(codeblock.FlagHasFPU) {
		e.LdrImm(REG_TEMP, REG_CPUSTATE, stateOff(cpustate.FieldTOP))
		e.SubImm(REG_TEMP, REG_TEMP, uint32(int32(block.TOP)))
		e.StrImm(REG_TEMP, REG_HOST_SP, STACK_TOP_DIFF)
	}
}

// Epilogue closes the block and makes its pages executable.
func (b *Backend) Epilogue(block *codeblock.Block) {
	e := b.emitter()
	e.AddImm(REG_HOST_SP, REG_HOST_SP, STACK_FRAME_SIZE)
	e.Ldmia(REG_HOST_SP, REG_MASK_R4_R11|REG_MASK_PC)
	e.Finish()
	b.arena.CleanPages(block.Head)
	block.Flags |= codeblock.FlagWasRecompiled
	b.block = nil
}

// Lower emits the native sequence for one uop.
func (b *Backend) Lower(u *ir.Uop) {
	b.emitter()
	if u.Op >= ir.NumOps || lowerTable[u.Op] == nil {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGUnknownUop, "%s", u.Op)
	}
	b.claim(u)
	lowerTable[u.Op](b, u)
}

// SetJumpDest resolves a deferred branch to the current position.
func (b *Backend) SetJumpDest(site codeblock.PatchSite) {
	b.emitter().SetJumpDest(site)
}

// Emitted is the byte count of the block being compiled, or of the last one.
func (b *Backend) Emitted() int {
	if b.e == nil {
		return 0
	}
	return b.e.Emitted()
}

// Emitter exposes the cursor of the block in progress to allocator helpers.
func (b *Backend) Emitter() *Emitter { return b.emitter() }

func (b *Backend) emitter() *Emitter {
	if b.e == nil {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGNoActivePage, "no block in progress")
	}
	return b.e
}

func (b *Backend) badWidth(u *ir.Uop) {
	dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGBadWidth, "%s", u)
}

func stateOff(f cpustate.Field) int32 { return int32(cpustate.Offset(f)) }

// hr and hv map an operand descriptor to its host register.
func hr(r ir.Reg) Reg  { return Reg(r.Host()) }
func hv(r ir.Reg) VReg { return VReg(r.Host()) }

func (b *Backend) String() string {
	return fmt.Sprintf("arm backend: state %#08x, trampolines %#08x", b.syms.CPUState, b.tramp.Base)
}
