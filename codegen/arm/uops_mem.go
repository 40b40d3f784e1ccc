package arm

import (
	"github.com/colorfulnotion/dynarec/ir"
)

// memSizeOf picks the trampoline for a register operand.
func memSizeOf(r ir.Reg) (MemSize, bool) {
	switch r.Size() {
	case ir.SizeB, ir.SizeBH:
		return MemByte, true
	case ir.SizeW:
		return MemWord, true
	case ir.SizeL:
		return MemLong, true
	case ir.SizeQ:
		return MemQuad, true
	case ir.SizeD:
		return MemDouble, true
	}
	return 0, false
}

// address leaves seg [+ addr] + imm in R0.
func (b *Backend) address(seg, addr ir.Reg, imm uint32) {
	e := b.e
	if addr.Valid() {
		e.Add(R0, hr(seg), hr(addr))
		if imm != 0 {
			e.AddImm(R0, R0, imm)
		}
		return
	}
	e.AddImm(R0, hr(seg), imm)
}

// callLoad runs the load trampoline and leaves the block on an abort.
func (b *Backend) callLoad(m MemSize) {
	b.e.BL(b.tr.Load[m])
	b.exitOnAbort(R1)
}

func (b *Backend) callStore(m MemSize) {
	b.e.BL(b.tr.Store[m])
	b.exitOnAbort(R1)
}

// loadResult moves the trampoline result into d.
func (b *Backend) loadResult(u *ir.Uop, d ir.Reg) {
	if d.IsQ() || d.IsD() {
		b.e.VmovF64(hv(d), REG_D_TEMP)
		return
	}
	b.insert(u, d, R0)
}

func (b *Backend) memLoad(u *ir.Uop, addr ir.Reg) {
	m, ok := memSizeOf(u.Dest)
	if !ok || !u.Src[0].IsL() {
		b.badWidth(u)
	}
	b.address(u.Src[0], addr, u.Imm)
	b.callLoad(m)
	b.loadResult(u, u.Dest)
}

func lowerMemLoadAbs(b *Backend, u *ir.Uop) { b.memLoad(u, ir.RegNone) }
func lowerMemLoadReg(b *Backend, u *ir.Uop) { b.memLoad(u, u.Src[1]) }

// lowerMemLoadSingle loads a float32 and widens it into a double register.
func lowerMemLoadSingle(b *Backend, u *ir.Uop) {
	if !u.Dest.IsD() {
		b.badWidth(u)
	}
	b.address(u.Src[0], u.Src[1], u.Imm)
	b.callLoad(MemSingle)
	b.e.VcvtF64F32(hv(u.Dest), S0)
}

func lowerMemLoadDouble(b *Backend, u *ir.Uop) {
	if !u.Dest.IsD() {
		b.badWidth(u)
	}
	b.address(u.Src[0], u.Src[1], u.Imm)
	b.callLoad(MemDouble)
	b.e.VmovF64(hv(u.Dest), REG_D_TEMP)
}

// storeData moves the value to store into the trampoline's data register.
func (b *Backend) storeData(u *ir.Uop, data ir.Reg) MemSize {
	m, ok := memSizeOf(data)
	if !ok {
		b.badWidth(u)
	}
	switch m {
	case MemQuad, MemDouble:
		b.e.VmovF64(REG_D_TEMP, hv(data))
	default:
		b.zeroExtend(u, R1, data)
	}
	return m
}

func lowerMemStoreAbs(b *Backend, u *ir.Uop) {
	if !u.Src[0].IsL() {
		b.badWidth(u)
	}
	b.address(u.Src[0], ir.RegNone, u.Imm)
	b.callStore(b.storeData(u, u.Src[1]))
}

func lowerMemStoreReg(b *Backend, u *ir.Uop) {
	if !u.Src[0].IsL() || !u.Src[1].IsL() {
		b.badWidth(u)
	}
	b.address(u.Src[0], u.Src[1], u.Imm)
	b.callStore(b.storeData(u, u.Src[2]))
}

// storeImm stores the immediate at seg + addr.
func storeImm(m MemSize) lowerFunc {
	mask := uint32(1)<<(8*m.bytes()) - 1
	return func(b *Backend, u *ir.Uop) {
		if !u.Src[0].IsL() || !u.Src[1].IsL() {
			b.badWidth(u)
		}
		b.address(u.Src[0], u.Src[1], 0)
		b.e.MovImm(R1, u.Imm&mask)
		b.callStore(m)
	}
}

// lowerMemStoreSingle narrows a double register to float32 and stores it.
func lowerMemStoreSingle(b *Backend, u *ir.Uop) {
	if !u.Src[2].IsD() {
		b.badWidth(u)
	}
	b.address(u.Src[0], u.Src[1], u.Imm)
	b.e.VcvtF32F64(S0, hv(u.Src[2]))
	b.callStore(MemSingle)
}

func lowerMemStoreDouble(b *Backend, u *ir.Uop) {
	if !u.Src[2].IsD() {
		b.badWidth(u)
	}
	b.address(u.Src[0], u.Src[1], u.Imm)
	b.e.VmovF64(REG_D_TEMP, hv(u.Src[2]))
	b.callStore(MemDouble)
}
