package arm

import (
	"github.com/colorfulnotion/dynarec/ir"
)

// neonLogic maps a logical uop to its NEON form for Q operands.
var neonLogic = map[uint32]uint32{
	OPCODE_AND: OPCODE_VAND,
	OPCODE_ORR: OPCODE_VORR,
	OPCODE_EOR: OPCODE_VEOR,
}

// alu lowers d = a <op> c for every width the guest has: 32-bit operands map
// to one instruction, narrower ones compute into REG_TEMP and insert the
// result so the rest of the host register is untouched.
func alu(op uint32) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		e := b.e
		d, a, c := u.Dest, u.Src[0], u.Src[1]
		switch {
		case d.IsL() && a.IsL() && c.IsL():
			e.AluLSL(op, hr(d), hr(a), hr(c), 0)
		case d.IsW() && a.IsW() && c.IsW():
			e.AluLSL(op, REG_TEMP, hr(a), hr(c), 0)
			b.insert(u, d, REG_TEMP)
		case isByte(d) && isByte(a) && isByte(c):
			src := hr(a)
			if a.IsBH() {
				e.MovLSR(REG_TEMP, hr(a), 8)
				src = REG_TEMP
			}
			if c.IsBH() {
				e.AluLSR(op, REG_TEMP, src, hr(c), 8)
			} else {
				e.AluLSL(op, REG_TEMP, src, hr(c), 0)
			}
			b.insert(u, d, REG_TEMP)
		case d.IsQ() && a.IsQ() && c.IsQ() && neonLogic[op] != 0:
			e.Neon3(neonLogic[op], 0, hv(d), hv(a), hv(c))
		default:
			b.badWidth(u)
		}
	}
}

// lowerAndN is d = c & ~a, the PANDN operand order.
func lowerAndN(b *Backend, u *ir.Uop) {
	e := b.e
	d, a, c := u.Dest, u.Src[0], u.Src[1]
	switch {
	case d.IsL() && a.IsL() && c.IsL():
		e.Bic(hr(d), hr(c), hr(a))
	case d.IsW() && a.IsW() && c.IsW():
		e.Bic(REG_TEMP, hr(c), hr(a))
		b.insert(u, d, REG_TEMP)
	case d.IsQ() && a.IsQ() && c.IsQ():
		e.Vbic(hv(d), hv(c), hv(a))
	default:
		b.badWidth(u)
	}
}

type immEmit func(e *Emitter, rd, rn Reg, imm uint32)

var (
	addImm immEmit = (*Emitter).AddImm
	subImm immEmit = (*Emitter).SubImm
	andImm immEmit = (*Emitter).AndImm
	orrImm immEmit = (*Emitter).OrrImm
	eorImm immEmit = (*Emitter).EorImm
)

// fieldMask is the bits of the host register a narrow operand occupies.
func fieldMask(r ir.Reg) uint32 {
	switch r.Size() {
	case ir.SizeW:
		return 0xffff
	case ir.SizeB:
		return 0xff
	case ir.SizeBH:
		return 0xff00
	}
	return 0xffffffff
}

func fieldShift(r ir.Reg) uint32 {
	if r.IsBH() {
		return 8
	}
	return 0
}

// inPlace handles d == a for the logical immediates with a single
// instruction confined to the operand's bits. It reports false when the
// confined immediate is not encodable.
func (b *Backend) inPlace(op uint32, d ir.Reg, imm uint32) bool {
	mask := fieldMask(d)
	v := (imm << fieldShift(d)) & mask
	switch op {
	case OPCODE_ORR, OPCODE_EOR:
		if v == 0 {
			return true
		}
		if !IsImmEncodable(v) {
			return false
		}
		if op == OPCODE_ORR {
			b.e.OrrImm(hr(d), hr(d), v)
		} else {
			b.e.EorImm(hr(d), hr(d), v)
		}
		return true
	case OPCODE_AND:
		clear := mask &^ v
		if clear == 0 {
			return true
		}
		if !IsImmEncodable(clear) {
			return false
		}
		b.e.BicImm(hr(d), hr(d), clear)
		return true
	}
	return false
}

// aluImm lowers d = a <op> imm.
func aluImm(op uint32, emit immEmit) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		e := b.e
		d, a := u.Dest, u.Src[0]
		if d.Size() != a.Size() {
			b.badWidth(u)
		}
		switch d.Size() {
		case ir.SizeL:
			emit(e, hr(d), hr(a), u.Imm)
		case ir.SizeW, ir.SizeB:
			if d == a && b.inPlace(op, d, u.Imm) {
				return
			}
			emit(e, REG_TEMP, hr(a), u.Imm)
			b.insert(u, d, REG_TEMP)
		case ir.SizeBH:
			if d == a && b.inPlace(op, d, u.Imm) {
				return
			}
			emit(e, REG_TEMP, hr(a), (u.Imm&0xff)<<8)
			e.MovLSR(REG_TEMP, REG_TEMP, 8)
			b.insert(u, d, REG_TEMP)
		default:
			b.badWidth(u)
		}
	}
}

type shiftKind int

const (
	shiftSHL shiftKind = iota
	shiftSHR
	shiftSAR
	shiftROL
	shiftROR
)

func opWidth(r ir.Reg) uint32 {
	switch r.Size() {
	case ir.SizeW:
		return 16
	case ir.SizeB, ir.SizeBH:
		return 8
	}
	return 32
}

// replicate copies the low width bits of rt across the register so that a
// 32-bit rotate acts as a width-bit rotate.
func (b *Backend) replicate(rt Reg, width uint32) {
	for w := width; w < 32; w *= 2 {
		b.e.OrrLSL(rt, rt, rt, w)
	}
}

// shiftSource prepares REG_TEMP for a narrow shift: the operand extended the
// way the shift needs it.
func (b *Backend) shiftSource(u *ir.Uop, kind shiftKind, a ir.Reg) {
	switch kind {
	case shiftSHL:
		if a.IsBH() {
			b.extract(u, REG_TEMP, a, false)
		} else {
			b.e.Mov(REG_TEMP, hr(a))
		}
	case shiftSHR:
		b.extract(u, REG_TEMP, a, false)
	case shiftSAR:
		b.extract(u, REG_TEMP, a, true)
	case shiftROL, shiftROR:
		b.extract(u, REG_TEMP, a, false)
		b.replicate(REG_TEMP, opWidth(a))
	}
}

// countReg returns a register holding the shift count of c.
func (b *Backend) countReg(u *ir.Uop, c ir.Reg) Reg {
	if c.IsL() {
		return hr(c)
	}
	b.extract(u, REG_TEMP2, c, false)
	return REG_TEMP2
}

func (b *Backend) shiftReg(rd, rm, rs Reg, kind shiftKind) {
	switch kind {
	case shiftSHL:
		b.e.MovLSLReg(rd, rm, rs)
	case shiftSHR:
		b.e.MovLSRReg(rd, rm, rs)
	case shiftSAR:
		b.e.MovASRReg(rd, rm, rs)
	default:
		b.e.MovRORReg(rd, rm, rs)
	}
}

// shift lowers d = a <shift> c with the count in a register. A left rotate
// is a right rotate by 32 - count, which is the same rotation for every
// width that divides 32.
func shift(kind shiftKind) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		e := b.e
		d, a, c := u.Dest, u.Src[0], u.Src[1]
		if d.Size() != a.Size() || !isInt(d) || !isInt(c) {
			b.badWidth(u)
		}
		cnt := b.countReg(u, c)
		if kind == shiftROL {
			e.RsbImm(REG_TEMP2, cnt, 32)
			cnt = REG_TEMP2
		}
		if d.IsL() {
			b.shiftReg(hr(d), hr(a), cnt, kind)
			return
		}
		b.shiftSource(u, kind, a)
		b.shiftReg(REG_TEMP, REG_TEMP, cnt, kind)
		b.insert(u, d, REG_TEMP)
	}
}

func (b *Backend) shiftImm(rd, rm Reg, n uint32, kind shiftKind) {
	e := b.e
	if n == 0 {
		if rd != rm {
			e.Mov(rd, rm)
		}
		return
	}
	switch kind {
	case shiftSHL:
		e.MovLSL(rd, rm, n)
	case shiftSHR:
		e.MovLSR(rd, rm, n)
	case shiftSAR:
		e.MovASR(rd, rm, n)
	default:
		e.MovROR(rd, rm, n)
	}
}

// shiftImmediate lowers d = a <shift> imm. Counts are taken modulo 32 as
// the guest does; narrow operands shifted out completely come out as zero
// or sign fill.
func shiftImmediate(kind shiftKind) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		d, a := u.Dest, u.Src[0]
		if d.Size() != a.Size() || !isInt(d) {
			b.badWidth(u)
		}
		width := opWidth(d)
		n := u.Imm & 31
		k := kind
		if k == shiftROL || k == shiftROR {
			n %= width
			if k == shiftROL && n != 0 {
				n = width - n
			}
			k = shiftROR
		}
		if d.IsL() {
			b.shiftImm(hr(d), hr(a), n, k)
			return
		}
		if n == 0 {
			lowerMov(b, &ir.Uop{Op: ir.MOV, Dest: d, Src: [3]ir.Reg{a}})
			return
		}
		b.shiftSource(u, k, a)
		b.shiftImm(REG_TEMP, REG_TEMP, n, k)
		b.insert(u, d, REG_TEMP)
	}
}
