package arm

import (
	"github.com/colorfulnotion/dynarec/ir"
)

func (b *Backend) allQ(u *ir.Uop, n int) {
	if !u.Dest.IsQ() {
		b.badWidth(u)
	}
	for i := 0; i < n; i++ {
		if !u.Src[i].IsQ() {
			b.badWidth(u)
		}
	}
}

// neonBinary lowers a lane-wise MMX or 3DNow! op to one NEON instruction.
func neonBinary(op, size uint32) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		b.allQ(u, 2)
		b.e.Neon3(op, size, hv(u.Dest), hv(u.Src[0]), hv(u.Src[1]))
	}
}

// pack narrows a:c, a in the low half, with signed or unsigned saturation.
func pack(unsigned bool, size uint32) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		e := b.e
		b.allQ(u, 2)
		e.VmovF64(REG_D_TEMP, hv(u.Src[0]))
		e.VmovF64(REG_D_TEMP2, hv(u.Src[1]))
		if unsigned {
			e.Vqmovun(size, hv(u.Dest), REG_D_TEMP)
		} else {
			e.VqmovnS(size, hv(u.Dest), REG_D_TEMP)
		}
	}
}

// unpack interleaves the low (or high) halves of a and c. VZIP/VTRN leave
// the low interleave in the first register and the high one in the second.
func unpack(size uint32, high bool) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		e := b.e
		b.allQ(u, 2)
		d, a, c := hv(u.Dest), hv(u.Src[0]), hv(u.Src[1])
		e.VmovF64(REG_D_TEMP, c)
		if d != a {
			e.VmovF64(d, a)
		}
		if size == NEON_SIZE_32 {
			e.Vtrn(size, d, REG_D_TEMP)
		} else {
			e.Vzip(size, d, REG_D_TEMP)
		}
		if high {
			e.VmovF64(d, REG_D_TEMP)
		}
	}
}

type psKind int

const (
	psLeft psKind = iota
	psRightLogical
	psRightArith
)

// packedShiftImm shifts each lane by the immediate. Logical shifts by the
// lane width or more clear the register; arithmetic ones saturate to a
// sign fill.
func packedShiftImm(kind psKind, esize uint32) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		e := b.e
		b.allQ(u, 1)
		d, a := hv(u.Dest), hv(u.Src[0])
		n := u.Imm
		switch {
		case n == 0:
			if d != a {
				e.VmovF64(d, a)
			}
		case n >= esize && kind != psRightArith:
			e.Veor(d, d, d)
		case kind == psLeft:
			e.VshlImm(esize, d, a, n)
		case kind == psRightLogical:
			e.VshrUImm(esize, d, a, n)
		default:
			if n > esize {
				n = esize
			}
			e.VshrSImm(esize, d, a, n)
		}
	}
}

// lowerPMULHW keeps the high halves of the signed 16x16 products.
func lowerPMULHW(b *Backend, u *ir.Uop) {
	b.allQ(u, 2)
	b.e.VmullS16(REG_D_TEMP, hv(u.Src[0]), hv(u.Src[1]))
	b.e.VshrnI32(hv(u.Dest), REG_D_TEMP, 16)
}

// lowerPMADDWD sums adjacent pairs of the signed 16x16 products.
func lowerPMADDWD(b *Backend, u *ir.Uop) {
	b.allQ(u, 2)
	b.e.VmullS16(REG_D_TEMP, hv(u.Src[0]), hv(u.Src[1]))
	b.e.VpaddI32(hv(u.Dest), REG_D_TEMP, REG_D_TEMP2)
}

func neonUnary(op uint32) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		b.allQ(u, 1)
		b.e.NeonUnaryF32(op, hv(u.Dest), hv(u.Src[0]))
	}
}

// reciprocal computes 1/x, or 1/sqrt(x), of lane 0 exactly in VFP single
// precision and broadcasts it: PFRCP and PFRSQRT return the same value in
// both lanes.
func reciprocal(sqrt bool) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		e := b.e
		b.allQ(u, 1)
		x := hv(u.Src[0]).Lo()
		e.MovImm(REG_TEMP, 0x3f800000)
		e.VmovSR(S1, REG_TEMP)
		if sqrt {
			e.VsqrtF32(S0, x)
			x = S0
		}
		e.VdivF32(S0, S1, x)
		e.Vdup32(hv(u.Dest), REG_D_TEMP)
	}
}
