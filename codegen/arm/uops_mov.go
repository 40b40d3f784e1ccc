package arm

import (
	"github.com/colorfulnotion/dynarec/ir"
)

// insert writes the low bits of rt into the part of the host register that
// d names. L replaces the whole register.
func (b *Backend) insert(u *ir.Uop, d ir.Reg, rt Reg) {
	e := b.e
	switch d.Size() {
	case ir.SizeL:
		if hr(d) != rt {
			e.Mov(hr(d), rt)
		}
	case ir.SizeW:
		e.Bfi(hr(d), rt, 0, 16)
	case ir.SizeB:
		e.Bfi(hr(d), rt, 0, 8)
	case ir.SizeBH:
		e.Bfi(hr(d), rt, 8, 8)
	default:
		b.badWidth(u)
	}
}

// extract leaves the value of src in rd, zero- or sign-extended to 32 bits.
func (b *Backend) extract(u *ir.Uop, rd Reg, src ir.Reg, signed bool) {
	e := b.e
	switch src.Size() {
	case ir.SizeL:
		if hr(src) != rd {
			e.Mov(rd, hr(src))
		}
	case ir.SizeW:
		if signed {
			e.Sxth(rd, hr(src))
		} else {
			e.Uxth(rd, hr(src))
		}
	case ir.SizeB:
		if signed {
			e.Sxtb(rd, hr(src))
		} else {
			e.Uxtb(rd, hr(src))
		}
	case ir.SizeBH:
		if signed {
			e.Sbfx(rd, hr(src), 8, 8)
		} else {
			e.Ubfx(rd, hr(src), 8, 8)
		}
	default:
		b.badWidth(u)
	}
}

func isInt(r ir.Reg) bool {
	switch r.Size() {
	case ir.SizeL, ir.SizeW, ir.SizeB, ir.SizeBH:
		return true
	}
	return false
}

func isByte(r ir.Reg) bool { return r.IsB() || r.IsBH() }

func lowerMov(b *Backend, u *ir.Uop) {
	e := b.e
	d, a := u.Dest, u.Src[0]
	if d == a {
		return
	}
	switch {
	case d.IsL() && a.IsL():
		e.Mov(hr(d), hr(a))
	case d.IsW() && a.IsW():
		e.Bfi(hr(d), hr(a), 0, 16)
	case isByte(d) && a.IsB():
		b.insert(u, d, hr(a))
	case isByte(d) && a.IsBH():
		e.Ubfx(REG_TEMP, hr(a), 8, 8)
		b.insert(u, d, REG_TEMP)
	case (d.IsD() && a.IsD()) || (d.IsQ() && a.IsQ()):
		e.VmovF64(hv(d), hv(a))
	case d.IsQ() && a.IsL():
		e.MovImm(REG_TEMP, 0)
		e.VmovDRR(hv(d), hr(a), REG_TEMP)
	case d.IsL() && a.IsQ():
		e.VmovRD0(hr(d), hv(a))
	default:
		b.badWidth(u)
	}
}

func movExtend(signed bool) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		d, a := u.Dest, u.Src[0]
		switch {
		case d.IsL() && (a.IsW() || isByte(a)):
			b.extract(u, hr(d), a, signed)
		case d.IsW() && isByte(a):
			b.extract(u, REG_TEMP, a, signed)
			b.insert(u, d, REG_TEMP)
		case !signed && d.IsQ() && a.IsL():
			lowerMov(b, u)
		case !signed && d.IsL() && a.IsQ():
			lowerMov(b, u)
		default:
			b.badWidth(u)
		}
	}
}

func lowerMovImm(b *Backend, u *ir.Uop) {
	e := b.e
	switch d := u.Dest; d.Size() {
	case ir.SizeL:
		e.MovImm(hr(d), u.Imm)
	case ir.SizeW:
		e.MovImm(REG_TEMP, u.Imm&0xffff)
		b.insert(u, d, REG_TEMP)
	case ir.SizeB, ir.SizeBH:
		e.MovImm(REG_TEMP, u.Imm&0xff)
		b.insert(u, d, REG_TEMP)
	default:
		b.badWidth(u)
	}
}

func lowerMovPtr(b *Backend, u *ir.Uop) {
	if !u.Dest.IsL() {
		b.badWidth(u)
	}
	b.e.MovImm(hr(u.Dest), u.P)
}

func lowerMovRegPtr(b *Backend, u *ir.Uop) {
	if !u.Dest.IsL() {
		b.badWidth(u)
	}
	b.DirectRead32(hr(u.Dest), u.P)
}

func lowerMovzxRegPtr8(b *Backend, u *ir.Uop) {
	d := u.Dest
	switch d.Size() {
	case ir.SizeL:
		b.DirectRead8(hr(d), u.P)
	case ir.SizeW:
		b.DirectRead8(REG_TEMP, u.P)
		b.insert(u, d, REG_TEMP)
	default:
		b.badWidth(u)
	}
}

func lowerMovzxRegPtr16(b *Backend, u *ir.Uop) {
	if !u.Dest.IsL() {
		b.badWidth(u)
	}
	b.DirectRead16(hr(u.Dest), u.P)
}

// lowerAddLShift is d = a + (c << imm).
func lowerAddLShift(b *Backend, u *ir.Uop) {
	d, a, c := u.Dest, u.Src[0], u.Src[1]
	if !d.IsL() || !a.IsL() || !c.IsL() || u.Imm > 31 {
		b.badWidth(u)
	}
	b.e.AddLSL(hr(d), hr(a), hr(c), u.Imm)
}

// lowerMovDoubleInt converts with the x87 rounding control through the
// rounding trampoline: value in D0, result in S0.
func lowerMovDoubleInt(b *Backend, u *ir.Uop) {
	e := b.e
	d, a := u.Dest, u.Src[0]
	if !a.IsD() || !(d.IsL() || d.IsW()) {
		b.badWidth(u)
	}
	e.VmovF64(REG_D_TEMP, hv(a))
	e.BL(b.tr.FPRound)
	if d.IsL() {
		e.VmovRS(hr(d), S0)
		return
	}
	e.VmovRS(REG_TEMP, S0)
	b.insert(u, d, REG_TEMP)
}

func lowerMovDoubleInt64(b *Backend, u *ir.Uop) {
	e := b.e
	d, a := u.Dest, u.Src[0]
	if !a.IsD() || !d.IsQ() {
		b.badWidth(u)
	}
	e.VmovF64(REG_D_TEMP, hv(a))
	e.BL(b.syms.FRound64)
	e.VmovDRR(hv(d), R0, R1)
}

func lowerMovIntDouble(b *Backend, u *ir.Uop) {
	e := b.e
	d, a := u.Dest, u.Src[0]
	if !d.IsD() {
		b.badWidth(u)
	}
	switch a.Size() {
	case ir.SizeL:
		e.VmovSR(S0, hr(a))
	case ir.SizeW:
		e.Sxth(REG_TEMP, hr(a))
		e.VmovSR(S0, REG_TEMP)
	default:
		b.badWidth(u)
	}
	e.VcvtF64S32(hv(d), S0)
}

func lowerMovIntDouble64(b *Backend, u *ir.Uop) {
	e := b.e
	d, a := u.Dest, u.Src[0]
	if !d.IsD() || !a.IsQ() {
		b.badWidth(u)
	}
	e.VmovRRD(R0, R1, hv(a))
	e.BL(b.syms.FILD64)
	e.VmovF64(hv(d), REG_D_TEMP)
}
