package arm

import (
	"github.com/colorfulnotion/dynarec/ir"
)

// compare sets the flags for a - c at the operand width. Narrow operands are
// moved to the top of the register so carry and overflow come out of bit 31.
func (b *Backend) compare(u *ir.Uop, a, c ir.Reg) {
	e := b.e
	if a.Size() != c.Size() {
		b.badWidth(u)
	}
	switch a.Size() {
	case ir.SizeL:
		e.Cmp(hr(a), hr(c))
	case ir.SizeW:
		e.MovLSL(REG_TEMP, hr(a), 16)
		e.CmpLSL(REG_TEMP, hr(c), 16)
	case ir.SizeB:
		e.MovLSL(REG_TEMP, hr(a), 24)
		e.CmpLSL(REG_TEMP, hr(c), 24)
	default:
		b.badWidth(u)
	}
}

func (b *Backend) compareImm(u *ir.Uop, a ir.Reg, imm uint32) {
	e := b.e
	switch a.Size() {
	case ir.SizeL:
		e.CmpImm(hr(a), imm)
	case ir.SizeW:
		e.MovLSL(REG_TEMP, hr(a), 16)
		e.CmpImm(REG_TEMP, imm<<16)
	case ir.SizeB:
		e.MovLSL(REG_TEMP, hr(a), 24)
		e.CmpImm(REG_TEMP, imm<<24)
	default:
		b.badWidth(u)
	}
}

// cmpJump compares and branches to the absolute target in P.
func cmpJump(cond Cond) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		b.compare(u, u.Src[0], u.Src[1])
		b.e.BCond(cond, u.P)
	}
}

func cmpImmJump(cond Cond) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		b.compareImm(u, u.Src[0], u.Imm)
		b.e.BCond(cond, u.P)
	}
}

// cmpJumpDest compares and leaves a forward branch in u.Patch for the
// driver to resolve.
func cmpJumpDest(cond Cond) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		b.compare(u, u.Src[0], u.Src[1])
		u.Patch = b.e.BForward(cond)
	}
}

func cmpImmJumpDest(cond Cond) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		b.compareImm(u, u.Src[0], u.Imm)
		u.Patch = b.e.BForward(cond)
	}
}

// testSign branches on the sign bit of the operand: jumpIfSet selects JS
// over JNS.
func testSign(jumpIfSet bool) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		e := b.e
		a := u.Src[0]
		var cond Cond
		switch a.Size() {
		case ir.SizeL:
			e.Tst(hr(a), hr(a))
			cond = COND_MI
		case ir.SizeW, ir.SizeBH:
			e.TstImm(hr(a), 0x8000)
			cond = COND_NE
		case ir.SizeB:
			e.TstImm(hr(a), 0x80)
			cond = COND_NE
		default:
			b.badWidth(u)
		}
		if !jumpIfSet {
			cond = cond.Invert()
		}
		u.Patch = e.BForward(cond)
	}
}
