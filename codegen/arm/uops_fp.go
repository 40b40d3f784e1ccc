package arm

import (
	"github.com/colorfulnotion/dynarec/ir"
)

func fpBinary(emit func(e *Emitter, d, n, m VReg)) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		d, a, c := u.Dest, u.Src[0], u.Src[1]
		if !d.IsD() || !a.IsD() || !c.IsD() {
			b.badWidth(u)
		}
		emit(b.e, hv(d), hv(a), hv(c))
	}
}

func fpUnary(emit func(e *Emitter, d, m VReg)) lowerFunc {
	return func(b *Backend, u *ir.Uop) {
		d, a := u.Dest, u.Src[0]
		if !d.IsD() || !a.IsD() {
			b.badWidth(u)
		}
		emit(b.e, hv(d), hv(a))
	}
}

// fpuStatus turns the flags of the last VCMP into x87 C0/C2/C3 in d:
// less sets C0, equal C3, unordered all three.
func (b *Backend) fpuStatus(u *ir.Uop) {
	e := b.e
	d := u.Dest
	if !d.IsW() && !d.IsL() {
		b.badWidth(u)
	}
	rd := hr(d)
	e.MovImm(rd, 0)
	e.VmrsAPSR()
	e.OrrCondImm(COND_EQ, rd, rd, FPU_SW_C3)
	e.OrrCondImm(COND_CC, rd, rd, FPU_SW_C0)
	e.OrrCondImm(COND_VS, rd, rd, FPU_SW_C0|FPU_SW_C2|FPU_SW_C3)
}

func lowerFCOM(b *Backend, u *ir.Uop) {
	a, c := u.Src[0], u.Src[1]
	if !a.IsD() || !c.IsD() {
		b.badWidth(u)
	}
	b.e.VcmpF64(hv(a), hv(c))
	b.fpuStatus(u)
}

func lowerFTST(b *Backend, u *ir.Uop) {
	a := u.Src[0]
	if !a.IsD() {
		b.badWidth(u)
	}
	b.e.VcmpZeroF64(hv(a))
	b.fpuStatus(u)
}
