package softfloat

// roundAt rounds sig to keep everything above bit shift. It returns the
// rounded value, whether it carried out of bit 127, and whether any
// discarded bit was set.
func roundAt(sig u128, shift uint, sign bool, mode RoundingMode) (u128, bool, bool) {
	low := mask128(shift)
	rb := sig.and(low)
	z := sig.andNot(low)
	if rb.isZero() {
		return z, false, false
	}
	var inc bool
	switch mode {
	case RoundNearestEven:
		c := rb.cmp(bit128(shift - 1))
		inc = c > 0 || c == 0 && z.test(shift)
	case RoundUp:
		inc = !sign
	case RoundDown:
		inc = sign
	}
	carry := false
	if inc {
		z, carry = z.add(bit128(shift))
	}
	return z, carry, true
}

// roundPack rounds sig * 2^(exp-127) to prec significant bits and packs it.
// Tininess is detected after rounding; a masked underflow is only reported
// together with inexact.
func (f *format) roundPack(st *Status, prec uint, sign bool, exp int32, sig u128) u128 {
	if sig.isZero() {
		return f.zero(sign)
	}
	exp, sig = norm(exp, sig)
	shift := 128 - prec
	mode := st.RoundingMode
	e := exp + f.bias
	tiny := false
	if e <= 0 {
		_, carry, _ := roundAt(sig, shift, sign, mode)
		tiny = e < 0 || !carry
		if tiny && f.ftz(st) {
			st.Raise(FlagUnderflow | FlagInexact)
			return f.zero(sign)
		}
		sig = sig.shrJam(uint(1 - e))
		e = 1
	}
	z, carry, inexact := roundAt(sig, shift, sign, mode)
	if carry {
		z = bit128(127)
		e++
	}
	if e >= f.maxExp() {
		st.Raise(FlagOverflow | FlagInexact)
		return f.overflow(sign, mode, prec)
	}
	if tiny && (inexact || st.Masks&FlagUnderflow == 0) {
		st.Raise(FlagUnderflow)
	}
	if inexact {
		st.Raise(FlagInexact)
	}
	if !z.test(127) {
		e = 0
	}
	return f.assemble(sign, e, f.fraction(z))
}

// overflow is infinity, or the largest finite value when the rounding
// direction points back toward zero.
func (f *format) overflow(sign bool, mode RoundingMode, prec uint) u128 {
	if mode == RoundNearestEven || mode == RoundUp && !sign || mode == RoundDown && sign {
		return f.inf(sign)
	}
	return f.assemble(sign, f.maxExp()-1, f.fraction(mask128(128).andNot(mask128(128-prec))))
}

// exact packs a value known to be representable.
func (f *format) exact(st *Status, sign bool, exp int32, sig u128) u128 {
	return f.roundPack(st, f.prec(), sign, exp, sig)
}
