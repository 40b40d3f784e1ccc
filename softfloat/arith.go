package softfloat

import "github.com/holiman/uint256"

func (f *format) add(st *Status, ra, rb u128, subtract bool) u128 {
	a, b := f.unpack(st, ra), f.unpack(st, rb)
	if r, ok := f.nan2(st, a, b); ok {
		return r
	}
	denormal(st, a, b)
	if subtract {
		b.sign = !b.sign
	}
	prec := f.arithPrec(st)
	switch {
	case a.cls == clsInf && b.cls == clsInf:
		if a.sign != b.sign {
			st.Raise(FlagInvalid)
			return f.defaultNaN()
		}
		return f.inf(a.sign)
	case a.cls == clsInf:
		return f.inf(a.sign)
	case b.cls == clsInf:
		return f.inf(b.sign)
	case a.cls == clsZero && b.cls == clsZero:
		if a.sign == b.sign {
			return f.zero(a.sign)
		}
		return f.zero(st.RoundingMode == RoundDown)
	case a.cls == clsZero:
		return f.roundPack(st, prec, b.sign, b.exp, b.sig)
	case b.cls == clsZero:
		return f.roundPack(st, prec, a.sign, a.exp, a.sig)
	}

	if a.exp < b.exp || a.exp == b.exp && a.sig.cmp(b.sig) < 0 {
		a, b = b, a
	}
	// One bit of headroom for the carry; significands have trailing zeros
	// so the first shift is exact.
	sa := a.sig.shrJam(1)
	sb := b.sig.shrJam(1).shrJam(uint(a.exp - b.exp))
	if a.sign == b.sign {
		sum, _ := sa.add(sb)
		return f.roundPack(st, prec, a.sign, a.exp+1, sum)
	}
	diff := sa.sub(sb)
	if diff.isZero() {
		return f.zero(st.RoundingMode == RoundDown)
	}
	return f.roundPack(st, prec, a.sign, a.exp+1, diff)
}

func (f *format) mul(st *Status, ra, rb u128) u128 {
	a, b := f.unpack(st, ra), f.unpack(st, rb)
	if r, ok := f.nan2(st, a, b); ok {
		return r
	}
	sign := a.sign != b.sign
	if a.cls == clsInf || b.cls == clsInf {
		if a.cls == clsZero || b.cls == clsZero {
			st.Raise(FlagInvalid)
			return f.defaultNaN()
		}
		denormal(st, a, b)
		return f.inf(sign)
	}
	denormal(st, a, b)
	if a.cls == clsZero || b.cls == clsZero {
		return f.zero(sign)
	}
	hi, lo := mul128(a.sig, b.sig)
	if !lo.isZero() {
		hi.lo |= 1
	}
	return f.roundPack(st, f.arithPrec(st), sign, a.exp+b.exp+1, hi)
}

func (f *format) div(st *Status, ra, rb u128) u128 {
	a, b := f.unpack(st, ra), f.unpack(st, rb)
	if r, ok := f.nan2(st, a, b); ok {
		return r
	}
	sign := a.sign != b.sign
	switch {
	case a.cls == clsInf && b.cls == clsInf, a.cls == clsZero && b.cls == clsZero:
		st.Raise(FlagInvalid)
		return f.defaultNaN()
	}
	denormal(st, a, b)
	switch {
	case a.cls == clsInf:
		return f.inf(sign)
	case b.cls == clsInf:
		return f.zero(sign)
	case b.cls == clsZero:
		st.Raise(FlagDivByZero)
		return f.inf(sign)
	case a.cls == clsZero:
		return f.zero(sign)
	}
	q, inexact := div128(a.sig, b.sig)
	if inexact {
		q.lo |= 1
	}
	return f.roundPack(st, f.arithPrec(st), sign, a.exp-b.exp, q)
}

func (f *format) sqrt(st *Status, ra u128) u128 {
	a := f.unpack(st, ra)
	if r, ok := f.nan1(st, a); ok {
		return r
	}
	switch {
	case a.cls == clsZero:
		return f.zero(a.sign)
	case a.sign:
		st.Raise(FlagInvalid)
		return f.defaultNaN()
	case a.cls == clsInf:
		return f.inf(false)
	}
	denormal(st, a)
	// Scale to an even power of two so the root's exponent is exact.
	k := uint(128)
	if (a.exp-127-128)&1 != 0 {
		k = 127
	}
	root, inexact := sqrtWide(a.sig.shlWide(k))
	if inexact {
		root.lo |= 1
	}
	return f.roundPack(st, f.arithPrec(st), false, (a.exp-127-int32(k))/2+127, root)
}

// reduce divides |a| by |b| for a.exp >= b.exp. The remainder is in units
// of b's scale, 2^(b.exp-127); q holds the low 64 bits of the truncated
// quotient.
func reduce(a, b unpacked) (*uint256.Int, uint64) {
	d := b.sig.wide()
	r := a.sig.wide()
	q := uint64(0)
	if r.Cmp(d) >= 0 {
		r.Sub(r, d)
		q = 1
	}
	var qk uint256.Int
	for left := uint(a.exp - b.exp); left > 0; {
		k := min(left, 64)
		r.Lsh(r, k)
		qk.Div(r, d)
		r.Mod(r, d)
		q = q<<k | qk[0]
		left -= k
	}
	return r, q
}

// rem is the IEEE remainder a - n*b with n = a/b rounded to nearest even.
// The low bits of n are returned for FPREM1.
func (f *format) rem(st *Status, ra, rb u128) (u128, uint64) {
	a, b := f.unpack(st, ra), f.unpack(st, rb)
	if r, ok := f.nan2(st, a, b); ok {
		return r, 0
	}
	if a.cls == clsInf || b.cls == clsZero {
		st.Raise(FlagInvalid)
		return f.defaultNaN(), 0
	}
	denormal(st, a, b)
	if a.cls == clsZero {
		return f.zero(a.sign), 0
	}
	if b.cls == clsInf || a.exp < b.exp-1 {
		return ra, 0
	}
	if a.exp == b.exp-1 {
		// |b|/2 <= |a| < |b|: n is 1 unless |a| is at most half of |b|.
		if a.sig.cmp(b.sig) <= 0 {
			return ra, 0
		}
		mag := new(uint256.Int).Lsh(b.sig.wide(), 1)
		mag.Sub(mag, a.sig.wide())
		return f.exact(st, !a.sign, a.exp, low128(mag)), 1
	}
	r, q := reduce(a, b)
	sign := a.sign
	twice := new(uint256.Int).Lsh(r, 1)
	if c := twice.Cmp(b.sig.wide()); c > 0 || c == 0 && q&1 == 1 {
		r.Sub(b.sig.wide(), r)
		sign = !sign
		q++
	}
	if r.IsZero() {
		return f.zero(a.sign), q
	}
	return f.exact(st, sign, b.exp, low128(r)), q
}

// mod is the truncating partial remainder of x87 FPREM.
func (f *format) mod(st *Status, ra, rb u128) (u128, uint64) {
	a, b := f.unpack(st, ra), f.unpack(st, rb)
	if r, ok := f.nan2(st, a, b); ok {
		return r, 0
	}
	if a.cls == clsInf || b.cls == clsZero {
		st.Raise(FlagInvalid)
		return f.defaultNaN(), 0
	}
	denormal(st, a, b)
	if a.cls == clsZero {
		return f.zero(a.sign), 0
	}
	if b.cls == clsInf || a.exp < b.exp {
		return ra, 0
	}
	r, q := reduce(a, b)
	if r.IsZero() {
		return f.zero(a.sign), q
	}
	return f.exact(st, a.sign, b.exp, low128(r)), q
}

// MulAddFlags modify a fused multiply-add.
type MulAddFlags uint8

const (
	NegateAddend  MulAddFlags = 1
	NegateProduct MulAddFlags = 2
	NegateResult  MulAddFlags = 4
)

// fma computes a*b+c with one rounding.
func (f *format) fma(st *Status, ra, rb, rc u128, flags MulAddFlags) u128 {
	a, b, c := f.unpack(st, ra), f.unpack(st, rb), f.unpack(st, rc)
	if a.cls == clsUnsupported || b.cls == clsUnsupported || c.cls == clsUnsupported {
		st.Raise(FlagInvalid)
		return f.defaultNaN()
	}
	infZero := a.cls == clsInf && b.cls == clsZero || a.cls == clsZero && b.cls == clsInf
	if a.isNaN() || b.isNaN() || c.isNaN() {
		if !a.isNaN() && !b.isNaN() {
			return f.propagate1(st, c)
		}
		r := f.propagate(st, a, b)
		if c.isNaN() {
			r = f.propagate(st, unpacked{cls: clsQNaN, raw: r}, c)
		}
		return r
	}
	if infZero {
		st.Raise(FlagInvalid)
		return f.defaultNaN()
	}
	if flags&NegateAddend != 0 {
		c.sign = !c.sign
	}
	psign := a.sign != b.sign
	if flags&NegateProduct != 0 {
		psign = !psign
	}
	flip := flags&NegateResult != 0
	out := func(s bool) bool { return s != flip }
	prec := f.arithPrec(st)

	pInf := a.cls == clsInf || b.cls == clsInf
	pZero := a.cls == clsZero || b.cls == clsZero
	if pInf {
		if c.cls == clsInf && c.sign != psign {
			st.Raise(FlagInvalid)
			return f.defaultNaN()
		}
		denormal(st, a, b, c)
		return f.inf(out(psign))
	}
	denormal(st, a, b, c)
	switch {
	case c.cls == clsInf:
		return f.inf(out(c.sign))
	case pZero && c.cls == clsZero:
		if psign == c.sign {
			return f.zero(out(psign))
		}
		return f.zero(out(st.RoundingMode == RoundDown))
	case pZero:
		return f.roundPack(st, prec, out(c.sign), c.exp, c.sig)
	}

	// Both terms as 256-bit integers X with value X * 2^(e-255).
	ph, pl := mul128(a.sig, b.sig)
	pe := a.exp + b.exp + 1
	if c.cls == clsZero {
		if !pl.isZero() {
			ph.lo |= 1
		}
		return f.roundPack(st, prec, out(psign), pe, ph)
	}
	p := shrJam256(&uint256.Int{pl.lo, pl.hi, ph.lo, ph.hi}, 1)
	q := shrJam256(c.sig.shlWide(128), 1)
	pe, ce := pe+1, c.exp+1

	e := max(pe, ce)
	p, q = shrJam256(p, uint(e-pe)), shrJam256(q, uint(e-ce))
	big, small, sign := p, q, psign
	if q.Cmp(p) > 0 {
		big, small, sign = q, p, c.sign
	}
	if psign == c.sign {
		big.Add(big, small)
	} else {
		big.Sub(big, small)
		if big.IsZero() {
			return f.zero(out(st.RoundingMode == RoundDown))
		}
	}
	n := 256 - big.BitLen()
	big.Lsh(big, uint(n))
	return f.roundPack(st, prec, out(sign), e-int32(n), top128(big))
}

// roundInt rounds the magnitude of a finite value with exp <= 126 to an
// integer in mode. sign steers the directed modes.
func roundInt(sig u128, exp int32, sign bool, mode RoundingMode) (u128, bool) {
	var ip, rb, half u128
	switch {
	case exp >= 0:
		s := uint(127 - exp)
		ip, rb, half = sig.shr(s), sig.and(mask128(s)), bit128(s-1)
	case exp == -1:
		rb, half = sig, bit128(127)
	default:
		rb, half = u128{lo: 1}, bit128(127)
	}
	if rb.isZero() {
		return ip, false
	}
	var inc bool
	switch mode {
	case RoundNearestEven:
		c := rb.cmp(half)
		inc = c > 0 || c == 0 && ip.lo&1 == 1
	case RoundUp:
		inc = !sign
	case RoundDown:
		inc = sign
	}
	if inc {
		ip, _ = ip.add(u128{lo: 1})
	}
	return ip, true
}

// roundToInt rounds to an integral value in the same format.
func (f *format) roundToInt(st *Status, ra u128, mode RoundingMode) u128 {
	a := f.unpack(st, ra)
	if r, ok := f.nan1(st, a); ok {
		return r
	}
	switch a.cls {
	case clsZero:
		return f.zero(a.sign)
	case clsInf:
		return ra
	}
	denormal(st, a)
	if a.exp >= int32(f.prec())-1 {
		return ra
	}
	ip, inexact := roundInt(a.sig, a.exp, a.sign, mode)
	if inexact {
		st.Raise(FlagInexact)
	}
	if ip.isZero() {
		return f.zero(a.sign)
	}
	return f.exact(st, a.sign, 127, ip)
}

// Relation is the four-way result of a comparison.
type Relation int

const (
	Less      Relation = -1
	Equal     Relation = 0
	Greater   Relation = 1
	Unordered Relation = 2
)

func (r Relation) String() string {
	switch r {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	}
	return "unordered"
}

// magnitude orders |a| and |b| for non-NaN operands.
func magnitude(a, b unpacked) int {
	switch {
	case a.cls != b.cls:
		if a.cls < b.cls {
			return -1
		}
		return 1
	case a.cls != clsFinite:
		return 0
	case a.exp != b.exp:
		if a.exp < b.exp {
			return -1
		}
		return 1
	}
	return a.sig.cmp(b.sig)
}

func order(a, b unpacked) Relation {
	if a.cls == clsZero && b.cls == clsZero {
		return Equal
	}
	if a.sign != b.sign {
		if a.sign {
			return Less
		}
		return Greater
	}
	c := magnitude(a, b)
	if a.sign {
		c = -c
	}
	return Relation(c)
}

// compare raises invalid for any NaN when signaling, otherwise only for
// signaling NaNs.
func (f *format) compare(st *Status, ra, rb u128, signaling bool) Relation {
	a, b := f.unpack(st, ra), f.unpack(st, rb)
	if a.cls == clsUnsupported || b.cls == clsUnsupported {
		st.Raise(FlagInvalid)
		return Unordered
	}
	if a.isNaN() || b.isNaN() {
		if signaling || a.cls == clsSNaN || b.cls == clsSNaN {
			st.Raise(FlagInvalid)
		}
		return Unordered
	}
	denormal(st, a, b)
	return order(a, b)
}

// minMax follows MINSS/MAXSS: a NaN operand or two zeros return the second
// operand, and any NaN raises invalid.
func (f *format) minMax(st *Status, ra, rb u128, max bool) u128 {
	a, b := f.unpack(st, ra), f.unpack(st, rb)
	if a.cls == clsZero {
		ra = f.zero(a.sign)
	}
	if b.cls == clsZero {
		rb = f.zero(b.sign)
	}
	if a.cls > clsInf || b.cls > clsInf {
		st.Raise(FlagInvalid)
		return rb
	}
	denormal(st, a, b)
	rel := order(a, b)
	if max && rel == Greater || !max && rel == Less {
		return ra
	}
	return rb
}

// convert re-encodes a value of format from in format to.
func convert(st *Status, from, to *format, raw u128) u128 {
	a := from.unpack(st, raw)
	switch a.cls {
	case clsUnsupported:
		st.Raise(FlagInvalid)
		return to.defaultNaN()
	case clsQNaN, clsSNaN:
		return to.convertNaN(st, a)
	case clsInf:
		return to.inf(a.sign)
	case clsZero:
		return to.zero(a.sign)
	}
	denormal(st, a)
	return to.roundPack(st, to.prec(), a.sign, a.exp, a.sig)
}

// scale multiplies by 2^n with a single rounding (FSCALE).
func (f *format) scale(st *Status, ra u128, n int32) u128 {
	a := f.unpack(st, ra)
	if r, ok := f.nan1(st, a); ok {
		return r
	}
	if a.cls != clsFinite {
		return ra
	}
	denormal(st, a)
	const limit = 1 << 16
	n = max(min(n, limit), -limit)
	return f.roundPack(st, f.arithPrec(st), a.sign, a.exp+n, a.sig)
}
