package softfloat

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// fromInt converts an integer exactly, or rounded when the format is
// narrower than the integer.
func fromInt[T constraints.Integer](st *Status, f *format, v T) u128 {
	if v == 0 {
		return f.zero(false)
	}
	neg := v < 0
	mag := uint64(v)
	if neg {
		mag = -mag
	}
	return f.roundPack(st, f.prec(), neg, 127, u128{lo: mag})
}

// toInt converts to T in mode. NaNs, infinities and out-of-range values
// raise invalid and return the x86 integer indefinite: the minimum value
// for signed types and all ones for unsigned ones.
func toInt[T constraints.Integer](st *Status, f *format, raw u128, mode RoundingMode) T {
	var zero T
	signed := ^zero < 0
	width := uint(unsafe.Sizeof(zero)) * 8
	indefinite := ^zero
	if signed {
		indefinite = T(1) << (width - 1)
	}

	a := f.unpack(st, raw)
	switch a.cls {
	case clsZero:
		return 0
	case clsFinite:
	default:
		st.Raise(FlagInvalid)
		return indefinite
	}
	denormal(st, a)

	var limit uint64
	switch {
	case signed && a.sign:
		limit = 1 << (width - 1)
	case signed:
		limit = 1<<(width-1) - 1
	case a.sign:
		limit = 0
	default:
		limit = ^uint64(0) >> (64 - width)
	}
	if a.exp >= 64 {
		st.Raise(FlagInvalid)
		return indefinite
	}
	ip, inexact := roundInt(a.sig, a.exp, a.sign, mode)
	if ip.hi != 0 || ip.lo > limit {
		st.Raise(FlagInvalid)
		return indefinite
	}
	if inexact {
		st.Raise(FlagInexact)
	}
	if a.sign {
		return -T(ip.lo)
	}
	return T(ip.lo)
}
