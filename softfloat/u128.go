package softfloat

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// u128 is an unsigned 128-bit integer. Significands are kept left-aligned in
// one of these, bit 127 being the integer bit.
type u128 struct{ hi, lo uint64 }

func bit128(n uint) u128 {
	if n >= 64 {
		return u128{hi: 1 << (n - 64)}
	}
	return u128{lo: 1 << n}
}

// mask128 has the low n bits set.
func mask128(n uint) u128 {
	switch {
	case n == 0:
		return u128{}
	case n < 64:
		return u128{lo: 1<<n - 1}
	case n < 128:
		return u128{hi: 1<<(n-64) - 1, lo: ^uint64(0)}
	}
	return u128{^uint64(0), ^uint64(0)}
}

func (a u128) isZero() bool       { return a.hi|a.lo == 0 }
func (a u128) and(b u128) u128    { return u128{a.hi & b.hi, a.lo & b.lo} }
func (a u128) or(b u128) u128     { return u128{a.hi | b.hi, a.lo | b.lo} }
func (a u128) andNot(b u128) u128 { return u128{a.hi &^ b.hi, a.lo &^ b.lo} }
func (a u128) test(n uint) bool   { return !a.and(bit128(n)).isZero() }

func (a u128) wide() *uint256.Int { return &uint256.Int{a.lo, a.hi, 0, 0} }

func (a u128) shlWide(n uint) *uint256.Int { return new(uint256.Int).Lsh(a.wide(), n) }

func low128(x *uint256.Int) u128 { return u128{x[1], x[0]} }

func (a u128) cmp(b u128) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	}
	return 0
}

func (a u128) add(b u128) (u128, bool) {
	lo, c := bits.Add64(a.lo, b.lo, 0)
	hi, c := bits.Add64(a.hi, b.hi, c)
	return u128{hi, lo}, c != 0
}

func (a u128) sub(b u128) u128 {
	lo, br := bits.Sub64(a.lo, b.lo, 0)
	hi, _ := bits.Sub64(a.hi, b.hi, br)
	return u128{hi, lo}
}

func (a u128) shl(n uint) u128 {
	switch {
	case n == 0:
		return a
	case n >= 128:
		return u128{}
	case n >= 64:
		return u128{hi: a.lo << (n - 64)}
	}
	return u128{hi: a.hi<<n | a.lo>>(64-n), lo: a.lo << n}
}

func (a u128) shr(n uint) u128 {
	switch {
	case n == 0:
		return a
	case n >= 128:
		return u128{}
	case n >= 64:
		return u128{lo: a.hi >> (n - 64)}
	}
	return u128{hi: a.hi >> n, lo: a.lo>>n | a.hi<<(64-n)}
}

// shrJam shifts right and ORs every bit shifted out into bit 0.
func (a u128) shrJam(n uint) u128 {
	if n == 0 {
		return a
	}
	z := a.shr(n)
	if !a.and(mask128(n)).isZero() {
		z.lo |= 1
	}
	return z
}

func (a u128) clz() uint {
	if a.hi != 0 {
		return uint(bits.LeadingZeros64(a.hi))
	}
	return 64 + uint(bits.LeadingZeros64(a.lo))
}

// norm shifts sig so bit 127 is set, keeping sig * 2^(exp-127) unchanged.
func norm(exp int32, sig u128) (int32, u128) {
	n := sig.clz()
	return exp - int32(n), sig.shl(n)
}

// mul128 returns the full 256-bit product as high and low halves.
func mul128(a, b u128) (u128, u128) {
	var z uint256.Int
	z.Mul(a.wide(), b.wide())
	return u128{z[3], z[2]}, u128{z[1], z[0]}
}

// top128 is the high half of x with the low half jammed into bit 0.
func top128(x *uint256.Int) u128 {
	z := u128{x[3], x[2]}
	if x[1]|x[0] != 0 {
		z.lo |= 1
	}
	return z
}

// shrJam256 is shrJam for 256-bit values.
func shrJam256(x *uint256.Int, n uint) *uint256.Int {
	z := new(uint256.Int)
	switch {
	case n == 0:
		return z.Set(x)
	case n >= 256:
		if !x.IsZero() {
			z.SetOne()
		}
		return z
	}
	z.Rsh(x, n)
	if !new(uint256.Int).Lsh(x, 256-n).IsZero() {
		z[0] |= 1
	}
	return z
}

// div128 returns floor((a << 127) / b) and whether the division was inexact.
func div128(a, b u128) (u128, bool) {
	n := a.shlWide(127)
	d := b.wide()
	q := new(uint256.Int).Div(n, d)
	r := new(uint256.Int).Mod(n, d)
	return low128(q), !r.IsZero()
}

// sqrtWide returns floor(sqrt(x)) and whether it was inexact.
func sqrtWide(x *uint256.Int) (u128, bool) {
	r := new(uint256.Int).Sqrt(x)
	sq := new(uint256.Int).Mul(r, r)
	return low128(r), !sq.Eq(x)
}
