package softfloat

// FloatX80 is the x87 80-bit extended format with an explicit integer bit.
type FloatX80 struct {
	Fraction uint64
	SignExp  uint16
}

var (
	X80PositiveZero = FloatX80{}
	X80PositiveInf  = FloatX80{Fraction: 1 << 63, SignExp: 0x7fff}
	X80DefaultNaN   = FloatX80{Fraction: 0xc000000000000000, SignExp: 0xffff}
)

func (a FloatX80) raw() u128 { return u128{hi: uint64(a.SignExp), lo: a.Fraction} }

func x80(r u128) FloatX80 { return FloatX80{Fraction: r.lo, SignExp: uint16(r.hi)} }

func (a FloatX80) Sign() bool   { return a.SignExp&0x8000 != 0 }
func (a FloatX80) Class() Class { return fmtX80.class(a.raw()) }

func (a FloatX80) IsNaN() bool {
	c := a.Class()
	return c == ClassQNaN || c == ClassSNaN
}

// Bytes is the little-endian memory image used by FLD/FSTP m80.
func (a FloatX80) Bytes() [10]byte {
	var b [10]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(a.Fraction >> (8 * i))
	}
	b[8], b[9] = byte(a.SignExp), byte(a.SignExp>>8)
	return b
}

func X80FromBytes(b [10]byte) FloatX80 {
	var a FloatX80
	for i := 0; i < 8; i++ {
		a.Fraction |= uint64(b[i]) << (8 * i)
	}
	a.SignExp = uint16(b[8]) | uint16(b[9])<<8
	return a
}

// Arithmetic rounds to st.RoundingPrecision.
func X80Add(a, b FloatX80, st *Status) FloatX80 { return x80(fmtX80.add(st, a.raw(), b.raw(), false)) }
func X80Sub(a, b FloatX80, st *Status) FloatX80 { return x80(fmtX80.add(st, a.raw(), b.raw(), true)) }
func X80Mul(a, b FloatX80, st *Status) FloatX80 { return x80(fmtX80.mul(st, a.raw(), b.raw())) }
func X80Div(a, b FloatX80, st *Status) FloatX80 { return x80(fmtX80.div(st, a.raw(), b.raw())) }
func X80Sqrt(a FloatX80, st *Status) FloatX80   { return x80(fmtX80.sqrt(st, a.raw())) }

// X80Rem is FPREM1: the IEEE remainder and the low bits of the quotient.
func X80Rem(a, b FloatX80, st *Status) (FloatX80, uint64) {
	r, q := fmtX80.rem(st, a.raw(), b.raw())
	return x80(r), q
}

// X80Mod is FPREM: the remainder of the truncated quotient.
func X80Mod(a, b FloatX80, st *Status) (FloatX80, uint64) {
	r, q := fmtX80.mod(st, a.raw(), b.raw())
	return x80(r), q
}

// X80RoundToInt is FRNDINT.
func X80RoundToInt(a FloatX80, st *Status) FloatX80 {
	return x80(fmtX80.roundToInt(st, a.raw(), st.RoundingMode))
}

// X80Scale is FSCALE with an already truncated integer scale.
func X80Scale(a FloatX80, n int32, st *Status) FloatX80 { return x80(fmtX80.scale(st, a.raw(), n)) }

func X80Abs(a FloatX80) FloatX80 {
	a.SignExp &^= 0x8000
	return a
}

func X80Chs(a FloatX80) FloatX80 {
	a.SignExp ^= 0x8000
	return a
}

// X80Compare is FCOM; X80CompareQuiet is FUCOM.
func X80Compare(a, b FloatX80, st *Status) Relation {
	return fmtX80.compare(st, a.raw(), b.raw(), true)
}

func X80CompareQuiet(a, b FloatX80, st *Status) Relation {
	return fmtX80.compare(st, a.raw(), b.raw(), false)
}

func X80ToInt16(a FloatX80, st *Status) int16 {
	return toInt[int16](st, fmtX80, a.raw(), st.RoundingMode)
}

func X80ToInt32(a FloatX80, st *Status) int32 {
	return toInt[int32](st, fmtX80, a.raw(), st.RoundingMode)
}

func X80ToInt64(a FloatX80, st *Status) int64 {
	return toInt[int64](st, fmtX80, a.raw(), st.RoundingMode)
}

// X80ToInt32RoundToZero and X80ToInt64RoundToZero are FISTTP.
func X80ToInt32RoundToZero(a FloatX80, st *Status) int32 {
	return toInt[int32](st, fmtX80, a.raw(), RoundToZero)
}

func X80ToInt64RoundToZero(a FloatX80, st *Status) int64 {
	return toInt[int64](st, fmtX80, a.raw(), RoundToZero)
}

func Int16ToX80(v int16, st *Status) FloatX80 { return x80(fromInt(st, fmtX80, v)) }
func Int32ToX80(v int32, st *Status) FloatX80 { return x80(fromInt(st, fmtX80, v)) }
func Int64ToX80(v int64, st *Status) FloatX80 { return x80(fromInt(st, fmtX80, v)) }

func X80ToF32(a FloatX80, st *Status) Float32   { return f32(convert(st, fmtX80, fmt32, a.raw())) }
func X80ToF64(a FloatX80, st *Status) Float64   { return f64(convert(st, fmtX80, fmt64, a.raw())) }
func X80ToF128(a FloatX80, st *Status) Float128 { return f128(convert(st, fmtX80, fmt128, a.raw())) }
