package softfloat

// Float64 is an IEEE-754 binary64 bit pattern.
type Float64 uint64

const (
	F64PositiveZero Float64 = 0
	F64NegativeZero Float64 = 0x8000000000000000
	F64PositiveInf  Float64 = 0x7ff0000000000000
	F64NegativeInf  Float64 = 0xfff0000000000000
	F64DefaultNaN   Float64 = 0xfff8000000000000
)

func (a Float64) raw() u128    { return u128{lo: uint64(a)} }
func f64(r u128) Float64       { return Float64(r.lo) }
func (a Float64) Sign() bool   { return a>>63 != 0 }
func (a Float64) Class() Class { return fmt64.class(a.raw()) }

func (a Float64) IsNaN() bool {
	c := a.Class()
	return c == ClassQNaN || c == ClassSNaN
}

func (a Float64) IsSignalingNaN() bool { return a.Class() == ClassSNaN }

// Unpack returns a finite non-zero value as sig * 2^exp, sig holding the
// integer bit.
func (a Float64) Unpack() (sign bool, exp int32, sig uint64) {
	u := fmt64.unpack(&Status{}, a.raw())
	if u.cls != clsFinite {
		return u.sign, 0, 0
	}
	n := 128 - fmt64.prec()
	return u.sign, u.exp - int32(fmt64.fracBits), u.sig.shr(n).lo
}

// RoundPackFloat64 rounds sig * 2^exp to binary64 under st.
func RoundPackFloat64(sign bool, exp int32, sig uint64, st *Status) Float64 {
	return f64(fmt64.roundPack(st, fmt64.prec(), sign, exp+127, u128{lo: sig}))
}

func F64Add(a, b Float64, st *Status) Float64 { return f64(fmt64.add(st, a.raw(), b.raw(), false)) }
func F64Sub(a, b Float64, st *Status) Float64 { return f64(fmt64.add(st, a.raw(), b.raw(), true)) }
func F64Mul(a, b Float64, st *Status) Float64 { return f64(fmt64.mul(st, a.raw(), b.raw())) }
func F64Div(a, b Float64, st *Status) Float64 { return f64(fmt64.div(st, a.raw(), b.raw())) }
func F64Sqrt(a Float64, st *Status) Float64   { return f64(fmt64.sqrt(st, a.raw())) }

// F64Rem is the IEEE remainder.
func F64Rem(a, b Float64, st *Status) Float64 {
	r, _ := fmt64.rem(st, a.raw(), b.raw())
	return f64(r)
}

// F64MulAdd is a fused a*b+c.
func F64MulAdd(a, b, c Float64, flags MulAddFlags, st *Status) Float64 {
	return f64(fmt64.fma(st, a.raw(), b.raw(), c.raw(), flags))
}

// F64RoundToInt rounds to an integral value in the current rounding mode.
func F64RoundToInt(a Float64, st *Status) Float64 {
	return f64(fmt64.roundToInt(st, a.raw(), st.RoundingMode))
}

// F64RoundToIntMode rounds with an explicit mode, as ROUNDSD does with
// its immediate.
func F64RoundToIntMode(a Float64, mode RoundingMode, st *Status) Float64 {
	return f64(fmt64.roundToInt(st, a.raw(), mode))
}

func F64Min(a, b Float64, st *Status) Float64 { return f64(fmt64.minMax(st, a.raw(), b.raw(), false)) }
func F64Max(a, b Float64, st *Status) Float64 { return f64(fmt64.minMax(st, a.raw(), b.raw(), true)) }

// F64Compare is the signaling comparison (COMISD).
func F64Compare(a, b Float64, st *Status) Relation {
	return fmt64.compare(st, a.raw(), b.raw(), true)
}

// F64CompareQuiet is the quiet comparison (UCOMISD).
func F64CompareQuiet(a, b Float64, st *Status) Relation {
	return fmt64.compare(st, a.raw(), b.raw(), false)
}

func F64ToInt32(a Float64, st *Status) int32 {
	return toInt[int32](st, fmt64, a.raw(), st.RoundingMode)
}

func F64ToInt32RoundToZero(a Float64, st *Status) int32 {
	return toInt[int32](st, fmt64, a.raw(), RoundToZero)
}

func F64ToInt64(a Float64, st *Status) int64 {
	return toInt[int64](st, fmt64, a.raw(), st.RoundingMode)
}

func F64ToInt64RoundToZero(a Float64, st *Status) int64 {
	return toInt[int64](st, fmt64, a.raw(), RoundToZero)
}

func F64ToUint32(a Float64, st *Status) uint32 {
	return toInt[uint32](st, fmt64, a.raw(), st.RoundingMode)
}

func F64ToUint32RoundToZero(a Float64, st *Status) uint32 {
	return toInt[uint32](st, fmt64, a.raw(), RoundToZero)
}

func F64ToUint64(a Float64, st *Status) uint64 {
	return toInt[uint64](st, fmt64, a.raw(), st.RoundingMode)
}

func F64ToUint64RoundToZero(a Float64, st *Status) uint64 {
	return toInt[uint64](st, fmt64, a.raw(), RoundToZero)
}

func Int32ToF64(v int32, st *Status) Float64   { return f64(fromInt(st, fmt64, v)) }
func Int64ToF64(v int64, st *Status) Float64   { return f64(fromInt(st, fmt64, v)) }
func Uint32ToF64(v uint32, st *Status) Float64 { return f64(fromInt(st, fmt64, v)) }
func Uint64ToF64(v uint64, st *Status) Float64 { return f64(fromInt(st, fmt64, v)) }

func F64ToF16(a Float64, st *Status) Float16   { return f16(convert(st, fmt64, fmt16, a.raw())) }
func F64ToF32(a Float64, st *Status) Float32   { return f32(convert(st, fmt64, fmt32, a.raw())) }
func F64ToX80(a Float64, st *Status) FloatX80  { return x80(convert(st, fmt64, fmtX80, a.raw())) }
func F64ToF128(a Float64, st *Status) Float128 { return f128(convert(st, fmt64, fmt128, a.raw())) }
