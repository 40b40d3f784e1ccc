package softfloat

// Float32 is an IEEE-754 binary32 bit pattern.
type Float32 uint32

const (
	F32PositiveZero Float32 = 0
	F32NegativeZero Float32 = 0x80000000
	F32PositiveInf  Float32 = 0x7f800000
	F32NegativeInf  Float32 = 0xff800000
	F32DefaultNaN   Float32 = 0xffc00000
)

func (a Float32) raw() u128    { return u128{lo: uint64(a)} }
func f32(r u128) Float32       { return Float32(r.lo) }
func (a Float32) Sign() bool   { return a>>31 != 0 }
func (a Float32) Class() Class { return fmt32.class(a.raw()) }

func (a Float32) IsNaN() bool {
	c := a.Class()
	return c == ClassQNaN || c == ClassSNaN
}

func (a Float32) IsSignalingNaN() bool { return a.Class() == ClassSNaN }

// Unpack returns a finite non-zero value as sig * 2^exp, sig holding the
// integer bit.
func (a Float32) Unpack() (sign bool, exp int32, sig uint64) {
	u := fmt32.unpack(&Status{}, a.raw())
	if u.cls != clsFinite {
		return u.sign, 0, 0
	}
	n := 128 - fmt32.prec()
	return u.sign, u.exp - int32(fmt32.fracBits), u.sig.shr(n).lo
}

// RoundPackFloat32 rounds sig * 2^exp to binary32 under st.
func RoundPackFloat32(sign bool, exp int32, sig uint64, st *Status) Float32 {
	return f32(fmt32.roundPack(st, fmt32.prec(), sign, exp+127, u128{lo: sig}))
}

func F32Add(a, b Float32, st *Status) Float32 { return f32(fmt32.add(st, a.raw(), b.raw(), false)) }
func F32Sub(a, b Float32, st *Status) Float32 { return f32(fmt32.add(st, a.raw(), b.raw(), true)) }
func F32Mul(a, b Float32, st *Status) Float32 { return f32(fmt32.mul(st, a.raw(), b.raw())) }
func F32Div(a, b Float32, st *Status) Float32 { return f32(fmt32.div(st, a.raw(), b.raw())) }
func F32Sqrt(a Float32, st *Status) Float32   { return f32(fmt32.sqrt(st, a.raw())) }

// F32Rem is the IEEE remainder.
func F32Rem(a, b Float32, st *Status) Float32 {
	r, _ := fmt32.rem(st, a.raw(), b.raw())
	return f32(r)
}

// F32MulAdd is a fused a*b+c.
func F32MulAdd(a, b, c Float32, flags MulAddFlags, st *Status) Float32 {
	return f32(fmt32.fma(st, a.raw(), b.raw(), c.raw(), flags))
}

// F32RoundToInt rounds to an integral value in the current rounding mode.
func F32RoundToInt(a Float32, st *Status) Float32 {
	return f32(fmt32.roundToInt(st, a.raw(), st.RoundingMode))
}

// F32RoundToIntMode rounds with an explicit mode, as ROUNDSS does with
// its immediate.
func F32RoundToIntMode(a Float32, mode RoundingMode, st *Status) Float32 {
	return f32(fmt32.roundToInt(st, a.raw(), mode))
}

func F32Min(a, b Float32, st *Status) Float32 { return f32(fmt32.minMax(st, a.raw(), b.raw(), false)) }
func F32Max(a, b Float32, st *Status) Float32 { return f32(fmt32.minMax(st, a.raw(), b.raw(), true)) }

// F32Compare is the signaling comparison (COMISS).
func F32Compare(a, b Float32, st *Status) Relation {
	return fmt32.compare(st, a.raw(), b.raw(), true)
}

// F32CompareQuiet is the quiet comparison (UCOMISS).
func F32CompareQuiet(a, b Float32, st *Status) Relation {
	return fmt32.compare(st, a.raw(), b.raw(), false)
}

func F32ToInt32(a Float32, st *Status) int32 {
	return toInt[int32](st, fmt32, a.raw(), st.RoundingMode)
}

func F32ToInt32RoundToZero(a Float32, st *Status) int32 {
	return toInt[int32](st, fmt32, a.raw(), RoundToZero)
}

func F32ToInt64(a Float32, st *Status) int64 {
	return toInt[int64](st, fmt32, a.raw(), st.RoundingMode)
}

func F32ToInt64RoundToZero(a Float32, st *Status) int64 {
	return toInt[int64](st, fmt32, a.raw(), RoundToZero)
}

func F32ToUint32(a Float32, st *Status) uint32 {
	return toInt[uint32](st, fmt32, a.raw(), st.RoundingMode)
}

func F32ToUint32RoundToZero(a Float32, st *Status) uint32 {
	return toInt[uint32](st, fmt32, a.raw(), RoundToZero)
}

func F32ToUint64(a Float32, st *Status) uint64 {
	return toInt[uint64](st, fmt32, a.raw(), st.RoundingMode)
}

func F32ToUint64RoundToZero(a Float32, st *Status) uint64 {
	return toInt[uint64](st, fmt32, a.raw(), RoundToZero)
}

func Int32ToF32(v int32, st *Status) Float32   { return f32(fromInt(st, fmt32, v)) }
func Int64ToF32(v int64, st *Status) Float32   { return f32(fromInt(st, fmt32, v)) }
func Uint32ToF32(v uint32, st *Status) Float32 { return f32(fromInt(st, fmt32, v)) }
func Uint64ToF32(v uint64, st *Status) Float32 { return f32(fromInt(st, fmt32, v)) }

func F32ToF16(a Float32, st *Status) Float16   { return f16(convert(st, fmt32, fmt16, a.raw())) }
func F32ToF64(a Float32, st *Status) Float64   { return f64(convert(st, fmt32, fmt64, a.raw())) }
func F32ToX80(a Float32, st *Status) FloatX80  { return x80(convert(st, fmt32, fmtX80, a.raw())) }
func F32ToF128(a Float32, st *Status) Float128 { return f128(convert(st, fmt32, fmt128, a.raw())) }
