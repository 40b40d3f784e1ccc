package softfloat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32v(x float32) Float32 { return Float32(math.Float32bits(x)) }
func f64v(x float64) Float64 { return Float64(math.Float64bits(x)) }

func TestExactResults(t *testing.T) {
	st := NewStatus()
	assert.Equal(t, Float32(0x3F000000), F32Div(0x3F800000, 0x40000000, st))
	assert.Equal(t, Flags(0), st.Flags)

	st = NewStatus()
	assert.Equal(t, Float64(0x4000000000000000), F64Sqrt(0x4010000000000000, st))
	assert.Zero(t, st.Flags&FlagInexact)
}

func TestWidenNarrowRoundTrip(t *testing.T) {
	samples := []float32{0, -0, 1, -1, 0.1, 3.4028235e38, 1.1754944e-38, 1e-45, 123456.79, float32(math.Inf(1))}
	for _, x := range samples {
		st := NewStatus()
		a := f32v(x)
		got := F64ToF32(F32ToF64(a, st), st)
		assert.Equal(t, a, got, "%g", x)
		assert.Zero(t, st.Flags&^FlagDenormal, "%g", x)
	}
}

func TestRoundPackIdempotent(t *testing.T) {
	for _, a := range []Float32{0x3f800000, 0x3fc00000, 0x00000001, 0x007fffff, 0x7f7fffff, 0xc2f6e979} {
		st := NewStatus()
		sign, exp, sig := a.Unpack()
		once := RoundPackFloat32(sign, exp, sig, st)
		sign, exp, sig = once.Unpack()
		twice := RoundPackFloat32(sign, exp, sig, st)
		assert.Equal(t, a, once)
		assert.Equal(t, once, twice)
		assert.Zero(t, st.Flags)
	}
	for _, a := range []Float64{0x3ff0000000000000, 0x0000000000000001, 0x7fefffffffffffff} {
		st := NewStatus()
		sign, exp, sig := a.Unpack()
		assert.Equal(t, a, RoundPackFloat64(sign, exp, sig, st))
	}
}

func TestRoundPackModes(t *testing.T) {
	// 1 + 2^-24 is halfway between 1 and the next float32.
	sig, exp := uint64(1<<24|1), int32(-24)
	cases := []struct {
		mode RoundingMode
		sign bool
		want Float32
	}{
		{RoundNearestEven, false, 0x3f800000},
		{RoundUp, false, 0x3f800001},
		{RoundDown, false, 0x3f800000},
		{RoundToZero, false, 0x3f800000},
		{RoundDown, true, 0xbf800001},
		{RoundUp, true, 0xbf800000},
	}
	for _, c := range cases {
		t.Run(c.mode.String(), func(t *testing.T) {
			st := NewStatus()
			st.RoundingMode = c.mode
			assert.Equal(t, c.want, RoundPackFloat32(c.sign, exp, sig, st))
			assert.Equal(t, FlagInexact, st.Flags)
		})
	}
}

func TestNaNPropagation(t *testing.T) {
	const snan, qa, qb = Float32(0x7f800001), Float32(0x7fc00001), Float32(0x7fc00002)
	for _, x := range []Float32{0, 0x3f800000, 0xff800000, 0x7f7fffff} {
		st := NewStatus()
		r := F32Add(snan, x, st)
		assert.True(t, r.IsNaN())
		assert.False(t, r.IsSignalingNaN())
		assert.Equal(t, FlagInvalid, st.Flags&FlagInvalid)
	}

	st := NewStatus()
	assert.Equal(t, qb, F32Add(qa, qb, st))
	assert.Equal(t, qb, F32Add(qb, qa, st))
	assert.Zero(t, st.Flags)

	st.NaNMode = NaNFirstOperand
	assert.Equal(t, qa, F32Add(qa, qb, st))
	assert.Equal(t, qb, F32Add(qb, qa, st))
	assert.Equal(t, qa, F32Mul(0x3f800000, qa, st))
	assert.Zero(t, st.Flags)

	// a quiet NaN wins over a signaling one
	st = NewStatus()
	assert.Equal(t, qb, F32Add(qb, snan, st))
	assert.Equal(t, qb, F32Add(snan, qb, st))
	assert.Equal(t, FlagInvalid, st.Flags)

	// payloads survive widening
	st = NewStatus()
	assert.Equal(t, Float64(0x7ff8000020000000), F32ToF64(qa, st))
}

func TestDefaultNaNs(t *testing.T) {
	st := NewStatus()
	assert.Equal(t, F32DefaultNaN, F32Sub(F32PositiveInf, F32PositiveInf, st))
	assert.Equal(t, F64DefaultNaN, F64Mul(F64PositiveInf, F64PositiveZero, st))
	assert.Equal(t, X80DefaultNaN, X80Sqrt(X80Chs(Int32ToX80(4, st)), st))
	assert.Equal(t, F128DefaultNaN, F128Div(Float128{}, Float128{}, st))
	assert.Equal(t, F16DefaultNaN, F32ToF16(F32DefaultNaN, st))
	assert.Equal(t, FlagInvalid, st.Flags)
}

func TestInfinityTimesZeroRaisesInvalid(t *testing.T) {
	st := NewStatus()
	r := F32Mul(F32NegativeInf, F32NegativeZero, st)
	assert.Equal(t, F32DefaultNaN, r)
	assert.Equal(t, FlagInvalid, st.Flags)
}

func TestDenormalsAreZeros(t *testing.T) {
	st := NewStatus()
	st.DenormalsAreZeros = true
	assert.Equal(t, Float32(0x80000000), F32Mul(0x80000001, 0x3f800000, st))
	assert.Zero(t, st.Flags, "DAZ does not raise denormal")

	st = NewStatus()
	assert.Equal(t, Float32(0x80000001), F32Mul(0x80000001, 0x3f800000, st))
	assert.Equal(t, FlagDenormal, st.Flags)
}

func TestFlushToZero(t *testing.T) {
	st := NewStatus()
	st.FlushUnderflowToZero = true
	assert.Equal(t, Float64(0x8000000000000000), F64Mul(0x8010000000000000, f64v(0.25), st))
	assert.Equal(t, FlagUnderflow|FlagInexact, st.Flags)

	// with underflow unmasked the denormal is delivered
	st = NewStatus()
	st.FlushUnderflowToZero = true
	st.Masks &^= FlagUnderflow
	assert.Equal(t, Float64(0x8004000000000000), F64Mul(0x8010000000000000, f64v(0.25), st))
	assert.Equal(t, FlagUnderflow, st.Flags)

	st = FromMXCSR(0x1f80 &^ 0x800 | 0x8000)
	assert.Equal(t, Float32(0x00400000), F32Mul(0x00800000, f32v(0.5), st))
	assert.Equal(t, FlagUnderflow, st.Flags)
}

func TestUnderflowReporting(t *testing.T) {
	// exact tiny result: masked underflow stays quiet
	st := NewStatus()
	F32Mul(0x00800000, f32v(0.5), st)
	assert.Zero(t, st.Flags)

	// unmasked, it is reported even when exact
	st = NewStatus()
	st.Masks &^= FlagUnderflow
	F32Mul(0x00800000, f32v(0.5), st)
	assert.Equal(t, FlagUnderflow, st.Flags)

	// tininess after rounding: rounds up to the smallest normal
	st = NewStatus()
	r := F32Mul(0x007fffff, f32v(1.0000001), st)
	assert.Equal(t, Float32(0x00800000), r)
	assert.Equal(t, FlagDenormal|FlagInexact, st.Flags)
}

func TestFlagsOnlyAccumulate(t *testing.T) {
	st := NewStatus()
	st.Flags = FlagOverflow
	F32Add(f32v(1), f32v(2), st)
	assert.Equal(t, FlagOverflow, st.Flags)
}

func TestMulAdd(t *testing.T) {
	two, three, one := f32v(2), f32v(3), f32v(1)
	cases := []struct {
		flags MulAddFlags
		want  float32
	}{
		{0, 7},
		{NegateAddend, 5},
		{NegateProduct, -5},
		{NegateResult, -7},
		{NegateProduct | NegateAddend, -7},
	}
	for _, c := range cases {
		st := NewStatus()
		assert.Equal(t, f32v(c.want), F32MulAdd(two, three, one, c.flags, st), "flags %d", c.flags)
		assert.Zero(t, st.Flags)
	}

	// one rounding: the unfused sequence loses the low product bits
	st := NewStatus()
	a, b, c := f64v(0.1), f64v(10), f64v(-1)
	assert.Equal(t, Float64(0x3c90000000000000), F64MulAdd(a, b, c, 0, st))
	assert.Zero(t, st.Flags)
	assert.Equal(t, Float64(0), F64Add(F64Mul(a, b, st), c, st))

	// exact zero sum follows the rounding mode
	st = NewStatus()
	assert.Equal(t, Float32(0), F32MulAdd(one, one, f32v(-1), 0, st))
	st.RoundingMode = RoundDown
	assert.Equal(t, Float32(0x80000000), F32MulAdd(one, one, f32v(-1), 0, st))

	// inf*0 with a quiet NaN addend returns the addend quietly
	st = NewStatus()
	assert.Equal(t, Float32(0x7fc01234), F32MulAdd(F32PositiveInf, 0, 0x7fc01234, 0, st))
	assert.Zero(t, st.Flags)
	st = NewStatus()
	assert.Equal(t, Float64(0xfff8000000000abc), F64MulAdd(0, 0xfff0000000000000, 0xfff8000000000abc, 0, st))
	assert.Zero(t, st.Flags)

	// a signaling addend is quieted and raises invalid
	st = NewStatus()
	assert.Equal(t, Float32(0x7fc01234), F32MulAdd(F32PositiveInf, 0, 0x7f801234, 0, st))
	assert.Equal(t, FlagInvalid, st.Flags)

	// inf*0 plus a number is invalid
	st = NewStatus()
	assert.Equal(t, Float32(0xffc00000), F32MulAdd(F32PositiveInf, 0, one, 0, st))
	assert.Equal(t, FlagInvalid, st.Flags)
}

func TestCompare(t *testing.T) {
	qnan, snan := Float64(0x7ff8000000000000), Float64(0x7ff0000000000001)
	cases := []struct {
		name      string
		a, b      Float64
		want      Relation
		signaling Flags
		quiet     Flags
	}{
		{"less", f64v(1), f64v(2), Less, 0, 0},
		{"greater", f64v(-1), f64v(-2), Greater, 0, 0},
		{"zeros", F64NegativeZero, F64PositiveZero, Equal, 0, 0},
		{"inf", F64NegativeInf, f64v(-1e308), Less, 0, 0},
		{"qnan", qnan, f64v(1), Unordered, FlagInvalid, 0},
		{"snan", f64v(1), snan, Unordered, FlagInvalid, FlagInvalid},
		{"denormal", 1, 2, Less, FlagDenormal, FlagDenormal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st := NewStatus()
			assert.Equal(t, c.want, F64Compare(c.a, c.b, st))
			assert.Equal(t, c.signaling, st.Flags)
			st = NewStatus()
			assert.Equal(t, c.want, F64CompareQuiet(c.a, c.b, st))
			assert.Equal(t, c.quiet, st.Flags)
		})
	}
}

func TestPredicateTable(t *testing.T) {
	one, two, qnan := f32v(1), f32v(2), Float32(0x7fc00000)
	for p := Predicate(0); p < NumPredicates; p++ {
		t.Run(p.String(), func(t *testing.T) {
			info := predicates[p]
			st := NewStatus()
			assert.Equal(t, info.accept&relLess != 0, F32Predicate(p, one, two, st))
			assert.Equal(t, info.accept&relEqual != 0, F32Predicate(p, one, one, st))
			assert.Equal(t, info.accept&relGreater != 0, F32Predicate(p, two, one, st))
			assert.Zero(t, st.Flags)

			assert.Equal(t, info.accept&relUnordered != 0, F32Predicate(p, qnan, one, st))
			if info.signaling {
				assert.Equal(t, FlagInvalid, st.Flags)
			} else {
				assert.Zero(t, st.Flags)
			}
			// the upper half swaps quiet and signaling
			assert.NotEqual(t, info.signaling, predicates[p^16].signaling)
			assert.Equal(t, info.accept, predicates[p^16].accept)
		})
	}
	p, ok := ParsePredicate("nle_us")
	require.True(t, ok)
	assert.Equal(t, NleUnorderedSignaling, p)
	assert.True(t, F64Predicate(p, f64v(3), f64v(2), NewStatus()))
}

func TestMinMax(t *testing.T) {
	st := NewStatus()
	assert.Equal(t, f32v(1), F32Min(f32v(1), f32v(2), st))
	assert.Equal(t, f32v(2), F32Max(f32v(1), f32v(2), st))
	// two zeros, or a NaN, give the second operand
	assert.Equal(t, F32PositiveZero, F32Min(F32NegativeZero, F32PositiveZero, st))
	assert.Equal(t, F32NegativeZero, F32Max(F32PositiveZero, F32NegativeZero, st))
	assert.Zero(t, st.Flags)
	assert.Equal(t, Float32(0x7fc00000), F32Max(f32v(1), 0x7fc00000, st))
	assert.Equal(t, FlagInvalid, st.Flags)
}

func TestIntegerConversions(t *testing.T) {
	st := NewStatus()
	assert.Equal(t, int32(-3), F32ToInt32(f32v(-2.5), &Status{RoundingMode: RoundDown}))
	assert.Equal(t, int32(-2), F32ToInt32RoundToZero(f32v(-2.7), NewStatus()))
	assert.Equal(t, int64(math.MinInt64), F64ToInt64(f64v(-9223372036854775808), st))
	assert.Zero(t, st.Flags)

	assert.Equal(t, int64(math.MinInt64), F64ToInt64(f64v(9223372036854775808), st))
	assert.Equal(t, FlagInvalid, st.Flags)

	st = NewStatus()
	assert.Equal(t, uint32(0), F32ToUint32(f32v(-0.3), st))
	assert.Equal(t, FlagInexact, st.Flags)

	st = NewStatus()
	assert.Equal(t, uint32(math.MaxUint32), F32ToUint32(f32v(-1), st))
	assert.Equal(t, FlagInvalid, st.Flags)

	st = NewStatus()
	assert.Equal(t, uint64(1<<63), F64ToUint64(f64v(9223372036854775808), st))
	assert.Equal(t, f64v(18446744073709551615), Uint64ToF64(math.MaxUint64, st))
	assert.Equal(t, FlagInexact, st.Flags)

	st = NewStatus()
	assert.Equal(t, f64v(-2147483648), Int32ToF64(math.MinInt32, st))
	assert.Equal(t, f32v(-1), Int64ToF32(-1, st))
	assert.Zero(t, st.Flags)
}

func TestRoundToInt(t *testing.T) {
	cases := []struct {
		x    float64
		mode RoundingMode
		want float64
	}{
		{2.5, RoundNearestEven, 2},
		{3.5, RoundNearestEven, 4},
		{2.5, RoundUp, 3},
		{-2.5, RoundDown, -3},
		{-2.5, RoundToZero, -2},
		{0.5, RoundNearestEven, 0},
		{0.75, RoundNearestEven, 1},
		{-0.25, RoundUp, math.Copysign(0, -1)},
		{1e300, RoundNearestEven, 1e300},
	}
	for _, c := range cases {
		st := NewStatus()
		st.RoundingMode = c.mode
		assert.Equal(t, f64v(c.want), F64RoundToInt(f64v(c.x), st), "%g %s", c.x, c.mode)
		assert.Equal(t, f64v(c.want), F64RoundToIntMode(f64v(c.x), c.mode, NewStatus()))
	}
}

func TestRemainder(t *testing.T) {
	st := NewStatus()
	assert.Equal(t, f64v(-1), F64Rem(f64v(7), f64v(2), st))
	assert.Equal(t, f64v(1), F64Rem(f64v(5), f64v(2), st))
	assert.Equal(t, f64v(0.5), F64Rem(f64v(0.5), f64v(3), st))
	assert.Equal(t, f64v(-1), F64Rem(f64v(2), f64v(3), st))
	assert.Equal(t, f32v(0.25), F32Rem(f32v(1e10), f32v(0.75), st))
	assert.Zero(t, st.Flags)

	assert.True(t, F64Rem(F64PositiveInf, f64v(1), st).IsNaN())
	assert.Equal(t, FlagInvalid, st.Flags)

	seven, two := Int32ToX80(7, st), Int32ToX80(2, st)
	r, q := X80Mod(seven, two, st)
	assert.Equal(t, Int32ToX80(1, st), r)
	assert.Equal(t, uint64(3), q)
	r, q = X80Rem(seven, two, st)
	assert.Equal(t, Int32ToX80(-1, st), r)
	assert.Equal(t, uint64(4), q)
}

func TestExtendedPrecisionControl(t *testing.T) {
	one, three := Int32ToX80(1, NewStatus()), Int32ToX80(3, NewStatus())
	cases := []struct {
		cw   uint16
		want uint64
	}{
		{0x037f, 0xaaaaaaaaaaaaaaab},
		{0x027f, 0xaaaaaaaaaaaaa800},
		{0x007f, 0xaaaaab0000000000},
	}
	for _, c := range cases {
		st := FromControlWord(c.cw)
		r := X80Div(one, three, st)
		assert.Equal(t, c.want, r.Fraction, "cw %#04x", c.cw)
		assert.Equal(t, uint16(0x3ffd), r.SignExp)
		assert.Equal(t, FlagInexact, st.Flags)
	}
}

func TestExtendedFormat(t *testing.T) {
	st := NewStatus()
	one := Int64ToX80(1, st)
	assert.Equal(t, FloatX80{Fraction: 1 << 63, SignExp: 0x3fff}, one)
	assert.Equal(t, one, X80FromBytes(one.Bytes()))
	assert.Equal(t, int64(-5), X80ToInt64(Int64ToX80(-5, st), st))
	assert.Equal(t, int16(-32768), X80ToInt16(Int32ToX80(40000, st), st))
	assert.Equal(t, FlagInvalid, st.Flags)

	// unnormals are unsupported operands
	st = NewStatus()
	unnormal := FloatX80{Fraction: 1 << 62, SignExp: 0x3fff}
	assert.Equal(t, ClassUnsupported, unnormal.Class())
	assert.Equal(t, X80DefaultNaN, X80Add(unnormal, one, st))
	assert.Equal(t, FlagInvalid, st.Flags)

	st = NewStatus()
	assert.Equal(t, Int32ToX80(8, st), X80Scale(one, 3, st))
	assert.Equal(t, Int32ToX80(2, st), X80Abs(Int32ToX80(-2, st)))
	assert.Equal(t, f64v(1.5), X80ToF64(F64ToX80(f64v(1.5), st), st))
	assert.Equal(t, Greater, X80Compare(one, X80Chs(one), st))
	assert.Zero(t, st.Flags)
}

func TestQuadPrecision(t *testing.T) {
	st := NewStatus()
	one, three := Int64ToF128(1, st), Int64ToF128(3, st)
	third := F128Div(one, three, st)
	assert.Equal(t, Float128{Hi: 0x3ffd555555555555, Lo: 0x5555555555555555}, third)
	assert.Equal(t, F64Div(f64v(1), f64v(3), NewStatus()), F128ToF64(third, st))

	st = NewStatus()
	four := Int64ToF128(4, st)
	assert.Equal(t, Float128{Hi: 0x4000000000000000}, F128Sqrt(four, st))
	assert.Equal(t, four, F128Sub(F128Add(four, one, st), one, st))
	assert.Equal(t, Less, F128Compare(one, four, st))
	assert.Equal(t, int64(4), F128ToInt64(four, st))
	assert.Zero(t, st.Flags)
}

func TestHalfPrecision(t *testing.T) {
	st := NewStatus()
	assert.Equal(t, f32v(1), F16ToF32(0x3c00, st))
	assert.Equal(t, f64v(65504), F16ToF64(0x7bff, st))
	assert.Equal(t, Float16(0x0001), F64ToF16(f64v(5.960464477539063e-08), st))
	assert.Zero(t, st.Flags)
	assert.Equal(t, ClassDenormal, Float16(0x0001).Class())
	assert.Equal(t, f32v(5.960464477539063e-08), F16ToF32(0x0001, st))
	assert.Equal(t, FlagDenormal, st.Flags)
}

func TestClassify(t *testing.T) {
	cases := map[Float32]Class{
		0x00000000: ClassZero,
		0x80000000: ClassZero,
		0x7f800000: ClassPositiveInf,
		0xff800000: ClassNegativeInf,
		0x7fc00000: ClassQNaN,
		0x7f800001: ClassSNaN,
		0x00000001: ClassDenormal,
		0x3f800000: ClassNormal,
	}
	for a, want := range cases {
		assert.Equal(t, want, a.Class(), "%#08x", uint32(a))
	}
}

func TestStatusRegisters(t *testing.T) {
	st := FromMXCSR(0x1f80)
	assert.Equal(t, RoundNearestEven, st.RoundingMode)
	assert.Equal(t, AllFlags, st.Masks)
	assert.Equal(t, uint32(0x1f80), st.MXCSR())

	st = FromMXCSR(0xff40 | 0x21)
	assert.Equal(t, RoundToZero, st.RoundingMode)
	assert.True(t, st.DenormalsAreZeros)
	assert.True(t, st.FlushUnderflowToZero)
	assert.Equal(t, FlagInvalid|FlagInexact, st.Flags)
	assert.Equal(t, uint32(0xff61), st.MXCSR())

	st = FromControlWord(0x0c7f)
	assert.Equal(t, RoundToZero, st.RoundingMode)
	assert.Equal(t, 32, st.RoundingPrecision)
	st.Masks &^= FlagDivByZero
	F64Div(f64v(1), 0, st)
	assert.Equal(t, FlagDivByZero, st.Unmasked())
	assert.Equal(t, "ZE", st.Flags.String())

	_, err := ParseNaNMode("bogus")
	assert.Error(t, err)
	m, err := ParseNaNMode("first-operand")
	require.NoError(t, err)
	assert.Equal(t, NaNFirstOperand, m)
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"f32_add", "f64_muladd", "x80_rem", "f128_sqrt", "f16_to_f32", "i64_to_x80", "f64_to_i32"} {
		_, ok := Lookup(name)
		assert.True(t, ok, name)
	}
	_, ok := Lookup("f16_add")
	assert.False(t, ok)

	op, _ := Lookup("f32_add")
	_, err := op.Apply(NewStatus(), Value{})
	assert.Error(t, err)

	v, err := ParseValue("f32", "1.5")
	require.NoError(t, err)
	assert.Equal(t, Value{Lo: 0x3fc00000}, v)
	v, err = ParseValue("x80", "0x3fff_8000000000000000")
	require.NoError(t, err)
	assert.Equal(t, Value{Hi: 0x3fff, Lo: 0x8000000000000000}, v)
	assert.Equal(t, "0x3fff8000000000000000", FormatValue("x80", v))
	assert.Equal(t, 1.0, Float64Of("x80", v))
	assert.Equal(t, 80, Width("x80"))
	assert.Equal(t, 16, Width("f16"))
}
