package softfloat

// Float128 is an IEEE-754 binary128 bit pattern.
type Float128 struct{ Hi, Lo uint64 }

var F128DefaultNaN = Float128{Hi: 0xffff800000000000}

func (a Float128) raw() u128    { return u128{a.Hi, a.Lo} }
func f128(r u128) Float128      { return Float128{r.hi, r.lo} }
func (a Float128) Sign() bool   { return a.Hi>>63 != 0 }
func (a Float128) Class() Class { return fmt128.class(a.raw()) }

func F128Add(a, b Float128, st *Status) Float128 { return f128(fmt128.add(st, a.raw(), b.raw(), false)) }
func F128Sub(a, b Float128, st *Status) Float128 { return f128(fmt128.add(st, a.raw(), b.raw(), true)) }
func F128Mul(a, b Float128, st *Status) Float128 { return f128(fmt128.mul(st, a.raw(), b.raw())) }
func F128Div(a, b Float128, st *Status) Float128 { return f128(fmt128.div(st, a.raw(), b.raw())) }
func F128Sqrt(a Float128, st *Status) Float128   { return f128(fmt128.sqrt(st, a.raw())) }

func F128Compare(a, b Float128, st *Status) Relation {
	return fmt128.compare(st, a.raw(), b.raw(), true)
}

func F128CompareQuiet(a, b Float128, st *Status) Relation {
	return fmt128.compare(st, a.raw(), b.raw(), false)
}

func Int64ToF128(v int64, st *Status) Float128 { return f128(fromInt(st, fmt128, v)) }

func F128ToInt64(a Float128, st *Status) int64 {
	return toInt[int64](st, fmt128, a.raw(), st.RoundingMode)
}

func F128ToF32(a Float128, st *Status) Float32  { return f32(convert(st, fmt128, fmt32, a.raw())) }
func F128ToF64(a Float128, st *Status) Float64  { return f64(convert(st, fmt128, fmt64, a.raw())) }
func F128ToX80(a Float128, st *Status) FloatX80 { return x80(convert(st, fmt128, fmtX80, a.raw())) }
