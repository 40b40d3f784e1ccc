package softfloat

// Float16 is an IEEE-754 binary16 bit pattern. Only conversions are
// provided, as F16C does.
type Float16 uint16

const F16DefaultNaN Float16 = 0xfe00

func (a Float16) raw() u128    { return u128{lo: uint64(a)} }
func f16(r u128) Float16       { return Float16(r.lo) }
func (a Float16) Class() Class { return fmt16.class(a.raw()) }

func F16ToF32(a Float16, st *Status) Float32 { return f32(convert(st, fmt16, fmt32, a.raw())) }
func F16ToF64(a Float16, st *Status) Float64 { return f64(convert(st, fmt16, fmt64, a.raw())) }
