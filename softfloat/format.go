package softfloat

// format describes one binary interchange layout. The 80-bit extended
// format stores its integer bit; the others imply it.
type format struct {
	name     string
	expBits  uint
	fracBits uint // fraction bits below the integer bit
	explicit bool
	bias     int32
}

var (
	fmt16  = &format{name: "float16", expBits: 5, fracBits: 10, bias: 15}
	fmt32  = &format{name: "float32", expBits: 8, fracBits: 23, bias: 127}
	fmt64  = &format{name: "float64", expBits: 11, fracBits: 52, bias: 1023}
	fmtX80 = &format{name: "floatx80", expBits: 15, fracBits: 63, explicit: true, bias: 16383}
	fmt128 = &format{name: "float128", expBits: 15, fracBits: 112, bias: 16383}
)

func (f *format) maxExp() int32 { return 1<<f.expBits - 1 }
func (f *format) prec() uint    { return f.fracBits + 1 }

// arithPrec is the precision arithmetic results are rounded to. Only the
// extended format honors the x87 precision control.
func (f *format) arithPrec(st *Status) uint {
	if !f.explicit {
		return f.prec()
	}
	switch st.RoundingPrecision {
	case 32:
		return 24
	case 64:
		return 53
	}
	return 64
}

// DAZ and FTZ are SSE controls; x87 arithmetic ignores them.
func (f *format) daz(st *Status) bool { return st.DenormalsAreZeros && !f.explicit }

// ftz reports whether tiny results are flushed. An unmasked underflow takes
// precedence, as with MXCSR.FZ.
func (f *format) ftz(st *Status) bool {
	return st.FlushUnderflowToZero && st.Masks&FlagUnderflow != 0 && !f.explicit
}

// fields splits a raw pattern. For the extended format frac includes the
// integer bit.
func (f *format) fields(raw u128) (bool, int32, u128) {
	if f.explicit {
		return raw.hi&0x8000 != 0, int32(raw.hi & 0x7fff), u128{lo: raw.lo}
	}
	sign := raw.test(f.expBits + f.fracBits)
	e := int32(raw.shr(f.fracBits).lo & (1<<f.expBits - 1))
	return sign, e, raw.and(mask128(f.fracBits))
}

func (f *format) assemble(sign bool, e int32, frac u128) u128 {
	if f.explicit {
		hi := uint64(e)
		if sign {
			hi |= 0x8000
		}
		return u128{hi: hi, lo: frac.lo}
	}
	z := u128{lo: uint64(e)}.shl(f.fracBits).or(frac)
	if sign {
		z = z.or(bit128(f.expBits + f.fracBits))
	}
	return z
}

func (f *format) zero(sign bool) u128 { return f.assemble(sign, 0, u128{}) }

func (f *format) inf(sign bool) u128 {
	if f.explicit {
		return f.assemble(sign, f.maxExp(), bit128(63))
	}
	return f.assemble(sign, f.maxExp(), u128{})
}

func (f *format) quietBit() u128 { return bit128(f.fracBits - 1) }

// defaultNaN is the x86 "real indefinite": negative, quiet, empty payload.
func (f *format) defaultNaN() u128 {
	frac := f.quietBit()
	if f.explicit {
		frac = frac.or(bit128(63))
	}
	return f.assemble(true, f.maxExp(), frac)
}

func (f *format) quiet(raw u128) u128 { return raw.or(f.quietBit()) }

// fraction extracts the stored fraction from a rounded, left-aligned
// significand.
func (f *format) fraction(sig u128) u128 {
	if f.explicit {
		return u128{lo: sig.hi}
	}
	return sig.shr(128 - f.prec()).and(mask128(f.fracBits))
}

type class uint8

const (
	clsZero class = iota
	clsFinite
	clsInf
	clsQNaN
	clsSNaN
	clsUnsupported // extended-format unnormals, pseudo-NaNs and pseudo-infinities
)

// unpacked is a decoded operand. Finite values are sig * 2^(exp-127) with
// bit 127 of sig set. NaNs keep their payload left-aligned in sig, quiet
// bit at 127.
type unpacked struct {
	cls  class
	sign bool
	exp  int32
	sig  u128
	raw  u128
	den  bool // was a denormal
}

func (u unpacked) isNaN() bool { return u.cls == clsQNaN || u.cls == clsSNaN }

func (f *format) unpack(st *Status, raw u128) unpacked {
	sign, e, frac := f.fields(raw)
	u := unpacked{sign: sign, raw: raw}
	switch {
	case e == f.maxExp():
		payload := frac
		if f.explicit {
			if !frac.test(63) {
				u.cls = clsUnsupported
				return u
			}
			payload = frac.andNot(bit128(63))
		}
		switch {
		case payload.isZero():
			u.cls = clsInf
		case payload.test(f.fracBits - 1):
			u.cls = clsQNaN
		default:
			u.cls = clsSNaN
		}
		u.sig = payload.shl(128 - f.fracBits)
	case e == 0:
		if frac.isZero() || f.daz(st) {
			u.cls = clsZero
			return u
		}
		u.cls, u.den = clsFinite, true
		u.exp, u.sig = norm(1-f.bias-int32(f.fracBits)+127, frac)
	default:
		if f.explicit {
			if !frac.test(63) {
				u.cls = clsUnsupported
				return u
			}
		} else {
			frac = frac.or(bit128(f.fracBits))
		}
		u.cls = clsFinite
		u.exp, u.sig = norm(e-f.bias-int32(f.fracBits)+127, frac)
	}
	return u
}

// Class is the x86 operand classification.
type Class uint8

const (
	ClassZero Class = iota
	ClassSNaN
	ClassQNaN
	ClassNegativeInf
	ClassPositiveInf
	ClassDenormal
	ClassNormal
	ClassUnsupported
)

var classNames = [...]string{"zero", "snan", "qnan", "-inf", "+inf", "denormal", "normal", "unsupported"}

func (c Class) String() string { return classNames[c] }

func (f *format) class(raw u128) Class {
	u := f.unpack(&Status{}, raw)
	switch u.cls {
	case clsZero:
		return ClassZero
	case clsQNaN:
		return ClassQNaN
	case clsSNaN:
		return ClassSNaN
	case clsInf:
		if u.sign {
			return ClassNegativeInf
		}
		return ClassPositiveInf
	case clsUnsupported:
		return ClassUnsupported
	}
	if u.den {
		return ClassDenormal
	}
	return ClassNormal
}
