package softfloat

// propagate1 returns the quieted NaN operand, raising invalid for a
// signaling one.
func (f *format) propagate1(st *Status, a unpacked) u128 {
	if a.cls == clsSNaN {
		st.Raise(FlagInvalid)
	}
	return f.quiet(a.raw)
}

// propagate picks the NaN result of a two-operand operation where at least
// one operand is a NaN.
func (f *format) propagate(st *Status, a, b unpacked) u128 {
	aSNaN, bSNaN := a.cls == clsSNaN, b.cls == clsSNaN
	aNaN, bNaN := a.isNaN(), b.isNaN()
	if aSNaN || bSNaN {
		st.Raise(FlagInvalid)
	}
	qa, qb := f.quiet(a.raw), f.quiet(b.raw)
	if st.NaNMode == NaNFirstOperand {
		if aNaN {
			return qa
		}
		return qb
	}
	switch {
	case aSNaN:
		if bSNaN {
			return f.larger(qa, qb)
		}
		if bNaN {
			return qb
		}
		return qa
	case aNaN:
		if bSNaN || !bNaN {
			return qa
		}
		return f.larger(qa, qb)
	}
	return qb
}

// larger returns the NaN with the larger significand; on a tie the one
// with the smaller raw pattern, i.e. the positive one.
func (f *format) larger(a, b u128) u128 {
	_, _, fa := f.fields(a)
	_, _, fb := f.fields(b)
	switch fa.cmp(fb) {
	case -1:
		return b
	case 1:
		return a
	}
	if a.cmp(b) < 0 {
		return a
	}
	return b
}

// nan2 handles the NaN and unsupported-operand cases shared by every
// two-operand operation.
func (f *format) nan2(st *Status, a, b unpacked) (u128, bool) {
	if a.cls == clsUnsupported || b.cls == clsUnsupported {
		st.Raise(FlagInvalid)
		return f.defaultNaN(), true
	}
	if a.isNaN() || b.isNaN() {
		return f.propagate(st, a, b), true
	}
	return u128{}, false
}

func (f *format) nan1(st *Status, a unpacked) (u128, bool) {
	if a.cls == clsUnsupported {
		st.Raise(FlagInvalid)
		return f.defaultNaN(), true
	}
	if a.isNaN() {
		return f.propagate1(st, a), true
	}
	return u128{}, false
}

// denormal raises the denormal-operand flag once any input was denormal.
func denormal(st *Status, us ...unpacked) {
	for _, u := range us {
		if u.den {
			st.Raise(FlagDenormal)
			return
		}
	}
}

// convertNaN re-encodes a NaN operand of another format in f, keeping the
// top of its payload.
func (f *format) convertNaN(st *Status, a unpacked) u128 {
	if a.cls == clsSNaN {
		st.Raise(FlagInvalid)
	}
	frac := a.sig.shr(128 - f.fracBits)
	if f.explicit {
		frac = frac.or(bit128(63))
	}
	return f.quiet(f.assemble(a.sign, f.maxExp(), frac))
}
