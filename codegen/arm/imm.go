package arm

import "math/bits"

// EncodeImm returns the 12-bit rotated-immediate field (rotate<<8 | imm8)
// that represents v, and false when no even rotation of an 8-bit value does.
func EncodeImm(v uint32) (uint32, bool) {
	for rot := uint32(0); rot < 16; rot++ {
		b := bits.RotateLeft32(v, int(rot*2))
		if b <= 0xff {
			return rot<<8 | b, true
		}
	}
	return 0, false
}

// DecodeImm expands a rotated-immediate field back to its value.
func DecodeImm(enc uint32) uint32 {
	return bits.RotateLeft32(enc&0xff, -int((enc>>8)&0xf)*2)
}

// IsImmEncodable reports whether v fits a data-processing immediate.
func IsImmEncodable(v uint32) bool {
	_, ok := EncodeImm(v)
	return ok
}

// InBranchRange reports whether a B/BL displacement (target - (pc + 8)) fits
// the signed 24-bit word offset.
func InBranchRange(disp int64) bool {
	return disp&3 == 0 && disp >= -(1<<25) && disp < 1<<25
}

// Offset range checks for the load/store addressing forms.
func fitsImm12(off int32) bool     { return off >= -4095 && off <= 4095 }
func fitsImm8(off int32) bool      { return off >= -255 && off <= 255 }
func fitsVFPOffset(off int32) bool { return off&3 == 0 && off >= -1020 && off <= 1020 }

func splitOffset(off int32) (uint32, uint32) {
	if off < 0 {
		return uint32(-off), 0
	}
	return uint32(off), OFFSET_UP
}
