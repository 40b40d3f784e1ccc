// Package softfloat is a software IEEE-754 engine with x86 semantics for
// 16, 32, 64, 80 and 128-bit binary formats. Values are raw bit patterns;
// all mutable state lives in the caller's Status.
package softfloat

import (
	"fmt"
	"strings"

	"github.com/colorfulnotion/dynarec/dynerrors"
)

// RoundingMode is in x87 RC / MXCSR.RC order.
type RoundingMode uint8

const (
	RoundNearestEven RoundingMode = 0
	RoundDown        RoundingMode = 1 // toward -inf
	RoundUp          RoundingMode = 2 // toward +inf
	RoundToZero      RoundingMode = 3
)

var roundingNames = [...]string{"nearest", "down", "up", "zero"}

func (m RoundingMode) String() string {
	if int(m) < len(roundingNames) {
		return roundingNames[m]
	}
	return fmt.Sprintf("rounding(%d)", uint8(m))
}

// ParseRoundingMode accepts the names printed by RoundingMode.String.
func ParseRoundingMode(s string) (RoundingMode, error) {
	for i, n := range roundingNames {
		if strings.EqualFold(s, n) {
			return RoundingMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rounding mode %q", s)
}

// Flags are the sticky exception bits, in x87 status word / MXCSR order.
type Flags uint8

const (
	FlagInvalid   Flags = 0x01
	FlagDenormal  Flags = 0x02
	FlagDivByZero Flags = 0x04
	FlagOverflow  Flags = 0x08
	FlagUnderflow Flags = 0x10
	FlagInexact   Flags = 0x20

	AllFlags Flags = 0x3f
)

var flagNames = [...]string{"IE", "DE", "ZE", "OE", "UE", "PE"}

func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	var parts []string
	for i, n := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// NaNMode selects which operand's payload survives when both are NaN.
type NaNMode uint8

const (
	// NaNLargerSignificand is the x87 rule: a quiet NaN beats a signaling
	// one, otherwise the larger significand wins.
	NaNLargerSignificand NaNMode = iota
	// NaNFirstOperand returns the first NaN operand, quieted.
	NaNFirstOperand
)

func ParseNaNMode(s string) (NaNMode, error) {
	switch s {
	case "", "larger-significand":
		return NaNLargerSignificand, nil
	case "first-operand":
		return NaNFirstOperand, nil
	}
	return 0, fmt.Errorf("%w: %q", dynerrors.ErrCUnknownNaNMode, s)
}

func (m NaNMode) String() string {
	if m == NaNFirstOperand {
		return "first-operand"
	}
	return "larger-significand"
}

// Status is the float_status threaded through every operation. Operations
// read the mode fields and only ever OR bits into Flags.
type Status struct {
	RoundingMode RoundingMode
	Flags        Flags
	Masks        Flags

	// RoundingPrecision is 32, 64 or 80 and only affects 80-bit arithmetic.
	RoundingPrecision int

	DenormalsAreZeros bool

	// FlushUnderflowToZero only applies while underflow is masked.
	FlushUnderflowToZero bool
	NaNMode              NaNMode
}

// NewStatus is round-to-nearest, all exceptions masked, full precision.
func NewStatus() *Status {
	return &Status{Masks: AllFlags, RoundingPrecision: 80}
}

// FromControlWord builds a status from an x87 control word.
func FromControlWord(cw uint16) *Status {
	st := &Status{
		RoundingMode: RoundingMode(cw >> 10 & 3),
		Masks:        Flags(cw) & AllFlags,
	}
	switch cw >> 8 & 3 {
	case 0:
		st.RoundingPrecision = 32
	case 2:
		st.RoundingPrecision = 64
	default:
		st.RoundingPrecision = 80
	}
	return st
}

// FromMXCSR builds a status from an SSE MXCSR value. Flags already set in
// the register are carried over.
func FromMXCSR(mxcsr uint32) *Status {
	return &Status{
		RoundingMode:         RoundingMode(mxcsr >> 13 & 3),
		Flags:                Flags(mxcsr) & AllFlags,
		Masks:                Flags(mxcsr>>7) & AllFlags,
		RoundingPrecision:    80,
		DenormalsAreZeros:    mxcsr&(1<<6) != 0,
		FlushUnderflowToZero: mxcsr&(1<<15) != 0,
	}
}

// MXCSR is the inverse of FromMXCSR.
func (s *Status) MXCSR() uint32 {
	v := uint32(s.Flags) | uint32(s.Masks)<<7 | uint32(s.RoundingMode)<<13
	if s.DenormalsAreZeros {
		v |= 1 << 6
	}
	if s.FlushUnderflowToZero {
		v |= 1 << 15
	}
	return v
}

// Raise ORs exception bits into the sticky flags.
func (s *Status) Raise(f Flags) { s.Flags |= f }

// Unmasked returns the raised exceptions whose mask bit is clear.
func (s *Status) Unmasked() Flags { return s.Flags &^ s.Masks }

func (s *Status) String() string {
	return fmt.Sprintf("round=%s prec=%d flags=%s daz=%v ftz=%v", s.RoundingMode, s.RoundingPrecision, s.Flags, s.DenormalsAreZeros, s.FlushUnderflowToZero)
}
