package cpustate

import (
	"fmt"
	"unsafe"

	"github.com/colorfulnotion/dynarec/dynerrors"
)

// Segment indices into State.SegBase.
const (
	SegES = iota
	SegCS
	SegSS
	SegDS
	SegFS
	SegGS
)

// CR0 bits consulted by FP_ENTER and MMX_ENTER.
const (
	CR0_EM = 0x04
	CR0_TS = 0x08
)

// State is the guest CPU state generated code addresses relative to the
// state base register. 8-byte fields come first so the layout is the same on
// every Go target.
type State struct {
	ST [8]float64
	MM [8]uint64

	Regs  [8]uint32
	Flags uint32
	PC    uint32
	OldPC uint32

	EAAddr uint32
	CR0    uint32
	TOP    int32

	// NewFPControl is the x87 rounding control (0 nearest, 1 down, 2 up, 3 chop)
	// the rounding trampoline indexes its jump table with.
	NewFPControl uint32
	// OldFPControl is where the rounding trampoline parks the host FPSCR.
	OldFPControl uint32

	FlagsOp  uint32
	FlagsRes uint32
	FlagsOp1 uint32
	FlagsOp2 uint32

	SegBase [6]uint32

	NPXC uint16
	NPXS uint16

	Tag   [8]uint8
	Abrt  uint8
	IsMMX uint8
	_     [2]uint8
}

// Field names a member of State for offset lookups.
type Field int

const (
	FieldST Field = iota
	FieldMM
	FieldRegs
	FieldFlags
	FieldPC
	FieldOldPC
	FieldEAAddr
	FieldCR0
	FieldTOP
	FieldNewFPControl
	FieldOldFPControl
	FieldFlagsOp
	FieldFlagsRes
	FieldFlagsOp1
	FieldFlagsOp2
	FieldSegBase
	FieldNPXC
	FieldNPXS
	FieldTag
	FieldAbrt
	FieldIsMMX
	numFields
)

// Access is the addressing form used to reach a field.
type Access int

const (
	AccessWord   Access = iota // LDR/STR/LDRB/STRB, imm12
	AccessHalf                 // LDRH/STRH, imm8
	AccessVFP                  // VLDR/VSTR, imm8 words
)

type fieldInfo struct {
	name   string
	offset uintptr
	size   uintptr
	access Access
}

var layout State

var fields = [numFields]fieldInfo{
	FieldST:           {"ST", unsafe.Offsetof(layout.ST), unsafe.Sizeof(layout.ST), AccessVFP},
	FieldMM:           {"MM", unsafe.Offsetof(layout.MM), unsafe.Sizeof(layout.MM), AccessVFP},
	FieldRegs:         {"Regs", unsafe.Offsetof(layout.Regs), unsafe.Sizeof(layout.Regs), AccessWord},
	FieldFlags:        {"Flags", unsafe.Offsetof(layout.Flags), 4, AccessWord},
	FieldPC:           {"PC", unsafe.Offsetof(layout.PC), 4, AccessWord},
	FieldOldPC:        {"OldPC", unsafe.Offsetof(layout.OldPC), 4, AccessWord},
	FieldEAAddr:       {"EAAddr", unsafe.Offsetof(layout.EAAddr), 4, AccessWord},
	FieldCR0:          {"CR0", unsafe.Offsetof(layout.CR0), 4, AccessWord},
	FieldTOP:          {"TOP", unsafe.Offsetof(layout.TOP), 4, AccessWord},
	FieldNewFPControl: {"NewFPControl", unsafe.Offsetof(layout.NewFPControl), 4, AccessWord},
	FieldOldFPControl: {"OldFPControl", unsafe.Offsetof(layout.OldFPControl), 4, AccessWord},
	FieldFlagsOp:      {"FlagsOp", unsafe.Offsetof(layout.FlagsOp), 4, AccessWord},
	FieldFlagsRes:     {"FlagsRes", unsafe.Offsetof(layout.FlagsRes), 4, AccessWord},
	FieldFlagsOp1:     {"FlagsOp1", unsafe.Offsetof(layout.FlagsOp1), 4, AccessWord},
	FieldFlagsOp2:     {"FlagsOp2", unsafe.Offsetof(layout.FlagsOp2), 4, AccessWord},
	FieldSegBase:      {"SegBase", unsafe.Offsetof(layout.SegBase), unsafe.Sizeof(layout.SegBase), AccessWord},
	FieldNPXC:         {"NPXC", unsafe.Offsetof(layout.NPXC), 2, AccessHalf},
	FieldNPXS:         {"NPXS", unsafe.Offsetof(layout.NPXS), 2, AccessHalf},
	FieldTag:          {"Tag", unsafe.Offsetof(layout.Tag), unsafe.Sizeof(layout.Tag), AccessWord},
	FieldAbrt:         {"Abrt", unsafe.Offsetof(layout.Abrt), 1, AccessWord},
	FieldIsMMX:        {"IsMMX", unsafe.Offsetof(layout.IsMMX), 1, AccessWord},
}

// Size is the byte size of State.
const Size = unsafe.Sizeof(State{})

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fields[f].name
}

// Offset returns the byte offset of f from the start of State.
func Offset(f Field) uint32 { return uint32(fields[f].offset) }

// Reg returns the offset of guest general register r.
func Reg(r int) uint32 { return Offset(FieldRegs) + uint32(r)*4 }

// ST returns the offset of physical x87 register i.
func ST(i int) uint32 { return Offset(FieldST) + uint32(i&7)*8 }

// MM returns the offset of MMX register i.
func MM(i int) uint32 { return Offset(FieldMM) + uint32(i&7)*8 }

// SegBase returns the offset of the base of segment seg.
func SegBase(seg int) uint32 { return Offset(FieldSegBase) + uint32(seg)*4 }

// Tag returns the offset of x87 tag byte i.
func Tag(i int) uint32 { return Offset(FieldTag) + uint32(i&7) }

func reach(a Access) uintptr {
	switch a {
	case AccessHalf:
		return 255
	case AccessVFP:
		return 1020
	default:
		return 4095
	}
}

// Validate checks that the last byte of every field is reachable from the
// state base with the addressing form that accesses it.
func Validate() error {
	for f := Field(0); f < numFields; f++ {
		fi := fields[f]
		last := fi.offset + fi.size - 1
		if fi.access == AccessVFP {
			last = fi.offset + fi.size - 8
			if fi.offset&3 != 0 {
				return fmt.Errorf("%w: %s at %d is not word aligned", dynerrors.ErrGStateLayout, fi.name, fi.offset)
			}
		} else if fi.access == AccessHalf {
			last = fi.offset + fi.size - 2
		}
		if last > reach(fi.access) {
			return fmt.Errorf("%w: %s at %d exceeds %d", dynerrors.ErrGStateLayout, fi.name, last, reach(fi.access))
		}
	}
	return nil
}

// Contains reports whether host address addr lies inside a State at base.
func Contains(base, addr uint32) bool {
	return addr >= base && addr-base < uint32(Size)
}
