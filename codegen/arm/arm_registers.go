// Package arm lowers uops to ARM32 (A32 + VFPv3 + NEON) machine code.
package arm

import "fmt"

// Reg is an ARM core register number.
type Reg uint32

const (
	R0 Reg = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

// VReg is a VFP/NEON D register number. S registers are addressed with
// SReg; S(2n) and S(2n+1) are the low and high halves of D(n).
type VReg uint32

const (
	D0 VReg = iota
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	D8
	D9
	D10
	D11
	D12
	D13
	D14
	D15
)

// SReg is a single-precision VFP register number.
type SReg uint32

const (
	S0 SReg = 0
	S1 SReg = 1
)

// Register roles
const (
	REG_ARG0 = R0
	REG_ARG1 = R1
	REG_ARG2 = R2
	REG_ARG3 = R3

	REG_TEMP  = R3 // scratch for lowering sequences, dead across calls
	REG_TEMP2 = R2 // second scratch, dead across calls
	REG_IP    = R12

	REG_CPUSTATE = R10 // base of the guest CPU state, live for the whole block
	REG_HOST_SP  = R13
	REG_LR       = R14
	REG_PC       = R15

	REG_D_TEMP  = D0 // scalar FP scratch; S0 is its low half
	REG_D_TEMP2 = D1
	REG_Q_TEMP  = 0 // Q0 = D0:D1, wide NEON scratch
)

// Register masks for LDM/STM
const (
	REG_MASK_R4_R11 = 0x0ff0
	REG_MASK_LR     = 1 << 14
	REG_MASK_PC     = 1 << 15
)

// HostReg is one entry of the register allocator's fixed host register table.
type HostReg struct {
	Name string
	Num  int
	// Allocated is set while the register holds a value of the current block.
	Allocated bool
}

// HostRegs are the callee-saved core registers the allocator may hand out.
// The tables are templates; each block tracks allocation on its own copy.
var HostRegs = []HostReg{
	{Name: "r4", Num: 4}, {Name: "r5", Num: 5}, {Name: "r6", Num: 6}, {Name: "r7", Num: 7}, {Name: "r8", Num: 8}, {Name: "r9", Num: 9},
}

// HostFPRegs are the callee-saved D registers the allocator may hand out.
var HostFPRegs = []HostReg{
	{Name: "d8", Num: 8}, {Name: "d9", Num: 9}, {Name: "d10", Num: 10}, {Name: "d11", Num: 11},
	{Name: "d12", Num: 12}, {Name: "d13", Num: 13}, {Name: "d14", Num: 14}, {Name: "d15", Num: 15},
}

var regNames = [16]string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8", "r9", "r10", "r11", "ip", "sp", "lr", "pc"}

func (r Reg) String() string {
	if r < 16 {
		return regNames[r]
	}
	return fmt.Sprintf("r?%d", uint32(r))
}

func (v VReg) String() string { return fmt.Sprintf("d%d", uint32(v)) }
func (s SReg) String() string { return fmt.Sprintf("s%d", uint32(s)) }

// Lo is the S register holding the low half of v. Only D0..D15 have one.
func (v VReg) Lo() SReg { return SReg(v * 2) }

// vd splits a D register number into the Vd field and the D bit.
func vd(v VReg) (uint32, uint32) { return uint32(v) & 0xf, (uint32(v) >> 4) & 1 }

// sd splits an S register number into the Vd field and the D bit.
func sd(s SReg) (uint32, uint32) { return uint32(s) >> 1, uint32(s) & 1 }
