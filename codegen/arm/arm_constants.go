package arm

// ================================================================================================
// A32 Instruction Constants
// ================================================================================================

// Cond is a condition field already shifted into bits 28..31.
type Cond uint32

const (
	COND_EQ Cond = 0x0 << 28 // Z set
	COND_NE Cond = 0x1 << 28 // Z clear
	COND_CS Cond = 0x2 << 28 // C set, unsigned >=
	COND_CC Cond = 0x3 << 28 // C clear, unsigned <
	COND_MI Cond = 0x4 << 28 // N set
	COND_PL Cond = 0x5 << 28 // N clear
	COND_VS Cond = 0x6 << 28 // V set
	COND_VC Cond = 0x7 << 28 // V clear
	COND_HI Cond = 0x8 << 28 // unsigned >
	COND_LS Cond = 0x9 << 28 // unsigned <=
	COND_GE Cond = 0xa << 28 // signed >=
	COND_LT Cond = 0xb << 28 // signed <
	COND_GT Cond = 0xc << 28 // signed >
	COND_LE Cond = 0xd << 28 // signed <=
	COND_AL Cond = 0xe << 28 // always
)

// Invert returns the opposite condition. COND_AL has none.
func (c Cond) Invert() Cond { return c ^ (1 << 28) }

var condNames = [...]string{"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc", "hi", "ls", "ge", "lt", "gt", "le", "", "nv"}

func (c Cond) String() string { return condNames[c>>28] }

// Data processing opcodes (bits 21..24)
const (
	OPCODE_AND = 0x0 << 21
	OPCODE_EOR = 0x1 << 21
	OPCODE_SUB = 0x2 << 21
	OPCODE_RSB = 0x3 << 21
	OPCODE_ADD = 0x4 << 21
	OPCODE_ADC = 0x5 << 21
	OPCODE_SBC = 0x6 << 21
	OPCODE_RSC = 0x7 << 21
	OPCODE_TST = 0x8 << 21
	OPCODE_TEQ = 0x9 << 21
	OPCODE_CMP = 0xa << 21
	OPCODE_CMN = 0xb << 21
	OPCODE_ORR = 0xc << 21
	OPCODE_MOV = 0xd << 21
	OPCODE_BIC = 0xe << 21
	OPCODE_MVN = 0xf << 21

	DP_S   = 1 << 20 // set flags
	DP_IMM = 1 << 25 // operand 2 is a rotated immediate
)

// Operand 2 shift types
const (
	SHIFT_LSL = 0 << 5
	SHIFT_LSR = 1 << 5
	SHIFT_ASR = 2 << 5
	SHIFT_ROR = 3 << 5

	SHIFT_BY_REG = 1 << 4 // shift amount in Rs (bits 8..11)
)

// Other core instructions, condition field clear
const (
	OPCODE_MOVW = 0x03000000
	OPCODE_MOVT = 0x03400000

	OPCODE_LDR_IMM  = 0x05100000 // P=1 W=0, U in bit 23
	OPCODE_STR_IMM  = 0x05000000
	OPCODE_LDRB_IMM = 0x05500000
	OPCODE_STRB_IMM = 0x05400000
	OPCODE_LDR_POST = 0x04100000 // LDR Rt, [Rn], #imm
	OPCODE_STR_PRE  = 0x05200000 // STR Rt, [Rn, #imm]!
	OPCODE_LDR_REG  = 0x07900000 // LDR Rt, [Rn, Rm, LSL #n]
	OPCODE_STR_REG  = 0x07800000
	OPCODE_LDRB_REG = 0x07d00000
	OPCODE_STRB_REG = 0x07c00000
	OFFSET_UP       = 1 << 23

	OPCODE_LDRH_IMM = 0x015000b0 // imm8 split in bits 0..3 and 8..11
	OPCODE_STRH_IMM = 0x014000b0
	OPCODE_LDRH_REG = 0x019000b0
	OPCODE_STRH_REG = 0x018000b0

	OPCODE_STMDB_WB = 0x09200000
	OPCODE_LDMIA_WB = 0x08b00000

	OPCODE_B   = 0x0a000000
	OPCODE_BL  = 0x0b000000
	OPCODE_BX  = 0x012fff10
	OPCODE_BLX = 0x012fff30

	OPCODE_UBFX = 0x07e00050
	OPCODE_SBFX = 0x07a00050
	OPCODE_BFI  = 0x07c00010
	OPCODE_UXTB = 0x06ef0070
	OPCODE_UXTH = 0x06ff0070
	OPCODE_SXTB = 0x06af0070
	OPCODE_SXTH = 0x06bf0070

	OPCODE_NOP = 0x0320f000
)

// LDR PC, [PC, #-4]: jump through the literal word that follows.
const LDR_PC_LITERAL = uint32(COND_AL) | OPCODE_LDR_IMM | uint32(REG_PC)<<16 | uint32(REG_PC)<<12 | 4

// JMP_LEN_BYTES is the size of the page-link jump: LDR PC, [PC, #-4] + literal.
const JMP_LEN_BYTES = 8

// VFP instructions (cond AL included)
const (
	OPCODE_VADD_F64  = 0xee300b00
	OPCODE_VSUB_F64  = 0xee300b40
	OPCODE_VMUL_F64  = 0xee200b00
	OPCODE_VDIV_F64  = 0xee800b00
	OPCODE_VSQRT_F64 = 0xeeb10bc0
	OPCODE_VABS_F64  = 0xeeb00bc0
	OPCODE_VNEG_F64  = 0xeeb10b40
	OPCODE_VMOV_F64  = 0xeeb00b40
	OPCODE_VCMP_F64  = 0xeeb40b40
	OPCODE_VCMPZ_F64 = 0xeeb50b40

	OPCODE_VDIV_F32  = 0xee800a00
	OPCODE_VSQRT_F32 = 0xeeb10ac0

	OPCODE_VCVT_S32_F64  = 0xeebd0bc0 // round toward zero
	OPCODE_VCVTR_S32_F64 = 0xeebd0b40 // FPSCR rounding
	OPCODE_VCVT_F64_S32  = 0xeeb80bc0
	OPCODE_VCVT_F64_F32  = 0xeeb70ac0
	OPCODE_VCVT_F32_F64  = 0xeeb70bc0

	OPCODE_VMRS_APSR = 0xeef1fa10 // VMRS APSR_nzcv, FPSCR
	OPCODE_VMRS      = 0xeef10a10
	OPCODE_VMSR      = 0xeee10a10

	OPCODE_VLDR_D = 0xed100b00
	OPCODE_VSTR_D = 0xed000b00
	OPCODE_VLDR_S = 0xed100a00
	OPCODE_VSTR_S = 0xed000a00

	OPCODE_VMOV_S_R  = 0xee000a10 // VMOV Sn, Rt
	OPCODE_VMOV_R_S  = 0xee100a10 // VMOV Rt, Sn
	OPCODE_VMOV_D_RR = 0xec400b10 // VMOV Dm, Rt, Rt2
	OPCODE_VMOV_RR_D = 0xec500b10 // VMOV Rt, Rt2, Dm
	OPCODE_VMOV_R_D0 = 0xee100b10 // VMOV.32 Rt, Dn[0]
)

// FPSCR rounding mode field
const (
	FPSCR_RMODE_MASK = 0x00c00000
	FPSCR_RMODE_RN   = 0x00000000
	FPSCR_RMODE_RP   = 0x00400000
	FPSCR_RMODE_RM   = 0x00800000
	FPSCR_RMODE_RZ   = 0x00c00000
)

// NEON, D-register forms, unconditional space
const (
	OPCODE_VADD_I  = 0xf2000800
	OPCODE_VSUB_I  = 0xf3000800
	OPCODE_VQADD_S = 0xf2000010
	OPCODE_VQADD_U = 0xf3000010
	OPCODE_VQSUB_S = 0xf2000210
	OPCODE_VQSUB_U = 0xf3000210
	OPCODE_VCEQ_I  = 0xf3000810
	OPCODE_VCGT_S  = 0xf2000300
	OPCODE_VMUL_I  = 0xf2000910
	OPCODE_VMULL_S = 0xf2800c00
	OPCODE_VPADD_I = 0xf2000b10
	OPCODE_VAND    = 0xf2000110
	OPCODE_VBIC    = 0xf2100110
	OPCODE_VORR    = 0xf2200110
	OPCODE_VEOR    = 0xf3000110

	OPCODE_VSHL_IMM   = 0xf2800510
	OPCODE_VSHR_S_IMM = 0xf2800010
	OPCODE_VSHR_U_IMM = 0xf3800010
	OPCODE_VSHRN      = 0xf2800810
	NEON_SHIFT_L      = 1 << 7 // 64-bit element shift

	OPCODE_VZIP     = 0xf3b20180
	OPCODE_VTRN     = 0xf3b20080
	OPCODE_VQMOVN_S = 0xf3b20280
	OPCODE_VQMOVUN  = 0xf3b20240
	OPCODE_VDUP_32  = 0xf3b40c00 // VDUP.32 Dd, Dm[0]

	OPCODE_VADD_F32     = 0xf2000d00
	OPCODE_VSUB_F32     = 0xf2200d00
	OPCODE_VMUL_F32     = 0xf3000d10
	OPCODE_VMAX_F32     = 0xf2000f00
	OPCODE_VMIN_F32     = 0xf2200f00
	OPCODE_VCEQ_F32     = 0xf2000e00
	OPCODE_VCGE_F32     = 0xf3000e00
	OPCODE_VCGT_F32     = 0xf3200e00
	OPCODE_VCVT_S32_F32 = 0xf3bb0700
	OPCODE_VCVT_F32_S32 = 0xf3bb0600
)

// NEON element size field (bits 20..21 for three-register forms)
const (
	NEON_SIZE_8  = 0
	NEON_SIZE_16 = 1
	NEON_SIZE_32 = 2
	NEON_SIZE_64 = 3
)

// x87 status word condition bits written by FCOM/FTST
const (
	FPU_SW_C0 = 0x0100
	FPU_SW_C2 = 0x0400
	FPU_SW_C3 = 0x4000
)

// Host stack frame laid out by the prologue
const (
	STACK_FRAME_SIZE     = 0x40
	STACK_TOP_DIFF       = 0x00 // x87 TOP at entry minus the block's assumed TOP
	STACK_SPILL_BASE     = 0x08
	STACK_SPILL_SLOTS    = (STACK_FRAME_SIZE - STACK_SPILL_BASE) / 8
	INT_VECTOR_DEVICE_NA = 7 // #NM
)
