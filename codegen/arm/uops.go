package arm

import (
	"github.com/colorfulnotion/dynarec/ir"
)

// lowerTable maps every uop kind to its lowering. A nil entry is an unknown uop.
var lowerTable = [ir.NumOps]lowerFunc{
	ir.NOP_BARRIER: lowerNopBarrier,

	ir.LOAD_FUNC_ARG_0:       loadFuncArg(R0),
	ir.LOAD_FUNC_ARG_1:       loadFuncArg(R1),
	ir.LOAD_FUNC_ARG_2:       loadFuncArg(R2),
	ir.LOAD_FUNC_ARG_3:       loadFuncArg(R3),
	ir.LOAD_FUNC_ARG_0_IMM:   loadFuncArgImm(R0),
	ir.LOAD_FUNC_ARG_1_IMM:   loadFuncArgImm(R1),
	ir.LOAD_FUNC_ARG_2_IMM:   loadFuncArgImm(R2),
	ir.LOAD_FUNC_ARG_3_IMM:   loadFuncArgImm(R3),
	ir.CALL_FUNC:             lowerCallFunc,
	ir.CALL_FUNC_RESULT:      lowerCallFuncResult,
	ir.CALL_INSTRUCTION_FUNC: lowerCallInstructionFunc,
	ir.STORE_PTR_IMM:         lowerStorePtrImm,
	ir.STORE_PTR_IMM_8:       lowerStorePtrImm8,
	ir.LOAD_SEG:              lowerLoadSeg,
	ir.JMP:                   lowerJmp,
	ir.JMP_DEST:              lowerJmpDest,

	ir.MOV_PTR:           lowerMovPtr,
	ir.MOV_IMM:           lowerMovImm,
	ir.MOV:               lowerMov,
	ir.MOVZX:             movExtend(false),
	ir.MOVSX:             movExtend(true),
	ir.MOV_DOUBLE_INT:    lowerMovDoubleInt,
	ir.MOV_DOUBLE_INT_64: lowerMovDoubleInt64,
	ir.MOV_INT_DOUBLE:    lowerMovIntDouble,
	ir.MOV_INT_DOUBLE_64: lowerMovIntDouble64,
	ir.MOV_REG_PTR:       lowerMovRegPtr,
	ir.MOVZX_REG_PTR_8:   lowerMovzxRegPtr8,
	ir.MOVZX_REG_PTR_16:  lowerMovzxRegPtr16,

	ir.ADD:        alu(OPCODE_ADD),
	ir.ADD_IMM:    aluImm(OPCODE_ADD, addImm),
	ir.ADD_LSHIFT: lowerAddLShift,
	ir.AND:        alu(OPCODE_AND),
	ir.AND_IMM:    aluImm(OPCODE_AND, andImm),
	ir.ANDN:       lowerAndN,
	ir.OR:         alu(OPCODE_ORR),
	ir.OR_IMM:     aluImm(OPCODE_ORR, orrImm),
	ir.SUB:        alu(OPCODE_SUB),
	ir.SUB_IMM:    aluImm(OPCODE_SUB, subImm),
	ir.XOR:        alu(OPCODE_EOR),
	ir.XOR_IMM:    aluImm(OPCODE_EOR, eorImm),
	ir.SAR:        shift(shiftSAR),
	ir.SAR_IMM:    shiftImmediate(shiftSAR),
	ir.SHL:        shift(shiftSHL),
	ir.SHL_IMM:    shiftImmediate(shiftSHL),
	ir.SHR:        shift(shiftSHR),
	ir.SHR_IMM:    shiftImmediate(shiftSHR),
	ir.ROL:        shift(shiftROL),
	ir.ROL_IMM:    shiftImmediate(shiftROL),
	ir.ROR:        shift(shiftROR),
	ir.ROR_IMM:    shiftImmediate(shiftROR),

	ir.MEM_LOAD_ABS:     lowerMemLoadAbs,
	ir.MEM_LOAD_REG:     lowerMemLoadReg,
	ir.MEM_LOAD_SINGLE:  lowerMemLoadSingle,
	ir.MEM_LOAD_DOUBLE:  lowerMemLoadDouble,
	ir.MEM_STORE_ABS:    lowerMemStoreAbs,
	ir.MEM_STORE_REG:    lowerMemStoreReg,
	ir.MEM_STORE_IMM_8:  storeImm(MemByte),
	ir.MEM_STORE_IMM_16: storeImm(MemWord),
	ir.MEM_STORE_IMM_32: storeImm(MemLong),
	ir.MEM_STORE_SINGLE: lowerMemStoreSingle,
	ir.MEM_STORE_DOUBLE: lowerMemStoreDouble,

	ir.CMP_IMM_JZ: cmpImmJump(COND_EQ),
	ir.CMP_JB:     cmpJump(COND_CC),
	ir.CMP_JNBE:   cmpJump(COND_HI),

	ir.CMP_IMM_JZ_DEST:  cmpImmJumpDest(COND_EQ),
	ir.CMP_IMM_JNZ_DEST: cmpImmJumpDest(COND_NE),
	ir.CMP_JB_DEST:      cmpJumpDest(COND_CC),
	ir.CMP_JNB_DEST:     cmpJumpDest(COND_CS),
	ir.CMP_JBE_DEST:     cmpJumpDest(COND_LS),
	ir.CMP_JNBE_DEST:    cmpJumpDest(COND_HI),
	ir.CMP_JL_DEST:      cmpJumpDest(COND_LT),
	ir.CMP_JNL_DEST:     cmpJumpDest(COND_GE),
	ir.CMP_JLE_DEST:     cmpJumpDest(COND_LE),
	ir.CMP_JNLE_DEST:    cmpJumpDest(COND_GT),
	ir.CMP_JO_DEST:      cmpJumpDest(COND_VS),
	ir.CMP_JNO_DEST:     cmpJumpDest(COND_VC),
	ir.TEST_JS_DEST:     testSign(true),
	ir.TEST_JNS_DEST:    testSign(false),

	ir.FP_ENTER:  lowerFPEnter,
	ir.MMX_ENTER: lowerMMXEnter,
	ir.FADD:      fpBinary((*Emitter).VaddF64),
	ir.FSUB:      fpBinary((*Emitter).VsubF64),
	ir.FMUL:      fpBinary((*Emitter).VmulF64),
	ir.FDIV:      fpBinary((*Emitter).VdivF64),
	ir.FABS:      fpUnary((*Emitter).VabsF64),
	ir.FCHS:      fpUnary((*Emitter).VnegF64),
	ir.FSQRT:     fpUnary((*Emitter).VsqrtF64),
	ir.FCOM:      lowerFCOM,
	ir.FTST:      lowerFTST,

	ir.PADDB:   neonBinary(OPCODE_VADD_I, NEON_SIZE_8),
	ir.PADDW:   neonBinary(OPCODE_VADD_I, NEON_SIZE_16),
	ir.PADDD:   neonBinary(OPCODE_VADD_I, NEON_SIZE_32),
	ir.PADDSB:  neonBinary(OPCODE_VQADD_S, NEON_SIZE_8),
	ir.PADDSW:  neonBinary(OPCODE_VQADD_S, NEON_SIZE_16),
	ir.PADDUSB: neonBinary(OPCODE_VQADD_U, NEON_SIZE_8),
	ir.PADDUSW: neonBinary(OPCODE_VQADD_U, NEON_SIZE_16),
	ir.PSUBB:   neonBinary(OPCODE_VSUB_I, NEON_SIZE_8),
	ir.PSUBW:   neonBinary(OPCODE_VSUB_I, NEON_SIZE_16),
	ir.PSUBD:   neonBinary(OPCODE_VSUB_I, NEON_SIZE_32),
	ir.PSUBSB:  neonBinary(OPCODE_VQSUB_S, NEON_SIZE_8),
	ir.PSUBSW:  neonBinary(OPCODE_VQSUB_S, NEON_SIZE_16),
	ir.PSUBUSB: neonBinary(OPCODE_VQSUB_U, NEON_SIZE_8),
	ir.PSUBUSW: neonBinary(OPCODE_VQSUB_U, NEON_SIZE_16),
	ir.PCMPEQB: neonBinary(OPCODE_VCEQ_I, NEON_SIZE_8),
	ir.PCMPEQW: neonBinary(OPCODE_VCEQ_I, NEON_SIZE_16),
	ir.PCMPEQD: neonBinary(OPCODE_VCEQ_I, NEON_SIZE_32),
	ir.PCMPGTB: neonBinary(OPCODE_VCGT_S, NEON_SIZE_8),
	ir.PCMPGTW: neonBinary(OPCODE_VCGT_S, NEON_SIZE_16),
	ir.PCMPGTD: neonBinary(OPCODE_VCGT_S, NEON_SIZE_32),

	ir.PACKSSWB:  pack(false, NEON_SIZE_8),
	ir.PACKSSDW:  pack(false, NEON_SIZE_16),
	ir.PACKUSWB:  pack(true, NEON_SIZE_8),
	ir.PUNPCKLBW: unpack(NEON_SIZE_8, false),
	ir.PUNPCKLWD: unpack(NEON_SIZE_16, false),
	ir.PUNPCKLDQ: unpack(NEON_SIZE_32, false),
	ir.PUNPCKHBW: unpack(NEON_SIZE_8, true),
	ir.PUNPCKHWD: unpack(NEON_SIZE_16, true),
	ir.PUNPCKHDQ: unpack(NEON_SIZE_32, true),

	ir.PSLLW_IMM: packedShiftImm(psLeft, 16),
	ir.PSLLD_IMM: packedShiftImm(psLeft, 32),
	ir.PSLLQ_IMM: packedShiftImm(psLeft, 64),
	ir.PSRLW_IMM: packedShiftImm(psRightLogical, 16),
	ir.PSRLD_IMM: packedShiftImm(psRightLogical, 32),
	ir.PSRLQ_IMM: packedShiftImm(psRightLogical, 64),
	ir.PSRAW_IMM: packedShiftImm(psRightArith, 16),
	ir.PSRAD_IMM: packedShiftImm(psRightArith, 32),

	ir.PMULLW:  neonBinary(OPCODE_VMUL_I, NEON_SIZE_16),
	ir.PMULHW:  lowerPMULHW,
	ir.PMADDWD: lowerPMADDWD,

	ir.PFADD:   neonBinary(OPCODE_VADD_F32, 0),
	ir.PFSUB:   neonBinary(OPCODE_VSUB_F32, 0),
	ir.PFMUL:   neonBinary(OPCODE_VMUL_F32, 0),
	ir.PFMAX:   neonBinary(OPCODE_VMAX_F32, 0),
	ir.PFMIN:   neonBinary(OPCODE_VMIN_F32, 0),
	ir.PFCMPEQ: neonBinary(OPCODE_VCEQ_F32, 0),
	ir.PFCMPGE: neonBinary(OPCODE_VCGE_F32, 0),
	ir.PFCMPGT: neonBinary(OPCODE_VCGT_F32, 0),
	ir.PF2ID:   neonUnary(OPCODE_VCVT_S32_F32),
	ir.PI2FD:   neonUnary(OPCODE_VCVT_F32_S32),
	ir.PFRCP:   reciprocal(false),
	ir.PFRSQRT: reciprocal(true),
}
