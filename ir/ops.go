package ir

import "fmt"

// Op is a uop kind.
type Op uint16

const (
	NOP_BARRIER Op = iota

	// calls and control
	LOAD_FUNC_ARG_0
	LOAD_FUNC_ARG_1
	LOAD_FUNC_ARG_2
	LOAD_FUNC_ARG_3
	LOAD_FUNC_ARG_0_IMM
	LOAD_FUNC_ARG_1_IMM
	LOAD_FUNC_ARG_2_IMM
	LOAD_FUNC_ARG_3_IMM
	CALL_FUNC
	CALL_FUNC_RESULT
	CALL_INSTRUCTION_FUNC
	STORE_PTR_IMM
	STORE_PTR_IMM_8
	LOAD_SEG
	JMP
	JMP_DEST

	// moves
	MOV_PTR
	MOV_IMM
	MOV
	MOVZX
	MOVSX
	MOV_DOUBLE_INT
	MOV_DOUBLE_INT_64
	MOV_INT_DOUBLE
	MOV_INT_DOUBLE_64
	MOV_REG_PTR
	MOVZX_REG_PTR_8
	MOVZX_REG_PTR_16

	// integer ALU
	ADD
	ADD_IMM
	ADD_LSHIFT
	AND
	AND_IMM
	ANDN
	OR
	OR_IMM
	SUB
	SUB_IMM
	XOR
	XOR_IMM
	SAR
	SAR_IMM
	SHL
	SHL_IMM
	SHR
	SHR_IMM
	ROL
	ROL_IMM
	ROR
	ROR_IMM

	// guest memory
	MEM_LOAD_ABS
	MEM_LOAD_REG
	MEM_LOAD_SINGLE
	MEM_LOAD_DOUBLE
	MEM_STORE_ABS
	MEM_STORE_REG
	MEM_STORE_IMM_8
	MEM_STORE_IMM_16
	MEM_STORE_IMM_32
	MEM_STORE_SINGLE
	MEM_STORE_DOUBLE

	// compare and branch to an absolute target
	CMP_IMM_JZ
	CMP_JB
	CMP_JNBE

	// compare and branch to a later uop
	CMP_IMM_JZ_DEST
	CMP_IMM_JNZ_DEST
	CMP_JB_DEST
	CMP_JNB_DEST
	CMP_JBE_DEST
	CMP_JNBE_DEST
	CMP_JL_DEST
	CMP_JNL_DEST
	CMP_JLE_DEST
	CMP_JNLE_DEST
	CMP_JO_DEST
	CMP_JNO_DEST
	TEST_JS_DEST
	TEST_JNS_DEST

	// x87
	FP_ENTER
	MMX_ENTER
	FADD
	FSUB
	FMUL
	FDIV
	FABS
	FCHS
	FSQRT
	FCOM
	FTST

	// MMX
	PADDB
	PADDW
	PADDD
	PADDSB
	PADDSW
	PADDUSB
	PADDUSW
	PSUBB
	PSUBW
	PSUBD
	PSUBSB
	PSUBSW
	PSUBUSB
	PSUBUSW
	PCMPEQB
	PCMPEQW
	PCMPEQD
	PCMPGTB
	PCMPGTW
	PCMPGTD
	PACKSSWB
	PACKSSDW
	PACKUSWB
	PUNPCKLBW
	PUNPCKLWD
	PUNPCKLDQ
	PUNPCKHBW
	PUNPCKHWD
	PUNPCKHDQ
	PSLLW_IMM
	PSLLD_IMM
	PSLLQ_IMM
	PSRLW_IMM
	PSRLD_IMM
	PSRLQ_IMM
	PSRAW_IMM
	PSRAD_IMM
	PMULLW
	PMULHW
	PMADDWD

	// 3DNow!
	PFADD
	PFSUB
	PFMUL
	PFMAX
	PFMIN
	PFCMPEQ
	PFCMPGE
	PFCMPGT
	PF2ID
	PI2FD
	PFRCP
	PFRSQRT

	NumOps
)

var opNames = [NumOps]string{
	NOP_BARRIER: "NOP_BARRIER",

	LOAD_FUNC_ARG_0: "LOAD_FUNC_ARG_0", LOAD_FUNC_ARG_1: "LOAD_FUNC_ARG_1",
	LOAD_FUNC_ARG_2: "LOAD_FUNC_ARG_2", LOAD_FUNC_ARG_3: "LOAD_FUNC_ARG_3",
	LOAD_FUNC_ARG_0_IMM: "LOAD_FUNC_ARG_0_IMM", LOAD_FUNC_ARG_1_IMM: "LOAD_FUNC_ARG_1_IMM",
	LOAD_FUNC_ARG_2_IMM: "LOAD_FUNC_ARG_2_IMM", LOAD_FUNC_ARG_3_IMM: "LOAD_FUNC_ARG_3_IMM",
	CALL_FUNC: "CALL_FUNC", CALL_FUNC_RESULT: "CALL_FUNC_RESULT",
	CALL_INSTRUCTION_FUNC: "CALL_INSTRUCTION_FUNC",
	STORE_PTR_IMM: "STORE_PTR_IMM", STORE_PTR_IMM_8: "STORE_PTR_IMM_8",
	LOAD_SEG: "LOAD_SEG", JMP: "JMP", JMP_DEST: "JMP_DEST",

	MOV_PTR: "MOV_PTR", MOV_IMM: "MOV_IMM", MOV: "MOV", MOVZX: "MOVZX", MOVSX: "MOVSX",
	MOV_DOUBLE_INT: "MOV_DOUBLE_INT", MOV_DOUBLE_INT_64: "MOV_DOUBLE_INT_64",
	MOV_INT_DOUBLE: "MOV_INT_DOUBLE", MOV_INT_DOUBLE_64: "MOV_INT_DOUBLE_64",
	MOV_REG_PTR: "MOV_REG_PTR", MOVZX_REG_PTR_8: "MOVZX_REG_PTR_8", MOVZX_REG_PTR_16: "MOVZX_REG_PTR_16",

	ADD: "ADD", ADD_IMM: "ADD_IMM", ADD_LSHIFT: "ADD_LSHIFT",
	AND: "AND", AND_IMM: "AND_IMM", ANDN: "ANDN",
	OR: "OR", OR_IMM: "OR_IMM", SUB: "SUB", SUB_IMM: "SUB_IMM",
	XOR: "XOR", XOR_IMM: "XOR_IMM",
	SAR: "SAR", SAR_IMM: "SAR_IMM", SHL: "SHL", SHL_IMM: "SHL_IMM",
	SHR: "SHR", SHR_IMM: "SHR_IMM", ROL: "ROL", ROL_IMM: "ROL_IMM",
	ROR: "ROR", ROR_IMM: "ROR_IMM",

	MEM_LOAD_ABS: "MEM_LOAD_ABS", MEM_LOAD_REG: "MEM_LOAD_REG",
	MEM_LOAD_SINGLE: "MEM_LOAD_SINGLE", MEM_LOAD_DOUBLE: "MEM_LOAD_DOUBLE",
	MEM_STORE_ABS: "MEM_STORE_ABS", MEM_STORE_REG: "MEM_STORE_REG",
	MEM_STORE_IMM_8: "MEM_STORE_IMM_8", MEM_STORE_IMM_16: "MEM_STORE_IMM_16",
	MEM_STORE_IMM_32: "MEM_STORE_IMM_32",
	MEM_STORE_SINGLE: "MEM_STORE_SINGLE", MEM_STORE_DOUBLE: "MEM_STORE_DOUBLE",

	CMP_IMM_JZ: "CMP_IMM_JZ", CMP_JB: "CMP_JB", CMP_JNBE: "CMP_JNBE",

	CMP_IMM_JZ_DEST: "CMP_IMM_JZ_DEST", CMP_IMM_JNZ_DEST: "CMP_IMM_JNZ_DEST",
	CMP_JB_DEST: "CMP_JB_DEST", CMP_JNB_DEST: "CMP_JNB_DEST",
	CMP_JBE_DEST: "CMP_JBE_DEST", CMP_JNBE_DEST: "CMP_JNBE_DEST",
	CMP_JL_DEST: "CMP_JL_DEST", CMP_JNL_DEST: "CMP_JNL_DEST",
	CMP_JLE_DEST: "CMP_JLE_DEST", CMP_JNLE_DEST: "CMP_JNLE_DEST",
	CMP_JO_DEST: "CMP_JO_DEST", CMP_JNO_DEST: "CMP_JNO_DEST",
	TEST_JS_DEST: "TEST_JS_DEST", TEST_JNS_DEST: "TEST_JNS_DEST",

	FP_ENTER: "FP_ENTER", MMX_ENTER: "MMX_ENTER",
	FADD: "FADD", FSUB: "FSUB", FMUL: "FMUL", FDIV: "FDIV",
	FABS: "FABS", FCHS: "FCHS", FSQRT: "FSQRT", FCOM: "FCOM", FTST: "FTST",

	PADDB: "PADDB", PADDW: "PADDW", PADDD: "PADDD",
	PADDSB: "PADDSB", PADDSW: "PADDSW", PADDUSB: "PADDUSB", PADDUSW: "PADDUSW",
	PSUBB: "PSUBB", PSUBW: "PSUBW", PSUBD: "PSUBD",
	PSUBSB: "PSUBSB", PSUBSW: "PSUBSW", PSUBUSB: "PSUBUSB", PSUBUSW: "PSUBUSW",
	PCMPEQB: "PCMPEQB", PCMPEQW: "PCMPEQW", PCMPEQD: "PCMPEQD",
	PCMPGTB: "PCMPGTB", PCMPGTW: "PCMPGTW", PCMPGTD: "PCMPGTD",
	PACKSSWB: "PACKSSWB", PACKSSDW: "PACKSSDW", PACKUSWB: "PACKUSWB",
	PUNPCKLBW: "PUNPCKLBW", PUNPCKLWD: "PUNPCKLWD", PUNPCKLDQ: "PUNPCKLDQ",
	PUNPCKHBW: "PUNPCKHBW", PUNPCKHWD: "PUNPCKHWD", PUNPCKHDQ: "PUNPCKHDQ",
	PSLLW_IMM: "PSLLW_IMM", PSLLD_IMM: "PSLLD_IMM", PSLLQ_IMM: "PSLLQ_IMM",
	PSRLW_IMM: "PSRLW_IMM", PSRLD_IMM: "PSRLD_IMM", PSRLQ_IMM: "PSRLQ_IMM",
	PSRAW_IMM: "PSRAW_IMM", PSRAD_IMM: "PSRAD_IMM",
	PMULLW: "PMULLW", PMULHW: "PMULHW", PMADDWD: "PMADDWD",

	PFADD: "PFADD", PFSUB: "PFSUB", PFMUL: "PFMUL", PFMAX: "PFMAX", PFMIN: "PFMIN",
	PFCMPEQ: "PFCMPEQ", PFCMPGE: "PFCMPGE", PFCMPGT: "PFCMPGT",
	PF2ID: "PF2ID", PI2FD: "PI2FD", PFRCP: "PFRCP", PFRSQRT: "PFRSQRT",
}

var opByName = func() map[string]Op {
	m := make(map[string]Op, NumOps)
	for op, name := range opNames {
		m[name] = Op(op)
	}
	return m
}()

func (op Op) String() string {
	if op < NumOps && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint16(op))
}

// ParseOp returns the Op with the given name.
func ParseOp(name string) (Op, bool) {
	op, ok := opByName[name]
	return op, ok
}

// HasDeferredTarget reports whether op branches to a later uop of the block
// and so carries a Target index and leaves a patch site behind.
func (op Op) HasDeferredTarget() bool {
	switch op {
	case JMP_DEST,
		CMP_IMM_JZ_DEST, CMP_IMM_JNZ_DEST,
		CMP_JB_DEST, CMP_JNB_DEST, CMP_JBE_DEST, CMP_JNBE_DEST,
		CMP_JL_DEST, CMP_JNL_DEST, CMP_JLE_DEST, CMP_JNLE_DEST,
		CMP_JO_DEST, CMP_JNO_DEST,
		TEST_JS_DEST, TEST_JNS_DEST:
		return true
	}
	return false
}
