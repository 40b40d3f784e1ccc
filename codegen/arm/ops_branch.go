package arm

func branchOffset(disp int64) uint32 { return uint32(disp>>2) & 0x00ffffff }

// B jumps to target. Out of direct range it jumps through a literal.
func (e *Emitter) B(target uint32) {
	e.Alloc(8)
	disp := int64(target) - int64(e.Addr()) - 8
	if InBranchRange(disp) {
		e.put(uint32(COND_AL) | OPCODE_B | branchOffset(disp))
		return
	}
	e.put(LDR_PC_LITERAL)
	e.put(target)
}

// BCond jumps to target when cond holds. Out of direct range the inverted
// condition skips a literal jump.
func (e *Emitter) BCond(cond Cond, target uint32) {
	if cond == COND_AL {
		e.B(target)
		return
	}
	e.Alloc(12)
	disp := int64(target) - int64(e.Addr()) - 8
	if InBranchRange(disp) {
		e.put(uint32(cond) | OPCODE_B | branchOffset(disp))
		return
	}
	e.put(uint32(cond.Invert()) | OPCODE_B | branchOffset(4))
	e.put(LDR_PC_LITERAL)
	e.put(target)
}

// BL calls target. Out of direct range the address goes through IP, which
// leaves the argument registers R0-R3 intact.
func (e *Emitter) BL(target uint32) {
	e.Alloc(12)
	disp := int64(target) - int64(e.Addr()) - 8
	if InBranchRange(disp) {
		e.put(uint32(COND_AL) | OPCODE_BL | branchOffset(disp))
		return
	}
	e.Movw(REG_IP, target&0xffff)
	e.Movt(REG_IP, target>>16)
	e.BLX(REG_IP)
}

func (e *Emitter) BX(rm Reg)  { e.emit(uint32(COND_AL) | OPCODE_BX | uint32(rm)) }
func (e *Emitter) BLX(rm Reg) { e.emit(uint32(COND_AL) | OPCODE_BLX | uint32(rm)) }

// MovPC returns through rm with MOV PC, rm.
func (e *Emitter) MovPC(rm Reg) { e.Mov(REG_PC, rm) }

// LdrPCTable is LDR PC, [PC, rm, LSL #2]: an indexed jump through the table
// starting two words after this instruction.
func (e *Emitter) LdrPCTable(rm Reg) { e.LdrReg(REG_PC, REG_PC, rm, 2) }
