package arm

import (
	"math"
	"math/bits"
	"testing"

	"github.com/colorfulnotion/dynarec/codeblock"
)

// sim interprets the subset of A32, VFPv3 and NEON the backend emits. Code is
// fetched from the arena, data lives in a sparse byte map and host helpers
// are Go stubs keyed by address.

const (
	simHalt      = 0xfffffff0
	simStackTop  = 0x7ff00000
	simPageShift = 12
	simMaxSteps  = 200000
	simPoison    = 0xdeadbeef
)

type simStub func(s *sim)

type sim struct {
	t     *testing.T
	arena *codeblock.Arena
	mem   map[uint32]*[1 << simPageShift]byte
	stubs map[uint32]simStub

	r          [16]uint32
	pc, next   uint32
	n, z, c, v bool
	d          [32]uint64
	fpscr      uint32
	steps      int
}

func newSim(t *testing.T, arena *codeblock.Arena) *sim {
	return &sim{
		t:     t,
		arena: arena,
		mem:   make(map[uint32]*[1 << simPageShift]byte),
		stubs: make(map[uint32]simStub),
	}
}

func (s *sim) page(addr uint32) *[1 << simPageShift]byte {
	pg := s.mem[addr>>simPageShift]
	if pg == nil {
		pg = new([1 << simPageShift]byte)
		s.mem[addr>>simPageShift] = pg
	}
	return pg
}

func (s *sim) read8(addr uint32) uint8 {
	if p := s.arena.PageAt(addr); p != nil {
		return p.Data[addr-p.Base]
	}
	return s.page(addr)[addr&(1<<simPageShift-1)]
}

func (s *sim) write8(addr uint32, v uint8) {
	if s.arena.PageAt(addr) != nil {
		s.t.Fatalf("store to code at %#08x (pc %#08x)", addr, s.pc)
	}
	s.page(addr)[addr&(1<<simPageShift-1)] = v
}

func (s *sim) read16(addr uint32) uint16 {
	return uint16(s.read8(addr)) | uint16(s.read8(addr+1))<<8
}

func (s *sim) write16(addr uint32, v uint16) {
	s.write8(addr, uint8(v))
	s.write8(addr+1, uint8(v>>8))
}

func (s *sim) read32(addr uint32) uint32 {
	return uint32(s.read16(addr)) | uint32(s.read16(addr+2))<<16
}

func (s *sim) write32(addr uint32, v uint32) {
	s.write16(addr, uint16(v))
	s.write16(addr+2, uint16(v>>16))
}

func (s *sim) read64(addr uint32) uint64 {
	return uint64(s.read32(addr)) | uint64(s.read32(addr+4))<<32
}

func (s *sim) write64(addr uint32, v uint64) {
	s.write32(addr, uint32(v))
	s.write32(addr+4, uint32(v>>32))
}

// call runs native code from entry until it returns to the halt address.
func (s *sim) call(entry uint32) {
	s.t.Helper()
	s.r[13] = simStackTop
	s.r[14] = simHalt
	s.pc = entry
	s.steps = 0
	for s.pc != simHalt {
		if s.steps++; s.steps > simMaxSteps {
			s.t.Fatalf("no return after %d steps (pc %#08x)", simMaxSteps, s.pc)
		}
		if stub, ok := s.stubs[s.pc]; ok {
			stub(s)
			s.clobber()
			s.pc = s.r[14]
			continue
		}
		s.step()
	}
}

// clobber trashes the registers a helper call does not preserve and does
// not return anything in.
func (s *sim) clobber() {
	s.r[2], s.r[3], s.r[12] = simPoison, simPoison, simPoison
	for i := 1; i < 8; i++ {
		s.d[i] = 0x7ff8dead00000000 | uint64(i)
	}
}

func (s *sim) step() {
	w := s.read32(s.pc)
	s.r[15] = s.pc + 8
	s.next = s.pc + 4
	if w>>28 == 0xf {
		s.neon(w)
	} else if s.cond(w >> 28) {
		s.exec(w)
	}
	s.pc = s.next
}

func (s *sim) cond(c uint32) bool {
	switch c {
	case 0x0:
		return s.z
	case 0x1:
		return !s.z
	case 0x2:
		return s.c
	case 0x3:
		return !s.c
	case 0x4:
		return s.n
	case 0x5:
		return !s.n
	case 0x6:
		return s.v
	case 0x7:
		return !s.v
	case 0x8:
		return s.c && !s.z
	case 0x9:
		return !s.c || s.z
	case 0xa:
		return s.n == s.v
	case 0xb:
		return s.n != s.v
	case 0xc:
		return !s.z && s.n == s.v
	case 0xd:
		return s.z || s.n != s.v
	}
	return true
}

func (s *sim) setReg(rd, v uint32) {
	if rd == 15 {
		if v&3 != 0 {
			s.t.Fatalf("branch to unaligned or thumb address %#08x at %#08x", v, s.pc)
		}
		s.next = v
		return
	}
	s.r[rd] = v
}

func (s *sim) unsupported(w uint32) {
	s.t.Fatalf("unsupported instruction %08x at %#08x: %s", w, s.pc, DecodeWord(w))
}

func (s *sim) exec(w uint32) {
	switch {
	case w&0x0fffffff == OPCODE_NOP:
	case w&0x0ffffff0 == OPCODE_BX:
		s.setReg(15, s.r[w&0xf])
	case w&0x0ffffff0 == OPCODE_BLX:
		target := s.r[w&0xf]
		s.r[14] = s.pc + 4
		s.setReg(15, target)
	case w&0x0ff00000 == 0x03000000:
		s.setReg((w>>12)&0xf, (w>>4)&0xf000|w&0xfff)
	case w&0x0ff00000 == 0x03400000:
		rd := (w >> 12) & 0xf
		s.setReg(rd, s.r[rd]&0xffff|((w>>4)&0xf000|w&0xfff)<<16)
	case w&0x0fe00070 == 0x07e00050, w&0x0fe00070 == 0x07a00050:
		width := (w>>16)&0x1f + 1
		lsb := (w >> 7) & 0x1f
		v := s.r[w&0xf] << (32 - lsb - width)
		if w&0x00400000 != 0 {
			v >>= 32 - width
		} else {
			v = uint32(int32(v) >> (32 - width))
		}
		s.setReg((w>>12)&0xf, v)
	case w&0x0fe00070 == 0x07c00010:
		msb := (w >> 16) & 0x1f
		lsb := (w >> 7) & 0x1f
		rd := (w >> 12) & 0xf
		mask := uint32(uint64(1)<<(msb-lsb+1)-1) << lsb
		s.setReg(rd, s.r[rd]&^mask|(s.r[w&0xf]<<lsb)&mask)
	case w&0x0fff0ff0 == OPCODE_UXTB:
		s.setReg((w>>12)&0xf, s.r[w&0xf]&0xff)
	case w&0x0fff0ff0 == OPCODE_UXTH:
		s.setReg((w>>12)&0xf, s.r[w&0xf]&0xffff)
	case w&0x0fff0ff0 == OPCODE_SXTB:
		s.setReg((w>>12)&0xf, uint32(int32(int8(s.r[w&0xf]))))
	case w&0x0fff0ff0 == OPCODE_SXTH:
		s.setReg((w>>12)&0xf, uint32(int32(int16(s.r[w&0xf]))))
	case w&0x0e000090 == 0x00000090 && w&0x60 != 0:
		s.halfword(w)
	case w&0x0c000000 == 0:
		s.dataProcessing(w)
	case w&0x0c000000 == 0x04000000:
		s.transfer(w)
	case w&0x0e000000 == 0x08000000:
		s.block(w)
	case w&0x0e000000 == 0x0a000000:
		off := uint32(int32(w<<8) >> 6)
		if w&0x01000000 != 0 {
			s.r[14] = s.pc + 4
		}
		s.setReg(15, s.pc+8+off)
	default:
		s.vfp(w)
	}
}

// shift applies an ARM barrel shift. byReg selects the register-specified
// form, whose zero and large amounts mean something else.
func (s *sim) shift(v, typ, amt uint32, byReg bool) (uint32, bool) {
	if byReg {
		amt &= 0xff
		if amt == 0 {
			return v, s.c
		}
	}
	switch typ {
	case 0:
		switch {
		case amt == 0:
			return v, s.c
		case amt < 32:
			return v << amt, v>>(32-amt)&1 != 0
		case amt == 32:
			return 0, v&1 != 0
		}
		return 0, false
	case 1:
		if amt == 0 && !byReg {
			amt = 32
		}
		switch {
		case amt < 32:
			return v >> amt, v>>(amt-1)&1 != 0
		case amt == 32:
			return 0, v>>31 != 0
		}
		return 0, false
	case 2:
		if amt == 0 && !byReg {
			amt = 32
		}
		if amt >= 32 {
			r := uint32(int32(v) >> 31)
			return r, r != 0
		}
		return uint32(int32(v) >> amt), v>>(amt-1)&1 != 0
	}
	if amt == 0 && !byReg {
		var cin uint32
		if s.c {
			cin = 1 << 31
		}
		return cin | v>>1, v&1 != 0
	}
	r := bits.RotateLeft32(v, -int(amt&31))
	return r, r>>31 != 0
}

func (s *sim) operand2(w uint32) (uint32, bool) {
	if w&0x02000000 != 0 {
		rot := (w >> 8) & 0xf
		v := bits.RotateLeft32(w&0xff, -int(2*rot))
		if rot == 0 {
			return v, s.c
		}
		return v, v>>31 != 0
	}
	rm := s.r[w&0xf]
	typ := (w >> 5) & 3
	if w&0x10 != 0 {
		return s.shift(rm, typ, s.r[(w>>8)&0xf], true)
	}
	return s.shift(rm, typ, (w>>7)&0x1f, false)
}

func addWithCarry(a, b uint32, cin bool) (uint32, bool, bool) {
	var ci uint64
	if cin {
		ci = 1
	}
	sum := uint64(a) + uint64(b) + ci
	r := uint32(sum)
	return r, sum>>32 != 0, (^(a^b)&(a^r))>>31 != 0
}

func (s *sim) dataProcessing(w uint32) {
	op := (w >> 21) & 0xf
	setFlags := w&0x00100000 != 0
	rn := s.r[(w>>16)&0xf]
	rd := (w >> 12) & 0xf
	b, sc := s.operand2(w)

	var r uint32
	c, v := sc, s.v
	arith := true
	switch op {
	case 0x0, 0x8:
		r, arith = rn&b, false
	case 0x1, 0x9:
		r, arith = rn^b, false
	case 0x2, 0xa:
		r, c, v = addWithCarry(rn, ^b, true)
	case 0x3:
		r, c, v = addWithCarry(b, ^rn, true)
	case 0x4, 0xb:
		r, c, v = addWithCarry(rn, b, false)
	case 0x5:
		r, c, v = addWithCarry(rn, b, s.c)
	case 0x6:
		r, c, v = addWithCarry(rn, ^b, s.c)
	case 0x7:
		r, c, v = addWithCarry(b, ^rn, s.c)
	case 0xc:
		r, arith = rn|b, false
	case 0xd:
		r, arith = b, false
	case 0xe:
		r, arith = rn&^b, false
	case 0xf:
		r, arith = ^b, false
	}
	if setFlags {
		s.n, s.z = r>>31 != 0, r == 0
		s.c = c
		if arith {
			s.v = v
		}
	}
	if op < 0x8 || op > 0xb {
		s.setReg(rd, r)
	}
}

func (s *sim) address(w, off uint32) (addr, wb uint32) {
	rn := s.r[(w>>16)&0xf]
	upd := rn + off
	if w&0x00800000 == 0 {
		upd = rn - off
	}
	if w&0x01000000 != 0 {
		return upd, upd
	}
	return rn, upd
}

func (s *sim) writeback(w, wb uint32) {
	if w&0x01000000 == 0 || w&0x00200000 != 0 {
		s.r[(w>>16)&0xf] = wb
	}
}

func (s *sim) transfer(w uint32) {
	off := w & 0xfff
	if w&0x02000000 != 0 {
		off, _ = s.shift(s.r[w&0xf], (w>>5)&3, (w>>7)&0x1f, false)
	}
	addr, wb := s.address(w, off)
	rt := (w >> 12) & 0xf
	byteAccess := w&0x00400000 != 0
	if w&0x00100000 != 0 {
		var v uint32
		if byteAccess {
			v = uint32(s.read8(addr))
		} else {
			v = s.read32(addr)
		}
		s.writeback(w, wb)
		s.setReg(rt, v)
		return
	}
	v := s.r[rt]
	if byteAccess {
		s.write8(addr, uint8(v))
	} else {
		s.write32(addr, v)
	}
	s.writeback(w, wb)
}

func (s *sim) halfword(w uint32) {
	if (w>>5)&3 != 1 {
		s.unsupported(w)
	}
	off := (w>>4)&0xf0 | w&0xf
	if w&0x00400000 == 0 {
		off = s.r[w&0xf]
	}
	addr, wb := s.address(w, off)
	rt := (w >> 12) & 0xf
	if w&0x00100000 != 0 {
		v := uint32(s.read16(addr))
		s.writeback(w, wb)
		s.setReg(rt, v)
		return
	}
	s.write16(addr, uint16(s.r[rt]))
	s.writeback(w, wb)
}

func (s *sim) block(w uint32) {
	rn := (w >> 16) & 0xf
	list := w & 0xffff
	n := uint32(bits.OnesCount32(list))
	base := s.r[rn]
	var addr, wb uint32
	switch (w >> 23) & 3 {
	case 0: // DA
		addr, wb = base-4*n+4, base-4*n
	case 1: // IA
		addr, wb = base, base+4*n
	case 2: // DB
		addr, wb = base-4*n, base-4*n
	case 3: // IB
		addr, wb = base+4, base+4*n
	}
	load := w&0x00100000 != 0
	vals := make(map[uint32]uint32)
	for i := uint32(0); i < 16; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		if load {
			vals[i] = s.read32(addr)
		} else {
			s.write32(addr, s.r[i])
		}
		addr += 4
	}
	if w&0x00200000 != 0 {
		s.r[rn] = wb
	}
	for i := uint32(0); i < 16; i++ {
		if v, ok := vals[i]; ok {
			s.setReg(i, v)
		}
	}
}

func (s *sim) sreg(i uint32) uint32 {
	return uint32(s.d[i>>1] >> (32 * (i & 1)))
}

func (s *sim) setSreg(i, v uint32) {
	sh := 32 * (i & 1)
	s.d[i>>1] = s.d[i>>1]&^(0xffffffff<<sh) | uint64(v)<<sh
}

func (s *sim) f64(i uint32) float64     { return math.Float64frombits(s.d[i]) }
func (s *sim) setF64(i uint32, f float64) { s.d[i] = math.Float64bits(f) }

// toInt32 converts with saturation; NaN gives zero.
func (s *sim) toInt32(f float64, truncate bool) uint32 {
	if math.IsNaN(f) {
		return 0
	}
	switch {
	case truncate:
		f = math.Trunc(f)
	case s.fpscr&FPSCR_RMODE_MASK == FPSCR_RMODE_RP:
		f = math.Ceil(f)
	case s.fpscr&FPSCR_RMODE_MASK == FPSCR_RMODE_RM:
		f = math.Floor(f)
	case s.fpscr&FPSCR_RMODE_MASK == FPSCR_RMODE_RZ:
		f = math.Trunc(f)
	default:
		f = math.RoundToEven(f)
	}
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return 1 << 31
	}
	return uint32(int32(f))
}

func (s *sim) vcmp(a, b float64) {
	var nzcv uint32
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		nzcv = 0x3
	case a < b:
		nzcv = 0x8
	case a == b:
		nzcv = 0x6
	default:
		nzcv = 0x2
	}
	s.fpscr = s.fpscr&0x0fffffff | nzcv<<28
}

func (s *sim) vfp(w uint32) {
	dbit := (w >> 22) & 1
	vd := (w >> 12) & 0xf
	dd := dbit<<4 | vd
	sdn := vd<<1 | dbit
	nn := (w>>7)&1<<4 | (w>>16)&0xf
	mm := (w>>5)&1<<4 | w&0xf
	sm := (w&0xf)<<1 | (w>>5)&1
	double := w&0x100 != 0

	switch {
	case w&0x0f200e00 == 0x0d000a00:
		base := s.r[(w>>16)&0xf]
		off := (w & 0xff) * 4
		addr := base + off
		if w&0x00800000 == 0 {
			addr = base - off
		}
		load := w&0x00100000 != 0
		switch {
		case double && load:
			s.d[dd] = s.read64(addr)
		case double:
			s.write64(addr, s.d[dd])
		case load:
			s.setSreg(sdn, s.read32(addr))
		default:
			s.write32(addr, s.sreg(sdn))
		}
	case w&0x0fe00fd0 == 0x0c400b10:
		rt, rt2 := (w>>12)&0xf, (w>>16)&0xf
		if w&0x00100000 != 0 {
			s.setReg(rt, uint32(s.d[mm]))
			s.setReg(rt2, uint32(s.d[mm]>>32))
		} else {
			s.d[mm] = uint64(s.r[rt]) | uint64(s.r[rt2])<<32
		}
	case w&0x0fe00f7f == 0x0e000a10:
		sn := (w>>16)&0xf<<1 | (w>>7)&1
		rt := (w >> 12) & 0xf
		if w&0x00100000 != 0 {
			s.setReg(rt, s.sreg(sn))
		} else {
			s.setSreg(sn, s.r[rt])
		}
	case w&0x0ff00f7f == 0x0e100b10:
		s.setReg((w>>12)&0xf, uint32(s.d[nn]))
	case w&0x0fff0fff == 0x0ef10a10:
		if rt := (w >> 12) & 0xf; rt == 15 {
			s.n, s.z, s.c, s.v = s.fpscr>>31 != 0, s.fpscr>>30&1 != 0, s.fpscr>>29&1 != 0, s.fpscr>>28&1 != 0
		} else {
			s.setReg(rt, s.fpscr)
		}
	case w&0x0fff0fff == 0x0ee10a10:
		s.fpscr = s.r[(w>>12)&0xf]
	case w&0x0f000e10 == 0x0e000a00:
		s.vfpData(w, dd, nn, mm, sdn, sm, double)
	default:
		s.unsupported(w)
	}
}

func (s *sim) vfpData(w, dd, nn, mm, sdn, sm uint32, double bool) {
	if !double && (w>>20)&0xb != 0xb && (w>>20)&0xb != 0x8 {
		s.unsupported(w)
	}
	sn := (w>>16)&0xf<<1 | (w>>7)&1
	f32 := func(i uint32) float32 { return math.Float32frombits(s.sreg(i)) }
	op6 := w&0x40 != 0
	switch (w >> 20) & 0xb {
	case 0x2:
		if op6 {
			s.unsupported(w)
		}
		s.setF64(dd, s.f64(nn)*s.f64(mm))
	case 0x3:
		if op6 {
			s.setF64(dd, s.f64(nn)-s.f64(mm))
		} else {
			s.setF64(dd, s.f64(nn)+s.f64(mm))
		}
	case 0x8:
		if double {
			s.setF64(dd, s.f64(nn)/s.f64(mm))
		} else {
			s.setSreg(sdn, math.Float32bits(f32(sn)/f32(sm)))
		}
	case 0xb:
		opc2 := (w >> 16) & 0xf
		bit7 := w&0x80 != 0
		switch {
		case opc2 == 0 && !bit7 && op6:
			s.d[dd] = s.d[mm]
		case opc2 == 0 && bit7 && op6:
			s.d[dd] = s.d[mm] &^ (1 << 63)
		case opc2 == 1 && !bit7 && op6:
			s.d[dd] = s.d[mm] ^ 1<<63
		case opc2 == 1 && bit7 && op6 && double:
			s.setF64(dd, math.Sqrt(s.f64(mm)))
		case opc2 == 1 && bit7 && op6:
			s.setSreg(sdn, math.Float32bits(float32(math.Sqrt(float64(f32(sm))))))
		case opc2 == 4 && op6:
			s.vcmp(s.f64(dd), s.f64(mm))
		case opc2 == 5 && op6:
			s.vcmp(s.f64(dd), 0)
		case opc2 == 7 && bit7 && op6 && double:
			s.setSreg(sdn, math.Float32bits(float32(s.f64(mm))))
		case opc2 == 7 && bit7 && op6:
			s.setF64(dd, float64(math.Float32frombits(s.sreg(sm))))
		case opc2 == 8 && bit7 && op6 && double:
			s.setF64(dd, float64(int32(s.sreg(sm))))
		case opc2 == 0xd && op6 && double:
			s.setSreg(sdn, s.toInt32(s.f64(mm), bit7))
		default:
			s.unsupported(w)
		}
	default:
		s.unsupported(w)
	}
}

// lanes splits a D register into elements of esize bits, lowest first.
func lanes(v uint64, esize uint) []uint64 {
	n := 64 / esize
	out := make([]uint64, n)
	mask := uint64(1)<<esize - 1
	if esize == 64 {
		mask = ^uint64(0)
	}
	for i := range out {
		out[i] = v >> (uint(i) * esize) & mask
	}
	return out
}

func join(ls []uint64, esize uint) uint64 {
	var v uint64
	mask := uint64(1)<<esize - 1
	if esize == 64 {
		mask = ^uint64(0)
	}
	for i, l := range ls {
		v |= (l & mask) << (uint(i) * esize)
	}
	return v
}

func signExtend(v uint64, esize uint) int64 {
	return int64(v<<(64-esize)) >> (64 - esize)
}

func saturate(x, lo, hi int64) int64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func (s *sim) neon(w uint32) {
	dd := (w>>22)&1<<4 | (w>>12)&0xf
	nn := (w>>7)&1<<4 | (w>>16)&0xf
	mm := (w>>5)&1<<4 | w&0xf
	switch {
	case w&0xff800f10 == 0xf2000800, w&0xff800f10 == 0xf3000800:
		if w&0x40 != 0 {
			s.unsupported(w)
		}
		esize := uint(8) << ((w >> 20) & 3)
		a, b := lanes(s.d[nn], esize), lanes(s.d[mm], esize)
		for i := range a {
			if w&0x01000000 != 0 {
				a[i] -= b[i]
			} else {
				a[i] += b[i]
			}
		}
		s.d[dd] = join(a, esize)
	case w&0xffb70fd0 == OPCODE_VDUP_32:
		lane := uint32(s.d[mm] >> (32 * ((w >> 19) & 1)))
		s.d[dd] = uint64(lane)<<32 | uint64(lane)
	case w&0xffb00f10 == OPCODE_VAND:
		s.d[dd] = s.d[nn] & s.d[mm]
	case w&0xffb00f10 == OPCODE_VBIC:
		s.d[dd] = s.d[nn] &^ s.d[mm]
	case w&0xffb00f10 == OPCODE_VORR:
		s.d[dd] = s.d[nn] | s.d[mm]
	case w&0xffb00f10 == OPCODE_VEOR:
		s.d[dd] = s.d[nn] ^ s.d[mm]
	case w&0xffb30fd0 == OPCODE_VZIP:
		esize := uint(8) << ((w >> 18) & 3)
		a, b := lanes(s.d[dd], esize), lanes(s.d[mm], esize)
		z := make([]uint64, 0, 2*len(a))
		for i := range a {
			z = append(z, a[i], b[i])
		}
		s.d[dd], s.d[mm] = join(z[:len(a)], esize), join(z[len(a):], esize)
	case w&0xffb30fd0 == OPCODE_VTRN:
		esize := uint(8) << ((w >> 18) & 3)
		a, b := lanes(s.d[dd], esize), lanes(s.d[mm], esize)
		for i := 0; i < len(a); i += 2 {
			a[i+1], b[i] = b[i], a[i+1]
		}
		s.d[dd], s.d[mm] = join(a, esize), join(b, esize)
	case w&0xffb30fd0 == OPCODE_VQMOVN_S, w&0xffb30fd0 == OPCODE_VQMOVUN:
		esize := uint(8) << ((w >> 18) & 3)
		src := append(lanes(s.d[mm], 2*esize), lanes(s.d[mm+1], 2*esize)...)
		lo, hi := -int64(1)<<(esize-1), int64(1)<<(esize-1)-1
		if w&0xffb30fd0 == OPCODE_VQMOVUN {
			lo, hi = 0, int64(1)<<esize-1
		}
		out := make([]uint64, len(src))
		for i, x := range src {
			out[i] = uint64(saturate(signExtend(x, 2*esize), lo, hi))
		}
		s.d[dd] = join(out, esize)
	default:
		s.unsupported(w)
	}
}
