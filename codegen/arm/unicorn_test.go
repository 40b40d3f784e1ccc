//go:build unicorn
// +build unicorn

package arm

import (
	"testing"

	"github.com/colorfulnotion/dynarec/codeblock"
	"github.com/colorfulnotion/dynarec/cpustate"
	"github.com/colorfulnotion/dynarec/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"
)

const ucPageSize = uint64(1) << simPageShift

// onUnicorn runs blk on an emulated Cortex-A15 seeded with the rig's data
// memory and arena, then copies data memory back into the rig.
func onUnicorn(t *testing.T, r *rig, blk *codeblock.Block) {
	t.Helper()
	mu, err := uc.NewUnicorn(uc.ARCH_ARM, uc.MODE_ARM)
	require.NoError(t, err)
	defer mu.Close()

	mapped := make(map[uint64]bool)
	mapRange := func(addr, size uint64) {
		for a := addr &^ (ucPageSize - 1); a < addr+size; a += ucPageSize {
			if !mapped[a] {
				require.NoError(t, mu.MemMap(a, ucPageSize), "map %#x", a)
				mapped[a] = true
			}
		}
	}

	codeBase := uint64(r.arena.Base())
	codeSize := uint64(r.arena.Capacity() * r.arena.PageSize())
	mapRange(codeBase, codeSize)
	for i := 0; i < r.arena.Capacity(); i++ {
		p := r.arena.PageAt(r.arena.Base() + uint32(i*r.arena.PageSize()))
		require.NoError(t, mu.MemWrite(uint64(p.Base), p.Data))
	}
	for key, pg := range r.sim.mem {
		addr := uint64(key) << simPageShift
		mapRange(addr, ucPageSize)
		require.NoError(t, mu.MemWrite(addr, pg[:]))
	}
	mapRange(simStackTop-0x10000, 0x10000)

	// CPACR full access to cp10/cp11, then FPEXC.EN.
	require.NoError(t, mu.RegWrite(uc.ARM_REG_C1_C0_2, 0xf00000))
	require.NoError(t, mu.RegWrite(uc.ARM_REG_FPEXC, 0x40000000))
	require.NoError(t, mu.RegWrite(uc.ARM_REG_FPSCR, fpscrInit))
	require.NoError(t, mu.RegWrite(uc.ARM_REG_SP, simStackTop))
	require.NoError(t, mu.RegWrite(uc.ARM_REG_LR, simHalt))
	require.NoError(t, mu.Start(uint64(blk.Entry()), simHalt))

	sp, err := mu.RegRead(uc.ARM_REG_SP)
	require.NoError(t, err)
	require.Equal(t, uint64(simStackTop), sp, "stack not balanced")

	for a := range mapped {
		if a >= codeBase && a < codeBase+codeSize {
			continue
		}
		buf, err := mu.MemRead(a, ucPageSize)
		require.NoError(t, err)
		copy(r.sim.page(uint32(a))[:], buf)
	}
}

type crossCase struct {
	name  string
	setup func(r *rig)
	uops  []ir.Uop
}

// TestAgainstUnicorn compiles each block twice into identical rigs and
// checks the simulator and unicorn leave the same guest state behind.
func TestAgainstUnicorn(t *testing.T) {
	cases := []crossCase{
		{"alu", func(r *rig) {
			r.setReg(0, 0x12345678)
			r.setReg(1, 0x8000ff01)
		}, []ir.Uop{
			ir.New(ir.ADD, ir.BH(4), ir.BH(4), ir.B(5)),
			ir.NewImm(ir.ROL_IMM, ir.W(5), 3, ir.W(5)),
			ir.New(ir.SAR, ir.L(6), ir.L(5), ir.B(4)),
			ir.New(ir.MOVSX, ir.L(7), ir.B(5)),
			ir.NewBranch(ir.CMP_IMM_JZ_DEST, 6, 0, ir.L(7)),
			ir.NewImm(ir.MOV_IMM, ir.L(8), 0x55),
			ir.NewImm(ir.XOR_IMM, ir.L(9), 0xff00, ir.L(4)),
		}},
		{"fp round", func(r *rig) {
			r.setST(0, -2.5)
			r.setST(1, 7.75)
			r.sim.write32(r.state(cpustate.Offset(cpustate.FieldNewFPControl)), 1)
		}, []ir.Uop{
			ir.New(ir.FMUL, ir.D(10), ir.D(8), ir.D(9)),
			ir.New(ir.MOV_DOUBLE_INT, ir.L(4), ir.D(10)),
			ir.New(ir.FSQRT, ir.D(11), ir.D(9)),
			ir.New(ir.MOV_DOUBLE_INT, ir.W(5), ir.D(8)),
			ir.New(ir.FCOM, ir.W(6), ir.D(8), ir.D(9)),
		}},
		{"memory hit", func(r *rig) {
			r.setReg(0, guestPage)
			r.setReg(1, 0x00c0ffee)
			r.sim.write32(hostPage+0x80, 0x11223344)
			r.setST(0, 1.25)
		}, []ir.Uop{
			ir.NewImm(ir.MEM_LOAD_ABS, ir.W(6), 0x80, ir.L(4)),
			ir.NewImm(ir.MEM_STORE_ABS, ir.RegNone, 0x90, ir.L(4), ir.L(5)),
			ir.NewImm(ir.MEM_STORE_DOUBLE, ir.RegNone, 0x98, ir.L(4), ir.RegNone, ir.D(8)),
			ir.NewImm(ir.MEM_LOAD_ABS, ir.L(7), 0x98, ir.L(4)),
		}},
		{"mmx", func(r *rig) {
			r.setQ(0, 0xff8080007fff0001)
			r.setQ(1, 0xff000042ffff0100)
		}, []ir.Uop{
			ir.New(ir.PACKSSWB, ir.Q(10), ir.Q(8), ir.Q(9)),
			ir.New(ir.PUNPCKLBW, ir.Q(11), ir.Q(8), ir.Q(9)),
			ir.New(ir.PADDW, ir.Q(8), ir.Q(8), ir.Q(9)),
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			want, got := newRig(t), newRig(t)
			c.setup(want)
			c.setup(got)
			want.exec(want.compile(loadGuest, storeGuest, c.uops...))
			onUnicorn(t, got, got.compile(loadGuest, storeGuest, c.uops...))
			for i := 0; i < 6; i++ {
				assert.Equal(t, want.reg(i), got.reg(i), "reg %d", i)
			}
			for i := 0; i < 4; i++ {
				assert.Equal(t, want.q(i), got.q(i), "st %d", i)
			}
			assert.Equal(t, want.sim.read32(hostPage+0x90), got.sim.read32(hostPage+0x90))
		})
	}
}
