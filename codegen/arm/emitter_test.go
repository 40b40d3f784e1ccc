package arm

import (
	"encoding/binary"
	"testing"

	"github.com/colorfulnotion/dynarec/codeblock"
	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = 0x10000

func newTestEmitter(t *testing.T, pageSize int, assertPatches bool) (*Emitter, *codeblock.Arena) {
	t.Helper()
	a := codeblock.NewArena(pageSize, 4, testBase)
	p := a.Allocate(nil, 0)
	return NewEmitter(a, p, 0, assertPatches), a
}

func word(p *codeblock.Page, i int) uint32 {
	return binary.LittleEndian.Uint32(p.Data[i*4:])
}

func words(p *codeblock.Page) []uint32 {
	out := make([]uint32, p.Used/4)
	for i := range out {
		out[i] = word(p, i)
	}
	return out
}

// fatal runs fn and returns the FatalError it raised, if any.
func fatal(fn func()) (err error) {
	defer dynerrors.Recover(&err)
	fn()
	return nil
}

func TestEmitterLinksPages(t *testing.T) {
	e, _ := newTestEmitter(t, 64, true)
	first := e.Page()
	for i := 0; i < 13; i++ {
		e.Nop()
	}
	assert.Same(t, first, e.Page())
	e.Nop()

	second := e.Page()
	require.NotSame(t, first, second)
	assert.Same(t, second, first.Next)
	assert.Equal(t, LDR_PC_LITERAL, word(first, 13))
	assert.Equal(t, second.Base, word(first, 14))
	assert.Equal(t, 60, first.Used)
	assert.Equal(t, 4, second.Used)
	assert.Equal(t, 14*4+JMP_LEN_BYTES, e.Emitted())
	assert.Equal(t, second.Base+4, e.Addr())
}

func TestAllocKeepsSequencesTogether(t *testing.T) {
	e, _ := newTestEmitter(t, 64, true)
	for i := 0; i < 10; i++ {
		e.Nop()
	}
	// 40 + 16 reaches the reserved tail, so the whole run moves.
	e.Alloc(16)
	assert.Equal(t, testBase+64, int(e.Addr()))
}

func TestForwardBranchResolve(t *testing.T) {
	e, _ := newTestEmitter(t, 256, true)
	site := e.BForward(COND_NE)
	assert.Equal(t, 1, e.Pending())
	e.Nop()
	e.Nop()
	e.Nop()
	e.SetJumpDest(site)
	assert.Equal(t, 0, e.Pending())
	assert.Equal(t, uint32(0x1a000002), word(site.Page, 0))

	err := fatal(func() { e.Resolve(site, testBase) })
	assert.ErrorIs(t, err, dynerrors.ErrGPatchResolved)
	err = fatal(func() { e.Resolve(codeblock.PatchSite{}, testBase) })
	assert.ErrorIs(t, err, dynerrors.ErrGPatchResolved)
}

func TestForwardBranchAcrossPages(t *testing.T) {
	e, _ := newTestEmitter(t, 64, true)
	site := e.BForward(COND_EQ)
	for i := 0; i < 20; i++ {
		e.Nop()
	}
	target := e.Addr()
	e.SetJumpDest(site)
	w := word(site.Page, 0)
	disp := int32(w<<8) >> 6
	assert.Equal(t, target, uint32(int32(site.Addr())+8+disp))
	assert.Equal(t, uint32(COND_EQ), w&0xf0000000)
}

func TestResolveOutOfRange(t *testing.T) {
	e, _ := newTestEmitter(t, 256, true)
	site := e.BForward(COND_AL)
	err := fatal(func() { e.Resolve(site, testBase+1<<25+8) })
	assert.ErrorIs(t, err, dynerrors.ErrGRangeExceeded)
}

func TestFinishChecksPatches(t *testing.T) {
	e, _ := newTestEmitter(t, 256, true)
	e.BForward(COND_AL)
	err := fatal(e.Finish)
	assert.ErrorIs(t, err, dynerrors.ErrGUnresolvedPatch)

	e, _ = newTestEmitter(t, 256, false)
	e.BForward(COND_AL)
	assert.NoError(t, fatal(e.Finish))

	err = fatal(e.Nop)
	assert.ErrorIs(t, err, dynerrors.ErrGNoActivePage)
}

func TestBranchForms(t *testing.T) {
	e, _ := newTestEmitter(t, 256, true)
	e.B(testBase + 0x100)
	e.B(testBase)
	e.BL(testBase + 0x100)
	e.BCond(COND_GE, testBase)
	assert.Equal(t, []uint32{0xea00003e, 0xeafffffd, 0xeb00003c, 0xaafffffb}, words(e.Page()))
}

func TestFarBranchForms(t *testing.T) {
	const far = 0x08001234
	e, _ := newTestEmitter(t, 256, true)
	e.B(far)
	e.BL(far)
	e.BCond(COND_EQ, far)
	assert.Equal(t, []uint32{
		LDR_PC_LITERAL, far,
		0xe301c234, 0xe340c800, 0xe12fff3c,
		0x1a000001, LDR_PC_LITERAL, far,
	}, words(e.Page()))
}

func TestMovImmForms(t *testing.T) {
	cases := []struct {
		imm  uint32
		want []uint32
	}{
		{0x10, []uint32{0xe3a04010}},
		{0xffffffff, []uint32{0xe3e04000}},
		{0xffffff00, []uint32{0xe3e040ff}},
		{0x1234, []uint32{0xe3014234}},
		{0x12345678, []uint32{0xe3054678, 0xe3414234}},
	}
	for _, c := range cases {
		e, _ := newTestEmitter(t, 256, true)
		e.MovImm(R4, c.imm)
		assert.Equal(t, c.want, words(e.Page()), "%#x", c.imm)
	}
}

func TestAluImmFallbacks(t *testing.T) {
	cases := []struct {
		name string
		emit func(e *Emitter)
		want []uint32
	}{
		{"add", func(e *Emitter) { e.AddImm(R4, R5, 4) }, []uint32{0xe2854004}},
		{"add negative", func(e *Emitter) { e.AddImm(R4, R5, 0xfffffffc) }, []uint32{0xe2454004}},
		{"and complement", func(e *Emitter) { e.AndImm(R4, R5, 0xffffff00) }, []uint32{0xe3c540ff}},
		{"scratch", func(e *Emitter) { e.AddImm(R4, R5, 0x12345) }, []uint32{0xe3023345, 0xe3403001, 0xe0854003}},
		{"scratch avoids operand", func(e *Emitter) { e.AddImm(R4, R3, 0x12345) }, []uint32{0xe3022345, 0xe3402001, 0xe0834002}},
		{"cmn", func(e *Emitter) { e.CmpImm(R1, 0xffffffff) }, []uint32{0xe3710001}},
		{"tst", func(e *Emitter) { e.TstImm(R0, 3) }, []uint32{0xe3100003}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, _ := newTestEmitter(t, 256, true)
			c.emit(e)
			assert.Equal(t, c.want, words(e.Page()))
		})
	}
}

func TestBadImmediates(t *testing.T) {
	e, _ := newTestEmitter(t, 256, true)
	for _, fn := range []func(){
		func() { e.MovLSR(R0, R1, 0) },
		func() { e.Movw(R0, 0x10000) },
		func() { e.RsbImm(R0, R1, 0x101) },
		func() { e.Ubfx(R0, R1, 28, 8) },
		func() { e.VshlImm(16, D0, D1, 16) },
	} {
		assert.ErrorIs(t, fatal(fn), dynerrors.ErrGBadImmediate)
	}
	assert.ErrorIs(t, fatal(func() { e.LdrImm(R0, R1, 4096) }), dynerrors.ErrGRangeExceeded)
	assert.ErrorIs(t, fatal(func() { e.LdrhImm(R0, R1, 256) }), dynerrors.ErrGRangeExceeded)
	assert.ErrorIs(t, fatal(func() { e.VldrD(D0, R1, 1024) }), dynerrors.ErrGRangeExceeded)
}
