package ir

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/nsf/jsondiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegPacking(t *testing.T) {
	r := BH(5)
	assert.Equal(t, 5, r.Host())
	assert.True(t, r.IsBH())
	assert.False(t, r.IsB())
	assert.Equal(t, "BH5", r.String())
	assert.False(t, RegNone.Valid())
	assert.Equal(t, "-", RegNone.String())
	assert.NotEqual(t, RegNone, L(0))
}

func TestParseReg(t *testing.T) {
	for _, s := range []string{"L4", "W9", "B0", "BH7", "D8", "Q15", "D31"} {
		r, err := ParseReg(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, r.String())
	}
	for _, s := range []string{"X1", "L", "L32", "Bx"} {
		_, err := ParseReg(s)
		assert.Error(t, err, s)
	}
}

func TestOpNames(t *testing.T) {
	for op := Op(0); op < NumOps; op++ {
		name := op.String()
		require.NotContains(t, name, "Op(", "missing name for op %d", op)
		back, ok := ParseOp(name)
		require.True(t, ok, name)
		assert.Equal(t, op, back)
	}
	_, ok := ParseOp("FROB")
	assert.False(t, ok)
	assert.True(t, CMP_JB_DEST.HasDeferredTarget())
	assert.False(t, CMP_JB.HasDeferredTarget())
}

const sampleListing = `{
  "pc": "0x1000",
  "uops": [
    {"op": "MOV_IMM", "dest": "L4", "imm": "0x12345678"},
    {"op": "CMP_JB_DEST", "src": ["L4", "L5"], "target": 3},
    {"op": "ADD", "dest": "W4", "src": ["W4", "W5"]},
    {"op": "SUB_IMM", "dest": "L6", "src": ["L6"], "imm": "-1"}
  ]
}`

func TestParseListing(t *testing.T) {
	l, err := ParseListing(strings.NewReader(sampleListing))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1000), l.PC)
	require.Len(t, l.Uops, 4)
	assert.Equal(t, MOV_IMM, l.Uops[0].Op)
	assert.Equal(t, uint32(0x12345678), l.Uops[0].Imm)
	assert.Equal(t, 3, l.Uops[1].Target)
	assert.Equal(t, W(5), l.Uops[2].Src[1])
	assert.Equal(t, uint32(0xffffffff), l.Uops[3].Imm)
	assert.Equal(t, "CMP_JB_DEST L4 L5 ->3", l.Uops[1].String())

	out, err := json.Marshal(l)
	require.NoError(t, err)
	again, err := ParseListing(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, l.Uops, again.Uops)
}

// The marshalled form is canonical: hex immediates, trailing empty sources
// dropped, targets only on deferred branches.
func TestListingCanonicalForm(t *testing.T) {
	const want = `{"pc": "0x1000", "uops": [
		{"op": "MOV_IMM", "dest": "L4", "imm": "0x12345678"},
		{"op": "CMP_JB_DEST", "src": ["L4", "L5"], "target": 3},
		{"op": "ADD", "dest": "W4", "src": ["W4", "W5"]},
		{"op": "SUB_IMM", "dest": "L6", "src": ["L6"], "imm": "0xffffffff"}
	]}`
	l, err := ParseListing(strings.NewReader(sampleListing))
	require.NoError(t, err)
	out, err := json.Marshal(l)
	require.NoError(t, err)
	opts := jsondiff.DefaultConsoleOptions()
	diff, report := jsondiff.Compare([]byte(want), out, &opts)
	assert.Equal(t, jsondiff.FullMatch, diff, report)
}

func TestParseListingErrors(t *testing.T) {
	cases := map[string]error{
		`{"uops":[{"op":"FROB"}]}`:                           dynerrors.ErrLUnknownOp,
		`{"uops":[{"op":"ADD","dest":"Z1"}]}`:                dynerrors.ErrLBadOperand,
		`{"uops":[{"op":"JMP_DEST"}]}`:                       dynerrors.ErrLMissingDest,
		`{"uops":[{"op":"JMP_DEST","target":0}]}`:            dynerrors.ErrLBadTarget,
		`{"uops":[{"op":"JMP_DEST","target":2}]}`:            dynerrors.ErrLBadTarget,
		`{"uops":`:                                           dynerrors.ErrLBadListing,
		`{"uops":[{"op":"ADD","src":["L1","L2","L3","L4"]}]}`: dynerrors.ErrLBadOperand,
	}
	for in, want := range cases {
		_, err := ParseListing(strings.NewReader(in))
		assert.ErrorIs(t, err, want, in)
	}
	_, err := ParseListing(strings.NewReader(`{"uops":[{"op":"JMP_DEST","target":1}]}`))
	assert.NoError(t, err)
}
