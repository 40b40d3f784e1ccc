package cpustate

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutValidates(t *testing.T) {
	require.NoError(t, Validate())
}

func TestEightByteFieldsFirst(t *testing.T) {
	assert.Equal(t, uint32(0), Offset(FieldST))
	assert.Equal(t, uint32(64), Offset(FieldMM))
	assert.Equal(t, uint32(128), Offset(FieldRegs))
	assert.Equal(t, uint32(0), Offset(FieldST)%8)
	assert.Equal(t, uint32(0), Offset(FieldMM)%8)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, Offset(FieldRegs)+12, Reg(3))
	assert.Equal(t, Offset(FieldST)+56, ST(7))
	assert.Equal(t, ST(0), ST(8), "x87 indices wrap")
	assert.Equal(t, Offset(FieldMM)+8, MM(1))
	assert.Equal(t, Offset(FieldSegBase)+4*SegDS, SegBase(SegDS))
	assert.Equal(t, Offset(FieldTag)+2, Tag(2))
	assert.Equal(t, "NewFPControl", FieldNewFPControl.String())
	assert.Equal(t, "Field(99)", Field(99).String())
}

func TestOffsetsMatchStruct(t *testing.T) {
	var st State
	base := uintptr(unsafe.Pointer(&st))
	assert.Equal(t, uintptr(unsafe.Pointer(&st.Abrt))-base, uintptr(Offset(FieldAbrt)))
	assert.Equal(t, uintptr(unsafe.Pointer(&st.NPXS))-base, uintptr(Offset(FieldNPXS)))
	assert.Equal(t, uintptr(unsafe.Pointer(&st.OldFPControl))-base, uintptr(Offset(FieldOldFPControl)))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(0x1000, 0x1000))
	assert.True(t, Contains(0x1000, 0x1000+uint32(Size)-1))
	assert.False(t, Contains(0x1000, 0x1000+uint32(Size)))
	assert.False(t, Contains(0x1000, 0xfff))
}
