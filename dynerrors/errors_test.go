package dynerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "G1|RangeExceeded", ErrorCode(ErrGRangeExceeded))
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, "plain", ErrorCode(errors.New("plain")))
}

func TestFatalfRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		Fatalf("codegen", ErrGBadWidth, "ADD %02x %02x", 1, 2)
		return nil
	}
	err := run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGBadWidth)
	var fe *FatalError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "ADD 01 02", fe.Msg)
	assert.Equal(t, "fatal: G2|BadWidth: ADD 01 02", fe.Error())
}

func TestRecoverPassesOtherPanics(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		var err error
		defer Recover(&err)
		panic("boom")
	})
}

func TestWrapped(t *testing.T) {
	err := fmt.Errorf("profile %q: %w", "nope", ErrCUnknownProfile)
	assert.ErrorIs(t, err, ErrCUnknownProfile)
}
