package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/blake2b"
)

func TestCodeHashMatchesSingleShot(t *testing.T) {
	a := []byte{0x00, 0x00, 0xa0, 0xe3}
	b := []byte{0x1e, 0xff, 0x2f, 0xe1}
	want := blake2b.Sum256(append(append([]byte{}, a...), b...))
	assert.Equal(t, want, CodeHash(a, b))
	assert.Len(t, CodeHashString(a), 66)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123abcd", ShortHash("0123abcdef"))
	assert.Equal(t, "abc", ShortHash("abc"))
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "x", Colorize(false, ColorRed, "x"))
	assert.Equal(t, ColorRed+"x"+ColorReset, Colorize(true, ColorRed, "x"))
}
