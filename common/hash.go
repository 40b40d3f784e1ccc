package common

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// CodeHash is the BLAKE2b-256 digest of emitted native code.
func CodeHash(data ...[]byte) [32]byte {
	h, _ := blake2b.New256(nil)
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// CodeHashString returns the hex digest, prefixed with 0x.
func CodeHashString(data ...[]byte) string {
	h := CodeHash(data...)
	return "0x" + hex.EncodeToString(h[:])
}
