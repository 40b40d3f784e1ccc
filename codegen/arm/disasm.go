package arm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/arch/arm/armasm"
)

// DecodeWord renders one instruction word, or ".word" when the decoder has
// no form for it (most NEON encodings).
func DecodeWord(w uint32) string {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], w)
	inst, err := armasm.Decode(buf[:], armasm.ModeARM)
	if err != nil {
		return fmt.Sprintf(".word 0x%08x", w)
	}
	return armasm.GNUSyntax(inst)
}

// Disassemble lists code as it sits at host address base.
func Disassemble(code []byte, base uint32) string {
	var sb strings.Builder
	for off := 0; off+4 <= len(code); off += 4 {
		w := binary.LittleEndian.Uint32(code[off:])
		sb.WriteString(fmt.Sprintf("0x%08x: %08x  %s\n", base+uint32(off), w, DecodeWord(w)))
	}
	return sb.String()
}
