package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/colorfulnotion/dynarec/codeblock"
)

// Size is the width or kind of a register operand.
type Size uint8

const (
	SizeNone Size = iota
	SizeL         // 32-bit
	SizeW         // low 16 bits
	SizeB         // low 8 bits
	SizeBH        // bits 8..15
	SizeD         // 64-bit double in a VFP register
	SizeQ         // 64-bit integer vector in a D register
)

var sizePrefix = [...]string{SizeNone: "", SizeL: "L", SizeW: "W", SizeB: "B", SizeBH: "BH", SizeD: "D", SizeQ: "Q"}

// Reg packs a host register index and an operand size: size<<8 | index.
type Reg uint16

const RegNone Reg = 0

func mk(s Size, r int) Reg { return Reg(uint16(s)<<8 | uint16(r&0xff)) }

func L(r int) Reg  { return mk(SizeL, r) }
func W(r int) Reg  { return mk(SizeW, r) }
func B(r int) Reg  { return mk(SizeB, r) }
func BH(r int) Reg { return mk(SizeBH, r) }
func D(r int) Reg  { return mk(SizeD, r) }
func Q(r int) Reg  { return mk(SizeQ, r) }

func (r Reg) Host() int   { return int(r & 0xff) }
func (r Reg) Size() Size  { return Size(r >> 8) }
func (r Reg) IsL() bool   { return r.Size() == SizeL }
func (r Reg) IsW() bool   { return r.Size() == SizeW }
func (r Reg) IsB() bool   { return r.Size() == SizeB }
func (r Reg) IsBH() bool  { return r.Size() == SizeBH }
func (r Reg) IsD() bool   { return r.Size() == SizeD }
func (r Reg) IsQ() bool   { return r.Size() == SizeQ }
func (r Reg) Valid() bool { return r.Size() != SizeNone && r.Size() <= SizeQ }

func (r Reg) String() string {
	if !r.Valid() {
		return "-"
	}
	return sizePrefix[r.Size()] + strconv.Itoa(r.Host())
}

// ParseReg parses the textual form produced by Reg.String ("L4", "BH5", "D8").
func ParseReg(s string) (Reg, error) {
	if s == "" || s == "-" {
		return RegNone, nil
	}
	for _, sz := range []Size{SizeBH, SizeL, SizeW, SizeB, SizeD, SizeQ} {
		p := sizePrefix[sz]
		if !strings.HasPrefix(s, p) {
			continue
		}
		n, err := strconv.Atoi(s[len(p):])
		if err != nil || n < 0 || n > 31 {
			return RegNone, fmt.Errorf("bad register %q", s)
		}
		return mk(sz, n), nil
	}
	return RegNone, fmt.Errorf("bad register %q", s)
}

// Uop is one micro-operation of a translated block.
type Uop struct {
	Op   Op
	Dest Reg
	Src  [3]Reg
	Imm  uint32
	// P is a host address: call target, literal address or absolute branch target.
	P uint32
	// Target is the index of the uop a deferred branch lands on; len(block) is the block end.
	Target int
	// Patch is written by the lowering of deferred branches.
	Patch codeblock.PatchSite
}

func (u *Uop) String() string {
	var b strings.Builder
	b.WriteString(u.Op.String())
	if u.Dest.Valid() {
		fmt.Fprintf(&b, " %s", u.Dest)
	}
	for _, s := range u.Src {
		if s.Valid() {
			fmt.Fprintf(&b, " %s", s)
		}
	}
	if u.Imm != 0 {
		fmt.Fprintf(&b, " #%#x", u.Imm)
	}
	if u.P != 0 {
		fmt.Fprintf(&b, " @%#08x", u.P)
	}
	if u.Op.HasDeferredTarget() {
		fmt.Fprintf(&b, " ->%d", u.Target)
	}
	return b.String()
}

// New builds a uop from a dest and up to three sources.
func New(op Op, dest Reg, src ...Reg) Uop {
	u := Uop{Op: op, Dest: dest}
	copy(u.Src[:], src)
	return u
}

// NewImm builds a uop with an immediate.
func NewImm(op Op, dest Reg, imm uint32, src ...Reg) Uop {
	u := New(op, dest, src...)
	u.Imm = imm
	return u
}

// NewBranch builds a deferred branch uop landing on uop index target.
func NewBranch(op Op, target int, imm uint32, src ...Reg) Uop {
	u := New(op, RegNone, src...)
	u.Imm = imm
	u.Target = target
	return u
}

// NewCall builds a uop referencing a host address.
func NewCall(op Op, p uint32, imm uint32, src ...Reg) Uop {
	u := New(op, RegNone, src...)
	u.P = p
	u.Imm = imm
	return u
}
