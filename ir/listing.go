package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/colorfulnotion/dynarec/dynerrors"
)

// Listing is a named uop sequence in the JSON form read by tools:
//
//	{"pc": "0x1000", "uops": [{"op": "ADD", "dest": "L4", "src": ["L5", "L6"]}]}
type Listing struct {
	PC   uint32
	Uops []Uop
}

type jsonUop struct {
	Op     string   `json:"op"`
	Dest   string   `json:"dest,omitempty"`
	Src    []string `json:"src,omitempty"`
	Imm    string   `json:"imm,omitempty"`
	P      string   `json:"p,omitempty"`
	Target *int     `json:"target,omitempty"`
}

type jsonListing struct {
	PC   string    `json:"pc"`
	Uops []jsonUop `json:"uops"`
}

func parseNum(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil && v < 0 && v >= -(1<<31) {
		return uint32(int32(v)), nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	return uint32(v), err
}

// ParseListing reads and validates a JSON uop listing.
func ParseListing(r io.Reader) (*Listing, error) {
	var raw jsonListing
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", dynerrors.ErrLBadListing, err)
	}
	pc, err := parseNum(raw.PC)
	if err != nil {
		return nil, fmt.Errorf("%w: pc %q", dynerrors.ErrLBadListing, raw.PC)
	}
	l := &Listing{PC: pc, Uops: make([]Uop, 0, len(raw.Uops))}
	for i, ju := range raw.Uops {
		u, err := ju.uop()
		if err != nil {
			return nil, fmt.Errorf("uop %d: %w", i, err)
		}
		l.Uops = append(l.Uops, u)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (ju jsonUop) uop() (Uop, error) {
	var u Uop
	op, ok := ParseOp(ju.Op)
	if !ok {
		return u, fmt.Errorf("%w: %q", dynerrors.ErrLUnknownOp, ju.Op)
	}
	u.Op = op
	var err error
	if u.Dest, err = ParseReg(ju.Dest); err != nil {
		return u, fmt.Errorf("%w: %v", dynerrors.ErrLBadOperand, err)
	}
	if len(ju.Src) > len(u.Src) {
		return u, fmt.Errorf("%w: %d sources", dynerrors.ErrLBadOperand, len(ju.Src))
	}
	for i, s := range ju.Src {
		if u.Src[i], err = ParseReg(s); err != nil {
			return u, fmt.Errorf("%w: %v", dynerrors.ErrLBadOperand, err)
		}
	}
	if u.Imm, err = parseNum(ju.Imm); err != nil {
		return u, fmt.Errorf("%w: imm %q", dynerrors.ErrLBadOperand, ju.Imm)
	}
	if u.P, err = parseNum(ju.P); err != nil {
		return u, fmt.Errorf("%w: p %q", dynerrors.ErrLBadOperand, ju.P)
	}
	if op.HasDeferredTarget() {
		if ju.Target == nil {
			return u, dynerrors.ErrLMissingDest
		}
		u.Target = *ju.Target
	}
	return u, nil
}

// Validate checks that every deferred branch lands on a later uop or the block end.
func (l *Listing) Validate() error {
	for i := range l.Uops {
		u := &l.Uops[i]
		if !u.Op.HasDeferredTarget() {
			continue
		}
		if u.Target <= i || u.Target > len(l.Uops) {
			return fmt.Errorf("%w: uop %d (%s) -> %d", dynerrors.ErrLBadTarget, i, u.Op, u.Target)
		}
	}
	return nil
}

// MarshalJSON writes the listing in the form ParseListing reads.
func (l *Listing) MarshalJSON() ([]byte, error) {
	raw := jsonListing{PC: fmt.Sprintf("0x%x", l.PC)}
	for i := range l.Uops {
		u := &l.Uops[i]
		ju := jsonUop{Op: u.Op.String()}
		if u.Dest.Valid() {
			ju.Dest = u.Dest.String()
		}
		n := 0
		for j, s := range u.Src {
			if s.Valid() {
				n = j + 1
			}
		}
		for _, s := range u.Src[:n] {
			ju.Src = append(ju.Src, s.String())
		}
		if u.Imm != 0 {
			ju.Imm = fmt.Sprintf("0x%x", u.Imm)
		}
		if u.P != 0 {
			ju.P = fmt.Sprintf("0x%x", u.P)
		}
		if u.Op.HasDeferredTarget() {
			t := u.Target
			ju.Target = &t
		}
		raw.Uops = append(raw.Uops, ju)
	}
	return json.Marshal(raw)
}
