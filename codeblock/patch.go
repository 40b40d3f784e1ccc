package codeblock

import "fmt"

// PatchKind names the instruction field a patch site rewrites.
type PatchKind uint8

const (
	PatchNone     PatchKind = iota
	PatchBranch24           // A32 B/BL: signed word offset in bits 0..23
)

// PatchSite identifies an emitted branch whose destination is not yet known.
// It stays valid across page growth because it names the page it lives in.
type PatchSite struct {
	Page   *Page
	Offset int
	Kind   PatchKind
	ID     int
}

func (s PatchSite) Valid() bool { return s.Page != nil && s.Kind != PatchNone }

// Addr is the host address of the patched instruction.
func (s PatchSite) Addr() uint32 { return s.Page.Base + uint32(s.Offset) }

func (s PatchSite) String() string {
	if !s.Valid() {
		return "patch(none)"
	}
	return fmt.Sprintf("patch#%d@%#08x", s.ID, s.Addr())
}
