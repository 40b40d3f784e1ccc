package arm

import (
	"encoding/binary"

	"github.com/colorfulnotion/dynarec/codeblock"
	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/colorfulnotion/dynarec/log"
)

// Emitter is the write cursor into a chain of code pages. It is owned by the
// one compilation in flight; nothing else writes to its pages.
type Emitter struct {
	arena   *codeblock.Arena
	page    *codeblock.Page
	pos     int
	blockNr int

	emitted       int
	nextPatchID   int
	pending       map[int]codeblock.PatchSite
	assertPatches bool
}

// NewEmitter starts writing at offset 0 of page. Further pages are taken from
// arena on behalf of blockNr.
func NewEmitter(arena *codeblock.Arena, page *codeblock.Page, blockNr int, assertPatches bool) *Emitter {
	return &Emitter{
		arena:         arena,
		page:          page,
		blockNr:       blockNr,
		pending:       make(map[int]codeblock.PatchSite),
		assertPatches: assertPatches,
	}
}

// Addr is the host address the next word will be written to.
func (e *Emitter) Addr() uint32 {
	e.active()
	return e.page.Base + uint32(e.pos)
}

// Page is the page currently written to.
func (e *Emitter) Page() *codeblock.Page { return e.page }

// Emitted is the number of bytes written so far, page links included.
func (e *Emitter) Emitted() int { return e.emitted }

func (e *Emitter) active() {
	if e.page == nil {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGNoActivePage, "emit after finish")
	}
}

// Alloc guarantees that n bytes can be written contiguously. When the page
// would run into its reserved tail a new page is linked in with
// LDR PC, [PC, #-4] followed by the new page's address.
func (e *Emitter) Alloc(n int) {
	e.active()
	if e.pos+n < e.page.Capacity()-JMP_LEN_BYTES {
		return
	}
	next := e.arena.Allocate(e.page, e.blockNr)
	log.Trace(log.AllocatorMonitoring, "code page link", "from", e.page.Base+uint32(e.pos), "to", next.Base, "block", e.blockNr)
	e.put(LDR_PC_LITERAL)
	e.put(next.Base)
	e.page = next
	e.pos = 0
}

// AddLong writes one word at the cursor. Space must already be allocated.
func (e *Emitter) AddLong(w uint32) {
	e.active()
	e.put(w)
}

func (e *Emitter) put(w uint32) {
	binary.LittleEndian.PutUint32(e.page.Data[e.pos:], w)
	e.pos += 4
	e.emitted += 4
	if e.pos > e.page.Used {
		e.page.Used = e.pos
	}
}

func (e *Emitter) emit(w uint32) {
	e.Alloc(4)
	e.put(w)
}

// slot is a word emitted now and filled in later within the same sequence.
type slot struct {
	page *codeblock.Page
	off  int
}

func (e *Emitter) reserve() slot {
	s := slot{e.page, e.pos}
	e.put(0)
	return s
}

func (s slot) set(w uint32) {
	binary.LittleEndian.PutUint32(s.page.Data[s.off:], w)
}

func (s slot) addr() uint32 { return s.page.Base + uint32(s.off) }

// Finish ends emission. With patch assertions enabled, every forward branch
// handed out must have been resolved by now.
func (e *Emitter) Finish() {
	if e.assertPatches && len(e.pending) > 0 {
		for _, s := range e.pending {
			dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGUnresolvedPatch, "%d unresolved, first seen %s", len(e.pending), s)
		}
	}
	e.page = nil
	e.pos = 0
}

// Pending is the number of forward branches not yet resolved.
func (e *Emitter) Pending() int { return len(e.pending) }

// BForward emits a conditional branch with an empty offset and returns the
// site to resolve once the destination is known.
func (e *Emitter) BForward(cond Cond) codeblock.PatchSite {
	e.Alloc(4)
	e.nextPatchID++
	site := codeblock.PatchSite{Page: e.page, Offset: e.pos, Kind: codeblock.PatchBranch24, ID: e.nextPatchID}
	e.pending[site.ID] = site
	e.put(uint32(cond) | OPCODE_B)
	return site
}

// Resolve points the branch at site to target. Each site resolves exactly once.
func (e *Emitter) Resolve(site codeblock.PatchSite, target uint32) {
	if !site.Valid() {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGPatchResolved, "invalid patch site")
	}
	if _, ok := e.pending[site.ID]; !ok {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGPatchResolved, "%s", site)
	}
	disp := int64(target) - int64(site.Addr()) - 8
	if !InBranchRange(disp) {
		dynerrors.Fatalf(log.CodegenMonitoring, dynerrors.ErrGRangeExceeded, "%s to %#08x", site, target)
	}
	w := binary.LittleEndian.Uint32(site.Page.Data[site.Offset:])
	w = w&0xff000000 | uint32(disp>>2)&0x00ffffff
	binary.LittleEndian.PutUint32(site.Page.Data[site.Offset:], w)
	delete(e.pending, site.ID)
}

// SetJumpDest resolves site to the current cursor.
func (e *Emitter) SetJumpDest(site codeblock.PatchSite) {
	e.Resolve(site, e.Addr())
}
