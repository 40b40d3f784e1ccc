package codeblock

import (
	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/colorfulnotion/dynarec/log"
)

// Page is one fixed-capacity chunk of native code.
type Page struct {
	Index int
	Base  uint32
	Data  []byte
	// Used is the high-water mark of emitted bytes.
	Used int
	// Owner is the pool index of the block the page belongs to, or one of
	// OwnerFree and OwnerShared.
	Owner int
	Next  *Page
}

func (p *Page) Capacity() int { return len(p.Data) }

const (
	OwnerFree   = -1
	OwnerShared = -2 // trampolines; never returned by Free
)

// Arena hands out code pages carved from one contiguous region.
type Arena struct {
	pageSize int
	base     uint32
	mem      []byte
	pages    []Page
	free     []int

	// Evict is called when no page is free. It should release at least one
	// block's pages and return true, or return false to give up. The block
	// numbered keep is the one asking for the page and must survive.
	Evict func(keep int) bool

	release func() error
}

// NewArena returns an arena backed by ordinary memory. base is the host
// address the first page is assumed to live at; it is used for branch
// displacements and absolute literals.
func NewArena(pageSize, nPages int, base uint32) *Arena {
	return newArena(make([]byte, pageSize*nPages), pageSize, base, nil)
}

func newArena(mem []byte, pageSize int, base uint32, release func() error) *Arena {
	n := len(mem) / pageSize
	a := &Arena{
		pageSize: pageSize,
		base:     base,
		mem:      mem,
		pages:    make([]Page, n),
		free:     make([]int, 0, n),
		release:  release,
	}
	for i := range a.pages {
		a.pages[i] = Page{
			Index: i,
			Base:  base + uint32(i*pageSize),
			Data:  mem[i*pageSize : (i+1)*pageSize : (i+1)*pageSize],
			Owner: OwnerFree,
		}
	}
	for i := n - 1; i >= 0; i-- {
		a.free = append(a.free, i)
	}
	return a
}

func (a *Arena) PageSize() int { return a.pageSize }
func (a *Arena) Base() uint32  { return a.base }
func (a *Arena) Capacity() int { return len(a.pages) }
func (a *Arena) Used() int     { return len(a.pages) - len(a.free) }

// Allocate takes a free page for block blockNr and links it after prev.
func (a *Arena) Allocate(prev *Page, blockNr int) *Page {
	if len(a.free) == 0 && a.Evict != nil {
		for len(a.free) == 0 && a.Evict(blockNr) {
		}
	}
	if len(a.free) == 0 {
		dynerrors.Fatalf(log.AllocatorMonitoring, dynerrors.ErrGArenaExhausted, "%d pages in use", a.Used())
	}
	idx := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	p := &a.pages[idx]
	p.Owner = blockNr
	p.Used = 0
	p.Next = nil
	if prev != nil {
		prev.Next = p
	}
	log.Trace(log.AllocatorMonitoring, "page allocated", "page", idx, "base", p.Base, "block", blockNr)
	return p
}

// Free returns every page of the chain starting at head.
func (a *Arena) Free(head *Page) {
	for p := head; p != nil; {
		next := p.Next
		if p.Owner >= 0 {
			p.Owner = OwnerFree
			p.Used = 0
			p.Next = nil
			a.free = append(a.free, p.Index)
		}
		p = next
	}
}

// CleanPages makes freshly written code in the chain visible to instruction fetch.
func (a *Arena) CleanPages(head *Page) {
	for p := head; p != nil; p = p.Next {
		if p.Used > 0 {
			flushICache(p.Data[:p.Used])
		}
	}
}

// PageAt returns the page holding host address addr, or nil.
func (a *Arena) PageAt(addr uint32) *Page {
	if addr < a.base {
		return nil
	}
	idx := int((addr - a.base) / uint32(a.pageSize))
	if idx >= len(a.pages) {
		return nil
	}
	return &a.pages[idx]
}

// Close releases the backing memory of mapped arenas.
func (a *Arena) Close() error {
	if a.release == nil {
		return nil
	}
	err := a.release()
	a.release = nil
	return err
}
