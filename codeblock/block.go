package codeblock

import (
	"github.com/colorfulnotion/dynarec/common"
	"github.com/colorfulnotion/dynarec/log"
)

type Flags uint16

const (
	FlagHasFPU        Flags = 1 << iota // block touches the x87 stack, TOP delta is tracked
	FlagWasRecompiled                   // native code exists for the block
	FlagNoImmediates                    // self-modifying code seen, immediates are read from memory
	FlagByteMask                        // dirty tracking at byte granularity
	FlagInDirtyList                     // linked on the external dirty list
)

// Block is one guest basic block and the native code produced for it.
type Block struct {
	PC   uint32
	CS   uint32
	Phys uint32

	Flags Flags
	// TOP is the x87 stack top assumed at block entry.
	TOP int8
	// Ins is the number of guest instructions translated.
	Ins int
	// Generation increases every time the pool slot is recycled.
	Generation uint32

	Head  *Page
	nr    int
	valid bool
}

func (b *Block) Nr() int          { return b.nr }
func (b *Block) Valid() bool      { return b.valid }
func (b *Block) Has(f Flags) bool { return b.Flags&f != 0 }

// Pages returns the number of code pages the block spans.
func (b *Block) Pages() int {
	n := 0
	for p := b.Head; p != nil; p = p.Next {
		n++
	}
	return n
}

// Code returns the emitted bytes of every page of the block in chain order.
func (b *Block) Code() [][]byte {
	var out [][]byte
	for p := b.Head; p != nil; p = p.Next {
		out = append(out, p.Data[:p.Used])
	}
	return out
}

// Size is the total number of emitted bytes, page-link jumps included.
func (b *Block) Size() int {
	n := 0
	for p := b.Head; p != nil; p = p.Next {
		n += p.Used
	}
	return n
}

// Hash is the content hash of the block's native code.
func (b *Block) Hash() string {
	return common.CodeHashString(b.Code()...)
}

// Entry is the host address execution starts at.
func (b *Block) Entry() uint32 {
	if b.Head == nil {
		return 0
	}
	return b.Head.Base
}

// Pool is the fixed table of code blocks indexed by a hash of the guest PC.
type Pool struct {
	blocks []Block
	mask   uint32
	arena  *Arena
}

func NewPool(size int, arena *Arena) *Pool {
	p := &Pool{
		blocks: make([]Block, size),
		mask:   uint32(size - 1),
		arena:  arena,
	}
	for i := range p.blocks {
		p.blocks[i].nr = i
	}
	return p
}

func (p *Pool) Hash(pc uint32) uint32 { return pc & p.mask }

func (p *Pool) Arena() *Arena { return p.arena }

// Lookup returns the valid block for (pc, cs), or nil.
func (p *Pool) Lookup(pc, cs uint32) *Block {
	b := &p.blocks[p.Hash(pc)]
	if b.valid && b.PC == pc && b.CS == cs {
		return b
	}
	return nil
}

// Get returns the slot for (pc, cs). A slot holding another block is recycled:
// its pages go back to the arena and its generation advances.
func (p *Pool) Get(pc, cs uint32) *Block {
	b := &p.blocks[p.Hash(pc)]
	if b.valid && b.PC == pc && b.CS == cs {
		return b
	}
	if b.valid {
		log.Trace(log.AllocatorMonitoring, "recycle block", "old_pc", b.PC, "pc", pc, "nr", b.nr)
	}
	p.release(b)
	b.PC = pc
	b.CS = cs
	b.valid = true
	return b
}

// Invalidate drops a single block.
func (p *Pool) Invalidate(b *Block) {
	p.release(b)
}

// InvalidateAll drops every block, as on a guest-wide flush.
func (p *Pool) InvalidateAll() {
	for i := range p.blocks {
		if p.blocks[i].valid {
			p.release(&p.blocks[i])
		}
	}
}

func (p *Pool) release(b *Block) {
	if b.Head != nil {
		p.arena.Free(b.Head)
	}
	gen := b.Generation
	nr := b.nr
	*b = Block{nr: nr, Generation: gen + 1}
}

// EvictOne releases the valid block with the most pages, other than block
// keep. It is suitable as an Arena.Evict hook for tools; emulators plug in
// their own policy.
func (p *Pool) EvictOne(keep int) bool {
	var victim *Block
	most := 0
	for i := range p.blocks {
		b := &p.blocks[i]
		if b.nr != keep && b.valid && b.Head != nil {
			if n := b.Pages(); n > most {
				most, victim = n, b
			}
		}
	}
	if victim == nil {
		return false
	}
	p.release(victim)
	return true
}
