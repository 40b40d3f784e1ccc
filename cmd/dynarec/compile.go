package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colorfulnotion/dynarec/codeblock"
	"github.com/colorfulnotion/dynarec/codegen"
	"github.com/colorfulnotion/dynarec/codegen/arm"
	"github.com/colorfulnotion/dynarec/config"
	"github.com/colorfulnotion/dynarec/ir"
)

// codeSpan is the byte range of a block's native code produced by one
// backend call.
type codeSpan struct {
	label    string
	from, to int
}

// spanBackend records the span of every prologue, uop and epilogue.
type spanBackend struct {
	*arm.Backend
	n     int
	spans []codeSpan
}

func (s *spanBackend) Prologue(b *codeblock.Block) {
	s.Backend.Prologue(b)
	s.n = 0
	s.spans = append(s.spans[:0], codeSpan{"prologue", 0, s.Emitted()})
}

func (s *spanBackend) Lower(u *ir.Uop) {
	from := s.Emitted()
	s.Backend.Lower(u)
	s.spans = append(s.spans, codeSpan{fmt.Sprintf("[%d] %s", s.n, u), from, s.Emitted()})
	s.n++
}

func (s *spanBackend) Epilogue(b *codeblock.Block) {
	from := s.Emitted()
	s.Backend.Epilogue(b)
	s.spans = append(s.spans, codeSpan{"epilogue", from, s.Emitted()})
}

// compiler owns a heap arena at the profile's code base. Nothing it emits is
// executed; addresses only matter for branch encodings and disassembly.
type compiler struct {
	arena *codeblock.Arena
	pool  *codeblock.Pool
	be    *spanBackend
	stats codegen.Stats
}

func newCompiler(cfg *config.Config) (*compiler, error) {
	syms, err := arm.SymbolsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	arena := codeblock.NewArena(cfg.CodePageSize, cfg.CodePages, uint32(cfg.CodeBase))
	be, err := arm.NewBackend(cfg, arena, syms)
	if err != nil {
		return nil, err
	}
	pool := codeblock.NewPool(cfg.PoolSize, arena)
	arena.Evict = pool.EvictOne
	return &compiler{arena: arena, pool: pool, be: &spanBackend{Backend: be}}, nil
}

// compile builds l into a pool block. A top of 0..7 compiles an x87 block
// entered with that stack top.
func (c *compiler) compile(l *ir.Listing, top int) (*codeblock.Block, []codeSpan, error) {
	blk := c.pool.Get(l.PC, 0)
	if top >= 0 {
		if top > 7 {
			return nil, nil, fmt.Errorf("fpu top %d out of range", top)
		}
		blk.Flags |= codeblock.FlagHasFPU
		blk.TOP = int8(top)
	}
	if err := codegen.CompileBlock(c.be, blk, l.Uops, &c.stats); err != nil {
		c.pool.Invalidate(blk)
		return nil, nil, fmt.Errorf("block %#x: %w", l.PC, err)
	}
	return blk, append([]codeSpan(nil), c.be.spans...), nil
}

// disassemble lists the instructions in byte range [from, to) of blk,
// following the page chain.
func disassemble(blk *codeblock.Block, from, to int) []string {
	var lines []string
	off := 0
	for p := blk.Head; p != nil; p = p.Next {
		lo, hi := max(from, off), min(to, off+p.Used)
		if lo < hi {
			out := arm.Disassemble(p.Data[lo-off:hi-off], p.Base+uint32(lo-off))
			lines = append(lines, strings.Split(strings.TrimRight(out, "\n"), "\n")...)
		}
		off += p.Used
	}
	return lines
}

// loadListing reads a JSON uop listing from path, or stdin for "-".
func loadListing(path string, stdin io.Reader) (*ir.Listing, error) {
	if path == "-" {
		return ir.ParseListing(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := ir.ParseListing(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}
