// Package codegen drives a host backend over the uops of one block.
package codegen

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/colorfulnotion/dynarec/codeblock"
	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/colorfulnotion/dynarec/ir"
	"github.com/colorfulnotion/dynarec/log"
)

// Backend turns uops into native code for one host architecture. Calls for a
// block are Prologue, Lower for each uop, Epilogue; SetJumpDest may be called
// between any two of them.
type Backend interface {
	Prologue(b *codeblock.Block)
	Lower(u *ir.Uop)
	SetJumpDest(site codeblock.PatchSite)
	Epilogue(b *codeblock.Block)
	// Emitted is the number of bytes written for the current block.
	Emitted() int
}

// Stats accumulates emitted bytes per uop kind across compiled blocks.
type Stats struct {
	Blocks int
	Uops   int
	Bytes  int
	Count  [ir.NumOps]int
	Size   [ir.NumOps]int
}

func (s *Stats) add(op ir.Op, n int) {
	s.Uops++
	s.Count[op]++
	s.Size[op] += n
}

// OpStat is one row of Stats.Rows.
type OpStat struct {
	Op    ir.Op
	Count int
	Bytes int
}

// Rows returns the uop kinds seen, most bytes first.
func (s *Stats) Rows() []OpStat {
	var rows []OpStat
	for op := ir.Op(0); op < ir.NumOps; op++ {
		if s.Count[op] > 0 {
			rows = append(rows, OpStat{op, s.Count[op], s.Size[op]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Bytes > rows[j].Bytes })
	return rows
}

func (s *Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "blocks=%d uops=%d bytes=%d\n", s.Blocks, s.Uops, s.Bytes)
	for _, r := range s.Rows() {
		fmt.Fprintf(&sb, "%-22s %6d %8d\n", r.Op, r.Count, r.Bytes)
	}
	return sb.String()
}

// CheckTargets verifies that every deferred branch lands on a later uop or on
// the block end.
func CheckTargets(uops []ir.Uop) error {
	for i := range uops {
		if !uops[i].Op.HasDeferredTarget() {
			continue
		}
		if t := uops[i].Target; t <= i || t > len(uops) {
			return fmt.Errorf("%w: uop %d (%s) -> %d", dynerrors.ErrLBadTarget, i, uops[i].Op, t)
		}
	}
	return nil
}

// CompileBlock lowers uops into b. Deferred branches are resolved when the
// cursor reaches the uop they target, those aimed at the block end just before
// the epilogue. Backend contract violations are returned as
// *dynerrors.FatalError. st may be nil.
func CompileBlock(be Backend, b *codeblock.Block, uops []ir.Uop, st *Stats) (err error) {
	if err := CheckTargets(uops); err != nil {
		return err
	}
	defer dynerrors.Recover(&err)

	start := time.Now()
	waiting := make(map[int][]int)
	be.Prologue(b)
	for i := range uops {
		for _, j := range waiting[i] {
			be.SetJumpDest(uops[j].Patch)
		}
		delete(waiting, i)

		before := be.Emitted()
		be.Lower(&uops[i])
		if st != nil {
			st.add(uops[i].Op, be.Emitted()-before)
		}
		if uops[i].Op.HasDeferredTarget() {
			t := uops[i].Target
			waiting[t] = append(waiting[t], i)
		}
	}
	for _, j := range waiting[len(uops)] {
		be.SetJumpDest(uops[j].Patch)
	}
	be.Epilogue(b)

	if st != nil {
		st.Blocks++
		st.Bytes += be.Emitted()
	}
	log.Block(log.BlockEvent{
		PC:       b.PC,
		Uops:     len(uops),
		Bytes:    be.Emitted(),
		Pages:    b.Pages(),
		Elapsed:  uint32(time.Since(start).Microseconds()),
		CodeHash: b.Hash(),
	})
	return nil
}
