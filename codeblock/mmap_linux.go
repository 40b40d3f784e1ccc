//go:build linux

package codeblock

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sys/unix"
)

// NewMmapArena maps an executable region for real code. The region must sit
// below 4GiB because emitted code addresses it with 32-bit literals.
func NewMmapArena(pageSize, nPages int) (*Arena, error) {
	mem, err := unix.Mmap(-1, 0, pageSize*nPages,
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap code arena: %w", err)
	}
	addr := uintptr(unsafe.Pointer(&mem[0]))
	if uint64(addr)+uint64(len(mem)) > math.MaxUint32 {
		unix.Munmap(mem)
		return nil, fmt.Errorf("mmap code arena: address %#x is not 32-bit", addr)
	}
	return newArena(mem, pageSize, uint32(addr), func() error { return unix.Munmap(mem) }), nil
}
