//go:build linux && arm

package codeblock

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// __ARM_NR_cacheflush
const sysCacheFlush = 0xf0002

func flushICache(code []byte) {
	start := uintptr(unsafe.Pointer(&code[0]))
	unix.Syscall(sysCacheFlush, start, start+uintptr(len(code)), 0)
}
