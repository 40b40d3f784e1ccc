//go:build !linux

package codeblock

import "errors"

func NewMmapArena(pageSize, nPages int) (*Arena, error) {
	return nil, errors.New("mmap code arena: unsupported platform")
}
