//go:build !(linux && arm)

package codeblock

func flushICache(code []byte) {}
