package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorGreen  = "\x1b[32m"
	colorCyan   = "\x1b[36m"
	colorPurple = "\x1b[35m"
)

// TerminalHandler prints one aligned line per record:
//
//	INFO [10-19|12:00:00.000] compiled block  module=codegen pc=0x1000 bytes=96
type TerminalHandler struct {
	mu       *sync.Mutex
	wr       io.Writer
	lvl      slog.Level
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandlerWithLevel returns a handler that drops records below lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl slog.Level, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		mu:       new(sync.Mutex),
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	buf := appendRecord(nil, r, h.useColor)
	for _, a := range h.attrs {
		buf = appendAttr(buf, a)
	}
	buf = append(buf, '\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf)
	return err
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		mu:       h.mu,
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	panic("not implemented")
}

func levelColor(l slog.Level) string {
	switch {
	case l >= LevelCrit:
		return colorPurple
	case l >= slog.LevelError:
		return colorRed
	case l >= slog.LevelWarn:
		return colorYellow
	case l >= slog.LevelInfo:
		return colorGreen
	default:
		return colorCyan
	}
}

func appendRecord(buf []byte, r slog.Record, useColor bool) []byte {
	lvl := LevelAlignedString(r.Level)
	if useColor {
		lvl = levelColor(r.Level) + lvl + colorReset
	}
	buf = fmt.Appendf(buf, "%s[%s] %-40s", lvl, r.Time.Format("01-02|15:04:05.000"), r.Message)
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, a)
		return true
	})
	return buf
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindUint64:
		if v.Uint64() > 9 {
			return fmt.Appendf(buf, " %s=%#x", a.Key, v.Uint64())
		}
	case slog.KindDuration:
		return fmt.Appendf(buf, " %s=%s", a.Key, v.Duration().Round(time.Microsecond))
	}
	return fmt.Appendf(buf, " %s=%v", a.Key, v.Any())
}

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, r slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, level slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(name string) slog.Handler {
	panic("not implemented")
}

func (h *discardHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &discardHandler{}
}
