package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// BlockEvent is the structured record written once per compiled block.
type BlockEvent struct {
	Time     time.Time `json:"time"`
	PC       uint32    `json:"pc"`
	Uops     int       `json:"uops"`
	Bytes    int       `json:"bytes"`
	Pages    int       `json:"pages"`
	Elapsed  uint32    `json:"elapsed,omitempty"`
	CodeHash string    `json:"code_hash,omitempty"`
}

var fieldOrder = []string{"time", "pc", "uops", "bytes", "pages", "elapsed", "code_hash"}

// MarshalJSON keeps field order stable and omits zero optional values.
func (e BlockEvent) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	writeField := func(key string, val []byte) {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(buf, `"%s":`, key)
		buf.Write(val)
	}
	for _, f := range fieldOrder {
		switch f {
		case "time":
			b, _ := json.Marshal(e.Time)
			writeField(f, b)
		case "pc":
			b, _ := json.Marshal(fmt.Sprintf("0x%08x", e.PC))
			writeField(f, b)
		case "uops":
			writeField(f, []byte(fmt.Sprint(e.Uops)))
		case "bytes":
			writeField(f, []byte(fmt.Sprint(e.Bytes)))
		case "pages":
			writeField(f, []byte(fmt.Sprint(e.Pages)))
		case "elapsed":
			if e.Elapsed != 0 {
				writeField(f, []byte(fmt.Sprint(e.Elapsed)))
			}
		case "code_hash":
			if e.CodeHash != "" {
				b, _ := json.Marshal(e.CodeHash)
				writeField(f, b)
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Block writes a BlockEvent as a debug record of the codegen module.
func Block(ev BlockEvent) {
	if !isModuleEnabled(CodegenMonitoring) {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		Error(CodegenMonitoring, "Block: failed to marshal event", "err", err)
		return
	}
	Root().Write(LevelDebug, CodegenMonitoring, "block", "event", string(msg))
}
