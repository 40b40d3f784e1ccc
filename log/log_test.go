package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"trace": LevelTrace, "DEBUG": LevelDebug, "info": LevelInfo,
		"warning": LevelWarn, "error": LevelError, "crit": LevelCrit,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestModuleFiltering(t *testing.T) {
	var buf bytes.Buffer
	prev := Root()
	defer SetDefault(prev)
	SetDefault(NewLogger(NewTerminalHandlerWithLevel(&buf, LevelTrace, false)))

	DisableModule(AllocatorMonitoring)
	Debug(AllocatorMonitoring, "hidden")
	assert.Empty(t, buf.String())

	EnableModules("alloc, tramp")
	defer DisableModule(AllocatorMonitoring)
	defer DisableModule(TrampolineMonitoring)
	Debug(AllocatorMonitoring, "page allocated", "page", uint64(0x1000))
	assert.Contains(t, buf.String(), "page allocated")
	assert.Contains(t, buf.String(), "module=alloc")
	assert.Contains(t, buf.String(), "page=0x1000")

	buf.Reset()
	Warn(SoftfloatMonitoring, "unfiltered")
	assert.Contains(t, buf.String(), "WARN")
}

func TestRecordLogs(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)
	SetDefault(NewLogger(DiscardHandler()))

	RecordLogs()
	Error(CodegenMonitoring, "bad width", "op", "ADD")
	out, err := GetRecordedLogs()
	require.NoError(t, err)
	assert.Contains(t, string(out), "bad width")
	assert.Contains(t, string(out), "op=ADD")
}

func TestBlockEventJSON(t *testing.T) {
	ev := BlockEvent{Time: time.Unix(0, 0).UTC(), PC: 0x1000, Uops: 3, Bytes: 48, Pages: 1}
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Equal(t, `{"time":"1970-01-01T00:00:00Z","pc":"0x00001000","uops":3,"bytes":48,"pages":1}`, string(b))
}
