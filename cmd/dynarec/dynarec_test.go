package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colorfulnotion/dynarec/softfloat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listing = `{
  "pc": "0x1000",
  "uops": [
    {"op": "MOV_IMM", "dest": "L4", "imm": "0x10"},
    {"op": "CMP_IMM_JZ_DEST", "src": ["L4"], "target": 3},
    {"op": "ADD", "dest": "L4", "src": ["L4", "L5"]}
  ]
}`

func writeListing(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "block.json")
	require.NoError(t, os.WriteFile(path, []byte(listing), 0o644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDump(t *testing.T) {
	out, err := run(t, "", "dump", writeListing(t))
	require.NoError(t, err)
	assert.Contains(t, out, "block pc=0x1000")
	assert.Contains(t, out, "hash=0x")
	assert.Contains(t, out, "prologue")
	assert.Contains(t, out, "[0] MOV_IMM L4 #0x10")
	assert.Contains(t, out, "mov r4, #16")
	assert.Contains(t, out, "[1] CMP_IMM_JZ_DEST L4 ->3")
	assert.Contains(t, out, "add r4, r4, r5")
	assert.Contains(t, out, "epilogue")
	assert.Less(t, strings.Index(out, "prologue"), strings.Index(out, "[0] MOV_IMM"))
	assert.Less(t, strings.Index(out, "add r4, r4, r5"), strings.Index(out, "epilogue"))
}

func TestDumpStdinAndFPUBlock(t *testing.T) {
	out, err := run(t, listing, "dump", "--fpu-top", "3", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "sub r3, r3, #3")

	_, err = run(t, listing, "dump", "--fpu-top", "9", "-")
	assert.Error(t, err)
}

func TestDumpRejectsBadListing(t *testing.T) {
	_, err := run(t, `{"uops":[{"op":"JMP_DEST","target":0}]}`, "dump", "-")
	assert.Error(t, err)
	_, err = run(t, "", "dump", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	path := writeListing(t)
	html := filepath.Join(t.TempDir(), "stats.html")
	out, err := run(t, "", "stats", path, path, "--html", html)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "blocks=2 uops=6 bytes="), lines[0])
	assert.Contains(t, out, "MOV_IMM")

	page, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(page), "echarts")
	assert.Contains(t, string(page), "CMP_IMM_JZ_DEST")
}

func TestSoftfloatCommand(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"f64", "add", "1.5", "2.25"}, "0x400e000000000000 (3.75) flags=-"},
		{[]string{"f64_div", "1", "0"}, "0x7ff0000000000000 (+Inf) flags=ZE"},
		{[]string{"f64_to_i32", "2.5", "--round", "up"}, "3 flags=PE"},
		{[]string{"f32_cmp", "1", "2"}, "less flags=-"},
	}
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			out, err := run(t, "", append([]string{"softfloat"}, c.args...)...)
			require.NoError(t, err)
			assert.Equal(t, c.want+"\n", out)
		})
	}

	out, err := run(t, "", "softfloat", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "x80_sqrt\n")

	_, err = run(t, "", "softfloat", "f64_frob", "1")
	assert.Error(t, err)
	_, err = run(t, "", "softfloat", "f64_add", "1", "2", "--round", "sideways")
	assert.Error(t, err)
	_, err = run(t, "", "softfloat", "f64_add", "1")
	assert.Error(t, err)
}

func TestConsoleBindings(t *testing.T) {
	var printed bytes.Buffer
	st := softfloat.NewStatus()
	vm := newConsoleVM(st, &printed)

	assert.Equal(t, "0x400e000000000000 (3.75)", evalLine(vm, `sf("f64_add", "1.5", "2.25")`))
	assert.Equal(t, "-", evalLine(vm, `flags()`))
	evalLine(vm, `sf("f32_div", "1", "3")`)
	assert.Equal(t, "PE", evalLine(vm, `flags()`))
	assert.Equal(t, "", evalLine(vm, `clear()`))
	assert.Equal(t, softfloat.Flags(0), st.Flags)

	assert.Equal(t, "down", evalLine(vm, `round("down")`))
	assert.Equal(t, softfloat.RoundDown, st.RoundingMode)
	assert.True(t, strings.HasPrefix(evalLine(vm, `round("sideways")`), "error:"))
	assert.True(t, strings.HasPrefix(evalLine(vm, `sf("nope", "1")`), "error:"))

	assert.Equal(t, "true", evalLine(vm, `ops().indexOf("f64_sqrt") >= 0`))
	evalLine(vm, `print("hi")`)
	assert.Equal(t, "hi\n", printed.String())
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dynarec "), out)
}
