package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	log "github.com/colorfulnotion/dynarec/log"
	"github.com/colorfulnotion/dynarec/softfloat"
	"github.com/dop251/goja"
	"github.com/spf13/cobra"
)

func newConsoleCmd(o *options) *cobra.Command {
	var ff fpFlags
	cmd := &cobra.Command{
		Use:   "console",
		Short: "JavaScript console with the softfloat engine bound",
		Long: `Starts a JavaScript prompt. Bound functions:
  sf(op, a, b...)  evaluate a softfloat op, e.g. sf("f64_add", "0.1", "0.2")
  flags()          sticky exception flags
  clear()          reset the flags
  round(mode)      set the rounding mode (nearest, down, up, zero)
  ops()            list operation names
Type 'exit' to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ff.status(o.cfg.NaNMode)
			if err != nil {
				return err
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "sf> ",
				HistoryFile: filepath.Join(os.TempDir(), "dynarec_console_history.txt"),
			})
			if err != nil {
				return fmt.Errorf("readline: %w", err)
			}
			defer rl.Close()

			out := cmd.OutOrStdout()
			vm := newConsoleVM(st, out)
			for {
				line, err := rl.Readline()
				if err != nil {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "exit" {
					return nil
				}
				if line == "" {
					continue
				}
				fmt.Fprintln(out, evalLine(vm, line))
			}
		},
	}
	ff.register(cmd)
	return cmd
}

// newConsoleVM returns a JavaScript runtime whose softfloat bindings share st.
func newConsoleVM(st *softfloat.Status, out io.Writer) *goja.Runtime {
	vm := goja.New()
	vm.Set("sf", func(name string, operands ...string) string {
		res, err := evalOp(st, append([]string{name}, operands...))
		if err != nil {
			panic(vm.NewGoError(err))
		}
		log.Debug(log.ConsoleMonitoring, "sf", "op", name, "result", res, "flags", st.Flags)
		return res
	})
	vm.Set("flags", func() string { return st.Flags.String() })
	vm.Set("clear", func() { st.Flags = 0 })
	vm.Set("round", func(mode string) string {
		m, err := softfloat.ParseRoundingMode(mode)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		st.RoundingMode = m
		return m.String()
	})
	vm.Set("ops", softfloat.Ops)
	vm.Set("print", func(args ...goja.Value) {
		for _, arg := range args {
			fmt.Fprintln(out, arg.Export())
		}
	})
	return vm
}

func evalLine(vm *goja.Runtime, line string) string {
	v, err := vm.RunString(line)
	if err != nil {
		return "error: " + err.Error()
	}
	if v == nil || goja.IsUndefined(v) {
		return ""
	}
	return v.String()
}
