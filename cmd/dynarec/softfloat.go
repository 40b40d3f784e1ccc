package main

import (
	"fmt"

	"github.com/colorfulnotion/dynarec/softfloat"
	"github.com/spf13/cobra"
)

type fpFlags struct {
	round     string
	precision int
	daz, ftz  bool
}

func (f *fpFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.round, "round", "nearest", "rounding mode (nearest, down, up, zero)")
	fl.IntVar(&f.precision, "precision", 80, "x87 rounding precision for x80 operations (32, 64, 80)")
	fl.BoolVar(&f.daz, "daz", false, "treat denormal inputs as zero")
	fl.BoolVar(&f.ftz, "ftz", false, "flush underflowing results to zero")
}

func (f *fpFlags) status(nanMode string) (*softfloat.Status, error) {
	mode, err := softfloat.ParseRoundingMode(f.round)
	if err != nil {
		return nil, err
	}
	nan, err := softfloat.ParseNaNMode(nanMode)
	if err != nil {
		return nil, err
	}
	switch f.precision {
	case 32, 64, 80:
	default:
		return nil, fmt.Errorf("precision must be 32, 64 or 80, not %d", f.precision)
	}
	st := softfloat.NewStatus()
	st.RoundingMode = mode
	st.RoundingPrecision = f.precision
	st.DenormalsAreZeros = f.daz
	st.FlushUnderflowToZero = f.ftz
	st.NaNMode = nan
	return st, nil
}

func newSoftfloatCmd(o *options) *cobra.Command {
	var (
		ff   fpFlags
		list bool
	)
	cmd := &cobra.Command{
		Use:   "softfloat [format] <op> <operand>...",
		Short: "Evaluate one softfloat operation and print the result and raised flags",
		Example: `  dynarec softfloat f64 add 0.1 0.2
  dynarec softfloat x80_sqrt 2 --round up
  dynarec softfloat f32_to_i32 0x4f000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list || len(args) == 0 {
				for _, name := range softfloat.Ops() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			st, err := ff.status(o.cfg.NaNMode)
			if err != nil {
				return err
			}
			res, err := evalOp(st, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s flags=%s\n", res, st.Flags)
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "list the available operations")
	return cmd
}

// evalOp runs "<op> a [b [c]]" or "<format> <op> a [b [c]]" under st and
// formats the result.
func evalOp(st *softfloat.Status, args []string) (string, error) {
	name, rest := args[0], args[1:]
	if softfloat.Width(name) > 0 && len(rest) > 0 {
		name, rest = name+"_"+rest[0], rest[1:]
	}
	op, ok := softfloat.Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown operation %q", name)
	}
	vals := make([]softfloat.Value, len(rest))
	for i, s := range rest {
		v, err := softfloat.ParseValue(op.In, s)
		if err != nil {
			return "", fmt.Errorf("operand %d: %w", i+1, err)
		}
		vals[i] = v
	}
	r, err := op.Apply(st, vals...)
	if err != nil {
		return "", err
	}
	s := op.Format(r)
	if op.Result == softfloat.ResultFloat {
		s += fmt.Sprintf(" (%g)", softfloat.Float64Of(op.Out, r))
	}
	return s, nil
}
