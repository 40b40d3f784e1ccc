package softfloat

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is a raw operand of any format. Formats up to 64 bits live in Lo;
// the extended format keeps sign and exponent in the low 16 bits of Hi.
type Value struct{ Hi, Lo uint64 }

func (v Value) u() u128      { return u128{v.Hi, v.Lo} }
func value(r u128) Value     { return Value{r.hi, r.lo} }
func intValue(v int64) Value { return Value{Lo: uint64(v)} }

// ResultKind says how an Op's result is to be read.
type ResultKind uint8

const (
	ResultFloat ResultKind = iota
	ResultInt
	ResultRelation
)

// Op is a named operation over raw operands, for tools and tests.
type Op struct {
	Name   string
	Arity  int
	In     string // operand format
	Out    string // result format, "" for integer and relation results
	Result ResultKind
	fn     func(st *Status, a []Value) Value
}

// Apply runs the operation.
func (o *Op) Apply(st *Status, args ...Value) (Value, error) {
	if len(args) != o.Arity {
		return Value{}, fmt.Errorf("%s takes %d operands, got %d", o.Name, o.Arity, len(args))
	}
	return o.fn(st, args), nil
}

// Format renders a result of this op.
func (o *Op) Format(v Value) string {
	switch o.Result {
	case ResultInt:
		return strconv.FormatInt(int64(v.Lo), 10)
	case ResultRelation:
		return Relation(int64(v.Lo)).String()
	}
	return FormatValue(o.Out, v)
}

var formats = map[string]*format{
	"f16":  fmt16,
	"f32":  fmt32,
	"f64":  fmt64,
	"x80":  fmtX80,
	"f128": fmt128,
}

var registry = map[string]*Op{}

func register(op *Op) { registry[op.Name] = op }

func init() {
	for name, f := range formats {
		for to, g := range formats {
			if to != name {
				register(&Op{Name: name + "_to_" + to, Arity: 1, In: name, Out: to, fn: func(st *Status, a []Value) Value {
					return value(convert(st, f, g, a[0].u()))
				}})
			}
		}
		if f == fmt16 {
			continue
		}
		binary := func(op string, fn func(st *Status, a, b u128) u128) {
			register(&Op{Name: name + "_" + op, Arity: 2, In: name, Out: name, fn: func(st *Status, a []Value) Value {
				return value(fn(st, a[0].u(), a[1].u()))
			}})
		}
		binary("add", func(st *Status, a, b u128) u128 { return f.add(st, a, b, false) })
		binary("sub", func(st *Status, a, b u128) u128 { return f.add(st, a, b, true) })
		binary("mul", f.mul)
		binary("div", f.div)
		binary("rem", func(st *Status, a, b u128) u128 {
			r, _ := f.rem(st, a, b)
			return r
		})
		register(&Op{Name: name + "_sqrt", Arity: 1, In: name, Out: name, fn: func(st *Status, a []Value) Value {
			return value(f.sqrt(st, a[0].u()))
		}})
		register(&Op{Name: name + "_round", Arity: 1, In: name, Out: name, fn: func(st *Status, a []Value) Value {
			return value(f.roundToInt(st, a[0].u(), st.RoundingMode))
		}})
		register(&Op{Name: name + "_cmp", Arity: 2, In: name, Result: ResultRelation, fn: func(st *Status, a []Value) Value {
			return intValue(int64(f.compare(st, a[0].u(), a[1].u(), true)))
		}})
		register(&Op{Name: name + "_ucmp", Arity: 2, In: name, Result: ResultRelation, fn: func(st *Status, a []Value) Value {
			return intValue(int64(f.compare(st, a[0].u(), a[1].u(), false)))
		}})
		register(&Op{Name: name + "_to_i32", Arity: 1, In: name, Result: ResultInt, fn: func(st *Status, a []Value) Value {
			return intValue(int64(toInt[int32](st, f, a[0].u(), st.RoundingMode)))
		}})
		register(&Op{Name: name + "_to_i64", Arity: 1, In: name, Result: ResultInt, fn: func(st *Status, a []Value) Value {
			return intValue(toInt[int64](st, f, a[0].u(), st.RoundingMode))
		}})
		register(&Op{Name: "i64_to_" + name, Arity: 1, In: "i64", Out: name, fn: func(st *Status, a []Value) Value {
			return value(fromInt(st, f, int64(a[0].Lo)))
		}})
		if f.explicit || f == fmt128 {
			continue
		}
		binary("min", func(st *Status, a, b u128) u128 { return f.minMax(st, a, b, false) })
		binary("max", func(st *Status, a, b u128) u128 { return f.minMax(st, a, b, true) })
		register(&Op{Name: name + "_muladd", Arity: 3, In: name, Out: name, fn: func(st *Status, a []Value) Value {
			return value(f.fma(st, a[0].u(), a[1].u(), a[2].u(), 0))
		}})
	}
}

// Lookup finds an operation such as "f32_add" or "x80_to_f64".
func Lookup(name string) (*Op, bool) {
	op, ok := registry[strings.ToLower(name)]
	return op, ok
}

// Ops lists the registered operation names, sorted.
func Ops() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FormatValue prints v as a hex pattern of the given format's width.
func FormatValue(format string, v Value) string {
	switch format {
	case "f16":
		return fmt.Sprintf("0x%04x", v.Lo)
	case "f32":
		return fmt.Sprintf("0x%08x", v.Lo)
	case "f64":
		return fmt.Sprintf("0x%016x", v.Lo)
	case "x80":
		return fmt.Sprintf("0x%04x%016x", v.Hi&0xffff, v.Lo)
	case "f128":
		return fmt.Sprintf("0x%016x%016x", v.Hi, v.Lo)
	}
	return fmt.Sprintf("%#x", v.Lo)
}

// ParseValue reads a hex bit pattern of up to 32 digits, a signed decimal
// integer for "i64", or a decimal real converted to format under
// round-to-nearest.
func ParseValue(format, s string) (Value, error) {
	s = strings.ReplaceAll(s, "_", "")
	if h, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		if len(h) == 0 || len(h) > 32 {
			return Value{}, fmt.Errorf("bad hex operand %q", s)
		}
		var v Value
		if len(h) > 16 {
			hi, err := strconv.ParseUint(h[:len(h)-16], 16, 64)
			if err != nil {
				return Value{}, err
			}
			v.Hi, h = hi, h[len(h)-16:]
		}
		lo, err := strconv.ParseUint(h, 16, 64)
		if err != nil {
			return Value{}, err
		}
		v.Lo = lo
		return v, nil
	}
	if format == "i64" {
		n, err := strconv.ParseInt(s, 10, 64)
		return intValue(n), err
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, err
	}
	f, ok := formats[format]
	if !ok {
		return Value{}, fmt.Errorf("unknown format %q", format)
	}
	return value(convert(NewStatus(), fmt64, f, u128{lo: math.Float64bits(x)})), nil
}

// Float64Of decodes v as a host float64 for display. Wider formats are
// rounded to nearest.
func Float64Of(format string, v Value) float64 {
	f, ok := formats[format]
	if !ok {
		return math.NaN()
	}
	return math.Float64frombits(convert(NewStatus(), f, fmt64, v.u()).lo)
}

// Width is the bit width of a format name, 0 if unknown.
func Width(format string) int {
	f, ok := formats[format]
	if !ok {
		return 0
	}
	if f.explicit {
		return 80
	}
	return int(1 + f.expBits + f.fracBits)
}
