package softfloat

// Predicate is a VCMPPS/VCMPPD immediate, 0..31.
type Predicate uint8

const (
	EqOrderedQuiet Predicate = iota
	LtOrderedSignaling
	LeOrderedSignaling
	UnorderedQuiet
	NeqUnorderedQuiet
	NltUnorderedSignaling
	NleUnorderedSignaling
	OrderedQuiet
	EqUnorderedQuiet
	NgeUnorderedSignaling
	NgtUnorderedSignaling
	FalseOrderedQuiet
	NeqOrderedQuiet
	GeOrderedSignaling
	GtOrderedSignaling
	TrueUnorderedQuiet
	EqOrderedSignaling
	LtOrderedQuiet
	LeOrderedQuiet
	UnorderedSignaling
	NeqUnorderedSignaling
	NltUnorderedQuiet
	NleUnorderedQuiet
	OrderedSignaling
	EqUnorderedSignaling
	NgeUnorderedQuiet
	NgtUnorderedQuiet
	FalseOrderedSignaling
	NeqOrderedSignaling
	GeOrderedQuiet
	GtOrderedQuiet
	TrueUnorderedSignaling

	NumPredicates
)

// Relations a predicate is true for.
const (
	relLess uint8 = 1 << iota
	relEqual
	relGreater
	relUnordered
)

type predicateInfo struct {
	name      string
	accept    uint8
	signaling bool
}

// The upper sixteen repeat the lower sixteen with quiet and signaling
// swapped.
var predicates = func() [NumPredicates]predicateInfo {
	base := [16]predicateInfo{
		{"eq_oq", relEqual, false},
		{"lt_os", relLess, true},
		{"le_os", relLess | relEqual, true},
		{"unord_q", relUnordered, false},
		{"neq_uq", relLess | relGreater | relUnordered, false},
		{"nlt_us", relEqual | relGreater | relUnordered, true},
		{"nle_us", relGreater | relUnordered, true},
		{"ord_q", relLess | relEqual | relGreater, false},
		{"eq_uq", relEqual | relUnordered, false},
		{"nge_us", relLess | relUnordered, true},
		{"ngt_us", relLess | relEqual | relUnordered, true},
		{"false_oq", 0, false},
		{"neq_oq", relLess | relGreater, false},
		{"ge_os", relEqual | relGreater, true},
		{"gt_os", relGreater, true},
		{"true_uq", relLess | relEqual | relGreater | relUnordered, false},
	}
	upper := [16]string{
		"eq_os", "lt_oq", "le_oq", "unord_s", "neq_us", "nlt_uq", "nle_uq", "ord_s",
		"eq_us", "nge_uq", "ngt_uq", "false_os", "neq_os", "ge_oq", "gt_oq", "true_us",
	}
	var t [NumPredicates]predicateInfo
	for i, p := range base {
		t[i] = p
		t[i+16] = predicateInfo{upper[i], p.accept, !p.signaling}
	}
	return t
}()

func (p Predicate) String() string {
	if p < NumPredicates {
		return predicates[p].name
	}
	return "invalid"
}

// ParsePredicate accepts the lower-case names, e.g. "nle_us".
func ParsePredicate(s string) (Predicate, bool) {
	for i := range predicates {
		if predicates[i].name == s {
			return Predicate(i), true
		}
	}
	return 0, false
}

func (p Predicate) holds(r Relation) bool {
	info := predicates[p&31]
	switch r {
	case Less:
		return info.accept&relLess != 0
	case Equal:
		return info.accept&relEqual != 0
	case Greater:
		return info.accept&relGreater != 0
	}
	return info.accept&relUnordered != 0
}

func (p Predicate) signaling() bool { return predicates[p&31].signaling }

// F32Predicate evaluates one VCMPPS lane. Only the low five bits of p are
// used.
func F32Predicate(p Predicate, a, b Float32, st *Status) bool {
	return p.holds(fmt32.compare(st, a.raw(), b.raw(), p.signaling()))
}

// F64Predicate evaluates one VCMPPD lane.
func F64Predicate(p Predicate, a, b Float64, st *Status) bool {
	return p.holds(fmt64.compare(st, a.raw(), b.raw(), p.signaling()))
}
