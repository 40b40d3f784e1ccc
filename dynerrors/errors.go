package dynerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/colorfulnotion/dynarec/log"
)

// Configuration (C) Errors
var (
	ErrCUnknownProfile   = errors.New("C1|UnknownProfile: No embedded profile and no file with this name.")
	ErrCBadPageSize      = errors.New("C2|BadPageSize: Code page size must be a positive multiple of 4 and hold at least one jump.")
	ErrCArenaTooLarge    = errors.New("C3|ArenaTooLarge: Code arena exceeds the direct branch range.")
	ErrCBadPoolSize      = errors.New("C4|BadPoolSize: Block pool size must be a power of two.")
	ErrCUnknownNaNMode   = errors.New("C5|UnknownNaNMode: NaN propagation mode is not recognised.")
	ErrCBadCodeBase      = errors.New("C6|BadCodeBase: Code base address must be page aligned and non-zero.")
	ErrCMissingSymbol    = errors.New("C7|MissingSymbol: A host helper address required by the backend is zero.")
	ErrCUnknownLogModule = errors.New("C8|UnknownLogModule: Log module is not known.")
)

// Listing (L) Errors
var (
	ErrLBadListing  = errors.New("L1|BadListing: Uop listing could not be parsed.")
	ErrLUnknownOp   = errors.New("L2|UnknownOp: Uop name is not known.")
	ErrLBadOperand  = errors.New("L3|BadOperand: Operand descriptor is malformed.")
	ErrLBadTarget   = errors.New("L4|BadTarget: Deferred branch target is not a later uop or the block end.")
	ErrLMissingDest = errors.New("L5|MissingDest: Deferred branch has no target.")
)

// Codegen (G) Errors, carried by FatalError
var (
	ErrGRangeExceeded    = errors.New("G1|RangeExceeded: Displacement or offset does not fit the instruction form.")
	ErrGBadWidth         = errors.New("G2|BadWidth: Operand width combination is not supported by the lowering.")
	ErrGUnknownUop       = errors.New("G3|UnknownUop: No lowering for this uop.")
	ErrGPatchResolved    = errors.New("G4|PatchResolved: Forward branch resolved more than once.")
	ErrGUnresolvedPatch  = errors.New("G5|UnresolvedPatch: Forward branch left unresolved at block end.")
	ErrGArenaExhausted   = errors.New("G6|ArenaExhausted: No free code page is available.")
	ErrGHostFPUMode      = errors.New("G7|HostFPUMode: Host FPU is not in round-to-nearest mode at init.")
	ErrGNoActivePage     = errors.New("G8|NoActivePage: Emitting with no active code page.")
	ErrGStateLayout      = errors.New("G9|StateLayout: CPU state field is outside the addressing range.")
	ErrGBadImmediate     = errors.New("G10|BadImmediate: Immediate cannot be encoded in this instruction form.")
	ErrGTrampolineLayout = errors.New("G11|TrampolineLayout: A trampoline routine does not fit in one code page.")
)

// FatalError is the payload of a contract-violation panic raised by the code
// generator. These are never guest-visible and are not meant to be recovered
// except by tests and by tools that report them.
type FatalError struct {
	Err error
	Msg string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %s: %s", ErrorCode(e.Err), e.Msg)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Fatalf logs the violation and panics with a *FatalError wrapping err.
func Fatalf(module string, err error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Error(module, "fatal", "err", ErrorCode(err), "msg", msg)
	panic(&FatalError{Err: err, Msg: msg})
}

// Recover converts a FatalError panic into an error. Other panics propagate.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if fe, ok := r.(*FatalError); ok {
		*errp = fe
		return
	}
	panic(r)
}

// ErrorCode returns the short code and name of a sentinel, e.g. "G1|RangeExceeded".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if i := strings.Index(s, ":"); i > 0 {
		return s[:i]
	}
	return s
}
