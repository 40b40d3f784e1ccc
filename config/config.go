package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/colorfulnotion/dynarec/dynerrors"
	"github.com/colorfulnotion/dynarec/log"
	"github.com/xyproto/env/v2"
)

//go:embed *.json
var configFS embed.FS

var profileFile = map[string]string{
	"default": "default.json",
	"debug":   "debug.json",
}

// BranchRange is the reach of an A32 B/BL instruction in bytes.
const BranchRange = 32 << 20

// Symbol names the backend resolves from Config.Symbols.
const (
	SymCPUState     = "cpu_state"
	SymReadLookup2  = "readlookup2"
	SymWriteLookup2 = "writelookup2"
	SymReadMemB     = "readmembl"
	SymReadMemW     = "readmemwl"
	SymReadMemL     = "readmemll"
	SymReadMemQ     = "readmemql"
	SymWriteMemB    = "writemembl"
	SymWriteMemW    = "writememwl"
	SymWriteMemL    = "writememll"
	SymWriteMemQ    = "writememql"
	SymX86GPF       = "x86gpf"
	SymX86Int       = "x86_int"
	SymLoadSeg      = "loadseg"
	SymFRound64     = "fround64"
	SymFILD64       = "fild64"
)

var RequiredSymbols = []string{
	SymCPUState, SymReadLookup2, SymWriteLookup2,
	SymReadMemB, SymReadMemW, SymReadMemL, SymReadMemQ,
	SymWriteMemB, SymWriteMemW, SymWriteMemL, SymWriteMemQ,
	SymX86GPF, SymX86Int, SymLoadSeg, SymFRound64, SymFILD64,
}

// Hex32 is a 32-bit address written as a hex string in JSON.
type Hex32 uint32

func (h Hex32) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("0x%08x", uint32(h)))
}

func (h *Hex32) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint32
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return err
		}
		*h = Hex32(n)
		return nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return err
	}
	*h = Hex32(v)
	return nil
}

type Config struct {
	ID            string           `json:"id"`
	LogLevel      string           `json:"log_level"`
	LogModules    []string         `json:"log_modules"`
	CodePageSize  int              `json:"code_page_size"`
	CodePages     int              `json:"code_pages"`
	CodeBase      Hex32            `json:"code_base"`
	PoolSize      int              `json:"pool_size"`
	AssertPatches bool             `json:"assert_patches"`
	NaNMode       string           `json:"nan_mode"`
	Symbols       map[string]Hex32 `json:"symbols"`

	// FPUProbe reports the host FPSCR at backend init. Nil reads as
	// round-to-nearest, which is what a freshly started ARM Linux process has.
	FPUProbe func() uint32 `json:"-"`
}

// ReadConfig loads an embedded profile by id, or a JSON file by path, and
// applies environment overrides.
func ReadConfig(id string) (cfg *Config, err error) {
	var data []byte
	path, ok := profileFile[id]
	if ok {
		data, err = configFS.ReadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		data, err = os.ReadFile(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", dynerrors.ErrCUnknownProfile, id)
		}
	}
	cfg = new(Config)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("profile %s: %w", id, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded default profile. It panics if the embedded
// file is broken.
func Default() *Config {
	cfg, err := ReadConfig("default")
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) applyEnv() {
	c.LogLevel = env.Str("DYNAREC_LOG_LEVEL", c.LogLevel)
	if env.Has("DYNAREC_LOG_MODULES") {
		c.LogModules = strings.Split(env.Str("DYNAREC_LOG_MODULES"), ",")
	}
	if env.Has("DYNAREC_ASSERT_PATCHES") {
		c.AssertPatches = env.Bool("DYNAREC_ASSERT_PATCHES")
	}
	if env.Has("DYNAREC_CODE_BASE") {
		if v, err := strconv.ParseUint(env.Str("DYNAREC_CODE_BASE"), 0, 32); err == nil {
			c.CodeBase = Hex32(v)
		}
	}
	c.CodePages = env.Int("DYNAREC_CODE_PAGES", c.CodePages)
}

func (c *Config) Validate() error {
	if c.CodePageSize <= 16 || c.CodePageSize%4 != 0 {
		return fmt.Errorf("%w: %d", dynerrors.ErrCBadPageSize, c.CodePageSize)
	}
	if c.CodePages <= 0 || c.CodePages*c.CodePageSize > BranchRange {
		return fmt.Errorf("%w: %d pages of %d bytes", dynerrors.ErrCArenaTooLarge, c.CodePages, c.CodePageSize)
	}
	if c.PoolSize <= 0 || c.PoolSize&(c.PoolSize-1) != 0 {
		return fmt.Errorf("%w: %d", dynerrors.ErrCBadPoolSize, c.PoolSize)
	}
	if c.CodeBase == 0 || c.CodeBase&3 != 0 {
		return fmt.Errorf("%w: %#x", dynerrors.ErrCBadCodeBase, uint32(c.CodeBase))
	}
	for _, m := range c.LogModules {
		if !log.KnownModule(m) {
			return fmt.Errorf("%w: %q", dynerrors.ErrCUnknownLogModule, m)
		}
	}
	switch c.NaNMode {
	case "", "larger-significand", "first-operand":
	default:
		return fmt.Errorf("%w: %q", dynerrors.ErrCUnknownNaNMode, c.NaNMode)
	}
	return nil
}

// Symbol returns the address of a named host helper, or an error if it is unset.
func (c *Config) Symbol(name string) (uint32, error) {
	v := c.Symbols[name]
	if v == 0 {
		return 0, fmt.Errorf("%w: %s", dynerrors.ErrCMissingSymbol, name)
	}
	return uint32(v), nil
}

// HostFPSCR returns the host FPSCR as reported by the configured probe.
func (c *Config) HostFPSCR() uint32 {
	if c.FPUProbe == nil {
		return 0
	}
	return c.FPUProbe()
}

func (c *Config) String() string {
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}
