package wasmgen

import (
	"io"

	"github.com/cranerule/wasmgen/internal/modgen"
	"github.com/cranerule/wasmgen/internal/wasmtype"
	"go.uber.org/zap"
)

// Config controls one Generator's behavior. Build one with NewConfig and
// chain the With* methods; each returns a new, independent Config so a
// base configuration can be shared and specialized per call site without
// the specializations clobbering each other.
type Config struct {
	seed int64

	globalCount int
	blacklist   []wasmtype.ValueType

	params modgen.Params

	extractedRules io.Reader
	logger         *zap.Logger
}

var defaultConfig = &Config{
	seed:        0,
	globalCount: 4,
	params:      modgen.DefaultParams,
}

// NewConfig returns the default configuration: seed 0, typing-only rules
// (no extracted-rule reader), the original generator's codegen_stackgen_*
// probabilities, 1 memory page, a 64k-entry table, and NaN canonicalization
// enabled.
func NewConfig() *Config {
	clone := *defaultConfig
	return &clone
}

func (c *Config) clone() *Config {
	clone := *c
	clone.blacklist = append([]wasmtype.ValueType{}, c.blacklist...)
	return &clone
}

// WithSeed sets the seed driving every random decision in a Generate
// call; the same seed, config, and rule set always reproduce the same
// module.
func (c *Config) WithSeed(seed int64) *Config {
	ret := c.clone()
	ret.seed = seed
	return ret
}

// WithMemoryPages sets both the initial and maximum page count of the
// generated module's single linear memory.
func (c *Config) WithMemoryPages(pages uint32) *Config {
	ret := c.clone()
	ret.params.MemoryPages = pages
	return ret
}

// WithTableSize sets the initial and maximum entry count of the generated
// module's single funcref table.
func (c *Config) WithTableSize(size uint32) *Config {
	ret := c.clone()
	ret.params.TableSize = size
	return ret
}

// WithGlobalCount sets how many mutable/immutable globals Generate
// allocates up front, each exported so a differential-testing harness can
// read them back alongside linear memory.
func (c *Config) WithGlobalCount(n int) *Config {
	ret := c.clone()
	ret.globalCount = n
	return ret
}

// WithBlacklistTypes removes the given value types from main's signature
// slots and from the types of the globals Generate allocates up front.
// Rules are not filtered: a rule whose operands or result use a
// blacklisted type can still be instantiated, and the locals, globals and
// helper functions it allocates can have that type. Blacklisting every
// concrete type is a ConfigError
// at New time, since Generate would then have nothing left to synthesize.
func (c *Config) WithBlacklistTypes(types ...wasmtype.ValueType) *Config {
	ret := c.clone()
	ret.blacklist = append(ret.blacklist, types...)
	return ret
}

// WithCanonicalizeNaNs toggles the canonicalization gadget appended after
// every rule instantiation whose terminal opcode is in
// wasmtype.FloatCanonOpcodes (the float and float-vector operations that
// can produce a NaN). Leave enabled (the default)
// when comparing engines that may disagree on NaN bit patterns; disabling
// it is mostly useful for inspecting raw generator output.
func (c *Config) WithCanonicalizeNaNs(on bool) *Config {
	ret := c.clone()
	ret.params.CanonicalizeNaNs = on
	return ret
}

// WithWrapV128ArgsViaI64 generates `main` as a thin i64-marshalling
// adapter whenever its signature contains a v128, so the JS wrapper
// (Module.JS) can drive it. Native embeddings that pass v128 arguments
// directly (wasmtime-go, wasmer-go) don't need this.
func (c *Config) WithWrapV128ArgsViaI64(on bool) *Config {
	ret := c.clone()
	ret.params.WrapV128ArgsViaI64 = on
	return ret
}

// WithExtractedRules supplies a reader of newline-separated JSON rule
// records (internal/rules.ParseRecords' wire format) to load alongside the
// built-in typing rules. May be called multiple times' worth of records by
// passing an io.MultiReader; Generator reads r fully at New time.
func (c *Config) WithExtractedRules(r io.Reader) *Config {
	ret := c.clone()
	ret.extractedRules = r
	return ret
}

// WithLogger sets the zap.Logger Generator and its rule Store log
// through. A nil logger (the default) discards all log output.
func (c *Config) WithLogger(logger *zap.Logger) *Config {
	ret := c.clone()
	ret.logger = logger
	return ret
}

// WithProbability overrides a single named generation-probability knob
// (e.g. "ProbStructGen", "ProbCall", "ProbReuseFunc" — see
// internal/modgen.Params for the full set), for callers tuning the
// generator's shape without reconstructing the whole Params struct. p is
// clamped to [0, 1].
func (c *Config) WithProbability(name string, p float64) *Config {
	ret := c.clone()
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	applyNamedProbability(&ret.params, name, p)
	return ret
}

// WithMaxDepth caps how deeply genValue/genStructured may recurse before
// forcing a leaf value; lower values produce shallower, faster-to-validate
// modules.
func (c *Config) WithMaxDepth(depth int) *Config {
	ret := c.clone()
	ret.params.MaxDepth = depth
	return ret
}

func applyNamedProbability(p *modgen.Params, name string, v float64) {
	switch name {
	case "ProbStructGen":
		p.ProbStructGen = v
	case "ProbStructExit":
		p.ProbStructExit = v
	case "ProbMultiRet":
		p.ProbMultiRet = v
	case "ProbCall":
		p.ProbCall = v
	case "ProbCallIndirect":
		p.ProbCallIndirect = v
	case "ProbUnreachable":
		p.ProbUnreachable = v
	case "ProbBr":
		p.ProbBr = v
	case "ProbBrIf":
		p.ProbBrIf = v
	case "ProbReuseFunc":
		p.ProbReuseFunc = v
	case "ProbReuseGlobal":
		p.ProbReuseGlobal = v
	case "ProbReuseLocal":
		p.ProbReuseLocal = v
	case "ProbArgConst":
		p.ProbArgConst = v
	case "ProbConstGen":
		p.ProbConstGen = v
	case "ProbVarGen":
		p.ProbVarGen = v
	case "ProbGlobalGen":
		p.ProbGlobalGen = v
	case "PUseTyping":
		p.PUseTyping = v
	case "ProbConstUseInteresting":
		p.ProbConstUseInteresting = v
	case "ProbMemargInbounds":
		p.ProbMemargInbounds = v
	case "ProbPerturb":
		p.ProbPerturb = v
	}
}

// validate reports a ConfigError for any option combination Generate could
// never recover from.
func (c *Config) validate() error {
	allowed := wasmtype.WithoutBlacklist(c.blacklist)
	concrete := wasmtype.Filter(allowed, func(t wasmtype.ValueType) bool { return t != wasmtype.NoOut })
	if len(concrete) == 0 {
		return &ConfigError{Option: "BlacklistTypes", Reason: "blacklists every concrete value type; nothing left to synthesize"}
	}
	if c.params.MemoryPages == 0 {
		return &ConfigError{Option: "MemoryPages", Reason: "must be at least 1"}
	}
	if c.params.TableSize == 0 {
		return &ConfigError{Option: "TableSize", Reason: "must be at least 1"}
	}
	if c.params.MaxDepth < 0 {
		return &ConfigError{Option: "MaxDepth", Reason: "must be non-negative"}
	}
	if c.globalCount < 0 {
		return &ConfigError{Option: "GlobalCount", Reason: "must be non-negative"}
	}
	return nil
}
