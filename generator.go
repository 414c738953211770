package wasmgen

import (
	"bytes"
	"fmt"

	"github.com/cranerule/wasmgen/internal/emit"
	"github.com/cranerule/wasmgen/internal/modgen"
	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/rules"
	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/cranerule/wasmgen/internal/wrapper"
	"go.uber.org/zap"
)

// Generator synthesizes Wasm modules under one fixed Config and rule
// Store. Build one with New and call Generate as many times as needed;
// each call advances the same underlying randomness source, so a sequence
// of calls on one Generator produces a reproducible stream of modules,
// while two Generators built from the same Config and seed reproduce the
// same stream from the start.
type Generator struct {
	cfg          *Config
	store        *rules.Store
	source       rng.Source
	allowedTypes []wasmtype.ValueType
	log          *zap.Logger

	loadErr *RuleLoadError
}

// New validates cfg and builds a Generator ready to Generate. A
// non-nil, non-*RuleLoadError error is always a *ConfigError.
func New(cfg *Config) (*Generator, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store := rules.NewStore(wasmtype.Table, logger)

	g := &Generator{
		cfg:          cfg,
		store:        store,
		source:       rng.NewPRNG(cfg.seed),
		allowedTypes: wasmtype.WithoutBlacklist(cfg.blacklist),
		log:          logger,
	}

	if cfg.extractedRules != nil {
		records, malformed := rules.ParseRecords(cfg.extractedRules)
		store.LoadExtracted(records)
		if dropped := store.DroppedCount(); dropped > 0 || malformed > 0 {
			g.loadErr = &RuleLoadError{DroppedCount: dropped, MalformedLines: malformed}
			logger.Warn("extracted rule set loaded with drops",
				zap.Int("dropped_records", dropped), zap.Int("malformed_lines", malformed))
		}
	}

	return g, nil
}

// RuleLoadWarning returns the non-fatal RuleLoadError recorded while
// ingesting Config.WithExtractedRules' reader, or nil if every record
// loaded cleanly (or none was supplied).
func (g *Generator) RuleLoadWarning() *RuleLoadError { return g.loadErr }

// Generate synthesizes one complete module: a rule-instantiated `main`
// function plus the configured up-front globals and whatever helper
// functions and further globals its call sites and global.get/global.set
// rule instantiations allocate.
func (g *Generator) Generate() (*Module, error) {
	mctx := modgen.New(g.cfg.params, g.store, g.source)
	mod := mctx.Generate(g.allowedTypes, g.cfg.globalCount)

	var buf bytes.Buffer
	if err := emit.New(&buf).Emit(mod); err != nil {
		return nil, &InternalInvariantError{Invariant: "well-formed module", Detail: err.Error()}
	}

	main, ok := mainExport(mod)
	if !ok {
		return nil, &InternalInvariantError{Invariant: "main export present", Detail: "assembled module has no \"main\" function export"}
	}

	return &Module{
		bytes:       buf.Bytes(),
		mainParams:  main.Params,
		mainResults: main.Results,
		memoryPages: g.cfg.params.MemoryPages,
		source:      g.source,
	}, nil
}

func mainExport(mod *emit.Module) (emit.FuncType, bool) {
	for _, exp := range mod.Exports {
		if exp.Name != "main" || exp.Kind != emit.ExportFunc {
			continue
		}
		if int(exp.Idx) >= len(mod.FuncTypes) {
			return emit.FuncType{}, false
		}
		typeIdx := mod.FuncTypes[exp.Idx]
		if int(typeIdx) >= len(mod.Types) {
			return emit.FuncType{}, false
		}
		return mod.Types[typeIdx], true
	}
	return emit.FuncType{}, false
}

// Module is one synthesized module, ready to be written out raw or
// wrapped in a runnable harness.
type Module struct {
	bytes       []byte
	mainParams  []wasmtype.ValueType
	mainResults []wasmtype.ValueType
	memoryPages uint32
	source      rng.Source
}

// Bytes returns the module's binary encoding.
func (m *Module) Bytes() []byte { return m.bytes }

// MainSignature returns the exported `main` function's parameter and
// result types, for callers that want to drive it themselves instead of
// using a prebuilt wrapper.
func (m *Module) MainSignature() (params, results []wasmtype.ValueType) {
	return m.mainParams, m.mainResults
}

// Raw returns the module bytes unchanged, for any harness that loads a
// .wasm module directly (wasmtime/wasmer CLI, a native embedding).
func (m *Module) Raw() []byte { return wrapper.Raw(m.bytes) }

// JS renders a standalone JS-shell driver for this module. It returns an
// error if main's signature still contains a v128: the Wasm JS API can't
// pass or receive one, so Config.WithWrapV128ArgsViaI64(true) must be set
// before Generate for a module whose main may take or return v128s.
func (m *Module) JS() (string, error) {
	for _, t := range m.mainParams {
		if t == wasmtype.V128 {
			return "", fmt.Errorf("wasmgen: main takes a v128 param; set Config.WithWrapV128ArgsViaI64(true) before Generate")
		}
	}
	for _, t := range m.mainResults {
		if t == wasmtype.V128 {
			return "", fmt.Errorf("wasmgen: main returns a v128; set Config.WithWrapV128ArgsViaI64(true) before Generate")
		}
	}
	return wrapper.JS(m.bytes, m.mainParams, m.memoryPages, m.source), nil
}
