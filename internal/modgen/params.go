package modgen

// Params holds the generation-probability knobs from spec.md §4.5/§6,
// with the defaults the original config.py ships (codegen_stackgen_*).
type Params struct {
	MaxDepth int

	ProbStructGen   float64 // chance of opening a new block/loop/if instead of a rule instantiation
	ProbStructExit  float64 // carried from config.py; not read by the generator (exits come from ProbBr/ProbBrIf)
	ProbMultiRet    float64 // carried from config.py; not read by the generator (every block/loop/if has at most one result)
	ProbStructRet   float64 // chance each stack-top element is popped into a new block/loop/if's params
	ProbCall        float64
	ProbCallIndirect float64
	ProbUnreachable float64
	ProbBr          float64
	ProbBrIf        float64
	ProbReuseFunc   float64
	ProbReuseGlobal float64
	ProbReuseLocal  float64
	ProbArgConst    float64
	ProbConstGen    float64
	ProbVarGen      float64
	ProbGlobalGen   float64

	PUseTyping              float64
	ProbConstUseInteresting float64
	ProbMemargInbounds      float64
	ProbPerturb             float64

	CanonicalizeNaNs bool
	MemoryPages      uint32
	TableSize        uint32

	// WrapV128ArgsViaI64, when set, generates `main` as a thin adapter over
	// the real synthesized function whenever its signature contains a v128:
	// params/results are marshalled as pairs of i64 halves, the shape a JS
	// harness can actually call and read back (spec.md §9 OQ3). Leave unset
	// for native embeddings (wasmtime/wasmer), which pass v128 natively.
	WrapV128ArgsViaI64 bool
}

// DefaultParams mirrors config.py's codegen_stackgen_* defaults.
var DefaultParams = Params{
	MaxDepth:                5,
	ProbStructGen:           0.1,
	ProbStructExit:          0.1,
	ProbMultiRet:            0.2,
	ProbStructRet:           0.5,
	ProbCall:                0.1,
	ProbCallIndirect:        0.001,
	ProbUnreachable:         0.0001,
	ProbBr:                  0.05,
	ProbBrIf:                0.05,
	ProbReuseFunc:           0.9,
	ProbReuseGlobal:         0.5,
	ProbReuseLocal:          0.2,
	ProbArgConst:            0.25,
	ProbConstGen:            0.5,
	ProbVarGen:              0.05,
	ProbGlobalGen:           0.2,
	PUseTyping:              0.8,
	ProbConstUseInteresting: 0.9,
	ProbMemargInbounds:      0.99,
	ProbPerturb:             0.05,
	CanonicalizeNaNs:        true,
	MemoryPages:             1,
	TableSize:               65536,
}
