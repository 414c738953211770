package wasmgen

import (
	"testing"

	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/stretchr/testify/require"
)

func TestConfig_WithMethodsDoNotMutateReceiver(t *testing.T) {
	base := NewConfig()
	derived := base.WithSeed(99).WithMemoryPages(4)

	require.Equal(t, int64(0), base.seed)
	require.Equal(t, uint32(1), base.params.MemoryPages)
	require.Equal(t, int64(99), derived.seed)
	require.Equal(t, uint32(4), derived.params.MemoryPages)
}

func TestConfig_WithBlacklistTypesAccumulates(t *testing.T) {
	cfg := NewConfig().WithBlacklistTypes(wasmtype.V128).WithBlacklistTypes(wasmtype.FuncRef)
	require.ElementsMatch(t, []wasmtype.ValueType{wasmtype.V128, wasmtype.FuncRef}, cfg.blacklist)
}

func TestConfig_WithProbabilityClamps(t *testing.T) {
	cfg := NewConfig().WithProbability("ProbCall", 5).WithProbability("ProbBr", -1)
	require.Equal(t, 1.0, cfg.params.ProbCall)
	require.Equal(t, 0.0, cfg.params.ProbBr)
}

func TestConfig_WithProbabilityUnknownNameIsNoop(t *testing.T) {
	before := NewConfig().params.ProbCall
	cfg := NewConfig().WithProbability("NotARealKnob", 0.5)
	require.Equal(t, before, cfg.params.ProbCall)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, NewConfig().validate())
	require.Error(t, NewConfig().WithMemoryPages(0).validate())
	require.Error(t, NewConfig().WithTableSize(0).validate())
	require.Error(t, NewConfig().WithMaxDepth(-1).validate())
	require.Error(t, NewConfig().WithBlacklistTypes(wasmtype.AllValueTypes...).validate())
}
