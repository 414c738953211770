package rules

import (
	"sort"

	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/wasmtype"
	"go.uber.org/zap"
)

// Store holds TypingRules (always present, built from InstructionTable)
// and ExtractedRules (optionally ingested from the external rule
// extractor), indexed by result type and terminal opcode (spec C3).
type Store struct {
	typing    ruleSet
	extracted ruleSet
	log       *zap.Logger

	dropped int
}

// NewStore builds a Store whose TypingRules are derived from table. logger
// may be nil; a nil logger defaults to zap.NewNop(), matching the rest of
// the package's nil-safe logging convention (SPEC_FULL.md §3 Logging).
func NewStore(table map[string]wasmtype.OpInfo, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		typing:    BuildTypingRules(table),
		extracted: ruleSet{},
		log:       logger,
	}
}

// LoadExtracted ingests pre-parsed records into ExtractedRules, in
// addition to whatever was loaded previously. Records whose types aren't
// all in wasmtype.AllValueTypes are dropped with a counter and a Warn log
// (spec.md §7 RuleLoadError is non-fatal).
func (s *Store) LoadExtracted(records []Record) {
	for i, rec := range records {
		node, ok := rec.toInstrNode()
		if !ok {
			s.dropped++
			s.log.Warn("dropped unparseable extracted rule",
				zap.Int("rule_index", i), zap.String("reason", "type or opcode not recognized"))
			continue
		}
		s.extracted.add(node)
	}
}

// DroppedCount returns how many extracted records failed to load.
func (s *Store) DroppedCount() int { return s.dropped }

// Get picks one rule producing target (or consuming-only, for
// wasmtype.NoOut), following spec.md §4.2's get_rule: with probability
// pUseTyping draw from TypingRules, otherwise from ExtractedRules, falling
// back to TypingRules when ExtractedRules has nothing for target. Returns
// ok=false only when neither table has any rule for target at all.
func (s *Store) Get(target wasmtype.ValueType, source rng.Source, pUseTyping float64) (*InstrNode, bool) {
	useExtracted := len(s.extracted[target]) > 0 && !source.ChoiceProb(pUseTyping)
	if useExtracted {
		return pickFrom(s.extracted[target], source)
	}
	if node, ok := pickFrom(s.typing[target], source); ok {
		return node, true
	}
	return pickFrom(s.extracted[target], source)
}

func pickFrom(byOpcode map[string][]*InstrNode, source rng.Source) (*InstrNode, bool) {
	if len(byOpcode) == 0 {
		return nil, false
	}
	opcodes := make([]string, 0, len(byOpcode))
	for op := range byOpcode {
		opcodes = append(opcodes, op)
	}
	// Deterministic iteration order so the same rng draws pick the same
	// rule across runs: Go map iteration is randomized, so sort first.
	sort.Strings(opcodes)
	op := opcodes[source.Choice(len(opcodes))]
	candidates := byOpcode[op]
	return candidates[source.Choice(len(candidates))], true
}
