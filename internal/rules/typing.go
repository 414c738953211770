package rules

import "github.com/cranerule/wasmgen/internal/wasmtype"

// ruleSet is the two-level index every rule table uses: result type ->
// terminal opcode -> candidate rules (spec.md §4.2).
type ruleSet map[wasmtype.ValueType]map[string][]*InstrNode

func (rs ruleSet) add(node *InstrNode) {
	ty := node.RetType()
	term := node.TerminalOpcode()
	if term == "" {
		return
	}
	if rs[ty] == nil {
		rs[ty] = map[string][]*InstrNode{}
	}
	rs[ty][term] = append(rs[ty][term], node)
}

// BuildTypingRules derives one InstrNode per catalog opcode directly from
// InstructionTable: these are the rules that never depend on the external
// extractor and always exist, guaranteeing RuleStore.Get never comes back
// empty (spec.md §4.2 TypingRules, grounded on wazero's own baked-in
// opcode tables rather than an external rule corpus).
func BuildTypingRules(table map[string]wasmtype.OpInfo) ruleSet {
	rs := ruleSet{}
	for name, info := range table {
		if wasmtype.ExcludedFromSynthesis[name] {
			continue
		}
		rs.add(fromSingleOpcode(withName(info, name)))
	}
	return rs
}

func withName(info wasmtype.OpInfo, name string) wasmtype.OpInfo {
	info.Name = name
	return info
}
