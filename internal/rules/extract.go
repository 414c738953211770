package rules

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/cranerule/wasmgen/internal/wasmtype"
)

// Record is the wire shape of one line of rule-extractor output
// (spec.md §6: "newline-separated records; each record is a structured
// tuple (param_types, ret_types, body, _unused, oparg_conditions)"). JSON
// is this package's concrete encoding of that tuple — the extractor is an
// external collaborator boundary (a separate process/binary, exactly like
// the teacher's own `binaryemitter` boundary in internal/emit), so any
// self-describing line format works; JSON keeps the field names explicit
// instead of relying on positional tuple order.
type Record struct {
	ParamTypes []string        `json:"param_types"`
	RetTypes   []string        `json:"ret_types"`
	Body       []RawStep       `json:"body"`
	OpArgConds [][]RawCondEntry `json:"oparg_conditions"`
}

// RawStep is one body node: {"arg": i} or {"op": name, "opargs": [k, ...]}.
type RawStep struct {
	Arg    *int   `json:"arg,omitempty"`
	Op     string `json:"op,omitempty"`
	OpArgs []int  `json:"opargs,omitempty"`
}

// RawCondEntry pairs an oparg index with its condition list.
type RawCondEntry struct {
	OpArgIndex int             `json:"oparg_index"`
	Conditions []RawCondition  `json:"conditions"`
}

// RawCondition is one node of the condition expression tree: a leaf
// ("const"/"oparg") or an operator with nested Args.
type RawCondition struct {
	Op       string         `json:"op"`
	IntVal   int64          `json:"int_val,omitempty"`
	OpArgRef int            `json:"oparg_ref,omitempty"`
	Args     []RawCondition `json:"args,omitempty"`
}

// ParseRecords reads newline-separated JSON records from r, skipping
// blank lines. A line that fails to parse as JSON is itself a dropped
// record — callers report it the same way Store.LoadExtracted reports a
// record whose types don't resolve.
func ParseRecords(r io.Reader) (records []Record, malformedLines int) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytesTrimSpace(line)) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			malformedLines++
			continue
		}
		records = append(records, rec)
	}
	return records, malformedLines
}

func bytesTrimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func toValueTypes(names []string) ([]wasmtype.ValueType, bool) {
	out := make([]wasmtype.ValueType, len(names))
	for i, n := range names {
		ty := wasmtype.ValueType(n)
		if ty != wasmtype.NoOut && ty != wasmtype.AnyStack {
			found := false
			for _, allowed := range wasmtype.AllValueTypes {
				if allowed == ty {
					found = true
					break
				}
			}
			if !found {
				return nil, false
			}
		}
		out[i] = ty
	}
	return out, true
}

func toConditionExpr(raw RawCondition) ConditionExpr {
	switch raw.Op {
	case "const":
		return Const(raw.IntVal)
	case "oparg":
		return OpArg(raw.OpArgRef)
	default:
		args := make([]ConditionExpr, len(raw.Args))
		for i, a := range raw.Args {
			args[i] = toConditionExpr(a)
		}
		return Op(raw.Op, args...)
	}
}

// toInstrNode validates and converts a Record into an InstrNode, reporting
// ok=false if any referenced opcode or type is unrecognized (spec.md §7:
// "Invalid opcode names in a rule cause that rule to be ignored at load
// time").
func (rec Record) toInstrNode() (*InstrNode, bool) {
	paramTypes, ok := toValueTypes(rec.ParamTypes)
	if !ok {
		return nil, false
	}
	retTypes, ok := toValueTypes(rec.RetTypes)
	if !ok || len(retTypes) > 1 {
		return nil, false
	}

	body := make([]Step, 0, len(rec.Body))
	for _, raw := range rec.Body {
		if raw.Arg != nil {
			body = append(body, Step{Op: "arg", ArgIndex: *raw.Arg})
			continue
		}
		if raw.Op == "" {
			return nil, false
		}
		if _, known := wasmtype.Table[raw.Op]; !known {
			return nil, false
		}
		body = append(body, Step{Op: raw.Op, OpArgs: raw.OpArgs})
	}
	if len(body) == 0 {
		return nil, false
	}

	conds := map[int][]ConditionExpr{}
	for _, entry := range rec.OpArgConds {
		list := make([]ConditionExpr, len(entry.Conditions))
		for i, c := range entry.Conditions {
			list[i] = toConditionExpr(c)
		}
		conds[entry.OpArgIndex] = list
	}

	return &InstrNode{
		ParamTypes: paramTypes,
		RetTypes:   retTypes,
		Body:       body,
		Conds:      conds,
	}, true
}
