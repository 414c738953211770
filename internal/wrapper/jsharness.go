package wrapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cranerule/wasmgen/internal/operand"
	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/wasmtype"
)

// JS renders a standalone JS-shell driver (d8/jsshell, no WebAssembly.JS
// module bindings needed) for a synthesized module whose `main` export has
// the given params/results: an initial all-zero call, then every
// interesting-value combination (or, once there are more than two params,
// 1000 random draws — a brute cross-product would take too long to both
// generate and run), ending with a checksum of linear memory so two engines
// fed the same driver can be diffed on stdout alone (spec.md §4.7 C8
// WrapperShim, original_source's JSWrapper.get_run_code).
func JS(moduleBytes []byte, params []wasmtype.ValueType, memoryPages uint32, source rng.Source) string {
	var b strings.Builder

	rendered := strings.Replace(driverTemplate, "WASM_CODE_HOLDER", codeHolder(moduleBytes), 1)
	rendered = strings.Replace(rendered, "WASM_MEMORY_MAX", strconv.FormatUint(uint64(memoryPages), 10), 1)
	b.WriteString(rendered)
	b.Grow(4096)

	b.WriteString("try{exports.main(")
	zeroArgs := make([]string, len(params))
	for i, p := range params {
		zeroArgs[i] = zeroLiteral(p)
	}
	b.WriteString(strings.Join(zeroArgs, ","))
	b.WriteString(")}catch(e){print(e)};\n")

	i32Choice := append(append([]int32{}, operand.InterestingI32...), int32(source.Int(-(1<<31), (1<<31)-1)))
	i64Choice := append(append([]int64{}, operand.InterestingI64...), int64(source.Int(-(1<<31), (1<<31)-1)))
	f32Choice := append(append([]float64{}, operand.InterestingFloat...), source.Float(0, 1))
	f64Choice := append(append([]float64{}, operand.InterestingFloat...), source.Float(0, 1))

	fmt.Fprintf(&b, "let run_interesting_i32 = [%s];\n", joinInt32(i32Choice))
	fmt.Fprintf(&b, "let run_interesting_i64 = [%s];\n", joinInt64(i64Choice))
	fmt.Fprintf(&b, "let run_interesting_f32 = [%s];\n", joinFloat(f32Choice))
	fmt.Fprintf(&b, "let run_interesting_f64 = [%s];\n", joinFloat(f64Choice))

	if len(params) <= 2 {
		writeCrossProduct(&b, params)
	} else {
		writeRandomDraws(&b, params, source)
	}

	b.WriteString("print(xxHash32(new Uint8Array(mem.buffer)));\n")
	return b.String()
}

func codeHolder(moduleBytes []byte) string {
	var b strings.Builder
	b.WriteString("const code = new Uint8Array([")
	for i, by := range moduleBytes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(by)))
	}
	b.WriteString("]);")
	return b.String()
}

func zeroLiteral(ty wasmtype.ValueType) string {
	switch ty {
	case wasmtype.I64:
		return "0n"
	case wasmtype.F32, wasmtype.F64:
		return "0.0"
	default:
		return "0"
	}
}

func arrName(ty wasmtype.ValueType) string {
	switch ty {
	case wasmtype.I64:
		return "run_interesting_i64"
	case wasmtype.F32:
		return "run_interesting_f32"
	case wasmtype.F64:
		return "run_interesting_f64"
	default:
		return "run_interesting_i32"
	}
}

// writeCrossProduct emits one nested `for...of` loop per param (the
// original's loop-unrolled form), calling main once per combination.
func writeCrossProduct(b *strings.Builder, params []wasmtype.ValueType) {
	args := make([]string, len(params))
	indent := 0
	for i, p := range params {
		name := fmt.Sprintf("a%d", i)
		args[i] = name
		fmt.Fprintf(b, "%sfor (let %s of %s) {\n", strings.Repeat("  ", indent), name, arrName(p))
		indent++
	}

	argsStr := strings.Join(args, ",")
	sep := ""
	if argsStr != "" {
		sep = ","
	}
	fmt.Fprintf(b, "%stry{print(%s%sexports.main(%s))}catch(e){print(e)}\n", strings.Repeat("  ", indent), argsStr, sep, argsStr)

	for indent > 0 {
		indent--
		fmt.Fprintf(b, "%s}\n", strings.Repeat("  ", indent))
	}
}

// writeRandomDraws emits 1000 single-shot calls with randomly drawn
// arguments: beyond two params a literal cross product is too large to
// both emit and run in reasonable time, so the original switches to
// sampling instead (no seedable Math.random in a JS shell, so every
// argument is drawn here in Go and baked in as a literal).
func writeRandomDraws(b *strings.Builder, params []wasmtype.ValueType, source rng.Source) {
	for i := 0; i < 1000; i++ {
		args := make([]string, len(params))
		for j, p := range params {
			args[j] = drawLiteral(p, source)
		}
		argsStr := strings.Join(args, ",")
		sep := ""
		if argsStr != "" {
			sep = ","
		}
		fmt.Fprintf(b, "try{print(%s%sexports.main(%s))}catch(e){print(e)}\n", argsStr, sep, argsStr)
	}
}

func drawLiteral(ty wasmtype.ValueType, source rng.Source) string {
	switch ty {
	case wasmtype.I64:
		return strconv.FormatInt(int64(source.Int(-(1<<31), (1<<31)-1)), 10) + "n"
	case wasmtype.F32, wasmtype.F64:
		return strconv.FormatFloat(source.Float(-1e9, 1e9), 'g', -1, 64)
	default:
		return strconv.Itoa(source.Int(-(1 << 31), (1<<31)-1))
	}
}

func joinInt32(vals []int32) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ",")
}

func joinInt64(vals []int64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatInt(v, 10) + "n"
	}
	return strings.Join(parts, ",")
}

func joinFloat(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
