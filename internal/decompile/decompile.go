// Package decompile is a small, explicitly non-core supplement: it runs
// the compiler in reverse, turning a compiled model.Plan back into
// approximate DSL source text. It exists for diagnostics and for
// inspecting a plan that arrived without its original source (e.g. one
// read back out of a world save), and makes no claim to byte-exact
// round-tripping — temp-var hoists and auto-split trampolines are
// already baked into the plan and are rendered as ordinary statements
// rather than un-split.
//
// Grounded on original_source/mldsl_exportcode.py, which performs the
// same job (plan -> DSL) over the raw Minecraft block/chest
// representation; this port operates one level higher, directly over
// the already-parsed model.Plan/model.ApiMap the rest of this module
// uses, so the SNBT/lore parsing the Python does has no Go equivalent
// here.
package decompile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mldsl-tools/mldsl/internal/model"
)

// Source renders plan as DSL source text, one event/func/loop per
// top-level group, in deterministic (sorted) name order.
func Source(plan model.Plan, api model.ApiMap) string {
	names := make([]string, 0, len(plan))
	for name := range plan {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		renderGroup(&b, name, plan[name], api)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderGroup(b *strings.Builder, name string, group model.PlanGroup, api model.ApiMap) {
	switch group.Kind {
	case model.PlanKindEvent:
		fmt.Fprintf(b, "event(%s) {\n", strconv.Quote(name))
	case model.PlanKindLoop:
		fmt.Fprintf(b, "loop(%s, %d) {\n", strconv.Quote(name), group.Ticks)
	default:
		fmt.Fprintf(b, "func %s() {\n", name)
	}
	for _, e := range group.Entries {
		renderEntry(b, e, api, 1)
	}
	b.WriteString("}\n")
}

func renderEntry(b *strings.Builder, e model.PlanEntry, api model.ApiMap, indent int) {
	pad := strings.Repeat("  ", indent)
	if e.Block == model.BlockNewline {
		b.WriteByte('\n')
		return
	}

	call, warn := renderCall(e, api)
	if e.Negated {
		call = "NOT " + call
	}
	b.WriteString(pad)
	b.WriteString(call)
	b.WriteByte('\n')
	if warn != "" {
		fmt.Fprintf(b, "%s# WARN: %s\n", pad, warn)
	}
}

// renderCall turns one PlanEntry back into "module.name(key=value, ...)"
// syntax, reversing slot positions to parameter names via the ApiFunc
// the entry's module/name resolve to. When the function can't be found
// (a stale or hand-authored plan), the raw slot args are kept and a
// warning is returned instead of failing outright — this package never
// returns an error, only best-effort text plus inline warnings, the
// same posture mldsl_exportcode.py takes with its own "# WARN:" lines.
func renderCall(e model.PlanEntry, api model.ApiMap) (string, string) {
	canonical, fn := lookupFunc(api, e.Module, e.Name)
	if fn == nil {
		return fmt.Sprintf("%s.%s(%s)", e.Module, e.Name, e.Args), "unresolved function, args left raw"
	}

	slotToName := make(map[int]string, len(fn.Params))
	for _, p := range fn.Params {
		slotToName[p.Slot] = p.Name
	}

	if e.Args == model.NoArgs || e.Args == "" {
		return fmt.Sprintf("%s.%s()", e.Module, canonical), ""
	}

	parts := strings.Split(e.Args, ",")
	rendered := make([]string, 0, len(parts))
	var warn string
	for _, raw := range parts {
		slot, value, ok := splitSlotArg(raw)
		if !ok {
			warn = "malformed arg token: " + raw
			continue
		}
		key, known := slotToName[slot]
		if !known {
			key = fmt.Sprintf("slot%d", slot)
			warn = fmt.Sprintf("slot %d has no matching parameter", slot)
		}
		rendered = append(rendered, key+"="+unrenderValue(value))
	}
	return fmt.Sprintf("%s.%s(%s)", e.Module, canonical, strings.Join(rendered, ", ")), warn
}

// lookupFunc reverses a PlanEntry's module/name back to the ApiFunc and
// canonical identifier it came from. name is the "sign1||sign2" display
// string planemit.Entry builds, not the bucket's canonical key, so this
// scans the module's functions for a sign-pair match rather than a map
// lookup.
func lookupFunc(api model.ApiMap, module, name string) (string, *model.ApiFunc) {
	bucket, ok := api[module]
	if !ok {
		return "", nil
	}
	for canon, fn := range bucket {
		if fn.Sign1+"||"+fn.Sign2 == name {
			return canon, fn
		}
	}
	return "", nil
}

// splitSlotArg parses one "slot(N)=value" token.
func splitSlotArg(s string) (int, string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "slot(") {
		return 0, "", false
	}
	close := strings.IndexByte(s, ')')
	if close < 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(s[len("slot("):close])
	if err != nil {
		return 0, "", false
	}
	rest := s[close+1:]
	if !strings.HasPrefix(rest, "=") {
		return 0, "", false
	}
	return n, rest[1:], true
}

// unrenderValue reverses internal/coerce's wire-format rendering back
// into the bare DSL literal a source author would have written: var(x)
// back to the bare identifier x, num(N) back to the bare number, and an
// arr_save token back to its base name with the array-save suffix.
// Everything else (text(...), item(...), loc(...), block literals) is
// already valid DSL syntax as coerce emits it and is passed through
// unchanged.
func unrenderValue(v string) string {
	switch {
	case strings.HasPrefix(v, "var(") && strings.HasSuffix(v, ")"):
		return strings.TrimSuffix(strings.TrimPrefix(v, "var("), ")")
	case strings.HasPrefix(v, "num(") && strings.HasSuffix(v, ")"):
		return strings.TrimSuffix(strings.TrimPrefix(v, "num("), ")")
	case strings.HasPrefix(v, "arr_save(") && strings.HasSuffix(v, ")"):
		return strings.TrimSuffix(strings.TrimPrefix(v, "arr_save("), ")") + "⎘"
	case strings.HasPrefix(v, "arr(") && strings.HasSuffix(v, ")"):
		return strings.TrimSuffix(strings.TrimPrefix(v, "arr("), ")")
	default:
		return v
	}
}
