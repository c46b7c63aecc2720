// Package planemit implements spec §4.16: turning a resolved, coerced
// call into the flat {block,name,args} PlanEntry the host runtime reads.
package planemit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mldsl-tools/mldsl/internal/coerce"
	"github.com/mldsl-tools/mldsl/internal/model"
)

// moduleBlocks maps a resolved call's module to the block tag the host
// runtime groups it under.
var moduleBlocks = map[string]string{
	"player":    model.BlockDiamond,
	"game":      model.BlockLapis,
	"select":    model.BlockIron,
	"var":       model.BlockEmerald,
	"array":     model.BlockEmerald,
	"if_game":   model.BlockNetherBrick,
	"if_player": model.BlockNetherBrick,
	"if_entity": model.BlockNetherBrick,
	"if_value":  model.BlockNetherBrick,
}

// Block returns the block tag for module, falling back to the misc
// action block when module names nothing known.
func Block(module string) string {
	if b, ok := moduleBlocks[module]; ok {
		return b
	}
	return model.BlockDiamond
}

// JoinArgs renders coerced args as the comma-joined slot(N)=<value>
// string, ordered by fn's canonical parameter order (params first,
// then enums) rather than raw slot number, so output is deterministic
// regardless of coercion order or how slots happen to be numbered.
func JoinArgs(fn *model.ApiFunc, args []coerce.Arg) string {
	if len(args) == 0 {
		return model.NoArgs
	}
	order := make(map[int]int, len(fn.Params)+len(fn.Enums))
	i := 0
	for _, p := range fn.Params {
		order[p.Slot] = i
		i++
	}
	for _, e := range fn.Enums {
		order[e.Slot] = i
		i++
	}
	sorted := append([]coerce.Arg(nil), args...)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oki := order[sorted[i].Slot]
		oj, okj := order[sorted[j].Slot]
		if !oki {
			oi = len(order)
		}
		if !okj {
			oj = len(order)
		}
		if oi != oj {
			return oi < oj
		}
		return sorted[i].Slot < sorted[j].Slot
	})
	parts := make([]string, len(sorted))
	for i, a := range sorted {
		parts[i] = fmt.Sprintf("slot(%d)=%s", a.Slot, a.Value)
	}
	return strings.Join(parts, ",")
}

// Entry builds the final PlanEntry for one resolved call. Name is the
// UI-facing "sign1||sign2" display string (spec §3/§6), not fn's
// canonical snake-case name.
func Entry(module string, fn *model.ApiFunc, args []coerce.Arg, negated bool) model.PlanEntry {
	return model.PlanEntry{
		Block:   Block(module),
		Module:  module,
		Name:    fn.Sign1 + "||" + fn.Sign2,
		Args:    JoinArgs(fn, args),
		Negated: negated,
	}
}
