// Package paramnorm implements spec §4.9: turning an Extractor record's
// raw arg bindings into a canonical, named parameter list.
package paramnorm

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mldsl-tools/mldsl/internal/model"
)

var baseNameByMode = map[model.Mode]string{
	model.ModeVariable: "var",
	model.ModeText:     "text",
	model.ModeNumber:   "num",
	model.ModeLocation: "loc",
	model.ModeArray:    "arr",
	model.ModeItem:     "item",
	model.ModeAny:      "value",
}

func baseName(mode model.Mode) string {
	if name, ok := baseNameByMode[mode]; ok {
		return name
	}
	return "arg"
}

// Result is the canonicalized param list plus the paramSource tag.
type Result struct {
	Params []model.Param
	Source model.ParamSource
}

// IsVariableExistsFamily reports whether a record's (sign1, sign2) (or
// scoped select domain) matches the "variable exists" family that gets
// the single-VARIABLE special case.
func IsVariableExistsFamily(sign1, sign2, gui, menu string) bool {
	key := sign2
	if key == "" {
		key = gui
	}
	if key == "" {
		key = menu
	}
	return containsVariableExistsHint(sign1) || containsVariableExistsHint(key)
}

func containsVariableExistsHint(s string) bool {
	low := strings.ToLower(s)
	for _, hint := range []string{"переменная существует", "variable exists", "variable_exists"} {
		if strings.Contains(low, hint) {
			return true
		}
	}
	return false
}

// Normalize builds the canonical param list from raw arg bindings.
func Normalize(bindings []model.ArgBinding, variableExistsFamily bool) Result {
	sorted := append([]model.ArgBinding(nil), bindings...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ArgSlot < sorted[j].ArgSlot })

	if variableExistsFamily {
		for _, b := range sorted {
			if b.Mode == model.ModeVariable {
				return Result{
					Params: []model.Param{{Name: "var", Mode: model.ModeVariable, Slot: b.ArgSlot}},
					Source: model.ParamSourceNormalized,
				}
			}
		}
	}

	counts := map[string]int{}
	var params []model.Param
	changed := false
	for _, b := range sorted {
		base := baseName(b.Mode)
		counts[base]++
		name := base
		if counts[base] > 1 {
			name = base + strconv.Itoa(counts[base])
			changed = true
		}
		params = append(params, model.Param{Name: name, Mode: b.Mode, Slot: b.ArgSlot})
	}

	source := model.ParamSourceRaw
	if changed {
		source = model.ParamSourceNormalized
	}
	return Result{Params: params, Source: source}
}

// MergeFallback merges fallback slots into params without clobbering
// slots already present (by Slot).
func MergeFallback(params []model.Param, fallback []model.Param) ([]model.Param, bool) {
	present := map[int]bool{}
	for _, p := range params {
		present[p.Slot] = true
	}
	merged := append([]model.Param(nil), params...)
	changed := false
	for _, f := range fallback {
		if present[f.Slot] {
			continue
		}
		merged = append(merged, f)
		present[f.Slot] = true
		changed = true
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Slot < merged[j].Slot })
	return merged, changed
}
