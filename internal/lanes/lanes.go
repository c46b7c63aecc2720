// Package lanes implements spec §4.5: the two variadic-input layouts a
// GUI row can encode — a "repeated" lane (one mode repeated across many
// columns) and a "concat" lane (an 8/9-way text concatenation input).
// Both run before the ordinary per-marker binder and claim slots that the
// ordinary binder must then skip.
package lanes

import (
	"strings"

	"github.com/mldsl-tools/mldsl/internal/geometry"
	"github.com/mldsl-tools/mldsl/internal/model"
)

// GlassID is the marker-pane item id used throughout the dump format.
const GlassID = "minecraft:stained_glass_pane"

// Binding is one argSlot produced by a lane expansion.
type Binding struct {
	GlassSlot int
	Mode      model.Mode
	ArgSlot   int
	Depth     int // 0, 1, 2: row-major emission order within the lane
	Col       int
}

var repeatedTokens = map[model.Mode][]string{
	model.ModeText:     {"тексты", "texts", "text"},
	model.ModeNumber:   {"числа", "numbers", "number"},
	model.ModeVariable: {"переменные", "variables", "variable"},
	model.ModeItem:     {"предметы", "items", "item"},
	model.ModeLocation: {"местоположения", "locations", "location"},
	model.ModeArray:    {"массивы", "arrays", "array"},
}

var directionalHints = []string{"ниже", "below", "выше", "above"}

func isRepeatedMarker(mode model.Mode, name, lore string) bool {
	tokens, ok := repeatedTokens[mode]
	if !ok {
		return false
	}
	low := strings.ToLower(name)
	for _, t := range tokens {
		if strings.Contains(low, t) {
			return true
		}
	}
	loreLow := strings.ToLower(lore)
	for _, t := range directionalHints {
		if strings.Contains(loreLow, t) {
			return true
		}
	}
	return false
}

func isGlass(item model.SlotItem) bool { return item.ID == GlassID }

func isEmpty(items map[int]model.SlotItem, slot int) bool {
	_, ok := items[slot]
	return !ok
}

// rowRepeatedMarkers returns, per column, the mode a glass pane at that
// column classifies as, for markers that qualify as "lane markers" for
// that mode (repeated-token or directional hint present).
func rowRepeatedMarkers(items map[int]model.SlotItem, row int, classifyFn func(meta int, name string) (model.Mode, bool)) map[int]model.Mode {
	out := map[int]model.Mode{}
	for col := 0; col < geometry.RowWidth; col++ {
		slot := geometry.Slot(row, col)
		item, ok := items[slot]
		if !ok || !isGlass(item) {
			continue
		}
		mode, ok := classifyFn(item.Meta, item.Name)
		if !ok {
			continue
		}
		if isRepeatedMarker(mode, item.Name, item.Lore) {
			out[col] = mode
		}
	}
	return out
}

func longestRun(cols map[int]model.Mode) int {
	best, cur := 0, 0
	for c := 0; c < geometry.RowWidth; c++ {
		if _, ok := cols[c]; ok {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

// RepeatedLaneResult is a detected repeated lane for one row.
type RepeatedLaneResult struct {
	Row      int
	Mode     model.Mode
	StartCol int
	EndCol   int
	Bindings []Binding
}

// FindRepeatedLane detects the winning repeated lane (if any) across all
// rows 0..maxRow for a record. classifyFn is the mode classifier applied
// to a glass pane's (meta, name), ignoring neighbor disambiguation (lane
// detection only needs VARIABLE/TEXT/NUMBER/ITEM/LOCATION/ARRAY).
func FindRepeatedLane(items map[int]model.SlotItem, maxRow int, classifyFn func(meta int, name string) (model.Mode, bool)) *RepeatedLaneResult {
	var best *RepeatedLaneResult
	var bestKey [4]int

	for row := 0; row <= maxRow; row++ {
		byMode := map[model.Mode]map[int]model.Mode{}
		for col, mode := range rowRepeatedMarkers(items, row, classifyFn) {
			m := byMode[mode]
			if m == nil {
				m = map[int]model.Mode{}
				byMode[mode] = m
			}
			m[col] = mode
		}
		for mode, cols := range byMode {
			if len(cols) < 7 || longestRun(cols) < 3 {
				continue
			}
			startCol, endCol := geometry.RowWidth, -1
			for c := range cols {
				if c < startCol {
					startCol = c
				}
				if c > endCol {
					endCol = c
				}
			}
			gaps := (endCol - startCol + 1) - len(cols)
			key := [4]int{-(endCol - startCol + 1), gaps, row, startCol}
			if best != nil && !lessKey(key, bestKey) {
				continue
			}

			result := &RepeatedLaneResult{Row: row, Mode: mode, StartCol: startCol, EndCol: endCol}
			ok := true
			for col := startCol; col <= endCol && ok; col++ {
				nearestSlot, found := nearestMarkerCol(cols, col, row)
				if !found {
					ok = false
					break
				}
				for depth := 0; depth < 3; depth++ {
					argSlot := geometry.Slot(row+depth+1, col)
					if row+depth+1 > maxRow || !isEmpty(items, argSlot) {
						ok = false
						break
					}
					result.Bindings = append(result.Bindings, Binding{
						GlassSlot: nearestSlot, Mode: mode, ArgSlot: argSlot, Depth: depth, Col: col,
					})
				}
			}
			if !ok {
				continue
			}
			best, bestKey = result, key
		}
	}
	return best
}

func lessKey(a, b [4]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func nearestMarkerCol(cols map[int]model.Mode, col, row int) (int, bool) {
	if _, ok := cols[col]; ok {
		return geometry.Slot(row, col), true
	}
	for d := 1; d < geometry.RowWidth; d++ {
		if _, ok := cols[col-d]; ok {
			return geometry.Slot(row, col-d), true
		}
		if _, ok := cols[col+d]; ok {
			return geometry.Slot(row, col+d), true
		}
	}
	return 0, false
}

// ConcatLaneResult is a detected concat lane for one row.
type ConcatLaneResult struct {
	Row      int
	StartCol int
	EndCol   int
	Bindings []Binding
}

// runLengths returns the contiguous runs of occupied columns in a row, in
// column order, as (start, length) pairs.
func runLengths(occupied map[int]bool) [][2]int {
	var runs [][2]int
	col := 0
	for col < geometry.RowWidth {
		if !occupied[col] {
			col++
			continue
		}
		start := col
		for col < geometry.RowWidth && occupied[col] {
			col++
		}
		runs = append(runs, [2]int{start, col - start})
	}
	return runs
}

// matchesConcatPattern checks the two accepted row shapes from §4.5:
// 3+/gap1/3+ (total>=7) or 3+/gap1/1+/gap1/3+ (total>=7), each gap
// exactly one empty column.
func matchesConcatPattern(occupied map[int]bool) (startCol, endCol int, ok bool) {
	runs := runLengths(occupied)
	total := 0
	for _, r := range runs {
		total += r[1]
	}
	if total < 7 {
		return 0, 0, false
	}
	oneGapBetween := func(a, b [2]int) bool {
		gapStart := a[0] + a[1]
		return b[0]-gapStart == 1
	}
	switch len(runs) {
	case 2:
		if runs[0][1] >= 3 && runs[1][1] >= 3 && oneGapBetween(runs[0], runs[1]) {
			return runs[0][0], runs[1][0] + runs[1][1] - 1, true
		}
	case 3:
		if runs[0][1] >= 3 && runs[2][1] >= 3 && runs[1][1] >= 1 &&
			oneGapBetween(runs[0], runs[1]) && oneGapBetween(runs[1], runs[2]) {
			return runs[0][0], runs[2][0] + runs[2][1] - 1, true
		}
	}
	return 0, 0, false
}

// textCueHints detects the "concat" text cue from sign/gui content.
func textCueHints(signsAndGUI []string) bool {
	for _, s := range signsAndGUI {
		low := strings.ToLower(s)
		if (strings.Contains(low, "concat") || strings.Contains(low, "combine") || strings.Contains(low, "объедин")) &&
			(strings.Contains(low, "text") || strings.Contains(low, "текст")) {
			return true
		}
		if strings.TrimSpace(s) == "=" {
			return true
		}
	}
	return false
}

// FindConcatLane detects the winning concat lane (if any). triggerHints is
// the set of sign/gui strings used for the text-cue check; classifyFn
// gives the mode of each glass marker from its (meta, name), used for the
// row scan and for the structural fallback (>=8 TEXT markers with >=1
// VARIABLE marker).
func FindConcatLane(items map[int]model.SlotItem, maxRow int, triggerHints []string, classifyFn func(meta int, name string) (model.Mode, bool)) *ConcatLaneResult {
	if !textCueHints(triggerHints) && !structuralFallbackTriggers(items, classifyFn) {
		return nil
	}

	for row := 0; row <= maxRow; row++ {
		occupied := map[int]bool{}
		for col := 0; col < geometry.RowWidth; col++ {
			slot := geometry.Slot(row, col)
			if item, ok := items[slot]; ok && isGlass(item) {
				if mode, ok := classifyFn(item.Meta, item.Name); ok && mode == model.ModeText {
					occupied[col] = true
				}
			}
		}
		startCol, endCol, ok := matchesConcatPattern(occupied)
		if !ok {
			continue
		}
		result := &ConcatLaneResult{Row: row, StartCol: startCol, EndCol: endCol}
		valid := true
		for col := startCol; col <= endCol && valid; col++ {
			glassSlot := geometry.Slot(row, col)
			for depth := 0; depth < 3; depth++ {
				argSlot := geometry.Slot(row+depth+1, col)
				if row+depth+1 > maxRow || !isEmpty(items, argSlot) {
					valid = false
					break
				}
				result.Bindings = append(result.Bindings, Binding{
					GlassSlot: glassSlot, Mode: model.ModeText, ArgSlot: argSlot, Depth: depth, Col: col,
				})
			}
		}
		if valid {
			return result
		}
	}
	return nil
}

func structuralFallbackTriggers(items map[int]model.SlotItem, classifyFn func(meta int, name string) (model.Mode, bool)) bool {
	textCount, varCount := 0, 0
	for _, item := range items {
		if !isGlass(item) {
			continue
		}
		if mode, ok := classifyFn(item.Meta, item.Name); ok {
			switch mode {
			case model.ModeText:
				textCount++
			case model.ModeVariable:
				varCount++
			}
		}
	}
	return textCount >= 8 && varCount >= 1
}

// ClaimedSlots returns the set of argSlots claimed by lane bindings, so
// the ordinary per-marker binder can exclude them.
func ClaimedSlots(repeated *RepeatedLaneResult, concat *ConcatLaneResult) map[int]bool {
	claimed := map[int]bool{}
	if repeated != nil {
		for _, b := range repeated.Bindings {
			claimed[b.ArgSlot] = true
		}
	}
	if concat != nil {
		for _, b := range concat.Bindings {
			claimed[b.ArgSlot] = true
		}
	}
	return claimed
}

// EmitOrder flattens both lane results into the strict row-major,
// depth-first emission order required by §4.5: all depth-0 bindings
// across lane columns, then depth-1, then depth-2.
func EmitOrder(repeated *RepeatedLaneResult, concat *ConcatLaneResult) []Binding {
	var all []Binding
	if repeated != nil {
		all = append(all, repeated.Bindings...)
	}
	if concat != nil {
		all = append(all, concat.Bindings...)
	}
	ordered := make([]Binding, 0, len(all))
	for depth := 0; depth < 3; depth++ {
		for _, b := range all {
			if b.Depth == depth {
				ordered = append(ordered, b)
			}
		}
	}
	return ordered
}
