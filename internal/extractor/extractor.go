// Package extractor implements spec §4.4 and the Record Assembler: it
// ties the dump reader, slot geometry, mode classifier, lane detectors,
// and enum extractor together into the raw catalog of ActionRecords
// handed off to the API normalizer.
package extractor

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"

	"github.com/mldsl-tools/mldsl/internal/classify"
	"github.com/mldsl-tools/mldsl/internal/enumextract"
	"github.com/mldsl-tools/mldsl/internal/geometry"
	"github.com/mldsl-tools/mldsl/internal/lanes"
	"github.com/mldsl-tools/mldsl/internal/model"
	"github.com/mldsl-tools/mldsl/internal/translit"
)

// inputItemID reports the "expected input item" id fragment for mode M,
// used by the edit-binding rule in §4.4 step (1).
var inputItemID = map[model.Mode]string{
	model.ModeText:     "book",
	model.ModeNumber:   "slime_ball",
	model.ModeVariable: "magma_cream",
	model.ModeArray:    "item_frame",
	model.ModeLocation: "paper",
}

// FromRecords builds ActionRecords from raw dump records.
func FromRecords(raws []model.RawRecord) []model.ActionRecord {
	out := make([]model.ActionRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, assemble(raw))
	}
	return out
}

func classifyFn(items map[int]model.SlotItem) func(meta int, name string) (model.Mode, bool) {
	return func(meta int, name string) (model.Mode, bool) {
		return classify.Classify(meta, name, classify.NeighborHint{})
	}
}

func assemble(raw model.RawRecord) model.ActionRecord {
	// A record always spans the six rows (0..5) of one chest page;
	// occupied slots further down extend it for merged multi-page dumps.
	maxRow := geometry.InferMaxRow(occupiedSlots(raw.Items))
	if maxRow < 5 {
		maxRow = 5
	}
	cf := classifyFn(raw.Items)

	repeated := lanes.FindRepeatedLane(raw.Items, maxRow, cf)
	concat := lanes.FindConcatLane(raw.Items, maxRow, append(raw.Signs[:], raw.GUI), cf)
	claimed := lanes.ClaimedSlots(repeated, concat)

	reserved := map[int]bool{}
	for slot := range claimed {
		reserved[slot] = true
	}

	var args []model.ArgBinding
	glassSlots := sortedGlassSlots(raw.Items)
	for _, glassSlot := range glassSlots {
		if laneOwnsGlass(glassSlot, repeated, concat) {
			continue
		}
		glass := raw.Items[glassSlot]
		mode, ok := classify.Classify(glass.Meta, glass.Name, neighborHint(raw.Items, glassSlot, maxRow))
		if !ok {
			continue
		}
		argSlot, found := bindSlot(raw.Items, glassSlot, mode, maxRow, reserved)
		if !found {
			continue
		}
		reserved[argSlot] = true
		binding := model.ArgBinding{
			GlassSlot:  glassSlot,
			GlassMeta:  glass.Meta,
			GlassName:  glass.Name,
			KeyNorm:    translit.Snake(normalizeField(glass.Name)),
			Mode:       mode,
			ArgSlot:    argSlot,
			ArgHasItem: !isEmpty(raw.Items, argSlot),
		}
		if item, ok := raw.Items[argSlot]; ok {
			if opts, sel := enumextract.Options(item.Lore); len(opts) > 0 {
				binding.Variant = &model.Variant{Options: opts, SelectedIndex: sel}
			}
		}
		args = append(args, binding)
	}

	for _, b := range lanes.EmitOrder(repeated, concat) {
		args = append(args, model.ArgBinding{
			GlassSlot: b.GlassSlot,
			Mode:      b.Mode,
			ArgSlot:   b.ArgSlot,
		})
	}

	var enums []model.EnumItem
	for slot, item := range raw.Items {
		if isGlass(item) {
			continue
		}
		opts, sel := enumextract.Options(item.Lore)
		if len(opts) == 0 {
			continue
		}
		enums = append(enums, model.EnumItem{
			Slot: slot, ID: item.ID, Meta: item.Meta, Name: item.Name,
			Variant: model.Variant{Options: opts, SelectedIndex: sel},
		})
	}
	sort.Slice(enums, func(i, j int) bool { return enums[i].Slot < enums[j].Slot })

	id := buildID(raw)
	rec := model.ActionRecord{
		ID:       id,
		Path:     normalizeField(raw.Path),
		Category: normalizeField(raw.Category),
		Subitem:  normalizeField(raw.Subitem),
		GUI:      translit.StripPageSuffix(normalizeField(raw.GUI)),
		Signs:    [4]string{normalizeField(raw.Signs[0]), normalizeField(raw.Signs[1]), normalizeField(raw.Signs[2]), normalizeField(raw.Signs[3])},
		HasChest: raw.HasChest,
		Args:     args,
		Enums:    enums,
	}
	rec.Fingerprint = fingerprint(rec)
	return rec
}

// normalizeField runs the §6 record-identifier normalization pipeline
// short of alias substitution: strip color escapes, rescue mojibake,
// NFC-normalize, lowercase, collapse whitespace.
func normalizeField(s string) string {
	s = translit.StripColors(s)
	s = translit.RescueMojibake(s)
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// buildID assembles the stable eight-field record identifier from §6.
func buildID(raw model.RawRecord) string {
	fields := []string{
		normalizeField(raw.Path),
		normalizeField(raw.Category),
		normalizeField(raw.Subitem),
		translit.StripPageSuffix(normalizeField(raw.GUI)),
		normalizeField(raw.Signs[0]),
		normalizeField(raw.Signs[1]),
		normalizeField(raw.Signs[2]),
		normalizeField(raw.Signs[3]),
	}
	return strings.Join(fields, "|")
}

// fingerprint hashes the normalized id plus the sorted arg/enum slot
// layout, for diagnostics only; it is never part of the load-bearing
// record id, and the extraction cache is keyed separately.
func fingerprint(rec model.ActionRecord) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprint(h, rec.ID)
	slots := make([]int, 0, len(rec.Args)+len(rec.Enums))
	for _, a := range rec.Args {
		slots = append(slots, a.ArgSlot)
	}
	for _, e := range rec.Enums {
		slots = append(slots, e.Slot)
	}
	sort.Ints(slots)
	for _, s := range slots {
		fmt.Fprintf(h, "|%d", s)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func occupiedSlots(items map[int]model.SlotItem) []int {
	out := make([]int, 0, len(items))
	for s := range items {
		out = append(out, s)
	}
	return out
}

func sortedGlassSlots(items map[int]model.SlotItem) []int {
	var out []int
	for slot, item := range items {
		if isGlass(item) {
			out = append(out, slot)
		}
	}
	sort.Ints(out)
	return out
}

func isGlass(item model.SlotItem) bool { return item.ID == lanes.GlassID }

func isEmpty(items map[int]model.SlotItem, slot int) bool {
	_, ok := items[slot]
	return !ok
}

func neighborHint(items map[int]model.SlotItem, glassSlot, maxRow int) classify.NeighborHint {
	for _, dir := range geometry.Directions() {
		n, ok := geometry.Neighbor(glassSlot, dir, maxRow)
		if !ok {
			continue
		}
		if item, ok := items[n]; ok && !isGlass(item) {
			return classify.NeighborHint{HasItem: true, ItemID: item.ID}
		}
	}
	return classify.NeighborHint{}
}

// bindSlot implements the §4.4 slot-binding algorithm for one marker.
func bindSlot(items map[int]model.SlotItem, glassSlot int, mode model.Mode, maxRow int, reserved map[int]bool) (int, bool) {
	wantID := inputItemID[mode]

	// Step (1): an "edit" binding — a neighbor already holding the
	// expected input item for this mode.
	if wantID != "" {
		for _, dir := range geometry.Directions() {
			n, ok := geometry.Neighbor(glassSlot, dir, maxRow)
			if !ok || reserved[n] {
				continue
			}
			if item, ok := items[n]; ok && !isGlass(item) && strings.Contains(item.ID, wantID) {
				return n, true
			}
		}
	}

	// Step (2): first empty neighbor.
	for _, dir := range geometry.Directions() {
		n, ok := geometry.Neighbor(glassSlot, dir, maxRow)
		if !ok || reserved[n] {
			continue
		}
		if _, occupied := items[n]; !occupied {
			return n, true
		}
	}

	// Step (3): ITEM/BLOCK only — first non-glass neighbor.
	if mode == model.ModeItem || mode == model.ModeBlock {
		for _, dir := range geometry.Directions() {
			n, ok := geometry.Neighbor(glassSlot, dir, maxRow)
			if !ok || reserved[n] {
				continue
			}
			if item, ok := items[n]; ok && !isGlass(item) {
				return n, true
			}
		}
	}

	return 0, false
}

func laneOwnsGlass(glassSlot int, repeated *lanes.RepeatedLaneResult, concat *lanes.ConcatLaneResult) bool {
	if repeated != nil {
		for _, b := range repeated.Bindings {
			if b.GlassSlot == glassSlot {
				return true
			}
		}
	}
	if concat != nil {
		for _, b := range concat.Bindings {
			if b.GlassSlot == glassSlot {
				return true
			}
		}
	}
	return false
}
