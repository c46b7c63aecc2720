package paramnorm

import "github.com/mldsl-tools/mldsl/internal/model"

// Fallback is a short, explicit allow-list of canonical slot maps for
// actions whose exported chest snapshots are known to be unreliable,
// keyed by canonical function name. Seeded from the two concrete cases
// the system this compiler replaces carries: the 8-slot "send message"
// text layout and the "fill region" loc/num layout.
var Fallback = map[string][]model.Param{
	"send_message": {
		{Name: "text", Mode: model.ModeText, Slot: 27},
		{Name: "text2", Mode: model.ModeText, Slot: 28},
		{Name: "text3", Mode: model.ModeText, Slot: 29},
		{Name: "text4", Mode: model.ModeText, Slot: 30},
		{Name: "text5", Mode: model.ModeText, Slot: 32},
		{Name: "text6", Mode: model.ModeText, Slot: 33},
		{Name: "text7", Mode: model.ModeText, Slot: 34},
		{Name: "text8", Mode: model.ModeText, Slot: 35},
	},
	"fill_region": {
		{Name: "value", Mode: model.ModeAny, Slot: 13},
		{Name: "loc", Mode: model.ModeLocation, Slot: 19},
		{Name: "loc2", Mode: model.ModeLocation, Slot: 25},
		{Name: "num", Mode: model.ModeNumber, Slot: 40},
	},
	"fill_region_blocks": {
		{Name: "value", Mode: model.ModeAny, Slot: 13},
		{Name: "loc", Mode: model.ModeLocation, Slot: 19},
		{Name: "loc2", Mode: model.ModeLocation, Slot: 25},
		{Name: "num", Mode: model.ModeNumber, Slot: 40},
	},
	"place_block":     placeBlockFallback(),
	"place_block_and": placeBlockFallback(),
}

// placeBlockFallback builds the 12-entry allow-list for the "place
// block" family: var@1, value@4, num@7, then nine LOCATION slots 18-26.
func placeBlockFallback() []model.Param {
	params := []model.Param{
		{Name: "var", Mode: model.ModeVariable, Slot: 1},
		{Name: "value", Mode: model.ModeAny, Slot: 4},
		{Name: "num", Mode: model.ModeNumber, Slot: 7},
	}
	for i, slot := 0, 18; slot <= 26; i, slot = i+1, slot+1 {
		name := "loc"
		if i > 0 {
			name = "loc" + string(rune('0'+i+1))
		}
		params = append(params, model.Param{Name: name, Mode: model.ModeLocation, Slot: slot})
	}
	return params
}
