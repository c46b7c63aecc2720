package paramnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mldsl-tools/mldsl/internal/model"
)

func TestNormalize_SortsBySlotAndNumbersDuplicateBaseNames(t *testing.T) {
	bindings := []model.ArgBinding{
		{Mode: model.ModeText, ArgSlot: 30},
		{Mode: model.ModeText, ArgSlot: 10},
		{Mode: model.ModeNumber, ArgSlot: 20},
	}

	result := Normalize(bindings, false)
	assert.Equal(t, model.ParamSourceNormalized, result.Source)
	assert.Equal(t, []model.Param{
		{Name: "text", Mode: model.ModeText, Slot: 10},
		{Name: "num", Mode: model.ModeNumber, Slot: 20},
		{Name: "text2", Mode: model.ModeText, Slot: 30},
	}, result.Params)
}

func TestNormalize_NoDuplicatesStaysRawSource(t *testing.T) {
	bindings := []model.ArgBinding{
		{Mode: model.ModeVariable, ArgSlot: 1},
		{Mode: model.ModeNumber, ArgSlot: 2},
	}
	result := Normalize(bindings, false)
	assert.Equal(t, model.ParamSourceRaw, result.Source)
	assert.Equal(t, "var", result.Params[0].Name)
	assert.Equal(t, "num", result.Params[1].Name)
}

func TestNormalize_VariableExistsFamilyCollapsesToSingleVar(t *testing.T) {
	bindings := []model.ArgBinding{
		{Mode: model.ModeVariable, ArgSlot: 5},
		{Mode: model.ModeText, ArgSlot: 6},
	}
	result := Normalize(bindings, true)
	assert.Equal(t, []model.Param{{Name: "var", Mode: model.ModeVariable, Slot: 5}}, result.Params)
}

func TestIsVariableExistsFamily_MatchesSign2(t *testing.T) {
	assert.True(t, IsVariableExistsFamily("", "Variable Exists", "", ""))
	assert.True(t, IsVariableExistsFamily("переменная существует", "", "", ""))
	assert.False(t, IsVariableExistsFamily("give item", "", "", ""))
}

func TestIsVariableExistsFamily_FallsBackToGUIThenMenu(t *testing.T) {
	assert.True(t, IsVariableExistsFamily("", "", "variable_exists", ""))
	assert.True(t, IsVariableExistsFamily("", "", "", "Variable Exists"))
}

func TestMergeFallback_AddsMissingSlotsOnly(t *testing.T) {
	params := []model.Param{{Name: "text", Mode: model.ModeText, Slot: 27}}
	fallback := Fallback["send_message"]

	merged, changed := MergeFallback(params, fallback)
	assert.True(t, changed)
	assert.Len(t, merged, 8)
	assert.Equal(t, 27, merged[0].Slot)
}

func TestMergeFallback_NoChangeWhenAllSlotsPresent(t *testing.T) {
	fallback := Fallback["send_message"]
	merged, changed := MergeFallback(fallback, fallback)
	assert.False(t, changed)
	assert.Equal(t, fallback, merged)
}

func TestFallback_PlaceBlockHasTwelveParamsWithNineLocations(t *testing.T) {
	params := Fallback["place_block"]
	assert.Len(t, params, 12)
	locCount := 0
	for _, p := range params {
		if p.Mode == model.ModeLocation {
			locCount++
		}
	}
	assert.Equal(t, 9, locCount)
	assert.Equal(t, "loc", params[3].Name)
	assert.Equal(t, "loc2", params[4].Name)
}
