package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mldsl-tools/mldsl/internal/dslast"
)

func TestExpandMultiSelect_BuildsSelectAllConditionAndCompare(t *testing.T) {
	ms := dslast.MultiSelect{
		Scope:    "ifplayer",
		Selector: "all",
		Cutoff:   dslast.NumberLit{Value: 5, Raw: "5"},
		Body: []dslast.MultiSelectLine{
			{
				Call:   dslast.Call{Module: "select", Scope: "ifplayer", Name: "is_sneaking"},
				Weight: "+",
			},
		},
	}

	out, err := ExpandMultiSelect(ms)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, "Все игроки", out[0].(dslast.Call).Name)
	assert.Equal(t, "is_sneaking", out[1].(dslast.Call).Name)
	assert.Equal(t, "+||+", out[2].(dslast.Call).Name)

	compare := out[3].(dslast.Call)
	assert.Equal(t, "Сравнить числа (Облегчённая версия)||Игрок по условию", compare.Name)
	assert.Equal(t, dslast.Ident{Name: "all"}, compare.Args[0].Value)
	assert.Equal(t, ms.Cutoff, compare.Args[1].Value)
}

func TestExpandMultiSelect_WeightWithFactorCarriesNumArg(t *testing.T) {
	ms := dslast.MultiSelect{
		Scope:    "ifmob",
		Selector: "all",
		Cutoff:   dslast.NumberLit{Value: 3},
		Body: []dslast.MultiSelectLine{
			{
				Call:   dslast.Call{Module: "select", Scope: "ifmob", Name: "is_baby"},
				Weight: "*",
				Factor: dslast.NumberLit{Value: 2},
			},
		},
	}
	out, err := ExpandMultiSelect(ms)
	require.NoError(t, err)
	weightCall := out[2].(dslast.Call)
	assert.Equal(t, "*||*", weightCall.Name)
	require.Len(t, weightCall.Args, 1)
	assert.Equal(t, "num", weightCall.Args[0].Key)
}

func TestExpandMultiSelect_RejectsUnknownScope(t *testing.T) {
	ms := dslast.MultiSelect{Scope: "bogus"}
	_, err := ExpandMultiSelect(ms)
	assert.Error(t, err)
}

func TestExpandMultiSelect_RejectsModuleMismatch(t *testing.T) {
	ms := dslast.MultiSelect{
		Scope: "ifplayer",
		Body: []dslast.MultiSelectLine{
			{Call: dslast.Call{Module: "player", Name: "give_item"}},
		},
	}
	_, err := ExpandMultiSelect(ms)
	assert.Error(t, err)
}

func TestExpandMultiSelect_RejectsScopeMismatch(t *testing.T) {
	ms := dslast.MultiSelect{
		Scope: "ifplayer",
		Body: []dslast.MultiSelectLine{
			{Call: dslast.Call{Module: "select", Scope: "ifmob", Name: "is_baby"}},
		},
	}
	_, err := ExpandMultiSelect(ms)
	assert.Error(t, err)
}
