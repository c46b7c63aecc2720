package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mldsl-tools/mldsl/internal/model"
)

func sampleAPI() model.ApiMap {
	return model.ApiMap{
		"player": {
			"give_item": &model.ApiFunc{
				Aliases: []string{"give_item", "giveitem", "dать предмет"},
			},
		},
		"select": {
			"ifplayer_closest": &model.ApiFunc{Aliases: []string{"ifplayer_closest"}},
		},
	}
}

func TestCall_CanonicalLookup(t *testing.T) {
	r, err := Call(sampleAPI(), "player", "", "give_item")
	require.NoError(t, err)
	assert.Equal(t, "give_item", r.Name)
}

func TestCall_AliasLookup(t *testing.T) {
	r, err := Call(sampleAPI(), "player", "", "giveitem")
	require.NoError(t, err)
	assert.Equal(t, "give_item", r.Name)
}

func TestCall_SelectScopeRewrite(t *testing.T) {
	r, err := Call(sampleAPI(), "select", "ifplayer", "closest")
	require.NoError(t, err)
	assert.Equal(t, "ifplayer_closest", r.Name)
}

func TestCall_UnknownModule(t *testing.T) {
	_, err := Call(sampleAPI(), "bogus", "", "thing")
	require.Error(t, err)
}

func TestCall_UnresolvedSuggestsNearMiss(t *testing.T) {
	_, err := Call(sampleAPI(), "player", "", "giv_item")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestCall_ResolvedShapeMatchesExpected(t *testing.T) {
	api := sampleAPI()
	r, err := Call(api, "player", "", "give_item")
	require.NoError(t, err)

	want := Resolved{Module: "player", Name: "give_item", Func: api["player"]["give_item"]}
	if diff := cmp.Diff(want, r, cmpopts.IgnoreFields(model.ApiFunc{}, "Enums")); diff != "" {
		t.Errorf("resolved call mismatch (-want +got):\n%s", diff)
	}
}
