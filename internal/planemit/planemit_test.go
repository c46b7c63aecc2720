package planemit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mldsl-tools/mldsl/internal/coerce"
	"github.com/mldsl-tools/mldsl/internal/model"
)

func TestJoinArgs_EmptyIsNo(t *testing.T) {
	assert.Equal(t, model.NoArgs, JoinArgs(&model.ApiFunc{}, nil))
}

func TestJoinArgs_OrdersByParamThenEnumNotSlot(t *testing.T) {
	fn := &model.ApiFunc{
		Params: []model.Param{{Name: "var", Mode: model.ModeVariable, Slot: 13}},
		Enums:  []model.EnumDef{{Name: "mode", Slot: 3}},
	}
	// enum's slot (3) sorts below the param's slot (13); canonical order
	// still puts the param first per spec §4.16.
	args := []coerce.Arg{{Slot: 3, Value: "num(0)"}, {Slot: 13, Value: "var(x)"}}
	assert.Equal(t, "slot(13)=var(x),slot(3)=num(0)", JoinArgs(fn, args))
}

func TestJoinArgs_HistoricalMirrorSlotSortsAfterKnownParams(t *testing.T) {
	fn := &model.ApiFunc{Params: []model.Param{{Name: "var", Mode: model.ModeVariable, Slot: 13}}}
	args := []coerce.Arg{{Slot: 31, Value: "var(x)"}, {Slot: 13, Value: "var(x)"}}
	assert.Equal(t, "slot(13)=var(x),slot(31)=var(x)", JoinArgs(fn, args))
}

func TestEntry_UsesModuleBlock(t *testing.T) {
	fn := &model.ApiFunc{
		Sign1:  "Player Action",
		Sign2:  "Send Message",
		Params: []model.Param{{Name: "text", Mode: model.ModeText, Slot: 27}},
	}
	e := Entry("player", fn, []coerce.Arg{{Slot: 27, Value: `text("hi")`}}, false)
	assert.Equal(t, model.BlockDiamond, e.Block)
	assert.Equal(t, "Player Action||Send Message", e.Name)
	assert.Equal(t, `slot(27)=text("hi")`, e.Args)
	assert.False(t, e.Negated)
}

func TestEntry_ConditionalBlock(t *testing.T) {
	fn := &model.ApiFunc{Sign1: "If Player", Sign2: "Is Sneaking"}
	e := Entry("if_player", fn, nil, true)
	assert.Equal(t, model.BlockNetherBrick, e.Block)
	assert.Equal(t, "If Player||Is Sneaking", e.Name)
	assert.Equal(t, model.NoArgs, e.Args)
	assert.True(t, e.Negated)
}
