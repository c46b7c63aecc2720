package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mldsl-tools/mldsl/internal/dslast"
	"github.com/mldsl-tools/mldsl/internal/model"
)

func fn(params ...model.Param) *model.ApiFunc {
	return &model.ApiFunc{Params: params}
}

func TestCoerce_VariableBareIdent(t *testing.T) {
	c := New()
	out, hoists, err := c.Coerce(fn(model.Param{Name: "var", Mode: model.ModeVariable, Slot: 13}), "var",
		[]dslast.NamedArg{{Key: "var", Value: dslast.Ident{Name: "x"}}})
	require.NoError(t, err)
	require.Empty(t, hoists)
	require.Len(t, out, 1)
	assert.Equal(t, Arg{Slot: 13, Value: "var(x)"}, out[0])
}

func TestCoerce_VariableExistsMirrorsHistoricalSlot(t *testing.T) {
	c := New()
	out, _, err := c.Coerce(fn(model.Param{Name: "var", Mode: model.ModeVariable, Slot: 13}), "if_value",
		[]dslast.NamedArg{{Key: "var", Value: dslast.Ident{Name: "x"}}})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, Arg{Slot: 13, Value: "var(x)"}, out[0])
	assert.Equal(t, Arg{Slot: HistoricalVariableExistsSlot, Value: "var(x)"}, out[1])
}

func TestCoerce_NumberConstantFolding(t *testing.T) {
	c := New()
	expr := dslast.UnaryExpr{Op: "-", Operand: dslast.NumberLit{Value: 3, Raw: "3"}}
	out, hoists, err := c.Coerce(fn(model.Param{Name: "num", Mode: model.ModeNumber, Slot: 7}), "var",
		[]dslast.NamedArg{{Key: "num", Value: expr}})
	require.NoError(t, err)
	require.Empty(t, hoists)
	assert.Equal(t, "num(-3)", out[0].Value)
}

func TestCoerce_NumberNonConstantHoists(t *testing.T) {
	c := New()
	expr := dslast.BinaryExpr{Op: "+", Left: dslast.Ident{Name: "a"}, Right: dslast.NumberLit{Value: 1, Raw: "1"}}
	out, hoists, err := c.Coerce(fn(model.Param{Name: "num", Mode: model.ModeNumber, Slot: 7}), "var",
		[]dslast.NamedArg{{Key: "num", Value: expr}})
	require.NoError(t, err)
	require.Len(t, hoists, 1)
	assert.Equal(t, "var("+hoists[0].TempName+")", out[0].Value)
	assert.Equal(t, model.ModeNumber, hoists[0].Mode)
}

func TestCoerce_TextColorCodeEscape(t *testing.T) {
	c := New()
	out, _, err := c.Coerce(fn(model.Param{Name: "text", Mode: model.ModeText, Slot: 27}), "player",
		[]dslast.NamedArg{{Key: "text", Value: dslast.StringLit{Value: `&ahello \& world`}}})
	require.NoError(t, err)
	assert.Equal(t, `text("§ahello & world")`, out[0].Value)
}

func TestCoerce_EmptyTextDropped(t *testing.T) {
	c := New()
	out, _, err := c.Coerce(fn(model.Param{Name: "text", Mode: model.ModeText, Slot: 27}), "player",
		[]dslast.NamedArg{{Key: "text", Value: dslast.StringLit{Value: ""}}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCoerce_UnknownArgumentFailsFast(t *testing.T) {
	c := New()
	_, _, err := c.Coerce(fn(model.Param{Name: "var", Mode: model.ModeVariable, Slot: 13}), "var",
		[]dslast.NamedArg{{Key: "bogus", Value: dslast.Ident{Name: "x"}}})
	require.Error(t, err)
}

func TestCoerce_EnumOption(t *testing.T) {
	f := fn()
	f.Enums = []model.EnumDef{{Name: "Mode", Slot: 20, Options: map[string]int{"Fast": 0, "Slow": 1}}}
	c := New()
	out, _, err := c.Coerce(f, "player", []dslast.NamedArg{{Key: "mode", Value: dslast.StringLit{Value: "slow"}}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, Arg{Slot: 20, Value: "num(1)"}, out[0])
}

func TestCoerce_ScopedSelectVariableExistsDoesNotMirror(t *testing.T) {
	c := New()
	out, _, err := c.Coerce(fn(model.Param{Name: "var", Mode: model.ModeVariable, Slot: 13}), "select",
		[]dslast.NamedArg{{Key: "var", Value: dslast.Ident{Name: "x"}}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, Arg{Slot: 13, Value: "var(x)"}, out[0])
}

func TestCoerce_ItemLiteral(t *testing.T) {
	c := New()
	lit := dslast.CallLit{Name: "item", Positional: []dslast.Expr{dslast.Ident{Name: "minecraft:diamond_sword"}},
		Named: []dslast.NamedArg{{Key: "count", Value: dslast.NumberLit{Value: 2, Raw: "2"}}}}
	out, _, err := c.Coerce(fn(model.Param{Name: "item", Mode: model.ModeItem, Slot: 4}), "player",
		[]dslast.NamedArg{{Key: "item", Value: lit}})
	require.NoError(t, err)
	assert.Equal(t, "item(minecraft:diamond_sword,count=2)", out[0].Value)
}
