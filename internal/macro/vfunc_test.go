package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mldsl-tools/mldsl/internal/dslast"
)

func TestCollectVFuncs_RejectsNameCollisionWithFunc(t *testing.T) {
	stmts := []dslast.Stmt{
		dslast.Func{Name: "heal"},
		dslast.VFuncDef{Name: "heal"},
	}
	_, err := CollectVFuncs(stmts)
	assert.Error(t, err)
}

func TestCollectVFuncs_CollectsDistinctNames(t *testing.T) {
	stmts := []dslast.Stmt{
		dslast.Func{Name: "other"},
		dslast.VFuncDef{Name: "double"},
	}
	table, err := CollectVFuncs(stmts)
	require.NoError(t, err)
	assert.Contains(t, table, "double")
	assert.NotContains(t, table, "other")
}

func doubleVFunc() dslast.VFuncDef {
	return dslast.VFuncDef{
		Name:   "double",
		Params: []dslast.VFuncParam{{Name: "x"}},
		Body: []dslast.Stmt{
			dslast.Call{Name: "give_item", Args: []dslast.NamedArg{
				{Key: "amount", Value: dslast.BinaryExpr{
					Op: "+", Left: dslast.Ident{Name: "x"}, Right: dslast.Ident{Name: "x"},
				}},
			}},
		},
	}
}

func TestExpandProgram_SubstitutesNamedArgumentIntoBody(t *testing.T) {
	table := VFuncTable{"double": doubleVFunc()}
	stmts := []dslast.Stmt{
		dslast.Event{Name: "join", Body: []dslast.Stmt{
			dslast.Call{Name: "double", Args: []dslast.NamedArg{{Key: "x", Value: dslast.NumberLit{Value: 5, Raw: "5"}}}},
		}},
	}

	out, err := ExpandProgram(stmts, table)
	require.NoError(t, err)
	require.Len(t, out, 1)
	ev := out[0].(dslast.Event)
	require.Len(t, ev.Body, 1)
	call := ev.Body[0].(dslast.Call)
	assert.Equal(t, "give_item", call.Name)
	bin := call.Args[0].Value.(dslast.BinaryExpr)
	assert.Equal(t, 5.0, bin.Left.(dslast.NumberLit).Value)
	assert.Equal(t, 5.0, bin.Right.(dslast.NumberLit).Value)
}

func TestExpandProgram_DropsVFuncDefinitionsFromOutput(t *testing.T) {
	table := VFuncTable{"double": doubleVFunc()}
	stmts := []dslast.Stmt{
		doubleVFunc(),
		dslast.Event{Name: "join", Body: nil},
	}
	out, err := ExpandProgram(stmts, table)
	require.NoError(t, err)
	require.Len(t, out, 1)
	_, isEvent := out[0].(dslast.Event)
	assert.True(t, isEvent)
}

func TestExpandProgram_AppliesDefaultWhenArgumentOmitted(t *testing.T) {
	def := dslast.VFuncDef{
		Name:   "give_default",
		Params: []dslast.VFuncParam{{Name: "amount", Default: "1", HasDefault: true}},
		Body: []dslast.Stmt{
			dslast.Call{Name: "give_item", Args: []dslast.NamedArg{{Key: "value", Value: dslast.Ident{Name: "amount"}}}},
		},
	}
	table := VFuncTable{"give_default": def}
	stmts := []dslast.Stmt{
		dslast.Event{Name: "join", Body: []dslast.Stmt{dslast.Call{Name: "give_default"}}},
	}

	out, err := ExpandProgram(stmts, table)
	require.NoError(t, err)
	call := out[0].(dslast.Event).Body[0].(dslast.Call)
	assert.Equal(t, dslast.Ident{Name: "1"}, call.Args[0].Value)
}

func TestExpandProgram_MissingRequiredArgumentErrors(t *testing.T) {
	table := VFuncTable{"double": doubleVFunc()}
	stmts := []dslast.Stmt{
		dslast.Event{Name: "join", Body: []dslast.Stmt{dslast.Call{Name: "double"}}},
	}
	_, err := ExpandProgram(stmts, table)
	assert.Error(t, err)
}

func TestExpandProgram_UnknownArgumentErrors(t *testing.T) {
	table := VFuncTable{"double": doubleVFunc()}
	stmts := []dslast.Stmt{
		dslast.Event{Name: "join", Body: []dslast.Stmt{
			dslast.Call{Name: "double", Args: []dslast.NamedArg{{Key: "bogus", Value: dslast.NumberLit{Value: 1}}}},
		}},
	}
	_, err := ExpandProgram(stmts, table)
	assert.Error(t, err)
}

func TestExpandProgram_DetectsRecursionCycle(t *testing.T) {
	table := VFuncTable{
		"loopy": dslast.VFuncDef{Name: "loopy", Body: []dslast.Stmt{dslast.Call{Name: "loopy"}}},
	}
	stmts := []dslast.Stmt{
		dslast.Event{Name: "join", Body: []dslast.Stmt{dslast.Call{Name: "loopy"}}},
	}
	_, err := ExpandProgram(stmts, table)
	assert.Error(t, err)
}
