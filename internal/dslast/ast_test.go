package dslast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprNodes_PositionRoundTrips(t *testing.T) {
	pos := Pos{Line: 3, Column: 7}

	var exprs = []Expr{
		Ident{Name: "x", Pos_: pos},
		StringLit{Value: "hi", Pos_: pos},
		NumberLit{Value: 1, Raw: "1", Pos_: pos},
		Placeholder{Name: "p", Pos_: pos},
		BinaryExpr{Op: "+", Pos_: pos},
		UnaryExpr{Op: "-", Pos_: pos},
		CallLit{Name: "item", Pos_: pos},
	}
	for _, e := range exprs {
		assert.Equal(t, pos, e.Position())
	}
}

func TestStmtNodes_PositionRoundTrips(t *testing.T) {
	pos := Pos{Line: 10, Column: 1}

	var stmts = []Stmt{
		Call{Name: "give_item", Pos_: pos},
		Assign{Name: "x", Op: "=", Pos_: pos},
		Event{Name: "join", Pos_: pos},
		Func{Name: "do_thing", Pos_: pos},
		Loop{Name: "tick", Ticks: 20, Pos_: pos},
		VFuncDef{Name: "macro1", Pos_: pos},
		VFuncCall{Name: "macro1", Pos_: pos},
		MultiSelect{Scope: "player", Selector: "all", Pos_: pos},
	}
	for _, s := range stmts {
		assert.Equal(t, pos, s.Position())
	}
}

func TestCall_NegationAndNestedBodyFields(t *testing.T) {
	inner := Call{Name: "teleport"}
	c := Call{
		Module:  "if_player",
		Name:    "is_sneaking",
		Negated: true,
		Body:    []Stmt{inner},
	}
	assert.True(t, c.Negated)
	assert.Len(t, c.Body, 1)
	assert.Equal(t, "teleport", c.Body[0].(Call).Name)
}

func TestLoop_CarriesTickCount(t *testing.T) {
	l := Loop{Name: "repeat", Ticks: 40}
	assert.Equal(t, 40, l.Ticks)
}

func TestVFuncParam_DefaultFlag(t *testing.T) {
	p := VFuncParam{Name: "amount", Default: "1", HasDefault: true}
	assert.True(t, p.HasDefault)
	assert.Equal(t, "1", p.Default)
}
