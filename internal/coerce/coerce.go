// Package coerce implements spec §4.13: turning a resolved call's raw
// argument expressions into the slot(N)=<value> strings the emitter
// joins into a PlanEntry, including temp-variable hoisting for
// non-constant expressions and the variable_exists historical mirror.
package coerce

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mldsl-tools/mldsl/internal/dslast"
	"github.com/mldsl-tools/mldsl/internal/mlerr"
	"github.com/mldsl-tools/mldsl/internal/model"
)

// TempVarPrefix names a synthetic variable introduced to hold a
// non-constant expression's value ahead of the call that uses it.
const TempVarPrefix = "__mldsl_tmpargf"

// HistoricalVariableExistsSlot is the legacy second slot that mirrors
// the single VARIABLE input of an "if_value.variable_exists" call.
const HistoricalVariableExistsSlot = 31

// Arg is one coerced, slot-addressed call argument.
type Arg struct {
	Slot  int
	Value string
}

// Hoist is a temp-variable assignment that must be emitted as a
// set_value call ahead of the call being coerced.
type Hoist struct {
	TempName string
	RHS      dslast.Expr
	Mode     model.Mode
}

// Coercer hoists non-constant expressions into uniquely-named temp
// variables. It is not safe for concurrent use; callers should create
// one per compilation pass.
type Coercer struct {
	tempCounter int
}

// New returns a Coercer with its temp-variable counter reset.
func New() *Coercer {
	return &Coercer{}
}

func (c *Coercer) nextTemp() string {
	name := fmt.Sprintf("%s%d", TempVarPrefix, c.tempCounter)
	c.tempCounter++
	return name
}

var normalizeSpaceRE = regexp.MustCompile(`\s+`)

func normalizeKey(s string) string {
	return strings.ToLower(normalizeSpaceRE.ReplaceAllString(strings.TrimSpace(s), " "))
}

// Coerce turns call's named arguments into slot-addressed values
// against fn's canonical params and enum defs. module is the resolved
// call's module, used only to detect the variable_exists
// historical-slot special case.
func (c *Coercer) Coerce(fn *model.ApiFunc, module string, args []dslast.NamedArg) ([]Arg, []Hoist, error) {
	byKey := map[string]dslast.Expr{}
	for _, a := range args {
		byKey[normalizeKey(a.Key)] = a.Value
	}

	paramByName := map[string]model.Param{}
	for _, p := range fn.Params {
		paramByName[normalizeKey(p.Name)] = p
	}
	enumByName := map[string]model.EnumDef{}
	for _, e := range fn.Enums {
		enumByName[normalizeKey(e.Name)] = e
	}

	for key := range byKey {
		if _, ok := paramByName[key]; ok {
			continue
		}
		if _, ok := enumByName[key]; ok {
			continue
		}
		return nil, nil, mlerr.Newf(mlerr.KindCoercionFailure, "unknown argument %q", key)
	}

	var out []Arg
	var hoists []Hoist

	for _, p := range fn.Params {
		expr, present := byKey[normalizeKey(p.Name)]
		if !present {
			continue
		}
		if p.Mode == model.ModeText {
			if s, ok := expr.(dslast.StringLit); ok && s.Value == "" {
				continue // empty text= is dropped, not emitted
			}
		}
		value, h, err := c.coerceValue(p.Mode, expr)
		if err != nil {
			return nil, nil, err
		}
		hoists = append(hoists, h...)
		out = append(out, Arg{Slot: p.Slot, Value: value})

		if isVariableExistsFunc(fn, module) && p.Mode == model.ModeVariable {
			out = append(out, Arg{Slot: HistoricalVariableExistsSlot, Value: value})
		}
	}

	for key, expr := range byKey {
		def, ok := enumByName[key]
		if !ok {
			continue
		}
		idx, err := resolveEnumOption(def, expr)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, Arg{Slot: def.Slot, Value: fmt.Sprintf("num(%d)", idx)})
	}

	return out, hoists, nil
}

// isVariableExistsFunc reports the variable_exists special case: the
// if_value.variable_exists function, whose single VARIABLE input must
// additionally be mirrored into the historical slot the original tool
// always populated there. Scoped select variants (ifplayer_variable_exists
// and friends) share the same single-VARIABLE-param shape but live in
// the select module, so gating on module excludes them.
func isVariableExistsFunc(fn *model.ApiFunc, module string) bool {
	if module != "if_value" {
		return false
	}
	count := 0
	for _, p := range fn.Params {
		if p.Mode == model.ModeVariable {
			count++
		}
	}
	return count == 1 && len(fn.Params) == 1
}

func resolveEnumOption(def model.EnumDef, expr dslast.Expr) (int, error) {
	raw, ok := literalText(expr)
	if !ok {
		return 0, mlerr.Newf(mlerr.KindEnumNotFound, "enum %q requires a literal option", def.Name)
	}
	key := normalizeKey(raw)
	for optName, idx := range def.Options {
		if normalizeKey(optName) == key {
			return idx, nil
		}
	}
	return 0, mlerr.Newf(mlerr.KindEnumNotFound, "unknown option %q for enum %q", raw, def.Name)
}

func literalText(e dslast.Expr) (string, bool) {
	switch v := e.(type) {
	case dslast.StringLit:
		return v.Value, true
	case dslast.Ident:
		return v.Name, true
	default:
		return "", false
	}
}

func (c *Coercer) coerceValue(mode model.Mode, e dslast.Expr) (string, []Hoist, error) {
	switch mode {
	case model.ModeText:
		return c.coerceText(e)
	case model.ModeNumber:
		return c.coerceNumber(e)
	case model.ModeVariable:
		v, err := coerceVariable(e)
		return v, nil, err
	case model.ModeItem, model.ModeVector:
		v, err := formatItemLit(e)
		return v, nil, err
	case model.ModeLocation:
		v, err := coerceLocation(e)
		return v, nil, err
	case model.ModeArray:
		v, err := coerceArray(e)
		return v, nil, err
	case model.ModeBlock:
		v, err := coerceBlock(e)
		return v, nil, err
	case model.ModeAny:
		return c.coerceAny(e)
	default:
		return "", nil, mlerr.Newf(mlerr.KindCoercionFailure, "unhandled mode %q", mode)
	}
}

var colorEscapeRE = regexp.MustCompile(`&(.)`)

const colorEscapeSentinel = "\x00AMP\x00"

// applyColorCodes turns bare "&x" sequences into the host's "§x" color
// marker, leaving a backslash-escaped "\&" as a literal ampersand.
func applyColorCodes(s string) string {
	s = strings.ReplaceAll(s, `\&`, colorEscapeSentinel)
	s = colorEscapeRE.ReplaceAllString(s, "§$1")
	return strings.ReplaceAll(s, colorEscapeSentinel, "&")
}

func quoteText(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func (c *Coercer) coerceText(e dslast.Expr) (string, []Hoist, error) {
	switch v := e.(type) {
	case dslast.StringLit:
		return "text(" + quoteText(applyColorCodes(v.Value)) + ")", nil, nil
	case dslast.Ident:
		return "var(" + v.Name + ")", nil, nil
	case dslast.Placeholder:
		return "var(" + v.Name + ")", nil, nil
	case dslast.NumberLit:
		return "text(" + quoteText(v.Raw) + ")", nil, nil
	default:
		temp := c.nextTemp()
		return "var(" + temp + ")", []Hoist{{TempName: temp, RHS: e, Mode: model.ModeText}}, nil
	}
}

func isConstantNumber(e dslast.Expr) bool {
	switch v := e.(type) {
	case dslast.NumberLit:
		return true
	case dslast.UnaryExpr:
		return isConstantNumber(v.Operand)
	case dslast.BinaryExpr:
		return isConstantNumber(v.Left) && isConstantNumber(v.Right)
	default:
		return false
	}
}

func foldNumber(e dslast.Expr) (float64, bool) {
	switch v := e.(type) {
	case dslast.NumberLit:
		return v.Value, true
	case dslast.UnaryExpr:
		operand, ok := foldNumber(v.Operand)
		if !ok {
			return 0, false
		}
		if v.Op == "-" {
			return -operand, true
		}
		return operand, true
	case dslast.BinaryExpr:
		l, ok := foldNumber(v.Left)
		if !ok {
			return 0, false
		}
		r, ok := foldNumber(v.Right)
		if !ok {
			return 0, false
		}
		switch v.Op {
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		case "/":
			return l / r, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (c *Coercer) coerceNumber(e dslast.Expr) (string, []Hoist, error) {
	switch v := e.(type) {
	case dslast.Ident:
		return "var(" + v.Name + ")", nil, nil
	case dslast.Placeholder:
		return "var(" + v.Name + ")", nil, nil
	case dslast.NumberLit:
		return "num(" + formatFloat(v.Value) + ")", nil, nil
	case dslast.UnaryExpr, dslast.BinaryExpr:
		if isConstantNumber(e) {
			f, _ := foldNumber(e)
			return "num(" + formatFloat(f) + ")", nil, nil
		}
		temp := c.nextTemp()
		return "var(" + temp + ")", []Hoist{{TempName: temp, RHS: e, Mode: model.ModeNumber}}, nil
	default:
		return "", nil, mlerr.New(mlerr.KindCoercionFailure, "NUMBER argument must be an identifier or arithmetic expression")
	}
}

func coerceVariable(e dslast.Expr) (string, error) {
	switch v := e.(type) {
	case dslast.Ident:
		return "var(" + v.Name + ")", nil
	case dslast.CallLit:
		if strings.EqualFold(v.Name, "item") {
			fmt.Fprintf(os.Stderr, "warning: item() literal used where a variable was expected\n")
			return formatItemLit(e)
		}
		return "", mlerr.Newf(mlerr.KindCoercionFailure, "VARIABLE argument cannot be a %s() literal", v.Name)
	default:
		return "", mlerr.New(mlerr.KindCoercionFailure, "VARIABLE argument must be an identifier")
	}
}

func exprRawText(e dslast.Expr) string {
	switch v := e.(type) {
	case dslast.StringLit:
		return v.Value
	case dslast.Ident:
		return v.Name
	case dslast.NumberLit:
		return v.Raw
	default:
		return ""
	}
}

func formatItemLit(e dslast.Expr) (string, error) {
	cl, ok := e.(dslast.CallLit)
	if !ok || !strings.EqualFold(cl.Name, "item") {
		return "", mlerr.New(mlerr.KindCoercionFailure, "expected an item(...) literal")
	}
	id := ""
	if len(cl.Positional) > 0 {
		id = exprRawText(cl.Positional[0])
	}
	var count, name string
	for _, n := range cl.Named {
		switch strings.ToLower(n.Key) {
		case "type":
			id = exprRawText(n.Value) // type= is a keyword alias for the positional id
		case "count":
			count = exprRawText(n.Value)
		case "name":
			name = exprRawText(n.Value)
		}
	}
	if id == "" {
		return "", mlerr.New(mlerr.KindCoercionFailure, "item(...) is missing its id")
	}
	parts := []string{id}
	if count != "" {
		parts = append(parts, "count="+count)
	}
	if name != "" {
		parts = append(parts, "name="+quoteText(name))
	}
	return "item(" + strings.Join(parts, ",") + ")", nil
}

func coerceBlock(e dslast.Expr) (string, error) {
	switch v := e.(type) {
	case dslast.Ident:
		return "var(" + v.Name + ")", nil
	case dslast.StringLit:
		return "item(" + v.Value + ")", nil
	default:
		return "", mlerr.New(mlerr.KindCoercionFailure, "BLOCK argument must be an identifier or block id")
	}
}

func coerceLocation(e dslast.Expr) (string, error) {
	switch v := e.(type) {
	case dslast.Ident:
		return "var(" + v.Name + ")", nil
	case dslast.CallLit:
		if !strings.EqualFold(v.Name, "loc") {
			return "", mlerr.Newf(mlerr.KindCoercionFailure, "LOCATION argument cannot be a %s() literal", v.Name)
		}
		if len(v.Positional) == 0 {
			return "", mlerr.New(mlerr.KindCoercionFailure, "loc(...) requires a coordinate string")
		}
		return "loc(" + quoteText(exprRawText(v.Positional[0])) + ")", nil
	case dslast.StringLit:
		return "item(minecraft:paper,name=" + quoteText(v.Value) + ")", nil
	default:
		return "", mlerr.New(mlerr.KindCoercionFailure, "LOCATION argument must be an identifier, loc(...), or bare string")
	}
}

const arraySaveSuffix = "⎘"

func coerceArray(e dslast.Expr) (string, error) {
	id, ok := e.(dslast.Ident)
	if !ok {
		return "", mlerr.New(mlerr.KindCoercionFailure, "ARRAY argument must be an identifier")
	}
	if strings.HasSuffix(id.Name, arraySaveSuffix) {
		return "arr_save(" + strings.TrimSuffix(id.Name, arraySaveSuffix) + ")", nil
	}
	return "arr(" + id.Name + ")", nil
}

func (c *Coercer) coerceAny(e dslast.Expr) (string, []Hoist, error) {
	switch v := e.(type) {
	case dslast.StringLit:
		return "text(" + quoteText(applyColorCodes(v.Value)) + ")", nil, nil
	case dslast.NumberLit:
		return "num(" + formatFloat(v.Value) + ")", nil, nil
	case dslast.Ident:
		return "var(" + v.Name + ")", nil, nil
	case dslast.Placeholder:
		return "var(" + v.Name + ")", nil, nil
	case dslast.CallLit:
		text, err := formatGenericLit(v)
		return text, nil, err
	default:
		temp := c.nextTemp()
		return "var(" + temp + ")", []Hoist{{TempName: temp, RHS: e, Mode: model.ModeAny}}, nil
	}
}

func formatGenericLit(cl dslast.CallLit) (string, error) {
	switch strings.ToLower(cl.Name) {
	case "item":
		return formatItemLit(cl)
	case "var":
		if len(cl.Positional) == 0 {
			return "", mlerr.New(mlerr.KindCoercionFailure, "var(...) requires a name")
		}
		return "var(" + exprRawText(cl.Positional[0]) + ")", nil
	case "loc":
		return coerceLocation(cl)
	default:
		return "", mlerr.Newf(mlerr.KindCoercionFailure, "unsupported literal %s(...)", cl.Name)
	}
}
