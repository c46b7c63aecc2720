package macro

import (
	"strings"

	"github.com/mldsl-tools/mldsl/internal/dslast"
	"github.com/mldsl-tools/mldsl/internal/mlerr"
)

// selectAllNames maps a multiselect scope keyword to the canonical
// "select all" action name emitted before the weighted conditions.
var selectAllNames = map[string]string{
	"ifplayer": "Все игроки",
	"ifmob":    "Все мобы",
	"ifentity": "Все объекты",
}

// compareNumbersNames maps a scope to the scope-appropriate "compare
// numbers (simple)" action used as the cutoff check.
var compareNumbersNames = map[string]string{
	"ifplayer": "Сравнить числа (Облегчённая версия)||Игрок по условию",
	"ifmob":    "Сравнить числа (Облегчённая версия)||Моб по условию",
	"ifentity": "Сравнить числа (Облегчённая версия)||Объект по условию",
}

// ExpandMultiSelect turns a MultiSelect construct into its canonical
// call sequence: select-all, each weighted condition, then a numeric
// comparison against the cutoff.
func ExpandMultiSelect(ms dslast.MultiSelect) ([]dslast.Stmt, error) {
	selectAll, ok := selectAllNames[ms.Scope]
	if !ok {
		return nil, mlerr.Newf(mlerr.KindMacroError, "unknown multiselect scope %q", ms.Scope).AtLine(ms.Pos_.Line, ms.Pos_.Column)
	}

	var out []dslast.Stmt
	out = append(out, dslast.Call{Name: selectAll, Pos_: ms.Pos_})

	for _, line := range ms.Body {
		if !strings.EqualFold(line.Call.Module, "select") {
			return nil, mlerr.Newf(mlerr.KindMacroError,
				"scope mismatch: multiselect %s body references %s.%s",
				ms.Scope, line.Call.Module, line.Call.Name).AtLine(line.Call.Pos_.Line, line.Call.Pos_.Column)
		}
		if !strings.EqualFold(line.Call.Scope, ifScopeAlias(ms.Scope)) && !strings.EqualFold(line.Call.Scope, ms.Scope) {
			return nil, mlerr.Newf(mlerr.KindMacroError,
				"scope mismatch: multiselect header %q does not match condition scope %q",
				ms.Scope, line.Call.Scope).AtLine(line.Call.Pos_.Line, line.Call.Pos_.Column)
		}
		out = append(out, line.Call)
		if line.Weight != "" {
			weightName := weightOperatorName(line.Weight)
			args := []dslast.NamedArg{}
			if line.Factor != nil {
				args = append(args, dslast.NamedArg{Key: "num", Value: line.Factor})
			}
			out = append(out, dslast.Call{Name: weightName, Args: args, Pos_: line.Call.Pos_})
		}
	}

	compareName, ok := compareNumbersNames[ms.Scope]
	if !ok {
		return nil, mlerr.Newf(mlerr.KindMacroError, "unknown multiselect scope %q", ms.Scope).AtLine(ms.Pos_.Line, ms.Pos_.Column)
	}
	out = append(out, dslast.Call{
		Name: compareName,
		Args: []dslast.NamedArg{{Key: "num", Value: dslast.Ident{Name: ms.Selector, Pos_: ms.Pos_}}, {Key: "num2", Value: ms.Cutoff}},
		Pos_: ms.Pos_,
	})
	return out, nil
}

func ifScopeAlias(scope string) string {
	switch scope {
	case "ifplayer":
		return "if_player"
	case "ifmob":
		return "if_mob"
	case "ifentity":
		return "if_entity"
	default:
		return scope
	}
}

func weightOperatorName(op string) string {
	switch op {
	case "+":
		return "+||+"
	case "-":
		return "-||-"
	case "*":
		return "*||*"
	case "/=":
		return "/||/"
	default:
		return op
	}
}
