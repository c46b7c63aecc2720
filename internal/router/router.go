// Package router implements spec §4.8: choosing a canonical module and
// function-name scope for an ActionRecord from its sign1/sign2 fields.
package router

import (
	"strconv"
	"strings"
)

// VarOperator maps the five var-assignment sign2 tokens to their
// canonical function names.
var VarOperator = map[string]string{
	"=": "set_value",
	"+": "set_sum",
	"-": "set_difference",
	"*": "set_product",
	"/": "set_quotient",
}

// Select scopes.
const (
	ScopePlayer = "ifplayer"
	ScopeMob    = "ifmob"
	ScopeEntity = "ifentity"
)

var ifKeywordScopes = []struct {
	keyword string
	module  string
}{
	{"игрок", "if_player"}, {"player", "if_player"},
	{"игра", "if_game"}, {"game", "if_game"},
	{"объект", "if_entity"}, {"entity", "if_entity"},
	{"значен", "if_value"}, {"value", "if_value"},
}

// Module routes sign1 to a top-level module name.
func Module(sign1 string) string {
	low := strings.ToLower(strings.TrimSpace(sign1))
	switch {
	case low == "действие игрока" || low == "player action":
		return "player"
	case low == "игровое действие" || low == "game action":
		return "game"
	case low == "выбрать объект" || low == "select object":
		return "select"
	case low == "массив" || low == "array":
		return "array"
	case strings.Contains(low, "присв") || low == "установить переменную" || low == "assign variable" || low == "set variable":
		return "var"
	case strings.HasPrefix(low, "если ") || strings.HasPrefix(low, "if "):
		remainder := low
		if strings.HasPrefix(low, "если ") {
			remainder = low[len("если "):]
		} else {
			remainder = low[len("if "):]
		}
		for _, k := range ifKeywordScopes {
			if strings.Contains(remainder, k.keyword) {
				return k.module
			}
		}
		return "if_value"
	default:
		return "misc"
	}
}

// SelectScope partitions the select module by sign2.
func SelectScope(sign2 string) (scope string, ok bool) {
	low := strings.ToLower(strings.TrimSpace(sign2))
	switch {
	case strings.Contains(low, "player") || strings.Contains(low, "игрок"):
		return ScopePlayer, true
	case strings.Contains(low, "mob") || strings.Contains(low, "моб"):
		return ScopeMob, true
	case strings.Contains(low, "entity") || strings.Contains(low, "объект"):
		return ScopeEntity, true
	default:
		return "", false
	}
}

// ScopedName builds the canonical select function name "{scope}_{base}".
func ScopedName(scope, base string) string {
	return scope + "_" + base
}

// Dedup resolves a (module, name) collision by appending a numeric
// suffix to name. taken reports whether a candidate name is already in
// use for module; Dedup calls it with increasing suffixes until it finds
// a free one.
func Dedup(name string, taken func(candidate string) bool) string {
	if !taken(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
