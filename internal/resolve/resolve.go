// Package resolve implements spec §4.12: turning a parsed qualified call
// into the concrete ApiFunc it names, including the select-scope
// rewriting rules and fuzzy-suggestion diagnostics for unresolved calls.
package resolve

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mldsl-tools/mldsl/internal/mlerr"
	"github.com/mldsl-tools/mldsl/internal/model"
	"github.com/mldsl-tools/mldsl/internal/translit"
)

// Resolved is the outcome of resolving one qualified call.
type Resolved struct {
	Module string
	Name   string
	Func   *model.ApiFunc
}

var scopeAliases = map[string]string{
	"if_player": "ifplayer", "ifplayer": "ifplayer",
	"if_mob": "ifmob", "ifmob": "ifmob",
	"if_entity": "ifentity", "ifentity": "ifentity",
}

func normalize(s string) string {
	return translit.Snake(s)
}

// Call resolves module.func(...) against api. scope is the parsed
// select.<scope> prefix, if any ("" otherwise).
func Call(api model.ApiMap, module, scope, name string) (Resolved, error) {
	if module == "select" && scope != "" {
		canon, ok := scopeAliases[scope]
		if !ok {
			return Resolved{}, mlerr.Newf(mlerr.KindResolverFailure, "unknown select scope %q", scope)
		}
		name = canon + "_" + name
	}

	bucket, ok := api[module]
	if !ok {
		return Resolved{}, mlerr.Newf(mlerr.KindResolverFailure, "unknown module %q", module)
	}

	normName := normalize(name)
	if fn, ok := lookupCanonical(bucket, normName); ok {
		return Resolved{Module: module, Name: normName, Func: fn}, nil
	}

	if fn, resolvedName, ok := lookupAlias(bucket, normName); ok {
		return Resolved{Module: module, Name: resolvedName, Func: fn}, nil
	}

	suggestions := suggest(bucket, normName)
	msg := "unresolved call " + module + "." + name
	if len(suggestions) > 0 {
		msg += "; did you mean: " + strings.Join(suggestions, ", ") + "?"
	}
	return Resolved{}, mlerr.New(mlerr.KindResolverFailure, msg)
}

func lookupCanonical(bucket map[string]*model.ApiFunc, name string) (*model.ApiFunc, bool) {
	for canon, fn := range bucket {
		if normalize(canon) == name {
			return fn, true
		}
	}
	return nil, false
}

func lookupAlias(bucket map[string]*model.ApiFunc, name string) (*model.ApiFunc, string, bool) {
	var matches []string
	for canon, fn := range bucket {
		for _, a := range fn.Aliases {
			if normalize(a) == name {
				matches = append(matches, canon)
				break
			}
		}
	}
	if len(matches) == 0 {
		return nil, "", false
	}
	if len(matches) > 1 {
		sort.Strings(matches)
		return nil, "", false // ambiguous; caller reports as resolver failure
	}
	return bucket[matches[0]], matches[0], true
}

// suggest returns up to 3 fuzzy-ranked candidate names for an
// unresolved call's resolver-failure diagnostic.
func suggest(bucket map[string]*model.ApiFunc, name string) []string {
	var candidates []string
	for canon, fn := range bucket {
		candidates = append(candidates, canon)
		candidates = append(candidates, fn.Aliases...)
	}
	sort.Strings(candidates)
	ranked := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranked)
	out := make([]string, 0, 3)
	seen := map[string]bool{}
	for _, r := range ranked {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// PreferredAlias exposes the alias-picking heuristic for diagnostics.
func PreferredAlias(fn *model.ApiFunc) string {
	return translit.PreferredAlias(fn.Aliases)
}
