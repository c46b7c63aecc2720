// Package apinorm builds the normalized ApiMap (spec §4.7-4.9) from the
// raw ActionRecord catalog the extractor produces: module routing, param
// canonicalization, alias-set construction, and enum assembly.
package apinorm

import (
	"sort"
	"strings"

	"github.com/mldsl-tools/mldsl/internal/model"
	"github.com/mldsl-tools/mldsl/internal/paramnorm"
	"github.com/mldsl-tools/mldsl/internal/router"
	"github.com/mldsl-tools/mldsl/internal/translit"
)

// Build assembles the ApiMap from the extracted records, in discovery
// order (stable iteration over records, which are already slot-ordered).
func Build(records []model.ActionRecord) model.ApiMap {
	api := model.ApiMap{}

	for _, rec := range records {
		moduleName := router.Module(rec.Signs[0])
		base := canonicalBase(rec)

		name := base
		scope := ""
		if moduleName == "select" {
			if s, ok := router.SelectScope(rec.Signs[1]); ok {
				scope = s
				name = router.ScopedName(scope, base)
			}
		}
		if moduleName == "var" {
			if op, ok := router.VarOperator[strings.TrimSpace(rec.Signs[1])]; ok {
				name = op
			}
		}

		bucket, ok := api[moduleName]
		if !ok {
			bucket = map[string]*model.ApiFunc{}
			api[moduleName] = bucket
		}
		name = router.Dedup(name, func(candidate string) bool {
			_, exists := bucket[candidate]
			return exists
		})

		fn := buildFunc(rec, name, scope)
		bucket[name] = fn
	}

	return api
}

func canonicalBase(rec model.ActionRecord) string {
	source := rec.Signs[1]
	if source == "" {
		source = rec.GUI
	}
	if source == "" {
		source = rec.Subitem
	}
	return translit.Snake(translit.Translit(source))
}

func buildFunc(rec model.ActionRecord, name, scope string) *model.ApiFunc {
	variableExistsFamily := paramnorm.IsVariableExistsFamily(rec.Signs[0], rec.Signs[1], rec.GUI, "")
	bindings := make([]model.ArgBinding, len(rec.Args))
	copy(bindings, rec.Args)

	result := paramnorm.Normalize(bindings, variableExistsFamily)
	params, fallbackApplied := paramnorm.MergeFallback(result.Params, paramnorm.Fallback[name])
	source := result.Source
	if fallbackApplied {
		source = model.ParamSourceNormalized
	}

	var enums []model.EnumDef
	for _, e := range rec.Enums {
		options := map[string]int{}
		var order []string
		for i, opt := range e.Variant.Options {
			key := translit.Snake(opt)
			if _, exists := options[key]; !exists {
				order = append(order, key)
			}
			options[key] = i
		}
		enumName := enumName(e.Name)
		enums = append(enums, model.EnumDef{Name: enumName, Slot: e.Slot, Options: options, OptionOrder: order})
	}
	sort.Slice(enums, func(i, j int) bool { return enums[i].Slot < enums[j].Slot })

	return &model.ApiFunc{
		ID:             rec.ID,
		Sign1:          rec.Signs[0],
		Sign2:          rec.Signs[1],
		GUI:            rec.GUI,
		Menu:           rec.Subitem,
		Aliases:        buildAliases(rec, name, scope),
		Description:    translit.StripColors(rec.GUI),
		DescriptionRaw: rec.GUI,
		Params:         params,
		Enums:          enums,
		Meta:           model.ApiFuncMeta{ParamSource: source},
	}
}

// enumName derives an enum's canonical name from its discovered slot
// item name, following the async/separator/include_empty substring
// heuristics before falling back to a plain snake form.
func enumName(rawName string) string {
	low := strings.ToLower(rawName)
	switch {
	case strings.Contains(low, "async") || strings.Contains(low, "асинхрон"):
		return "async"
	case strings.Contains(low, "separator") || strings.Contains(low, "раздел"):
		return "separator"
	case strings.Contains(low, "include_empty") || strings.Contains(low, "пуст"):
		return "include_empty"
	default:
		return translit.Snake(translit.Translit(rawName))
	}
}

func buildAliases(rec model.ActionRecord, finalName, scope string) []string {
	set := map[string]bool{finalName: true}
	legacy := translit.Snake(translit.Translit(rec.Signs[1]))
	if legacy != "" {
		set[legacy] = true
	}
	source := rec.Signs[1]
	if source == "" {
		source = rec.GUI
	}
	if source != "" {
		set[translit.EnglishishAlias(source)] = true
		set[translit.RusIdent(source)] = true
	}
	if rec.GUI != "" {
		set[translit.RusIdent(rec.GUI)] = true
	}
	if rec.Subitem != "" {
		menuAlias := rec.Subitem
		if idx := strings.Index(menuAlias, "/"); idx >= 0 {
			set[translit.Snake(translit.Translit(menuAlias[:idx]))] = true
		}
		set[translit.Snake(translit.Translit(menuAlias))] = true
	}
	if scope != "" {
		set[scope+"_"+legacy] = true
	}

	aliases := make([]string, 0, len(set))
	for a := range set {
		if a != "" {
			aliases = append(aliases, a)
		}
	}
	sort.Strings(aliases)
	return aliases
}
