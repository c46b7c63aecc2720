// Package apivalidate implements spec §4.10: the post-build invariants
// every ApiMap must satisfy before it can be handed to the DSL compiler,
// plus a secondary JSON Schema validation pass and a schemaVersion
// compatibility guard.
package apivalidate

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/mldsl-tools/mldsl/internal/mlerr"
	"github.com/mldsl-tools/mldsl/internal/model"
)

const (
	prefixPlayer = "ifplayer_"
	prefixMob    = "ifmob_"
	prefixEntity = "ifentity_"
)

// Validate enforces the three hand-written invariants from §4.10.
func Validate(api model.ApiMap) error {
	sel, ok := api["select"]
	if !ok || len(sel) == 0 {
		return mlerr.New(mlerr.KindContractViolation, "select module must exist and be non-empty")
	}

	var hasPlayer, hasMob, hasEntity bool
	for name, fn := range sel {
		switch {
		case strings.HasPrefix(name, prefixPlayer):
			hasPlayer = true
		case strings.HasPrefix(name, prefixMob):
			hasMob = true
		case strings.HasPrefix(name, prefixEntity):
			hasEntity = true
		}
		if err := validateMeta(fn); err != nil {
			return err
		}
	}
	if !hasPlayer || !hasMob || !hasEntity {
		return mlerr.New(mlerr.KindContractViolation,
			"select module must contain at least one ifplayer_, ifmob_, and ifentity_ function")
	}

	for moduleName, funcs := range api {
		if moduleName == "select" {
			continue
		}
		for _, fn := range funcs {
			if err := validateMeta(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateMeta(fn *model.ApiFunc) error {
	switch fn.Meta.ParamSource {
	case model.ParamSourceRaw, model.ParamSourceNormalized:
		return nil
	default:
		return mlerr.Newf(mlerr.KindContractViolation,
			"function %q has invalid meta.paramSource %q", fn.ID, fn.Meta.ParamSource).ForRecord(fn.ID)
	}
}

// SchemaVersion is the current API JSON schemaVersion this compiler
// understands. A snapshot whose recorded version is newer is rejected.
const SchemaVersion = "v1.0.0"

// CheckSchemaVersion mirrors the decompiler's "version < 2" guard: it
// rejects an API snapshot produced by a newer schema than this compiler
// supports.
func CheckSchemaVersion(recorded string) error {
	if recorded == "" {
		return nil
	}
	if !strings.HasPrefix(recorded, "v") {
		recorded = "v" + recorded
	}
	if !semver.IsValid(recorded) {
		return nil
	}
	if semver.Compare(recorded, SchemaVersion) > 0 {
		return mlerr.Newf(mlerr.KindContractViolation,
			"API snapshot schemaVersion %s is newer than supported %s", recorded, SchemaVersion)
	}
	return nil
}
