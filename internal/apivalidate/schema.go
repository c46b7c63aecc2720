package apivalidate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mldsl-tools/mldsl/internal/mlerr"
	"github.com/mldsl-tools/mldsl/internal/model"
)

// apiFuncSchemaJSON describes the ApiFunc shape from §3's field
// invariants, layered on top of the hand-written checks in Validate as
// an independent second pass.
const apiFuncSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["id", "sign1", "aliases", "params", "meta"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"aliases": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		},
		"params": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "mode", "slot"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"slot": {"type": "integer", "minimum": 0}
				}
			}
		},
		"meta": {
			"type": "object",
			"required": ["paramSource"],
			"properties": {
				"paramSource": {"enum": ["raw", "normalized"]}
			}
		}
	}
}`

const schemaResourceURL = "mem://mldsl/apifunc.json"

func compileFuncSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResourceURL, strings.NewReader(apiFuncSchemaJSON)); err != nil {
		return nil, fmt.Errorf("apivalidate: adding schema resource: %w", err)
	}
	return compiler.Compile(schemaResourceURL)
}

// ValidateSchema runs every ApiFunc in api through the JSON Schema
// validator as a second, independent check over the hand-written
// invariants in Validate.
func ValidateSchema(api model.ApiMap) error {
	schema, err := compileFuncSchema()
	if err != nil {
		return mlerr.Wrap(mlerr.KindContractViolation, "compiling API schema", err)
	}

	for moduleName, funcs := range api {
		for name, fn := range funcs {
			data, err := json.Marshal(fn)
			if err != nil {
				return mlerr.Wrap(mlerr.KindContractViolation, "marshaling "+moduleName+"."+name, err)
			}
			var v interface{}
			if err := json.Unmarshal(data, &v); err != nil {
				return mlerr.Wrap(mlerr.KindContractViolation, "decoding "+moduleName+"."+name, err)
			}
			if err := schema.Validate(v); err != nil {
				return mlerr.Wrap(mlerr.KindContractViolation,
					fmt.Sprintf("schema violation in %s.%s", moduleName, name), err)
			}
		}
	}
	return nil
}
