package apivalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mldsl-tools/mldsl/internal/mlerr"
	"github.com/mldsl-tools/mldsl/internal/model"
)

func validFunc(id string) *model.ApiFunc {
	return &model.ApiFunc{
		ID:      id,
		Sign1:   "x",
		Aliases: []string{id},
		Params:  []model.Param{{Name: "var", Mode: model.ModeVariable, Slot: 1}},
		Meta:    model.ApiFuncMeta{ParamSource: model.ParamSourceRaw},
	}
}

func fullAPI() model.ApiMap {
	return model.ApiMap{
		"select": {
			"ifplayer_closest": validFunc("r1"),
			"ifmob_closest":    validFunc("r2"),
			"ifentity_closest": validFunc("r3"),
		},
		"player": {
			"give_item": validFunc("r4"),
		},
	}
}

func TestValidate_AcceptsCompleteAPI(t *testing.T) {
	assert.NoError(t, Validate(fullAPI()))
}

func TestValidate_RejectsMissingSelectModule(t *testing.T) {
	api := model.ApiMap{"player": {"give_item": validFunc("r1")}}
	err := Validate(api)
	require.Error(t, err)
	var mErr *mlerr.Error
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, mlerr.KindContractViolation, mErr.Kind)
}

func TestValidate_RejectsMissingScopeFamily(t *testing.T) {
	api := model.ApiMap{
		"select": {
			"ifplayer_closest": validFunc("r1"),
			"ifmob_closest":    validFunc("r2"),
			// no ifentity_ function
		},
	}
	err := Validate(api)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ifentity_")
}

func TestValidate_RejectsInvalidParamSource(t *testing.T) {
	api := fullAPI()
	bad := validFunc("bad")
	bad.Meta.ParamSource = "garbage"
	api["player"]["bad"] = bad

	err := Validate(api)
	require.Error(t, err)
	var mErr *mlerr.Error
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, "bad", mErr.Record)
}

func TestValidateSchema_AcceptsCompleteAPI(t *testing.T) {
	assert.NoError(t, ValidateSchema(fullAPI()))
}

func TestValidateSchema_RejectsMissingRequiredField(t *testing.T) {
	api := model.ApiMap{
		"player": {
			"broken": {ID: "", Sign1: "x", Aliases: []string{"broken"}, Meta: model.ApiFuncMeta{ParamSource: model.ParamSourceRaw}},
		},
	}
	err := ValidateSchema(api)
	assert.Error(t, err)
}

func TestCheckSchemaVersion_AcceptsEmptyAndCurrent(t *testing.T) {
	assert.NoError(t, CheckSchemaVersion(""))
	assert.NoError(t, CheckSchemaVersion(SchemaVersion))
	assert.NoError(t, CheckSchemaVersion("v0.9.0"))
}

func TestCheckSchemaVersion_RejectsNewerVersion(t *testing.T) {
	err := CheckSchemaVersion("v2.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer")
}
