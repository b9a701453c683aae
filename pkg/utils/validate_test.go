package utils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/marigold/pkg/models"
	"github.com/Ramsey-B/marigold/pkg/utils"
)

type pagedFilter struct {
	Page  string `query:"page" validate:"omitempty,numeric"`
	Limit string `validate:"omitempty,len=2"`
}

func TestValidate(t *testing.T) {
	_, err := utils.Validate(pagedFilter{Page: "3", Limit: "10"})
	assert.NoError(t, err)

	_, err = utils.Validate(pagedFilter{})
	assert.NoError(t, err)

	_, err = utils.Validate(pagedFilter{Page: "x"})
	require.Error(t, err)
	assert.Equal(t, `invalid page "x": rule 'numeric'`, err.Error())

	_, err = utils.Validate(pagedFilter{Limit: "100"})
	require.Error(t, err)
	assert.Equal(t, `invalid Limit "100": rule 'len' expected '2'`, err.Error())
}

// Year format is checked when the filter is parsed, where the value is trimmed.
func TestValidate_FiltersLeaveYearToParsing(t *testing.T) {
	_, err := utils.Validate(models.AttributeFilter{BirthYear: " 1990"})
	assert.NoError(t, err)
}

func TestValidationErrorToString_PassesThroughOtherErrors(t *testing.T) {
	err := errors.New("boom")
	assert.Same(t, err, utils.ValidationErrorToString(err))
}
