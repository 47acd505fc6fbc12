package errors

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, ValidationError{Field: "attempt_id", Message: "is required", Rule: "required"})
	assert.Equal(t, "validation failed: attempt_id is required", errs.Error())

	errs = append(errs, ValidationError{Field: "answers", Message: "must be at most 200", Rule: "max"})
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())

	got, ok := errs.Field("answers")
	require.True(t, ok)
	assert.Equal(t, "max", got.Rule)

	_, ok = errs.Field("quiz_id")
	assert.False(t, ok)
}

type sample struct {
	AttemptID uint   `validate:"required"`
	Answers   []int  `validate:"max=2"`
	Kind      string `validate:"oneof=a b"`
}

func TestToValidationErrors(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{Answers: []int{1, 2, 3}, Kind: "c"})
	require.Error(t, err)

	errs := ToValidationErrors(fmt.Errorf("wrapped: %w", err))
	require.Len(t, errs, 3)

	byRule := map[string]ValidationError{}
	for _, e := range errs {
		byRule[e.Rule] = e
	}
	assert.Equal(t, "is required", byRule["required"].Message)
	assert.Equal(t, "must be at most 2", byRule["max"].Message)
	assert.Equal(t, "must be one of: a b", byRule["oneof"].Message)
}

func TestToValidationErrors_ForeignError(t *testing.T) {
	assert.Nil(t, ToValidationErrors(fmt.Errorf("boom")))
}
