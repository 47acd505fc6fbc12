package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/quiz-attempt-service/internal/errors"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the struct validator with the service's custom rules
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates s and converts failures into ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	// An answer carries either an option or a text, never both
	validate.RegisterStructValidation(validateAnswerInput, models.AnswerInput{})

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateAnswerInput(sl validator.StructLevel) {
	answer := sl.Current().Interface().(models.AnswerInput)
	if answer.SelectedOptionID != nil && answer.TextAnswer != nil {
		sl.ReportError(answer.TextAnswer, "text_answer", "TextAnswer", "answer_payload", "")
	}
}
