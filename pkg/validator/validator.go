package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

var validate = validator.New()

func init() {
	// uuid.UUID zero value passes "required", so check for uuid.Nil explicitly.
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

// ValidateStruct runs tag validation and collects every failed field.
func ValidateStruct(data interface{}) []FieldError {
	var errs []FieldError
	if err := validate.Struct(data); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs = append(errs, FieldError{
				Field: fe.Field(),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
	}
	return errs
}
