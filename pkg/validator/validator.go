package validator

import (
	"github.com/go-playground/validator/v10"
)

// ErrorResponse un fallo de validación de campo.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// ValidateStruct valida los tags `validate` del struct y devuelve un fallo por
// campo (vacío si todo pasa).
func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errs = append(errs, &ErrorResponse{
				FailedField: err.StructNamespace(),
				Tag:         err.Tag(),
				Value:       err.Param(),
			})
		}
	}
	return errs
}
