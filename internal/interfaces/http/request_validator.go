package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON (o query) del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// validateStruct aplica las etiquetas validate y devuelve un mensaje legible con el primer fallo.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return errors.New(fieldMessage(verrs[0]))
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", e.Field())
	case "email":
		return fmt.Sprintf("%s no es un email válido", e.Field())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s debe tener al menos %s caracteres", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s debe ser mayor o igual a %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s admite como máximo %s caracteres", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s debe ser menor o igual a %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s no es válido (%s)", e.Field(), e.Tag())
	}
}
