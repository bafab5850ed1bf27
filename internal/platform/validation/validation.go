// Package validation valida inputs con tags `validate:"..."` y traduce los
// errores a apperr.ValidationError con mensajes en español por campo.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
)

var phoneRe = regexp.MustCompile(`^[\+]?[1-9][\d]{0,15}$`)

// *validator.Validate cachea los structs y es seguro para uso concurrente.
var std = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	// Los errores se reportan con el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("telefono", func(fl validator.FieldLevel) bool {
		s := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(fl.Field().String())
		return phoneRe.MatchString(s)
	})
	return v
}

// Struct valida s y devuelve nil o un *apperr.ValidationError.
func Struct(s any) error {
	err := std.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &apperr.ValidationError{Message: err.Error()}
	}

	ve := &apperr.ValidationError{}
	for _, fe := range verrs {
		ve.Add(fe.Field(), message(fe))
	}
	return ve.OrNil()
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "telefono":
		return "debe ser un teléfono válido"
	case "oneof":
		return "debe ser uno de: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "min":
		if isString {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		if isString {
			return "debe tener como máximo " + fe.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + fe.Param()
	case "gte":
		return "debe ser mayor o igual a " + fe.Param()
	case "lte":
		return "debe ser menor o igual a " + fe.Param()
	case "gt":
		return "debe ser mayor a " + fe.Param()
	case "dive":
		return "contiene valores inválidos"
	default:
		return "no es válido"
	}
}
