// Package validation valida DTOs de entrada con go-playground/validator y
// traduce los fallos a domain.ErrInvalidInput con los nombres JSON de los campos.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/rentmojo-api/internal/domain"
)

// Validator envuelve *validator.Validate. Es seguro para uso concurrente.
type Validator struct {
	v *validator.Validate
}

// New construye un Validator que reporta los campos por su tag json.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida s. Devuelve nil o un error que envuelve domain.ErrInvalidInput.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field %s is a required field", field)
	case "email":
		return fmt.Sprintf("field %s must be a valid email", field)
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", field, fe.Param())
	case "min", "gt":
		return fmt.Sprintf("field %s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("field %s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("field %s is not valid", field)
	}
}

// fieldPath quita el nombre del struct raíz: "CreateRentalRequest.userDetails.name" -> "userDetails.name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
