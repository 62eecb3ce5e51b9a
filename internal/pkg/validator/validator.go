package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/landesnetz/landesnetz-api/internal/pkg/bundesland"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("bundesland", func(fl validator.FieldLevel) bool {
		return bundesland.Valid(fl.Field().String())
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string)
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[field] = "Pflichtfeld"
		case "email":
			fields[field] = "Ungültige E-Mail-Adresse"
		case "min":
			fields[field] = "Zu kurz (mindestens " + fe.Param() + ")"
		case "max":
			fields[field] = "Zu lang (höchstens " + fe.Param() + ")"
		case "bundesland":
			fields[field] = "Unbekanntes Bundesland"
		default:
			fields[field] = "Ungültiger Wert"
		}
	}

	return fields
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
