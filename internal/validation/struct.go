package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister("activity_type", func(fl validator.FieldLevel) bool {
		return domain.ActivityType(fl.Field().String()).Valid()
	})
	mustRegister("intensity", func(fl validator.FieldLevel) bool {
		return domain.Intensity(fl.Field().String()).Valid()
	})
	mustRegister("gender", func(fl validator.FieldLevel) bool {
		return domain.Gender(fl.Field().String()).Valid()
	})
	mustRegister("clock", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseClock(fl.Field().String())
		return ok
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct runs the declarative `validate` tags on v and converts failures
// into field errors keyed by JSON name ("profile.height" for nested fields).
func Struct(v interface{}) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "non_field_errors", Kind: InvalidValue, Message: err.Error()}}
	}

	var out Errors
	for _, fe := range verrs {
		out = append(out, translate(fe))
	}
	return out
}

func translate(fe validator.FieldError) FieldError {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	isString := fe.Kind() == reflect.String
	kind := InvalidValue
	var msg string
	switch fe.Tag() {
	case "required":
		kind = MissingRequiredField
		msg = "This field is required."
	case "min", "gte":
		if isString {
			msg = fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		} else {
			msg = fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		}
	case "max", "lte":
		if isString {
			msg = fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		} else {
			msg = fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		}
	case "lt":
		msg = fmt.Sprintf("Ensure this value is less than %s.", fe.Param())
	case "email":
		msg = "Enter a valid email address."
	case "url":
		msg = "Enter a valid URL."
	case "datetime":
		msg = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	case "clock":
		msg = "Time has wrong format. Use one of these formats instead: hh:mm[:ss]."
	case "activity_type", "intensity", "gender":
		msg = fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	default:
		msg = fmt.Sprintf("field must satisfy %s constraint", fe.Tag())
	}
	return FieldError{Field: field, Kind: kind, Message: msg}
}
