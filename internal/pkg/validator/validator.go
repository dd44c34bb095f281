package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
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

	registerCustomValidations()
}

func registerCustomValidations() {
	// Moderation action validation
	validate.RegisterValidation("report_action", func(fl validator.FieldLevel) bool {
		action := fl.Field().String()
		for _, a := range []string{"warn", "ban", "dismiss"} {
			if action == a {
				return true
			}
		}
		return false
	})

	// Collection name validation
	validate.RegisterValidation("collection_name", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		for _, c := range []string{"watching", "completed", "plan_to_watch", "dropped", "favorites"} {
			if name == c {
				return true
			}
		}
		return false
	})

	// Username validation: letters, digits, underscores
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if len(name) < 3 || len(name) > 80 {
			return false
		}
		for _, r := range name {
			if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "report_action":
			errors[field] = "Invalid action. Must be: warn, ban, or dismiss"
		case "collection_name":
			errors[field] = "Invalid collection. Must be: watching, completed, plan_to_watch, dropped, or favorites"
		case "username":
			errors[field] = "Username must be 3-80 characters: letters, digits, underscores"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
