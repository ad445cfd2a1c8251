package util

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"fintrack-server/src/models"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names, not Go struct names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("strongpassword", validStrongPassword); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("currency", validCurrency); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("maxamount", validMaxAmount); err != nil {
		panic(err)
	}
	return v
}

func validCurrency(fl validator.FieldLevel) bool {
	return slices.Contains(models.SupportedCurrencies, fl.Field().String())
}

func validMaxAmount(fl validator.FieldLevel) bool {
	return fl.Field().Float() <= models.MaxAmount
}

var (
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func validStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	return hasLower.MatchString(password) &&
		hasUpper.MatchString(password) &&
		hasDigit.MatchString(password) &&
		hasSpecial.MatchString(password)
}

// ValidateStruct runs the tagged rules and flattens failures into the
// per-field error list the API returns on 400s.
func ValidateStruct(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: "invalid request"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "currency":
		return "must be one of: " + strings.Join(models.SupportedCurrencies, " ")
	case "maxamount":
		return fmt.Sprintf("must be at most %d", models.MaxAmount)
	case "uuid":
		return "must be a valid id"
	case "strongpassword":
		return "must be at least 8 characters with uppercase, lowercase, digit, and special character"
	default:
		return "is invalid"
	}
}
