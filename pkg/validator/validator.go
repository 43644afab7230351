// Package validator decodes and validates JSON request bodies with
// go-playground/validator. Field errors are keyed by JSON name. The dgt and
// dgte tags compare shopspring decimals exactly; dscale caps their
// fractional digits.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ghuser/exportdesk/pkg/httpx"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	for tag, accept := range map[string]func(int) bool{
		"dgt":  func(c int) bool { return c > 0 },
		"dgte": func(c int) bool { return c >= 0 },
	} {
		if err := v.RegisterValidation(tag, decimalCompare(accept)); err != nil {
			panic(fmt.Sprintf("validator: register %s: %v", tag, err))
		}
	}
	if err := v.RegisterValidation("dscale", decimalScale); err != nil {
		panic(fmt.Sprintf("validator: register dscale: %v", err))
	}
	return v
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func decimalCompare(accept func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		return err == nil && accept(v.Cmp(bound))
	}
}

func decimalScale(fl validator.FieldLevel) bool {
	v, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	return err == nil && v.Equal(v.Truncate(int32(places)))
}

// Validate runs the validate tags of s.
func Validate(s any) error {
	return validate.Struct(s)
}

// messages holds the client text per tag; %s is the tag parameter.
var messages = map[string]string{
	"required": "This field is required",
	"uuid":     "Must be a valid UUID",
	"uuid4":    "Must be a valid UUID",
	"min":      "Minimum length is %s",
	"max":      "Maximum length is %s",
	"len":      "Must be exactly %s characters",
	"email":    "Must be a valid email address",
	"url":      "Must be a valid URL",
	"numeric":  "Must be a numeric value",
	"alphanum": "Must contain only letters and numbers",
	"oneof":    "Must be one of: %s",
	"gte":      "Must be greater than or equal to %s",
	"dgte":     "Must be greater than or equal to %s",
	"lte":      "Must be less than or equal to %s",
	"dgt":      "Must be greater than %s",
	"dscale":   "Must have at most %s decimal places",
}

// FormatValidationErrors maps each failing field (by JSON name) to a
// readable message. Errors other than validator.ValidationErrors yield an
// empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("Validation failed on '%s'", fe.Tag())
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}

// ValidateRequest decodes the body into T and validates it. On failure it
// writes 400 (malformed JSON), 413 (body over the router limit) or 422 with
// a "fields" map, and returns false.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "Validation failed",
			"fields": FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}
