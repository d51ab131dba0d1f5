package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"reflect"
	"strconv"
	"strings"

	"github.com/Aidin1998/itemsvc/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FieldError is one entry of the {"errors": [...]} envelope
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is a collection of field errors
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", fe[0].Message)
}

// Validator validates request payloads and cleans free-text input
type Validator struct {
	validator *validator.Validate
	logger    *zap.Logger
	sanitizer *bluemonday.Policy
}

// NewValidator creates a validator reporting fields by their json names.
// sanitize enables markup stripping in SanitizeName.
func NewValidator(logger *zap.Logger, sanitize bool) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Request prices are validated as exact decimals, never as float64.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if p, ok := field.Interface().(models.Price); ok {
			return p.Decimal()
		}
		return nil
	}, models.Price{})
	v.RegisterValidation("nonneg", validateNonNegative)
	v.RegisterValidation("maxdigits", validateMaxDigits)

	out := &Validator{
		validator: v,
		logger:    logger,
	}
	if sanitize {
		out.sanitizer = bluemonday.StrictPolicy()
	}
	return out
}

// ValidateStruct validates a struct using its `validate` tags. Failures are
// returned as FieldErrors, at most one per field.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldsErr, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var out FieldErrors
	for _, fe := range fieldsErr {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: v.getErrorMessage(fe),
		})
	}

	v.logger.Debug("Validation failed", zap.Int("fields", len(out)), zap.String("first", out[0].Message))
	return out
}

// DecodeError turns a JSON type mismatch on a named field into a field error
func DecodeError(err error) (FieldError, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return FieldError{}, false
	}
	return FieldError{Field: typeErr.Field, Message: typeErrorMessage(typeErr)}, true
}

func typeErrorMessage(typeErr *json.UnmarshalTypeError) string {
	if typeErr.Type == reflect.TypeOf(models.Price{}) {
		return fmt.Sprintf("Field %q must be a number", typeErr.Field)
	}
	switch typeErr.Type.Kind() {
	case reflect.String:
		return fmt.Sprintf("Field %q must be a string", typeErr.Field)
	case reflect.Bool:
		return fmt.Sprintf("Field %q must be a boolean", typeErr.Field)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("Field %q must be a number", typeErr.Field)
	default:
		return fmt.Sprintf("Field %q is invalid", typeErr.Field)
	}
}

// validateNonNegative implements the nonneg tag on decimals
func validateNonNegative(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && !d.IsNegative()
}

// validateMaxDigits implements maxdigits=N: the plain decimal rendering of
// the value may hold at most N digits.
func validateMaxDigits(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return plainDigits(d) <= limit
}

// plainDigits counts the digits d.String() would print, without rendering it.
// The exponent is unbounded, so 1e50000000 is short on the wire but huge in
// plain form.
func plainDigits(d decimal.Decimal) int {
	coefficient := d.NumDigits()
	exp := int(d.Exponent())
	if exp >= 0 {
		return coefficient + exp
	}

	fraction := -exp
	integer := coefficient - fraction
	if integer < 1 {
		integer = 1
	}
	return integer + fraction
}

// SanitizeName strips markup from an item name. Plain text comes back unchanged.
func (v *Validator) SanitizeName(name string) string {
	if v.sanitizer == nil {
		return name
	}
	// bluemonday escapes entities; names are stored as plain text
	return html.UnescapeString(v.sanitizer.Sanitize(name))
}

// getErrorMessage returns the client-facing message for a field failure
func (v *Validator) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field %q is required", fe.Field())
	case "nonneg":
		return fmt.Sprintf("Field %q cannot be negative", fe.Field())
	case "maxdigits":
		return fmt.Sprintf("Field %q must have at most %s digits", fe.Field(), fe.Param())
	case "gte", "min":
		if fe.Param() == "0" {
			return fmt.Sprintf("Field %q cannot be negative", fe.Field())
		}
		return fmt.Sprintf("Field %q must be at least %s", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("Field %q must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Field %q is invalid", fe.Field())
	}
}
