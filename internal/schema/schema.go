// Package schema validates untyped input records and turns them into typed
// model values. Structural rules (presence, type, format, range) live here;
// rules that need other entities or the current time belong to the service.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/cinema-screening-booking/internal/apperror"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance returns the shared validator. Field names in errors are
// taken from json tags so clients see the names they sent.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// decode marshals record back to JSON and decodes it into dst, so any
// value (map, json.RawMessage, decoded JSON) can be validated the same way.
// Type mismatches are reported per field.
func decode(record any, dst any) error {
	if record == nil {
		return apperror.Validation(apperror.FieldError{Reason: "Expected object, received null"})
	}
	if msg, ok := record.(json.RawMessage); ok && !json.Valid(msg) {
		return apperror.Validation(apperror.FieldError{Reason: "Malformed JSON"})
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return apperror.Validation(apperror.FieldError{Reason: "Expected object, received unsupported value"})
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if typeErr.Field == "" {
				return apperror.Validation(apperror.FieldError{
					Reason: "Expected object, received " + typeErr.Value,
				})
			}
			return apperror.Validation(apperror.FieldError{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("Expected %s, received %s", expectedKind(typeErr.Type), typeErr.Value),
			})
		}
		return apperror.Validation(apperror.FieldError{Reason: "malformed input: " + err.Error()})
	}
	return nil
}

func expectedKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.String:
		return "string"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.Kind().String()
	}
}

// check runs struct validation and converts failures into field errors.
func check(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Reason: reason(fe)})
	}
	return apperror.Validation(fields...)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "gt":
		return "Number must be greater than " + fe.Param()
	case "lte":
		return "Number must be less than or equal to " + fe.Param()
	case "min":
		return "String must contain at least " + fe.Param() + " character(s)"
	case "max":
		return "String must contain at most " + fe.Param() + " character(s)"
	case "oneof":
		return "Invalid enum value. Expected " + strings.Join(strings.Fields(fe.Param()), " | ")
	case "datetime":
		switch fe.Param() {
		case DateLayout:
			return "Invalid date, expected YYYY-MM-DD"
		case TimeLayout:
			return "Invalid time, expected HH:MM:SS"
		}
		return "Invalid format, expected " + fe.Param()
	default:
		return "Invalid value (" + fe.Tag() + ")"
	}
}

// parsePositiveID coerces a string or number into a positive integer.
func parsePositiveID(field string, v any) (uint64, error) {
	var s string
	switch x := v.(type) {
	case nil:
		return 0, apperror.Validation(apperror.FieldError{Field: field, Reason: "Required"})
	case string:
		s = strings.TrimSpace(x)
	case json.Number:
		s = x.String()
	case float64:
		if x != float64(int64(x)) {
			return 0, apperror.Validation(apperror.FieldError{Field: field, Reason: "Expected integer, received float"})
		}
		s = strconv.FormatInt(int64(x), 10)
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	default:
		return 0, apperror.Validation(apperror.FieldError{Field: field, Reason: "Expected number, received " + reflect.TypeOf(v).Kind().String()})
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if _, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return 0, apperror.Validation(apperror.FieldError{Field: field, Reason: "Expected integer, received float"})
		}
		return 0, apperror.Validation(apperror.FieldError{Field: field, Reason: "Expected number, received nan"})
	}
	if n <= 0 {
		return 0, apperror.Validation(apperror.FieldError{Field: field, Reason: "Number must be greater than 0"})
	}
	return uint64(n), nil
}
