// Package validation runs struct-tag validation and reports every violated
// field at once, keyed by the field's JSON name.
package validation

import (
	"credit-application-system/internal/pkg/apperrors"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate = newValidator()

	now = time.Now
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	if err := v.RegisterValidation("future", isFutureDate); err != nil {
		panic(fmt.Sprintf("failed to register 'future' validation: %v", err))
	}
	if err := v.RegisterValidation("maxscale", hasMaxScale); err != nil {
		panic(fmt.Sprintf("failed to register 'maxscale' validation: %v", err))
	}
	return v
}

// Collect validates s and returns the violations found. The returned
// collection is never nil; callers may append their own rules before
// checking HasViolations.
func Collect(s any) (*apperrors.ValidationErrors, error) {
	violations := &apperrors.ValidationErrors{}

	err := validate.Struct(s)
	if err == nil {
		return violations, nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	for _, fe := range fieldErrs {
		violations.Add(fe.Field(), message(fe))
	}
	return violations, nil
}

// Struct validates s and returns a *apperrors.ValidationErrors when any rule fails.
func Struct(s any) error {
	violations, err := Collect(s)
	if err != nil {
		return err
	}
	if violations.HasViolations() {
		return violations
	}
	return nil
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("must have at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must have at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "email":
		return "must be a well-formed email address"
	case "future":
		return "must be a future date"
	case "maxscale":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// hasMaxScale reports whether a number has at most param fractional digits.
// Decimal fields reach it as float64 through decimalValue.
func hasMaxScale(fl validator.FieldLevel) bool {
	places, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("invalid 'maxscale' parameter %q", fl.Param()))
	}

	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return false
		}
		return decimal.NewFromFloat(f).Exponent() >= int32(-places)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isFutureDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return CalendarDate(t).After(CalendarDate(now()))
}

// CalendarDate returns midnight UTC of the calendar day t falls on in its own
// location, so a parsed date and a local clock reading compare by day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths moves t forward by months calendar months, clamping the day to
// the last day of the target month (Nov 30 + 3 months is Feb 28, not Mar 2).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}
