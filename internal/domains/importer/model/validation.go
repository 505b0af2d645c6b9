package model

import "fmt"

type ValidationErrorKind string

const (
	KindMissingField        ValidationErrorKind = "MISSING_FIELD"
	KindGarbageData         ValidationErrorKind = "GARBAGE_DATA"
	KindNegativeValue       ValidationErrorKind = "NEGATIVE_VALUE"
	KindOverflow            ValidationErrorKind = "OVERFLOW"
	KindInvalidFormat       ValidationErrorKind = "INVALID_FORMAT"
	KindConstraintViolation ValidationErrorKind = "CONSTRAINT_VIOLATION"
)

// ValidationError describes why one field of one row was rejected.
type ValidationError struct {
	Row     int64               `json:"row"`
	Field   string              `json:"field"`
	Value   string              `json:"value"`
	Message string              `json:"message"`
	Kind    ValidationErrorKind `json:"kind"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d, field %s: %s", e.Row, e.Field, e.Message)
}

func NewMissingField(row int64, field string) ValidationError {
	return ValidationError{
		Row:     row,
		Field:   field,
		Message: fmt.Sprintf("required field %q is missing or empty", field),
		Kind:    KindMissingField,
	}
}

func NewGarbageData(row int64, field, value string) ValidationError {
	return ValidationError{
		Row:     row,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("field %q contains non-numeric data", field),
		Kind:    KindGarbageData,
	}
}

func NewNegativeValue(row int64, field, value string) ValidationError {
	return ValidationError{
		Row:     row,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("field %q must not be negative", field),
		Kind:    KindNegativeValue,
	}
}

func NewOverflow(row int64, field, value string) ValidationError {
	return ValidationError{
		Row:     row,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("field %q exceeds the 64-bit integer range", field),
		Kind:    KindOverflow,
	}
}

func NewInvalidFormat(row int64, field, value, message string) ValidationError {
	return ValidationError{
		Row:     row,
		Field:   field,
		Value:   value,
		Message: message,
		Kind:    KindInvalidFormat,
	}
}

func NewConstraintViolation(row int64, message string) ValidationError {
	return ValidationError{
		Row:     row,
		Message: message,
		Kind:    KindConstraintViolation,
	}
}
