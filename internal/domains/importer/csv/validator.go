package csv

import (
	"errors"
	"strconv"
	"strings"

	"tedtalks-backend/internal/domains/importer/model"
)

// Field names as they appear in the source header.
const (
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldDate   = "date"
	FieldViews  = "views"
	FieldLikes  = "likes"
	FieldLink   = "link"
)

// Validator applies the row-level rules. Pure: no I/O, no state,
// same input always yields the same errors.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRow checks required fields first. If anything is missing the
// numeric checks are skipped entirely; a half-empty row gets reported
// for what is absent, not for what the absence breaks downstream.
func (v *Validator) ValidateRow(raw model.RawRecord) []model.ValidationError {
	var errs []model.ValidationError

	required := []struct {
		field string
		value string
	}{
		{FieldTitle, raw.Title},
		{FieldAuthor, raw.Author},
		{FieldDate, raw.Date},
		{FieldViews, raw.Views},
		{FieldLikes, raw.Likes},
		{FieldLink, raw.Link},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, model.NewMissingField(raw.Row, f.field))
		}
	}
	if len(errs) > 0 {
		return errs
	}

	for _, f := range []struct {
		field string
		value string
	}{
		{FieldViews, raw.Views},
		{FieldLikes, raw.Likes},
	} {
		if _, vErr := v.ParseNumeric(raw.Row, f.field, f.value); vErr != nil {
			errs = append(errs, *vErr)
		}
	}

	return errs
}

// CleanNumeric strips the separators people put in large counts:
// commas, spaces and underscores. "1,234 567_8" becomes "12345678".
func CleanNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '_':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// ParseNumeric cleans and parses a count field. A bad value gets
// exactly one classification: garbage if it is not an integer at all,
// negative if it parses below zero, overflow if it exceeds int64.
func (v *Validator) ParseNumeric(row int64, field, value string) (int64, *model.ValidationError) {
	cleaned := CleanNumeric(value)

	digits := strings.TrimPrefix(cleaned, "-")
	if digits == "" || !isDigits(digits) {
		e := model.NewGarbageData(row, field, value)
		return 0, &e
	}

	if strings.HasPrefix(cleaned, "-") {
		e := model.NewNegativeValue(row, field, value)
		return 0, &e
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			e := model.NewOverflow(row, field, value)
			return 0, &e
		}
		e := model.NewGarbageData(row, field, value)
		return 0, &e
	}

	return n, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
