package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedtalks-backend/internal/domains/importer/model"
)

func validRow() model.RawRecord {
	return model.RawRecord{
		Row:    1,
		Title:  "Climate action needs new frontline leadership",
		Author: "Ozawa Bineshi Albert",
		Date:   "December 2021",
		Views:  "404000",
		Likes:  "12000",
		Link:   "https://ted.com/talks/ozawa_bineshi_albert",
	}
}

func TestValidateRowAccepts(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateRow(validRow()))
}

func TestValidateRowMissingFieldsShortCircuit(t *testing.T) {
	v := NewValidator()

	raw := validRow()
	raw.Author = ""
	raw.Views = "definitely-not-a-number"

	errs := v.ValidateRow(raw)
	require.Len(t, errs, 1)
	// The garbage views value is never inspected while a field is missing.
	assert.Equal(t, model.KindMissingField, errs[0].Kind)
	assert.Equal(t, FieldAuthor, errs[0].Field)
}

func TestValidateRowReportsEveryMissingField(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateRow(model.RawRecord{Row: 3})
	assert.Len(t, errs, 6)
	for _, e := range errs {
		assert.Equal(t, model.KindMissingField, e.Kind)
		assert.EqualValues(t, 3, e.Row)
	}
}

func TestParseNumericClassification(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name  string
		value string
		kind  model.ValidationErrorKind
	}{
		{"letters", "abc", model.KindGarbageData},
		{"mixed", "12x4", model.KindGarbageData},
		{"decimal", "12.5", model.KindGarbageData},
		{"bare sign", "-", model.KindGarbageData},
		{"negative", "-500", model.KindNegativeValue},
		{"negative with separators", "-1,000", model.KindNegativeValue},
		{"overflow", "99999999999999999999", model.KindOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, vErr := v.ParseNumeric(1, FieldViews, tc.value)
			require.NotNil(t, vErr)
			// Exactly one classification per bad value.
			assert.Equal(t, tc.kind, vErr.Kind)
			assert.Equal(t, tc.value, vErr.Value)
		})
	}
}

func TestParseNumericThousandsSeparators(t *testing.T) {
	v := NewValidator()

	for value, want := range map[string]int64{
		"1,000,000": 1_000_000,
		"1 000 000": 1_000_000,
		"1_000_000": 1_000_000,
		" 404000 ":  404_000,
		"0":         0,
	} {
		n, vErr := v.ParseNumeric(1, FieldLikes, value)
		require.Nil(t, vErr, value)
		assert.Equal(t, want, n, value)
	}
}

func TestCleanNumeric(t *testing.T) {
	assert.Equal(t, "12345678", CleanNumeric("1,234 567_8"))
	assert.Equal(t, "", CleanNumeric("  "))
}
