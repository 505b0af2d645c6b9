package csv

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedtalks-backend/internal/domains/importer/model"
	talkmodel "tedtalks-backend/internal/domains/talk/model"
)

func newMapper() *Mapper {
	return NewMapper(NewValidator())
}

func TestMapValidRow(t *testing.T) {
	raw := validRow()
	raw.Views = "1,000,000"
	raw.Likes = "50,000"

	result := newMapper().Map(raw)
	require.True(t, result.Ok())

	rec := result.Record
	assert.Equal(t, "Climate action needs new frontline leadership", rec.Title)
	assert.Equal(t, "Ozawa Bineshi Albert", rec.SpeakerName)
	assert.Equal(t, 2021, rec.Year)
	assert.Equal(t, 12, rec.Month)
	assert.EqualValues(t, 1_000_000, rec.Views)
	assert.EqualValues(t, 50_000, rec.Likes)

	score := talkmodel.Score(rec.Views, rec.Likes)
	assert.True(t, score.Equal(decimal.NewFromInt(715_000)), "got %s", score)
}

func TestMapTrimsFields(t *testing.T) {
	raw := validRow()
	raw.Title = "  Padded title  "
	raw.Author = " Someone "
	raw.Link = "  https://ted.com/talks/padded  "

	result := newMapper().Map(raw)
	require.True(t, result.Ok())
	assert.Equal(t, "Padded title", result.Record.Title)
	assert.Equal(t, "Someone", result.Record.SpeakerName)
	assert.Equal(t, "https://ted.com/talks/padded", result.Record.Link)
}

func TestMapBadDate(t *testing.T) {
	raw := validRow()
	raw.Date = "2021-12"

	result := newMapper().Map(raw)
	require.False(t, result.Ok())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.KindInvalidFormat, result.Errors[0].Kind)
	assert.Equal(t, FieldDate, result.Errors[0].Field)
	assert.Equal(t, "2021-12", result.Errors[0].Value)
}

func TestMapBadLink(t *testing.T) {
	raw := validRow()
	raw.Link = "ted.com/talks/no_scheme"

	result := newMapper().Map(raw)
	require.False(t, result.Ok())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.KindInvalidFormat, result.Errors[0].Kind)
	assert.Equal(t, FieldLink, result.Errors[0].Field)
}

func TestMapRejectsYearZero(t *testing.T) {
	raw := validRow()
	raw.Date = "January 0000"

	result := newMapper().Map(raw)
	require.False(t, result.Ok())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.KindConstraintViolation, result.Errors[0].Kind)
}

func TestMapCollectsAllFormatErrors(t *testing.T) {
	raw := validRow()
	raw.Date = "sometime"
	raw.Link = "nope"

	result := newMapper().Map(raw)
	require.False(t, result.Ok())
	assert.Len(t, result.Errors, 2)
}

func TestMapValidationPrecedesParsing(t *testing.T) {
	raw := validRow()
	raw.Views = "garbage"
	raw.Date = "also garbage"

	// The numeric classification comes from the validator stage, so
	// the mapper error list never reaches date parsing.
	result := newMapper().Map(raw)
	require.False(t, result.Ok())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.KindGarbageData, result.Errors[0].Kind)
}

func TestMapNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		newMapper().Map(model.RawRecord{Row: 1})
	})
}
