package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfluenceScoreIsExact(t *testing.T) {
	talk := &Talk{Views: 1_000_000, Likes: 50_000}

	// 1,000,000*0.7 + 50,000*0.3 = 715000 exactly, no float drift.
	assert.True(t, talk.InfluenceScore().Equal(decimal.NewFromInt(715_000)),
		"got %s", talk.InfluenceScore())
}

func TestInfluenceScoreZero(t *testing.T) {
	talk := &Talk{}
	assert.True(t, talk.InfluenceScore().IsZero())
}

func TestScoreWeighting(t *testing.T) {
	// 10 views, 10 likes: 7 + 3 = 10.
	assert.True(t, Score(10, 10).Equal(decimal.NewFromInt(10)))

	// Views dominate likes at equal counts.
	assert.True(t, Score(100, 0).GreaterThan(Score(0, 100)))
}

func TestLinkPattern(t *testing.T) {
	valid := []string{
		"https://www.ted.com/talks/example",
		"http://ted.com/x",
		"HTTPS://TED.COM/TALKS/UPPER",
	}
	for _, link := range valid {
		assert.True(t, LinkPattern.MatchString(link), link)
	}

	invalid := []string{
		"",
		"ted.com/talks/example",
		"ftp://ted.com/talks",
		"https://bad url.com/x",
	}
	for _, link := range invalid {
		assert.False(t, LinkPattern.MatchString(link), link)
	}
}

func TestCreateTalkRequestValidate(t *testing.T) {
	valid := CreateTalkRequest{
		Title:   "Do schools kill creativity?",
		Speaker: "Sir Ken Robinson",
		Year:    2006,
		Month:   2,
		Views:   72_000_000,
		Likes:   2_100_000,
		Link:    "https://www.ted.com/talks/sir_ken_robinson_do_schools_kill_creativity",
	}
	require.NoError(t, valid.Validate())

	missingTitle := valid
	missingTitle.Title = ""
	assert.Error(t, missingTitle.Validate())

	badMonth := valid
	badMonth.Month = 13
	assert.Error(t, badMonth.Validate())

	badLink := valid
	badLink.Link = "not-a-url"
	assert.Error(t, badLink.Validate())
}
