package csv

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedtalks-backend/internal/domains/importer/model"
)

type trackingCloser struct {
	io.Reader
	closed bool
}

func (t *trackingCloser) Close() error {
	t.closed = true
	return nil
}

func newTestParser(t *testing.T, data string) (*Parser, *trackingCloser) {
	t.Helper()
	src := &trackingCloser{Reader: strings.NewReader(data)}
	p, err := NewParser(src)
	require.NoError(t, err)
	return p, src
}

func TestParserStreamsDataRows(t *testing.T) {
	p, src := newTestParser(t, `title,author,date,views,likes,link
"Talk one",Alice,December 2021,100,10,https://ted.com/1
"Talk two",Bob,January 2022,200,20,https://ted.com/2
`)

	first, ok := p.Next()
	require.True(t, ok)
	assert.EqualValues(t, 1, first.Row)
	assert.Equal(t, "Talk one", first.Title)
	assert.Equal(t, "Alice", first.Author)

	second, ok := p.Next()
	require.True(t, ok)
	assert.EqualValues(t, 2, second.Row)
	assert.Equal(t, "Talk two", second.Title)

	_, ok = p.Next()
	assert.False(t, ok)
	assert.NoError(t, p.Err())

	require.NoError(t, p.Close())
	assert.True(t, src.closed)
}

func TestParserHeaderDrivenColumns(t *testing.T) {
	// Columns deliberately shuffled relative to the usual order.
	p, _ := newTestParser(t, `link,likes,views,date,author,title
https://ted.com/1,10,100,December 2021,Alice,Talk one
`)

	raw, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "Talk one", raw.Title)
	assert.Equal(t, "Alice", raw.Author)
	assert.Equal(t, "100", raw.Views)
	assert.Equal(t, "10", raw.Likes)
}

func TestParserSkipsBlankLines(t *testing.T) {
	p, _ := newTestParser(t, `title,author,date,views,likes,link

Talk one,Alice,December 2021,100,10,https://ted.com/1

Talk two,Bob,January 2022,200,20,https://ted.com/2
`)

	first, ok := p.Next()
	require.True(t, ok)
	assert.EqualValues(t, 1, first.Row)

	second, ok := p.Next()
	require.True(t, ok)
	// Blank lines do not consume row numbers.
	assert.EqualValues(t, 2, second.Row)
}

func TestParserShortRowYieldsEmptyFields(t *testing.T) {
	p, _ := newTestParser(t, `title,author,date,views,likes,link
Talk one,Alice
`)

	raw, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "Talk one", raw.Title)
	assert.Equal(t, "Alice", raw.Author)
	assert.Empty(t, raw.Views)
	assert.Empty(t, raw.Link)
}

func TestParserEmptyInput(t *testing.T) {
	src := &trackingCloser{Reader: strings.NewReader("")}
	_, err := NewParser(src)
	assert.ErrorIs(t, err, model.ErrMissingHeader)
	assert.True(t, src.closed)
}

func TestParserHeaderOnly(t *testing.T) {
	p, _ := newTestParser(t, "title,author,date,views,likes,link\n")

	_, ok := p.Next()
	assert.False(t, ok)
	assert.NoError(t, p.Err())
}

func TestParserMalformedQuoteReportsError(t *testing.T) {
	p, _ := newTestParser(t, "title,author,date,views,likes,link\n\"broken,Alice,December 2021,1,1,https://ted.com/1\nmore,Bob")

	for {
		if _, ok := p.Next(); !ok {
			break
		}
	}
	assert.Error(t, p.Err())
}
