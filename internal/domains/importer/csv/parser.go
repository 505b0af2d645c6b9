package csv

import (
	enccsv "encoding/csv"
	"errors"
	"io"
	"strings"

	"tedtalks-backend/internal/domains/importer/model"
)

// Parser streams data rows out of a CSV source. Single pass: the
// header is consumed at construction, Next walks forward only, and the
// source is closed by Close. Not restartable, not safe for concurrent
// use.
type Parser struct {
	source  io.ReadCloser
	reader  *enccsv.Reader
	columns map[string]int
	row     int64
	err     error
}

// NewParser reads the header row and resolves column positions by
// name, so column order in the file does not matter.
func NewParser(source io.ReadCloser) (*Parser, error) {
	reader := enccsv.NewReader(source)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		source.Close()
		if errors.Is(err, io.EOF) {
			return nil, model.ErrMissingHeader
		}
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	return &Parser{
		source:  source,
		reader:  reader,
		columns: columns,
	}, nil
}

// Next returns the next data row. Blank lines are skipped without
// consuming a row number. false means end of input or error; check
// Err to tell them apart.
func (p *Parser) Next() (model.RawRecord, bool) {
	if p.err != nil {
		return model.RawRecord{}, false
	}

	for {
		fields, err := p.reader.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.err = err
			}
			return model.RawRecord{}, false
		}

		if isBlank(fields) {
			continue
		}

		p.row++
		return model.RawRecord{
			Row:    p.row,
			Title:  p.field(fields, FieldTitle),
			Author: p.field(fields, FieldAuthor),
			Date:   p.field(fields, FieldDate),
			Views:  p.field(fields, FieldViews),
			Likes:  p.field(fields, FieldLikes),
			Link:   p.field(fields, FieldLink),
		}, true
	}
}

func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) Close() error {
	return p.source.Close()
}

func (p *Parser) field(fields []string, name string) string {
	i, ok := p.columns[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
