package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"tedtalks-backend/internal/domains/importer/csv"
	"tedtalks-backend/internal/domains/importer/model"
)

// Parser streams data rows out of the first sheet of an .xlsx file
// using excelize's row iterator, so large workbooks are not fully
// decoded up front. Same single-pass contract as the CSV parser.
type Parser struct {
	file    *excelize.File
	rows    *excelize.Rows
	columns map[string]int
	row     int64
	err     error
}

// NewParser opens the workbook and consumes the header row of the
// first sheet.
func NewParser(data []byte) (*Parser, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		file.Close()
		return nil, model.ErrMissingHeader
	}

	rows, err := file.Rows(sheets[0])
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to iterate sheet: %w", err)
	}

	if !rows.Next() {
		rows.Close()
		file.Close()
		return nil, model.ErrMissingHeader
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		file.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	return &Parser{
		file:    file,
		rows:    rows,
		columns: columns,
	}, nil
}

func (p *Parser) Next() (model.RawRecord, bool) {
	if p.err != nil {
		return model.RawRecord{}, false
	}

	for p.rows.Next() {
		fields, err := p.rows.Columns()
		if err != nil {
			p.err = err
			return model.RawRecord{}, false
		}

		if isBlank(fields) {
			continue
		}

		p.row++
		return model.RawRecord{
			Row:    p.row,
			Title:  p.field(fields, csv.FieldTitle),
			Author: p.field(fields, csv.FieldAuthor),
			Date:   p.field(fields, csv.FieldDate),
			Views:  p.field(fields, csv.FieldViews),
			Likes:  p.field(fields, csv.FieldLikes),
			Link:   p.field(fields, csv.FieldLink),
		}, true
	}

	if err := p.rows.Error(); err != nil {
		p.err = err
	}
	return model.RawRecord{}, false
}

func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) Close() error {
	p.rows.Close()
	return p.file.Close()
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
