package model

// RawRecord is one data row exactly as it came out of the source file.
// Row is 1-based over data rows; the header row does not count.
type RawRecord struct {
	Row    int64
	Title  string
	Author string
	Date   string
	Views  string
	Likes  string
	Link   string
}

// ImportRecord is a fully validated and parsed row, ready to persist.
type ImportRecord struct {
	Title       string
	SpeakerName string
	Year        int
	Month       int
	Views       int64
	Likes       int64
	Link        string
}

// ValidationResult tags a row as either a usable record or a set of
// row errors. Exactly one of the two is populated.
type ValidationResult struct {
	Record *ImportRecord
	Errors []ValidationError
}

func (r ValidationResult) Ok() bool {
	return len(r.Errors) == 0
}

// RecordSource is the single-pass iterator contract shared by the CSV
// and XLSX parsers. Next returns false at end of input or on error;
// the caller checks Err afterwards. Close releases the source.
type RecordSource interface {
	Next() (RawRecord, bool)
	Err() error
	Close() error
}
