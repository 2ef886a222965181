package fidelity

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"time"

	"github.com/fidpulse/fidpulse/internal/extract"
)

// Row maps column names from the fixed schema to raw string values.
// Columns missing from a short record are absent from the map; columns
// beyond the schema are dropped.
type Row map[string]string

// datePattern is the gate for transaction rows: 1-2 digit month, 1-2
// digit day, 4-digit year. Header lines and trailing disclaimer text
// never match it.
var datePattern = regexp.MustCompile(`^[0-9]{1,2}/[0-9]{1,2}/[0-9]{4}$`)

// acceptedRow is a row that passed the date filter, carrying the parsed
// date so later stages don't re-parse it.
type acceptedRow struct {
	fields Row
	date   time.Time
}

// rowIter walks the accepted rows of a source, lazily. Each iterator
// rewinds the source once at construction and then streams; building a
// fresh iterator restarts the sequence from the top.
type rowIter struct {
	csv *csv.Reader
	err error
}

// newRowIter rewinds src and prepares a CSV reader over it. The reader
// uses the excel dialect (comma delimited, double-quote quoted, quoted
// fields may embed delimiters and newlines) and tolerates any column
// count; the schema is applied per record in Next.
func newRowIter(src *extract.Source) *rowIter {
	if err := src.Rewind(); err != nil {
		return &rowIter{err: err}
	}
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return &rowIter{csv: r}
}

// Next returns the next accepted row, or false at the end of the file or
// on a read error (reported by Err). Rows whose date column fails the
// pattern or does not name a real calendar date are skipped silently;
// that is how non-transaction rows are stripped.
func (it *rowIter) Next() (acceptedRow, bool) {
	if it.err != nil || it.csv == nil {
		return acceptedRow{}, false
	}
	for {
		rec, err := it.csv.Read()
		if errors.Is(err, io.EOF) {
			return acceptedRow{}, false
		}
		if err != nil {
			it.err = err
			return acceptedRow{}, false
		}

		row := make(Row, len(allFields))
		for i, field := range allFields {
			if i < len(rec) {
				row[field] = rec[i]
			}
		}

		date, ok := row[dateField]
		if !ok || !datePattern.MatchString(date) {
			continue
		}
		parsed, err := ParseDate(date)
		if err != nil {
			continue
		}
		return acceptedRow{fields: row, date: parsed}, true
	}
}

// Err returns the first read error hit by Next, if any. io.EOF is not an
// error; it just ends the sequence.
func (it *rowIter) Err() error { return it.err }
