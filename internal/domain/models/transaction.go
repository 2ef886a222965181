package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one parsed activity line from a brokerage CSV
// export. Instances are immutable once emitted by an extractor; ownership
// passes to whoever drains the iterator.
//
// Lineno is the 1-based position of the row among the accepted rows of the
// file, not the physical line number. ReversedLineno counts backward from
// the end of the accepted-row sequence:
//
//	ReversedLineno = Lineno - 1 - total accepted rows
//
// It is always <= 0 and stays stable when new rows are appended to the end
// of an export, which makes it usable in import identifiers.
type Transaction struct {
	Extractor      string
	File           string
	Lineno         int
	ReversedLineno int
	SourceAccount  string
	Date           time.Time
	PostDate       time.Time
	Desc           string
	BankDesc       string
	Amount         decimal.Decimal
	Currency       string
	Type           string
	LastFourDigits string

	// Extra carries the raw row verbatim for consumers that need
	// columns beyond the normalized set.
	Extra map[string]string
}

// Fingerprint identifies the content of one export file as of its first
// accepted data row. Two exports that start with the same row produce the
// same fingerprint regardless of how many rows follow, so a re-download of
// a growing export is still recognized as the same file.
type Fingerprint struct {
	StartingDate time.Time
	FirstRowHash string // hex-encoded SHA-256 digest
}

// ImportRecord is one entry of the import log, the dedup ledger that maps
// fingerprints to already-processed files.
type ImportRecord struct {
	FirstRowHash string
	StartingDate time.Time
	Filename     string
	RowCount     int
	ImportedAt   time.Time
}
