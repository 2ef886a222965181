package fidelity

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fidpulse/fidpulse/internal/domain/models"
	"github.com/fidpulse/fidpulse/internal/extract"
)

func init() {
	extract.Register(Name, func(src *extract.Source) (extract.Extractor, error) {
		return New(src)
	})
}

// epoch is the fallback starting date for fingerprints whose first row
// carries an unparseable date.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Extractor reads Fidelity account-activity CSV exports. One instance
// serves one source and must be used from a single goroutine: every
// operation independently rewinds the shared stream before reading.
type Extractor struct {
	src      *extract.Source
	rowCount int
}

// New builds an extractor for src. Construction eagerly counts the
// accepted rows with a full pass over the stream; the count fixes the
// reversed line numbers that Extract emits, so it must use the exact same
// row-acceptance rule as extraction itself (both go through rowIter).
// Only stream I/O failures make construction fail.
func New(src *extract.Source) (*Extractor, error) {
	e := &Extractor{src: src}
	it := newRowIter(src)
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		e.rowCount++
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("fidelity: count rows: %w", err)
	}
	return e, nil
}

// Name returns the registry name of this extractor.
func (e *Extractor) Name() string { return Name }

// Detect reports whether the file's first record equals the canonical
// 18-column schema exactly, order included. Any other record means not
// applicable; there is no partial-credit scoring. Unreadable sources are
// simply not applicable.
func (e *Extractor) Detect() bool {
	if err := e.src.Rewind(); err != nil {
		return false
	}
	r := csv.NewReader(e.src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	header, err := r.Read()
	if err != nil {
		return false
	}
	if len(header) != len(allFields) {
		return false
	}
	for i, field := range allFields {
		if header[i] != field {
			return false
		}
	}
	return true
}

// Fingerprint hashes the first accepted row's values, in schema order,
// into the file's identity. It returns nil (and no error) when the file
// has no accepted rows at all; an empty or fully-filtered export is a
// legitimate "nothing to fingerprint" outcome, not a failure.
func (e *Extractor) Fingerprint() (*models.Fingerprint, error) {
	it := newRowIter(e.src)
	row, ok := it.Next()
	if !ok {
		if err := it.Err(); err != nil {
			return nil, fmt.Errorf("fidelity: fingerprint: %w", err)
		}
		return nil, nil
	}

	h := sha256.New()
	for _, field := range allFields {
		h.Write([]byte(row.fields[field]))
	}

	date := row.date
	if date.IsZero() {
		date = epoch
	}
	return &models.Fingerprint{
		StartingDate: date,
		FirstRowHash: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Extract returns a fresh iterator over the file's transactions, one per
// accepted row, in file order. The sequence is derived from the rewound
// stream on every call; nothing is cached between calls.
func (e *Extractor) Extract() extract.TransactionIter {
	return &transactionIter{e: e, rows: newRowIter(e.src)}
}

type transactionIter struct {
	e    *Extractor
	rows *rowIter
	n    int
	cur  models.Transaction
}

// Next advances to the next transaction. Bad amounts degrade to zero and
// never stop the iteration; only stream read errors do (see Err).
func (it *transactionIter) Next() bool {
	row, ok := it.rows.Next()
	if !ok {
		return false
	}
	it.n++

	// The export does not distinguish the transaction date from the
	// posting date; both take the run date.
	it.cur = models.Transaction{
		Extractor:      Name,
		File:           it.e.src.Label(),
		Lineno:         it.n,
		ReversedLineno: it.n - 1 - it.e.rowCount,
		SourceAccount:  BeanifyAccount(row.fields["Account"]),
		Date:           row.date,
		PostDate:       row.date,
		Desc:           row.fields["Action"],
		BankDesc:       row.fields["Description"],
		Amount:         ParseAmount(row.fields["Amount"]),
		Currency:       row.fields["Currency"],
		Type:           row.fields["Type"],
		LastFourDigits: lastFour(row.fields["Account Number"]),
		Extra:          row.fields,
	}
	return true
}

func (it *transactionIter) Transaction() models.Transaction { return it.cur }

func (it *transactionIter) Err() error { return it.rows.Err() }

// lastFour keeps the final four characters of an account number; shorter
// values pass through whole.
func lastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
