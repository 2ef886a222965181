// Package fidelity extracts transactions from Fidelity account-activity
// CSV exports.
//
// The export format has a fixed 18-column layout. The column schema is
// imposed by this package rather than read from the file: Fidelity's
// header line, when present, is just another row that the date filter
// discards, together with the disclaimer paragraphs the broker appends
// after the data.
package fidelity

// Name is the registry name of this extractor.
const Name = "fidelity"

// dateField is the column that decides whether a row is a transaction.
const dateField = "Run Date"

// allFields is the canonical column schema, in file order. Detection
// requires the file's first record to equal this list exactly; there is
// no partial matching.
var allFields = []string{
	dateField,
	"Account",
	"Account Number",
	"Action",
	"Symbol",
	"Description",
	"Type",
	"Exchange Quantity",
	"Exchange Currency",
	"Currency",
	"Price",
	"Quantity",
	"Exchange Rate",
	"Commission",
	"Fees",
	"Accrued Interest",
	"Amount",
	"Settlement Date",
}
