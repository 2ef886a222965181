package dto

import (
	"time"

	"github.com/fidpulse/fidpulse/internal/domain/models"
)

// TransactionResponse is the JSON shape of one imported transaction as
// returned by GET /api/v1/transactions.
//
// Amount is serialized as a string to keep exact decimal precision on
// the wire.
type TransactionResponse struct {
	Extractor      string `json:"extractor" example:"fidelity"`
	File           string `json:"file" example:"History_for_Account_X12345678.csv"`
	Lineno         int    `json:"lineno" example:"1"`
	ReversedLineno int    `json:"reversed_lineno" example:"-3"`
	SourceAccount  string `json:"source_account" example:"Roth-IRA-1234"`
	Date           string `json:"date" example:"2024-01-05"`
	PostDate       string `json:"post_date" example:"2024-01-05"`
	Desc           string `json:"desc" example:"DIVIDEND RECEIVED"`
	BankDesc       string `json:"bank_desc" example:"FIDELITY GOVERNMENT MONEY MARKET"`
	Amount         string `json:"amount" example:"12.34"`
	Currency       string `json:"currency" example:"USD"`
	Type           string `json:"type" example:"Cash"`
	LastFourDigits string `json:"last_four_digits" example:"1234"`
}

// NewTransactionResponse maps a domain transaction to its API shape.
func NewTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		Extractor:      t.Extractor,
		File:           t.File,
		Lineno:         t.Lineno,
		ReversedLineno: t.ReversedLineno,
		SourceAccount:  t.SourceAccount,
		Date:           t.Date.Format(time.DateOnly),
		PostDate:       t.PostDate.Format(time.DateOnly),
		Desc:           t.Desc,
		BankDesc:       t.BankDesc,
		Amount:         t.Amount.String(),
		Currency:       t.Currency,
		Type:           t.Type,
		LastFourDigits: t.LastFourDigits,
	}
}

// ImportResponse is one import-log entry as returned by
// GET /api/v1/imports.
type ImportResponse struct {
	FirstRowHash string    `json:"first_row_hash" example:"9f86d081884c7d65..."`
	StartingDate string    `json:"starting_date" example:"2024-01-05"`
	Filename     string    `json:"filename" example:"History_for_Account_X12345678.csv"`
	RowCount     int       `json:"row_count" example:"42"`
	ImportedAt   time.Time `json:"imported_at"`
}

// NewImportResponse maps an import-log record to its API shape.
func NewImportResponse(rec models.ImportRecord) ImportResponse {
	return ImportResponse{
		FirstRowHash: rec.FirstRowHash,
		StartingDate: rec.StartingDate.Format(time.DateOnly),
		Filename:     rec.Filename,
		RowCount:     rec.RowCount,
		ImportedAt:   rec.ImportedAt,
	}
}
