package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fidpulse/fidpulse/internal/domain/models"
	pq "github.com/lib/pq"
)

// TransactionsRepository defines the contract for DB operations around
// imported transactions and the import log.
type TransactionsRepository interface {
	InsertTransactionsBatch(txns []models.Transaction) error
	HasImportForHash(firstRowHash string) (bool, error)
	UpsertImportLog(fp models.Fingerprint, filename string, rowCount int) error
	DeleteTransactionsByFile(filename string) error
	ListTransactions(account string, startDate *time.Time, endDate *time.Time) ([]models.Transaction, error)
	ListImports() ([]models.ImportRecord, error)
}

type transactionsRepository struct {
	db *sql.DB
}

func NewTransactionsRepository(db *sql.DB) TransactionsRepository {
	return &transactionsRepository{db: db}
}

// InsertTransactionsBatch inserts multiple transactions in a single DB
// transaction via COPY.
func (r *transactionsRepository) InsertTransactionsBatch(txns []models.Transaction) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Bulk-load optimization; the import log upsert at the end of a file
	// is what makes an import visible.
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"transactions",
		"extractor",
		"file",
		"lineno",
		"reversed_lineno",
		"source_account",
		"txn_date",
		"post_date",
		"description",
		"bank_description",
		"amount",
		"currency",
		"txn_type",
		"last_four_digits",
		"extra",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range txns {
		extra, err := json.Marshal(rec.Extra)
		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("encode extra: %w", err)
		}
		if _, err := stmt.Exec(
			rec.Extractor,
			rec.File,
			rec.Lineno,
			rec.ReversedLineno,
			rec.SourceAccount,
			rec.Date,
			rec.PostDate,
			rec.Desc,
			rec.BankDesc,
			rec.Amount,
			rec.Currency,
			rec.Type,
			rec.LastFourDigits,
			string(extra),
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// HasImportForHash checks whether a file with this content fingerprint
// was already imported.
func (r *transactionsRepository) HasImportForHash(firstRowHash string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM import_log WHERE first_row_hash = $1)`, firstRowHash).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertImportLog records (or refreshes) an import for a fingerprint.
func (r *transactionsRepository) UpsertImportLog(fp models.Fingerprint, filename string, rowCount int) error {
	_, err := r.db.Exec(`
		INSERT INTO import_log (first_row_hash, starting_date, filename, row_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (first_row_hash)
		DO UPDATE SET starting_date = EXCLUDED.starting_date,
					  filename = EXCLUDED.filename,
					  row_count = EXCLUDED.row_count,
					  imported_at = NOW()
	`, fp.FirstRowHash, fp.StartingDate, filename, rowCount)
	return err
}

// DeleteTransactionsByFile removes all transactions imported from a file.
func (r *transactionsRepository) DeleteTransactionsByFile(filename string) error {
	_, err := r.db.Exec(`DELETE FROM transactions WHERE file = $1`, filename)
	return err
}

// ListTransactions returns the transactions of one source account,
// optionally bounded by transaction date, newest first.
func (r *transactionsRepository) ListTransactions(account string, startDate *time.Time, endDate *time.Time) ([]models.Transaction, error) {
	// $1 is always the account; date placeholders depend on which
	// bounds were provided.
	conditions := "source_account = $1"
	args := []interface{}{account}
	if startDate != nil {
		conditions += fmt.Sprintf(" AND txn_date >= $%d", len(args)+1)
		args = append(args, *startDate)
	}
	if endDate != nil {
		conditions += fmt.Sprintf(" AND txn_date <= $%d", len(args)+1)
		args = append(args, *endDate)
	}

	query := fmt.Sprintf(`
		SELECT extractor, file, lineno, reversed_lineno, source_account,
			   txn_date, post_date, description, bank_description,
			   amount, currency, txn_type, last_four_digits, extra
		FROM transactions
		WHERE %s
		ORDER BY txn_date DESC, file, lineno
	`, conditions)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var extra []byte
		if err := rows.Scan(
			&t.Extractor,
			&t.File,
			&t.Lineno,
			&t.ReversedLineno,
			&t.SourceAccount,
			&t.Date,
			&t.PostDate,
			&t.Desc,
			&t.BankDesc,
			&t.Amount,
			&t.Currency,
			&t.Type,
			&t.LastFourDigits,
			&extra,
		); err != nil {
			return nil, err
		}
		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &t.Extra); err != nil {
				return nil, fmt.Errorf("decode extra: %w", err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListImports returns the import log, most recent first.
func (r *transactionsRepository) ListImports() ([]models.ImportRecord, error) {
	rows, err := r.db.Query(`
		SELECT first_row_hash, starting_date, filename, row_count, imported_at
		FROM import_log
		ORDER BY imported_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.ImportRecord
	for rows.Next() {
		var rec models.ImportRecord
		if err := rows.Scan(&rec.FirstRowHash, &rec.StartingDate, &rec.Filename, &rec.RowCount, &rec.ImportedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
