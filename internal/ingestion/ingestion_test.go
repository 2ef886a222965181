package ingestion

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fidpulse/fidpulse/internal/domain/models"
	_ "github.com/fidpulse/fidpulse/internal/extract/fidelity"
	"github.com/fidpulse/fidpulse/internal/storage"
)

const fidelityHeader = "Run Date,Account,Account Number,Action,Symbol,Description,Type," +
	"Exchange Quantity,Exchange Currency,Currency,Price,Quantity,Exchange Rate," +
	"Commission,Fees,Accrued Interest,Amount,Settlement Date\n"

// sampleRow returns one 18-column data line dated 1/5/2024.
const sampleRow = "1/5/2024,Brokerage,X12345678,DIVIDEND RECEIVED,,MONEY MARKET,Cash,,,USD,,,,,,,100.50,\n"

type fakeRepo struct {
	mu        sync.Mutex
	batches   [][]models.Transaction
	imports   map[string]models.ImportRecord
	deleted   []string
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{imports: make(map[string]models.ImportRecord)}
}

func (f *fakeRepo) InsertTransactionsBatch(txns []models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.batches = append(f.batches, append([]models.Transaction(nil), txns...))
	return nil
}

func (f *fakeRepo) HasImportForHash(hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.imports[hash]
	return ok, nil
}

func (f *fakeRepo) UpsertImportLog(fp models.Fingerprint, filename string, rowCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imports[fp.FirstRowHash] = models.ImportRecord{
		FirstRowHash: fp.FirstRowHash,
		StartingDate: fp.StartingDate,
		Filename:     filename,
		RowCount:     rowCount,
	}
	return nil
}

func (f *fakeRepo) DeleteTransactionsByFile(filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, filename)
	return nil
}

func (f *fakeRepo) ListTransactions(string, *time.Time, *time.Time) ([]models.Transaction, error) {
	return nil, nil
}

func (f *fakeRepo) ListImports() ([]models.ImportRecord, error) { return nil, nil }

func (f *fakeRepo) totalRows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return p
}

func TestImportFile_TableDriven(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name        string
		content     string
		force       bool
		preImported bool
		wantRows    int
		wantSkipped bool
	}{
		{name: "single row", content: fidelityHeader + sampleRow, wantRows: 1},
		{name: "header only is skipped", content: fidelityHeader, wantSkipped: true},
		{name: "unknown format is skipped", content: "Date;Payee;Amount\n", wantSkipped: true},
		{name: "disclaimer rows dropped", content: fidelityHeader + sampleRow + "not a transaction\n", wantRows: 1},
		{name: "already imported is skipped", content: fidelityHeader + sampleRow, preImported: true, wantSkipped: true},
		{name: "force reimports", content: fidelityHeader + sampleRow, preImported: true, force: true, wantRows: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, dir, "file.csv", tc.content)
			repo := newFakeRepo()
			if tc.preImported {
				// Seed the log by importing once first.
				if _, _, err := importFile(context.Background(), path, repo, 5, false); err != nil {
					t.Fatalf("seed import: %v", err)
				}
				repo.batches = nil
			}

			total, skipped, err := importFile(context.Background(), path, repo, 5, tc.force)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if skipped != tc.wantSkipped {
				t.Fatalf("skipped = %v, want %v", skipped, tc.wantSkipped)
			}
			if total != tc.wantRows {
				t.Fatalf("rows = %d, want %d", total, tc.wantRows)
			}
			if !tc.wantSkipped && repo.totalRows() != tc.wantRows {
				t.Fatalf("persisted rows = %d, want %d", repo.totalRows(), tc.wantRows)
			}
			if tc.force && tc.preImported && len(repo.deleted) != 1 {
				t.Fatalf("force reimport should delete previous rows, deleted=%v", repo.deleted)
			}
		})
	}
}

func TestImportFile_BatchFlush(t *testing.T) {
	dir := t.TempDir()
	content := fidelityHeader
	for i := 0; i < 7; i++ {
		content += sampleRow
	}
	path := writeTempFile(t, dir, "big.csv", content)

	repo := newFakeRepo()
	total, skipped, err := importFile(context.Background(), path, repo, 3, false)
	if err != nil || skipped {
		t.Fatalf("err=%v skipped=%v", err, skipped)
	}
	if total != 7 {
		t.Fatalf("rows = %d, want 7", total)
	}
	// 7 rows with batch size 3 -> 3 + 3 + 1
	if len(repo.batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(repo.batches))
	}

	rec, ok := repo.imports[keyOf(repo)]
	if !ok {
		t.Fatalf("import log not written")
	}
	if rec.RowCount != 7 {
		t.Fatalf("logged row count = %d, want 7", rec.RowCount)
	}
	if rec.Filename != "big.csv" {
		t.Fatalf("logged filename = %q", rec.Filename)
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !rec.StartingDate.Equal(want) {
		t.Fatalf("logged starting date = %v, want %v", rec.StartingDate, want)
	}
}

func keyOf(repo *fakeRepo) string {
	for k := range repo.imports {
		return k
	}
	return ""
}

func TestImportFile_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	content := fidelityHeader
	for i := 0; i < 100; i++ {
		content += sampleRow
	}
	path := writeTempFile(t, dir, "big.csv", content)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := importFile(ctx, path, newFakeRepo(), 10, false); err == nil {
		t.Fatalf("expected context canceled error")
	}
}

func TestProcessDirectory(t *testing.T) {
	old := repoCtor
	t.Cleanup(func() { repoCtor = old })

	repo := newFakeRepo()
	repoCtor = func(*sql.DB) storage.TransactionsRepository { return repo }

	dir := t.TempDir()
	writeTempFile(t, dir, "a.csv", fidelityHeader+sampleRow)
	writeTempFile(t, dir, "b.csv", fidelityHeader+"1/6/2024,Brokerage,X12345678,BUY,,VTI,Cash,,,USD,,,,,,,-250.00,\n")
	writeTempFile(t, dir, "notes.txt", "ignored")

	if err := ProcessDirectory(context.Background(), dir, nil, 2, false); err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if got := repo.totalRows(); got != 2 {
		t.Fatalf("persisted rows = %d, want 2", got)
	}
	if len(repo.imports) != 2 {
		t.Fatalf("import log entries = %d, want 2", len(repo.imports))
	}
}

func TestProcessDirectory_NoFiles(t *testing.T) {
	if err := ProcessDirectory(context.Background(), t.TempDir(), nil, 1, false); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
