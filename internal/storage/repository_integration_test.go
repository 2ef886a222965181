//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fidpulse/fidpulse/internal/domain/models"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "fidpulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=fidpulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "fidpulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func seedTxn(file string, lineno, reversed int, account, amount string, d time.Time) models.Transaction {
	return models.Transaction{
		Extractor:      "fidelity",
		File:           file,
		Lineno:         lineno,
		ReversedLineno: reversed,
		SourceAccount:  account,
		Date:           d,
		PostDate:       d,
		Desc:           "DIVIDEND RECEIVED",
		BankDesc:       "MONEY MARKET",
		Amount:         decimal.RequireFromString(amount),
		Currency:       "USD",
		Type:           "Cash",
		LastFourDigits: "5678",
		Extra:          map[string]string{"Run Date": d.Format("1/2/2006")},
	}
}

func TestRepository_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	repo := NewTransactionsRepository(db)

	base := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	day2 := base.AddDate(0, 0, 1)
	day3 := base.AddDate(0, 0, 2)

	batch := []models.Transaction{
		seedTxn("a.csv", 1, -3, "Roth-IRA-1234", "100.50", base),
		seedTxn("a.csv", 2, -2, "Roth-IRA-1234", "-25.00", day2),
		seedTxn("a.csv", 3, -1, "Roth-IRA-1234", "7.75", day3),
		seedTxn("b.csv", 1, -1, "Brokerage-9876", "500.00", day2),
	}
	if err := repo.InsertTransactionsBatch(batch); err != nil {
		t.Fatalf("InsertTransactionsBatch: %v", err)
	}

	cases := []struct {
		name    string
		account string
		start   *time.Time
		end     *time.Time
		want    int
	}{
		{name: "all rows for account", account: "Roth-IRA-1234", want: 3},
		{name: "lower bound", account: "Roth-IRA-1234", start: &day2, want: 2},
		{name: "range", account: "Roth-IRA-1234", start: &day2, end: &day2, want: 1},
		{name: "other account", account: "Brokerage-9876", want: 1},
		{name: "unknown account", account: "Nothing-Here", want: 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := repo.ListTransactions(c.account, c.start, c.end)
			if err != nil {
				t.Fatalf("ListTransactions: %v", err)
			}
			if len(out) != c.want {
				t.Fatalf("rows = %d, want %d", len(out), c.want)
			}
			for i := 1; i < len(out); i++ {
				if out[i].Date.After(out[i-1].Date) {
					t.Fatalf("rows not ordered newest first: %v then %v", out[i-1].Date, out[i].Date)
				}
			}
		})
	}

	t.Run("round trip preserves fields", func(t *testing.T) {
		out, err := repo.ListTransactions("Brokerage-9876", nil, nil)
		if err != nil || len(out) != 1 {
			t.Fatalf("err=%v rows=%d", err, len(out))
		}
		got := out[0]
		if !got.Amount.Equal(decimal.RequireFromString("500.00")) {
			t.Fatalf("Amount = %s", got.Amount)
		}
		if got.Extra["Run Date"] != day2.Format("1/2/2006") {
			t.Fatalf("Extra = %v", got.Extra)
		}
	})

	t.Run("import log upsert+exists", func(t *testing.T) {
		fp := models.Fingerprint{StartingDate: base, FirstRowHash: "deadbeef"}
		if err := repo.UpsertImportLog(fp, "a.csv", 3); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		ok, err := repo.HasImportForHash("deadbeef")
		if err != nil || !ok {
			t.Fatalf("exists want true, got ok=%v err=%v", ok, err)
		}
		ok, err = repo.HasImportForHash("unknown")
		if err != nil || ok {
			t.Fatalf("exists want false, got ok=%v err=%v", ok, err)
		}

		// Upsert with the same hash must update, not duplicate.
		if err := repo.UpsertImportLog(fp, "a-renamed.csv", 5); err != nil {
			t.Fatalf("re-upsert: %v", err)
		}
		recs, err := repo.ListImports()
		if err != nil {
			t.Fatalf("ListImports: %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("import log entries = %d, want 1", len(recs))
		}
		if recs[0].Filename != "a-renamed.csv" || recs[0].RowCount != 5 {
			t.Fatalf("unexpected record: %+v", recs[0])
		}
	})

	t.Run("delete by file", func(t *testing.T) {
		if err := repo.DeleteTransactionsByFile("a.csv"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var cnt int
		if err := db.QueryRow("SELECT COUNT(*) FROM transactions WHERE file=$1", "a.csv").Scan(&cnt); err != nil {
			t.Fatalf("count: %v", err)
		}
		if cnt != 0 {
			t.Fatalf("expected 0 rows after delete, got %d", cnt)
		}
		// The other file's rows survive.
		out, err := repo.ListTransactions("Brokerage-9876", nil, nil)
		if err != nil || len(out) != 1 {
			t.Fatalf("err=%v rows=%d", err, len(out))
		}
	})
}
