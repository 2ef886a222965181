package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fidpulse/fidpulse/internal/domain/models"
	"github.com/fidpulse/fidpulse/internal/extract"
	"github.com/fidpulse/fidpulse/internal/logger"
	"github.com/fidpulse/fidpulse/internal/storage"
)

const (
	fileSuffix       = ".csv"
	defaultBatchSize = 500
	maxParallelCap   = 8
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.TransactionsRepository {
	return storage.NewTransactionsRepository(db)
}

// ProcessDirectory imports every .csv export found in dir.
//
// Behavior:
//   - Files whose format no registered extractor claims are skipped, not errors.
//   - Files whose fingerprint is already in the import log are skipped,
//     unless force is set, in which case their previous rows are deleted
//     and the file is re-imported.
//   - Files process concurrently, capped at min(maxParallelCap, NumCPU)
//     or the provided parallel value (clamped to 1..maxParallelCap).
//   - The first file error cancels the remaining files.
//
// Returns:
//   - error: first error encountered (if any).
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, parallel int, force bool) error {
	repo := repoCtor(db)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), fileSuffix) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %s", fileSuffix, dir)
	}

	logger.L().Info().Int("files", len(files)).Str("dir", dir).Msg("import start")

	maxParallel := maxParallelCap
	if parallel > 0 {
		if parallel > maxParallelCap {
			parallel = maxParallelCap
		}
		maxParallel = parallel
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("max_parallel", maxParallel).Msg("import configured")

	// errgroup cancels siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, file := range files {
		idx := i
		f := file
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			base := filepath.Base(f)
			logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Msg("file start")

			total, skipped, err := importFile(gctx, f, repo, defaultBatchSize, force)
			if err != nil {
				logger.L().Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			if skipped {
				logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Bool("skipped", true).Msg("file skipped")
				return nil
			}
			logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Int("rows", total).Dur("elapsed", time.Since(start)).Bool("force", force).Msg("file done")
			return nil
		})
	}

	return g.Wait()
}

// importFile runs the full pipeline for one export file: detect the
// format, fingerprint it, check the import log, then stream transactions
// into the repository in batches.
//
// It reports skipped=true when the file is not a recognized export, has
// nothing to fingerprint, or was already imported (and force is off).
func importFile(ctx context.Context, path string, repo storage.TransactionsRepository, batch int, force bool) (total int, skipped bool, err error) {
	src, err := extract.OpenPath(path)
	if err != nil {
		return 0, false, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = src.Close() }()

	ext, err := extract.Detect(src)
	if err != nil {
		return 0, false, err
	}
	if ext == nil {
		logger.L().Warn().Str("file", src.Label()).Msg("no extractor claims this file")
		return 0, true, nil
	}

	fp, err := ext.Fingerprint()
	if err != nil {
		return 0, false, err
	}
	if fp == nil {
		// Empty or fully-filtered export; nothing to import.
		logger.L().Warn().Str("file", src.Label()).Str("extractor", ext.Name()).Msg("nothing to fingerprint")
		return 0, true, nil
	}

	// Idempotency: a known fingerprint means this exact content was
	// imported before.
	exists, err := repo.HasImportForHash(fp.FirstRowHash)
	if err != nil {
		return 0, false, fmt.Errorf("check import log: %w", err)
	}
	if exists && !force {
		return 0, true, nil
	}
	if exists && force {
		if err := repo.DeleteTransactionsByFile(src.Label()); err != nil {
			return 0, false, fmt.Errorf("delete existing: %w", err)
		}
	}

	buf := make([]models.Transaction, 0, batch)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertTransactionsBatch(buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	it := ext.Extract()
	for it.Next() {
		select {
		case <-ctx.Done():
			return 0, false, ctx.Err()
		default:
		}

		buf = append(buf, it.Transaction())
		total++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, false, fmt.Errorf("flush batch at row %d: %w", total, err)
			}
		}
	}
	if err := it.Err(); err != nil {
		return 0, false, fmt.Errorf("extract: %w", err)
	}
	if err := flush(); err != nil {
		return 0, false, fmt.Errorf("final flush: %w", err)
	}

	if err := repo.UpsertImportLog(*fp, src.Label(), total); err != nil {
		return 0, false, fmt.Errorf("upsert import log: %w", err)
	}
	return total, false, nil
}
