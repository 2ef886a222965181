package service

import (
	"context"
	"time"

	"github.com/fidpulse/fidpulse/internal/domain/models"
	"github.com/fidpulse/fidpulse/internal/storage"
)

// TransactionService defines business logic for querying imported
// transactions and the import log.
type TransactionService interface {
	ListTransactions(ctx context.Context, account string, startDate *time.Time, endDate *time.Time) ([]models.Transaction, error)
	ListImports(ctx context.Context) ([]models.ImportRecord, error)
}

type transactionService struct {
	repo storage.TransactionsRepository
}

func NewTransactionService(repo storage.TransactionsRepository) TransactionService {
	return &transactionService{repo: repo}
}

func (s *transactionService) ListTransactions(ctx context.Context, account string, startDate *time.Time, endDate *time.Time) ([]models.Transaction, error) {
	return s.repo.ListTransactions(account, startDate, endDate)
}

func (s *transactionService) ListImports(ctx context.Context) ([]models.ImportRecord, error) {
	return s.repo.ListImports()
}
