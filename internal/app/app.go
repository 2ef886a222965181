package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/fidpulse/fidpulse/config"
	"github.com/fidpulse/fidpulse/internal/api"
	"github.com/fidpulse/fidpulse/internal/service"
	"github.com/fidpulse/fidpulse/internal/storage"
)

// InitializeApp wires all application dependencies and returns a fully
// configured Gin router, a cleanup function for graceful shutdown, and
// any initialization error.
//
// Layers, bottom up: Postgres connection -> transactions repository ->
// transaction service -> HTTP handlers -> router (plus health probes).
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewTransactionsRepository(db)
	svc := service.NewTransactionService(repo)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
