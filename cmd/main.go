package main

//
//  @title           fidpulse API
//  @version         1.0
//  @description     Brokerage CSV import & query service.
//  @contact.name    API Support
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        transactions
//  @tag.description Endpoints for querying imported transactions
//
//  @tag.name        imports
//  @tag.description Endpoints for inspecting the import log
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fidpulse/fidpulse/config"
	_ "github.com/fidpulse/fidpulse/docs" // swagger docs
	"github.com/fidpulse/fidpulse/internal/app"
	_ "github.com/fidpulse/fidpulse/internal/extract/fidelity" // register extractor
	"github.com/fidpulse/fidpulse/internal/ingestion"
	"github.com/fidpulse/fidpulse/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate
// goroutine, returning the server instance for shutdown handling.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown terminates the HTTP server and runs cleanup when an
// OS interrupt signal (SIGINT, SIGTERM) arrives.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the fidpulse application.
//
// Modes (selected via --mode flag):
//   - import: Imports brokerage CSV exports from the import directory,
//     deduplicated by content fingerprint.
//   - api:    Starts the REST API exposing imported transactions.
//
// Flags:
//   - --mode:     Execution mode ("import" or "api"). Default: "import".
//   - --dir:      Directory containing CSV exports. Defaults to IMPORT_DIR.
//   - --parallel: How many files to process concurrently (0 = auto).
//   - --force:    Re-import files already present in the import log.
//   - --port:     Port for API mode. Defaults to SERVER_PORT.
func main() {
	ctx := context.Background()

	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "import", "Mode: import or api")
	dir := flag.String("dir", config.AppConfig.Import.Dir, "Directory with CSV export files")
	parallel := flag.Int("parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 8)")
	force := flag.Bool("force", false, "Re-import files even if their fingerprint is already logged (deletes their previous rows)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "import":
		logger.L().Info().Msg("running import")

		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		if err := ingestion.ProcessDirectory(ctx, *dir, db, *parallel, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("import failed")
		}
		logger.L().Info().Msg("import completed successfully")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
