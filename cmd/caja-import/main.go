// Command caja-import loads a snapshot file into the configured backend,
// replacing the whole ledger. The batch is validated first: one bad
// transaction rejects the file and leaves the store untouched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"caja/internal/backend"
	"caja/internal/config"
	"caja/internal/core"
	applog "caja/internal/log"
	"caja/internal/services"
)

func main() {
	_ = godotenv.Load()

	logger := applog.Setup(applog.ComponentImport)

	var snapshotPath string
	flag.StringVar(&snapshotPath, "file", "", "path to the snapshot JSON file")
	flag.Parse()

	if snapshotPath == "" {
		logger.Error("Missing -file flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	b, err := os.ReadFile(snapshotPath)
	if err != nil {
		logger.Error("Failed to read snapshot file", "error", err, "path", snapshotPath)
		os.Exit(1)
	}
	var snap core.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		logger.Error("Failed to parse snapshot file", "error", err, "path", snapshotPath)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	svc := services.NewLedgerService(result.Store, nil)
	n, err := svc.Import(ctx, snap)
	if err != nil {
		logger.Error("Import failed", "error", err, "path", snapshotPath)
		os.Exit(1)
	}

	logger.Info("Import complete",
		"path", snapshotPath,
		"entries", n,
		"backend", cfg.DataBackend)
}
