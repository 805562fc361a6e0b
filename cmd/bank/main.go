package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bank-account/internal/config"
	"bank-account/internal/console"
	"bank-account/internal/repository"
	"bank-account/internal/repository/jsonfile"
	"bank-account/internal/repository/sqlite"
	"bank-account/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	closeLog, err := setupLogging(logger, cfg)
	if err != nil {
		logger.Fatalf("setup logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()

	repo, closeRepo, err := buildRepository(ctx, cfg)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	defer closeRepo()

	log := logger.WithField("session", uuid.NewString())
	log.WithField("driver", cfg.Storage.Driver).Info("starting")

	svc := service.NewAccountService(repo, service.Config{Logger: log})
	ui := console.New(os.Stdin, os.Stdout)

	// every change is saved as it happens, so an interrupt just ends the process
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		<-ch
		log.Info("interrupted")
		fmt.Fprintln(os.Stdout)
		os.Exit(130)
	}()

	report, err := svc.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load account data: %v\n", err)
		closeRepo()
		log.Fatalf("load account: %v", err)
	}
	ui.ReportLoad(report)

	if err := ui.Run(ctx, svc); err != nil {
		closeRepo()
		if errors.Is(err, service.ErrLockedOut) {
			log.Fatal("locked out")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Fatalf("run: %v", err)
	}
	log.Info("bye")
}

func setupLogging(logger *logrus.Logger, cfg config.Config) (func(), error) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)

	if cfg.Log.File == "" {
		logger.SetOutput(os.Stderr)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return func() { f.Close() }, nil
}

func buildRepository(ctx context.Context, cfg config.Config) (repository.AccountRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		repo, err := sqlite.NewAccountRepository(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open account database: %w", err)
		}
		return repo, func() { repo.Close() }, nil
	default:
		return jsonfile.NewStore(cfg.Storage.Path), func() {}, nil
	}
}
