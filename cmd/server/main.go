package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikabank/ledger-api/internal/adapter/http/controller"
	"github.com/mikabank/ledger-api/internal/adapter/http/middleware"
	"github.com/mikabank/ledger-api/internal/adapter/http/router"
	"github.com/mikabank/ledger-api/internal/adapter/repository/memory"
	"github.com/mikabank/ledger-api/internal/adapter/repository/postgres"
	"github.com/mikabank/ledger-api/internal/config"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/usecase/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var accounts domain.AccountStore
	var transactions domain.TransactionLog

	switch cfg.Storage {
	case "memory":
		accounts = memory.NewAccountStore()
		transactions = memory.NewTransactionLog()
	default:
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
			cancel()
			log.Fatalf("run migrations: %v", err)
		}
		cancel()

		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()

		accounts = postgres.NewAccountStore(db)
		transactions = postgres.NewTransactionLog(db)
	}

	authService := services.NewAuthService(accounts, cfg.SecretKey)
	userService := services.NewUserService(accounts)
	transferService := services.NewTransferService(accounts, transactions)

	handler := router.New(
		controller.NewHealthController(),
		controller.NewAuthController(userService, authService),
		controller.NewUserController(userService),
		controller.NewTransferController(transferService),
		controller.NewTransactionController(transferService),
		middleware.BearerAuth(authService, accounts),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s (storage=%s)", cfg.HTTPAddr, cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
