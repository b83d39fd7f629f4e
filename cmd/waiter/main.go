// Package main запускает терминал официанта пиццерии Santana.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/santana-waiter/internal/apiclient"
	"github.com/mmeshcher/santana-waiter/internal/config"
	"github.com/mmeshcher/santana-waiter/internal/handler"
	"github.com/mmeshcher/santana-waiter/internal/notify"
	"github.com/mmeshcher/santana-waiter/internal/repository"
	"github.com/mmeshcher/santana-waiter/internal/session"
	"github.com/mmeshcher/santana-waiter/internal/storage"
	"github.com/mmeshcher/santana-waiter/internal/workflow"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var backend session.Storage
	if cfg.DatabaseURI != "" {
		repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		defer repo.Close()
		backend = repo
	} else {
		key, err := storage.ParseKey(cfg.StorageKey)
		if err != nil {
			sugar.Fatalw("storage key error", "error", err.Error())
		}
		fs, err := storage.NewFile(cfg.SessionFile, key)
		if err != nil {
			sugar.Fatalw("session file error", "error", err.Error())
		}
		backend = fs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wf := workflow.New(apiclient.NewClient(cfg.APIBaseURL), session.NewStore(backend), logger)
	restored, err := wf.Restore(ctx)
	if err != nil {
		sugar.Warnw("session restore failed", "error", err.Error())
	}

	feed := notify.NewFeed(notify.DefaultFeedSize)
	listener := notify.NewListener(cfg.NotifyAMQPURL, cfg.NotificationsEnabled, feed, logger)

	h := handler.NewHandler(wf, feed, logger)
	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Уведомления не критичны: сбой брокера не останавливает экраны
	g.Go(func() error {
		if err := listener.Listen(ctx); err != nil {
			sugar.Errorw("notification listener stopped", "error", err.Error())
		}
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting waiter terminal", "addr", cfg.RunAddress, "api", cfg.APIBaseURL, "restored", restored)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
