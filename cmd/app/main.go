package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("fulfillment: %v", err)
	}
}

func run(ctx context.Context) error {
	configs, err := cmd.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := cmd.NewLogger(configs)

	infra, err := cmd.OpenInfrastructure(ctx, configs, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := infra.Close(); closeErr != nil {
			logger.Error("close infrastructure", "error", closeErr)
		}
	}()

	app := cmd.NewCompositionRoot(configs, infra, logger)
	e, err := httpin.NewRouter(ctx, app.CreateServer(), app.RouterOptions())
	if err != nil {
		return err
	}
	e.Logger.SetLevel(log.WARN)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening",
			"port", configs.HTTPPort,
			"storage", configs.StorageDriver,
		)
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); !errors.Is(startErr, http.ErrServerClosed) {
			return startErr
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
