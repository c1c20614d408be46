// README: Entry point; loads config, wires services, starts the HTTP server and shuts it down on signal.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/config"
	httptransport "orderdesk/internal/http"
	"orderdesk/internal/infra"
	"orderdesk/internal/modules/order"
	"orderdesk/internal/modules/pricing"
	"orderdesk/internal/modules/spreadsheet"
)

func main() {
	if err := run(); err != nil {
		slog.Error("orderdesk-api exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level})))
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if cfg.DB.AutoMigrate {
		if err := infra.ApplyMigrations(ctx, dbPool, cfg.DB.MigrationsDir); err != nil {
			return err
		}
		slog.Info("migrations applied", "dir", cfg.DB.MigrationsDir)
	}

	var listCache order.ListCache
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		listCache = order.NewCache(redisClient, cfg.OrderCache.TTL)
	}

	pricingSvc := pricing.NewService(nil)

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, pricingSvc, listCache)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := infra.NewProducer(infra.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer producer.Close()
		orderSvc.WithPublisher(producer)
		slog.Info("order events enabled", "topic", cfg.Kafka.Topic)
	}

	sheetStore := spreadsheet.NewStore(dbPool)
	sheetExporter := spreadsheet.NewSheetsExporter(infra.SheetsConfig{Endpoint: cfg.Sheets.Endpoint})
	sheetSvc := spreadsheet.NewService(sheetStore, orderSvc, sheetExporter)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Order:       orderSvc,
		Pricing:     pricingSvc,
		Spreadsheet: sheetSvc,
		CORSOrigins: cfg.CORS.Origins,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
