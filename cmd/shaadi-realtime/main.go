// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaadisharthi/realtime/lib/clock"
	"github.com/shaadisharthi/realtime/lib/inquiry"
	"github.com/shaadisharthi/realtime/lib/inquirystore"
	"github.com/shaadisharthi/realtime/lib/mailqueue"
	"github.com/shaadisharthi/realtime/lib/push"
	"github.com/shaadisharthi/realtime/lib/service"
	"github.com/shaadisharthi/realtime/lib/sessiontoken"
	"github.com/shaadisharthi/realtime/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "path to YAML config file (required)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("shaadi-realtime %s\n", version.Info())
		return nil
	}

	if configPath == "" {
		return fmt.Errorf("--config is required")
	}
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	publicKey, err := sessiontoken.ParsePublicKey(config.SessionPublicKey)
	if err != nil {
		return fmt.Errorf("parsing session public key: %w", err)
	}

	store, err := inquirystore.Open(inquirystore.Config{
		Path:     config.DatabasePath,
		PoolSize: config.DatabasePoolSize,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("opening inquiry store: %w", err)
	}
	defer store.Close()
	logger.Info("inquiry store open", "path", config.DatabasePath)

	var mail mailqueue.Queue
	if config.Mail.BrokerURL != "" {
		amqpQueue, err := mailqueue.DialAMQP(config.Mail.BrokerURL, config.Mail.Exchange, logger)
		if err != nil {
			return fmt.Errorf("connecting to mail broker: %w", err)
		}
		mail = amqpQueue
		logger.Info("mail broker connected", "exchange", config.Mail.Exchange)
	} else {
		mail = mailqueue.NewLogQueue(logger)
		logger.Warn("no mail broker configured, mail jobs will be logged and dropped")
	}
	defer mail.Close()

	clk := clock.Real()
	registry := push.NewRegistry(logger)
	defer registry.Close()

	dispatcher := push.NewDispatcher(push.DispatcherConfig{
		Registry:  registry,
		Logger:    logger,
		Workers:   config.Dispatcher.Workers,
		QueueSize: config.Dispatcher.QueueSize,
	})
	defer dispatcher.Close()

	coordinator, err := inquiry.NewCoordinator(inquiry.CoordinatorConfig{
		Store:      store,
		Clock:      clk,
		Logger:     logger,
		OnResolved: resolvedHook(dispatcher, mail, clk, logger),
	})
	if err != nil {
		return err
	}

	svc := &realtimeService{
		coordinator: coordinator,
		registry:    registry,
		dispatcher:  dispatcher,
		clock:       clk,
		logger:      logger,
		startedAt:   clk.Now(),
	}

	socketServer := service.NewSocketServer(config.ControlSocketPath, logger)
	svc.registerActions(socketServer, publicKey)

	socketDone := make(chan error, 1)
	go func() {
		socketDone <- socketServer.Serve(ctx)
	}()

	mux := http.NewServeMux()
	mux.Handle("GET /ws", newWSServer(registry, publicKey, clk, logger))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:              config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpDone := make(chan error, 1)
	go func() {
		logger.Info("websocket endpoint listening", "address", config.ListenAddress)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			httpDone <- err
			return
		}
		httpDone <- nil
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-httpDone:
		return fmt.Errorf("http server: %w", err)
	case err := <-socketDone:
		if err != nil {
			return fmt.Errorf("socket server: %w", err)
		}
		return fmt.Errorf("socket server exited unexpectedly")
	}

	// Stop the HTTP listener first so no new sessions arrive, then
	// drop the active ones via the deferred registry.Close.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := <-socketDone; err != nil {
		return fmt.Errorf("socket server: %w", err)
	}
	return nil
}

// resolvedHook builds the post-Finalize fanout: a push event to the
// inquiry's subject (if any) and a mail job for the reply. Both are
// best-effort; the resolution itself has already committed.
func resolvedHook(dispatcher *push.Dispatcher, mail mailqueue.Queue, clk clock.Clock, logger *slog.Logger) func(*inquiry.WorkItem) {
	return func(item *inquiry.WorkItem) {
		if item.SubjectID != "" {
			dispatcher.Notify(item.SubjectID, push.Event{
				Type:      "inquiry.resolved",
				Ref:       item.ID,
				Body:      "Your inquiry has been answered.",
				Timestamp: clk.Now(),
			})
		}
		if item.Email == "" {
			return
		}
		// The hook must not block Finalize on the broker.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			err := mail.Enqueue(ctx, mailqueue.Job{
				ID:         item.ID,
				To:         item.Email,
				Subject:    "Your ShaadiSharthi inquiry has been answered",
				Body:       item.Reply,
				EnqueuedAt: clk.Now(),
			})
			if err != nil {
				logger.Error("mail job enqueue failed", "inquiry_id", item.ID, "error", err)
			}
		}()
	}
}
