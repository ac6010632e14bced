package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nahidhasan98/webhook-shunt/internal/config"
	"github.com/nahidhasan98/webhook-shunt/internal/formatter"
	"github.com/nahidhasan98/webhook-shunt/internal/handlers"
	"github.com/nahidhasan98/webhook-shunt/internal/logger"
	"github.com/nahidhasan98/webhook-shunt/internal/messaging"
	"github.com/nahidhasan98/webhook-shunt/internal/server"
	"github.com/nahidhasan98/webhook-shunt/internal/shortener"
)

// Global variables for configuration and services
var (
	cfg     *config.Config
	log     *logger.Logger
	sender  messaging.Sender
	waApp   *messaging.WhatsAppSender
	errChan = make(chan error, 1)
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration and services
	if err := initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Initialization error: %v\n", err)
		os.Exit(1)
	}

	httpServer := startWebServer()

	// Handle shutdown signals
	waitForShutdown(cancel, httpServer)
}

func initialize(ctx context.Context) error {
	var err error

	// Load configuration
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting webhook shunt")

	switch cfg.Messaging.Driver {
	case config.DriverWhatsApp:
		waApp, err = messaging.NewWhatsAppSender(ctx, messaging.WhatsAppOptions{
			DBDriver:   cfg.Database.Driver,
			DBDSN:      cfg.Database.DSN,
			LogLevel:   cfg.WhatsApp.LogLevel,
			DeviceName: cfg.WhatsApp.DeviceName,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		if err := waApp.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to WhatsApp: %w", err)
		}
		sender = waApp
	default:
		sender = messaging.NewRelaySender(cfg.Messaging.URL, cfg.Messaging.Timeout)
	}

	log.Infof("Messaging transport: %s, channel: %s", cfg.Messaging.Driver, cfg.Bot.Channel)
	return nil
}

func startWebServer() *server.Server {
	dispatcher := messaging.NewDispatcher(sender, cfg.Bot.Channel, messaging.Credentials{
		Email: cfg.Bot.Email,
		Token: cfg.Bot.Token,
	}, log)
	announcer := formatter.New(shortener.New(cfg.Shortener.URL, cfg.Shortener.Timeout, log))

	httpHandler := handlers.New(announcer, dispatcher, cfg.Messaging.Driver, log)

	httpServer := server.New(cfg.Server, httpHandler, log)
	if err := httpServer.Start(errChan); err != nil {
		log.Error("Failed to start HTTP server", err)
		shutdownTransport()
		os.Exit(1)
	}

	return httpServer
}

func waitForShutdown(cancel context.CancelFunc, httpServer *server.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Error("HTTP server failed", err)
	case <-sigChan:
		log.Info("Received shutdown signal")
	}

	cancel()

	// In-flight deliveries are abandoned
	if err := httpServer.Close(); err != nil {
		log.Error("Error closing HTTP server", err)
	}
	shutdownTransport()

	log.Info("Application stopped")
}

func shutdownTransport() {
	if waApp != nil {
		waApp.Disconnect()
	}
}
