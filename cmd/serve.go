package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/renewd/internal/api"
	"github.com/shaharia-lab/renewd/internal/engine"
	"github.com/shaharia-lab/renewd/internal/eventbus"
	"github.com/shaharia-lab/renewd/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reminder engine and HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP server port (overrides PORT env var)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := app.Config
	if cmd.Flags().Changed("port") {
		port, err := cmd.Flags().GetInt("port")
		if err != nil {
			return fmt.Errorf("reading port flag: %w", err)
		}
		cfg.Port = port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Event bus: the engine publishes tick lifecycle events, the bus fans
	// them out to a structured-log listener.
	bus := eventbus.New(2, app.Logger)
	defer bus.Close()
	bus.Subscribe(func(e eventbus.Event) {
		attrs := make([]any, 0, 2*len(e.Payload)+2)
		attrs = append(attrs, "event_type", e.Type)
		for k, v := range e.Payload {
			attrs = append(attrs, k, v)
		}
		app.Logger.Info("engine event", attrs...)
	})

	eng, err := engine.New(engine.Config{
		Subscriptions:  app.Subscriptions,
		Preferences:    app.Preferences,
		Ledger:         app.Ledger,
		Dispatcher:     app.Dispatcher,
		Logger:         app.Logger,
		TickInterval:   cfg.TickInterval(),
		StartupDelay:   cfg.StartupDelay(),
		EventPublisher: bus,
	})
	if err != nil {
		return fmt.Errorf("creating reminder engine: %w", err)
	}

	reminderSvc := service.NewReminderService(eng, app.Ledger, nil, app.Adapters...)
	subscriptionSvc := service.NewSubscriptionService(app.Subscriptions)
	preferenceSvc := service.NewPreferenceService(app.Preferences)

	srv := api.New(reminderSvc, subscriptionSvc, preferenceSvc, app.Logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := eng.Start(); err != nil {
		return fmt.Errorf("starting reminder engine: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if serveErr := httpServer.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()
	fmt.Fprintf(os.Stderr, "renewd running on http://localhost:%d\n", cfg.Port)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		app.Logger.Error("http server failed", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		app.Logger.Warn("http server shutdown", "error", err)
	}

	// Let the in-flight tick finish before the process exits.
	if err := eng.Stop(); err != nil {
		app.Logger.Warn("engine shutdown", "error", err)
	}
	return nil
}
