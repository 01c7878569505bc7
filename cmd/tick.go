package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/renewd/internal/engine"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run a single reminder tick and exit",
	Long:  "Evaluate every user's subscriptions once, dispatch any due reminders, then exit. Useful for cron-driven deployments and manual testing.",
	RunE:  runTick,
}

func runTick(cmd *cobra.Command, _ []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	eng, err := engine.New(engine.Config{
		Subscriptions: app.Subscriptions,
		Preferences:   app.Preferences,
		Ledger:        app.Ledger,
		Dispatcher:    app.Dispatcher,
		Logger:        app.Logger,
	})
	if err != nil {
		return fmt.Errorf("creating reminder engine: %w", err)
	}

	// The recurring timer is never started here; only one tick runs.
	return eng.RunTickNow(cmd.Context())
}
