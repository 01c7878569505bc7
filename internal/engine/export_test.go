package engine

import (
	"context"
	"time"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// RunTickForTest runs one evaluation pass synchronously, bypassing the timer.
func (e *Engine) RunTickForTest(ctx context.Context) { e.runTick(ctx) }

// SendWindowOpen exposes the send-window gate for tests.
func SendWindowOpen(prefs *storage.NotificationPreferences, now time.Time) bool {
	return sendWindowOpen(prefs, now)
}
