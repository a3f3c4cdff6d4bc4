package server

import (
	"context"
	"time"
)

// runSnapshotLoop flushes dirty state every SnapshotInterval. A failed write
// is logged and leaves the dirty flag set, so the next tick retries.
func (app *App) runSnapshotLoop(ctx context.Context) {
	ticker := time.NewTicker(app.config.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.flush(ctx)
		}
	}
}

func (app *App) flush(ctx context.Context) {
	if app.userStore.Dirty() {
		snap, gen := app.userStore.Snapshot()
		if err := app.store.SaveUsers(ctx, snap); err != nil {
			app.metrics.SnapshotErrors.Inc()
			app.logger.Error(ctx, "saving user state failed", "error", err)
		} else {
			app.userStore.MarkSaved(gen)
			app.metrics.SnapshotWrites.Inc()
		}
	}

	if app.chatLog.Dirty() {
		messages, gen := app.chatLog.Snapshot()
		if err := app.store.SaveMessages(ctx, messages); err != nil {
			app.metrics.SnapshotErrors.Inc()
			app.logger.Error(ctx, "saving chat log failed", "error", err)
		} else {
			app.chatLog.MarkSaved(gen)
			app.metrics.SnapshotWrites.Inc()
		}
	}
}
