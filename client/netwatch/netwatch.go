package netwatch

import (
	"context"

	"go.uber.org/zap"
)

// Listen consumes connectivity events (true = online) and invokes onOnline on
// every offline-to-online transition. Drains are triggered only by this
// signal, never by a timer. Listen blocks until ctx is cancelled or events
// closes; run it in its own goroutine.
func Listen(ctx context.Context, events <-chan bool, log *zap.Logger, onOnline func(context.Context)) {
	online := false
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-events:
			if !ok {
				return
			}
			if state && !online {
				log.Info("Connectivity regained, triggering sync")
				onOnline(ctx)
			}
			online = state
		}
	}
}
