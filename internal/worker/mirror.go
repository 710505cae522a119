// Package worker consumes transaction change events and mirrors them to
// an external sheet.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"rocel/internal/amqp"
	"rocel/internal/log"
	"rocel/internal/sheets"
)

// heartbeatInterval is how often the worker logs that it is alive.
const heartbeatInterval = 5 * time.Minute

// MirrorWorker appends every consumed change event to the mirror.
type MirrorWorker struct {
	mirror sheets.Mirror
	logger *log.Logger

	handled int64 // read by the heartbeat goroutine, access atomically
}

// NewMirrorWorker creates a worker writing to the given mirror.
func NewMirrorWorker(mirror sheets.Mirror, logger *log.Logger) *MirrorWorker {
	return &MirrorWorker{
		mirror: mirror,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent mirrors one change event. Replacement events mark a bulk
// import; they carry no single record and only log.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	if ev.Op == amqp.OpReplaced {
		w.logger.InfoContext(ctx, "Transaction set replaced upstream, skipping row append")
		return nil
	}

	ref, err := w.mirror.AppendChange(ctx, ev.Op, ev.Transaction)
	if err != nil {
		return fmt.Errorf("append change to mirror: %w", err)
	}

	atomic.AddInt64(&w.handled, 1)
	w.logger.InfoContext(ctx, "Mirrored transaction change",
		log.FieldOperation, ev.Op,
		log.FieldTransactionID, ev.Transaction.ID,
		log.FieldSheetsRef, ref)
	return nil
}

// Handled returns how many events the worker has mirrored so far.
func (w *MirrorWorker) Handled() int64 {
	return atomic.LoadInt64(&w.handled)
}

// Run consumes events until the context is cancelled. The consumer and a
// heartbeat ticker run as a group; either failing stops both.
func (w *MirrorWorker) Run(ctx context.Context, client *amqp.Client) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeTransactionEvents(ctx, func(ev *amqp.TransactionEvent) error {
			return w.HandleEvent(ctx, ev)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				w.logger.InfoContext(ctx, "Mirror worker alive", log.FieldCount, w.Handled())
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
