package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

const (
	// SweepInterval is how often the background sweep retries pending effects.
	SweepInterval = 5 * time.Minute

	maxAttempts = 5
	sweepBatch  = 50
)

// HandlerFunc delivers one side effect. An error marks the effect for retry
// until maxAttempts is reached.
type HandlerFunc func(ctx context.Context, effect db.SideEffect) error

// Dispatcher delivers recorded side effects. A Kick from the recorder
// triggers a delivery pass right after the primary operation commits; the
// background ticker sweep retries anything that failed.
type Dispatcher struct {
	queries  *db.Queries
	handlers map[Kind]HandlerFunc
	ticker   *time.Ticker
	kick     chan struct{}
	done     chan bool
}

func NewDispatcher(queries *db.Queries) *Dispatcher {
	return &Dispatcher{
		queries:  queries,
		handlers: make(map[Kind]HandlerFunc),
		kick:     make(chan struct{}, 1),
		done:     make(chan bool),
	}
}

// Kick schedules a prompt delivery pass. Safe from any goroutine; a kick
// while one is already queued is dropped.
func (d *Dispatcher) Kick() {
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) Handle(kind Kind, fn HandlerFunc) {
	d.handlers[kind] = fn
}

// DispatchPending attempts delivery of all deliverable pending effects once.
func (d *Dispatcher) DispatchPending(ctx context.Context) {
	effects, err := d.queries.ListPendingSideEffects(ctx, db.ListPendingSideEffectsParams{
		Attempts: maxAttempts,
		Limit:    sweepBatch,
	})
	if err != nil {
		slog.Error("failed to list pending side effects", "error", err)
		return
	}

	for _, effect := range effects {
		d.deliver(ctx, effect)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, effect db.SideEffect) {
	handler, ok := d.handlers[Kind(effect.Kind)]
	if !ok {
		d.markFailed(ctx, effect.ID, fmt.Sprintf("no handler for kind %s", effect.Kind))
		return
	}

	if err := handler(ctx, effect); err != nil {
		slog.Warn("side effect delivery failed",
			"id", effect.ID, "kind", effect.Kind, "attempts", effect.Attempts+1, "error", err)
		d.markFailed(ctx, effect.ID, err.Error())
		return
	}

	if err := d.queries.MarkSideEffectSent(ctx, effect.ID); err != nil {
		slog.Error("failed to mark side effect sent", "id", effect.ID, "error", err)
	}
}

func (d *Dispatcher) markFailed(ctx context.Context, id, message string) {
	err := d.queries.MarkSideEffectFailed(ctx, db.MarkSideEffectFailedParams{
		Attempts:  maxAttempts,
		LastError: sql.NullString{String: message, Valid: true},
		ID:        id,
	})
	if err != nil {
		slog.Error("failed to mark side effect failed", "id", id, "error", err)
	}
}

// Start begins the background retry sweep.
func (d *Dispatcher) Start(ctx context.Context) {
	slog.Info("starting side effect dispatcher", "interval", SweepInterval)

	d.ticker = time.NewTicker(SweepInterval)

	go func() {
		for {
			select {
			case <-d.ticker.C:
				d.DispatchPending(ctx)
			case <-d.kick:
				d.DispatchPending(ctx)
			case <-d.done:
				slog.Info("side effect dispatcher stopped")
				return
			}
		}
	}()
}

// Stop stops the background sweep.
func (d *Dispatcher) Stop() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
	close(d.done)
}
