package observers

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Notifier receives lifecycle events after the corresponding change has been
// committed, or right before a removal.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Observer is one registered reaction. An empty Kinds list subscribes to
// every event.
type Observer struct {
	Name   string
	Kinds  []EventKind
	Handle func(ctx context.Context, event Event) error
}

func (o Observer) accepts(kind EventKind) bool {
	return len(o.Kinds) == 0 || slices.Contains(o.Kinds, kind)
}

// Aggregator fans one event out to all registered observers in registration
// order. A failing or panicking observer is logged and skipped; it never
// stops its siblings and never reaches the caller.
type Aggregator struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *slog.Logger
}

// NewAggregator creates an aggregator without observers.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger.With("component", "change_notifier")}
}

func (a *Aggregator) Register(observers ...Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, observers...)
}

func (a *Aggregator) Notify(ctx context.Context, event Event) {
	a.mu.RLock()
	snapshot := slices.Clone(a.observers)
	a.mu.RUnlock()

	for _, o := range snapshot {
		if o.accepts(event.Kind) {
			a.dispatch(ctx, o, event)
		}
	}
}

func (a *Aggregator) dispatch(ctx context.Context, o Observer, event Event) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorContext(ctx, "Observer panicked",
				"observer", o.Name, "event", event.Kind.String(), "order_id", event.OrderID.String(),
				"error", fmt.Sprint(r))
		}
	}()

	if err := o.Handle(ctx, event); err != nil {
		a.logger.ErrorContext(ctx, "Observer failed",
			"observer", o.Name, "event", event.Kind.String(), "order_id", event.OrderID.String(),
			"error", err)
	}
}
