package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/commands"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/queries"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// OrderGetter loads one order for a follow-up timer.
type OrderGetter interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
}

// OverdueFinder lists the ids a sweep step has to settle.
type OverdueFinder interface {
	Handle(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]kernel.UUID, error)
}

// StatusFinder lists the orders whose timers are re-derived on start.
type StatusFinder interface {
	Handle(ctx context.Context, query queries.GetOrdersInStatusQuery) ([]*order.Order, error)
}

// StateChanger applies a housekeeping transition.
type StateChanger interface {
	Handle(ctx context.Context, cmd commands.ChangeOrderStateCommand) (*order.Order, error)
}

// OrderReaper deletes an order regardless of its state.
type OrderReaper interface {
	Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error
}

// CronParseOptions is the syntax of HousekeepingSettings.Schedule, the same
// one cron.WithSeconds installs.
const CronParseOptions = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// HousekeepingSettings configures the sweep schedule and the state timeouts
// the follow-up timers are derived from.
type HousekeepingSettings struct {
	// Schedule is a cron spec with a leading seconds field.
	Schedule     string
	StartupDelay time.Duration
	Timeouts     order.StateTimeouts
}

// Step is a one-shot action armed by Schedule.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// rearmable are the states whose follow-up is armed as a one-shot timer.
var rearmable = []order.Status{order.Locked, order.Ordered, order.Revoked, order.Delivered}

// HousekeepingJob advances and reaps orders that stayed in a state for too
// long. A cron driven sweep covers every order; one-shot timers armed after
// each transition make the follow-up happen on time between sweeps.
type HousekeepingJob struct {
	getter   OrderGetter
	overdue  OverdueFinder
	byStatus StatusFinder
	changer  StateChanger
	reaper   OrderReaper
	settings HousekeepingSettings
	clock    clock.Clock
	cron     *cron.Cron
	logger   *slog.Logger

	sweepMu sync.Mutex

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	timers    map[uint64]*clock.Timer
	nextTimer uint64
	stopped   bool
}

// NewHousekeepingJob creates a stopped job. Start registers the sweep and
// arms the timers.
func NewHousekeepingJob(
	getter OrderGetter,
	overdue OverdueFinder,
	byStatus StatusFinder,
	changer StateChanger,
	reaper OrderReaper,
	settings HousekeepingSettings,
	clk clock.Clock,
	logger *slog.Logger,
) *HousekeepingJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &HousekeepingJob{
		getter:   getter,
		overdue:  overdue,
		byStatus: byStatus,
		changer:  changer,
		reaper:   reaper,
		settings: settings,
		clock:    clk,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "housekeeping_job"),
		ctx:      ctx,
		cancel:   cancel,
		timers:   make(map[uint64]*clock.Timer),
	}
}

// Start registers the periodic sweep, arms the delayed startup sweep and
// re-derives the one-shot timers from the persisted order states.
func (j *HousekeepingJob) Start() error {
	if _, err := j.cron.AddFunc(j.settings.Schedule, func() { j.Sweep(j.ctx) }); err != nil {
		return fmt.Errorf("invalid housekeeping schedule %q: %w", j.settings.Schedule, err)
	}

	j.cron.Start()
	j.Schedule(j.clock.Now(), j.settings.StartupDelay, Step{
		Name: "startup sweep",
		Run: func(ctx context.Context) error {
			j.Sweep(ctx)
			return nil
		},
	})
	j.Reschedule(j.ctx)

	j.logger.InfoContext(j.ctx, "Housekeeping job started",
		"schedule", j.settings.Schedule, "startup_delay", j.settings.StartupDelay.String())
	return nil
}

// Stop waits for a running sweep and drops all pending timers.
func (j *HousekeepingJob) Stop() {
	<-j.cron.Stop().Done()

	j.mu.Lock()
	j.stopped = true
	for id, timer := range j.timers {
		if timer != nil {
			timer.Stop()
		}
		delete(j.timers, id)
	}
	j.mu.Unlock()

	j.cancel()
	j.logger.InfoContext(context.Background(), "Housekeeping job stopped")
}

// Pending returns the number of armed one-shot timers.
func (j *HousekeepingJob) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.timers)
}

// Sweep runs deletions, reopens, deliveries and archives in that order. A
// failing row is logged and the batch continues. Each step repeats its
// lookup while the previous batch settled at least one row, so a selection
// larger than the batch size is drained in one sweep. Concurrent sweeps are
// serialized.
func (j *HousekeepingJob) Sweep(ctx context.Context) {
	j.sweepMu.Lock()
	defer j.sweepMu.Unlock()

	j.sweepStep(ctx, queries.OverdueForDeletion, func(ctx context.Context, id kernel.UUID) error {
		return j.reap(ctx, id)
	})
	j.sweepStep(ctx, queries.OverdueForReopen, j.transition(order.Reopen))
	j.sweepStep(ctx, queries.OverdueForDelivery, j.transition(order.MarkDelivered))
	j.sweepStep(ctx, queries.OverdueForArchive, j.transition(order.Archive))
}

func (j *HousekeepingJob) sweepStep(ctx context.Context, selection queries.Overdue, apply func(context.Context, kernel.UUID) error) {
	query, err := queries.NewGetOverdueOrdersQuery(selection)
	if err != nil {
		j.logger.ErrorContext(ctx, "Housekeeping query invalid", "step", selection.String(), "error", err)
		return
	}

	total := 0
	for ctx.Err() == nil {
		ids, err := j.overdue.Handle(ctx, query)
		if err != nil {
			j.logger.ErrorContext(ctx, "Housekeeping lookup failed", "step", selection.String(), "error", err)
			break
		}

		// rows that fail stay in the selection; stop once a batch only has those
		settled := 0
		for _, id := range ids {
			if err = apply(ctx, id); err != nil {
				j.logFailure(ctx, selection.String(), id, err)
				continue
			}
			settled++
		}

		total += settled
		if settled == 0 {
			break
		}
	}

	if total > 0 {
		j.logger.InfoContext(ctx, "Housekeeping step finished", "step", selection.String(), "orders", total)
	}
}

// Reschedule arms a follow-up timer for every order whose state has one.
func (j *HousekeepingJob) Reschedule(ctx context.Context) {
	for _, status := range rearmable {
		query, err := queries.NewGetOrdersInStatusQuery(status)
		if err != nil {
			j.logger.ErrorContext(ctx, "Reschedule query invalid", "status", status.String(), "error", err)
			continue
		}

		orders, err := j.byStatus.Handle(ctx, query)
		if err != nil {
			j.logger.ErrorContext(ctx, "Reschedule lookup failed", "status", status.String(), "error", err)
			continue
		}

		for _, o := range orders {
			j.rearm(o)
		}
	}
}

// Schedule arms step to run at reference+d, or immediately if that instant
// has already passed. Timers are not persisted; Reschedule rebuilds them.
func (j *HousekeepingJob) Schedule(reference time.Time, d time.Duration, step Step) {
	j.scheduleAt(reference.Add(d), step)
}

func (j *HousekeepingJob) scheduleAt(at time.Time, step Step) {
	delay := max(at.Sub(j.clock.Now()), 0)

	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	id := j.nextTimer
	j.nextTimer++
	j.timers[id] = nil
	j.mu.Unlock()

	timer := j.clock.AfterFunc(delay, func() {
		j.mu.Lock()
		_, armed := j.timers[id]
		delete(j.timers, id)
		j.mu.Unlock()

		if armed {
			j.run(step)
		}
	})

	j.mu.Lock()
	if _, armed := j.timers[id]; armed {
		j.timers[id] = timer
	}
	j.mu.Unlock()
}

func (j *HousekeepingJob) run(step Step) {
	if err := step.Run(j.ctx); err != nil {
		j.logger.ErrorContext(j.ctx, "Scheduled housekeeping step failed", "step", step.Name, "error", err)
	}
}

// Observer re-arms the follow-up timer after each transition into a state
// that has one.
func (j *HousekeepingJob) Observer() observers.Observer {
	return observers.Observer{
		Name: "housekeeping_reschedule",
		Kinds: []observers.EventKind{
			observers.OrderLocked,
			observers.OrderOrdered,
			observers.OrderDelivered,
			observers.OrderRevoked,
		},
		Handle: func(_ context.Context, event observers.Event) error {
			if event.Order == nil {
				return errors.New("event carries no order")
			}
			j.rearm(event.Order)
			return nil
		},
	}
}

func (j *HousekeepingJob) rearm(o *order.Order) {
	deadline, ok := o.NextTransition(j.settings.Timeouts)
	if !ok {
		return
	}

	id, status := o.ID(), o.Status()
	j.scheduleAt(deadline, Step{
		Name: fmt.Sprintf("follow-up of %s order %s", status, id),
		Run: func(ctx context.Context) error {
			return j.followUp(ctx, id, status)
		},
	})
}

// followUp applies the timed transition of status if the order is still in
// that state and its deadline has passed. Timers armed for an earlier visit
// of the same state find a later deadline and do nothing.
func (j *HousekeepingJob) followUp(ctx context.Context, id kernel.UUID, status order.Status) error {
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	o, err := j.getter.Handle(ctx, query)
	if errs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if o.Status() != status {
		return nil
	}
	deadline, ok := o.NextTransition(j.settings.Timeouts)
	if !ok || deadline.After(j.clock.Now()) {
		return nil
	}

	if err = j.apply(ctx, id, status); err != nil && !expected(err) {
		return err
	}
	return nil
}

func (j *HousekeepingJob) apply(ctx context.Context, id kernel.UUID, status order.Status) error {
	switch status {
	case order.Locked:
		return j.transition(order.Reopen)(ctx, id)
	case order.Ordered:
		return j.transition(order.MarkDelivered)(ctx, id)
	case order.Delivered:
		return j.transition(order.Archive)(ctx, id)
	case order.Revoked:
		return j.reap(ctx, id)
	}
	return nil
}

func (j *HousekeepingJob) transition(t order.Transition) func(context.Context, kernel.UUID) error {
	return func(ctx context.Context, id kernel.UUID) error {
		cmd, err := commands.NewHousekeepingStateCommand(id, t)
		if err != nil {
			return err
		}
		_, err = j.changer.Handle(ctx, cmd)
		return err
	}
}

func (j *HousekeepingJob) reap(ctx context.Context, id kernel.UUID) error {
	cmd, err := commands.NewReapOrderCommand(id)
	if err != nil {
		return err
	}
	return j.reaper.Handle(ctx, cmd)
}

func (j *HousekeepingJob) logFailure(ctx context.Context, step string, id kernel.UUID, err error) {
	if expected(err) {
		j.logger.InfoContext(ctx, "Order moved on before housekeeping",
			"step", step, "order_id", id.String(), "error", err)
		return
	}
	j.logger.ErrorContext(ctx, "Housekeeping failed for order",
		"step", step, "order_id", id.String(), "error", err)
}

// expected reports errors caused by a concurrent writer having already
// changed or removed the order.
func expected(err error) bool {
	return errs.IsNotFound(err) || errs.IsInvalidState(err) || errs.IsConflict(err)
}
