// Package reconcile repairs denormalized category refs after a category is
// deleted. The delete itself never waits on this: handlers enqueue a job
// and return, and affected attendees keep their stale ref until the worker
// gets to them.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/multierr"

	"ecc-register/internal/live"
	"ecc-register/internal/store"
)

const queueSize = 64

type job struct {
	eventID    string
	categoryID string
}

// Reconciler clears dangling category refs in the background.
type Reconciler struct {
	mu        sync.RWMutex
	attendees *store.AttendeeStore
	feed      *live.Feed
	logger    *slog.Logger
	jobs      chan job
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a reconciler.
func New(as *store.AttendeeStore, feed *live.Feed, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		attendees: as,
		feed:      feed,
		logger:    logger,
		jobs:      make(chan job, queueSize),
	}
}

// Start begins the worker loop.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.mu.Unlock()

	go func() {
		defer close(r.done)
		for {
			select {
			case <-ctx.Done():
				return
			case j := <-r.jobs:
				r.process(j)
			}
		}
	}()
}

// Stop gracefully stops the worker.
func (r *Reconciler) Stop() {
	r.mu.RLock()
	cancel := r.cancel
	done := r.done
	r.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Enqueue schedules reconciliation for a deleted category. Never blocks:
// if the queue is full the job is dropped and logged, leaving the affected
// attendees with dangling refs until corrected manually.
func (r *Reconciler) Enqueue(eventID, categoryID string) {
	select {
	case r.jobs <- job{eventID: eventID, categoryID: categoryID}:
	default:
		r.logger.Error("reconcile queue full, dropping job",
			"event_id", eventID, "category_id", categoryID)
	}
}

// process clears the deleted category's ref from every attendee still
// holding it. Attendees are handled independently: one failed update does
// not block the rest, and nothing is retried.
func (r *Reconciler) process(j job) {
	attendees, err := r.attendees.ListByCategory(j.eventID, j.categoryID)
	if err != nil {
		r.logger.Error("reconcile list attendees",
			"event_id", j.eventID, "category_id", j.categoryID, "error", err)
		return
	}

	var errs error
	cleared := 0
	for _, a := range attendees {
		if err := r.attendees.ClearCategory(a.ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("attendee %s: %w", a.ID, err))
			continue
		}
		cleared++
	}

	if errs != nil {
		r.logger.Error("reconcile clear refs",
			"event_id", j.eventID, "category_id", j.categoryID,
			"cleared", cleared, "failed", len(attendees)-cleared, "error", errs)
	}

	if cleared > 0 && r.feed != nil {
		r.feed.PublishAttendees(j.eventID)
	}
}
