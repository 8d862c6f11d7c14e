/*
cleaner.go - Stale-event pruning scheduler

PURPOSE:
  Keeps the calendar free of finished events. One pass drops every
  event whose effective end precedes the operational day and dedups
  what remains through the same signature path imports use.

OPERATIONAL DAY:
  Pruning before 01:00 treats "today" as the previous calendar day, so
  an event ending yesterday survives a cleanup that runs just after
  midnight while people may still be looking at it.

SCHEDULE:
  Start runs one pass immediately, then reschedules itself for the
  next 01:30 local-time boundary, firing once per day until Stop.
*/
package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/grace/verse-engine/core"
	"github.com/grace/verse-engine/store"
)

// Cleaner prunes stale events on a daily schedule.
type Cleaner struct {
	store *store.Store
	log   *zap.SugaredLogger
	now   func() time.Time

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

func NewCleaner(st *store.Store, log *zap.SugaredLogger) *Cleaner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Cleaner{store: st, log: log, now: time.Now, stop: make(chan struct{})}
}

// WithClock overrides the clock. Tests only.
func (c *Cleaner) WithClock(now func() time.Time) *Cleaner {
	c.now = now
	return c
}

// PruneOnce removes events already fully in the past and dedups the
// remainder. Returns how many entries were dropped.
func (c *Cleaner) PruneOnce(ctx context.Context) (int, error) {
	events, err := c.store.Events(ctx)
	if err != nil {
		return 0, err
	}

	today := core.OperationalDay(c.now())
	kept := make([]core.Event, 0, len(events))
	for _, ev := range events {
		if ev.EffectiveEnd() >= today {
			kept = append(kept, ev)
		}
	}
	kept = core.DedupEvents(kept)

	removed := len(events) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := c.store.SetEvents(ctx, kept); err != nil {
		return 0, err
	}
	c.log.Infow("stale events pruned", "removed", removed, "kept", len(kept))
	return removed, nil
}

// Start runs one pass now and schedules a daily pass at 01:30 local
// time. Safe to call once; Stop ends the schedule.
func (c *Cleaner) Start(ctx context.Context) {
	if _, err := c.PruneOnce(ctx); err != nil {
		c.log.Warnw("initial prune failed", "error", err)
	}
	go c.loop(ctx)
}

func (c *Cleaner) loop(ctx context.Context) {
	for {
		wait := time.Until(nextRun(c.now()))
		select {
		case <-time.After(wait):
			if _, err := c.PruneOnce(ctx); err != nil {
				c.log.Warnw("scheduled prune failed", "error", err)
			}
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends the schedule. Idempotent.
func (c *Cleaner) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.stopped = true
		close(c.stop)
	}
}

// nextRun is the next 01:30 local-time boundary strictly after now.
func nextRun(now time.Time) time.Time {
	run := time.Date(now.Year(), now.Month(), now.Day(), 1, 30, 0, 0, now.Location())
	if !run.After(now) {
		run = run.AddDate(0, 0, 1)
	}
	return run
}
