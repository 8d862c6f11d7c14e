/*
startup.go - Startup orchestrator

PURPOSE:
  Brings the app from cold start to a serving state through a strictly
  sequential step chain. Later steps depend on the side effects of
  earlier ones (verse data must be cleared before re-seeding), so there
  is no parallel fan-out.

STEP CHAIN:
  INIT_STORE -> LOAD_EVENT_CACHE -> CLEAR_VERSE_DATA -> SEED_DECISION
  -> SEED_LOAD|skip -> WORKBOOK_FALLBACK_LOAD
  -> CALENDAR_WORKBOOK_LOAD (only when seeding)
  -> APPLY_START_ROUTE -> POST_SEED_CLEANUP (only when seeded)
  -> GUARANTEE_NONEMPTY_EVENTS -> INVALIDATE_QUERY_CACHE
  -> START_PRUNE_SCHEDULER -> RESCHEDULE_NOTIFICATIONS -> DONE

FAILURE MODEL:
  Best effort, always finish. Every step is wrapped; a failing step is
  recorded in the result and the chain continues. DONE is always
  reached, and the final guarantee step injects the builtin event set
  so the collection is never empty whatever failed before it.

SEEDING:
  Seeding is needed iff the persisted event collection is empty or the
  stored seed-version marker differs from the asset's. The marker is
  read before the verse clear wipes it, so an unchanged seed does not
  re-import the calendar on every launch. Seed events MERGE into the
  store by signature; seed verses replace wholesale.

SEE ALSO:
  - seed/seed.go: the three seed sources and their preference order
  - cleaner.go: the pruning pass POST_SEED_CLEANUP runs
*/
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/grace/verse-engine/core"
	"github.com/grace/verse-engine/decode"
	"github.com/grace/verse-engine/seed"
	"github.com/grace/verse-engine/store"
)

// Step names one stage of the startup chain.
type Step string

const (
	StepInitStore        Step = "init_store"
	StepLoadEventCache   Step = "load_event_cache"
	StepClearVerseData   Step = "clear_verse_data"
	StepSeedDecision     Step = "seed_decision"
	StepSeedLoad         Step = "seed_load"
	StepWorkbookFallback Step = "workbook_fallback_load"
	StepCalendarWorkbook Step = "calendar_workbook_load"
	StepApplyStartRoute  Step = "apply_start_route"
	StepPostSeedCleanup  Step = "post_seed_cleanup"
	StepGuaranteeEvents  Step = "guarantee_nonempty_events"
	StepInvalidateCache  Step = "invalidate_query_cache"
	StepStartPrune       Step = "start_prune_scheduler"
	StepReschedule       Step = "reschedule_notifications"
	StepDone             Step = "done"
)

// DefaultStartRoute is used when no preference is stored.
const DefaultStartRoute = "home"

// Orchestrator wires the startup chain. Assets, Cleaner and Notifier
// are optional; a nil field degrades the corresponding step instead of
// failing it.
type Orchestrator struct {
	Store    *store.Store
	Assets   AssetSource
	Cleaner  *Cleaner
	Notifier Notifier
	Log      *zap.SugaredLogger
	Now      func() time.Time
}

// Result reports what the chain did.
type Result struct {
	Completed  []Step
	Failed     map[Step]error
	Seeded     bool
	StartRoute string
}

// Run executes the chain. It always returns a result whose last
// completed step is DONE.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	if o.Log == nil {
		o.Log = zap.NewNop().Sugar()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	now := o.Now()
	res := &Result{Failed: make(map[Step]error), StartRoute: DefaultStartRoute}

	var (
		storedVersion string
		seedDoc       *seed.Document
		seedNeeded    bool
	)

	o.step(res, StepInitStore, func() error {
		_, err := o.Store.Events(ctx)
		return err
	})

	o.step(res, StepLoadEventCache, func() error {
		// Remember the marker now: the verse clear below removes it.
		storedVersion = o.Store.SeedVersion(ctx)
		return o.Store.RefreshCache(ctx)
	})

	o.step(res, StepClearVerseData, func() error {
		o.Store.ClearVerseData(ctx)
		return nil
	})

	o.step(res, StepSeedDecision, func() error {
		events, err := o.Store.Events(ctx)
		if err != nil {
			return err
		}
		seedDoc = o.loadSeedAsset()
		seedNeeded = len(events) == 0 ||
			(seedDoc != nil && seedDoc.SeedVersion != storedVersion)
		o.Log.Infow("seed decision", "needed", seedNeeded, "storedVersion", storedVersion)
		return nil
	})

	o.step(res, StepSeedLoad, func() error {
		if !seedNeeded || seedDoc == nil {
			return nil
		}
		if err := o.applySeed(ctx, seedDoc); err != nil {
			return err
		}
		res.Seeded = true
		return nil
	})

	o.step(res, StepWorkbookFallback, func() error {
		return o.ensureVerses(ctx, seedDoc, now)
	})

	o.step(res, StepCalendarWorkbook, func() error {
		if !seedNeeded {
			return nil
		}
		return o.loadCalendarWorkbook(ctx)
	})

	o.step(res, StepApplyStartRoute, func() error {
		prefs, err := o.Store.Preferences(ctx)
		if err != nil {
			return err
		}
		if prefs.StartRoute != "" {
			res.StartRoute = prefs.StartRoute
		}
		return nil
	})

	o.step(res, StepPostSeedCleanup, func() error {
		if !res.Seeded || o.Cleaner == nil {
			return nil
		}
		_, err := o.Cleaner.PruneOnce(ctx)
		return err
	})

	o.step(res, StepGuaranteeEvents, func() error {
		events, err := o.Store.Events(ctx)
		if err != nil {
			return err
		}
		if len(events) > 0 {
			return nil
		}
		o.Log.Warnw("event collection empty after all sources, injecting builtin set")
		return o.Store.SetEvents(ctx, seed.FallbackEvents(now))
	})

	o.step(res, StepInvalidateCache, func() error {
		return o.Store.RefreshCache(ctx)
	})

	o.step(res, StepStartPrune, func() error {
		if o.Cleaner != nil {
			o.Cleaner.Start(ctx)
		}
		return nil
	})

	o.step(res, StepReschedule, func() error {
		return Reschedule(ctx, o.Store, o.Notifier, o.Log)
	})

	res.Completed = append(res.Completed, StepDone)
	o.Log.Infow("startup complete",
		"seeded", res.Seeded, "failedSteps", len(res.Failed), "startRoute", res.StartRoute)
	return res
}

// step runs one stage, recording rather than propagating its failure.
func (o *Orchestrator) step(res *Result, s Step, fn func() error) {
	if err := fn(); err != nil {
		o.Log.Warnw("startup step failed", "step", s, "error", err)
		res.Failed[s] = err
		return
	}
	res.Completed = append(res.Completed, s)
}

func (o *Orchestrator) loadSeedAsset() *seed.Document {
	if o.Assets == nil {
		return nil
	}
	doc, err := o.Assets.Seed()
	if err != nil {
		o.Log.Infow("no seed asset", "reason", err)
		return nil
	}
	return doc
}

// applySeed writes the document: verses wholesale, events merged so
// rows the user added or edited survive a reseed.
func (o *Orchestrator) applySeed(ctx context.Context, doc *seed.Document) error {
	if err := o.Store.SetVerses(ctx, doc.Verses); err != nil {
		return err
	}
	if err := o.Store.SetMonthlyVerses(ctx, doc.MonthlyVerses); err != nil {
		return err
	}
	existing, err := o.Store.Events(ctx)
	if err != nil {
		return err
	}
	if err := o.Store.SetEvents(ctx, core.MergeEvents(existing, doc.Events)); err != nil {
		return err
	}
	if doc.SeedVersion != "" {
		if err := o.Store.SetSeedVersion(ctx, doc.SeedVersion); err != nil {
			return err
		}
	}
	return nil
}

// ensureVerses refills the verse collections when the seed path left
// them empty: first the attached workbook, then the seed document,
// then the builtin dataset.
func (o *Orchestrator) ensureVerses(ctx context.Context, seedDoc *seed.Document, now time.Time) error {
	verses, err := o.Store.Verses(ctx)
	if err != nil {
		return err
	}
	if len(verses) > 0 {
		return nil
	}

	if o.Assets != nil {
		if rc, err := o.Assets.VerseWorkbook(); err == nil {
			defer rc.Close()
			f, err := decode.OpenWorkbook(rc)
			if err == nil {
				if parsed, err := decode.ParseVerseWorkbook(f, now, o.Log); err == nil && len(parsed.Verses) > 0 {
					if err := o.Store.SetVerses(ctx, parsed.Verses); err != nil {
						return err
					}
					return o.Store.SetMonthlyVerses(ctx, parsed.MonthlyVerses)
				}
			}
			o.Log.Infow("verse workbook asset unusable, falling back")
		}
	}

	if seedDoc != nil && len(seedDoc.Verses) > 0 {
		if err := o.Store.SetVerses(ctx, seedDoc.Verses); err != nil {
			return err
		}
		return o.Store.SetMonthlyVerses(ctx, seedDoc.MonthlyVerses)
	}

	fallback := seed.Fallback(now)
	if err := o.Store.SetVerses(ctx, fallback.Verses); err != nil {
		return err
	}
	return o.Store.SetMonthlyVerses(ctx, fallback.MonthlyVerses)
}

func (o *Orchestrator) loadCalendarWorkbook(ctx context.Context) error {
	if o.Assets == nil {
		return nil
	}
	rc, err := o.Assets.CalendarWorkbook()
	if err != nil {
		o.Log.Infow("no calendar workbook asset", "reason", err)
		return nil
	}
	defer rc.Close()

	f, err := decode.OpenWorkbook(rc)
	if err != nil {
		return fmt.Errorf("calendar workbook: %w", err)
	}
	parsed, skipped, err := decode.ParseCalendarWorkbook(f, int(o.Now().UnixMilli()), o.Log)
	if err != nil {
		return err
	}
	if skipped > 0 {
		o.Log.Infow("calendar rows skipped", "count", skipped)
	}
	existing, err := o.Store.Events(ctx)
	if err != nil {
		return err
	}
	return o.Store.SetEvents(ctx, core.MergeEvents(existing, parsed))
}
