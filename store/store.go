/*
store.go - Tiered persistent document store

PURPOSE:
  All persistence goes through named JSON documents (events, verses,
  monthly_verses, seed_version, preferences) written to an ordered
  list of backends. Each backend implements the same small Tier
  interface; the store walks the list so the strongest available
  medium wins without any platform knowledge leaking into callers.

TIER SEMANTICS:
  Write: first tier that accepts the document wins. A failing tier
  logs a warning and the next one is tried; only when every tier
  refuses does the write error.

  Read: first tier that holds the document wins. A tier that fails or
  simply does not have the document falls through to the next.

  Delete: runs on every tier, so a stale copy in a weaker tier cannot
  resurface after the authoritative one is cleared.

DEGRADED MODE:
  Collection getters never fail: an unreadable or absent document
  yields an empty collection. The app keeps running on whatever data
  survives, which is the contract the startup sequence depends on.

IMPLEMENTATIONS:
  - store/sqlite: SQLite-backed tier (authoritative)
  - tier_file.go: JSON files in the user data or cache directory
  - tier_memory.go: process-lifetime map, the tier of last resort

SEE ALSO:
  - cache.go: the synchronous read-through snapshot the API serves from
  - app/startup.go: initialization and seeding order
*/
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/grace/verse-engine/core"
)

// Document names. Fixed: tiers key storage by these strings.
const (
	DocEvents      = "events"
	DocVerses      = "verses"
	DocMonthly     = "monthly_verses"
	DocSeedVersion = "seed_version"
	DocPreferences = "preferences"
)

var (
	// ErrNoDocument is returned by a Tier when the document is absent.
	ErrNoDocument = errors.New("document not found")

	// ErrAllTiersFailed is returned when no tier accepted a write.
	ErrAllTiersFailed = errors.New("no storage tier available")
)

// Tier is one storage backend. Implementations must be safe for
// concurrent use.
type Tier interface {
	Name() string
	Read(ctx context.Context, doc string) ([]byte, error)
	Write(ctx context.Context, doc string, data []byte) error
	Delete(ctx context.Context, doc string) error
}

// Store walks an ordered tier list and keeps the query cache fresh on
// every successful write.
type Store struct {
	tiers []Tier
	cache *Cache
	log   *zap.SugaredLogger
	now   func() time.Time
}

// New builds a store over the given tiers, strongest first.
func New(log *zap.SugaredLogger, tiers ...Tier) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		tiers: tiers,
		cache: NewCache(),
		log:   log,
		now:   time.Now,
	}
}

// WithClock overrides the id/timestamp clock. Tests only.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Cache returns the synchronous snapshot the query layer reads from.
func (s *Store) Cache() *Cache {
	return s.cache
}

// =============================================================================
// TIER WALKING
// =============================================================================

func (s *Store) read(ctx context.Context, doc string) ([]byte, error) {
	for _, t := range s.tiers {
		data, err := t.Read(ctx, doc)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNoDocument) {
			s.log.Warnw("tier read failed", "tier", t.Name(), "doc", doc, "error", err)
		}
	}
	return nil, ErrNoDocument
}

func (s *Store) write(ctx context.Context, doc string, data []byte) error {
	for _, t := range s.tiers {
		if err := t.Write(ctx, doc, data); err != nil {
			s.log.Warnw("tier write failed", "tier", t.Name(), "doc", doc, "error", err)
			continue
		}
		return nil
	}
	return fmt.Errorf("write %s: %w", doc, ErrAllTiersFailed)
}

func (s *Store) delete(ctx context.Context, doc string) {
	for _, t := range s.tiers {
		if err := t.Delete(ctx, doc); err != nil && !errors.Is(err, ErrNoDocument) {
			s.log.Warnw("tier delete failed", "tier", t.Name(), "doc", doc, "error", err)
		}
	}
}

// readJSON decodes a collection document. Absence and corruption both
// come back as the zero value: the caller sees an empty collection.
func readJSON[T any](s *Store, ctx context.Context, doc string) (T, error) {
	var out T
	data, err := s.read(ctx, doc)
	if err != nil {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warnw("document corrupt, treating as empty", "doc", doc, "error", err)
		var zero T
		return zero, nil
	}
	return out, nil
}

func writeJSON(s *Store, ctx context.Context, doc string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", doc, err)
	}
	return s.write(ctx, doc, data)
}

// =============================================================================
// EVENTS
// =============================================================================

// Events returns the full event collection, empty when nothing is
// stored or readable.
func (s *Store) Events(ctx context.Context) ([]core.Event, error) {
	return readJSON[[]core.Event](s, ctx, DocEvents)
}

// SetEvents replaces the event collection.
func (s *Store) SetEvents(ctx context.Context, events []core.Event) error {
	if err := writeJSON(s, ctx, DocEvents, events); err != nil {
		return err
	}
	s.cache.setEvents(events)
	return nil
}

// AppendEvent adds one event. A zero id gets a millisecond-clock id,
// matching imported-row identity.
func (s *Store) AppendEvent(ctx context.Context, ev core.Event) (core.Event, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return core.Event{}, err
	}
	if ev.ID == 0 {
		ev.ID = int(s.now().UnixMilli())
	}
	if err := s.SetEvents(ctx, append(events, ev)); err != nil {
		return core.Event{}, err
	}
	return ev, nil
}

// DeleteEvent removes an event by id.
func (s *Store) DeleteEvent(ctx context.Context, id int) error {
	events, err := s.Events(ctx)
	if err != nil {
		return err
	}
	kept := events[:0:0]
	for _, ev := range events {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	if len(kept) == len(events) {
		return fmt.Errorf("event %d: %w", id, core.ErrEventNotFound)
	}
	return s.SetEvents(ctx, kept)
}

// EventsForDate returns the events covering one calendar date,
// including multi-day spans.
func (s *Store) EventsForDate(ctx context.Context, date string) ([]core.Event, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	return core.EventsForDate(events, date), nil
}

// =============================================================================
// VERSES
// =============================================================================

func (s *Store) Verses(ctx context.Context) ([]core.Verse, error) {
	return readJSON[[]core.Verse](s, ctx, DocVerses)
}

// SetVerses replaces the verse collection wholesale. Verses are never
// merged: each import is the new truth.
func (s *Store) SetVerses(ctx context.Context, verses []core.Verse) error {
	if err := writeJSON(s, ctx, DocVerses, verses); err != nil {
		return err
	}
	s.cache.setVerses(verses)
	return nil
}

func (s *Store) MonthlyVerses(ctx context.Context) ([]core.MonthlyVerse, error) {
	return readJSON[[]core.MonthlyVerse](s, ctx, DocMonthly)
}

func (s *Store) SetMonthlyVerses(ctx context.Context, verses []core.MonthlyVerse) error {
	if err := writeJSON(s, ctx, DocMonthly, verses); err != nil {
		return err
	}
	s.cache.setMonthlyVerses(verses)
	return nil
}

// ClearVerseData removes verse collections and the seed marker from
// every tier. Events deliberately survive: clearing study data must
// not touch the calendar.
func (s *Store) ClearVerseData(ctx context.Context) {
	s.delete(ctx, DocVerses)
	s.delete(ctx, DocMonthly)
	s.delete(ctx, DocSeedVersion)
	s.cache.setVerses(nil)
	s.cache.setMonthlyVerses(nil)
}

// =============================================================================
// SEED VERSION AND PREFERENCES
// =============================================================================

// SeedVersion returns the stored seed marker, empty when never seeded.
func (s *Store) SeedVersion(ctx context.Context) string {
	data, err := s.read(ctx, DocSeedVersion)
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *Store) SetSeedVersion(ctx context.Context, version string) error {
	return s.write(ctx, DocSeedVersion, []byte(version))
}

func (s *Store) Preferences(ctx context.Context) (core.Preferences, error) {
	return readJSON[core.Preferences](s, ctx, DocPreferences)
}

func (s *Store) SetPreferences(ctx context.Context, p core.Preferences) error {
	return writeJSON(s, ctx, DocPreferences, p)
}

// =============================================================================
// CACHE REFRESH
// =============================================================================

// RefreshCache reloads every collection into the snapshot. Called once
// at startup and after bulk mutations that bypass the setters.
func (s *Store) RefreshCache(ctx context.Context) error {
	events, err := s.Events(ctx)
	if err != nil {
		return err
	}
	verses, err := s.Verses(ctx)
	if err != nil {
		return err
	}
	monthly, err := s.MonthlyVerses(ctx)
	if err != nil {
		return err
	}
	s.cache.setEvents(events)
	s.cache.setVerses(verses)
	s.cache.setMonthlyVerses(monthly)
	return nil
}
