/*
Package core contains the domain model and pure algorithms of the
verse engine.

PURPOSE:
  This package is the dependency-free heart of the system: typed
  records for weekly verses, monthly verses and calendar events, the
  Monday-anchored week calculator, the merge-by-signature reconciler,
  and the query layer that answers "which verse belongs to this week"
  and "which events fall in this month".

KEY CONCEPTS IN THIS FILE (types.go):
  - AgeGroup: the primary partition key for weekly verses
  - Verse / MonthlyVerse / Event: the three record kinds produced by
    spreadsheet ingestion
  - Signature: a composite content key used for dedup-by-content
    (two events with the same signature are the same event, even when
    their ids differ)

DESIGN PRINCIPLES:
  1. Dates are ISO calendar dates (YYYY-MM-DD strings), never
     timestamps. Span membership and pruning compare at date
     granularity, so a device timezone can never shift an event by a
     day.
  2. IDs are batch-local. Import batches restart the verse counter;
     event ids are time-based on manual append. Consumers must not
     assume cross-import id stability.
  3. No I/O. Everything here is computable from values.

SEE ALSO:
  - daterange.go: week/month window math
  - merge.go: signature-based reconciliation
  - query.go: week/month resolution over collections
*/
package core

import "strings"

// =============================================================================
// AGE GROUP - Cohort partition key for weekly verses
// =============================================================================

type AgeGroup string

const (
	AgeKindergarten AgeGroup = "kindergarten"
	AgeElementary   AgeGroup = "elementary"
	AgeYouth        AgeGroup = "youth"
)

// AgeGroups lists every cohort in display order.
var AgeGroups = []AgeGroup{AgeKindergarten, AgeElementary, AgeYouth}

func (g AgeGroup) Valid() bool {
	switch g {
	case AgeKindergarten, AgeElementary, AgeYouth:
		return true
	}
	return false
}

// =============================================================================
// VERSE - One memorization verse for one (age group, calendar week)
// =============================================================================

// Verse is a weekly memorization verse. The collection is replaced
// wholesale on every successful import; verses are not user-editable.
type Verse struct {
	ID         int      `json:"id"`
	Date       string   `json:"date"` // ISO date of the verse's week
	Reference  string   `json:"reference"`
	Content    string   `json:"content"`
	AgeGroup   AgeGroup `json:"ageGroup"`
	LessonName string   `json:"lessonName,omitempty"`
}

// =============================================================================
// MONTHLY VERSE - One verse per (year, month), reused across years
// =============================================================================

// MonthlyVerse is the month-long memorization verse. Month is 1..12;
// resolution prefers an exact (year, month) match and falls back to
// any record with the same month because curricula repeat annually.
type MonthlyVerse struct {
	ID        int    `json:"id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Reference string `json:"reference"`
	Content   string `json:"content"`
}

// =============================================================================
// EVENT - Single-day or inclusive-span calendar entry
// =============================================================================

// Event is a calendar entry. Either Date alone denotes a single day,
// or StartDate+EndDate denote an inclusive span. Events are the only
// records that survive a verse-data clear; they persist across
// re-imports by explicit product requirement, not by accident.
type Event struct {
	ID          int      `json:"id"`
	Date        string   `json:"date"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AgeGroup    AgeGroup `json:"ageGroup,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
}

// IsSpan reports whether the event occupies an inclusive date range.
func (e Event) IsSpan() bool {
	return e.StartDate != "" && e.EndDate != ""
}

// EffectiveEnd is the last calendar date the event occupies. Pruning
// keys off this so a running multi-day event is never deleted early.
func (e Event) EffectiveEnd() string {
	if strings.TrimSpace(e.EndDate) != "" {
		return e.EndDate
	}
	return e.Date
}

// CoversDate reports whether the event occupies the given ISO date:
// an exact Date match, or membership in the [StartDate, EndDate] span.
// ISO strings compare lexicographically in calendar order, so this is
// a date-granularity test with no timestamp involved.
func (e Event) CoversDate(date string) bool {
	if e.Date == date {
		return true
	}
	if e.IsSpan() {
		return date >= e.StartDate && date <= e.EndDate
	}
	return false
}

// Signature is the composite content key used for dedup during merge:
// date|title|startDate|endDate|description, each field trimmed. Ids
// deliberately do not participate.
func (e Event) Signature() string {
	return strings.Join([]string{
		strings.TrimSpace(e.Date),
		strings.TrimSpace(e.Title),
		strings.TrimSpace(e.StartDate),
		strings.TrimSpace(e.EndDate),
		strings.TrimSpace(e.Description),
	}, "|")
}

// =============================================================================
// PREFERENCES - Persisted user settings consumed by the orchestrator
// =============================================================================

// NotificationSchedule is one recurring weekly notification slot.
// Weekday is 1 (Sunday) through 7 (Saturday); Time is "HH:MM".
type NotificationSchedule struct {
	Weekday int    `json:"weekday"`
	Time    string `json:"time"`
}

// Preferences is the persisted preference document.
type Preferences struct {
	StartRoute     string                 `json:"startRoute,omitempty"`
	AlarmOn        bool                   `json:"alarmOn"`
	AlarmSchedules []NotificationSchedule `json:"alarmSchedules,omitempty"`
}
