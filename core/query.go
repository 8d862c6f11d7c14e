/*
query.go - Verse and event resolution over in-memory collections

PURPOSE:
  Answers the questions the UI asks: "which verse does age group X
  memorize last/this/next week", "which events overlap month Y"
  (including multi-day spans), "which monthly verse applies", and the
  home-screen statistics.

RESOLUTION POLICY:
  Weekly resolution returns the FIRST verse (in collection order)
  whose date falls inside each window. A collection holding two verses
  for the same (age group, week) is a data-quality problem the
  resolver does not arbitrate; only the earliest-inserted record wins.
  Kept as-is pending product confirmation - do not switch to
  latest-wins without it.
*/
package core

import "time"

// WeeklyVerses is the three-window answer for one age group. A nil
// entry means no verse matched that week.
type WeeklyVerses struct {
	LastWeek *Verse `json:"lastWeek"`
	ThisWeek *Verse `json:"thisWeek"`
	NextWeek *Verse `json:"nextWeek"`
}

// ResolveWeeklyVerses filters to the age group and picks the first
// verse falling inside each of the last/current/next week windows.
func ResolveWeeklyVerses(verses []Verse, group AgeGroup, now time.Time) WeeklyVerses {
	windows := []DateRange{LastWeekRange(now), WeekRange(now), NextWeekRange(now)}
	picks := make([]*Verse, len(windows))

	for i := range verses {
		v := verses[i]
		if v.AgeGroup != group {
			continue
		}
		for w, win := range windows {
			if picks[w] == nil && win.ContainsDate(v.Date) {
				picks[w] = &v
			}
		}
	}
	return WeeklyVerses{LastWeek: picks[0], ThisWeek: picks[1], NextWeek: picks[2]}
}

// MonthEvents returns events whose own date falls in the month, or
// whose [StartDate, EndDate] span overlaps it. The overlap test is the
// standard interval check on ISO dates: start <= monthEnd && end >=
// monthStart.
func MonthEvents(events []Event, year int, month time.Month) []Event {
	first, last := MonthBounds(year, month)
	var out []Event
	for _, ev := range events {
		if ev.Date >= first && ev.Date <= last {
			out = append(out, ev)
			continue
		}
		if ev.IsSpan() && ev.StartDate <= last && ev.EndDate >= first {
			out = append(out, ev)
		}
	}
	return out
}

// EventsForDate returns every event covering the ISO date, spans
// included.
func EventsForDate(events []Event, date string) []Event {
	var out []Event
	for _, ev := range events {
		if ev.CoversDate(date) {
			out = append(out, ev)
		}
	}
	return out
}

// ResolveMonthlyVerse prefers the exact (year, month) record; when
// absent, any record matching the month substitutes regardless of
// year. Cross-year reuse is intentional: curricula repeat annually.
func ResolveMonthlyVerse(list []MonthlyVerse, year, month int) *MonthlyVerse {
	for i := range list {
		if list[i].Year == year && list[i].Month == month {
			return &list[i]
		}
	}
	for i := range list {
		if list[i].Month == month {
			return &list[i]
		}
	}
	return nil
}

// =============================================================================
// STATS - Home-screen summary numbers
// =============================================================================

type Stats struct {
	TotalVerses    int `json:"totalVerses"`
	ThisWeekEvents int `json:"thisWeekEvents"`
	ThisWeekVerses int `json:"thisWeekVerses"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	Upcoming       int `json:"upcoming"`
}

// ComputeStats summarizes the collections for the home screen:
// totals, this-week counts, and the month's memorization progress
// (verses before today / inside the current week / after today).
func ComputeStats(verses []Verse, events []Event, now time.Time) Stats {
	week := WeekRange(now)
	stats := Stats{TotalVerses: len(verses)}

	for _, ev := range events {
		if week.ContainsDate(ev.Date) {
			stats.ThisWeekEvents++
		}
	}

	for _, v := range verses {
		t, err := ParseDate(v.Date, now.Location())
		if err != nil {
			continue
		}
		if week.Contains(t) {
			stats.ThisWeekVerses++
		}
		if t.Year() != now.Year() || t.Month() != now.Month() {
			continue
		}
		switch {
		case week.Contains(t):
			stats.InProgress++
		case t.Before(now):
			stats.Completed++
		case t.After(now):
			stats.Upcoming++
		}
	}
	return stats
}
