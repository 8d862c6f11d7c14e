/*
daterange.go - Week and month window math

PURPOSE:
  Pure functions computing the Monday-anchored week windows
  (last/current/next) and month boundaries used by verse and event
  resolution, plus the "operational day" used by stale-event pruning.

WEEK ANCHORING:
  Weeks run Monday 00:00:00.000 through Sunday 23:59:59.999 in the
  reference instant's location. Weekday numbering treats Sunday as
  day 0, so the offset back to Monday is 6 for Sunday and weekday-1
  otherwise.

EXACT 7-DAY PERIODICITY:
  LastWeekRange/NextWeekRange shift the current window by exactly
  seven days. They are NOT recomputed from a shifted reference date;
  that guarantees start-to-start distances of exactly 7 days across
  month and year boundaries.

OPERATIONAL DAY:
  Any wall-clock hour before 01:00 still belongs to the previous
  calendar day. Only the stale-event pruning job uses this; verse
  resolution always uses the plain calendar day. The rule exists so
  "today's" events are not pruned moments after local midnight.
*/
package core

import "time"

const isoDate = "2006-01-02"

// DateRange is an inclusive window of wall-clock time.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the instant falls inside the window.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ContainsDate reports whether an ISO date's local midnight falls
// inside the window. Unparseable dates are outside every window.
func (r DateRange) ContainsDate(date string) bool {
	t, err := ParseDate(date, r.Start.Location())
	if err != nil {
		return false
	}
	return r.Contains(t)
}

// Shift returns the range moved by n days on both ends.
func (r DateRange) Shift(days int) DateRange {
	return DateRange{Start: r.Start.AddDate(0, 0, days), End: r.End.AddDate(0, 0, days)}
}

// WeekRange returns the Monday-through-Sunday window containing ref.
func WeekRange(ref time.Time) DateRange {
	day := int(ref.Weekday())
	back := day - 1
	if day == 0 { // Sunday belongs to the week that started 6 days ago
		back = 6
	}
	y, m, d := ref.AddDate(0, 0, -back).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 0, 6)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), ref.Location())
	return DateRange{Start: start, End: end}
}

// LastWeekRange is the current window shifted back seven days.
func LastWeekRange(ref time.Time) DateRange { return WeekRange(ref).Shift(-7) }

// NextWeekRange is the current window shifted forward seven days.
func NextWeekRange(ref time.Time) DateRange { return WeekRange(ref).Shift(7) }

// MonthRange returns first-of-month through last-of-month inclusive.
func MonthRange(year int, month time.Month, loc *time.Location) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return DateRange{Start: start, End: end}
}

// MonthBounds returns the ISO first and last dates of a month.
func MonthBounds(year int, month time.Month) (first, last string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start.Format(isoDate), start.AddDate(0, 1, -1).Format(isoDate)
}

// OperationalDay returns the ISO date the pruning job should treat as
// "today": before 01:00 local the previous calendar day still counts.
func OperationalDay(now time.Time) string {
	if now.Hour() < 1 {
		now = now.AddDate(0, 0, -1)
	}
	return now.Format(isoDate)
}

// FormatDate renders an instant as an ISO calendar date.
func FormatDate(t time.Time) string { return t.Format(isoDate) }

// ParseDate parses an ISO date at midnight in the given location.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(isoDate, date, loc)
}
