/*
normalize.go - Decoded rows to typed records

PURPOSE:
  Turns the raw cell groups produced by the workbook decoder into
  Verse, MonthlyVerse and Event records: parenthetical reference
  extraction, month-token parsing, and the description flattening for
  calendar rows.

REFERENCE EXTRACTION:
  Verse content usually carries its scripture reference as a trailing
  parenthetical: "내용 (요한복음 3:16)". The group is split off as the
  reference and stripped from the content. When no group exists, the
  lesson name serves as the reference (a verse never renders with an
  empty reference). Monthly-verse rows are stricter: no extractable
  reference means the row is discarded. The asymmetry is inherited
  from the upstream data contract - unify only with product sign-off.
*/
package decode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/grace/verse-engine/core"
)

// refPattern captures "body (reference)" with the group at the end.
var refPattern = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*$`)

// yearMonthPattern matches "YYYY.M" month tokens.
var yearMonthPattern = regexp.MustCompile(`^(\d{4})\.(\d{1,2})$`)

// monthSuffixPattern matches the local "N월" notation.
var monthSuffixPattern = regexp.MustCompile(`^(\d{1,2})\s*월$`)

// SplitReference extracts a trailing parenthetical reference. ok is
// false when the content has no such group.
func SplitReference(content string) (body, ref string, ok bool) {
	m := refPattern.FindStringSubmatch(strings.TrimSpace(content))
	if m == nil {
		return strings.TrimSpace(content), "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// NormalizeVerse builds a Verse from decoded cells. The id comes from
// the caller's per-batch counter.
func NormalizeVerse(id int, group core.AgeGroup, date, lesson, content string) (core.Verse, error) {
	date = strings.TrimSpace(date)
	content = strings.TrimSpace(content)
	lesson = strings.TrimSpace(lesson)
	if date == "" || content == "" {
		return core.Verse{}, core.ErrMissingField
	}

	body, ref, ok := SplitReference(content)
	if !ok {
		// Lesson-name fallback: a verse never has an empty reference.
		ref = lesson
		body = content
	}
	return core.Verse{
		ID:         id,
		Date:       date,
		Reference:  ref,
		Content:    body,
		AgeGroup:   group,
		LessonName: lesson,
	}, nil
}

// ParseMonthToken parses a month cell in priority order: "YYYY.M",
// "N월", bare number. The year defaults to now's year when the token
// carries none.
func ParseMonthToken(token string, now time.Time) (year, month int, err error) {
	token = strings.TrimSpace(token)
	year = now.Year()

	if m := yearMonthPattern.FindStringSubmatch(token); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
	} else if m := monthSuffixPattern.FindStringSubmatch(token); m != nil {
		month, _ = strconv.Atoi(m[1])
	} else if n, convErr := strconv.Atoi(token); convErr == nil {
		month = n
	} else {
		return 0, 0, fmt.Errorf("month token %q: %w", token, core.ErrInvalidMonth)
	}

	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month %d: %w", month, core.ErrInvalidMonth)
	}
	return year, month, nil
}

// NormalizeMonthlyVerse builds a MonthlyVerse from decoded cells.
// Unlike weekly verses there is NO lesson-name fallback: a row whose
// reference cannot be extracted is discarded.
func NormalizeMonthlyVerse(id int, monthToken, reference, content string, now time.Time) (core.MonthlyVerse, error) {
	year, month, err := ParseMonthToken(monthToken, now)
	if err != nil {
		return core.MonthlyVerse{}, err
	}

	reference = strings.TrimSpace(reference)
	content = strings.TrimSpace(content)
	if reference == "" {
		if body, ref, ok := SplitReference(content); ok {
			content = body
			reference = ref
		}
	}
	if reference == "" {
		return core.MonthlyVerse{}, core.ErrMissingReference
	}
	return core.MonthlyVerse{ID: id, Year: year, Month: month, Reference: reference, Content: content}, nil
}

// calendarCells is one decoded calendar row before normalization.
type calendarCells struct {
	Date        string
	Title       string
	Description string
	Category    string
	Time        string
	Location    string
	Start       string
	End         string
}

// NormalizeEvent builds an Event from decoded calendar cells.
// Category, time and location have no dedicated schema columns; they
// fold into the description as "label: value" fragments.
func NormalizeEvent(id int, c calendarCells) (core.Event, error) {
	date := strings.TrimSpace(c.Date)
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return core.Event{}, core.ErrMissingField
	}
	if date == "" && strings.TrimSpace(c.Start) == "" {
		return core.Event{}, core.ErrMissingField
	}

	start := strings.TrimSpace(c.Start)
	end := strings.TrimSpace(c.End)
	if date == "" {
		date = start
	}

	return core.Event{
		ID:          id,
		Date:        date,
		Title:       title,
		Description: foldDescription(c.Description, c.Category, c.Time, c.Location),
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// BuildEvent assembles an event from loose fields, applying the same
// normalization as spreadsheet rows. Used for manual entry.
func BuildEvent(id int, date, title, description, category, timeOfDay, location, start, end string) (core.Event, error) {
	return NormalizeEvent(id, calendarCells{
		Date:        date,
		Title:       title,
		Description: description,
		Category:    category,
		Time:        timeOfDay,
		Location:    location,
		Start:       start,
		End:         end,
	})
}

// foldDescription joins the free-text description with labeled
// category/time/location fragments.
func foldDescription(desc, category, timeOfDay, location string) string {
	parts := make([]string, 0, 4)
	if d := strings.TrimSpace(desc); d != "" {
		parts = append(parts, d)
	}
	for _, f := range []struct{ label, value string }{
		{"분류", category},
		{"시간", timeOfDay},
		{"장소", location},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			parts = append(parts, f.label+": "+v)
		}
	}
	return strings.Join(parts, " | ")
}
