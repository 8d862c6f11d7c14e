/*
seed.go - Seed document loading, building and builtin fallback

PURPOSE:
  A seed document is the bootstrap dataset applied on first launch or
  when the shipped data changes: weekly verses, monthly verses and
  calendar events plus a version marker. Three sources, in order of
  preference:

    1. Load  - a prebuilt seed.json shipped alongside the binary.
    2. Build - decode the attached verse and calendar workbooks
               directly (what the build-time generator does).
    3. Fallback - a small builtin dataset whose verse dates are
               anchored to the current week, so the app is never
               empty even with no assets at all.

VERSIONING:
  Built documents stamp the build instant as the version. The startup
  orchestrator reseeds when the stored marker differs, so shipping a
  new seed.json refreshes installed data exactly once.

SEE ALSO:
  app/startup.go - the seed decision and application order
  decode/workbook.go - the workbook decoding Build delegates to
*/
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/grace/verse-engine/core"
	"github.com/grace/verse-engine/decode"
)

// Document is the bootstrap dataset with its version marker.
type Document struct {
	SeedVersion   string              `json:"seedVersion"`
	Verses        []core.Verse        `json:"verses"`
	MonthlyVerses []core.MonthlyVerse `json:"monthlyVerses"`
	Events        []core.Event        `json:"events"`
}

// Load reads a prebuilt seed.json from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return &doc, nil
}

// Build decodes the attached workbooks into a seed document. Either
// reader may be nil; a missing or unreadable workbook contributes
// nothing rather than failing the build. Events already fully in the
// past are dropped so a stale calendar file cannot seed dead entries.
func Build(verseWB, calendarWB io.Reader, now time.Time, log *zap.SugaredLogger) *Document {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	doc := &Document{SeedVersion: now.UTC().Format(time.RFC3339)}

	if verseWB != nil {
		if f, err := decode.OpenWorkbook(verseWB); err != nil {
			log.Warnw("verse workbook unreadable", "error", err)
		} else if res, err := decode.ParseVerseWorkbook(f, now, log); err != nil {
			log.Warnw("verse workbook not decoded", "error", err)
		} else {
			doc.Verses = res.Verses
			doc.MonthlyVerses = res.MonthlyVerses
		}
	}

	if calendarWB != nil {
		if f, err := decode.OpenWorkbook(calendarWB); err != nil {
			log.Warnw("calendar workbook unreadable", "error", err)
		} else if events, skipped, err := decode.ParseCalendarWorkbook(f, 1, log); err != nil {
			log.Warnw("calendar workbook not decoded", "error", err)
		} else {
			if skipped > 0 {
				log.Infow("calendar rows skipped", "count", skipped)
			}
			doc.Events = dropPastEvents(events, now)
		}
	}
	return doc
}

func dropPastEvents(events []core.Event, now time.Time) []core.Event {
	today := core.FormatDate(now)
	kept := make([]core.Event, 0, len(events))
	for _, ev := range events {
		if ev.EffectiveEnd() >= today {
			kept = append(kept, ev)
		}
	}
	return kept
}

// =============================================================================
// BUILTIN FALLBACK DATASET
// =============================================================================

// weekDate returns the Sunday of the week containing now, shifted by
// whole weeks, so fallback rows always land inside the last/this/next
// query windows.
func weekDate(now time.Time, weekOffset int) string {
	r := core.WeekRange(now).Shift(weekOffset * 7)
	return core.FormatDate(r.End)
}

// Fallback returns the builtin dataset. No version marker: the builtin
// data never suppresses a later real seed.
func Fallback(now time.Time) *Document {
	return &Document{
		Verses:        fallbackVerses(now),
		MonthlyVerses: fallbackMonthlyVerses(),
		Events:        FallbackEvents(now),
	}
}

func fallbackVerses(now time.Time) []core.Verse {
	last, this, next := weekDate(now, -1), weekDate(now, 0), weekDate(now, 1)
	return []core.Verse{
		{ID: 1, Content: "친구는 사랑이 끊이지 아니하고", Reference: "잠언 17장 17절", Date: last, AgeGroup: core.AgeKindergarten},
		{ID: 2, Content: "나는 주의 말씀을 지키리라", Reference: "시편 119편 57절", Date: this, AgeGroup: core.AgeKindergarten},
		{ID: 3, Content: "아무 사람도 보지 못하였고 또 볼 수 없는 자시니", Reference: "디모데전서 6장 16절", Date: next, AgeGroup: core.AgeKindergarten},
		{ID: 4, Content: "우리가 사랑함은 그가 먼저 우리를 사랑하셨음이라", Reference: "요한일서 4장 19절", Date: last, AgeGroup: core.AgeElementary},
		{ID: 5, Content: "평생에 자기 옆에 두고 읽어서", Reference: "신명기 17장 19절", Date: this, AgeGroup: core.AgeElementary},
		{ID: 6, Content: "빛이 있으라 하시매 빛이 있었고", Reference: "창세기 1장 3절", Date: next, AgeGroup: core.AgeElementary},
		{ID: 7, Content: "여호와의 말씀으로 하늘이 지음이 되었으며", Reference: "시편 33편 6절", Date: last, AgeGroup: core.AgeYouth},
		{ID: 8, Content: "하나님이 모든 것을 지으시되 때를 따라 아름답게 하셨고", Reference: "전도서 3장 11절", Date: this, AgeGroup: core.AgeYouth},
		{ID: 9, Content: "하늘의 궁창에 광명이 있어 주야를 나뉘게 하라", Reference: "창세기 1장 14절", Date: next, AgeGroup: core.AgeYouth},
	}
}

// FallbackEvents is exported separately: the orchestrator uses it to
// guarantee the event collection is never empty, independent of the
// verse seed path.
func FallbackEvents(now time.Time) []core.Event {
	return []core.Event{
		{ID: 1, Title: "여름성경학교", Description: "즐거운 여름성경학교에 참여하세요!", Date: weekDate(now, 0)},
		{ID: 2, Title: "어린이 찬양대 연습", Description: "매주 수요일 찬양대 연습이 있습니다", Date: weekDate(now, 1), AgeGroup: core.AgeElementary},
		{ID: 3, Title: "청소년 수련회", Description: "중고등부 수련회 및 특별집회", Date: weekDate(now, -1), AgeGroup: core.AgeYouth},
	}
}

func fallbackMonthlyVerses() []core.MonthlyVerse {
	return []core.MonthlyVerse{
		{ID: 1, Year: 2025, Month: 7, Reference: "데살로니가전서 5장 5-8절", Content: "너희는 다 빛의 아들이요 낮의 아들이라 우리가 밤이나 어두움에 속하지 아니하나니 그러므로 우리는 다른 이들과 같이 자지 말고 오직 깨어 근신할지라 자는 자들은 밤에 자고 취하는 자들은 밤에 취하되 우리는 낮에 속하였으니 근신하여 믿음과 사랑의 흉배를 붙이고 구원의 소망의 투구를 쓰자"},
		{ID: 2, Year: 2025, Month: 8, Reference: "시편 119편 105절", Content: "주의 말씀은 내 발에 등이요 내 길에 빛이니이다"},
		{ID: 3, Year: 2025, Month: 9, Reference: "요한복음 3장 16절", Content: "하나님이 세상을 이처럼 사랑하사 독생자를 주셨으니 이는 그를 믿는 자마다 멸망하지 않고 영생을 얻게 하려 하심이라"},
	}
}
