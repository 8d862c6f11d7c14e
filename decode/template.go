/*
template.go - Sample workbook and CSV template generation

Generates the files teachers download to fill in: the verse workbook
with one sheet per age group plus the monthly sheet, and the calendar
CSV template. The sample rows mirror the structure the decoder
expects, so a filled-in template always round-trips.
*/
package decode

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/grace/verse-engine/core"
)

var verseTemplateHeader = []string{"날짜", "성경구절", "내용"}

var sampleTemplateVerses = map[string][][]string{
	"유치부": {
		{"2025-07-20", "잠언 17장 17절", "친구는 사랑이 끊이지 아니하고"},
		{"2025-07-27", "시편 119편 57절", "나는 주의 말씀을 지키리라"},
		{"2025-08-03", "디모데전서 6장 16절", "아무 사람도 보지 못하였고 또 볼 수 없는 자시니"},
	},
	"초등부": {
		{"2025-07-20", "요한일서 4장 19절", "우리가 사랑함은 그가 먼저 우리를 사랑하셨음이라"},
		{"2025-07-27", "신명기 17장 19절", "평생에 자기 옆에 두고 읽어서"},
		{"2025-08-03", "창세기 1장 3절", "빛이 있으라 하시매 빛이 있었고"},
	},
	"중고등부": {
		{"2025-07-20", "시편 33편 6절", "여호와의 말씀으로 하늘이 지음이 되었으며"},
		{"2025-07-27", "전도서 3장 11절", "하나님이 모든 것을 지으시되 때를 따라 아름답게 하셨고"},
		{"2025-08-03", "창세기 1장 14절", "하늘의 궁창에 광명이 있어 주야를 나뉘게 하라"},
	},
}

var sampleMonthlyRows = [][]interface{}{
	{7, "데살로니가전서 5장 5-8절", "너희는 다 빛의 아들이요 낮의 아들이라"},
	{8, "시편 119편 105절", "주의 말씀은 내 발에 등이요 내 길에 빛이니이다"},
	{9, "요한복음 3장 16절", "하나님이 세상을 이처럼 사랑하사 독생자를 주셨으니"},
}

// BuildVerseTemplate creates the sample verse workbook: 유치부,
// 초등부, 중고등부 and 초등월암송 sheets with Korean headers.
func BuildVerseTemplate() (*excelize.File, error) {
	f := excelize.NewFile()

	sheetOrder := []string{"유치부", "초등부", "중고등부"}
	for i, sheet := range sheetOrder {
		if i == 0 {
			// Rename the default sheet rather than leaving "Sheet1".
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", sheet, err)
		}

		if err := writeRow(f, sheet, 1, toAny(verseTemplateHeader)); err != nil {
			return nil, err
		}
		for r, row := range sampleTemplateVerses[sheet] {
			if err := writeRow(f, sheet, r+2, toAny(row)); err != nil {
				return nil, err
			}
		}
	}

	const monthlySheet = "초등월암송"
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return nil, fmt.Errorf("add sheet %q: %w", monthlySheet, err)
	}
	if err := writeRow(f, monthlySheet, 1, []interface{}{"월", "성경구절", "내용"}); err != nil {
		return nil, err
	}
	for r, row := range sampleMonthlyRows {
		if err := writeRow(f, monthlySheet, r+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// CalendarCSVTemplate returns the sample calendar CSV, BOM and CRLF
// included, ready to hand to a spreadsheet application.
func CalendarCSVTemplate() []byte {
	sample := []core.Event{
		{ID: 1, Date: "2025-01-26", Title: "주일예배", Description: "정기 주일예배"},
		{ID: 2, Date: "2025-02-01", Title: "유치부 생일파티", Description: "1월 생일자 축하"},
		{ID: 3, Date: "2025-02-15", Title: "교사회의", Description: "월례 교사회의"},
		{ID: 4, Date: "2025-03-10", Title: "3차 하계수양회", Description: "교회학교 여름 수양회", StartDate: "2025-03-10", EndDate: "2025-03-14"},
	}
	return EventsToCSV(sample)
}

// TemplateFileName names a download with today's date, matching the
// convention the app always used.
func TemplateFileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("2006-01-02"))
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

func toAny(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
