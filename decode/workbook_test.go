package decode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/grace/verse-engine/core"
)

var wbNow = time.Date(2025, time.July, 23, 12, 0, 0, 0, time.UTC)

// buildVerseWorkbook assembles a workbook shaped like a real uploaded
// file: a decorative first row, the header on row 2, and a mix of
// serial and string date cells.
func buildVerseWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "초등부"))
	require.NoError(t, f.SetSheetRow("초등부", "A1", &[]interface{}{"2025년 1학기"}))
	require.NoError(t, f.SetSheetRow("초등부", "A2", &[]interface{}{"공과명", "내용", "날짜", "성경구절"}))
	require.NoError(t, f.SetSheetRow("초등부", "A3", &[]interface{}{"창조", "빛이 있으라 하시매 빛이 있었고 (창세기 1장 3절)", 45669}))
	require.NoError(t, f.SetSheetRow("초등부", "A4", &[]interface{}{"사랑", "우리가 사랑함은 그가 먼저 우리를 사랑하셨음이라", "2025-01-19", "요한일서 4장 19절"}))
	require.NoError(t, f.SetSheetRow("초등부", "A5", &[]interface{}{"망가진 행", "내용 없는 날짜", "날짜아님"}))

	_, err := f.NewSheet("2025 유치부")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("2025 유치부", "A1", &[]interface{}{"공과명", "내용", "날짜"}))
	require.NoError(t, f.SetSheetRow("2025 유치부", "A2", &[]interface{}{"우정", "친구는 사랑이 끊이지 아니하고 (잠언 17장 17절)", "2025.1.12"}))

	_, err = f.NewSheet("초등월암송")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("초등월암송", "A1", &[]interface{}{"월", "성경구절", "내용"}))
	require.NoError(t, f.SetSheetRow("초등월암송", "A2", &[]interface{}{"1", "시편 119편 105절", "주의 말씀은 내 발에 등이요"}))
	require.NoError(t, f.SetSheetRow("초등월암송", "A3", &[]interface{}{"2025.2", "", "하나님이 세상을 이처럼 사랑하사 (요한복음 3장 16절)"}))

	return f
}

func TestParseVerseWorkbook(t *testing.T) {
	f := buildVerseWorkbook(t)

	res, err := ParseVerseWorkbook(f, wbNow, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.MatchedSheets)
	assert.Equal(t, 1, res.SkippedRows, "the unparseable-date row is skipped, not fatal")

	require.Len(t, res.Verses, 3)

	// Sheet order follows the workbook, so 초등부 rows come first.
	first := res.Verses[0]
	assert.Equal(t, core.AgeElementary, first.AgeGroup)
	assert.Equal(t, "2025-01-12", first.Date, "serial 45669 is a date cell")
	assert.Equal(t, "빛이 있으라 하시매 빛이 있었고", first.Content)
	assert.Equal(t, "창세기 1장 3절", first.Reference)
	assert.Equal(t, "창조", first.LessonName)

	// An explicit reference column outranks the parenthetical fallback.
	second := res.Verses[1]
	assert.Equal(t, "요한일서 4장 19절", second.Reference)
	assert.Equal(t, "2025-01-19", second.Date)

	// Decorated sheet names still resolve by substring.
	third := res.Verses[2]
	assert.Equal(t, core.AgeKindergarten, third.AgeGroup)
	assert.Equal(t, "2025-01-12", third.Date)

	require.Len(t, res.MonthlyVerses, 2)
	assert.Equal(t, 1, res.MonthlyVerses[0].Month)
	assert.Equal(t, 2025, res.MonthlyVerses[0].Year)
	assert.Equal(t, "시편 119편 105절", res.MonthlyVerses[0].Reference)
	assert.Equal(t, 2, res.MonthlyVerses[1].Month)
	assert.Equal(t, "요한복음 3장 16절", res.MonthlyVerses[1].Reference, "reference recovered from the parenthetical")
}

func TestParseVerseWorkbook_NoRecognizableSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"a", "b"}))

	res, err := ParseVerseWorkbook(f, wbNow, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, res.MatchedSheets)
}

func TestIsVerseWorkbook(t *testing.T) {
	assert.True(t, IsVerseWorkbook(buildVerseWorkbook(t)))

	cal := excelize.NewFile()
	require.NoError(t, cal.SetSheetName(cal.GetSheetName(0), "2025 행사"))
	assert.False(t, IsVerseWorkbook(cal))
}

func TestParseCalendarWorkbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "행사일정"))
	require.NoError(t, f.SetSheetRow("행사일정", "A1", &[]interface{}{"날짜", "제목", "설명", "분류", "시간", "장소", "시작일", "종료일"}))
	require.NoError(t, f.SetSheetRow("행사일정", "A2", &[]interface{}{"2025-01-26", "주일예배", "정기 주일예배", "예배", "10:00", "본당"}))
	require.NoError(t, f.SetSheetRow("행사일정", "A3", &[]interface{}{"", "하계수양회", "", "", "", "", "2025-03-10", "2025-03-14"}))
	require.NoError(t, f.SetSheetRow("행사일정", "A4", &[]interface{}{"없는날짜", "버려질 행"}))

	events, skipped, err := ParseCalendarWorkbook(f, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	require.Len(t, events, 2)

	assert.Equal(t, 100, events[0].ID)
	assert.Equal(t, "주일예배", events[0].Title)
	assert.Equal(t, "정기 주일예배 | 분류: 예배 | 시간: 10:00 | 장소: 본당", events[0].Description)

	span := events[1]
	assert.Equal(t, 101, span.ID)
	assert.Equal(t, "2025-03-10", span.Date, "span start stands in for the missing date")
	assert.Equal(t, "2025-03-14", span.EndDate)
	assert.True(t, span.IsSpan())
}

func TestParseCalendarWorkbook_PositionalFallback(t *testing.T) {
	// No header row at all: date and title resolve by position.
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"첫 줄도 데이터"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2025-02-01", "생일파티"}))

	events, skipped, err := ParseCalendarWorkbook(f, 1, nil)
	require.NoError(t, err)

	assert.Zero(t, skipped)
	require.Len(t, events, 1)
	assert.Equal(t, "생일파티", events[0].Title)
	assert.Equal(t, "2025-02-01", events[0].Date)
}

func TestWorkbookRoundTrip(t *testing.T) {
	// A template written to bytes decodes back through the reader path.
	tpl, err := BuildVerseTemplate()
	require.NoError(t, err)

	buf, err := tpl.WriteToBuffer()
	require.NoError(t, err)

	f, err := OpenWorkbook(buf)
	require.NoError(t, err)

	res, err := ParseVerseWorkbook(f, wbNow, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, res.MatchedSheets)
	assert.Len(t, res.Verses, 9)
	assert.Len(t, res.MonthlyVerses, 3)
	assert.Zero(t, res.SkippedRows)
}
