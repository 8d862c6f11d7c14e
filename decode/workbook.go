/*
workbook.go - Workbook sheets to decoded rows

PURPOSE:
  Converts an xlsx workbook into typed records: resolves each sheet's
  semantic category from its name, auto-detects the header row, maps
  columns to semantic fields through a declarative keyword table, and
  walks the data rows with a skip-don't-abort error policy.

SHEET CATEGORIZATION:
  Verse workbooks carry one sheet per age group, named in the local
  vocabulary (유치부 / 초등부 / 중고등부), plus a monthly-verse sheet
  (월암송). Matching is by substring so decorated names like
  "2025 초등부" still resolve. Calendar workbooks use their first
  sheet regardless of name.

HEADER DETECTION:
  The first five rows are scanned; a row qualifies as the header when
  any cell contains a recognized column keyword. When no row
  qualifies, row 0 is assumed to be the header and every field uses
  its positional default. The keyword table is declarative
  (field -> candidate substrings) so the decoder stays free of ad hoc
  string matching.

ERROR POLICY:
  Rows missing a required field or carrying an unparseable date are
  skipped and counted, never fatal. A malformed row does not abort the
  remainder of its sheet.
*/
package decode

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/grace/verse-engine/core"
)

// headerScanRows is how deep the header search looks.
const headerScanRows = 5

// ageGroupSheets maps sheet-name fragments to cohorts. The middle-dot
// variant appears in some source files.
var ageGroupSheets = map[string]core.AgeGroup{
	"유치부":   core.AgeKindergarten,
	"초등부":   core.AgeElementary,
	"중고등부":  core.AgeYouth,
	"중‧고등부": core.AgeYouth,
}

// monthlySheetKeywords identify the monthly-verse sheet.
var monthlySheetKeywords = []string{"월암송", "월간", "month"}

// =============================================================================
// COLUMN MAPPING - declarative field -> candidate header substrings
// =============================================================================

type columnSpec struct {
	keywords []string
	fallback int // positional default; -1 means absent unless matched
}

// Verse sheets: lesson / content / date positional defaults 0,1,2.
var verseColumns = map[string]columnSpec{
	"lesson":    {keywords: []string{"공과명", "공과", "lesson"}, fallback: 0},
	"content":   {keywords: []string{"내용", "말씀", "content"}, fallback: 1},
	"date":      {keywords: []string{"날짜", "date"}, fallback: 2},
	"reference": {keywords: []string{"성경구절", "성구", "reference", "scripture"}, fallback: -1},
}

// Monthly-verse sheets: month / reference / content.
var monthlyColumns = map[string]columnSpec{
	"month":     {keywords: []string{"연월", "월", "month"}, fallback: 0},
	"reference": {keywords: []string{"성경구절", "성구", "reference"}, fallback: 1},
	"content":   {keywords: []string{"내용", "말씀", "content"}, fallback: 2},
}

// Calendar sheets: date / title positional defaults 0,1; the rest only
// when a header names them.
var calendarColumns = map[string]columnSpec{
	"date":        {keywords: []string{"날짜", "date"}, fallback: 0},
	"title":       {keywords: []string{"제목", "title"}, fallback: 1},
	"description": {keywords: []string{"설명", "description"}, fallback: -1},
	"category":    {keywords: []string{"분류", "category"}, fallback: -1},
	"time":        {keywords: []string{"시간", "time"}, fallback: -1},
	"location":    {keywords: []string{"장소", "location"}, fallback: -1},
	"start":       {keywords: []string{"시작일", "시작", "start"}, fallback: -1},
	"end":         {keywords: []string{"종료일", "종료", "끝", "end"}, fallback: -1},
}

func cellMatches(cell string, keywords []string) bool {
	cell = strings.TrimSpace(cell)
	lower := strings.ToLower(cell)
	for _, kw := range keywords {
		if strings.Contains(cell, kw) || strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// findHeaderRow scans the first rows for one containing any keyword of
// any field. Returns the row index and whether a keyword matched.
func findHeaderRow(rows [][]string, specs map[string]columnSpec) (int, bool) {
	limit := headerScanRows
	if len(rows) < limit {
		limit = len(rows)
	}
	for r := 0; r < limit; r++ {
		for _, cell := range rows[r] {
			for _, spec := range specs {
				if cellMatches(cell, spec.keywords) {
					return r, true
				}
			}
		}
	}
	return 0, false
}

// resolveColumns builds the field -> column-index map from a header
// row, falling back to each field's positional default.
func resolveColumns(header []string, specs map[string]columnSpec, matched bool) map[string]int {
	indexes := make(map[string]int, len(specs))
	for field, spec := range specs {
		indexes[field] = spec.fallback
		if !matched {
			continue
		}
		for i, cell := range header {
			if cellMatches(cell, spec.keywords) {
				indexes[field] = i
				break
			}
		}
	}
	return indexes
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// skipRow counts a rejected row and logs it with sheet/row context.
func skipRow(log *zap.SugaredLogger, skipped *int, sheet string, row int, err error) {
	*skipped++
	log.Debugw("row skipped", "error", &core.RowError{Sheet: sheet, Row: row, Err: err})
}

// =============================================================================
// WORKBOOK PARSING
// =============================================================================

// OpenWorkbook reads an xlsx stream.
func OpenWorkbook(r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return f, nil
}

// IsVerseWorkbook reports whether any sheet name resolves to an age
// group or the monthly-verse category. Calendar workbooks do not.
func IsVerseWorkbook(f *excelize.File) bool {
	for _, name := range f.GetSheetList() {
		if _, ok := sheetAgeGroup(name); ok {
			return true
		}
		if isMonthlySheet(name) {
			return true
		}
	}
	return false
}

func sheetAgeGroup(name string) (core.AgeGroup, bool) {
	for fragment, group := range ageGroupSheets {
		if strings.Contains(name, fragment) {
			return group, true
		}
	}
	return "", false
}

func isMonthlySheet(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range monthlySheetKeywords {
		if strings.Contains(name, kw) || strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// VerseParseResult is the outcome of one verse-workbook import.
type VerseParseResult struct {
	Verses        []core.Verse
	MonthlyVerses []core.MonthlyVerse
	SkippedRows   int
	MatchedSheets int
}

// ParseVerseWorkbook walks every categorized sheet. Verse ids are a
// monotonically increasing counter for this batch only; they are not
// stable across imports.
func ParseVerseWorkbook(f *excelize.File, now time.Time, log *zap.SugaredLogger) (*VerseParseResult, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	res := &VerseParseResult{}
	verseID := 1
	monthlyID := 1

	for _, sheet := range f.GetSheetList() {
		group, isVerse := sheetAgeGroup(sheet)
		monthly := isMonthlySheet(sheet)
		if !isVerse && !monthly {
			continue
		}
		res.MatchedSheets++

		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			log.Warnw("sheet unreadable, skipping", "sheet", sheet, "error", err)
			continue
		}

		if monthly {
			res.MonthlyVerses = append(res.MonthlyVerses, parseMonthlySheet(sheet, rows, &monthlyID, &res.SkippedRows, now, log)...)
			continue
		}
		res.Verses = append(res.Verses, parseVerseSheet(sheet, group, rows, &verseID, &res.SkippedRows, log)...)
	}

	if res.MatchedSheets == 0 {
		return res, fmt.Errorf("no recognizable sheet in workbook")
	}
	return res, nil
}

func parseVerseSheet(sheet string, group core.AgeGroup, rows [][]string, nextID, skipped *int, log *zap.SugaredLogger) []core.Verse {
	headerIdx, matched := findHeaderRow(rows, verseColumns)
	cols := resolveColumns(rowAt(rows, headerIdx), verseColumns, matched)

	var verses []core.Verse
	for r := headerIdx + 1; r < len(rows); r++ {
		row := rows[r]
		if len(row) < 2 {
			continue
		}

		date, err := NormalizeDateCell(cellAt(row, cols["date"]))
		if err != nil {
			skipRow(log, skipped, sheet, r, err)
			continue
		}

		v, err := NormalizeVerse(*nextID, group, date, cellAt(row, cols["lesson"]), cellAt(row, cols["content"]))
		if err != nil {
			skipRow(log, skipped, sheet, r, err)
			continue
		}
		// An explicit reference column outranks the parenthetical.
		if ref := strings.TrimSpace(cellAt(row, cols["reference"])); ref != "" {
			v.Reference = ref
		}
		verses = append(verses, v)
		*nextID++
	}
	return verses
}

func parseMonthlySheet(sheet string, rows [][]string, nextID, skipped *int, now time.Time, log *zap.SugaredLogger) []core.MonthlyVerse {
	headerIdx, matched := findHeaderRow(rows, monthlyColumns)
	cols := resolveColumns(rowAt(rows, headerIdx), monthlyColumns, matched)

	var list []core.MonthlyVerse
	for r := headerIdx + 1; r < len(rows); r++ {
		row := rows[r]
		if len(row) < 2 {
			continue
		}

		mv, err := NormalizeMonthlyVerse(*nextID, cellAt(row, cols["month"]), cellAt(row, cols["reference"]), cellAt(row, cols["content"]), now)
		if err != nil {
			skipRow(log, skipped, sheet, r, err)
			continue
		}
		list = append(list, mv)
		*nextID++
	}
	return list
}

// ParseCalendarWorkbook decodes the first sheet of a calendar
// workbook into events with sequential ids starting at idBase.
// Returns the events and the skipped-row count.
func ParseCalendarWorkbook(f *excelize.File, idBase int, log *zap.SugaredLogger) ([]core.Event, int, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	headerIdx, matched := findHeaderRow(rows, calendarColumns)
	cols := resolveColumns(rowAt(rows, headerIdx), calendarColumns, matched)

	var events []core.Event
	skipped := 0
	id := idBase
	for r := headerIdx + 1; r < len(rows); r++ {
		row := rows[r]
		if len(row) < 2 {
			continue
		}

		cells := calendarCells{
			Title:       cellAt(row, cols["title"]),
			Description: cellAt(row, cols["description"]),
			Category:    cellAt(row, cols["category"]),
			Time:        cellAt(row, cols["time"]),
			Location:    cellAt(row, cols["location"]),
		}
		// Date-ish cells normalize individually; a bad optional span
		// cell empties out rather than killing the row.
		cells.Date = normalizeOptionalDate(cellAt(row, cols["date"]))
		cells.Start = normalizeOptionalDate(cellAt(row, cols["start"]))
		cells.End = normalizeOptionalDate(cellAt(row, cols["end"]))
		if cells.Date == "" && cells.Start == "" {
			skipRow(log, &skipped, sheet, r, core.ErrMissingField)
			continue
		}

		ev, err := NormalizeEvent(id, cells)
		if err != nil {
			skipRow(log, &skipped, sheet, r, err)
			continue
		}
		events = append(events, ev)
		id++
	}
	return events, skipped, nil
}

func normalizeOptionalDate(cell string) string {
	if strings.TrimSpace(cell) == "" {
		return ""
	}
	date, err := NormalizeDateCell(cell)
	if err != nil {
		return ""
	}
	return date
}

func rowAt(rows [][]string, idx int) []string {
	if idx < 0 || idx >= len(rows) {
		return nil
	}
	return rows[idx]
}
