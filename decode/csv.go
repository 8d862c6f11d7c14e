/*
csv.go - CSV import/export for calendar events

PURPOSE:
  Round-trips the event collection through the CSV exchange format:
  header row date,title,description,category,time,location,
  start_date,end_date; fields containing comma/quote/newline are
  quoted with doubled internal quotes.

SPREADSHEET COMPATIBILITY:
  Exports are written with a UTF-8 byte-order-mark and CRLF line
  endings. Desktop spreadsheet applications (especially on Android)
  mis-detect plain UTF-8 Korean text without the BOM, so the writer
  builds lines by hand instead of using csv.Writer, which can emit
  neither the BOM nor selective quoting in this byte layout.

IMPORT:
  Parsing uses encoding/csv with a header column map (positional
  fallback when the header row is absent). Imported rows get
  time-based ids; the caller merges them by signature so re-importing
  the same file accumulates nothing.
*/
package decode

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/grace/verse-engine/core"
)

// CSVHeaders is the exchange-format header row.
var CSVHeaders = []string{"date", "title", "description", "category", "time", "location", "start_date", "end_date"}

func escapeCSVField(value string) string {
	needsQuotes := strings.ContainsAny(value, "\",\n")
	field := strings.ReplaceAll(value, `"`, `""`)
	if needsQuotes {
		return `"` + field + `"`
	}
	return field
}

// EventsToCSV renders the collection as BOM-prefixed CRLF CSV bytes.
// Category/time/location have no structured storage (they are folded
// into the description on import), so those columns export empty.
func EventsToCSV(events []core.Event) []byte {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString(strings.Join(CSVHeaders, ","))
	b.WriteString("\r\n")

	for _, e := range events {
		fields := []string{e.Date, e.Title, e.Description, "", "", "", e.StartDate, e.EndDate}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSVField(f))
		}
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

// ParseEventsCSV decodes an event CSV stream. The header row is
// optional: it is recognized (and skipped) when the first two cells
// look like date/title labels; otherwise columns are positional.
func ParseEventsCSV(r io.Reader, now time.Time) ([]core.Event, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	start := 0
	if isCSVHeader(records[0]) {
		start = 1
	}

	var events []core.Event
	idBase := int(now.UnixMilli())
	for i := start; i < len(records); i++ {
		row := records[i]
		if len(row) < 2 {
			continue
		}
		cells := calendarCells{
			Date:        cellAt(row, 0),
			Title:       cellAt(row, 1),
			Description: cellAt(row, 2),
			Category:    cellAt(row, 3),
			Time:        cellAt(row, 4),
			Location:    cellAt(row, 5),
			Start:       cellAt(row, 6),
			End:         cellAt(row, 7),
		}
		ev, err := NormalizeEvent(idBase+i, cells)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func isCSVHeader(row []string) bool {
	if len(row) < 2 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	second := strings.ToLower(strings.TrimSpace(row[1]))
	return (strings.Contains(first, "date") || strings.Contains(row[0], "날짜")) &&
		(strings.Contains(second, "title") || strings.Contains(row[1], "제목"))
}

// stripBOM removes a leading UTF-8 byte-order-mark if present.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, _ := io.ReadFull(r, buf)
	if n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
