/*
Package decode turns spreadsheet workbooks and CSV streams into typed
domain records.

PURPOSE:
  The ingestion half of the engine: sheet categorization, header-row
  auto-detection, declarative column mapping, date-serial
  normalization, and the record normalizers for verses, monthly verses
  and calendar events.

KEY CONCEPTS IN THIS FILE (dateserial.go):
  Spreadsheet date cells arrive in two encodings:
  - a numeric day-serial counted from the workbook epoch, where
    serial 25569 corresponds to 1970-01-01
  - a locale date string ("2025-01-26", "2025.1.26", ...)

  Serial conversion is date = epoch + serial*86400*1000 ms, then
  re-expressed as YYYY-MM-DD from UTC fields so the device timezone
  can never shift the day. Serial arithmetic runs on decimal.Decimal:
  fractional serials (date + time-of-day) multiplied out in float64
  can land a hair under midnight and lose a day.

ERROR POLICY:
  A cell that is neither encoding yields core.ErrUnparseableDate; the
  caller skips the row, counts it, and continues.
*/
package decode

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grace/verse-engine/core"
)

// unixEpochSerial is the day-serial of 1970-01-01 in the 1900-epoch
// convention used by xlsx workbooks.
const unixEpochSerial = 25569

var msPerDay = decimal.NewFromInt(86400_000)

// stringDateLayouts accepts the locale formats seen in real workbooks.
// Single-digit layout tokens match both padded and unpadded values.
var stringDateLayouts = []string{
	"2006-1-2",
	"2006.1.2",
	"2006/1/2",
	"1/2/2006",
	"2006년 1월 2일",
}

// DecodeSerial converts a day-serial to an ISO date via UTC fields.
func DecodeSerial(serial decimal.Decimal) string {
	ms := serial.Sub(decimal.NewFromInt(unixEpochSerial)).Mul(msPerDay)
	return time.UnixMilli(ms.IntPart()).UTC().Format("2006-01-02")
}

// EncodeSerial converts an ISO date back to the day-serial convention.
// Day-granularity: DecodeSerial followed by EncodeSerial round-trips.
func EncodeSerial(date string) (int64, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("encode serial: %w", core.ErrUnparseableDate)
	}
	return t.Unix()/86400 + unixEpochSerial, nil
}

// NormalizeDateCell converts a raw cell value (numeric day-serial or
// locale date string) into an ISO calendar date.
func NormalizeDateCell(cell string) (string, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return "", fmt.Errorf("empty date cell: %w", core.ErrUnparseableDate)
	}

	// Numeric serial first: "45683" or "45683.5".
	if serial, err := decimal.NewFromString(cell); err == nil {
		// Plausibility window: 1950..2100, so a bare year or phone
		// number does not masquerade as a date.
		if serial.GreaterThanOrEqual(decimal.NewFromInt(18264)) && serial.LessThan(decimal.NewFromInt(73415)) {
			return DecodeSerial(serial), nil
		}
	}

	// Locale string; re-expressed from parsed fields.
	for _, layout := range stringDateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("date cell %q: %w", cell, core.ErrUnparseableDate)
}
