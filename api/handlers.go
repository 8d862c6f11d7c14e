/*
handlers.go - HTTP API handlers for the verse and calendar engine

PURPOSE:
  Exposes the query layer and import/export pipeline over REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Verses:
    GET  /api/verses/weekly/{ageGroup}  Last/this/next week verses
    GET  /api/verses/stats              Collection statistics
    GET  /api/monthly-verse             Monthly verse (year/month query)

  Events:
    GET    /api/events                  Month view (span-aware)
    GET    /api/events/date/{date}      Events covering one date
    POST   /api/events                  Manual add
    DELETE /api/events/{id}             Delete by id
    POST   /api/events/prune            Manual stale-event cleanup

  Import/Export:
    POST /api/import/workbook           Multipart xlsx (verses or calendar)
    POST /api/import/csv                CSV events, merged by signature
    GET  /api/export/csv                CSV download (BOM + CRLF)
    GET  /api/export/template/verses    Sample verse workbook
    GET  /api/export/template/calendar  Calendar CSV template

READ PATH:
  Verse and month queries serve from the store's synchronous cache;
  mutations go through the store, which keeps the cache write-through.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  Import endpoints surface row-level problems as skip counts, not
  failures; only an unreadable file is an error.

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/grace/verse-engine/app"
	"github.com/grace/verse-engine/core"
	"github.com/grace/verse-engine/decode"
	"github.com/grace/verse-engine/store"
)

// maxUploadBytes bounds import payloads.
const maxUploadBytes = 16 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *store.Store
	Cleaner *app.Cleaner
	Log     *zap.SugaredLogger
	Now     func() time.Time
}

// NewHandler creates a handler over the given store.
func NewHandler(st *store.Store, cleaner *app.Cleaner, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{Store: st, Cleaner: cleaner, Log: log, Now: time.Now}
}

// =============================================================================
// VERSE HANDLERS
// =============================================================================

// GetWeeklyVerses returns the last/this/next week verses for one age
// group, resolved against the cached collection.
func (h *Handler) GetWeeklyVerses(w http.ResponseWriter, r *http.Request) {
	group := core.AgeGroup(chi.URLParam(r, "ageGroup"))
	if !group.Valid() {
		writeError(w, http.StatusBadRequest, "unknown age group", core.ErrInvalidAgeGroup)
		return
	}
	resolved := core.ResolveWeeklyVerses(h.Store.Cache().Verses(), group, h.Now())
	writeJSON(w, http.StatusOK, resolved)
}

// GetStats returns collection statistics.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	cache := h.Store.Cache()
	stats := core.ComputeStats(cache.Verses(), cache.Events(), h.Now())
	writeJSON(w, http.StatusOK, stats)
}

// GetMonthlyVerse returns the monthly verse for year/month query
// parameters, defaulting to the current month.
func (h *Handler) GetMonthlyVerse(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	year, month, err := h.yearMonth(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year/month", err)
		return
	}
	mv := core.ResolveMonthlyVerse(h.Store.Cache().MonthlyVerses(), year, month)
	if mv == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no monthly verse for %d-%02d", year, month), nil)
		return
	}
	writeJSON(w, http.StatusOK, mv)
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// ListMonthEvents returns the events of one month, spans included.
func (h *Handler) ListMonthEvents(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	year, month, err := h.yearMonth(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year/month", err)
		return
	}
	events := core.MonthEvents(h.Store.Cache().Events(), year, time.Month(month))
	writeJSON(w, http.StatusOK, events)
}

// GetEventsForDate returns the events covering one calendar date.
func (h *Handler) GetEventsForDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := core.ParseDate(date, nil); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	events, err := h.Store.EventsForDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent adds one manually entered event.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if req.AgeGroup != "" && !core.AgeGroup(req.AgeGroup).Valid() {
		writeError(w, http.StatusBadRequest, "unknown age group", core.ErrInvalidAgeGroup)
		return
	}

	date, start, end, err := normalizeRequestDates(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	ev, err := decode.BuildEvent(0, date, req.Title, req.Description, req.Category, req.Time, req.Location, start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event", err)
		return
	}
	ev.AgeGroup = core.AgeGroup(req.AgeGroup)

	added, err := h.Store.AppendEvent(r.Context(), ev)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save event", err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// DeleteEvent removes an event by id.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id", err)
		return
	}
	if err := h.Store.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PruneEvents runs one manual cleanup pass.
func (h *Handler) PruneEvents(w http.ResponseWriter, r *http.Request) {
	if h.Cleaner == nil {
		writeError(w, http.StatusInternalServerError, "cleaner not configured", nil)
		return
	}
	removed, err := h.Cleaner.PruneOnce(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "prune failed", err)
		return
	}
	writeJSON(w, http.StatusOK, PruneResponse{Removed: removed})
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportWorkbook ingests an uploaded xlsx. Sheet names decide whether
// it is a verse workbook (verses replaced wholesale) or a calendar
// workbook (events merged by signature).
func (h *Handler) ImportWorkbook(w http.ResponseWriter, r *http.Request) {
	file, err := h.uploadFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing upload", err)
		return
	}
	defer file.Close()

	f, err := decode.OpenWorkbook(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable workbook", err)
		return
	}

	ctx := r.Context()
	now := h.Now()

	if decode.IsVerseWorkbook(f) {
		parsed, err := decode.ParseVerseWorkbook(f, now, h.Log)
		if err != nil {
			writeError(w, http.StatusBadRequest, "no recognizable verse sheet", err)
			return
		}
		if err := h.Store.SetVerses(ctx, parsed.Verses); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save verses", err)
			return
		}
		if err := h.Store.SetMonthlyVerses(ctx, parsed.MonthlyVerses); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save monthly verses", err)
			return
		}
		writeJSON(w, http.StatusOK, ImportResponse{
			Kind:          "verses",
			Verses:        len(parsed.Verses),
			MonthlyVerses: len(parsed.MonthlyVerses),
			Skipped:       parsed.SkippedRows,
		})
		return
	}

	events, skipped, err := decode.ParseCalendarWorkbook(f, int(now.UnixMilli()), h.Log)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable calendar workbook", err)
		return
	}
	total, err := h.mergeEvents(r, events)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save events", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{
		Kind:        "calendar",
		Imported:    len(events),
		Skipped:     skipped,
		TotalEvents: total,
	})
}

// ImportCSV ingests CSV events, merged by signature so re-importing
// the same file changes nothing.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	events, err := decode.ParseEventsCSV(body, h.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable CSV", err)
		return
	}
	total, err := h.mergeEvents(r, events)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save events", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{
		Kind:        "calendar",
		Imported:    len(events),
		TotalEvents: total,
	})
}

func (h *Handler) mergeEvents(r *http.Request, incoming []core.Event) (int, error) {
	existing, err := h.Store.Events(r.Context())
	if err != nil {
		return 0, err
	}
	merged := core.MergeEvents(existing, incoming)
	if err := h.Store.SetEvents(r.Context(), merged); err != nil {
		return 0, err
	}
	return len(merged), nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportCSV streams the event collection as a spreadsheet-compatible
// CSV download.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.Events(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events", err)
		return
	}
	name := fmt.Sprintf("church_events_%s.csv", core.FormatDate(h.Now()))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(decode.EventsToCSV(events))
}

// ExportVerseTemplate streams the sample verse workbook.
func (h *Handler) ExportVerseTemplate(w http.ResponseWriter, r *http.Request) {
	f, err := decode.BuildVerseTemplate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build template", err)
		return
	}
	name := decode.TemplateFileName("verse_template", h.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := f.Write(w); err != nil {
		h.Log.Warnw("template download aborted", "error", err)
	}
}

// ExportCalendarTemplate streams the calendar CSV template.
func (h *Handler) ExportCalendarTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar_template.csv"`)
	w.Write(decode.CalendarCSVTemplate())
}

// Health is the liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   h.Now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// yearMonth reads the year/month query parameters, defaulting to now.
func (h *Handler) yearMonth(r *http.Request, now time.Time) (int, int, error) {
	year, month := now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("year %q: %w", v, err)
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("month %q: %w", v, core.ErrInvalidMonth)
		}
		month = m
	}
	return year, month, nil
}

// uploadFile fetches the multipart "file" part, or the raw body when
// the request is not multipart.
func (h *Handler) uploadFile(r *http.Request) (multipartFile, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return r.Body, nil
}

type multipartFile interface {
	Read(p []byte) (int, error)
	Close() error
}

func normalizeRequestDates(req CreateEventRequest) (date, start, end string, err error) {
	norm := func(v string) (string, error) {
		if v == "" {
			return "", nil
		}
		return decode.NormalizeDateCell(v)
	}
	if date, err = norm(req.Date); err != nil {
		return "", "", "", err
	}
	if start, err = norm(req.StartDate); err != nil {
		return "", "", "", err
	}
	if end, err = norm(req.EndDate); err != nil {
		return "", "", "", err
	}
	return date, start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
