package server

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/benchantech/practice/internal/logbook"
	"github.com/benchantech/practice/internal/summary"
)

// Handler serves read-only views of a practice log tree. It is a local
// preview of the data the visualization site ingests.
type Handler struct {
	book   *logbook.Book
	months int
}

func NewHandler(book *logbook.Book, months int) *Handler {
	if months < 1 {
		months = 1
	}
	return &Handler{book: book, months: months}
}

type healthResponse struct {
	Status string `json:"status"`
	Root   string `json:"root"`
	Slugs  int    `json:"slugs"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.book.Slugs()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status: "error",
			Root:   h.book.Root(),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Root:   h.book.Root(),
		Slugs:  len(slugs),
	})
}

// Slugs handles GET /api/slugs.
func (h *Handler) Slugs(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.book.Slugs()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if slugs == nil {
		slugs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slugs": slugs})
}

type logEntry struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
	Path    string `json:"path"`
}

// Logs handles GET /api/logs/{slug}. Entries outside the aggregation
// window are filtered out, matching what summarize reports.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := logbook.ValidateSlug(slug); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	months := h.months
	if q := r.URL.Query().Get("months"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid months parameter")
			return
		}
		months = n
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := summary.MonthsAgo(today, months)

	entries := []logEntry{}
	err := h.book.Walk(r.Context(), func(s string, date time.Time, e logbook.Entry, rel string) error {
		if s != slug || date.Before(cutoff) || date.After(today) {
			return nil
		}
		entries = append(entries, logEntry{
			Date:    date.Format(time.DateOnly),
			Minutes: e.Minutes,
			Path:    rel,
		})
		return nil
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	writeJSON(w, http.StatusOK, map[string]any{"slug": slug, "entries": entries})
}

// Summary handles GET /api/summary, running the aggregator on demand.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	months := h.months
	if q := r.URL.Query().Get("months"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid months parameter")
			return
		}
		months = n
	}

	report, err := summary.New(summary.Config{
		Root:     h.book.Root(),
		Excludes: h.book.Excludes(),
		Months:   months,
	}).Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}
