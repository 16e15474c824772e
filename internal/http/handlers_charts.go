package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
)

// handleMonthlyChart serves the current month's expense breakdown as a
// pie chart series.
func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	s.serveSeries(w, r, "monthly", func(txs []core.Transaction, now time.Time) ledger.Series {
		return ledger.MonthlyBreakdown(txs, now)
	})
}

// handleWeeklyChart serves the current week's spending per day as a bar
// chart series.
func (s *Server) handleWeeklyChart(w http.ResponseWriter, r *http.Request) {
	s.serveSeries(w, r, "weekly", func(txs []core.Transaction, now time.Time) ledger.Series {
		return ledger.WeeklyBreakdown(txs, now)
	})
}

func (s *Server) serveSeries(w http.ResponseWriter, r *http.Request, name string, build func([]core.Transaction, time.Time) ledger.Series) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	key := seriesCacheKey(name, s.ledger.Revision(), now)
	if blob, found := s.seriesCache.Get(key); found {
		slog.DebugContext(r.Context(), "Series cache hit", "chart", name)
		writeJSON(w, blob)
		return
	}

	series := build(s.ledger.Snapshot(), now)
	blob, err := json.Marshal(series)
	if err != nil {
		slog.ErrorContext(r.Context(), "Series marshal error", "error", err, "chart", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.seriesCache.Set(key, blob)
	writeJSON(w, blob)
}

// seriesCacheKey ties cached series to the ledger revision and the day,
// so both mutations and date rollover invalidate naturally.
func seriesCacheKey(name string, revision int64, now time.Time) string {
	return name + ":" + strconv.FormatInt(revision, 10) + ":" + core.DateOf(now).Format("2006-01-02")
}

func writeJSON(w http.ResponseWriter, blob []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(blob)
}
