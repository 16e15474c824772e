package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today string
	}{
		Today: core.DateOf(time.Now()).Format("2006-01-02"),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	text := sanitizeInput(r.Form.Get("text"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))

	date := core.DateOf(time.Now())
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		parsed, err := core.ParseDate(v)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Invalid date</div>`))
			return
		}
		date = parsed
	}

	tx, err := s.ledger.Add(r.Context(), text, amountStr, date)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(validationMessage(err)) + `</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {"revision": `+strconv.FormatInt(s.ledger.Revision(), 10)+`}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Added: ` +
		template.HTMLEscapeString(tx.Text) +
		` (` + template.HTMLEscapeString(formatDollars(tx.Amount.Cents)) + `)</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid transaction id</div>`))
		return
	}

	if !s.ledger.Remove(r.Context(), id) {
		// Already gone, nothing changed
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="notice">Transaction not found</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {"revision": `+strconv.FormatInt(s.ledger.Revision(), 10)+`}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transaction removed</div>`))
}

// handleOverview renders the balance and month-grouped history partial.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	txs := s.ledger.Snapshot()
	sum := ledger.Totals(txs)

	type item struct {
		ID      int64
		Text    string
		Amount  string
		Date    string
		Expense bool
	}
	type monthGroup struct {
		Label string
		Items []item
	}
	data := struct {
		Balance string
		Income  string
		Expense string
		Empty   bool
		Months  []monthGroup
	}{
		Balance: formatDollars(sum.Total.Cents),
		Income:  "+" + formatDollars(sum.Income.Cents),
		Expense: "-" + formatDollars(sum.Expense.Cents),
		Empty:   len(txs) == 0,
	}
	for _, bucket := range ledger.GroupByMonth(txs) {
		group := monthGroup{Label: bucket.Label}
		for _, tx := range bucket.Items {
			group.Items = append(group.Items, item{
				ID:      tx.ID,
				Text:    tx.Text,
				Amount:  formatSignedDollars(tx.Amount.Cents),
				Date:    tx.Date.Format("Jan 02"),
				Expense: tx.IsExpense(),
			})
		}
		data.Months = append(data.Months, group)
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="overview"><div class="placeholder">Balance: ` + data.Balance + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "overview.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "overview.html")
		_, _ = w.Write([]byte(`<section id="overview"><div class="placeholder">Error rendering overview</div></section>`))
		return
	}
}
