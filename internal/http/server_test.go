package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"tally/internal/core"
)

type fakeLedger struct {
	txs []core.Transaction
	rev int64
}

func (f *fakeLedger) Add(ctx context.Context, text, amount string, date core.Date) (core.Transaction, error) {
	if strings.TrimSpace(text) == "" {
		return core.Transaction{}, core.ErrEmptyText
	}
	cents, err := core.ParseSignedToCents(amount)
	if err != nil {
		return core.Transaction{}, err
	}
	f.rev++
	tx := core.Transaction{ID: int64(len(f.txs) + 1), Text: text, Amount: core.Money{Cents: cents}, Date: date}
	f.txs = append(f.txs, tx)
	return tx, nil
}

func (f *fakeLedger) Remove(ctx context.Context, id int64) bool {
	for i, tx := range f.txs {
		if tx.ID == id {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			f.rev++
			return true
		}
	}
	return false
}

func (f *fakeLedger) Snapshot() []core.Transaction {
	out := make([]core.Transaction, len(f.txs))
	copy(out, f.txs)
	return out
}

func (f *fakeLedger) Revision() int64 { return f.rev }

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv := NewServer(":0", &fakeLedger{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Add transaction") {
		t.Fatalf("index body missing entry form")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateTransactionValidationAndSuccess(t *testing.T) {
	srv := NewServer(":0", &fakeLedger{})

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = postForm(srv, "/transactions", url.Values{"text": {"Coffee"}, "amount": {"abc"}, "date": {"2024-03-01"}})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for invalid amount, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Invalid amount") {
		t.Fatalf("expected amount message, got %s", rr.Body.String())
	}

	// Missing description
	rr = postForm(srv, "/transactions", url.Values{"text": {""}, "amount": {"-4.50"}, "date": {"2024-03-01"}})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for missing text, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Please add a description") {
		t.Fatalf("expected text message, got %s", rr.Body.String())
	}

	// Unparseable date
	rr = postForm(srv, "/transactions", url.Values{"text": {"Coffee"}, "amount": {"-4.50"}, "date": {"bogus"}})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for bad date, got %d", rr.Code)
	}

	// Success
	rr = postForm(srv, "/transactions", url.Values{"text": {"Coffee"}, "amount": {"-4.50"}, "date": {"2024-03-01"}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("expected success in body: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "ledger:changed") {
		t.Fatalf("expected ledger:changed trigger, got %q", rr.Header().Get("HX-Trigger"))
	}
}

func TestDeleteTransaction(t *testing.T) {
	ledger := &fakeLedger{}
	srv := NewServer(":0", ledger)

	if _, err := ledger.Add(context.Background(), "Coffee", "-4.50", core.NewDate(2024, 3, 1)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Malformed id
	rr := postForm(srv, "/transactions/delete", url.Values{"id": {"abc"}})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for bad id, got %d", rr.Code)
	}

	// Unknown id is a no-op, no client refresh
	rr = postForm(srv, "/transactions/delete", url.Values{"id": {"999"}})
	if rr.Code != 200 {
		t.Fatalf("expected 200 for unknown id, got %d", rr.Code)
	}
	if rr.Header().Get("HX-Trigger") != "" {
		t.Fatalf("no-op delete must not trigger refresh")
	}

	// Existing id
	rr = postForm(srv, "/transactions/delete", url.Values{"id": {"1"}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "ledger:changed") {
		t.Fatalf("expected ledger:changed trigger")
	}
	if len(ledger.txs) != 0 {
		t.Fatalf("transaction not removed")
	}
}

func TestOverviewPartial(t *testing.T) {
	ledger := &fakeLedger{}
	srv := NewServer(":0", ledger)

	ctx := context.Background()
	if _, err := ledger.Add(ctx, "Salary", "2500", core.NewDate(2024, 3, 5)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := ledger.Add(ctx, "Rent", "-900", core.NewDate(2024, 3, 6)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/overview", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("overview status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"$1600.00", "+$2500.00", "-$900.00", "March 2024", "Rent"} {
		if !strings.Contains(body, want) {
			t.Fatalf("overview missing %q in: %s", want, body)
		}
	}
}

func TestOverviewEmptyLedger(t *testing.T) {
	srv := NewServer(":0", &fakeLedger{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/overview", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("overview status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No transactions yet") {
		t.Fatalf("expected empty state, got: %s", rr.Body.String())
	}
}

func TestChartEndpoints(t *testing.T) {
	ledger := &fakeLedger{}
	srv := NewServer(":0", ledger)

	// Current-date expense so both charts pick it up
	if _, err := ledger.Add(context.Background(), "Coffee", "-4.50", core.DateOf(time.Now())); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for path, wantType := range map[string]string{
		"/charts/monthly": "pie",
		"/charts/weekly":  "bar",
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("%s content type %q", path, ct)
		}

		var series struct {
			Type   string    `json:"type"`
			Title  string    `json:"title"`
			Labels []string  `json:"labels"`
			Values []float64 `json:"values"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &series); err != nil {
			t.Fatalf("%s parse: %v", path, err)
		}
		if series.Type != wantType {
			t.Fatalf("%s type=%q, want %q", path, series.Type, wantType)
		}
		if series.Labels == nil || series.Values == nil {
			t.Fatalf("%s series slices must not be null", path)
		}
	}

	// POST not allowed
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/charts/monthly", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestChartCacheServesRepeatedRequests(t *testing.T) {
	ledger := &fakeLedger{}
	srv := NewServer(":0", ledger)

	var bodies []string
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/charts/monthly", nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("status=%d", rr.Code)
		}
		bodies = append(bodies, rr.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("cached response differs: %q vs %q", bodies[0], bodies[1])
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := NewServer(":0", &fakeLedger{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)

	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing frame options header")
	}
}
