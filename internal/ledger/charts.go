package ledger

import (
	"time"

	"tally/internal/core"
)

type SeriesType string

const (
	SeriesPie SeriesType = "pie"
	SeriesBar SeriesType = "bar"
)

// Series is the label/value pair sequence handed to the rendering sink.
// Labels and Values are always non-nil so repeated renders of an empty
// ledger produce identical payloads.
type Series struct {
	Type   SeriesType `json:"type"`
	Title  string     `json:"title"`
	Labels []string   `json:"labels"`
	Values []float64  `json:"values"`
}

// MonthlyBreakdown selects this month's expenses as a pie series. The month
// boundary is the calendar month of now in UTC; values keep their negative
// sign. Deterministic given (txs, now).
func MonthlyBreakdown(txs []core.Transaction, now time.Time) Series {
	month := core.DateOf(now).MonthStart()
	s := Series{
		Type:   SeriesPie,
		Title:  "Monthly Expenditure Breakdown",
		Labels: make([]string, 0),
		Values: make([]float64, 0),
	}
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		if !tx.Date.MonthStart().Equal(month.Time) {
			continue
		}
		s.Labels = append(s.Labels, tx.Text)
		s.Values = append(s.Values, tx.Amount.Units())
	}
	return s
}

// WeeklyBreakdown selects this week's expenses as a bar series. The week
// starts on the most recent Sunday (UTC) on or before now; values are
// absolute. Deterministic given (txs, now).
func WeeklyBreakdown(txs []core.Transaction, now time.Time) Series {
	start := core.DateOf(now).WeekStart()
	s := Series{
		Type:   SeriesBar,
		Title:  "This Week's Expenditure",
		Labels: make([]string, 0),
		Values: make([]float64, 0),
	}
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		if tx.Date.Before(start.Time) {
			continue
		}
		s.Labels = append(s.Labels, tx.Text)
		s.Values = append(s.Values, tx.Amount.Abs().Units())
	}
	return s
}
