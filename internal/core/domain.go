package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar day. Day granularity only: the wrapped time is
	// always midnight UTC, so equal days compare equal regardless of how
	// the value was produced.
	Date struct {
		time.Time
	}

	// Money is a signed amount in cents. Negative cents are expenses,
	// non-negative cents count as income.
	Money struct {
		Cents int64
	}

	// Transaction is one recorded income or expense entry. Transactions are
	// never edited in place: they are created once and removed by ID.
	Transaction struct {
		ID     int64
		Text   string
		Amount Money
		Date   Date
	}
)

var (
	ErrEmptyText     = errors.New("empty text")
	ErrEmptyAmount   = errors.New("empty amount")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO-8601 date. A full RFC 3339 timestamp is accepted
// and truncated to its day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, ErrInvalidDate
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthStart returns the first day of d's month.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

// WeekStart returns the most recent Sunday on or before d.
func (d Date) WeekStart() Date {
	return Date{Time: d.AddDate(0, 0, -int(d.Weekday()))}
}

// MonthLabel returns the human-readable bucket label, e.g. "January 2024".
func (d Date) MonthLabel() string {
	return d.Format("January 2006")
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsExpense reports whether the transaction sits on the expense side.
// Zero amounts count as income by convention.
func (t Transaction) IsExpense() bool {
	return t.Amount.Cents < 0
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Text)) == 0 {
		return ErrEmptyText
	}
	if len(t.Text) > 200 {
		return errors.New("text too long (max 200 characters)")
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}
