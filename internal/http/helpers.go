package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tally/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// validationMessage maps domain validation errors to form feedback.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyText):
		return "Please add a description"
	case errors.Is(err, core.ErrEmptyAmount):
		return "Please add an amount"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount"
	case errors.Is(err, core.ErrInvalidDate):
		return "Invalid date"
	default:
		return "Invalid transaction"
	}
}

// formatDollars formats cents as a dollar amount (e.g. "$12.34", "-$5.00").
func formatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := "$" + strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// formatSignedDollars always carries an explicit sign, for history rows.
func formatSignedDollars(cents int64) string {
	if cents < 0 {
		return formatDollars(cents)
	}
	return "+" + formatDollars(cents)
}
