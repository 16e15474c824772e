package ledger

import (
	"sort"

	"tally/internal/core"
)

// Summary holds the derived balance figures. All three are exact in cents;
// rounding to two decimals happens only in Money.Format.
type Summary struct {
	Total   core.Money
	Income  core.Money
	Expense core.Money
}

// Totals sums the ledger. Income collects amounts >= 0, Expense is the
// absolute value of the negative side, so Income - Expense == Total.
func Totals(txs []core.Transaction) Summary {
	var sum Summary
	for _, tx := range txs {
		sum.Total.Cents += tx.Amount.Cents
		if tx.IsExpense() {
			sum.Expense.Cents += -tx.Amount.Cents
		} else {
			sum.Income.Cents += tx.Amount.Cents
		}
	}
	return sum
}

// MonthBucket groups the transactions of one calendar month. Month retains
// the first-of-month date so buckets sort without re-parsing the label.
type MonthBucket struct {
	Label string
	Month core.Date
	Items []core.Transaction
}

// GroupByMonth partitions the ledger into month buckets, ordered
// chronologically ascending. Within a bucket, ledger order is preserved.
func GroupByMonth(txs []core.Transaction) []MonthBucket {
	index := make(map[string]int)
	buckets := make([]MonthBucket, 0)

	for _, tx := range txs {
		month := tx.Date.MonthStart()
		label := tx.Date.MonthLabel()
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, MonthBucket{Label: label, Month: month})
		}
		buckets[i].Items = append(buckets[i].Items, tx)
	}

	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].Month.Before(buckets[b].Month.Time)
	})
	return buckets
}
