package stats

import (
	"sort"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// GroupByDay buckets transactions by calendar day for list display.
// Groups come newest day first; inside a group transactions are newest
// first with descending ID as the tiebreak, so the order is strict.
// Labels are "Hari Ini", "Kemarin", then a long Indonesian date.
func GroupByDay(txns []domain.Transaction, today time.Time) []domain.DateGroup {
	buckets := make(map[string][]domain.Transaction)
	days := make(map[string]time.Time)

	for _, t := range txns {
		day, ok := parseDay(t.TransactionDate)
		if !ok {
			continue
		}
		key := day.Format("2006-01-02")
		buckets[key] = append(buckets[key], t)
		days[key] = day
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	yesterday := today.AddDate(0, 0, -1)

	groups := make([]domain.DateGroup, 0, len(keys))
	for _, key := range keys {
		day := days[key]
		items := buckets[key]

		sort.Slice(items, func(i, j int) bool {
			di, iok := parseDay(items[i].TransactionDate)
			dj, jok := parseDay(items[j].TransactionDate)
			if iok && jok && !di.Equal(dj) {
				return di.After(dj)
			}
			return items[i].ID > items[j].ID
		})

		label := longDateLabel(day)
		switch {
		case sameDay(day, today):
			label = "Hari Ini"
		case sameDay(day, yesterday):
			label = "Kemarin"
		}

		groups = append(groups, domain.DateGroup{
			Label:        label,
			Date:         key,
			Transactions: items,
		})
	}
	return groups
}
