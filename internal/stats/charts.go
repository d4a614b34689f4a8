// Package stats turns raw CatatUang transactions into chart-ready data:
// category breakdowns, daily time series, date groups and month-over-month
// comparisons. Everything here is pure; fetching lives in the services.
package stats

import (
	"fmt"
	"sort"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// Palette is the fixed category color cycle. Colors are assigned by
// descending-amount rank, so the biggest category always gets Palette[0]
// regardless of map iteration order.
var Palette = [10]string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF",
	"#FF9F40", "#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
}

const (
	legendFontColor = "#333"
	legendFontSize  = 12

	// FallbackCategoryName labels transactions whose category is unknown.
	FallbackCategoryName = "Lainnya"
)

// ColorForRank returns the palette color for a descending-amount rank,
// cycling when there are more categories than colors.
func ColorForRank(rank int) string {
	if rank < 0 {
		rank = 0
	}
	return Palette[rank%len(Palette)]
}

// CategoryTotals sums transaction amounts per category and returns pie
// slices sorted by amount descending. Only positive totals are kept.
// Unknown categories fall back to "Lainnya".
func CategoryTotals(txns []domain.Transaction, cats []domain.Category) []domain.ChartSlice {
	totals := make(map[int64]float64)
	for _, t := range txns {
		amt := t.Amount.Float64()
		if amt > 0 {
			totals[t.CategoryID] += amt
		}
	}

	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	type catTotal struct {
		id     int64
		amount float64
	}
	ordered := make([]catTotal, 0, len(totals))
	for id, amount := range totals {
		if amount > 0 {
			ordered = append(ordered, catTotal{id: id, amount: amount})
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].amount != ordered[j].amount {
			return ordered[i].amount > ordered[j].amount
		}
		return ordered[i].id < ordered[j].id
	})

	slices := make([]domain.ChartSlice, 0, len(ordered))
	for rank, ct := range ordered {
		name := names[ct.id]
		if name == "" {
			name = FallbackCategoryName
		}
		slices = append(slices, domain.ChartSlice{
			Name:            name,
			Amount:          ct.amount,
			Color:           ColorForRank(rank),
			LegendFontColor: legendFontColor,
			LegendFontSize:  legendFontSize,
		})
	}
	return slices
}

// Total sums the slice amounts.
func Total(slices []domain.ChartSlice) float64 {
	var sum float64
	for _, s := range slices {
		sum += s.Amount
	}
	return sum
}

// BuildPieDataset expands slices into the parallel-array form with
// percentage legends. Percentages are omitted when the total is zero.
func BuildPieDataset(slices []domain.ChartSlice) domain.PieDataset {
	ds := domain.PieDataset{
		Slices: slices,
		Labels: make([]string, 0, len(slices)),
		Data:   make([]float64, 0, len(slices)),
		Colors: make([]string, 0, len(slices)),
		Legend: make([]string, 0, len(slices)),
	}

	total := Total(slices)
	for _, s := range slices {
		ds.Labels = append(ds.Labels, s.Name)
		ds.Data = append(ds.Data, s.Amount)
		ds.Colors = append(ds.Colors, s.Color)
		if total > 0 {
			pct := s.Amount / total * 100
			ds.Legend = append(ds.Legend, fmt.Sprintf("%s (%.1f%%)", s.Name, pct))
		} else {
			ds.Legend = append(ds.Legend, s.Name)
		}
	}
	return ds
}
