package stats

import (
	"fmt"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// Comparison pie colors: current expense/income, past expense/income.
const (
	colorCurrentExpense = "#FF6B6B"
	colorCurrentIncome  = "#4CAF50"
	colorPastExpense    = "#FFB74D"
	colorPastIncome     = "#81C784"
)

// AvailableMonths lists the 12 months preceding now, newest first, as
// comparison picker options.
func AvailableMonths(now time.Time) []domain.MonthOption {
	options := make([]domain.MonthOption, 0, 12)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 1; i <= 12; i++ {
		m := first.AddDate(0, -i, 0)
		options = append(options, domain.MonthOption{
			Value: m.Format("2006-01"),
			Label: MonthLabel(m),
		})
	}
	return options
}

// SumAmounts adds up transaction amounts through NaN-safe coercion.
func SumAmounts(txns []domain.Transaction) float64 {
	var sum float64
	for _, t := range txns {
		sum += t.Amount.Float64()
	}
	return sum
}

// PercentChange returns (current-baseline)/baseline*100, or nil when the
// baseline is zero: a change from nothing has no meaningful percentage.
func PercentChange(current, baseline float64) *float64 {
	if baseline == 0 {
		return nil
	}
	pct := (current - baseline) / baseline * 100
	return &pct
}

// BuildComparison assembles the full month-over-month result from the four
// transaction windows. now locates the current month, past the compared one.
func BuildComparison(
	curExpenses, curIncome, pastExpenses, pastIncome []domain.Transaction,
	now, past time.Time,
) *domain.ComparisonResult {
	curExpenseTotal := SumAmounts(curExpenses)
	curIncomeTotal := SumAmounts(curIncome)
	pastExpenseTotal := SumAmounts(pastExpenses)
	pastIncomeTotal := SumAmounts(pastIncome)

	curLabel := MonthLabel(now)
	pastLabel := MonthLabel(past)

	result := &domain.ComparisonResult{
		Current: domain.WindowTotals{
			Month:   now.Format("2006-01"),
			Label:   curLabel,
			Income:  curIncomeTotal,
			Expense: curExpenseTotal,
			Net:     curIncomeTotal - curExpenseTotal,
		},
		Comparison: domain.WindowTotals{
			Month:   past.Format("2006-01"),
			Label:   pastLabel,
			Income:  pastIncomeTotal,
			Expense: pastExpenseTotal,
			Net:     pastIncomeTotal - pastExpenseTotal,
		},
		ExpenseChangePct: PercentChange(curExpenseTotal, pastExpenseTotal),
		IncomeChangePct:  PercentChange(curIncomeTotal, pastIncomeTotal),
	}
	result.NetChange = result.Current.Net - result.Comparison.Net

	result.Insights = buildInsights(result)
	result.Pie = comparisonPie(curExpenseTotal, curIncomeTotal, pastExpenseTotal, pastIncomeTotal, pastLabel)
	result.Bar = &domain.BarDataset{
		Labels:   []string{"Pengeluaran", "Pemasukan", "Net"},
		Current:  []float64{curExpenseTotal, curIncomeTotal, result.Current.Net},
		Previous: []float64{pastExpenseTotal, pastIncomeTotal, result.Comparison.Net},
		Legend:   [2]string{curLabel, pastLabel},
	}
	return result
}

// comparisonPie keeps only the windows with money in them: a zero slice
// renders as a confusing sliver of nothing.
func comparisonPie(curExpense, curIncome, pastExpense, pastIncome float64, pastLabel string) []domain.ChartSlice {
	candidates := []domain.ChartSlice{
		{Name: "Pengeluaran Bulan Ini", Amount: curExpense, Color: colorCurrentExpense},
		{Name: "Pemasukan Bulan Ini", Amount: curIncome, Color: colorCurrentIncome},
		{Name: "Pengeluaran " + pastLabel, Amount: pastExpense, Color: colorPastExpense},
		{Name: "Pemasukan " + pastLabel, Amount: pastIncome, Color: colorPastIncome},
	}

	slices := make([]domain.ChartSlice, 0, len(candidates))
	for _, s := range candidates {
		if s.Amount > 0 {
			s.LegendFontColor = legendFontColor
			s.LegendFontSize = 11
			slices = append(slices, s)
		}
	}
	return slices
}

func buildInsights(r *domain.ComparisonResult) []domain.Insight {
	var insights []domain.Insight

	if pct := r.ExpenseChangePct; pct != nil {
		direction, tone := "turun", "positive"
		if *pct > 0 {
			direction, tone = "naik", "negative"
		}
		insights = append(insights, domain.Insight{
			Text: fmt.Sprintf("Pengeluaran %s %.1f%%", direction, abs(*pct)),
			Tone: tone,
		})
	}

	if pct := r.IncomeChangePct; pct != nil {
		direction, tone := "turun", "negative"
		if *pct > 0 {
			direction, tone = "naik", "positive"
		}
		insights = append(insights, domain.Insight{
			Text: fmt.Sprintf("Pemasukan %s %.1f%%", direction, abs(*pct)),
			Tone: tone,
		})
	}

	direction, tone := "menurun", "negative"
	if r.NetChange > 0 {
		direction, tone = "meningkat", "positive"
	}
	insights = append(insights, domain.Insight{
		Text: fmt.Sprintf("Net cash flow %s %s", direction, FormatIDR(abs(r.NetChange))),
		Tone: tone,
	})

	if r.NetChange < 0 {
		insights = append(insights, domain.Insight{
			Text: "Perhatikan pengeluaran Anda bulan ini",
			Tone: "warning",
		})
	}

	return insights
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
