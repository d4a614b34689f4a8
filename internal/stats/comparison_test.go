package stats_test

import (
	"strings"
	"testing"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
	"github.com/catatuang/catatuang-gateway/internal/stats"
)

func TestPercentChange(t *testing.T) {
	pct := stats.PercentChange(125, 100)
	if pct == nil {
		t.Fatal("expected a percentage, got nil")
	}
	if *pct != 25.0 {
		t.Errorf("expected 25.0, got %v", *pct)
	}

	if stats.PercentChange(500, 0) != nil {
		t.Error("expected nil on a zero baseline")
	}
}

func TestAvailableMonths(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	months := stats.AvailableMonths(now)
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	if months[0].Value != "2025-08" {
		t.Errorf("expected newest month 2025-08, got %q", months[0].Value)
	}
	if months[0].Label != "Agustus 2025" {
		t.Errorf("expected label 'Agustus 2025', got %q", months[0].Label)
	}
	if months[11].Value != "2024-09" {
		t.Errorf("expected oldest month 2024-09, got %q", months[11].Value)
	}
}

func TestBuildComparison_Totals(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	curExpenses := []domain.Transaction{tx(1, 10, 200000, "2025-09-01")}
	curIncome := []domain.Transaction{tx(2, 20, 500000, "2025-09-01")}
	pastExpenses := []domain.Transaction{tx(3, 10, 100000, "2025-08-10")}
	pastIncome := []domain.Transaction{tx(4, 20, 400000, "2025-08-10")}

	r := stats.BuildComparison(curExpenses, curIncome, pastExpenses, pastIncome, now, past)

	if r.Current.Expense != 200000 || r.Current.Income != 500000 || r.Current.Net != 300000 {
		t.Errorf("unexpected current totals: %+v", r.Current)
	}
	if r.Comparison.Net != 300000 {
		t.Errorf("expected comparison net 300000, got %v", r.Comparison.Net)
	}
	if r.NetChange != 0 {
		t.Errorf("expected net change 0, got %v", r.NetChange)
	}
	if r.ExpenseChangePct == nil || *r.ExpenseChangePct != 100.0 {
		t.Errorf("expected expense change 100%%, got %v", r.ExpenseChangePct)
	}
	if r.IncomeChangePct == nil || *r.IncomeChangePct != 25.0 {
		t.Errorf("expected income change 25%%, got %v", r.IncomeChangePct)
	}
}

func TestBuildComparison_Insights(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	// Expenses up, income down: net drops, warning expected.
	r := stats.BuildComparison(
		[]domain.Transaction{tx(1, 10, 300000, "2025-09-01")},
		[]domain.Transaction{tx(2, 20, 100000, "2025-09-01")},
		[]domain.Transaction{tx(3, 10, 200000, "2025-08-10")},
		[]domain.Transaction{tx(4, 20, 400000, "2025-08-10")},
		now, past,
	)

	texts := make([]string, 0, len(r.Insights))
	for _, in := range r.Insights {
		texts = append(texts, in.Text)
	}
	joined := strings.Join(texts, "|")

	if !strings.Contains(joined, "Pengeluaran naik 50.0%") {
		t.Errorf("missing expense insight in %q", joined)
	}
	if !strings.Contains(joined, "Pemasukan turun 75.0%") {
		t.Errorf("missing income insight in %q", joined)
	}
	if !strings.Contains(joined, "Net cash flow menurun Rp400.000") {
		t.Errorf("missing net cash flow insight in %q", joined)
	}
	if !strings.Contains(joined, "Perhatikan pengeluaran Anda bulan ini") {
		t.Errorf("missing warning insight in %q", joined)
	}
}

func TestBuildComparison_PieFiltersZeroSlices(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	r := stats.BuildComparison(
		[]domain.Transaction{tx(1, 10, 100000, "2025-09-01")},
		nil, nil, nil,
		now, past,
	)

	if len(r.Pie) != 1 {
		t.Fatalf("expected a single pie slice, got %d", len(r.Pie))
	}
	if r.Pie[0].Name != "Pengeluaran Bulan Ini" {
		t.Errorf("unexpected slice name %q", r.Pie[0].Name)
	}
	if r.Pie[0].Color != "#FF6B6B" {
		t.Errorf("unexpected slice color %q", r.Pie[0].Color)
	}
}

func TestBuildComparison_BarDataset(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	r := stats.BuildComparison(nil, nil, nil, nil, now, past)
	if r.Bar == nil {
		t.Fatal("expected a bar dataset")
	}
	want := []string{"Pengeluaran", "Pemasukan", "Net"}
	for i, l := range want {
		if r.Bar.Labels[i] != l {
			t.Errorf("bar label %d: expected %q, got %q", i, l, r.Bar.Labels[i])
		}
	}
	if r.Bar.Legend[0] != "September 2025" || r.Bar.Legend[1] != "Juli 2025" {
		t.Errorf("unexpected legend: %v", r.Bar.Legend)
	}
}
