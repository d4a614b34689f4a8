package stats_test

import (
	"testing"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
	"github.com/catatuang/catatuang-gateway/internal/stats"
)

func tx(id, categoryID int64, amount float64, date string) domain.Transaction {
	return domain.Transaction{
		ID:              id,
		CategoryID:      categoryID,
		Amount:          domain.Amount(amount),
		TransactionDate: date,
		Type:            domain.TypeExpense,
	}
}

func TestCategoryTotals_SortedByAmountDesc(t *testing.T) {
	txns := []domain.Transaction{
		tx(1, 10, 50000, "2025-08-01"),
		tx(2, 20, 150000, "2025-08-02"),
		tx(3, 10, 25000, "2025-08-03"),
		tx(4, 30, 100000, "2025-08-04"),
	}
	cats := []domain.Category{
		{ID: 10, Name: "Makanan"},
		{ID: 20, Name: "Transportasi"},
		{ID: 30, Name: "Hiburan"},
	}

	slices := stats.CategoryTotals(txns, cats)
	if len(slices) != 3 {
		t.Fatalf("expected 3 slices, got %d", len(slices))
	}

	wantNames := []string{"Transportasi", "Hiburan", "Makanan"}
	wantAmounts := []float64{150000, 100000, 75000}
	for i, s := range slices {
		if s.Name != wantNames[i] {
			t.Errorf("slice %d: expected name %q, got %q", i, wantNames[i], s.Name)
		}
		if s.Amount != wantAmounts[i] {
			t.Errorf("slice %d: expected amount %v, got %v", i, wantAmounts[i], s.Amount)
		}
		if s.Color != stats.ColorForRank(i) {
			t.Errorf("slice %d: expected color %q, got %q", i, stats.ColorForRank(i), s.Color)
		}
	}
}

func TestCategoryTotals_UnknownCategoryFallsBack(t *testing.T) {
	txns := []domain.Transaction{tx(1, 999, 10000, "2025-08-01")}

	slices := stats.CategoryTotals(txns, nil)
	if len(slices) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(slices))
	}
	if slices[0].Name != "Lainnya" {
		t.Errorf("expected fallback name Lainnya, got %q", slices[0].Name)
	}
}

func TestCategoryTotals_IgnoresNonPositiveAmounts(t *testing.T) {
	txns := []domain.Transaction{
		tx(1, 10, 0, "2025-08-01"),
		tx(2, 20, -500, "2025-08-01"),
	}
	slices := stats.CategoryTotals(txns, nil)
	if len(slices) != 0 {
		t.Fatalf("expected no slices, got %d", len(slices))
	}
}

func TestColorForRank_CyclesPalette(t *testing.T) {
	if stats.ColorForRank(0) != stats.Palette[0] {
		t.Errorf("rank 0 should get the first palette color")
	}
	if stats.ColorForRank(10) != stats.Palette[0] {
		t.Errorf("rank 10 should cycle back to the first color")
	}
	if stats.ColorForRank(13) != stats.Palette[3] {
		t.Errorf("rank 13 should cycle to the fourth color")
	}
}

func TestBuildPieDataset_PercentageLegend(t *testing.T) {
	slices := []domain.ChartSlice{
		{Name: "Makanan", Amount: 75, Color: "#FF6384"},
		{Name: "Transportasi", Amount: 25, Color: "#36A2EB"},
	}

	ds := stats.BuildPieDataset(slices)
	if len(ds.Legend) != 2 {
		t.Fatalf("expected 2 legend entries, got %d", len(ds.Legend))
	}
	if ds.Legend[0] != "Makanan (75.0%)" {
		t.Errorf("expected legend 'Makanan (75.0%%)', got %q", ds.Legend[0])
	}
	if ds.Legend[1] != "Transportasi (25.0%)" {
		t.Errorf("expected legend 'Transportasi (25.0%%)', got %q", ds.Legend[1])
	}
	if len(ds.Data) != 2 || ds.Data[0] != 75 || ds.Data[1] != 25 {
		t.Errorf("unexpected data values: %v", ds.Data)
	}
}

func TestBuildPieDataset_ZeroTotalSkipsPercentages(t *testing.T) {
	ds := stats.BuildPieDataset([]domain.ChartSlice{{Name: "Makanan", Amount: 0}})
	if ds.Legend[0] != "Makanan" {
		t.Errorf("expected plain name legend for zero total, got %q", ds.Legend[0])
	}
}

func TestDailySeries_WeekWindow(t *testing.T) {
	today := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		tx(1, 10, 10000, "2025-08-31"),
		tx(2, 10, 5000, "2025-08-25"),
		tx(3, 10, 7000, "2025-08-20"), // outside the window
	}

	series := stats.DailySeries(txns, stats.PeriodWeek, today)
	if len(series.Labels) != 7 {
		t.Fatalf("expected 7 labels, got %d", len(series.Labels))
	}
	if len(series.Values) != 7 {
		t.Fatalf("expected 7 values, got %d", len(series.Values))
	}
	if series.Labels[0] != "25/08" {
		t.Errorf("expected first label 25/08, got %q", series.Labels[0])
	}
	if series.Labels[6] != "31/08" {
		t.Errorf("expected last label 31/08, got %q", series.Labels[6])
	}
	if series.Values[0] != 5000 {
		t.Errorf("expected first value 5000, got %v", series.Values[0])
	}
	if series.Values[6] != 10000 {
		t.Errorf("expected last value 10000, got %v", series.Values[6])
	}
}

func TestDailySeries_MonthWindow(t *testing.T) {
	today := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	series := stats.DailySeries([]domain.Transaction{tx(1, 10, 100, "2025-08-31")}, stats.PeriodMonth, today)
	if len(series.Labels) != 30 {
		t.Fatalf("expected 30 labels, got %d", len(series.Labels))
	}
	if series.Labels[29] != "31" {
		t.Errorf("expected last label 31, got %q", series.Labels[29])
	}
}

func TestDailySeries_EmptyCollapsesToSingleZero(t *testing.T) {
	today := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	series := stats.DailySeries(nil, stats.PeriodWeek, today)
	if len(series.Labels) != 7 {
		t.Errorf("labels should keep the full window, got %d", len(series.Labels))
	}
	if len(series.Values) != 1 || series.Values[0] != 0 {
		t.Errorf("expected single zero value, got %v", series.Values)
	}
}

func TestFetchRange(t *testing.T) {
	today := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	start, end := stats.FetchRange(stats.PeriodWeek, today)
	if start != "2025-08-25" || end != "2025-08-31" {
		t.Errorf("week range: got %s..%s", start, end)
	}

	start, end = stats.FetchRange(stats.PeriodMonth, today)
	if start != "2025-08-01" || end != "2025-08-31" {
		t.Errorf("month range: got %s..%s", start, end)
	}
}

func TestMonthRange_February(t *testing.T) {
	start, end := stats.MonthRange(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	if start != "2024-02-01" || end != "2024-02-29" {
		t.Errorf("leap february: got %s..%s", start, end)
	}
}
