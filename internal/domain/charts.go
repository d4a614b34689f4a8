package domain

// Chart-ready shapes returned by the statistics endpoints. Field names
// mirror what the mobile chart components consume directly.

// ChartSlice is one pie chart segment with its legend styling.
type ChartSlice struct {
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	Color           string  `json:"color"`
	LegendFontColor string  `json:"legendFontColor"`
	LegendFontSize  int     `json:"legendFontSize"`
}

// PieDataset is the slice set plus parallel arrays for chart libraries that
// want labels/data/colors separately. Legend carries percentage-of-total.
type PieDataset struct {
	Slices []ChartSlice `json:"slices"`
	Labels []string     `json:"labels"`
	Data   []float64    `json:"data"`
	Colors []string     `json:"colors"`
	Legend []string     `json:"legend"`
}

// TimeSeries is a daily line chart: one label and one value per day.
type TimeSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// DateGroup is one calendar day of transactions for list display,
// labelled "Hari Ini", "Kemarin" or a long Indonesian date.
type DateGroup struct {
	Label        string        `json:"label"`
	Date         string        `json:"date"`
	Transactions []Transaction `json:"transactions"`
}

// MonthOption is one entry of the comparison month picker.
type MonthOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// WindowTotals are the summed totals of one comparison window.
type WindowTotals struct {
	Month   string  `json:"month"`
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// Insight is a qualitative takeaway derived from a comparison.
// Tone is "positive", "negative" or "warning".
type Insight struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// BarDataset compares the two windows over [Pengeluaran, Pemasukan, Net].
type BarDataset struct {
	Labels   []string    `json:"labels"`
	Current  []float64   `json:"current"`
	Previous []float64   `json:"previous"`
	Legend   [2]string   `json:"legend"`
}

// ComparisonResult is the full month-over-month comparison. The percent
// change fields are nil when the comparison window total is zero, in which
// case no meaningful percentage exists.
type ComparisonResult struct {
	Current          WindowTotals `json:"current"`
	Comparison       WindowTotals `json:"comparison"`
	ExpenseChangePct *float64     `json:"expense_change_pct"`
	IncomeChangePct  *float64     `json:"income_change_pct"`
	NetChange        float64      `json:"net_change"`
	Insights         []Insight    `json:"insights"`
	Pie              []ChartSlice `json:"pie"`
	Bar              *BarDataset  `json:"bar"`
}

// StatisticsOverview bundles everything the statistics screen needs in
// one response: category breakdown plus the daily series.
type StatisticsOverview struct {
	Type      string     `json:"type"`
	Period    string     `json:"period"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Total     float64    `json:"total"`
	Pie       PieDataset `json:"pie"`
	Series    TimeSeries `json:"series"`
}
