package stats

import (
	"fmt"
	"strings"
	"time"
)

// Indonesian calendar names, used for chart legends and group labels.
var monthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var weekdayNames = [7]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

// MonthLabel renders t as "Agustus 2025".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// longDateLabel renders t as "Senin, 01 September 2025".
func longDateLabel(t time.Time) string {
	return fmt.Sprintf("%s, %02d %s %d",
		weekdayNames[t.Weekday()], t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatIDR renders a rupiah amount with no decimals: Rp1.234.567.
// Negative values keep the sign in front of the currency symbol.
func FormatIDR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	// Round to whole rupiah.
	n := int64(amount + 0.5)

	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}

// parseDay extracts the calendar day from an upstream date string, which
// may be "2006-01-02", a MySQL datetime, or full RFC 3339.
func parseDay(s string) (time.Time, bool) {
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Truncate(24 * time.Hour), true
	}
	return time.Time{}, false
}

// sameDay reports whether two times fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
