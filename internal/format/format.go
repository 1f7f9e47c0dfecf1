// Package format holds the display helpers shared by the table and chart
// views. Amounts are plain integers in display units; the caller appends the
// currency unit.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// GroupedInt renders n with thousands separators: 1234567 -> "1,234,567".
func GroupedInt(n int) string {
	return printer.Sprintf("%d", n)
}

// DayLabel is the short chart-axis form, e.g. "Jan 5".
func DayLabel(t time.Time) string {
	return t.Format("Jan 2")
}

// DateUS is the month-first form used by the customers view.
func DateUS(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// DateGB is the day-first form used by the transactions view.
func DateGB(t time.Time) string {
	return t.Format("02 Jan 2006")
}
