// Package expiry converts option expiry dates into the year fractions the
// pricing formula consumes.
package expiry

import (
	"errors"
	"time"

	"github.com/scmhub/calendar"
)

// ErrNotInFuture is returned when an expiry date is not strictly after the
// reference time; such a date cannot satisfy the T > 0 pricing invariant.
var ErrNotInFuture = errors.New("expiry is not in the future")

const hoursPerYear = 24 * 365

var nyse = calendar.XNYS()

// YearsUntil returns the time between now and expiry as a fraction of a
// 365-day year.
func YearsUntil(expiry, now time.Time) (float64, error) {
	if !expiry.After(now) {
		return 0, ErrNotInFuture
	}
	return expiry.Sub(now).Hours() / hoursPerYear, nil
}

// TradingDays counts NYSE sessions strictly after from, up to and including
// to. Weekends and exchange holidays are skipped. Informational only; the
// pricing formula itself works on calendar-time year fractions.
func TradingDays(from, to time.Time) int {
	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, d.Location())
		if nyse.IsBusinessDay(noon) {
			days++
		}
	}
	return days
}
