package expiry

import (
	"errors"
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestYearsUntil(t *testing.T) {
	now := date(2026, time.January, 5)

	got, err := YearsUntil(now.AddDate(0, 0, 365), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("365 days = %v years, want 1", got)
	}

	got, err = YearsUntil(now.Add(12*time.Hour), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got <= 0 {
		t.Errorf("half day = %v years, want > 0", got)
	}
}

func TestYearsUntil_NotInFuture(t *testing.T) {
	now := date(2026, time.January, 5)

	if _, err := YearsUntil(now, now); !errors.Is(err, ErrNotInFuture) {
		t.Errorf("same instant: got %v, want ErrNotInFuture", err)
	}
	if _, err := YearsUntil(now.AddDate(0, 0, -1), now); !errors.Is(err, ErrNotInFuture) {
		t.Errorf("past date: got %v, want ErrNotInFuture", err)
	}
}

func TestTradingDays_SkipsWeekend(t *testing.T) {
	// Friday 2026-01-09 to Monday 2026-01-12: only Monday is a session.
	got := TradingDays(date(2026, time.January, 9), date(2026, time.January, 12))
	if got != 1 {
		t.Errorf("got %d trading days, want 1", got)
	}
}

func TestTradingDays_FullWeek(t *testing.T) {
	// Monday 2026-01-05 to Friday 2026-01-09: Tue through Fri.
	got := TradingDays(date(2026, time.January, 5), date(2026, time.January, 9))
	if got != 4 {
		t.Errorf("got %d trading days, want 4", got)
	}
}

func TestTradingDays_SkipsHoliday(t *testing.T) {
	// Friday 2026-01-16 to Tuesday 2026-01-20 spans MLK day (Monday the
	// 19th), so only Tuesday counts.
	got := TradingDays(date(2026, time.January, 16), date(2026, time.January, 20))
	if got != 1 {
		t.Errorf("got %d trading days, want 1", got)
	}
}
