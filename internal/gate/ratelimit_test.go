// ABOUTME: Tests for the monthly rate limiter.
// ABOUTME: Covers ceiling denial, lazy month rollover, and confirm-only counting.
package gate

import (
	"testing"
	"time"

	"github.com/hoshiko-bot/hoshiko/internal/clock"
	"github.com/hoshiko-bot/hoshiko/internal/models"
)

func fixedTime(year int, month time.Month) clock.Clock {
	return clock.Fixed(time.Date(year, month, 15, 12, 0, 0, 0, time.UTC))
}

func TestTryReserveBelowCeiling(t *testing.T) {
	r := NewRateLimiter(500, models.MonthlyCounter{MonthKey: "2025-01", Count: 10}, fixedTime(2025, time.January))

	if !r.TryReserve() {
		t.Fatal("expected reservation below ceiling")
	}
	if r.Counter().Count != 10 {
		t.Errorf("reservation must not mutate count, got %d", r.Counter().Count)
	}
}

func TestTryReserveAtCeilingDenied(t *testing.T) {
	r := NewRateLimiter(500, models.MonthlyCounter{MonthKey: "2025-01", Count: 500}, fixedTime(2025, time.January))

	if r.TryReserve() {
		t.Fatal("expected denial at ceiling")
	}
	if r.Counter().Count != 500 {
		t.Errorf("denial must not mutate count, got %d", r.Counter().Count)
	}
}

func TestMonthRolloverResetsCounter(t *testing.T) {
	r := NewRateLimiter(500, models.MonthlyCounter{MonthKey: "2025-01", Count: 500}, fixedTime(2025, time.February))

	if !r.TryReserve() {
		t.Fatal("expected reservation after month rollover")
	}
	counter := r.Counter()
	if counter.MonthKey != "2025-02" {
		t.Errorf("expected month key 2025-02, got %s", counter.MonthKey)
	}
	if counter.Count != 0 {
		t.Errorf("expected count reset to 0, got %d", counter.Count)
	}
}

func TestConfirmIncrementsOnce(t *testing.T) {
	r := NewRateLimiter(500, models.MonthlyCounter{MonthKey: "2025-01", Count: 3}, fixedTime(2025, time.January))

	counter := r.Confirm()
	if counter.Count != 4 {
		t.Errorf("expected count 4 after confirm, got %d", counter.Count)
	}
	if r.Counter().Count != 4 {
		t.Errorf("limiter state out of sync: %d", r.Counter().Count)
	}
}

func TestConfirmAfterRollover(t *testing.T) {
	r := NewRateLimiter(500, models.MonthlyCounter{MonthKey: "2025-01", Count: 499}, fixedTime(2025, time.February))

	counter := r.Confirm()
	if counter.MonthKey != "2025-02" || counter.Count != 1 {
		t.Errorf("expected {2025-02, 1}, got %+v", counter)
	}
}

func TestMonthKeyFormat(t *testing.T) {
	got := models.MonthKey(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	if got != "2025-03" {
		t.Errorf("expected 2025-03, got %s", got)
	}
}
