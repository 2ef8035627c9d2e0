package schedule

import (
	"testing"
	"time"
)

func TestResolveDueDateClampsShortMonths(t *testing.T) {
	got := ResolveDueDate(2025, time.February, 31)
	if got.Day() != 28 || got.Month() != time.February {
		t.Fatalf("expected 2025-02-28 got %s", got.Format("2006-01-02"))
	}
}

func TestResolveDueDateLeapYear(t *testing.T) {
	got := ResolveDueDate(2024, time.February, 31)
	if got.Day() != 29 {
		t.Fatalf("expected 2024-02-29 got %s", got.Format("2006-01-02"))
	}
}

func TestResolveDueDateExactFit(t *testing.T) {
	got := ResolveDueDate(2025, time.April, 30)
	if got.Day() != 30 || got.Month() != time.April {
		t.Fatalf("expected 2025-04-30 got %s", got.Format("2006-01-02"))
	}
	mid := ResolveDueDate(2025, time.July, 15)
	if mid.Day() != 15 {
		t.Fatalf("expected day 15 got %d", mid.Day())
	}
}
